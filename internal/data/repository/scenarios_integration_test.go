//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"movie-social/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The scenarios below run unchanged against every storage backend.

func seedUser(t *testing.T, repo *Repository, name string) *entity.User {
	t.Helper()
	now := time.Now().UTC()
	user := &entity.User{
		Base:         entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Username:     name,
		Email:        name + "@example.com",
		PasswordHash: "hash",
		Description:  entity.DefaultDescription,
	}
	require.NoError(t, repo.User.Create(context.Background(), user))
	return user
}

func seedReview(t *testing.T, repo *Repository, author *entity.User, title string, at time.Time) *entity.Review {
	t.Helper()
	review := &entity.Review{
		Base:       entity.Base{ID: uuid.New(), CreatedAt: at, UpdatedAt: at},
		AuthorID:   author.ID,
		AuthorName: author.Username,
		MovieTitle: title,
		ReviewText: "worth it",
		Rating:     8,
		Tags:       []string{"drama"},
	}
	require.NoError(t, repo.Review.Create(context.Background(), review))
	return review
}

func runUserScenario(t *testing.T, repo *Repository) {
	ctx := context.Background()

	alice := seedUser(t, repo, "alice")
	bob := seedUser(t, repo, "bob")

	dup := &entity.User{Base: entity.Base{ID: uuid.New()}, Username: "alice2", Email: alice.Email, PasswordHash: "x"}
	assert.ErrorIs(t, repo.User.Create(ctx, dup), ErrDuplicate)

	found, err := repo.User.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, alice.ID, found.ID)

	missing, err := repo.User.FindByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)

	connected, err := repo.User.ToggleConnection(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, connected)

	alice, _ = repo.User.FindByID(ctx, alice.ID)
	bob, _ = repo.User.FindByID(ctx, bob.ID)
	assert.Equal(t, []uuid.UUID{bob.ID}, alice.ConnectedTo)
	assert.Equal(t, []uuid.UUID{alice.ID}, bob.MyConnections)

	connected, err = repo.User.ToggleConnection(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, connected)

	alice, _ = repo.User.FindByID(ctx, alice.ID)
	bob, _ = repo.User.FindByID(ctx, bob.ID)
	assert.Empty(t, alice.ConnectedTo)
	assert.Empty(t, bob.MyConnections)

	_, err = repo.User.ToggleConnection(ctx, alice.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	users, err := repo.User.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func runReviewScenario(t *testing.T, repo *Repository) {
	ctx := context.Background()

	alice := seedUser(t, repo, "alice")
	bob := seedUser(t, repo, "bob")
	base := time.Now().UTC().Add(-time.Hour)

	first := seedReview(t, repo, alice, "Heat", base)
	second := seedReview(t, repo, bob, "Alien", base.Add(time.Minute))

	again := &entity.Review{Base: entity.Base{ID: uuid.New()}, AuthorID: alice.ID, AuthorName: "alice", MovieTitle: "Heat", ReviewText: "x", Rating: 5}
	assert.ErrorIs(t, repo.Review.Create(ctx, again), ErrDuplicate)

	alice, _ = repo.User.FindByID(ctx, alice.ID)
	assert.Equal(t, []uuid.UUID{first.ID}, alice.Reviews)

	all, err := repo.Review.List(ctx, ReviewFilter{}, 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first")

	filter := ReviewFilter{AuthorIDs: []uuid.UUID{alice.ID}}
	mine, err := repo.Review.List(ctx, filter, 10, 0)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, first.ID, mine[0].ID)

	count, err := repo.Review.Count(ctx, filter)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	count, err = repo.Review.Count(ctx, ReviewFilter{AuthorIDs: []uuid.UUID{}})
	require.NoError(t, err)
	assert.Zero(t, count)

	liked, total, err := repo.Review.ToggleLike(ctx, first.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 1, total)

	liked, total, err = repo.Review.ToggleLike(ctx, first.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, 0, total)

	_, _, err = repo.Review.ToggleLike(ctx, uuid.New(), bob.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.Review.Delete(ctx, first.ID, bob.ID), ErrNotFound)
	require.NoError(t, repo.Review.Delete(ctx, first.ID, alice.ID))

	gone, err := repo.Review.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	alice, _ = repo.User.FindByID(ctx, alice.ID)
	assert.Empty(t, alice.Reviews)

	orphan := &entity.Review{Base: entity.Base{ID: uuid.New()}, AuthorID: uuid.New(), AuthorName: "ghost", MovieTitle: "Heat", ReviewText: "x", Rating: 5}
	assert.Error(t, repo.Review.Create(ctx, orphan))
}

func runDeleteUserScenario(t *testing.T, repo *Repository) {
	ctx := context.Background()

	alice := seedUser(t, repo, "alice")
	bob := seedUser(t, repo, "bob")
	review := seedReview(t, repo, alice, "Heat", time.Now().UTC())
	bobReview := seedReview(t, repo, bob, "Alien", time.Now().UTC())

	_, err := repo.User.ToggleConnection(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	_, _, err = repo.Review.ToggleLike(ctx, bobReview.ID, alice.ID)
	require.NoError(t, err)

	require.NoError(t, repo.User.Delete(ctx, alice.ID))
	assert.ErrorIs(t, repo.User.Delete(ctx, alice.ID), ErrNotFound)

	gone, err := repo.Review.FindByID(ctx, review.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	bob, _ = repo.User.FindByID(ctx, bob.ID)
	assert.Empty(t, bob.ConnectedTo)

	kept, err := repo.Review.FindByID(ctx, bobReview.ID)
	require.NoError(t, err)
	require.NotNil(t, kept)
	assert.Empty(t, kept.Likes)
}

func runVideoScenario(t *testing.T, repo *Repository) {
	ctx := context.Background()

	alice := seedUser(t, repo, "alice")
	now := time.Now().UTC()

	for _, title := range []string{"one", "two", "three"} {
		video := &entity.Video{
			Base:             entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
			UploaderID:       alice.ID,
			UploaderUsername: alice.Username,
			Title:            title,
			VideoURL:         "/uploads/videos/" + title + ".mp4",
			ThumbnailURL:     "/uploads/thumbnails/" + title + ".png",
		}
		require.NoError(t, repo.Video.Create(ctx, video))

		found, err := repo.Video.FindByID(ctx, video.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, title, found.Title)
		assert.NotNil(t, found.Comments)
	}

	videos, err := repo.Video.Random(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, videos, 2)

	videos, err = repo.Video.Random(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, videos, 3)

	alice, _ = repo.User.FindByID(ctx, alice.ID)
	assert.Len(t, alice.Videos, 3)
}
