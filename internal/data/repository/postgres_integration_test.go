//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"movie-social/pkg/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

// newPostgresRepository starts a throwaway postgres container and applies the schema.
func newPostgresRepository(t *testing.T) *Repository {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("movie_social_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	db := database.NewDB(pool)
	require.NoError(t, EnsureSchema(ctx, db))
	// applying twice must be harmless
	require.NoError(t, EnsureSchema(ctx, db))

	return NewRepository(db, zap.NewNop())
}

func TestPostgres_Users(t *testing.T) {
	runUserScenario(t, newPostgresRepository(t))
}

func TestPostgres_Reviews(t *testing.T) {
	runReviewScenario(t, newPostgresRepository(t))
}

func TestPostgres_DeleteUserCascades(t *testing.T) {
	runDeleteUserScenario(t, newPostgresRepository(t))
}

func TestPostgres_Videos(t *testing.T) {
	runVideoScenario(t, newPostgresRepository(t))
}
