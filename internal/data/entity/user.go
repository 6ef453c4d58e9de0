package entity

import (
	"slices"

	"github.com/google/uuid"
)

const DefaultDescription = "Hello there"

type User struct {
	Base
	Username        string      `db:"username"`
	Email           string      `db:"email"`
	PasswordHash    string      `db:"password"`
	ProfileImageURL string      `db:"profile_image_url"`
	Description     string      `db:"description"`
	Reviews         []uuid.UUID `db:"reviews"`
	// ConnectedTo holds users this user follows; MyConnections holds users following this user.
	ConnectedTo   []uuid.UUID `db:"connected_to"`
	MyConnections []uuid.UUID `db:"my_connections"`
	Videos        []uuid.UUID `db:"videos"`
}

// IsConnectedTo reports whether u follows target.
func (u *User) IsConnectedTo(target uuid.UUID) bool {
	return slices.Contains(u.ConnectedTo, target)
}

// FeedAuthors returns the union of both connection lists without duplicates.
func (u *User) FeedAuthors() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(u.ConnectedTo)+len(u.MyConnections))
	authors := make([]uuid.UUID, 0, len(u.ConnectedTo)+len(u.MyConnections))
	for _, list := range [][]uuid.UUID{u.MyConnections, u.ConnectedTo} {
		for _, id := range list {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			authors = append(authors, id)
		}
	}
	return authors
}
