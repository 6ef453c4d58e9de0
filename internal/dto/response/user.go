package response

import (
	"time"

	"movie-social/internal/data/entity"

	"github.com/google/uuid"
)

type UserResponse struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	ProfileImageURL string    `json:"profileImageUrl"`
	Description     string    `json:"description"`
	Reviews         []string  `json:"reviews"`
	ConnectedTo     []string  `json:"connectedTo"`
	MyConnections   []string  `json:"myConnections"`
	Videos          []string  `json:"videos"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type UserSummary struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	ProfileImageURL string `json:"profileImageUrl"`
}

type ConnectionResponse struct {
	Connected    bool   `json:"connected"`
	ConnectingID string `json:"connectingId"`
}

type ProfileImageResponse struct {
	ProfileImageURL string `json:"profileImageUrl"`
}

// UserToResponse never carries the password hash.
func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:              user.ID.String(),
		Username:        user.Username,
		Email:           user.Email,
		ProfileImageURL: user.ProfileImageURL,
		Description:     user.Description,
		Reviews:         IDStrings(user.Reviews),
		ConnectedTo:     IDStrings(user.ConnectedTo),
		MyConnections:   IDStrings(user.MyConnections),
		Videos:          IDStrings(user.Videos),
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.UpdatedAt,
	}
}

func IDStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
