package request

type ToggleConnectionRequest struct {
	ConnectingID string `json:"connectingId" validate:"required"`
}

// UpdateUserRequest is a partial update; nil fields are left unchanged.
type UpdateUserRequest struct {
	Username    *string `json:"username,omitempty" validate:"omitempty,min=3,max=50"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}
