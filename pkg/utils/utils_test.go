package utils

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret123", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, "secret123", hash)
	assert.True(t, CheckPasswordHash("secret123", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestHashPassword_InvalidCostFallsBack(t *testing.T) {
	hash, err := HashPassword("secret123", 0)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestAbsoluteURL(t *testing.T) {
	tests := []struct {
		name, base, path, want string
	}{
		{"relative", "http://host", "uploads/a.png", "http://host/uploads/a.png"},
		{"leading slash", "http://host/", "/uploads/a.png", "http://host/uploads/a.png"},
		{"absolute", "http://host", "https://cdn/a.png", "https://cdn/a.png"},
		{"empty", "http://host", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AbsoluteURL(tt.base, tt.path))
		})
	}
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"drama", "sci-fi"}, SplitTags(" drama, ,sci-fi ,"))
	assert.Empty(t, SplitTags(""))
}

func TestPagination(t *testing.T) {
	assert.Equal(t, 20, CalculateOffset(2, 20))
	assert.Equal(t, 0, CalculateOffset(0, 20))
	assert.Equal(t, MaxOffset, CalculateOffset(math.MaxInt, 100))
	assert.Equal(t, 3, CalculateTotalPages(41, 20))
	assert.Equal(t, 0, CalculateTotalPages(0, 20))
	assert.Equal(t, 10, ClampLimit(0, 10, 100))
	assert.Equal(t, 100, ClampLimit(500, 10, 100))
	assert.Equal(t, 7, ClampLimit(7, 10, 100))
}

func TestUserContext(t *testing.T) {
	_, ok := GetUserIDFromContext(context.Background())
	assert.False(t, ok)

	id := uuid.New()
	got, ok := GetUserIDFromContext(SetUserContext(context.Background(), id))
	assert.True(t, ok)
	assert.Equal(t, id, got)
}

func TestValidateStruct(t *testing.T) {
	type payload struct {
		Email  string `json:"email" validate:"required,email"`
		Rating int    `json:"rating" validate:"min=1,max=10"`
	}

	errs := ValidateStruct(payload{Email: "nope", Rating: 11})

	assert.Equal(t, "Invalid email format", errs["email"])
	assert.Equal(t, "Must be at most 10", errs["rating"])
	assert.Equal(t, "email: Invalid email format; rating: Must be at most 10", FormatValidationErrors(errs))
	assert.Nil(t, ValidateStruct(payload{Email: "a@b.co", Rating: 5}))
}
