package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return NewService("test-secret-key-at-least-32-chars", "test-issuer", time.Hour)
}

func TestIssueAndVerify(t *testing.T) {
	svc := newTestService()
	userID := uuid.New()

	signed, expiresAt, err := svc.Issue(userID)
	require.NoError(t, err)
	assert.NotEmpty(t, signed)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	got, err := svc.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestNewService_DefaultTTL(t *testing.T) {
	svc := NewService("secret", "issuer", 0)
	assert.Equal(t, 24*time.Hour, svc.ttl)
}

func TestVerify_Expired(t *testing.T) {
	svc := newTestService()
	issuedAt := time.Now().Add(-2 * time.Hour)
	svc.now = func() time.Time { return issuedAt }

	signed, _, err := svc.Issue(uuid.New())
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Verify(signed)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	signed, _, err := newTestService().Issue(uuid.New())
	require.NoError(t, err)

	other := NewService("another-secret-key-of-enough-size", "test-issuer", time.Hour)
	_, err = other.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Malformed(t *testing.T) {
	_, err := newTestService().Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = newTestService().Verify("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RejectsNoneAlgorithm(t *testing.T) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: uuid.NewString(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newTestService().Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_MissingUserID(t *testing.T) {
	svc := newTestService()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(svc.secret)
	require.NoError(t, err)

	_, err = svc.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
