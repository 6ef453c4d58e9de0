package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"movie-social/pkg/token"
	"movie-social/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func whoami(w http.ResponseWriter, r *http.Request) {
	if id, ok := utils.GetUserIDFromContext(r.Context()); ok {
		w.Write([]byte(id.String()))
		return
	}
	w.Write([]byte("anonymous"))
}

func TestAuthJWT(t *testing.T) {
	tokens := token.NewService("test-secret", "test", time.Hour)
	userID := uuid.New()
	valid, _, err := tokens.Issue(userID)
	require.NoError(t, err)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &token.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
		UserID: userID.String(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	h := AuthJWT(tokens, zap.NewNop())(http.HandlerFunc(whoami))

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{name: "valid token", header: "Bearer " + valid, status: http.StatusOK, body: userID.String()},
		{name: "lowercase scheme", header: "bearer " + valid, status: http.StatusOK, body: userID.String()},
		{name: "missing header", header: "", status: http.StatusUnauthorized, body: "Unauthenticated"},
		{name: "scheme without token", header: "Bearer ", status: http.StatusUnauthorized, body: "Unauthenticated"},
		{name: "wrong scheme", header: "Basic abc", status: http.StatusUnauthorized, body: "Unauthenticated"},
		{name: "garbage token", header: "Bearer abc.def.ghi", status: http.StatusForbidden, body: "Invalid or expired token"},
		{name: "expired token", header: "Bearer " + expired, status: http.StatusForbidden, body: "Invalid or expired token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.body)
		})
	}
}

func TestOptionalAuthJWT(t *testing.T) {
	tokens := token.NewService("test-secret", "test", time.Hour)
	userID := uuid.New()
	valid, _, err := tokens.Issue(userID)
	require.NoError(t, err)

	h := OptionalAuthJWT(tokens, zap.NewNop())(http.HandlerFunc(whoami))

	for header, want := range map[string]string{
		"":                 "anonymous",
		"Bearer " + valid:  userID.String(),
		"Bearer not-a-jwt": "anonymous",
	} {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, want, rec.Body.String())
	}
}

func TestRecover(t *testing.T) {
	h := Recover(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Internal server error")
}

func TestCORS(t *testing.T) {
	called := false
	h := CORS()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/reviews", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.False(t, called)
}

func TestMetrics(t *testing.T) {
	m := NewMetrics("test")
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/reviews/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Handle("/metrics", m.Handler())

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/reviews/123", nil))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `test_http_requests_total{method="GET",route="/api/reviews/{id}",status="404"} 1`), body)
	assert.Contains(t, body, "test_http_request_duration_seconds")
}
