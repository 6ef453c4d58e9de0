package middleware

import (
	"errors"
	"net/http"
	"strings"

	"movie-social/pkg/token"
	"movie-social/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenVerifier resolves a bearer token to the user it was issued for.
type TokenVerifier interface {
	Verify(tokenString string) (uuid.UUID, error)
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// ok is false when the header is absent or carries no token.
func bearerToken(r *http.Request) (string, bool) {
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	if authHeader == "" {
		return "", false
	}

	scheme, tok, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	tok = strings.TrimSpace(tok)
	return tok, tok != ""
}

// AuthJWT rejects requests without a valid bearer token and stores the caller id in the context.
func AuthJWT(verifier TokenVerifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok, ok := bearerToken(r)
			if !ok {
				utils.ResponseUnauthorized(w, "Unauthenticated")
				return
			}

			userID, err := verifier.Verify(tok)
			if err != nil {
				logger.Warn("Rejected bearer token",
					zap.String("path", r.URL.Path),
					zap.Bool("expired", errors.Is(err, token.ErrExpiredToken)),
					zap.Error(err))
				utils.ResponseForbidden(w, "Invalid or expired token")
				return
			}

			ctx := utils.SetUserContext(r.Context(), userID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthJWT identifies the caller when a valid token is present and lets
// every other request through anonymously.
func OptionalAuthJWT(verifier TokenVerifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := verifier.Verify(tok)
			if err != nil {
				logger.Debug("Ignoring invalid optional token", zap.String("path", r.URL.Path), zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			ctx := utils.SetUserContext(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
