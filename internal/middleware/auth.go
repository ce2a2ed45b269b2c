// Package middleware contains HTTP middleware for the qfast API.
//
// Middleware functions follow the standard Go pattern of wrapping
// http.Handler and are composed into stacks in the server wiring.
package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/qfast/qfast/internal/auth"
	"github.com/qfast/qfast/internal/handler"
)

// AuthMiddleware resolves the bearer token on inbound requests into an
// authenticated identity.
type AuthMiddleware struct {
	verifier *auth.Verifier
	logger   *slog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware instance.
func NewAuthMiddleware(verifier *auth.Verifier, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		logger:   logger,
	}
}

// WithIdentity attempts to verify the Authorization header and stores the
// identity in the request context. The request continues either way; use
// RequireIdentity to enforce authentication.
func (m *AuthMiddleware) WithIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		id, err := m.verifier.Verify(token)
		if err != nil {
			m.logger.Debug("session token rejected", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
	})
}

// RequireIdentity rejects requests that did not authenticate. Must run
// after WithIdentity in the chain.
func (m *AuthMiddleware) RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.IdentityFrom(r.Context()) == nil {
			handler.UnauthorizedResponse(w, m.logger)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// bearerToken extracts the token from an "Authorization: Bearer x" header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}
