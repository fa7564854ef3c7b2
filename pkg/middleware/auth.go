package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/vastra/pkg/auth"
	"github.com/shashiranjanraj/vastra/pkg/response"
)

// Identity is the authenticated caller extracted from a verified token.
type Identity struct {
	UserID string
	Email  string
}

type identityKey struct{}

// Auth requires a valid Bearer token. Requests without one, or with an
// expired or tampered token, are rejected with 401 before the handler runs.
//
//	protected.Use(middleware.Auth)
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			response.Unauthorized(w, "Access denied. No token provided.")
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.FromErr(w, err)
			return
		}

		id := Identity{UserID: claims.Subject, Email: claims.Email}
		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), id)))
	})
}

// OptionalAuth attaches an Identity when a valid Bearer token is present
// but never rejects the request. An invalid or expired token is treated
// the same as no token at all: the request proceeds anonymously.
//
// Used on listing routes whose response shape varies for signed-in users.
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token, ok := bearerToken(r); ok {
			if claims, err := auth.ValidateToken(token); err == nil {
				id := Identity{UserID: claims.Subject, Email: claims.Email}
				r = r.WithContext(withIdentity(r.Context(), id))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// IdentityFromCtx returns the authenticated Identity, if any.
func IdentityFromCtx(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

func withIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// Returns false for a missing header, a non-Bearer scheme, or an empty token.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}
