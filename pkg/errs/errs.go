// Package errs defines the application error taxonomy.
//
// Services return these sentinels (possibly wrapped with %w); controllers
// translate them into HTTP status codes with Status. Anything outside the
// taxonomy is reported as a generic 500 without leaking internal detail.
package errs

import (
	"errors"
	"net/http"
)

var (
	// ErrDuplicateEmail is returned when a registration reuses an email.
	ErrDuplicateEmail = errors.New("a user with this email already exists")

	// ErrInvalidCredentials covers both unknown email and wrong password —
	// callers must not be able to tell the two apart.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrTokenExpired is returned for a well-formed token past its expiry.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid is returned for malformed tokens and signature mismatches.
	ErrTokenInvalid = errors.New("invalid token")

	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidID is returned for syntactically invalid identifiers,
	// distinct from ErrNotFound.
	ErrInvalidID = errors.New("invalid id")

	// ErrForbidden is returned when an authenticated caller is not the owner.
	ErrForbidden = errors.New("forbidden")
)

// Status maps an application error to its HTTP status code.
// Unknown errors map to 500.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrDuplicateEmail):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrTokenExpired),
		errors.Is(err, ErrTokenInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidID):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-facing message for an application error.
// Unknown errors collapse to a generic message so internals never leak.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrDuplicateEmail):
		return "User with this email already exists"
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid email or password"
	case errors.Is(err, ErrTokenExpired):
		return "Token expired."
	case errors.Is(err, ErrTokenInvalid):
		return "Invalid token."
	case errors.Is(err, ErrForbidden):
		return "You do not own this product"
	case errors.Is(err, ErrNotFound):
		return "Product not found"
	case errors.Is(err, ErrInvalidID):
		return "Invalid product ID"
	default:
		return "Internal Server Error"
	}
}
