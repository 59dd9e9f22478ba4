// Package auth implements the token issuance, validation, refresh and
// revocation protocol together with credential verification. Handlers
// translate the sentinel errors defined here into HTTP responses; the
// error values deliberately do not distinguish why a token or credential
// was rejected so that clients cannot probe for usernames or token state.
package auth

import "errors"

var (
	// ErrInvalidCredentials is returned by Login for an unknown username
	// and for a wrong password alike.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUsernameTaken is returned by Register when the username exists.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrMissingToken is returned by Refresh when no token was presented.
	ErrMissingToken = errors.New("refresh token missing")

	// ErrInvalidToken covers malformed, expired, revoked and
	// orphaned-identity refresh tokens. Callers must not differentiate.
	ErrInvalidToken = errors.New("invalid refresh token")
)
