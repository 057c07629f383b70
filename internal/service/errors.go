package service

import "errors"

// Operation errors. The handler layer owns the mapping from these to HTTP
// status codes and response bodies; anything unlisted becomes a 500 carrying
// the error's text.
var (
	// ErrMissingAccessToken is returned when the login request carries no
	// access token
	ErrMissingAccessToken = errors.New("missing access_token")

	// ErrInvalidUserInfo is returned when Google's profile document lacks
	// the subject id or the email
	ErrInvalidUserInfo = errors.New("invalid user info from Google")

	// ErrNotAuthenticated is returned when no session token was presented
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrInvalidSession is returned when the presented token matches no
	// stored session
	ErrInvalidSession = errors.New("invalid session")

	// ErrSessionExpired is returned when the matching session's expiry is in
	// the past, whether it ran out naturally or was invalidated by logout
	ErrSessionExpired = errors.New("session expired")
)
