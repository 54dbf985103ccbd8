package domain

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when a user is neither the author of an
	// article nor staff.
	ErrForbidden = errors.New("forbidden")

	// ErrDuplicateURL is returned when a news item with the same URL
	// already exists.
	ErrDuplicateURL = errors.New("duplicate url")

	// ErrUsernameTaken is returned on registration with an existing username.
	ErrUsernameTaken = errors.New("username taken")

	// ErrInvalidCredentials is returned on a failed login or a subscription
	// request with a bad credential pair.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
