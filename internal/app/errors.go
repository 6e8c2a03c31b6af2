package app

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden indicates the requester does not own the record.
	ErrForbidden = errors.New("forbidden")
	// ErrEmailAndPasswordRequired rejects blank signup/login input.
	ErrEmailAndPasswordRequired = errors.New("email and password are required")
	// ErrEmailAlreadyExists rejects duplicate signups.
	ErrEmailAlreadyExists = errors.New("email already exists")
	// ErrInvalidCredentials rejects failed logins.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountDisabled rejects logins of disabled accounts.
	ErrAccountDisabled = errors.New("account disabled")
	// ErrValidation wraps rejected request input.
	ErrValidation = errors.New("validation failed")
)
