// Package common defines sentinel errors and small helpers shared by the
// credential store, the ledger store and the session layer. Callers should
// use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Validation errors. Rejected before any mutation or persistence.
	ErrValidation       = errors.New("validation error")
	ErrMissingField     = errors.New("required field is empty")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrPasswordTooShort = errors.New("password is too short")
	ErrPasswordTooLong  = errors.New("password is too long")
	ErrInvalidAmount    = errors.New("amount must be greater than zero")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrUnknownUnit      = errors.New("unknown unit")
	ErrInvalidMonth     = errors.New("month must be formatted as YYYY-MM")
	ErrInvalidDate      = errors.New("date must be formatted as YYYY-MM-DD")
	ErrIndexOutOfRange  = errors.New("item index out of range")

	// Conflict errors.
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnknownUser        = errors.New("unknown user")
	ErrIdentityNotFound   = errors.New("username and email combination not found")
	ErrVersionConflict    = errors.New("version conflict")

	// Recovery code errors (hardened recovery mode only).
	ErrInvalidRecoveryCode = errors.New("invalid recovery code")
	ErrRecoveryCodeExpired = errors.New("recovery code expired")

	// Session errors.
	ErrInvalidState   = errors.New("command not allowed in current state")
	ErrInvalidToken   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token expired")
	ErrNotRecoverable = errors.New("recovery answer not verified")

	// Persistence errors. The durable store could not be read or written;
	// in-memory state is left unchanged so the caller can retry.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
