package models

import "time"

// Account is one row of the credential store. PasswordHash is a bcrypt hash;
// the plaintext password is never kept.
type Account struct {
	Username        string
	PasswordHash    []byte
	Email           string
	CreatedAt       time.Time
	PasswordResetAt *time.Time
}
