// Package user implements accounts: registration with bcrypt password
// hashes and credential verification.
package user

import (
	"errors"
	"time"
)

var (
	// ErrUserNotFound is returned when a user doesn't exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken is returned when registering with an email that already
	// has an account.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidEmail is returned when an email address is blank or malformed.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrWeakPassword is returned when a password is shorter than
	// MinPasswordLength.
	ErrWeakPassword = errors.New("password too short")

	// ErrInvalidCredentials is returned when authentication fails. It covers
	// both unknown emails and wrong passwords so callers can't probe for
	// registered addresses.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// User is a registered account. The password hash never leaves the package.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
