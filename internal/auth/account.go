// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import (
	"context"
	"fmt"
	"net/mail"
	"time"
	"unicode"

	"github.com/oklog/ulid/v2"

	"github.com/holomush/coursegate/internal/apperr"
)

// Credential constraints.
const (
	MaxEmailLength    = 100
	MinPasswordLength = 8
	MaxPasswordLength = 64
)

// Profile holds the descriptive fields captured at signup.
type Profile struct {
	FirstName string
	LastName  string
}

// Account is a registered admin or user. Accounts are immutable once created.
type Account struct {
	ID           ulid.ULID
	Role         Role
	Email        string
	PasswordHash string
	Profile      Profile
	CreatedAt    time.Time
}

// NewAccount creates an Account with a fresh ID. The password hash must
// already be computed; the plaintext never reaches this type.
func NewAccount(role Role, email, passwordHash string, profile Profile) (*Account, error) {
	if !role.Valid() {
		return nil, apperr.KindValidation.Builder().With("field", "role").Errorf("unknown role %q", role)
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, apperr.KindValidation.Builder().With("field", "password").Errorf("password hash cannot be empty")
	}
	return &Account{
		ID:           ulid.Make(),
		Role:         role,
		Email:        email,
		PasswordHash: passwordHash,
		Profile:      profile,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// ValidateEmail checks that email is a bare address of acceptable length.
// Emails are compared case-sensitively as stored.
func ValidateEmail(email string) error {
	if email == "" {
		return apperr.KindValidation.Builder().With("field", "email").Errorf("email cannot be empty")
	}
	if len(email) > MaxEmailLength {
		return apperr.KindValidation.Builder().
			With("field", "email").
			With("max", MaxEmailLength).
			Errorf("email must be at most %d characters", MaxEmailLength)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return apperr.KindValidation.Builder().With("field", "email").Errorf("email is not a valid address")
	}
	return nil
}

// PasswordPolicyViolations lists every rule the password breaks. An empty
// result means the password is acceptable.
func PasswordPolicyViolations(password string) []string {
	var violations []string
	if n := len([]rune(password)); n < MinPasswordLength || n > MaxPasswordLength {
		violations = append(violations, fmt.Sprintf("must be between %d and %d characters", MinPasswordLength, MaxPasswordLength))
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	if !upper {
		violations = append(violations, "must contain an uppercase letter")
	}
	if !lower {
		violations = append(violations, "must contain a lowercase letter")
	}
	if !digit {
		violations = append(violations, "must contain a digit")
	}
	if !special {
		violations = append(violations, "must contain a special character")
	}
	return violations
}

// ValidatePassword checks password against the signup policy.
func ValidatePassword(password string) error {
	if violations := PasswordPolicyViolations(password); len(violations) > 0 {
		return apperr.KindValidation.Builder().
			With("field", "password").
			With("violations", violations).
			Errorf("password does not meet policy")
	}
	return nil
}

// AccountRepository manages account persistence. Lookups are scoped by role.
type AccountRepository interface {
	// FindByEmail retrieves the account registered under email for role.
	// Returns an error wrapping ErrNotFound if there is none.
	FindByEmail(ctx context.Context, role Role, email string) (*Account, error)

	// Create stores a new account. Returns an error wrapping ErrEmailTaken
	// when storage already holds the email for the role.
	Create(ctx context.Context, account *Account) error
}
