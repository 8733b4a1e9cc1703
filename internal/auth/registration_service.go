// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/holomush/coursegate/internal/apperr"
)

// SignupRequest carries the fields needed to register an account.
type SignupRequest struct {
	Role     Role
	Email    string
	Password string
	Profile  Profile
}

// RegistrationService registers new accounts.
type RegistrationService struct {
	accounts AccountRepository
	hasher   PasswordHasher
	logger   *slog.Logger
}

// NewRegistrationService creates a RegistrationService using the default logger.
func NewRegistrationService(accounts AccountRepository, hasher PasswordHasher) (*RegistrationService, error) {
	return NewRegistrationServiceWithLogger(accounts, hasher, slog.Default())
}

// NewRegistrationServiceWithLogger creates a RegistrationService.
func NewRegistrationServiceWithLogger(accounts AccountRepository, hasher PasswordHasher, logger *slog.Logger) (*RegistrationService, error) {
	if accounts == nil {
		return nil, oops.Errorf("accounts repository is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	if logger == nil {
		return nil, oops.Errorf("logger is required")
	}
	return &RegistrationService{accounts: accounts, hasher: hasher, logger: logger}, nil
}

// Signup registers an account and returns its ID.
//
// An email already registered for the role fails with
// apperr.KindDuplicateEmail before any hashing. The storage uniqueness
// constraint covers concurrent signups that both pass the lookup.
func (s *RegistrationService) Signup(ctx context.Context, req SignupRequest) (ulid.ULID, error) {
	if !req.Role.Valid() {
		return ulid.ULID{}, apperr.KindValidation.Builder().With("field", "role").Errorf("unknown role %q", req.Role)
	}
	if err := ValidateEmail(req.Email); err != nil {
		return ulid.ULID{}, err
	}
	if err := ValidatePassword(req.Password); err != nil {
		return ulid.ULID{}, err
	}

	_, err := s.accounts.FindByEmail(ctx, req.Role, req.Email)
	switch {
	case err == nil:
		return ulid.ULID{}, duplicateEmail(req.Role)
	case !errors.Is(err, ErrNotFound):
		return ulid.ULID{}, apperr.KindInternal.Builder().
			With("operation", "find account by email").
			With("role", req.Role).
			Wrap(err)
	}

	hash, err := s.hasher.Hash(ctx, req.Password)
	if err != nil {
		return ulid.ULID{}, apperr.KindInternal.Builder().
			With("operation", "hash password").
			Wrap(err)
	}

	account, err := NewAccount(req.Role, req.Email, hash, req.Profile)
	if err != nil {
		return ulid.ULID{}, err
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return ulid.ULID{}, duplicateEmail(req.Role)
		}
		return ulid.ULID{}, apperr.KindInternal.Builder().
			With("operation", "create account").
			With("role", req.Role).
			Wrap(err)
	}

	s.logger.InfoContext(ctx, "account registered",
		"account_id", account.ID.String(),
		"role", account.Role.String(),
	)
	return account.ID, nil
}

func duplicateEmail(role Role) error {
	return apperr.KindDuplicateEmail.Builder().
		With("role", role).
		Errorf("email already registered")
}
