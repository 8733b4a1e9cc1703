// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/oops"

	"github.com/holomush/coursegate/internal/apperr"
)

// AuthService signs accounts in.
type AuthService struct {
	accounts AccountRepository
	hasher   PasswordHasher
	tokens   TokenIssuer
	logger   *slog.Logger
	// dummyHash is verified when no account matches.
	dummyHash string
}

// dummyHashSource is implemented by hashers that can produce a hash with
// their own cost parameters that never verifies.
type dummyHashSource interface {
	DummyHash() string
}

// NewAuthService creates an AuthService using the default logger.
func NewAuthService(accounts AccountRepository, hasher PasswordHasher, tokens TokenIssuer) (*AuthService, error) {
	return NewAuthServiceWithLogger(accounts, hasher, tokens, slog.Default())
}

// NewAuthServiceWithLogger creates an AuthService.
func NewAuthServiceWithLogger(accounts AccountRepository, hasher PasswordHasher, tokens TokenIssuer, logger *slog.Logger) (*AuthService, error) {
	if accounts == nil {
		return nil, oops.Errorf("accounts repository is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	if tokens == nil {
		return nil, oops.Errorf("token issuer is required")
	}
	if logger == nil {
		return nil, oops.Errorf("logger is required")
	}
	dummy := fallbackDummyHash
	if src, ok := hasher.(dummyHashSource); ok {
		dummy = src.DummyHash()
	}
	return &AuthService{accounts: accounts, hasher: hasher, tokens: tokens, logger: logger, dummyHash: dummy}, nil
}

// fallbackDummyHash is used with hashers that cannot produce their own
// dummy. It carries the default argon2id parameters.
//
//nolint:gosec // G101: fake hash for timing equalization, not a credential.
const fallbackDummyHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Signin checks the credentials of the role's account registered under
// email and returns a freshly issued token.
//
// An unknown email and a wrong password fail with the same
// apperr.KindInvalidCredentials error.
func (s *AuthService) Signin(ctx context.Context, role Role, email, password string) (*Token, error) {
	if !role.Valid() {
		return nil, apperr.KindValidation.Builder().With("field", "role").Errorf("unknown role %q", role)
	}

	account, lookupErr := s.accounts.FindByEmail(ctx, role, email)
	targetHash := s.dummyHash
	switch {
	case lookupErr == nil:
		targetHash = account.PasswordHash
	case !errors.Is(lookupErr, ErrNotFound):
		return nil, apperr.KindInternal.Builder().
			With("operation", "find account by email").
			With("role", role).
			Wrap(lookupErr)
	}

	// Always verify, even against the dummy hash.
	valid, verifyErr := s.hasher.Verify(ctx, password, targetHash)
	if lookupErr != nil {
		return nil, invalidCredentials()
	}
	if verifyErr != nil {
		return nil, apperr.KindInternal.Builder().
			With("operation", "verify password").
			With("account_id", account.ID.String()).
			Wrap(verifyErr)
	}
	if !valid {
		s.logger.DebugContext(ctx, "signin rejected",
			"account_id", account.ID.String(),
			"role", role.String(),
		)
		return nil, invalidCredentials()
	}

	token, err := s.tokens.Issue(account.ID, role, s.tokens.DefaultTTL(role))
	if err != nil {
		return nil, apperr.KindInternal.Builder().
			With("operation", "issue token").
			With("account_id", account.ID.String()).
			Wrap(err)
	}

	s.logger.InfoContext(ctx, "account signed in",
		"account_id", account.ID.String(),
		"role", role.String(),
		"expires_at", token.ExpiresAt,
	)
	return token, nil
}

func invalidCredentials() error {
	return apperr.KindInvalidCredentials.Errorf("invalid email or password")
}
