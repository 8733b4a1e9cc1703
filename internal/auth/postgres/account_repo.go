// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package postgres implements auth repositories on PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/holomush/coursegate/internal/auth"
	"github.com/holomush/coursegate/internal/store"
)

// AccountRepository implements auth.AccountRepository using PostgreSQL.
type AccountRepository struct {
	pool store.Querier
}

var _ auth.AccountRepository = (*AccountRepository)(nil)

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool store.Querier) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Create stores a new account. A (role, email) pair that already exists
// yields an error wrapping auth.ErrEmailTaken.
func (r *AccountRepository) Create(ctx context.Context, account *auth.Account) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO accounts (id, role, email, password_hash, first_name, last_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		account.ID.String(),
		string(account.Role),
		account.Email,
		account.PasswordHash,
		account.Profile.FirstName,
		account.Profile.LastName,
		account.CreatedAt,
	)
	if store.IsUniqueViolation(err) {
		return oops.Code("ACCOUNT_EMAIL_TAKEN").
			With("role", account.Role).
			Wrap(auth.ErrEmailTaken)
	}
	if err != nil {
		return oops.Code("ACCOUNT_CREATE_FAILED").
			With("operation", "insert account").
			With("role", account.Role).
			Wrap(err)
	}
	return nil
}

// FindByEmail retrieves the account of role registered under email.
// The email match is exact.
func (r *AccountRepository) FindByEmail(ctx context.Context, role auth.Role, email string) (*auth.Account, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, role, email, password_hash, first_name, last_name, created_at
		FROM accounts
		WHERE role = $1 AND email = $2
	`, string(role), email)

	account, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ACCOUNT_NOT_FOUND").
			With("role", role).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("ACCOUNT_LOOKUP_FAILED").
			With("operation", "find account by email").
			With("role", role).
			Wrap(err)
	}
	return account, nil
}

func scanAccount(row pgx.Row) (*auth.Account, error) {
	var (
		a         auth.Account
		id, role  string
		createdAt time.Time
	)
	if err := row.Scan(&id, &role, &a.Email, &a.PasswordHash, &a.Profile.FirstName, &a.Profile.LastName, &createdAt); err != nil {
		return nil, err //nolint:wrapcheck // callers classify pgx.ErrNoRows
	}

	parsed, err := ulid.Parse(id)
	if err != nil {
		return nil, oops.Code("ACCOUNT_CORRUPT").With("id", id).Wrap(err)
	}
	a.ID = parsed
	a.Role = auth.Role(role)
	a.CreatedAt = createdAt
	return &a, nil
}
