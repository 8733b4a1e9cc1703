// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/coursegate/internal/auth"
	"github.com/holomush/coursegate/pkg/errutil"
)

var accountColumns = []string{"id", "role", "email", "password_hash", "first_name", "last_name", "created_at"}

func testAccount() *auth.Account {
	return &auth.Account{
		ID:           ulid.Make(),
		Role:         auth.RoleUser,
		Email:        "a@x.com",
		PasswordHash: "$argon2id$v=19$m=19456,t=1,p=1$c2FsdA$aGFzaA",
		Profile:      auth.Profile{FirstName: "Ada", LastName: "Lovelace"},
		CreatedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestAccountRepository_Create(t *testing.T) {
	account := testAccount()

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   error
		wantCode  string
	}{
		{
			name: "inserts account",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO accounts`).
					WithArgs(account.ID.String(), "user", "a@x.com", account.PasswordHash, "Ada", "Lovelace", account.CreatedAt).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			name: "unique violation means email taken",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO accounts`).
					WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
						pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "accounts_role_email_key"})
			},
			wantErr:  auth.ErrEmailTaken,
			wantCode: "ACCOUNT_EMAIL_TAKEN",
		},
		{
			name: "other database error",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO accounts`).
					WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
						pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnError(errors.New("connection refused"))
			},
			wantCode: "ACCOUNT_CREATE_FAILED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			tt.setupMock(mock)

			err = NewAccountRepository(mock).Create(context.Background(), account)
			if tt.wantCode == "" {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				errutil.AssertErrorCode(t, err, tt.wantCode)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				} else {
					assert.NotErrorIs(t, err, auth.ErrEmailTaken)
				}
			}
			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}

func TestAccountRepository_FindByEmail(t *testing.T) {
	want := testAccount()

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		want      *auth.Account
		wantErr   error
		wantCode  string
	}{
		{
			name: "found",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT (.+) FROM accounts WHERE role = \$1 AND email = \$2`).
					WithArgs("user", "a@x.com").
					WillReturnRows(pgxmock.NewRows(accountColumns).AddRow(
						want.ID.String(), "user", "a@x.com", want.PasswordHash, "Ada", "Lovelace", want.CreatedAt,
					))
			},
			want: want,
		},
		{
			name: "not found",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT (.+) FROM accounts`).
					WithArgs("user", "a@x.com").
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr:  auth.ErrNotFound,
			wantCode: "ACCOUNT_NOT_FOUND",
		},
		{
			name: "database error",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT (.+) FROM accounts`).
					WithArgs("user", "a@x.com").
					WillReturnError(errors.New("timeout"))
			},
			wantCode: "ACCOUNT_LOOKUP_FAILED",
		},
		{
			name: "corrupt id",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT (.+) FROM accounts`).
					WithArgs("user", "a@x.com").
					WillReturnRows(pgxmock.NewRows(accountColumns).AddRow(
						"not-a-ulid", "user", "a@x.com", want.PasswordHash, "Ada", "Lovelace", want.CreatedAt,
					))
			},
			wantCode: "ACCOUNT_CORRUPT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			tt.setupMock(mock)

			got, err := NewAccountRepository(mock).FindByEmail(context.Background(), auth.RoleUser, "a@x.com")
			if tt.wantCode == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			} else {
				require.Error(t, err)
				assert.Nil(t, got)
				errutil.AssertErrorCode(t, err, tt.wantCode)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}
			}
			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}
