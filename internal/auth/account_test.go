// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth_test

import (
	"context"
	"strings"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/coursegate/internal/apperr"
	"github.com/holomush/coursegate/internal/auth"
	"github.com/holomush/coursegate/pkg/errutil"
)

func TestNewAccount(t *testing.T) {
	profile := auth.Profile{FirstName: "Grace", LastName: "Hopper"}

	t.Run("valid account", func(t *testing.T) {
		a, err := auth.NewAccount(auth.RoleAdmin, "grace@navy.mil", testHash, profile)
		require.NoError(t, err)
		assert.NotEqual(t, ulid.ULID{}, a.ID)
		assert.Equal(t, auth.RoleAdmin, a.Role)
		assert.Equal(t, "grace@navy.mil", a.Email)
		assert.Equal(t, profile, a.Profile)
		assert.False(t, a.CreatedAt.IsZero())
	})

	t.Run("email case is preserved", func(t *testing.T) {
		a, err := auth.NewAccount(auth.RoleUser, "Grace@Navy.mil", testHash, profile)
		require.NoError(t, err)
		assert.Equal(t, "Grace@Navy.mil", a.Email)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := auth.NewAccount(auth.Role("owner"), "grace@navy.mil", testHash, profile)
		require.Error(t, err)
		errutil.AssertErrorContext(t, err, "field", "role")
	})

	t.Run("rejects empty hash", func(t *testing.T) {
		_, err := auth.NewAccount(auth.RoleUser, "grace@navy.mil", "", profile)
		require.Error(t, err)
		errutil.AssertErrorContext(t, err, "field", "password")
	})
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		ok    bool
	}{
		{"plain address", "a@x.com", true},
		{"plus tag", "a+tag@x.com", true},
		{"empty", "", false},
		{"no at sign", "ax.com", false},
		{"display name", "Ada <a@x.com>", false},
		{"too long", strings.Repeat("a", auth.MaxEmailLength) + "@x.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := auth.ValidateEmail(tt.email)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}
}

func TestPasswordPolicyViolations(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     []string
	}{
		{"compliant", "Abcdef1!", nil},
		{"unicode compliant", "Ünïcødé9€", nil},
		{"too short", "Ab1!", []string{"must be between 8 and 64 characters"}},
		{"too long", "Aa1!" + strings.Repeat("x", 61), []string{"must be between 8 and 64 characters"}},
		{"no uppercase", "abcdef1!", []string{"must contain an uppercase letter"}},
		{"no lowercase", "ABCDEF1!", []string{"must contain a lowercase letter"}},
		{"no digit", "Abcdefg!", []string{"must contain a digit"}},
		{"no special", "Abcdefg1", []string{"must contain a special character"}},
		{
			"empty",
			"",
			[]string{
				"must be between 8 and 64 characters",
				"must contain an uppercase letter",
				"must contain a lowercase letter",
				"must contain a digit",
				"must contain a special character",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, auth.PasswordPolicyViolations(tt.password))
		})
	}
}

func TestValidatePassword(t *testing.T) {
	require.NoError(t, auth.ValidatePassword(testPassword))

	err := auth.ValidatePassword("weak")
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	errutil.AssertErrorContext(t, err, "field", "password")
}

func TestParseRole(t *testing.T) {
	for _, r := range auth.Roles {
		got, err := auth.ParseRole(r.String())
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}

	_, err := auth.ParseRole("Admin")
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestIdentityContext(t *testing.T) {
	ctx := context.Background()

	_, ok := auth.IdentityFromContext(ctx)
	assert.False(t, ok)

	id := auth.Identity{SubjectID: ulid.Make(), Role: auth.RoleUser}
	got, ok := auth.IdentityFromContext(auth.WithIdentity(ctx, id))
	require.True(t, ok)
	assert.Equal(t, id, got)
}
