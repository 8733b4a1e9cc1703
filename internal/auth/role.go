// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import (
	"github.com/holomush/coursegate/internal/apperr"
)

// Role is the coarse authorization class of an account. Each role has its
// own account collection and its own token signing secret.
type Role string

// Roles.
const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Roles lists every valid role.
var Roles = []Role{RoleAdmin, RoleUser}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

func (r Role) String() string {
	return string(r)
}

// ParseRole converts s to a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", apperr.KindValidation.Builder().
			With("field", "role").
			With("role", s).
			Errorf("unknown role %q", s)
	}
	return r, nil
}
