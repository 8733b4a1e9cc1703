// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import "errors"

// Repository sentinels. Implementations wrap these so callers can use errors.Is.
var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEmailTaken is returned when storage rejects an account because the
	// email is already registered for the role.
	ErrEmailTaken = errors.New("email already registered")
)
