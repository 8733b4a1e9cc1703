// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package auth provides authentication primitives for coursegate.
//
// # Domain Types
//
// Account is created with NewAccount, which validates the role and email and
// requires an already computed password hash. Accounts are immutable.
//
// # Tokens
//
// TokenService mints and verifies HS256 JWTs. Each role signs with its own
// secret, so a user token never verifies as an admin token. Verification
// failures carry one of the apperr token kinds so callers can log the exact
// cause while presenting a uniform rejection.
//
// # Services
//
// Service types coordinate domain operations:
//   - RegistrationService - signup with duplicate email detection
//   - AuthService - signin returning a bearer token
//
// Services are created with New*Service constructors that validate dependencies.
package auth
