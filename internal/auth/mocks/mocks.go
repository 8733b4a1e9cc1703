// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package mocks provides testify mocks of the auth interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/mock"

	"github.com/holomush/coursegate/internal/auth"
)

// MockAccountRepository is a mock of auth.AccountRepository.
type MockAccountRepository struct {
	mock.Mock
}

// NewMockAccountRepository creates a MockAccountRepository whose
// expectations are asserted when the test ends.
func NewMockAccountRepository(t interface {
	mock.TestingT
	Cleanup(func())
},
) *MockAccountRepository {
	m := &MockAccountRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// FindByEmail provides a mock function.
func (m *MockAccountRepository) FindByEmail(ctx context.Context, role auth.Role, email string) (*auth.Account, error) {
	args := m.Called(ctx, role, email)
	account, _ := args.Get(0).(*auth.Account)
	return account, args.Error(1)
}

// Create provides a mock function.
func (m *MockAccountRepository) Create(ctx context.Context, account *auth.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// MockPasswordHasher is a mock of auth.PasswordHasher.
type MockPasswordHasher struct {
	mock.Mock
}

// NewMockPasswordHasher creates a MockPasswordHasher whose expectations are
// asserted when the test ends.
func NewMockPasswordHasher(t interface {
	mock.TestingT
	Cleanup(func())
},
) *MockPasswordHasher {
	m := &MockPasswordHasher{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Hash provides a mock function.
func (m *MockPasswordHasher) Hash(ctx context.Context, password string) (string, error) {
	args := m.Called(ctx, password)
	return args.String(0), args.Error(1)
}

// Verify provides a mock function.
func (m *MockPasswordHasher) Verify(ctx context.Context, password, encodedHash string) (bool, error) {
	args := m.Called(ctx, password, encodedHash)
	return args.Bool(0), args.Error(1)
}

// MockTokenIssuer is a mock of auth.TokenIssuer.
type MockTokenIssuer struct {
	mock.Mock
}

// NewMockTokenIssuer creates a MockTokenIssuer whose expectations are
// asserted when the test ends.
func NewMockTokenIssuer(t interface {
	mock.TestingT
	Cleanup(func())
},
) *MockTokenIssuer {
	m := &MockTokenIssuer{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Issue provides a mock function.
func (m *MockTokenIssuer) Issue(subjectID ulid.ULID, role auth.Role, ttl time.Duration) (*auth.Token, error) {
	args := m.Called(subjectID, role, ttl)
	token, _ := args.Get(0).(*auth.Token)
	return token, args.Error(1)
}

// DefaultTTL provides a mock function.
func (m *MockTokenIssuer) DefaultTTL(role auth.Role) time.Duration {
	args := m.Called(role)
	ttl, _ := args.Get(0).(time.Duration)
	return ttl
}

// MockTokenVerifier is a mock of auth.TokenVerifier.
type MockTokenVerifier struct {
	mock.Mock
}

// NewMockTokenVerifier creates a MockTokenVerifier whose expectations are
// asserted when the test ends.
func NewMockTokenVerifier(t interface {
	mock.TestingT
	Cleanup(func())
},
) *MockTokenVerifier {
	m := &MockTokenVerifier{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Verify provides a mock function.
func (m *MockTokenVerifier) Verify(token string, expected auth.Role) (auth.Identity, error) {
	args := m.Called(token, expected)
	id, _ := args.Get(0).(auth.Identity)
	return id, args.Error(1)
}

var (
	_ auth.AccountRepository = (*MockAccountRepository)(nil)
	_ auth.PasswordHasher    = (*MockPasswordHasher)(nil)
	_ auth.TokenIssuer       = (*MockTokenIssuer)(nil)
	_ auth.TokenVerifier     = (*MockTokenVerifier)(nil)
)
