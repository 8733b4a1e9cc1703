// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package mocks provides testify mocks of the course repositories.
package mocks

import (
	"context"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/mock"

	"github.com/holomush/coursegate/internal/course"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockCourseRepository is a mock of course.CourseRepository.
type MockCourseRepository struct {
	mock.Mock
}

// NewMockCourseRepository creates a MockCourseRepository whose expectations
// are asserted when the test ends.
func NewMockCourseRepository(t testingT) *MockCourseRepository {
	m := &MockCourseRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Create provides a mock function.
func (m *MockCourseRepository) Create(ctx context.Context, c *course.Course) error {
	return m.Called(ctx, c).Error(0)
}

// Update provides a mock function.
func (m *MockCourseRepository) Update(ctx context.Context, c *course.Course) error {
	return m.Called(ctx, c).Error(0)
}

// ListByCreator provides a mock function.
func (m *MockCourseRepository) ListByCreator(ctx context.Context, creatorID ulid.ULID) ([]*course.Course, error) {
	args := m.Called(ctx, creatorID)
	courses, _ := args.Get(0).([]*course.Course)
	return courses, args.Error(1)
}

// ListByIDs provides a mock function.
func (m *MockCourseRepository) ListByIDs(ctx context.Context, ids []ulid.ULID) ([]*course.Course, error) {
	args := m.Called(ctx, ids)
	courses, _ := args.Get(0).([]*course.Course)
	return courses, args.Error(1)
}

// List provides a mock function.
func (m *MockCourseRepository) List(ctx context.Context) ([]*course.Course, error) {
	args := m.Called(ctx)
	courses, _ := args.Get(0).([]*course.Course)
	return courses, args.Error(1)
}

// MockPurchaseRepository is a mock of course.PurchaseRepository.
type MockPurchaseRepository struct {
	mock.Mock
}

// NewMockPurchaseRepository creates a MockPurchaseRepository whose
// expectations are asserted when the test ends.
func NewMockPurchaseRepository(t testingT) *MockPurchaseRepository {
	m := &MockPurchaseRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Create provides a mock function.
func (m *MockPurchaseRepository) Create(ctx context.Context, p *course.Purchase) error {
	return m.Called(ctx, p).Error(0)
}

// ListByUser provides a mock function.
func (m *MockPurchaseRepository) ListByUser(ctx context.Context, userID ulid.ULID) ([]*course.Purchase, error) {
	args := m.Called(ctx, userID)
	purchases, _ := args.Get(0).([]*course.Purchase)
	return purchases, args.Error(1)
}
