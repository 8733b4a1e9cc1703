// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package web

import (
	"context"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/mock"

	"github.com/holomush/coursegate/internal/auth"
	"github.com/holomush/coursegate/internal/course"
)

type mockRegistrar struct {
	mock.Mock
}

func (m *mockRegistrar) Signup(ctx context.Context, req auth.SignupRequest) (ulid.ULID, error) {
	args := m.Called(ctx, req)
	id, _ := args.Get(0).(ulid.ULID)
	return id, args.Error(1)
}

type mockAuthenticator struct {
	mock.Mock
}

func (m *mockAuthenticator) Signin(ctx context.Context, role auth.Role, email, password string) (*auth.Token, error) {
	args := m.Called(ctx, role, email, password)
	tok, _ := args.Get(0).(*auth.Token)
	return tok, args.Error(1)
}

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) Create(ctx context.Context, creatorID ulid.ULID, d course.Draft) (*course.Course, error) {
	args := m.Called(ctx, creatorID, d)
	c, _ := args.Get(0).(*course.Course)
	return c, args.Error(1)
}

func (m *mockCatalog) Update(ctx context.Context, creatorID, courseID ulid.ULID, d course.Draft) (*course.Course, error) {
	args := m.Called(ctx, creatorID, courseID, d)
	c, _ := args.Get(0).(*course.Course)
	return c, args.Error(1)
}

func (m *mockCatalog) ListByCreator(ctx context.Context, creatorID ulid.ULID) ([]*course.Course, error) {
	args := m.Called(ctx, creatorID)
	cs, _ := args.Get(0).([]*course.Course)
	return cs, args.Error(1)
}

func (m *mockCatalog) Purchase(ctx context.Context, userID, courseID ulid.ULID) (*course.Purchase, error) {
	args := m.Called(ctx, userID, courseID)
	p, _ := args.Get(0).(*course.Purchase)
	return p, args.Error(1)
}

func (m *mockCatalog) Purchases(ctx context.Context, userID ulid.ULID) (*course.Library, error) {
	args := m.Called(ctx, userID)
	lib, _ := args.Get(0).(*course.Library)
	return lib, args.Error(1)
}

func (m *mockCatalog) Preview(ctx context.Context) ([]*course.Course, error) {
	args := m.Called(ctx)
	cs, _ := args.Get(0).([]*course.Course)
	return cs, args.Error(1)
}

type recordedEvent struct {
	kind   string
	labels []string
	status int
}

// memoryRecorder keeps every event for assertions.
type memoryRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *memoryRecorder) AuthAttempt(operation, role, outcome string) {
	r.add(recordedEvent{kind: "auth", labels: []string{operation, role, outcome}})
}

func (r *memoryRecorder) GateRejection(role, reason string) {
	r.add(recordedEvent{kind: "gate", labels: []string{role, reason}})
}

func (r *memoryRecorder) HTTPRequest(route string, status int) {
	r.add(recordedEvent{kind: "http", labels: []string{route}, status: status})
}

func (r *memoryRecorder) add(e recordedEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *memoryRecorder) byKind(kind string) []recordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []recordedEvent
	for _, e := range r.events {
		if e.kind == kind {
			out = append(out, e)
		}
	}
	return out
}
