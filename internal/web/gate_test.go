// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/holomush/coursegate/internal/apperr"
	"github.com/holomush/coursegate/internal/auth"
	"github.com/holomush/coursegate/internal/course"
)

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name   string
		header http.Header
		want   string
		wantOK bool
	}{
		{name: "bearer", header: http.Header{"Authorization": {"Bearer abc"}}, want: "abc", wantOK: true},
		{name: "lowercase scheme", header: http.Header{"Authorization": {"bearer abc"}}, want: "abc", wantOK: true},
		{name: "uppercase scheme", header: http.Header{"Authorization": {"BEARER abc"}}, want: "abc", wantOK: true},
		{name: "extra spaces", header: http.Header{"Authorization": {"  Bearer   abc  "}}, want: "abc", wantOK: true},
		{name: "empty bearer value", header: http.Header{"Authorization": {"Bearer "}}},
		{name: "other scheme", header: http.Header{"Authorization": {"Basic dXNlcjpwYXNz"}}},
		{name: "scheme only", header: http.Header{"Authorization": {"Bearer"}}},
		{name: "token header", header: http.Header{"Token": {"abc"}}, want: "abc", wantOK: true},
		{
			name:   "authorization wins over token header",
			header: http.Header{"Authorization": {"Bearer first"}, "Token": {"second"}},
			want:   "first",
			wantOK: true,
		},
		{
			name:   "token header used when scheme is not bearer",
			header: http.Header{"Authorization": {"Basic x"}, "Token": {"second"}},
			want:   "second",
			wantOK: true,
		},
		{name: "nothing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.Header = tt.header
			got, ok := ExtractToken(r)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGate_Require(t *testing.T) {
	subject := ulid.Make()

	t.Run("valid token passes identity to handler and context", func(t *testing.T) {
		f := newAPIFixture(t)
		gate := NewGate(f.tokens, f.recorder, nil)

		var got auth.Identity
		var fromCtx auth.Identity
		h := gate.Require(auth.RoleUser, func(w http.ResponseWriter, r *http.Request, id auth.Identity) {
			got = id
			fromCtx, _ = auth.IdentityFromContext(r.Context())
			w.WriteHeader(http.StatusNoContent)
		})

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer "+f.token(t, subject, auth.RoleUser))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, auth.Identity{SubjectID: subject, Role: auth.RoleUser}, got)
		assert.Equal(t, got, fromCtx)
		assert.Empty(t, f.recorder.byKind("gate"))
	})

	rejections := []struct {
		name       string
		role       auth.Role
		header     func(t *testing.T, f *apiFixture) http.Header
		wantReason apperr.Kind
	}{
		{
			name:       "missing token",
			role:       auth.RoleUser,
			header:     func(*testing.T, *apiFixture) http.Header { return http.Header{} },
			wantReason: apperr.KindMissingToken,
		},
		{
			name: "user token on admin gate",
			role: auth.RoleAdmin,
			header: func(t *testing.T, f *apiFixture) http.Header {
				return bearer(f.token(t, subject, auth.RoleUser))
			},
			wantReason: apperr.KindBadSignature,
		},
		{
			name: "admin token on user gate",
			role: auth.RoleUser,
			header: func(t *testing.T, f *apiFixture) http.Header {
				return bearer(f.token(t, subject, auth.RoleAdmin))
			},
			wantReason: apperr.KindBadSignature,
		},
		{
			name: "expired token",
			role: auth.RoleUser,
			header: func(t *testing.T, f *apiFixture) http.Header {
				h := bearer(f.token(t, subject, auth.RoleUser))
				f.clock.now = f.clock.now.Add(2 * time.Hour)
				return h
			},
			wantReason: apperr.KindExpiredToken,
		},
		{
			name:       "garbage token",
			role:       auth.RoleUser,
			header:     func(*testing.T, *apiFixture) http.Header { return bearer("not-a-jwt") },
			wantReason: apperr.KindMalformedToken,
		},
	}

	for _, tt := range rejections {
		t.Run(tt.name, func(t *testing.T) {
			f := newAPIFixture(t)
			gate := NewGate(f.tokens, f.recorder, nil)
			called := false
			h := gate.Require(tt.role, func(http.ResponseWriter, *http.Request, auth.Identity) { called = true })

			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.Header = tt.header(t, f)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, r)

			assert.False(t, called, "handler must not run")
			assert.Equal(t, http.StatusForbidden, rec.Code)
			detail := decodeErrorBody(t, rec)
			assert.Equal(t, codeForbidden, detail.Code)
			assert.Equal(t, "access denied", detail.Message)

			events := f.recorder.byKind("gate")
			require.Len(t, events, 1)
			assert.Equal(t, []string{tt.role.String(), tt.wantReason.String()}, events[0].labels)
		})
	}
}

func TestGate_VerifierFailureIsForbidden(t *testing.T) {
	verifier := &stubVerifier{err: apperr.KindInternal.Errorf("boom")}
	gate := NewGate(verifier, nil, nil)
	h := gate.Require(auth.RoleUser, func(http.ResponseWriter, *http.Request, auth.Identity) {
		t.Fatal("handler must not run")
	})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer x")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

type stubVerifier struct {
	err error
}

func (s *stubVerifier) Verify(string, auth.Role) (auth.Identity, error) {
	return auth.Identity{}, s.err
}

// Scenario: signup, signin, then use the token on both gates.
func TestScenario_TokenOnlyOpensItsOwnRole(t *testing.T) {
	f := newAPIFixture(t)
	accountID := ulid.Make()
	tok, err := f.tokens.Issue(accountID, auth.RoleUser, time.Hour)
	require.NoError(t, err)

	f.authn.On("Signin", mock.Anything, auth.RoleUser, "a@x.com", "Abcdef1!").Return(tok, nil).Once()
	rec := f.do(http.MethodPost, "/user/signin", `{"email":"a@x.com","password":"Abcdef1!"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	header := http.Header{HeaderAuthorization: {rec.Header().Get(HeaderAuthorization)}}

	f.catalog.On("Purchases", mock.Anything, accountID).
		Return(&course.Library{Purchases: []*course.Purchase{}, Courses: []*course.Course{}}, nil).Once()
	rec = f.do(http.MethodGet, "/user/purchases", "", header)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodGet, "/admin/course/bulk", "", header)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(http.MethodGet, "/user/purchases", "", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
