// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package web

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/holomush/coursegate/internal/apperr"
	"github.com/holomush/coursegate/internal/auth"
)

// Headers carrying the bearer credential.
const (
	HeaderAuthorization = "Authorization"
	HeaderToken         = "token"
)

const bearerScheme = "bearer"

// GatedHandlerFunc handles a request that passed the gate.
type GatedHandlerFunc func(w http.ResponseWriter, r *http.Request, id auth.Identity)

// Gate authorizes requests by role. It holds no per-request state and never
// touches storage.
type Gate struct {
	verifier auth.TokenVerifier
	recorder Recorder
	logger   *slog.Logger
}

// NewGate creates a Gate.
func NewGate(verifier auth.TokenVerifier, recorder Recorder, logger *slog.Logger) *Gate {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{verifier: verifier, recorder: recorder, logger: logger}
}

// Require returns a handler that only calls next when the request carries a
// valid token for role.
func (g *Gate) Require(role auth.Role, next GatedHandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := g.authorize(r, role)
		if err != nil {
			reason := apperr.KindOf(err)
			g.logger.DebugContext(r.Context(), "request rejected by gate",
				"role", role.String(),
				"reason", reason.String(),
				"path", r.URL.Path,
			)
			g.recorder.GateRejection(role.String(), reason.String())
			writeError(w, r, g.logger, err)
			return
		}
		next(w, r.WithContext(auth.WithIdentity(r.Context(), id)), id)
	})
}

func (g *Gate) authorize(r *http.Request, role auth.Role) (auth.Identity, error) {
	token, ok := ExtractToken(r)
	if !ok {
		return auth.Identity{}, apperr.KindMissingToken.Errorf("no bearer token")
	}
	id, err := g.verifier.Verify(token, role)
	if err != nil {
		if !apperr.KindOf(err).IsToken() {
			return auth.Identity{}, apperr.KindMalformedToken.Builder().
				With("cause", err.Error()).
				Errorf("token rejected")
		}
		return auth.Identity{}, err
	}
	return id, nil
}

// ExtractToken returns the credential from "Authorization: Bearer <t>"
// (scheme matched case-insensitively) or, failing that, the token header.
func ExtractToken(r *http.Request) (string, bool) {
	if header := r.Header.Get(HeaderAuthorization); header != "" {
		scheme, value, found := strings.Cut(strings.TrimSpace(header), " ")
		if found && strings.EqualFold(scheme, bearerScheme) {
			if value = strings.TrimSpace(value); value != "" {
				return value, true
			}
		}
	}
	if value := strings.TrimSpace(r.Header.Get(HeaderToken)); value != "" {
		return value, true
	}
	return "", false
}
