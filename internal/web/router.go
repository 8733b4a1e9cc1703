// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/holomush/coursegate/internal/auth"
)

// APIPrefix is the path prefix of every route.
const APIPrefix = "/api/v1"

// HeaderRequestID carries the per-request ID in responses.
const HeaderRequestID = "X-Request-Id"

// Config holds the collaborators of the HTTP handler.
type Config struct {
	Registrar     Registrar
	Authenticator Authenticator
	Catalog       Catalog
	Tokens        auth.TokenVerifier
	// Recorder is optional.
	Recorder Recorder
	// Logger is optional; slog.Default is used when nil.
	Logger *slog.Logger
}

// NewHandler builds the API handler.
//
//	POST /api/v1/admin/signup       open
//	POST /api/v1/admin/signin       open
//	POST /api/v1/admin/course       admin
//	PUT  /api/v1/admin/course       admin
//	GET  /api/v1/admin/course/bulk  admin
//	POST /api/v1/user/signup        open
//	POST /api/v1/user/signin        open
//	GET  /api/v1/user/purchases     user
//	POST /api/v1/course/purchase    user
//	GET  /api/v1/course/preview     open
func NewHandler(cfg Config) (http.Handler, error) {
	switch {
	case cfg.Registrar == nil:
		return nil, oops.Errorf("registrar is required")
	case cfg.Authenticator == nil:
		return nil, oops.Errorf("authenticator is required")
	case cfg.Catalog == nil:
		return nil, oops.Errorf("catalog is required")
	case cfg.Tokens == nil:
		return nil, oops.Errorf("token verifier is required")
	}
	if cfg.Recorder == nil {
		cfg.Recorder = NopRecorder{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	h := &handlers{
		registrar:     cfg.Registrar,
		authenticator: cfg.Authenticator,
		catalog:       cfg.Catalog,
		recorder:      cfg.Recorder,
		logger:        cfg.Logger,
	}
	gate := NewGate(cfg.Tokens, cfg.Recorder, cfg.Logger)

	mux := http.NewServeMux()
	mux.Handle("POST "+APIPrefix+"/admin/signup", h.signup(auth.RoleAdmin))
	mux.Handle("POST "+APIPrefix+"/admin/signin", h.signin(auth.RoleAdmin))
	mux.Handle("POST "+APIPrefix+"/admin/course", gate.Require(auth.RoleAdmin, h.createCourse))
	mux.Handle("PUT "+APIPrefix+"/admin/course", gate.Require(auth.RoleAdmin, h.updateCourse))
	mux.Handle("GET "+APIPrefix+"/admin/course/bulk", gate.Require(auth.RoleAdmin, h.listOwnCourses))
	mux.Handle("POST "+APIPrefix+"/user/signup", h.signup(auth.RoleUser))
	mux.Handle("POST "+APIPrefix+"/user/signin", h.signin(auth.RoleUser))
	mux.Handle("GET "+APIPrefix+"/user/purchases", gate.Require(auth.RoleUser, h.listPurchases))
	mux.Handle("POST "+APIPrefix+"/course/purchase", gate.Require(auth.RoleUser, h.purchase))
	mux.HandleFunc("GET "+APIPrefix+"/course/preview", h.preview)

	return otelhttp.NewHandler(logRequests(mux, cfg.Logger, cfg.Recorder), "coursegate.api"), nil
}

// statusRecorder captures the status written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.status == 0 {
		s.status = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	return s.ResponseWriter.Write(b) //nolint:wrapcheck // passthrough
}

// logRequests writes one log line per request and reports it to recorder.
// It must wrap the mux directly so r.Pattern is visible after dispatch.
func logRequests(next http.Handler, logger *slog.Logger, recorder Recorder) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := ulid.Make().String()
		w.Header().Set(HeaderRequestID, requestID)

		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		if rec.status == 0 {
			rec.status = http.StatusOK
		}

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		recorder.HTTPRequest(route, rec.status)
		logger.InfoContext(r.Context(), "http request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"route", route,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
