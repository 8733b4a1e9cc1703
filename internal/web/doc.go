// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package web exposes the account and course operations over HTTP.
//
// # Routes
//
// Every route lives under /api/v1. Signup and signin are open; course
// management requires an admin token, purchases require a user token, and the
// catalogue preview is public. See NewHandler for the full table.
//
// # Gate
//
// Gate.Require wraps a GatedHandlerFunc. It reads a bearer token from the
// Authorization header (or the bare token header), verifies it for the
// route's role, and passes the resulting auth.Identity to the handler both as
// an argument and on the request context. Every rejection produces the same
// 403 body; the precise reason is only logged and counted.
//
// # Errors
//
// Handlers never choose status codes for failures. They pass errors to
// writeError, which resolves the apperr.Kind and maps it with an exhaustive
// switch. Request bodies are checked against JSON schemas reflected from the
// body types; failures surface as *ValidationError with one Issue per field.
package web
