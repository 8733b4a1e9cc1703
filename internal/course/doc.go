// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package course implements the catalogue: admins create and edit courses,
// users purchase them, and anyone may browse a preview.
//
// Callers pass the authenticated subject ID explicitly. The package does not
// check roles; the route layer gates each operation before calling in.
package course
