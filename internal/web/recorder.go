// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package web

// Outcome labels for Recorder.AuthAttempt.
const (
	OutcomeSuccess = "success"
)

// Recorder receives request-level events for metrics.
type Recorder interface {
	// AuthAttempt records a signup or signin. outcome is OutcomeSuccess or
	// the failure kind.
	AuthAttempt(operation, role, outcome string)
	// GateRejection records a request turned away by the gate.
	GateRejection(role, reason string)
	// HTTPRequest records a completed request. route is the matched pattern.
	HTTPRequest(route string, status int)
}

// NopRecorder discards every event.
type NopRecorder struct{}

// AuthAttempt implements Recorder.
func (NopRecorder) AuthAttempt(string, string, string) {}

// GateRejection implements Recorder.
func (NopRecorder) GateRejection(string, string) {}

// HTTPRequest implements Recorder.
func (NopRecorder) HTTPRequest(string, int) {}
