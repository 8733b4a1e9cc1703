// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package apperr defines the closed set of failure kinds that domain packages
// return and the route layer translates into transport status codes.
//
// Every kind is an oops error code. Domain code builds errors with
// Kind.Errorf and the boundary resolves any error back to its kind with KindOf.
package apperr

import (
	"github.com/samber/oops"
)

// Kind identifies a failure class. The set is closed: KindOf never returns a
// value outside the constants below.
type Kind string

// Failure kinds.
const (
	KindValidation         Kind = "VALIDATION_FAILED"
	KindDuplicateEmail     Kind = "DUPLICATE_EMAIL"
	KindInvalidCredentials Kind = "INVALID_CREDENTIALS"
	KindMissingToken       Kind = "AUTH_MISSING_TOKEN"
	KindMalformedToken     Kind = "AUTH_TOKEN_MALFORMED"
	KindBadSignature       Kind = "AUTH_TOKEN_BAD_SIGNATURE"
	KindExpiredToken       Kind = "AUTH_TOKEN_EXPIRED"
	KindNotFound           Kind = "NOT_FOUND"
	KindConflict           Kind = "CONFLICT"
	KindInternal           Kind = "INTERNAL"
)

// Kinds lists every kind in declaration order.
var Kinds = []Kind{
	KindValidation,
	KindDuplicateEmail,
	KindInvalidCredentials,
	KindMissingToken,
	KindMalformedToken,
	KindBadSignature,
	KindExpiredToken,
	KindNotFound,
	KindConflict,
	KindInternal,
}

// String returns the oops code of the kind.
func (k Kind) String() string {
	return string(k)
}

// IsToken reports whether the kind describes a rejected bearer credential.
func (k Kind) IsToken() bool {
	switch k {
	case KindMissingToken, KindMalformedToken, KindBadSignature, KindExpiredToken:
		return true
	default:
		return false
	}
}

// Builder starts an oops error carrying the kind as its code.
func (k Kind) Builder() oops.OopsErrorBuilder {
	return oops.Code(string(k))
}

// Errorf creates a new error of kind k.
func (k Kind) Errorf(format string, args ...any) error {
	return k.Builder().Errorf(format, args...)
}

// Wrap wraps err as kind k. Wrapping an error that already carries an oops
// code hides k, because oops reports the deepest code in the chain; use
// Errorf or Builder().With(...).Errorf in that case.
func (k Kind) Wrap(err error) error {
	return k.Builder().Wrap(err)
}

// KindOf resolves err to its failure kind. A nil error has no kind. Errors
// without a recognised oops code are internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return KindInternal
	}
	switch oopsErr.Code() {
	case string(KindValidation):
		return KindValidation
	case string(KindDuplicateEmail):
		return KindDuplicateEmail
	case string(KindInvalidCredentials):
		return KindInvalidCredentials
	case string(KindMissingToken):
		return KindMissingToken
	case string(KindMalformedToken):
		return KindMalformedToken
	case string(KindBadSignature):
		return KindBadSignature
	case string(KindExpiredToken):
		return KindExpiredToken
	case string(KindNotFound):
		return KindNotFound
	case string(KindConflict):
		return KindConflict
	default:
		return KindInternal
	}
}

// Is reports whether err resolves to kind k.
func Is(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}
