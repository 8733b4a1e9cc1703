// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"runtime"
	"strings"

	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/argon2"
	"golang.org/x/sync/semaphore"

	"github.com/holomush/coursegate/internal/apperr"
)

// Lower bounds accepted by NewArgon2idHasher.
const (
	MinArgon2Time      = 1
	MinArgon2MemoryKiB = 19 * 1024
	MinArgon2SaltLen   = 16
	MinArgon2KeyLen    = 16
)

// Upper bounds on the cost of any hash, configured or stored.
const (
	MaxArgon2Time      = 16
	MaxArgon2MemoryKiB = 1024 * 1024
)

var tracer = otel.Tracer("github.com/holomush/coursegate/internal/auth")

// ErrEmptyPassword is returned when attempting to hash an empty password.
var ErrEmptyPassword = apperr.KindValidation.Builder().
	With("field", "password").
	Errorf("password cannot be empty")

// PasswordHasher provides password hashing and verification.
type PasswordHasher interface {
	// Hash produces an encoded one-way hash of the password.
	Hash(ctx context.Context, password string) (string, error)

	// Verify checks if the password matches the encoded hash.
	// Returns (true, nil) on match, (false, nil) on mismatch, or error on invalid hash.
	Verify(ctx context.Context, password, encodedHash string) (bool, error)
}

// Argon2Params tunes the cost of Argon2idHasher.
type Argon2Params struct {
	Time      uint32 // iterations
	MemoryKiB uint32
	Threads   uint8
	SaltLen   uint32
	KeyLen    uint32
	// MaxConcurrent bounds simultaneous hash and verify computations.
	MaxConcurrent int64
}

// DefaultArgon2Params returns the OWASP-recommended argon2id parameters.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Time:          1,
		MemoryKiB:     64 * 1024,
		Threads:       4,
		SaltLen:       16,
		KeyLen:        32,
		MaxConcurrent: int64(runtime.GOMAXPROCS(0)),
	}
}

// Validate checks the parameters against the accepted minimums.
func (p Argon2Params) Validate() error {
	switch {
	case p.Time < MinArgon2Time:
		return oops.Code("AUTH_HASHER_CONFIG").With("time", p.Time).Errorf("argon2 time must be at least %d", MinArgon2Time)
	case p.Time > MaxArgon2Time:
		return oops.Code("AUTH_HASHER_CONFIG").With("time", p.Time).Errorf("argon2 time must be at most %d", MaxArgon2Time)
	case p.MemoryKiB < MinArgon2MemoryKiB:
		return oops.Code("AUTH_HASHER_CONFIG").With("memory_kib", p.MemoryKiB).Errorf("argon2 memory must be at least %d KiB", MinArgon2MemoryKiB)
	case p.MemoryKiB > MaxArgon2MemoryKiB:
		return oops.Code("AUTH_HASHER_CONFIG").With("memory_kib", p.MemoryKiB).Errorf("argon2 memory must be at most %d KiB", MaxArgon2MemoryKiB)
	case p.Threads == 0:
		return oops.Code("AUTH_HASHER_CONFIG").Errorf("argon2 threads must be positive")
	case p.SaltLen < MinArgon2SaltLen:
		return oops.Code("AUTH_HASHER_CONFIG").With("salt_len", p.SaltLen).Errorf("argon2 salt length must be at least %d", MinArgon2SaltLen)
	case p.KeyLen < MinArgon2KeyLen:
		return oops.Code("AUTH_HASHER_CONFIG").With("key_len", p.KeyLen).Errorf("argon2 key length must be at least %d", MinArgon2KeyLen)
	case p.MaxConcurrent <= 0:
		return oops.Code("AUTH_HASHER_CONFIG").Errorf("max concurrent hashes must be positive")
	}
	return nil
}

// Argon2idHasher implements PasswordHasher using argon2id.
type Argon2idHasher struct {
	params Argon2Params
	slots  *semaphore.Weighted
}

// NewArgon2idHasher creates a new Argon2idHasher with the given parameters.
func NewArgon2idHasher(params Argon2Params) (*Argon2idHasher, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Argon2idHasher{
		params: params,
		slots:  semaphore.NewWeighted(params.MaxConcurrent),
	}, nil
}

// Params returns the parameters new hashes are produced with.
func (h *Argon2idHasher) Params() Argon2Params {
	return h.params
}

// Hash produces an argon2id hash of the password in PHC string format.
func (h *Argon2idHasher) Hash(ctx context.Context, password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	ctx, span := tracer.Start(ctx, "argon2id.hash", trace.WithAttributes(
		attribute.Int64("argon2.memory_kib", int64(h.params.MemoryKiB)),
		attribute.Int64("argon2.time", int64(h.params.Time)),
	))
	defer span.End()

	salt := make([]byte, h.params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", oops.Code("AUTH_SALT_FAILED").Wrap(err)
	}

	if err := h.acquire(ctx); err != nil {
		return "", err
	}
	hash := argon2.IDKey([]byte(password), salt, h.params.Time, h.params.MemoryKiB, h.params.Threads, h.params.KeyLen)
	h.slots.Release(1)

	return encodeArgon2id(h.params, salt, hash), nil
}

// DummyHash returns a well-formed hash carrying the hasher's parameters
// that no password verifies against. Verifying it costs the same as
// verifying a hash produced by Hash.
func (h *Argon2idHasher) DummyHash() string {
	return encodeArgon2id(h.params, make([]byte, h.params.SaltLen), make([]byte, h.params.KeyLen))
}

// Verify checks if the password matches the hash using the parameters
// embedded in the hash.
func (h *Argon2idHasher) Verify(ctx context.Context, password, encodedHash string) (bool, error) {
	p, salt, expectedHash, err := decodeArgon2id(encodedHash)
	if err != nil {
		return false, err
	}

	ctx, span := tracer.Start(ctx, "argon2id.verify", trace.WithAttributes(
		attribute.Int64("argon2.memory_kib", int64(p.MemoryKiB)),
		attribute.Int64("argon2.time", int64(p.Time)),
	))
	defer span.End()

	if err := h.acquire(ctx); err != nil {
		return false, err
	}
	computedHash := argon2.IDKey([]byte(password), salt, p.Time, p.MemoryKiB, p.Threads, uint32(len(expectedHash)))
	h.slots.Release(1)

	return subtle.ConstantTimeCompare(computedHash, expectedHash) == 1, nil
}

func (h *Argon2idHasher) acquire(ctx context.Context) error {
	if err := h.slots.Acquire(ctx, 1); err != nil {
		return oops.Code("AUTH_HASH_CANCELLED").Wrap(err)
	}
	return nil
}

// encodeArgon2id renders $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>.
func encodeArgon2id(p Argon2Params, salt, hash []byte) string {
	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		p.MemoryKiB,
		p.Time,
		p.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	)
}

// decodeArgon2id parses a PHC encoded argon2id hash.
func decodeArgon2id(encodedHash string) (Argon2Params, []byte, []byte, error) {
	var p Argon2Params

	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return p, nil, nil, oops.Code("AUTH_INVALID_HASH").Errorf("invalid hash format")
	}

	if parts[1] != "argon2id" {
		return p, nil, nil, oops.Code("AUTH_INVALID_HASH").Errorf("unsupported hash algorithm: %s", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return p, nil, nil, oops.Code("AUTH_INVALID_HASH").Wrap(err)
	}
	if version != argon2.Version {
		return p, nil, nil, oops.Code("AUTH_INVALID_HASH").Errorf("unsupported argon2 version: %d", version)
	}

	var threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.MemoryKiB, &p.Time, &threads); err != nil {
		return p, nil, nil, oops.Code("AUTH_INVALID_HASH").Wrap(err)
	}
	// threads must fit in uint8
	if threads == 0 || threads > 255 {
		return p, nil, nil, oops.Code("AUTH_INVALID_HASH").Errorf("invalid threads value %d", threads)
	}
	p.Threads = uint8(threads)
	if p.Time == 0 || p.MemoryKiB == 0 {
		return p, nil, nil, oops.Code("AUTH_INVALID_HASH").Errorf("invalid cost parameters")
	}
	if p.Time > MaxArgon2Time || p.MemoryKiB > MaxArgon2MemoryKiB {
		return p, nil, nil, oops.Code("AUTH_INVALID_HASH").
			With("memory_kib", p.MemoryKiB).
			With("time", p.Time).
			Errorf("cost parameters exceed limits")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return p, nil, nil, oops.Code("AUTH_INVALID_HASH").Wrap(err)
	}

	expectedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return p, nil, nil, oops.Code("AUTH_INVALID_HASH").Wrap(err)
	}

	keyLen := len(expectedHash)
	if keyLen == 0 || keyLen > 1<<10 {
		return p, nil, nil, oops.Code("AUTH_INVALID_HASH").Errorf("invalid hash key length: %d", keyLen)
	}

	return p, salt, expectedHash, nil
}
