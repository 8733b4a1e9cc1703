// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/holomush/coursegate/internal/apperr"
)

// Canonical token lifetimes.
const (
	DefaultAdminTokenTTL = 24 * time.Hour
	DefaultUserTokenTTL  = 7 * 24 * time.Hour
)

// Secrets holds one signing secret per role. Admin and user secrets must
// differ so that a token minted for one role never verifies for the other.
type Secrets struct {
	Admin []byte
	User  []byte
}

// For returns the signing secret of role.
func (s Secrets) For(role Role) ([]byte, error) {
	switch role {
	case RoleAdmin:
		return s.Admin, nil
	case RoleUser:
		return s.User, nil
	default:
		return nil, oops.Code("AUTH_UNKNOWN_ROLE").With("role", role).Errorf("no signing secret for role %q", role)
	}
}

// Validate checks that both secrets are present and distinct.
func (s Secrets) Validate() error {
	if len(s.Admin) == 0 {
		return oops.Code("AUTH_TOKEN_CONFIG").Errorf("admin signing secret is required")
	}
	if len(s.User) == 0 {
		return oops.Code("AUTH_TOKEN_CONFIG").Errorf("user signing secret is required")
	}
	if subtle.ConstantTimeCompare(s.Admin, s.User) == 1 {
		return oops.Code("AUTH_TOKEN_CONFIG").Errorf("admin and user signing secrets must differ")
	}
	return nil
}

// TokenConfig configures a TokenService. It is built once at startup.
type TokenConfig struct {
	Secrets  Secrets
	AdminTTL time.Duration
	UserTTL  time.Duration
	Issuer   string

	// Now is the clock used for issuing and verifying. Defaults to time.Now.
	Now func() time.Time
}

// Token is a signed bearer credential together with the claims it carries.
type Token struct {
	Value     string
	SubjectID ulid.ULID
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Identity is the authenticated subject resolved from a verified token.
type Identity struct {
	SubjectID ulid.ULID
	Role      Role
}

// TokenIssuer mints tokens.
type TokenIssuer interface {
	Issue(subjectID ulid.ULID, role Role, ttl time.Duration) (*Token, error)
	DefaultTTL(role Role) time.Duration
}

// TokenVerifier checks tokens for a role.
type TokenVerifier interface {
	Verify(token string, expected Role) (Identity, error)
}

type claims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 JWTs signed with a per-role secret.
type TokenService struct {
	secrets  Secrets
	adminTTL time.Duration
	userTTL  time.Duration
	issuer   string
	now      func() time.Time
	parser   *jwt.Parser
}

var (
	_ TokenIssuer   = (*TokenService)(nil)
	_ TokenVerifier = (*TokenService)(nil)
)

// NewTokenService creates a TokenService from cfg.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if err := cfg.Secrets.Validate(); err != nil {
		return nil, err
	}
	if cfg.AdminTTL <= 0 || cfg.UserTTL <= 0 {
		return nil, oops.Code("AUTH_TOKEN_CONFIG").
			With("admin_ttl", cfg.AdminTTL).
			With("user_ttl", cfg.UserTTL).
			Errorf("token TTLs must be positive")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(now),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	return &TokenService{
		secrets:  cfg.Secrets,
		adminTTL: cfg.AdminTTL,
		userTTL:  cfg.UserTTL,
		issuer:   cfg.Issuer,
		now:      now,
		parser:   jwt.NewParser(opts...),
	}, nil
}

// DefaultTTL returns the configured token lifetime for role, or zero for
// an unknown role. Issue rejects a zero lifetime.
func (s *TokenService) DefaultTTL(role Role) time.Duration {
	switch role {
	case RoleAdmin:
		return s.adminTTL
	case RoleUser:
		return s.userTTL
	default:
		return 0
	}
}

// Issue signs a token for subjectID valid for ttl from now.
func (s *TokenService) Issue(subjectID ulid.ULID, role Role, ttl time.Duration) (*Token, error) {
	if ttl <= 0 {
		return nil, oops.Code("AUTH_TOKEN_ISSUE_FAILED").With("ttl", ttl).Errorf("token ttl must be positive")
	}
	secret, err := s.secrets.For(role)
	if err != nil {
		return nil, err
	}

	issuedAt := s.now().Truncate(jwt.TimePrecision)
	expiresAt := issuedAt.Add(ttl)
	c := claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   subjectID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(secret)
	if err != nil {
		return nil, oops.Code("AUTH_TOKEN_ISSUE_FAILED").With("role", role).Wrap(err)
	}

	return &Token{
		Value:     signed,
		SubjectID: subjectID,
		Role:      role,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}

// Verify checks raw against the secret of expected and returns the identity
// it carries. Failures resolve to apperr.KindMalformedToken,
// apperr.KindBadSignature or apperr.KindExpiredToken.
func (s *TokenService) Verify(raw string, expected Role) (Identity, error) {
	secret, err := s.secrets.For(expected)
	if err != nil {
		return Identity{}, err
	}

	var c claims
	_, err = s.parser.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		return Identity{}, classifyTokenError(err, expected)
	}

	// The role claim must agree with the secret it verified under.
	if c.Role != expected {
		return Identity{}, apperr.KindBadSignature.Builder().
			With("expected_role", expected).
			With("token_role", c.Role).
			Errorf("token role does not match")
	}

	subject, err := ulid.Parse(c.Subject)
	if err != nil {
		return Identity{}, apperr.KindMalformedToken.Builder().
			With("expected_role", expected).
			Errorf("token subject is not a valid id")
	}

	return Identity{SubjectID: subject, Role: expected}, nil
}

func classifyTokenError(err error, expected Role) error {
	b := apperr.KindMalformedToken.Builder()
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		b = apperr.KindBadSignature.Builder()
	case errors.Is(err, jwt.ErrTokenExpired):
		b = apperr.KindExpiredToken.Builder()
	}
	return b.With("expected_role", expected).Wrap(err)
}
