package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/tablekit/staff-auth/internal/core/domain"
)

// DefaultTokenTTL applies when Issue is called without a TTL.
const DefaultTokenTTL = 15 * time.Minute

var errMissingClaim = errors.New("missing required claim")

// tokenClaims is the wire form of domain.TokenClaims. Tenant is a pointer so
// that an absent claim can be told apart from an empty tenant.
type tokenClaims struct {
	UserID    int64    `json:"uid"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	Tenant    *string  `json:"restaurant"`
	Scopes    []string `json:"scopes"`
	SessionID string   `json:"sid"`
	jwt.RegisteredClaims
}

// Validate is invoked by the jwt parser after the registered claims pass.
func (c tokenClaims) Validate() error {
	switch {
	case c.UserID == 0, c.Username == "", c.Email == "", c.Tenant == nil, c.Scopes == nil:
		return errMissingClaim
	}
	if _, err := uuid.Parse(c.SessionID); err != nil {
		return errMissingClaim
	}
	return nil
}

// TokenService issues and validates HMAC-signed JWTs. The key and algorithm
// are fixed at construction; changing the key invalidates every token.
type TokenService struct {
	secret []byte
	method jwt.SigningMethod
	parser *jwt.Parser
	now    func() time.Time
}

// NewTokenService accepts only HMAC algorithms (HS256, HS384, HS512).
func NewTokenService(secret, algorithm string) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token service: empty signing secret")
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("token service: unsupported signing algorithm %q", algorithm)
	}

	s := &TokenService{
		secret: []byte(secret),
		method: method,
		now:    time.Now,
	}
	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	return s, nil
}

// Issue signs claims with an absolute expiry of now+ttl.
func (s *TokenService) Issue(claims domain.TokenClaims, ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	now := s.now()
	expiresAt := now.Add(ttl).Truncate(jwt.TimePrecision)

	scopes := make([]string, 0, len(claims.Scopes))
	for _, sc := range claims.Scopes {
		scopes = append(scopes, string(sc))
	}
	tenant := claims.Tenant

	t := jwt.NewWithClaims(s.method, tokenClaims{
		UserID:    claims.UserID,
		Username:  claims.Username,
		Email:     claims.Email,
		Tenant:    &tenant,
		Scopes:    scopes,
		SessionID: claims.SessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Validate checks signature, algorithm, expiry and required claims. Callers
// only ever see domain.ErrTokenInvalid.
func (s *TokenService) Validate(token string) (*domain.TokenClaims, error) {
	var c tokenClaims
	parsed, err := s.parser.ParseWithClaims(token, &c, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, domain.ErrTokenInvalid
	}

	scopes := make([]domain.Scope, 0, len(c.Scopes))
	for _, sc := range c.Scopes {
		scopes = append(scopes, domain.Scope(sc))
	}
	return &domain.TokenClaims{
		UserID:    c.UserID,
		Username:  c.Username,
		Email:     c.Email,
		Tenant:    *c.Tenant,
		Scopes:    scopes,
		SessionID: c.SessionID,
		ExpiresAt: c.ExpiresAt.Time,
	}, nil
}
