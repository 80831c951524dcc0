package ports

import (
	"context"
	"time"

	"github.com/tablekit/staff-auth/internal/core/domain"
)

// PasswordHasher produces salted one-way digests. Verify never errors: a
// malformed hash simply fails verification.
type PasswordHasher interface {
	Hash(plaintext string) ([]byte, error)
	Verify(plaintext string, hash []byte) bool
}

// TokenService signs and validates bearer tokens. Every validation failure
// is reported as domain.ErrTokenInvalid.
type TokenService interface {
	Issue(claims domain.TokenClaims, ttl time.Duration) (string, time.Time, error)
	Validate(token string) (*domain.TokenClaims, error)
}

// AccessGate turns a bearer token into a Principal holding the required scopes.
type AccessGate interface {
	Authenticate(ctx context.Context, token string, required ...domain.Scope) (*domain.Principal, error)
	Authorize(ctx context.Context, claims *domain.TokenClaims, required ...domain.Scope) (*domain.Principal, error)
}

// LoginThrottle counts failed logins per username.
type LoginThrottle interface {
	Blocked(ctx context.Context, username string) (bool, error)
	RecordFailure(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}
