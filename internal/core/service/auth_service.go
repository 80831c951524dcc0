package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tablekit/staff-auth/internal/core/domain"
	"github.com/tablekit/staff-auth/internal/core/ports"
)

// LoginTokenTTL is the lifetime of tokens handed out by Login.
const LoginTokenTTL = time.Hour

// AuthService implements login and logout.
type AuthService struct {
	repo     ports.UserRepository
	hasher   ports.PasswordHasher
	tokens   ports.TokenService
	roles    *domain.RoleSet
	throttle ports.LoginThrottle
	tokenTTL time.Duration
	log      zerolog.Logger
}

// NewAuthService wires the login flow. A nil throttle disables lockouts.
func NewAuthService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenService,
	roles *domain.RoleSet,
	throttle ports.LoginThrottle,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = LoginTokenTTL
	}
	if throttle == nil {
		throttle = noopThrottle{}
	}
	return &AuthService{
		repo:     repo,
		hasher:   hasher,
		tokens:   tokens,
		roles:    roles,
		throttle: throttle,
		tokenTTL: tokenTTL,
		log:      log,
	}
}

// Login verifies the credentials, starts a new session for the user and
// returns a token bound to it. Any token from an earlier session stops working.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	blocked, err := s.throttle.Blocked(ctx, username)
	if err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("throttle check failed, continuing")
	} else if blocked {
		return nil, domain.ErrTooManyAttempts
	}

	// 1. Credential lookup. Unknown users and bad passwords look the same.
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.recordFailure(ctx, username)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	// 2. Password check.
	if !s.hasher.Verify(password, user.PasswordHash) {
		s.recordFailure(ctx, username)
		return nil, domain.ErrInvalidCredentials
	}

	// 3. Scope expansion.
	// A stored role outside the configured set is a server fault, not bad input.
	scopes, err := s.roles.ScopesFor(user.Role)
	if err != nil {
		return nil, fmt.Errorf("login: user %d has unconfigured role %q", user.ID, user.Role)
	}

	// 4. Session mint. Overwriting the stored id revokes older tokens.
	sessionID := uuid.NewString()
	if err := s.repo.UpdateSessionID(ctx, user.ID, sessionID); err != nil {
		return nil, fmt.Errorf("login: store session: %w", err)
	}
	user.SessionID = sessionID

	// 5. Token issue.
	token, expiresAt, err := s.tokens.Issue(domain.TokenClaims{
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Tenant:    user.Tenant,
		Scopes:    scopes,
		SessionID: sessionID,
	}, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	if err := s.throttle.Reset(ctx, username); err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("failed to reset login throttle")
	}

	s.log.Info().Int64("uid", user.ID).Str("username", user.Username).Msg("user logged in")

	return &ports.LoginResult{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}

// Logout rotates the stored session id so every outstanding token of the
// principal is rejected as superseded.
func (s *AuthService) Logout(ctx context.Context, principal *domain.Principal) error {
	if principal == nil || principal.User == nil {
		return domain.ErrTokenInvalid
	}
	if err := s.repo.UpdateSessionID(ctx, principal.User.ID, uuid.NewString()); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.log.Info().Int64("uid", principal.User.ID).Msg("user logged out")
	return nil
}

func (s *AuthService) recordFailure(ctx context.Context, username string) {
	if err := s.throttle.RecordFailure(ctx, username); err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("failed to record login failure")
	}
}

type noopThrottle struct{}

func (noopThrottle) Blocked(context.Context, string) (bool, error) { return false, nil }
func (noopThrottle) RecordFailure(context.Context, string) error   { return nil }
func (noopThrottle) Reset(context.Context, string) error           { return nil }
