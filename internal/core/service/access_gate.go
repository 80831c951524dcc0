package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tablekit/staff-auth/internal/core/domain"
	"github.com/tablekit/staff-auth/internal/core/ports"
)

// AccessGate resolves bearer tokens into principals.
type AccessGate struct {
	tokens ports.TokenService
	users  ports.UserRepository
	log    zerolog.Logger
}

func NewAccessGate(tokens ports.TokenService, users ports.UserRepository, log zerolog.Logger) *AccessGate {
	return &AccessGate{tokens: tokens, users: users, log: log}
}

// Authenticate validates token and then applies Authorize.
func (g *AccessGate) Authenticate(ctx context.Context, token string, required ...domain.Scope) (*domain.Principal, error) {
	claims, err := g.tokens.Validate(token)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}
	return g.Authorize(ctx, claims, required...)
}

// Authorize checks, in order: required scopes, that the subject still exists,
// and that the token belongs to the user's current session.
func (g *AccessGate) Authorize(ctx context.Context, claims *domain.TokenClaims, required ...domain.Scope) (*domain.Principal, error) {
	if claims == nil {
		return nil, domain.ErrTokenInvalid
	}

	for _, scope := range required {
		if !containsScope(claims.Scopes, scope) {
			g.log.Debug().Int64("uid", claims.UserID).Str("scope", string(scope)).Msg("missing required scope")
			return nil, domain.ErrInsufficientScope
		}
	}

	// A deleted subject is reported exactly like a bad token.
	user, err := g.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, fmt.Errorf("load principal: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(user.SessionID), []byte(claims.SessionID)) != 1 {
		g.log.Debug().Int64("uid", user.ID).Msg("token from superseded session")
		return nil, domain.ErrSessionSuperseded
	}

	return &domain.Principal{
		User:      user,
		Scopes:    claims.Scopes,
		Tenant:    claims.Tenant,
		SessionID: claims.SessionID,
	}, nil
}

func containsScope(granted []domain.Scope, want domain.Scope) bool {
	for _, s := range granted {
		if s == want {
			return true
		}
	}
	return false
}
