package ports

import (
	"context"
	"time"

	"github.com/tablekit/staff-auth/internal/core/domain"
)

// LoginResult is the bearer credential handed back after a successful login.
type LoginResult struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
	User        *domain.User
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Logout(ctx context.Context, principal *domain.Principal) error
}
