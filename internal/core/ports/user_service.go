package ports

import (
	"context"

	"github.com/tablekit/staff-auth/internal/core/domain"
)

// CreateUserInput carries the fields of an administrative create.
type CreateUserInput struct {
	Username string
	Email    string
	Password string
	Role     string
	Tenant   string
}

// DeleteUserInput identifies the delete target by its (username, email) pair.
type DeleteUserInput struct {
	Username string
	Email    string
}

// UserSummary is the public projection of a user: no password hash, no session id.
type UserSummary struct {
	ID       int64
	Username string
	Email    string
	Role     string
	Tenant   string
}

// UserService holds the administrative use cases.
type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*UserSummary, error)
	List(ctx context.Context) ([]UserSummary, error)
	Delete(ctx context.Context, principal *domain.Principal, input DeleteUserInput) error
	Me(principal *domain.Principal) (*UserSummary, error)
}

// NewUserSummary projects u for API responses.
func NewUserSummary(u *domain.User) UserSummary {
	return UserSummary{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     string(u.Role),
		Tenant:   u.Tenant,
	}
}
