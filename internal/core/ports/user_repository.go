package ports

import (
	"context"

	"github.com/tablekit/staff-auth/internal/core/domain"
)

// UserRepository is the credential store. Lookups return domain.ErrUserNotFound
// when nothing matches; Insert returns domain.ErrDuplicateUser when the storage
// layer's unique constraint on username or email rejects the row.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsernameAndEmail(ctx context.Context, username, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Insert(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
	// UpdateSessionID overwrites the user's current session identifier.
	// Concurrent callers race; the last write wins.
	UpdateSessionID(ctx context.Context, id int64, sessionID string) error
	Ping(ctx context.Context) error
}
