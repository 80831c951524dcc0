package sql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/tablekit/staff-auth/internal/core/domain"
)

type userRecord struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"size:64;not null;uniqueIndex"`
	Email        string `gorm:"size:255;not null;uniqueIndex"`
	PasswordHash []byte `gorm:"not null"`
	Role         string `gorm:"size:32;not null"`
	Restaurant   string `gorm:"size:64;not null;default:''"`
	SessionID    string `gorm:"size:36;not null;default:''"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userRecord) TableName() string { return "users" }

func (r *userRecord) toDomain() *domain.User {
	return &domain.User{
		ID:           r.ID,
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Role:         domain.Role(r.Role),
		Tenant:       r.Restaurant,
		SessionID:    r.SessionID,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
}

// UserRepository is the GORM-backed credential store.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) first(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var rec userRecord
	if err := r.db.WithContext(ctx).Where(query, args...).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return rec.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepository) FindByUsernameAndEmail(ctx context.Context, username, email string) (*domain.User, error) {
	return r.first(ctx, "username = ? AND email = ?", username, email)
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	var recs []userRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]*domain.User, 0, len(recs))
	for i := range recs {
		out = append(out, recs[i].toDomain())
	}
	return out, nil
}

func (r *UserRepository) Insert(ctx context.Context, user *domain.User) (*domain.User, error) {
	rec := userRecord{
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Role:         string(user.Role),
		Restaurant:   user.Tenant,
		SessionID:    user.SessionID,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrDuplicateUser
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return rec.toDomain(), nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&userRecord{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// UpdateSessionID is a single-row UPDATE, so concurrent logins resolve to
// whichever write lands last.
func (r *UserRepository) UpdateSessionID(ctx context.Context, id int64, sessionID string) error {
	res := r.db.WithContext(ctx).Model(&userRecord{}).Where("id = ?", id).
		Updates(map[string]any{"session_id": sessionID, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return fmt.Errorf("update session: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
