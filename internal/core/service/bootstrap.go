package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tablekit/staff-auth/internal/core/domain"
	"github.com/tablekit/staff-auth/internal/core/ports"
)

// DemoTenant is the restaurant the demo manager and employee belong to.
const DemoTenant = "GDA01"

// SeedAccount is an account inserted at bootstrap time.
type SeedAccount struct {
	Username string
	Email    string
	Password string
	Role     domain.Role
	Tenant   string
}

// RootSeed describes the root administrator.
func RootSeed(roles *domain.RoleSet, root domain.RootAccount, password string) SeedAccount {
	return SeedAccount{
		Username: root.Username,
		Email:    root.Email,
		Password: password,
		Role:     roles.Role(domain.TierAdmin),
	}
}

// DemoAccounts returns the root administrator plus one manager and one
// employee of DemoTenant.
func DemoAccounts(roles *domain.RoleSet, root domain.RootAccount, rootPassword string) []SeedAccount {
	return []SeedAccount{
		RootSeed(roles, root, rootPassword),
		{
			Username: "manager",
			Email:    "manager@company.com",
			Password: "manager123",
			Role:     roles.Role(domain.TierManager),
			Tenant:   DemoTenant,
		},
		{
			Username: "employee",
			Email:    "employee@company.com",
			Password: "employee123",
			Role:     roles.Role(domain.TierEmployee),
			Tenant:   DemoTenant,
		},
	}
}

// Bootstrap inserts initial accounts straight into the credential store.
type Bootstrap struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	roles  *domain.RoleSet
	log    zerolog.Logger
}

func NewBootstrap(repo ports.UserRepository, hasher ports.PasswordHasher, roles *domain.RoleSet, log zerolog.Logger) *Bootstrap {
	return &Bootstrap{repo: repo, hasher: hasher, roles: roles, log: log}
}

// EnsureAccounts inserts every account whose username is not taken yet and
// reports how many were created. Existing accounts are left untouched.
func (b *Bootstrap) EnsureAccounts(ctx context.Context, accounts []SeedAccount) (int, error) {
	created := 0
	for _, acc := range accounts {
		if !b.roles.Valid(acc.Role) {
			return created, fmt.Errorf("seed %s: %w: %q", acc.Username, domain.ErrInvalidRole, acc.Role)
		}

		_, err := b.repo.FindByUsername(ctx, acc.Username)
		if err == nil {
			b.log.Debug().Str("username", acc.Username).Msg("seed account exists, skipping")
			continue
		}
		if !errors.Is(err, domain.ErrUserNotFound) {
			return created, fmt.Errorf("seed %s: %w", acc.Username, err)
		}

		hash, err := b.hasher.Hash(acc.Password)
		if err != nil {
			return created, fmt.Errorf("seed %s: %w", acc.Username, err)
		}

		now := time.Now().UTC()
		if _, err := b.repo.Insert(ctx, &domain.User{
			Username:     acc.Username,
			Email:        acc.Email,
			PasswordHash: hash,
			Role:         acc.Role,
			Tenant:       acc.Tenant,
			CreatedAt:    now,
			UpdatedAt:    now,
		}); err != nil {
			return created, fmt.Errorf("seed %s: %w", acc.Username, err)
		}

		b.log.Info().Str("username", acc.Username).Str("role", string(acc.Role)).Msg("seed account created")
		created++
	}
	return created, nil
}
