package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tablekit/staff-auth/internal/core/domain"
	"github.com/tablekit/staff-auth/internal/core/ports"
)

// UserService implements administrative create, list and delete.
type UserService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	roles  *domain.RoleSet
	root   domain.RootAccount
	log    zerolog.Logger
}

func NewUserService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	roles *domain.RoleSet,
	root domain.RootAccount,
	log zerolog.Logger,
) *UserService {
	return &UserService{repo: repo, hasher: hasher, roles: roles, root: root, log: log}
}

// Create stores a new user. The username and email probes are a fast path;
// the store's unique constraint decides races between concurrent creates.
func (s *UserService) Create(ctx context.Context, in ports.CreateUserInput) (*ports.UserSummary, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" || email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", domain.ErrInvalidInput)
	}

	role := domain.Role(in.Role)
	if !s.roles.Valid(role) {
		return nil, fmt.Errorf("%w: %q (expected one of %v)", domain.ErrInvalidRole, in.Role, s.roles.Roles())
	}

	if err := s.ensureAbsent(s.repo.FindByUsername(ctx, username)); err != nil {
		return nil, err
	}
	if err := s.ensureAbsent(s.repo.FindByEmail(ctx, email)); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.repo.Insert(ctx, &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Tenant:       strings.TrimSpace(in.Tenant),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("uid", created.ID).Str("username", created.Username).Str("role", string(created.Role)).Msg("user created")

	summary := ports.NewUserSummary(created)
	return &summary, nil
}

// List returns every user without credentials.
func (s *UserService) List(ctx context.Context) ([]ports.UserSummary, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]ports.UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, ports.NewUserSummary(u))
	}
	return out, nil
}

// Delete removes the user matching the (username, email) pair. The root
// administrator and the caller's own account are refused.
func (s *UserService) Delete(ctx context.Context, principal *domain.Principal, in ports.DeleteUserInput) error {
	target, err := s.repo.FindByUsernameAndEmail(ctx, in.Username, in.Email)
	if err != nil {
		return err
	}

	if s.root.Matches(target) {
		return domain.ErrForbiddenRootDelete
	}
	if principal != nil && principal.User != nil && principal.User.Username == target.Username {
		return domain.ErrForbiddenSelfDelete
	}

	if err := s.repo.Delete(ctx, target.ID); err != nil {
		return err
	}

	actor := int64(0)
	if principal != nil && principal.User != nil {
		actor = principal.User.ID
	}
	s.log.Info().Int64("uid", target.ID).Str("username", target.Username).Int64("actor", actor).Msg("user deleted")
	return nil
}

// Me projects the authenticated user. The tenant comes from the token, which
// is what every downstream check reads.
func (s *UserService) Me(principal *domain.Principal) (*ports.UserSummary, error) {
	if principal == nil || principal.User == nil {
		return nil, domain.ErrTokenInvalid
	}
	summary := ports.NewUserSummary(principal.User)
	summary.Tenant = principal.Tenant
	return &summary, nil
}

// ensureAbsent turns a lookup result into a uniqueness verdict.
func (s *UserService) ensureAbsent(_ *domain.User, err error) error {
	switch {
	case err == nil:
		return domain.ErrDuplicateUser
	case errors.Is(err, domain.ErrUserNotFound):
		return nil
	default:
		return fmt.Errorf("uniqueness probe: %w", err)
	}
}
