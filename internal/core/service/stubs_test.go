package service

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/tablekit/staff-auth/internal/core/domain"
)

const testSecret = "test-secret"

// stubUserRepo is a map-backed credential store with the same uniqueness
// rules as the real ones.
type stubUserRepo struct {
	mu      sync.Mutex
	nextID  int64
	users   map[int64]*domain.User
	findErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) find(match func(*domain.User) bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.ID == id })
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Username == username })
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Email == email })
}

func (r *stubUserRepo) FindByUsernameAndEmail(_ context.Context, username, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Username == username && u.Email == email })
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.users))
	for id := int64(1); id <= r.nextID; id++ {
		if u, ok := r.users[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *stubUserRepo) Insert(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, domain.ErrDuplicateUser
		}
	}
	r.nextID++
	stored := cloneUser(user)
	stored.ID = r.nextID
	r.users[stored.ID] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) UpdateSessionID(_ context.Context, id int64, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.SessionID = sessionID
	return nil
}

func (r *stubUserRepo) Ping(context.Context) error { return nil }

func (r *stubUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

// stubThrottle blocks once failures reach limit.
type stubThrottle struct {
	limit    int
	failures map[string]int
	resets   int
}

func newStubThrottle(limit int) *stubThrottle {
	return &stubThrottle{limit: limit, failures: make(map[string]int)}
}

func (t *stubThrottle) Blocked(_ context.Context, username string) (bool, error) {
	return t.failures[username] >= t.limit, nil
}

func (t *stubThrottle) RecordFailure(_ context.Context, username string) error {
	t.failures[username]++
	return nil
}

func (t *stubThrottle) Reset(_ context.Context, username string) error {
	delete(t.failures, username)
	t.resets++
	return nil
}

// fixture bundles a seeded store with every service built on top of it.
type fixture struct {
	repo   *stubUserRepo
	hasher *BcryptHasher
	tokens *TokenService
	roles  *domain.RoleSet
	gate   *AccessGate
	auth   *AuthService
	users  *UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := newStubUserRepo()
	hasher := NewBcryptHasher(bcrypt.MinCost)
	roles := domain.DefaultRoleSet()
	tokens, err := NewTokenService(testSecret, "HS256")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	root := domain.RootAccount{Username: domain.DefaultRootUsername, Email: domain.DefaultRootEmail}
	log := zerolog.Nop()

	boot := NewBootstrap(repo, hasher, roles, log)
	if _, err := boot.EnsureAccounts(context.Background(), DemoAccounts(roles, root, "admin123")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	return &fixture{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		roles:  roles,
		gate:   NewAccessGate(tokens, repo, log),
		auth:   NewAuthService(repo, hasher, tokens, roles, nil, LoginTokenTTL, log),
		users:  NewUserService(repo, hasher, roles, root, log),
	}
}

// login logs username in and resolves the returned token into a principal.
func (f *fixture) login(t *testing.T, username, password string) (string, *domain.Principal) {
	t.Helper()
	res, err := f.auth.Login(context.Background(), username, password)
	if err != nil {
		t.Fatalf("login %s: %v", username, err)
	}
	p, err := f.gate.Authenticate(context.Background(), res.AccessToken)
	if err != nil {
		t.Fatalf("authenticate %s: %v", username, err)
	}
	return res.AccessToken, p
}
