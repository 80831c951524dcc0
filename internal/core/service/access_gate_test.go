package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tablekit/staff-auth/internal/core/domain"
)

func TestAccessGate_Authenticate_Success(t *testing.T) {
	f := newFixture(t)

	_, p := f.login(t, "manager", "manager123")
	if p.User.Username != "manager" {
		t.Errorf("username = %q", p.User.Username)
	}
	if p.Tenant != "GDA01" {
		t.Errorf("tenant = %q", p.Tenant)
	}
	if !p.HasScope("MANAGER") || p.HasScope("ADMIN") {
		t.Errorf("scopes = %v", p.Scopes)
	}
}

func TestAccessGate_AdminSatisfiesEveryTier(t *testing.T) {
	f := newFixture(t)
	token, _ := f.login(t, "admin", "admin123")

	for _, scope := range []domain.Scope{"ADMIN", "MANAGER", "EMPLOYEE"} {
		if _, err := f.gate.Authenticate(context.Background(), token, scope); err != nil {
			t.Errorf("scope %s: %v", scope, err)
		}
	}
}

func TestAccessGate_InsufficientScope(t *testing.T) {
	f := newFixture(t)
	token, _ := f.login(t, "employee", "employee123")

	_, err := f.gate.Authenticate(context.Background(), token, "ADMIN")
	if !errors.Is(err, domain.ErrInsufficientScope) {
		t.Errorf("expected ErrInsufficientScope, got %v", err)
	}
}

func TestAccessGate_ScopeCheckedBeforeSession(t *testing.T) {
	f := newFixture(t)
	stale, _ := f.login(t, "employee", "employee123")
	f.login(t, "employee", "employee123")

	_, err := f.gate.Authenticate(context.Background(), stale, "MANAGER")
	if !errors.Is(err, domain.ErrInsufficientScope) {
		t.Errorf("expected ErrInsufficientScope, got %v", err)
	}
}

func TestAccessGate_DeletedSubject(t *testing.T) {
	f := newFixture(t)
	token, p := f.login(t, "employee", "employee123")

	if err := f.repo.Delete(context.Background(), p.User.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := f.gate.Authenticate(context.Background(), token); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestAccessGate_InvalidToken(t *testing.T) {
	f := newFixture(t)
	if _, err := f.gate.Authenticate(context.Background(), "garbage"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestAccessGate_NeverLoggedIn(t *testing.T) {
	f := newFixture(t)
	// Session id never stored: the user has not logged in since creation.
	u, err := f.repo.FindByUsername(context.Background(), "manager")
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	token, _, err := f.tokens.Issue(domain.TokenClaims{
		UserID: u.ID, Username: u.Username, Email: u.Email, Tenant: u.Tenant,
		Scopes: []domain.Scope{"MANAGER"}, SessionID: uuid.NewString(),
	}, time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := f.gate.Authenticate(context.Background(), token); !errors.Is(err, domain.ErrSessionSuperseded) {
		t.Errorf("expected ErrSessionSuperseded, got %v", err)
	}
}

func TestAccessGate_Authorize_NilClaims(t *testing.T) {
	f := newFixture(t)
	if _, err := f.gate.Authorize(context.Background(), nil); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestAccessGate_StoreError(t *testing.T) {
	f := newFixture(t)
	token, _ := f.login(t, "admin", "admin123")
	boom := errors.New("store down")
	f.repo.findErr = boom

	_, err := f.gate.Authenticate(context.Background(), token)
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped store error, got %v", err)
	}
}
