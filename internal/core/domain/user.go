package domain

import "time"

// Well-known root administrator, protected from deletion.
const (
	DefaultRootUsername = "admin"
	DefaultRootEmail    = "admin@admin.com"
)

// User models a staff account.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
	Role         Role      `json:"role"`
	Tenant       string    `json:"restaurant,omitempty"`
	SessionID    string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RootAccount identifies the bootstrap administrator that can never be deleted.
type RootAccount struct {
	Username string
	Email    string
}

// Matches reports whether u is the root account. Either identifier is enough.
func (r RootAccount) Matches(u *User) bool {
	if u == nil {
		return false
	}
	return u.Username == r.Username || u.Email == r.Email
}

// Principal is the authenticated user for the remainder of a request.
type Principal struct {
	User      *User
	Scopes    []Scope
	Tenant    string
	SessionID string
}

// HasScope reports whether the principal was granted s.
func (p *Principal) HasScope(s Scope) bool {
	for _, granted := range p.Scopes {
		if granted == s {
			return true
		}
	}
	return false
}

// TokenClaims is the identity carried by a bearer token.
type TokenClaims struct {
	UserID    int64
	Username  string
	Email     string
	Tenant    string
	Scopes    []Scope
	SessionID string
	ExpiresAt time.Time
}
