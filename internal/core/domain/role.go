package domain

import (
	"fmt"
	"strings"
)

// Role is the name of a privilege tier as stored on the user record.
type Role string

// Scope is a permission embedded in a token. Scope names equal role names.
type Scope string

// Tier is a privilege level, independent of how a deployment names it.
type Tier int

const (
	TierEmployee Tier = iota + 1
	TierManager
	TierAdmin
)

var allTiers = []Tier{TierAdmin, TierManager, TierEmployee}

// tierGrants lists, per tier, the tiers whose scopes a role of that tier receives.
// Adding a tier is a change to this table only.
var tierGrants = map[Tier][]Tier{
	TierEmployee: {TierEmployee},
	TierManager:  {TierManager},
	TierAdmin:    {TierAdmin, TierManager, TierEmployee},
}

func (t Tier) String() string {
	switch t {
	case TierEmployee:
		return "employee"
	case TierManager:
		return "manager"
	case TierAdmin:
		return "admin"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// RoleSet binds deployment-specific role names to tiers and holds the
// precomputed role -> scopes table. It is immutable once built.
type RoleSet struct {
	names  map[Tier]Role
	tiers  map[Role]Tier
	scopes map[Role][]Scope
}

// DefaultRoleSet uses the EMPLOYEE / MANAGER / ADMIN naming.
func DefaultRoleSet() *RoleSet {
	rs, _ := NewRoleSet("EMPLOYEE", "MANAGER", "ADMIN")
	return rs
}

// NewRoleSet builds a RoleSet from the names of the three tiers.
func NewRoleSet(employee, manager, admin string) (*RoleSet, error) {
	names := map[Tier]Role{
		TierEmployee: Role(strings.TrimSpace(employee)),
		TierManager:  Role(strings.TrimSpace(manager)),
		TierAdmin:    Role(strings.TrimSpace(admin)),
	}

	rs := &RoleSet{
		names:  names,
		tiers:  make(map[Role]Tier, len(names)),
		scopes: make(map[Role][]Scope, len(names)),
	}
	for _, tier := range allTiers {
		name := names[tier]
		if name == "" {
			return nil, fmt.Errorf("%w: empty name for %s tier", ErrInvalidRole, tier)
		}
		if other, dup := rs.tiers[name]; dup {
			return nil, fmt.Errorf("%w: %q used for both %s and %s tiers", ErrInvalidRole, name, other, tier)
		}
		rs.tiers[name] = tier
	}

	for role, tier := range rs.tiers {
		granted := tierGrants[tier]
		scopes := make([]Scope, 0, len(granted))
		for _, g := range granted {
			scopes = append(scopes, Scope(names[g]))
		}
		rs.scopes[role] = scopes
	}
	return rs, nil
}

// ScopesFor expands role into the scopes it grants.
func (rs *RoleSet) ScopesFor(role Role) ([]Scope, error) {
	scopes, ok := rs.scopes[role]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	out := make([]Scope, len(scopes))
	copy(out, scopes)
	return out, nil
}

// Valid reports whether role belongs to the set.
func (rs *RoleSet) Valid(role Role) bool {
	_, ok := rs.tiers[role]
	return ok
}

// Role returns the configured role name for tier.
func (rs *RoleSet) Role(t Tier) Role {
	return rs.names[t]
}

// Scope returns the scope that guards operations of tier t.
func (rs *RoleSet) Scope(t Tier) Scope {
	return Scope(rs.names[t])
}

// Roles lists role names from the highest tier down.
func (rs *RoleSet) Roles() []Role {
	out := make([]Role, 0, len(allTiers))
	for _, t := range allTiers {
		out = append(out, rs.names[t])
	}
	return out
}
