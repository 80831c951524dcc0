package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/tablekit/staff-auth/internal/core/domain"
	"github.com/tablekit/staff-auth/internal/core/ports"
)

// Guards builds the per-tier authentication middlewares. A tier guard
// requires that tier's scope; RequireAny only requires a valid session.
type Guards struct {
	gate  ports.AccessGate
	roles *domain.RoleSet
}

func NewGuards(gate ports.AccessGate, roles *domain.RoleSet) *Guards {
	return &Guards{gate: gate, roles: roles}
}

func (g *Guards) RequireAny() echo.MiddlewareFunc {
	return Auth(g.gate)
}

func (g *Guards) RequireEmployee() echo.MiddlewareFunc {
	return Auth(g.gate, g.roles.Scope(domain.TierEmployee))
}

func (g *Guards) RequireManager() echo.MiddlewareFunc {
	return Auth(g.gate, g.roles.Scope(domain.TierManager))
}

func (g *Guards) RequireAdmin() echo.MiddlewareFunc {
	return Auth(g.gate, g.roles.Scope(domain.TierAdmin))
}
