package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/tablekit/staff-auth/internal/core/domain"
)

// PrincipalContextKey is where the Auth middleware stores the *domain.Principal.
const PrincipalContextKey = "principal"

// ctxPrincipal extracts the principal injected by the Auth middleware.
// Its absence means the route was registered without a guard, which is
// reported as an invalid token rather than a panic.
func ctxPrincipal(c echo.Context) (*domain.Principal, error) {
	p, ok := c.Get(PrincipalContextKey).(*domain.Principal)
	if !ok || p == nil || p.User == nil {
		return nil, domain.ErrTokenInvalid
	}
	return p, nil
}
