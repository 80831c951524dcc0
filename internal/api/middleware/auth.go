package middleware

import (
	"errors"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/tablekit/staff-auth/internal/api/handler"
	"github.com/tablekit/staff-auth/internal/core/domain"
	"github.com/tablekit/staff-auth/internal/core/ports"
)

// gateFailure marks an error raised by the access gate itself, as opposed to
// a missing or malformed Authorization header.
type gateFailure struct{ err error }

func (g *gateFailure) Error() string { return g.err.Error() }
func (g *gateFailure) Unwrap() error { return g.err }

// Auth extracts the bearer token, resolves it through the gate and stores the
// resulting principal under handler.PrincipalContextKey.
func Auth(gate ports.AccessGate, required ...domain.Scope) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ContextKey:  handler.PrincipalContextKey,
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			p, err := gate.Authenticate(c.Request().Context(), auth, required...)
			if err != nil {
				return nil, &gateFailure{err: err}
			}
			return p, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			var gf *gateFailure
			if errors.As(err, &gf) {
				return gf.err
			}
			return domain.ErrTokenInvalid
		},
	})
}
