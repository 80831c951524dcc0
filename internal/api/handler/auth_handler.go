package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tablekit/staff-auth/internal/api/metrics"
	"github.com/tablekit/staff-auth/internal/core/domain"
	"github.com/tablekit/staff-auth/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	userService ports.UserService
}

func NewAuthHandler(authService ports.AuthService, userService ports.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

// loginRequest accepts both OAuth2 password-form fields and JSON.
type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type tokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type meResponse struct {
	userResponse
	Scopes []string `json:"scopes"`
}

// Login exchanges username and password for a bearer token.
//
// @Summary      Login
// @Tags         users
// @Accept       x-www-form-urlencoded,json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  errorBody
// @Failure      429   {object}  errorBody
// @Router       /users/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Detail: "invalid payload"})
	}

	res, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken: res.AccessToken,
		TokenType:   res.TokenType,
		ExpiresAt:   res.ExpiresAt,
	})
}

// Logout ends the caller's session. Every token issued for it stops working.
//
// @Summary      Logout
// @Tags         users
// @Security     BearerAuth
// @Success      204
// @Failure      401   {object}  errorBody
// @Router       /users/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	if err := h.authService.Logout(c.Request().Context(), p); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated user and the scopes of the presented token.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  meResponse
// @Failure      401   {object}  errorBody
// @Router       /users/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	me, err := h.userService.Me(p)
	if err != nil {
		return err
	}

	scopes := make([]string, 0, len(p.Scopes))
	for _, s := range p.Scopes {
		scopes = append(scopes, string(s))
	}
	return c.JSON(http.StatusOK, meResponse{userResponse: toUserResponse(*me), Scopes: scopes})
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return "throttled"
	default:
		return "error"
	}
}
