package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tablekit/staff-auth/internal/api/metrics"
	"github.com/tablekit/staff-auth/internal/core/ports"
)

// UserHandler serves the administrative user endpoints.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// --- Request / Response types ---

type createUserRequest struct {
	Username   string `json:"username"   validate:"required,max=64"`
	Email      string `json:"email"      validate:"required,email,max=255"`
	Password   string `json:"password"   validate:"required,max=72"`
	Role       string `json:"role"       validate:"required"`
	Restaurant string `json:"restaurant" validate:"max=64"`
}

type deleteUserRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"    validate:"required"`
}

type userResponse struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Restaurant string `json:"restaurant"`
}

type errorBody struct {
	Detail string `json:"detail"`
}

func toUserResponse(s ports.UserSummary) userResponse {
	return userResponse{
		ID:         s.ID,
		Username:   s.Username,
		Email:      s.Email,
		Role:       s.Role,
		Restaurant: s.Tenant,
	}
}

// List returns every user.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200   {array}   userResponse
// @Failure      401   {object}  errorBody
// @Router       /users/ [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return c.JSON(http.StatusOK, out)
}

// Create adds a user with the given role and restaurant.
//
// @Summary      Create user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "New user"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Router       /users/ [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Detail: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Detail: err.Error()})
	}

	created, err := h.service.Create(c.Request().Context(), ports.CreateUserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Tenant:   req.Restaurant,
	})
	if err != nil {
		return err
	}
	metrics.UsersCreatedTotal.WithLabelValues(created.Role).Inc()

	return c.JSON(http.StatusCreated, toUserResponse(*created))
}

// Delete removes the user identified by username and email.
//
// @Summary      Delete user
// @Tags         users
// @Accept       json
// @Security     BearerAuth
// @Param        body  body      deleteUserRequest  true  "User to delete"
// @Success      204
// @Failure      401   {object}  errorBody
// @Failure      403   {object}  errorBody
// @Failure      404   {object}  errorBody
// @Router       /users/ [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req deleteUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Detail: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Detail: err.Error()})
	}

	if err := h.service.Delete(c.Request().Context(), p, ports.DeleteUserInput{
		Username: req.Username,
		Email:    req.Email,
	}); err != nil {
		return err
	}
	metrics.UsersDeletedTotal.Inc()

	return c.NoContent(http.StatusNoContent)
}
