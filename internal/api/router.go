package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/tablekit/staff-auth/docs" // swagger docs
	"github.com/tablekit/staff-auth/internal/api/handler"
	"github.com/tablekit/staff-auth/internal/api/middleware"
	"github.com/tablekit/staff-auth/internal/core/domain"
	"github.com/tablekit/staff-auth/internal/core/ports"
)

// Dependencies is everything NewRouter wires into handlers.
type Dependencies struct {
	Auth   ports.AuthService
	Users  ports.UserService
	Gate   ports.AccessGate
	Roles  *domain.RoleSet
	Checks map[string]handler.Check
	Log    zerolog.Logger

	// Registerer and Gatherer back the HTTP metrics and /metrics. Both
	// default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "staffauth",
		Subsystem:  "http",
		Registerer: deps.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Dependencies ---
	guards := middleware.NewGuards(deps.Gate, deps.Roles)
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Users)
	userHandler := handler.NewUserHandler(deps.Users)
	healthHandler := handler.NewHealthHandler(deps.Checks)

	// --- User routes ---
	users := e.Group("/users")
	users.POST("/login", authHandler.Login)
	users.GET("/me", authHandler.Me, guards.RequireAny())
	users.POST("/logout", authHandler.Logout, guards.RequireAny())

	admin := guards.RequireAdmin()
	for _, path := range []string{"", "/"} {
		users.GET(path, userHandler.List, admin)
		users.POST(path, userHandler.Create, admin)
		users.DELETE(path, userHandler.Delete, admin)
	}

	// --- Health probes (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: deps.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
