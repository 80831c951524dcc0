package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/tablekit/staff-auth/internal/api"
	"github.com/tablekit/staff-auth/internal/api/handler"
	"github.com/tablekit/staff-auth/internal/core/domain"
	"github.com/tablekit/staff-auth/internal/core/ports"
	"github.com/tablekit/staff-auth/internal/core/service"
	"github.com/tablekit/staff-auth/internal/infrastructure/config"
	redisstore "github.com/tablekit/staff-auth/internal/infrastructure/db/redis"
	"github.com/tablekit/staff-auth/internal/infrastructure/store"
	"github.com/tablekit/staff-auth/pkg/logger"
)

// @title Staff Auth API
// @version 1.0
// @description User management and authentication for restaurant staff.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.Init(logger.Options{Pretty: true})
		l.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "staff-auth",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	roles, err := domain.NewRoleSet(cfg.Roles.Employee, cfg.Roles.Manager, cfg.Roles.Admin)
	if err != nil {
		return err
	}
	root := domain.RootAccount{Username: cfg.Root.Username, Email: cfg.Root.Email}

	repo, closeStore, err := store.Open(ctx, cfg.Store, log)
	if err != nil {
		return err
	}
	defer closeStore()

	checks := map[string]handler.Check{"store": repo.Ping}

	var throttle ports.LoginThrottle
	if cfg.Redis.Addr != "" {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			Password: cfg.Redis.Password,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		throttle = redisstore.NewLoginThrottle(rdb, cfg.Throttle.MaxAttempts, cfg.Throttle.Window)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		log.Info().Int("max_attempts", cfg.Throttle.MaxAttempts).Dur("window", cfg.Throttle.Window).Msg("login throttling enabled")
	} else {
		log.Warn().Msg("REDIS_ADDR not set, login throttling disabled")
	}

	hasher := service.NewBcryptHasher(bcrypt.DefaultCost)
	tokens, err := service.NewTokenService(cfg.JWT.Secret, cfg.JWT.Algorithm)
	if err != nil {
		return err
	}

	if cfg.Root.Password != "" {
		boot := service.NewBootstrap(repo, hasher, roles, logger.Component("bootstrap"))
		if _, err := boot.EnsureAccounts(ctx, []service.SeedAccount{service.RootSeed(roles, root, cfg.Root.Password)}); err != nil {
			return err
		}
	}

	e := api.NewRouter(api.Dependencies{
		Auth:   service.NewAuthService(repo, hasher, tokens, roles, throttle, cfg.JWT.LoginTTL, logger.Component("auth")),
		Users:  service.NewUserService(repo, hasher, roles, root, logger.Component("users")),
		Gate:   service.NewAccessGate(tokens, repo, logger.Component("gate")),
		Roles:  roles,
		Checks: checks,
		Log:    logger.Component("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.Store.Driver).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
