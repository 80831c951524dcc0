package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/tablekit/staff-auth/internal/core/domain"
	"github.com/tablekit/staff-auth/internal/core/service"
	"github.com/tablekit/staff-auth/internal/infrastructure/config"
	"github.com/tablekit/staff-auth/internal/infrastructure/store"
	"github.com/tablekit/staff-auth/pkg/logger"
)

const defaultRootPassword = "admin123"

var (
	adminOnly    bool
	rootPassword string
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the credential store with initial accounts",
	Long: `Creates the root administrator and, unless --admin-only is given, a demo
manager and employee for restaurant GDA01. Existing usernames are left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := config.Load(ctx)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "staff-auth-seed"})

		roles, err := domain.NewRoleSet(cfg.Roles.Employee, cfg.Roles.Manager, cfg.Roles.Admin)
		if err != nil {
			return err
		}
		root := domain.RootAccount{Username: cfg.Root.Username, Email: cfg.Root.Email}

		password := rootPassword
		if password == "" {
			password = cfg.Root.Password
		}
		if password == "" {
			password = defaultRootPassword
		}

		repo, closeStore, err := store.Open(ctx, cfg.Store, log)
		if err != nil {
			return err
		}
		defer closeStore()

		accounts := service.DemoAccounts(roles, root, password)
		if adminOnly {
			accounts = accounts[:1]
		}

		boot := service.NewBootstrap(repo, service.NewBcryptHasher(bcrypt.DefaultCost), roles, log)
		created, err := boot.EnsureAccounts(ctx, accounts)
		if err != nil {
			return err
		}

		log.Info().Int("created", created).Int("requested", len(accounts)).Msg("seed completed")
		return nil
	},
}

func init() {
	rootCmd.Flags().BoolVar(&adminOnly, "admin-only", false, "Seed only the root administrator")
	rootCmd.Flags().StringVar(&rootPassword, "root-password", "", "Root administrator password (env: ROOT_ADMIN_PASSWORD, default admin123)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
