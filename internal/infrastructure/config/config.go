package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sethvargo/go-envconfig"
)

// DefaultJWTSecret is the development signing key. Validate refuses it in production.
const DefaultJWTSecret = "your_secret_key"

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
	DriverMongo  = "mongo"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWT      JWTConfig
	Store    StoreConfig
	Redis    RedisConfig
	Throttle ThrottleConfig
	Roles    RolesConfig
	Root     RootConfig
}

type JWTConfig struct {
	Secret    string        `env:"JWT_SECRET,    default=your_secret_key"`
	Algorithm string        `env:"JWT_ALGORITHM, default=HS256"`
	LoginTTL  time.Duration `env:"JWT_LOGIN_TTL, default=1h"`
}

type StoreConfig struct {
	Driver     string `env:"STORE_DRIVER, default=sqlite"`
	SQLitePath string `env:"SQLITE_PATH,  default=local.db"`
	MySQLDSN   string `env:"MYSQL_DSN"`
	Mongo      MongoConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=staff_auth"`
}

// RedisConfig is optional. An empty Addr disables login throttling.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	DB       int    `env:"REDIS_DB,       default=0"`
	Password string `env:"REDIS_PASSWORD"`
}

type ThrottleConfig struct {
	MaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS,   default=5"`
	Window      time.Duration `env:"LOGIN_LOCKOUT_WINDOW, default=15m"`
}

type RolesConfig struct {
	Employee string `env:"ROLE_EMPLOYEE, default=EMPLOYEE"`
	Manager  string `env:"ROLE_MANAGER,  default=MANAGER"`
	Admin    string `env:"ROLE_ADMIN,    default=ADMIN"`
}

type RootConfig struct {
	Username string `env:"ROOT_ADMIN_USERNAME, default=admin"`
	Email    string `env:"ROOT_ADMIN_EMAIL,    default=admin@admin.com"`
	Password string `env:"ROOT_ADMIN_PASSWORD"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration from l and validates it.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.Store.Driver = strings.ToLower(strings.TrimSpace(cfg.Store.Driver))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error

	switch {
	case c.JWT.Secret == "":
		errs = append(errs, errors.New("JWT_SECRET must not be empty"))
	case c.IsProduction() && c.JWT.Secret == DefaultJWTSecret:
		errs = append(errs, errors.New("JWT_SECRET must be changed in production"))
	}
	if _, ok := jwt.GetSigningMethod(c.JWT.Algorithm).(*jwt.SigningMethodHMAC); !ok {
		errs = append(errs, fmt.Errorf("JWT_ALGORITHM %q is not an HMAC algorithm", c.JWT.Algorithm))
	}
	if c.JWT.LoginTTL <= 0 {
		errs = append(errs, errors.New("JWT_LOGIN_TTL must be positive"))
	}

	switch c.Store.Driver {
	case DriverSQLite, DriverMongo:
	case DriverMySQL:
		if c.Store.MySQLDSN == "" {
			errs = append(errs, errors.New("MYSQL_DSN is required for the mysql driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver))
	}

	if c.Redis.Addr != "" && (c.Throttle.MaxAttempts <= 0 || c.Throttle.Window <= 0) {
		errs = append(errs, errors.New("LOGIN_MAX_ATTEMPTS and LOGIN_LOCKOUT_WINDOW must be positive"))
	}
	if c.Root.Username == "" || c.Root.Email == "" {
		errs = append(errs, errors.New("ROOT_ADMIN_USERNAME and ROOT_ADMIN_EMAIL must not be empty"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
