package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// DevJWTSecret signs tokens when JWT_SECRET is unset outside production.
const DevJWTSecret = "dev-only-insecure-secret"

// RolePolicy selects where the route guard reads an account's role from.
type RolePolicy string

const (
	// RolePolicyToken trusts the role embedded in the token.
	RolePolicyToken RolePolicy = "token"
	// RolePolicyStore re-reads the account on every guarded request.
	RolePolicyStore RolePolicy = "store"
)

var ErrMissingSecret = errors.New("config: JWT_SECRET is required in production")

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
	Audit AuditConfig
}

type AuthConfig struct {
	JWTSecret          string        `env:"JWT_SECRET"`
	TokenTTL           time.Duration `env:"TOKEN_TTL,              default=168h"`
	BcryptCost         int           `env:"BCRYPT_COST,            default=12"`
	RolePolicy         RolePolicy    `env:"AUTH_ROLE_POLICY,       default=token"`
	LookupTimeout      time.Duration `env:"SESSION_LOOKUP_TIMEOUT, default=3s"`
	LoginMaxAttempts   int           `env:"LOGIN_MAX_ATTEMPTS,     default=5"`
	LoginLockoutWindow time.Duration `env:"LOGIN_LOCKOUT_WINDOW,   default=15m"`

	// Per client IP limit on the register and login endpoints.
	RateLimit float64 `env:"AUTH_RATE_LIMIT, default=5"`
	RateBurst int     `env:"AUTH_RATE_BURST, default=10"`

	// DevSecret is set when JWTSecret was filled with DevJWTSecret.
	DevSecret bool
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=ticketing"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

// MustLoad is Load for process startup; it panics on error.
func MustLoad() *Config {
	cfg, err := Load(context.Background())
	if err != nil {
		panic(err.Error())
	}
	return cfg
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}

	if cfg.Auth.JWTSecret == "" {
		if cfg.IsProduction() {
			return nil, ErrMissingSecret
		}
		cfg.Auth.JWTSecret = DevJWTSecret
		cfg.Auth.DevSecret = true
	}

	switch cfg.Auth.RolePolicy {
	case RolePolicyToken, RolePolicyStore:
	default:
		return nil, fmt.Errorf("config: unknown AUTH_ROLE_POLICY %q", cfg.Auth.RolePolicy)
	}

	return &cfg, nil
}
