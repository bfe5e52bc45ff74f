package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=4000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,   default=168h"`
	// AuthPolicy selects how the middleware treats verified tokens:
	// "strong" re-fetches the user per request, "claims" trusts the token.
	AuthPolicy string `env:"AUTH_POLICY, default=strong"`
	// Roles is the comma-separated role taxonomy; empty means the default
	// admin,editor,viewer set.
	Roles string `env:"ROLES"`

	// CORSOrigins is the browser origin allow-list. Empty means localhost dev.
	CORSOrigins []string `env:"CORS_ORIGINS"`

	LoginMaxAttempts  int           `env:"LOGIN_MAX_ATTEMPTS,  default=5"`
	LoginWindow       time.Duration `env:"LOGIN_ATTEMPT_WINDOW, default=15m"`
	OrderEventWorkers int           `env:"ORDER_EVENT_WORKERS, default=4"`

	// Bootstrap admin, seeded only when the users collection is empty.
	AdminUsername string `env:"ADMIN_USERNAME"`
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=ordering_system"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"http://localhost:5173", "http://localhost:5174"}
	}
	return &cfg, nil
}
