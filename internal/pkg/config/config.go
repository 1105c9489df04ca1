package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET, required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`

	Mongo   MongoConfig
	Redis   RedisConfig
	Storage StorageConfig
	Notify  NotifyConfig
	Admin   AdminConfig
}

type MongoConfig struct {
	URI      string        `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string        `env:"MONGO_DB,  default=jobboard"`
	Timeout  time.Duration `env:"MONGO_TIMEOUT, default=10s"`
}

type RedisConfig struct {
	Addr          string        `env:"REDIS_ADDR, default=localhost:6379"`
	Password      string        `env:"REDIS_PASSWORD"`
	DB            int           `env:"REDIS_DB,   default=0"`
	PoolSize      int           `env:"REDIS_POOL_SIZE,      default=10"`
	MinIdleConns  int           `env:"REDIS_MIN_IDLE_CONNS, default=2"`
	Timeout       time.Duration `env:"REDIS_TIMEOUT,        default=3s"`
	StatsCacheTTL time.Duration `env:"STATS_CACHE_TTL, default=30s"`
}

// StorageConfig points at the directory uploaded files are written under.
type StorageConfig struct {
	Dir string `env:"STORAGE_DIR, default=./uploads"`
}

// NotifyConfig sizes the notification dispatcher.
type NotifyConfig struct {
	Workers     int           `env:"NOTIFY_WORKERS,      default=4"`
	Buffer      int           `env:"NOTIFY_BUFFER,       default=256"`
	MaxAttempts int           `env:"NOTIFY_MAX_ATTEMPTS, default=3"`
	Backoff     time.Duration `env:"NOTIFY_BACKOFF,      default=500ms"`

	// DrainTimeout bounds delivery of already queued notifications at shutdown.
	DrainTimeout time.Duration `env:"NOTIFY_DRAIN_TIMEOUT, default=10s"`
}

// AdminConfig seeds the operator account at startup. Seeding is skipped when
// either value is empty.
type AdminConfig struct {
	Email    string `env:"ADMIN_EMAIL"`
	Password string `env:"ADMIN_PASSWORD"`
}

// IsDevelopment reports whether the service runs with developer defaults.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads an optional .env file, then configuration from environment
// variables using go-envconfig. Variables already set in the environment win
// over the file.
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := load(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	return &cfg, nil
}
