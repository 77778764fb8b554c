package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWT   JWTConfig
	Mongo MongoConfig
	Redis RedisConfig
	Cache CacheConfig
	HTTP  HTTPConfig

	AuditWorkers int `env:"AUDIT_WORKERS, default=4"`
}

type JWTConfig struct {
	Secret              string        `env:"JWT_SECRET, required"`
	Issuer              string        `env:"JWT_ISSUER,            default=cobranza-cloud"`
	Audience            string        `env:"JWT_AUDIENCE,          default=cobranza-cloud-api"`
	AccessTTL           time.Duration `env:"JWT_ACCESS_TTL,        default=15m"`
	RefreshTTL          time.Duration `env:"JWT_REFRESH_TTL,       default=168h"`
	ConnectorAccessTTL  time.Duration `env:"CONNECTOR_ACCESS_TTL,  default=24h"`
	ConnectorRefreshTTL time.Duration `env:"CONNECTOR_REFRESH_TTL, default=720h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017/?replicaSet=rs0"`
	Database string `env:"MONGO_DB,  default=cobranza_cloud"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type CacheConfig struct {
	TTL      time.Duration `env:"CACHE_TTL,       default=15m"`
	ShortTTL time.Duration `env:"CACHE_SHORT_TTL, default=5m"`
}

type HTTPConfig struct {
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT,  default=15s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT, default=30s"`
	RateLimitRPS float64       `env:"RATE_LIMIT_RPS,     default=10"`
}

// IsProduction gates detailed error output.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads a .env file when present, then the process environment.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
