package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth  AuthConfig
	MySQL MySQLConfig
	Mongo MongoConfig
	Redis RedisConfig
	Audit AuditConfig
}

type AuthConfig struct {
	JWTSecret        string        `env:"JWT_SECRET, required"`
	TokenTTL         time.Duration `env:"TOKEN_TTL,          default=24h"`
	BcryptCost       int           `env:"BCRYPT_COST,        default=10"`
	ListLimitCap     int           `env:"LIST_LIMIT_CAP,     default=25"`
	LoginMaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS, default=5"`
	LoginWindow      time.Duration `env:"LOGIN_WINDOW,       default=15m"`
}

type MySQLConfig struct {
	DSN          string `env:"MYSQL_DSN,            default=snipbox:snipbox@tcp(localhost:3306)/snipbox?parseTime=true&charset=utf8mb4"`
	MaxOpenConns int    `env:"MYSQL_MAX_OPEN_CONNS, default=20"`
	MaxIdleConns int    `env:"MYSQL_MAX_IDLE_CONNS, default=5"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=snipbox"`
}

type RedisConfig struct {
	Addr            string        `env:"REDIS_ADDR,        default=localhost:6379"`
	Password        string        `env:"REDIS_PASSWORD"`
	DB              int           `env:"REDIS_DB,          default=0"`
	SnippetCacheTTL time.Duration `env:"SNIPPET_CACHE_TTL, default=5m"`
}

type AuditConfig struct {
	Enabled   bool          `env:"AUDIT_ENABLED,   default=true"`
	Workers   int           `env:"AUDIT_WORKERS,   default=4"`
	Retention time.Duration `env:"AUDIT_RETENTION, default=720h"`
}

// IsDevelopment reports whether the service runs with developer defaults
// such as pretty console logs.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		panic(fmt.Sprintf("config: failed to read .env: %v", err))
	}

	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith resolves the configuration from lookuper.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	return &cfg, nil
}
