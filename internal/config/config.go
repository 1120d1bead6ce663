package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config aggregates all runtime settings required by the console.
type Config struct {
	AppName     string `env:"APP_NAME" envDefault:"gac-shell"`
	Environment string `env:"APP_ENV" envDefault:"development"`
	HTTP        HTTPConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Buffer      BufferConfig
	Context     ContextConfig
	Logger      LoggerConfig
	Migrations  MigrationsConfig
	Shell       ShellConfig
	Bootstrap   BootstrapConfig
}

type HTTPConfig struct {
	Host          string        `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port          string        `env:"SERVER_PORT" envDefault:"8080"`
	ReadTimeout   time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout  time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"10s"`
	IdleTimeout   time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"120s"`
	MaxConn       int           `env:"SERVER_MAX_CONN" envDefault:"0"`
	EnableMetrics bool          `env:"SERVER_ENABLE_METRICS" envDefault:"false"`
}

type DatabaseConfig struct {
	URL             string        `env:"DATABASE_URL"`
	Host            string        `env:"DB_HOST" envDefault:"localhost"`
	Port            string        `env:"DB_PORT" envDefault:"5432"`
	Name            string        `env:"DB_NAME" envDefault:"gac"`
	User            string        `env:"DB_USER" envDefault:"gac"`
	Password        string        `env:"DB_PASSWORD"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	MaxConnLifetime time.Duration `env:"DB_CONN_LIFETIME" envDefault:"1h"`
	SSLMode         string        `env:"DB_SSLMODE" envDefault:"disable"`
}

type RedisConfig struct {
	URL      string `env:"REDIS_URL" envDefault:"redis://localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type JWTConfig struct {
	Secret     string        `env:"JWT_SECRET"`
	Issuer     string        `env:"JWT_ISSUER" envDefault:"gac-shell"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"8h"`
	CookieName string        `env:"SESSION_COOKIE" envDefault:"gac_token"`
}

type BufferConfig struct {
	Path         string        `env:"BOLTDB_PATH" envDefault:"./data/buffer.db"`
	Retention    time.Duration `env:"BUFFER_RETENTION" envDefault:"24h"`
	SyncInterval time.Duration `env:"BUFFER_SYNC_INTERVAL" envDefault:"30s"`
	BatchSize    int           `env:"BUFFER_BATCH_SIZE" envDefault:"50"`
	MaxRetry     int           `env:"MAX_RETRY_ATTEMPTS" envDefault:"3"`
}

type ContextConfig struct {
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"5s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
	MonitorInterval time.Duration `env:"MONITOR_INTERVAL" envDefault:"10s"`
}

type LoggerConfig struct {
	Level    string `env:"LOG_LEVEL" envDefault:"info"`
	Encoding string `env:"LOG_ENCODING" envDefault:"json"`
}

type MigrationsConfig struct {
	Enabled bool   `env:"RUN_MIGRATIONS" envDefault:"true"`
	Path    string `env:"MIGRATIONS_PATH" envDefault:"./assets/migrations"`
}

// ShellConfig tunes how the console shell gathers its data.
type ShellConfig struct {
	// RenderBudget bounds how long a page waits for the session and work order fetches.
	RenderBudget   time.Duration `env:"SHELL_RENDER_BUDGET" envDefault:"300ms"`
	QueryStaleTime time.Duration `env:"SHELL_QUERY_STALE_TIME" envDefault:"15s"`
	CacheTTL       time.Duration `env:"SHELL_CACHE_TTL" envDefault:"1m"`
}

// BootstrapConfig seeds one console user at startup. Empty UserID disables it.
type BootstrapConfig struct {
	UserID   string `env:"BOOTSTRAP_USER_ID"`
	FullName string `env:"BOOTSTRAP_USER_NAME"`
	Email    string `env:"BOOTSTRAP_USER_EMAIL"`
	Role     string `env:"BOOTSTRAP_USER_ROLE" envDefault:"gestor"`
}

// Load reads configuration from environment variables (optionally .env)
// and applies defaults so the service can boot in any environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Database.URL == "" {
		cfg.Database.URL = buildPostgresURL(cfg.Database)
	}
	return cfg, nil
}

// MustLoad panics if configuration cannot be loaded.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" && c.Environment == "production" {
		return errors.New("config: JWT_SECRET is required in production")
	}
	if c.JWT.Secret == "" {
		c.JWT.Secret = "dev-secret"
	}
	if c.Shell.RenderBudget < 0 {
		return errors.New("config: SHELL_RENDER_BUDGET must not be negative")
	}
	return nil
}

func buildPostgresURL(db DatabaseConfig) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		db.User,
		db.Password,
		db.Host,
		db.Port,
		db.Name,
		db.SSLMode,
	)
}

// Address returns the HTTP listen address for the fasthttp server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.HTTP.Host, c.HTTP.Port)
}
