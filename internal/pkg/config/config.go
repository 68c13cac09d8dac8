package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/shopspring/decimal"
)

// Backend selectors.
const (
	StoreMemory   = "memory"
	StoreMongo    = "mongo"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"

	CodeStoreMemory = "memory"
	CodeStoreRedis  = "redis"

	NotifierDispatcher = "dispatcher"
	NotifierAsynq      = "asynq"
)

type Config struct {
	Port            string        `env:"PORT,             default=8080"`
	Env             string        `env:"ENV,              default=development"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	LogPretty       bool          `env:"LOG_PRETTY,       default=false"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=15s"`

	Auth     AuthConfig
	Store    StoreConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Notifier NotifierConfig
	Wallet   WalletConfig
}

type AuthConfig struct {
	JWTSecret   string        `env:"JWT_SECRET"`
	JWTIssuer   string        `env:"JWT_ISSUER,  default=radar-hub"`
	TokenTTL    time.Duration `env:"TOKEN_TTL,   default=24h"`
	OTPTTL      time.Duration `env:"OTP_TTL,     default=5m"`
	OTPEcho     bool          `env:"OTP_ECHO,    default=false"`
	ReviewerKey string        `env:"REVIEWER_API_KEY"`
}

type StoreConfig struct {
	Driver     string `env:"STORE_DRIVER,      default=memory"`
	SQLDSN     string `env:"SQL_DSN,           default=file:radarhub.db?cache=shared"`
	CodeDriver string `env:"CODE_STORE_DRIVER, default=memory"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=radar_hub"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// NotifierConfig selects the server-side publisher. WORKER_CONCURRENCY belongs
// to the worker binary and is read by WorkerConfig.
type NotifierConfig struct {
	Driver  string `env:"NOTIFIER_DRIVER,  default=dispatcher"`
	Workers int    `env:"NOTIFIER_WORKERS, default=8"`
}

type WalletConfig struct {
	RetainedRate decimal.Decimal `env:"WALLET_RETAINED_RATE, default=0.10"`
}

// IsDevelopment reports whether development-only conveniences may be enabled.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "test"
}

// Validate rejects combinations the server cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Auth.OTPEcho && !c.IsDevelopment() {
		errs = append(errs, errors.New("OTP_ECHO is only allowed in development"))
	}
	switch c.Store.Driver {
	case StoreMemory, StoreMongo, StoreSQLite, StorePostgres:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver))
	}
	switch c.Store.CodeDriver {
	case CodeStoreMemory, CodeStoreRedis:
	default:
		errs = append(errs, fmt.Errorf("unknown CODE_STORE_DRIVER %q", c.Store.CodeDriver))
	}
	switch c.Notifier.Driver {
	case NotifierDispatcher, NotifierAsynq:
	default:
		errs = append(errs, fmt.Errorf("unknown NOTIFIER_DRIVER %q", c.Notifier.Driver))
	}
	if c.Wallet.RetainedRate.IsNegative() || c.Wallet.RetainedRate.GreaterThan(decimal.NewFromInt(1)) {
		errs = append(errs, errors.New("WALLET_RETAINED_RATE must be between 0 and 1"))
	}
	return errors.Join(errs...)
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadFrom processes and validates configuration from an arbitrary lookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// WorkerConfig is the subset read by the notification worker.
type WorkerConfig struct {
	Env             string        `env:"ENV,                default=development"`
	LogLevel        string        `env:"LOG_LEVEL,          default=info"`
	LogPretty       bool          `env:"LOG_PRETTY,         default=false"`
	Concurrency     int           `env:"WORKER_CONCURRENCY, default=10"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,   default=15s"`
	Redis           RedisConfig
}

// LoadWorker reads the worker configuration from environment variables.
func LoadWorker() *WorkerConfig {
	cfg, err := LoadWorkerFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load worker configuration: %v", err))
	}
	return cfg
}

func LoadWorkerFrom(ctx context.Context, l envconfig.Lookuper) (*WorkerConfig, error) {
	var cfg WorkerConfig
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if cfg.Concurrency < 1 {
		return nil, fmt.Errorf("WORKER_CONCURRENCY must be positive, got %d", cfg.Concurrency)
	}
	return &cfg, nil
}
