package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/shopspring/decimal"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	if err != nil {
		t.Fatalf("LoadFrom returned error: %v", err)
	}
	if cfg.Port != "8080" || cfg.Store.Driver != StoreMemory || cfg.Notifier.Driver != NotifierDispatcher {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Auth.TokenTTL != 24*time.Hour || cfg.Auth.OTPTTL != 5*time.Minute {
		t.Fatalf("unexpected ttls: %s / %s", cfg.Auth.TokenTTL, cfg.Auth.OTPTTL)
	}
	if !cfg.Wallet.RetainedRate.Equal(decimal.RequireFromString("0.10")) {
		t.Fatalf("unexpected retained rate %s", cfg.Wallet.RetainedRate)
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":           "s3cret",
		"STORE_DRIVER":         "postgres",
		"SQL_DSN":              "postgres://radar@localhost/radar?sslmode=disable",
		"CODE_STORE_DRIVER":    "redis",
		"NOTIFIER_DRIVER":      "asynq",
		"WALLET_RETAINED_RATE": "0.15",
		"OTP_TTL":              "90s",
	}))
	if err != nil {
		t.Fatalf("LoadFrom returned error: %v", err)
	}
	if cfg.Store.Driver != StorePostgres || cfg.Store.CodeDriver != CodeStoreRedis || cfg.Notifier.Driver != NotifierAsynq {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.Auth.OTPTTL != 90*time.Second || cfg.Wallet.RetainedRate.String() != "0.15" {
		t.Fatalf("unexpected values: %s / %s", cfg.Auth.OTPTTL, cfg.Wallet.RetainedRate)
	}
}

func TestLoadFrom_Validation(t *testing.T) {
	tests := map[string]map[string]string{
		"missing secret": {},
		"bad store":      {"JWT_SECRET": "x", "STORE_DRIVER": "dynamo"},
		"echo in prod":   {"JWT_SECRET": "x", "ENV": "production", "OTP_ECHO": "true"},
		"rate above one": {"JWT_SECRET": "x", "WALLET_RETAINED_RATE": "1.5"},
		"bad notifier":   {"JWT_SECRET": "x", "NOTIFIER_DRIVER": "kafka"},
		"bad code store": {"JWT_SECRET": "x", "CODE_STORE_DRIVER": "disk"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadFrom(context.Background(), envconfig.MapLookuper(env)); err == nil {
				t.Fatal("expected a validation error")
			}
		})
	}

	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{"STORE_DRIVER": "dynamo"}))
	if err == nil || !strings.Contains(err.Error(), "JWT_SECRET") || !strings.Contains(err.Error(), "STORE_DRIVER") {
		t.Fatalf("expected all problems reported together, got %v", err)
	}
}

func TestLoadWorkerFrom(t *testing.T) {
	cfg, err := LoadWorkerFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"WORKER_CONCURRENCY": "4",
		"REDIS_ADDR":         "redis:6379",
	}))
	if err != nil {
		t.Fatalf("LoadWorkerFrom returned error: %v", err)
	}
	if cfg.Concurrency != 4 || cfg.Redis.Addr != "redis:6379" {
		t.Fatalf("unexpected worker config: %+v", cfg)
	}

	_, err = LoadWorkerFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"WORKER_CONCURRENCY": "0",
	}))
	if err == nil || !strings.Contains(err.Error(), "WORKER_CONCURRENCY") {
		t.Fatalf("expected concurrency error, got %v", err)
	}
}
