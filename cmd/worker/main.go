// Command worker consumes the notification queues published by the API when
// NOTIFIER_DRIVER=asynq and hands each message to the delivery gateway.
package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/v-pascoal/radar-hub/internal/infrastructure/queue"
	"github.com/v-pascoal/radar-hub/internal/pkg/config"
	"github.com/v-pascoal/radar-hub/pkg/logger"
)

func main() {
	cfg := config.LoadWorker()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "radar-hub-worker",
		Env:     cfg.Env,
	})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("worker stopped")
	}
}

func run(cfg *config.WorkerConfig, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := queue.NewServer(queue.WorkerConfig{
		RedisAddr:       cfg.Redis.Addr,
		RedisDB:         cfg.Redis.DB,
		Concurrency:     cfg.Concurrency,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger.For("worker"))
	mux := queue.NewServeMux(queue.NewLogDeliverer(logger.For("delivery")), logger.For("worker"))

	if err := srv.Start(mux); err != nil {
		return fmt.Errorf("start worker: %w", err)
	}
	log.Info().Str("redis", cfg.Redis.Addr).Int("concurrency", cfg.Concurrency).Msg("worker started")

	<-ctx.Done()
	log.Info().Msg("received shutdown signal")

	// Shutdown waits up to ShutdownTimeout for in-flight tasks.
	srv.Shutdown()
	log.Info().Msg("worker stopped cleanly")
	return nil
}
