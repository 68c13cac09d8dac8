// Command server runs the Radar Hub HTTP API.
//
// @title                       Radar Hub API
// @version                     1.0
// @description                 Traffic penalty defense marketplace: phone login, case lifecycle, timeline and wallet.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/v-pascoal/radar-hub/internal/api"
	"github.com/v-pascoal/radar-hub/internal/core/service"
	"github.com/v-pascoal/radar-hub/internal/pkg/config"
	"github.com/v-pascoal/radar-hub/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "radar-hub-api",
		Env:     cfg.Env,
	})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b, err := buildBackends(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("build backends: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		b.close(closeCtx, log)
	}()

	tokens := service.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.TokenTTL)
	identity := service.NewIdentityService(b.users, b.codes, tokens, b.notifier,
		service.IdentityConfig{CodeTTL: cfg.Auth.OTPTTL, EchoCode: cfg.Auth.OTPEcho},
		logger.For("identity"))
	cases := service.NewCaseService(b.cases, b.declines, b.notifier, logger.For("cases"))
	wallet := service.NewWalletService(b.cases, cfg.Wallet.RetainedRate)

	if cfg.Auth.OTPEcho {
		log.Warn().Msg("OTP_ECHO is enabled; login codes are returned in API responses")
	}
	if cfg.Auth.ReviewerKey == "" {
		log.Warn().Msg("REVIEWER_API_KEY is empty; verification review routes are disabled")
	}

	e := api.NewRouter(api.Dependencies{
		Identity:    identity,
		Cases:       cases,
		Wallet:      wallet,
		Tokens:      tokens,
		ReviewerKey: cfg.Auth.ReviewerKey,
		Readiness:   b.readiness,
		Log:         logger.For("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("store", cfg.Store.Driver).
			Str("code_store", cfg.Store.CodeDriver).
			Str("notifier", cfg.Notifier.Driver).
			Msg("http server listening")
		errCh <- e.Start(":" + cfg.Port)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("received shutdown signal")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	log.Info().Msg("server stopped cleanly")
	return nil
}
