package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/v-pascoal/radar-hub/internal/core/ports"
	"github.com/v-pascoal/radar-hub/internal/infrastructure/db/memory"
	mongostore "github.com/v-pascoal/radar-hub/internal/infrastructure/db/mongo"
	redisstore "github.com/v-pascoal/radar-hub/internal/infrastructure/db/redis"
	sqlstore "github.com/v-pascoal/radar-hub/internal/infrastructure/db/sql"
	"github.com/v-pascoal/radar-hub/internal/infrastructure/queue"
	"github.com/v-pascoal/radar-hub/internal/pkg/config"
)

// backends holds everything the services are wired to, plus the cleanups to
// run on shutdown in reverse order.
type backends struct {
	users     ports.UserRepository
	cases     ports.CaseRepository
	codes     ports.CodeStore
	declines  ports.DeclineStore
	notifier  ports.Notifier
	readiness map[string]ports.Pinger
	closers   []func(context.Context) error
}

func (b *backends) onClose(fn func(context.Context) error) {
	b.closers = append(b.closers, fn)
}

func (b *backends) close(ctx context.Context, log zerolog.Logger) {
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](ctx); err != nil {
			log.Warn().Err(err).Msg("closing backend failed")
		}
	}
}

func buildBackends(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*backends, error) {
	b := &backends{readiness: make(map[string]ports.Pinger)}
	if err := b.buildLedger(ctx, cfg, log); err != nil {
		b.close(ctx, log)
		return nil, err
	}
	if err := b.buildRedisStores(ctx, cfg); err != nil {
		b.close(ctx, log)
		return nil, err
	}
	b.buildNotifier(ctx, cfg, log)
	return b, nil
}

func (b *backends) buildLedger(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	switch cfg.Store.Driver {
	case config.StoreMemory:
		store := memory.NewStore()
		b.users, b.cases = store.Users(), store.Cases()
		b.readiness["store"] = store
		log.Warn().Msg("using in-memory ledger store; data is lost on restart")

	case config.StoreMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		b.onClose(client.Disconnect)
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			return fmt.Errorf("mongo indexes: %w", err)
		}
		b.users, b.cases = mongostore.NewUserRepository(db), mongostore.NewCaseRepository(db)
		b.readiness["mongodb"] = mongostore.Pinger{Client: client}

	case config.StoreSQLite, config.StorePostgres:
		db, err := sqlstore.Open(ctx, sqlstore.Config{Driver: cfg.Store.Driver, DSN: cfg.Store.SQLDSN})
		if err != nil {
			return err
		}
		store := sqlstore.NewStore(db)
		b.onClose(func(context.Context) error { return store.Close() })
		if err := sqlstore.Migrate(ctx, db); err != nil {
			return fmt.Errorf("sql migrate: %w", err)
		}
		b.users, b.cases = store.Users(), store.Cases()
		b.readiness[cfg.Store.Driver] = store

	default:
		return fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	return nil
}

// buildRedisStores connects to Redis when the code store or the asynq broker
// needs it. Declines live next to the codes.
func (b *backends) buildRedisStores(ctx context.Context, cfg *config.Config) error {
	needsRedis := cfg.Store.CodeDriver == config.CodeStoreRedis || cfg.Notifier.Driver == config.NotifierAsynq
	if !needsRedis {
		b.codes, b.declines = memory.NewCodeStore(), memory.NewDeclineStore()
		return nil
	}

	client, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	b.onClose(func(context.Context) error { return client.Close() })
	b.readiness["redis"] = redisstore.Pinger{Client: client}

	if cfg.Store.CodeDriver == config.CodeStoreRedis {
		b.codes, b.declines = redisstore.NewCodeStore(client), redisstore.NewDeclineStore(client)
	} else {
		b.codes, b.declines = memory.NewCodeStore(), memory.NewDeclineStore()
	}
	return nil
}

func (b *backends) buildNotifier(ctx context.Context, cfg *config.Config, log zerolog.Logger) {
	if cfg.Notifier.Driver == config.NotifierAsynq {
		n := queue.NewAsynqNotifier(cfg.Redis.Addr, cfg.Redis.DB, log.With().Str("component", "notifier").Logger())
		b.onClose(func(context.Context) error { return n.Close() })
		b.notifier = n
		return
	}

	// In-process delivery; workers stop when ctx is cancelled.
	deliveryLog := log.With().Str("component", "delivery").Logger()
	d := queue.NewDispatcher(cfg.Notifier.Workers, queue.NewLogDeliverer(deliveryLog), deliveryLog)
	d.Start(ctx)
	b.notifier = d
}
