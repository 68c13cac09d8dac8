package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/v-pascoal/radar-hub/internal/api/metrics"
	"github.com/v-pascoal/radar-hub/internal/core/ports"
)

// NewServeMux registers one handler per notification kind. Each decodes the
// task into its typed payload and hands it to delivery.
func NewServeMux(delivery Deliverer, log zerolog.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(ports.NotifySMSCode, handle[ports.SMSCodeMessage](delivery, log))
	mux.HandleFunc(ports.NotifyCaseSubmitted, handle[ports.CaseSubmittedMessage](delivery, log))
	mux.HandleFunc(ports.NotifyCaseStatusChanged, handle[ports.CaseStatusMessage](delivery, log))
	return mux
}

func handle[P any](delivery Deliverer, log zerolog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload P
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			log.Error().Err(err).Str("kind", task.Type()).Msg("invalid notification payload")
			// Retrying cannot fix a malformed payload.
			return fmt.Errorf("decode %s: %v: %w", task.Type(), err, asynq.SkipRetry)
		}
		id, _ := asynq.GetTaskID(ctx)
		n := ports.Notification{ID: id, Kind: task.Type(), Payload: payload}
		if err := delivery.Deliver(ctx, n); err != nil {
			metrics.NotificationsDeliveredTotal.WithLabelValues(task.Type(), "error").Inc()
			return err
		}
		metrics.NotificationsDeliveredTotal.WithLabelValues(task.Type(), "ok").Inc()
		return nil
	}
}

// WorkerConfig sizes the asynq server.
type WorkerConfig struct {
	RedisAddr       string
	RedisDB         int
	Concurrency     int
	ShutdownTimeout time.Duration
}

// NewServer builds the asynq server consuming the notification queues.
func NewServer(cfg WorkerConfig, log zerolog.Logger) *asynq.Server {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 10
	}
	return asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr, DB: cfg.RedisDB},
		asynq.Config{
			Concurrency:     cfg.Concurrency,
			Queues:          Queues,
			ShutdownTimeout: cfg.ShutdownTimeout,
			Logger:          asynqLogger{log: log},
			ErrorHandler: asynq.ErrorHandlerFunc(func(_ context.Context, task *asynq.Task, err error) {
				log.Warn().Err(err).Str("kind", task.Type()).Msg("notification task failed")
			}),
		},
	)
}

// asynqLogger routes asynq's internal logging through zerolog.
type asynqLogger struct {
	log zerolog.Logger
}

func (l asynqLogger) Debug(args ...interface{}) { l.log.Debug().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Info(args ...interface{})  { l.log.Info().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Warn(args ...interface{})  { l.log.Warn().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Error(args ...interface{}) { l.log.Error().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Fatal(args ...interface{}) { l.log.Fatal().Msg(fmt.Sprint(args...)) }
