package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/v-pascoal/radar-hub/internal/api/metrics"
	"github.com/v-pascoal/radar-hub/internal/core/ports"
)

const (
	queueCritical = "critical"
	queueDefault  = "default"
	maxRetry      = 5
)

// Queues is the priority table shared by the publisher and the worker.
var Queues = map[string]int{
	queueCritical: 6,
	queueDefault:  3,
}

// NewTask encodes a notification as an asynq task. Login codes go to the
// critical queue and expire with the code they carry.
func NewTask(n ports.Notification) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(n.Payload)
	if err != nil {
		return nil, nil, fmt.Errorf("encode %s payload: %w", n.Kind, err)
	}
	opts := []asynq.Option{asynq.MaxRetry(maxRetry)}
	if n.ID != "" {
		opts = append(opts, asynq.TaskID(n.ID))
	}
	if n.Kind == ports.NotifySMSCode {
		opts = append(opts, asynq.Queue(queueCritical), asynq.Timeout(30*time.Second))
	} else {
		opts = append(opts, asynq.Queue(queueDefault))
	}
	return asynq.NewTask(n.Kind, b), opts, nil
}

// AsynqNotifier publishes notifications to Redis for cmd/worker to deliver.
type AsynqNotifier struct {
	client *asynq.Client
	log    zerolog.Logger
}

func NewAsynqNotifier(redisAddr string, redisDB int, log zerolog.Logger) *AsynqNotifier {
	return &AsynqNotifier{
		client: asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr, DB: redisDB}),
		log:    log,
	}
}

var _ ports.Notifier = (*AsynqNotifier)(nil)

func (a *AsynqNotifier) Publish(ctx context.Context, n ports.Notification) error {
	task, opts, err := NewTask(n)
	if err != nil {
		metrics.NotificationsPublishedTotal.WithLabelValues(n.Kind, "invalid").Inc()
		return err
	}
	info, err := a.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			metrics.NotificationsPublishedTotal.WithLabelValues(n.Kind, "duplicate").Inc()
			return nil
		}
		metrics.NotificationsPublishedTotal.WithLabelValues(n.Kind, "error").Inc()
		return fmt.Errorf("enqueue %s: %w", n.Kind, err)
	}
	metrics.NotificationsPublishedTotal.WithLabelValues(n.Kind, "queued").Inc()
	a.log.Debug().Str("task_id", info.ID).Str("queue", info.Queue).Str("kind", n.Kind).Msg("notification enqueued")
	return nil
}

func (a *AsynqNotifier) Close() error {
	return a.client.Close()
}
