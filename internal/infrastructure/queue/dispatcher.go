package queue

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/v-pascoal/radar-hub/internal/api/metrics"
	"github.com/v-pascoal/radar-hub/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// Dispatcher is the in-process Notifier. It routes notifications to a fixed
// set of workers by hashing the notification key, so messages about the same
// case are delivered in publication order.
type Dispatcher struct {
	workers  []chan ports.Notification
	delivery Deliverer
	log      zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, delivery Deliverer, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan ports.Notification, numWorkers),
		delivery: delivery,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.Notification, channelBuffer)
	}
	return d
}

var _ ports.Notifier = (*Dispatcher)(nil)

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// ErrQueueFull is returned when the worker owning a key has no buffer left.
// The notification is dropped.
var ErrQueueFull = errors.New("notification queue full")

// Publish hands n to the worker responsible for its key without waiting: a
// full buffer drops the notification with ErrQueueFull.
func (d *Dispatcher) Publish(ctx context.Context, n ports.Notification) error {
	if err := ctx.Err(); err != nil {
		metrics.NotificationsPublishedTotal.WithLabelValues(n.Kind, "dropped").Inc()
		return err
	}
	idx := d.shardIndex(n.Key)
	select {
	case d.workers[idx] <- n:
		metrics.NotificationsPublishedTotal.WithLabelValues(n.Kind, "queued").Inc()
		metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return nil
	default:
		metrics.NotificationsPublishedTotal.WithLabelValues(n.Kind, "dropped").Inc()
		return fmt.Errorf("%w: worker %d, kind %s", ErrQueueFull, idx, n.Kind)
	}
}

// shardIndex maps a key deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.Notification) {
	depth := metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-ch:
			if !ok {
				return
			}
			depth.Set(float64(len(ch)))
			if err := d.delivery.Deliver(ctx, n); err != nil {
				metrics.NotificationsDeliveredTotal.WithLabelValues(n.Kind, "error").Inc()
				d.log.Error().Err(err).
					Str("kind", n.Kind).
					Str("key", n.Key).
					Int("worker_id", id).
					Msg("notification delivery failed")
				continue
			}
			metrics.NotificationsDeliveredTotal.WithLabelValues(n.Kind, "ok").Inc()
		}
	}
}
