package notify

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"oleobot/internal/platform/metrics"
	"oleobot/pkg/platform/circuit"
)

const (
	OutcomeSent    = "sent"
	OutcomeFailed  = "failed"
	OutcomeDropped = "dropped"
	OutcomeSkipped = "skipped"
)

// Dispatcher queues messages and sends them from a fixed set of workers so
// callers never wait on delivery. Failures are logged and counted, never
// returned.
type Dispatcher struct {
	notifier    Notifier
	queue       chan Message
	workers     int
	sendTimeout time.Duration
	breaker     *circuit.Breaker
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

type DispatcherOption func(*Dispatcher)

func WithQueueSize(n int) DispatcherOption {
	return func(d *Dispatcher) {
		if n > 0 {
			d.queue = make(chan Message, n)
		}
	}
}

func WithWorkers(n int) DispatcherOption {
	return func(d *Dispatcher) {
		if n > 0 {
			d.workers = n
		}
	}
}

func WithSendTimeout(timeout time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.sendTimeout = timeout
		}
	}
}

// WithBreaker skips sends while the breaker is open.
func WithBreaker(b *circuit.Breaker) DispatcherOption {
	return func(d *Dispatcher) {
		d.breaker = b
	}
}

func WithLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) DispatcherOption {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

func NewDispatcher(notifier Notifier, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		notifier:    notifier,
		queue:       make(chan Message, 256),
		workers:     2,
		sendTimeout: 5 * time.Second,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Enqueue schedules msg for delivery without blocking. It returns false and
// drops the message when the queue is full.
func (d *Dispatcher) Enqueue(ctx context.Context, msg Message) bool {
	select {
	case d.queue <- msg:
		return true
	default:
		d.metrics.IncrementNotification(OutcomeDropped)
		d.logger.WarnContext(ctx, "notification queue full, dropping message",
			"chat_id", msg.ChatID.String(),
		)
		return false
	}
}

// Run sends queued messages until ctx is cancelled, then flushes what is
// still queued before returning.
func (d *Dispatcher) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < d.workers; i++ {
		g.Go(func() error {
			d.work(gctx)
			return nil
		})
	}
	err := g.Wait()
	d.flush(context.WithoutCancel(ctx))
	return err
}

func (d *Dispatcher) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-d.queue:
			d.send(ctx, msg)
		}
	}
}

func (d *Dispatcher) flush(ctx context.Context) {
	for {
		select {
		case msg := <-d.queue:
			d.send(ctx, msg)
		default:
			return
		}
	}
}

func (d *Dispatcher) send(ctx context.Context, msg Message) {
	if d.breaker != nil && !d.breaker.Allow() {
		d.metrics.IncrementNotification(OutcomeSkipped)
		d.logger.WarnContext(ctx, "notification skipped, notifier circuit open",
			"chat_id", msg.ChatID.String(),
			"breaker", d.breaker.Name(),
		)
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	if err := d.notifier.Notify(sendCtx, msg); err != nil {
		d.metrics.IncrementNotification(OutcomeFailed)
		d.logger.ErrorContext(ctx, "failed to send notification",
			"chat_id", msg.ChatID.String(),
			"error", err,
		)
		if d.breaker != nil {
			if _, change := d.breaker.RecordFailure(); change.Opened {
				d.logger.WarnContext(ctx, "notifier circuit opened", "breaker", d.breaker.Name())
			}
		}
		return
	}

	d.metrics.IncrementNotification(OutcomeSent)
	if d.breaker != nil {
		if _, change := d.breaker.RecordSuccess(); change.Closed {
			d.logger.InfoContext(ctx, "notifier circuit closed", "breaker", d.breaker.Name())
		}
	}
}
