package ratelimit

import (
	"context"
	"log/slog"
	"time"

	"oleobot/internal/ledger/models"
	"oleobot/internal/platform/metrics"
)

// Result reports the outcome of one Allow call against a sliding window.
type Result struct {
	Allowed   bool
	Remaining int
	Limit     int
	ResetAt   time.Time
}

// Store counts events per key over a sliding window.
type Store interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error)
}

// Limiter caps how many updates one chat user may send per window.
// A limit of zero disables it.
type Limiter struct {
	store   Store
	limit   int
	window  time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Limiter)

func WithLogger(logger *slog.Logger) Option {
	return func(l *Limiter) {
		l.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Limiter) {
		l.metrics = m
	}
}

func New(store Store, limit int, window time.Duration, opts ...Option) *Limiter {
	l := &Limiter{
		store:  store,
		limit:  limit,
		window: window,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func senderKey(user models.ExternalID) string {
	return "sender:" + user.String()
}

// AllowSender records one update from user and reports whether it may be
// handled. Store errors fail open: a flood guard outage must not silence
// the bot.
func (l *Limiter) AllowSender(ctx context.Context, user models.ExternalID) bool {
	if l == nil || l.limit <= 0 || l.window <= 0 {
		return true
	}
	result, err := l.store.Allow(ctx, senderKey(user), l.limit, l.window)
	if err != nil {
		l.logger.WarnContext(ctx, "rate limit check failed, allowing update",
			"user_id", user.String(),
			"error", err,
		)
		return true
	}
	if !result.Allowed {
		l.metrics.IncrementRateLimited()
		l.logger.InfoContext(ctx, "sender rate limited",
			"user_id", user.String(),
			"limit", result.Limit,
			"reset_at", result.ResetAt,
		)
	}
	return result.Allowed
}
