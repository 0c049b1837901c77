package main

import (
	"context"
	"fmt"
	"log/slog"

	"oleobot/internal/dialogue"
	dialoguestore "oleobot/internal/dialogue/store"
	"oleobot/internal/ledger/service"
	ledgerstore "oleobot/internal/ledger/store"
	"oleobot/internal/notify"
	"oleobot/internal/platform/config"
	"oleobot/internal/platform/postgres"
	"oleobot/internal/platform/redis"
	"oleobot/internal/ratelimit"
	httptransport "oleobot/internal/transport/http"
)

// Each constructor returns a close func and registers a health check for the
// backend it connects to. Unconfigured backends fall back to in-process
// implementations.

func newLedgerStore(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger, checks map[string]httptransport.HealthCheck) (service.Store, func(), error) {
	db, err := postgres.Open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if db == nil {
		log.Warn("DATABASE_URL not set, keeping records in memory")
		return ledgerstore.NewInMemory(), func() {}, nil
	}

	store := ledgerstore.NewPostgres(db)
	if err := store.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ensure schema: %w", err)
	}
	checks["postgres"] = db.PingContext
	log.Info("record store ready", "backend", "postgres", "driver", cfg.Driver)
	return store, func() { _ = db.Close() }, nil
}

// newRedis connects the shared Redis client, or returns nil when REDIS_URL is
// unset.
func newRedis(ctx context.Context, cfg config.RedisConfig, log *slog.Logger, checks map[string]httptransport.HealthCheck) (*redis.Client, func(), error) {
	client, err := redis.Open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		log.Warn("REDIS_URL not set, keeping conversations and rate limits in memory")
		return nil, func() {}, nil
	}
	checks["redis"] = client.Health
	return client, func() { _ = client.Close() }, nil
}

func newConversationStore(client *redis.Client, cfg config.DialogueConfig, log *slog.Logger) dialogue.Store {
	if client == nil {
		return dialoguestore.NewInMemory()
	}
	log.Info("conversation store ready", "backend", "redis", "ttl", cfg.TTL.String())
	return dialoguestore.NewRedis(client.Client, dialoguestore.WithTTL(cfg.TTL))
}

// newRateLimitStore returns the window store and, for the in-memory backend,
// the instance that needs periodic pruning.
func newRateLimitStore(client *redis.Client) (ratelimit.Store, *ratelimit.InMemory) {
	if client == nil {
		store := ratelimit.NewInMemory()
		return store, store
	}
	return ratelimit.NewRedis(client.Client), nil
}

func newNotifier(ctx context.Context, cfg config.KafkaConfig, log *slog.Logger, checks map[string]httptransport.HealthCheck) (notify.Notifier, func(), error) {
	if len(cfg.Brokers) == 0 {
		log.Warn("KAFKA_BROKERS not set, donor notifications are only logged")
		return notify.NewLogNotifier(log), func() {}, nil
	}

	client, err := notify.NewKafkaClient(cfg.Brokers, cfg.NotificationTopic)
	if err != nil {
		return nil, nil, err
	}
	if err := notify.EnsureTopic(ctx, client, cfg.NotificationTopic, cfg.Partitions, cfg.ReplicationFactor); err != nil {
		client.Close()
		return nil, nil, err
	}
	checks["kafka"] = client.Ping
	log.Info("notifier ready", "backend", "kafka", "topic", cfg.NotificationTopic)
	return notify.NewKafkaNotifier(client, cfg.NotificationTopic), client.Close, nil
}
