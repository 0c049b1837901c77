package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures everything cmd/server needs to wire the bot.
type Config struct {
	Addr           string
	LogLevel       string
	RequestTimeout time.Duration
	Gateway        GatewayConfig
	Database       DatabaseConfig
	Redis          RedisConfig
	Kafka          KafkaConfig
	Dialogue       DialogueConfig
	Notify         NotifyConfig
	RateLimit      RateLimitConfig
}

// GatewayConfig authenticates the chat gateway that relays updates to the webhook.
type GatewayConfig struct {
	SigningKey string
	Issuer     string
	Audience   string
}

// DatabaseConfig selects the record store. An empty URL keeps records in memory.
type DatabaseConfig struct {
	URL          string
	Driver       string
	MaxOpenConns int
	MaxIdleConns int
	TxTimeout    time.Duration
}

// RedisConfig configures the conversation store. An empty URL keeps
// conversations in process memory.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the outbound notification topic. No brokers means
// notifications are only logged.
type KafkaConfig struct {
	Brokers           []string
	NotificationTopic string
	Partitions        int32
	ReplicationFactor int16
}

// DialogueConfig tunes conversation state retention. A zero TTL keeps drafts
// until the user finishes or cancels.
type DialogueConfig struct {
	TTL time.Duration
}

// NotifyConfig sizes the best-effort donor notification dispatcher.
// After BreakerThreshold consecutive send failures, sends are skipped for
// BreakerCooldown.
type NotifyConfig struct {
	QueueSize        int
	Workers          int
	SendTimeout      time.Duration
	BreakerThreshold int
	BreakerCooldown  time.Duration
}

// RateLimitConfig caps updates per sender over a sliding window. A zero
// PerSender disables the limit.
type RateLimitConfig struct {
	PerSender int
	Window    time.Duration
}

const (
	DriverPgx      = "pgx"
	DriverPostgres = "postgres"
)

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	cfg := Config{
		Addr:           getEnv("OLEOBOT_ADDR", ":8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		RequestTimeout: 10 * time.Second,
		Gateway: GatewayConfig{
			// Use a default for development - should be overridden in production
			SigningKey: getEnv("GATEWAY_SIGNING_KEY", "dev-secret-key-change-in-production"),
			Issuer:     getEnv("GATEWAY_ISSUER", "chat-gateway"),
			Audience:   getEnv("GATEWAY_AUDIENCE", "oleobot"),
		},
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			Driver:       getEnv("DATABASE_DRIVER", DriverPgx),
			MaxOpenConns: 10,
			MaxIdleConns: 5,
			TxTimeout:    5 * time.Second,
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:           splitList(os.Getenv("KAFKA_BROKERS")),
			NotificationTopic: getEnv("KAFKA_NOTIFICATION_TOPIC", "oleobot.donor-notifications"),
			Partitions:        1,
			ReplicationFactor: 1,
		},
		Notify: NotifyConfig{
			QueueSize:        256,
			Workers:          2,
			SendTimeout:      5 * time.Second,
			BreakerThreshold: 5,
			BreakerCooldown:  30 * time.Second,
		},
		RateLimit: RateLimitConfig{
			PerSender: 20,
			Window:    time.Minute,
		},
	}

	var err error
	if cfg.RequestTimeout, err = durationEnv("REQUEST_TIMEOUT", cfg.RequestTimeout); err != nil {
		return Config{}, err
	}
	if cfg.Database.TxTimeout, err = durationEnv("DATABASE_TX_TIMEOUT", cfg.Database.TxTimeout); err != nil {
		return Config{}, err
	}
	if cfg.Database.MaxOpenConns, err = intEnv("DATABASE_MAX_OPEN_CONNS", cfg.Database.MaxOpenConns); err != nil {
		return Config{}, err
	}
	if cfg.Redis.PoolSize, err = intEnv("REDIS_POOL_SIZE", cfg.Redis.PoolSize); err != nil {
		return Config{}, err
	}
	if cfg.Dialogue.TTL, err = durationEnv("DIALOGUE_TTL", 0); err != nil {
		return Config{}, err
	}
	if cfg.Notify.QueueSize, err = intEnv("NOTIFY_QUEUE_SIZE", cfg.Notify.QueueSize); err != nil {
		return Config{}, err
	}
	if cfg.Notify.Workers, err = intEnv("NOTIFY_WORKERS", cfg.Notify.Workers); err != nil {
		return Config{}, err
	}
	if cfg.Notify.SendTimeout, err = durationEnv("NOTIFY_SEND_TIMEOUT", cfg.Notify.SendTimeout); err != nil {
		return Config{}, err
	}
	if cfg.Notify.BreakerThreshold, err = intEnv("NOTIFY_BREAKER_THRESHOLD", cfg.Notify.BreakerThreshold); err != nil {
		return Config{}, err
	}
	if cfg.Notify.BreakerCooldown, err = durationEnv("NOTIFY_BREAKER_COOLDOWN", cfg.Notify.BreakerCooldown); err != nil {
		return Config{}, err
	}
	if cfg.RateLimit.PerSender, err = intEnv("RATE_LIMIT_PER_SENDER", cfg.RateLimit.PerSender); err != nil {
		return Config{}, err
	}
	if cfg.RateLimit.Window, err = durationEnv("RATE_LIMIT_WINDOW", cfg.RateLimit.Window); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects combinations the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	if c.Database.Driver != DriverPgx && c.Database.Driver != DriverPostgres {
		errs = append(errs, fmt.Errorf("DATABASE_DRIVER must be %q or %q, got %q", DriverPgx, DriverPostgres, c.Database.Driver))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("REQUEST_TIMEOUT must be positive"))
	}
	if c.Database.TxTimeout <= 0 {
		errs = append(errs, errors.New("DATABASE_TX_TIMEOUT must be positive"))
	}
	if c.Dialogue.TTL < 0 {
		errs = append(errs, errors.New("DIALOGUE_TTL must not be negative"))
	}
	if c.Notify.QueueSize <= 0 || c.Notify.Workers <= 0 {
		errs = append(errs, errors.New("NOTIFY_QUEUE_SIZE and NOTIFY_WORKERS must be positive"))
	}
	if c.RateLimit.PerSender < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_PER_SENDER must not be negative"))
	}
	if c.RateLimit.PerSender > 0 && c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_WINDOW must be positive when rate limiting is enabled"))
	}
	if c.Gateway.SigningKey == "" {
		errs = append(errs, errors.New("GATEWAY_SIGNING_KEY is required"))
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}

func intEnv(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
