package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"oleobot/internal/bot"
	"oleobot/internal/dialogue"
	jwttoken "oleobot/internal/jwt_token"
	"oleobot/internal/ledger/service"
	"oleobot/internal/notify"
	"oleobot/internal/platform/config"
	"oleobot/internal/platform/httpserver"
	"oleobot/internal/platform/logger"
	"oleobot/internal/platform/metrics"
	"oleobot/internal/ratelimit"
	httptransport "oleobot/internal/transport/http"
	"oleobot/pkg/platform/circuit"
)

const shutdownTimeout = 10 * time.Second

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "oleobot: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)
	checks := map[string]httptransport.HealthCheck{}

	ledgerStore, closeLedger, err := newLedgerStore(ctx, cfg.Database, log, checks)
	if err != nil {
		return err
	}
	defer closeLedger()

	redisClient, closeRedis, err := newRedis(ctx, cfg.Redis, log, checks)
	if err != nil {
		return err
	}
	defer closeRedis()
	conversations := newConversationStore(redisClient, cfg.Dialogue, log)
	limitStore, prunable := newRateLimitStore(redisClient)

	notifier, closeNotifier, err := newNotifier(ctx, cfg.Kafka, log, checks)
	if err != nil {
		return err
	}
	defer closeNotifier()

	dispatcher := notify.NewDispatcher(notifier,
		notify.WithQueueSize(cfg.Notify.QueueSize),
		notify.WithWorkers(cfg.Notify.Workers),
		notify.WithSendTimeout(cfg.Notify.SendTimeout),
		notify.WithBreaker(circuit.New("notifier",
			circuit.WithFailureThreshold(cfg.Notify.BreakerThreshold),
			circuit.WithCooldown(cfg.Notify.BreakerCooldown),
		)),
		notify.WithLogger(log),
		notify.WithMetrics(m),
	)

	ledger := service.New(ledgerStore,
		service.WithLogger(log),
		service.WithMetrics(m),
		service.WithTxTimeout(cfg.Database.TxTimeout),
	)
	engine := dialogue.New(conversations, ledger, dialogue.WithLogger(log))
	limiter := ratelimit.New(limitStore, cfg.RateLimit.PerSender, cfg.RateLimit.Window,
		ratelimit.WithLogger(log),
		ratelimit.WithMetrics(m),
	)
	handler := bot.New(ledger, engine, dispatcher,
		bot.WithLogger(log),
		bot.WithMetrics(m),
		bot.WithTimeout(cfg.RequestTimeout),
		bot.WithRateLimiter(limiter),
	)

	tokens := jwttoken.NewJWTService(cfg.Gateway.SigningKey, cfg.Gateway.Issuer, cfg.Gateway.Audience)
	router := httptransport.NewRouter(httptransport.RouterConfig{
		Updates: httptransport.NewUpdatesHandler(handler, log),
		Health:  httptransport.NewHealthHandler(checks, log),
		Gateway: jwttoken.NewJWTServiceAdapter(tokens),
		Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Logger:  log,
	})
	srv := httpserver.New(cfg.Addr, router, cfg.RequestTimeout)

	// The dispatcher outlives the server so notifications enqueued by in-flight
	// requests are still flushed.
	dispatchCtx, stopDispatch := context.WithCancel(context.WithoutCancel(ctx))
	defer stopDispatch()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return dispatcher.Run(dispatchCtx)
	})
	if prunable != nil && cfg.RateLimit.Window > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(cfg.RateLimit.Window)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					prunable.Prune(cfg.RateLimit.Window)
				}
			}
		})
	}
	g.Go(func() error {
		log.Info("starting oleobot", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		stopDispatch()
		if err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})
	return g.Wait()
}
