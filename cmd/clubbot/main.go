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

	"github.com/ismayilasim8-dot/Football-empire-bot/internal/access"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/bot"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/chat"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/config"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/metrics"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/middleware"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/platform/otel"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/session"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/storage/backend"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/transport/telegram"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/upgrade"
	"github.com/ismayilasim8-dot/Football-empire-bot/pkg/logging"
)

const serviceName = "clubbot"

func main() {
	cfg, err := config.Load()
	if err != nil {
		config.Exitf("clubbot: %v", err)
	}
	if err := cfg.RequireBot(); err != nil {
		config.Exitf("clubbot: %v", err)
	}
	logging.SetupWithLevel(logging.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("clubbot stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	logger := slog.Default()

	shutdown, err := otel.Setup(ctx, serviceName, cfg.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	store, kind, err := backend.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	defer store.Close()
	logger.Info("storage initialized", "backend", kind)

	m := metrics.New()
	sessions, closeSessions := openSessions(ctx, cfg, m, logger)
	defer closeSessions()

	api, err := telegram.Connect(cfg.BotToken)
	if err != nil {
		return err
	}
	logger.Info("telegram authorized", "bot", api.Self.UserName)
	transport := telegram.New(api, logger, cfg.PollTimeout)

	b, err := bot.New(bot.Deps{
		Store:     store,
		Policy:    upgrade.Default(),
		Gate:      access.NewGate(cfg.Owner(), store),
		Sessions:  sessions,
		Responder: transport,
		Metrics:   m,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	handler := chat.Chain(b.Handle,
		middleware.Identify(),
		middleware.Logging(logger, bot.Known),
		middleware.Metrics(m, bot.Known),
		middleware.Tracing(),
		middleware.Recovery(logger, transport, bot.TextRetryLater),
	)

	if cfg.MetricsAddr != "" {
		go serveMetrics(ctx, cfg.MetricsAddr, m, logger)
	}

	logger.Info("clubbot starting", "owner_id", cfg.OwnerID)
	return transport.Run(ctx, handler)
}

// openSessions picks Redis when configured and reachable, else memory.
func openSessions(ctx context.Context, cfg config.Config, m *metrics.Metrics, logger *slog.Logger) (session.Store, func()) {
	if cfg.RedisURL != "" {
		client, err := session.NewRedis(ctx, cfg.RedisURL)
		if err == nil {
			logger.Info("sessions in redis", "ttl", cfg.SessionTTL)
			return session.NewRedisStore(client, cfg.SessionTTL), func() { client.Close() }
		}
		logger.Warn("redis unavailable, falling back to in-memory sessions", "error", err)
	}

	mem := session.NewMemoryStore(cfg.SessionTTL)
	go mem.Run(ctx, sweepInterval(cfg.SessionTTL), func(n int) {
		m.ObserveExpired(n)
		logger.Debug("expired sessions swept", "count", n)
	})
	logger.Info("sessions in memory", "ttl", cfg.SessionTTL)
	return mem, func() {}
}

func sweepInterval(ttl time.Duration) time.Duration {
	if every := ttl / 4; every > time.Second {
		return every
	}
	return time.Second
}

func serveMetrics(ctx context.Context, addr string, m *metrics.Metrics, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics server starting", "address", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics server failed", "error", err)
	}
}
