package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"central-lost-found/backend/internal/config"
	"central-lost-found/backend/internal/db"
	"central-lost-found/backend/internal/db/migrate"
	"central-lost-found/backend/internal/events"
	"central-lost-found/backend/internal/feed"
	"central-lost-found/backend/internal/item/repository"
	"central-lost-found/backend/internal/logger"
	"central-lost-found/backend/internal/metrics"
	"central-lost-found/backend/internal/region"
	"central-lost-found/backend/internal/server"
	"central-lost-found/backend/internal/session/store"
	otelsetup "central-lost-found/backend/internal/telemetry/otel"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zl, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server exited", zap.Error(err))
	}
	zl.Info("server stopped")
}

func run(cfg *config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	providers, err := otelsetup.NewProviders(ctx, cfg.OTLPEndpoint, cfg.ServiceName, cfg.OTLPInsecure, zl)
	if err != nil {
		return err
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = providers.Shutdown(shutdownCtx)
	}()

	if cfg.AutoMigrate {
		if err := migrate.Up(cfg.DatabaseURL); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		zl.Info("migrations applied")
	}

	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	resolver, err := region.Load(cfg.RegionsFile)
	if err != nil {
		return err
	}

	var sessions store.Store
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		client, err := store.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer client.Close()
		sessions = store.NewRedisStore(client, cfg.SessionTTL())
	default:
		sessions = store.NewMemoryStore(cfg.SessionTTL())
	}

	// Publisher stays a nil interface when Kafka is not configured.
	var publisher events.Publisher
	if p := events.NewKafkaPublisher(cfg.KafkaBrokersList(), cfg.ItemEventsTopic); p != nil {
		publisher = p
		defer func() {
			if !events.Drain(events.ShutdownDrainDuration) {
				zl.Warn("item events still in flight at shutdown")
			}
			if err := p.Close(); err != nil {
				zl.Warn("kafka publisher close", zap.Error(err))
			}
		}()
		zl.Info("item events enabled", zap.String("topic", cfg.ItemEventsTopic))
	}

	fetcher := feed.NewFetcher(cfg.FeedFetchTimeout(), cfg.FeedMaxBytes)
	defer fetcher.Close()

	handler := server.NewHandler(cfg, server.Deps{
		Items:        repository.NewPostgresRepository(conn),
		Sessions:     sessions,
		Resolver:     resolver,
		Fetcher:      fetcher,
		Publisher:    publisher,
		HealthPinger: conn,
		Metrics:      metrics.New(),
		Log:          zl,
	})
	zl.Info("starting",
		zap.String("env", cfg.Env),
		zap.String("item_auth_mode", cfg.ItemAuthMode),
		zap.String("session_backend", cfg.SessionBackend),
	)
	return server.Serve(ctx, server.NewHTTPServer(cfg.HTTPAddr, handler), zl)
}
