// Package server wires repositories, stores and services into the HTTP API and runs the listener.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"central-lost-found/backend/internal/config"
	"central-lost-found/backend/internal/events"
	"central-lost-found/backend/internal/feed"
	healthhandler "central-lost-found/backend/internal/health/handler"
	"central-lost-found/backend/internal/httpapi"
	identityservice "central-lost-found/backend/internal/identity/service"
	"central-lost-found/backend/internal/item/repository"
	itemservice "central-lost-found/backend/internal/item/service"
	"central-lost-found/backend/internal/metrics"
	"central-lost-found/backend/internal/region"
	"central-lost-found/backend/internal/session/store"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

// Deps holds the dependencies of the HTTP API.
type Deps struct {
	// Items is the found-item repository. Required.
	Items repository.Repository
	// Sessions backs login tokens. Required.
	Sessions store.Store
	// Resolver maps email domains to regions. If nil, the embedded table is used.
	Resolver *region.Resolver
	// Fetcher downloads feeds for import. Required.
	Fetcher feed.Downloader
	// Publisher receives item.created events. If nil, no events are published.
	Publisher events.Publisher
	// HealthPinger is used by /readyz (e.g. *sql.DB). If nil, readiness skips the DB ping.
	HealthPinger healthhandler.Pinger
	// Metrics may be nil.
	Metrics *metrics.Metrics
	// Log may be nil.
	Log *zap.Logger
}

// NewHandler builds the services over deps and returns the API router.
func NewHandler(cfg *config.Config, deps Deps) http.Handler {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	resolver := deps.Resolver
	if resolver == nil {
		resolver = region.Default()
	}

	authSvc := identityservice.NewAuthService(resolver, deps.Sessions, deps.Metrics, log)
	itemSvc := itemservice.NewItemService(deps.Items, deps.Publisher, deps.Metrics, log)
	importer := feed.NewImporter(deps.Fetcher, deps.Items, deps.Publisher, deps.Metrics, log)

	h := httpapi.New(authSvc, itemSvc, importer, deps.HealthPinger, deps.Metrics, log, httpapi.Options{
		AuthMode:            cfg.ItemAuthMode,
		ExposeStorageErrors: cfg.ExposeStorageErrors,
	})
	return h.Routes()
}

// NewHTTPServer returns an http.Server for handler on addr.
func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// Serve runs srv until ctx is cancelled, then shuts it down gracefully. A listener error other than
// http.ErrServerClosed is returned.
func Serve(ctx context.Context, srv *http.Server, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
