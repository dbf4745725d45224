// Package httpapi is the HTTP transport: chi routes, request decoding, response negotiation and the
// error envelope. It delegates every decision to the services.
package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"central-lost-found/backend/internal/config"
	"central-lost-found/backend/internal/feed"
	healthhandler "central-lost-found/backend/internal/health/handler"
	"central-lost-found/backend/internal/item/domain"
	"central-lost-found/backend/internal/metrics"
	sessiondomain "central-lost-found/backend/internal/session/domain"
)

// AuthService is the login and session surface used by the handlers.
type AuthService interface {
	Login(ctx context.Context, email string) (*sessiondomain.Session, error)
	IdentityFor(email string) sessiondomain.Identity
	Authenticate(ctx context.Context, token string) (*sessiondomain.Identity, error)
	Logout(ctx context.Context, token string) error
}

// ItemService is the found-item surface used by the handlers.
type ItemService interface {
	Create(ctx context.Context, reporter sessiondomain.Identity, in domain.NewItem) (*domain.FoundItem, error)
	Get(ctx context.Context, id string) (*domain.FoundItem, error)
	List(ctx context.Context, f domain.Filter) ([]*domain.FoundItem, error)
	Search(ctx context.Context, q string) ([]*domain.FoundItem, error)
	Export(ctx context.Context) ([]*domain.FoundItem, error)
}

// FeedImporter runs a feed import.
type FeedImporter interface {
	Import(ctx context.Context, rawURL string) (*feed.Result, error)
}

// Options tune handler behavior from configuration.
type Options struct {
	// AuthMode is config.AuthModeSession or config.AuthModeEmail.
	AuthMode string
	// ExposeStorageErrors includes the storage error text in 500 responses.
	ExposeStorageErrors bool
}

// Handler serves the public API.
type Handler struct {
	auth     AuthService
	items    ItemService
	importer FeedImporter
	health   *healthhandler.Server
	metrics  *metrics.Metrics
	log      *zap.Logger
	opts     Options
}

// New returns a Handler. db is used for readiness and may be nil; m and log may be nil.
func New(auth AuthService, items ItemService, importer FeedImporter, db healthhandler.Pinger, m *metrics.Metrics, log *zap.Logger, opts Options) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.AuthMode == "" {
		opts.AuthMode = config.AuthModeSession
	}
	return &Handler{
		auth:     auth,
		items:    items,
		importer: importer,
		health:   healthhandler.NewServer(db),
		metrics:  m,
		log:      log,
		opts:     opts,
	}
}

// Routes returns the router. API routes are served both at the root and under /api.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.health.Liveness)
	r.Get("/readyz", h.health.Readiness)
	r.Method(http.MethodGet, "/metrics", h.metrics.Handler())

	r.Group(h.register)
	r.Route("/api", h.register)
	return r
}

func (h *Handler) register(r chi.Router) {
	r.Post("/auth/login", h.handleLogin)
	r.Post("/auth/logout", h.handleLogout)

	r.Post("/items", h.handleCreateItem)
	r.Get("/items", h.handleListItems)
	r.Get("/items/search", h.handleSearchItems)
	r.Get("/items/{id}", h.handleGetItem)
	r.Get("/export", h.handleExport)

	r.Get("/import/bip", h.handleImportFeed)

	r.Get("/metadata.xml", h.handleMetadata)
	r.Get("/sample.csv", h.handleSample)
}
