// Package service holds the found-item use cases. Handlers call it; it calls the item repository.
package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"central-lost-found/backend/internal/events"
	"central-lost-found/backend/internal/item/domain"
	"central-lost-found/backend/internal/item/repository"
	"central-lost-found/backend/internal/metrics"
	"central-lost-found/backend/internal/sanitize"
	sessiondomain "central-lost-found/backend/internal/session/domain"
)

// Listing bounds.
const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// ItemService implements the found-item use cases: create from a staff form, list, search, get, export.
type ItemService struct {
	repo      repository.Repository
	publisher events.Publisher
	metrics   *metrics.Metrics
	log       *zap.Logger
	nowF      func() time.Time
}

// NewItemService returns an ItemService. publisher, m and log may be nil.
func NewItemService(repo repository.Repository, publisher events.Publisher, m *metrics.Metrics, log *zap.Logger) *ItemService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ItemService{
		repo:      repo,
		publisher: publisher,
		metrics:   m,
		log:       log,
		nowF:      time.Now,
	}
}

// Create validates in, sanitizes its free text, attaches the reporter's region and entity, and stores it.
// Invalid input returns *domain.ValidationError and nothing is written.
func (s *ItemService) Create(ctx context.Context, reporter sessiondomain.Identity, in domain.NewItem) (*domain.FoundItem, error) {
	now := s.nowF()
	in.Normalize(now)
	if err := in.Validate(now); err != nil {
		return nil, err
	}
	item := &domain.FoundItem{
		Title:            in.Title,
		Category:         in.Category,
		DominantColor:    in.DominantColor,
		Description:      sanitize.Optional(in.Description),
		DistinctiveMarks: sanitize.Optional(in.DistinctiveMarks),
		LocationFound:    in.LocationFound,
		DateFound:        *in.DateFound,
		Voivodeship:      orUnknown(reporter.Region, domain.MaxVoivodeshipLen),
		ReportingEntity:  orUnknown(reporter.ReportingEntity, domain.MaxReportingEntityLen),
	}
	if _, err := s.repo.Insert(ctx, item); err != nil {
		return nil, err
	}
	s.metrics.IncrementItemsCreated(metrics.SourceForm)
	events.PublishAsync(s.log, s.publisher, events.NewItemCreated(item, metrics.SourceForm, now))
	return item, nil
}

// Get returns the item for id or domain.ErrNotFound.
func (s *ItemService) Get(ctx context.Context, id string) (*domain.FoundItem, error) {
	item, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

// List returns items matching f. A zero Limit means DefaultLimit; Limit above MaxLimit, negative Limit or
// Offset, and an inverted date range are validation errors.
func (s *ItemService) List(ctx context.Context, f domain.Filter) ([]*domain.FoundItem, error) {
	f.Voivodeship = strings.TrimSpace(f.Voivodeship)
	f.DominantColor = strings.TrimSpace(f.DominantColor)
	if f.Limit == 0 {
		f.Limit = DefaultLimit
	}
	var verr domain.ValidationError
	if f.Limit < 1 || f.Limit > MaxLimit {
		verr.Add("limit", "must be between 1 and 500")
	}
	if f.Offset < 0 {
		verr.Add("offset", "must not be negative")
	}
	if f.DateFrom != nil && f.DateTo != nil && f.DateFrom.After(*f.DateTo) {
		verr.Add("date_from", "must not be after date_to")
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}
	return s.repo.Query(ctx, f)
}

// Search returns items whose title, description or distinctive marks contain q, ignoring case.
func (s *ItemService) Search(ctx context.Context, q string) ([]*domain.FoundItem, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		var verr domain.ValidationError
		verr.Add("q", "is required")
		return nil, verr.Err()
	}
	return s.repo.Search(ctx, q)
}

// Export returns every stored item.
func (s *ItemService) Export(ctx context.Context) ([]*domain.FoundItem, error) {
	return s.repo.ExportAll(ctx)
}

// orUnknown returns v, or domain.UnknownValue when v is empty. Values are cut to max runes to fit the column.
func orUnknown(v string, max int) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return domain.UnknownValue
	}
	if r := []rune(v); len(r) > max {
		return string(r[:max])
	}
	return v
}
