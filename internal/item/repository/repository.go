package repository

import (
	"context"

	"central-lost-found/backend/internal/item/domain"
)

// Repository defines persistence for found items. Items are insert-only.
type Repository interface {
	// Insert assigns a fresh id to item, persists it, and returns the id.
	Insert(ctx context.Context, item *domain.FoundItem) (string, error)
	// GetByID returns the item for id, or nil if not found.
	GetByID(ctx context.Context, id string) (*domain.FoundItem, error)
	// Query returns items matching every set constraint of f, newest date first, paginated by f.Limit/f.Offset.
	Query(ctx context.Context, f domain.Filter) ([]*domain.FoundItem, error)
	// Search returns items whose title, description or distinctive marks contain term, case-insensitively.
	Search(ctx context.Context, term string) ([]*domain.FoundItem, error)
	// ExportAll returns every item.
	ExportAll(ctx context.Context) ([]*domain.FoundItem, error)
}
