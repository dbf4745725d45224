// Package events publishes item lifecycle events for downstream consumers (the event worker ships them to Loki).
package events

import (
	"context"
	"time"

	"central-lost-found/backend/internal/item/domain"
)

// TypeItemCreated is the event type emitted once per stored item.
const TypeItemCreated = "item.created"

// ItemEvent is the JSON payload written to the item events topic.
type ItemEvent struct {
	EventType       string    `json:"eventType"`
	ItemID          string    `json:"itemId"`
	Source          string    `json:"source"`
	Title           string    `json:"title"`
	Voivodeship     string    `json:"voivodeship"`
	ReportingEntity string    `json:"reportingEntity"`
	DateFound       string    `json:"dateFound"`
	CreatedAt       time.Time `json:"createdAt"`
}

// NewItemCreated builds the item.created event for a stored item.
func NewItemCreated(item *domain.FoundItem, source string, now time.Time) *ItemEvent {
	return &ItemEvent{
		EventType:       TypeItemCreated,
		ItemID:          item.ID,
		Source:          source,
		Title:           item.Title,
		Voivodeship:     item.Voivodeship,
		ReportingEntity: item.ReportingEntity,
		DateFound:       item.DateFound.Format(domain.DateLayout),
		CreatedAt:       now.UTC(),
	}
}

// Publisher publishes item events. Callers use it best-effort: log and ignore errors.
type Publisher interface {
	// Publish sends a single event. Implementations may block briefly; use PublishAsync from request paths.
	Publish(ctx context.Context, event *ItemEvent) error
	// Close releases resources (e.g. Kafka writer). Safe to call if already closed.
	Close() error
}
