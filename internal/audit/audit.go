// Package audit publishes catalogue mutation events to Kafka so
// downstream consumers can track who changed what. Publishing is
// best-effort: a failed publish is logged and never fails the request
// that triggered it.
package audit

import (
	"context"
	"time"
)

// Event types emitted by the catalogue services.
const (
	EventCategoryCreated = "category_created"
	EventCategoryUpdated = "category_updated"
	EventCategoryDeleted = "category_deleted"
	EventProductCreated  = "product_created"
	EventProductUpdated  = "product_updated"
	EventProductDeleted  = "product_deleted"
)

// Event is a single catalogue mutation record.
type Event struct {
	Service    string         `json:"service"`
	EventType  string         `json:"event_type"`
	EntityID   string         `json:"entity_id"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload,omitempty"`
}

// Publisher delivers audit events to an external sink.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close()
}

// NopPublisher discards all events. Used when audit publishing is
// disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

func (NopPublisher) Close() {}
