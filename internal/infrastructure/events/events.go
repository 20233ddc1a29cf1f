// Package events publishes catalog change notifications.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	ProductCreated  = "product.created"
	ProductUpdated  = "product.updated"
	ProductDeleted  = "product.deleted"
	CategoryCreated = "category.created"
	CategoryUpdated = "category.updated"
	CategoryDeleted = "category.deleted"
)

// Event is the JSON message written for every catalog mutation.
type Event struct {
	Type       string    `json:"type"`
	ID         uuid.UUID `json:"id"`
	Slug       string    `json:"slug,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

func New(eventType string, id uuid.UUID, slug string) Event {
	return Event{Type: eventType, ID: id, Slug: slug, OccurredAt: time.Now().UTC()}
}

// Publisher delivers events. Callers log failures and carry on.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
