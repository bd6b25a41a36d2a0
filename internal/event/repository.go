package event

import (
	"context"
	"time"
)

// Repository defines the storage interface for events and tags.
type Repository interface {
	// CreateEvent adds a new event. The id must be unique.
	CreateEvent(ctx context.Context, e *Event) error

	// GetEvent retrieves an event by id. Returns ErrEventNotFound if absent.
	GetEvent(ctx context.Context, id string) (*Event, error)

	// SaveEvent inserts or replaces an event.
	SaveEvent(ctx context.Context, e *Event) error

	// DeleteEvent removes an event. Returns ErrEventNotFound if absent.
	DeleteEvent(ctx context.Context, id string) error

	// ApplyChanges persists a batch of row changes atomically.
	// Deleting an event that is already gone is not an error.
	ApplyChanges(ctx context.Context, changes []Change) error

	// ListEventsByRange returns events that start within [start, end).
	ListEventsByRange(ctx context.Context, start, end time.Time) ([]*Event, error)

	// ListTags returns all tags in creation order.
	ListTags(ctx context.Context) (Tags, error)

	// SaveTag inserts or replaces a tag.
	SaveTag(ctx context.Context, t Tag) error

	// Close releases any resources held by the repository.
	Close() error
}
