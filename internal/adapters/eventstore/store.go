// Package eventstore defines the append-only domain event ledger.
//
// The ledger is the single source of truth for aggregate state. Events are
// written once, never mutated, never deleted; per-aggregate versions form a
// gap-free ascending sequence starting at 1.
package eventstore

import (
	"context"
	"time"
)

// Payload carries the domain data of a lifecycle event.
type Payload struct {
	PreviousStatus string            `json:"previous_status,omitempty"`
	NewStatus      string            `json:"new_status,omitempty"`
	Actor          string            `json:"actor,omitempty"`
	Reason         string            `json:"reason,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// StoredEvent is one committed entry of the ledger.
type StoredEvent struct {
	EventID       string
	AggregateID   string
	AggregateType string
	EventType     string
	Version       int64 // aggregate version after applying this event
	Timestamp     time.Time
	Payload       Payload
}

// AppendRequest describes a single event to commit.
type AppendRequest struct {
	AggregateID   string
	AggregateType string
	EventType     string
	// ExpectedVersion is the aggregate's current max version as seen by the
	// caller. Optimistic concurrency: a mismatch fails the append.
	ExpectedVersion int64
	Payload         Payload
}

// Store provides append-only access to the event ledger.
type Store interface {
	// Append commits one event atomically. It fails with
	// ErrConcurrencyConflict when the aggregate's current max version is not
	// ExpectedVersion; the committed event gets version ExpectedVersion+1.
	// Append is the only write path.
	Append(ctx context.Context, req AppendRequest) (StoredEvent, error)

	// LoadStream returns all events for one aggregate in ascending version
	// order. An unknown aggregate yields an empty slice, not an error.
	LoadStream(ctx context.Context, aggregateID string) ([]StoredEvent, error)

	// LoadByType returns events of one type across aggregates with
	// Timestamp >= since, ordered by timestamp then aggregate then version.
	// The since cursor makes projection rebuilds restartable.
	LoadByType(ctx context.Context, eventType string, since time.Time) ([]StoredEvent, error)
}
