package eventstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/voluntr/voluntr/pkg/metrics"
)

// MemoryStore implements Store with an in-process ledger. Used by tests and
// dev mode; the SQLite store is the durable counterpart.
type MemoryStore struct {
	mu      sync.RWMutex
	streams map[string][]StoredEvent
	clock   func() time.Time
}

// NewMemoryStore creates an empty in-memory ledger.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		streams: make(map[string][]StoredEvent),
		clock:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append commits one event under the aggregate's stream lock.
func (s *MemoryStore) Append(ctx context.Context, req AppendRequest) (StoredEvent, error) {
	if err := validateAppend(req); err != nil {
		return StoredEvent{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stream := s.streams[req.AggregateID]
	current := int64(len(stream))
	if current != req.ExpectedVersion {
		metrics.RecordAppendConflict()
		return StoredEvent{}, fmt.Errorf("%w: aggregate %s at version %d, expected %d",
			ErrConcurrencyConflict, req.AggregateID, current, req.ExpectedVersion)
	}

	ev := StoredEvent{
		EventID:       uuid.NewString(),
		AggregateID:   req.AggregateID,
		AggregateType: req.AggregateType,
		EventType:     req.EventType,
		Version:       current + 1,
		Timestamp:     s.clock(),
		Payload:       req.Payload,
	}
	s.streams[req.AggregateID] = append(stream, ev)
	metrics.RecordEventAppended()
	return ev, nil
}

// LoadStream returns a copy of the aggregate's events in version order.
func (s *MemoryStore) LoadStream(ctx context.Context, aggregateID string) ([]StoredEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stream := s.streams[aggregateID]
	out := make([]StoredEvent, len(stream))
	copy(out, stream)
	return out, nil
}

// LoadByType scans all streams for events of the given type at or after the
// since cursor.
func (s *MemoryStore) LoadByType(ctx context.Context, eventType string, since time.Time) ([]StoredEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []StoredEvent
	for _, stream := range s.streams {
		for _, ev := range stream {
			if ev.EventType != eventType || ev.Timestamp.Before(since) {
				continue
			}
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		if out[i].AggregateID != out[j].AggregateID {
			return out[i].AggregateID < out[j].AggregateID
		}
		return out[i].Version < out[j].Version
	})
	return out, nil
}

func validateAppend(req AppendRequest) error {
	if req.AggregateID == "" || req.AggregateType == "" || req.EventType == "" {
		return fmt.Errorf("%w: aggregate id, aggregate type and event type are required", ErrInvalidRequest)
	}
	if req.ExpectedVersion < 0 {
		return fmt.Errorf("%w: expected version must not be negative", ErrInvalidRequest)
	}
	return nil
}
