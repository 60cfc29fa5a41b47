package repository

import (
	"context"
	"sort"
	"time"

	"github.com/voluntr/voluntr/internal/adapters/eventstore"
	"github.com/voluntr/voluntr/internal/domain/lifecycle"
	"github.com/voluntr/voluntr/pkg/metrics"
)

// Rebuild rederives every application snapshot from the ledger. It pulls
// each application event type from the beginning of time, regroups the
// events per aggregate, replays, and atomically swaps the snapshot map.
// Safe to run at any time; the result depends only on the ledger contents.
func (s *MemoryStore) Rebuild(ctx context.Context, ledger eventstore.Store) error {
	start := time.Now()

	byAggregate := make(map[string][]eventstore.StoredEvent)
	for _, eventType := range lifecycle.EventTypes {
		events, err := ledger.LoadByType(ctx, eventType, time.Time{})
		if err != nil {
			return err
		}
		for _, ev := range events {
			byAggregate[ev.AggregateID] = append(byAggregate[ev.AggregateID], ev)
		}
	}

	apps := make(map[string]lifecycle.Application, len(byAggregate))
	for aggregateID, events := range byAggregate {
		sort.Slice(events, func(i, j int) bool { return events[i].Version < events[j].Version })
		app, err := lifecycle.Replay(events)
		if err != nil {
			return err
		}
		apps[aggregateID] = app
	}

	s.replaceApplications(apps)
	metrics.RecordProjectionRebuild(float64(time.Since(start).Milliseconds()))
	return nil
}
