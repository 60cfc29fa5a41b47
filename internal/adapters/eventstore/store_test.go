package eventstore_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	eventstore "github.com/voluntr/voluntr/internal/adapters/eventstore"
	. "github.com/smartystreets/goconvey/convey"
)

func submitRequest(aggregateID string, expected int64) eventstore.AppendRequest {
	return eventstore.AppendRequest{
		AggregateID:     aggregateID,
		AggregateType:   "application",
		EventType:       "application.submitted",
		ExpectedVersion: expected,
		Payload: eventstore.Payload{
			PreviousStatus: "draft",
			NewStatus:      "submitted",
			Actor:          "vol-1",
		},
	}
}

// storeBehavior runs the ledger contract against any Store implementation.
func storeBehavior(t *testing.T, name string, open func(t *testing.T) eventstore.Store) {
	t.Helper()

	Convey("Given an empty "+name+" ledger", t, func() {
		ctx := context.Background()
		store := open(t)

		Convey("When appending the first event", func() {
			ev, err := store.Append(ctx, submitRequest("app-1", 0))

			Convey("Then it is committed at version 1", func() {
				So(err, ShouldBeNil)
				So(ev.Version, ShouldEqual, 1)
				So(ev.EventID, ShouldNotBeEmpty)
				So(ev.Payload.NewStatus, ShouldEqual, "submitted")
			})
		})

		Convey("When appending with a stale expected version", func() {
			_, err := store.Append(ctx, submitRequest("app-2", 0))
			So(err, ShouldBeNil)

			_, err = store.Append(ctx, submitRequest("app-2", 0))

			Convey("Then the append fails with a concurrency conflict", func() {
				So(errors.Is(err, eventstore.ErrConcurrencyConflict), ShouldBeTrue)
			})

			Convey("And nothing partial is written", func() {
				stream, loadErr := store.LoadStream(ctx, "app-2")
				So(loadErr, ShouldBeNil)
				So(len(stream), ShouldEqual, 1)
			})
		})

		Convey("When appending a gap-free sequence", func() {
			_, err := store.Append(ctx, submitRequest("app-3", 0))
			So(err, ShouldBeNil)
			_, err = store.Append(ctx, eventstore.AppendRequest{
				AggregateID:     "app-3",
				AggregateType:   "application",
				EventType:       "application.reviewing",
				ExpectedVersion: 1,
				Payload:         eventstore.Payload{PreviousStatus: "submitted", NewStatus: "reviewing", Actor: "staff-1"},
			})
			So(err, ShouldBeNil)

			Convey("Then the stream replays in ascending version order", func() {
				stream, loadErr := store.LoadStream(ctx, "app-3")
				So(loadErr, ShouldBeNil)
				So(len(stream), ShouldEqual, 2)
				So(stream[0].Version, ShouldEqual, 1)
				So(stream[1].Version, ShouldEqual, 2)
				So(stream[1].EventType, ShouldEqual, "application.reviewing")
			})
		})

		Convey("When loading an unknown aggregate", func() {
			stream, err := store.LoadStream(ctx, "no-such-aggregate")

			Convey("Then the stream is empty, not an error", func() {
				So(err, ShouldBeNil)
				So(stream, ShouldBeEmpty)
			})
		})

		Convey("When loading by type with a cursor", func() {
			before := time.Now().UTC().Add(-time.Minute)
			_, err := store.Append(ctx, submitRequest("app-4", 0))
			So(err, ShouldBeNil)
			_, err = store.Append(ctx, submitRequest("app-5", 0))
			So(err, ShouldBeNil)

			Convey("Then events of that type across aggregates are returned", func() {
				events, loadErr := store.LoadByType(ctx, "application.submitted", before)
				So(loadErr, ShouldBeNil)
				So(len(events), ShouldEqual, 2)
			})

			Convey("And a future cursor filters everything out", func() {
				events, loadErr := store.LoadByType(ctx, "application.submitted", time.Now().UTC().Add(time.Hour))
				So(loadErr, ShouldBeNil)
				So(events, ShouldBeEmpty)
			})

			Convey("And an unknown type yields nothing", func() {
				events, loadErr := store.LoadByType(ctx, "application.unknown", before)
				So(loadErr, ShouldBeNil)
				So(events, ShouldBeEmpty)
			})
		})

		Convey("When the append request is malformed", func() {
			_, err := store.Append(ctx, eventstore.AppendRequest{ExpectedVersion: 0})

			Convey("Then it is rejected before any write", func() {
				So(errors.Is(err, eventstore.ErrInvalidRequest), ShouldBeTrue)
			})
		})
	})
}

func TestMemoryStore(t *testing.T) {
	storeBehavior(t, "in-memory", func(t *testing.T) eventstore.Store {
		return eventstore.NewMemoryStore()
	})
}

func TestSQLiteStore(t *testing.T) {
	storeBehavior(t, "sqlite", func(t *testing.T) eventstore.Store {
		t.Helper()
		store, err := eventstore.OpenSQLite(filepath.Join(t.TempDir(), "ledger.db"))
		if err != nil {
			t.Fatalf("open sqlite ledger: %v", err)
		}
		t.Cleanup(func() { _ = store.Close() })
		return store
	})
}

func TestMemoryStoreClock(t *testing.T) {
	Convey("Given a store with a fixed clock", t, func() {
		ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		store := eventstore.NewMemoryStore(eventstore.WithClock(func() time.Time { return ts }))

		Convey("Then committed events carry the injected timestamp", func() {
			ev, err := store.Append(context.Background(), submitRequest("app-1", 0))
			So(err, ShouldBeNil)
			So(ev.Timestamp, ShouldResemble, ts)
		})
	})
}
