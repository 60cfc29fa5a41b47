package lifecycle

import (
	"fmt"
	"time"

	"github.com/voluntr/voluntr/internal/adapters/eventstore"
)

// Metadata keys carried on the first event of a stream.
const (
	MetaVolunteerID   = "volunteer_id"
	MetaOpportunityID = "opportunity_id"
	MetaCoverLetter   = "cover_letter"
)

// Application is the projected state of one application aggregate. It is
// never constructed directly; Replay derives it from the event stream.
type Application struct {
	ID            string
	VolunteerID   string
	OpportunityID string
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Version       int64
}

// Replay folds an aggregate's event stream into its current state. Replay
// is idempotent: the same stream always produces the same Application. An
// empty stream fails with ErrNotFound; a gapped or disordered stream fails
// with ErrCorruptStream.
func Replay(events []eventstore.StoredEvent) (Application, error) {
	if len(events) == 0 {
		return Application{}, ErrNotFound
	}

	var app Application
	for i, ev := range events {
		if ev.Version != int64(i)+1 {
			return Application{}, fmt.Errorf("%w: aggregate %s has version %d at position %d",
				ErrCorruptStream, ev.AggregateID, ev.Version, i)
		}
		app = apply(app, ev)
	}
	return app, nil
}

// apply folds a single event into the aggregate state.
func apply(app Application, ev eventstore.StoredEvent) Application {
	if ev.Version == 1 {
		app.ID = ev.AggregateID
		app.VolunteerID = ev.Payload.Metadata[MetaVolunteerID]
		app.OpportunityID = ev.Payload.Metadata[MetaOpportunityID]
		app.CreatedAt = ev.Timestamp
	}
	app.Status = Status(ev.Payload.NewStatus)
	app.UpdatedAt = ev.Timestamp
	app.Version = ev.Version
	return app
}
