package lifecycle

import (
	"context"

	"github.com/google/uuid"

	"github.com/voluntr/voluntr/internal/adapters/eventstore"
	"github.com/voluntr/voluntr/pkg/logger"
	"github.com/voluntr/voluntr/pkg/metrics"
)

// EffectHandler delivers one post-commit side effect to the outside world.
// Implementations are best-effort: a failed delivery is theirs to log and
// count, never the transition's to roll back.
type EffectHandler interface {
	Handle(ctx context.Context, effect Effect, app Application, trigger Trigger, actor, reason string)
}

// Manager validates and applies state transitions for application
// aggregates, emitting one ledger event per transition.
type Manager struct {
	store   eventstore.Store
	effects EffectHandler
	log     logger.Logger
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithEffectHandler sets the sink for post-commit side effects. Without one
// the manager performs transitions silently.
func WithEffectHandler(h EffectHandler) Option {
	return func(m *Manager) {
		if h != nil {
			m.effects = h
		}
	}
}

// WithLogger sets a custom logger for the manager.
func WithLogger(l logger.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// NewManager creates a lifecycle manager on top of the given ledger.
func NewManager(store eventstore.Store, opts ...Option) *Manager {
	m := &Manager{
		store: store,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.log == nil {
		m.log = logger.Get().Named("lifecycle")
	}
	return m
}

// Submit opens a new application aggregate on the expedited path: a single
// event takes it from notional draft straight to submitted at version 1.
func (m *Manager) Submit(ctx context.Context, volunteerID, opportunityID, actor, coverLetter string) (Application, error) {
	r := transitions[TriggerSubmit]
	ev, err := m.store.Append(ctx, eventstore.AppendRequest{
		AggregateID:     uuid.NewString(),
		AggregateType:   AggregateType,
		EventType:       r.eventType,
		ExpectedVersion: 0,
		Payload: eventstore.Payload{
			PreviousStatus: string(StatusDraft),
			NewStatus:      string(r.to),
			Actor:          actor,
			Metadata: map[string]string{
				MetaVolunteerID:   volunteerID,
				MetaOpportunityID: opportunityID,
				MetaCoverLetter:   coverLetter,
			},
		},
	})
	if err != nil {
		return Application{}, err
	}

	app := apply(Application{}, ev)
	metrics.RecordTransition(string(TriggerSubmit))
	m.dispatch(ctx, r.effects, app, TriggerSubmit, actor, "")
	return app, nil
}

// Transition replays the aggregate, checks the trigger against the static
// table, appends the transition event with optimistic concurrency, and then
// dispatches the transition's side effects. A concurrency conflict is
// surfaced unchanged; the caller decides whether to reload and retry.
func (m *Manager) Transition(ctx context.Context, applicationID string, trigger Trigger, actor, reason string) (Application, error) {
	r, ok := transitions[trigger]
	if !ok {
		return Application{}, unknownTriggerError(string(trigger))
	}

	stream, err := m.store.LoadStream(ctx, applicationID)
	if err != nil {
		return Application{}, err
	}
	app, err := Replay(stream)
	if err != nil {
		return Application{}, err
	}

	if !allowedFrom(r, app.Status) {
		return Application{}, &InvalidTransitionError{
			ApplicationID: applicationID,
			Trigger:       trigger,
			Current:       app.Status,
			Legal:         LegalTriggers(app.Status),
		}
	}

	ev, err := m.store.Append(ctx, eventstore.AppendRequest{
		AggregateID:     applicationID,
		AggregateType:   AggregateType,
		EventType:       r.eventType,
		ExpectedVersion: app.Version,
		Payload: eventstore.Payload{
			PreviousStatus: string(app.Status),
			NewStatus:      string(r.to),
			Actor:          actor,
			Reason:         reason,
		},
	})
	if err != nil {
		return Application{}, err
	}

	app = apply(app, ev)
	metrics.RecordTransition(string(trigger))
	m.dispatch(ctx, r.effects, app, trigger, actor, reason)
	return app, nil
}

// dispatch hands the transition's effects to the handler. Runs only after
// the append is durable.
func (m *Manager) dispatch(ctx context.Context, effects []Effect, app Application, trigger Trigger, actor, reason string) {
	if m.effects == nil || len(effects) == 0 {
		return
	}
	for _, effect := range effects {
		m.effects.Handle(ctx, effect, app, trigger, actor, reason)
	}
	m.log.Debug(ctx, "dispatched transition effects",
		logger.String("application", app.ID),
		logger.String("trigger", string(trigger)),
		logger.Int("effects", len(effects)),
	)
}

func allowedFrom(r rule, s Status) bool {
	for _, from := range r.from {
		if from == s {
			return true
		}
	}
	return false
}
