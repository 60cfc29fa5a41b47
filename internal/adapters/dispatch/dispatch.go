// Package dispatch delivers post-commit lifecycle side effects to the
// notification and reward collaborators.
//
// Delivery is best-effort and strictly after commit: the transition that
// owed the effect is already durable, so a failed delivery is logged and
// counted, never propagated. A bounded job queue plus a small worker pool
// keeps slow collaborators off the transition path.
package dispatch

import (
	"context"
	"sync"

	"github.com/voluntr/voluntr/internal/domain/lifecycle"
	"github.com/voluntr/voluntr/pkg/logger"
	"github.com/voluntr/voluntr/pkg/metrics"
)

// Default dispatcher configuration constants.
const (
	defaultWorkerCount = 4
	defaultQueueSize   = 1024

	// completionPoints is the reward issued when an application completes.
	completionPoints = 100
)

// Sink is the outbound collaborator surface. All methods are fire-and-forget
// from the caller's point of view; errors are for the dispatcher's logs.
type Sink interface {
	Notify(ctx context.Context, kind string, payload map[string]string) error
	AwardPoints(ctx context.Context, volunteerID string, amount int, reason string) error
	IssueCertificate(ctx context.Context, volunteerID, opportunityID string) error
	ReserveCapacity(ctx context.Context, opportunityID string) error
	ReleaseCapacity(ctx context.Context, opportunityID string) error
	RecordHours(ctx context.Context, volunteerID, opportunityID string) error
}

// job is one effect owed to the sink.
type job struct {
	effect  lifecycle.Effect
	app     lifecycle.Application
	trigger lifecycle.Trigger
	actor   string
	reason  string
}

// Dispatcher implements lifecycle.EffectHandler on top of a bounded queue.
type Dispatcher struct {
	sink        Sink
	jobs        chan job
	workerCount int
	queueSize   int
	synchronous bool
	log         logger.Logger

	mu      sync.Mutex
	started bool
	wg      sync.WaitGroup
}

// New creates a dispatcher for the given sink.
func New(sink Sink, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		sink:        sink,
		workerCount: defaultWorkerCount,
		queueSize:   defaultQueueSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.log == nil {
		d.log = logger.Get().Named("dispatch")
	}
	return d
}

// Start launches the worker pool. A synchronous dispatcher has no workers
// and needs no Start/Stop.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started || d.synchronous {
		return
	}
	d.jobs = make(chan job, d.queueSize)
	metrics.UpdateHookQueueCapacity(d.queueSize)
	metrics.UpdateHookWorkerCount(d.workerCount)

	for i := 0; i < d.workerCount; i++ {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			for j := range d.jobs {
				d.deliver(ctx, j)
				metrics.UpdateHookQueueSize(len(d.jobs))
			}
		}()
	}
	d.started = true
}

// Stop closes the queue and waits for in-flight deliveries to finish.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.started {
		return
	}
	close(d.jobs)
	d.wg.Wait()
	d.started = false
}

// Handle enqueues one effect for delivery. When the queue is full the hook
// is dropped and counted; the committed transition is unaffected either way.
func (d *Dispatcher) Handle(ctx context.Context, effect lifecycle.Effect, app lifecycle.Application, trigger lifecycle.Trigger, actor, reason string) {
	j := job{effect: effect, app: app, trigger: trigger, actor: actor, reason: reason}

	if d.synchronous {
		d.deliver(ctx, j)
		return
	}

	d.mu.Lock()
	started := d.started
	d.mu.Unlock()
	if !started {
		d.log.Warn(ctx, "dispatcher not started, dropping hook",
			logger.String("effect", string(effect)),
			logger.String("application", app.ID),
		)
		metrics.RecordHookDropped()
		return
	}

	select {
	case d.jobs <- j:
		metrics.UpdateHookQueueSize(len(d.jobs))
		metrics.UpdateHookQueueUtilization(float64(len(d.jobs)) / float64(d.queueSize))
	default:
		d.log.Warn(ctx, "hook queue full, dropping hook",
			logger.String("effect", string(effect)),
			logger.String("application", app.ID),
		)
		metrics.RecordHookDropped()
	}
}

// deliver translates one effect into the matching sink call.
func (d *Dispatcher) deliver(ctx context.Context, j job) {
	var err error
	switch j.effect {
	case lifecycle.EffectNotifyOrganization:
		err = d.sink.Notify(ctx, notificationKind(j.trigger), notificationPayload(j, "organization"))
	case lifecycle.EffectNotifyVolunteer:
		err = d.sink.Notify(ctx, notificationKind(j.trigger), notificationPayload(j, "volunteer"))
	case lifecycle.EffectReserveCapacity:
		err = d.sink.ReserveCapacity(ctx, j.app.OpportunityID)
	case lifecycle.EffectReleaseCapacity:
		err = d.sink.ReleaseCapacity(ctx, j.app.OpportunityID)
	case lifecycle.EffectAwardPoints:
		err = d.sink.AwardPoints(ctx, j.app.VolunteerID, completionPoints, "application completed")
	case lifecycle.EffectIssueCertificate:
		err = d.sink.IssueCertificate(ctx, j.app.VolunteerID, j.app.OpportunityID)
	case lifecycle.EffectRecordHours:
		err = d.sink.RecordHours(ctx, j.app.VolunteerID, j.app.OpportunityID)
	default:
		d.log.Warn(ctx, "unknown effect, skipping", logger.String("effect", string(j.effect)))
		return
	}

	if err != nil {
		d.log.Error(ctx, "hook delivery failed",
			logger.String("effect", string(j.effect)),
			logger.String("application", j.app.ID),
			logger.Error(err),
		)
		metrics.RecordHookFailure(string(j.effect))
		return
	}
	metrics.RecordHookDispatched(string(j.effect))
}

// notificationKind names the notification after the committed transition.
func notificationKind(trigger lifecycle.Trigger) string {
	return "application." + string(trigger)
}

func notificationPayload(j job, recipient string) map[string]string {
	p := map[string]string{
		"recipient":      recipient,
		"application_id": j.app.ID,
		"volunteer_id":   j.app.VolunteerID,
		"opportunity_id": j.app.OpportunityID,
		"status":         string(j.app.Status),
		"actor":          j.actor,
	}
	if j.reason != "" {
		p["reason"] = j.reason
	}
	return p
}
