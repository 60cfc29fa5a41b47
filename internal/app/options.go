package service

import (
	"time"

	"github.com/voluntr/voluntr/internal/adapters/dispatch"
	"github.com/voluntr/voluntr/internal/adapters/eventstore"
	"github.com/voluntr/voluntr/internal/adapters/repository"
	"github.com/voluntr/voluntr/internal/domain/scoring"
	"github.com/voluntr/voluntr/pkg/logger"
)

// Option configures the Service.
type Option func(*Service)

// WithEventStore sets the event ledger backing the lifecycle.
func WithEventStore(s eventstore.Store) Option {
	return func(svc *Service) {
		svc.ledger = s
	}
}

// WithProjection sets the read-model store.
func WithProjection(s repository.Store) Option {
	return func(svc *Service) {
		svc.projection = s
	}
}

// WithScorer sets the scoring engine.
func WithScorer(s scoring.Scorer) Option {
	return func(svc *Service) {
		svc.scorer = s
	}
}

// WithDirectory sets the volunteer directory collaborator.
func WithDirectory(d Directory) Option {
	return func(svc *Service) {
		svc.directory = d
	}
}

// WithCatalog sets the opportunity catalog collaborator.
func WithCatalog(c Catalog) Option {
	return func(svc *Service) {
		svc.catalog = c
	}
}

// WithSink sets the post-commit hook sink.
func WithSink(s dispatch.Sink) Option {
	return func(svc *Service) {
		svc.sink = s
	}
}

// WithDefaultMatchLimit sets the fallback result cap for GenerateMatches.
func WithDefaultMatchLimit(n int) Option {
	return func(svc *Service) {
		if n > 0 {
			svc.matchLimit = n
		}
	}
}

// WithHookWorkerCount sets the dispatcher worker pool size.
func WithHookWorkerCount(n int) Option {
	return func(svc *Service) {
		svc.hookWorkerCount = n
	}
}

// WithHookQueueSize sets the dispatcher queue capacity.
func WithHookQueueSize(n int) Option {
	return func(svc *Service) {
		svc.hookQueueSize = n
	}
}

// WithSynchronousHooks delivers hooks inline instead of through the worker
// pool. Intended for tests.
func WithSynchronousHooks() Option {
	return func(svc *Service) {
		svc.synchronousHooks = true
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(svc *Service) {
		svc.log = l
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(clock func() time.Time) Option {
	return func(svc *Service) {
		svc.clock = clock
	}
}
