// Package service orchestrates the matching core: scoring and ranking of
// opportunities, persistence of match suggestions, and the application
// lifecycle driven through the event ledger.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/voluntr/voluntr/internal/adapters/collab"
	"github.com/voluntr/voluntr/internal/adapters/dispatch"
	"github.com/voluntr/voluntr/internal/adapters/eventstore"
	"github.com/voluntr/voluntr/internal/adapters/repository"
	"github.com/voluntr/voluntr/internal/domain/lifecycle"
	"github.com/voluntr/voluntr/internal/domain/model"
	"github.com/voluntr/voluntr/internal/domain/ranking"
	"github.com/voluntr/voluntr/internal/domain/scoring"
	"github.com/voluntr/voluntr/pkg/logger"
	"github.com/voluntr/voluntr/pkg/metrics"
)

// defaultMatchLimit caps GenerateMatches when the caller passes no limit.
const defaultMatchLimit = 10

// Directory is the volunteer directory collaborator.
type Directory interface {
	GetProfile(ctx context.Context, volunteerID string) (model.VolunteerProfile, error)
}

// Catalog is the opportunity catalog collaborator.
type Catalog interface {
	ListCandidates(ctx context.Context, filter model.CandidateFilter) ([]model.OpportunityCandidate, error)
}

// Service implements the matching and lifecycle operations consumed by the
// API layer.
type Service struct {
	mu sync.RWMutex

	// Core components
	ledger     eventstore.Store
	projection repository.Store
	scorer     scoring.Scorer
	directory  Directory
	catalog    Catalog
	manager    *lifecycle.Manager
	dispatcher *dispatch.Dispatcher
	sink       dispatch.Sink

	// Configuration
	matchLimit       int
	hookWorkerCount  int
	hookQueueSize    int
	synchronousHooks bool

	// State
	started bool

	// Logging
	log   logger.Logger
	clock func() time.Time
}

// New constructs a Service with default configuration. Call Start before
// using it.
func New(opts ...Option) *Service {
	s := &Service{
		matchLimit: defaultMatchLimit,
		clock:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start wires missing components with in-memory defaults, starts the hook
// dispatcher, and rebuilds the projection from the ledger.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.log == nil {
		s.log = logger.Get().Named("service")
	}
	if s.ledger == nil {
		s.ledger = eventstore.NewMemoryStore()
		s.log.Info(ctx, "using in-memory event ledger")
	}
	if s.projection == nil {
		s.projection = repository.NewMemoryStore()
	}
	if s.scorer == nil {
		s.scorer = scoring.NewEngine()
	}
	if s.directory == nil {
		s.directory = collab.NewMemoryDirectory()
	}
	if s.catalog == nil {
		s.catalog = collab.NewMemoryCatalog()
	}
	if s.sink == nil {
		s.sink = collab.NewLoggingSink(s.log.Named("sink"))
	}

	dispatchOpts := []dispatch.Option{
		dispatch.WithLogger(s.log.Named("dispatch")),
		dispatch.WithSynchronous(s.synchronousHooks),
	}
	if s.hookWorkerCount > 0 {
		dispatchOpts = append(dispatchOpts, dispatch.WithWorkerCount(s.hookWorkerCount))
	}
	if s.hookQueueSize > 0 {
		dispatchOpts = append(dispatchOpts, dispatch.WithQueueSize(s.hookQueueSize))
	}
	s.dispatcher = dispatch.New(s.sink, dispatchOpts...)
	s.dispatcher.Start(ctx)

	s.manager = lifecycle.NewManager(s.ledger,
		lifecycle.WithEffectHandler(s.dispatcher),
		lifecycle.WithLogger(s.log.Named("lifecycle")),
	)

	if err := s.projection.Rebuild(ctx, s.ledger); err != nil {
		return fmt.Errorf("rebuild projection: %w", err)
	}

	s.started = true
	s.log.Info(ctx, "matching service started",
		logger.Int("matchLimit", s.matchLimit),
		logger.Int("applications", s.projection.CountApplications(ctx)),
	)
	return nil
}

// Stop drains the hook dispatcher.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.dispatcher.Stop()
	s.started = false
	s.log.Info(context.Background(), "matching service stopped")
}

// GenerateMatches scores the catalog's candidates for one volunteer,
// persists the qualifying results as pending suggestions, and returns them
// ranked. A limit <= 0 falls back to the configured default.
func (s *Service) GenerateMatches(ctx context.Context, volunteerID string, limit int) ([]model.MatchSuggestion, error) {
	if volunteerID == "" {
		return nil, fmt.Errorf("%w: volunteer id is required", ErrValidation)
	}
	if limit <= 0 {
		limit = s.matchLimit
	}

	profile, err := s.directory.GetProfile(ctx, volunteerID)
	if err != nil {
		return nil, err
	}
	candidates, err := s.catalog.ListCandidates(ctx, model.CandidateFilter{})
	if err != nil {
		return nil, err
	}

	start := s.clock()
	ranked := ranking.Rank(s.scorer, profile, candidates, limit)
	metrics.RecordScoringDuration(float64(time.Since(start).Milliseconds()))

	suggestions := make([]model.MatchSuggestion, 0, len(ranked))
	for _, r := range ranked {
		sg := model.MatchSuggestion{
			ID:             uuid.NewString(),
			VolunteerID:    volunteerID,
			OpportunityID:  r.Candidate.ID,
			OrganizationID: r.Candidate.OrganizationID,
			Breakdown:      r.Breakdown,
			GeneratedAt:    s.clock(),
			Status:         model.SuggestionPending,
		}
		if err := s.projection.SaveSuggestion(ctx, sg); err != nil {
			return nil, err
		}
		suggestions = append(suggestions, sg)
	}

	metrics.RecordMatchesGenerated(len(suggestions))
	s.log.Debug(ctx, "generated matches",
		logger.String("volunteer", volunteerID),
		logger.Int("candidates", len(candidates)),
		logger.Int("matches", len(suggestions)),
	)
	return suggestions, nil
}

// Apply opens a new application for the volunteer/opportunity pair on the
// expedited path (draft and submitted collapse into the first event) and
// marks any suggestion for the pair as applied.
func (s *Service) Apply(ctx context.Context, volunteerID, opportunityID, coverLetter string) (lifecycle.Application, error) {
	if volunteerID == "" || opportunityID == "" {
		return lifecycle.Application{}, fmt.Errorf("%w: volunteer and opportunity ids are required", ErrValidation)
	}

	app, err := s.manager.Submit(ctx, volunteerID, opportunityID, volunteerID, coverLetter)
	if err != nil {
		return lifecycle.Application{}, err
	}

	if err := s.projection.SaveApplication(ctx, app); err != nil {
		s.log.Error(ctx, "snapshot save failed after commit", logger.String("application", app.ID), logger.Error(err))
	}
	if err := s.projection.MarkSuggestion(ctx, volunteerID, opportunityID, model.SuggestionApplied); err != nil &&
		!errors.Is(err, repository.ErrNotFound) {
		s.log.Error(ctx, "suggestion update failed", logger.String("application", app.ID), logger.Error(err))
	}
	return app, nil
}

// UpdateStatus validates the trigger name and delegates to the lifecycle
// manager. Concurrency conflicts surface unchanged for the caller to
// reload and retry.
func (s *Service) UpdateStatus(ctx context.Context, applicationID, trigger, actor, reason string) (lifecycle.Application, error) {
	if applicationID == "" {
		return lifecycle.Application{}, fmt.Errorf("%w: application id is required", ErrValidation)
	}
	t, err := lifecycle.ParseTrigger(trigger)
	if err != nil {
		return lifecycle.Application{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	app, err := s.manager.Transition(ctx, applicationID, t, actor, reason)
	if err != nil {
		return lifecycle.Application{}, err
	}

	if err := s.projection.SaveApplication(ctx, app); err != nil {
		s.log.Error(ctx, "snapshot save failed after commit", logger.String("application", app.ID), logger.Error(err))
	}
	return app, nil
}

// GetApplication serves the projected snapshot, falling back to a replay
// of the ledger on a cache miss.
func (s *Service) GetApplication(ctx context.Context, applicationID string) (lifecycle.Application, error) {
	if applicationID == "" {
		return lifecycle.Application{}, fmt.Errorf("%w: application id is required", ErrValidation)
	}

	app, err := s.projection.GetApplication(ctx, applicationID)
	if err == nil {
		return app, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return lifecycle.Application{}, err
	}

	stream, err := s.ledger.LoadStream(ctx, applicationID)
	if err != nil {
		return lifecycle.Application{}, err
	}
	app, err = lifecycle.Replay(stream)
	if err != nil {
		return lifecycle.Application{}, err
	}
	if err := s.projection.SaveApplication(ctx, app); err != nil {
		s.log.Error(ctx, "snapshot backfill failed", logger.String("application", app.ID), logger.Error(err))
	}
	return app, nil
}

// ListSuggestions returns a volunteer's persisted suggestions, best first.
func (s *Service) ListSuggestions(ctx context.Context, volunteerID string) ([]model.MatchSuggestion, error) {
	if volunteerID == "" {
		return nil, fmt.Errorf("%w: volunteer id is required", ErrValidation)
	}
	return s.projection.ListSuggestions(ctx, volunteerID)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":    s.started,
		"matchLimit": s.matchLimit,
	}
	if s.started {
		stats["applications"] = s.projection.CountApplications(ctx)
	}
	return stats
}
