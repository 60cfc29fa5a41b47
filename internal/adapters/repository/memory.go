package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/voluntr/voluntr/internal/domain/lifecycle"
	"github.com/voluntr/voluntr/internal/domain/model"
	"github.com/voluntr/voluntr/pkg/metrics"
)

// pairKey identifies a suggestion by its volunteer/opportunity pair.
type pairKey struct {
	volunteerID   string
	opportunityID string
}

// MemoryStore implements Store with RWMutex-guarded maps. Snapshots are a
// cache over the ledger, so process-local storage is acceptable even in
// production: Rebuild restores everything after a restart.
type MemoryStore struct {
	mu           sync.RWMutex
	applications map[string]lifecycle.Application
	suggestions  map[pairKey]model.MatchSuggestion
}

// NewMemoryStore creates an empty projection store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		applications: make(map[string]lifecycle.Application),
		suggestions:  make(map[pairKey]model.MatchSuggestion),
	}
}

// SaveApplication upserts the snapshot for one aggregate.
func (s *MemoryStore) SaveApplication(ctx context.Context, app lifecycle.Application) error {
	if app.ID == "" {
		return fmt.Errorf("save application: empty id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.applications[app.ID] = app
	metrics.UpdateApplicationsTotal(len(s.applications))
	return nil
}

// GetApplication returns the snapshot for an aggregate.
func (s *MemoryStore) GetApplication(ctx context.Context, applicationID string) (lifecycle.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	app, ok := s.applications[applicationID]
	if !ok {
		return lifecycle.Application{}, fmt.Errorf("%w: application %s", ErrNotFound, applicationID)
	}
	return app, nil
}

// CountApplications returns the number of snapshots held.
func (s *MemoryStore) CountApplications(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.applications)
}

// SaveSuggestion upserts a suggestion for its volunteer/opportunity pair.
// Pending and expired rows are refreshed in place; applied and dismissed
// rows already reflect a volunteer decision and are kept.
func (s *MemoryStore) SaveSuggestion(ctx context.Context, sg model.MatchSuggestion) error {
	if sg.VolunteerID == "" || sg.OpportunityID == "" {
		return fmt.Errorf("save suggestion: volunteer and opportunity ids are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey{volunteerID: sg.VolunteerID, opportunityID: sg.OpportunityID}
	if existing, ok := s.suggestions[key]; ok {
		if existing.Status == model.SuggestionApplied || existing.Status == model.SuggestionDismissed {
			return nil
		}
	}
	s.suggestions[key] = sg
	metrics.RecordSuggestionPersisted()
	metrics.UpdateSuggestionsTotal(len(s.suggestions))
	return nil
}

// GetSuggestion returns the suggestion for a pair.
func (s *MemoryStore) GetSuggestion(ctx context.Context, volunteerID, opportunityID string) (model.MatchSuggestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sg, ok := s.suggestions[pairKey{volunteerID: volunteerID, opportunityID: opportunityID}]
	if !ok {
		return model.MatchSuggestion{}, fmt.Errorf("%w: suggestion %s/%s", ErrNotFound, volunteerID, opportunityID)
	}
	return sg, nil
}

// ListSuggestions returns a volunteer's suggestions ordered by score
// descending, opportunity id ascending.
func (s *MemoryStore) ListSuggestions(ctx context.Context, volunteerID string) ([]model.MatchSuggestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.MatchSuggestion
	for key, sg := range s.suggestions {
		if key.volunteerID == volunteerID {
			out = append(out, sg)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Breakdown.Total != out[j].Breakdown.Total {
			return out[i].Breakdown.Total > out[j].Breakdown.Total
		}
		return out[i].OpportunityID < out[j].OpportunityID
	})
	return out, nil
}

// MarkSuggestion sets the status of an existing suggestion.
func (s *MemoryStore) MarkSuggestion(ctx context.Context, volunteerID, opportunityID string, status model.SuggestionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey{volunteerID: volunteerID, opportunityID: opportunityID}
	sg, ok := s.suggestions[key]
	if !ok {
		return fmt.Errorf("%w: suggestion %s/%s", ErrNotFound, volunteerID, opportunityID)
	}
	sg.Status = status
	s.suggestions[key] = sg
	return nil
}

// replaceApplications swaps in a freshly rebuilt snapshot set.
func (s *MemoryStore) replaceApplications(apps map[string]lifecycle.Application) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applications = apps
	metrics.UpdateApplicationsTotal(len(s.applications))
}
