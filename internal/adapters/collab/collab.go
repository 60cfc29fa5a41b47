// Package collab provides in-process implementations of the external
// collaborator contracts: the volunteer directory, the opportunity catalog,
// and the notification/reward sink. Production deployments swap these for
// clients of the real services; the contracts stay the same.
package collab

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/voluntr/voluntr/internal/domain/model"
)

// MemoryDirectory is a seedable in-memory volunteer directory.
type MemoryDirectory struct {
	mu       sync.RWMutex
	profiles map[string]model.VolunteerProfile
}

// NewMemoryDirectory creates an empty directory.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{profiles: make(map[string]model.VolunteerProfile)}
}

// AddProfile seeds or replaces a volunteer profile.
func (d *MemoryDirectory) AddProfile(p model.VolunteerProfile) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.profiles[p.ID] = p
}

// GetProfile returns the profile for a volunteer id.
func (d *MemoryDirectory) GetProfile(ctx context.Context, volunteerID string) (model.VolunteerProfile, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	p, ok := d.profiles[volunteerID]
	if !ok {
		return model.VolunteerProfile{}, fmt.Errorf("%w: volunteer %s", ErrNotFound, volunteerID)
	}
	return p, nil
}

// MemoryCatalog is a seedable in-memory opportunity catalog.
type MemoryCatalog struct {
	mu         sync.RWMutex
	candidates map[string]model.OpportunityCandidate
}

// NewMemoryCatalog creates an empty catalog.
func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{candidates: make(map[string]model.OpportunityCandidate)}
}

// AddCandidate seeds or replaces an opportunity.
func (c *MemoryCatalog) AddCandidate(o model.OpportunityCandidate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.candidates[o.ID] = o
}

// ListCandidates returns opportunities matching the filter, ordered by id
// for deterministic output. A zero filter returns everything.
func (c *MemoryCatalog) ListCandidates(ctx context.Context, filter model.CandidateFilter) ([]model.OpportunityCandidate, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]model.OpportunityCandidate, 0, len(c.candidates))
	for _, o := range c.candidates {
		if filter.Cause != "" && o.Cause != filter.Cause {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
