// Package repository holds the read-optimized projections derived from the
// event ledger: the latest Application snapshot per aggregate and the
// MatchSuggestion table. The ledger stays the source of truth; everything
// here must be re-derivable from it.
package repository

import (
	"context"

	"github.com/voluntr/voluntr/internal/adapters/eventstore"
	"github.com/voluntr/voluntr/internal/domain/lifecycle"
	"github.com/voluntr/voluntr/internal/domain/model"
)

// Store provides access to the projected read models.
type Store interface {
	// SaveApplication upserts the latest snapshot for one aggregate.
	SaveApplication(ctx context.Context, app lifecycle.Application) error

	// GetApplication returns the snapshot for an aggregate.
	// Returns ErrNotFound for unknown ids.
	GetApplication(ctx context.Context, applicationID string) (lifecycle.Application, error)

	// CountApplications returns the number of snapshots held.
	CountApplications(ctx context.Context) int

	// SaveSuggestion upserts a suggestion keyed by (volunteer, opportunity).
	// A fresh suggestion refreshes an existing pending or expired row;
	// applied and dismissed rows are left untouched.
	SaveSuggestion(ctx context.Context, s model.MatchSuggestion) error

	// GetSuggestion returns the suggestion for a volunteer/opportunity pair.
	// Returns ErrNotFound when none exists.
	GetSuggestion(ctx context.Context, volunteerID, opportunityID string) (model.MatchSuggestion, error)

	// ListSuggestions returns a volunteer's suggestions ordered by score
	// descending, opportunity id ascending.
	ListSuggestions(ctx context.Context, volunteerID string) ([]model.MatchSuggestion, error)

	// MarkSuggestion sets the status of an existing suggestion.
	// Returns ErrNotFound when the pair has no suggestion.
	MarkSuggestion(ctx context.Context, volunteerID, opportunityID string, status model.SuggestionStatus) error

	// Rebuild rederives every application snapshot from the ledger alone.
	// Idempotent: rebuilding twice yields identical state.
	Rebuild(ctx context.Context, ledger eventstore.Store) error
}
