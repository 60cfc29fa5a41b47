// Package model contains domain records passed between layers.
package model

import (
	"time"

	"github.com/voluntr/voluntr/internal/domain/geo"
)

// VolunteerProfile describes a volunteer as served by the directory
// collaborator. The core treats it as read-only input.
type VolunteerProfile struct {
	ID            string          // volunteer identifier
	Location      *geo.Coordinate // nil when the volunteer has no location on file
	Skills        []string        // skill tags, e.g. "teaching"
	Causes        []string        // cause-interest tags, e.g. "education"
	Availability  []string        // availability-slot tags, e.g. "weekend-morning"
	Level         int             // experience level, >= 1
	MaxDistanceKM float64         // preferred travel radius
}

// OpportunityCandidate describes a volunteering opportunity as served by the
// catalog collaborator. Read-only input for scoring.
type OpportunityCandidate struct {
	ID             string
	OrganizationID string
	Location       *geo.Coordinate // nil when the opportunity is remote/unlocated
	RequiredSkills []string
	TimeSlots      []string // offered time-slot tags
	Cause          string   // single cause tag, empty when unset
	MinLevel       int      // minimum required experience level
}

// ScoreBreakdown is the result of scoring one volunteer against one
// opportunity. Component values are in [0,1]; Total is the weighted sum
// scaled to [0,100] and rounded. Reasons holds one explanation per
// component in fixed evaluation order.
type ScoreBreakdown struct {
	Distance     float64
	Skills       float64
	Availability float64
	Cause        float64
	Level        float64
	Total        float64
	Reasons      []string
}

// CandidateFilter narrows a catalog listing. The zero value matches all.
type CandidateFilter struct {
	Cause string
}

// SuggestionStatus tracks what happened to a generated match.
type SuggestionStatus string

// Suggestion lifecycle values.
const (
	SuggestionPending   SuggestionStatus = "pending"
	SuggestionApplied   SuggestionStatus = "applied"
	SuggestionDismissed SuggestionStatus = "dismissed"
	SuggestionExpired   SuggestionStatus = "expired"
)

// MatchSuggestion is a persisted scoring result offered to a volunteer.
// Immutable once created except for Status.
type MatchSuggestion struct {
	ID             string
	VolunteerID    string
	OpportunityID  string
	OrganizationID string
	Breakdown      ScoreBreakdown
	GeneratedAt    time.Time
	Status         SuggestionStatus
}
