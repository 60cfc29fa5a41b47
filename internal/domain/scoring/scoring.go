// Package scoring computes weighted match scores between volunteers and
// opportunities.
package scoring

import (
	"fmt"
	"math"

	"github.com/voluntr/voluntr/internal/domain/geo"
	"github.com/voluntr/voluntr/internal/domain/model"
)

// Component weights. Fixed matching policy; they sum to 1.0.
const (
	weightDistance     = 0.30
	weightSkills       = 0.25
	weightAvailability = 0.20
	weightCause        = 0.15
	weightLevel        = 0.10
)

// Distance buckets in kilometers and their component values.
const (
	distanceNearKM      = 5.0
	distanceShortKM     = 15.0
	distanceCommuteKM   = 30.0
	distanceNearScore   = 1.0
	distanceShortScore  = 0.7
	distanceMediumScore = 0.4
	distanceFarScore    = 0.1
)

// Neutral values used when one side of a comparison is unknown.
const (
	neutralScore       = 0.5
	causeDisjointScore = 0.3
	maxTotal           = 100.0
)

// Fixed explanation strings, one per outcome. Identical inputs must produce
// byte-identical breakdowns, so nothing here depends on map iteration or
// wall-clock state.
const (
	reasonDistanceNear    = "very close by (within 5 km)"
	reasonDistanceShort   = "a short trip away (within 15 km)"
	reasonDistanceCommute = "within commuting range (within 30 km)"
	reasonDistanceFar     = "far from your location (over 30 km)"
	reasonSkillsNone      = "no specific skills required"
	reasonAvailUnknown    = "availability unknown, treated as neutral"
	reasonCauseMatch      = "aligned with your causes"
	reasonCauseDisjoint   = "outside your stated causes"
	reasonCauseUnknown    = "cause preference unknown, treated as neutral"
	reasonLevelMet        = "meets the minimum experience level"
	reasonLevelBelow      = "below the minimum experience level"
)

// Scorer computes a breakdown for a volunteer/opportunity pair.
type Scorer interface {
	// Score is pure and deterministic; it never fails for well-formed input.
	Score(v model.VolunteerProfile, o model.OpportunityCandidate) model.ScoreBreakdown
}

// Engine implements Scorer with the fixed five-factor policy:
// distance 0.30, skills 0.25, availability 0.20, cause 0.15, level 0.10.
type Engine struct{}

// NewEngine creates the scoring engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Score evaluates the five components in fixed order (distance, skills,
// availability, cause, level) and returns the weighted breakdown. The total
// is round(sum*100) clamped to [0,100].
func (e *Engine) Score(v model.VolunteerProfile, o model.OpportunityCandidate) model.ScoreBreakdown {
	var b model.ScoreBreakdown
	b.Reasons = make([]string, 0, 5)

	var reason string
	b.Distance, reason = distanceComponent(v, o)
	b.Reasons = append(b.Reasons, reason)

	b.Skills, reason = skillsComponent(v, o)
	b.Reasons = append(b.Reasons, reason)

	b.Availability, reason = availabilityComponent(v, o)
	b.Reasons = append(b.Reasons, reason)

	b.Cause, reason = causeComponent(v, o)
	b.Reasons = append(b.Reasons, reason)

	b.Level, reason = levelComponent(v, o)
	b.Reasons = append(b.Reasons, reason)

	weighted := b.Distance*weightDistance +
		b.Skills*weightSkills +
		b.Availability*weightAvailability +
		b.Cause*weightCause +
		b.Level*weightLevel

	b.Total = math.Max(0, math.Min(maxTotal, math.Round(weighted*maxTotal)))
	return b
}

// distanceComponent buckets the haversine distance between the two
// locations. Missing locations degrade to the far sentinel, never an error.
func distanceComponent(v model.VolunteerProfile, o model.OpportunityCandidate) (float64, string) {
	d := geo.Distance(v.Location, o.Location)
	switch {
	case d <= distanceNearKM:
		return distanceNearScore, reasonDistanceNear
	case d <= distanceShortKM:
		return distanceShortScore, reasonDistanceShort
	case d <= distanceCommuteKM:
		return distanceMediumScore, reasonDistanceCommute
	default:
		return distanceFarScore, reasonDistanceFar
	}
}

// skillsComponent is the covered fraction of the opportunity's required
// skills. An opportunity without requirements scores full marks.
func skillsComponent(v model.VolunteerProfile, o model.OpportunityCandidate) (float64, string) {
	if len(o.RequiredSkills) == 0 {
		return 1.0, reasonSkillsNone
	}
	matched := countIntersection(v.Skills, o.RequiredSkills)
	score := float64(matched) / float64(len(o.RequiredSkills))
	return score, fmt.Sprintf("matches %d of %d required skills", matched, len(o.RequiredSkills))
}

// availabilityComponent is the covered fraction of the opportunity's offered
// time slots. When either side is empty the overlap is unknown, which is
// scored neutrally rather than penalized.
func availabilityComponent(v model.VolunteerProfile, o model.OpportunityCandidate) (float64, string) {
	if len(v.Availability) == 0 || len(o.TimeSlots) == 0 {
		return neutralScore, reasonAvailUnknown
	}
	matched := countIntersection(v.Availability, o.TimeSlots)
	score := float64(matched) / float64(len(o.TimeSlots))
	return score, fmt.Sprintf("covers %d of %d offered time slots", matched, len(o.TimeSlots))
}

// causeComponent rewards cause alignment, softly penalizes a stated
// mismatch, and stays neutral when either side is unset.
func causeComponent(v model.VolunteerProfile, o model.OpportunityCandidate) (float64, string) {
	if o.Cause == "" || len(v.Causes) == 0 {
		return neutralScore, reasonCauseUnknown
	}
	for _, c := range v.Causes {
		if c == o.Cause {
			return 1.0, reasonCauseMatch
		}
	}
	return causeDisjointScore, reasonCauseDisjoint
}

// levelComponent is a hard gate inside the weighted sum: a level-mismatched
// opportunity loses the full weight but is not filtered outright.
func levelComponent(v model.VolunteerProfile, o model.OpportunityCandidate) (float64, string) {
	if v.Level >= o.MinLevel {
		return 1.0, reasonLevelMet
	}
	return 0.0, reasonLevelBelow
}

// countIntersection counts distinct members of want present in have.
func countIntersection(have, want []string) int {
	set := make(map[string]struct{}, len(have))
	for _, h := range have {
		set[h] = struct{}{}
	}
	matched := 0
	seen := make(map[string]struct{}, len(want))
	for _, w := range want {
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		if _, ok := set[w]; ok {
			matched++
		}
	}
	return matched
}
