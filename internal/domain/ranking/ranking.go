// Package ranking filters and orders scored opportunities for a volunteer.
package ranking

import (
	"sort"

	"github.com/voluntr/voluntr/internal/domain/model"
	"github.com/voluntr/voluntr/internal/domain/scoring"
)

// MinMatchScore is the minimum total a candidate needs to surface at all.
// Fixed matching policy.
const MinMatchScore = 30.0

// RankedCandidate pairs a candidate with its score breakdown.
type RankedCandidate struct {
	Candidate model.OpportunityCandidate
	Breakdown model.ScoreBreakdown
}

// Rank scores every candidate, drops those below MinMatchScore, orders the
// rest by total descending with candidate ID ascending as the tiebreak, and
// truncates to limit. An empty candidate list, a non-positive limit, or a
// board full of weak matches all yield an empty result, never an error.
func Rank(s scoring.Scorer, v model.VolunteerProfile, candidates []model.OpportunityCandidate, limit int) []RankedCandidate {
	if limit <= 0 || len(candidates) == 0 {
		return nil
	}

	ranked := make([]RankedCandidate, 0, len(candidates))
	for _, c := range candidates {
		b := s.Score(v, c)
		if b.Total < MinMatchScore {
			continue
		}
		ranked = append(ranked, RankedCandidate{Candidate: c, Breakdown: b})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Breakdown.Total != ranked[j].Breakdown.Total {
			return ranked[i].Breakdown.Total > ranked[j].Breakdown.Total
		}
		return ranked[i].Candidate.ID < ranked[j].Candidate.ID
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
