package ranking_test

import (
	"testing"

	geo "github.com/voluntr/voluntr/internal/domain/geo"
	"github.com/voluntr/voluntr/internal/domain/model"
	ranking "github.com/voluntr/voluntr/internal/domain/ranking"
	scoring "github.com/voluntr/voluntr/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRank(t *testing.T) {
	Convey("Given a volunteer and a mixed candidate pool", t, func() {
		engine := scoring.NewEngine()
		volunteer := model.VolunteerProfile{
			ID:           "vol-1",
			Location:     &geo.Coordinate{Lat: 30.0444, Lng: 31.2357},
			Skills:       []string{"teaching", "administrative"},
			Causes:       []string{"education"},
			Availability: []string{"weekend-morning"},
			Level:        5,
		}
		nearby := &geo.Coordinate{Lat: 30.0626, Lng: 31.2497}
		abroad := &geo.Coordinate{Lat: 52.52, Lng: 13.405}

		strong := model.OpportunityCandidate{
			ID: "opp-strong", OrganizationID: "org-1", Location: nearby,
			RequiredSkills: []string{"teaching"}, TimeSlots: []string{"weekend-morning"},
			Cause: "education", MinLevel: 1,
		}
		decent := model.OpportunityCandidate{
			ID: "opp-decent", OrganizationID: "org-2", Location: nearby,
			RequiredSkills: []string{"teaching", "technical"}, Cause: "education", MinLevel: 1,
		}
		weak := model.OpportunityCandidate{
			ID: "opp-weak", OrganizationID: "org-3", Location: abroad,
			RequiredSkills: []string{"technical"}, MinLevel: 10,
		}

		Convey("When ranking with a generous limit", func() {
			got := ranking.Rank(engine, volunteer, []model.OpportunityCandidate{weak, decent, strong}, 10)

			Convey("Then weak matches are filtered out", func() {
				So(len(got), ShouldEqual, 2)
				for _, r := range got {
					So(r.Breakdown.Total, ShouldBeGreaterThanOrEqualTo, ranking.MinMatchScore)
				}
			})

			Convey("And results are ordered by total descending", func() {
				So(got[0].Candidate.ID, ShouldEqual, "opp-strong")
				So(got[1].Candidate.ID, ShouldEqual, "opp-decent")
				So(got[0].Breakdown.Total, ShouldBeGreaterThanOrEqualTo, got[1].Breakdown.Total)
			})
		})

		Convey("When two candidates score identically", func() {
			twinB := strong
			twinB.ID = "opp-twin-b"
			twinA := strong
			twinA.ID = "opp-twin-a"
			got := ranking.Rank(engine, volunteer, []model.OpportunityCandidate{twinB, twinA}, 10)

			Convey("Then the tie breaks by candidate ID ascending", func() {
				So(len(got), ShouldEqual, 2)
				So(got[0].Candidate.ID, ShouldEqual, "opp-twin-a")
				So(got[1].Candidate.ID, ShouldEqual, "opp-twin-b")
			})
		})

		Convey("When the limit is smaller than the qualifying pool", func() {
			got := ranking.Rank(engine, volunteer, []model.OpportunityCandidate{strong, decent}, 1)

			Convey("Then the output is truncated to the best entries", func() {
				So(len(got), ShouldEqual, 1)
				So(got[0].Candidate.ID, ShouldEqual, "opp-strong")
			})
		})

		Convey("When there are no candidates", func() {
			Convey("Then the result is empty, not an error", func() {
				So(ranking.Rank(engine, volunteer, nil, 5), ShouldBeEmpty)
			})
		})

		Convey("When every candidate is below the threshold", func() {
			got := ranking.Rank(engine, volunteer, []model.OpportunityCandidate{weak}, 5)

			Convey("Then the result is empty", func() {
				So(got, ShouldBeEmpty)
			})
		})

		Convey("When the limit is non-positive", func() {
			Convey("Then the result is empty", func() {
				So(ranking.Rank(engine, volunteer, []model.OpportunityCandidate{strong}, 0), ShouldBeEmpty)
			})
		})
	})
}
