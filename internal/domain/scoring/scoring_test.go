package scoring_test

import (
	"testing"

	geo "github.com/voluntr/voluntr/internal/domain/geo"
	"github.com/voluntr/voluntr/internal/domain/model"
	scoring "github.com/voluntr/voluntr/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func cairoVolunteer() model.VolunteerProfile {
	return model.VolunteerProfile{
		ID:           "vol-1",
		Location:     &geo.Coordinate{Lat: 30.0444, Lng: 31.2357},
		Skills:       []string{"teaching", "administrative"},
		Causes:       []string{"education", "children"},
		Availability: []string{"weekend-morning", "weekend-afternoon"},
		Level:        5,
	}
}

func TestEngineScore(t *testing.T) {
	Convey("Given the scoring engine", t, func() {
		engine := scoring.NewEngine()
		volunteer := cairoVolunteer()

		Convey("When scoring a perfectly matching opportunity", func() {
			opp := model.OpportunityCandidate{
				ID:             "opp-1",
				OrganizationID: "org-1",
				Location:       &geo.Coordinate{Lat: 30.0626, Lng: 31.2497},
				RequiredSkills: []string{"teaching"},
				TimeSlots:      []string{"weekend-morning"},
				Cause:          "education",
				MinLevel:       1,
			}
			b := engine.Score(volunteer, opp)

			Convey("Then every component is at its maximum", func() {
				So(b.Distance, ShouldEqual, 1.0)
				So(b.Skills, ShouldEqual, 1.0)
				So(b.Availability, ShouldEqual, 1.0)
				So(b.Cause, ShouldEqual, 1.0)
				So(b.Level, ShouldEqual, 1.0)
			})

			Convey("And the total is 100", func() {
				So(b.Total, ShouldEqual, 100.0)
			})

			Convey("And one reason is produced per component, in order", func() {
				So(len(b.Reasons), ShouldEqual, 5)
				So(b.Reasons[0], ShouldContainSubstring, "5 km")
				So(b.Reasons[1], ShouldContainSubstring, "skills")
				So(b.Reasons[2], ShouldContainSubstring, "time slots")
				So(b.Reasons[3], ShouldContainSubstring, "causes")
				So(b.Reasons[4], ShouldContainSubstring, "experience level")
			})

			Convey("And scoring is deterministic", func() {
				again := engine.Score(volunteer, opp)
				So(again, ShouldResemble, b)
			})
		})

		Convey("When scoring a poorly matching opportunity", func() {
			opp := model.OpportunityCandidate{
				ID:             "opp-2",
				OrganizationID: "org-2",
				Location:       &geo.Coordinate{Lat: 52.52, Lng: 13.405}, // different country
				RequiredSkills: []string{"technical"},
				MinLevel:       10,
			}
			b := engine.Score(volunteer, opp)

			Convey("Then skills and level are zero", func() {
				So(b.Skills, ShouldEqual, 0.0)
				So(b.Level, ShouldEqual, 0.0)
			})

			Convey("And the total falls below the match threshold", func() {
				So(b.Total, ShouldBeLessThan, 30.0)
			})
		})

		Convey("When the opportunity requires no skills", func() {
			opp := model.OpportunityCandidate{ID: "opp-3", MinLevel: 1}
			b := engine.Score(volunteer, opp)

			Convey("Then the skills component is full and the reason says so", func() {
				So(b.Skills, ShouldEqual, 1.0)
				So(b.Reasons[1], ShouldEqual, "no specific skills required")
			})
		})

		Convey("When time slots are unknown on either side", func() {
			opp := model.OpportunityCandidate{ID: "opp-4", TimeSlots: nil, MinLevel: 1}
			b := engine.Score(volunteer, opp)

			Convey("Then availability is neutral, not penalized", func() {
				So(b.Availability, ShouldEqual, 0.5)
			})

			noSlots := volunteer
			noSlots.Availability = nil
			withSlots := model.OpportunityCandidate{ID: "opp-5", TimeSlots: []string{"weekday-evening"}, MinLevel: 1}
			b2 := engine.Score(noSlots, withSlots)

			Convey("And a slotless volunteer is neutral too", func() {
				So(b2.Availability, ShouldEqual, 0.5)
			})
		})

		Convey("When causes are stated but disjoint", func() {
			opp := model.OpportunityCandidate{ID: "opp-6", Cause: "environment", MinLevel: 1}
			b := engine.Score(volunteer, opp)

			Convey("Then the cause component is softly penalized", func() {
				So(b.Cause, ShouldEqual, 0.3)
			})
		})

		Convey("When the cause is unset", func() {
			opp := model.OpportunityCandidate{ID: "opp-7", MinLevel: 1}
			b := engine.Score(volunteer, opp)

			Convey("Then the cause component is neutral", func() {
				So(b.Cause, ShouldEqual, 0.5)
			})
		})

		Convey("When locations are missing", func() {
			nowhere := volunteer
			nowhere.Location = nil
			opp := model.OpportunityCandidate{ID: "opp-8", MinLevel: 1}
			b := engine.Score(nowhere, opp)

			Convey("Then the distance lands in the far bucket without error", func() {
				So(b.Distance, ShouldEqual, 0.1)
			})
		})

		Convey("When scoring arbitrary inputs", func() {
			opps := []model.OpportunityCandidate{
				{ID: "a", RequiredSkills: []string{"teaching", "technical", "cooking"}, TimeSlots: []string{"weekend-morning", "weekday-evening"}, Cause: "children", MinLevel: 3},
				{ID: "b", Location: &geo.Coordinate{Lat: 30.2, Lng: 31.3}, Cause: "health", MinLevel: 9},
				{ID: "c", RequiredSkills: []string{"administrative"}, MinLevel: 1},
			}

			Convey("Then every component stays within [0,1] and total within [0,100]", func() {
				for _, opp := range opps {
					b := engine.Score(volunteer, opp)
					for _, c := range []float64{b.Distance, b.Skills, b.Availability, b.Cause, b.Level} {
						So(c, ShouldBeBetweenOrEqual, 0.0, 1.0)
					}
					So(b.Total, ShouldBeBetweenOrEqual, 0.0, 100.0)
				}
			})
		})

		Convey("When a single component improves with others held fixed", func() {
			base := model.OpportunityCandidate{
				ID:             "opp-9",
				RequiredSkills: []string{"teaching", "technical"},
				TimeSlots:      []string{"weekend-morning"},
				Cause:          "education",
				MinLevel:       1,
			}
			better := base
			better.RequiredSkills = []string{"teaching"} // full skill coverage

			Convey("Then the total does not decrease", func() {
				So(engine.Score(volunteer, better).Total, ShouldBeGreaterThanOrEqualTo, engine.Score(volunteer, base).Total)
			})
		})
	})
}
