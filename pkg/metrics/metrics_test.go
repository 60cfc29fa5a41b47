package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/voluntr/voluntr/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManager(t *testing.T) {
	Convey("Given a manager on a private registry", t, func() {
		registry := prometheus.NewRegistry()
		m := metrics.NewManager(
			metrics.WithNamespace("voluntr_test"),
			metrics.WithSubsystem("matching"),
			metrics.WithRegistry(registry),
		)

		Convey("Then collectors are registered", func() {
			So(m, ShouldNotBeNil)
			families, err := registry.Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})
	})

	Convey("Given the global helpers", t, func() {
		Convey("Then recording through them does not panic", func() {
			So(func() {
				metrics.RecordMatchesGenerated(3)
				metrics.RecordSuggestionPersisted()
				metrics.RecordScoringDuration(1.5)
				metrics.RecordEventAppended()
				metrics.RecordAppendConflict()
				metrics.RecordTransition("submit")
				metrics.RecordProjectionRebuild(4.2)
				metrics.RecordHookDispatched("notify-volunteer")
				metrics.RecordHookFailure("award-points")
				metrics.RecordHookDropped()
				metrics.UpdateApplicationsTotal(2)
				metrics.UpdateSuggestionsTotal(5)
				metrics.UpdateHookQueueSize(1)
				metrics.UpdateHookQueueCapacity(100)
				metrics.UpdateHookQueueUtilization(0.01)
				metrics.UpdateHookWorkerCount(4)
			}, ShouldNotPanic)
		})

		Convey("Then the custom registry is exposed", func() {
			So(metrics.GetRegistry(), ShouldNotBeNil)
		})
	})
}
