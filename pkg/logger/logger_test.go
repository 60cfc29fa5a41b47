package logger_test

import (
	"context"
	"testing"

	"github.com/voluntr/voluntr/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	Convey("Given an initialized global logger", t, func() {
		So(logger.Init(), ShouldBeNil)
		ctx := context.Background()

		Convey("Then logging at every level does not panic", func() {
			l := logger.Get()
			So(func() {
				l.Debug(ctx, "debug", logger.String("k", "v"))
				l.Info(ctx, "info", logger.Int("n", 1))
				l.Warn(ctx, "warn", logger.Float64("f", 0.5))
				l.Error(ctx, "error", logger.Error(nil))
			}, ShouldNotPanic)
		})

		Convey("Then named sub-loggers are independent", func() {
			a := logger.Named("scoring")
			b := logger.Named("lifecycle")
			So(a, ShouldNotBeNil)
			So(b, ShouldNotBeNil)
			So(func() { a.Info(ctx, "from a") }, ShouldNotPanic)
			So(func() { b.Info(ctx, "from b") }, ShouldNotPanic)
		})

		Convey("Then level parsing accepts known names", func() {
			for _, lvl := range []string{"debug", "info", "warn", "warning", "error", ""} {
				So(logger.SetLevelString(lvl), ShouldBeNil)
			}
		})

		Convey("Then level parsing rejects unknown names", func() {
			So(logger.SetLevelString("verbose"), ShouldNotBeNil)
		})
	})
}
