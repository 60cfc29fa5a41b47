package config_test

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/voluntr/voluntr/internal/config"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with defaults", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.StorePath, convey.ShouldBeEmpty)
			convey.So(cfg.MatchLimit, convey.ShouldEqual, 10)
			convey.So(cfg.HookWorkers, convey.ShouldEqual, 4)
			convey.So(cfg.HookQueueSize, convey.ShouldEqual, 1024)
		})
	})
}
