package geo_test

import (
	"testing"

	geo "github.com/voluntr/voluntr/internal/domain/geo"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDistance(t *testing.T) {
	Convey("Given two nearby Cairo coordinates", t, func() {
		downtown := &geo.Coordinate{Lat: 30.0444, Lng: 31.2357}
		zamalek := &geo.Coordinate{Lat: 30.0626, Lng: 31.2497}

		Convey("Then the distance is roughly 2.6 km", func() {
			d := geo.Distance(downtown, zamalek)
			So(d, ShouldBeGreaterThan, 2.0)
			So(d, ShouldBeLessThan, 3.2)
		})

		Convey("And the distance is symmetric", func() {
			So(geo.Distance(downtown, zamalek), ShouldEqual, geo.Distance(zamalek, downtown))
		})

		Convey("And the distance to itself is zero", func() {
			So(geo.Distance(downtown, downtown), ShouldEqual, 0)
		})
	})

	Convey("Given distant coordinates", t, func() {
		cairo := &geo.Coordinate{Lat: 30.0444, Lng: 31.2357}
		berlin := &geo.Coordinate{Lat: 52.52, Lng: 13.405}

		Convey("Then the distance is on a continental scale", func() {
			d := geo.Distance(cairo, berlin)
			So(d, ShouldBeGreaterThan, 2500)
			So(d, ShouldBeLessThan, 3500)
		})
	})

	Convey("Given a missing coordinate", t, func() {
		cairo := &geo.Coordinate{Lat: 30.0444, Lng: 31.2357}

		Convey("Then the far sentinel is returned", func() {
			So(geo.Distance(nil, cairo), ShouldEqual, geo.FarSentinelKM)
			So(geo.Distance(cairo, nil), ShouldEqual, geo.FarSentinelKM)
			So(geo.Distance(nil, nil), ShouldEqual, geo.FarSentinelKM)
		})
	})

	Convey("Given an out-of-range coordinate", t, func() {
		cairo := &geo.Coordinate{Lat: 30.0444, Lng: 31.2357}
		bogus := &geo.Coordinate{Lat: 123.0, Lng: 31.2357}

		Convey("Then the far sentinel is returned", func() {
			So(geo.Distance(bogus, cairo), ShouldEqual, geo.FarSentinelKM)
		})
	})
}

func TestCoordinateValid(t *testing.T) {
	Convey("Given boundary coordinates", t, func() {
		Convey("Then the WGS84 edges are valid", func() {
			So(geo.Coordinate{Lat: 90, Lng: 180}.Valid(), ShouldBeTrue)
			So(geo.Coordinate{Lat: -90, Lng: -180}.Valid(), ShouldBeTrue)
			So(geo.Coordinate{}.Valid(), ShouldBeTrue)
		})

		Convey("Then values past the edges are invalid", func() {
			So(geo.Coordinate{Lat: 90.0001, Lng: 0}.Valid(), ShouldBeFalse)
			So(geo.Coordinate{Lat: 0, Lng: -180.5}.Valid(), ShouldBeFalse)
		})
	})
}
