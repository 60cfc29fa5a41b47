// Package geo provides great-circle distance math for match scoring.
package geo

import "math"

// Constants for distance computation.
const (
	// EarthRadiusKM is the mean Earth radius used by the haversine formula.
	EarthRadiusKM = 6371.0

	// FarSentinelKM is returned when either coordinate is missing or
	// malformed. Callers treat the pair as "far apart" instead of failing.
	FarSentinelKM = 999.0
)

// Coordinate is a WGS84 latitude/longitude pair.
type Coordinate struct {
	Lat float64
	Lng float64
}

// Valid reports whether the coordinate lies inside the WGS84 ranges.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Distance returns the great-circle distance in kilometers between a and b
// using the haversine formula. A nil or out-of-range coordinate yields
// FarSentinelKM; the function never fails for well-formed input.
func Distance(a, b *Coordinate) float64 {
	if a == nil || b == nil || !a.Valid() || !b.Valid() {
		return FarSentinelKM
	}

	latA := toRadians(a.Lat)
	latB := toRadians(b.Lat)
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)
	h := sinLat*sinLat + math.Cos(latA)*math.Cos(latB)*sinLng*sinLng

	return 2 * EarthRadiusKM * math.Asin(math.Sqrt(h))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
