// Package spatial provides the small amount of geolocation math the
// level-3 products need.
package spatial

import (
	"math"

	"github.com/golang/geo/s2"
)

// EarthRadiusMeters is the mean Earth radius used by the s2 library.
const EarthRadiusMeters = 6371010.0

// Distance returns the great-circle distance between two points in meters.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// TrackDistance sums the great-circle distance along an ordered sequence
// of (lat, lon) fixes, skipping NaN fixes.
func TrackDistance(lats, lons []float64) float64 {
	total := 0.0
	havePrev := false
	var prevLat, prevLon float64
	for i := range lats {
		if math.IsNaN(lats[i]) || math.IsNaN(lons[i]) {
			continue
		}
		if havePrev {
			total += Distance(prevLat, prevLon, lats[i], lons[i])
		}
		prevLat, prevLon = lats[i], lons[i]
		havePrev = true
	}
	return total
}

// BandIndex maps a coordinate to a fixed-width band index relative to an
// origin. Returns -1 for NaN.
func BandIndex(v, origin, width float64) int {
	if math.IsNaN(v) || width <= 0 {
		return -1
	}
	return int(math.Floor((v - origin) / width))
}
