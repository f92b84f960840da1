package spatial

import (
	"math"
	"testing"
)

func TestDistanceOneDegreeLatitude(t *testing.T) {
	// One degree of latitude is about 111.2 km.
	d := Distance(-20, 5, -21, 5)
	if math.Abs(d-111200) > 500 {
		t.Errorf("Distance = %v, want ~111200", d)
	}
}

func TestDistanceZero(t *testing.T) {
	if d := Distance(-20, 5, -20, 5); d != 0 {
		t.Errorf("Distance of identical points = %v, want 0", d)
	}
}

func TestTrackDistanceSkipsMissingFixes(t *testing.T) {
	lats := []float64{-20, math.NaN(), -21}
	lons := []float64{5, math.NaN(), 5}
	d := TrackDistance(lats, lons)
	want := Distance(-20, 5, -21, 5)
	if math.Abs(d-want) > 1e-6 {
		t.Errorf("TrackDistance = %v, want %v", d, want)
	}
}

func TestBandIndex(t *testing.T) {
	tests := []struct {
		v, origin, width float64
		want             int
	}{
		{-19.5, -24, 1, 4},
		{-24, -24, 1, 0},
		{125, 0, 50, 2},
		{0, 0, 50, 0},
		{math.NaN(), 0, 50, -1},
	}
	for _, tt := range tests {
		if got := BandIndex(tt.v, tt.origin, tt.width); got != tt.want {
			t.Errorf("BandIndex(%v, %v, %v) = %d, want %d", tt.v, tt.origin, tt.width, got, tt.want)
		}
	}
}
