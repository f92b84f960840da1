package calibration

import (
	"math"
	"testing"
)

func TestRollingMeanTable(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name   string
		values []float64
		window int
		want   []float64
	}{
		{
			name:   "warm-up positions are NaN",
			values: []float64{1, 2, 3, 4, 5},
			window: 3,
			want:   []float64{nan, nan, 2, 3, 4},
		},
		{
			name:   "NaN poisons every window containing it",
			values: []float64{1, 2, nan, 4, 5, 6},
			window: 3,
			want:   []float64{nan, nan, nan, nan, nan, 5},
		},
		{
			name:   "window of one copies the input",
			values: []float64{1, nan, 3},
			window: 1,
			want:   []float64{1, nan, 3},
		},
		{
			name:   "window longer than the series",
			values: []float64{1, 2},
			window: 3,
			want:   []float64{nan, nan},
		},
		{
			name:   "empty input",
			values: nil,
			window: 3,
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RollingMean(tt.values, tt.window)
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				switch {
				case math.IsNaN(tt.want[i]) != math.IsNaN(got[i]):
					t.Errorf("index %d = %v, want %v", i, got[i], tt.want[i])
				case !math.IsNaN(tt.want[i]) && math.Abs(got[i]-tt.want[i]) > tol:
					t.Errorf("index %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
