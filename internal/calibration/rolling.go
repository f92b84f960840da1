package calibration

import "math"

// RollingMean returns the trailing mean over a fixed window. The first
// window-1 positions are NaN (no full window yet), and any NaN inside the
// window makes the output NaN, matching the smoothing the cross-cal fits
// were derived with.
func RollingMean(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	for i := range values {
		if i < window-1 {
			out[i] = math.NaN()
			continue
		}
		sum := 0.0
		ok := true
		for j := i - window + 1; j <= i; j++ {
			if math.IsNaN(values[j]) {
				ok = false
				break
			}
			sum += values[j]
		}
		if !ok {
			out[i] = math.NaN()
		} else {
			out[i] = sum / float64(window)
		}
	}
	return out
}
