package uncertainty

import (
	"math"
	"testing"
)

func TestSigmaDDTypicalValues(t *testing.T) {
	// Representative regimes from the ORACLES sampling domain.
	tests := []struct {
		name string
		q    float64
		dD   float64
	}{
		{"marine boundary layer", 15000, -70},
		{"biomass-burning plume", 6000, -100},
		{"clean free troposphere", 3000, -150},
		{"very dry free troposphere", 1700, -250},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := SigmaDD(tt.q, tt.dD, Averaged)
			if math.IsNaN(sig) || sig <= 0 || sig > 25 {
				t.Errorf("SigmaDD(%v, %v) = %v, want positive and bounded", tt.q, tt.dD, sig)
			}
		})
	}
}

func TestSigmaGrowsWhenDry(t *testing.T) {
	wet := SigmaDD(15000, -70, Averaged)
	dry := SigmaDD(1700, -70, Averaged)
	if dry <= wet {
		t.Errorf("expected larger uncertainty when dry: wet=%v dry=%v", wet, dry)
	}
}

func TestAbsoluteCaseLargerThanAveraged(t *testing.T) {
	avg := SigmaD18O(6000, -14, Averaged)
	abs := SigmaD18O(6000, -14, Absolute)
	if abs <= avg {
		t.Errorf("absolute-case sigma %v should exceed averaged-case %v", abs, avg)
	}
}

func TestSigmaInvalidHumidity(t *testing.T) {
	if !math.IsNaN(SigmaDD(0, -70, Averaged)) {
		t.Error("expected NaN for non-positive humidity")
	}
	if !math.IsNaN(SigmaDD(math.NaN(), -70, Averaged)) {
		t.Error("expected NaN for NaN humidity")
	}
}

func TestSigmaDeterministic(t *testing.T) {
	a := SigmaD18O(9000, -12, Relative)
	b := SigmaD18O(9000, -12, Relative)
	if a != b {
		t.Errorf("sigma not deterministic: %v != %v", a, b)
	}
}
