package calibration

import (
	"fmt"
	"math"

	"github.com/oracles-wisper/wisper-backend-go/internal/models"
)

// Bounds are the physical plausibility limits applied to calibrated
// values. Humidity limits are ppmv, isotope ratios permil.
type Bounds struct {
	H2OMax  float64
	DDMin   float64
	DDMax   float64
	D18OMin float64
	D18OMax float64
}

// DefaultBounds cover the full range of tropospheric water vapor; anything
// outside is an instrument artifact, not atmosphere.
var DefaultBounds = Bounds{
	H2OMax:  50000,
	DDMin:   -1000,
	DDMax:   100,
	D18OMin: -100,
	D18OMax: 50,
}

// reasonMissing marks a NaN in one of the triplet channels.
const reasonMissing = "missing channel value"

// CheckResult reports the QC outcome for one channel group of one sample.
type CheckResult struct {
	Flag    models.QCFlag
	Reasons []string
}

// MissingOnly reports whether the invalid flag came from a missing channel
// value alone, every plausibility check having passed.
func (r CheckResult) MissingOnly() bool {
	return len(r.Reasons) == 1 && r.Reasons[0] == reasonMissing
}

// CheckTriplet flags a (humidity, dD, d18O) triplet. q is the calibrated
// humidity in ppmv; qmin/qmax bound the calibration curve coverage in raw
// ppmv, checked against qRaw.
func (b Bounds) CheckTriplet(q, qRaw, dD, d18O, qmin, qmax float64) CheckResult {
	var reasons []string

	if math.IsNaN(q) || math.IsNaN(dD) || math.IsNaN(d18O) {
		reasons = append(reasons, reasonMissing)
	}
	if q <= 0 {
		reasons = append(reasons, fmt.Sprintf("non-positive humidity %.4g ppmv", q))
	}
	if q > b.H2OMax {
		reasons = append(reasons, fmt.Sprintf("humidity %.4g above %.4g ppmv", q, b.H2OMax))
	}
	if !math.IsNaN(qRaw) && (qRaw < qmin || qRaw > qmax) {
		reasons = append(reasons,
			fmt.Sprintf("raw humidity %.4g outside calibrated range [%.4g, %.4g]", qRaw, qmin, qmax))
	}
	if dD < b.DDMin || dD > b.DDMax {
		reasons = append(reasons, fmt.Sprintf("dD %.4g outside [%.4g, %.4g]", dD, b.DDMin, b.DDMax))
	}
	if d18O < b.D18OMin || d18O > b.D18OMax {
		reasons = append(reasons, fmt.Sprintf("d18O %.4g outside [%.4g, %.4g]", d18O, b.D18OMin, b.D18OMax))
	}

	if len(reasons) > 0 {
		return CheckResult{Flag: models.QCInvalid, Reasons: reasons}
	}
	return CheckResult{Flag: models.QCValid}
}
