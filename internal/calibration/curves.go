package calibration

import "math"

// logQRef is ln(50000 ppmv), the humidity at which the dependence
// correction vanishes.
var logQRef = math.Log(50000)

// QDepCorrect applies the humidity-dependence correction to an isotope
// ratio: delta - a*(ln(50000) - ln(q))^b. q is the raw humidity in ppmv.
// NaN inputs propagate.
func QDepCorrect(delta, q float64, p QDepParams) float64 {
	if q <= 0 {
		return math.NaN()
	}
	return delta - p.A*math.Pow(logQRef-math.Log(q), p.B)
}

// AbsCal applies an absolute calibration line m*x + k.
func AbsCal(x float64, p LineParams) float64 {
	return p.Slope*x + p.Offset
}

// Apply evaluates the cross-calibration polynomial at (ln q, delta).
func (p CrossCalPoly) Apply(logq, delta float64) float64 {
	dlq := delta * logq
	return p.Const +
		p.LogQ1*logq + p.LogQ2*logq*logq + p.LogQ3*logq*logq*logq +
		p.D1*delta + p.D2*delta*delta + p.D3*delta*delta*delta +
		p.X1*dlq + p.X2*dlq*dlq + p.X3*dlq*dlq*dlq
}

// IsoCal runs the full chain for one isotope ratio: humidity-dependence
// correction on the raw humidity, then the absolute line.
func IsoCal(delta, q float64, chain IsoChain) float64 {
	return AbsCal(QDepCorrect(delta, q, chain.QDep), chain.Abs)
}
