// Package uncertainty evaluates the WISPER isotope-ratio uncertainty
// surfaces. The surfaces were fit offline by Monte Carlo propagation of
// the 2016 calibration parameter uncertainties, which are taken as
// representative for all ORACLES years.
package uncertainty

import "math"

// Params are the coefficients of the fitted uncertainty surface
//
//	sigma(q, d) = a0 + a1*lnq + a2*lnq^2 + a3*lnq^3 + a4*lnq^4 + a5*d
//
// with q in ppmv and d the isotope ratio in permil.
type Params [6]float64

// Sigma evaluates the surface. NaN inputs propagate.
func Sigma(q, d float64, p Params) float64 {
	if q <= 0 {
		return math.NaN()
	}
	lq := math.Log(q)
	return p[0] + p[1]*lq + p[2]*lq*lq + p[3]*lq*lq*lq + p[4]*lq*lq*lq*lq + p[5]*d
}

// UseCase selects which parameter-uncertainty combination the surface
// represents.
type UseCase int

const (
	// Relative: 1 Hz measurements compared against each other; no
	// absolute offset term.
	Relative UseCase = 1
	// Averaged: data averaged to 0.1 Hz or lower, or PDF comparisons.
	// This is the default for level-3 products.
	Averaged UseCase = 2
	// Absolute: comparison against other datasets or theoretical values;
	// includes the full absolute-offset uncertainty.
	Absolute UseCase = 3
)

var ddParams = map[UseCase]Params{
	Relative: {93.1, -35.6, 5.37, -0.362, 0.0092, -0.0131},
	Averaged: {92.4, -35.3, 5.33, -0.359, 0.0091, -0.0127},
	Absolute: {95.6, -35.3, 5.33, -0.359, 0.0091, -0.0127},
}

var d18OParams = map[UseCase]Params{
	Relative: {18.9, -7.12, 1.074, -0.0723, 0.00184, -0.0262},
	Averaged: {18.5, -7.06, 1.066, -0.0718, 0.00182, -0.0254},
	Absolute: {19.3, -7.06, 1.066, -0.0718, 0.00182, -0.0254},
}

// SigmaDD returns the dD uncertainty in permil for a humidity q (ppmv)
// and isotope ratio dD (permil).
func SigmaDD(q, dD float64, uc UseCase) float64 {
	return Sigma(q, dD, ddParams[uc])
}

// SigmaD18O returns the d18O uncertainty in permil.
func SigmaD18O(q, d18O float64, uc UseCase) float64 {
	return Sigma(q, d18O, d18OParams[uc])
}
