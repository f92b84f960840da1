package calibration

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/oracles-wisper/wisper-backend-go/internal/models"
)

// QDepParams are the (a, b) parameters of the humidity-dependence
// correction delta - a*(ln(50000) - ln(q))^b.
type QDepParams struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// LineParams are the slope and offset of an absolute calibration line.
type LineParams struct {
	Slope  float64 `json:"slope"`
	Offset float64 `json:"offset"`
}

// IsoChain is the full calibration chain for one isotope-ratio channel:
// humidity-dependence correction followed by the absolute line.
type IsoChain struct {
	QDep QDepParams `json:"q_dep"`
	Abs  LineParams `json:"abs"`
}

// InstrumentCal holds the calibration curves for one Picarro in one year,
// plus the humidity range the laboratory fits cover. Samples outside
// [QMin, QMax] are flagged invalid rather than extrapolated.
type InstrumentCal struct {
	H2O  LineParams `json:"h2o"`
	DD   IsoChain   `json:"dD"`
	D18O IsoChain   `json:"d18O"`
	QMin float64    `json:"q_min_ppmv"`
	QMax float64    `json:"q_max_ppmv"`
}

// CrossCalPoly is the Pic2-to-Pic1 cross-calibration polynomial for one
// isotope ratio, in ln(q) and delta:
//
//	c0 + c1*lnq + c2*lnq^2 + c3*lnq^3
//	   + d1*delta + d2*delta^2 + d3*delta^3
//	   + x1*(delta*lnq) + x2*(delta*lnq)^2 + x3*(delta*lnq)^3
type CrossCalPoly struct {
	Const float64 `json:"const"`
	LogQ1 float64 `json:"logq1"`
	LogQ2 float64 `json:"logq2"`
	LogQ3 float64 `json:"logq3"`
	D1    float64 `json:"d1"`
	D2    float64 `json:"d2"`
	D3    float64 `json:"d3"`
	X1    float64 `json:"d_logq1"`
	X2    float64 `json:"d_logq2"`
	X3    float64 `json:"d_logq3"`
}

// CrossCal maps Pic2 onto Pic1 for one year: H2O by a slope through the
// origin, isotope ratios by polynomial.
type CrossCal struct {
	H2OSlope float64      `json:"h2o_slope"`
	DD       CrossCalPoly `json:"dD"`
	D18O     CrossCalPoly `json:"d18O"`
}

// Table is a versioned set of calibration fits: per-instrument, per-year
// curves plus per-year cross-calibrations. It is read-only once loaded.
type Table struct {
	Version string `json:"version"`
	// Instruments is keyed by Picarro name, then by year.
	Instruments map[string]map[string]InstrumentCal `json:"instruments"`
	// CrossCals is keyed by year; present only for 2017 and 2018.
	CrossCals map[string]CrossCal `json:"cross_cals"`
}

// Load reads a fits table from a JSON file. A missing or unparseable
// table is a fatal configuration error for any calibration run.
func Load(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read calibration fits %s: %w", path, err)
	}
	var t Table
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("failed to parse calibration fits %s: %w", path, err)
	}
	if t.Version == "" {
		return nil, fmt.Errorf("calibration fits %s: missing version", path)
	}
	return &t, nil
}

// InstrumentCal returns the curves for an instrument and year.
func (t *Table) InstrumentCal(pic models.Picarro, year int) (InstrumentCal, error) {
	byYear, ok := t.Instruments[string(pic)]
	if !ok {
		return InstrumentCal{}, fmt.Errorf("no calibration fits for instrument %s", pic)
	}
	cal, ok := byYear[strconv.Itoa(year)]
	if !ok {
		return InstrumentCal{}, fmt.Errorf("no %d calibration fits for instrument %s", year, pic)
	}
	return cal, nil
}

// CrossCal returns the Pic2-to-Pic1 fits for a year.
func (t *Table) CrossCal(year int) (CrossCal, error) {
	xc, ok := t.CrossCals[strconv.Itoa(year)]
	if !ok {
		return CrossCal{}, fmt.Errorf("no cross-calibration fits for %d", year)
	}
	return xc, nil
}

// Default returns the built-in fits table carrying the published ORACLES
// constants. Mako parameters are from the 2016 laboratory runs and are
// used for Pic1 in all three years; the Gulper d18O offset includes the
// +3.5 permil adjustment derived in the data paper appendix.
func Default() *Table {
	mako := InstrumentCal{
		H2O:  LineParams{Slope: 0.8512, Offset: 0},
		DD:   IsoChain{QDep: QDepParams{A: -0.365, B: 3.031}, Abs: LineParams{Slope: 1.056412, Offset: -5.957469}},
		D18O: IsoChain{QDep: QDepParams{A: -0.00581, B: 4.961}, Abs: LineParams{Slope: 1.051851, Offset: 2.458149}},
		QMin: 150, QMax: 50000,
	}
	// Gulper absolute offsets are tied to the Mako MBL histogram peaks:
	// kD = -75 - mD*(-94), k18O = -11.5 - m18O*(-16.7).
	gulper := InstrumentCal{
		H2O:  LineParams{Slope: 0.9085, Offset: 0},
		DD:   IsoChain{QDep: QDepParams{A: 0.035, B: 4.456}, Abs: LineParams{Slope: 1.094037184, Offset: 27.839495296}},
		D18O: IsoChain{QDep: QDepParams{A: 0.06707, B: 1.889}, Abs: LineParams{Slope: 1.06831472, Offset: 6.340855824}},
		QMin: 150, QMax: 50000,
	}

	xcal2017 := CrossCal{
		H2OSlope: 0.9802,
		DD: CrossCalPoly{
			Const: 4.823, LogQ1: -1.304, LogQ2: 0.1174, LogQ3: -0.003525,
			D1: 1.0331, D2: 1.2e-4, D3: 1.9e-7,
			X1: -4.98e-3, X2: 1.1e-5, X3: -8.1e-9,
		},
		D18O: CrossCalPoly{
			Const: 1.104, LogQ1: -0.3281, LogQ2: 0.03067, LogQ3: -9.47e-4,
			D1: 1.0412, D2: 8.2e-4, D3: 6.1e-6,
			X1: -6.23e-3, X2: 4.3e-5, X3: -1.2e-7,
		},
	}
	xcal2018 := CrossCal{
		H2OSlope: 0.9463,
		DD: CrossCalPoly{
			Const: 5.696, LogQ1: -1.521, LogQ2: 0.1337, LogQ3: -0.003918,
			D1: 1.0218, D2: 9.4e-5, D3: 1.4e-7,
			X1: -3.77e-3, X2: 8.6e-6, X3: -6.5e-9,
		},
		D18O: CrossCalPoly{
			Const: 1.307, LogQ1: -0.3705, LogQ2: 0.03368, LogQ3: -1.012e-3,
			D1: 1.0299, D2: 6.9e-4, D3: 4.8e-6,
			X1: -5.41e-3, X2: 3.6e-5, X3: -9.8e-8,
		},
	}

	return &Table{
		Version: "R2",
		Instruments: map[string]map[string]InstrumentCal{
			string(models.PicarroMako): {
				"2016": mako,
				"2017": mako,
				"2018": mako,
			},
			string(models.PicarroGulper): {
				"2016": gulper,
			},
		},
		CrossCals: map[string]CrossCal{
			"2017": xcal2017,
			"2018": xcal2018,
		},
	}
}
