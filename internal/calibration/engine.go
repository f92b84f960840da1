package calibration

import (
	"fmt"
	"math"

	"github.com/oracles-wisper/wisper-backend-go/internal/models"
	"github.com/oracles-wisper/wisper-backend-go/internal/uncertainty"
)

// Engine turns raw samples into calibrated samples. It is a pure
// transformation over its inputs and the fits table: same raw file plus
// same table version always yields the same output.
type Engine struct {
	Table  *Table
	Bounds Bounds
	// Window is the rolling-mean width applied to Pic2 isotope ratios
	// before cross-calibration.
	Window int
}

// NewEngine builds an engine with the default QC bounds and the 10-sample
// smoothing window the cross-cal fits were derived with.
func NewEngine(table *Table) *Engine {
	return &Engine{Table: table, Bounds: DefaultBounds, Window: 10}
}

// CalibrateFlight calibrates one flight's raw series. Raw samples must be
// strictly time-ordered; a missing curve for any channel present on the
// flight is a fatal configuration error. Every raw sample yields exactly
// one calibrated sample (flagged rather than dropped).
func (e *Engine) CalibrateFlight(flight models.Flight, raws []models.RawSample) ([]models.CalSample, error) {
	for i := 1; i < len(raws); i++ {
		if raws[i].StartUTC <= raws[i-1].StartUTC {
			return nil, fmt.Errorf("flight %s: raw samples not time-ordered at index %d (%.1f after %.1f)",
				flight.Date, i, raws[i].StartUTC, raws[i-1].StartUTC)
		}
	}

	switch flight.Year {
	case 2016:
		return e.calibrate2016(flight, raws)
	case 2017, 2018:
		return e.calibrateCrossCal(flight, raws)
	default:
		return nil, fmt.Errorf("flight %s: no calibration defined for year %d", flight.Date, flight.Year)
	}
}

// calibrate2016 handles the single-instrument deployment: humidity
// dependence correction then absolute lines, all on Pic2.
func (e *Engine) calibrate2016(flight models.Flight, raws []models.RawSample) ([]models.CalSample, error) {
	cal, err := e.Table.InstrumentCal(flight.Pic2, flight.Year)
	if err != nil {
		return nil, fmt.Errorf("flight %s: %w", flight.Date, err)
	}

	out := make([]models.CalSample, 0, len(raws))
	for _, raw := range raws {
		dD := IsoCal(raw.DDTot2, raw.H2OTot2, cal.DD)
		d18O := IsoCal(raw.D18OTot2, raw.H2OTot2, cal.D18O)
		q := AbsCal(raw.H2OTot2, cal.H2O)

		qc := e.Bounds.CheckTriplet(q, raw.H2OTot2, dD, d18O, cal.QMin, cal.QMax)

		out = append(out, models.CalSample{
			FlightDate:   flight.Date,
			Year:         flight.Year,
			StartUTC:     raw.StartUTC,
			H2OTot1:      models.Missing(),
			DDTot1:       models.Missing(),
			D18OTot1:     models.Missing(),
			H2OTot2:      q,
			DDTot2:       dD,
			D18OTot2:     d18O,
			H2OCld:       models.Missing(),
			DDCld:        models.Missing(),
			D18OCld:      models.Missing(),
			CVIEnhance:   models.Missing(),
			SigDD:        uncertainty.SigmaDD(q, dD, uncertainty.Averaged),
			SigD18O:      uncertainty.SigmaD18O(q, d18O, uncertainty.Averaged),
			QCTot:        qc.Flag,
			QCCld:        models.QCInvalid, // no CVI channels in 2016
			TableVersion: e.Table.Version,
		})
	}
	return out, nil
}

// calibrateCrossCal handles 2017/2018: the Pic1 chain on the Pic1 vapor
// and CVI cloud channels, and Pic2 cross-calibrated onto Pic1.
func (e *Engine) calibrateCrossCal(flight models.Flight, raws []models.RawSample) ([]models.CalSample, error) {
	pic1, err := e.Table.InstrumentCal(models.PicarroMako, flight.Year)
	if err != nil {
		return nil, fmt.Errorf("flight %s: %w", flight.Date, err)
	}
	xcal, err := e.Table.CrossCal(flight.Year)
	if err != nil {
		return nil, fmt.Errorf("flight %s: %w", flight.Date, err)
	}

	// The cross-cal polynomials were fit against smoothed isotope ratios.
	rawDD2 := make([]float64, len(raws))
	rawD18O2 := make([]float64, len(raws))
	for i, r := range raws {
		rawDD2[i] = r.DDTot2
		rawD18O2[i] = r.D18OTot2
	}
	smDD2 := RollingMean(rawDD2, e.Window)
	smD18O2 := RollingMean(rawD18O2, e.Window)

	out := make([]models.CalSample, 0, len(raws))
	for i, raw := range raws {
		// Pic1 vapor channels.
		q1 := AbsCal(raw.H2OTot1, pic1.H2O)
		dD1 := IsoCal(raw.DDTot1, raw.H2OTot1, pic1.DD)
		d18O1 := IsoCal(raw.D18OTot1, raw.H2OTot1, pic1.D18O)

		// CVI cloud channels are sampled by Pic1.
		qCld := AbsCal(raw.H2OCld, pic1.H2O)
		dDCld := IsoCal(raw.DDCld, raw.H2OCld, pic1.DD)
		d18OCld := IsoCal(raw.D18OCld, raw.H2OCld, pic1.D18O)

		// Pic2 cross-calibrated onto Pic1.
		q2 := xcal.H2OSlope * raw.H2OTot2
		logq2 := math.NaN()
		if raw.H2OTot2 > 0 {
			logq2 = math.Log(raw.H2OTot2)
		}
		dD2 := xcal.DD.Apply(logq2, smDD2[i])
		d18O2 := xcal.D18O.Apply(logq2, smD18O2[i])

		// QC on the fused vapor triplet, Pic1 preferred.
		qF, qRawF := q1, raw.H2OTot1
		if math.IsNaN(qF) {
			qF, qRawF = q2, raw.H2OTot2
		}
		dDF, ratioFromPic2 := dD1, false
		if math.IsNaN(dDF) {
			dDF, ratioFromPic2 = dD2, true
		}
		d18OF := d18O1
		if math.IsNaN(d18OF) {
			d18OF, ratioFromPic2 = d18O2, true
		}

		qc := e.Bounds.CheckTriplet(qF, qRawF, dDF, d18OF, pic1.QMin, pic1.QMax)
		flag := qc.Flag
		if flag == models.QCInvalid && ratioFromPic2 && i < e.Window-1 &&
			!math.IsNaN(qF) && qc.MissingOnly() &&
			!math.IsNaN(raw.DDTot2) && !math.IsNaN(raw.D18OTot2) {
			// Rolling warm-up, not bad data: the humidity checks passed
			// and the only missing value is the smoothed ratio, which the
			// not-yet-full window cannot supply.
			flag = models.QCSuspect
		}

		qcCld := e.Bounds.CheckTriplet(qCld, raw.H2OCld, dDCld, d18OCld, pic1.QMin, pic1.QMax)

		out = append(out, models.CalSample{
			FlightDate:   flight.Date,
			Year:         flight.Year,
			StartUTC:     raw.StartUTC,
			H2OTot1:      q1,
			DDTot1:       dD1,
			D18OTot1:     d18O1,
			H2OTot2:      q2,
			DDTot2:       dD2,
			D18OTot2:     d18O2,
			H2OCld:       qCld,
			DDCld:        dDCld,
			D18OCld:      d18OCld,
			CVIEnhance:   raw.CVIEnhance,
			SigDD:        uncertainty.SigmaDD(qF, dDF, uncertainty.Averaged),
			SigD18O:      uncertainty.SigmaD18O(qF, d18OF, uncertainty.Averaged),
			QCTot:        flag,
			QCCld:        qcCld.Flag,
			TableVersion: e.Table.Version,
		})
	}
	return out, nil
}
