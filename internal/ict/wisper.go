package ict

import (
	"fmt"
	"strconv"

	"github.com/oracles-wisper/wisper-backend-go/internal/models"
)

// Column names used across the WISPER file set.
const (
	ColStartUTC = "Start_UTC"

	ColH2OTot1  = "h2o_tot1"
	ColDDTot1   = "dD_tot1"
	ColD18OTot1 = "d18O_tot1"

	ColH2OTot2  = "h2o_tot2"
	ColDDTot2   = "dD_tot2"
	ColD18OTot2 = "d18O_tot2"

	ColH2OCld     = "h2o_cld"
	ColDDCld      = "dD_cld"
	ColD18OCld    = "d18O_cld"
	ColCVIEnhance = "cvi_enhance"

	ColSigDD   = "sig_dD"
	ColSigD18O = "sig_d18O"
	ColQCTot   = "qc_tot"
	ColQCCld   = "qc_cld"
)

// RawSamples maps a time-synced raw table onto raw samples. Columns the
// flight's instrument fit did not record stay missing; columns the flight
// should have but the file lacks are a fatal input error.
func RawSamples(t *Table, flight models.Flight) ([]models.RawSample, error) {
	required := []string{ColStartUTC, ColH2OTot2, ColDDTot2, ColD18OTot2}
	if flight.HasPic1 {
		required = append(required, ColH2OTot1, ColDDTot1, ColD18OTot1)
	}
	if flight.HasCVI {
		required = append(required, ColH2OCld, ColDDCld, ColD18OCld, ColCVIEnhance)
	}
	for _, col := range required {
		if t.ColumnIndex(col) < 0 {
			return nil, fmt.Errorf("flight %s: raw file missing column %q", flight.Date, col)
		}
	}

	get := func(row []float64, col string) float64 {
		idx := t.ColumnIndex(col)
		if idx < 0 {
			return models.Missing()
		}
		return row[idx]
	}

	samples := make([]models.RawSample, 0, len(t.Rows))
	for _, row := range t.Rows {
		samples = append(samples, models.RawSample{
			StartUTC:   get(row, ColStartUTC),
			H2OTot1:    get(row, ColH2OTot1),
			DDTot1:     get(row, ColDDTot1),
			D18OTot1:   get(row, ColD18OTot1),
			H2OTot2:    get(row, ColH2OTot2),
			DDTot2:     get(row, ColDDTot2),
			D18OTot2:   get(row, ColD18OTot2),
			H2OCld:     get(row, ColH2OCld),
			DDCld:      get(row, ColDDCld),
			D18OCld:    get(row, ColD18OCld),
			CVIEnhance: get(row, ColCVIEnhance),
		})
	}
	return samples, nil
}

// CalibratedTable renders calibrated samples into the .ict layout of the
// archived data product, with QC flags carried in extra integer columns.
func CalibratedTable(flight models.Flight, samples []models.CalSample) *Table {
	version := ""
	if len(samples) > 0 {
		version = samples[0].TableVersion
	}
	t := &Table{
		Header: []string{
			"WISPER calibrated 1 Hz data, ORACLES " + strconv.Itoa(flight.Year),
			"Flight date: " + flight.Date,
			"Calibration table version: " + version,
			"Humidity in ppmv, isotope ratios in permil vs VSMOW",
			"QC flags: 0 valid, 1 suspect, 2 invalid; missing: -9999",
		},
		Columns: []string{
			ColStartUTC,
			ColH2OTot1, ColDDTot1, ColD18OTot1,
			ColH2OTot2, ColDDTot2, ColD18OTot2,
			ColH2OCld, ColDDCld, ColD18OCld, ColCVIEnhance,
			ColSigDD, ColSigD18O,
			ColQCTot, ColQCCld,
		},
	}
	for _, s := range samples {
		t.Rows = append(t.Rows, []float64{
			s.StartUTC,
			s.H2OTot1, s.DDTot1, s.D18OTot1,
			s.H2OTot2, s.DDTot2, s.D18OTot2,
			s.H2OCld, s.DDCld, s.D18OCld, s.CVIEnhance,
			s.SigDD, s.SigD18O,
			float64(s.QCTot), float64(s.QCCld),
		})
	}
	return t
}
