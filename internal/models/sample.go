package models

import "math"

// QCFlag marks the reliability of a calibrated sample. Flagged samples stay
// in the 1 Hz product but only QCValid samples enter level-3 aggregation.
type QCFlag int

const (
	QCValid   QCFlag = 0
	QCSuspect QCFlag = 1
	QCInvalid QCFlag = 2
)

// String returns the flag label used in API responses.
func (f QCFlag) String() string {
	switch f {
	case QCValid:
		return "VALID"
	case QCSuspect:
		return "SUSPECT"
	default:
		return "INVALID"
	}
}

// RawSample is one 1 Hz row of a time-synced WISPER file. Values are NaN
// where the file carried the -9999 missing flag. Pic1 columns are NaN for
// the whole 2016 deployment (only Pic2 flew); the CVI cloud columns are NaN
// outside 2017/2018.
type RawSample struct {
	StartUTC float64 // seconds from 00:00 UTC of the flight date

	H2OTot1  float64 // ppmv
	DDTot1   float64 // permil
	D18OTot1 float64 // permil

	H2OTot2  float64
	DDTot2   float64
	D18OTot2 float64

	H2OCld     float64
	DDCld      float64
	D18OCld    float64
	CVIEnhance float64
}

// CalSample is a calibrated 1 Hz sample. Each CalSample traces to exactly
// one RawSample and one calibration table version.
type CalSample struct {
	ID         int64   `json:"id" db:"id"`
	FlightDate string  `json:"flightDate" db:"flight_date"` // yyyymmdd
	Year       int     `json:"year" db:"year"`
	StartUTC   float64 `json:"startUTC" db:"start_utc"`

	H2OTot1  float64 `json:"h2oTot1" db:"h2o_tot1"`
	DDTot1   float64 `json:"dDTot1" db:"dD_tot1"`
	D18OTot1 float64 `json:"d18OTot1" db:"d18O_tot1"`

	H2OTot2  float64 `json:"h2oTot2" db:"h2o_tot2"`
	DDTot2   float64 `json:"dDTot2" db:"dD_tot2"`
	D18OTot2 float64 `json:"d18OTot2" db:"d18O_tot2"`

	H2OCld     float64 `json:"h2oCld" db:"h2o_cld"`
	DDCld      float64 `json:"dDCld" db:"dD_cld"`
	D18OCld    float64 `json:"d18OCld" db:"d18O_cld"`
	CVIEnhance float64 `json:"cviEnhance" db:"cvi_enhance"`

	SigDD   float64 `json:"sigDD" db:"sig_dD"`
	SigD18O float64 `json:"sigD18O" db:"sig_d18O"`

	QCTot QCFlag `json:"qcTot" db:"qc_tot"`
	QCCld QCFlag `json:"qcCld" db:"qc_cld"`

	TableVersion string `json:"tableVersion" db:"table_version"`
}

// IsMissing reports whether v carries the missing-value flag (NaN in
// memory, -9999 on disk).
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// Missing is the in-memory missing value.
func Missing() float64 {
	return math.NaN()
}
