// Package level3 builds the aggregated WISPER data products: IOP
// latitude-altitude curtains and per-flight 50 m vertical profiles.
package level3

import (
	"fmt"
	"math"

	"github.com/oracles-wisper/wisper-backend-go/internal/ict"
	"github.com/oracles-wisper/wisper-backend-go/internal/models"
	"github.com/oracles-wisper/wisper-backend-go/internal/units"
)

// Merge-file column names (P-3 navigation and state merge).
const (
	ColLatitude   = "Latitude"
	ColLongitude  = "Longitude"
	ColAltitude   = "GPS_Altitude"
	ColStaticTemp = "Static_Air_Temp"
	ColStaticPres = "Static_Pressure"
)

// StatePoint is one row of aircraft state from the merge file.
type StatePoint struct {
	StartUTC float64
	Lat      float64
	Lon      float64
	AltM     float64 // meters ASL
	TempK    float64
	PressHPa float64
}

// StatePoints extracts aircraft state from a merge table, converting
// static temperature from Celsius to Kelvin.
func StatePoints(t *ict.Table) ([]StatePoint, error) {
	for _, col := range []string{ict.ColStartUTC, ColLatitude, ColLongitude, ColAltitude, ColStaticTemp, ColStaticPres} {
		if t.ColumnIndex(col) < 0 {
			return nil, fmt.Errorf("merge file missing column %q", col)
		}
	}
	iTime := t.ColumnIndex(ict.ColStartUTC)
	iLat := t.ColumnIndex(ColLatitude)
	iLon := t.ColumnIndex(ColLongitude)
	iAlt := t.ColumnIndex(ColAltitude)
	iTemp := t.ColumnIndex(ColStaticTemp)
	iPres := t.ColumnIndex(ColStaticPres)

	points := make([]StatePoint, 0, len(t.Rows))
	for _, row := range t.Rows {
		points = append(points, StatePoint{
			StartUTC: row[iTime],
			Lat:      row[iLat],
			Lon:      row[iLon],
			AltM:     row[iAlt],
			TempK:    units.CToK(row[iTemp]),
			PressHPa: row[iPres],
		})
	}
	return points, nil
}

// Obs is a calibrated sample joined with aircraft state and converted to
// the level-3 physical units: a single fused vapor series (Pic1 preferred,
// Pic2 where Pic1 is missing) in g/kg and permil, and CVI cloud water
// content in g/m3.
type Obs struct {
	FlightDate string
	Year       int
	StartUTC   float64

	Lat      float64
	Lon      float64
	AltM     float64
	TempK    float64
	PressHPa float64

	H2OGKG float64
	DD     float64
	D18O   float64

	CWC     float64
	DDCld   float64
	D18OCld float64

	QCTot models.QCFlag
	QCCld models.QCFlag
}

// Merge inner-joins calibrated samples with aircraft state on Start_UTC.
// Samples without a matching state row are dropped, as are state rows
// without a sample.
func Merge(flight models.Flight, samples []models.CalSample, state []StatePoint) []Obs {
	byTime := make(map[float64]StatePoint, len(state))
	for _, sp := range state {
		byTime[sp.StartUTC] = sp
	}

	var out []Obs
	for _, s := range samples {
		sp, ok := byTime[s.StartUTC]
		if !ok {
			continue
		}

		q := s.H2OTot1
		if math.IsNaN(q) {
			q = s.H2OTot2
		}
		dD := s.DDTot1
		if math.IsNaN(dD) {
			dD = s.DDTot2
		}
		d18O := s.D18OTot1
		if math.IsNaN(d18O) {
			d18O = s.D18OTot2
		}

		obs := Obs{
			FlightDate: s.FlightDate,
			Year:       s.Year,
			StartUTC:   s.StartUTC,
			Lat:        sp.Lat,
			Lon:        sp.Lon,
			AltM:       sp.AltM,
			TempK:      sp.TempK,
			PressHPa:   sp.PressHPa,
			H2OGKG:     units.PPMVToGKG(q),
			DD:         dD,
			D18O:       d18O,
			CWC:        models.Missing(),
			DDCld:      s.DDCld,
			D18OCld:    s.D18OCld,
			QCTot:      s.QCTot,
			QCCld:      s.QCCld,
		}

		if flight.HasCVI && !math.IsNaN(s.H2OCld) {
			obs.CWC = units.CVICloudWater(
				units.PPMVToGKG(s.H2OCld), sp.TempK, sp.PressHPa*100, s.CVIEnhance)
		}

		out = append(out, obs)
	}
	return out
}
