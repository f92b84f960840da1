package models

import (
	"encoding/json"
	"math"
)

// NaN is not representable in JSON, so missing readings are rendered as
// null in API responses.

func jsonFloat(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

// MarshalJSON renders missing readings as null.
func (s CalSample) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID         int64    `json:"id"`
		FlightDate string   `json:"flightDate"`
		Year       int      `json:"year"`
		StartUTC   float64  `json:"startUTC"`
		H2OTot1    *float64 `json:"h2oTot1"`
		DDTot1     *float64 `json:"dDTot1"`
		D18OTot1   *float64 `json:"d18OTot1"`
		H2OTot2    *float64 `json:"h2oTot2"`
		DDTot2     *float64 `json:"dDTot2"`
		D18OTot2   *float64 `json:"d18OTot2"`
		H2OCld     *float64 `json:"h2oCld"`
		DDCld      *float64 `json:"dDCld"`
		D18OCld    *float64 `json:"d18OCld"`
		CVIEnhance *float64 `json:"cviEnhance"`
		SigDD      *float64 `json:"sigDD"`
		SigD18O    *float64 `json:"sigD18O"`
		QCTot      QCFlag   `json:"qcTot"`
		QCCld      QCFlag   `json:"qcCld"`
		Version    string   `json:"tableVersion"`
	}{
		ID:         s.ID,
		FlightDate: s.FlightDate,
		Year:       s.Year,
		StartUTC:   s.StartUTC,
		H2OTot1:    jsonFloat(s.H2OTot1),
		DDTot1:     jsonFloat(s.DDTot1),
		D18OTot1:   jsonFloat(s.D18OTot1),
		H2OTot2:    jsonFloat(s.H2OTot2),
		DDTot2:     jsonFloat(s.DDTot2),
		D18OTot2:   jsonFloat(s.D18OTot2),
		H2OCld:     jsonFloat(s.H2OCld),
		DDCld:      jsonFloat(s.DDCld),
		D18OCld:    jsonFloat(s.D18OCld),
		CVIEnhance: jsonFloat(s.CVIEnhance),
		SigDD:      jsonFloat(s.SigDD),
		SigD18O:    jsonFloat(s.SigD18O),
		QCTot:      s.QCTot,
		QCCld:      s.QCCld,
		Version:    s.TableVersion,
	})
}

// MarshalJSON renders the statistics of an empty bin as null.
func (s BinStat) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		N    int      `json:"n"`
		Mean *float64 `json:"mean"`
		Std  *float64 `json:"std"`
	}{
		N:    s.N,
		Mean: jsonFloat(s.Mean),
		Std:  jsonFloat(s.Std),
	})
}
