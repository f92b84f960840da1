package models

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

func TestCalSampleMarshalJSON(t *testing.T) {
	s := CalSample{
		FlightDate: "20170815",
		Year:       2017,
		StartUTC:   38000,
		H2OTot1:    9500.5,
		DDTot1:     math.NaN(),
		QCTot:      QCSuspect,
	}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := string(data)

	if !strings.Contains(got, `"h2oTot1":9500.5`) {
		t.Errorf("missing h2oTot1 in %s", got)
	}
	if !strings.Contains(got, `"dDTot1":null`) {
		t.Errorf("NaN reading should marshal as null, got %s", got)
	}
	if !strings.Contains(got, `"qcTot":1`) {
		t.Errorf("missing qcTot in %s", got)
	}
}

func TestBinStatMarshalJSON(t *testing.T) {
	empty, err := json.Marshal(BinStat{N: 0, Mean: math.NaN(), Std: math.NaN()})
	if err != nil {
		t.Fatalf("marshal empty bin: %v", err)
	}
	if string(empty) != `{"n":0,"mean":null,"std":null}` {
		t.Errorf("empty bin = %s", empty)
	}

	full, err := json.Marshal(BinStat{N: 3, Mean: 10, Std: 2})
	if err != nil {
		t.Fatalf("marshal bin: %v", err)
	}
	if string(full) != `{"n":3,"mean":10,"std":2}` {
		t.Errorf("bin = %s", full)
	}
}
