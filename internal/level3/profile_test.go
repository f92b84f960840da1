package level3

import (
	"math"
	"testing"

	"github.com/oracles-wisper/wisper-backend-go/internal/models"
)

// syntheticFlight builds a 1 Hz track that climbs from 100 m to 3100 m
// at 5 m/s, holds level for five minutes, then descends back down.
func syntheticFlight() []Obs {
	var obs []Obs
	t := 40000.0
	alt := 100.0

	add := func(n int, rate float64) {
		for i := 0; i < n; i++ {
			obs = append(obs, Obs{
				StartUTC: t,
				Lat:      -12 - float64(len(obs))*1e-4,
				Lon:      9,
				AltM:     alt,
				TempK:    290 - alt*0.0065,
				PressHPa: 1013 - alt*0.11,
				H2OGKG:   12 * math.Exp(-alt/2500),
				DD:       -70 - alt*0.005,
				D18O:     -10 - alt*0.001,
				CWC:      math.NaN(),
				QCTot:    models.QCValid,
				QCCld:    models.QCInvalid,
			})
			t++
			alt += rate
		}
	}

	add(600, 5)  // climb 100 -> 3100
	add(300, 0)  // level leg
	add(600, -5) // descent 3100 -> 100
	return obs
}

func TestDetectProfiles(t *testing.T) {
	flight := models.Flight{Date: "20170813", Year: 2017, Pic2: models.PicarroGulper, HasPic1: true, HasCVI: true}
	profiles := DetectProfiles(flight, syntheticFlight(), DefaultProfileParams())

	if len(profiles) != 2 {
		t.Fatalf("got %d profiles, want a climb and a descent", len(profiles))
	}

	climb, descent := profiles[0], profiles[1]
	if climb.Direction != models.ProfileAscent {
		t.Errorf("first profile direction = %s, want ASCENT", climb.Direction)
	}
	if descent.Direction != models.ProfileDescent {
		t.Errorf("second profile direction = %s, want DESCENT", descent.Direction)
	}
	if climb.Index != 0 || descent.Index != 1 {
		t.Errorf("profile indices = (%d,%d), want (0,1)", climb.Index, descent.Index)
	}
	if climb.FlightDate != "20170813" {
		t.Errorf("FlightDate = %q", climb.FlightDate)
	}

	if climb.BottomAlt > 110 || climb.TopAlt < 3090 {
		t.Errorf("climb span = [%v, %v], want roughly [100, 3100]", climb.BottomAlt, climb.TopAlt)
	}
	if climb.EndUTC <= climb.StartUTC {
		t.Errorf("climb time span = [%v, %v]", climb.StartUTC, climb.EndUTC)
	}
	if climb.GroundDist <= 0 {
		t.Errorf("GroundDist = %v, want positive", climb.GroundDist)
	}

	// 100 m to 3100 m in 50 m bins spans bins 2 through 62.
	if len(climb.Bins) != 61 {
		t.Fatalf("climb has %d bins, want 61", len(climb.Bins))
	}
	if climb.Bins[0].AltBottom != 100 {
		t.Errorf("first bin bottom = %v, want 100", climb.Bins[0].AltBottom)
	}
	for _, b := range climb.Bins {
		if b.H2O.N == 0 {
			t.Fatalf("bin at %v m has no vapor samples", b.AltBottom)
		}
		if b.TempK.N == 0 || b.PressureHP.N == 0 {
			t.Fatalf("bin at %v m has no state samples", b.AltBottom)
		}
	}

	// Humidity decreases with altitude in the synthetic sounding.
	lo, hi := climb.Bins[0], climb.Bins[len(climb.Bins)-1]
	if lo.H2O.Mean <= hi.H2O.Mean {
		t.Errorf("H2O means: bottom %v, top %v, want decreasing", lo.H2O.Mean, hi.H2O.Mean)
	}
}

func TestDetectProfilesRejectsShallow(t *testing.T) {
	var obs []Obs
	alt := 500.0
	for i := 0; i < 100; i++ {
		obs = append(obs, Obs{
			StartUTC: float64(50000 + i), Lat: -12, Lon: 9, AltM: alt,
			QCTot: models.QCInvalid, QCCld: models.QCInvalid,
		})
		alt += 3 // only 300 m total
	}
	flight := models.Flight{Date: "20180927", Year: 2018, Pic2: models.PicarroGulper, HasPic1: true, HasCVI: true}
	if got := DetectProfiles(flight, obs, DefaultProfileParams()); len(got) != 0 {
		t.Fatalf("got %d profiles from a 300 m excursion, want none", len(got))
	}
}

func TestDetectProfilesSkipsMissingAltitude(t *testing.T) {
	obs := syntheticFlight()
	for i := 100; i < 120; i++ {
		obs[i].AltM = math.NaN()
	}
	flight := models.Flight{Date: "20170813", Year: 2017, Pic2: models.PicarroGulper, HasPic1: true, HasCVI: true}
	profiles := DetectProfiles(flight, obs, DefaultProfileParams())
	if len(profiles) != 2 {
		t.Fatalf("got %d profiles with a GPS dropout, want 2", len(profiles))
	}
}

func TestDetectProfilesFlaggedSamplesExcludedFromVapor(t *testing.T) {
	obs := syntheticFlight()
	for i := range obs {
		obs[i].QCTot = models.QCSuspect
	}
	flight := models.Flight{Date: "20170813", Year: 2017, Pic2: models.PicarroGulper, HasPic1: true, HasCVI: true}
	profiles := DetectProfiles(flight, obs, DefaultProfileParams())
	if len(profiles) != 2 {
		t.Fatalf("got %d profiles, want 2", len(profiles))
	}
	for _, b := range profiles[0].Bins {
		if b.H2O.N != 0 {
			t.Fatalf("flagged vapor leaked into bin at %v m", b.AltBottom)
		}
		if b.TempK.N == 0 {
			t.Fatalf("state samples missing from bin at %v m", b.AltBottom)
		}
	}
}

func TestMedianAltStep(t *testing.T) {
	got := MedianAltStep(syntheticFlight())
	if math.IsNaN(got) || got < 0 || got > 5 {
		t.Fatalf("MedianAltStep = %v", got)
	}
}
