package level3

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/oracles-wisper/wisper-backend-go/internal/models"
)

func TestWriteCurtainCSV(t *testing.T) {
	grid := Grid{LatMin: -2, LatMax: 0, LatWidth: 1, AltMin: 0, AltMax: 400, AltWidth: 200}
	cells := []models.CurtainCell{
		{
			Year: 2017, LatIndex: 0, AltIndex: 1, LatCenter: -1.5, AltCenter: 300,
			H2O:  models.BinStat{N: 2, Mean: 9.5, Std: 0.5},
			DD:   models.BinStat{N: 2, Mean: -78, Std: 1},
			D18O: models.BinStat{N: 2, Mean: -11.5, Std: 0.2},
			CWC:  binStat(nil),
		},
	}

	path := filepath.Join(t.TempDir(), "curtain_2017.csv")
	if err := WriteCurtainCSV(path, cells, grid); err != nil {
		t.Fatalf("WriteCurtainCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}

	// Header plus all 2x2 grid cells, populated or not.
	if len(rows) != 5 {
		t.Fatalf("got %d rows, want 5", len(rows))
	}
	if len(rows[0]) != len(curtainHeader) {
		t.Fatalf("header has %d columns, want %d", len(rows[0]), len(curtainHeader))
	}

	// Row order is latitude-major, so (0,1) is the second data row.
	got := rows[2]
	if got[0] != "-1.5" || got[1] != "300" {
		t.Errorf("cell centers = (%s,%s), want (-1.5,300)", got[0], got[1])
	}
	if got[2] != "2" || got[3] != "9.5" {
		t.Errorf("h2o columns = (%s,%s), want (2,9.5)", got[2], got[3])
	}
	// Empty CWC reports a missing flag, not a number.
	if got[12] != "-9999" {
		t.Errorf("cwc mean = %s, want -9999", got[12])
	}

	// An untouched cell is all missing.
	empty := rows[1]
	if empty[2] != "0" || empty[3] != "-9999" {
		t.Errorf("empty cell = (%s,%s), want (0,-9999)", empty[2], empty[3])
	}
}

func TestWriteProfilesCSV(t *testing.T) {
	profiles := []models.Profile{
		{
			FlightDate: "20170813", Index: 0, Direction: models.ProfileAscent,
			StartUTC: 40000, EndUTC: 40600, BottomAlt: 100, TopAlt: 3100,
			GroundDist: 52000,
			Bins: []models.ProfileBin{
				{AltBottom: 100,
					H2O:        models.BinStat{N: 10, Mean: 11.2, Std: 0.1},
					DD:         models.BinStat{N: 10, Mean: -71, Std: 0.4},
					D18O:       models.BinStat{N: 10, Mean: -10.1, Std: 0.05},
					TempK:      models.BinStat{N: 10, Mean: 289, Std: 0.1},
					PressureHP: models.BinStat{N: 10, Mean: 1000, Std: 0.5}},
				{AltBottom: 150,
					H2O:        binStat(nil),
					DD:         binStat(nil),
					D18O:       binStat(nil),
					TempK:      models.BinStat{N: 10, Mean: 288.7, Std: 0.1},
					PressureHP: models.BinStat{N: 10, Mean: 994, Std: 0.5}},
			},
		},
	}

	path := filepath.Join(t.TempDir(), "profiles_20170813.csv")
	if err := WriteProfilesCSV(path, profiles); err != nil {
		t.Fatalf("WriteProfilesCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if rows[1][1] != "ASCENT" {
		t.Errorf("direction = %s, want ASCENT", rows[1][1])
	}
	if rows[1][7] != "100" || rows[2][7] != "150" {
		t.Errorf("bin bottoms = (%s,%s), want (100,150)", rows[1][7], rows[2][7])
	}
	if rows[2][8] != "0" || rows[2][9] != "-9999" {
		t.Errorf("empty vapor bin = (%s,%s), want (0,-9999)", rows[2][8], rows[2][9])
	}
}
