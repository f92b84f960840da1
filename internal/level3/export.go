package level3

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/oracles-wisper/wisper-backend-go/internal/ict"
	"github.com/oracles-wisper/wisper-backend-go/internal/models"
)

// curtainHeader is the column layout of the curtain product file.
var curtainHeader = []string{
	"lat_center", "alt_center",
	"h2o_n", "h2o_mean_gkg", "h2o_std_gkg",
	"dD_n", "dD_mean_permil", "dD_std_permil",
	"d18O_n", "d18O_mean_permil", "d18O_std_permil",
	"cwc_n", "cwc_mean_gm3", "cwc_std_gm3",
}

// WriteCurtainCSV writes one IOP curtain as a rectangular grid, one row
// per (latitude, altitude) cell in latitude-major order. Cells without
// samples get zero counts and -9999 statistics so the grid shape is the
// same for every IOP.
func WriteCurtainCSV(path string, cells []models.CurtainCell, grid Grid) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create curtain file: %w", err)
	}
	defer f.Close()

	byKey := make(map[cellKey]models.CurtainCell, len(cells))
	for _, c := range cells {
		byKey[cellKey{lat: c.LatIndex, alt: c.AltIndex}] = c
	}

	w := csv.NewWriter(f)
	if err := w.Write(curtainHeader); err != nil {
		return fmt.Errorf("write curtain header: %w", err)
	}
	for li := 0; li < grid.LatBins(); li++ {
		for ai := 0; ai < grid.AltBins(); ai++ {
			cell, ok := byKey[cellKey{lat: li, alt: ai}]
			if !ok {
				cell = models.CurtainCell{
					LatIndex: li, AltIndex: ai,
					LatCenter: grid.LatMin + (float64(li)+0.5)*grid.LatWidth,
					AltCenter: grid.AltMin + (float64(ai)+0.5)*grid.AltWidth,
					H2O:       binStat(nil), DD: binStat(nil),
					D18O: binStat(nil), CWC: binStat(nil),
				}
			}
			row := []string{
				formatValue(cell.LatCenter),
				formatValue(cell.AltCenter),
			}
			for _, s := range []models.BinStat{cell.H2O, cell.DD, cell.D18O, cell.CWC} {
				row = append(row,
					strconv.Itoa(s.N), formatValue(s.Mean), formatValue(s.Std))
			}
			if err := w.Write(row); err != nil {
				return fmt.Errorf("write curtain row: %w", err)
			}
		}
	}
	w.Flush()
	return w.Error()
}

// profileHeader is the column layout of the per-flight profiles file.
var profileHeader = []string{
	"profile_index", "direction", "start_utc", "end_utc",
	"bottom_alt_m", "top_alt_m", "ground_dist_m", "alt_bin_bottom_m",
	"h2o_n", "h2o_mean_gkg", "h2o_std_gkg",
	"dD_n", "dD_mean_permil", "dD_std_permil",
	"d18O_n", "d18O_mean_permil", "d18O_std_permil",
	"temp_n", "temp_mean_k", "temp_std_k",
	"press_n", "press_mean_hpa", "press_std_hpa",
}

// WriteProfilesCSV writes all vertical profiles of one flight, one row
// per altitude bin with the parent profile's metadata repeated.
func WriteProfilesCSV(path string, profiles []models.Profile) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create profiles file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(profileHeader); err != nil {
		return fmt.Errorf("write profiles header: %w", err)
	}
	for _, p := range profiles {
		for _, b := range p.Bins {
			row := []string{
				strconv.Itoa(p.Index),
				string(p.Direction),
				formatValue(p.StartUTC),
				formatValue(p.EndUTC),
				formatValue(p.BottomAlt),
				formatValue(p.TopAlt),
				formatValue(p.GroundDist),
				formatValue(b.AltBottom),
			}
			for _, s := range []models.BinStat{b.H2O, b.DD, b.D18O, b.TempK, b.PressureHP} {
				row = append(row,
					strconv.Itoa(s.N), formatValue(s.Mean), formatValue(s.Std))
			}
			if err := w.Write(row); err != nil {
				return fmt.Errorf("write profile row: %w", err)
			}
		}
	}
	w.Flush()
	return w.Error()
}

// formatValue renders a float for the product files, using the ICARTT
// missing flag for NaN.
func formatValue(v float64) string {
	if math.IsNaN(v) {
		return strconv.FormatFloat(ict.MissingFlag, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
