package level3

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/oracles-wisper/wisper-backend-go/internal/models"
	"github.com/oracles-wisper/wisper-backend-go/internal/spatial"
)

// Grid configures the latitude-altitude curtain binning.
type Grid struct {
	LatMin   float64
	LatMax   float64
	LatWidth float64
	AltMin   float64
	AltMax   float64
	AltWidth float64
}

// DefaultGrid covers the ORACLES study region off the southern African
// coast: 1 degree latitude by 200 m altitude cells.
func DefaultGrid() Grid {
	return Grid{
		LatMin:   -24,
		LatMax:   0,
		LatWidth: 1,
		AltMin:   0,
		AltMax:   7000,
		AltWidth: 200,
	}
}

// LatBins returns the number of latitude bins in the grid.
func (g Grid) LatBins() int {
	return int(math.Ceil((g.LatMax - g.LatMin) / g.LatWidth))
}

// AltBins returns the number of altitude bins in the grid.
func (g Grid) AltBins() int {
	return int(math.Ceil((g.AltMax - g.AltMin) / g.AltWidth))
}

type cellKey struct {
	lat int
	alt int
}

type cellAccum struct {
	h2o  []float64
	dd   []float64
	d18o []float64
	cwc  []float64
}

// BuildCurtain aggregates observations from all flights of one IOP into
// latitude-altitude cells. Only QC-valid vapor samples contribute to the
// vapor statistics, and only QC-valid cloud samples to the cloud water
// statistics. Cells that never receive a sample are omitted.
func BuildCurtain(year int, obs []Obs, grid Grid) []models.CurtainCell {
	cells := make(map[cellKey]*cellAccum)

	for _, o := range obs {
		li := spatial.BandIndex(o.Lat, grid.LatMin, grid.LatWidth)
		ai := spatial.BandIndex(o.AltM, grid.AltMin, grid.AltWidth)
		if li < 0 || li >= grid.LatBins() || ai < 0 || ai >= grid.AltBins() {
			continue
		}
		key := cellKey{lat: li, alt: ai}

		vaporOK := o.QCTot == models.QCValid && !math.IsNaN(o.H2OGKG)
		cloudOK := o.QCCld == models.QCValid && !math.IsNaN(o.CWC)
		if !vaporOK && !cloudOK {
			continue
		}

		acc := cells[key]
		if acc == nil {
			acc = &cellAccum{}
			cells[key] = acc
		}
		if vaporOK {
			acc.h2o = append(acc.h2o, o.H2OGKG)
			if !math.IsNaN(o.DD) {
				acc.dd = append(acc.dd, o.DD)
			}
			if !math.IsNaN(o.D18O) {
				acc.d18o = append(acc.d18o, o.D18O)
			}
		}
		if cloudOK {
			acc.cwc = append(acc.cwc, o.CWC)
		}
	}

	out := make([]models.CurtainCell, 0, len(cells))
	for key, acc := range cells {
		out = append(out, models.CurtainCell{
			Year:      year,
			LatIndex:  key.lat,
			AltIndex:  key.alt,
			LatCenter: grid.LatMin + (float64(key.lat)+0.5)*grid.LatWidth,
			AltCenter: grid.AltMin + (float64(key.alt)+0.5)*grid.AltWidth,
			H2O:       binStat(acc.h2o),
			DD:        binStat(acc.dd),
			D18O:      binStat(acc.d18o),
			CWC:       binStat(acc.cwc),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].LatIndex != out[j].LatIndex {
			return out[i].LatIndex < out[j].LatIndex
		}
		return out[i].AltIndex < out[j].AltIndex
	})
	return out
}

// binStat summarizes one cell variable. The standard deviation is the
// sample deviation and is undefined for fewer than two values.
func binStat(vals []float64) models.BinStat {
	if len(vals) == 0 {
		return models.BinStat{N: 0, Mean: models.Missing(), Std: models.Missing()}
	}
	mean, _ := stats.Mean(vals)
	std := models.Missing()
	if len(vals) >= 2 {
		std, _ = stats.StandardDeviationSample(vals)
	}
	return models.BinStat{N: len(vals), Mean: mean, Std: std}
}
