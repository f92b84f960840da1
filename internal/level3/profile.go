package level3

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/oracles-wisper/wisper-backend-go/internal/models"
	"github.com/oracles-wisper/wisper-backend-go/internal/spatial"
)

// ProfileParams controls climb/descent detection and vertical binning.
type ProfileParams struct {
	// PlateauThreshold is the per-sample altitude change, in meters,
	// below which the aircraft is treated as flying level.
	PlateauThreshold float64
	// MinSpanM is the minimum altitude span for a segment to count as
	// a vertical profile.
	MinSpanM float64
	// MinDurationS is the minimum segment duration in seconds.
	MinDurationS float64
	// BinWidthM is the width of the altitude bins.
	BinWidthM float64
}

// DefaultProfileParams matches the P-3 sampling pattern: sustained
// climbs and descents at a few m/s, sampled at 1 Hz.
func DefaultProfileParams() ProfileParams {
	return ProfileParams{
		PlateauThreshold: 0.5,
		MinSpanM:         500,
		MinDurationS:     120,
		BinWidthM:        50,
	}
}

type segment struct {
	direction models.ProfileDirection
	start     int
	end       int // inclusive
}

// DetectProfiles scans a flight's observations in time order and extracts
// sustained climb and descent segments, each binned into fixed altitude
// layers. Level flight, short excursions, and altitude reversals end the
// current segment.
func DetectProfiles(flight models.Flight, obs []Obs, p ProfileParams) []models.Profile {
	idx := make([]int, 0, len(obs))
	for i, o := range obs {
		if !math.IsNaN(o.AltM) {
			idx = append(idx, i)
		}
	}
	if len(idx) < 2 {
		return nil
	}

	var segments []segment
	var cur *segment

	closeSegment := func(endPos int) {
		if cur == nil {
			return
		}
		start, end := obs[idx[cur.start]], obs[idx[endPos]]
		if math.Abs(end.AltM-start.AltM) >= p.MinSpanM &&
			end.StartUTC-start.StartUTC >= p.MinDurationS {
			cur.end = endPos
			segments = append(segments, *cur)
		}
		cur = nil
	}

	for pos := 1; pos < len(idx); pos++ {
		prev, point := obs[idx[pos-1]], obs[idx[pos]]
		altChange := point.AltM - prev.AltM

		if cur == nil {
			if math.Abs(altChange) > p.PlateauThreshold {
				dir := models.ProfileAscent
				if altChange < 0 {
					dir = models.ProfileDescent
				}
				cur = &segment{direction: dir, start: pos - 1}
			}
			continue
		}

		dir := models.ProfileAscent
		if altChange < 0 {
			dir = models.ProfileDescent
		}
		if dir == cur.direction && math.Abs(altChange) > p.PlateauThreshold {
			continue
		}

		closeSegment(pos - 1)
		if math.Abs(altChange) > p.PlateauThreshold {
			cur = &segment{direction: dir, start: pos - 1}
		}
	}
	closeSegment(len(idx) - 1)

	profiles := make([]models.Profile, 0, len(segments))
	for n, seg := range segments {
		points := make([]Obs, 0, seg.end-seg.start+1)
		for pos := seg.start; pos <= seg.end; pos++ {
			points = append(points, obs[idx[pos]])
		}
		profiles = append(profiles, buildProfile(flight, n, seg.direction, points, p))
	}
	return profiles
}

func buildProfile(flight models.Flight, index int, dir models.ProfileDirection, points []Obs, p ProfileParams) models.Profile {
	first, last := points[0], points[len(points)-1]
	bottom, top := first.AltM, last.AltM
	if bottom > top {
		bottom, top = top, bottom
	}

	lats := make([]float64, len(points))
	lons := make([]float64, len(points))
	for i, o := range points {
		lats[i] = o.Lat
		lons[i] = o.Lon
	}

	return models.Profile{
		FlightDate: flight.Date,
		Index:      index,
		Direction:  dir,
		StartUTC:   first.StartUTC,
		EndUTC:     last.StartUTC,
		BottomAlt:  bottom,
		TopAlt:     top,
		GroundDist: spatial.TrackDistance(lats, lons),
		Bins:       binProfile(points, p.BinWidthM),
	}
}

type profileAccum struct {
	h2o   []float64
	dd    []float64
	d18o  []float64
	tempK []float64
	press []float64
}

// binProfile groups a segment's observations into altitude layers
// anchored at sea level. Vapor variables take only QC-valid samples;
// state variables take every sample with a reading.
func binProfile(points []Obs, binWidth float64) []models.ProfileBin {
	accs := make(map[int]*profileAccum)
	for _, o := range points {
		bi := spatial.BandIndex(o.AltM, 0, binWidth)
		if bi < 0 {
			continue
		}
		acc := accs[bi]
		if acc == nil {
			acc = &profileAccum{}
			accs[bi] = acc
		}
		if o.QCTot == models.QCValid && !math.IsNaN(o.H2OGKG) {
			acc.h2o = append(acc.h2o, o.H2OGKG)
			if !math.IsNaN(o.DD) {
				acc.dd = append(acc.dd, o.DD)
			}
			if !math.IsNaN(o.D18O) {
				acc.d18o = append(acc.d18o, o.D18O)
			}
		}
		if !math.IsNaN(o.TempK) {
			acc.tempK = append(acc.tempK, o.TempK)
		}
		if !math.IsNaN(o.PressHPa) {
			acc.press = append(acc.press, o.PressHPa)
		}
	}

	bins := make([]models.ProfileBin, 0, len(accs))
	for bi, acc := range accs {
		bins = append(bins, models.ProfileBin{
			AltBottom:  float64(bi) * binWidth,
			H2O:        binStat(acc.h2o),
			DD:         binStat(acc.dd),
			D18O:       binStat(acc.d18o),
			TempK:      binStat(acc.tempK),
			PressureHP: binStat(acc.press),
		})
	}
	sort.Slice(bins, func(i, j int) bool { return bins[i].AltBottom < bins[j].AltBottom })
	return bins
}

// MedianAltStep is a diagnostic used when tuning the plateau threshold
// for a flight: the median absolute per-sample altitude change.
func MedianAltStep(obs []Obs) float64 {
	var steps []float64
	for i := 1; i < len(obs); i++ {
		a, b := obs[i-1].AltM, obs[i].AltM
		if math.IsNaN(a) || math.IsNaN(b) {
			continue
		}
		steps = append(steps, math.Abs(b-a))
	}
	if len(steps) == 0 {
		return math.NaN()
	}
	m, _ := stats.Median(steps)
	return m
}
