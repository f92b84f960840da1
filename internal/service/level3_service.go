package service

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/schollz/progressbar/v3"

	"github.com/oracles-wisper/wisper-backend-go/internal/config"
	"github.com/oracles-wisper/wisper-backend-go/internal/ict"
	"github.com/oracles-wisper/wisper-backend-go/internal/level3"
	"github.com/oracles-wisper/wisper-backend-go/internal/models"
	"github.com/oracles-wisper/wisper-backend-go/internal/repository"
)

// Level3Service builds the aggregated products from stored calibrated
// samples and the aircraft-state merge files: one curtain per IOP and
// the vertical profiles of every flight.
type Level3Service struct {
	cfg     *config.Config
	samples *repository.SampleRepository
	level3  *repository.Level3Repository

	grid    level3.Grid
	profile level3.ProfileParams
}

// NewLevel3Service builds the level-3 pipeline with the default grid and
// profile parameters.
func NewLevel3Service(cfg *config.Config, samples *repository.SampleRepository, l3 *repository.Level3Repository) *Level3Service {
	return &Level3Service{
		cfg:     cfg,
		samples: samples,
		level3:  l3,
		grid:    level3.DefaultGrid(),
		profile: level3.DefaultProfileParams(),
	}
}

// MergePath returns the aircraft-state merge file for a flight.
func (s *Level3Service) MergePath(flight models.Flight) string {
	return filepath.Join(s.cfg.MergeDir, fmt.Sprintf("mrg1_P3_%s.ict", flight.Date))
}

// Run builds the products for the given IOP years. An empty list selects
// all three deployments. Flights without stored samples or without a
// merge file are logged and skipped.
func (s *Level3Service) Run(years []int) error {
	if len(years) == 0 {
		years = models.IOPYears()
	}
	for _, year := range years {
		flights := models.FlightsForYear(year)
		if len(flights) == 0 {
			return fmt.Errorf("%d is not an IOP year", year)
		}
	}

	if err := os.MkdirAll(s.cfg.Level3Dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	for _, year := range years {
		if err := s.runYear(year); err != nil {
			return fmt.Errorf("IOP %d: %w", year, err)
		}
	}
	return nil
}

func (s *Level3Service) runYear(year int) error {
	flights := models.FlightsForYear(year)
	bar := progressbar.Default(int64(len(flights)), fmt.Sprintf("level3 %d", year))

	var yearObs []level3.Obs
	for _, flight := range flights {
		bar.Add(1)
		obs, err := s.flightObs(flight)
		if err != nil {
			return fmt.Errorf("flight %s: %w", flight.Date, err)
		}
		if obs == nil {
			continue
		}
		yearObs = append(yearObs, obs...)

		if err := s.buildProfiles(flight, obs); err != nil {
			return fmt.Errorf("flight %s: %w", flight.Date, err)
		}
	}

	if len(yearObs) == 0 {
		log.WithField("year", year).Warn("no observations, skipping curtain")
		return nil
	}

	cells := level3.BuildCurtain(year, yearObs, s.grid)
	if err := s.level3.ReplaceCurtain(year, cells); err != nil {
		return err
	}
	path := filepath.Join(s.cfg.Level3Dir, fmt.Sprintf("curtain_%d.csv", year))
	if err := level3.WriteCurtainCSV(path, cells, s.grid); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"year":    year,
		"samples": len(yearObs),
		"cells":   len(cells),
	}).Info("curtain built")
	return nil
}

// flightObs loads and joins one flight's samples and state. A nil result
// with nil error means the flight has nothing to contribute.
func (s *Level3Service) flightObs(flight models.Flight) ([]level3.Obs, error) {
	samples, err := s.samples.GetByFlight(flight.Date)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		log.WithField("flight", flight.Date).Warn("no calibrated samples, skipping flight")
		return nil, nil
	}

	mergePath := s.MergePath(flight)
	if _, err := os.Stat(mergePath); os.IsNotExist(err) {
		log.WithFields(log.Fields{
			"flight": flight.Date,
			"path":   mergePath,
		}).Warn("merge file missing, skipping flight")
		return nil, nil
	}

	mergeTable, err := ict.Read(mergePath)
	if err != nil {
		return nil, err
	}
	state, err := level3.StatePoints(mergeTable)
	if err != nil {
		return nil, err
	}

	obs := level3.Merge(flight, samples, state)
	if len(obs) == 0 {
		log.WithField("flight", flight.Date).Warn("no overlap between samples and state")
		return nil, nil
	}
	return obs, nil
}

func (s *Level3Service) buildProfiles(flight models.Flight, obs []level3.Obs) error {
	profiles := level3.DetectProfiles(flight, obs, s.profile)

	log.WithFields(log.Fields{
		"flight":   flight.Date,
		"profiles": len(profiles),
		"alt_step": fmt.Sprintf("%.2f", level3.MedianAltStep(obs)),
	}).Debug("profiles detected")

	if err := s.level3.ReplaceProfiles(flight.Date, profiles); err != nil {
		return err
	}
	if len(profiles) == 0 {
		return nil
	}
	path := filepath.Join(s.cfg.Level3Dir, fmt.Sprintf("profiles_%s.csv", flight.Date))
	return level3.WriteProfilesCSV(path, profiles)
}
