// Package service holds the processing pipelines and the read paths
// behind the API.
package service

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/schollz/progressbar/v3"

	"github.com/oracles-wisper/wisper-backend-go/internal/calibration"
	"github.com/oracles-wisper/wisper-backend-go/internal/config"
	"github.com/oracles-wisper/wisper-backend-go/internal/ict"
	"github.com/oracles-wisper/wisper-backend-go/internal/models"
	"github.com/oracles-wisper/wisper-backend-go/internal/repository"
)

// CalibrationService runs the raw-to-calibrated pipeline for a set of
// flights: read the time-synced file, apply the calibration chain, write
// the calibrated 1 Hz file, and store the samples.
type CalibrationService struct {
	cfg     *config.Config
	engine  *calibration.Engine
	samples *repository.SampleRepository
}

// NewCalibrationService builds the pipeline. The calibration table comes
// from cfg.CalFitsPath when set, otherwise the built-in table.
func NewCalibrationService(cfg *config.Config, samples *repository.SampleRepository) (*CalibrationService, error) {
	table := calibration.Default()
	if cfg.CalFitsPath != "" {
		var err error
		table, err = calibration.Load(cfg.CalFitsPath)
		if err != nil {
			return nil, fmt.Errorf("load calibration table: %w", err)
		}
		log.WithFields(log.Fields{
			"path":    cfg.CalFitsPath,
			"version": table.Version,
		}).Info("loaded calibration table")
	}

	return &CalibrationService{
		cfg:     cfg,
		engine:  calibration.NewEngine(table),
		samples: samples,
	}, nil
}

// ResolveFlights maps dates to registry flights. An empty list selects
// every good-data flight. Unknown dates are an error, not a skip, so a
// typo cannot silently process nothing.
func ResolveFlights(dates []string) ([]models.Flight, error) {
	if len(dates) == 0 {
		return models.FlightRegistry(), nil
	}
	flights := make([]models.Flight, 0, len(dates))
	for _, d := range dates {
		f, ok := models.FlightByDate(d)
		if !ok {
			return nil, fmt.Errorf("%s is not a good-data flight date", d)
		}
		flights = append(flights, f)
	}
	return flights, nil
}

// Run calibrates the given flights. A missing raw file is fatal for an
// explicitly requested date; on a whole-registry run it is logged and
// skipped, since the archive is rarely complete on disk. Any other
// failure aborts the run.
func (s *CalibrationService) Run(dates []string) error {
	flights, err := ResolveFlights(dates)
	if err != nil {
		return err
	}
	explicit := len(dates) > 0

	if err := os.MkdirAll(s.cfg.CalDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	bar := progressbar.Default(int64(len(flights)), "calibrating")
	processed := 0
	for _, flight := range flights {
		bar.Add(1)
		ok, err := s.processFlight(flight, explicit)
		if err != nil {
			return fmt.Errorf("flight %s: %w", flight.Date, err)
		}
		if ok {
			processed++
		}
	}

	log.WithFields(log.Fields{
		"requested": len(flights),
		"processed": processed,
	}).Info("calibration run complete")
	return nil
}

// RawPath returns the time-synced input file for a flight.
func (s *CalibrationService) RawPath(flight models.Flight) string {
	return filepath.Join(s.cfg.RawDir, fmt.Sprintf("WISPER_%s_time-sync.ict", flight.Date))
}

// CalPath returns the calibrated output file for a flight.
func (s *CalibrationService) CalPath(flight models.Flight, version string) string {
	return filepath.Join(s.cfg.CalDir, fmt.Sprintf("WISPER_P3_%s_%s.ict", flight.Date, version))
}

func (s *CalibrationService) processFlight(flight models.Flight, explicit bool) (bool, error) {
	path := s.RawPath(flight)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return false, fmt.Errorf("raw file not found: %s", path)
		}
		log.WithFields(log.Fields{
			"flight": flight.Date,
			"path":   path,
		}).Warn("raw file missing, skipping flight")
		return false, nil
	}

	table, err := ict.Read(path)
	if err != nil {
		return false, err
	}
	raws, err := ict.RawSamples(table, flight)
	if err != nil {
		return false, err
	}

	samples, err := s.engine.CalibrateFlight(flight, raws)
	if err != nil {
		return false, err
	}

	version := s.engine.Table.Version
	out := ict.CalibratedTable(flight, samples)
	if err := ict.Write(s.CalPath(flight, version), out); err != nil {
		return false, err
	}

	if err := s.samples.ReplaceFlight(flight.Date, samples); err != nil {
		return false, err
	}

	log.WithFields(log.Fields{
		"flight":  flight.Date,
		"samples": len(samples),
		"version": version,
	}).Info("flight calibrated")
	return true, nil
}
