package service

import (
	"fmt"

	"github.com/oracles-wisper/wisper-backend-go/internal/models"
	"github.com/oracles-wisper/wisper-backend-go/internal/repository"
)

// FlightSummary is one registry flight plus what the database holds
// for it.
type FlightSummary struct {
	models.Flight
	SampleCount  int64 `json:"sampleCount"`
	ProfileCount int   `json:"profileCount"`
}

// ProductService serves the read side of the API from the registry and
// the stored products.
type ProductService struct {
	samples *repository.SampleRepository
	level3  *repository.Level3Repository
}

// NewProductService creates a new product service.
func NewProductService(samples *repository.SampleRepository, l3 *repository.Level3Repository) *ProductService {
	return &ProductService{samples: samples, level3: l3}
}

// ListFlights returns every registry flight with its stored sample and
// profile counts. Year 0 means all IOPs.
func (s *ProductService) ListFlights(year int) ([]FlightSummary, error) {
	flights := models.FlightRegistry()
	if year != 0 {
		flights = models.FlightsForYear(year)
		if len(flights) == 0 {
			return nil, fmt.Errorf("%d is not an IOP year", year)
		}
	}

	counts, err := s.samples.CountByFlight()
	if err != nil {
		return nil, err
	}

	out := make([]FlightSummary, 0, len(flights))
	for _, f := range flights {
		profiles, err := s.level3.GetProfiles(f.Date)
		if err != nil {
			return nil, err
		}
		out = append(out, FlightSummary{
			Flight:       f,
			SampleCount:  counts[f.Date],
			ProfileCount: len(profiles),
		})
	}
	return out, nil
}

// GetSeries returns a page of one flight's calibrated samples.
func (s *ProductService) GetSeries(date string, filter models.SeriesFilter) (*models.SeriesResponse, error) {
	if _, ok := models.FlightByDate(date); !ok {
		return nil, fmt.Errorf("%s is not a good-data flight date", date)
	}
	return s.samples.GetSeries(date, filter)
}

// GetCurtain returns the stored curtain of one IOP year.
func (s *ProductService) GetCurtain(year int) ([]models.CurtainCell, error) {
	if len(models.FlightsForYear(year)) == 0 {
		return nil, fmt.Errorf("%d is not an IOP year", year)
	}
	return s.level3.GetCurtain(year)
}

// GetProfiles returns the stored profiles of one flight, bins included.
func (s *ProductService) GetProfiles(date string) ([]models.Profile, error) {
	if _, ok := models.FlightByDate(date); !ok {
		return nil, fmt.Errorf("%s is not a good-data flight date", date)
	}
	return s.level3.GetProfiles(date)
}
