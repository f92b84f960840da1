// Package repository implements sqlite persistence for calibrated samples
// and level-3 products.
package repository

import (
	"database/sql"
	"fmt"
	"math"
	"strings"

	"github.com/oracles-wisper/wisper-backend-go/internal/database"
	"github.com/oracles-wisper/wisper-backend-go/internal/models"
)

// SampleRepository handles database operations for calibrated 1 Hz samples.
type SampleRepository struct {
	db *sql.DB
}

// NewSampleRepository creates a new sample repository.
func NewSampleRepository(db *sql.DB) *SampleRepository {
	return &SampleRepository{db: db}
}

const sampleColumns = `id, flight_date, year, start_utc,
	h2o_tot1, dd_tot1, d18o_tot1,
	h2o_tot2, dd_tot2, d18o_tot2,
	h2o_cld, dd_cld, d18o_cld, cvi_enhance,
	sig_dd, sig_d18o,
	qc_tot, qc_cld, table_version`

// ReplaceFlight atomically replaces all stored samples of one flight.
// Reprocessing a flight must never leave a mix of old and new rows.
func (r *SampleRepository) ReplaceFlight(flightDate string, samples []models.CalSample) error {
	return database.Transaction(func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM cal_samples WHERE flight_date = ?", flightDate); err != nil {
			return fmt.Errorf("failed to clear flight %s: %w", flightDate, err)
		}

		stmt, err := tx.Prepare(`INSERT INTO cal_samples (
			flight_date, year, start_utc,
			h2o_tot1, dd_tot1, d18o_tot1,
			h2o_tot2, dd_tot2, d18o_tot2,
			h2o_cld, dd_cld, d18o_cld, cvi_enhance,
			sig_dd, sig_d18o,
			qc_tot, qc_cld, table_version
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, s := range samples {
			_, err := stmt.Exec(
				s.FlightDate, s.Year, s.StartUTC,
				nullable(s.H2OTot1), nullable(s.DDTot1), nullable(s.D18OTot1),
				nullable(s.H2OTot2), nullable(s.DDTot2), nullable(s.D18OTot2),
				nullable(s.H2OCld), nullable(s.DDCld), nullable(s.D18OCld), nullable(s.CVIEnhance),
				nullable(s.SigDD), nullable(s.SigD18O),
				int(s.QCTot), int(s.QCCld), s.TableVersion,
			)
			if err != nil {
				return fmt.Errorf("failed to insert sample at %v: %w", s.StartUTC, err)
			}
		}
		return nil
	})
}

// GetSeries retrieves a page of calibrated samples for one flight.
func (r *SampleRepository) GetSeries(flightDate string, filter models.SeriesFilter) (*models.SeriesResponse, error) {
	filter.Normalize()

	conditions := []string{"flight_date = ?"}
	args := []interface{}{flightDate}

	if filter.StartUTC > 0 {
		conditions = append(conditions, "start_utc >= ?")
		args = append(args, filter.StartUTC)
	}
	if filter.EndUTC > 0 {
		conditions = append(conditions, "start_utc <= ?")
		args = append(args, filter.EndUTC)
	}
	if filter.MaxQC < int(models.QCInvalid) {
		conditions = append(conditions, "qc_tot <= ?")
		args = append(args, filter.MaxQC)
	}
	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM cal_samples"+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count samples: %w", err)
	}

	query := "SELECT " + sampleColumns + " FROM cal_samples" + where +
		" ORDER BY start_utc LIMIT ? OFFSET ?"
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}
	defer rows.Close()

	samples, err := scanSamples(rows)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(filter.PageSize) - 1) / int64(filter.PageSize))
	return &models.SeriesResponse{
		Data:       samples,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages,
	}, nil
}

// GetByFlight retrieves every stored sample of one flight in time order.
func (r *SampleRepository) GetByFlight(flightDate string) ([]models.CalSample, error) {
	query := "SELECT " + sampleColumns + " FROM cal_samples WHERE flight_date = ? ORDER BY start_utc"
	rows, err := r.db.Query(query, flightDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}
	defer rows.Close()
	return scanSamples(rows)
}

// CountByFlight returns the number of stored samples per flight date.
func (r *SampleRepository) CountByFlight() (map[string]int64, error) {
	rows, err := r.db.Query("SELECT flight_date, COUNT(*) FROM cal_samples GROUP BY flight_date")
	if err != nil {
		return nil, fmt.Errorf("failed to count samples: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var date string
		var n int64
		if err := rows.Scan(&date, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[date] = n
	}
	return counts, rows.Err()
}

func scanSamples(rows *sql.Rows) ([]models.CalSample, error) {
	var samples []models.CalSample
	for rows.Next() {
		var s models.CalSample
		var qcTot, qcCld int
		var vals [12]sql.NullFloat64
		err := rows.Scan(
			&s.ID, &s.FlightDate, &s.Year, &s.StartUTC,
			&vals[0], &vals[1], &vals[2],
			&vals[3], &vals[4], &vals[5],
			&vals[6], &vals[7], &vals[8], &vals[9],
			&vals[10], &vals[11],
			&qcTot, &qcCld, &s.TableVersion,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		s.H2OTot1, s.DDTot1, s.D18OTot1 = floatOf(vals[0]), floatOf(vals[1]), floatOf(vals[2])
		s.H2OTot2, s.DDTot2, s.D18OTot2 = floatOf(vals[3]), floatOf(vals[4]), floatOf(vals[5])
		s.H2OCld, s.DDCld, s.D18OCld, s.CVIEnhance = floatOf(vals[6]), floatOf(vals[7]), floatOf(vals[8]), floatOf(vals[9])
		s.SigDD, s.SigD18O = floatOf(vals[10]), floatOf(vals[11])
		s.QCTot, s.QCCld = models.QCFlag(qcTot), models.QCFlag(qcCld)
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

// nullable maps NaN to NULL for storage.
func nullable(v float64) interface{} {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

// floatOf maps NULL back to NaN.
func floatOf(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
