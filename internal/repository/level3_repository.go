package repository

import (
	"database/sql"
	"fmt"

	"github.com/oracles-wisper/wisper-backend-go/internal/database"
	"github.com/oracles-wisper/wisper-backend-go/internal/models"
)

// Level3Repository handles database operations for curtain cells and
// vertical profiles.
type Level3Repository struct {
	db *sql.DB
}

// NewLevel3Repository creates a new level-3 repository.
func NewLevel3Repository(db *sql.DB) *Level3Repository {
	return &Level3Repository{db: db}
}

// ReplaceCurtain atomically replaces the stored curtain of one IOP year.
func (r *Level3Repository) ReplaceCurtain(year int, cells []models.CurtainCell) error {
	return database.Transaction(func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM curtain_cells WHERE year = ?", year); err != nil {
			return fmt.Errorf("failed to clear curtain %d: %w", year, err)
		}

		stmt, err := tx.Prepare(`INSERT INTO curtain_cells (
			year, lat_index, alt_index, lat_center, alt_center,
			h2o_n, h2o_mean, h2o_std,
			dd_n, dd_mean, dd_std,
			d18o_n, d18o_mean, d18o_std,
			cwc_n, cwc_mean, cwc_std
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, c := range cells {
			_, err := stmt.Exec(
				c.Year, c.LatIndex, c.AltIndex, c.LatCenter, c.AltCenter,
				c.H2O.N, nullable(c.H2O.Mean), nullable(c.H2O.Std),
				c.DD.N, nullable(c.DD.Mean), nullable(c.DD.Std),
				c.D18O.N, nullable(c.D18O.Mean), nullable(c.D18O.Std),
				c.CWC.N, nullable(c.CWC.Mean), nullable(c.CWC.Std),
			)
			if err != nil {
				return fmt.Errorf("failed to insert cell (%d,%d): %w", c.LatIndex, c.AltIndex, err)
			}
		}
		return nil
	})
}

// GetCurtain retrieves the stored curtain cells of one IOP year.
func (r *Level3Repository) GetCurtain(year int) ([]models.CurtainCell, error) {
	query := `SELECT id, year, lat_index, alt_index, lat_center, alt_center,
		h2o_n, h2o_mean, h2o_std,
		dd_n, dd_mean, dd_std,
		d18o_n, d18o_mean, d18o_std,
		cwc_n, cwc_mean, cwc_std
		FROM curtain_cells WHERE year = ?
		ORDER BY lat_index, alt_index`

	rows, err := r.db.Query(query, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query curtain cells: %w", err)
	}
	defer rows.Close()

	var cells []models.CurtainCell
	for rows.Next() {
		var c models.CurtainCell
		var stats [8]sql.NullFloat64
		err := rows.Scan(
			&c.ID, &c.Year, &c.LatIndex, &c.AltIndex, &c.LatCenter, &c.AltCenter,
			&c.H2O.N, &stats[0], &stats[1],
			&c.DD.N, &stats[2], &stats[3],
			&c.D18O.N, &stats[4], &stats[5],
			&c.CWC.N, &stats[6], &stats[7],
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan curtain cell: %w", err)
		}
		c.H2O.Mean, c.H2O.Std = floatOf(stats[0]), floatOf(stats[1])
		c.DD.Mean, c.DD.Std = floatOf(stats[2]), floatOf(stats[3])
		c.D18O.Mean, c.D18O.Std = floatOf(stats[4]), floatOf(stats[5])
		c.CWC.Mean, c.CWC.Std = floatOf(stats[6]), floatOf(stats[7])
		cells = append(cells, c)
	}
	return cells, rows.Err()
}

// ReplaceProfiles atomically replaces the stored profiles of one flight,
// bins included.
func (r *Level3Repository) ReplaceProfiles(flightDate string, profiles []models.Profile) error {
	return database.Transaction(func(tx *sql.Tx) error {
		// Cascades to profile_bins.
		if _, err := tx.Exec("DELETE FROM profiles WHERE flight_date = ?", flightDate); err != nil {
			return fmt.Errorf("failed to clear profiles of %s: %w", flightDate, err)
		}

		binStmt, err := tx.Prepare(`INSERT INTO profile_bins (
			profile_id, alt_bottom,
			h2o_n, h2o_mean, h2o_std,
			dd_n, dd_mean, dd_std,
			d18o_n, d18o_mean, d18o_std,
			temp_n, temp_mean, temp_std,
			press_n, press_mean, press_std
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare bin insert: %w", err)
		}
		defer binStmt.Close()

		for _, p := range profiles {
			res, err := tx.Exec(`INSERT INTO profiles (
				flight_date, profile_index, direction,
				start_utc, end_utc, bottom_alt, top_alt, ground_dist_m
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				p.FlightDate, p.Index, string(p.Direction),
				p.StartUTC, p.EndUTC, p.BottomAlt, p.TopAlt, p.GroundDist,
			)
			if err != nil {
				return fmt.Errorf("failed to insert profile %d: %w", p.Index, err)
			}
			profileID, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("failed to get profile id: %w", err)
			}

			for _, b := range p.Bins {
				_, err := binStmt.Exec(
					profileID, b.AltBottom,
					b.H2O.N, nullable(b.H2O.Mean), nullable(b.H2O.Std),
					b.DD.N, nullable(b.DD.Mean), nullable(b.DD.Std),
					b.D18O.N, nullable(b.D18O.Mean), nullable(b.D18O.Std),
					b.TempK.N, nullable(b.TempK.Mean), nullable(b.TempK.Std),
					b.PressureHP.N, nullable(b.PressureHP.Mean), nullable(b.PressureHP.Std),
				)
				if err != nil {
					return fmt.Errorf("failed to insert bin at %v m: %w", b.AltBottom, err)
				}
			}
		}
		return nil
	})
}

// GetProfiles retrieves the stored profiles of one flight, with bins.
func (r *Level3Repository) GetProfiles(flightDate string) ([]models.Profile, error) {
	query := `SELECT id, flight_date, profile_index, direction,
		start_utc, end_utc, bottom_alt, top_alt, ground_dist_m
		FROM profiles WHERE flight_date = ? ORDER BY profile_index`

	rows, err := r.db.Query(query, flightDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		var p models.Profile
		var direction string
		err := rows.Scan(
			&p.ID, &p.FlightDate, &p.Index, &direction,
			&p.StartUTC, &p.EndUTC, &p.BottomAlt, &p.TopAlt, &p.GroundDist,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		p.Direction = models.ProfileDirection(direction)
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range profiles {
		bins, err := r.getProfileBins(profiles[i].ID)
		if err != nil {
			return nil, err
		}
		profiles[i].Bins = bins
	}
	return profiles, nil
}

func (r *Level3Repository) getProfileBins(profileID int64) ([]models.ProfileBin, error) {
	query := `SELECT id, profile_id, alt_bottom,
		h2o_n, h2o_mean, h2o_std,
		dd_n, dd_mean, dd_std,
		d18o_n, d18o_mean, d18o_std,
		temp_n, temp_mean, temp_std,
		press_n, press_mean, press_std
		FROM profile_bins WHERE profile_id = ? ORDER BY alt_bottom`

	rows, err := r.db.Query(query, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to query profile bins: %w", err)
	}
	defer rows.Close()

	var bins []models.ProfileBin
	for rows.Next() {
		var b models.ProfileBin
		var stats [10]sql.NullFloat64
		err := rows.Scan(
			&b.ID, &b.ProfileID, &b.AltBottom,
			&b.H2O.N, &stats[0], &stats[1],
			&b.DD.N, &stats[2], &stats[3],
			&b.D18O.N, &stats[4], &stats[5],
			&b.TempK.N, &stats[6], &stats[7],
			&b.PressureHP.N, &stats[8], &stats[9],
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile bin: %w", err)
		}
		b.H2O.Mean, b.H2O.Std = floatOf(stats[0]), floatOf(stats[1])
		b.DD.Mean, b.DD.Std = floatOf(stats[2]), floatOf(stats[3])
		b.D18O.Mean, b.D18O.Std = floatOf(stats[4]), floatOf(stats[5])
		b.TempK.Mean, b.TempK.Std = floatOf(stats[6]), floatOf(stats[7])
		b.PressureHP.Mean, b.PressureHP.Std = floatOf(stats[8]), floatOf(stats[9])
		bins = append(bins, b)
	}
	return bins, rows.Err()
}
