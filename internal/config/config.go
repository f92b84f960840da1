package config

import (
	"os"
)

// Config holds the application configuration. All WISPER_* entries are
// directories except CalFitsPath, which points at a calibration fits JSON
// file (empty means use the built-in table).
type Config struct {
	Port        string
	DBPath      string
	JWTSecret   string
	RawDir      string // time-synced raw instrument files
	CalDir      string // calibrated 1 Hz output files
	MergeDir    string // aircraft-state merge files
	Level3Dir   string // curtain and profile products
	CalFitsPath string

	MigrationsDir string
}

// Load reads configuration from the environment, applying defaults.
func Load() *Config {
	return &Config{
		Port:        getenv("PORT", ":8080"),
		DBPath:      getenv("DB_PATH", "./data/wisper/wisper.db"),
		JWTSecret:   getenv("JWT_SECRET", "your-secret-key-change-in-production"),
		RawDir:      getenv("WISPER_RAW_DIR", "./data/time_sync"),
		CalDir:      getenv("WISPER_CAL_DIR", "./data/calibrated"),
		MergeDir:    getenv("WISPER_MERGE_DIR", "./data/merge"),
		Level3Dir:   getenv("WISPER_LEVEL3_DIR", "./data/level3"),
		CalFitsPath: os.Getenv("WISPER_CALFITS"),

		MigrationsDir: getenv("MIGRATIONS_DIR", "./migrations"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
