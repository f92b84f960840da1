// Command wisper processes and serves the ORACLES WISPER water-isotope
// dataset: calibrate turns time-synced raw files into calibrated 1 Hz
// files, level3 builds the curtain and profile products, and serve
// exposes everything over HTTP.
package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/spf13/cobra"

	"github.com/oracles-wisper/wisper-backend-go/internal/api"
	"github.com/oracles-wisper/wisper-backend-go/internal/config"
	"github.com/oracles-wisper/wisper-backend-go/internal/database"
	"github.com/oracles-wisper/wisper-backend-go/internal/handler"
	"github.com/oracles-wisper/wisper-backend-go/internal/middleware"
	"github.com/oracles-wisper/wisper-backend-go/internal/repository"
	"github.com/oracles-wisper/wisper-backend-go/internal/service"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "wisper",
		Short:         "ORACLES WISPER calibration pipeline and API",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetHandler(cli.Default)
			if verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newCalibrateCmd())
	root.AddCommand(newLevel3Cmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newTokenCmd())
	return root
}

// openDatabase initializes the sqlite connection and applies pending
// migrations.
func openDatabase(cfg *config.Config) error {
	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	mgr := database.NewMigrationManager(database.GetDB(), cfg.MigrationsDir)
	if err := mgr.RunMigrations(); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func newCalibrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calibrate [date ...]",
		Short: "Calibrate raw flights (all good-data flights when no dates given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if err := openDatabase(cfg); err != nil {
				return err
			}
			defer database.Close()

			samples := repository.NewSampleRepository(database.GetDB())
			cal, err := service.NewCalibrationService(cfg, samples)
			if err != nil {
				return err
			}
			return cal.Run(args)
		},
	}
}

func newLevel3Cmd() *cobra.Command {
	return &cobra.Command{
		Use:   "level3 [year ...]",
		Short: "Build curtains and vertical profiles (all IOPs when no years given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			years := make([]int, 0, len(args))
			for _, a := range args {
				y, err := strconv.Atoi(a)
				if err != nil {
					return fmt.Errorf("year %q is not an integer", a)
				}
				years = append(years, y)
			}

			cfg := config.Load()
			if err := openDatabase(cfg); err != nil {
				return err
			}
			defer database.Close()

			db := database.GetDB()
			l3 := service.NewLevel3Service(cfg,
				repository.NewSampleRepository(db),
				repository.NewLevel3Repository(db))
			return l3.Run(years)
		},
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dataset over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if err := openDatabase(cfg); err != nil {
				return err
			}
			defer database.Close()

			db := database.GetDB()
			samples := repository.NewSampleRepository(db)
			l3Repo := repository.NewLevel3Repository(db)

			cal, err := service.NewCalibrationService(cfg, samples)
			if err != nil {
				return err
			}
			products := service.NewProductService(samples, l3Repo)
			l3 := service.NewLevel3Service(cfg, samples, l3Repo)

			router := api.SetupRouter(cfg, api.Handlers{
				Flights: handler.NewFlightHandler(products),
				Series:  handler.NewSeriesHandler(products),
				Level3:  handler.NewLevel3Handler(products),
				Runs:    handler.NewRunHandler(cal, l3),
			})

			log.WithField("port", cfg.Port).Info("server starting")
			return router.Run(cfg.Port)
		},
	}
}

func newTokenCmd() *cobra.Command {
	var subject string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the run-trigger endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			token, err := middleware.SignToken(cfg.JWTSecret, subject, ttl)
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "operator", "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
