package main

import (
	"fmt"
	"log"
	"os"

	"slaanalyzer/internal/api"
	"slaanalyzer/internal/config"
	"slaanalyzer/internal/engine"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "slaanalyzer",
		Short: "GRNI and Match Exceptions dashboard backend",
		// No sub-command: run the server.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newReportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard API",
		Long: `Serve the dashboard API.

Configuration is read from the environment (and .env when present):
- PORT (default 8080)
- MAX_UPLOAD_MB (default 25)
- MAX_DATASETS (default 32)
- PREVIEW_LIMIT (default 100)
- REPORT_TIMEZONE (default: local time zone)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// 1. Initialize Echo
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.BodyLimit(cfg.BodyLimit()))

	// 2. Uploads live in memory only; a restart starts empty
	registry := api.NewRegistry(cfg.Report.MaxDatasets)
	h := api.NewHandler(registry, cfg.Report.PreviewLimit, engine.WithLocation(cfg.Report.Location))
	h.RegisterRoutes(e)

	// 3. Start Server
	log.Printf("[API] Server ready on %s (today resolved in %s)", cfg.Addr(), cfg.Report.Location)
	return e.Start(cfg.Addr())
}
