package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ErrInvalid wraps every configuration error.
var ErrInvalid = errors.New("invalid configuration")

// Config holds the server settings.
type Config struct {
	Server ServerConfig
	Report ReportConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port        string
	MaxUploadMB int
}

// ReportConfig holds analysis settings
type ReportConfig struct {
	MaxDatasets  int            // uploads kept in memory, oldest evicted first
	PreviewLimit int            // default page size of the preview table
	Location     *time.Location // calendar used for "today"
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	maxUpload, err := getEnvIntOrDefault("MAX_UPLOAD_MB", 25)
	if err != nil {
		return nil, err
	}
	maxDatasets, err := getEnvIntOrDefault("MAX_DATASETS", 32)
	if err != nil {
		return nil, err
	}
	previewLimit, err := getEnvIntOrDefault("PREVIEW_LIMIT", 100)
	if err != nil {
		return nil, err
	}

	loc := time.Local
	if name := os.Getenv("REPORT_TIMEZONE"); name != "" {
		if loc, err = time.LoadLocation(name); err != nil {
			return nil, fmt.Errorf("%w: REPORT_TIMEZONE %q: %v", ErrInvalid, name, err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnvOrDefault("PORT", "8080"),
			MaxUploadMB: maxUpload,
		},
		Report: ReportConfig{
			MaxDatasets:  maxDatasets,
			PreviewLimit: previewLimit,
			Location:     loc,
		},
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Server.Port
}

// BodyLimit is the upload limit in echo's size notation.
func (c *Config) BodyLimit() string {
	return strconv.Itoa(c.Server.MaxUploadMB) + "M"
}

func validateConfig(cfg *Config) error {
	if _, err := strconv.Atoi(cfg.Server.Port); err != nil {
		return fmt.Errorf("%w: PORT %q is not a number", ErrInvalid, cfg.Server.Port)
	}
	if cfg.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("%w: MAX_UPLOAD_MB must be positive", ErrInvalid)
	}
	if cfg.Report.MaxDatasets <= 0 {
		return fmt.Errorf("%w: MAX_DATASETS must be positive", ErrInvalid)
	}
	if cfg.Report.PreviewLimit <= 0 {
		return fmt.Errorf("%w: PREVIEW_LIMIT must be positive", ErrInvalid)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not an integer", ErrInvalid, key, value)
	}
	return n, nil
}
