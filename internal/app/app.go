// Package app wires configuration, logging, the returns dataset and the chart
// service into the core shared by the server and CLI binaries.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/bobmcallan/returnchart/internal/common"
	"github.com/bobmcallan/returnchart/internal/dataset"
	"github.com/bobmcallan/returnchart/internal/interfaces"
	"github.com/bobmcallan/returnchart/internal/models"
	"github.com/bobmcallan/returnchart/internal/services/chart"
	"github.com/bobmcallan/returnchart/internal/storage"
)

// App holds the loaded dataset and initialized services.
type App struct {
	Config       *common.Config
	Logger       *common.Logger
	Dataset      *models.RawDataset
	ChartService interfaces.ChartService
	ImageCache   interfaces.ImageCache
	StartupTime  time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp loads configuration and the dataset and initializes services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	common.LoadVersionFromFile()
	binDir := getBinaryDir()

	// .env files only fill variables that are not already set
	_ = godotenv.Load(filepath.Join(binDir, ".env"))
	_ = godotenv.Load(".env")

	// Config resolution: provided path, RETURNCHART_CONFIG, binary dir, then config/
	if configPath == "" {
		configPath = os.Getenv("RETURNCHART_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "returnchart.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/returnchart.toml"
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if config.Logging.FilePath != "" && !filepath.IsAbs(config.Logging.FilePath) {
		config.Logging.FilePath = filepath.Join(binDir, config.Logging.FilePath)
	}
	config.Dataset.Path = resolvePath(binDir, config.Dataset.Path)

	logger := common.NewLoggerFromConfig(config.Logging)

	a, err := NewAppWithConfig(config, logger)
	if err != nil {
		return nil, err
	}
	a.StartupTime = startupStart

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")
	return a, nil
}

// NewAppWithConfig initializes services from an already loaded config.
func NewAppWithConfig(config *common.Config, logger *common.Logger) (*App, error) {
	raw, err := dataset.LoadFile(config.Dataset.Path, dataset.Options{Strict: config.Dataset.Strict})
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	logger.Info().
		Str("path", config.Dataset.Path).
		Int("entries", raw.Len()).
		Bool("strict", config.Dataset.Strict).
		Msg("Returns dataset loaded")

	var cache interfaces.ImageCache
	if config.Cache.Dir != "" {
		cache = storage.NewImageCache(config.Cache.Dir, logger)
	}

	return &App{
		Config:       config,
		Logger:       logger,
		Dataset:      raw,
		ChartService: chart.NewService(config.Chart, logger),
		ImageCache:   cache,
		StartupTime:  time.Now(),
	}, nil
}

// resolvePath keeps relative paths that exist from the working directory
// and otherwise anchors them at the binary directory.
func resolvePath(binDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return filepath.Join(binDir, path)
}
