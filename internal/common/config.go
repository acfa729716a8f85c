// Package common provides shared utilities for returnchart
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for returnchart
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Dataset     DatasetConfig `toml:"dataset"`
	Chart       ChartConfig   `toml:"chart"`
	Cache       CacheConfig   `toml:"cache"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host      string  `toml:"host"`
	Port      int     `toml:"port"`
	RateLimit float64 `toml:"rate_limit"` // requests per second per client, 0 disables
	RateBurst int     `toml:"rate_burst"`
}

// DatasetConfig points at the returns file served by the chart endpoints.
type DatasetConfig struct {
	Path   string `toml:"path"`
	Strict bool   `toml:"strict"` // reject malformed entries instead of plotting gaps
}

// ChartConfig holds rendering options for the returns chart.
type ChartConfig struct {
	Width        int      `toml:"width"`
	Height       int      `toml:"height"`
	Format       string   `toml:"format"`
	AreaBaseline float64  `toml:"area_baseline"`
	YMax         float64  `toml:"y_max"`
	YPadding     float64  `toml:"y_padding"`
	GridMin      int      `toml:"grid_min"`
	GridMax      int      `toml:"grid_max"`
	Months       []string `toml:"months"` // empty derives the months from the data
	MonthOffset  int      `toml:"month_offset"`
	Colors       []string `toml:"colors"` // account, global index
	ShowLegend   bool     `toml:"show_legend"`
}

// CacheConfig holds the rendered image cache location.
type CacheConfig struct {
	Dir string `toml:"dir"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Format     string   `toml:"format"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// NewDefaultChartConfig returns the chart options used when no config file
// sets them.
func NewDefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:        900,
		Height:       400,
		Format:       "svg",
		AreaBaseline: -100,
		YMax:         3,
		YPadding:     1,
		GridMin:      -3,
		GridMax:      3,
		MonthOffset:  50,
		Colors:       []string{"#fadb85", "#5793e1"},
		ShowLegend:   true,
	}
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host:      "0.0.0.0",
			Port:      8080,
			RateLimit: 20,
			RateBurst: 40,
		},
		Dataset: DatasetConfig{
			Path: "data/returns.json",
		},
		Chart: NewDefaultChartConfig(),
		Cache: CacheConfig{
			Dir: "data/cache",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Outputs:    []string{"console"},
			FilePath:   "./logs/returnchart.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Later files override earlier ones
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("RETURNCHART_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("RETURNCHART_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("RETURNCHART_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if v := os.Getenv("RETURNCHART_RATE_LIMIT"); v != "" {
		if r, err := strconv.ParseFloat(v, 64); err == nil {
			config.Server.RateLimit = r
		}
	}

	if level := os.Getenv("RETURNCHART_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("RETURNCHART_DATA_PATH"); path != "" {
		config.Dataset.Path = path
	}

	if v := os.Getenv("RETURNCHART_STRICT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Dataset.Strict = b
		}
	}

	if dir := os.Getenv("RETURNCHART_CACHE_DIR"); dir != "" {
		config.Cache.Dir = dir
	}

	if f := os.Getenv("RETURNCHART_CHART_FORMAT"); f != "" {
		config.Chart.Format = strings.ToLower(f)
	}

	if m := os.Getenv("RETURNCHART_MONTHS"); m != "" {
		var months []string
		for _, name := range strings.Split(m, ",") {
			if name = strings.TrimSpace(name); name != "" {
				months = append(months, name)
			}
		}
		config.Chart.Months = months
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
