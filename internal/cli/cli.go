// Package cli implements the returnchart command line subcommands.
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"

	"github.com/bobmcallan/returnchart/internal/common"
	"github.com/bobmcallan/returnchart/internal/dataset"
	"github.com/bobmcallan/returnchart/internal/models"
	"github.com/bobmcallan/returnchart/internal/services/chart"
)

// Commands lists the subcommands registered by the returnchart binary.
var Commands = []subcommands.Command{
	&renderCmd{},
	&tooltipCmd{},
	&seriesCmd{},
	&summaryCmd{},
}

// source holds the flags shared by every subcommand for locating the dataset.
type source struct {
	configPath string
	dataPath   string
	strict     bool
	verbose    bool

	stdout io.Writer
	stderr io.Writer
}

func (s *source) setFlags(f *flag.FlagSet) {
	f.StringVar(&s.configPath, "config", os.Getenv("RETURNCHART_CONFIG"), "TOML config file. Missing files are skipped.")
	f.StringVar(&s.dataPath, "data", "", "Returns dataset JSON file. Defaults to dataset.path from the config.")
	f.BoolVar(&s.strict, "strict", false, "Reject malformed entries instead of plotting gaps.")
	f.BoolVar(&s.verbose, "v", false, "Log debug output to stderr.")
}

func (s *source) out() io.Writer {
	if s.stdout == nil {
		return os.Stdout
	}
	return s.stdout
}

func (s *source) errOut() io.Writer {
	if s.stderr == nil {
		return os.Stderr
	}
	return s.stderr
}

func (s *source) errorf(format string, args ...interface{}) {
	fmt.Fprintf(s.errOut(), format, args...)
}

// loaded is the resolved config, dataset and chart service for one run.
type loaded struct {
	config  *common.Config
	raw     *models.RawDataset
	logger  *common.Logger
	service *chart.Service
}

// load resolves the config and dataset and builds a chart service.
func (s *source) load() (*loaded, error) {
	_ = godotenv.Load()

	config, err := common.LoadConfig(s.configPath)
	if err != nil {
		return nil, err
	}
	if s.dataPath != "" {
		config.Dataset.Path = s.dataPath
	}
	if s.strict {
		config.Dataset.Strict = true
	}

	level := "warn"
	if s.verbose {
		level = "debug"
	}
	logger := common.NewLoggerWithOutput(level, s.errOut())

	raw, err := dataset.LoadFile(config.Dataset.Path, dataset.Options{Strict: config.Dataset.Strict})
	if err != nil {
		return nil, err
	}
	return &loaded{
		config:  config,
		raw:     raw,
		logger:  logger,
		service: chart.NewService(config.Chart, logger),
	}, nil
}

// splitList splits a comma separated flag value, dropping blanks.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
