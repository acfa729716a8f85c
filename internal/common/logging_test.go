package common

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerWithOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput("info", &buf)

	logger.Debug().Msg("hidden")
	logger.Info().Str("dataset", "returns.json").Int("points", 3).Msg("Loaded dataset")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "Loaded dataset", entry["message"])
	assert.Equal(t, "returns.json", entry["dataset"])
	assert.EqualValues(t, 3, entry["points"])
}

func TestNewLoggerFromConfig_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "returnchart.log")
	logger := NewLoggerFromConfig(LoggingConfig{
		Level:      "debug",
		Outputs:    []string{"file"},
		FilePath:   path,
		MaxSizeMB:  1,
		MaxBackups: 1,
	})
	require.NotNil(t, logger)
	logger.Debug().Msg("written")
}

func TestNewSilentLogger(t *testing.T) {
	logger := NewSilentLogger()
	logger.Error().Msg("discarded")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	printBanner(&buf, NewDefaultConfig())

	out := buf.String()
	assert.Contains(t, out, "Account vs Global Index Returns")
	assert.Contains(t, out, "http://0.0.0.0:8080")
	assert.Contains(t, out, "data/returns.json")
}
