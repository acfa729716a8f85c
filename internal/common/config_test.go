package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_DefaultPort(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port default = %d, want %d", cfg.Server.Port, 8080)
	}
}

func TestConfig_DefaultChart(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.Equal(t, -100.0, cfg.Chart.AreaBaseline)
	assert.Equal(t, 3.0, cfg.Chart.YMax)
	assert.Equal(t, -3, cfg.Chart.GridMin)
	assert.Equal(t, 3, cfg.Chart.GridMax)
	assert.Equal(t, 50, cfg.Chart.MonthOffset)
	assert.Empty(t, cfg.Chart.Months)
	assert.Equal(t, "data/returns.json", cfg.Dataset.Path)
	assert.False(t, cfg.Dataset.Strict)
}

func TestConfig_PortEnvOverride(t *testing.T) {
	t.Setenv("RETURNCHART_PORT", "9090")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d after env override, want %d", cfg.Server.Port, 9090)
	}
}

func TestConfig_InvalidPortEnvIgnored(t *testing.T) {
	t.Setenv("RETURNCHART_PORT", "not-a-port")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestConfig_DatasetEnvOverrides(t *testing.T) {
	t.Setenv("RETURNCHART_DATA_PATH", "/srv/returns.json")
	t.Setenv("RETURNCHART_STRICT", "true")
	t.Setenv("RETURNCHART_CACHE_DIR", "/tmp/charts")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	assert.Equal(t, "/srv/returns.json", cfg.Dataset.Path)
	assert.True(t, cfg.Dataset.Strict)
	assert.Equal(t, "/tmp/charts", cfg.Cache.Dir)
}

func TestConfig_MonthsEnvOverride(t *testing.T) {
	t.Setenv("RETURNCHART_MONTHS", "January, February,,March")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	assert.Equal(t, []string{"January", "February", "March"}, cfg.Chart.Months)
}

func TestLoadConfig_LayeredFiles(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.toml")
	local := filepath.Join(dir, "local.toml")

	require.NoError(t, os.WriteFile(base, []byte(`
environment = "staging"

[server]
port = 7000

[chart]
width = 1200
months = ["January", "February", "March"]
`), 0o644))
	require.NoError(t, os.WriteFile(local, []byte(`
[server]
port = 7001
`), 0o644))

	cfg, err := LoadConfig(base, local, filepath.Join(dir, "missing.toml"), "")
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, 7001, cfg.Server.Port)
	assert.Equal(t, 1200, cfg.Chart.Width)
	assert.Equal(t, 400, cfg.Chart.Height, "unset keys keep defaults")
	assert.Equal(t, []string{"January", "February", "March"}, cfg.Chart.Months)
}

func TestLoadConfig_ParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server\nport = "), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestConfig_IsProduction(t *testing.T) {
	tests := []struct {
		env  string
		want bool
	}{
		{"production", true},
		{" Prod ", true},
		{"development", false},
		{"", false},
	}
	for _, tt := range tests {
		cfg := &Config{Environment: tt.env}
		assert.Equal(t, tt.want, cfg.IsProduction(), "env %q", tt.env)
	}
}

func TestLoadVersionFile(t *testing.T) {
	origVersion, origBuild, origCommit := Version, Build, GitCommit
	t.Cleanup(func() { Version, Build, GitCommit = origVersion, origBuild, origCommit })
	Version, Build, GitCommit = "dev", "unknown", "unknown"

	path := filepath.Join(t.TempDir(), ".version")
	require.NoError(t, os.WriteFile(path, []byte("# build info\nversion: 1.2.3\nbuild: 2026-01-02\ncommit: abc123\nbogus\n"), 0o644))

	loadVersionFile(path)

	assert.Equal(t, VersionInfo{Version: "1.2.3", Build: "2026-01-02", Commit: "abc123"}, GetVersionInfo())
}
