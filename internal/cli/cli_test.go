package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testData = `{"2024-01-05":[1.2,0.8],"2024-01-31":[1.5,1.0],"2024-02-05":[-0.4,0.3]}`

func writeData(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "returns.json")
	require.NoError(t, os.WriteFile(path, []byte(testData), 0o644))
	return path
}

type testCommand interface {
	subcommands.Command
	streams() *source
}

func (c *renderCmd) streams() *source  { return &c.source }
func (c *tooltipCmd) streams() *source { return &c.source }
func (c *seriesCmd) streams() *source  { return &c.source }
func (c *summaryCmd) streams() *source { return &c.source }

// run parses args into cmd's flags and executes it, capturing output.
func run(t *testing.T, cmd testCommand, args ...string) (subcommands.ExitStatus, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd.streams().stdout = &stdout
	cmd.streams().stderr = &stderr

	f := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.SetFlags(f)
	require.NoError(t, f.Parse(args))

	status := cmd.Execute(context.Background(), f)
	return status, stdout.String(), stderr.String()
}

func TestRenderCmd_WritesFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "chart.svg")

	status, _, stderr := run(t, &renderCmd{}, "-config", "", "-data", writeData(t), "-o", out, "-months", "January,February")
	require.Equal(t, subcommands.ExitSuccess, status, stderr)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
	assert.Contains(t, string(data), "February")
}

func TestRenderCmd_Stdout(t *testing.T) {
	status, stdout, stderr := run(t, &renderCmd{}, "-config", "", "-data", writeData(t), "-format", "png", "-o", "-")
	require.Equal(t, subcommands.ExitSuccess, status, stderr)
	assert.Equal(t, "\x89PNG", stdout[:4])
}

func TestRenderCmd_BadFormat(t *testing.T) {
	status, _, _ := run(t, &renderCmd{}, "-config", "", "-data", writeData(t), "-format", "gif")
	assert.Equal(t, subcommands.ExitUsageError, status)
}

func TestRenderCmd_MissingData(t *testing.T) {
	status, _, stderr := run(t, &renderCmd{}, "-config", "", "-data", filepath.Join(t.TempDir(), "nope.json"))
	assert.Equal(t, subcommands.ExitFailure, status)
	assert.Contains(t, stderr, "Error loading dataset")
}

func TestTooltipCmd(t *testing.T) {
	status, stdout, stderr := run(t, &tooltipCmd{}, "-config", "", "-data", writeData(t), "-date", "2024-01-05")
	require.Equal(t, subcommands.ExitSuccess, status, stderr)

	assert.Contains(t, stdout, "01/05/2024")
	assert.Contains(t, stdout, "Your account: 1.2%")
	assert.Contains(t, stdout, "Global Index: 0.8%")
}

func TestTooltipCmd_JSON(t *testing.T) {
	status, stdout, stderr := run(t, &tooltipCmd{}, "-config", "", "-data", writeData(t), "-date", "2024-01-31", "-json")
	require.Equal(t, subcommands.ExitSuccess, status, stderr)

	var resp map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "2024-01-31", resp["date"])
	assert.Equal(t, 1.5, resp["account"])
}

func TestTooltipCmd_Errors(t *testing.T) {
	status, _, _ := run(t, &tooltipCmd{}, "-config", "", "-data", writeData(t))
	assert.Equal(t, subcommands.ExitUsageError, status)

	status, _, stderr := run(t, &tooltipCmd{}, "-config", "", "-data", writeData(t), "-date", "2024-07-01")
	assert.Equal(t, subcommands.ExitFailure, status)
	assert.Contains(t, stderr, "date not in dataset")
}

func TestSeriesCmd_Raw(t *testing.T) {
	status, stdout, stderr := run(t, &seriesCmd{}, "-config", "", "-data", writeData(t), "-raw")
	require.Equal(t, subcommands.ExitSuccess, status, stderr)

	assert.Contains(t, stdout, "| 2024-01-05 | 1.2% | 0.8% |")
	assert.Contains(t, stdout, "| 2024-02-05 | -0.4% | 0.3% |")
}

func TestSeriesCmd_JSON(t *testing.T) {
	status, stdout, stderr := run(t, &seriesCmd{}, "-config", "", "-data", writeData(t), "-json")
	require.Equal(t, subcommands.ExitSuccess, status, stderr)

	var resp struct {
		Dates []string `json:"dates"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, []string{"2024-01-05", "2024-01-31", "2024-02-05"}, resp.Dates)
}

func TestSummaryCmd_Raw(t *testing.T) {
	status, stdout, stderr := run(t, &summaryCmd{}, "-config", "", "-data", writeData(t), "-raw")
	require.Equal(t, subcommands.ExitSuccess, status, stderr)

	assert.Contains(t, stdout, "# Returns 2024-01-05 to 2024-02-05")
	assert.Contains(t, stdout, "| Your account | 3 | -0.4% | 1.5% |")
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"January", "February"}, splitList(" January,, February "))
	assert.Nil(t, splitList(""))
}
