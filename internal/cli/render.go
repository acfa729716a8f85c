package cli

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"

	"github.com/bobmcallan/returnchart/internal/plot"
	"github.com/bobmcallan/returnchart/internal/services/chart"
)

// renderCmd holds the flags for the 'render' subcommand.
type renderCmd struct {
	source
	format string
	output string
	width  int
	height int
	months string
}

func (*renderCmd) Name() string     { return "render" }
func (*renderCmd) Synopsis() string { return "render the returns comparison chart" }
func (*renderCmd) Usage() string {
	return `returnchart render [-data <file>] [-format svg|png] [-o <file>]

  Renders the account vs global index returns chart. Use -o - to write the
  image to stdout.
`
}

func (c *renderCmd) SetFlags(f *flag.FlagSet) {
	c.source.setFlags(f)
	f.StringVar(&c.format, "format", "", "Output format, svg or png. Defaults to chart.format from the config.")
	f.StringVar(&c.output, "o", "", "Output file. Defaults to returns.<format>.")
	f.IntVar(&c.width, "width", 0, "Chart width in pixels.")
	f.IntVar(&c.height, "height", 0, "Chart height in pixels.")
	f.StringVar(&c.months, "months", "", "Comma separated month labels. Defaults to the months the data spans.")
}

func (c *renderCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	l, err := c.load()
	if err != nil {
		c.errorf("Error loading dataset: %v\n", err)
		return subcommands.ExitFailure
	}

	value := c.format
	if value == "" {
		value = l.config.Chart.Format
	}
	format, err := plot.ParseFormat(value)
	if err != nil {
		c.errorf("Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	opts := l.config.Chart
	if c.width > 0 {
		opts.Width = c.width
	}
	if c.height > 0 {
		opts.Height = c.height
	}
	if c.months != "" {
		opts.Months = splitList(c.months)
	}
	svc := chart.NewService(opts, l.logger)

	h, err := svc.Render(ctx, l.raw, format)
	if err != nil {
		c.errorf("Error rendering chart: %v\n", err)
		return subcommands.ExitFailure
	}

	output := c.output
	if output == "" {
		output = "returns." + string(format)
	}
	if output == "-" {
		if _, err := h.WriteTo(c.out()); err != nil {
			c.errorf("Error writing chart: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	if err := os.WriteFile(output, h.Bytes(), 0o644); err != nil {
		c.errorf("Error writing %s: %v\n", output, err)
		return subcommands.ExitFailure
	}
	c.errorf("Wrote %s (%d bytes)\n", output, len(h.Bytes()))
	return subcommands.ExitSuccess
}
