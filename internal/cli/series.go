package cli

import (
	"context"
	"encoding/json"
	"flag"

	"github.com/google/subcommands"

	"github.com/bobmcallan/returnchart/internal/models"
)

// seriesCmd holds the flags for the 'series' subcommand.
type seriesCmd struct {
	source
	asJSON bool
	raw    bool
}

func (*seriesCmd) Name() string     { return "series" }
func (*seriesCmd) Synopsis() string { return "list the chart series day by day" }
func (*seriesCmd) Usage() string {
	return `returnchart series [-data <file>] [-json] [-raw]

  Lists the account and global index return for every day of the dataset.
`
}

func (c *seriesCmd) SetFlags(f *flag.FlagSet) {
	c.source.setFlags(f)
	f.BoolVar(&c.asJSON, "json", false, "Print the series as JSON.")
	f.BoolVar(&c.raw, "raw", false, "Print plain markdown without terminal styling.")
}

func (c *seriesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	l, err := c.load()
	if err != nil {
		c.errorf("Error loading dataset: %v\n", err)
		return subcommands.ExitFailure
	}

	series, err := l.service.Series(ctx, l.raw)
	if err != nil {
		c.errorf("Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.asJSON {
		if err := json.NewEncoder(c.out()).Encode(models.NewSeriesResponse(series)); err != nil {
			c.errorf("Error encoding series: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	if err := printMarkdown(c.out(), seriesMarkdown(series), c.raw); err != nil {
		c.errorf("Error rendering series: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
