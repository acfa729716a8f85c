package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/bobmcallan/returnchart/internal/calendar"
)

// tooltipCmd holds the flags for the 'tooltip' subcommand.
type tooltipCmd struct {
	source
	date   string
	asJSON bool
}

func (*tooltipCmd) Name() string     { return "tooltip" }
func (*tooltipCmd) Synopsis() string { return "print the hover tooltip for one day" }
func (*tooltipCmd) Usage() string {
	return `returnchart tooltip -date <YYYY-MM-DD> [-data <file>] [-json]

  Prints the tooltip markup shown when hovering the given day.
`
}

func (c *tooltipCmd) SetFlags(f *flag.FlagSet) {
	c.source.setFlags(f)
	f.StringVar(&c.date, "date", "", "Day to describe, YYYY-MM-DD.")
	f.BoolVar(&c.asJSON, "json", false, "Print the full tooltip response as JSON.")
}

func (c *tooltipCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.date == "" {
		c.errorf("Error: -date is required\n")
		return subcommands.ExitUsageError
	}
	day, err := calendar.Parse(c.date)
	if err != nil {
		c.errorf("Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	l, err := c.load()
	if err != nil {
		c.errorf("Error loading dataset: %v\n", err)
		return subcommands.ExitFailure
	}

	resp, err := l.service.Tooltip(ctx, l.raw, day)
	if err != nil {
		c.errorf("Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.asJSON {
		enc := json.NewEncoder(c.out())
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			c.errorf("Error encoding tooltip: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	fmt.Fprintln(c.out(), resp.Markup)
	return subcommands.ExitSuccess
}
