package cli

import (
	"context"
	"encoding/json"
	"flag"

	"github.com/google/subcommands"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	source
	asJSON bool
	raw    bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "summarise both return series" }
func (*summaryCmd) Usage() string {
	return `returnchart summary [-data <file>] [-json] [-raw]

  Displays min, max, mean and last return for the account and the global index.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	c.source.setFlags(f)
	f.BoolVar(&c.asJSON, "json", false, "Print the summary as JSON.")
	f.BoolVar(&c.raw, "raw", false, "Print plain markdown without terminal styling.")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	l, err := c.load()
	if err != nil {
		c.errorf("Error loading dataset: %v\n", err)
		return subcommands.ExitFailure
	}

	sum, err := l.service.Summary(ctx, l.raw)
	if err != nil {
		c.errorf("Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.asJSON {
		if err := json.NewEncoder(c.out()).Encode(sum); err != nil {
			c.errorf("Error encoding summary: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	if err := printMarkdown(c.out(), summaryMarkdown(sum), c.raw); err != nil {
		c.errorf("Error rendering summary: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
