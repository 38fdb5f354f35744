package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/lattice-fi/lattice/coinbase"
)

type fetchCmd struct {
	product     string
	start, end  string
	granularity time.Duration
	output      string
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "fetch historic candles for a product" }
func (*fetchCmd) Usage() string {
	return `lat fetch -product <id> -start <day> -end <day> [-granularity <duration>] [-o <file>]

  Fetches historic candles from the exchange and writes them as CSV
  (time, low, high, open, close, volume). Long ranges are split into
  several requests; responses are cached on disk for a day.

Usage Examples:
# Six months of daily BTC-USD candles.
$ lat fetch -product BTC-USD -start 2017-06-01 -end 2017-12-01 -o btc.csv

`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.product, "product", "", "Product id, like BTC-USD")
	f.StringVar(&c.start, "start", "", "First day of the range (YYYY-MM-DD)")
	f.StringVar(&c.end, "end", "", "Last day of the range (YYYY-MM-DD)")
	f.DurationVar(&c.granularity, "granularity", 24*time.Hour, "Candle granularity (1m, 5m, 15m, 1h, 6h or 24h)")
	f.StringVar(&c.output, "o", "", "Output file, stdout when empty")
}

func (c *fetchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	start, err := parseDay(c.start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	end, err := parseDay(c.end)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if c.product == "" {
		fmt.Fprintln(os.Stderr, "Error: -product is required")
		return subcommands.ExitUsageError
	}

	pipeline, err := coinbase.NewPipeline(c.product, start, end, c.granularity)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	var w io.Writer = os.Stdout
	if c.output != "" {
		file, err := os.Create(c.output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.output, err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		w = file
	}

	if err := pipeline.WriteCSV(ctx, w); err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching %s: %v\n", c.product, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
