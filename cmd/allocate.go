package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/subcommands"

	"github.com/lattice-fi/lattice/allocate"
	"github.com/lattice-fi/lattice/coinbase"
	"github.com/lattice-fi/lattice/renderer"
)

type allocateCmd struct {
	products    string
	start, end  string
	granularity time.Duration
	points      int
}

func (*allocateCmd) Name() string     { return "allocate" }
func (*allocateCmd) Synopsis() string { return "compute mean-variance allocations from price history" }
func (*allocateCmd) Usage() string {
	return `lat allocate -products <id,...> -start <day> -end <day> [-points <n>]

  Fetches price history for the given products and prints the efficient
  frontier: allocations sweeping from minimum risk to maximum return.

Usage Examples:
$ lat allocate -products BTC-USD,ETH-USD,LTC-USD -start 2017-06-01 -end 2017-12-01

`
}

func (c *allocateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.products, "products", "", "Comma-separated product ids, like BTC-USD,ETH-USD")
	f.StringVar(&c.start, "start", "", "First day of the history (YYYY-MM-DD)")
	f.StringVar(&c.end, "end", "", "Last day of the history (YYYY-MM-DD)")
	f.DurationVar(&c.granularity, "granularity", 24*time.Hour, "Candle granularity (1m, 5m, 15m, 1h, 6h or 24h)")
	f.IntVar(&c.points, "points", 10, "Number of allocations on the frontier")
}

func (c *allocateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	products := strings.Split(c.products, ",")
	if c.products == "" || len(products) < 2 {
		fmt.Fprintln(os.Stderr, "Error: at least two products are required")
		return subcommands.ExitUsageError
	}

	var assets []string
	prices := make(map[string][]float64)
	for _, p := range products {
		pipeline, err := coinbase.NewPipeline(p, start, end, c.granularity)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		candles, err := pipeline.Fetch(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error fetching %s: %v\n", p, err)
			return subcommands.ExitFailure
		}
		asset := string(baseAsset(p))
		closes := make([]float64, len(candles))
		for i, candle := range candles {
			closes[i] = candle.Close
		}
		assets = append(assets, asset)
		prices[asset] = closes
	}

	allocator, err := allocate.New(assets, prices)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	var rows []renderer.FrontierRow
	for _, a := range allocator.Frontier(c.points) {
		var weights []string
		for _, asset := range assets {
			if w := a.Weights[asset]; w > 0 {
				weights = append(weights, fmt.Sprintf("%s %.2f%%", asset, w))
			}
		}
		rows = append(rows, renderer.FrontierRow{
			Weights: strings.Join(weights, ", "),
			Return:  fmt.Sprintf("%.4f", a.Return),
			Risk:    fmt.Sprintf("%.6f", a.Risk),
		})
	}
	printMarkdown(renderer.FrontierMarkdown(rows))
	return subcommands.ExitSuccess
}
