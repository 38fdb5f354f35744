// Package cmd implements the CLI application to fetch market data,
// compute allocations, and backtest them.
package cmd

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/lattice-fi/lattice"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&fetchCmd{}, "market data")
	c.Register(&priceCmd{}, "market data")

	c.Register(&allocateCmd{}, "analysis")
	c.Register(&backtestCmd{}, "analysis")

	c.Register(&topicCmd{}, "documentation")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var quoteAsset = flag.String("quote", "USD", "Quote currency for products and valuation")

// printMarkdown renders markdown for the terminal, falling back to the raw
// text when rendering fails.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// parseDay parses a day given on the command line.
func parseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q, want YYYY-MM-DD: %w", s, err)
	}
	return t, nil
}

// product builds the exchange product id for an asset against the global
// quote currency.
func product(asset lattice.AssetID) string {
	return string(asset) + "-" + *quoteAsset
}

// baseAsset extracts the base asset from a product id like "BTC-USD".
func baseAsset(product string) lattice.AssetID {
	base, _, _ := strings.Cut(product, "-")
	return lattice.Asset(base)
}

// parseWeights parses an allocation given as "BTC=60,ETH=40" into percents.
func parseWeights(s string) (map[lattice.AssetID]float64, error) {
	weights := make(map[lattice.AssetID]float64)
	var total float64
	for _, pair := range strings.Split(s, ",") {
		name, percent, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			return nil, fmt.Errorf("invalid weight %q, want ASSET=PERCENT", pair)
		}
		w, err := strconv.ParseFloat(percent, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid weight %q: %w", pair, err)
		}
		if w <= 0 {
			return nil, fmt.Errorf("invalid weight %q: percent must be positive", pair)
		}
		asset := lattice.Asset(name)
		if !asset.IsValid() {
			return nil, fmt.Errorf("invalid weight %q: empty asset", pair)
		}
		weights[asset] = w
		total += w
	}
	if total > 100 {
		return nil, fmt.Errorf("weights sum to %.2f, want at most 100", total)
	}
	return weights, nil
}
