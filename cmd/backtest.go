package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"maps"
	"os"
	"slices"
	"time"

	"github.com/google/subcommands"

	"github.com/lattice-fi/lattice"
	"github.com/lattice-fi/lattice/coinbase"
	"github.com/lattice-fi/lattice/renderer"
)

type backtestCmd struct {
	amount     float64
	start, end string
	step       time.Duration
	weights    string
	chart      string
	jsonOut    bool
}

func (*backtestCmd) Name() string     { return "backtest" }
func (*backtestCmd) Synopsis() string { return "replay an allocation over historic prices" }
func (*backtestCmd) Usage() string {
	return `lat backtest -amount <n> -start <day> -end <day> -weights <asset=percent,...> [-chart <file>] [-json]

  Seeds a portfolio with the given amount of quote currency at the start
  day, exchanges it into the given weights at the start prices, then
  values the portfolio at every step until the end day.

Usage Examples:
$ lat backtest -amount 10000 -start 2017-06-01 -end 2017-12-01 -weights 'BTC=60,ETH=40'

`
}

func (c *backtestCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.amount, "amount", 10000, "Initial amount of quote currency")
	f.StringVar(&c.start, "start", "", "First day of the backtest (YYYY-MM-DD)")
	f.StringVar(&c.end, "end", "", "Last day of the backtest (YYYY-MM-DD)")
	f.DurationVar(&c.step, "step", 24*time.Hour, "Valuation step, also the candle granularity")
	f.StringVar(&c.weights, "weights", "", "Allocation, like 'BTC=60,ETH=40'")
	f.StringVar(&c.chart, "chart", "", "Also write a PNG chart of the value series to this file")
	f.BoolVar(&c.jsonOut, "json", false, "Emit the history and value series as JSON instead of markdown")
}

func (c *backtestCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	if c.amount <= 0 {
		fmt.Fprintln(os.Stderr, "Error: -amount must be positive")
		return subcommands.ExitUsageError
	}
	weights, err := parseWeights(c.weights)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	reference := lattice.Asset(*quoteAsset)
	market := lattice.NewMarketData(reference)
	assets := slices.Sorted(maps.Keys(weights))
	for _, asset := range assets {
		pipeline, err := coinbase.NewPipeline(product(asset), start, end, c.step)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		candles, err := pipeline.Fetch(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error fetching %s: %v\n", product(asset), err)
			return subcommands.ExitFailure
		}
		coinbase.LoadMarketData(market, asset, candles)
	}

	p, err := lattice.NewPortfolioAt(market, reference,
		map[lattice.AssetID]lattice.Quantity{reference: lattice.Q(c.amount)}, start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	for _, asset := range assets {
		spend := lattice.Q(c.amount * weights[asset] / 100)
		if _, err := p.Exchange(spend, reference, asset, start); err != nil {
			fmt.Fprintf(os.Stderr, "Error exchanging into %s: %v\n", asset, err)
			return subcommands.ExitFailure
		}
	}

	points := slices.Collect(p.ValueSeries(start, end, c.step))
	if c.jsonOut {
		doc := struct {
			Reference lattice.AssetID `json:"reference"`
			History   []lattice.Entry `json:"history"`
			Series    []lattice.Point `json:"series"`
		}{
			Reference: p.Reference(),
			History:   slices.Collect(p.History()),
			Series:    points,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding report: %v\n", err)
			return subcommands.ExitFailure
		}
	} else {
		report, err := backtestReport(p, points, end)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		printMarkdown(renderer.BacktestMarkdown(report))
	}

	if c.chart != "" {
		png, err := renderer.ValueChart(points, "Backtest")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering chart: %v\n", err)
			return subcommands.ExitFailure
		}
		if err := os.WriteFile(c.chart, png, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", c.chart, err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(os.Stderr, "Chart written to %s\n", c.chart)
	}
	return subcommands.ExitSuccess
}

// backtestReport assembles the report data from a finished backtest.
func backtestReport(p *lattice.Portfolio, points []lattice.Point, end time.Time) (*renderer.BacktestReport, error) {
	final, err := p.ValueAt(end)
	if err != nil {
		return nil, fmt.Errorf("final valuation: %w", err)
	}

	report := &renderer.BacktestReport{
		Reference: string(p.Reference()),
		Start:     p.CreatedAt().Format("2006-01-02"),
		End:       end.Format("2006-01-02"),
		Final:     final.String(),
	}

	balances := p.BalancesAsOf(end)
	for _, asset := range slices.Sorted(maps.Keys(balances)) {
		quantity := balances[asset]
		if quantity.IsZero() {
			continue
		}
		value, err := p.AssetValueAt(asset, end)
		if err != nil {
			return nil, fmt.Errorf("valuing %s: %w", asset, err)
		}
		report.Holdings = append(report.Holdings, renderer.HoldingRow{
			Asset:    string(asset),
			Quantity: quantity.String(),
			Value:    value.String(),
		})
	}

	for entry := range p.History() {
		report.History = append(report.History, renderer.HistoryRow{
			Time:   entry.Time.Format("2006-01-02"),
			Kind:   string(entry.Kind),
			Asset:  string(entry.Asset),
			Amount: entry.Amount.String(),
		})
	}

	for _, point := range points {
		row := renderer.SeriesRow{Time: point.Time.Format("2006-01-02")}
		if point.Err != nil {
			row.Unpriced = true
		} else {
			row.Value = point.Value.String()
		}
		report.Series = append(report.Series, row)
	}
	return report, nil
}
