package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/lattice-fi/lattice/cmd"
)

func main() {
	// Shell completion, a no-op outside of completion mode.
	completion().Complete("lat")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func completion() *complete.Command {
	day := predict.Nothing
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"quote": predict.Set{"USD", "EUR", "USDT"},
		},
		Sub: map[string]*complete.Command{
			"fetch": {Flags: map[string]complete.Predictor{
				"product":     predict.Nothing,
				"start":       day,
				"end":         day,
				"granularity": predict.Set{"1m", "5m", "15m", "1h", "6h", "24h"},
				"o":           predict.Files("*.csv"),
			}},
			"price": {},
			"allocate": {Flags: map[string]complete.Predictor{
				"products":    predict.Nothing,
				"start":       day,
				"end":         day,
				"granularity": predict.Set{"1m", "5m", "15m", "1h", "6h", "24h"},
				"points":      predict.Nothing,
			}},
			"backtest": {Flags: map[string]complete.Predictor{
				"amount":  predict.Nothing,
				"start":   day,
				"end":     day,
				"step":    predict.Set{"1h", "6h", "24h"},
				"weights": predict.Nothing,
				"chart":   predict.Files("*.png"),
				"json":    predict.Nothing,
			}},
			"topic": {Args: predict.Set{
				"readme", "getting-started", "valuation", "backtesting", "allocation", "*",
			}},
		},
	}
}
