package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/lattice-fi/lattice"
	"github.com/lattice-fi/lattice/coinbase"
)

type priceCmd struct{}

func (*priceCmd) Name() string     { return "price" }
func (*priceCmd) Synopsis() string { return "show the current spot price of products" }
func (*priceCmd) Usage() string {
	return `lat price <product>...

  Shows the current spot price of one or more products.

Usage Examples:
$ lat price BTC-USD ETH-USD

`
}

func (c *priceCmd) SetFlags(f *flag.FlagSet) {}

func (c *priceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	products := f.Args()
	if len(products) == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one product is required")
		return subcommands.ExitUsageError
	}

	client := coinbase.NewClient()
	status := subcommands.ExitSuccess
	for _, product := range products {
		spot, err := client.Spot(ctx, product)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error fetching %s: %v\n", product, err)
			status = subcommands.ExitFailure
			continue
		}
		fmt.Printf("%s: %s\n", product, lattice.M(spot, *quoteAsset))
	}
	return status
}
