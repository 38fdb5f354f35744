package coinbase

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/PaesslerAG/jsonpath"
)

/*
	{
	    "ask": "105287.1",
	    "bid": "105284.04",
	    "volume": "7775.01407467",
	    "trade_id": 826378793,
	    "price": "105287.06",
	    "size": "0.00018597",
	    "time": "2025-06-10T17:21:25.411934Z"
	}
*/

// Spot returns the latest traded price for a product.
func (c *Client) Spot(ctx context.Context, product string) (float64, error) {
	var jobj any
	addr := fmt.Sprintf("/products/%s/ticker", url.PathEscape(product))
	if err := c.getJSON(ctx, addr, &jobj); err != nil {
		return 0, fmt.Errorf("error retrieving %q ticker: %w", product, err)
	}

	path := "$.price"
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return 0, fmt.Errorf("error parsing %q ticker: %q %w", product, path, err)
	}
	// because jsonpath is never clear about whether it returns a list of one
	// answer or a single answer, keep the first one if any.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}

	s, ok := jval.(string)
	if !ok {
		return 0, fmt.Errorf("error parsing %q ticker: price %v is not a string", product, jval)
	}
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("error parsing %q ticker price %q: %w", product, s, err)
	}
	return val, nil
}
