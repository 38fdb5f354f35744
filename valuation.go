package lattice

import (
	"fmt"
	"maps"
	"slices"
	"time"
)

// Valuate folds a balance snapshot into a single monetary value by pricing
// every non-zero balance through the oracle and summing in the reference
// currency.
//
// Assets with a zero balance are skipped entirely: they trigger no oracle
// call, so a zeroed-out holding of an unpriced asset cannot poison the
// total. A balance of the reference asset contributes its amount directly.
// The result is deterministic for a fixed oracle.
func Valuate(balances map[AssetID]Quantity, at time.Time, reference AssetID, oracle PriceOracle) (Money, error) {
	total := M(0, reference.String())
	// iterate in stable order so the first failing asset is deterministic.
	for _, asset := range slices.Sorted(maps.Keys(balances)) {
		amount := balances[asset]
		if amount.IsZero() {
			continue
		}
		if asset == reference {
			total = total.Add(M(amount.Decimal(), reference.String()))
			continue
		}
		price, err := oracle.Price(asset, at)
		if err != nil {
			return Money{}, fmt.Errorf("valuation of %s: %w", asset, err)
		}
		total = total.Add(M(price.Mul(amount).Decimal(), reference.String()))
	}
	return total, nil
}

// Point is one instant of a value series.
//
// When the oracle has no price for some asset held at Time, Err carries the
// failure (matching ErrUnpricedAsset) and Value is the zero Money; the rest
// of the series is unaffected.
type Point struct {
	Time  time.Time
	Value Money
	Err   error
}

// MarshalJSON implements the json.Marshaler interface for Point.
func (p Point) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("time", p.Time.UTC().Format(time.RFC3339))
	if p.Err != nil {
		w.Append("error", p.Err.Error())
	} else {
		w.Append("value", p.Value)
	}
	return w.MarshalJSON()
}
