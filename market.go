package lattice

import (
	"fmt"
	"sort"
	"time"
)

// pricePoint is one observed price for an asset.
type pricePoint struct {
	at    time.Time
	price Quantity
}

// MarketData is an in-memory PriceOracle backed by externally supplied price
// history. Every asset holds a time-sorted series of observations in the
// reference currency; lookups resolve to the most recent observation at or
// before the requested instant.
type MarketData struct {
	reference AssetID
	series    map[AssetID][]pricePoint
}

// NewMarketData returns an empty price collection whose prices are expressed
// in the given reference asset.
func NewMarketData(reference AssetID) *MarketData {
	return &MarketData{
		reference: reference,
		series:    make(map[AssetID][]pricePoint),
	}
}

// Reference returns the asset all prices are expressed in.
func (m *MarketData) Reference() AssetID { return m.reference }

// Add records one price observation for asset at the given instant. The
// series stays sorted, so observations may be added in any order.
//
// Non-positive prices are ignored: exchanges report a zero close for
// instruments that have not traded yet, and a zero price is unusable as a
// conversion rate.
func (m *MarketData) Add(asset AssetID, at time.Time, price Quantity) {
	if !price.IsPositive() {
		return
	}
	points := m.series[asset]
	i := sort.Search(len(points), func(i int) bool { return points[i].at.After(at) })
	points = append(points, pricePoint{})
	copy(points[i+1:], points[i:])
	points[i] = pricePoint{at: at, price: price}
	m.series[asset] = points
}

// Has reports whether any observation exists for asset.
func (m *MarketData) Has(asset AssetID) bool { return len(m.series[asset]) > 0 }

// Price returns the price of one unit of asset in the reference currency at
// the given instant, resolved as-of: the most recent observation at or
// before the instant wins. The reference asset always prices at 1.
func (m *MarketData) Price(asset AssetID, at time.Time) (Quantity, error) {
	if asset == m.reference {
		return Q(1), nil
	}
	points := m.series[asset]
	// first index strictly after `at`; the observation before it is the answer.
	i := sort.Search(len(points), func(i int) bool { return points[i].at.After(at) })
	if i == 0 {
		return Quantity{}, fmt.Errorf("no %s price at or before %s: %w", asset, at.UTC().Format(time.RFC3339), ErrUnpricedAsset)
	}
	return points[i-1].price, nil
}

// Rate returns units of `to` per unit of `from` at the given instant,
// derived from the two reference-currency prices.
func (m *MarketData) Rate(from, to AssetID, at time.Time) (Quantity, error) {
	if from == to {
		return Q(1), nil
	}
	fromPrice, err := m.Price(from, at)
	if err != nil {
		return Quantity{}, err
	}
	toPrice, err := m.Price(to, at)
	if err != nil {
		return Quantity{}, err
	}
	return fromPrice.Div(toPrice), nil
}
