package lattice

import "time"

// PriceOracle resolves asset prices and exchange rates at a given instant.
//
// Implementations answer from an already-resolved price source: the core
// imposes no timeout or retry policy of its own. If a price or rate cannot
// be resolved for the requested asset and instant, implementations return an
// error matching ErrUnpricedAsset.
type PriceOracle interface {
	// Price returns the price of one unit of asset, expressed in the
	// oracle's reference currency, at the given instant.
	Price(asset AssetID, at time.Time) (Quantity, error)

	// Rate returns units of `to` received per unit of `from` at the given
	// instant.
	Rate(from, to AssetID, at time.Time) (Quantity, error)
}
