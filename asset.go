package lattice

import "strings"

// AssetID identifies a fungible asset (fiat or crypto) by an opaque symbol.
//
// Symbols are case-normalized but never validated against a registry: the set
// of known symbols is a policy decision left to callers.
type AssetID string

// Asset normalizes a symbol into an AssetID.
func Asset(symbol string) AssetID {
	return AssetID(strings.ToUpper(strings.TrimSpace(symbol)))
}

func (a AssetID) String() string { return string(a) }

// IsValid reports whether the asset carries a non-empty symbol.
func (a AssetID) IsValid() bool { return a != "" }
