package lattice

import "errors"

// All core failures are local validation failures: a failed operation leaves
// the ledger exactly as it was before the call. Callers match these with
// errors.Is; the wrapping message names the operation and asset that
// triggered the failure.
var (
	// ErrInvalidAmount reports a non-positive amount passed to a mutating
	// call.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInsufficientBalance reports a debit or exchange that would drive an
	// asset's present balance negative.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrUnpricedAsset reports that the price oracle has no price or rate for
	// the requested asset and instant.
	ErrUnpricedAsset = errors.New("unpriced asset")

	// ErrSameAssetExchange reports an exchange where both sides name the same
	// asset.
	ErrSameAssetExchange = errors.New("same asset exchange")
)
