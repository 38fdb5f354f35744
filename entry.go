package lattice

import "time"

// Kind is a typed string identifying what produced a ledger entry.
type Kind string

// Entry kinds. An exchange always produces an adjacent ExchangeOut /
// ExchangeIn pair sharing one timestamp.
const (
	KindCredit      Kind = "credit"
	KindDebit       Kind = "debit"
	KindExchangeOut Kind = "exchange-out"
	KindExchangeIn  Kind = "exchange-in"
)

// Entry is one immutable balance change in a ledger.
//
// Amount is signed: positive is a credit, negative a debit. Time is the
// effective instant supplied by the caller; it may be earlier than entries
// already in the ledger, so replay logic must order by Time and never by
// position in the sequence. Once appended an Entry is never mutated or
// removed; corrections are new offsetting entries.
type Entry struct {
	Asset  AssetID
	Amount Quantity
	Time   time.Time
	Kind   Kind
}

// MarshalJSON implements the json.Marshaler interface for Entry.
func (e Entry) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("asset", e.Asset)
	w.Append("amount", e.Amount)
	w.Append("time", e.Time.UTC().Format(time.RFC3339))
	w.Optional("kind", string(e.Kind))
	return w.MarshalJSON()
}
