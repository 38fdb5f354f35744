package lattice

import (
	"iter"
	"time"
)

// Ledger is an append-only sequence of entries, kept in insertion order.
//
// The ledger is the only source of truth: balances, whether current or at a
// past instant, are always recomputed from the entries. Entries are not
// required to arrive in chronological order, so every balance query filters
// on the Entry.Time field and ignores positions in the sequence.
//
// A Ledger is exclusively owned by one Portfolio and is not safe for
// concurrent mutation; callers needing concurrency must serialize access.
type Ledger struct {
	entries []Entry
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{entries: make([]Entry, 0)}
}

// Append inserts an entry. There is no ordering constraint on the entry's
// timestamp relative to entries already present, and no failure condition:
// callers are responsible for validating amounts before appending.
func (l *Ledger) Append(entries ...Entry) {
	l.entries = append(l.entries, entries...)
}

// Len returns the number of entries appended so far.
func (l *Ledger) Len() int { return len(l.entries) }

// BalanceAsOf returns the signed sum of all entries for asset with a
// timestamp at or before t. An asset with no entries at or before t sums to
// zero; that is not an error.
func (l *Ledger) BalanceAsOf(asset AssetID, t time.Time) Quantity {
	var balance Quantity
	for _, e := range l.entries {
		if e.Asset != asset || e.Time.After(t) {
			continue
		}
		balance = balance.Add(e.Amount)
	}
	return balance
}

// BalancesAsOf returns every asset that has at least one entry at or before
// t, mapped to its summed amount. Assets whose sum is exactly zero are still
// present: a zeroed-out asset is distinguishable from one never held.
func (l *Ledger) BalancesAsOf(t time.Time) map[AssetID]Quantity {
	balances := make(map[AssetID]Quantity)
	for _, e := range l.entries {
		if e.Time.After(t) {
			continue
		}
		balances[e.Asset] = balances[e.Asset].Add(e.Amount)
	}
	return balances
}

// Entries returns an iterator over all entries in insertion order. The
// sequence is restartable: ranging over it again replays from the first
// entry. It exists for history inspection; valuation never depends on it.
func (l *Ledger) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, e := range l.entries {
			if !yield(e) {
				return
			}
		}
	}
}
