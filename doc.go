// Package lattice tracks ownership of fungible assets over time and answers
// "what was this holding worth at time T".
//
// The core is an event-sourced ledger: an append-only record of signed
// asset-quantity changes, each tagged with an asset symbol and an effective
// timestamp. Entries do not have to arrive in chronological order; every
// derived view (balance per asset, balance at a past instant, monetary value)
// is recomputed from the entry timestamps alone.
//
// A Portfolio owns one Ledger and exposes the mutation surface (Credit,
// Debit, Exchange) and the query surface (CurrentBalances, ValueAt,
// ValueSeries, History). Monetary values are derived by joining balances
// against a PriceOracle; the in-memory MarketData implementation serves
// oracle lookups from externally supplied price history.
package lattice
