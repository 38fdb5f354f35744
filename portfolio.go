package lattice

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"time"
)

// Portfolio is the mutation and query surface over one exclusively-owned
// Ledger.
//
// Every mutation is a pure append-or-reject transition: validation happens
// strictly before any append, so a failed call leaves the ledger untouched.
// A Portfolio is not safe for concurrent mutation; callers needing
// concurrency must serialize calls against it.
//
// The zero time.Time passed to any operation means "now" according to the
// portfolio's clock. The clock is injectable (SetClock) so that valuation
// stays deterministic under test.
type Portfolio struct {
	ledger    *Ledger
	oracle    PriceOracle
	reference AssetID
	createdAt time.Time
	now       func() time.Time
}

// NewPortfolio creates an empty portfolio valued in the given reference
// asset.
func NewPortfolio(oracle PriceOracle, reference AssetID) *Portfolio {
	p := &Portfolio{
		ledger:    NewLedger(),
		oracle:    oracle,
		reference: reference,
		now:       time.Now,
	}
	p.createdAt = p.now()
	return p
}

// NewPortfolioAt creates a portfolio seeded with initial holdings. Each
// nonzero initial amount becomes one credit entry timestamped at createdAt;
// a zero createdAt means now. Negative initial amounts are rejected with
// ErrInvalidAmount and leave the portfolio unconstructed.
func NewPortfolioAt(oracle PriceOracle, reference AssetID, initial map[AssetID]Quantity, createdAt time.Time) (*Portfolio, error) {
	p := NewPortfolio(oracle, reference)
	if !createdAt.IsZero() {
		p.createdAt = createdAt
	}
	for _, asset := range slices.Sorted(maps.Keys(initial)) {
		amount := initial[asset]
		if amount.IsNegative() {
			return nil, fmt.Errorf("initial %s amount %s: %w", asset, amount, ErrInvalidAmount)
		}
		if amount.IsZero() {
			continue
		}
		p.ledger.Append(Entry{Asset: asset, Amount: amount, Time: p.createdAt, Kind: KindCredit})
	}
	return p, nil
}

// SetClock replaces the portfolio's notion of "now".
func (p *Portfolio) SetClock(now func() time.Time) { p.now = now }

// CreatedAt returns the portfolio's creation instant.
func (p *Portfolio) CreatedAt() time.Time { return p.createdAt }

// Reference returns the asset portfolio values are expressed in.
func (p *Portfolio) Reference() AssetID { return p.reference }

// at resolves the "now" default for caller-supplied timestamps.
func (p *Portfolio) at(t time.Time) time.Time {
	if t.IsZero() {
		return p.now()
	}
	return t
}

func checkAmount(op string, asset AssetID, amount Quantity) error {
	if !asset.IsValid() {
		return fmt.Errorf("%s: empty asset symbol", op)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%s %s amount %s: %w", op, asset, amount, ErrInvalidAmount)
	}
	return nil
}

// Credit adds amount of asset to the portfolio, effective at the given
// instant. The amount must be strictly positive.
func (p *Portfolio) Credit(asset AssetID, amount Quantity, at time.Time) error {
	if err := checkAmount("credit", asset, amount); err != nil {
		return err
	}
	p.ledger.Append(Entry{Asset: asset, Amount: amount, Time: p.at(at), Kind: KindCredit})
	return nil
}

// Debit removes amount of asset from the portfolio, effective at the given
// instant.
//
// Solvency is checked against the *current* balance, not the balance as of a
// backdated instant: the ledger accepts retroactive entries, so "you can't
// spend what you don't currently have" is the only check that stays
// consistent under out-of-order appends.
func (p *Portfolio) Debit(asset AssetID, amount Quantity, at time.Time) error {
	if err := checkAmount("debit", asset, amount); err != nil {
		return err
	}
	if held := p.ledger.BalanceAsOf(asset, p.now()); held.LessThan(amount) {
		return fmt.Errorf("debit %s %s but only %s held: %w", amount, asset, held, ErrInsufficientBalance)
	}
	p.ledger.Append(Entry{Asset: asset, Amount: amount.Neg(), Time: p.at(at), Kind: KindDebit})
	return nil
}

// Exchange converts amount of `from` into `to` at the oracle's rate for the
// given instant, and returns the acquired quantity.
//
// The debit and credit form one atomic unit: all preconditions (distinct
// assets, positive amount, resolvable rate, sufficient current balance of
// `from`) are validated first, then both entries are appended with no
// failure point in between. A failed exchange appends nothing.
func (p *Portfolio) Exchange(amount Quantity, from, to AssetID, at time.Time) (Quantity, error) {
	if from == to {
		return Quantity{}, fmt.Errorf("exchange %s for itself: %w", from, ErrSameAssetExchange)
	}
	if err := checkAmount("exchange", from, amount); err != nil {
		return Quantity{}, err
	}
	if !to.IsValid() {
		return Quantity{}, fmt.Errorf("exchange: empty asset symbol")
	}
	when := p.at(at)
	rate, err := p.oracle.Rate(from, to, when)
	if err != nil {
		return Quantity{}, fmt.Errorf("exchange %s->%s: %w", from, to, err)
	}
	if held := p.ledger.BalanceAsOf(from, p.now()); held.LessThan(amount) {
		return Quantity{}, fmt.Errorf("exchange %s %s but only %s held: %w", amount, from, held, ErrInsufficientBalance)
	}
	acquired := amount.Mul(rate)
	p.ledger.Append(
		Entry{Asset: from, Amount: amount.Neg(), Time: when, Kind: KindExchangeOut},
		Entry{Asset: to, Amount: acquired, Time: when, Kind: KindExchangeIn},
	)
	return acquired, nil
}

// CurrentBalances returns the balance of every asset ever recorded, as of
// now. Zeroed-out assets are present with a zero quantity.
func (p *Portfolio) CurrentBalances() map[AssetID]Quantity {
	return p.ledger.BalancesAsOf(p.now())
}

// BalanceAsOf returns the balance of one asset restricted to entries
// effective at or before t. A zero t means now.
func (p *Portfolio) BalanceAsOf(asset AssetID, t time.Time) Quantity {
	return p.ledger.BalanceAsOf(asset, p.at(t))
}

// BalancesAsOf returns the full balance map restricted to entries effective
// at or before t. A zero t means now.
func (p *Portfolio) BalancesAsOf(t time.Time) map[AssetID]Quantity {
	return p.ledger.BalancesAsOf(p.at(t))
}

// ValueAt values the whole portfolio in the reference asset at the given
// instant (zero means now).
func (p *Portfolio) ValueAt(at time.Time) (Money, error) {
	when := p.at(at)
	return Valuate(p.ledger.BalancesAsOf(when), when, p.reference, p.oracle)
}

// AssetValueAt values a single holding in the reference asset at the given
// instant. A zero balance values to zero without consulting the oracle.
func (p *Portfolio) AssetValueAt(asset AssetID, at time.Time) (Money, error) {
	when := p.at(at)
	balance := p.ledger.BalanceAsOf(asset, when)
	return Valuate(map[AssetID]Quantity{asset: balance}, when, p.reference, p.oracle)
}

// ValueSeries produces the portfolio value at step-spaced instants from
// start to end inclusive. The sequence is lazy, finite and restartable.
//
// A missing oracle price at one instant is recorded on that point's Err and
// does not abort the series. ValueSeries panics if step is not positive.
func (p *Portfolio) ValueSeries(start, end time.Time, step time.Duration) iter.Seq[Point] {
	if step <= 0 {
		panic("lattice: non-positive ValueSeries step")
	}
	return func(yield func(Point) bool) {
		for t := start; !t.After(end); t = t.Add(step) {
			value, err := p.ValueAt(t)
			if !yield(Point{Time: t, Value: value, Err: err}) {
				return
			}
		}
	}
}

// History returns the ledger entries in insertion order, each annotated with
// the operation that produced it. The two halves of an exchange appear as an
// adjacent debit+credit pair sharing one timestamp.
func (p *Portfolio) History() iter.Seq[Entry] {
	return p.ledger.Entries()
}
