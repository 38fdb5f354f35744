package lattice

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

// countingOracle wraps a PriceOracle and records every priced asset.
type countingOracle struct {
	PriceOracle
	priced []AssetID
}

func (c *countingOracle) Price(asset AssetID, at time.Time) (Quantity, error) {
	c.priced = append(c.priced, asset)
	return c.PriceOracle.Price(asset, at)
}

func TestValuate(t *testing.T) {
	market := testMarket()

	testCases := []struct {
		name     string
		balances map[AssetID]Quantity
		want     Quantity
	}{
		{
			name:     "reference only",
			balances: map[AssetID]Quantity{"USD": Q(10000)},
			want:     Q(10000),
		},
		{
			name:     "mixed holdings",
			balances: map[AssetID]Quantity{"USD": Q(1000), "BTC": Q(2)},
			want:     Q(27000),
		},
		{
			name:     "empty balances",
			balances: nil,
			want:     Q(0),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Valuate(tc.balances, day(5), "USD", market)
			if err != nil {
				t.Fatalf("Valuate() error = %v", err)
			}
			if !got.Amount().Equal(tc.want) {
				t.Errorf("Valuate() = %s, want %s USD", got, tc.want)
			}
			if got.Currency() != "USD" {
				t.Errorf("Valuate() currency = %s, want USD", got.Currency())
			}
		})
	}
}

func TestValuate_SkipsZeroBalances(t *testing.T) {
	// XMR has no price history, but its balance is exactly zero: the oracle
	// must not be asked for it at all.
	oracle := &countingOracle{PriceOracle: testMarket()}
	balances := map[AssetID]Quantity{"USD": Q(100), "XMR": Q(0)}

	got, err := Valuate(balances, day(5), "USD", oracle)
	if err != nil {
		t.Fatalf("Valuate() error = %v", err)
	}
	if !got.Amount().Equal(Q(100)) {
		t.Errorf("Valuate() = %s, want 100 USD", got)
	}
	if len(oracle.priced) != 0 {
		t.Errorf("oracle was consulted for %v; zero balances must be skipped", oracle.priced)
	}
}

func TestValuate_UnpricedAsset(t *testing.T) {
	_, err := Valuate(map[AssetID]Quantity{"XMR": Q(1)}, day(5), "USD", testMarket())
	if !errors.Is(err, ErrUnpricedAsset) {
		t.Errorf("Valuate() error = %v, want ErrUnpricedAsset", err)
	}
}

func TestPortfolio_ValueAt(t *testing.T) {
	p := newTestPortfolio(t, map[AssetID]Quantity{"USD": Q(10000)})
	if err := p.Credit("BTC", Q(2), day(10)); err != nil {
		t.Fatalf("Credit() error = %v", err)
	}

	testCases := []struct {
		name string
		at   time.Time
		want Quantity
	}{
		{
			name: "before the BTC credit",
			at:   day(5),
			want: Q(10000),
		},
		{
			name: "after the BTC credit",
			at:   day(15),
			want: Q(36000),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := p.ValueAt(tc.at)
			if err != nil {
				t.Fatalf("ValueAt() error = %v", err)
			}
			if !got.Amount().Equal(tc.want) {
				t.Errorf("ValueAt(%s) = %s, want %s USD", tc.at, got, tc.want)
			}
		})
	}

	// Queries are idempotent: same instant, same answer, no mutation between.
	first, _ := p.ValueAt(day(15))
	second, _ := p.ValueAt(day(15))
	if !first.Equal(second) {
		t.Errorf("ValueAt() not idempotent: %s then %s", first, second)
	}
}

func TestPortfolio_AssetValueAt(t *testing.T) {
	p := newTestPortfolio(t, map[AssetID]Quantity{"USD": Q(100), "BTC": Q(2)})

	got, err := p.AssetValueAt("BTC", day(5))
	if err != nil {
		t.Fatalf("AssetValueAt() error = %v", err)
	}
	if !got.Amount().Equal(Q(26000)) {
		t.Errorf("AssetValueAt(BTC) = %s, want 26000 USD", got)
	}

	// A never-held asset values to zero without an oracle error.
	got, err = p.AssetValueAt("XMR", day(5))
	if err != nil {
		t.Fatalf("AssetValueAt(XMR) error = %v", err)
	}
	if !got.IsZero() {
		t.Errorf("AssetValueAt(XMR) = %s, want 0", got)
	}
}

func TestPortfolio_ValueSeries(t *testing.T) {
	// LTC gets priced only from day 4: the first series point covering a
	// nonzero LTC balance before that carries the gap.
	market := NewMarketData("USD")
	market.Add("LTC", day(4), Q(130))

	p, err := NewPortfolioAt(market, "USD", map[AssetID]Quantity{"USD": Q(100)}, day(1))
	if err != nil {
		t.Fatalf("NewPortfolioAt() error = %v", err)
	}
	p.SetClock(fixedClock(day(30)))
	if err := p.Credit("LTC", Q(1), day(3)); err != nil {
		t.Fatalf("Credit() error = %v", err)
	}

	collect := func() []Point {
		var out []Point
		for pt := range p.ValueSeries(day(1), day(5), 24*time.Hour) {
			out = append(out, pt)
		}
		return out
	}

	points := collect()
	if len(points) != 5 {
		t.Fatalf("series has %d points, want 5 (bounds inclusive)", len(points))
	}

	var gaps int
	for i, pt := range points {
		if pt.Err != nil {
			gaps++
			if !errors.Is(pt.Err, ErrUnpricedAsset) {
				t.Errorf("point %d error = %v, want ErrUnpricedAsset", i, pt.Err)
			}
			if !pt.Time.Equal(day(3)) {
				t.Errorf("gap at %s, want %s", pt.Time, day(3))
			}
		}
	}
	if gaps != 1 {
		t.Errorf("series has %d gap points, want exactly 1", gaps)
	}

	if got := points[4].Value.Amount(); !got.Equal(Q(230)) {
		t.Errorf("final point = %s, want 230 USD", points[4].Value)
	}

	// Restartable: a second pass yields the same series.
	again := collect()
	if len(again) != len(points) {
		t.Fatalf("restarted series has %d points, want %d", len(again), len(points))
	}
	for i := range points {
		if points[i].Err == nil != (again[i].Err == nil) || !points[i].Time.Equal(again[i].Time) {
			t.Errorf("restarted series diverges at point %d", i)
		}
	}
}

func TestPoint_MarshalJSON(t *testing.T) {
	valued := Point{Time: day(1), Value: M(13000, "USD")}
	got, err := json.Marshal(valued)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"time":"2017-10-01T00:00:00Z","value":{"currency":"USD","amount":"13000"}}`
	if string(got) != want {
		t.Errorf("Marshal() = %s, want %s", got, want)
	}

	// A gap point carries its error instead of a value.
	gap := Point{Time: day(2), Err: errors.New("no XMR price")}
	got, err = json.Marshal(gap)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want = `{"time":"2017-10-02T00:00:00Z","error":"no XMR price"}`
	if string(got) != want {
		t.Errorf("Marshal() = %s, want %s", got, want)
	}
}
