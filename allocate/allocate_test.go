package allocate

import (
	"math"
	"testing"
)

// history builds a newest-first price series from a constant per-step growth
// rate.
func history(start, growth float64, n int) []float64 {
	out := make([]float64, n)
	price := start
	for i := n - 1; i >= 0; i-- {
		out[i] = price
		price *= 1 + growth
	}
	return out
}

func testPrices() (assets []string, prices map[string][]float64) {
	assets = []string{"STABLE", "WILD"}
	prices = map[string][]float64{
		// STABLE never moves: zero return, zero variance.
		"STABLE": {100, 100, 100, 100, 100, 100, 100, 100},
		// WILD swings hard around a strong upward drift.
		"WILD": {210, 90, 170, 80, 140, 60, 100, 50},
	}
	return assets, prices
}

func TestNew_Rejections(t *testing.T) {
	if _, err := New(nil, nil); err == nil {
		t.Error("New() accepted an empty asset list")
	}
	if _, err := New([]string{"BTC"}, map[string][]float64{}); err == nil {
		t.Error("New() accepted a missing price history")
	}
	if _, err := New([]string{"A", "B"}, map[string][]float64{"A": {1, 2, 3}, "B": {1, 2}}); err == nil {
		t.Error("New() accepted misaligned histories")
	}
	if _, err := New([]string{"A"}, map[string][]float64{"A": {1, 2}}); err == nil {
		t.Error("New() accepted a too-short history")
	}
}

func TestAllocator_ExpectedReturns(t *testing.T) {
	a, err := New([]string{"UP"}, map[string][]float64{"UP": history(100, 0.1, 5)})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	got := a.ExpectedReturns()[0]
	if math.Abs(got-0.1) > 1e-9 {
		t.Errorf("expected return = %v, want 0.1", got)
	}
	if got := a.MaximumReturn(); math.Abs(got-0.1) > 1e-9 {
		t.Errorf("MaximumReturn() = %v, want 0.1", got)
	}
}

func TestAllocator_MinimumRisk(t *testing.T) {
	assets, prices := testPrices()
	a, err := New(assets, prices)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	weights := a.MinimumRisk()
	if got := sum(weights); math.Abs(got-1) > 1e-6 {
		t.Fatalf("min-risk weights sum to %v, want 1", got)
	}
	// Nearly everything goes into the riskless asset.
	if weights[0] < 0.99 {
		t.Errorf("min-risk STABLE weight = %v, want ~1", weights[0])
	}
	for i, w := range weights {
		if w < -1e-12 || w > 1+1e-12 {
			t.Errorf("weight %d = %v out of [0, 1]", i, w)
		}
	}
}

func TestAllocator_Frontier(t *testing.T) {
	assets, prices := testPrices()
	a, err := New(assets, prices)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	frontier := a.Frontier(6)
	if len(frontier) != 6 {
		t.Fatalf("Frontier(6) returned %d allocations", len(frontier))
	}

	prevReturn := math.Inf(-1)
	prevRisk := -1.0
	for i, alloc := range frontier {
		var total float64
		for _, pct := range alloc.Weights {
			if pct < 0 || pct > 100 {
				t.Errorf("allocation %d has weight %v%% out of range", i, pct)
			}
			total += pct
		}
		// Flooring to two decimals loses at most 0.01% per asset.
		if total > 100+1e-9 || total < 100-0.01*float64(len(assets))-1e-9 {
			t.Errorf("allocation %d weights sum to %v%%", i, total)
		}
		if alloc.Return < prevReturn-1e-9 {
			t.Errorf("allocation %d return %v decreased from %v", i, alloc.Return, prevReturn)
		}
		if alloc.Risk < prevRisk-1e-9 {
			t.Errorf("allocation %d risk %v decreased from %v", i, alloc.Risk, prevRisk)
		}
		prevReturn, prevRisk = alloc.Return, alloc.Risk
	}

	// The last frontier point chases the maximum return: all-in on the
	// high-drift asset.
	last := frontier[len(frontier)-1]
	if last.Weights["WILD"] < 99 {
		t.Errorf("frontier end WILD weight = %v%%, want ~100%%", last.Weights["WILD"])
	}
}

func TestProjectSimplex(t *testing.T) {
	testCases := []struct {
		name string
		in   []float64
		want []float64
	}{
		{
			name: "already on the simplex",
			in:   []float64{0.25, 0.75},
			want: []float64{0.25, 0.75},
		},
		{
			name: "uniform from zeros",
			in:   []float64{0, 0, 0},
			want: []float64{1. / 3, 1. / 3, 1. / 3},
		},
		{
			name: "clips negatives",
			in:   []float64{2, -1},
			want: []float64{1, 0},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := append([]float64(nil), tc.in...)
			projectSimplex(w)
			for i := range w {
				if math.Abs(w[i]-tc.want[i]) > 1e-9 {
					t.Errorf("projectSimplex(%v) = %v, want %v", tc.in, w, tc.want)
				}
			}
		})
	}
}

func sum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s
}
