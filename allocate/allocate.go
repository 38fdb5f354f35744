// Package allocate computes target portfolio allocations from price history.
//
// Given aligned per-asset price series it derives expected returns and a
// covariance matrix, then solves long-only fully-invested mean-variance
// problems: the minimum-risk portfolio, the maximum achievable return, and
// an efficient frontier sweeping between the two. It is a pure numerical
// collaborator: it never touches a ledger, and a portfolio driven by its
// weights applies them through ordinary exchanges.
package allocate

import (
	"fmt"
	"math"
	"sort"
)

// Allocation is one efficient portfolio: weights per asset in percent
// (floored to two decimals), with its expected per-step return and variance.
type Allocation struct {
	Weights map[string]float64
	Return  float64
	Risk    float64
}

// Allocator derives mean-variance statistics from price history.
type Allocator struct {
	assets  []string
	returns []float64   // mean per-step return per asset
	cov     [][]float64 // covariance of per-step returns
}

// New builds an allocator from per-asset price series, newest observation
// first (the order exchanges return candles in). All series must have the
// same length and at least three observations. Non-positive prices mark
// steps where the asset did not trade yet; those steps are excluded from the
// statistics.
func New(assets []string, prices map[string][]float64) (*Allocator, error) {
	if len(assets) == 0 {
		return nil, fmt.Errorf("no assets to allocate")
	}
	n := -1
	series := make([][]float64, len(assets))
	for i, asset := range assets {
		s, ok := prices[asset]
		if !ok {
			return nil, fmt.Errorf("no price history for %s", asset)
		}
		if n == -1 {
			n = len(s)
		}
		if len(s) != n {
			return nil, fmt.Errorf("price history of %s has %d points, want %d", asset, len(s), n)
		}
		series[i] = s
	}
	if n < 3 {
		return nil, fmt.Errorf("price history too short: %d points", n)
	}

	// Per-step relative returns. With newest-first series the step return at
	// t is (price[t] - price[t+1]) / price[t+1]. NaN marks steps where the
	// asset had no market yet.
	steps := n - 1
	rets := make([][]float64, len(assets))
	for i, s := range series {
		r := make([]float64, steps)
		for t := 0; t < steps; t++ {
			if s[t] <= 0 || s[t+1] <= 0 {
				r[t] = math.NaN()
				continue
			}
			r[t] = (s[t] - s[t+1]) / s[t+1]
		}
		rets[i] = r
	}

	a := &Allocator{
		assets:  assets,
		returns: make([]float64, len(assets)),
		cov:     make([][]float64, len(assets)),
	}
	for i := range assets {
		a.returns[i] = nanMean(rets[i])
		a.cov[i] = make([]float64, len(assets))
	}
	for i := range assets {
		for j := i; j < len(assets); j++ {
			c := nanCovariance(rets[i], rets[j])
			a.cov[i][j], a.cov[j][i] = c, c
		}
	}
	return a, nil
}

// Assets returns the asset order weights are expressed in.
func (a *Allocator) Assets() []string { return a.assets }

// ExpectedReturns returns the mean per-step return per asset, in asset
// order.
func (a *Allocator) ExpectedReturns() []float64 { return a.returns }

// MinimumRisk returns the weights minimizing portfolio variance, long-only
// and fully invested.
func (a *Allocator) MinimumRisk() []float64 {
	return minimizeVariance(a.cov, nil, 0)
}

// MaximumReturn returns the best expected per-step return achievable on the
// simplex. A linear objective over the simplex peaks at a vertex, so this is
// the best single asset's mean return.
func (a *Allocator) MaximumReturn() float64 {
	best := math.Inf(-1)
	for _, r := range a.returns {
		if r > best {
			best = r
		}
	}
	return best
}

// Frontier returns count efficient allocations, sweeping the target return
// from the minimum-risk portfolio's return up to the maximum achievable
// return. Weights are reported in percent, floored to two decimals.
func (a *Allocator) Frontier(count int) []Allocation {
	minWeights := a.MinimumRisk()
	minReturn := dot(minWeights, a.returns)
	maxReturn := a.MaximumReturn()

	allocations := make([]Allocation, 0, count)
	for k := 0; k < count; k++ {
		target := minReturn
		if count > 1 {
			target = minReturn + (maxReturn-minReturn)*float64(k)/float64(count-1)
		}
		weights := minimizeVariance(a.cov, a.returns, target)

		alloc := Allocation{
			Weights: make(map[string]float64, len(a.assets)),
			Return:  dot(weights, a.returns),
			Risk:    quadraticForm(weights, a.cov),
		}
		for i, asset := range a.assets {
			alloc.Weights[asset] = math.Floor(weights[i]*100*100) / 100
		}
		allocations = append(allocations, alloc)
	}
	return allocations
}

// nanMean averages the non-NaN values.
func nanMean(xs []float64) float64 {
	var sum float64
	var n int
	for _, x := range xs {
		if math.IsNaN(x) {
			continue
		}
		sum += x
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// nanCovariance is the population covariance over steps where both series
// are observed.
func nanCovariance(xs, ys []float64) float64 {
	var sx, sy float64
	var n int
	for t := range xs {
		if math.IsNaN(xs[t]) || math.IsNaN(ys[t]) {
			continue
		}
		sx += xs[t]
		sy += ys[t]
		n++
	}
	if n == 0 {
		return 0
	}
	mx, my := sx/float64(n), sy/float64(n)
	var acc float64
	for t := range xs {
		if math.IsNaN(xs[t]) || math.IsNaN(ys[t]) {
			continue
		}
		acc += (xs[t] - mx) * (ys[t] - my)
	}
	return acc / float64(n)
}

// sortedCopy is a small helper used by the simplex projection.
func sortedCopy(xs []float64) []float64 {
	out := append([]float64(nil), xs...)
	sort.Sort(sort.Reverse(sort.Float64Slice(out)))
	return out
}
