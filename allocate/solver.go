package allocate

import "math"

// minimizeVariance solves
//
//	min  w' C w          subject to  sum(w) = 1,  0 <= w <= 1,
//	                     and, when returns is non-nil,  w . returns >= target
//
// by projected gradient descent: the return floor enters as a ramped
// quadratic penalty, and every iterate is projected back onto the simplex
// (which enforces both bounds and full investment). The routine is
// deterministic: fixed start, fixed schedule.
func minimizeVariance(cov [][]float64, returns []float64, target float64) []float64 {
	n := len(cov)
	weights := make([]float64, n)
	for i := range weights {
		weights[i] = 1 / float64(n)
	}

	grad := make([]float64, n)
	for _, penalty := range []float64{1e2, 1e4, 1e6} {
		if returns == nil {
			penalty = 0
		}
		step := 1 / lipschitz(cov, returns, penalty)
		for iter := 0; iter < 2000; iter++ {
			// grad = 2 C w, plus the penalty pull when under the return floor.
			shortfall := 0.0
			if returns != nil {
				if s := target - dot(weights, returns); s > 0 {
					shortfall = s
				}
			}
			for i := 0; i < n; i++ {
				g := 0.0
				for j := 0; j < n; j++ {
					g += 2 * cov[i][j] * weights[j]
				}
				if shortfall > 0 {
					g -= 2 * penalty * shortfall * returns[i]
				}
				grad[i] = g
			}
			for i := range weights {
				weights[i] -= step * grad[i]
			}
			projectSimplex(weights)
		}
		if returns == nil {
			break
		}
	}
	return weights
}

// lipschitz bounds the gradient's Lipschitz constant so the step size keeps
// the descent stable.
func lipschitz(cov [][]float64, returns []float64, penalty float64) float64 {
	l := 0.0
	for i := range cov {
		row := 0.0
		for j := range cov[i] {
			row += math.Abs(cov[i][j])
		}
		if row > l {
			l = row
		}
	}
	l *= 2
	if returns != nil {
		var r2 float64
		for _, r := range returns {
			r2 += r * r
		}
		l += 2 * penalty * r2
	}
	if l <= 0 {
		return 1
	}
	return l
}

// projectSimplex replaces w in place with the closest point of the standard
// simplex {w : sum(w)=1, w>=0}.
func projectSimplex(w []float64) {
	sorted := sortedCopy(w)
	var cumulative, theta float64
	for i, v := range sorted {
		cumulative += v
		if t := (cumulative - 1) / float64(i+1); v-t > 0 {
			theta = t
		}
	}
	for i, v := range w {
		w[i] = math.Max(v-theta, 0)
	}
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

// quadraticForm evaluates w' C w.
func quadraticForm(w []float64, cov [][]float64) float64 {
	var s float64
	for i := range w {
		for j := range w {
			s += w[i] * cov[i][j] * w[j]
		}
	}
	return s
}
