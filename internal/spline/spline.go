// Package spline implements the host-side spline coefficient solver
// spec.md §4.7 describes: given sample times and values, produce the
// 0th..3rd derivatives at each segment's start time, corrected for the
// Sequencer's adder-chain latency.
//
// Grounded on original_source/host/pdq2.py's Segment.interpolate, which
// leans on scipy.interpolate.splrep/spalde for the B-spline fit. There
// being no Go analogue anywhere in the retrieval pack, this package
// solves the natural cubic spline directly (a tridiagonal system for
// the second derivatives, following the textbook construction) and
// degrades to lower-order local fits for order < 3, rather than
// wrapping an external numerics library.
package spline

import "fmt"

// Derivs holds the four derivative coefficients (constant, linear,
// quadratic, cubic) of one segment, evaluated at the segment's start
// time, after adder-chain correction.
type Derivs [4]float64

// Fit computes the per-segment derivatives for order-k interpolation
// through (t, v). t must be strictly increasing and len(t) == len(v).
// The result has len(t)-1 entries, one per segment [t[i], t[i+1]),
// each already adder-chain-corrected per spec.md §4.7 step 3.
func Fit(t []float64, v []float64, order int) ([]Derivs, error) {
	n := len(t)
	if n != len(v) {
		return nil, fmt.Errorf("spline: len(t)=%d != len(v)=%d", n, len(v))
	}
	if n < 2 {
		return nil, fmt.Errorf("spline: need at least 2 sample points, got %d", n)
	}
	if order < 0 || order > 3 {
		return nil, fmt.Errorf("spline: order %d out of range 0..3", order)
	}
	for i := 1; i < n; i++ {
		if t[i] <= t[i-1] {
			return nil, fmt.Errorf("spline: times must be strictly increasing, t[%d]=%g <= t[%d]=%g", i, t[i], i-1, t[i-1])
		}
	}

	var raw []Derivs
	switch {
	case order == 3 && n >= 3:
		raw = naturalCubic(t, v)
	case order >= 1:
		raw = localQuadratic(t, v, order)
	default:
		raw = constant(t, v)
	}

	for i := range raw {
		correct(&raw[i], order)
	}
	return raw, nil
}

// constant holds the sample's value flat across each segment (order 0:
// piecewise constant / sample-and-hold).
func constant(t, v []float64) []Derivs {
	out := make([]Derivs, len(t)-1)
	for i := range out {
		out[i][0] = v[i]
	}
	return out
}

// localQuadratic fits a local polynomial of the requested order (1 or
// 2) through 2 or 3 consecutive points around segment i and evaluates
// its derivatives at t[i]. Used for order 1 (plain secant slope) and
// order 2 (divided-difference quadratic); order 3 uses naturalCubic
// instead whenever there are enough points.
func localQuadratic(t, v []float64, order int) []Derivs {
	n := len(t)
	out := make([]Derivs, n-1)
	for i := 0; i < n-1; i++ {
		out[i][0] = v[i]
		h0 := t[i+1] - t[i]
		d1 := (v[i+1] - v[i]) / h0
		out[i][1] = d1
		if order < 2 {
			continue
		}
		// Second derivative from a three-point divided difference.
		// Use the forward triple (i, i+1, i+2) when available, else
		// fall back to the trailing triple so the last segment still
		// gets a curvature estimate.
		i0, i1, i2 := i, i+1, i+2
		if i2 >= n {
			i0, i1, i2 = n-3, n-2, n-1
			if i0 < 0 {
				continue // fewer than 3 points total: stay linear
			}
		}
		f01 := (v[i1] - v[i0]) / (t[i1] - t[i0])
		f12 := (v[i2] - v[i1]) / (t[i2] - t[i1])
		f012 := (f12 - f01) / (t[i2] - t[i0])
		// Newton form p(x) = v[i0] + f01*(x-t[i0]) + f012*(x-t[i0])*(x-t[i1]).
		// p'(t[i]) and p''(t[i]) follow from differentiating that form.
		x := t[i]
		d1Adj := f01 + f012*((x-t[i0])+(x-t[i1]))
		d2 := 2 * f012
		out[i][1] = d1Adj
		out[i][2] = d2
	}
	return out
}

// naturalCubic solves the classic natural cubic spline (zero second
// derivative at both endpoints) via a tridiagonal system for the knot
// second-derivatives M, then evaluates all four derivatives of each
// segment's cubic at its left endpoint.
func naturalCubic(t, v []float64) []Derivs {
	n := len(t)
	h := make([]float64, n-1)
	for i := range h {
		h[i] = t[i+1] - t[i]
	}

	// Tridiagonal system for M[1..n-2] (M[0] = M[n-1] = 0, natural BC).
	// a (sub), b (diag), c (super), d (rhs), sized n-2 for the interior.
	m := make([]float64, n)
	if n > 2 {
		size := n - 2
		a := make([]float64, size)
		b := make([]float64, size)
		c := make([]float64, size)
		d := make([]float64, size)
		for k := 0; k < size; k++ {
			i := k + 1
			b[k] = 2 * (h[i-1] + h[i])
			if k > 0 {
				a[k] = h[i-1]
			}
			if k < size-1 {
				c[k] = h[i]
			}
			d[k] = 6 * ((v[i+1]-v[i])/h[i] - (v[i]-v[i-1])/h[i-1])
		}
		sol := thomasSolve(a, b, c, d)
		copy(m[1:n-1], sol)
	}

	out := make([]Derivs, n-1)
	for i := 0; i < n-1; i++ {
		hi := h[i]
		a0 := v[i]
		b0 := (v[i+1]-v[i])/hi - hi*(2*m[i]+m[i+1])/6
		c0 := m[i] / 2
		d0 := (m[i+1] - m[i]) / (6 * hi)
		out[i] = Derivs{a0, b0, 2 * c0, 6 * d0}
	}
	return out
}

// thomasSolve solves a tridiagonal system Ax = d via the Thomas
// algorithm; a/b/c are the sub/main/super diagonals, all length
// len(d).
func thomasSolve(a, b, c, d []float64) []float64 {
	n := len(d)
	cp := make([]float64, n)
	dp := make([]float64, n)
	cp[0] = c[0] / b[0]
	dp[0] = d[0] / b[0]
	for i := 1; i < n; i++ {
		denom := b[i] - a[i]*cp[i-1]
		if i < n-1 {
			cp[i] = c[i] / denom
		}
		dp[i] = (d[i] - a[i]*dp[i-1]) / denom
	}
	x := make([]float64, n)
	x[n-1] = dp[n-1]
	for i := n - 2; i >= 0; i-- {
		x[i] = dp[i] - cp[i]*x[i+1]
	}
	return x
}

// correct applies the adder-chain latency correction from spec.md
// §4.7 step 3: each accumulator in the Sequencer is one cycle behind
// the next higher derivative, so the loaded initial values must
// absorb that lag before being scaled and packed.
func correct(d *Derivs, order int) {
	if order >= 2 {
		d[1] += d[2] / 2
	}
	if order >= 3 {
		d[1] += d[3] / 6
		d[2] += d[3]
	}
}
