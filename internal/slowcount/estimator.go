package slowcount

import (
	"fmt"
	"math"
)

// DefaultIterations is the number of Newton-Raphson steps taken by the
// estimator. There is no convergence test; the harmonic-mean starting point
// is close enough to the root that eight steps settle it.
const DefaultIterations = 8

// estimator computes the maximum-likelihood cardinality of a register array.
type estimator struct {
	iterations  int
	includeZero bool
}

// initialGuess is the harmonic-mean estimate m / sum(2^-r_i).
func (e estimator) initialGuess(regs []uint8) float64 {
	total := 0.0
	for _, k := range regs {
		total += math.Ldexp(1, -int(k))
	}

	return float64(len(regs)) / total
}

// derivatives returns the first and second derivatives of the log-likelihood
// at n in a single pass over the registers.
func (e estimator) derivatives(regs []uint8, n float64) (gradient, curvature float64) {
	for _, k := range regs {
		if k == 0 && !e.includeZero {
			continue
		}
		g0, g1, g2 := likelihood(n, k)
		if g0 == 0 {
			// The mass underflowed; the ratio carries no usable signal.
			continue
		}
		// (g0*g2 - g1^2) / g0^2, written so that g0^2 cannot underflow.
		r1 := g1 / g0
		gradient += r1
		curvature += g2/g0 - r1*r1
	}

	return gradient, curvature
}

// curvature is the second derivative of the log-likelihood at n, the
// negative of the observed Fisher information.
func (e estimator) curvature(regs []uint8, n float64) float64 {
	_, c := e.derivatives(regs, n)
	return c
}

// estimate runs the fixed number of Newton-Raphson steps from the initial
// guess and returns the final iterate.
func (e estimator) estimate(regs []uint8) (float64, error) {
	n := e.initialGuess(regs)
	for i := 0; i < e.iterations; i++ {
		g, c := e.derivatives(regs, n)
		if c == 0 || math.IsNaN(c) || math.IsInf(c, 0) {
			return 0, fmt.Errorf("%w: curvature %v at step %d (n=%g)", ErrDegenerateEstimate, c, i, n)
		}
		n -= g / c
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, fmt.Errorf("%w: non-finite iterate at step %d", ErrDegenerateEstimate, i)
		}
	}

	return n, nil
}

// variance is -1 / curvature(n), the asymptotic variance of the estimate.
func (e estimator) variance(regs []uint8, n float64) (float64, error) {
	c := e.curvature(regs, n)
	if c == 0 {
		return 0, fmt.Errorf("%w: zero curvature at the estimate", ErrDegenerateEstimate)
	}
	v := -1 / c
	if !(v > 0) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: variance %v at the estimate", ErrDegenerateEstimate, v)
	}

	return v, nil
}

// solve produces the estimate and its standard error.
func (e estimator) solve(regs []uint8) (Result, error) {
	n, err := e.estimate(regs)
	if err != nil {
		return Result{}, err
	}
	v, err := e.variance(regs, n)
	if err != nil {
		return Result{}, err
	}

	return Result{Estimate: n, StdError: math.Sqrt(v)}, nil
}
