package slowcount

import "math"

// coefficient holds the log-probabilities a = ln(1 - 2^-(k+1)) and
// b = ln(1 - 2^-k) for one register value k.
type coefficient struct {
	a, b float64
}

// coefficients is indexed by register value. For k = 0, b is -Inf.
var coefficients = func() [maxRank + 1]coefficient {
	var c [maxRank + 1]coefficient
	for k := range c {
		// log1p keeps precision where 2^-k is tiny.
		c[k].a = math.Log1p(-math.Ldexp(1, -(k + 1)))
		c[k].b = math.Log1p(-math.Ldexp(1, -k))
	}

	return c
}()

// expTerm returns e^(n*c), c*e^(n*c) and c^2*e^(n*c). A coefficient of -Inf
// yields exactly zero for all three, which avoids the 0 * Inf = NaN that the
// derivatives would otherwise produce at k = 0.
func expTerm(n, c float64) (e0, e1, e2 float64) {
	if math.IsInf(c, -1) {
		return 0, 0, 0
	}
	e := math.Exp(n * c)

	return e, e * c, e * c * c
}

// likelihood returns the probability that a register holds exactly k after n
// distinct items, together with its first and second derivatives in n.
func likelihood(n float64, k uint8) (g0, g1, g2 float64) {
	c := coefficients[k]
	a0, a1, a2 := expTerm(n, c.a)
	b0, b1, b2 := expTerm(n, c.b)

	return a0 - b0, a1 - b1, a2 - b2
}
