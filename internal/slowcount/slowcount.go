package slowcount

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

var (
	// ErrInvalidConfiguration is returned by New when the sketch cannot be
	// built with the requested parameters.
	ErrInvalidConfiguration = errors.New("slowcount: invalid configuration")

	// ErrDegenerateEstimate is returned by Estimate when the register array
	// carries no usable signal, for example after an empty stream.
	ErrDegenerateEstimate = errors.New("slowcount: degenerate estimate")
)

// Result is a cardinality estimate together with its standard error.
type Result struct {
	Estimate float64
	StdError float64
}

// Variance returns the square of the standard error.
func (r Result) Variance() float64 {
	return r.StdError * r.StdError
}

// Option configures a Sketch.
type Option func(*settings)

type settings struct {
	iterations  int
	includeZero bool
	family      HashFamily
}

// WithIterations sets the number of Newton-Raphson steps. It must be at
// least 1.
func WithIterations(n int) Option {
	return func(s *settings) { s.iterations = n }
}

// WithZeroRegisters controls whether registers still holding 0 contribute to
// the likelihood. They are excluded by default.
func WithZeroRegisters(include bool) Option {
	return func(s *settings) { s.includeZero = include }
}

// WithHashFamily selects how per-register observations are derived.
func WithHashFamily(f HashFamily) Option {
	return func(s *settings) { s.family = f }
}

// Sketch is a fixed-size distinct-count sketch.
type Sketch struct {
	mu     sync.RWMutex
	bank   registerBank
	est    estimator
	family HashFamily

	// cached holds the last result; cacheInvalid is set on every register
	// change.
	cached       Result
	cachedErr    error
	cacheInvalid bool
}

// New creates a sketch with m registers, all zero.
func New(m int, opts ...Option) (*Sketch, error) {
	s := settings{iterations: DefaultIterations, family: Chained}
	for _, opt := range opts {
		opt(&s)
	}

	if m <= 0 {
		return nil, fmt.Errorf("%w: register count must be positive, got %d", ErrInvalidConfiguration, m)
	}
	if s.iterations < 1 {
		return nil, fmt.Errorf("%w: iterations must be at least 1, got %d", ErrInvalidConfiguration, s.iterations)
	}
	if s.family != Chained && s.family != Keyed {
		return nil, fmt.Errorf("%w: unknown hash family %v", ErrInvalidConfiguration, s.family)
	}

	return &Sketch{
		bank:         newRegisterBank(m),
		est:          estimator{iterations: s.iterations, includeZero: s.includeZero},
		family:       s.family,
		cacheInvalid: true,
	}, nil
}

// Add folds an item into every register. It reports whether any register
// changed. Adding an item that was already added never changes the sketch.
func (s *Sketch) Add(data []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	var changed bool
	if s.family == Keyed {
		changed = s.bank.updateKeyed(keyedBase(data))
	} else {
		changed = s.bank.update(Seed(data))
	}

	if changed {
		s.cacheInvalid = true
	}

	return changed
}

// AddString is Add for a string item.
func (s *Sketch) AddString(item string) bool {
	return s.Add([]byte(item))
}

// Estimate returns the maximum-likelihood cardinality and its standard error.
// It returns ErrDegenerateEstimate when no finite estimate exists.
func (s *Sketch) Estimate() (Result, error) {
	s.mu.RLock()
	if !s.cacheInvalid {
		r, err := s.cached, s.cachedErr
		s.mu.RUnlock()
		return r, err
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cacheInvalid {
		return s.cached, s.cachedErr
	}

	s.cached, s.cachedErr = s.est.solve(s.bank.regs)
	s.cacheInvalid = false

	return s.cached, s.cachedErr
}

// Len returns the number of registers.
func (s *Sketch) Len() int {
	return s.bank.Len()
}

// HashFamily returns the family the sketch was built with.
func (s *Sketch) HashFamily() HashFamily {
	return s.family
}

// Registers returns a copy of the register array.
func (s *Sketch) Registers() []uint8 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.bank.snapshot()
}

// Histogram returns the number of registers holding each value in [0, 32).
func (s *Sketch) Histogram() [32]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.bank.histogram()
}

// Reset zeroes every register.
func (s *Sketch) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bank.reset()
	s.cacheInvalid = true
}

// StandardError returns the theoretical relative standard error for a sketch
// with m registers, 1.04/sqrt(m).
func StandardError(m int) float64 {
	return 1.04 / math.Sqrt(float64(m))
}
