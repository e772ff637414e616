package config

import (
	"errors"
	"fmt"

	"slowcount.lopezb.com/internal/slowcount"
)

// Register count bounds accepted by the command line tool. The sketch itself
// only requires a positive count.
const (
	MinRegisters = 10
	MaxRegisters = 16000
)

// Defaults.
const (
	DefaultRegisters    = 2000
	DefaultIterations   = slowcount.DefaultIterations
	DefaultHash         = "chained"
	DefaultIncludeZero  = false
	DefaultStripNewline = false
	DefaultHistogram    = false
)

// Config holds the settings of a slowcount run.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Registers    int    `mapstructure:"registers"`
	Iterations   int    `mapstructure:"iterations"`
	Hash         string `mapstructure:"hash"`
	IncludeZero  bool   `mapstructure:"include_zero"`
	StripNewline bool   `mapstructure:"strip_newline"`
	Histogram    bool   `mapstructure:"histogram"`
}

var (
	// ErrInvalidRegisters indicates the register count is out of range.
	ErrInvalidRegisters = fmt.Errorf("registers must be between %d and %d", MinRegisters, MaxRegisters)
	// ErrInvalidIterations indicates the Newton iteration count is not positive.
	ErrInvalidIterations = errors.New("iterations must be positive")
	// ErrInvalidHash indicates an unknown hash family name.
	ErrInvalidHash = errors.New(`hash must be "chained" or "keyed"`)
)

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	if c.Registers < MinRegisters || c.Registers > MaxRegisters {
		return ErrInvalidRegisters
	}

	if c.Iterations < 1 {
		return ErrInvalidIterations
	}

	if _, err := slowcount.ParseHashFamily(c.Hash); err != nil {
		return ErrInvalidHash
	}

	return nil
}

// SketchOptions translates the config into sketch options. It assumes the
// config has been validated.
func (c *Config) SketchOptions() []slowcount.Option {
	family, _ := slowcount.ParseHashFamily(c.Hash)

	return []slowcount.Option{
		slowcount.WithIterations(c.Iterations),
		slowcount.WithZeroRegisters(c.IncludeZero),
		slowcount.WithHashFamily(family),
	}
}
