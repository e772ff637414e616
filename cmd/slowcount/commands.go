package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"slowcount.lopezb.com/internal/config"
	"slowcount.lopezb.com/internal/slowcount"
)

const usageLine = "Usage: slowcount [ <# registers, between 10 and 16000> ]"

// runOptions holds the flags that are not part of config.Config.
type runOptions struct {
	configPath string
	inputs     []string
	verbose    bool
	quiet      bool
}

func newRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var opts runOptions

	rootCmd := &cobra.Command{
		Use:   "slowcount [registers]",
		Short: "Estimate the number of distinct input lines",
		Long: `slowcount reads lines and estimates how many distinct lines it has seen,
using a maximum-likelihood HyperLogLog variant with a fixed number of registers.
It prints the estimate followed by its standard error.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts, stdin, stdout, stderr)
		},
	}

	flags := rootCmd.Flags()
	flags.IntP("registers", "m", config.DefaultRegisters, "number of registers (10-16000)")
	flags.Int("iterations", config.DefaultIterations, "Newton-Raphson iterations")
	flags.String("hash", config.DefaultHash, `hash family: "chained" or "keyed"`)
	flags.Bool("include-zero", config.DefaultIncludeZero, "let zero registers contribute to the likelihood")
	flags.Bool("strip-newline", config.DefaultStripNewline, "drop line terminators before hashing")
	flags.Bool("histogram", config.DefaultHistogram, "print the register value histogram")
	flags.StringVar(&opts.configPath, "config", "", "config file (default .slowcount.yaml in CWD or $HOME)")
	flags.StringArrayVarP(&opts.inputs, "input", "i", nil, `input file, repeatable ("-" for stdin; default stdin)`)
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "suppress log output")

	rootCmd.AddCommand(versionCmd(stdout))

	return rootCmd
}

func versionCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(stdout, "slowcount %s\n", version)
		},
	}
}

func newLogger(w io.Writer, verbose, quiet bool) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func run(cmd *cobra.Command, args []string, opts runOptions, stdin io.Reader, stdout, stderr io.Writer) error {
	// The positional register count is the historical interface; it is
	// applied as if --registers had been given.
	if len(args) == 1 {
		if err := cmd.Flags().Set("registers", args[0]); err != nil {
			fmt.Fprintln(stderr, usageLine)
			return fmt.Errorf("invalid register count %q", args[0])
		}
	}

	cfg, err := config.Load(opts.configPath, cmd.Flags())
	if err != nil {
		if errors.Is(err, config.ErrInvalidRegisters) {
			fmt.Fprintln(stderr, usageLine)
		}
		return err
	}

	logger := newLogger(stderr, opts.verbose, opts.quiet)

	sketch, err := slowcount.New(cfg.Registers, cfg.SketchOptions()...)
	if err != nil {
		return err
	}

	logger.Debug("sketch ready",
		"registers", cfg.Registers,
		"hash", sketch.HashFamily(),
		"iterations", cfg.Iterations,
		"include_zero", cfg.IncludeZero,
		"expected_relative_error", fmt.Sprintf("%.2f%%", 100*slowcount.StandardError(cfg.Registers)))

	start := time.Now()
	stats, err := ingest(sketch, opts.inputs, stdin, cfg.StripNewline)
	if err != nil {
		return err
	}

	logger.Debug("input consumed",
		"lines", humanize.Comma(stats.lines),
		"bytes", humanize.Bytes(uint64(stats.bytes)),
		"duration", time.Since(start))

	result, err := sketch.Estimate()
	if err != nil {
		logger.Error("no estimate available", "lines", stats.lines, "error", err)
		return err
	}

	if _, err := fmt.Fprintln(stdout, formatResult(result)); err != nil {
		return err
	}

	if cfg.Histogram {
		if _, err := fmt.Fprintln(stdout, renderHistogram(sketch.Histogram())); err != nil {
			return err
		}
	}

	return nil
}
