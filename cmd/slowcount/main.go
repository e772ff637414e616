// slowcount estimates the number of distinct lines in its input.
//
// Every line (including its terminator, unless --strip-newline is given) is
// folded into a maximum-likelihood HyperLogLog variant, and the tool prints
// the estimate together with its standard error:
//
//	$ seq 1 1000 | slowcount
//	990.95 ± 22.97
//
// Usage Examples
// ==============
//
// Estimate with the default 2000 registers, reading stdin:
//
//	slowcount < access.log
//
// Use more registers (between 10 and 16000) for a tighter estimate:
//
//	slowcount 8000 < access.log
//	slowcount --registers 8000 --input a.log --input b.log
//
// Show the distribution of register values:
//
//	slowcount --histogram < access.log
//
// Configuration
// =============
//
// Settings are read from defaults, then an optional .slowcount.yaml in the
// current directory or $HOME (or the file named by --config), then SLOWCOUNT_*
// environment variables, then flags.
//
// Exit Codes
// ==========
//
// 0: An estimate was printed.
// 1: Bad arguments, configuration, or an input error.
// 2: The input carried no usable signal (for example, it was empty).
package main

import (
	"errors"
	"fmt"
	"os"

	"slowcount.lopezb.com/internal/slowcount"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	exitError      = 1
	exitDegenerate = 2
)

func main() {
	rootCmd := newRootCommand(os.Stdin, os.Stdout, os.Stderr)

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, slowcount.ErrDegenerateEstimate) {
			os.Exit(exitDegenerate)
		}
		os.Exit(exitError)
	}
}
