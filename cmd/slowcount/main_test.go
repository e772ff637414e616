package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slowcount.lopezb.com/internal/config"
	"slowcount.lopezb.com/internal/slowcount"
)

// execute runs the root command with the given stdin and arguments and
// returns what it wrote to stdout and stderr.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	cmd := newRootCommand(strings.NewReader(stdin), &stdout, &stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return stdout.String(), stderr.String(), err
}

func TestRun(t *testing.T) {
	t.Run("includes terminators by default", func(t *testing.T) {
		out, _, err := execute(t, "a\nb\nc\na\nb\n", "10")
		require.NoError(t, err)
		assert.Equal(t, "4.65 ± 1.54\n", out)
	})

	t.Run("strip newline", func(t *testing.T) {
		out, _, err := execute(t, "a\nb\nc\na\nb\n", "--strip-newline", "-m", "10")
		require.NoError(t, err)
		assert.Equal(t, "5.25 ± 1.86\n", out)
	})

	t.Run("final line without terminator", func(t *testing.T) {
		withEOL, _, err := execute(t, "a\r\nb\r\nc\r\n", "10", "--strip-newline")
		require.NoError(t, err)

		withoutEOL, _, err := execute(t, "a\nb\nc", "10", "--strip-newline")
		require.NoError(t, err)

		assert.Equal(t, withEOL, withoutEOL)
	})

	t.Run("empty input is degenerate", func(t *testing.T) {
		out, _, err := execute(t, "", "--quiet")
		require.ErrorIs(t, err, slowcount.ErrDegenerateEstimate)
		assert.Empty(t, out)
	})

	t.Run("register count out of range", func(t *testing.T) {
		_, errOut, err := execute(t, "a\n", "5")
		require.ErrorIs(t, err, config.ErrInvalidRegisters)
		assert.Contains(t, errOut, usageLine)

		_, _, err = execute(t, "a\n", "--registers", "16001")
		require.ErrorIs(t, err, config.ErrInvalidRegisters)
	})

	t.Run("register count not a number", func(t *testing.T) {
		_, errOut, err := execute(t, "a\n", "lots")
		require.Error(t, err)
		assert.Contains(t, errOut, usageLine)
	})

	t.Run("too many arguments", func(t *testing.T) {
		_, _, err := execute(t, "a\n", "10", "20")
		require.Error(t, err)
	})

	t.Run("input files", func(t *testing.T) {
		dir := t.TempDir()
		first := filepath.Join(dir, "first.txt")
		second := filepath.Join(dir, "second.txt")
		require.NoError(t, os.WriteFile(first, []byte("a\nb\n"), 0o600))
		require.NoError(t, os.WriteFile(second, []byte("c\na\nb\n"), 0o600))

		out, _, err := execute(t, "", "10", "-i", first, "--input", second)
		require.NoError(t, err)
		assert.Equal(t, "4.65 ± 1.54\n", out)

		_, _, err = execute(t, "", "-i", filepath.Join(dir, "missing.txt"))
		require.Error(t, err)
	})

	t.Run("histogram", func(t *testing.T) {
		out, _, err := execute(t, "a\nb\nc\n", "10", "--strip-newline", "--histogram")
		require.NoError(t, err)

		lines := strings.SplitN(out, "\n", 2)
		assert.Equal(t, "5.25 ± 1.86", lines[0])
		assert.Contains(t, strings.ToUpper(lines[1]), "RANK")
	})

	t.Run("verbose logs go to stderr", func(t *testing.T) {
		out, errOut, err := execute(t, "a\nb\n", "--verbose")
		require.NoError(t, err)
		assert.NotContains(t, out, "level=")
		assert.Contains(t, errOut, "input consumed")
	})

	t.Run("version", func(t *testing.T) {
		out, _, err := execute(t, "", "version")
		require.NoError(t, err)
		assert.Equal(t, "slowcount dev\n", out)
	})
}

func TestReadLines(t *testing.T) {
	t.Parallel()

	collect := func(input string, strip bool) []string {
		var got []string
		n, err := readLines(strings.NewReader(input), strip, func(line []byte) {
			got = append(got, string(line))
		})
		require.NoError(t, err)
		require.Equal(t, int64(len(got)), n)
		return got
	}

	assert.Equal(t, []string{"a\n", "b\n", "c"}, collect("a\nb\nc", false))
	assert.Equal(t, []string{"a", "b", "c"}, collect("a\r\nb\nc", true))
	assert.Equal(t, []string{"\n", "x\n"}, collect("\nx\n", false))
	assert.Empty(t, collect("", false))

	long := strings.Repeat("z", 3*readBufferSize) + "\n"
	got := collect(long+"short\n", false)
	require.Len(t, got, 2)
	assert.Equal(t, long, got[0])
	assert.Equal(t, "short\n", got[1])
}

func TestIngest(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "items.txt")
	require.NoError(t, os.WriteFile(file, []byte("a\nb\n"), 0o600))

	sketch, err := slowcount.New(10)
	require.NoError(t, err)

	stats, err := ingest(sketch, []string{file, "-"}, strings.NewReader("c\n"), false)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.lines)
	assert.Equal(t, int64(6), stats.bytes)

	t.Run("unreadable input", func(t *testing.T) {
		t.Parallel()

		// A directory opens but cannot be read as a stream of lines.
		s, err := slowcount.New(10)
		require.NoError(t, err)
		_, err = ingest(s, []string{dir}, strings.NewReader(""), false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read "+dir)
	})

	t.Run("missing input", func(t *testing.T) {
		t.Parallel()

		s, err := slowcount.New(10)
		require.NoError(t, err)
		_, err = ingest(s, []string{filepath.Join(dir, "missing.txt")}, strings.NewReader(""), false)
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestRenderHistogram(t *testing.T) {
	t.Parallel()

	var histo [32]int
	histo[0] = 1
	histo[3] = 9

	out := renderHistogram(histo)
	assert.Contains(t, out, "90.0%")
	assert.Contains(t, out, "10.0%")
	assert.NotContains(t, out, " 0.0%", "empty ranks are skipped")
}
