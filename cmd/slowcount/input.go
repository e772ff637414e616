package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"slowcount.lopezb.com/internal/slowcount"
)

// readBufferSize is the bufio buffer size. Longer lines are assembled across
// several reads.
const readBufferSize = 64 * 1024

// CountReader wraps an io.Reader to track the cumulative number of bytes read.
type CountReader struct {
	r     io.Reader
	count int64
}

// Read implements io.Reader, passing through to the underlying reader while
// accumulating the byte count.
func (cr *CountReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.count += int64(n)
	return n, err
}

// ingestStats summarizes what was read from the inputs.
type ingestStats struct {
	lines int64
	bytes int64
}

// ingest feeds every line of every input to the sketch. An empty input list
// means stdin; "-" names stdin explicitly.
func ingest(sketch *slowcount.Sketch, inputs []string, stdin io.Reader, strip bool) (ingestStats, error) {
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}

	var stats ingestStats
	for _, name := range inputs {
		lines, n, err := ingestFile(sketch, name, stdin, strip)
		stats.lines += lines
		stats.bytes += n
		if err != nil {
			return stats, err
		}
	}

	return stats, nil
}

// ingestFile feeds one input to the sketch and returns the lines and bytes
// it read.
func ingestFile(sketch *slowcount.Sketch, name string, stdin io.Reader, strip bool) (int64, int64, error) {
	src := stdin
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return 0, 0, fmt.Errorf("open input: %w", err)
		}
		defer func() { _ = f.Close() }()
		src = f
	}

	counter := &CountReader{r: src}
	lines, err := readLines(counter, strip, func(line []byte) { sketch.Add(line) })
	if err != nil {
		return lines, counter.count, fmt.Errorf("read %s: %w", name, err)
	}

	return lines, counter.count, nil
}

// readLines calls fn for every line of r. A line includes its terminator
// unless strip is set; a final line without a terminator is still a line.
// The slice passed to fn is only valid during the call.
func readLines(r io.Reader, strip bool, fn func([]byte)) (int64, error) {
	br := bufio.NewReaderSize(r, readBufferSize)

	var (
		lines int64
		long  []byte
	)
	for {
		chunk, err := br.ReadSlice('\n')
		if errors.Is(err, bufio.ErrBufferFull) {
			long = append(long, chunk...)
			continue
		}

		line := chunk
		if len(long) > 0 {
			long = append(long, chunk...)
			line = long
		}

		if len(line) > 0 {
			if strip {
				line = trimNewline(line)
			}
			fn(line)
			lines++
		}
		long = long[:0]

		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return lines, err
		}
	}
}

// trimNewline drops a trailing "\n" or "\r\n".
func trimNewline(line []byte) []byte {
	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
		if n := len(line); n > 0 && line[n-1] == '\r' {
			line = line[:n-1]
		}
	}

	return line
}
