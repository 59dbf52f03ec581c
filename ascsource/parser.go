// Package ascsource loads EyeLink ASC recordings into gazeclean tables. ASC
// files are the text form of the recorder's native EDF logs: sample lines
// begin with a numeric timestamp, event lines with an uppercase tag.
package ascsource

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/gazetools/gazeclean"
)

// DefaultSampleFields names the numeric columns following a sample line's
// timestamp in a monocular left-eye recording.
var DefaultSampleFields = []string{"x_l", "y_l", "pup_l"}

// Options configures parsing.
type Options struct {
	// SampleFields names the columns after the timestamp, in order. Defaults
	// to DefaultSampleFields. Columns beyond the named ones are ignored.
	SampleFields []string
}

// Recording is a parsed ASC file: the sample table plus its event table.
type Recording struct {
	Samples *gazeclean.Samples
	Events  gazeclean.Events

	// SkippedLines counts sample lines dropped for malformed or
	// non-increasing timestamps.
	SkippedLines int
}

// Load parses the ASC file at path.
func Load(path string, opts Options) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ASC file: %w", err)
	}
	defer f.Close()
	return Parse(f, opts)
}

// Parse reads an ASC stream. Unrecognized lines (MSG, calibration output,
// comments) are skipped; only sample lines and EBLINK/ESACC events are kept.
func Parse(r io.Reader, opts Options) (*Recording, error) {
	names := opts.SampleFields
	if len(names) == 0 {
		names = DefaultSampleFields
	}

	times := make([]float64, 0, 4096)
	cols := make(map[string][]float64, len(names))
	for _, name := range names {
		cols[name] = make([]float64, 0, 4096)
	}
	var events gazeclean.Events
	skipped := 0

	sc := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	sc.Buffer(buf, 4*1024*1024)

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		tokens := strings.Fields(line)

		switch tokens[0] {
		case gazeclean.KindBlink, gazeclean.KindSaccade:
			ev, ok := parseEventLine(tokens)
			if !ok {
				skipped++
				continue
			}
			events = append(events, ev)
			continue
		}

		ts, err := strconv.ParseFloat(tokens[0], 64)
		if err != nil {
			continue // MSG, START, comments, calibration lines
		}
		if len(times) > 0 && ts <= times[len(times)-1] {
			skipped++
			continue
		}
		times = append(times, ts)
		for i, name := range names {
			cols[name] = append(cols[name], sampleValue(tokens, i+1))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan ASC stream: %w", err)
	}

	samples, err := gazeclean.NewSamples(times, cols)
	if err != nil {
		return nil, fmt.Errorf("assemble sample table: %w", err)
	}
	return &Recording{Samples: samples, Events: events, SkippedLines: skipped}, nil
}

// parseEventLine handles "EBLINK <eye> <start> <end> <dur> ..." and the same
// shape for ESACC. The duration column is derived from start and end so the
// two stay consistent even when the recorder's dur field is rounded.
func parseEventLine(tokens []string) (gazeclean.Event, bool) {
	if len(tokens) < 4 {
		return gazeclean.Event{}, false
	}
	start, err1 := strconv.ParseFloat(tokens[2], 64)
	end, err2 := strconv.ParseFloat(tokens[3], 64)
	if err1 != nil || err2 != nil || end < start {
		return gazeclean.Event{}, false
	}
	return gazeclean.Event{Onset: start, Duration: end - start, Kind: tokens[0]}, true
}

// sampleValue reads column idx of a sample line. The recorder writes "." for
// missing data; missing or unparsable columns become NaN.
func sampleValue(tokens []string, idx int) float64 {
	if idx >= len(tokens) {
		return math.NaN()
	}
	tok := tokens[idx]
	if tok == "." {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
