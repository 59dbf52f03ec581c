package gazeclean

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// DefaultPupilChannels lists the channel names recognized as pupil size.
var DefaultPupilChannels = []string{"pup_l", "pup_r"}

// RecoveryOptions configures AdjustRecoveryEnds. Zero values fall back to the
// defaults below.
type RecoveryOptions struct {
	// Channels are the names considered valid pupil-size channels; the first
	// one present in the sample table is used. Defaults to
	// DefaultPupilChannels.
	Channels []string

	// ZThresh is the z-score the smoothed pupil gradient must drop below
	// before an event counts as over. Default 0.1.
	ZThresh float64

	// Window is how many positions past an event's reported end to search.
	// Default 1000.
	Window int

	// KernelSize is how many gradient values are averaged together at each
	// position. Default 100.
	KernelSize int
}

func (o RecoveryOptions) withDefaults() RecoveryOptions {
	if len(o.Channels) == 0 {
		o.Channels = DefaultPupilChannels
	}
	if o.ZThresh == 0 {
		o.ZThresh = 0.1
	}
	if o.Window == 0 {
		o.Window = 1000
	}
	if o.KernelSize == 0 {
		o.KernelSize = 100
	}
	return o
}

// RecoveryResult is the per-event outcome of AdjustRecoveryEnds. Duration is
// always at least the event's original duration. When no extension was made,
// Reason says why.
type RecoveryResult struct {
	Duration float64
	Extended bool
	Reason   string
}

// AdjustRecoveryEnds finds, for each event, the point after its reported end
// where the pupil signal has settled back to baseline. Device-reported blink
// ends are often too early; the recovery point shows up as the z-scored
// look-ahead average of the pupil gradient dropping below ZThresh.
//
// One result is returned per event, in order. Extension is best-effort: an
// event whose end cannot be resolved, or whose search window never drops
// below threshold, keeps its original duration. Durations never shrink.
// The function is pure; use ApplyDurations to write results back.
func AdjustRecoveryEnds(s *Samples, events Events, opts RecoveryOptions) []RecoveryResult {
	opts = opts.withDefaults()

	results := make([]RecoveryResult, len(events))
	for i, ev := range events {
		results[i] = RecoveryResult{Duration: ev.Duration}
	}

	field := ""
	for _, name := range opts.Channels {
		if _, ok := s.Channel(name); ok {
			field = name
			break
		}
	}
	if field == "" || s.Len() == 0 {
		for i := range results {
			results[i].Reason = "no pupil channel"
		}
		return results
	}

	z := absZScores(lookAheadMean(gradient(s.Data[field]), opts.KernelSize))

	last := s.Len() - 1
	for i, ev := range events {
		end := ev.End()
		if math.IsNaN(end) {
			results[i].Reason = "event end not resolvable"
			continue
		}
		sPos := s.LastCoveredPosition(end)
		ePos := sPos + opts.Window
		if ePos > last {
			ePos = last
		}
		if sPos >= ePos {
			results[i].Reason = "search window collapsed"
			continue
		}

		offset := -1
		for j := sPos; j <= ePos; j++ {
			if z[j] < opts.ZThresh {
				offset = j - sPos
				break
			}
		}
		if offset < 0 {
			results[i].Reason = "no recovery point within window"
			continue
		}

		newEnd := s.TimeAt(sPos + offset)
		newDur := newEnd - ev.Onset
		if newDur <= ev.Duration {
			results[i].Reason = "recovery point not past reported end"
			continue
		}
		results[i] = RecoveryResult{Duration: newDur, Extended: true}
	}
	return results
}

// ApplyDurations writes adjusted durations back onto the event table.
// Results shorter than len(events) are applied as far as they go.
func ApplyDurations(events Events, results []RecoveryResult) {
	for i := range events {
		if i >= len(results) {
			return
		}
		events[i].Duration = results[i].Duration
	}
}

// gradient computes the discrete first derivative: central differences in the
// interior, one-sided at the boundaries.
func gradient(values []float64) []float64 {
	n := len(values)
	out := make([]float64, n)
	if n < 2 {
		return out
	}
	out[0] = values[1] - values[0]
	out[n-1] = values[n-1] - values[n-2]
	for i := 1; i < n-1; i++ {
		out[i] = (values[i+1] - values[i-1]) / 2
	}
	return out
}

// lookAheadMean averages each position with the k-1 positions after it, so
// out[i] summarizes values[i:i+k]. Positions without a full window ahead of
// them are NaN.
func lookAheadMean(values []float64, k int) []float64 {
	n := len(values)
	if k <= 1 {
		out := make([]float64, n)
		copy(out, values)
		return out
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	if k > n {
		return out
	}
	sum := 0.0
	for i := 0; i < k; i++ {
		sum += values[i]
	}
	out[0] = sum / float64(k)
	for i := 1; i+k <= n; i++ {
		sum += values[i+k-1] - values[i-1]
		out[i] = sum / float64(k)
	}
	return out
}

// absZScores z-scores values against their own mean and standard deviation
// and takes absolute values. NaN entries are excluded from the statistics and
// stay NaN, which never compares below a threshold. A zero-variance series
// z-scores to +Inf for the same reason: a flat signal has no recovery point
// to find, and +Inf never satisfies a threshold test where a division fault
// would have.
func absZScores(values []float64) []float64 {
	valid := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}
	out := make([]float64, len(values))
	mean, std := stat.MeanStdDev(valid, nil)
	if len(valid) == 0 || std == 0 || math.IsNaN(std) {
		for i := range out {
			out[i] = math.Inf(1)
		}
		return out
	}
	for i, v := range values {
		out[i] = math.Abs((v - mean) / std)
	}
	return out
}
