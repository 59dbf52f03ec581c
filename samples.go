// Package gazeclean cleans noisy eye-tracker recordings by masking or
// interpolating across intervals of untrustworthy data. Untrustworthy
// intervals come from two sources: device-reported blink events (plus any
// saccade containing one) and exact-zero samples. All operations are batch
// computations over an in-memory sample table and return new tables; inputs
// are never mutated.
package gazeclean

import (
	"fmt"
	"math"
	"sort"
)

// Samples is an ordered recording: a strictly increasing time index plus
// named numeric channels of equal length. The time index is not necessarily
// uniformly spaced.
type Samples struct {
	Time   []float64
	Fields []string
	Data   map[string][]float64
}

// NewSamples validates and wraps a time index and its channels. The index
// must be strictly increasing and every channel must match its length.
func NewSamples(time []float64, channels map[string][]float64) (*Samples, error) {
	for i := 1; i < len(time); i++ {
		if !(time[i] > time[i-1]) {
			return nil, fmt.Errorf("time index not strictly increasing at position %d (%v -> %v)", i, time[i-1], time[i])
		}
	}
	fields := make([]string, 0, len(channels))
	for name, col := range channels {
		if len(col) != len(time) {
			return nil, fmt.Errorf("channel %q has %d values, want %d", name, len(col), len(time))
		}
		fields = append(fields, name)
	}
	sort.Strings(fields)
	return &Samples{Time: time, Fields: fields, Data: channels}, nil
}

// Len returns the number of sample rows.
func (s *Samples) Len() int { return len(s.Time) }

// Channel returns the named channel, if present.
func (s *Samples) Channel(name string) ([]float64, bool) {
	col, ok := s.Data[name]
	return col, ok
}

// Copy returns a deep copy sharing nothing with the receiver.
func (s *Samples) Copy() *Samples {
	data := make(map[string][]float64, len(s.Data))
	for name, col := range s.Data {
		dup := make([]float64, len(col))
		copy(dup, col)
		data[name] = dup
	}
	t := make([]float64, len(s.Time))
	copy(t, s.Time)
	fields := make([]string, len(s.Fields))
	copy(fields, s.Fields)
	return &Samples{Time: t, Fields: fields, Data: data}
}

// TimeAt returns the time key at the given row position, clamped to the
// table's bounds.
func (s *Samples) TimeAt(pos int) float64 {
	if s.Len() == 0 {
		return math.NaN()
	}
	if pos < 0 {
		pos = 0
	}
	if pos >= s.Len() {
		pos = s.Len() - 1
	}
	return s.Time[pos]
}

// PositionCeil returns the position of the first sample at or after t,
// clamped to the last position when t lies past the table.
func (s *Samples) PositionCeil(t float64) int {
	if s.Len() == 0 {
		return 0
	}
	i := sort.SearchFloat64s(s.Time, t)
	if i >= s.Len() {
		return s.Len() - 1
	}
	return i
}

// PositionFloor returns the position of the last sample at or before t,
// clamped to position zero when t precedes the table.
func (s *Samples) PositionFloor(t float64) int {
	if s.Len() == 0 {
		return 0
	}
	i := sort.Search(s.Len(), func(i int) bool { return s.Time[i] > t })
	if i <= 0 {
		return 0
	}
	return i - 1
}

// LastCoveredPosition returns the position of the last sample covered by an
// interval ending at end. The end time itself is exclusive, so the position
// of the first sample at or after end is stepped back by one. When end runs
// past the table's last time key there is no sample to step back from, so the
// last position is returned as-is.
func (s *Samples) LastCoveredPosition(end float64) int {
	if s.Len() == 0 {
		return 0
	}
	if end > s.Time[s.Len()-1] {
		return s.Len() - 1
	}
	p := s.PositionCeil(end)
	if p > 0 {
		p--
	}
	return p
}
