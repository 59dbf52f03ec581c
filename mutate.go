package gazeclean

import (
	"math"
	"sort"
)

// ExpandToIndices converts intervals into the ascending, deduplicated set of
// sample positions they cover. Each interval covers the samples from the
// first one at or after its onset up to, but excluding, its end time.
// Positions past the table are dropped, so events running beyond the last
// sample are safe.
func ExpandToIndices(s *Samples, events Events) []int {
	n := s.Len()
	if n == 0 || len(events) == 0 {
		return nil
	}
	covered := make([]bool, n)
	for _, ev := range events {
		end := ev.End()
		if math.IsNaN(ev.Onset) || math.IsNaN(end) {
			continue
		}
		for p := sort.SearchFloat64s(s.Time, ev.Onset); p < n && s.Time[p] < end; p++ {
			covered[p] = true
		}
	}
	var out []int
	for p, ok := range covered {
		if ok {
			out = append(out, p)
		}
	}
	return out
}

// Mask returns a copy of the table with the given fields set to NaN at the
// given positions. Unknown fields and out-of-range positions are ignored.
func Mask(s *Samples, fields []string, indices []int) *Samples {
	out := s.Copy()
	for _, f := range fields {
		col, ok := out.Data[f]
		if !ok {
			continue
		}
		for _, idx := range indices {
			if idx >= 0 && idx < len(col) {
				col[idx] = math.NaN()
			}
		}
	}
	return out
}

// MaskZeros returns a copy of the table with exact-zero values in the given
// fields set to NaN. Zeros are how the device records a fully lost signal.
func MaskZeros(s *Samples, fields []string) *Samples {
	out := s.Copy()
	for _, f := range fields {
		col, ok := out.Data[f]
		if !ok {
			continue
		}
		for i, v := range col {
			if v == 0 {
				col[i] = math.NaN()
			}
		}
	}
	return out
}

// Interpolate returns a copy of the table with NaN gaps in the given fields
// filled linearly along the sample order. Leading gaps take the first valid
// value and trailing gaps the last, since linear interpolation has no point
// on one side to work from.
func Interpolate(s *Samples, fields []string) *Samples {
	out := s.Copy()
	for _, f := range fields {
		if col, ok := out.Data[f]; ok {
			interpolateColumn(col)
		}
	}
	return out
}

func interpolateColumn(col []float64) {
	prev := -1
	for i, v := range col {
		if math.IsNaN(v) {
			continue
		}
		switch {
		case prev < 0:
			for j := 0; j < i; j++ {
				col[j] = v
			}
		case i-prev > 1:
			step := (v - col[prev]) / float64(i-prev)
			for j := prev + 1; j < i; j++ {
				col[j] = col[prev] + step*float64(j-prev)
			}
		}
		prev = i
	}
	if prev < 0 {
		return
	}
	for j := prev + 1; j < len(col); j++ {
		col[j] = col[prev]
	}
}

// MaskBlinks returns a copy of the table with the given fields set to NaN
// across every untrustworthy interval found by BuildBlinkMask.
func MaskBlinks(s *Samples, events Events, fields []string, opts MaskOptions) *Samples {
	return Mask(s, fields, BlinkMaskIndices(s, events, opts))
}

// InterpolateBlinks returns a copy of the table with every untrustworthy
// interval replaced by linearly interpolated estimates.
func InterpolateBlinks(s *Samples, events Events, fields []string, opts MaskOptions) *Samples {
	return Interpolate(MaskBlinks(s, events, fields, opts), fields)
}

// InterpolateZeros returns a copy of the table with zero artifacts in the
// given fields replaced by linearly interpolated estimates.
func InterpolateZeros(s *Samples, fields []string) *Samples {
	return Interpolate(MaskZeros(s, fields), fields)
}
