package gazeclean

// Event kinds reported by the EyeLink parser.
const (
	KindBlink   = "EBLINK"
	KindSaccade = "ESACC"
)

// Event is one annotated interval in a recording. Onset and Duration share
// units with the sample table's time index; Onset+Duration may run past the
// last sample.
type Event struct {
	Onset    float64
	Duration float64
	Kind     string
}

// End returns the event's reported end time.
func (e Event) End() float64 { return e.Onset + e.Duration }

// Events is an ordered event table.
type Events []Event

// Kind returns the events carrying the given kind tag, in order.
func (evs Events) Kind(kind string) Events {
	var out Events
	for _, ev := range evs {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

// LastSamplePositions returns, for each event, the position of the last
// sample the event covers, per Samples.LastCoveredPosition.
func LastSamplePositions(s *Samples, evs Events) []int {
	out := make([]int, len(evs))
	for i, ev := range evs {
		out[i] = s.LastCoveredPosition(ev.End())
	}
	return out
}
