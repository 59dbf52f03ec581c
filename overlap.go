package gazeclean

// FindNested returns the events in outer that overlap at least one event in
// inner. An inner event's effective end is the time of the last sample it
// covers, so inner events running past the recording still match. The test is
// symmetric and inclusive: touching endpoints count as overlapping.
//
// This exists for EyeLink blink handling. Each blink is embedded in a saccade
// event, and the device documentation states that data within a saccade
// containing a blink is unreliable, so those saccades must be found and
// masked whole.
func FindNested(s *Samples, outer, inner Events) Events {
	if s.Len() == 0 || len(outer) == 0 || len(inner) == 0 {
		return nil
	}
	onsets := make([]float64, len(inner))
	lastOnsets := make([]float64, len(inner))
	for i, ev := range inner {
		onsets[i] = ev.Onset
		lastOnsets[i] = s.TimeAt(s.LastCoveredPosition(ev.End()))
	}
	var matched Events
	for _, ev := range outer {
		if overlapsAny(ev, onsets, lastOnsets) {
			matched = append(matched, ev)
		}
	}
	return matched
}

// overlapsAny reports whether any (onset, lastOnset) pair intersects ev:
// onset at or before ev's end, and lastOnset at or after ev's onset.
func overlapsAny(ev Event, onsets, lastOnsets []float64) bool {
	end := ev.End()
	for i := range onsets {
		if onsets[i] <= end && lastOnsets[i] >= ev.Onset {
			return true
		}
	}
	return false
}
