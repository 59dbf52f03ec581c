package gazeclean

// MaskOptions configures blink-mask construction.
type MaskOptions struct {
	// FindRecovery extends each masked event's end to the detected recovery
	// point. Device-reported endpoints often include clearly bad data, so the
	// default options enable it.
	FindRecovery bool

	// Recovery configures the extension when FindRecovery is set.
	Recovery RecoveryOptions
}

// DefaultMaskOptions returns the standard EyeLink masking configuration.
func DefaultMaskOptions() MaskOptions {
	return MaskOptions{FindRecovery: true}
}

// BuildBlinkMask returns the events covering untrustworthy data under the
// EyeLink convention: every blink event, plus every saccade event that
// overlaps a blink (the saccade's full span, not just the overlapping
// portion). Returns an empty set when there are no blink events.
func BuildBlinkMask(s *Samples, events Events, opts MaskOptions) Events {
	bad, results := BuildBlinkMaskResults(s, events, opts)
	ApplyDurations(bad, results)
	return bad
}

// BuildBlinkMaskResults is BuildBlinkMask split open for callers that report
// what was adjusted: it returns the mask events with their reported
// durations plus the per-event recovery outcomes. Apply the outcomes with
// ApplyDurations before expanding to indices. Results are nil when recovery
// is disabled or there is nothing to mask.
func BuildBlinkMaskResults(s *Samples, events Events, opts MaskOptions) (Events, []RecoveryResult) {
	blinks := events.Kind(KindBlink)
	if len(blinks) == 0 {
		return nil, nil
	}
	bad := make(Events, 0, len(blinks))
	bad = append(bad, blinks...)
	bad = append(bad, FindNested(s, events.Kind(KindSaccade), blinks)...)
	if !opts.FindRecovery {
		return bad, nil
	}
	return bad, AdjustRecoveryEnds(s, bad, opts.Recovery)
}

// BlinkMaskIndices expands the blink mask to concrete sample positions.
func BlinkMaskIndices(s *Samples, events Events, opts MaskOptions) []int {
	return ExpandToIndices(s, BuildBlinkMask(s, events, opts))
}
