package gazeclean

import (
	"math"
	"testing"
)

func TestExpandToIndices(t *testing.T) {
	s := makeSamples(t, []float64{0, 1, 2, 3, 4, 5}, nil)

	cases := []struct {
		name string
		evs  Events
		want []int
	}{
		{"single", Events{{Onset: 1, Duration: 2}}, []int{1, 2}},
		{"union dedup", Events{{Onset: 1, Duration: 3}, {Onset: 2, Duration: 1}}, []int{1, 2, 3}},
		{"past table end", Events{{Onset: 4, Duration: 10}}, []int{4, 5}},
		{"entirely past table", Events{{Onset: 10, Duration: 5}}, nil},
		{"empty", nil, nil},
	}
	for _, tc := range cases {
		got := ExpandToIndices(s, tc.evs)
		if len(got) != len(tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
			continue
		}
		for i := range tc.want {
			if got[i] != tc.want[i] {
				t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
				break
			}
		}
	}
}

func TestExpandToIndicesStaysInBounds(t *testing.T) {
	s := makeSamples(t, []float64{0, 1, 2, 3, 4, 5}, nil)
	evs := Events{
		{Onset: -10, Duration: 5},
		{Onset: 3, Duration: 1000},
		{Onset: 100, Duration: 100},
	}
	for _, idx := range ExpandToIndices(s, evs) {
		if idx < 0 || idx >= s.Len() {
			t.Fatalf("index %d outside [0, %d)", idx, s.Len())
		}
	}
}

func TestMaskIsIdempotentAndPure(t *testing.T) {
	s := makeSamples(t, []float64{0, 1, 2, 3}, map[string][]float64{"p": {1, 2, 3, 4}})
	idxs := []int{1, 2}

	once := Mask(s, []string{"p"}, idxs)
	twice := Mask(once, []string{"p"}, idxs)
	for i := range s.Time {
		a, b := once.Data["p"][i], twice.Data["p"][i]
		if math.IsNaN(a) != math.IsNaN(b) || (!math.IsNaN(a) && a != b) {
			t.Fatalf("masking twice differs at %d: %v vs %v", i, a, b)
		}
	}
	if s.Data["p"][1] != 2 {
		t.Fatal("Mask mutated its input")
	}
	if !math.IsNaN(once.Data["p"][1]) || !math.IsNaN(once.Data["p"][2]) {
		t.Fatal("masked positions not NaN")
	}
	if once.Data["p"][0] != 1 || once.Data["p"][3] != 4 {
		t.Fatal("unmasked positions changed")
	}
}

func TestInterpolateNoGapsIsIdentity(t *testing.T) {
	s := makeSamples(t, []float64{0, 1, 2, 3}, map[string][]float64{"p": {1, 5, 2, 8}})
	out := Interpolate(s, []string{"p"})
	for i, v := range out.Data["p"] {
		if v != s.Data["p"][i] {
			t.Fatalf("value changed at %d: %v -> %v", i, s.Data["p"][i], v)
		}
	}
}

func TestInterpolateBoundaryFill(t *testing.T) {
	nan := math.NaN()
	s := makeSamples(t, []float64{0, 1, 2, 3, 4}, map[string][]float64{"p": {nan, nan, 5, 10, nan}})
	out := Interpolate(s, []string{"p"})
	want := []float64{5, 5, 5, 10, 10}
	for i := range want {
		if out.Data["p"][i] != want[i] {
			t.Fatalf("interpolated = %v, want %v", out.Data["p"], want)
		}
	}
}

func TestInterpolateLinearGap(t *testing.T) {
	nan := math.NaN()
	s := makeSamples(t, []float64{0, 1, 2, 3, 4}, map[string][]float64{"p": {0, nan, nan, nan, 8}})
	out := Interpolate(s, []string{"p"})
	want := []float64{0, 2, 4, 6, 8}
	for i := range want {
		if out.Data["p"][i] != want[i] {
			t.Fatalf("interpolated = %v, want %v", out.Data["p"], want)
		}
	}
}

func TestMaskZerosThenInterpolate(t *testing.T) {
	s := makeSamples(t, []float64{0, 1, 2, 3, 4, 5}, map[string][]float64{"p": {10, 10, 0, 10, 10, 10}})
	out := InterpolateZeros(s, []string{"p"})
	for i, v := range out.Data["p"] {
		if v != 10 {
			t.Fatalf("position %d = %v, want 10", i, v)
		}
	}
	if s.Data["p"][2] != 0 {
		t.Fatal("InterpolateZeros mutated its input")
	}
}

func TestMaskBlinksCoversSaccadeSpan(t *testing.T) {
	s := makeSamples(t, []float64{0, 1, 2, 3, 4, 5}, map[string][]float64{"p": {1, 2, 3, 4, 5, 6}})
	evs := Events{
		{Onset: 2, Duration: 1, Kind: KindBlink},
		{Onset: 1, Duration: 3, Kind: KindSaccade},
	}

	mask := BuildBlinkMask(s, evs, MaskOptions{})
	if len(mask) != 2 {
		t.Fatalf("BuildBlinkMask returned %d events, want blink plus saccade", len(mask))
	}

	out := MaskBlinks(s, evs, []string{"p"}, MaskOptions{})
	for i, wantNaN := range []bool{false, true, true, true, false, false} {
		if got := math.IsNaN(out.Data["p"][i]); got != wantNaN {
			t.Errorf("position %d: NaN=%v, want %v", i, got, wantNaN)
		}
	}
}

func TestBuildBlinkMaskResults(t *testing.T) {
	s := makeSamples(t, []float64{0, 1, 2, 3, 4, 5}, map[string][]float64{"p": {1, 2, 3, 4, 5, 6}})
	evs := Events{
		{Onset: 2, Duration: 1, Kind: KindBlink},
		{Onset: 1, Duration: 3, Kind: KindSaccade},
	}

	bad, res := BuildBlinkMaskResults(s, evs, DefaultMaskOptions())
	if len(bad) != 2 || len(res) != len(bad) {
		t.Fatalf("got %d events and %d results, want matching pair of 2", len(bad), len(res))
	}
	// Reported durations stay untouched until the outcomes are applied.
	if bad[0].Duration != 1 || bad[1].Duration != 3 {
		t.Fatalf("reported durations changed: %+v", bad)
	}
	ApplyDurations(bad, res)

	whole := BuildBlinkMask(s, evs, DefaultMaskOptions())
	if len(whole) != len(bad) {
		t.Fatalf("BuildBlinkMask returned %d events, want %d", len(whole), len(bad))
	}
	for i := range whole {
		if whole[i] != bad[i] {
			t.Fatalf("event %d differs from applied results: %+v vs %+v", i, whole[i], bad[i])
		}
	}

	if _, none := BuildBlinkMaskResults(s, evs, MaskOptions{}); none != nil {
		t.Fatalf("expected nil results with recovery disabled, got %v", none)
	}
}

func TestBuildBlinkMaskNoBlinks(t *testing.T) {
	s := makeSamples(t, []float64{0, 1, 2}, nil)
	evs := Events{{Onset: 0, Duration: 1, Kind: KindSaccade}}
	if got := BuildBlinkMask(s, evs, DefaultMaskOptions()); len(got) != 0 {
		t.Fatalf("expected empty mask without blinks, got %v", got)
	}
}

func TestInterpolateBlinks(t *testing.T) {
	s := makeSamples(t, []float64{0, 1, 2, 3, 4, 5}, map[string][]float64{"p": {10, 0, 0, 0, 10, 10}})
	evs := Events{{Onset: 1, Duration: 3, Kind: KindBlink}}

	out := InterpolateBlinks(s, evs, []string{"p"}, MaskOptions{})
	for i, v := range out.Data["p"] {
		if v != 10 {
			t.Fatalf("position %d = %v, want 10", i, v)
		}
	}
}
