package pipeline

// Options configures the gazeclean pipeline.
type Options struct {
	InputPath string
	OutDir    string

	// Fields are the channels to clean. Defaults to ["pup_l"].
	Fields []string

	// Mode is "interpolate" (replace bad data with linear estimates) or
	// "mask" (replace with NaN). Defaults to "interpolate".
	Mode string

	// Zeros also treats exact-zero samples in Fields as missing.
	Zeros bool

	// NoRecovery disables adaptive extension of event ends.
	NoRecovery bool

	// Recovery tuning; zero values use the library defaults.
	ZThresh    float64
	Window     int
	KernelSize int

	// Format of the cleaned sample table: parquet|csv. Defaults to parquet.
	Format string
}

// Result returns generated output paths and headline counts.
type Result struct {
	OutputDir          string `json:"output_dir"`
	CleanedSamplesPath string `json:"cleaned_samples_path"`
	SummaryPath        string `json:"summary_path"`
	MaskedEventCount   int    `json:"masked_event_count"`
	MaskedSampleCount  int    `json:"masked_sample_count"`
}

// SummaryFile describes what the cleaning pass did to one recording.
type SummaryFile struct {
	SourcePath        string         `json:"source_path"`
	SampleCount       int            `json:"sample_count"`
	Fields            []string       `json:"fields"`
	Mode              string         `json:"mode"`
	ZerosMasked       bool           `json:"zeros_masked"`
	MaskedEvents      []MaskedEvent  `json:"masked_events,omitempty"`
	MaskedSampleCount int            `json:"masked_sample_count"`
	MaskedPct         float64        `json:"masked_pct"`
	Channels          []ChannelStats `json:"channels,omitempty"`
	Warnings          []string       `json:"warnings,omitempty"`
}

// MaskedEvent is one interval the pipeline treated as untrustworthy.
type MaskedEvent struct {
	Kind             string  `json:"kind"`
	Onset            float64 `json:"onset"`
	Duration         float64 `json:"duration"`
	AdjustedDuration float64 `json:"adjusted_duration"`
	Extended         bool    `json:"extended"`
	Reason           string  `json:"reason,omitempty"`
}

// ChannelStats compares one channel before and after cleaning.
type ChannelStats struct {
	Field         string  `json:"field"`
	MeanBefore    float64 `json:"mean_before"`
	MeanAfter     float64 `json:"mean_after"`
	MedianBefore  float64 `json:"median_before"`
	MedianAfter   float64 `json:"median_after"`
	StdDevBefore  float64 `json:"stddev_before"`
	StdDevAfter   float64 `json:"stddev_after"`
	MissingBefore int     `json:"missing_before"`
	MissingAfter  int     `json:"missing_after"`
}
