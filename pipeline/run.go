package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/gazetools/gazeclean"
	"github.com/gazetools/gazeclean/ascsource"
	"github.com/gazetools/gazeclean/fitsource"
)

// Run executes the full cleaning pipeline and writes all artifacts: the
// cleaned sample table plus a JSON summary of what was masked.
func Run(opts Options) (*Result, error) {
	if strings.TrimSpace(opts.InputPath) == "" {
		return nil, fmt.Errorf("input path is required")
	}
	if strings.TrimSpace(opts.OutDir) == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	fields := opts.Fields
	if len(fields) == 0 {
		fields = []string{"pup_l"}
	}
	mode := strings.ToLower(strings.TrimSpace(opts.Mode))
	if mode == "" {
		mode = "interpolate"
	}
	if mode != "interpolate" && mode != "mask" {
		return nil, fmt.Errorf("unsupported mode %q (expected interpolate|mask)", mode)
	}
	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "parquet"
	}
	if format != "parquet" && format != "csv" {
		return nil, fmt.Errorf("unsupported format %q (expected parquet|csv)", format)
	}

	samples, events, err := loadInput(opts.InputPath)
	if err != nil {
		return nil, err
	}

	summary := SummaryFile{
		SourcePath:  opts.InputPath,
		SampleCount: samples.Len(),
		Fields:      fields,
		Mode:        mode,
		ZerosMasked: opts.Zeros,
	}

	var indices []int
	if len(events) > 0 {
		bad, res := gazeclean.BuildBlinkMaskResults(samples, events, gazeclean.MaskOptions{
			FindRecovery: !opts.NoRecovery,
			Recovery: gazeclean.RecoveryOptions{
				ZThresh:    opts.ZThresh,
				Window:     opts.Window,
				KernelSize: opts.KernelSize,
			},
		})
		if len(bad) == 0 {
			summary.Warnings = append(summary.Warnings, "event table has no blink events")
		} else {
			summary.MaskedEvents = make([]MaskedEvent, len(bad))
			for i, ev := range bad {
				me := MaskedEvent{
					Kind:             ev.Kind,
					Onset:            ev.Onset,
					Duration:         ev.Duration,
					AdjustedDuration: ev.Duration,
				}
				if res != nil {
					me.AdjustedDuration = res[i].Duration
					me.Extended = res[i].Extended
					me.Reason = res[i].Reason
				}
				summary.MaskedEvents[i] = me
			}
			gazeclean.ApplyDurations(bad, res)
			indices = gazeclean.ExpandToIndices(samples, bad)
		}
	}

	cleaned := samples
	if opts.Zeros {
		cleaned = gazeclean.MaskZeros(cleaned, fields)
	}
	if len(indices) > 0 {
		cleaned = gazeclean.Mask(cleaned, fields, indices)
	}
	if mode == "interpolate" {
		cleaned = gazeclean.Interpolate(cleaned, fields)
	}

	summary.MaskedSampleCount = len(indices)
	if samples.Len() > 0 {
		summary.MaskedPct = float64(len(indices)) / float64(samples.Len()) * 100.0
	}
	for _, f := range fields {
		before, ok := samples.Channel(f)
		if !ok {
			summary.Warnings = append(summary.Warnings, fmt.Sprintf("field %q not present in recording", f))
			continue
		}
		after, _ := cleaned.Channel(f)
		summary.Channels = append(summary.Channels, channelStats(f, before, after))
	}

	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	cleanedPath := filepath.Join(opts.OutDir, "cleaned_samples."+format)
	switch format {
	case "csv":
		if err := writeCleanedCSV(cleanedPath, cleaned); err != nil {
			return nil, fmt.Errorf("write cleaned csv: %w", err)
		}
	case "parquet":
		if err := writeCleanedParquet(cleanedPath, cleaned); err != nil {
			return nil, fmt.Errorf("write cleaned parquet: %w", err)
		}
	}
	summaryPath := filepath.Join(opts.OutDir, "cleaning_summary.json")
	if err := writeJSON(summaryPath, summary); err != nil {
		return nil, fmt.Errorf("write cleaning_summary.json: %w", err)
	}

	return &Result{
		OutputDir:          opts.OutDir,
		CleanedSamplesPath: cleanedPath,
		SummaryPath:        summaryPath,
		MaskedEventCount:   len(summary.MaskedEvents),
		MaskedSampleCount:  len(indices),
	}, nil
}

func loadInput(path string) (*gazeclean.Samples, gazeclean.Events, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".fit":
		s, err := fitsource.Load(path)
		if err != nil {
			return nil, nil, fmt.Errorf("load FIT recording: %w", err)
		}
		return s, nil, nil
	default:
		rec, err := ascsource.Load(path, ascsource.Options{})
		if err != nil {
			return nil, nil, fmt.Errorf("load ASC recording: %w", err)
		}
		return rec.Samples, rec.Events, nil
	}
}

func channelStats(field string, before, after []float64) ChannelStats {
	meanB, medianB, sdB, missB := describe(before)
	meanA, medianA, sdA, missA := describe(after)
	return ChannelStats{
		Field:         field,
		MeanBefore:    meanB,
		MeanAfter:     meanA,
		MedianBefore:  medianB,
		MedianAfter:   medianA,
		StdDevBefore:  sdB,
		StdDevAfter:   sdA,
		MissingBefore: missB,
		MissingAfter:  missA,
	}
}

// describe summarizes the valid portion of a channel. A channel with no valid
// values reports zeros so the summary stays JSON-encodable.
func describe(col []float64) (mean, median, sd float64, missing int) {
	valid := make([]float64, 0, len(col))
	for _, v := range col {
		if math.IsNaN(v) {
			continue
		}
		valid = append(valid, v)
	}
	missing = len(col) - len(valid)
	if len(valid) == 0 {
		return 0, 0, 0, missing
	}
	mean, _ = stats.Mean(valid)
	median, _ = stats.Median(valid)
	sd, _ = stats.StandardDeviation(valid)
	return mean, median, sd, missing
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCleanedCSV(path string, s *gazeclean.Samples) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := append([]string{"time"}, s.Fields...)
	if err := w.Write(header); err != nil {
		return err
	}
	for i := range s.Time {
		row := make([]string, 0, len(header))
		row = append(row, formatFloat(s.Time[i]))
		for _, field := range s.Fields {
			row = append(row, formatFloat(s.Data[field][i]))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}
