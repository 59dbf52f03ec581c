package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gazetools/gazeclean/pipeline"
)

func main() {
	var (
		input      = flag.String("input", "", "Path to input recording (.asc or .fit)")
		outDir     = flag.String("out", "", "Output directory")
		fields     = flag.String("fields", "pup_l", "Comma-separated channels to clean")
		mode       = flag.String("mode", "interpolate", "Cleaning mode: interpolate|mask")
		zeros      = flag.Bool("zeros", false, "Also treat exact-zero samples as missing")
		noRecovery = flag.Bool("no-recovery", false, "Disable adaptive extension of event ends")
		zThresh    = flag.Float64("zthresh", 0, "Recovery z-score cutoff (default 0.1)")
		window     = flag.Int("window", 0, "Recovery search window in samples (default 1000)")
		kernel     = flag.Int("kernel", 0, "Recovery smoothing kernel in samples (default 100)")
		format     = flag.String("format", "parquet", "Cleaned sample format: parquet|csv")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s --input session.asc --out outdir [--fields pup_l] [--mode interpolate|mask] [--zeros]\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if strings.TrimSpace(*input) == "" || strings.TrimSpace(*outDir) == "" {
		flag.Usage()
		os.Exit(2)
	}

	result, err := pipeline.Run(pipeline.Options{
		InputPath:  *input,
		OutDir:     *outDir,
		Fields:     splitFields(*fields),
		Mode:       *mode,
		Zeros:      *zeros,
		NoRecovery: *noRecovery,
		ZThresh:    *zThresh,
		Window:     *window,
		KernelSize: *kernel,
		Format:     *format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "gazeclean failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("gazeclean complete\n")
	fmt.Printf("Output dir:       %s\n", result.OutputDir)
	fmt.Printf("cleaned samples:  %s\n", result.CleanedSamplesPath)
	fmt.Printf("cleaning summary: %s\n", result.SummaryPath)
	fmt.Printf("masked events:    %d\n", result.MaskedEventCount)
	fmt.Printf("masked samples:   %d\n", result.MaskedSampleCount)
}

func splitFields(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
