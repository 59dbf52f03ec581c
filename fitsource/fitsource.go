// Package fitsource adapts FIT activity recordings to gazeclean sample
// tables, so the zero-masking and interpolation policies apply to fitness
// streams the same way they do to gaze data. FIT files carry no annotated
// events, so the returned table comes without an event table.
package fitsource

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/gazetools/gazeclean"
	"github.com/tormoder/fit"
)

// Channel names produced by this package.
const (
	ChannelPower   = "power_w"
	ChannelHR      = "hr_bpm"
	ChannelCadence = "cadence_rpm"
	ChannelSpeed   = "speed_mps"
)

// Load decodes the FIT file at path into a sample table.
func Load(path string) (*gazeclean.Samples, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open FIT file: %w", err)
	}
	defer f.Close()
	return LoadReader(f)
}

// LoadReader decodes a FIT stream into a sample table.
func LoadReader(r io.Reader) (*gazeclean.Samples, error) {
	decoded, err := fit.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode FIT file: %w", err)
	}
	activity, err := decoded.Activity()
	if err != nil {
		return nil, fmt.Errorf("activity FIT expected: %w", err)
	}
	return FromActivity(activity)
}

// FromActivity builds a sample table from an activity's record messages. The
// time index is seconds elapsed since the first record. Records without a
// usable timestamp, and records that would break the index's strict ordering,
// are dropped. Invalid sensor readings become NaN.
func FromActivity(activity *fit.ActivityFile) (*gazeclean.Samples, error) {
	if activity == nil || len(activity.Records) == 0 {
		return nil, fmt.Errorf("activity file has no record messages")
	}

	times := make([]float64, 0, len(activity.Records))
	power := make([]float64, 0, len(activity.Records))
	hr := make([]float64, 0, len(activity.Records))
	cadence := make([]float64, 0, len(activity.Records))
	speed := make([]float64, 0, len(activity.Records))

	var start, last float64
	haveStart := false
	for _, rec := range activity.Records {
		if rec == nil || rec.Timestamp.IsZero() || fit.IsBaseTime(rec.Timestamp) {
			continue
		}
		ts := float64(rec.Timestamp.UnixMilli()) / 1000.0
		if !haveStart {
			start = ts
			haveStart = true
		} else if ts <= last {
			continue
		}
		last = ts

		times = append(times, ts-start)
		power = append(power, u16Value(rec.Power))
		hr = append(hr, u8Value(rec.HeartRate))
		cadence = append(cadence, u8Value(rec.Cadence))
		speed = append(speed, speedValue(rec))
	}
	if len(times) == 0 {
		return nil, fmt.Errorf("activity file has no timestamped records")
	}

	return gazeclean.NewSamples(times, map[string][]float64{
		ChannelPower:   power,
		ChannelHR:      hr,
		ChannelCadence: cadence,
		ChannelSpeed:   speed,
	})
}

func u16Value(v uint16) float64 {
	if v == math.MaxUint16 {
		return math.NaN()
	}
	return float64(v)
}

func u8Value(v uint8) float64 {
	if v == math.MaxUint8 {
		return math.NaN()
	}
	return float64(v)
}

func speedValue(rec *fit.RecordMsg) float64 {
	speed := rec.GetEnhancedSpeedScaled()
	if !math.IsNaN(speed) && !math.IsInf(speed, 0) && speed >= 0 {
		return speed
	}
	speed = rec.GetSpeedScaled()
	if !math.IsNaN(speed) && !math.IsInf(speed, 0) && speed >= 0 {
		return speed
	}
	return math.NaN()
}
