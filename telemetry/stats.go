package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/sparks/components"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Engine state at window end
	Live       int `csv:"live"`
	Detonating int `csv:"detonating"`
	Pending    int `csv:"pending"`

	// Activity during window
	Ignitions         int `csv:"ignitions"`
	Deaths            int `csv:"deaths"`
	ImpulsesProcessed int `csv:"impulses_processed"`
	ExternalImpulses  int `csv:"external_impulses"`
	PeakPending       int `csv:"peak_pending"`
	SaturatedTicks    int `csv:"saturated_ticks"` // ticks that used the whole drain budget

	// Motion (sampled at window end)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`
	SpeedMax  float64 `csv:"speed_max"`
	FadeMean  float64 `csv:"fade_mean"` // over detonating dots only
}

// MotionStats summarises dot speeds and detonation fade.
type MotionStats struct {
	SpeedMean, SpeedStd          float64
	SpeedP50, SpeedP90, SpeedMax float64
	FadeMean                     float64
}

// Quantile returns the empirical p-quantile of a sorted slice.
// Returns 0 if the slice is empty.
func Quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	p = min(max(p, 0), 1)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// ComputeMotionStats computes speed and fade statistics over dots.
func ComputeMotionStats(dots []components.Dot) MotionStats {
	if len(dots) == 0 {
		return MotionStats{}
	}

	speeds := make([]float64, len(dots))
	var fades []float64
	for i, d := range dots {
		speeds[i] = float64(d.Vel.Length())
		if d.State.IsDetonating() {
			fades = append(fades, float64(d.Fade()))
		}
	}
	slices.Sort(speeds)

	var ms MotionStats
	if len(speeds) > 1 {
		ms.SpeedMean, ms.SpeedStd = stat.MeanStdDev(speeds, nil)
	} else {
		ms.SpeedMean = speeds[0]
	}
	ms.SpeedP50 = Quantile(speeds, 0.5)
	ms.SpeedP90 = Quantile(speeds, 0.9)
	ms.SpeedMax = speeds[len(speeds)-1]
	if len(fades) > 0 {
		ms.FadeMean = stat.Mean(fades, nil)
	}
	return ms
}

// SampleDots returns at most n dots taken at an even stride. The result
// aliases dots when no sampling is needed.
func SampleDots(dots []components.Dot, n int) []components.Dot {
	if n <= 0 || len(dots) <= n {
		return dots
	}
	out := make([]components.Dot, 0, n)
	stride := float64(len(dots)) / float64(n)
	for i := 0; i < n; i++ {
		out = append(out, dots[int(float64(i)*stride)])
	}
	return out
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("live", s.Live),
		slog.Int("detonating", s.Detonating),
		slog.Int("pending", s.Pending),
		slog.Int("ignitions", s.Ignitions),
		slog.Int("deaths", s.Deaths),
		slog.Int("impulses_processed", s.ImpulsesProcessed),
		slog.Int("external_impulses", s.ExternalImpulses),
		slog.Int("peak_pending", s.PeakPending),
		slog.Int("saturated_ticks", s.SaturatedTicks),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("fade_mean", s.FadeMean),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"live", s.Live,
		"detonating", s.Detonating,
		"pending", s.Pending,
		"ignitions", s.Ignitions,
		"deaths", s.Deaths,
		"impulses_processed", s.ImpulsesProcessed,
		"external_impulses", s.ExternalImpulses,
		"peak_pending", s.PeakPending,
		"saturated_ticks", s.SaturatedTicks,
		"speed_mean", s.SpeedMean,
		"speed_std", s.SpeedStd,
		"speed_p50", s.SpeedP50,
		"speed_p90", s.SpeedP90,
		"speed_max", s.SpeedMax,
		"fade_mean", s.FadeMean,
	)
}
