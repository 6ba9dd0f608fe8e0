package telemetry

import (
	"github.com/pthm-cable/sparks/components"
	"github.com/pthm-cable/sparks/universe"
)

// Collector accumulates tick reports within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec float64
	maxEventsPerTick  int

	// Current window tracking
	windowStartTick int32
	elapsedSec      float64

	// Counters for current window
	ignitions      int
	deaths         int
	processed      int
	external       int
	peakPending    int
	saturatedTicks int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation time
// maxEventsPerTick: the engine's drain budget, used to count saturated ticks
func NewCollector(windowDurationSec float64, maxEventsPerTick int) *Collector {
	if windowDurationSec <= 0 {
		windowDurationSec = 1
	}
	return &Collector{
		windowDurationSec: windowDurationSec,
		maxEventsPerTick:  maxEventsPerTick,
	}
}

// Record adds one tick's report to the current window.
func (c *Collector) Record(r universe.TickReport, dt float32) {
	c.elapsedSec += float64(dt)
	c.ignitions += r.Ignitions
	c.deaths += r.Deaths
	c.processed += r.Processed
	c.external += r.External
	if r.Pending > c.peakPending {
		c.peakPending = r.Pending
	}
	if c.maxEventsPerTick > 0 && r.Processed >= c.maxEventsPerTick {
		c.saturatedTicks++
	}
}

// ShouldFlush returns true once the window has covered its duration.
func (c *Collector) ShouldFlush() bool {
	return c.elapsedSec >= c.windowDurationSec
}

// Flush produces a WindowStats and resets counters for the next window.
// The caller must provide:
// - currentTick, simTimeSec: where the window ends
// - state: engine counts at window end
// - dots: a snapshot (or sample) of live dots for motion statistics
func (c *Collector) Flush(currentTick int32, simTimeSec float64, state universe.Stats, dots []components.Dot) WindowStats {
	motion := ComputeMotionStats(dots)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      simTimeSec,

		Live:       state.Live,
		Detonating: state.Detonating,
		Pending:    state.Pending,

		Ignitions:         c.ignitions,
		Deaths:            c.deaths,
		ImpulsesProcessed: c.processed,
		ExternalImpulses:  c.external,
		PeakPending:       c.peakPending,
		SaturatedTicks:    c.saturatedTicks,

		SpeedMean: motion.SpeedMean,
		SpeedStd:  motion.SpeedStd,
		SpeedP50:  motion.SpeedP50,
		SpeedP90:  motion.SpeedP90,
		SpeedMax:  motion.SpeedMax,
		FadeMean:  motion.FadeMean,
	}

	c.startWindow(currentTick)
	return stats
}

// Reset discards the current window and starts a new one at tick 0.
func (c *Collector) Reset() {
	c.startWindow(0)
}

func (c *Collector) startWindow(tick int32) {
	c.windowStartTick = tick
	c.elapsedSec = 0
	c.ignitions = 0
	c.deaths = 0
	c.processed = 0
	c.external = 0
	c.peakPending = 0
	c.saturatedTicks = 0
}
