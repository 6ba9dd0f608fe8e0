package game

import (
	"log/slog"

	"github.com/pthm-cable/sparks/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush() {
		return
	}
	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)

	// Motion statistics come from a bounded sample of the population
	g.snapshot = g.uni.Snapshot(g.snapshot[:0])
	sample := telemetry.SampleDots(g.snapshot, g.cfg.Telemetry.SpeedSample)

	stats := g.collector.Flush(g.tick, g.simTime, g.uni.Stats(), sample)
	perfStats := g.perfCollector.Stats()

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if g.outputManager != nil {
			if err := g.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
	}
}
