package telemetry

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/pthm-cable/sparks/universe"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	// Simulate a few ticks
	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseGrid)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhasePropagate)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}
	if _, ok := stats.PhaseAvg[PhaseGrid]; !ok {
		t.Error("expected grid phase to be tracked")
	}
	if _, ok := stats.PhaseAvg[PhasePropagate]; !ok {
		t.Error("expected propagate phase to be tracked")
	}
}

func TestPerfCollector_TimesUniversePhases(t *testing.T) {
	u, err := universe.New(100, 100, 500, rand.New(rand.NewPCG(1, 1)), universe.DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	pc := NewPerfCollector(10)
	u.SetPhaseTimer(pc)

	for i := 0; i < 3; i++ {
		pc.StartTick()
		u.Tick(0.1)
		pc.EndTick()
	}

	stats := pc.Stats()
	for _, phase := range []string{PhasePartition, PhaseIntegrate, PhaseGrid, PhasePropagate} {
		if _, ok := stats.PhaseAvg[phase]; !ok {
			t.Errorf("expected %s phase to be tracked", phase)
		}
	}
	if _, ok := stats.PhaseAvg[PhaseRender]; ok {
		t.Error("render phase was never started")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5) // Small window

	// Fill window completely
	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseIntegrate)
		pc.EndTick()
	}

	stats := pc.Stats()

	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration after window filled")
	}
	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	// Simulate with uneven phase durations
	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseGrid)
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase(PhaseRender)
		time.Sleep(2 * time.Millisecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	csv := stats.ToCSV(42)

	if csv.WindowEnd != 42 {
		t.Errorf("window end = %d, want 42", csv.WindowEnd)
	}
	if csv.RenderPct <= csv.GridPct {
		t.Errorf("expected render (%v%%) > grid (%v%%)", csv.RenderPct, csv.GridPct)
	}
	if csv.PropagatePct != 0 {
		t.Errorf("propagate pct = %v, want 0", csv.PropagatePct)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()

	// Empty collector should return zero values without panicking
	if stats.AvgTickDuration != 0 {
		t.Error("expected zero avg tick duration for empty collector")
	}
	if stats.PhaseAvg == nil {
		t.Error("expected non-nil PhaseAvg map")
	}
	if stats.PhasePct == nil {
		t.Error("expected non-nil PhasePct map")
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	// First call establishes baseline
	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond) // ~60fps frame time
	pc.RecordFrame()

	stats := pc.Stats()

	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("expected frame duration >= 15ms, got %v", stats.FrameDuration)
	}
	if stats.FPS <= 0 || stats.FPS > 70 {
		t.Errorf("expected FPS in (0, 70] with 16ms frame time, got %v", stats.FPS)
	}
}
