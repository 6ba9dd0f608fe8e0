package telemetry

import (
	"testing"

	"github.com/pthm-cable/sparks/components"
	"github.com/pthm-cable/sparks/universe"
)

func TestCollector_WindowFlush(t *testing.T) {
	c := NewCollector(1.0, 50)

	for i := 0; i < 9; i++ {
		c.Record(universe.TickReport{Ignitions: 2, Deaths: 1, Processed: 50, Pending: i, External: 1}, 0.1)
		if c.ShouldFlush() {
			t.Fatalf("flushed early at tick %d", i)
		}
	}
	c.Record(universe.TickReport{Processed: 3, Pending: 4}, 0.1)
	if !c.ShouldFlush() {
		t.Fatal("expected flush after 1s of sim time")
	}

	dots := []components.Dot{{Vel: components.V(2, 0)}, {Vel: components.V(4, 0)}}
	stats := c.Flush(10, 1.0, universe.Stats{Live: 2, Detonating: 1, Pending: 4}, dots)

	if stats.Ignitions != 18 || stats.Deaths != 9 || stats.ExternalImpulses != 9 {
		t.Errorf("counters = %d/%d/%d, want 18/9/9", stats.Ignitions, stats.Deaths, stats.ExternalImpulses)
	}
	if stats.ImpulsesProcessed != 453 {
		t.Errorf("processed = %d, want 453", stats.ImpulsesProcessed)
	}
	if stats.PeakPending != 8 {
		t.Errorf("peak pending = %d, want 8", stats.PeakPending)
	}
	if stats.SaturatedTicks != 9 {
		t.Errorf("saturated ticks = %d, want 9", stats.SaturatedTicks)
	}
	if stats.Live != 2 || stats.Detonating != 1 || stats.Pending != 4 {
		t.Errorf("state = %+v", stats)
	}
	if stats.SpeedMean != 3 {
		t.Errorf("speed mean = %v, want 3", stats.SpeedMean)
	}

	// Counters reset for the next window.
	if c.ShouldFlush() {
		t.Error("new window should not be ready")
	}
	next := c.Flush(20, 2.0, universe.Stats{}, nil)
	if next.WindowStartTick != 10 || next.Ignitions != 0 || next.PeakPending != 0 {
		t.Errorf("counters not reset: %+v", next)
	}
}

func TestCollector_Reset(t *testing.T) {
	c := NewCollector(1.0, 50)
	c.Flush(40, 4.0, universe.Stats{}, nil)
	for i := 0; i < 5; i++ {
		c.Record(universe.TickReport{Ignitions: 3, Deaths: 2, Processed: 50, Pending: 7, External: 1}, 0.1)
	}

	c.Reset()

	if c.ShouldFlush() {
		t.Fatal("reset window should not be ready")
	}
	for i := 0; i < 10; i++ {
		c.Record(universe.TickReport{Ignitions: 1}, 0.1)
	}
	stats := c.Flush(10, 1.0, universe.Stats{}, nil)
	if stats.WindowStartTick != 0 {
		t.Errorf("window start = %d, want 0", stats.WindowStartTick)
	}
	if stats.Ignitions != 10 || stats.Deaths != 0 || stats.ExternalImpulses != 0 {
		t.Errorf("counters carried over reset: %+v", stats)
	}
	if stats.PeakPending != 0 || stats.SaturatedTicks != 0 || stats.ImpulsesProcessed != 0 {
		t.Errorf("counters carried over reset: %+v", stats)
	}
}
