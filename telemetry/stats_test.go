package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/sparks/components"
)

func TestQuantile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9},
		{"clamped", []float64{1, 2, 3}, 1.5, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Quantile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Quantile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeMotionStats(t *testing.T) {
	var dots []components.Dot
	for i := 1; i <= 10; i++ {
		dots = append(dots, components.Dot{Vel: components.V(float32(i), 0)})
	}
	dots[0].State = components.DotState{Phase: components.Detonating, Remaining: 1, Total: 4}
	dots[1].State = components.DotState{Phase: components.Detonating, Remaining: 3, Total: 4}

	ms := ComputeMotionStats(dots)

	if math.Abs(ms.SpeedMean-5.5) > 0.001 {
		t.Errorf("mean = %v, want 5.5", ms.SpeedMean)
	}
	// Sample std of 1..10
	if math.Abs(ms.SpeedStd-3.0277) > 0.001 {
		t.Errorf("std = %v, want ~3.03", ms.SpeedStd)
	}
	if ms.SpeedP50 != 5 || ms.SpeedP90 != 9 || ms.SpeedMax != 10 {
		t.Errorf("quantiles = %v/%v/%v, want 5/9/10", ms.SpeedP50, ms.SpeedP90, ms.SpeedMax)
	}
	if math.Abs(ms.FadeMean-0.5) > 0.001 {
		t.Errorf("fade mean = %v, want 0.5", ms.FadeMean)
	}
}

func TestComputeMotionStatsSingleDot(t *testing.T) {
	ms := ComputeMotionStats([]components.Dot{{Vel: components.V(3, 4)}})
	if math.Abs(ms.SpeedMean-5) > 0.001 || ms.SpeedStd != 0 {
		t.Errorf("got %+v, want mean 5 std 0", ms)
	}
}

func TestComputeMotionStatsEmpty(t *testing.T) {
	if ms := ComputeMotionStats(nil); ms != (MotionStats{}) {
		t.Error("empty slice should return all zeros")
	}
}

func TestSampleDots(t *testing.T) {
	dots := make([]components.Dot, 100)
	for i := range dots {
		dots[i].Pos = components.V(float32(i), 0)
	}

	if got := SampleDots(dots, 0); len(got) != 100 {
		t.Errorf("n=0 should not sample, got %d", len(got))
	}
	if got := SampleDots(dots, 200); len(got) != 100 {
		t.Errorf("n above len should not sample, got %d", len(got))
	}

	got := SampleDots(dots, 10)
	if len(got) != 10 {
		t.Fatalf("len = %d, want 10", len(got))
	}
	for i, d := range got {
		if d.Pos.X != float32(i*10) {
			t.Errorf("sample %d = %v, want %v", i, d.Pos.X, i*10)
		}
	}
}
