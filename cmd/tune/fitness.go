package main

import (
	"math"
	"math/rand/v2"
	"sync"

	"github.com/pthm-cable/sparks/config"
	"github.com/pthm-cable/sparks/telemetry"
	"github.com/pthm-cable/sparks/universe"
)

// FitnessEvaluator runs headless chain reactions and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	mu   sync.Mutex
	last runSummary // averaged over the seeds of the most recent Evaluate
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 1.0,
	}
}

// runSummary is what one chain reaction did.
type runSummary struct {
	DurationSec float64 // sim time until nothing was detonating or pending
	Consumed    float64 // fraction of the population that detonated
	Quality     float64
}

// LastSummary returns the seed-averaged summary of the most recent evaluation.
func (fe *FitnessEvaluator) LastSummary() runSummary {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.last
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	results := make([]runSummary, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	var totalFitness float64
	var avg runSummary
	for _, r := range results {
		totalFitness += computeFitness(r, cfg.Tune.TargetConsumed)
		avg.DurationSec += r.DurationSec
		avg.Consumed += r.Consumed
		avg.Quality += r.Quality
	}
	n := float64(len(results))
	avg.DurationSec /= n
	avg.Consumed /= n
	avg.Quality /= n

	fe.mu.Lock()
	fe.last = avg
	fe.mu.Unlock()

	return totalFitness / n
}

// runSimulation ignites the centre of a fresh universe and runs it until
// the chain dies out or maxTicks is reached.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) runSummary {
	params, err := cfg.EngineParams()
	if err != nil {
		return runSummary{}
	}
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
	w, h := cfg.Derived.WorldW, cfg.Derived.WorldH
	dots := cfg.Tune.Dots

	uni, err := universe.New(w, h, dots, rng, params)
	if err != nil || dots == 0 {
		return runSummary{}
	}
	if err := uni.AddEvent(float32(w)/2, float32(h)/2, float32(cfg.Events.ClickRadius)); err != nil {
		return runSummary{}
	}

	collector := telemetry.NewCollector(fe.statsWindow, params.MaxEventsPerTick)
	var windows []telemetry.WindowStats
	dt := cfg.Derived.DT32

	var tick int32
	var simTime float64
	for tick < fe.maxTicks {
		report := uni.Tick(dt)
		tick++
		simTime += float64(dt)
		collector.Record(report, dt)

		stats := uni.Stats()
		if collector.ShouldFlush() {
			windows = append(windows, collector.Flush(tick, simTime, stats, nil))
		}
		if stats.Detonating == 0 && stats.Pending == 0 {
			break
		}
	}

	return runSummary{
		DurationSec: simTime,
		Consumed:    1 - float64(uni.Stats().Live)/float64(dots),
		Quality:     computeQuality(windows),
	}
}

// copyConfig creates a copy of the base config. Config holds only values,
// so a struct copy is deep.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(duration × closeness × (1 + 0.2 × quality))
// A long chain only scores if it burns close to the target fraction.
func computeFitness(r runSummary, target float64) float64 {
	return -(r.DurationSec * closeness(r.Consumed, target) * (1.0 + 0.2*r.Quality))
}

// closeness is 1 when consumed hits target and falls linearly to 0 at the
// farther of 0 and 1.
func closeness(consumed, target float64) float64 {
	span := math.Max(target, 1-target)
	if span <= 0 {
		return 0
	}
	return clamp01(1 - math.Abs(consumed-target)/span)
}

// computeQuality is the fraction of windows in which the impulse queue never
// hit the per-tick drain budget.
func computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) == 0 {
		return 0
	}
	smooth := 0
	for _, w := range windows {
		if w.SaturatedTicks == 0 {
			smooth++
		}
	}
	return float64(smooth) / float64(len(windows))
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
