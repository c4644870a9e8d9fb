// Package alns implements the outer ruin-and-recreate loop: adaptive
// operator weights, the per-iteration driver, and multi-threaded
// coordination (spec §4.3, grounded on the teacher's sim/cluster/
// simulator.go main-loop shape).
package alns

import (
	"math/rand"
	"sort"
)

// MinWeight floors an adaptive weight after a segment update so a
// strategy that scored zero for a whole segment is merely
// deprioritized, never fully starved out of future selection (spec
// §4.3).
const MinWeight = 0.1

// AdaptiveWeights tracks one roulette-wheel weight per named strategy
// (ruin or recreate), adjusted every segment toward the strategy's
// average per-iteration score (spec §4.3).
type AdaptiveWeights struct {
	names         []string
	weight        map[string]float64
	segmentScore  map[string]float64
}

// NewAdaptiveWeights seeds every named strategy at weight 1.
func NewAdaptiveWeights(names []string) *AdaptiveWeights {
	w := &AdaptiveWeights{
		names:        append([]string(nil), names...),
		weight:       make(map[string]float64, len(names)),
		segmentScore: make(map[string]float64, len(names)),
	}
	for _, n := range names {
		w.weight[n] = 1
	}
	return w
}

// Pick draws a strategy name via roulette-wheel selection over the
// current weights, skipping any name exclude reports tabu (spec §4.3
// step 2, §4.3's tabu exclusion). Falls back to ignoring exclusion if
// every candidate is currently tabu, so the search never deadlocks.
func (w *AdaptiveWeights) Pick(rng *rand.Rand, exclude func(name string) bool) string {
	name, ok := w.pick(rng, exclude)
	if ok {
		return name
	}
	name, _ = w.pick(rng, func(string) bool { return false })
	return name
}

func (w *AdaptiveWeights) pick(rng *rand.Rand, exclude func(name string) bool) (string, bool) {
	total := 0.0
	for _, n := range w.names {
		if exclude(n) {
			continue
		}
		total += w.weight[n]
	}
	if total <= 0 {
		return "", false
	}
	r := rng.Float64() * total
	cum := 0.0
	for _, n := range w.names {
		if exclude(n) {
			continue
		}
		cum += w.weight[n]
		if r <= cum {
			return n, true
		}
	}
	return w.names[len(w.names)-1], true
}

// RecordUsage accumulates the per-iteration score the driver assigned to
// name's use this iteration, consumed at the next segment boundary.
func (w *AdaptiveWeights) RecordUsage(name string, iterationScore float64) {
	w.segmentScore[name] += iterationScore
}

// UpdateSegment recomputes every strategy's weight from its accumulated
// segment score and resets the accumulators (spec §4.3: "w ← (1 − ρ)·w +
// ρ · (total_score / iterations_in_segment), floored at MIN_WEIGHT").
func (w *AdaptiveWeights) UpdateSegment(reactionFactor float64, segmentIterations int) {
	if segmentIterations <= 0 {
		segmentIterations = 1
	}
	for _, n := range w.names {
		updated := (1-reactionFactor)*w.weight[n] + reactionFactor*(w.segmentScore[n]/float64(segmentIterations))
		if updated < MinWeight {
			updated = MinWeight
		}
		w.weight[n] = updated
		w.segmentScore[n] = 0
	}
}

// Reset restores every weight to 1 and clears segment accumulators (spec
// §4.3: "every alns_iterations_without_improvement_reset iterations
// without improvement, reset weights to 1 and clear the tabu").
func (w *AdaptiveWeights) Reset() {
	for _, n := range w.names {
		w.weight[n] = 1
		w.segmentScore[n] = 0
	}
}

// Snapshot returns a copy of the current weights keyed by strategy name.
func (w *AdaptiveWeights) Snapshot() map[string]float64 {
	out := make(map[string]float64, len(w.names))
	for _, n := range w.names {
		out[n] = w.weight[n]
	}
	return out
}

// Names returns the configured strategy names sorted alphabetically.
func (w *AdaptiveWeights) Names() []string {
	out := append([]string(nil), w.names...)
	sort.Strings(out)
	return out
}
