// Package population implements the bounded, diversity-preserving pool of
// AcceptedSolutions the ALNS driver selects from and admits into (spec
// §4.5, grounded on original_source/.../solver/solution/population.rs),
// with the biased-fitness eviction rule borrowed from HGS.
package population

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/hermesrouting/hermes-optimizer/internal/score"
	"github.com/hermesrouting/hermes-optimizer/internal/solution"
)

// AcceptedSolution is a frozen snapshot the population owns independently
// of whatever WorkingSolution the search thread continues to mutate (spec
// §3).
type AcceptedSolution struct {
	ID         string
	Solution   *solution.WorkingSolution
	Score      score.Score
	Breakdown  score.Breakdown
	Unassigned int
}

// NewAcceptedSolution snapshots ws under a fresh id.
func NewAcceptedSolution(ws *solution.WorkingSolution, s score.Score, bd score.Breakdown) *AcceptedSolution {
	return &AcceptedSolution{
		ID:         uuid.NewString(),
		Solution:   ws,
		Score:      s,
		Breakdown:  bd,
		Unassigned: len(ws.Unassigned()),
	}
}

// less orders two candidates by (|unassigned|, score) ascending, the key
// spec §4.5 sorts the population by for both insertion position and
// fit_rank.
func less(a, b *AcceptedSolution) bool {
	if a.Unassigned != b.Unassigned {
		return a.Unassigned < b.Unassigned
	}
	return a.Score.Less(b.Score)
}

// Population is a bounded set of AcceptedSolutions kept sorted ascending
// by (|unassigned|, score); members[0] is always the current best. Reads
// (selection) are frequent and take the read lock; writes (admission) are
// infrequent and exclusive (spec §5).
type Population struct {
	mu sync.RWMutex

	maxSize   int
	eliteSize int
	nClosest  int

	members []*AcceptedSolution
}

// New creates an empty population bounded at maxSize, scaling every
// member's diversity rank by (1 - eliteSize/|P|) in the biased fitness and
// averaging broken-pairs distance over the nClosest members when computing
// diversity rank (spec §4.5).
func New(maxSize, eliteSize, nClosest int) *Population {
	if maxSize <= 0 {
		maxSize = 1
	}
	return &Population{maxSize: maxSize, eliteSize: eliteSize, nClosest: nClosest}
}

// Len returns the current member count.
func (p *Population) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.members)
}

// Full reports whether the population is at capacity.
func (p *Population) Full() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.members) >= p.maxSize
}

// Best returns the current best member, or nil if empty.
func (p *Population) Best() *AcceptedSolution {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.members) == 0 {
		return nil
	}
	return p.members[0]
}

// Worst returns the current worst member, or nil if empty.
func (p *Population) Worst() *AcceptedSolution {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.members) == 0 {
		return nil
	}
	return p.members[len(p.members)-1]
}

// Members returns a shallow copy of the current member slice, safe for a
// caller to index into without racing a concurrent Add (spec §5: reads are
// non-blocking among themselves).
func (p *Population) Members() []*AcceptedSolution {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*AcceptedSolution, len(p.members))
	copy(out, p.members)
	return out
}

// Add admits candidate following spec §4.5: dedup against structurally
// identical members, evict the worst biased-fitness member if at
// capacity, then insert at the position given by (|unassigned|, score).
// Reports whether candidate was admitted.
func (p *Population) Add(candidate *AcceptedSolution) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, m := range p.members {
		if m.Score.Equal(candidate.Score) && structurallyIdentical(m.Solution, candidate.Solution) {
			return false
		}
	}

	if len(p.members) >= p.maxSize {
		evict := p.worstBiasedFitnessIndex()
		p.members = append(p.members[:evict], p.members[evict+1:]...)
	}

	pos := sort.Search(len(p.members), func(i int) bool {
		return less(candidate, p.members[i])
	})
	p.members = append(p.members, nil)
	copy(p.members[pos+1:], p.members[pos:])
	p.members[pos] = candidate
	return true
}

// worstBiasedFitnessIndex computes bf(s) = fit_rank(s) + (1 -
// elite/|P|) * diversity_rank(s) for every member and returns the index of
// the largest (worst) value (spec §4.5). members is already sorted by
// (|unassigned|, score) ascending, so fit_rank is simply the slice index.
func (p *Population) worstBiasedFitnessIndex() int {
	n := len(p.members)
	avgDist := make([]float64, n)
	for i, m := range p.members {
		dists := make([]float64, 0, n-1)
		for j, o := range p.members {
			if i == j {
				continue
			}
			dists = append(dists, float64(m.Solution.BrokenPairsDistance(o.Solution)))
		}
		sort.Float64s(dists)
		k := p.nClosest
		if k <= 0 || k > len(dists) {
			k = len(dists)
		}
		var sum float64
		for _, d := range dists[:k] {
			sum += d
		}
		if k > 0 {
			avgDist[i] = sum / float64(k)
		}
	}

	// diversity_rank: position when sorted by avgDist descending — the
	// single most isolated member gets rank 0.
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return avgDist[order[a]] > avgDist[order[b]] })
	diversityRank := make([]int, n)
	for rank, idx := range order {
		diversityRank[idx] = rank
	}

	eliteFactor := 1.0
	if n > 0 {
		eliteFactor = 1 - float64(p.eliteSize)/float64(n)
	}

	worstIdx := 0
	worstBF := -1.0
	for i := range p.members {
		bf := float64(i) + eliteFactor*float64(diversityRank[i])
		if bf > worstBF {
			worstBF = bf
			worstIdx = i
		}
	}
	return worstIdx
}

// structurallyIdentical reports whether a and b hold the same routes (same
// vehicle, same ordered activity ids) — the second half of spec §4.5's
// dedup test, alongside an equal Score.
func structurallyIdentical(a, b *solution.WorkingSolution) bool {
	ra, rb := a.Routes(), b.Routes()
	if len(ra) != len(rb) {
		return false
	}
	for i := range ra {
		if ra[i].VehicleIdx != rb[i].VehicleIdx {
			return false
		}
		if len(ra[i].Activities) != len(rb[i].Activities) {
			return false
		}
		for j := range ra[i].Activities {
			if ra[i].Activities[j].ID != rb[i].Activities[j].ID {
				return false
			}
		}
	}
	return true
}
