package rng

import "math/rand"

// Noiser perturbs a candidate insertion score to diversify otherwise
// deterministic best-insertion/regret construction, and optionally skips a
// candidate outright ("blink"), per spec §4.6 and §9.
type Noiser struct {
	level *rand.Rand
	amt   float64
}

// NewNoiser wraps the per-(iteration, job) seeded source r with a maximum
// perturbation amount (a fraction of the score being noised).
func NewNoiser(r *rand.Rand, amount float64) *Noiser {
	return &Noiser{level: r, amt: amount}
}

// Perturb returns score scaled by a uniform factor in
// [1-amount, 1+amount].
func (n *Noiser) Perturb(score float64) float64 {
	if n.amt <= 0 {
		return score
	}
	factor := 1 + (n.level.Float64()*2-1)*n.amt
	return score * factor
}

// Blink reports whether the candidate should be skipped outright, drawn
// with the given probability from the same seeded source used for Perturb
// so the decision is reproducible alongside the noise itself.
func (n *Noiser) Blink(probability float64) bool {
	if probability <= 0 {
		return false
	}
	return n.level.Float64() < probability
}
