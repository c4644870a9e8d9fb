package problem

// SkillSet is a small unordered set of skill names. Implemented as a map
// rather than a bitset: problem instances are small enough (tens of
// skills) that clarity wins over a packed representation.
type SkillSet map[string]struct{}

// NewSkillSet builds a set from a slice, deduplicating.
func NewSkillSet(skills []string) SkillSet {
	s := make(SkillSet, len(skills))
	for _, k := range skills {
		s[k] = struct{}{}
	}
	return s
}

// Subset reports whether every skill in s is present in o — the
// vehicle.skills ⊆ job.skills compatibility test (spec §3 invariant 6) is
// evaluated as vehicle.Subset(job).
func (s SkillSet) Subset(o SkillSet) bool {
	for k := range s {
		if _, ok := o[k]; !ok {
			return false
		}
	}
	return true
}
