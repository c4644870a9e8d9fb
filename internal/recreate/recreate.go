package recreate

import (
	"fmt"

	"github.com/hermesrouting/hermes-optimizer/internal/solution"
)

// Strategy reinserts every unassigned job in ws, mutating it in place.
// Unlike the constraint package's closed tagged union, recreate
// strategies are a genuinely open, user-selectable set — new ones can be
// added without touching every call site — so this is a plain interface,
// dispatched the way the teacher's sim.RoutingPolicy is (spec §4.3).
type Strategy interface {
	Recreate(ctx *Context, ws *solution.WorkingSolution)
}

// NewStrategy builds a Strategy by name, mirroring the teacher's
// NewRoutingPolicy/NewAdmissionPolicy factory-by-name convention. Empty
// string defaults to "best-insertion".
func NewStrategy(name string, sortMethod SortMethod, blinkRate float64, regretK int) Strategy {
	switch name {
	case "", "best-insertion":
		return BestInsertion{SortMethod: sortMethod, BlinkRate: blinkRate}
	case "construction-best-insertion":
		return ConstructionBestInsertion{}
	case "regret-insertion":
		return NewRegretInsertion(regretK)
	default:
		panic(fmt.Sprintf("recreate: unknown strategy %q", name))
	}
}
