package problem

// TravelMatrices bundles the three row-major flat arrays the solver reads
// travel figures from: cost, time (seconds), distance (meters). Each has
// length n*n where n is the number of locations; matrix[i*n+j] is the
// figure travelling from location i to location j. Diagonal time entries
// are 0 by construction (spec §3).
type TravelMatrices struct {
	N            int
	Cost         []float64
	Time         []float64
	Distance     []float64
	IsSymmetric  bool
}

// NewTravelMatrices validates that all three arrays have length n*n and
// returns the computed IsSymmetric flag alongside the bundle.
func NewTravelMatrices(n int, cost, dist, tm []float64) (TravelMatrices, error) {
	want := n * n
	if len(cost) != want || len(dist) != want || len(tm) != want {
		return TravelMatrices{}, &InvalidProblemError{
			Field:   "travel_matrices",
			Message: "cost/time/distance arrays must have length n*n",
		}
	}
	return TravelMatrices{
		N: n, Cost: cost, Time: tm, Distance: dist,
		IsSymmetric: isSymmetric(n, tm) && isSymmetric(n, cost) && isSymmetric(n, dist),
	}, nil
}

func isSymmetric(n int, m []float64) bool {
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if m[i*n+j] != m[j*n+i] {
				return false
			}
		}
	}
	return true
}

// CostBetween returns the travel cost from a to b.
func (m TravelMatrices) CostBetween(a, b LocationIndex) float64 {
	return m.Cost[int(a)*m.N+int(b)]
}

// TimeBetween returns the travel time in seconds from a to b.
func (m TravelMatrices) TimeBetween(a, b LocationIndex) float64 {
	return m.Time[int(a)*m.N+int(b)]
}

// DistanceBetween returns the travel distance in meters from a to b.
func (m TravelMatrices) DistanceBetween(a, b LocationIndex) float64 {
	return m.Distance[int(a)*m.N+int(b)]
}

// CostProviderKind tags a vehicle profile's travel-matrix source (spec
// §6). The solver core only ever consumes the resulting TravelMatrices;
// GraphHopperApi and Osrm are resolved by the out-of-scope matrix-provider
// collaborator (internal/matrixprovider) before a Problem is built.
type CostProviderKind int

const (
	CostProviderCustom CostProviderKind = iota
	CostProviderGraphHopperAPI
	CostProviderOSRM
	CostProviderAsTheCrowFlies
)

// VehicleProfile is a named bundle carrying the travel matrices used by
// every vehicle referencing it (spec §3).
type VehicleProfile struct {
	Idx      int
	ID       string
	Provider CostProviderKind
	Matrices TravelMatrices
}
