package problem

import "fmt"

// ActivityKind tags the three activity variants an ActivityID may carry
// (spec §3: "a tagged index with variants Service, ShipmentPickup,
// ShipmentDelivery").
type ActivityKind int

const (
	ActivityService ActivityKind = iota
	ActivityShipmentPickup
	ActivityShipmentDelivery
)

func (k ActivityKind) String() string {
	switch k {
	case ActivityService:
		return "Service"
	case ActivityShipmentPickup:
		return "ShipmentPickup"
	case ActivityShipmentDelivery:
		return "ShipmentDelivery"
	default:
		return "Unknown"
	}
}

// ActivityID identifies one visit within a route: a job index tagged with
// which of the job's activities (single service, or one half of a
// shipment) it denotes. Route ordering and equality of activities is by
// this identifier (spec §3).
type ActivityID struct {
	Kind   ActivityKind
	JobIdx int
}

func (a ActivityID) String() string {
	return fmt.Sprintf("%s(%d)", a.Kind, a.JobIdx)
}

// IsShipment reports whether this activity belongs to a shipment (either
// half), used by local-search operators that must refuse to split a
// shipment's pickup/delivery pair across a move (spec §9 open question).
func (a ActivityID) IsShipment() bool {
	return a.Kind == ActivityShipmentPickup || a.Kind == ActivityShipmentDelivery
}
