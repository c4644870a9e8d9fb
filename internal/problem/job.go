package problem

// JobVariant distinguishes a single-visit Service from a two-visit
// Shipment (spec §3).
type JobVariant int

const (
	JobService JobVariant = iota
	JobShipment
)

// Job is a unit of work: either a Service (one visit) or a Shipment
// (pickup then delivery, same vehicle). Immutable once built into a
// Problem.
type Job struct {
	Idx        int // position in Problem.Jobs; identity
	ExternalID string
	Variant    JobVariant

	Demand Capacity
	Skills SkillSet

	// Service fields.
	ServiceLocation LocationIndex
	ServiceDuration float64
	ServiceWindows  []TimeWindow

	// Shipment fields (Variant == JobShipment).
	PickupLocation   LocationIndex
	PickupDuration   float64
	PickupWindows    []TimeWindow
	DeliveryLocation LocationIndex
	DeliveryDuration float64
	DeliveryWindows  []TimeWindow
}

// LocationFor returns the location and duration/time-windows applicable to
// the given activity kind of this job.
func (j *Job) LocationFor(kind ActivityKind) (loc LocationIndex, duration float64, windows []TimeWindow) {
	switch kind {
	case ActivityShipmentPickup:
		return j.PickupLocation, j.PickupDuration, j.PickupWindows
	case ActivityShipmentDelivery:
		return j.DeliveryLocation, j.DeliveryDuration, j.DeliveryWindows
	default:
		return j.ServiceLocation, j.ServiceDuration, j.ServiceWindows
	}
}

// Activities returns every ActivityID this job contributes: one for a
// Service, two (pickup, delivery) for a Shipment.
func (j *Job) Activities() []ActivityID {
	if j.Variant == JobShipment {
		return []ActivityID{
			{Kind: ActivityShipmentPickup, JobIdx: j.Idx},
			{Kind: ActivityShipmentDelivery, JobIdx: j.Idx},
		}
	}
	return []ActivityID{{Kind: ActivityService, JobIdx: j.Idx}}
}

// DeliveryDemand is the demand counted toward a route's initial load (spec
// §3 invariant 4: "initial load (deliveries' demand summed)"). A Service
// counts as delivery demand; a Shipment's demand is carried from pickup to
// delivery and also counts toward initial load under the same convention.
func (j *Job) DeliveryDemand() Capacity {
	return j.Demand
}
