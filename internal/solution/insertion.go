package solution

// Insertion describes where a candidate job should be placed: a Service
// lands at a single Position in a route; a Shipment lands at PickupPos and
// DeliveryPos (DeliveryPos > PickupPos), per spec §4.6. RouteIdx == -1
// means "start a fresh route for VehicleIdx" — the enumerator (§4.6, C5)
// is the only producer of these, so WorkingSolution.Insert never has to
// validate positional feasibility itself (spec §4.1: "fails-hard on
// positional violation since insertions are produced by the enumerator").
type Insertion struct {
	JobIdx     int
	VehicleIdx int
	RouteIdx   int // index into WorkingSolution.routes, or -1 for a new route
	IsShipment bool

	Position    int // Service insertion position
	PickupPos   int // Shipment pickup position
	DeliveryPos int // Shipment delivery position, > PickupPos
}
