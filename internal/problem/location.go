package problem

// Location is an immutable point in the problem's location list. Identity
// is its index in Problem.Locations; two locations are the same iff their
// indices are equal.
type Location struct {
	// Lon, Lat are geographic coordinates (§6: "[lon, lat]"). Planar
	// instances (spec §8 scenarios) store (x, y) in the same fields.
	Lon, Lat float64
}

// LocationIndex identifies a Location by position in Problem.Locations.
type LocationIndex int

// BoundingBox is the axis-aligned envelope of a set of visited locations
// (spec §3 invariant 5).
type BoundingBox struct {
	MinLon, MinLat, MaxLon, MaxLat float64
	empty                          bool
}

// EmptyBoundingBox returns a box containing no points.
func EmptyBoundingBox() BoundingBox {
	return BoundingBox{empty: true}
}

// Extend grows the box to include loc, returning the updated box.
func (b BoundingBox) Extend(loc Location) BoundingBox {
	if b.empty {
		return BoundingBox{MinLon: loc.Lon, MaxLon: loc.Lon, MinLat: loc.Lat, MaxLat: loc.Lat}
	}
	if loc.Lon < b.MinLon {
		b.MinLon = loc.Lon
	}
	if loc.Lon > b.MaxLon {
		b.MaxLon = loc.Lon
	}
	if loc.Lat < b.MinLat {
		b.MinLat = loc.Lat
	}
	if loc.Lat > b.MaxLat {
		b.MaxLat = loc.Lat
	}
	return b
}

// Merge combines b with o into their union envelope.
func (b BoundingBox) Merge(o BoundingBox) BoundingBox {
	if b.empty {
		return o
	}
	if o.empty {
		return b
	}
	return BoundingBox{
		MinLon: min(b.MinLon, o.MinLon),
		MaxLon: max(b.MaxLon, o.MaxLon),
		MinLat: min(b.MinLat, o.MinLat),
		MaxLat: max(b.MaxLat, o.MaxLat),
	}
}

// Intersects reports whether b and o overlap. Two empty boxes, or an empty
// box against anything, never intersect — used by inter-route local search
// to prune non-overlapping route pairs (spec §4.4).
func (b BoundingBox) Intersects(o BoundingBox) bool {
	if b.empty || o.empty {
		return false
	}
	return b.MinLon <= o.MaxLon && o.MinLon <= b.MaxLon &&
		b.MinLat <= o.MaxLat && o.MinLat <= b.MaxLat
}
