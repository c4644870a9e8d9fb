// Package matrixprovider defines the external collaborator boundary spec.md
// §6 scopes out of the solver core: fetching and caching travel matrices
// from routing engines. Only the interfaces, the crow-flies fallback, and a
// trivial in-memory cache live here — GraphHopper/OSRM HTTP clients and
// road-network contraction-hierarchy preparation are explicitly out of
// scope (spec §1) and are left as pure interfaces for a caller to implement.
package matrixprovider

import (
	"hash/fnv"
	"math"

	"github.com/hermesrouting/hermes-optimizer/internal/problem"
)

// Point is a bare (lon, lat) pair, the unit the provider/cache interfaces
// key on — intentionally independent of problem.Location so this package
// has no dependency on a built Problem.
type Point struct {
	Lon, Lat float64
}

// Provider carries enough information about a vehicle profile's cost
// source to both fetch a fresh matrix and key a cache entry (spec §6
// "vehicle profile... cost_provider... {GraphHopperApi, Osrm,
// AsTheCrowFlies, Custom}").
type Provider struct {
	Kind      problem.CostProviderKind
	GHProfile string  // GraphHopperApi.gh_profile
	SpeedKMH  float64 // AsTheCrowFlies.speed_kmh
}

// hashKey folds the provider's identity into a 64-bit value, combined by
// MatrixCache callers with the point sequence hash (spec §6 "identity of a
// cached entry is a 64-bit hash over the sequence of (x,y) bit patterns...
// combined with the provider's hash").
func (p Provider) hashKey() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	putUint64(buf[:], uint64(p.Kind))
	_, _ = h.Write(buf[:])
	_, _ = h.Write([]byte(p.GHProfile))
	putUint64(buf[:], math.Float64bits(p.SpeedKMH))
	_, _ = h.Write(buf[:])
	return h.Sum64()
}

// Matrices is the shape a provider returns: parallel n*n row-major arrays,
// distances always populated, costs optional (spec §6: "costs?[][]" —
// when absent, callers fall back to distance as cost).
type Matrices struct {
	Times     []float64
	Distances []float64
	Costs     []float64 // nil if the provider did not supply costs
}

// MatrixProvider fetches a fresh travel matrix for a set of points under
// the given provider configuration. Implementations (GraphHopper/OSRM HTTP
// clients) live outside this module; this package only defines the shape
// and supplies the crow-flies fallback.
type MatrixProvider interface {
	FetchMatrix(points []Point, provider Provider) (Matrices, error)
}

// MatrixCache holds previously fetched matrices keyed by provider and
// point sequence, sparing a repeat fetch for an identical request (spec
// §6).
type MatrixCache interface {
	Cache(provider Provider, points []Point, m Matrices)
	GetCached(provider Provider, points []Point) (Matrices, bool)
}

// CrowFlies implements MatrixProvider without any network call: distance
// is the haversine great-circle distance between each pair of points, and
// time is distance divided by the configured speed (spec §6: "Crow-flies
// fallback produces distance = haversine(p, q) and time = distance /
// (speed_kmh/3.6)").
type CrowFlies struct{}

func (CrowFlies) FetchMatrix(points []Point, provider Provider) (Matrices, error) {
	n := len(points)
	speed := provider.SpeedKMH
	if speed <= 0 {
		speed = 1 // avoid division by zero; a zero speed is a caller bug, not a provider failure
	}
	metersPerSecond := speed / 3.6

	dist := make([]float64, n*n)
	tm := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			d := haversine(points[i], points[j])
			dist[i*n+j] = d
			tm[i*n+j] = d / metersPerSecond
		}
	}
	return Matrices{Times: tm, Distances: dist}, nil
}

const earthRadiusMeters = 6371000.0

// haversine returns the great-circle distance between a and b in meters.
func haversine(a, b Point) float64 {
	lat1, lat2 := toRadians(a.Lat), toRadians(b.Lat)
	dLat := toRadians(b.Lat - a.Lat)
	dLon := toRadians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusMeters * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// InMemoryCache is a trivial process-local MatrixCache, grounded on
// original_source's cache.rs key shape (hash of point sequence + provider)
// but backed by a plain Go map instead of a persistent store — persistent
// storage is out of scope per spec §1.
type InMemoryCache struct {
	entries map[uint64]Matrices
}

// NewInMemoryCache creates an empty cache.
func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{entries: make(map[uint64]Matrices)}
}

func (c *InMemoryCache) Cache(provider Provider, points []Point, m Matrices) {
	c.entries[cacheKey(provider, points)] = m
}

func (c *InMemoryCache) GetCached(provider Provider, points []Point) (Matrices, bool) {
	m, ok := c.entries[cacheKey(provider, points)]
	return m, ok
}

// cacheKey combines a 64-bit hash over every point's (lon, lat) bit
// pattern, in order, with the provider's own hash (spec §6).
func cacheKey(provider Provider, points []Point) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for _, p := range points {
		putUint64(buf[:], math.Float64bits(p.Lon))
		_, _ = h.Write(buf[:])
		putUint64(buf[:], math.Float64bits(p.Lat))
		_, _ = h.Write(buf[:])
	}
	return h.Sum64() ^ provider.hashKey()
}

func putUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}
