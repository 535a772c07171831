package rock

import (
	"fmt"
	"math/rand"

	"github.com/stonefell/petrogen/internal/geometry"
	"github.com/stonefell/petrogen/internal/rng"
)

// Instance is a finished rock: its mesh plus the physical properties the
// stacking stage consumes. An instance belongs to exactly one cluster
// for its entire lifetime.
type Instance struct {
	Mesh           *geometry.Mesh
	Shape          Archetype
	Category       Category
	Size           float32
	BoundingRadius float32
	// Stability is an advisory score in (0, 1]; it feeds stacking
	// heuristics and is never re-derived from actual geometry.
	Stability float32
	// ContactPoints are ground-contact offsets at the base, in the
	// rock's local frame (cardinal directions).
	ContactPoints [][3]float32
	Defects       geometry.DeformResult
}

// Factory builds rock instances from catalog archetypes. An optional
// mesh cache memoizes base meshes by a coarse parameter tuple.
type Factory struct {
	catalog *Catalog
	cache   *MeshCache
}

// NewFactory returns a factory over the given catalog. cache may be nil
// to disable memoization.
func NewFactory(catalog *Catalog, cache *MeshCache) *Factory {
	return &Factory{catalog: catalog, cache: cache}
}

// Catalog returns the factory's catalog.
func (f *Factory) Catalog() *Catalog {
	return f.catalog
}

// quality holds the size-aware generation settings. Small rocks get
// fewer subdivisions and gentler displacement; they are viewed from a
// distance and are more prone to visible artifacts under aggressive
// deformation.
type quality struct {
	subdivisions   int
	intensityScale float32
	smoothPasses   int
}

func qualityFor(cat Category) quality {
	switch cat {
	case Tiny, Small:
		return quality{subdivisions: 1, intensityScale: 0.6, smoothPasses: 1}
	case Medium:
		return quality{subdivisions: 2, intensityScale: 1.0, smoothPasses: 1}
	default: // Large, Massive
		return quality{subdivisions: 2, intensityScale: 1.2, smoothPasses: 2}
	}
}

// baseStability is the advisory stability baseline per shape. Wide flat
// shapes rank high, tall thin ones low.
var baseStability = map[Shape]float32{
	Boulder:   0.90,
	Slab:      0.85,
	Flattened: 0.80,
	Angular:   0.70,
	Weathered: 0.65,
	Jagged:    0.60,
	Spire:     0.50,
}

// smoothingFor maps a shape to its Laplacian smoothing strength. Angular
// shapes keep their edges, rounded and weathered ones get heavier
// smoothing.
func smoothingFor(tag Shape) float32 {
	switch tag {
	case Angular, Jagged:
		return 0.12
	case Spire:
		return 0.20
	case Boulder:
		return 0.30
	case Slab, Flattened:
		return 0.35
	default: // Weathered
		return 0.45
	}
}

// Build generates a rock instance for the archetype at the given size.
// The random source drives noise seeding and base-shape warping; equal
// sources yield equal instances.
func (f *Factory) Build(arch Archetype, cat Category, size float32, r *rand.Rand) *Instance {
	q := qualityFor(cat)

	// All draws from r happen up front, never inside the cache build
	// closure: a cache hit must advance the caller's stream exactly as
	// a miss does, or every rock after the hit diverges between runs.
	meshSeed := r.Int63()

	// Meshes are generated at unit size and scaled afterwards, so the
	// cache can key on (shape, category, variant) alone.
	var mesh *geometry.Mesh
	var defects geometry.DeformResult
	if f.cache != nil {
		variant := uint32(r.Intn(cacheVariants))
		mesh = f.cache.Get(arch.Tag, cat, variant, func() *geometry.Mesh {
			m, d := f.buildUnitMesh(arch, q, rng.New(meshSeed))
			defects = d
			return m
		})
	} else {
		mesh, defects = f.buildUnitMesh(arch, q, rng.New(meshSeed))
	}

	for i := range mesh.Vertices {
		mesh.Vertices[i].Position = geometry.Scale(mesh.Vertices[i].Position, size)
	}
	mesh.RecomputeBounds()

	radius := mesh.BoundingRadius()
	return &Instance{
		Mesh:           mesh,
		Shape:          arch,
		Category:       cat,
		Size:           size,
		BoundingRadius: radius,
		Stability:      stabilityScore(arch, cat),
		ContactPoints:  contactPoints(radius),
		Defects:        defects,
	}
}

// BuildByTag looks up the archetype by tag and builds an instance.
func (f *Factory) BuildByTag(tag Shape, cat Category, size float32, r *rand.Rand) (*Instance, error) {
	arch, err := f.catalog.ShapeByTag(tag)
	if err != nil {
		return nil, err
	}
	if _, err := f.catalog.Variation(cat); err != nil {
		return nil, err
	}
	return f.Build(arch, cat, size, r), nil
}

func (f *Factory) buildUnitMesh(arch Archetype, q quality, r *rand.Rand) (*geometry.Mesh, geometry.DeformResult) {
	var mesh *geometry.Mesh
	switch arch.Base {
	case Spherical:
		rings := 6 + 4*q.subdivisions
		mesh = geometry.UVSphere(1, rings, rings+2)
	case Dodecahedral:
		mesh = geometry.Dodecahedron(1)
	case CustomOrganic:
		mesh = geometry.Organic(1, q.subdivisions, r)
	default:
		mesh = geometry.Icosphere(1, q.subdivisions)
	}

	result := geometry.Deform(mesh, geometry.DeformParams{
		Intensity:       arch.Intensity * q.intensityScale,
		Weathering:      arch.Weathering,
		Modifier:        arch.Modifier,
		Seed:            r.Int63(),
		Smoothing:       smoothingFor(arch.Tag),
		SmoothingPasses: q.smoothPasses,
	})
	return mesh, result
}

// stabilityScore computes the advisory stability:
// base for the shape, minus a weathering penalty, minus a size penalty
// for massive rocks, clamped to a minimum positive value.
func stabilityScore(arch Archetype, cat Category) float32 {
	score := baseStability[arch.Tag] - 0.2*arch.Weathering
	if cat == Massive {
		score -= 0.1
	}
	if score < 0.1 {
		score = 0.1
	}
	return score
}

// contactPoints returns the four cardinal ground-contact offsets at the
// base of a rock with the given bounding radius.
func contactPoints(radius float32) [][3]float32 {
	r := radius * 0.7
	y := -radius * 0.9
	return [][3]float32{
		{r, y, 0},
		{-r, y, 0},
		{0, y, r},
		{0, y, -r},
	}
}

// String implements fmt.Stringer for debug logging.
func (in *Instance) String() string {
	return fmt.Sprintf("%s/%s r=%.2f stability=%.2f", in.Shape.Tag, in.Category, in.BoundingRadius, in.Stability)
}
