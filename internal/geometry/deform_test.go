package geometry

import (
	gomath "math"
	"testing"

	"github.com/stonefell/petrogen/internal/rng"
)

// boundsFor recomputes the per-vertex displacement bounds the deformer
// uses, from the undeformed mesh.
func boundsFor(m *Mesh) []float32 {
	topo := BuildTopology(m)
	radius := m.BoundingRadius()
	bounds := make([]float32, len(m.Vertices))
	for i := range bounds {
		bounds[i] = defaultBoundFactor * topo.NearestNeighborDistance(m, i, radius*fallbackBoundFrac/defaultBoundFactor)
	}
	return bounds
}

func TestBoundedDisplacementProperty(t *testing.T) {
	r := rng.New(2026)

	modifiers := []Modifier{ModifierNone, ModifierStretch, ModifierFlatten, ModifierFracture, ModifierErode}
	for trial := 0; trial < 20; trial++ {
		base := Icosphere(1+r.Float32()*4, 1+r.Intn(2))
		bounds := boundsFor(base)
		original := base.Clone()

		Deform(base, DeformParams{
			Intensity:  r.Float32(),
			Weathering: r.Float32(),
			Modifier:   modifiers[trial%len(modifiers)],
			Seed:       r.Int63(),
			Smoothing:  r.Float32() * 0.5,
		})

		for i := range base.Vertices {
			d := Distance(base.Vertices[i].Position, original.Vertices[i].Position)
			if d > bounds[i]+1e-4 {
				t.Fatalf("trial %d: vertex %d moved %f, bound %f", trial, i, d, bounds[i])
			}
		}
	}
}

func TestManifoldValidityAfterRepair(t *testing.T) {
	r := rng.New(77)

	for trial := 0; trial < 10; trial++ {
		m := Icosphere(2, 2)
		radius := m.BoundingRadius()
		minArea := radius * radius * 1e-6

		Deform(m, DeformParams{
			Intensity:  0.9,
			Weathering: 0.9,
			Modifier:   ModifierFracture,
			Seed:       r.Int63(),
			Smoothing:  0.3,
		})

		for i := range m.Vertices {
			for axis := 0; axis < 3; axis++ {
				if !isFinite(m.Vertices[i].Position[axis]) {
					t.Fatalf("trial %d: vertex %d axis %d not finite", trial, i, axis)
				}
			}
		}
		for i := 0; i+2 < len(m.Indices); i += 3 {
			area := TriangleArea(
				m.Vertices[m.Indices[i]].Position,
				m.Vertices[m.Indices[i+1]].Position,
				m.Vertices[m.Indices[i+2]].Position,
			)
			if area < minArea {
				t.Fatalf("trial %d: triangle %d survived repair with area %g", trial, i/3, area)
			}
		}
	}
}

func TestErodedIcosphereScenario(t *testing.T) {
	// A unit icosphere at subdivision 1 (42 vertices) with moderate
	// intensity and heavy weathering: a typical weathered boulder.
	m := Icosphere(1, 1)
	if m.VertexCount() != 42 {
		t.Fatalf("expected 42 vertices, got %d", m.VertexCount())
	}
	bounds := boundsFor(m)
	original := m.Clone()

	result := Deform(m, DeformParams{
		Intensity:  0.15,
		Weathering: 0.6,
		Modifier:   ModifierErode,
		Seed:       12345,
		Smoothing:  0.45,
	})

	for i := range m.Vertices {
		d := Distance(m.Vertices[i].Position, original.Vertices[i].Position)
		if d > bounds[i]+1e-4 {
			t.Errorf("vertex %d moved %f, bound %f", i, d, bounds[i])
		}
	}

	if result.NonFiniteRepaired != 0 {
		t.Errorf("expected no non-finite repairs, got %d", result.NonFiniteRepaired)
	}

	// Zero degenerate triangles after repair.
	radius := m.BoundingRadius()
	minArea := radius * radius * 1e-6
	for i := 0; i+2 < len(m.Indices); i += 3 {
		area := TriangleArea(
			m.Vertices[m.Indices[i]].Position,
			m.Vertices[m.Indices[i+1]].Position,
			m.Vertices[m.Indices[i+2]].Position,
		)
		if area < minArea {
			t.Errorf("degenerate triangle %d after repair", i/3)
		}
	}
}

func TestDeformDeterministic(t *testing.T) {
	params := DeformParams{
		Intensity:  0.4,
		Weathering: 0.3,
		Modifier:   ModifierFracture,
		Seed:       999,
		Smoothing:  0.2,
	}

	a := Icosphere(1, 1)
	b := Icosphere(1, 1)
	Deform(a, params)
	Deform(b, params)

	for i := range a.Vertices {
		if a.Vertices[i].Position != b.Vertices[i].Position {
			t.Fatalf("vertex %d differs between identical deformations", i)
		}
	}
}

func TestRepairNonFinite(t *testing.T) {
	m := Icosphere(1, 0)
	nan := float32(gomath.NaN())
	m.Vertices[3].Position[1] = nan
	m.Vertices[7].Position[0] = float32(gomath.Inf(1))

	result := repair(m, 1e-9)

	if result.NonFiniteRepaired != 2 {
		t.Errorf("expected 2 non-finite repairs, got %d", result.NonFiniteRepaired)
	}
	if m.Vertices[3].Position[1] != 0 || m.Vertices[7].Position[0] != 0 {
		t.Error("non-finite coordinates not zeroed")
	}
}

func TestRepairDropsDegenerateTriangles(t *testing.T) {
	m := &Mesh{
		Vertices: []Vertex{
			{Position: [3]float32{0, 0, 0}},
			{Position: [3]float32{1, 0, 0}},
			{Position: [3]float32{0, 1, 0}},
			// A duplicate position makes the second triangle a sliver.
			{Position: [3]float32{0, 0, 0}},
		},
		Indices: []uint32{0, 1, 2, 0, 1, 3},
	}

	result := repair(m, 1e-6)

	if result.DegenerateDropped != 1 {
		t.Errorf("expected 1 dropped triangle, got %d", result.DegenerateDropped)
	}
	if m.TriangleCount() != 1 {
		t.Errorf("expected 1 surviving triangle, got %d", m.TriangleCount())
	}
}

func TestUnindexedMeshFallbackBound(t *testing.T) {
	// Without an index list the deformer has no adjacency; displacement
	// must stay within the fixed conservative bound.
	m := Icosphere(1, 1)
	m.Indices = nil
	original := m.Clone()

	Deform(m, DeformParams{Intensity: 1.0, Seed: 4})

	limit := original.BoundingRadius()*fallbackBoundFrac + 1e-4
	for i := range m.Vertices {
		d := Distance(m.Vertices[i].Position, original.Vertices[i].Position)
		if d > limit {
			t.Fatalf("vertex %d moved %f, fallback limit %f", i, d, limit)
		}
	}
}

func TestRecomputeNormalsUnit(t *testing.T) {
	m := Icosphere(1, 1)
	Deform(m, DeformParams{Intensity: 0.3, Seed: 8})

	for i := range m.Vertices {
		l := length(m.Vertices[i].Normal)
		if l < 0.99 || l > 1.01 {
			t.Fatalf("vertex %d normal has length %f", i, l)
		}
	}
}

func TestLaplacianSmoothingReducesRoughness(t *testing.T) {
	base := Icosphere(1, 1)

	rough := base.Clone()
	Deform(rough, DeformParams{Intensity: 0.8, Seed: 21})

	smooth := base.Clone()
	Deform(smooth, DeformParams{Intensity: 0.8, Seed: 21, Smoothing: 0.5, SmoothingPasses: 2})

	if roughness(rough) <= roughness(smooth) {
		t.Errorf("smoothing did not reduce roughness: rough=%f smooth=%f",
			roughness(rough), roughness(smooth))
	}
}

// roughness sums distances from each vertex to its neighbor centroid.
func roughness(m *Mesh) float64 {
	topo := BuildTopology(m)
	var sum float64
	for i := range m.Vertices {
		if centroid, ok := topo.NeighborCentroid(m, i); ok {
			sum += float64(Distance(m.Vertices[i].Position, centroid))
		}
	}
	return sum
}
