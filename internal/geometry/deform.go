package geometry

import (
	gomath "math"

	"go.uber.org/zap"

	"github.com/stonefell/petrogen/internal/logger"
)

// Modifier selects which geometric transform family is applied before
// generic noise displacement.
type Modifier int

const (
	ModifierNone Modifier = iota
	ModifierStretch
	ModifierFlatten
	ModifierFracture
	ModifierErode
)

// DeformParams controls a deformation pass.
type DeformParams struct {
	// Intensity scales generic noise displacement, 0..1.
	Intensity float32
	// Weathering scales erosion-style displacement, 0..1.
	Weathering float32
	// Modifier is the shape transform applied before generic noise.
	Modifier Modifier
	// Seed drives the noise field; equal seeds produce equal surfaces.
	Seed int64
	// BoundFactor is the fraction of the nearest-neighbor distance a
	// vertex may move. Zero selects the default of 0.25.
	BoundFactor float32
	// Smoothing is the Laplacian blend strength, 0..1. Zero disables
	// the smoothing pass.
	Smoothing float32
	// SmoothingPasses is the number of smoothing iterations (default 1
	// when Smoothing > 0).
	SmoothingPasses int
	// NoiseOctaves is the octave count for generic noise (default 3).
	NoiseOctaves int
	// MinTriangleArea is the repair threshold; triangles below it are
	// dropped. Zero selects a default relative to the mesh radius.
	MinTriangleArea float32
}

// DeformResult reports what the repair pass had to correct. Defects are
// always repaired locally and logged, never surfaced as errors.
type DeformResult struct {
	NonFiniteRepaired int
	DegenerateDropped int
}

const (
	defaultBoundFactor = 0.25
	// fallbackBoundFrac bounds displacement when the mesh carries no
	// adjacency information (unindexed input).
	fallbackBoundFrac = 0.05
)

// Deform displaces the mesh surface in place according to params, then
// repairs degenerate geometry and refreshes normals and bounds. The
// displacement of every vertex from its pre-deformation position stays
// within BoundFactor of the distance to its nearest topological
// neighbor, which is what keeps the surface from tearing.
func Deform(m *Mesh, params DeformParams) DeformResult {
	if len(m.Vertices) == 0 {
		return DeformResult{}
	}

	boundFactor := params.BoundFactor
	if boundFactor <= 0 {
		boundFactor = defaultBoundFactor
	}
	radius := m.BoundingRadius()
	if radius <= 0 {
		radius = 1
	}
	fallback := radius * fallbackBoundFrac

	topo := BuildTopology(m)
	original := make([][3]float32, len(m.Vertices))
	bounds := make([]float32, len(m.Vertices))
	for i := range m.Vertices {
		original[i] = m.Vertices[i].Position
		bounds[i] = boundFactor * topo.NearestNeighborDistance(m, i, fallback/boundFactor)
	}

	switch params.Modifier {
	case ModifierStretch:
		applyStretch(m, params.Intensity, radius)
	case ModifierFlatten:
		applyFlatten(m, params.Intensity)
	case ModifierFracture:
		applyFracture(m, params.Intensity, radius, params.Seed)
	case ModifierErode:
		applyErode(m, params.Weathering, radius, params.Seed)
	}
	clampDisplacement(m, original, bounds)

	applyOrganicNoise(m, params, radius)
	clampDisplacement(m, original, bounds)

	if params.Smoothing > 0 {
		passes := params.SmoothingPasses
		if passes <= 0 {
			passes = 1
		}
		for i := 0; i < passes; i++ {
			laplacianSmooth(m, topo, params.Smoothing)
		}
		clampDisplacement(m, original, bounds)
	}

	minArea := params.MinTriangleArea
	if minArea <= 0 {
		minArea = radius * radius * 1e-6
	}
	result := repair(m, minArea)

	RecomputeNormals(m)
	m.RecomputeBounds()
	return result
}

// applyStretch elongates the mesh along Y with a height-dependent taper,
// narrowing slightly toward the top.
func applyStretch(m *Mesh, intensity, radius float32) {
	for i := range m.Vertices {
		p := &m.Vertices[i].Position
		heightNorm := (p[1]/radius + 1) / 2 // 0 at bottom, 1 at top
		p[1] *= 1 + 0.8*intensity
		taper := 1 - 0.3*intensity*heightNorm
		p[0] *= taper
		p[2] *= taper
	}
}

// applyFlatten compresses Y and widens X/Z.
func applyFlatten(m *Mesh, intensity float32) {
	for i := range m.Vertices {
		p := &m.Vertices[i].Position
		p[1] *= 1 - 0.5*intensity
		p[0] *= 1 + 0.3*intensity
		p[2] *= 1 + 0.3*intensity
	}
}

// applyFracture nudges vertices along per-axis facet directions. The
// directions are tanh-bounded rather than sign-bounded so facets blend
// smoothly instead of producing step discontinuities.
func applyFracture(m *Mesh, intensity, radius float32, seed int64) {
	field := NewNoiseField(2, 0.5, seed+101)
	freq := 2.4 / float64(radius)
	for i := range m.Vertices {
		p := &m.Vertices[i].Position
		x, y, z := float64(p[0])*freq, float64(p[1])*freq, float64(p[2])*freq
		amt := intensity * radius * 0.2
		p[0] += amt * tanhf(3*field.Eval3(x, y+7.1, z))
		p[1] += amt * tanhf(3*field.Eval3(x+3.3, y, z))
		p[2] += amt * tanhf(3*field.Eval3(x, y, z+5.9))
	}
}

// applyErode displaces vertices inward/outward along the normal using
// low-frequency multi-term trigonometric noise scaled by weathering.
func applyErode(m *Mesh, weathering, radius float32, seed int64) {
	phase := float32(seed%1024) * 0.0061
	for i := range m.Vertices {
		p := m.Vertices[i].Position
		n := m.Vertices[i].Normal
		fx, fy, fz := p[0]/radius, p[1]/radius, p[2]/radius
		w := 0.5*sinf(3.1*fx+1.3*fz+phase) +
			0.3*sinf(2.3*fy+2.9*fx+phase*1.7) +
			0.2*sinf(4.7*fz+1.1*fy+phase*0.6)
		m.Vertices[i].Position = Add(p, Scale(n, -weathering*radius*0.15*absf(w)))
	}
}

// applyOrganicNoise adds the generic multi-octave displacement along the
// surface normal.
func applyOrganicNoise(m *Mesh, params DeformParams, radius float32) {
	if params.Intensity <= 0 {
		return
	}
	octaves := params.NoiseOctaves
	if octaves <= 0 {
		octaves = 3
	}
	field := NewNoiseField(octaves, 0.55, params.Seed)
	freq := 1.8 / float64(radius)
	for i := range m.Vertices {
		p := m.Vertices[i].Position
		n := m.Vertices[i].Normal
		v := field.Eval3(float64(p[0])*freq, float64(p[1])*freq, float64(p[2])*freq)
		m.Vertices[i].Position = Add(p, Scale(n, params.Intensity*radius*float32(v)))
	}
}

// clampDisplacement pulls every vertex back toward its original position
// when its accumulated displacement exceeds the per-vertex bound.
func clampDisplacement(m *Mesh, original [][3]float32, bounds []float32) {
	for i := range m.Vertices {
		d := Sub(m.Vertices[i].Position, original[i])
		l := length(d)
		if l > bounds[i] && l > 0 {
			m.Vertices[i].Position = Add(original[i], Scale(d, bounds[i]/l))
		}
	}
}

// laplacianSmooth blends each vertex toward the centroid of its
// topological neighbors. Vertices without adjacency are left alone.
func laplacianSmooth(m *Mesh, topo *Topology, strength float32) {
	smoothed := make([][3]float32, len(m.Vertices))
	for i := range m.Vertices {
		centroid, ok := topo.NeighborCentroid(m, i)
		if !ok {
			smoothed[i] = m.Vertices[i].Position
			continue
		}
		p := m.Vertices[i].Position
		smoothed[i] = Add(Scale(p, 1-strength), Scale(centroid, strength))
	}
	for i := range m.Vertices {
		m.Vertices[i].Position = smoothed[i]
	}
}

// repair zeroes non-finite coordinates and drops triangles whose area is
// below minArea. Both defects are recoverable; they are counted and
// logged rather than propagated.
func repair(m *Mesh, minArea float32) DeformResult {
	var result DeformResult

	for i := range m.Vertices {
		for axis := 0; axis < 3; axis++ {
			if !isFinite(m.Vertices[i].Position[axis]) {
				m.Vertices[i].Position[axis] = 0
				result.NonFiniteRepaired++
			}
		}
	}

	kept := m.Indices[:0]
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a := m.Vertices[m.Indices[i]].Position
		b := m.Vertices[m.Indices[i+1]].Position
		c := m.Vertices[m.Indices[i+2]].Position
		if TriangleArea(a, b, c) < minArea {
			result.DegenerateDropped++
			continue
		}
		kept = append(kept, m.Indices[i], m.Indices[i+1], m.Indices[i+2])
	}
	m.Indices = kept

	if result.NonFiniteRepaired > 0 || result.DegenerateDropped > 0 {
		logger.Log.Debug("repaired mesh defects",
			zap.Int("nonFinite", result.NonFiniteRepaired),
			zap.Int("degenerate", result.DegenerateDropped),
		)
	}
	return result
}

// RecomputeNormals rebuilds vertex normals from area-weighted face
// normals, then averages normals across duplicated vertex positions
// (seam vertices) the same way seam tiles are welded in terrain meshes.
func RecomputeNormals(m *Mesh) {
	for i := range m.Vertices {
		m.Vertices[i].Normal = [3]float32{}
	}
	for i := 0; i+2 < len(m.Indices); i += 3 {
		ia, ib, ic := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		a := m.Vertices[ia].Position
		b := m.Vertices[ib].Position
		c := m.Vertices[ic].Position
		// Cross product magnitude is proportional to area, which gives
		// the area weighting for free.
		fn := Cross(Sub(b, a), Sub(c, a))
		m.Vertices[ia].Normal = Add(m.Vertices[ia].Normal, fn)
		m.Vertices[ib].Normal = Add(m.Vertices[ib].Normal, fn)
		m.Vertices[ic].Normal = Add(m.Vertices[ic].Normal, fn)
	}

	const epsilon float32 = 0.001
	posMap := make(map[[3]int32][]int)
	for i := range m.Vertices {
		key := [3]int32{
			int32(m.Vertices[i].Position[0] / epsilon),
			int32(m.Vertices[i].Position[1] / epsilon),
			int32(m.Vertices[i].Position[2] / epsilon),
		}
		posMap[key] = append(posMap[key], i)
	}
	for _, idxs := range posMap {
		if len(idxs) < 2 {
			continue
		}
		var sum [3]float32
		for _, idx := range idxs {
			sum = Add(sum, m.Vertices[idx].Normal)
		}
		for _, idx := range idxs {
			m.Vertices[idx].Normal = sum
		}
	}

	for i := range m.Vertices {
		m.Vertices[i].Normal = Normalize(m.Vertices[i].Normal)
	}
}

func tanhf(x float64) float32 {
	return float32(gomath.Tanh(x))
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
