package geometry

import (
	gomath "math"
	"math/rand"
)

// Icosphere builds a subdivided icosahedron of the given radius.
// Subdivision level 0 is the raw 12-vertex icosahedron; each level
// quadruples the triangle count (level 1 has 42 vertices, level 2 has 162).
func Icosphere(radius float32, subdivisions int) *Mesh {
	t := float32((1.0 + gomath.Sqrt(5.0)) / 2.0)

	positions := [][3]float32{
		{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
		{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
		{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
	}

	indices := []uint32{
		0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
		1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
		3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
		4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
	}

	for level := 0; level < subdivisions; level++ {
		positions, indices = subdivide(positions, indices)
	}

	m := &Mesh{
		Vertices: make([]Vertex, len(positions)),
		Indices:  indices,
	}
	for i, p := range positions {
		n := Normalize(p)
		m.Vertices[i] = Vertex{Position: Scale(n, radius), Normal: n}
	}
	m.RecomputeBounds()
	return m
}

// subdivide splits every triangle into four, caching edge midpoints so
// shared edges produce a single shared vertex.
func subdivide(positions [][3]float32, indices []uint32) ([][3]float32, []uint32) {
	midpoints := make(map[[2]uint32]uint32)

	midpoint := func(a, b uint32) uint32 {
		key := [2]uint32{a, b}
		if a > b {
			key = [2]uint32{b, a}
		}
		if idx, ok := midpoints[key]; ok {
			return idx
		}
		pa, pb := positions[a], positions[b]
		mid := Normalize([3]float32{
			(pa[0] + pb[0]) / 2,
			(pa[1] + pb[1]) / 2,
			(pa[2] + pb[2]) / 2,
		})
		idx := uint32(len(positions))
		positions = append(positions, mid)
		midpoints[key] = idx
		return idx
	}

	// Normalize the base vertices onto the unit sphere first so midpoint
	// projection is consistent across levels.
	for i := range positions {
		positions[i] = Normalize(positions[i])
	}

	out := make([]uint32, 0, len(indices)*4)
	for i := 0; i < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		ab := midpoint(a, b)
		bc := midpoint(b, c)
		ca := midpoint(c, a)
		out = append(out,
			a, ab, ca,
			b, bc, ab,
			c, ca, bc,
			ab, bc, ca,
		)
	}
	return positions, out
}

// UVSphere builds a latitude/longitude sphere. Pole rings collapse to a
// single vertex each; quads between rings are split into two triangles.
func UVSphere(radius float32, rings, segments int) *Mesh {
	if rings < 3 {
		rings = 3
	}
	if segments < 3 {
		segments = 3
	}

	m := &Mesh{}
	for ring := 0; ring <= rings; ring++ {
		phi := gomath.Pi * float64(ring) / float64(rings)
		y := float32(gomath.Cos(phi))
		r := float32(gomath.Sin(phi))
		for seg := 0; seg <= segments; seg++ {
			theta := 2 * gomath.Pi * float64(seg) / float64(segments)
			p := [3]float32{
				r * float32(gomath.Cos(theta)),
				y,
				r * float32(gomath.Sin(theta)),
			}
			m.Vertices = append(m.Vertices, Vertex{
				Position: Scale(p, radius),
				Normal:   p,
			})
		}
	}

	stride := uint32(segments + 1)
	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			i0 := uint32(ring)*stride + uint32(seg)
			i1 := i0 + 1
			i2 := i0 + stride
			i3 := i2 + 1
			if ring > 0 {
				m.Indices = append(m.Indices, i0, i2, i1)
			}
			if ring < rings-1 {
				m.Indices = append(m.Indices, i1, i2, i3)
			}
		}
	}
	m.RecomputeBounds()
	return m
}

// dodecahedronFaces lists the 12 pentagonal faces by vertex index.
var dodecahedronFaces = [12][5]int{
	{0, 8, 9, 4, 16}, {0, 16, 17, 2, 12}, {0, 12, 1, 10, 8},
	{8, 10, 3, 13, 9}, {9, 13, 15, 14, 4}, {4, 14, 5, 17, 16},
	{1, 12, 2, 18, 6}, {1, 6, 11, 3, 10}, {3, 11, 7, 15, 13},
	{15, 7, 19, 5, 14}, {5, 19, 18, 2, 17}, {6, 18, 19, 7, 11},
}

// Dodecahedron builds a triangulated regular dodecahedron. Each pentagon
// is fanned around an inserted center vertex, which keeps the faces flat
// and gives the deformer extra interior vertices to work with.
func Dodecahedron(radius float32) *Mesh {
	phi := float32((1.0 + gomath.Sqrt(5.0)) / 2.0)
	inv := 1.0 / phi

	positions := [][3]float32{
		{1, 1, 1}, {1, 1, -1}, {1, -1, 1}, {1, -1, -1},
		{-1, 1, 1}, {-1, 1, -1}, {-1, -1, 1}, {-1, -1, -1},
		{0, inv, phi}, {0, -inv, phi}, {0, inv, -phi}, {0, -inv, -phi},
		{inv, phi, 0}, {-inv, phi, 0}, {inv, -phi, 0}, {-inv, -phi, 0},
		{phi, 0, inv}, {phi, 0, -inv}, {-phi, 0, inv}, {-phi, 0, -inv},
	}

	m := &Mesh{Vertices: make([]Vertex, len(positions))}
	for i, p := range positions {
		n := Normalize(p)
		m.Vertices[i] = Vertex{Position: Scale(n, radius), Normal: n}
	}

	for _, face := range dodecahedronFaces {
		var center [3]float32
		for _, vi := range face {
			center = Add(center, m.Vertices[vi].Position)
		}
		center = Scale(center, 1.0/5.0)

		ci := uint32(len(m.Vertices))
		m.Vertices = append(m.Vertices, Vertex{
			Position: center,
			Normal:   Normalize(center),
		})
		for i := 0; i < 5; i++ {
			a := uint32(face[i])
			b := uint32(face[(i+1)%5])
			m.Indices = append(m.Indices, ci, a, b)
		}
	}

	orientOutward(m)
	m.RecomputeBounds()
	return m
}

// Organic builds an icosphere pre-warped by low-frequency sinusoids with
// random phase, giving a lumpy potato-like base before any deformation.
func Organic(radius float32, subdivisions int, r *rand.Rand) *Mesh {
	m := Icosphere(radius, subdivisions)

	p1 := randPhase(r)
	p2 := randPhase(r)
	p3 := randPhase(r)

	for i := range m.Vertices {
		p := m.Vertices[i].Position
		warp := 0.12*sinf(2.1*p[0]/radius+p1) +
			0.09*sinf(1.7*p[1]/radius+p2) +
			0.07*sinf(2.5*p[2]/radius+p3)
		n := m.Vertices[i].Normal
		m.Vertices[i].Position = Add(p, Scale(n, warp*radius))
	}
	m.RecomputeBounds()
	return m
}

func randPhase(r *rand.Rand) float32 {
	return float32(r.Float64() * 2 * gomath.Pi)
}

func sinf(x float32) float32 {
	return float32(gomath.Sin(float64(x)))
}

// orientOutward flips any triangle whose face normal points toward the
// origin, so winding is consistent for meshes built around it.
func orientOutward(m *Mesh) {
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a := m.Vertices[m.Indices[i]].Position
		b := m.Vertices[m.Indices[i+1]].Position
		c := m.Vertices[m.Indices[i+2]].Position
		n := Cross(Sub(b, a), Sub(c, a))
		centroid := Scale(Add(Add(a, b), c), 1.0/3.0)
		if Dot(n, centroid) < 0 {
			m.Indices[i+1], m.Indices[i+2] = m.Indices[i+2], m.Indices[i+1]
		}
	}
}
