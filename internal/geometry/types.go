// Package geometry provides the deformable triangle mesh core: base shape
// builders, vertex adjacency, bounded organic deformation, and repair.
package geometry

// Vertex is a mesh vertex with position and normal.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
}

// Mesh holds triangle mesh data ready for GPU upload or export.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Bounds   Bounds
}

// Bounds is the axis-aligned bounding box of a mesh.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsIndexed reports whether the mesh carries a triangle index list.
// An unindexed mesh has no connectivity information, so adjacency-based
// displacement bounds are unavailable for it.
func (m *Mesh) IsIndexed() bool {
	return len(m.Indices) >= 3
}

// Clone returns a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	out := &Mesh{
		Vertices: make([]Vertex, len(m.Vertices)),
		Indices:  make([]uint32, len(m.Indices)),
		Bounds:   m.Bounds,
	}
	copy(out.Vertices, m.Vertices)
	copy(out.Indices, m.Indices)
	return out
}

// BoundingRadius returns the distance from the origin to the farthest vertex.
func (m *Mesh) BoundingRadius() float32 {
	var max float32
	for i := range m.Vertices {
		if l := length(m.Vertices[i].Position); l > max {
			max = l
		}
	}
	return max
}

// RecomputeBounds refreshes the axis-aligned bounds from vertex positions.
func (m *Mesh) RecomputeBounds() {
	m.Bounds = Bounds{
		Min: [3]float32{1e10, 1e10, 1e10},
		Max: [3]float32{-1e10, -1e10, -1e10},
	}
	for i := range m.Vertices {
		updateBounds(&m.Bounds, m.Vertices[i].Position)
	}
}

func updateBounds(b *Bounds, p [3]float32) {
	if p[0] < b.Min[0] {
		b.Min[0] = p[0]
	}
	if p[1] < b.Min[1] {
		b.Min[1] = p[1]
	}
	if p[2] < b.Min[2] {
		b.Min[2] = p[2]
	}
	if p[0] > b.Max[0] {
		b.Max[0] = p[0]
	}
	if p[1] > b.Max[1] {
		b.Max[1] = p[1]
	}
	if p[2] > b.Max[2] {
		b.Max[2] = p[2]
	}
}
