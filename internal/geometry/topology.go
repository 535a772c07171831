package geometry

// Topology is the vertex adjacency map of a triangle mesh. For every
// vertex it records the set of vertices sharing a triangle edge with it.
// It is a pure function of mesh connectivity and is built once per mesh,
// replacing any need for all-pairs vertex scans.
type Topology struct {
	neighbors [][]uint32
}

// BuildTopology computes the adjacency map from the mesh index buffer.
// An unindexed mesh yields empty neighbor sets for every vertex; callers
// must treat that as "no displacement constraint available" and fall back
// to a fixed conservative bound.
func BuildTopology(m *Mesh) *Topology {
	t := &Topology{
		neighbors: make([][]uint32, len(m.Vertices)),
	}
	if !m.IsIndexed() {
		return t
	}

	seen := make(map[[2]uint32]bool)
	link := func(a, b uint32) {
		key := [2]uint32{a, b}
		if a > b {
			key = [2]uint32{b, a}
		}
		if seen[key] {
			return
		}
		seen[key] = true
		t.neighbors[a] = append(t.neighbors[a], b)
		t.neighbors[b] = append(t.neighbors[b], a)
	}

	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		if int(a) >= len(m.Vertices) || int(b) >= len(m.Vertices) || int(c) >= len(m.Vertices) {
			continue
		}
		link(a, b)
		link(b, c)
		link(c, a)
	}
	return t
}

// Neighbors returns the adjacency set for the given vertex index.
// The returned slice must not be modified.
func (t *Topology) Neighbors(vertex int) []uint32 {
	if vertex < 0 || vertex >= len(t.neighbors) {
		return nil
	}
	return t.neighbors[vertex]
}

// HasNeighbors reports whether any vertex has adjacency information.
func (t *Topology) HasNeighbors() bool {
	for i := range t.neighbors {
		if len(t.neighbors[i]) > 0 {
			return true
		}
	}
	return false
}

// NearestNeighborDistance returns the distance from the given vertex to
// its closest topological neighbor, or fallback when the vertex has no
// neighbors (unindexed mesh or isolated vertex).
func (t *Topology) NearestNeighborDistance(m *Mesh, vertex int, fallback float32) float32 {
	nb := t.Neighbors(vertex)
	if len(nb) == 0 {
		return fallback
	}
	p := m.Vertices[vertex].Position
	min := float32(-1)
	for _, n := range nb {
		d := Distance(p, m.Vertices[n].Position)
		if min < 0 || d < min {
			min = d
		}
	}
	if min <= 0 {
		return fallback
	}
	return min
}

// NeighborCentroid returns the average position of the vertex's
// neighbors. ok is false when the vertex has no neighbors.
func (t *Topology) NeighborCentroid(m *Mesh, vertex int) (centroid [3]float32, ok bool) {
	nb := t.Neighbors(vertex)
	if len(nb) == 0 {
		return centroid, false
	}
	for _, n := range nb {
		centroid = Add(centroid, m.Vertices[n].Position)
	}
	return Scale(centroid, 1.0/float32(len(nb))), true
}
