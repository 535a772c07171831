package geometry

import gomath "math"

// Cross computes the cross product of two 3D vectors.
func Cross(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Normalize returns a unit vector in the same direction as v.
// Near-zero vectors normalize to +Y so callers never see NaN.
func Normalize(v [3]float32) [3]float32 {
	l := length(v)
	if l < 0.0001 {
		return [3]float32{0, 1, 0}
	}
	return [3]float32{v[0] / l, v[1] / l, v[2] / l}
}

// Sub returns a - b.
func Sub(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// Add returns a + b.
func Add(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// Scale returns v * s.
func Scale(v [3]float32, s float32) [3]float32 {
	return [3]float32{v[0] * s, v[1] * s, v[2] * s}
}

// Dot returns the dot product of a and b.
func Dot(a, b [3]float32) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// Distance returns the euclidean distance between a and b.
func Distance(a, b [3]float32) float32 {
	return length(Sub(a, b))
}

func length(v [3]float32) float32 {
	return sqrtf(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

func sqrtf(x float32) float32 {
	return float32(gomath.Sqrt(float64(x)))
}

func isFinite(x float32) bool {
	f := float64(x)
	return !gomath.IsNaN(f) && !gomath.IsInf(f, 0)
}

// TriangleArea returns the area of the triangle (a, b, c).
func TriangleArea(a, b, c [3]float32) float32 {
	n := Cross(Sub(b, a), Sub(c, a))
	return 0.5 * length(n)
}
