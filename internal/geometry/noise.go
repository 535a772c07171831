package geometry

import (
	gomath "math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// NoiseField is a multi-octave OpenSimplex field. Octave amplitudes
// follow a geometric persistence falloff and the result is renormalized
// to [-1, 1].
type NoiseField struct {
	octaves    int
	amplitudes []float64
	os         opensimplex.Noise
}

// NewNoiseField returns a noise field with the given octave count,
// persistence, and seed. Two fields built with the same parameters
// produce identical values.
func NewNoiseField(octaves int, persistence float64, seed int64) *NoiseField {
	if octaves < 1 {
		octaves = 1
	}
	n := &NoiseField{
		octaves:    octaves,
		amplitudes: make([]float64, octaves),
		os:         opensimplex.New(seed),
	}
	for i := range n.amplitudes {
		n.amplitudes[i] = gomath.Pow(persistence, float64(i))
	}
	return n
}

// Eval3 returns the combined noise value at the given point, in [-1, 1].
func (n *NoiseField) Eval3(x, y, z float64) float64 {
	var sum, sumAmp float64
	for octave := 0; octave < n.octaves; octave++ {
		freq := float64(uint64(1) << uint(octave))
		sum += n.amplitudes[octave] * n.os.Eval3(x*freq, y*freq, z*freq)
		sumAmp += n.amplitudes[octave]
	}
	return sum / sumAmp
}
