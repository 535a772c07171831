// Package cluster plans, stacks, and assembles multi-rock formations:
// tier counts and nominal scatter come from the layout planner, real 3D
// positions from the stacking pass, and the assembler orchestrates both
// plus cosmetic detail placement.
package cluster

import (
	gomath "math"
	"math/rand"

	"github.com/stonefell/petrogen/internal/rng"
	"github.com/stonefell/petrogen/internal/rock"
)

// Tier is the structural role of a rock within a cluster.
type Tier int

const (
	// TierFoundation rocks form the base and are placed first.
	TierFoundation Tier = iota
	// TierSupport rocks lean or stack on the foundation.
	TierSupport
	// TierAccent rocks are the smallest, most varied, placed last.
	TierAccent
)

func (t Tier) String() string {
	switch t {
	case TierFoundation:
		return "foundation"
	case TierSupport:
		return "support"
	default:
		return "accent"
	}
}

// Layout is the planned composition of a cluster: how many rocks belong
// to each tier and how widely they nominally scatter. It knows nothing
// about actual rock geometry; collision-free placement is the stacking
// pass's job.
type Layout struct {
	Total         int
	Foundation    int
	Support       int
	Accent        int
	ScatterRadius float32
}

// tierRatios returns the foundation/support fractions for a category
// (accent takes the remainder).
func tierRatios(cat rock.Category) (foundation, support float64) {
	switch cat {
	case rock.Massive:
		return 0.40, 0.40
	case rock.Large:
		return 0.35, 0.45
	default:
		// Medium and below share the simpler default split.
		return 0.30, 0.40
	}
}

// scatterFactor widens the nominal scatter for big categories.
func scatterFactor(cat rock.Category) float32 {
	switch cat {
	case rock.Massive:
		return 2.2
	case rock.Large:
		return 1.8
	default:
		return 1.4
	}
}

// PlanLayout picks a total rock count from the requested range and
// splits it into tiers using the category's fixed ratios. countMin and
// countMax of zero fall back to the variation's cluster-size range.
func PlanLayout(v rock.Variation, countMin, countMax int, r *rand.Rand) Layout {
	if countMin <= 0 {
		countMin = v.ClusterMin
	}
	if countMax <= 0 {
		countMax = v.ClusterMax
	}
	if countMin <= 0 {
		countMin = 1
	}
	if countMax < countMin {
		countMax = countMin
	}

	total := rng.IntRange(r, countMin, countMax)

	fr, sr := tierRatios(v.Category)
	foundation := int(gomath.Round(float64(total) * fr))
	support := int(gomath.Round(float64(total) * sr))

	if foundation < 1 {
		foundation = 1
	}
	if v.Category == rock.Massive && foundation < 2 {
		foundation = 2
	}
	if foundation > total {
		foundation = total
	}
	if support < 1 && total-foundation > 0 {
		support = 1
	}
	if foundation+support > total {
		support = total - foundation
	}
	accent := total - foundation - support

	return Layout{
		Total:         total,
		Foundation:    foundation,
		Support:       support,
		Accent:        accent,
		ScatterRadius: v.MaxSize * scatterFactor(v.Category),
	}
}

// Tiers expands the layout into the tier of each rock in placement
// order: all foundation rocks, then support, then accent.
func (l Layout) Tiers() []Tier {
	tiers := make([]Tier, 0, l.Total)
	for i := 0; i < l.Foundation; i++ {
		tiers = append(tiers, TierFoundation)
	}
	for i := 0; i < l.Support; i++ {
		tiers = append(tiers, TierSupport)
	}
	for i := 0; i < l.Accent; i++ {
		tiers = append(tiers, TierAccent)
	}
	return tiers
}

// NominalPositions scatters nominal XZ offsets for every rock within the
// layout's scatter radius. These seed the stacking pass; they are not
// final positions.
func (l Layout) NominalPositions(center [3]float32, r *rand.Rand) [][3]float32 {
	out := make([][3]float32, l.Total)
	for i := range out {
		angle := r.Float64() * 2 * gomath.Pi
		dist := r.Float64() * float64(l.ScatterRadius)
		out[i] = [3]float32{
			center[0] + float32(gomath.Cos(angle)*dist),
			center[1],
			center[2] + float32(gomath.Sin(angle)*dist),
		}
	}
	return out
}
