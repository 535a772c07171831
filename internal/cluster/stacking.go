package cluster

import (
	gomath "math"
	"math/rand"
	"sort"

	"github.com/stonefell/petrogen/internal/rock"
)

// Placement constants. Fractions are of the relevant bounding radius.
const (
	// groundEmbed sinks foundation rocks slightly into the ground.
	groundEmbed = 0.15
	// fallbackEmbed sinks horizontally placed rocks a little less.
	fallbackEmbed = 0.10
	// parentTopFrac locates the usable top surface of a parent rock.
	parentTopFrac = 0.85
	// contactRestFrac is how much of the new rock's radius sits above
	// the parent's top at the contact point.
	contactRestFrac = 0.45
	// footprintFrac bounds the horizontal contact offset on the parent.
	footprintFrac = 0.40
	// minSpacing is the absolute minimum distance between rock centers.
	minSpacing = 0.35
	// supportHeightFrac: rocks elevated above this fraction of their own
	// radius must rest on something.
	supportHeightFrac = 0.60
	// fallbackGapFrac scales the center distance of horizontal fallback
	// placement relative to the combined bounding radii.
	fallbackGapFrac = 0.75
	// fallbackRetries is how many jittered angles the horizontal
	// fallback tries before accepting unconditionally.
	fallbackRetries = 8
)

// avalancheAngle returns the maximum stable slope angle in degrees for a
// category. Small rocks tolerate steeper angles; at a given slope they
// are geometrically more stable than massive ones.
func avalancheAngle(cat rock.Category) float64 {
	switch cat {
	case rock.Massive:
		return 25
	case rock.Large:
		return 27
	case rock.Medium:
		return 30
	case rock.Small:
		return 32
	default:
		return 35
	}
}

// PlacedRock wraps a rock instance with its resolved position, tier, and
// support relations. The support sets form a small DAG used only for
// validation; they are never mutated after assembly.
type PlacedRock struct {
	Instance *rock.Instance
	Tier     Tier
	Position [3]float32
	// Parent is the rock this one was stacked on, nil for the first
	// rock and for horizontal-fallback placements.
	Parent      *PlacedRock
	SupportedBy []*PlacedRock
	Supporting  []*PlacedRock
}

// Stacker resolves real 3D placements one rock at a time against the set
// of rocks already placed. Rocks must be fed in tier order.
type Stacker struct {
	center    [3]float32
	category  rock.Category
	tightness float32
	placed    []*PlacedRock
}

// NewStacker returns a stacker for a cluster at the given center.
// tightness scales initial offsets and fallback gaps; 1 is the default
// density, smaller is tighter.
func NewStacker(center [3]float32, cat rock.Category, tightness float32) *Stacker {
	if tightness <= 0 {
		tightness = 1
	}
	return &Stacker{center: center, category: cat, tightness: tightness}
}

// Placed returns the rocks placed so far, in placement order.
func (s *Stacker) Placed() []*PlacedRock {
	return s.placed
}

// Place resolves a position for the instance and records it. nominal is
// the rock's scattered position from the layout plan; it biases the
// first rock's offset direction and the horizontal fallback, so the
// planned scatter shapes the formation without overriding validation.
// Placement never fails: if no vertical stacking candidate validates,
// the rock is clustered horizontally against its nearest neighbor
// instead.
func (s *Stacker) Place(inst *rock.Instance, tier Tier, nominal [3]float32, r *rand.Rand) *PlacedRock {
	radius := inst.BoundingRadius

	var placed *PlacedRock
	if len(s.placed) == 0 {
		// First rock: cluster center with a small tightness-scaled
		// horizontal offset toward the nominal position, embedded
		// slightly into the ground.
		angle := angleToward(s.center, nominal, r)
		dist := r.Float64() * float64(radius) * 0.3 * float64(s.tightness)
		placed = &PlacedRock{
			Instance: inst,
			Tier:     tier,
			Position: [3]float32{
				s.center[0] + float32(gomath.Cos(angle)*dist),
				-radius * groundEmbed,
				s.center[2] + float32(gomath.Sin(angle)*dist),
			},
		}
	} else if candidate, parent, ok := s.tryVerticalStack(radius, r); ok {
		placed = &PlacedRock{Instance: inst, Tier: tier, Position: candidate, Parent: parent}
	} else {
		placed = &PlacedRock{Instance: inst, Tier: tier, Position: s.horizontalFallback(radius, nominal, r)}
	}

	s.recordSupport(placed)
	s.placed = append(s.placed, placed)
	return placed
}

// tryVerticalStack iterates candidate parents, lowest first, and returns
// the first contact position that passes validation.
func (s *Stacker) tryVerticalStack(radius float32, r *rand.Rand) ([3]float32, *PlacedRock, bool) {
	parents := make([]*PlacedRock, len(s.placed))
	copy(parents, s.placed)
	sort.SliceStable(parents, func(i, j int) bool {
		return parents[i].Position[1] < parents[j].Position[1]
	})

	for _, parent := range parents {
		candidate := s.contactPoint(parent, radius, r)
		if !s.angleOK(candidate, parent) {
			continue
		}
		if !s.spacingOK(candidate) {
			continue
		}
		if !s.supportOK(candidate, radius) {
			continue
		}
		return candidate, parent, true
	}
	return [3]float32{}, nil, false
}

// contactPoint computes a candidate resting position on the parent's top
// surface: offset by a fraction of the parent's footprint, at a height
// where the new rock's underside meets the parent's top.
func (s *Stacker) contactPoint(parent *PlacedRock, radius float32, r *rand.Rand) [3]float32 {
	pr := parent.Instance.BoundingRadius
	angle := r.Float64() * 2 * gomath.Pi
	dist := r.Float64() * float64(pr) * footprintFrac

	parentTop := parent.Position[1] + pr*parentTopFrac
	return [3]float32{
		parent.Position[0] + float32(gomath.Cos(angle)*dist),
		parentTop + radius*contactRestFrac,
		parent.Position[2] + float32(gomath.Sin(angle)*dist),
	}
}

// angleOK checks the avalanche-angle constraint against the parent: the
// slope from vertical must stay within the category maximum. A position
// directly above the parent always passes.
func (s *Stacker) angleOK(candidate [3]float32, parent *PlacedRock) bool {
	horiz := horizontalDistance(candidate, parent.Position)
	if horiz == 0 {
		return true
	}
	vert := float64(candidate[1] - parent.Position[1])
	if vert <= 0 {
		return false
	}
	angleDeg := gomath.Atan2(float64(horiz), vert) * 180 / gomath.Pi
	return angleDeg <= avalancheAngle(s.category)
}

// spacingOK rejects candidates whose center crowds any placed rock.
func (s *Stacker) spacingOK(candidate [3]float32) bool {
	for _, p := range s.placed {
		if distance(candidate, p.Position) < minSpacing {
			return false
		}
	}
	return true
}

// supportOK rejects elevated positions that nothing holds up: a rock
// higher than supportHeightFrac of its own radius needs at least one
// placed rock within combined-radius horizontal range below it.
func (s *Stacker) supportOK(candidate [3]float32, radius float32) bool {
	if candidate[1] <= radius*supportHeightFrac {
		return true
	}
	for _, p := range s.placed {
		if p.Position[1] >= candidate[1] {
			continue
		}
		combined := radius + p.Instance.BoundingRadius
		if horizontalDistance(candidate, p.Position) <= combined {
			return true
		}
	}
	return false
}

// horizontalFallback clusters the rock tightly against its nearest
// placed neighbor at rough ground height, on the side facing the
// nominal scatter position. It re-validates minimum spacing with a few
// jittered angles, then accepts the final candidate unconditionally so
// cluster generation never aborts.
func (s *Stacker) horizontalFallback(radius float32, nominal [3]float32, r *rand.Rand) [3]float32 {
	var nearest *PlacedRock
	var nearestDist float32 = -1
	for _, p := range s.placed {
		d := horizontalDistance(s.center, p.Position)
		if nearestDist < 0 || d < nearestDist {
			nearestDist = d
			nearest = p
		}
	}

	gap := (radius + nearest.Instance.BoundingRadius) * fallbackGapFrac * s.tightness
	y := -radius * fallbackEmbed

	angle := angleToward(nearest.Position, nominal, r)
	var candidate [3]float32
	for attempt := 0; attempt < fallbackRetries; attempt++ {
		if attempt > 0 {
			angle = r.Float64() * 2 * gomath.Pi
		}
		candidate = [3]float32{
			nearest.Position[0] + float32(gomath.Cos(angle))*gap,
			y,
			nearest.Position[2] + float32(gomath.Sin(angle))*gap,
		}
		if s.spacingOK(candidate) {
			return candidate
		}
	}
	return candidate
}

// angleToward returns the horizontal angle from one point toward
// another, or a random angle when the two coincide in the XZ plane.
func angleToward(from, toward [3]float32, r *rand.Rand) float64 {
	dx := float64(toward[0] - from[0])
	dz := float64(toward[2] - from[2])
	if dx == 0 && dz == 0 {
		return r.Float64() * 2 * gomath.Pi
	}
	return gomath.Atan2(dz, dx)
}

// recordSupport derives the supportedBy set from rocks within contact
// range below the new rock, and mirrors it into their supporting sets.
func (s *Stacker) recordSupport(placed *PlacedRock) {
	for _, p := range s.placed {
		if p.Position[1] >= placed.Position[1] {
			continue
		}
		combined := placed.Instance.BoundingRadius + p.Instance.BoundingRadius
		if horizontalDistance(placed.Position, p.Position) <= combined {
			placed.SupportedBy = append(placed.SupportedBy, p)
			p.Supporting = append(p.Supporting, placed)
		}
	}
}

func horizontalDistance(a, b [3]float32) float32 {
	dx := float64(a[0] - b[0])
	dz := float64(a[2] - b[2])
	return float32(gomath.Sqrt(dx*dx + dz*dz))
}

func distance(a, b [3]float32) float32 {
	dx := float64(a[0] - b[0])
	dy := float64(a[1] - b[1])
	dz := float64(a[2] - b[2])
	return float32(gomath.Sqrt(dx*dx + dy*dy + dz*dz))
}
