package cluster

import (
	"fmt"
	gomath "math"
	"math/rand"

	"go.uber.org/zap"

	"github.com/stonefell/petrogen/internal/logger"
	"github.com/stonefell/petrogen/internal/rng"
	"github.com/stonefell/petrogen/internal/rock"
)

// Sub-stream tags keep each generation stage on an independent random
// sequence, so adding draws to one stage does not reshuffle the others.
const (
	streamLayout = iota + 1
	streamShapes
	streamStacking
	streamDetails
)

// Request describes one cluster generation call from the region host.
type Request struct {
	Center [3]float32
	// Category selects the size variation. Ignored when RandomCategory
	// is set.
	Category rock.Category
	// RandomCategory picks the variation by catalog weight instead.
	RandomCategory bool
	// CountMin/CountMax bound the rock count; zero falls back to the
	// variation's cluster-size range.
	CountMin int
	CountMax int
	// Seed drives all randomness for the call; equal seeds reproduce
	// the cluster exactly.
	Seed int64
	// Tightness scales cluster density, 1 by default.
	Tightness float32
	// Details enables cosmetic sediment/vegetation/debris generation.
	Details bool
	// OnCollision, when set, is called once per placed rock above the
	// smallest size category so the host can register collision bodies.
	// The assembler does not depend on what it does.
	OnCollision func(*PlacedRock)
}

// DetailKind classifies a cosmetic detail object.
type DetailKind int

const (
	DetailSediment DetailKind = iota
	DetailVegetation
	DetailDebris
)

func (k DetailKind) String() string {
	switch k {
	case DetailSediment:
		return "sediment"
	case DetailVegetation:
		return "vegetation"
	default:
		return "debris"
	}
}

// Detail is a cosmetic object scattered around a cluster. Details carry
// no stacking constraints and are never validated.
type Detail struct {
	Kind     DetailKind
	Position [3]float32
	Scale    float32
	Rotation float32
}

// Stats aggregates per-cluster generation counters.
type Stats struct {
	Rocks             int
	Triangles         int
	NonFiniteRepaired int
	DegenerateDropped int
}

// Cluster is a finished formation: tier-tagged placed rocks in placement
// order plus optional details.
type Cluster struct {
	Center   [3]float32
	Category rock.Category
	Layout   Layout
	Rocks    []*PlacedRock
	Details  []Detail
	Stats    Stats
}

// Assembler orchestrates layout planning, instance generation, and
// stacking into complete clusters.
type Assembler struct {
	factory *rock.Factory
}

// NewAssembler returns an assembler over the given factory.
func NewAssembler(factory *rock.Factory) *Assembler {
	return &Assembler{factory: factory}
}

// Generate builds a full cluster for the request. The only error case is
// an unknown category; geometry defects and placement rejections are
// handled internally so generation always completes.
func (a *Assembler) Generate(req Request) (*Cluster, error) {
	catalog := a.factory.Catalog()
	root := rng.New(req.Seed)

	var variation rock.Variation
	if req.RandomCategory {
		variation = catalog.PickVariation(root)
	} else {
		v, err := catalog.Variation(req.Category)
		if err != nil {
			return nil, fmt.Errorf("generate cluster: %w", err)
		}
		variation = v
	}

	layoutStream := rng.Split(root, streamLayout)
	layout := PlanLayout(variation, req.CountMin, req.CountMax, layoutStream)
	nominals := layout.NominalPositions(req.Center, layoutStream)

	cluster := &Cluster{
		Center:   req.Center,
		Category: variation.Category,
		Layout:   layout,
	}

	shapes := rng.Split(root, streamShapes)
	stacking := rng.Split(root, streamStacking)
	stacker := NewStacker(req.Center, variation.Category, req.Tightness)

	for i, tier := range layout.Tiers() {
		arch := catalog.PickShape(shapes)
		size := tierSize(variation, tier, shapes)
		inst := a.factory.Build(arch, variation.Category, size, shapes)

		placed := stacker.Place(inst, tier, nominals[i], stacking)
		cluster.Rocks = append(cluster.Rocks, placed)

		cluster.Stats.Rocks++
		cluster.Stats.Triangles += inst.Mesh.TriangleCount()
		cluster.Stats.NonFiniteRepaired += inst.Defects.NonFiniteRepaired
		cluster.Stats.DegenerateDropped += inst.Defects.DegenerateDropped

		if req.OnCollision != nil && variation.Category > rock.Tiny {
			req.OnCollision(placed)
		}
	}

	if req.Details {
		cluster.Details = a.generateDetails(cluster, layout, rng.Split(root, streamDetails))
	}

	logger.Log.Debug("cluster generated",
		zap.String("category", variation.Category.String()),
		zap.Int("rocks", cluster.Stats.Rocks),
		zap.Int("triangles", cluster.Stats.Triangles),
		zap.Int("details", len(cluster.Details)),
	)
	return cluster, nil
}

// tierSize draws a rock size from the variation's range, biased by tier:
// foundation rocks come from the upper half of the range, accent rocks
// from the lower half.
func tierSize(v rock.Variation, tier Tier, r *rand.Rand) float32 {
	min, max := float64(v.MinSize), float64(v.MaxSize)
	mid := (min + max) / 2
	switch tier {
	case TierFoundation:
		return float32(rng.Range(r, mid, max))
	case TierAccent:
		return float32(rng.Range(r, min, mid))
	default:
		return float32(rng.Range(r, min, max))
	}
}

// generateDetails scatters cosmetic objects: sediment in the low gaps
// between foundation rocks, vegetation biased toward one sheltered side,
// and loose debris at the cluster's outer radius.
func (a *Assembler) generateDetails(c *Cluster, layout Layout, r *rand.Rand) []Detail {
	var details []Detail

	// Sediment: midpoints between foundation rock pairs, jittered.
	var foundations []*PlacedRock
	for _, p := range c.Rocks {
		if p.Tier == TierFoundation {
			foundations = append(foundations, p)
		}
	}
	for i := 0; i < len(foundations); i++ {
		for j := i + 1; j < len(foundations); j++ {
			pa, pb := foundations[i].Position, foundations[j].Position
			count := rng.IntRange(r, 1, 3)
			for k := 0; k < count; k++ {
				jx := float32(rng.Range(r, -0.3, 0.3))
				jz := float32(rng.Range(r, -0.3, 0.3))
				details = append(details, Detail{
					Kind:     DetailSediment,
					Position: [3]float32{(pa[0]+pb[0])/2 + jx, 0, (pa[2]+pb[2])/2 + jz},
					Scale:    float32(rng.Range(r, 0.05, 0.15)),
					Rotation: float32(r.Float64() * 2 * gomath.Pi),
				})
			}
		}
	}

	// Vegetation: one preferred lateral direction acts as the shelter
	// side; growth clusters there.
	shelter := r.Float64() * 2 * gomath.Pi
	vegCount := rng.IntRange(r, 2, 5)
	for i := 0; i < vegCount; i++ {
		angle := shelter + rng.Range(r, -0.6, 0.6)
		dist := rng.Range(r, 0.5, 1.0) * float64(layout.ScatterRadius)
		details = append(details, Detail{
			Kind: DetailVegetation,
			Position: [3]float32{
				c.Center[0] + float32(gomath.Cos(angle)*dist),
				0,
				c.Center[2] + float32(gomath.Sin(angle)*dist),
			},
			Scale:    float32(rng.Range(r, 0.2, 0.5)),
			Rotation: float32(r.Float64() * 2 * gomath.Pi),
		})
	}

	// Debris: loose fragments at the outer radius.
	debrisCount := rng.IntRange(r, 3, 7)
	for i := 0; i < debrisCount; i++ {
		angle := r.Float64() * 2 * gomath.Pi
		dist := rng.Range(r, 1.0, 1.3) * float64(layout.ScatterRadius)
		details = append(details, Detail{
			Kind: DetailDebris,
			Position: [3]float32{
				c.Center[0] + float32(gomath.Cos(angle)*dist),
				0,
				c.Center[2] + float32(gomath.Sin(angle)*dist),
			},
			Scale:    float32(rng.Range(r, 0.08, 0.25)),
			Rotation: float32(r.Float64() * 2 * gomath.Pi),
		})
	}

	return details
}
