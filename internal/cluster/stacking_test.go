package cluster

import (
	gomath "math"
	"math/rand"
	"testing"

	"github.com/stonefell/petrogen/internal/rng"
	"github.com/stonefell/petrogen/internal/rock"
)

func instanceWithRadius(r float32, cat rock.Category) *rock.Instance {
	return &rock.Instance{
		Category:       cat,
		Size:           r,
		BoundingRadius: r,
		Stability:      0.8,
	}
}

func randomNominal(r *rand.Rand) [3]float32 {
	return [3]float32{
		float32(r.Float64()*8 - 4),
		0,
		float32(r.Float64()*8 - 4),
	}
}

func TestFirstRockPlacement(t *testing.T) {
	s := NewStacker([3]float32{5, 0, -2}, rock.Medium, 1.0)
	inst := instanceWithRadius(2, rock.Medium)

	// Nominal position due +X of the center: the offset follows it.
	p := s.Place(inst, TierFoundation, [3]float32{9, 0, -2}, rng.New(3))

	if want := float32(-2 * groundEmbed); p.Position[1] != want {
		t.Errorf("first rock y = %f, want %f", p.Position[1], want)
	}
	if d := horizontalDistance(p.Position, [3]float32{5, 0, -2}); d > 2*0.3+1e-4 {
		t.Errorf("first rock offset %f exceeds tightness-scaled limit", d)
	}
	if p.Position[0] < 5 || absDiff(p.Position[2], -2) > 1e-4 {
		t.Errorf("first rock at %v not offset toward the nominal position", p.Position)
	}
	if p.Parent != nil || len(p.SupportedBy) != 0 {
		t.Error("first rock must not have supports")
	}
}

func TestSecondRockStacksOnFirst(t *testing.T) {
	// A unit rock on a radius-2 foundation rests with its center above
	// ground: foundation top at -0.3+2*0.85, plus 1*0.45 of its own
	// radius.
	s := NewStacker([3]float32{}, rock.Medium, 1.0)
	r := rng.New(7)

	first := s.Place(instanceWithRadius(2, rock.Medium), TierFoundation, [3]float32{}, r)
	second := s.Place(instanceWithRadius(1, rock.Medium), TierSupport, [3]float32{}, r)

	if second.Parent != first {
		t.Fatal("second rock did not stack on the first")
	}
	wantY := first.Position[1] + 2*parentTopFrac + 1*contactRestFrac
	if second.Position[1] != wantY {
		t.Errorf("contact height = %f, want %f", second.Position[1], wantY)
	}
	if second.Position[1] <= 0 {
		t.Errorf("stacked rock below ground: y=%f", second.Position[1])
	}
	if len(second.SupportedBy) == 0 || second.SupportedBy[0] != first {
		t.Error("support relation not recorded")
	}
	if len(first.Supporting) == 0 || first.Supporting[0] != second {
		t.Error("supporting relation not mirrored")
	}
}

func TestAvalancheAngleInvariant(t *testing.T) {
	categories := []rock.Category{rock.Small, rock.Medium, rock.Large, rock.Massive}

	for _, cat := range categories {
		t.Run(cat.String(), func(t *testing.T) {
			maxAngle := avalancheAngle(cat)
			for seed := int64(1); seed <= 5; seed++ {
				r := rng.New(seed)
				s := NewStacker([3]float32{}, cat, 1.0)
				for i := 0; i < 12; i++ {
					s.Place(instanceWithRadius(0.5+float32(r.Float64())*2, cat), TierSupport, randomNominal(r), r)
				}
				for i, p := range s.Placed() {
					if p.Parent == nil {
						continue
					}
					horiz := float64(horizontalDistance(p.Position, p.Parent.Position))
					vert := float64(p.Position[1] - p.Parent.Position[1])
					if vert <= 0 {
						t.Fatalf("seed %d rock %d not above its parent", seed, i)
					}
					angle := gomath.Atan2(horiz, vert) * 180 / gomath.Pi
					if angle > maxAngle+1e-6 {
						t.Errorf("seed %d rock %d at %.1f° exceeds %v limit %.0f°",
							seed, i, angle, cat, maxAngle)
					}
				}
			}
		})
	}
}

func TestSpacingInvariantForStackedRocks(t *testing.T) {
	for seed := int64(1); seed <= 8; seed++ {
		r := rng.New(seed)
		s := NewStacker([3]float32{}, rock.Large, 1.0)
		for i := 0; i < 10; i++ {
			s.Place(instanceWithRadius(1+float32(r.Float64())*2, rock.Large), TierSupport, randomNominal(r), r)
		}
		placed := s.Placed()
		for i, p := range placed {
			if p.Parent == nil {
				continue // fallback placements may accept unconditionally
			}
			for j := 0; j < i; j++ {
				if d := distance(p.Position, placed[j].Position); d < minSpacing {
					t.Errorf("seed %d: rocks %d and %d only %f apart", seed, i, j, d)
				}
			}
		}
	}
}

func TestSupportInvariant(t *testing.T) {
	// Any rock elevated past the support threshold must rest on
	// something, regardless of how it was placed.
	for seed := int64(1); seed <= 10; seed++ {
		r := rng.New(seed)
		s := NewStacker([3]float32{}, rock.Massive, 1.0)
		for i := 0; i < 9; i++ {
			s.Place(instanceWithRadius(2+float32(r.Float64())*3, rock.Massive), TierFoundation, randomNominal(r), r)
		}
		for i, p := range s.Placed() {
			radius := p.Instance.BoundingRadius
			if p.Position[1] > radius*supportHeightFrac && len(p.SupportedBy) == 0 {
				t.Errorf("seed %d: rock %d floats at y=%f with no support", seed, i, p.Position[1])
			}
		}
	}
}

func TestHorizontalFallbackStaysGrounded(t *testing.T) {
	for seed := int64(1); seed <= 6; seed++ {
		r := rng.New(seed)
		s := NewStacker([3]float32{}, rock.Medium, 1.0)
		for i := 0; i < 15; i++ {
			s.Place(instanceWithRadius(1, rock.Medium), TierAccent, randomNominal(r), r)
		}
		for i, p := range s.Placed() {
			if i == 0 || p.Parent != nil {
				continue
			}
			if want := float32(-1 * fallbackEmbed); p.Position[1] != want {
				t.Errorf("seed %d: fallback rock %d at y=%f, want %f", seed, i, p.Position[1], want)
			}
		}
	}
}

func TestTightnessScalesFallbackGap(t *testing.T) {
	gapAt := func(tightness float32) float32 {
		r := rng.New(99)
		s := NewStacker([3]float32{}, rock.Medium, tightness)
		s.Place(instanceWithRadius(1, rock.Medium), TierFoundation, [3]float32{}, r)
		pos := s.horizontalFallback(2, [3]float32{6, 0, 0}, r)
		return horizontalDistance(pos, s.Placed()[0].Position)
	}

	loose := gapAt(1.0)
	tight := gapAt(0.5)
	if want := float32((2 + 1) * fallbackGapFrac * 1.0); absDiff(loose, want) > 1e-4 {
		t.Errorf("fallback gap = %f, want %f", loose, want)
	}
	if tight >= loose {
		t.Errorf("tightness 0.5 gap %f not smaller than tightness 1.0 gap %f", tight, loose)
	}
}

func absDiff(a, b float32) float32 {
	if a > b {
		return a - b
	}
	return b - a
}

func TestFallbackFollowsNominalDirection(t *testing.T) {
	s := NewStacker([3]float32{}, rock.Medium, 1.0)
	r := rng.New(1)
	s.Place(instanceWithRadius(1, rock.Medium), TierFoundation, [3]float32{}, r)

	// Nominal far along +X: the fallback lands on that side of the
	// nearest rock.
	first := s.Placed()[0].Position
	pos := s.horizontalFallback(1, [3]float32{10, 0, 0}, r)

	gap := float32((1 + 1) * fallbackGapFrac)
	if absDiff(horizontalDistance(pos, first), gap) > 1e-3 {
		t.Errorf("fallback gap %f, want %f", horizontalDistance(pos, first), gap)
	}
	if pos[0]-first[0] < gap*0.9 {
		t.Errorf("fallback at %v not placed toward the nominal side of %v", pos, first)
	}
}

func TestDeterministicPlacement(t *testing.T) {
	run := func() [][3]float32 {
		r := rng.New(123)
		s := NewStacker([3]float32{1, 0, 1}, rock.Large, 0.9)
		var out [][3]float32
		for i := 0; i < 8; i++ {
			out = append(out, s.Place(instanceWithRadius(1.5, rock.Large), TierSupport, randomNominal(r), r).Position)
		}
		return out
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("rock %d placed at %v then %v for equal seeds", i, a[i], b[i])
		}
	}
}
