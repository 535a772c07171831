// Package rock defines rock archetypes, size variations, and the factory
// that turns them into finished mesh instances.
package rock

import (
	"errors"
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/stonefell/petrogen/internal/geometry"
)

// ErrUnknownVariation is returned when a caller passes a shape or
// category key the catalog does not know. This is the only externally
// visible error in the generation entry points.
var ErrUnknownVariation = errors.New("unknown variation")

// Shape tags the visual archetype of a rock.
type Shape int

const (
	Boulder Shape = iota
	Spire
	Slab
	Angular
	Weathered
	Flattened
	Jagged
)

var shapeNames = map[Shape]string{
	Boulder:   "boulder",
	Spire:     "spire",
	Slab:      "slab",
	Angular:   "angular",
	Weathered: "weathered",
	Flattened: "flattened",
	Jagged:    "jagged",
}

func (s Shape) String() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("shape(%d)", int(s))
}

// BaseKind selects the base geometry a rock is deformed from.
type BaseKind int

const (
	Icosahedral BaseKind = iota
	Spherical
	Dodecahedral
	CustomOrganic
)

// Category is the size class of a rock.
type Category int

const (
	Tiny Category = iota
	Small
	Medium
	Large
	Massive
)

var categoryNames = map[Category]string{
	Tiny:    "tiny",
	Small:   "small",
	Medium:  "medium",
	Large:   "large",
	Massive: "massive",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// ParseCategory converts a category name to its Category value.
func ParseCategory(name string) (Category, error) {
	for cat, n := range categoryNames {
		if n == name {
			return cat, nil
		}
	}
	return 0, fmt.Errorf("%w: category %q", ErrUnknownVariation, name)
}

// Archetype is an immutable rock shape description.
type Archetype struct {
	Tag        Shape
	Base       BaseKind
	Intensity  float32 // deformation intensity, 0..1
	Weathering float32 // erosion level, 0..1; also drives material tint downstream
	Modifier   geometry.Modifier
}

// Variation is a size class with its selection weight and clustering
// behavior.
type Variation struct {
	Category   Category
	MinSize    float32
	MaxSize    float32
	Weight     float64
	Cluster    bool // always emitted as a multi-rock cluster
	ClusterMin int
	ClusterMax int
}

// Catalog is the process-wide static table of archetypes and
// variations. It is loaded once and read-only afterwards.
type Catalog struct {
	shapes     []Archetype
	variations map[Category]Variation
}

// DefaultCatalog returns the built-in shape and variation tables.
func DefaultCatalog() *Catalog {
	return &Catalog{
		shapes: []Archetype{
			{Tag: Boulder, Base: Icosahedral, Intensity: 0.30, Weathering: 0.35, Modifier: geometry.ModifierNone},
			{Tag: Spire, Base: Icosahedral, Intensity: 0.35, Weathering: 0.20, Modifier: geometry.ModifierStretch},
			{Tag: Slab, Base: Dodecahedral, Intensity: 0.25, Weathering: 0.30, Modifier: geometry.ModifierFlatten},
			{Tag: Angular, Base: Dodecahedral, Intensity: 0.45, Weathering: 0.15, Modifier: geometry.ModifierFracture},
			{Tag: Weathered, Base: Spherical, Intensity: 0.30, Weathering: 0.75, Modifier: geometry.ModifierErode},
			{Tag: Flattened, Base: Spherical, Intensity: 0.20, Weathering: 0.40, Modifier: geometry.ModifierFlatten},
			{Tag: Jagged, Base: CustomOrganic, Intensity: 0.55, Weathering: 0.10, Modifier: geometry.ModifierFracture},
		},
		variations: map[Category]Variation{
			Tiny:    {Category: Tiny, MinSize: 0.15, MaxSize: 0.4, Weight: 30},
			Small:   {Category: Small, MinSize: 0.4, MaxSize: 1.0, Weight: 30},
			Medium:  {Category: Medium, MinSize: 1.0, MaxSize: 2.5, Weight: 22, Cluster: true, ClusterMin: 3, ClusterMax: 5},
			Large:   {Category: Large, MinSize: 2.5, MaxSize: 4.5, Weight: 13, Cluster: true, ClusterMin: 4, ClusterMax: 7},
			Massive: {Category: Massive, MinSize: 4.5, MaxSize: 6.0, Weight: 5, Cluster: true, ClusterMin: 6, ClusterMax: 10},
		},
	}
}

// Shapes returns all archetypes in the catalog.
func (c *Catalog) Shapes() []Archetype {
	return c.shapes
}

// ShapeByTag returns the archetype with the given tag.
func (c *Catalog) ShapeByTag(tag Shape) (Archetype, error) {
	for _, s := range c.shapes {
		if s.Tag == tag {
			return s, nil
		}
	}
	return Archetype{}, fmt.Errorf("%w: shape %s", ErrUnknownVariation, tag)
}

// Variation returns the variation for the given category.
func (c *Catalog) Variation(cat Category) (Variation, error) {
	v, ok := c.variations[cat]
	if !ok {
		return Variation{}, fmt.Errorf("%w: category %s", ErrUnknownVariation, cat)
	}
	return v, nil
}

// PickShape selects an archetype uniformly at random.
func (c *Catalog) PickShape(r *rand.Rand) Archetype {
	return c.shapes[r.Intn(len(c.shapes))]
}

// PickVariation selects a variation by weight.
func (c *Catalog) PickVariation(r *rand.Rand) Variation {
	var total float64
	for _, v := range c.variations {
		total += v.Weight
	}
	// Iterate in category order so the draw is deterministic for a
	// given random value.
	pick := r.Float64() * total
	for cat := Tiny; cat <= Massive; cat++ {
		v, ok := c.variations[cat]
		if !ok {
			continue
		}
		pick -= v.Weight
		if pick < 0 {
			return v
		}
	}
	return c.variations[Massive]
}

// variationOverride is the YAML form of a variation table entry. Only
// present fields override the defaults.
type variationOverride struct {
	MinSize    *float32 `yaml:"min_size"`
	MaxSize    *float32 `yaml:"max_size"`
	Weight     *float64 `yaml:"weight"`
	Cluster    *bool    `yaml:"cluster"`
	ClusterMin *int     `yaml:"cluster_min"`
	ClusterMax *int     `yaml:"cluster_max"`
}

type catalogFile struct {
	Variations map[string]variationOverride `yaml:"variations"`
}

// LoadOverrides merges variation overrides from a YAML file into the
// catalog. Unknown category names are rejected.
func (c *Catalog) LoadOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing catalog %s: %w", path, err)
	}

	for name, ov := range file.Variations {
		cat, err := ParseCategory(name)
		if err != nil {
			return err
		}
		v := c.variations[cat]
		if ov.MinSize != nil {
			v.MinSize = *ov.MinSize
		}
		if ov.MaxSize != nil {
			v.MaxSize = *ov.MaxSize
		}
		if ov.Weight != nil {
			v.Weight = *ov.Weight
		}
		if ov.Cluster != nil {
			v.Cluster = *ov.Cluster
		}
		if ov.ClusterMin != nil {
			v.ClusterMin = *ov.ClusterMin
		}
		if ov.ClusterMax != nil {
			v.ClusterMax = *ov.ClusterMax
		}
		c.variations[cat] = v
	}
	return nil
}
