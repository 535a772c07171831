// Package main is the petrogen command line generator: it synthesizes
// rock clusters and exports them as OBJ meshes with a YAML placement
// manifest.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/stonefell/petrogen/internal/cluster"
	"github.com/stonefell/petrogen/internal/config"
	"github.com/stonefell/petrogen/internal/logger"
	"github.com/stonefell/petrogen/internal/rock"
	"github.com/stonefell/petrogen/pkg/obj"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== petrogen ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("generation failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	category, err := rock.ParseCategory(cfg.Generation.Category)
	if err != nil {
		return err
	}

	catalog := rock.DefaultCatalog()
	if cfg.Catalog.OverridesPath != "" {
		if err := catalog.LoadOverrides(cfg.Catalog.OverridesPath); err != nil {
			return fmt.Errorf("catalog overrides: %w", err)
		}
		logger.Info("catalog overrides loaded", zap.String("path", cfg.Catalog.OverridesPath))
	}

	seed := cfg.Generation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
		logger.Info("using time-derived seed", zap.Int64("seed", seed))
	}

	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return fmt.Errorf("output dir: %w", err)
	}

	cache := rock.NewMeshCache()
	factory := rock.NewFactory(catalog, cache)
	assembler := cluster.NewAssembler(factory)

	manifest := manifestFile{Seed: seed}
	start := time.Now()

	for i := 0; i < cfg.Generation.Clusters; i++ {
		center := [3]float32{float32(i) * cfg.Generation.Spacing, 0, 0}

		collisions := 0
		c, err := assembler.Generate(cluster.Request{
			Center:    center,
			Category:  category,
			CountMin:  cfg.Generation.CountMin,
			CountMax:  cfg.Generation.CountMax,
			Seed:      seed + int64(i),
			Tightness: cfg.Generation.Tightness,
			Details:   cfg.Generation.Details,
			OnCollision: func(p *cluster.PlacedRock) {
				collisions++
			},
		})
		if err != nil {
			return err
		}

		objPath := filepath.Join(cfg.Output.Dir, fmt.Sprintf("cluster_%03d.obj", i))
		if err := exportCluster(objPath, c); err != nil {
			return err
		}

		logger.Info("cluster exported",
			zap.String("path", objPath),
			zap.String("category", c.Category.String()),
			zap.Int("rocks", c.Stats.Rocks),
			zap.Int("triangles", c.Stats.Triangles),
			zap.Int("collisionBodies", collisions),
		)
		if c.Stats.NonFiniteRepaired > 0 || c.Stats.DegenerateDropped > 0 {
			logger.Warn("geometry defects repaired",
				zap.Int("nonFinite", c.Stats.NonFiniteRepaired),
				zap.Int("degenerate", c.Stats.DegenerateDropped),
			)
		}

		manifest.Clusters = append(manifest.Clusters, manifestCluster(c, i))
	}

	if cfg.Output.Manifest {
		manifestPath := filepath.Join(cfg.Output.Dir, "manifest.yaml")
		if err := writeManifest(manifestPath, &manifest); err != nil {
			return err
		}
		logger.Info("manifest written", zap.String("path", manifestPath))
	}

	logger.Info("done",
		zap.Int("clusters", cfg.Generation.Clusters),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

func exportCluster(path string, c *cluster.Cluster) error {
	objects := make([]obj.Object, 0, len(c.Rocks))
	for i, p := range c.Rocks {
		objects = append(objects, obj.Object{
			Name:   fmt.Sprintf("%s_%02d_%s", p.Tier, i, p.Instance.Shape.Tag),
			Mesh:   p.Instance.Mesh,
			Offset: p.Position,
		})
	}
	return obj.WriteFile(path, objects)
}

// Manifest types: placement records for the host/pipeline, one YAML
// document per run.

type manifestFile struct {
	Seed     int64              `yaml:"seed"`
	Clusters []manifestClusterT `yaml:"clusters"`
}

type manifestClusterT struct {
	Index    int              `yaml:"index"`
	Category string           `yaml:"category"`
	Center   [3]float32       `yaml:"center"`
	Rocks    []manifestRock   `yaml:"rocks"`
	Details  []manifestDetail `yaml:"details,omitempty"`
}

type manifestRock struct {
	Tier      string     `yaml:"tier"`
	Shape     string     `yaml:"shape"`
	Position  [3]float32 `yaml:"position"`
	Radius    float32    `yaml:"radius"`
	Stability float32    `yaml:"stability"`
	Supports  int        `yaml:"supports"`
}

type manifestDetail struct {
	Kind     string     `yaml:"kind"`
	Position [3]float32 `yaml:"position"`
	Scale    float32    `yaml:"scale"`
}

func manifestCluster(c *cluster.Cluster, index int) manifestClusterT {
	mc := manifestClusterT{
		Index:    index,
		Category: c.Category.String(),
		Center:   c.Center,
	}
	for _, p := range c.Rocks {
		mc.Rocks = append(mc.Rocks, manifestRock{
			Tier:      p.Tier.String(),
			Shape:     p.Instance.Shape.Tag.String(),
			Position:  p.Position,
			Radius:    p.Instance.BoundingRadius,
			Stability: p.Instance.Stability,
			Supports:  len(p.SupportedBy),
		})
	}
	for _, d := range c.Details {
		mc.Details = append(mc.Details, manifestDetail{
			Kind:     d.Kind.String(),
			Position: d.Position,
			Scale:    d.Scale,
		})
	}
	return mc
}

func writeManifest(path string, m *manifestFile) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
