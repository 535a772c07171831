package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Generation.Category != "massive" {
		t.Errorf("expected category 'massive', got %s", cfg.Generation.Category)
	}
	if cfg.Generation.Clusters != 1 {
		t.Errorf("expected 1 cluster, got %d", cfg.Generation.Clusters)
	}
	if cfg.Generation.Tightness != 1.0 {
		t.Errorf("expected tightness 1.0, got %f", cfg.Generation.Tightness)
	}
	if !cfg.Generation.Details {
		t.Error("expected details to be enabled by default")
	}
	if cfg.Generation.Seed != 0 {
		t.Errorf("expected seed 0 (time-derived), got %d", cfg.Generation.Seed)
	}

	if cfg.Output.Dir != "out" {
		t.Errorf("expected output dir 'out', got %s", cfg.Output.Dir)
	}
	if !cfg.Output.Manifest {
		t.Error("expected manifest to be enabled by default")
	}

	if cfg.Viewer.Width != 1280 || cfg.Viewer.Height != 720 {
		t.Errorf("expected 1280x720 viewer, got %dx%d", cfg.Viewer.Width, cfg.Viewer.Height)
	}
	if !cfg.Viewer.VSync {
		t.Error("expected vsync to be true by default")
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "petrogen.yaml")

	yamlContent := `
generation:
  category: large
  clusters: 3
  count_min: 4
  count_max: 7
  tightness: 0.8
  details: false
  seed: 1234

catalog:
  overrides_path: catalog.yaml

output:
  dir: /tmp/rocks
  manifest: false

logging:
  level: debug
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Generation.Category != "large" {
		t.Errorf("expected category 'large', got %s", cfg.Generation.Category)
	}
	if cfg.Generation.Clusters != 3 {
		t.Errorf("expected 3 clusters, got %d", cfg.Generation.Clusters)
	}
	if cfg.Generation.CountMin != 4 || cfg.Generation.CountMax != 7 {
		t.Errorf("expected count range 4..7, got %d..%d", cfg.Generation.CountMin, cfg.Generation.CountMax)
	}
	if cfg.Generation.Details {
		t.Error("expected details disabled")
	}
	if cfg.Generation.Seed != 1234 {
		t.Errorf("expected seed 1234, got %d", cfg.Generation.Seed)
	}
	if cfg.Catalog.OverridesPath != "catalog.yaml" {
		t.Errorf("expected overrides path 'catalog.yaml', got %s", cfg.Catalog.OverridesPath)
	}
	if cfg.Output.Dir != "/tmp/rocks" {
		t.Errorf("expected output dir '/tmp/rocks', got %s", cfg.Output.Dir)
	}
	if cfg.Output.Manifest {
		t.Error("expected manifest disabled")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}

	// Values absent from the file keep their defaults.
	if cfg.Viewer.Width != 1280 {
		t.Errorf("expected default viewer width 1280, got %d", cfg.Viewer.Width)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "petrogen.yaml")

	cfg := Default()
	cfg.Generation.Category = "medium"
	cfg.Generation.Seed = 42

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}

	if loaded.Generation.Category != "medium" {
		t.Errorf("expected category 'medium' after round trip, got %s", loaded.Generation.Category)
	}
	if loaded.Generation.Seed != 42 {
		t.Errorf("expected seed 42 after round trip, got %d", loaded.Generation.Seed)
	}
}
