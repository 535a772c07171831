// Package config handles generator configuration loading and management.
package config

// Config holds all generator settings.
type Config struct {
	Generation GenerationConfig `yaml:"generation"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	Output     OutputConfig     `yaml:"output"`
	Viewer     ViewerConfig     `yaml:"viewer"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// GenerationConfig holds cluster generation defaults.
type GenerationConfig struct {
	Category  string  `yaml:"category"`  // default size category
	Clusters  int     `yaml:"clusters"`  // clusters per run
	CountMin  int     `yaml:"count_min"` // 0 = use catalog cluster range
	CountMax  int     `yaml:"count_max"`
	Tightness float32 `yaml:"tightness"`
	Details   bool    `yaml:"details"`
	Seed      int64   `yaml:"seed"` // 0 = derive from current time
	Spacing   float32 `yaml:"spacing"` // world distance between cluster centers
}

// CatalogConfig points at optional shape/variation table overrides.
type CatalogConfig struct {
	OverridesPath string `yaml:"overrides_path"`
}

// OutputConfig holds export settings.
type OutputConfig struct {
	Dir      string `yaml:"dir"`
	Manifest bool   `yaml:"manifest"` // write a YAML placement manifest next to the OBJ
}

// ViewerConfig holds preview window settings.
type ViewerConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Generation: GenerationConfig{
			Category:  "massive",
			Clusters:  1,
			Tightness: 1.0,
			Details:   true,
			Spacing:   40,
		},
		Output: OutputConfig{
			Dir:      "out",
			Manifest: true,
		},
		Viewer: ViewerConfig{
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
