package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagSeed      = flag.Int64("seed", 0, "Generation seed (0 = time-derived)")
	flagCategory  = flag.String("category", "", "Size category (tiny..massive)")
	flagClusters  = flag.Int("clusters", 0, "Number of clusters to generate")
	flagCountMin  = flag.Int("count-min", 0, "Minimum rocks per cluster")
	flagCountMax  = flag.Int("count-max", 0, "Maximum rocks per cluster")
	flagOut       = flag.String("out", "", "Output directory")
	flagNoDetails = flag.Bool("no-details", false, "Disable ambient detail generation")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagSeed != 0 {
		cfg.Generation.Seed = *flagSeed
	}
	if *flagCategory != "" {
		cfg.Generation.Category = *flagCategory
	}
	if *flagClusters > 0 {
		cfg.Generation.Clusters = *flagClusters
	}
	if *flagCountMin > 0 {
		cfg.Generation.CountMin = *flagCountMin
	}
	if *flagCountMax > 0 {
		cfg.Generation.CountMax = *flagCountMax
	}
	if *flagOut != "" {
		cfg.Output.Dir = *flagOut
	}
	if *flagNoDetails {
		cfg.Generation.Details = false
	}
}
