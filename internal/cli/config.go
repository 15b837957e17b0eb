package cli

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/majjacz/Kumiko-Designer-sub000/pkg/design"
	"github.com/majjacz/Kumiko-Designer-sub000/pkg/pipeline"
)

// =============================================================================
// Configuration
// =============================================================================

// Config holds user-level settings loaded from the TOML config file.
// Zero values fall back to the pipeline defaults, so a partial config
// file only overrides what it names.
type Config struct {
	// CellMM is the default grid cell size in millimeters.
	CellMM float64 `toml:"cell_mm"`

	// ToolMM is the default tool (kerf) width in millimeters.
	ToolMM float64 `toml:"tool_mm"`

	// StripWidthMM is the default strip width in millimeters.
	StripWidthMM float64 `toml:"strip_width_mm"`

	// StockMM is the default stock board length in millimeters.
	StockMM float64 `toml:"stock_mm"`

	// Units selects the display unit for CLI output: "mm" or "in".
	// Stored designs and SVG output are always metric.
	Units string `toml:"units"`

	// CacheDir overrides the XDG cache directory.
	CacheDir string `toml:"cache_dir"`

	// Serve configures the HTTP API server.
	Serve ServeConfig `toml:"serve"`
}

// ServeConfig configures the serve command.
type ServeConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `toml:"addr"`

	// RedisAddr enables the Redis artifact cache when set, e.g. "localhost:6379".
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	// MongoURI enables the MongoDB design store when set.
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// DefaultConfig returns the built-in settings used when no config file exists.
func DefaultConfig() Config {
	return Config{
		CellMM:       pipeline.DefaultCellMM,
		ToolMM:       pipeline.DefaultToolMM,
		StripWidthMM: pipeline.DefaultStripWidthMM,
		StockMM:      pipeline.DefaultStockMM,
		Units:        "mm",
		Serve: ServeConfig{
			Addr: ":8080",
		},
	}
}

// LoadConfig reads the TOML config file at path, layering it over the
// defaults. A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Units != "mm" && cfg.Units != "in" {
		cfg.Units = "mm"
	}
	return cfg, nil
}

// LoadConfigOrDefault loads the config from path, or the default XDG
// location when path is empty. Any load error silently falls back to
// the defaults so a broken config file never blocks the CLI.
func LoadConfigOrDefault(path string) Config {
	if path == "" {
		p, err := configPath()
		if err != nil {
			return DefaultConfig()
		}
		path = p
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}

// PipelineOptions converts the configured defaults into pipeline options.
// Command flags override these values before the pipeline runs.
func (c Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		CellMM:       c.CellMM,
		ToolMM:       c.ToolMM,
		StripWidthMM: c.StripWidthMM,
		StockMM:      c.StockMM,
	}
}

// layerConfig applies the precedence chain to pipeline options: explicit
// flags win, then the design's stored settings, then the config file. The
// pipeline's own validation fills anything still zero with the package
// defaults.
func (c *CLI) layerConfig(o pipeline.Options, s design.Settings) pipeline.Options {
	o.ApplySettings(s)
	o.ApplySettings(design.Settings{
		CellMM:       c.Config.CellMM,
		ToolMM:       c.Config.ToolMM,
		StripWidthMM: c.Config.StripWidthMM,
		StockMM:      c.Config.StockMM,
	})
	return o
}
