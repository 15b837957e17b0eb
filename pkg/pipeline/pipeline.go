// Package pipeline provides the core derivation pipeline for Kumiko designs.
//
// This package implements the complete derive → pack → export pipeline that
// can be used by CLI and API components. By centralizing this logic, we
// ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of two cached stages:
//
//  1. Derive: resolve intersections and compute physical strips
//  2. Export: pack strips into rows and render SVG cut-paths per group
//
// Packing is part of the export stage; it is a cheap pure fold and never
// cached on its own. Each stage can be run independently or as part of the
// complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{Pass: "bottom"}
//	result, err := runner.Execute(ctx, d, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts[groupID]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/majjacz/Kumiko-Designer-sub000/pkg/cache"
	"github.com/majjacz/Kumiko-Designer-sub000/pkg/design"
	"github.com/majjacz/Kumiko-Designer-sub000/pkg/errors"
	"github.com/majjacz/Kumiko-Designer-sub000/pkg/export"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultCellMM is the physical size of one grid cell in millimeters.
	DefaultCellMM = 15.0

	// DefaultToolMM is the cutting tool width in millimeters (1/8" end mill).
	// It doubles as the kerf between adjacent pieces in a packed row.
	DefaultToolMM = 3.175

	// DefaultStripWidthMM is the strip width in millimeters.
	DefaultStripWidthMM = 20.0

	// DefaultStockMM is the stock board length in millimeters.
	DefaultStockMM = 2400.0
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the derivation pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Physical parameters. Zero values fall back to the design's settings,
	// then to the package defaults.
	CellMM       float64 `json:"cell_mm,omitempty"`
	ToolMM       float64 `json:"tool_mm,omitempty"`
	StripWidthMM float64 `json:"strip_width_mm,omitempty"`
	StockMM      float64 `json:"stock_mm,omitempty"`

	// Export options
	Pass   string   `json:"pass,omitempty"`   // all, top, or bottom
	Flip   bool     `json:"flip,omitempty"`   // mirror notch faces for turned-over boards
	Groups []string `json:"groups,omitempty"` // group ids or names; empty exports all

	// Refresh bypasses the cache and recomputes every stage.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`

	pass export.Pass
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// DesignHash is the content hash of the design document.
	DesignHash string

	// Strips are the derived physical strips, sorted by source line id.
	Strips []design.Strip

	// Artifacts contains rendered SVG cut-paths keyed by group id.
	// Groups whose selected pass produces no strokes are absent.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	LineCount  int
	StripCount int
	DeriveTime time.Duration
	ExportTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	DeriveHit bool // Whether the derived strips came from cache
	ExportHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ApplySettings fills zero-valued physical parameters from the design's own
// settings. Call this before ValidateAndSetDefaults so explicit options win
// over stored settings, and stored settings win over package defaults.
func (o *Options) ApplySettings(s design.Settings) {
	if o.CellMM == 0 {
		o.CellMM = s.CellMM
	}
	if o.ToolMM == 0 {
		o.ToolMM = s.ToolMM
	}
	if o.StripWidthMM == 0 {
		o.StripWidthMM = s.StripWidthMM
	}
	if o.StockMM == 0 {
		o.StockMM = s.StockMM
	}
}

// ValidateAndSetDefaults checks all fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.CellMM == 0 {
		o.CellMM = DefaultCellMM
	}
	if o.ToolMM == 0 {
		o.ToolMM = DefaultToolMM
	}
	if o.StripWidthMM == 0 {
		o.StripWidthMM = DefaultStripWidthMM
	}
	if o.StockMM == 0 {
		o.StockMM = DefaultStockMM
	}

	for _, dim := range []struct {
		label string
		mm    float64
	}{
		{"cell size", o.CellMM},
		{"tool width", o.ToolMM},
		{"strip width", o.StripWidthMM},
		{"stock length", o.StockMM},
	} {
		if err := errors.ValidateDimension(dim.label, dim.mm); err != nil {
			return err
		}
	}

	pass, err := export.ParsePass(o.Pass)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPass, err, "validate pass")
	}
	o.pass = pass
	o.Pass = string(pass)

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// StripParams returns the derivation parameters for the strip deriver.
func (o *Options) StripParams() design.StripParams {
	return design.StripParams{CellMM: o.CellMM, ToolMM: o.ToolMM}
}

// StripKeyOpts returns cache key options for strip derivation.
func (o *Options) StripKeyOpts() cache.StripKeyOpts {
	return cache.StripKeyOpts{
		CellMM: o.CellMM,
		ToolMM: o.ToolMM,
	}
}

// ArtifactKeyOpts returns cache key options for one group's export.
func (o *Options) ArtifactKeyOpts(groupID string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		GroupID:      groupID,
		Pass:         o.Pass,
		Flip:         o.Flip,
		CellMM:       o.CellMM,
		ToolMM:       o.ToolMM,
		StockMM:      o.StockMM,
		StripWidthMM: o.StripWidthMM,
	}
}

// ExportOptions returns the renderer options for one export run.
func (o *Options) ExportOptions() []export.Option {
	opts := []export.Option{
		export.WithPass(o.pass),
		export.WithTool(o.ToolMM),
		export.WithStock(o.StockMM),
		export.WithStripWidth(o.StripWidthMM),
	}
	if o.Flip {
		opts = append(opts, export.WithFlip())
	}
	return opts
}
