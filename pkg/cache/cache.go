// Package cache provides content-addressed caching for derived pipeline
// results.
//
// Strip derivation and export are pure functions of the design document and
// the physical parameters, so their results are cached under keys built from
// a content hash of the design plus the parameter set. Backends:
//   - file: local cache for CLI usage (~/.cache/kumiko)
//   - redis: shared cache for multi-instance API deployments
//   - null: caching disabled
package cache

import (
	"context"
	"time"
)

// Default TTLs per artifact class. Derived strips are cheap to recompute;
// rendered artifacts are kept longer since they are what machines consume.
const (
	StripTTL    = 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
)

// Cache is the interface all caching backends implement. Get reports a miss
// with (nil, false, nil); errors are reserved for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// StripKeyOpts are the parameters that change derived strip geometry.
type StripKeyOpts struct {
	CellMM float64
	ToolMM float64
}

// ArtifactKeyOpts are the parameters that change a rendered export.
type ArtifactKeyOpts struct {
	GroupID      string
	Pass         string
	Flip         bool
	CellMM       float64
	ToolMM       float64
	StockMM      float64
	StripWidthMM float64
}

// Keyer builds cache keys from a design content hash and the parameter sets
// that influence each derivation stage.
type Keyer interface {
	// StripKey generates a key for derived strip sets.
	StripKey(designHash string, opts StripKeyOpts) string

	// ArtifactKey generates a key for rendered cut-path artifacts.
	ArtifactKey(designHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key generation scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// StripKey generates a key for derived strip sets.
func (k *DefaultKeyer) StripKey(designHash string, opts StripKeyOpts) string {
	return hashKey("strips", designHash, opts)
}

// ArtifactKey generates a key for rendered cut-path artifacts.
func (k *DefaultKeyer) ArtifactKey(designHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", designHash, opts)
}
