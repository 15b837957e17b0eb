// Package store persists named design documents.
//
// Two backends exist: a file store for CLI usage (one JSON file per design
// under the user config directory) and a MongoDB store for the API server.
// Designs are addressed by name; names double as storage keys and are
// validated against path traversal before they touch a backend.
package store

import (
	"context"
	"time"

	"github.com/majjacz/Kumiko-Designer-sub000/pkg/design"
)

// Info is a catalog entry describing one stored design.
type Info struct {
	Name      string    `json:"name" bson:"_id"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
	Lines     int       `json:"lines" bson:"lines"`
	Groups    int       `json:"groups" bson:"groups"`
}

// Store is the interface for design persistence backends.
type Store interface {
	// Get loads a design by name. Returns an error with code
	// DESIGN_NOT_FOUND when no design has that name.
	Get(ctx context.Context, name string) (*design.Design, error)

	// Put saves a design under name, replacing any previous version.
	Put(ctx context.Context, name string, d *design.Design) error

	// Delete removes a stored design. Deleting an unknown name is an error.
	Delete(ctx context.Context, name string) error

	// List returns catalog entries for all stored designs, sorted by name.
	List(ctx context.Context) ([]Info, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}
