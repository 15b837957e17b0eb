// Package design implements the lattice data model and its pure derivations:
// line normalization, intersection resolution, and strip derivation.
//
// A [Design] is the canonical exchange format between the CLI, the HTTP API,
// and the persistence stores. Lines live in integer grid space; everything
// physical (strip lengths, notch positions) is derived in millimeters from
// the design's cell size. Intersections and strips are never persisted -
// they are recomputed from the current line set, with only the intersection
// override map carried as state.
package design

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/google/uuid"

	"github.com/majjacz/Kumiko-Designer-sub000/pkg/geom"
)

// Line is a grid-space segment of the lattice. Post-normalization, at most
// one Line covers any sub-interval of a given infinite line.
type Line struct {
	ID string `json:"id" bson:"id"`
	X1 int    `json:"x1" bson:"x1"`
	Y1 int    `json:"y1" bson:"y1"`
	X2 int    `json:"x2" bson:"x2"`
	Y2 int    `json:"y2" bson:"y2"`
}

// Segment converts the line to its geometry-kernel form.
func (l Line) Segment() geom.Segment {
	return geom.Segment{X1: l.X1, Y1: l.Y1, X2: l.X2, Y2: l.Y2}
}

// Intersection is a unique physical crossing point between two lines.
// Exactly one Intersection exists per distinct grid coordinate.
type Intersection struct {
	ID        string `json:"id" bson:"id"`
	X         int    `json:"x" bson:"x"`
	Y         int    `json:"y" bson:"y"`
	Line1ID   string `json:"line1_id" bson:"line1_id"`
	Line2ID   string `json:"line2_id" bson:"line2_id"`
	Line1Over bool   `json:"line1_over" bson:"line1_over"`
}

// Notch is a half-depth relief cut on a strip, measured in millimeters from
// the strip's (possibly trimmed) start. FromTop denotes which face of the
// strip is relieved.
type Notch struct {
	ID          string  `json:"id" bson:"id"`
	OtherLineID string  `json:"other_line_id" bson:"other_line_id"`
	DistMM      float64 `json:"dist_mm" bson:"dist_mm"`
	FromTop     bool    `json:"from_top" bson:"from_top"`
}

// Strip is the physical cuttable piece derived from one Line. Its ID is a
// canonical geometry identity: two lines describing the same physical piece
// (reversed direction, or flipped top-for-bottom) share one ID and differ
// only in SourceLineID.
type Strip struct {
	Line `bson:",inline"`

	LengthMM     float64 `json:"length_mm" bson:"length_mm"`
	Notches      []Notch `json:"notches" bson:"notches"`
	SourceLineID string  `json:"source_line_id" bson:"source_line_id"`
	DisplayCode  string  `json:"display_code" bson:"display_code"`
}

// Piece is one physical placement of a Strip inside a layout row.
// LineID references the strip's geometry identity, X is the kerf-adjusted
// offset along the row in millimeters.
type Piece struct {
	ID       string  `json:"id" bson:"id"`
	LineID   string  `json:"line_id" bson:"line_id"`
	X        float64 `json:"x" bson:"x"`
	Y        float64 `json:"y" bson:"y"`
	RowIndex int     `json:"row_index" bson:"row_index"`
}

// Cut is a manual full-depth cut line kept for legacy layouts that predate
// row-based placement.
type Cut struct {
	ID string  `json:"id" bson:"id"`
	X1 float64 `json:"x1" bson:"x1"`
	Y1 float64 `json:"y1" bson:"y1"`
	X2 float64 `json:"x2" bson:"x2"`
	Y2 float64 `json:"y2" bson:"y2"`
}

// Group is one independently laid-out and exportable board of placed pieces.
type Group struct {
	ID       string           `json:"id" bson:"id"`
	Name     string           `json:"name" bson:"name"`
	Pieces   map[string]Piece `json:"pieces" bson:"pieces"`
	FullCuts map[string]Cut   `json:"full_cuts,omitempty" bson:"full_cuts,omitempty"`
}

// Settings are the physical parameters a design was drawn against.
// Zero values mean "use the configured default".
type Settings struct {
	CellMM       float64 `json:"cell_mm,omitempty" bson:"cell_mm,omitempty"`
	ToolMM       float64 `json:"tool_mm,omitempty" bson:"tool_mm,omitempty"`
	StripWidthMM float64 `json:"strip_width_mm,omitempty" bson:"strip_width_mm,omitempty"`
	StockMM      float64 `json:"stock_mm,omitempty" bson:"stock_mm,omitempty"`
}

// Override is one persisted intersection orientation choice. Overrides
// serialize as an ordered list so that reloading a design re-supplies the
// map unchanged for identical intersections.
type Override struct {
	ID        string `json:"id" bson:"id"`
	Line1Over bool   `json:"line1_over" bson:"line1_over"`
}

// Design is the full persistable document: the line set, the intersection
// override list, and the placement groups. At least one group always exists.
type Design struct {
	Name      string           `json:"name,omitempty" bson:"name,omitempty"`
	Settings  Settings         `json:"settings,omitempty" bson:"settings,omitempty"`
	Lines     map[string]Line  `json:"lines" bson:"lines"`
	Overrides []Override       `json:"overrides,omitempty" bson:"overrides,omitempty"`
	Groups    map[string]Group `json:"groups" bson:"groups"`
}

// New creates an empty design with a single default group.
func New(name string) *Design {
	g := Group{ID: NewID(), Name: "Board 1", Pieces: map[string]Piece{}}
	return &Design{
		Name:   name,
		Lines:  map[string]Line{},
		Groups: map[string]Group{g.ID: g},
	}
}

// NewID returns a fresh unique identifier for lines, pieces, and groups.
func NewID() string {
	return uuid.NewString()
}

// OverrideMap converts the persisted override list to the lookup map the
// intersection resolver consumes.
func (d *Design) OverrideMap() map[string]bool {
	if len(d.Overrides) == 0 {
		return nil
	}
	m := make(map[string]bool, len(d.Overrides))
	for _, o := range d.Overrides {
		m[o.ID] = o.Line1Over
	}
	return m
}

// SetOverrides replaces the override list from a map, in sorted id order for
// deterministic serialization.
func (d *Design) SetOverrides(m map[string]bool) {
	d.Overrides = d.Overrides[:0]
	for _, id := range sortedKeys(m) {
		d.Overrides = append(d.Overrides, Override{ID: id, Line1Over: m[id]})
	}
}

// ClearOverrides drops all persisted orientation choices. Callers must do
// this whenever the line set changes structurally, since an override id may
// refer to an intersection that no longer exists.
func (d *Design) ClearOverrides() {
	d.Overrides = nil
}

// Group returns the named or id-matched group.
func (d *Design) Group(idOrName string) (Group, bool) {
	if g, ok := d.Groups[idOrName]; ok {
		return g, true
	}
	for _, g := range d.Groups {
		if g.Name == idOrName {
			return g, true
		}
	}
	return Group{}, false
}

// Read decodes a design from r.
func Read(r io.Reader) (*Design, error) {
	var d Design
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode design: %w", err)
	}
	if d.Lines == nil {
		d.Lines = map[string]Line{}
	}
	if len(d.Groups) == 0 {
		g := Group{ID: NewID(), Name: "Board 1", Pieces: map[string]Piece{}}
		d.Groups = map[string]Group{g.ID: g}
	}
	return &d, nil
}

// ReadFile loads a design from a JSON file at path.
func ReadFile(path string) (*Design, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Write encodes the design as indented JSON.
func Write(d *Design, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode design: %w", err)
	}
	return nil
}

// WriteFile saves the design to a JSON file at path.
func WriteFile(d *Design, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(d, f)
}

// Marshal returns the canonical JSON encoding used for content hashing.
func Marshal(d *Design) ([]byte, error) {
	return json.Marshal(d)
}

// sortedKeys returns the map's keys in ascending order. Derivations iterate
// maps through this helper so their output is deterministic.
func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
