// Package layout packs placed strip instances into kerf-adjusted rows on a
// stock board and validates placements against the stock length.
//
// Packing is a pure fold over the pieces of one group: within each row,
// pieces are re-sorted by their requested x offset and repositioned so each
// piece starts where the previous one ended plus one kerf. No state is kept
// between calls.
package layout

import (
	"sort"

	"github.com/majjacz/Kumiko-Designer-sub000/pkg/design"
)

// Placed is a piece joined with its resolved strip and final row position.
type Placed struct {
	Piece design.Piece
	Strip design.Strip
	X     float64 // packed offset in millimeters
}

// Row is one packed row of a board.
type Row struct {
	Index    int
	Pieces   []Placed
	LengthMM float64 // occupied length: last piece end, excluding trailing kerf
}

// Result is the packed layout of one group.
type Result struct {
	Rows []Row // sorted by row index
}

// Pack arranges the group's pieces into rows. Pieces whose strip identity
// cannot be resolved are skipped rather than failing the whole layout (an
// orphaned piece references a strip the current line set no longer derives).
// KerfMM is inserted between adjacent pieces in a row to account for the
// material the tool removes.
func Pack(g design.Group, strips map[string]design.Strip, kerfMM float64) Result {
	byRow := make(map[int][]Placed)
	for _, id := range sortedPieceIDs(g.Pieces) {
		p := g.Pieces[id]
		s, ok := strips[p.LineID]
		if !ok {
			continue
		}
		byRow[p.RowIndex] = append(byRow[p.RowIndex], Placed{Piece: p, Strip: s})
	}

	indexes := make([]int, 0, len(byRow))
	for idx := range byRow {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	var out Result
	for _, idx := range indexes {
		out.Rows = append(out.Rows, packRow(idx, byRow[idx], kerfMM))
	}
	return out
}

// packRow sorts one row's pieces by requested x and repositions them with a
// running offset advancing by length + kerf after each piece.
func packRow(index int, pieces []Placed, kerfMM float64) Row {
	sort.SliceStable(pieces, func(i, j int) bool {
		return pieces[i].Piece.X < pieces[j].Piece.X
	})

	row := Row{Index: index}
	x := 0.0
	for _, p := range pieces {
		p.X = x
		row.Pieces = append(row.Pieces, p)
		row.LengthMM = x + p.Strip.LengthMM
		x += p.Strip.LengthMM + kerfMM
	}
	return row
}

// ValidateStripPlacement reports whether a strip of stripLength placed at
// startX fits a board of stockLength. A strip may overhang the nominal
// stock length by at most half its own width: saw clearance at the far edge
// of the board is tolerable.
func ValidateStripPlacement(stripLength, startX, stockLength, stripWidth float64) bool {
	return startX+stripLength <= stockLength+stripWidth/2
}

func sortedPieceIDs(pieces map[string]design.Piece) []string {
	ids := make([]string, 0, len(pieces))
	for id := range pieces {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
