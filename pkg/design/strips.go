package design

import (
	"math"
	"sort"
)

// MinStripMM is the minimum usable strip length. Anything shorter after
// trimming is a degenerate artifact of drawing and is discarded.
const MinStripMM = 1.0

// edgeEpsMM absorbs float noise when deciding whether a rebased notch has
// collapsed onto a trimmed strip end.
const edgeEpsMM = 0.01

// StripParams are the physical parameters strip derivation runs against.
type StripParams struct {
	CellMM float64 // physical size of one grid cell
	ToolMM float64 // cutting tool diameter (kerf)
}

// ComputeStrips derives the physical cut strips for every line.
//
// For each line the intersections touching it are classified: a crossing in
// the line's interior produces a notch on the face opposite the over-strip;
// a touch at the line's own endpoint is a butt joint and trims that end by
// half the tool width (the strips abut flush, so the strip only gives up the
// other strip's half-kerf clearance); a touch at the other line's endpoint
// is the receiving side of a butt joint and produces nothing. Notch
// distances are rebased onto the trimmed start, edge-collapsed notches are
// dropped, and strips shorter than [MinStripMM] are discarded.
//
// The strip's ID is its canonical geometry identity (see [StripID]); lines
// describing the same physical piece share an ID and differ in SourceLineID.
// Results are sorted by SourceLineID.
func ComputeStrips(lines map[string]Line, ins []Intersection, p StripParams) []Strip {
	var out []Strip
	for _, id := range sortedKeys(lines) {
		if s, ok := deriveStrip(lines[id], lines, ins, p); ok {
			out = append(out, s)
		}
	}
	return out
}

// StripsByID indexes strips by their geometry identity. When several source
// lines share an identity the first (in SourceLineID order) wins; they are
// interchangeable physical pieces.
func StripsByID(strips []Strip) map[string]Strip {
	m := make(map[string]Strip, len(strips))
	for _, s := range strips {
		if _, ok := m[s.ID]; !ok {
			m[s.ID] = s
		}
	}
	return m
}

func deriveStrip(l Line, lines map[string]Line, ins []Intersection, p StripParams) (Strip, bool) {
	lengthMM := l.Segment().Length() * p.CellMM
	if lengthMM < MinStripMM {
		return Strip{}, false
	}

	var notches []Notch
	var startTrim, endTrim float64

	for _, in := range IntersectionsOnLine(ins, l.ID) {
		isLine1 := in.Line1ID == l.ID
		otherID := in.Line2ID
		if !isLine1 {
			otherID = in.Line1ID
		}

		atOwnStart := in.X == l.X1 && in.Y == l.Y1
		atOwnEnd := in.X == l.X2 && in.Y == l.Y2
		atOtherEnd := atEndpoint(lines[otherID], in.X, in.Y)

		switch {
		case atOwnStart || atOwnEnd:
			// Butt joint: this strip's end meets the other strip's edge.
			// No material is removed, but the end gives up the other
			// strip's half-kerf clearance. A mutual endpoint touch is a
			// corner, not a butt - nothing to trim.
			if atOtherEnd {
				continue
			}
			if atOwnStart {
				startTrim = p.ToolMM / 2
			} else {
				endTrim = p.ToolMM / 2
			}
		case atOtherEnd:
			// The other strip butts into this one; this strip stays whole.
		default:
			dist := distFromStart(l, in.X, in.Y) * p.CellMM
			notches = append(notches, Notch{
				ID:          in.ID,
				OtherLineID: otherID,
				DistMM:      dist,
				FromTop:     in.Line1Over != isLine1,
			})
		}
	}

	lengthMM -= startTrim + endTrim
	if lengthMM < MinStripMM {
		return Strip{}, false
	}

	// Rebase onto the trimmed start and drop notches that collapsed onto
	// either new end.
	kept := notches[:0]
	for _, n := range notches {
		n.DistMM -= startTrim
		if n.DistMM <= edgeEpsMM || n.DistMM >= lengthMM-edgeEpsMM {
			continue
		}
		kept = append(kept, n)
	}
	notches = kept

	sort.Slice(notches, func(i, j int) bool { return notches[i].DistMM < notches[j].DistMM })

	id := StripID(lengthMM, notches)
	return Strip{
		Line:         Line{ID: id, X1: l.X1, Y1: l.Y1, X2: l.X2, Y2: l.Y2},
		LengthMM:     lengthMM,
		Notches:      notches,
		SourceLineID: l.ID,
		DisplayCode:  DisplayCode(id),
	}, true
}

func atEndpoint(l Line, x, y int) bool {
	return (x == l.X1 && y == l.Y1) || (x == l.X2 && y == l.Y2)
}

// distFromStart returns the grid-space distance from the line's start point
// to (x, y).
func distFromStart(l Line, x, y int) float64 {
	return math.Hypot(float64(x-l.X1), float64(y-l.Y1))
}
