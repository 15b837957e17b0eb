package design

import (
	"fmt"
	"sort"

	"github.com/majjacz/Kumiko-Designer-sub000/pkg/geom"
)

// IntersectionID derives the deterministic id for a crossing of two lines.
// The id is what the override map is keyed by, so it must stay stable for
// the lifetime of both line ids.
func IntersectionID(line1ID, line2ID string) string {
	return fmt.Sprintf("int_%s_%s", line1ID, line2ID)
}

// ResolveIntersections computes one Intersection per distinct grid
// coordinate across all unordered line pairs. Line pairs are visited in
// ascending id order, so when three or more lines cross at one coordinate
// the surviving pair is the one with the lowest composite id - a fixed,
// documented tie-break rather than map iteration order.
//
// Each intersection's Line1Over defaults from an orientation heuristic:
// in a mixed horizontal/vertical pair the horizontal line sits on top,
// otherwise the first line does. If overrides contains the intersection's
// id, the override replaces the default. Overrides are the only external
// state consulted; callers own their lifecycle and must clear them whenever
// the line set changes structurally.
//
// The result is sorted by (y, x) for deterministic downstream iteration.
func ResolveIntersections(lines map[string]Line, overrides map[string]bool) []Intersection {
	ids := sortedKeys(lines)

	byCoord := make(map[geom.Point]Intersection)
	var order []geom.Point

	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			l1, l2 := lines[ids[i]], lines[ids[j]]
			p, ok := geom.Intersect(l1.Segment(), l2.Segment())
			if !ok {
				continue
			}
			if _, taken := byCoord[p]; taken {
				// First pair discovered for a coordinate wins.
				continue
			}

			in := Intersection{
				ID:        IntersectionID(l1.ID, l2.ID),
				X:         p.X,
				Y:         p.Y,
				Line1ID:   l1.ID,
				Line2ID:   l2.ID,
				Line1Over: defaultLine1Over(l1, l2),
			}
			if over, ok := overrides[in.ID]; ok {
				in.Line1Over = over
			}
			byCoord[p] = in
			order = append(order, p)
		}
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].Y != order[j].Y {
			return order[i].Y < order[j].Y
		}
		return order[i].X < order[j].X
	})

	out := make([]Intersection, len(order))
	for i, p := range order {
		out[i] = byCoord[p]
	}
	return out
}

// defaultLine1Over implements the orientation heuristic: the horizontal
// member of a mixed horizontal/vertical pair is on top; any other
// combination (diagonals, two parallels that still cross at an endpoint)
// defaults to first line over.
func defaultLine1Over(l1, l2 Line) bool {
	s1, s2 := l1.Segment(), l2.Segment()
	if s1.IsHorizontal() && s2.IsVertical() {
		return true
	}
	if s1.IsVertical() && s2.IsHorizontal() {
		return false
	}
	return true
}

// IntersectionsOnLine filters intersections touching the given line id,
// preserving input order.
func IntersectionsOnLine(ins []Intersection, lineID string) []Intersection {
	var out []Intersection
	for _, in := range ins {
		if in.Line1ID == lineID || in.Line2ID == lineID {
			out = append(out, in)
		}
	}
	return out
}
