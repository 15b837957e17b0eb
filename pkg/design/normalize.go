package design

import (
	"fmt"
	"math"
	"sort"

	"github.com/majjacz/Kumiko-Designer-sub000/pkg/geom"
)

// Normalize replaces the line set with a canonical one: every maximal run of
// collinear touching or overlapping segments becomes exactly one fresh Line.
// Degenerate (zero-length) inputs are skipped entirely. This enforces the
// "no overlapping collinear segments" invariant and must run after every
// line-set mutation.
//
// Returned lines carry newly generated ids; coordinates are reconstructed
// from the group geometry and rounded to the nearest integer. Normalizing an
// already-normalized set yields the same coordinates again.
func Normalize(lines map[string]Line) map[string]Line {
	groups := make(map[string]*lineGroup)

	for _, id := range sortedKeys(lines) {
		l := lines[id]
		if l.Segment().IsDegenerate() {
			continue
		}
		key, g := groupFor(l)
		if existing, ok := groups[key]; ok {
			g = existing
		} else {
			groups[key] = g
		}
		t1, t2 := g.param(l.X1, l.Y1), g.param(l.X2, l.Y2)
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		g.intervals = append(g.intervals, geom.Interval{Start: t1, End: t2})
	}

	out := make(map[string]Line)
	for _, key := range sortedGroupKeys(groups) {
		for _, iv := range mergeIntervals(groups[key].intervals) {
			l := groups[key].line(iv)
			out[l.ID] = l
		}
	}
	return out
}

// lineGroup collects all segments lying on one infinite line. Horizontal
// lines are keyed by y, vertical by x, and general diagonals by the
// canonical direction plus the line constant c = dirX*y - dirY*x.
type lineGroup struct {
	dirX, dirY int // canonical primitive direction
	c          int // line equation constant
	intervals  []geom.Interval
}

func groupFor(l Line) (string, *lineGroup) {
	dx, dy := geom.ReduceDirection(l.X2-l.X1, l.Y2-l.Y1)
	g := &lineGroup{dirX: dx, dirY: dy, c: dx*l.Y1 - dy*l.X1}

	switch {
	case dy == 0:
		return fmt.Sprintf("h|%d", l.Y1), g
	case dx == 0:
		return fmt.Sprintf("v|%d", l.X1), g
	default:
		return fmt.Sprintf("d|%d|%d|%d", dx, dy, g.c), g
	}
}

// param projects a point onto the group's 1D axis: x for horizontal lines
// and shallow diagonals, y for vertical lines and steep diagonals.
func (g *lineGroup) param(x, y int) float64 {
	if g.alongX() {
		return float64(x)
	}
	return float64(y)
}

func (g *lineGroup) alongX() bool {
	return abs(g.dirX) >= abs(g.dirY)
}

// line reconstructs a merged interval into a fresh Line on this group's
// infinite line, rounding to the nearest grid coordinate.
func (g *lineGroup) line(iv geom.Interval) Line {
	x1, y1 := g.point(iv.Start)
	x2, y2 := g.point(iv.End)
	return Line{ID: NewID(), X1: x1, Y1: y1, X2: x2, Y2: y2}
}

func (g *lineGroup) point(t float64) (int, int) {
	if g.alongX() {
		// dirX*y - dirY*x = c, solved for y
		y := (float64(g.c) + float64(g.dirY)*t) / float64(g.dirX)
		return round(t), round(y)
	}
	// solved for x
	x := (float64(g.dirX)*t - float64(g.c)) / float64(g.dirY)
	return round(x), round(t)
}

// mergeIntervals sweeps sorted intervals and merges runs that overlap or
// touch (next.Start <= current.End).
func mergeIntervals(ivs []geom.Interval) []geom.Interval {
	if len(ivs) == 0 {
		return nil
	}
	sort.Slice(ivs, func(i, j int) bool {
		if ivs[i].Start != ivs[j].Start {
			return ivs[i].Start < ivs[j].Start
		}
		return ivs[i].End < ivs[j].End
	})

	merged := []geom.Interval{ivs[0]}
	for _, iv := range ivs[1:] {
		cur := &merged[len(merged)-1]
		if iv.Start <= cur.End {
			cur.End = math.Max(cur.End, iv.End)
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

func sortedGroupKeys(groups map[string]*lineGroup) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func round(v float64) int {
	return int(math.Round(v))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
