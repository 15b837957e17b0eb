// Package geom implements the geometry kernel for grid-aligned lattice
// designs: segment intersection, point-to-segment distance, direction
// canonicalization, and collinear overlap detection.
//
// All inputs are integer grid coordinates. The kernel is pure math with no
// state; every routine is safe for concurrent use.
package geom

import "math"

// Point is an integer grid coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Segment is a grid-space line segment between two points.
type Segment struct {
	X1, Y1, X2, Y2 int
}

// IsDegenerate reports whether the segment has zero length.
func (s Segment) IsDegenerate() bool {
	return s.X1 == s.X2 && s.Y1 == s.Y2
}

// IsHorizontal reports whether the segment runs parallel to the x axis.
func (s Segment) IsHorizontal() bool {
	return s.Y1 == s.Y2 && s.X1 != s.X2
}

// IsVertical reports whether the segment runs parallel to the y axis.
func (s Segment) IsVertical() bool {
	return s.X1 == s.X2 && s.Y1 != s.Y2
}

// Length returns the Euclidean length of the segment in grid units.
func (s Segment) Length() float64 {
	return math.Hypot(float64(s.X2-s.X1), float64(s.Y2-s.Y1))
}

// Intersect computes the crossing point of two segments using the classic
// parametric test. It returns false when the segments are parallel or
// collinear (collinear overlap is handled by [CollinearOverlap], never here)
// and when the crossing falls outside either segment.
//
// The crossing point is rounded to the nearest integer grid coordinate.
// Intersect is symmetric: Intersect(a, b) == Intersect(b, a) for any pair
// with a valid crossing.
func Intersect(a, b Segment) (Point, bool) {
	x1, y1, x2, y2 := float64(a.X1), float64(a.Y1), float64(a.X2), float64(a.Y2)
	x3, y3, x4, y4 := float64(b.X1), float64(b.Y1), float64(b.X2), float64(b.Y2)

	den := (x1-x2)*(y3-y4) - (y1-y2)*(x3-x4)
	if den == 0 {
		return Point{}, false
	}

	t := ((x1-x3)*(y3-y4) - (y1-y3)*(x3-x4)) / den
	u := -((x1-x2)*(y1-y3) - (y1-y2)*(x1-x3)) / den
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return Point{}, false
	}

	return Point{
		X: int(math.Round(x1 + t*(x2-x1))),
		Y: int(math.Round(y1 + t*(y2-y1))),
	}, true
}

// PointToSegmentDistance returns the shortest distance from p to the segment:
// the perpendicular distance when the projection of p falls within the
// segment, otherwise the distance to the nearer endpoint.
func PointToSegmentDistance(p Point, s Segment) float64 {
	px, py := float64(p.X), float64(p.Y)
	x1, y1 := float64(s.X1), float64(s.Y1)
	dx, dy := float64(s.X2-s.X1), float64(s.Y2-s.Y1)

	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(px-x1, py-y1)
	}

	t := ((px-x1)*dx + (py-y1)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(px-(x1+t*dx), py-(y1+t*dy))
}

// ReduceDirection reduces a direction vector to its canonical primitive form.
// Both components are divided by gcd(|dx|, |dy|), where gcd(0, n) is defined
// as n so that axis-aligned directions reduce without division by zero. The
// sign is then canonicalized so opposite directions of the same infinite
// line map to one representative: the x component is kept non-negative, and
// for vertical directions the y component is kept non-negative.
func ReduceDirection(dx, dy int) (int, int) {
	if dx == 0 && dy == 0 {
		return 0, 0
	}
	g := gcd(abs(dx), abs(dy))
	dx, dy = dx/g, dy/g
	if dx < 0 || (dx == 0 && dy < 0) {
		dx, dy = -dx, -dy
	}
	return dx, dy
}

// overlapTol rejects overlaps so short they amount to touching endpoints.
// Touching collinear segments abut rather than merge-extend.
const overlapTol = 1e-9

// Interval is a parameter range on a segment's own [0,1] parametrization.
type Interval struct {
	Start, End float64
}

// CollinearOverlap computes the overlap of the segment (start, end) with
// line, expressed in line's own parametrization and clamped to [0,1].
// It returns false when the segment is not collinear with line or when the
// clamped overlap is below tolerance (touching only, not overlapping).
func CollinearOverlap(line Segment, start, end Point) (Interval, bool) {
	if line.IsDegenerate() {
		return Interval{}, false
	}
	if cross(line, start) != 0 || cross(line, end) != 0 {
		return Interval{}, false
	}

	tStart := paramOn(line, start)
	tEnd := paramOn(line, end)
	if tStart > tEnd {
		tStart, tEnd = tEnd, tStart
	}

	tStart = math.Max(0, tStart)
	tEnd = math.Min(1, tEnd)
	if tEnd-tStart < overlapTol {
		return Interval{}, false
	}
	return Interval{Start: tStart, End: tEnd}, true
}

// cross returns the z component of (line direction) × (p - line start).
// Zero means p lies on the infinite line through the segment.
func cross(s Segment, p Point) int {
	return (s.X2-s.X1)*(p.Y-s.Y1) - (s.Y2-s.Y1)*(p.X-s.X1)
}

// paramOn returns the parameter of p along s, using the axis of greater
// extent for numerical stability on diagonals.
func paramOn(s Segment, p Point) float64 {
	dx, dy := s.X2-s.X1, s.Y2-s.Y1
	if abs(dx) >= abs(dy) {
		return float64(p.X-s.X1) / float64(dx)
	}
	return float64(p.Y-s.Y1) / float64(dy)
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
