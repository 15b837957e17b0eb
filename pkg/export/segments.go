// Package export turns a packed group of strips into minimal vector
// cut-paths for a cutting machine.
//
// Every stroke is a vertical segment: full-depth cuts separate pieces, notch
// strokes relieve half the strip depth where another strip crosses. Segments
// sharing an x coordinate are merged into single strokes so a cut can span
// several rows without duplicate overlapping toolpaths. Output can be split
// into a top and a bottom manufacturing pass for double-sided strips.
package export

import (
	"math"
	"sort"
)

// segKind distinguishes full-depth cuts from half-depth notch strokes.
type segKind int

const (
	kindCut segKind = iota
	kindNotch
)

// segment is one vertical stroke before merging. All units are millimeters.
type segment struct {
	kind   segKind
	x      float64
	y1, y2 float64
}

// mergeEpsMM joins strokes whose runs touch within float noise.
const mergeEpsMM = 0.01

// xKey buckets x coordinates at 0.01 mm so float noise cannot split a
// shared boundary into two strokes.
func xKey(x float64) int64 {
	return int64(math.Round(x * 100))
}

// mergeSegments groups segments by rounded x, then sweeps each same-kind
// run in y order, merging adjacent or overlapping strokes. The result is
// the minimal set of vertical strokes, ordered by x then kind then y.
func mergeSegments(segs []segment) []segment {
	type bucket struct {
		kind segKind
		x    int64
	}
	groups := make(map[bucket][]segment)
	for _, s := range segs {
		if s.y1 > s.y2 {
			s.y1, s.y2 = s.y2, s.y1
		}
		b := bucket{kind: s.kind, x: xKey(s.x)}
		groups[b] = append(groups[b], s)
	}

	keys := make([]bucket, 0, len(groups))
	for b := range groups {
		keys = append(keys, b)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].x != keys[j].x {
			return keys[i].x < keys[j].x
		}
		return keys[i].kind < keys[j].kind
	})

	var out []segment
	for _, b := range keys {
		runs := groups[b]
		sort.Slice(runs, func(i, j int) bool { return runs[i].y1 < runs[j].y1 })

		cur := runs[0]
		for _, s := range runs[1:] {
			if s.y1 <= cur.y2+mergeEpsMM {
				cur.y2 = math.Max(cur.y2, s.y2)
				continue
			}
			out = append(out, cur)
			cur = s
		}
		out = append(out, cur)
	}
	return out
}
