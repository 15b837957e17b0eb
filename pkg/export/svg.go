package export

import (
	"bytes"
	"fmt"
	"math"
	"sort"

	"github.com/majjacz/Kumiko-Designer-sub000/pkg/design"
	"github.com/majjacz/Kumiko-Designer-sub000/pkg/layout"
)

// Pass selects which manufacturing side of the strips is exported.
//
// A double-sided strip is cut in two passes: the bottom pass carries every
// full-depth separating cut plus the bottom-face notches, the top pass
// carries only the top-face notches (the board is already cut apart when it
// is turned over).
type Pass string

const (
	PassAll    Pass = "all"
	PassTop    Pass = "top"
	PassBottom Pass = "bottom"
)

// ParsePass validates a user-supplied pass name.
func ParsePass(s string) (Pass, error) {
	switch Pass(s) {
	case PassAll, PassTop, PassBottom, "":
		if s == "" {
			return PassAll, nil
		}
		return Pass(s), nil
	}
	return "", fmt.Errorf("unknown pass %q (want all, top, or bottom)", s)
}

const (
	cutColor   = "#000000"
	notchColor = "#808080"
)

// Option configures one export run.
type Option func(*exporter)

type exporter struct {
	pass         Pass
	flip         bool
	toolMM       float64
	stockMM      float64
	stripWidthMM float64
}

// WithPass restricts output to one manufacturing pass.
func WithPass(p Pass) Option { return func(e *exporter) { e.pass = p } }

// WithFlip mirrors every notch to the opposite face. Used when the second
// pass is cut with the board turned over, so "top" in the file means the
// face now under the tool.
func WithFlip() Option { return func(e *exporter) { e.flip = true } }

// WithTool sets the cutting tool width in millimeters. It doubles as the
// kerf inserted between adjacent pieces during packing.
func WithTool(mm float64) Option { return func(e *exporter) { e.toolMM = mm } }

// WithStock sets the stock board length in millimeters. The drawing is never
// narrower than the stock, so consecutive exports register on the machine.
func WithStock(mm float64) Option { return func(e *exporter) { e.stockMM = mm } }

// WithStripWidth sets the strip width in millimeters, which is both the row
// height and the vertical gap unit between rows.
func WithStripWidth(mm float64) Option { return func(e *exporter) { e.stripWidthMM = mm } }

// SVG renders the group's packed rows as an SVG cut-path document in
// centimeter units. It reports false when the selected pass produces no
// strokes at all, so callers can skip writing an empty file.
//
// Adjacent pieces in a row share a single separating cut: the end cut of one
// piece lands on the start cut of the next (pieces are packed one kerf
// apart), and [mergeSegments] collapses the pair.
func SVG(g design.Group, strips map[string]design.Strip, opts ...Option) ([]byte, bool) {
	e := exporter{pass: PassAll}
	for _, opt := range opts {
		opt(&e)
	}

	rows := layout.Pack(g, strips, e.toolMM)

	var segs []segment
	for _, row := range rows.Rows {
		y0 := float64(row.Index) * (e.stripWidthMM + e.toolMM)
		y1 := y0 + e.stripWidthMM

		for _, p := range row.Pieces {
			if e.pass != PassTop {
				segs = append(segs,
					segment{kind: kindCut, x: p.X, y1: y0, y2: y1},
					segment{kind: kindCut, x: p.X + p.Strip.LengthMM + e.toolMM, y1: y0, y2: y1},
				)
			}
			for _, n := range p.Strip.Notches {
				fromTop := n.FromTop != e.flip
				if e.pass == PassTop && !fromTop {
					continue
				}
				if e.pass == PassBottom && fromTop {
					continue
				}
				segs = append(segs, segment{kind: kindNotch, x: p.X + n.DistMM, y1: y0, y2: y1})
			}
		}
	}

	manual := manualCuts(g, e.pass)
	if len(segs) == 0 && len(manual) == 0 {
		return nil, false
	}

	merged := mergeSegments(segs)

	widthMM := e.stockMM
	heightMM := 0.0
	for _, s := range merged {
		widthMM = math.Max(widthMM, s.x)
		heightMM = math.Max(heightMM, s.y2)
	}
	for _, c := range manual {
		widthMM = math.Max(widthMM, math.Max(c.X1, c.X2))
		heightMM = math.Max(heightMM, math.Max(c.Y1, c.Y2))
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%.3fcm" height="%.3fcm" viewBox="0 0 %.3f %.3f">`+"\n",
		widthMM/10, heightMM/10, widthMM/10, heightMM/10)

	strokeCM := e.toolMM / 10
	if strokeCM <= 0 {
		strokeCM = 0.02
	}

	for _, s := range merged {
		color := cutColor
		if s.kind == kindNotch {
			color = notchColor
		}
		writeLine(&buf, s.x, s.y1, s.x, s.y2, color, strokeCM)
	}
	for _, c := range manual {
		writeLine(&buf, c.X1, c.Y1, c.X2, c.Y2, cutColor, strokeCM)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), true
}

// manualCuts returns the group's legacy free-form cuts in stable id order.
// They are full-depth, so the top pass drops them with the other cuts.
func manualCuts(g design.Group, pass Pass) []design.Cut {
	if pass == PassTop || len(g.FullCuts) == 0 {
		return nil
	}
	ids := make([]string, 0, len(g.FullCuts))
	for id := range g.FullCuts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	cuts := make([]design.Cut, 0, len(ids))
	for _, id := range ids {
		cuts = append(cuts, g.FullCuts[id])
	}
	return cuts
}

// writeLine emits one stroke, converting millimeters to centimeters.
func writeLine(buf *bytes.Buffer, x1, y1, x2, y2 float64, color string, strokeCM float64) {
	fmt.Fprintf(buf, `  <line x1="%.3f" y1="%.3f" x2="%.3f" y2="%.3f" stroke="%s" stroke-width="%.3f" />`+"\n",
		x1/10, y1/10, x2/10, y2/10, color, strokeCM)
}
