// Package inspect renders a design's crossing structure as a diagram.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz, where
// each lattice line appears as a box and each intersection as an arrow from
// the line passing over to the line passing under. It is a debugging and
// review aid: weave errors that are hard to spot in the cut-path output are
// obvious in the crossing graph.
//
// # Usage
//
// Convert a design to DOT format, then render to SVG:
//
//	dot := inspect.ToDOT(d, strips, inspect.Options{})
//	svg, err := inspect.RenderSVG(dot)
//
// The generated DOT can also be saved and processed with external Graphviz
// tools, or customized before rendering.
package inspect

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/majjacz/Kumiko-Designer-sub000/pkg/design"
)

// Options configures crossing diagram generation.
type Options struct {
	// Detailed includes grid coordinates and notch counts in node labels.
	// When false, only the strip display code (or short line id) is shown.
	Detailed bool
}

// ToDOT converts a design's crossing structure to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG] or [RenderPNG].
//
// An edge a -> b means line a passes over line b at the labeled coordinate.
// Strips supply display codes for node labels; pass nil to label nodes with
// line ids only.
func ToDOT(d *design.Design, strips []design.Strip, opts Options) string {
	codes := make(map[string]string, len(strips))
	notches := make(map[string]int, len(strips))
	for _, s := range strips {
		codes[s.SourceLineID] = s.DisplayCode
		notches[s.SourceLineID] = len(s.Notches)
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, id := range sortedLineIDs(d.Lines) {
		l := d.Lines[id]
		label := fmtLabel(l, codes[id], notches[id], opts.Detailed)
		fmt.Fprintf(&buf, "  %q [label=%q];\n", id, label)
	}

	buf.WriteString("\n")
	for _, in := range design.ResolveIntersections(d.Lines, d.OverrideMap()) {
		over, under := in.Line1ID, in.Line2ID
		if !in.Line1Over {
			over, under = under, over
		}
		fmt.Fprintf(&buf, "  %q -> %q [label=\"(%d,%d)\"];\n", over, under, in.X, in.Y)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(l design.Line, code string, notchCount int, detailed bool) string {
	name := code
	if name == "" {
		name = shortID(l.ID)
	}
	if !detailed {
		return name
	}

	parts := []string{
		fmt.Sprintf("(%d,%d)-(%d,%d)", l.X1, l.Y1, l.X2, l.Y2),
		fmt.Sprintf("notches: %d", notchCount),
	}
	return name + "\n" + strings.Join(parts, "\n")
}

// shortID abbreviates a uuid for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func sortedLineIDs(lines map[string]design.Line) []string {
	ids := make([]string, 0, len(lines))
	for id := range lines {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	return render(dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return render(dot, graphviz.PNG)
}

func render(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
