// Package pkg provides the core libraries for Kumiko cut-path derivation.
//
// # Overview
//
// Kumiko turns grid-space lattice designs into the physical strips, notch
// positions, and SVG cut-paths needed to build traditional kumiko panels.
// The pkg directory is organized into these areas:
//
//  1. [design] - Domain model (lines, intersections, strips, groups) and derivation
//  2. [geom] - Integer grid geometry primitives
//  3. [layout] - Kerf-adjusted row packing onto stock boards
//  4. [export] - SVG cut-path rendering with pass and flip support
//  5. [pipeline] - Orchestration with per-stage caching (derive → pack → export)
//  6. [cache], [store] - Infrastructure (file/Redis cache, file/MongoDB store)
//  7. [inspect] - Graphviz over/under crossing diagrams
//
// # Architecture
//
// The typical data flow:
//
//	Design document (lines + overrides + groups)
//	         ↓
//	    [design] package (resolve intersections, derive strips)
//	         ↓
//	    [layout] package (pack pieces into kerf-adjusted rows)
//	         ↓
//	    [export] package (merge shared boundaries, render SVG)
//	         ↓
//	    SVG cut-paths in centimeters
//
// # Quick Start
//
// Derive strips and render cut-paths for every group:
//
//	import (
//	    "context"
//	    "github.com/majjacz/Kumiko-Designer-sub000/pkg/design"
//	    "github.com/majjacz/Kumiko-Designer-sub000/pkg/pipeline"
//	)
//
//	d, _ := design.ReadFile("panel.json")
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, _ := runner.Execute(context.Background(), d, pipeline.Options{Pass: "bottom"})
//	for groupID, svg := range result.Artifacts {
//	    os.WriteFile(groupID+".svg", svg, 0o644)
//	}
//
// # Main Packages
//
// [design] - The persistable document model and the derivation core:
// intersection resolution with over/under orientation and overrides, strip
// derivation with endpoint trimming and canonical geometry identities, and
// collinear line normalization.
//
// [geom] - Segment intersection, direction reduction, and collinear overlap
// tests on the integer grid.
//
// [layout] - Pure row packing: pieces advance by strip length plus one kerf,
// with a half-width overhang tolerance at the stock edge.
//
// [export] - SVG rendering. Full-depth cuts in black, half-depth notches in
// gray; shared cut boundaries between adjacent pieces merge into one stroke.
//
// [pipeline] - The cached derive and export stages shared by CLI and API.
//
// [cache] - Content-addressed caching with file, Redis, and null backends.
//
// [store] - Named design persistence with file and MongoDB backends.
//
// [inspect] - DOT generation and Graphviz rendering of the crossing graph.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/design/...    # Specific package
//
// [design]: https://pkg.go.dev/github.com/majjacz/Kumiko-Designer-sub000/pkg/design
// [geom]: https://pkg.go.dev/github.com/majjacz/Kumiko-Designer-sub000/pkg/geom
// [layout]: https://pkg.go.dev/github.com/majjacz/Kumiko-Designer-sub000/pkg/layout
// [export]: https://pkg.go.dev/github.com/majjacz/Kumiko-Designer-sub000/pkg/export
// [pipeline]: https://pkg.go.dev/github.com/majjacz/Kumiko-Designer-sub000/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/majjacz/Kumiko-Designer-sub000/pkg/cache
// [store]: https://pkg.go.dev/github.com/majjacz/Kumiko-Designer-sub000/pkg/store
// [inspect]: https://pkg.go.dev/github.com/majjacz/Kumiko-Designer-sub000/pkg/inspect
package pkg
