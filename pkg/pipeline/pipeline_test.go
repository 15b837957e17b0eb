package pipeline

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/majjacz/Kumiko-Designer-sub000/pkg/cache"
	"github.com/majjacz/Kumiko-Designer-sub000/pkg/design"
	"github.com/majjacz/Kumiko-Designer-sub000/pkg/errors"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

// testDesign builds a design with one crossing, pieces placed in the default
// group for both derived strips.
func testDesign(t *testing.T) *design.Design {
	t.Helper()

	d := design.New("panel")
	d.Settings = design.Settings{CellMM: 10, ToolMM: 3, StripWidthMM: 20, StockMM: 1000}

	h := design.Line{ID: design.NewID(), X1: 0, Y1: 0, X2: 10, Y2: 0}
	v := design.Line{ID: design.NewID(), X1: 3, Y1: -5, X2: 3, Y2: 5}
	d.Lines[h.ID] = h
	d.Lines[v.ID] = v

	r := NewRunner(nil, nil, testLogger())
	strips, err := r.Derive(context.Background(), d, Options{})
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if len(strips) != 2 {
		t.Fatalf("got %d strips, want 2", len(strips))
	}

	for _, g := range d.Groups {
		for i, s := range strips {
			p := design.Piece{ID: design.NewID(), LineID: s.ID, X: float64(i) * 500, RowIndex: 0}
			g.Pieces[p.ID] = p
		}
	}
	return d
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	d := testDesign(t)

	r := NewRunner(nil, nil, testLogger())
	res, err := r.Execute(ctx, d, Options{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if res.DesignHash == "" {
		t.Error("missing design hash")
	}
	if res.Stats.LineCount != 2 || res.Stats.StripCount != 2 {
		t.Errorf("stats = %d lines, %d strips; want 2, 2", res.Stats.LineCount, res.Stats.StripCount)
	}
	if len(res.Artifacts) != 1 {
		t.Fatalf("got %d artifacts, want 1", len(res.Artifacts))
	}
	for _, svg := range res.Artifacts {
		if !bytes.HasPrefix(svg, []byte("<svg")) {
			t.Error("artifact is not an SVG document")
		}
	}
	if res.CacheInfo.DeriveHit || res.CacheInfo.ExportHit {
		t.Error("null cache should never report hits")
	}
}

func TestExecuteCacheHits(t *testing.T) {
	ctx := context.Background()
	d := testDesign(t)

	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := NewRunner(c, nil, testLogger())
	defer r.Close()

	first, err := r.Execute(ctx, d, Options{})
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.CacheInfo.DeriveHit || first.CacheInfo.ExportHit {
		t.Error("first run should miss")
	}

	second, err := r.Execute(ctx, d, Options{})
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheInfo.DeriveHit || !second.CacheInfo.ExportHit {
		t.Errorf("second run should hit: %+v", second.CacheInfo)
	}
	for id, svg := range first.Artifacts {
		if !bytes.Equal(svg, second.Artifacts[id]) {
			t.Error("cached artifact differs from computed one")
		}
	}

	// Refresh bypasses the cache entirely.
	third, err := r.Execute(ctx, d, Options{Refresh: true})
	if err != nil {
		t.Fatalf("refresh Execute: %v", err)
	}
	if third.CacheInfo.DeriveHit || third.CacheInfo.ExportHit {
		t.Error("refresh run should not report cache hits")
	}
}

func TestExecuteParameterIsolation(t *testing.T) {
	// Different tool widths must not share cached strips.
	ctx := context.Background()
	d := testDesign(t)

	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := NewRunner(c, nil, testLogger())
	defer r.Close()

	if _, err := r.Execute(ctx, d, Options{}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	res, err := r.Execute(ctx, d, Options{ToolMM: 5})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.CacheInfo.DeriveHit {
		t.Error("changed tool width must invalidate the strip cache")
	}
}

func TestExecuteUnknownGroup(t *testing.T) {
	d := testDesign(t)
	r := NewRunner(nil, nil, testLogger())

	_, err := r.Execute(context.Background(), d, Options{Groups: []string{"nope"}})
	if errors.GetCode(err) != errors.ErrCodeGroupNotFound {
		t.Errorf("err = %v, want GROUP_NOT_FOUND", err)
	}
}

func TestOptionsValidation(t *testing.T) {
	d := testDesign(t)
	r := NewRunner(nil, nil, testLogger())
	ctx := context.Background()

	_, err := r.Execute(ctx, d, Options{Pass: "sideways"})
	if errors.GetCode(err) != errors.ErrCodeInvalidPass {
		t.Errorf("bad pass err = %v, want INVALID_PASS", err)
	}

	_, err = r.Execute(ctx, d, Options{ToolMM: -1})
	if errors.GetCode(err) != errors.ErrCodeInvalidParams {
		t.Errorf("bad tool err = %v, want INVALID_PARAMS", err)
	}
}

func TestOptionsPrecedence(t *testing.T) {
	settings := design.Settings{CellMM: 10, ToolMM: 3}

	// Stored settings fill zero-valued options.
	opts := Options{}
	opts.ApplySettings(settings)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if opts.CellMM != 10 || opts.ToolMM != 3 {
		t.Errorf("settings should fill zero options: %+v", opts)
	}
	if opts.StockMM != DefaultStockMM {
		t.Errorf("unset everywhere should use the default, got %v", opts.StockMM)
	}

	// Explicit options win over stored settings.
	opts = Options{CellMM: 12}
	opts.ApplySettings(settings)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if opts.CellMM != 12 {
		t.Errorf("explicit option should win, got %v", opts.CellMM)
	}

	// Empty pass normalizes to all.
	if opts.Pass != "all" {
		t.Errorf("pass = %q, want all", opts.Pass)
	}
}
