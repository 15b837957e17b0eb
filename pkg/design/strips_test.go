package design

import (
	"math"
	"testing"
)

var testParams = StripParams{CellMM: 10, ToolMM: 3}

func stripFor(t *testing.T, strips []Strip, sourceLineID string) Strip {
	t.Helper()
	for _, s := range strips {
		if s.SourceLineID == sourceLineID {
			return s
		}
	}
	t.Fatalf("no strip derived from line %s", sourceLineID)
	return Strip{}
}

func TestComputeStripsCrossing(t *testing.T) {
	lines := lineSet(
		Line{ID: "h", X1: 0, Y1: 0, X2: 10, Y2: 0},
		Line{ID: "v", X1: 3, Y1: -5, X2: 3, Y2: 5},
	)
	ins := ResolveIntersections(lines, nil)
	strips := ComputeStrips(lines, ins, testParams)

	if len(strips) != 2 {
		t.Fatalf("got %d strips, want 2", len(strips))
	}

	h := stripFor(t, strips, "h")
	if math.Abs(h.LengthMM-100) > 1e-9 {
		t.Errorf("h length = %v, want 100", h.LengthMM)
	}
	if len(h.Notches) != 1 {
		t.Fatalf("h has %d notches, want 1", len(h.Notches))
	}
	if math.Abs(h.Notches[0].DistMM-30) > 1e-9 {
		t.Errorf("h notch at %v, want 30", h.Notches[0].DistMM)
	}
	// The horizontal strip sits on top, so its relief comes from the bottom.
	if h.Notches[0].FromTop {
		t.Error("over-strip notch should be cut from the bottom face")
	}

	v := stripFor(t, strips, "v")
	if len(v.Notches) != 1 {
		t.Fatalf("v has %d notches, want 1", len(v.Notches))
	}
	if !v.Notches[0].FromTop {
		t.Error("under-strip notch should be cut from the top face")
	}
	if v.Notches[0].OtherLineID != "h" {
		t.Errorf("v notch other line = %s, want h", v.Notches[0].OtherLineID)
	}
}

func TestStripIDStableUnderReversal(t *testing.T) {
	vertical := Line{ID: "v", X1: 3, Y1: -5, X2: 3, Y2: 5}

	forward := lineSet(Line{ID: "h", X1: 0, Y1: 0, X2: 10, Y2: 0}, vertical)
	reversed := lineSet(Line{ID: "h", X1: 10, Y1: 0, X2: 0, Y2: 0}, vertical)

	f := stripFor(t, ComputeStrips(forward, ResolveIntersections(forward, nil), testParams), "h")
	r := stripFor(t, ComputeStrips(reversed, ResolveIntersections(reversed, nil), testParams), "h")

	if f.ID != r.ID {
		t.Errorf("reversed line changed strip id: %q vs %q", f.ID, r.ID)
	}
	if f.DisplayCode != r.DisplayCode {
		t.Errorf("reversed line changed display code: %q vs %q", f.DisplayCode, r.DisplayCode)
	}
}

func TestStripIDStableUnderFlip(t *testing.T) {
	top := []Notch{{DistMM: 50, FromTop: true}}
	bottom := []Notch{{DistMM: 50, FromTop: false}}
	if StripID(100, top) != StripID(100, bottom) {
		t.Error("a single mid-notch strip can be turned over; ids must match")
	}

	// Reversal and flip composed.
	a := []Notch{{DistMM: 30, FromTop: true}}
	b := []Notch{{DistMM: 70, FromTop: false}}
	if StripID(100, a) != StripID(100, b) {
		t.Error("reversed-and-flipped notch patterns must share an id")
	}

	// Genuinely different geometry stays distinct.
	c := []Notch{{DistMM: 40, FromTop: true}}
	if StripID(100, a) == StripID(100, c) {
		t.Error("different notch positions must not collide")
	}
}

func TestButtJointTrimsHalfTool(t *testing.T) {
	// b starts on a's interior: a receives the butt (stays whole, no notch),
	// b gives up half the tool width at its start.
	lines := lineSet(
		Line{ID: "a", X1: 0, Y1: 0, X2: 10, Y2: 0},
		Line{ID: "b", X1: 5, Y1: 0, X2: 5, Y2: 8},
	)
	ins := ResolveIntersections(lines, nil)
	strips := ComputeStrips(lines, ins, testParams)

	a := stripFor(t, strips, "a")
	if math.Abs(a.LengthMM-100) > 1e-9 {
		t.Errorf("receiving strip length = %v, want 100", a.LengthMM)
	}
	if len(a.Notches) != 0 {
		t.Errorf("receiving strip has %d notches, want 0", len(a.Notches))
	}

	b := stripFor(t, strips, "b")
	if math.Abs(b.LengthMM-78.5) > 1e-9 {
		t.Errorf("butted strip length = %v, want 78.5", b.LengthMM)
	}
}

func TestButtTrimRebasesNotches(t *testing.T) {
	// b butts into a at its start and crosses h at y=4.
	lines := lineSet(
		Line{ID: "a", X1: 0, Y1: 0, X2: 10, Y2: 0},
		Line{ID: "b", X1: 5, Y1: 0, X2: 5, Y2: 8},
		Line{ID: "h", X1: 0, Y1: 4, X2: 10, Y2: 4},
	)
	ins := ResolveIntersections(lines, nil)
	b := stripFor(t, ComputeStrips(lines, ins, testParams), "b")

	if len(b.Notches) != 1 {
		t.Fatalf("b has %d notches, want 1", len(b.Notches))
	}
	// 40 mm from the original start, rebased past the 1.5 mm trim.
	if math.Abs(b.Notches[0].DistMM-38.5) > 1e-9 {
		t.Errorf("rebased notch at %v, want 38.5", b.Notches[0].DistMM)
	}
}

func TestCornerTouchIsNotButt(t *testing.T) {
	// Both endpoints meet: a corner, neither strip is trimmed.
	lines := lineSet(
		Line{ID: "a", X1: 0, Y1: 0, X2: 10, Y2: 0},
		Line{ID: "b", X1: 10, Y1: 0, X2: 10, Y2: 8},
	)
	ins := ResolveIntersections(lines, nil)
	strips := ComputeStrips(lines, ins, testParams)

	if l := stripFor(t, strips, "a").LengthMM; math.Abs(l-100) > 1e-9 {
		t.Errorf("a length = %v, want 100", l)
	}
	if l := stripFor(t, strips, "b").LengthMM; math.Abs(l-80) > 1e-9 {
		t.Errorf("b length = %v, want 80", l)
	}
}

func TestDegenerateStripsDiscarded(t *testing.T) {
	lines := lineSet(Line{ID: "a", X1: 0, Y1: 0, X2: 1, Y2: 0})
	strips := ComputeStrips(lines, nil, StripParams{CellMM: 0.5, ToolMM: 3})
	if len(strips) != 0 {
		t.Errorf("0.5 mm line produced %d strips, want 0", len(strips))
	}
}

func TestNotchesSortedAscending(t *testing.T) {
	lines := lineSet(
		Line{ID: "h", X1: 0, Y1: 0, X2: 10, Y2: 0},
		Line{ID: "v1", X1: 7, Y1: -5, X2: 7, Y2: 5},
		Line{ID: "v2", X1: 2, Y1: -5, X2: 2, Y2: 5},
	)
	ins := ResolveIntersections(lines, nil)
	h := stripFor(t, ComputeStrips(lines, ins, testParams), "h")

	if len(h.Notches) != 2 {
		t.Fatalf("h has %d notches, want 2", len(h.Notches))
	}
	if h.Notches[0].DistMM > h.Notches[1].DistMM {
		t.Error("notches not sorted by distance")
	}
}

func TestDisplayCodeBase36(t *testing.T) {
	id := StripID(100, []Notch{{DistMM: 25, FromTop: true}})
	code := DisplayCode(id)
	if len(code) != displayCodeLen {
		t.Fatalf("code %q has length %d, want %d", code, len(code), displayCodeLen)
	}
	if code != DisplayCode(id) {
		t.Error("display code not deterministic")
	}
	for _, c := range code {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'z')) {
			t.Errorf("code %q contains character outside the base-36 alphabet", code)
		}
	}
}

func TestConfigKeyMirroredStrips(t *testing.T) {
	a := Strip{LengthMM: 100, Notches: []Notch{{DistMM: 30, FromTop: true}}}
	b := Strip{LengthMM: 100, Notches: []Notch{{DistMM: 70, FromTop: false}}}
	if ConfigKey(a) != ConfigKey(b) {
		t.Error("mirrored strips should share a config key")
	}

	c := Strip{LengthMM: 100, Notches: []Notch{{DistMM: 40, FromTop: true}}}
	if ConfigKey(a) == ConfigKey(c) {
		t.Error("different spacing must not share a config key")
	}
}

func TestStripsByIDFirstWins(t *testing.T) {
	strips := []Strip{
		{Line: Line{ID: "s1"}, SourceLineID: "a"},
		{Line: Line{ID: "s1"}, SourceLineID: "b"},
		{Line: Line{ID: "s2"}, SourceLineID: "c"},
	}
	m := StripsByID(strips)
	if len(m) != 2 {
		t.Fatalf("got %d entries, want 2", len(m))
	}
	if m["s1"].SourceLineID != "a" {
		t.Errorf("first strip should win, got source %s", m["s1"].SourceLineID)
	}
}
