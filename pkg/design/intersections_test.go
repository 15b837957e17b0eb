package design

import "testing"

func TestResolveIntersectionsBasic(t *testing.T) {
	lines := lineSet(
		Line{ID: "h", X1: 0, Y1: 5, X2: 10, Y2: 5},
		Line{ID: "v", X1: 5, Y1: 0, X2: 5, Y2: 10},
	)

	got := ResolveIntersections(lines, nil)
	if len(got) != 1 {
		t.Fatalf("got %d intersections, want 1", len(got))
	}

	in := got[0]
	if in.X != 5 || in.Y != 5 {
		t.Errorf("intersection at (%d, %d), want (5, 5)", in.X, in.Y)
	}
	if in.ID != "int_h_v" {
		t.Errorf("id = %q, want int_h_v", in.ID)
	}
	if !in.Line1Over {
		t.Error("horizontal line should default on top")
	}
}

func TestResolveIntersectionsOrientationDefaults(t *testing.T) {
	tests := []struct {
		name     string
		l1, l2   Line
		wantOver bool
	}{
		{
			name:     "horizontal first over vertical",
			l1:       Line{ID: "a", X1: 0, Y1: 5, X2: 10, Y2: 5},
			l2:       Line{ID: "b", X1: 5, Y1: 0, X2: 5, Y2: 10},
			wantOver: true,
		},
		{
			name:     "vertical first yields other line over",
			l1:       Line{ID: "a", X1: 5, Y1: 0, X2: 5, Y2: 10},
			l2:       Line{ID: "b", X1: 0, Y1: 5, X2: 10, Y2: 5},
			wantOver: false,
		},
		{
			name:     "two diagonals default first over",
			l1:       Line{ID: "a", X1: 0, Y1: 0, X2: 10, Y2: 10},
			l2:       Line{ID: "b", X1: 0, Y1: 10, X2: 10, Y2: 0},
			wantOver: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveIntersections(lineSet(tt.l1, tt.l2), nil)
			if len(got) != 1 {
				t.Fatalf("got %d intersections, want 1", len(got))
			}
			if got[0].Line1Over != tt.wantOver {
				t.Errorf("Line1Over = %v, want %v", got[0].Line1Over, tt.wantOver)
			}
		})
	}
}

func TestResolveIntersectionsOverride(t *testing.T) {
	lines := lineSet(
		Line{ID: "h", X1: 0, Y1: 5, X2: 10, Y2: 5},
		Line{ID: "v", X1: 5, Y1: 0, X2: 5, Y2: 10},
	)

	got := ResolveIntersections(lines, map[string]bool{"int_h_v": false})
	if got[0].Line1Over {
		t.Error("override should win over the heuristic default")
	}
}

func TestResolveIntersectionsOnePerCoordinate(t *testing.T) {
	// Three lines through (5, 5): three pairs, one coordinate.
	lines := lineSet(
		Line{ID: "a", X1: 0, Y1: 5, X2: 10, Y2: 5},
		Line{ID: "b", X1: 5, Y1: 0, X2: 5, Y2: 10},
		Line{ID: "c", X1: 0, Y1: 0, X2: 10, Y2: 10},
	)

	got := ResolveIntersections(lines, nil)
	if len(got) != 1 {
		t.Fatalf("got %d intersections, want 1", len(got))
	}
	// Lowest composite id wins the tie-break.
	if got[0].Line1ID != "a" || got[0].Line2ID != "b" {
		t.Errorf("surviving pair = (%s, %s), want (a, b)", got[0].Line1ID, got[0].Line2ID)
	}
}

func TestResolveIntersectionsCountBound(t *testing.T) {
	// A 3x3 grid: 9 distinct crossing coordinates.
	lines := map[string]Line{}
	for i := 0; i < 3; i++ {
		h := Line{ID: NewID(), X1: 0, Y1: i * 2, X2: 10, Y2: i * 2}
		v := Line{ID: NewID(), X1: i * 2, Y1: -1, X2: i * 2, Y2: 9}
		lines[h.ID] = h
		lines[v.ID] = v
	}

	got := ResolveIntersections(lines, nil)
	if len(got) != 9 {
		t.Errorf("got %d intersections, want 9", len(got))
	}

	seen := map[[2]int]bool{}
	for _, in := range got {
		key := [2]int{in.X, in.Y}
		if seen[key] {
			t.Errorf("duplicate intersection at %v", key)
		}
		seen[key] = true
	}
}

func TestResolveIntersectionsDeterministic(t *testing.T) {
	lines := lineSet(
		Line{ID: "a", X1: 0, Y1: 0, X2: 10, Y2: 0},
		Line{ID: "b", X1: 2, Y1: -3, X2: 2, Y2: 3},
		Line{ID: "c", X1: 7, Y1: -3, X2: 7, Y2: 3},
	)

	first := ResolveIntersections(lines, nil)
	for i := 0; i < 10; i++ {
		again := ResolveIntersections(lines, nil)
		if len(again) != len(first) {
			t.Fatal("intersection count not stable")
		}
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("run %d differs at %d: %+v vs %+v", i, j, again[j], first[j])
			}
		}
	}
}
