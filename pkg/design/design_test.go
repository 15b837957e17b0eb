package design

import (
	"bytes"
	"path/filepath"
	"testing"
)

func TestNewDesignHasDefaultGroup(t *testing.T) {
	d := New("panel")
	if d.Name != "panel" {
		t.Errorf("name = %q, want panel", d.Name)
	}
	if len(d.Groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(d.Groups))
	}
	for _, g := range d.Groups {
		if g.Pieces == nil {
			t.Error("default group has nil pieces map")
		}
	}
}

func TestReadWriteRoundTrip(t *testing.T) {
	d := New("panel")
	d.Settings = Settings{CellMM: 12, ToolMM: 3}
	l := Line{ID: NewID(), X1: 0, Y1: 0, X2: 4, Y2: 0}
	d.Lines[l.ID] = l
	d.SetOverrides(map[string]bool{"int_a_b": true})

	var buf bytes.Buffer
	if err := Write(d, &buf); err != nil {
		t.Fatal(err)
	}

	got, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "panel" || got.Settings.CellMM != 12 {
		t.Errorf("round trip lost metadata: %+v", got)
	}
	if _, ok := got.Lines[l.ID]; !ok {
		t.Error("round trip lost line")
	}
	if !got.OverrideMap()["int_a_b"] {
		t.Error("round trip lost override")
	}
}

func TestReadFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panel.json")
	d := New("panel")
	l := Line{ID: NewID(), X1: 0, Y1: 0, X2: 4, Y2: 0}
	d.Lines[l.ID] = l

	if err := WriteFile(d, path); err != nil {
		t.Fatal(err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Lines) != 1 {
		t.Errorf("got %d lines, want 1", len(got.Lines))
	}
}

func TestReadRejectsInvalidJSON(t *testing.T) {
	if _, err := Read(bytes.NewReader([]byte("{not json"))); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestGroupLookup(t *testing.T) {
	d := New("panel")
	g := Group{ID: "grp_1", Name: "side a", Pieces: map[string]Piece{}}
	d.Groups[g.ID] = g

	if got, ok := d.Group("grp_1"); !ok || got.Name != "side a" {
		t.Error("lookup by id failed")
	}
	if got, ok := d.Group("side a"); !ok || got.ID != "grp_1" {
		t.Error("lookup by name failed")
	}
	if _, ok := d.Group("ghost"); ok {
		t.Error("lookup of unknown group should fail")
	}
}

func TestClearOverrides(t *testing.T) {
	d := New("panel")
	d.SetOverrides(map[string]bool{"int_a_b": true, "int_c_d": false})
	if len(d.Overrides) != 2 {
		t.Fatalf("got %d overrides, want 2", len(d.Overrides))
	}
	d.ClearOverrides()
	if len(d.Overrides) != 0 {
		t.Error("overrides not cleared")
	}
}
