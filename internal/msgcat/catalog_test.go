package msgcat

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEmbeddedDefaults(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := c.Render("feedback.unallowed", map[string]any{"At": "(3,2)"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "✗ nothing to do on (3,2)" {
		t.Fatalf("got %q", got)
	}
	got, err = c.Render("move.committed", map[string]any{"Name": "DIOGO", "Move": "9-13", "Promoted": true})
	if err != nil || got != "DIOGO: 9-13 (queen)" {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestMissingDataFallsBack(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.Render("game.over", map[string]any{"Winner": "PEDRO"}); err == nil {
		t.Fatalf("expected missingkey error")
	}
	if got := c.Text("nope.nothing", nil, "fallback"); got != "fallback" {
		t.Fatalf("got %q", got)
	}
	var nilCat *Catalog
	if got := nilCat.Text("game.over", nil, "fb"); got != "fb" {
		t.Fatalf("nil catalog got %q", got)
	}
}

func TestOverrideDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("feedback:\n  unallowed: \"no: {{.At}}\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := c.Text("feedback.unallowed", map[string]any{"At": "(0,1)"}, ""); got != "no: (0,1)" {
		t.Fatalf("override not applied: %q", got)
	}

	if err := os.WriteFile(filepath.Join(dir, "b.yml"), []byte("feedback:\n  unallowed: twice\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := New(dir); err == nil {
		t.Fatalf("expected duplicate key error")
	}
}
