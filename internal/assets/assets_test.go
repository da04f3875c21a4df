package assets

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	m := Default()
	for _, id := range []ID{Hostile, Bonus, Friendly} {
		a := m.Lookup(id)
		if a.Glyph == "" {
			t.Errorf("asset %q has empty glyph", id)
		}
		if len(a.Color) != 7 {
			t.Errorf("asset %q color = %q, want #rrggbb", id, a.Color)
		}
	}
}

func TestParse_MissingAsset(t *testing.T) {
	_, err := Parse([]byte("hostile:\n  glyph: X\nbonus:\n  glyph: B\n"))
	if err == nil {
		t.Fatal("Parse() should fail when friendly is missing")
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("hostile: [")); err == nil {
		t.Fatal("Parse() should fail on malformed YAML")
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assets.yaml")
	data := "hostile:\n  glyph: H\nbonus:\n  glyph: B\nfriendly:\n  glyph: F\n  color: \"#00ff00\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got := m.Lookup(Friendly).Color; got != "#00ff00" {
		t.Errorf("friendly color = %q, want %q", got, "#00ff00")
	}
}

func TestLoad_EmptyPathUsesDefault(t *testing.T) {
	m, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if m.Lookup(Bonus).Name != "Bonus" {
		t.Errorf("bonus name = %q, want %q", m.Lookup(Bonus).Name, "Bonus")
	}
}

func TestLookup_Unknown(t *testing.T) {
	a := Default().Lookup(ID("nope"))
	if a.Glyph != "?" {
		t.Errorf("unknown glyph = %q, want %q", a.Glyph, "?")
	}
}
