package theme

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseOverridesFields(t *testing.T) {
	in := `Name: Test
# comment
Border: #102030
Dim: #00000080
Unknown: #ffffff
`
	th, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if th.Name != "Test" {
		t.Errorf("Name = %q", th.Name)
	}
	if th.Border != (color.RGBA{0x10, 0x20, 0x30, 255}) {
		t.Errorf("Border = %v", th.Border)
	}
	if th.Dim != (color.RGBA{0, 0, 0, 0x80}) {
		t.Errorf("Dim = %v", th.Dim)
	}
	if th.TextBackground != Default().TextBackground {
		t.Errorf("unset fields should keep defaults, got %v", th.TextBackground)
	}
}

func TestParseRejectsBadColor(t *testing.T) {
	if _, err := Parse(strings.NewReader("Border: 102030\n")); err == nil {
		t.Fatal("expected error for colour without #")
	}
	if _, err := Parse(strings.NewReader("Border: #12345\n")); err == nil {
		t.Fatal("expected error for short colour")
	}
}

func TestFormatColorRoundTrip(t *testing.T) {
	for _, c := range []color.RGBA{{1, 2, 3, 255}, {200, 100, 50, 30}} {
		got, err := ParseColor(FormatColor(c))
		if err != nil {
			t.Fatalf("ParseColor(%s): %v", FormatColor(c), err)
		}
		if got != c {
			t.Errorf("round trip %v -> %v", c, got)
		}
	}
}

func TestLoaderOrder(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "mine.theme"), []byte("Name: Mine\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l := &Loader{ConfigDir: dir}

	th, err := l.Load("mine")
	if err != nil || th.Name != "Mine" {
		t.Fatalf("Load(mine) = %v, %v", th, err)
	}
	th, err = l.Load("dark")
	if err != nil || th.Name != "Dark" {
		t.Fatalf("Load(dark) = %v, %v", th, err)
	}
	th, err = l.Load("")
	if err != nil || th.Name != "Default" {
		t.Fatalf("Load(\"\") = %v, %v", th, err)
	}
	if _, err := l.Load("missing"); err == nil {
		t.Fatal("expected error for missing theme")
	}
}
