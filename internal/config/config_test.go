package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/regionshot/internal/geom"
)

func TestParse(t *testing.T) {
	input := `
theme = my_custom_theme
save_dir = /tmp/screens

[notify]
capture = true
save = false
copy = true

[region]
dimming = false
magnifier_pixels = 21
snap_sizes = 640x480, 800x600

[theme.my_custom_theme]
Border = #111111
text: #FFFFFF80
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Theme != "my_custom_theme" {
		t.Errorf("Expected theme 'my_custom_theme', got '%s'", cfg.Theme)
	}
	if cfg.SaveDir != "/tmp/screens" {
		t.Errorf("Expected save_dir '/tmp/screens', got '%s'", cfg.SaveDir)
	}
	if !cfg.Notify.Capture || cfg.Notify.Save || !cfg.Notify.Copy {
		t.Errorf("Unexpected notify section: %+v", cfg.Notify)
	}

	if cfg.Region.Dimming {
		t.Error("Expected region.dimming to be false")
	}
	if !cfg.Region.Animations {
		t.Error("Expected region.animations to keep its default")
	}
	if cfg.Region.MagnifierPixels != 21 {
		t.Errorf("Expected magnifier_pixels 21, got %d", cfg.Region.MagnifierPixels)
	}
	want := []geom.Size{{W: 640, H: 480}, {W: 800, H: 600}}
	if len(cfg.Region.SnapSizes) != 2 || cfg.Region.SnapSizes[0] != want[0] || cfg.Region.SnapSizes[1] != want[1] {
		t.Errorf("Unexpected snap sizes %v", cfg.Region.SnapSizes)
	}

	th, ok := cfg.Themes["my_custom_theme"]
	if !ok {
		t.Fatal("Expected theme 'my_custom_theme' to be loaded")
	}
	if th.Border.R != 0x11 || th.Border.G != 0x11 || th.Border.B != 0x11 {
		t.Errorf("Unexpected Border color: %+v", th.Border)
	}
	if th.Text.A != 0x80 {
		t.Errorf("Expected case-insensitive text key with alpha, got %+v", th.Text)
	}
}

func TestParseRejectsBadValues(t *testing.T) {
	for _, input := range []string{
		"[notify]\ncapture = maybe\n",
		"[region]\nmagnifier_pixels = many\n",
		"[region]\nsnap_sizes = 640by480\n",
		"[theme.x]\nBorder = red\n",
	} {
		if _, err := Parse(strings.NewReader(input)); err == nil {
			t.Errorf("Parse(%q) succeeded", input)
		}
	}
}

func TestCircular(t *testing.T) {
	input := `theme = dark
save_dir = /home/user/shots

[notify]
capture = true
save = true
copy = false

[region]
crosshair = true
square_magnifier = true
snap_sizes = 1280x720

[theme.custom]
Name = custom
Dim = #00000040
Border = #FFFFFF
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	generated := cfg.String()

	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Circular parse failed: %v\n%s", err, generated)
	}

	if cfg.Theme != cfg2.Theme {
		t.Errorf("Theme mismatch: %q vs %q", cfg.Theme, cfg2.Theme)
	}
	if cfg.SaveDir != cfg2.SaveDir {
		t.Errorf("SaveDir mismatch: %q vs %q", cfg.SaveDir, cfg2.SaveDir)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}
	if cfg.Region.String() != cfg2.Region.String() {
		t.Errorf("Region mismatch: %+v vs %+v", cfg.Region, cfg2.Region)
	}

	t1 := cfg.Themes["custom"]
	t2 := cfg2.Themes["custom"]
	if t1 == nil || t2 == nil {
		t.Fatalf("Custom theme missing in one config")
	}
	if *t1 != *t2 {
		t.Errorf("Theme mismatch: %+v vs %+v", t1, t2)
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := New()
	env := map[string]string{
		"REGIONSHOT_DIMMING":    "false",
		"REGIONSHOT_FPS":        "1",
		"REGIONSHOT_SNAP_SIZES": "100x50",
		"REGIONSHOT_THEME":      "dark",
	}
	if err := cfg.ApplyEnv(mapLookup(env)); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Region.Dimming || !cfg.Region.FPS || cfg.Theme != "dark" {
		t.Errorf("overrides not applied: %+v theme=%q", cfg.Region, cfg.Theme)
	}
	if len(cfg.Region.SnapSizes) != 1 || cfg.Region.SnapSizes[0] != (geom.Size{W: 100, H: 50}) {
		t.Errorf("Unexpected snap sizes %v", cfg.Region.SnapSizes)
	}

	err := New().ApplyEnv(mapLookup(map[string]string{"REGIONSHOT_INFO": "sometimes"}))
	if err == nil || !strings.Contains(err.Error(), "REGIONSHOT_INFO") {
		t.Errorf("expected error naming the variable, got %v", err)
	}
}

func TestLoaderOverridePathAndDotenv(t *testing.T) {
	dir := t.TempDir()
	rc := filepath.Join(dir, "custom.rc")
	if err := os.WriteFile(rc, []byte("[region]\nmagnifier = false\ninfo = false\n"), 0o644); err != nil {
		t.Fatalf("write rc: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("REGIONSHOT_INFO=true\nREGIONSHOT_FPS=true\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	l := NewLoader("v1.0.0", rc)
	l.LookupEnv = mapLookup(map[string]string{"REGIONSHOT_FPS": "false"})
	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Region.Magnifier {
		t.Error("Expected magnifier from the rc file to be false")
	}
	if !cfg.Region.Info {
		t.Error("Expected .env to override info")
	}
	if cfg.Region.FPS {
		t.Error("Expected the process environment to win over .env")
	}
}
