package config

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/example/regionshot/internal/geom"
	"github.com/example/regionshot/internal/theme"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var currentSection string
	var currentTheme *theme.Theme

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			currentTheme = nil

			if name, ok := strings.CutPrefix(currentSection, "theme."); ok {
				// Start with defaults so missing keys are fine
				currentTheme = theme.Default()
				currentTheme.Name = name
				cfg.Themes[name] = currentTheme
			}
			continue
		}

		key, value, ok := splitLine(line)
		if !ok {
			continue
		}

		var err error
		switch {
		case currentTheme != nil:
			err = setThemeField(currentTheme, key, value)
		case currentSection == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		case currentSection == "region":
			err = SetRegionField(&cfg.Region, key, value)
		case currentSection == "":
			err = setRootField(cfg, key, value)
		}
		if err != nil {
			if currentSection == "" {
				return nil, fmt.Errorf("error in root section: %w", err)
			}
			return nil, fmt.Errorf("error in section [%s]: %w", currentSection, err)
		}
	}

	return cfg, scanner.Err()
}

// splitLine accepts "key = value" and "key: value". Surrounding quotes
// are removed from the value.
func splitLine(line string) (key, value string, ok bool) {
	sep := "="
	if !strings.Contains(line, "=") {
		sep = ":"
	}
	key, value, ok = strings.Cut(line, sep)
	if !ok {
		return "", "", false
	}
	key, value = strings.TrimSpace(key), strings.TrimSpace(value)
	if len(value) >= 2 && strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
		value = value[1 : len(value)-1]
	}
	return key, value, true
}

func setRootField(cfg *Config, key, value string) error {
	switch strings.ToLower(key) {
	case "theme":
		cfg.Theme = value
	case "save_dir":
		cfg.SaveDir = value
	}
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch strings.ToLower(key) {
	case "capture":
		n.Capture = b
	case "save":
		n.Save = b
	case "copy":
		n.Copy = b
	}
	return nil
}

type regionKey struct {
	name string
	get  func(*Region) string
	set  func(*Region, string) error
}

func boolKey(name string, field func(*Region) *bool) regionKey {
	return regionKey{
		name: name,
		get:  func(r *Region) string { return strconv.FormatBool(*field(r)) },
		set: func(r *Region, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid boolean for key %s: %w", name, err)
			}
			*field(r) = b
			return nil
		},
	}
}

func intKey(name string, field func(*Region) *int) regionKey {
	return regionKey{
		name: name,
		get:  func(r *Region) string { return strconv.Itoa(*field(r)) },
		set: func(r *Region, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid number for key %s: %w", name, err)
			}
			*field(r) = n
			return nil
		},
	}
}

// regionKeys lists the [region] keys in the order String writes them.
var regionKeys = []regionKey{
	boolKey("dimming", func(r *Region) *bool { return &r.Dimming }),
	boolKey("animations", func(r *Region) *bool { return &r.Animations }),
	boolKey("magnifier", func(r *Region) *bool { return &r.Magnifier }),
	intKey("magnifier_pixels", func(r *Region) *int { return &r.MagnifierPixels }),
	intKey("magnifier_pixel_size", func(r *Region) *int { return &r.MagnifierPixel }),
	boolKey("square_magnifier", func(r *Region) *bool { return &r.SquareMagnifier }),
	boolKey("info", func(r *Region) *bool { return &r.Info }),
	boolKey("crosshair", func(r *Region) *bool { return &r.Crosshair }),
	boolKey("fps", func(r *Region) *bool { return &r.FPS }),
	boolKey("detect_windows", func(r *Region) *bool { return &r.DetectWindows }),
	boolKey("editor_tip", func(r *Region) *bool { return &r.EditorTip }),
	boolKey("auto_close_editor", func(r *Region) *bool { return &r.AutoCloseEditor }),
	boolKey("quick_crop", func(r *Region) *bool { return &r.QuickCrop }),
	{
		name: "snap_sizes",
		get:  func(r *Region) string { return FormatSnapSizes(r.SnapSizes) },
		set: func(r *Region, v string) error {
			sizes, err := ParseSnapSizes(v)
			if err != nil {
				return err
			}
			r.SnapSizes = sizes
			return nil
		},
	},
}

// SetRegionField assigns one [region] key. Unknown keys are ignored.
func SetRegionField(r *Region, key, value string) error {
	key = strings.ToLower(key)
	for _, k := range regionKeys {
		if k.name == key {
			return k.set(r, value)
		}
	}
	return nil
}

// ParseSnapSizes reads comma separated WxH pairs.
func ParseSnapSizes(s string) ([]geom.Size, error) {
	var sizes []geom.Size
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		ws, hs, ok := strings.Cut(strings.ToLower(part), "x")
		if !ok {
			return nil, fmt.Errorf("invalid snap size %q", part)
		}
		w, werr := strconv.ParseFloat(strings.TrimSpace(ws), 64)
		h, herr := strconv.ParseFloat(strings.TrimSpace(hs), 64)
		if werr != nil || herr != nil || w <= 0 || h <= 0 {
			return nil, fmt.Errorf("invalid snap size %q", part)
		}
		sizes = append(sizes, geom.Size{W: w, H: h})
	}
	return sizes, nil
}

func setThemeField(t *theme.Theme, key, value string) error {
	if strings.EqualFold(key, "Name") {
		t.Name = value
		return nil
	}
	val := reflect.ValueOf(t).Elem()
	field := val.FieldByNameFunc(func(name string) bool { return strings.EqualFold(name, key) })
	if !field.IsValid() || field.Type() != reflect.TypeOf(color.RGBA{}) {
		return nil // unknown keys are ignored
	}
	col, err := theme.ParseColor(value)
	if err != nil {
		return fmt.Errorf("invalid color for key %s: %w", key, err)
	}
	field.Set(reflect.ValueOf(col))
	return nil
}
