package config

import (
	"fmt"
	"image/color"
	"reflect"
	"sort"
	"strings"

	"github.com/example/regionshot/internal/geom"
	"github.com/example/regionshot/internal/theme"
)

// Notify holds notification settings.
type Notify struct {
	Capture bool
	Save    bool
	Copy    bool
}

// Region holds the capture overlay settings of the [region] section.
type Region struct {
	Dimming         bool
	Animations      bool
	Magnifier       bool
	MagnifierPixels int
	MagnifierPixel  int
	SquareMagnifier bool
	Info            bool
	Crosshair       bool
	FPS             bool
	DetectWindows   bool
	EditorTip       bool
	AutoCloseEditor bool
	QuickCrop       bool
	SnapSizes       []geom.Size
}

// Config holds the application configuration.
type Config struct {
	Theme   string
	SaveDir string
	Notify  Notify
	Region  Region
	Themes  map[string]*theme.Theme
}

// DefaultRegion mirrors the overlay defaults.
func DefaultRegion() Region {
	return Region{
		Dimming:         true,
		Animations:      true,
		Magnifier:       true,
		MagnifierPixels: 15,
		MagnifierPixel:  10,
		Info:            true,
		DetectWindows:   true,
		EditorTip:       true,
		QuickCrop:       true,
		SnapSizes:       append([]geom.Size(nil), geom.DefaultSnapSizes...),
	}
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Region: DefaultRegion(),
		Themes: make(map[string]*theme.Theme),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "capture = %v\n", c.Notify.Capture)
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	sb.WriteString("[region]\n")
	for _, k := range regionKeys {
		fmt.Fprintf(&sb, "%s = %s\n", k.name, k.get(&c.Region))
	}
	sb.WriteString("\n")

	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		v := reflect.ValueOf(t).Elem()
		for i := 0; i < v.NumField(); i++ {
			if v.Field(i).Type() != reflect.TypeOf(color.RGBA{}) {
				continue
			}
			fmt.Fprintf(&sb, "%s: %s\n", v.Type().Field(i).Name, theme.FormatColor(v.Field(i).Interface().(color.RGBA)))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// FormatSnapSizes renders sizes as comma separated WxH pairs.
func FormatSnapSizes(sizes []geom.Size) string {
	parts := make([]string, 0, len(sizes))
	for _, s := range sizes {
		parts = append(parts, fmt.Sprintf("%gx%g", s.W, s.H))
	}
	return strings.Join(parts, ",")
}

// String renders the [region] keys on one line.
func (r Region) String() string {
	parts := make([]string, 0, len(regionKeys))
	for _, k := range regionKeys {
		parts = append(parts, k.name+"="+k.get(&r))
	}
	return strings.Join(parts, " ")
}
