package overlay

import (
	"fmt"
	"image"

	"github.com/example/regionshot/internal/geom"
	"github.com/example/regionshot/internal/result"
	"github.com/example/regionshot/internal/shape"
)

// Mode selects how the overlay behaves.
type Mode int

const (
	ModeRegion Mode = iota
	ModeRuler
	ModeOneClick
	ModeEditor
)

var overlayModeNames = []string{"region", "ruler", "oneclick", "editor"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(overlayModeNames) {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return overlayModeNames[m]
}

// ParseMode maps a name produced by String back to its Mode.
func ParseMode(s string) (Mode, error) {
	for i, n := range overlayModeNames {
		if n == s {
			return Mode(i), nil
		}
	}
	return ModeRegion, fmt.Errorf("unknown overlay mode %q", s)
}

// Options configures an Overlay.
type Options struct {
	Mode    Mode
	Program string

	UseDimming          bool
	EnableAnimations    bool
	ShowMagnifier       bool
	UseSquareMagnifier  bool
	MagnifierPixelCount int
	MagnifierPixelSize  int
	ShowInfo            bool
	ShowCrosshair       bool
	ShowFPS             bool
	DetectWindows       bool
	ShowEditorTip       bool
	AutoCloseEditor     bool
	// QuickCrop completes a region capture as soon as one region is drawn.
	QuickCrop           bool
	SnapSizes           []geom.Size
	Styles              map[shape.Type]shape.Style

	// File is the path of the image being edited, shown in the title.
	File string
}

// DefaultOptions returns the settings used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Mode:                ModeRegion,
		Program:             "regionshot",
		UseDimming:          true,
		EnableAnimations:    true,
		ShowMagnifier:       true,
		MagnifierPixelCount: 15,
		MagnifierPixelSize:  10,
		ShowInfo:            true,
		DetectWindows:       true,
		ShowEditorTip:       true,
		QuickCrop:           true,
	}
}

func (o Options) isEditor() bool { return o.Mode == ModeEditor }

// Callbacks receive completion events. Nil callbacks are skipped.
type Callbacks struct {
	// Save and SaveAs store img and return the path written, or "" when
	// nothing was saved. path is the current file.
	Save   func(img *image.RGBA, path string) string
	SaveAs func(img *image.RGBA, path string) string
	Copy   func(img *image.RGBA)
	Upload func(img *image.RGBA)
	Print  func(img *image.RGBA)
	// CopyText places the area or info text on the clipboard.
	CopyText func(text string)
	// ConfirmClose asks whether unsaved edits may be discarded.
	ConfirmClose func() bool
	// Closed fires once when the overlay completes.
	Closed func(mode result.Mode)
	// Title fires when the window title changes.
	Title func(title string)
}
