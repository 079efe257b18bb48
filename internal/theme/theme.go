package theme

import (
	"image/color"
)

// Theme defines the colors of the capture overlay and the editor canvas.
type Theme struct {
	Name string

	// Selection
	Border    color.RGBA // solid outline under the marching ants
	BorderDot color.RGBA // dashes of the marching ants
	Marker    color.RGBA // snap preview outlines
	Dim       color.RGBA // veil over the unselected screen

	// Info text boxes
	Text            color.RGBA
	TextShadow      color.RGBA
	TextBackground  color.RGBA
	TextOuterBorder color.RGBA
	TextInnerBorder color.RGBA

	// Magnifier
	MagnifierBand color.RGBA
	MagnifierGrid color.RGBA

	// Editor canvas
	CanvasBackground color.RGBA
	CanvasBorder     color.RGBA
	CheckerLight     color.RGBA
	CheckerDark      color.RGBA
}

// Default returns the hardcoded default theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:             "Default",
		Border:           color.RGBA{0, 0, 0, 255},
		BorderDot:        color.RGBA{255, 255, 255, 255},
		Marker:           color.RGBA{255, 0, 0, 200},
		Dim:              color.RGBA{0, 0, 0, 30},
		Text:             color.RGBA{255, 255, 255, 255},
		TextShadow:       color.RGBA{0, 0, 0, 255},
		TextBackground:   color.RGBA{42, 131, 199, 200},
		TextOuterBorder:  color.RGBA{255, 255, 255, 200},
		TextInnerBorder:  color.RGBA{0, 81, 145, 200},
		MagnifierBand:    color.RGBA{173, 216, 230, 125},
		MagnifierGrid:    color.RGBA{0, 0, 0, 75},
		CanvasBackground: color.RGBA{200, 200, 200, 255},
		CanvasBorder:     color.RGBA{176, 176, 176, 255},
		CheckerLight:     color.RGBA{220, 220, 220, 255},
		CheckerDark:      color.RGBA{192, 192, 192, 255},
	}
}
