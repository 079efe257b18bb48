package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/anthonynsimon/bild/blur"
)

// ShadowOptions configures the drop shadow effect applied to an exported
// capture.
type ShadowOptions struct {
	Radius  int
	Offset  image.Point
	Opacity float64
}

// ShadowResult captures the output of ApplyShadow.
type ShadowResult struct {
	// Image is the composited image that includes the blurred shadow.
	Image *image.RGBA
	// Offset reports where the original top-left corner ended up inside the
	// expanded image.
	Offset image.Point
}

// DefaultShadowOptions returns a drop shadow that suits most captures.
func DefaultShadowOptions() ShadowOptions {
	return ShadowOptions{
		Radius:  24,
		Offset:  image.Pt(16, 16),
		Opacity: 0.55,
	}
}

// ApplyShadow composites img over a blurred silhouette of itself. The result
// is zero based and large enough to hold both the image and the shadow.
func ApplyShadow(img *image.RGBA, opts ShadowOptions) ShadowResult {
	if img == nil {
		return ShadowResult{}
	}
	if img.Bounds().Empty() || opts.Opacity <= 0 {
		return ShadowResult{Image: img}
	}
	opacity := min(opts.Opacity, 1)
	radius := max(opts.Radius, 0)

	srcBounds := img.Bounds()
	padded := srcBounds.Inset(-radius)
	shadowBounds := padded.Add(opts.Offset)
	composite := srcBounds.Union(shadowBounds)

	silhouette := image.NewRGBA(padded.Sub(padded.Min))
	for y := srcBounds.Min.Y; y < srcBounds.Max.Y; y++ {
		for x := srcBounds.Min.X; x < srcBounds.Max.X; x++ {
			a := img.RGBAAt(x, y).A
			if a == 0 {
				continue
			}
			silhouette.SetRGBA(x-padded.Min.X, y-padded.Min.Y, color.RGBA{A: uint8(float64(a)*opacity + 0.5)})
		}
	}
	blurred := silhouette
	if radius > 0 {
		blurred = blur.Box(silhouette, float64(radius))
	}

	dst := image.NewRGBA(composite.Sub(composite.Min))
	draw.Draw(dst, blurred.Bounds().Add(shadowBounds.Min.Sub(composite.Min)), blurred, image.Point{}, draw.Over)
	draw.Draw(dst, srcBounds.Sub(composite.Min), img, srcBounds.Min, draw.Over)

	return ShadowResult{Image: dst, Offset: srcBounds.Min.Sub(composite.Min)}
}
