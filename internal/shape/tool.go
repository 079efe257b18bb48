package shape

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/example/regionshot/internal/geom"
)

// ToolShape changes the exported image instead of drawing on it.
type ToolShape interface {
	Shape
	// Apply transforms img. origin is where img pixel (0,0) sits in shape
	// coordinates; the returned point is the origin of the result.
	Apply(img *image.RGBA, origin geom.Point) (*image.RGBA, geom.Point)
}

// CropTool trims the exported image to its rectangle.
type CropTool struct{ base }

func NewCropTool(st Style) *CropTool {
	return &CropTool{newBase(ToolCrop, st)}
}

// Draw outlines the crop area while editing.
func (c *CropTool) Draw(s *Surface) error {
	r := s.Rect(c.rect)
	if err := drawRect(s.DC, r, color.RGBA{0, 0, 0, 255}, 1, Solid, transparent); err != nil {
		return err
	}
	return drawRect(s.DC, r, color.RGBA{255, 255, 255, 255}, 1, Dash, transparent)
}

func (c *CropTool) Apply(img *image.RGBA, origin geom.Point) (*image.RGBA, geom.Point) {
	r := c.rect.Move(-origin.X, -origin.Y).Image().Intersect(img.Bounds())
	if r.Empty() {
		return img, origin
	}
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(out, out.Bounds(), img, r.Min, draw.Src)
	return out, origin.Add(pointOf(r.Min.Sub(img.Bounds().Min)))
}

func pointOf(p image.Point) geom.Point { return geom.FromImagePoint(p) }
