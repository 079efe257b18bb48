package shape

import (
	"image"
	"image/color"

	"github.com/gogpu/gg"

	"github.com/example/regionshot/internal/geom"
)

// Surface is the render target a shape draws onto.
type Surface struct {
	DC *gg.Context
	// Canvas is the captured image effects sample from.
	Canvas image.Image
	// Offset is added to shape coordinates to reach DC coordinates.
	Offset geom.Point
	// CanvasOrigin is where canvas pixel (0,0) sits in shape coordinates.
	CanvasOrigin geom.Point
}

// Point maps a shape coordinate onto the DC.
func (s *Surface) Point(p geom.Point) geom.Point { return p.Add(s.Offset) }

// Rect maps a shape rectangle onto the DC.
func (s *Surface) Rect(r geom.Rect) geom.Rect { return r.Move(s.Offset.X, s.Offset.Y) }

// CanvasRect maps a shape rectangle into canvas pixels, clipped to the
// canvas bounds.
func (s *Surface) CanvasRect(r geom.Rect) image.Rectangle {
	if s.Canvas == nil {
		return image.Rectangle{}
	}
	cr := r.Move(-s.CanvasOrigin.X, -s.CanvasOrigin.Y).Image()
	return cr.Intersect(s.Canvas.Bounds())
}

var transparent = color.RGBA{}

// setPen configures the stroke of dc. Dash lengths scale with the width.
func setPen(dc *gg.Context, c color.Color, width float64, style BorderStyle) {
	dc.SetColor(c)
	dc.SetLineWidth(width)
	w := max(width, 1)
	switch style {
	case Dash:
		dc.SetDash(3*w, w)
	case Dot:
		dc.SetDash(w, w)
	case DashDot:
		dc.SetDash(3*w, w, w, w)
	default:
		dc.ClearDash()
	}
}

// drawRect fills and strokes r the way GDI draws a rectangle with a centred
// pen: the border is inset by half its width so it stays inside r.
func drawRect(dc *gg.Context, r geom.Rect, border color.Color, size float64, style BorderStyle, fill color.RGBA) error {
	if fill.A > 0 {
		dc.SetColor(fill)
		dc.DrawRectangle(r.X, r.Y, r.W, r.H)
		if err := dc.Fill(); err != nil {
			return err
		}
	}
	if _, _, _, a := border.RGBA(); size > 0 && a > 0 {
		in := r.Offset(-size / 2)
		setPen(dc, border, size, style)
		dc.DrawRectangle(in.X, in.Y, in.W, in.H)
		if err := dc.Stroke(); err != nil {
			return err
		}
		dc.ClearDash()
	}
	return nil
}

func drawEllipse(dc *gg.Context, r geom.Rect, border color.Color, size float64, style BorderStyle, fill color.RGBA) error {
	c := r.Center()
	if fill.A > 0 {
		dc.SetColor(fill)
		dc.DrawEllipse(c.X, c.Y, r.W/2, r.H/2)
		if err := dc.Fill(); err != nil {
			return err
		}
	}
	if _, _, _, a := border.RGBA(); size > 0 && a > 0 {
		setPen(dc, border, size, style)
		dc.DrawEllipse(c.X, c.Y, max(r.W/2-size/2, 0), max(r.H/2-size/2, 0))
		if err := dc.Stroke(); err != nil {
			return err
		}
		dc.ClearDash()
	}
	return nil
}

func strokePolyline(dc *gg.Context, pts []geom.Point, c color.Color, size float64, style BorderStyle) error {
	if len(pts) < 2 {
		return nil
	}
	setPen(dc, c, size, style)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		dc.LineTo(p.X, p.Y)
	}
	err := dc.Stroke()
	dc.ClearDash()
	dc.SetLineCap(gg.LineCapButt)
	dc.SetLineJoin(gg.LineJoinMiter)
	return err
}
