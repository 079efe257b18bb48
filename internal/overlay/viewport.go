package overlay

import (
	"math"

	"github.com/example/regionshot/internal/geom"
)

// panLimitRatio is how far past the client edge the canvas may be dragged,
// as a fraction of the client size.
const panLimitRatio = 0.25

// Viewport places the canvas inside the client area and owns panning.
type Viewport struct {
	Client geom.Rect
	Canvas geom.Rect
	// Stretch accumulates pointer movement the clamp refused, so the canvas
	// resists before it follows the pointer back.
	Stretch geom.Point
	// CenterOffset is the canvas centre relative to the client centre. It
	// keeps the canvas anchored when the client area is resized.
	CenterOffset geom.Point
}

// NewViewport returns a viewport with the canvas at the client origin.
func NewViewport(client geom.Rect, canvas geom.Size) *Viewport {
	return &Viewport{
		Client: client,
		Canvas: geom.R(client.X, client.Y, canvas.W, canvas.H),
	}
}

// CoversClient reports whether the canvas fills the whole client area.
func (v *Viewport) CoversClient() bool {
	return v.Canvas.ContainsRect(v.Client)
}

// PanLimit is the rectangle the canvas must keep overlapping.
func (v *Viewport) PanLimit() geom.Rect {
	lw := math.Min(math.Round(v.Client.W*panLimitRatio), v.Canvas.W)
	lh := math.Min(math.Round(v.Client.H*panLimitRatio), v.Canvas.H)
	return geom.R(v.Client.X+lw, v.Client.Y+lh, v.Client.W-2*lw, v.Client.H-2*lh)
}

// Pan moves the canvas by d, clamped so it never leaves the pan limit. With
// stretch, movement refused by the clamp is remembered and must be undone
// before the canvas moves back. Pan returns the delta actually applied.
func (v *Viewport) Pan(d geom.Point, stretch bool) geom.Point {
	dx, dy := math.Round(d.X), math.Round(d.Y)
	if stretch {
		v.Stretch.X -= dx
		v.Stretch.Y -= dy
	}

	limit := v.PanLimit()
	dx = geom.Clamp(dx, limit.Left()-v.Canvas.Right(), limit.Right()-v.Canvas.Left())
	dy = geom.Clamp(dy, limit.Top()-v.Canvas.Bottom(), limit.Bottom()-v.Canvas.Top())

	if stretch {
		dx = absorb(dx, v.Stretch.X)
		dy = absorb(dy, v.Stretch.Y)
		v.Stretch.X += dx
		v.Stretch.Y += dy
	}

	v.Canvas = v.Canvas.Move(dx, dy)
	return geom.Pt(dx, dy)
}

// absorb removes the part of delta that only unwinds the stretch.
func absorb(delta, stretch float64) float64 {
	delta -= math.Min(math.Max(delta, 0), math.Max(0, stretch))
	delta -= math.Max(math.Min(delta, 0), math.Min(0, stretch))
	return delta
}

// UpdateCenterOffset records where the canvas sits relative to the client
// centre after a manual pan.
func (v *Viewport) UpdateCenterOffset() {
	c := v.Canvas.Center()
	v.CenterOffset = geom.Pt(c.X-v.Client.W/2, c.Y-v.Client.H/2)
}

// AutoPan moves the canvas so its centre lands at the client centre plus
// CenterOffset. It bypasses the stretch.
func (v *Viewport) AutoPan() geom.Point {
	x := math.Round(v.Client.W/2+v.CenterOffset.X) - math.Trunc(v.Canvas.W/2)
	y := math.Round(v.Client.H/2+v.CenterOffset.Y) - math.Trunc(v.Canvas.H/2)
	return v.Pan(geom.Pt(x-v.Canvas.X, y-v.Canvas.Y), false)
}

// Center puts the canvas in the middle of the client area.
func (v *Viewport) Center() geom.Point {
	v.CenterOffset = geom.Point{}
	return v.AutoPan()
}

// Resize changes the client area and keeps the canvas anchored.
func (v *Viewport) Resize(client geom.Rect, keepCentered bool) geom.Point {
	v.Client = client
	if !keepCentered {
		return geom.Point{}
	}
	return v.AutoPan()
}

// Space returns the coordinate frames for a client area whose origin is at
// screen on the desktop.
func (v *Viewport) Space(screen geom.Point) geom.Space {
	return geom.Space{
		Screen: geom.R(screen.X, screen.Y, v.Client.W, v.Client.H),
		Canvas: v.Canvas,
	}
}
