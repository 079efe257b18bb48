// Package result turns a finished overlay into the output image.
package result

import (
	"fmt"
	"image"
	"image/draw"
	"log"
	"math"

	"github.com/gogpu/gg"

	"github.com/example/regionshot/internal/geom"
	"github.com/example/regionshot/internal/regionpath"
	"github.com/example/regionshot/internal/shape"
)

// Mode is how the overlay was completed.
type Mode int

const (
	Close Mode = iota
	Region
	LastRegion
	Fullscreen
	Monitor
	ActiveMonitor
	Editor
)

var modeNames = []string{"close", "region", "last-region", "fullscreen", "monitor", "active-monitor", "editor"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode maps a name produced by String back to its Mode.
func ParseMode(s string) (Mode, error) {
	for i, n := range modeNames {
		if n == s {
			return Mode(i), nil
		}
	}
	return Close, fmt.Errorf("unknown result mode %q", s)
}

// Shapes is the view of the shape collection extraction needs.
type Shapes interface {
	ValidRegions() []shape.RegionShape
	EffectShapes() []shape.Shape
	DrawingShapes() []shape.Shape
	ToolShapes() []shape.ToolShape
}

// Request describes one extraction.
type Request struct {
	Mode Mode
	// Editor forces the full edited canvas regardless of Mode.
	Editor bool
	Canvas *image.RGBA
	Space  geom.Space
	Shapes Shapes
	// Monitors are desktop rectangles in screen coordinates.
	Monitors     []geom.Rect
	MonitorIndex int
	// Cursor is the pointer position in screen coordinates.
	Cursor  geom.Point
	Session *Session
}

// Extract produces the output image for req. It reports false when the
// request yields no image, such as a closed overlay or a monitor index out
// of range.
func Extract(req Request) (*image.RGBA, bool) {
	if req.Canvas == nil {
		return nil, false
	}
	if req.Editor || req.Mode == Editor {
		return edited(req), true
	}
	switch req.Mode {
	case Region:
		var p *regionpath.Path
		if req.Shapes != nil {
			p = regionpath.Merge(req.Shapes.ValidRegions(), 0)
		}
		if p.IsEmpty() {
			return bake(req, req.Canvas.Bounds()), true
		}
		return regionImage(req, p)
	case LastRegion:
		if req.Session == nil {
			return nil, false
		}
		p, ok := req.Session.LastRegion()
		if !ok {
			return nil, false
		}
		s := req.Space.Screen.Location()
		p.Translate(-s.X, -s.Y)
		return regionImage(req, p)
	case Fullscreen:
		return bake(req, req.Canvas.Bounds()), true
	case Monitor:
		if req.MonitorIndex < 0 || req.MonitorIndex >= len(req.Monitors) {
			return nil, false
		}
		return monitorImage(req, req.Monitors[req.MonitorIndex])
	case ActiveMonitor:
		if len(req.Monitors) == 0 {
			return nil, false
		}
		m := req.Monitors[0]
		for _, r := range req.Monitors {
			if r.Contains(req.Cursor) {
				m = r
				break
			}
		}
		return monitorImage(req, m)
	}
	return nil, false
}

func monitorImage(req Request, m geom.Rect) (*image.RGBA, bool) {
	r := req.Space.RectScreenToCanvas(m).Image().Intersect(req.Canvas.Bounds())
	if r.Empty() {
		return nil, false
	}
	return bake(req, r), true
}

// regionImage crops to the bounds of p, given in client coordinates, and
// clears everything outside it.
func regionImage(req Request, p *regionpath.Path) (*image.RGBA, bool) {
	o := req.Space.Canvas.Location()
	p = p.Clone()
	p.Translate(-o.X, -o.Y)
	b := outward(p.Bounds()).Intersect(req.Canvas.Bounds())
	if b.Empty() {
		return nil, false
	}
	src := bake(req, b)
	mask := p.Geometry().Mask(b)
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.DrawMask(out, out.Bounds(), src, image.Point{}, mask, image.Point{}, draw.Src)
	return out, true
}

// edited is the full canvas with every overlay baked in and the tools
// applied in creation order.
func edited(req Request) *image.RGBA {
	img := bake(req, req.Canvas.Bounds())
	if req.Shapes == nil {
		return img
	}
	origin := req.Space.Canvas.Location()
	for _, t := range req.Shapes.ToolShapes() {
		img, origin = t.Apply(img, origin)
	}
	return img
}

// bake copies area of the canvas and composites effects and drawings over
// it. Without shapes the copy is exact.
func bake(req Request, area image.Rectangle) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, area.Dx(), area.Dy()))
	draw.Draw(out, out.Bounds(), req.Canvas, area.Min, draw.Src)
	if req.Shapes == nil {
		return out
	}
	shapes := append(req.Shapes.EffectShapes(), req.Shapes.DrawingShapes()...)
	if len(shapes) == 0 {
		return out
	}
	dc := gg.NewContext(area.Dx(), area.Dy())
	defer func() {
		if err := dc.Close(); err != nil {
			log.Printf("result: close context: %v", err)
		}
	}()
	o := req.Space.Canvas.Location()
	s := &shape.Surface{
		DC:           dc,
		Canvas:       req.Canvas,
		Offset:       geom.Pt(-o.X-float64(area.Min.X), -o.Y-float64(area.Min.Y)),
		CanvasOrigin: o,
	}
	for _, sh := range shapes {
		if err := sh.Draw(s); err != nil {
			log.Printf("result: draw %v: %v", sh.Type(), err)
		}
	}
	draw.Draw(out, out.Bounds(), dc.Image(), image.Point{}, draw.Over)
	return out
}

func outward(r geom.Rect) image.Rectangle {
	return image.Rect(
		int(math.Floor(r.X)), int(math.Floor(r.Y)),
		int(math.Ceil(r.Right())), int(math.Ceil(r.Bottom())),
	)
}
