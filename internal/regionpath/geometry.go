package regionpath

import (
	"image"
	"image/draw"

	"github.com/gogpu/gg"
	"golang.org/x/image/vector"

	"github.com/example/regionshot/internal/geom"
)

// SegmentKind tells whether a segment holds line end points or cubic
// control triples.
type SegmentKind int

const (
	Lines SegmentKind = iota
	Beziers
)

// Segment is a batch of consecutive points of the same kind. Bezier
// segments hold control1, control2, end triples.
type Segment struct {
	Kind   SegmentKind
	Points []geom.Point
}

// Figure is one closed sub-path.
type Figure struct {
	Start    geom.Point
	Segments []Segment
}

// Geometry is the device level form of a Path.
type Geometry struct {
	Figures  []Figure
	FillMode FillMode
}

// Geometry converts the typed points into figures. A start point discards
// anything buffered since the previous figure. Points accumulate into line
// or Bezier batches and a close flag flushes the figure. A figure whose
// final batch is Bezier is only kept when that batch, counted together with
// the start point, holds more than three points. Figures that are never
// closed are dropped.
func (p *Path) Geometry() Geometry {
	g := Geometry{FillMode: p.FillMode}
	if p.IsEmpty() {
		return g
	}

	var (
		fig    Figure
		open   bool
		buffer []geom.Point
		kind   SegmentKind
	)
	flush := func() {
		if len(buffer) == 0 {
			return
		}
		pts := buffer
		if kind == Beziers {
			pts = pts[:len(pts)/3*3]
		}
		if len(pts) > 0 {
			fig.Segments = append(fig.Segments, Segment{Kind: kind, Points: append([]geom.Point(nil), pts...)})
		}
		buffer = buffer[:0]
	}

	for i, pt := range p.Points {
		t := p.Types[i]
		switch t.Kind() {
		case Start:
			fig = Figure{Start: pt}
			buffer = buffer[:0]
			open = true
			if t.Closes() {
				open = false
			}
			continue
		case Line:
			if kind != Lines {
				flush()
				kind = Lines
			}
		case Bezier:
			if kind != Beziers {
				flush()
				kind = Beziers
			}
		default:
			continue
		}
		if !open {
			continue
		}
		buffer = append(buffer, pt)
		if !t.Closes() {
			continue
		}
		if kind == Beziers && 1+len(buffer) <= 3 {
			buffer = buffer[:0]
		} else {
			flush()
		}
		if len(fig.Segments) > 0 {
			g.Figures = append(g.Figures, fig)
		}
		open = false
	}
	return g
}

// Bounds returns the bounds of every figure point.
func (g Geometry) Bounds() geom.Rect {
	p := New()
	for _, f := range g.Figures {
		p.add(f.Start, Start)
		for _, s := range f.Segments {
			for _, pt := range s.Points {
				p.add(pt, Line)
			}
		}
	}
	return p.Bounds()
}

// AppendTo replays the figures onto dc's current path and selects the
// matching fill rule.
func (g Geometry) AppendTo(dc *gg.Context) {
	if g.FillMode == Alternate {
		dc.SetFillRule(gg.FillRuleEvenOdd)
	} else {
		dc.SetFillRule(gg.FillRuleNonZero)
	}
	for _, f := range g.Figures {
		dc.MoveTo(f.Start.X, f.Start.Y)
		for _, s := range f.Segments {
			switch s.Kind {
			case Lines:
				for _, pt := range s.Points {
					dc.LineTo(pt.X, pt.Y)
				}
			case Beziers:
				for i := 0; i+2 < len(s.Points); i += 3 {
					c1, c2, end := s.Points[i], s.Points[i+1], s.Points[i+2]
					dc.CubicTo(c1.X, c1.Y, c2.X, c2.Y, end.X, end.Y)
				}
			}
		}
		dc.ClosePath()
	}
}

// Mask rasterizes the figures into an alpha mask covering bounds. Mask
// pixel (x, y) corresponds to canvas pixel bounds.Min + (x, y).
func (g Geometry) Mask(bounds image.Rectangle) *image.Alpha {
	mask := image.NewAlpha(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	if bounds.Empty() || len(g.Figures) == 0 {
		return mask
	}
	// One spare row and column keep edges on the far boundary from being
	// clamped into the last pixel.
	z := vector.NewRasterizer(bounds.Dx()+1, bounds.Dy()+1)
	z.DrawOp = draw.Src
	ox, oy := float32(bounds.Min.X), float32(bounds.Min.Y)
	at := func(pt geom.Point) (float32, float32) {
		return float32(pt.X) - ox, float32(pt.Y) - oy
	}
	for _, f := range g.Figures {
		z.MoveTo(at(f.Start))
		for _, s := range f.Segments {
			switch s.Kind {
			case Lines:
				for _, pt := range s.Points {
					z.LineTo(at(pt))
				}
			case Beziers:
				for i := 0; i+2 < len(s.Points); i += 3 {
					x1, y1 := at(s.Points[i])
					x2, y2 := at(s.Points[i+1])
					x3, y3 := at(s.Points[i+2])
					z.CubeTo(x1, y1, x2, y2, x3, y3)
				}
			}
		}
		z.ClosePath()
	}
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}
