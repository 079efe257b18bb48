// Package regionpath merges region shapes into a single outline and converts
// that outline into figures a vector renderer or rasterizer can consume.
//
// A Path stores points with per-point type flags: a figure begins with a
// Start point, continues with Line or Bezier points and ends with a point
// carrying the CloseSubpath flag.
package regionpath

import (
	"math"

	"github.com/example/regionshot/internal/geom"
)

// PointType flags a path point.
type PointType uint8

const (
	Start        PointType = 0x00
	Line         PointType = 0x01
	Bezier       PointType = 0x03
	TypeMask     PointType = 0x07
	CloseSubpath PointType = 0x80
)

// Kind strips the modifier flags.
func (t PointType) Kind() PointType { return t & TypeMask }

// Closes reports whether the point ends its figure.
func (t PointType) Closes() bool { return t&CloseSubpath != 0 }

// FillMode selects how overlapping figures combine.
type FillMode int

const (
	// Winding unions overlapping figures of the same orientation.
	Winding FillMode = iota
	// Alternate cancels overlapping areas.
	Alternate
)

// kappa places cubic control points so four segments approximate an ellipse.
const kappa = 0.5522847498

// Path is an ordered list of typed points.
type Path struct {
	Points   []geom.Point
	Types    []PointType
	FillMode FillMode
}

// New returns an empty path using the winding rule.
func New() *Path {
	return &Path{FillMode: Winding}
}

// Len returns the number of points.
func (p *Path) Len() int { return len(p.Points) }

// IsEmpty reports whether no figure has been added.
func (p *Path) IsEmpty() bool { return p == nil || len(p.Points) == 0 }

// Reset drops every point and keeps the fill mode.
func (p *Path) Reset() {
	p.Points = p.Points[:0]
	p.Types = p.Types[:0]
}

// Clone returns a deep copy.
func (p *Path) Clone() *Path {
	if p == nil {
		return nil
	}
	return &Path{
		Points:   append([]geom.Point(nil), p.Points...),
		Types:    append([]PointType(nil), p.Types...),
		FillMode: p.FillMode,
	}
}

func (p *Path) add(pt geom.Point, t PointType) {
	p.Points = append(p.Points, pt)
	p.Types = append(p.Types, t)
}

// CloseFigure marks the last point as the end of its figure.
func (p *Path) CloseFigure() {
	if n := len(p.Types); n > 0 {
		p.Types[n-1] |= CloseSubpath
	}
}

// AddRectangle appends r as a closed clockwise figure of four points.
// Degenerate rectangles are skipped.
func (p *Path) AddRectangle(r geom.Rect) {
	if !r.IsValid() {
		return
	}
	p.add(geom.Pt(r.Left(), r.Top()), Start)
	p.add(geom.Pt(r.Right(), r.Top()), Line)
	p.add(geom.Pt(r.Right(), r.Bottom()), Line)
	p.add(geom.Pt(r.Left(), r.Bottom()), Line|CloseSubpath)
}

// AddEllipse appends the ellipse inscribed in r as a start point followed by
// four clockwise cubic segments, beginning at the right middle.
func (p *Path) AddEllipse(r geom.Rect) {
	if !r.IsValid() {
		return
	}
	rx, ry := r.W/2, r.H/2
	cx, cy := r.X+rx, r.Y+ry
	kx, ky := rx*kappa, ry*kappa

	p.add(geom.Pt(cx+rx, cy), Start)
	curve := func(c1, c2, end geom.Point) {
		p.add(c1, Bezier)
		p.add(c2, Bezier)
		p.add(end, Bezier)
	}
	curve(geom.Pt(cx+rx, cy+ky), geom.Pt(cx+kx, cy+ry), geom.Pt(cx, cy+ry))
	curve(geom.Pt(cx-kx, cy+ry), geom.Pt(cx-rx, cy+ky), geom.Pt(cx-rx, cy))
	curve(geom.Pt(cx-rx, cy-ky), geom.Pt(cx-kx, cy-ry), geom.Pt(cx, cy-ry))
	curve(geom.Pt(cx+kx, cy-ry), geom.Pt(cx+rx, cy-ky), geom.Pt(cx+rx, cy))
	p.CloseFigure()
}

// AddPolygon appends pts as a closed polygon. The winding is normalised to
// clockwise so overlapping polygons union under the winding rule.
func (p *Path) AddPolygon(pts []geom.Point) {
	if len(pts) < 3 || signedArea(pts) == 0 {
		return
	}
	ordered := pts
	if signedArea(pts) < 0 {
		ordered = make([]geom.Point, len(pts))
		for i, pt := range pts {
			ordered[len(pts)-1-i] = pt
		}
	}
	p.add(ordered[0], Start)
	for _, pt := range ordered[1:] {
		p.add(pt, Line)
	}
	p.CloseFigure()
}

// signedArea is twice the shoelace area; positive means clockwise on a
// y-down surface.
func signedArea(pts []geom.Point) float64 {
	var sum float64
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum
}

// Bounds returns the tight bounds of every point in the path.
func (p *Path) Bounds() geom.Rect {
	if p.IsEmpty() {
		return geom.Rect{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, pt := range p.Points {
		minX, maxX = math.Min(minX, pt.X), math.Max(maxX, pt.X)
		minY, maxY = math.Min(minY, pt.Y), math.Max(maxY, pt.Y)
	}
	return geom.Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Translate moves every point by (dx, dy).
func (p *Path) Translate(dx, dy float64) {
	for i := range p.Points {
		p.Points[i].X += dx
		p.Points[i].Y += dy
	}
}

// Contributor is anything that can append its outline to a path. sizeOffset
// grows (or, when negative, shrinks) the width and height of the outline.
type Contributor interface {
	AddPath(p *Path, sizeOffset float64)
}

// Merge builds a fresh winding path from the contributions of regions in
// order. It returns nil when regions is empty.
func Merge[T Contributor](regions []T, sizeOffset float64) *Path {
	if len(regions) == 0 {
		return nil
	}
	p := New()
	for _, r := range regions {
		r.AddPath(p, sizeOffset)
	}
	return p
}
