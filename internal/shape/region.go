package shape

import (
	"github.com/example/regionshot/internal/geom"
	"github.com/example/regionshot/internal/regionpath"
)

// RectangleRegion selects a rectangular area.
type RectangleRegion struct{ base }

func NewRectangleRegion(st Style) *RectangleRegion {
	return &RectangleRegion{newBase(RegionRectangle, st)}
}

func (r *RectangleRegion) AddPath(p *regionpath.Path, sizeOffset float64) {
	p.AddRectangle(r.rect.SizeOffset(sizeOffset))
}

// Draw is a no-op: regions are drawn as part of the merged outline.
func (r *RectangleRegion) Draw(*Surface) error { return nil }

// EllipseRegion selects the ellipse inscribed in its rectangle.
type EllipseRegion struct{ base }

func NewEllipseRegion(st Style) *EllipseRegion {
	return &EllipseRegion{newBase(RegionEllipse, st)}
}

func (r *EllipseRegion) AddPath(p *regionpath.Path, sizeOffset float64) {
	p.AddEllipse(r.rect.SizeOffset(sizeOffset))
}

func (r *EllipseRegion) Contains(p geom.Point) bool { return ellipseContains(r.rect, p) }

func (r *EllipseRegion) Draw(*Surface) error { return nil }

// freehand records the pointer path of a creation gesture.
type freehand struct {
	base
	points []geom.Point
}

func (f *freehand) Begin(p geom.Point) {
	f.base.Begin(p)
	f.points = append(f.points[:0], p)
}

func (f *freehand) Extend(p geom.Point) {
	f.end = p
	if n := len(f.points); n > 0 && f.points[n-1] == p {
		return
	}
	f.points = append(f.points, p)
	f.rect = boundsOf(f.points)
}

func (f *freehand) Move(dx, dy float64) {
	f.base.Move(dx, dy)
	d := geom.Pt(dx, dy)
	for i := range f.points {
		f.points[i] = f.points[i].Add(d)
	}
}

// Resize scales the recorded path into r.
func (f *freehand) Resize(r geom.Rect) {
	old := f.rect
	if old.W > 0 && old.H > 0 {
		for i, p := range f.points {
			f.points[i] = geom.Pt(
				r.X+(p.X-old.X)*r.W/old.W,
				r.Y+(p.Y-old.Y)*r.H/old.H,
			)
		}
	}
	f.base.Resize(r)
}

// Points returns a copy of the recorded path.
func (f *freehand) Points() []geom.Point {
	return append([]geom.Point(nil), f.points...)
}

func (f *freehand) IsValid() bool { return len(f.points) > 2 && f.rect.IsValid() }

func boundsOf(pts []geom.Point) geom.Rect {
	return (&regionpath.Path{Points: pts}).Bounds()
}

// FreehandRegion selects the polygon traced by the pointer.
type FreehandRegion struct{ freehand }

func NewFreehandRegion(st Style) *FreehandRegion {
	return &FreehandRegion{freehand{base: newBase(RegionFreehand, st)}}
}

// AddPath appends the traced polygon. The size offset does not apply to a
// free path.
func (f *FreehandRegion) AddPath(p *regionpath.Path, _ float64) {
	p.AddPolygon(f.points)
}

func (f *FreehandRegion) Contains(p geom.Point) bool {
	if !f.rect.Contains(p) {
		return false
	}
	inside := false
	for i, j := 0, len(f.points)-1; i < len(f.points); j, i = i, i+1 {
		a, b := f.points[i], f.points[j]
		if (a.Y > p.Y) != (b.Y > p.Y) && p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

func (f *FreehandRegion) Draw(*Surface) error { return nil }
