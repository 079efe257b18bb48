// Package shape models the user drawn shapes of the capture overlay and the
// manager that owns them.
//
// Shapes live in client coordinates. A Surface maps them onto a render
// target, which is how the same Draw code serves the live overlay and the
// offscreen export.
package shape

import (
	"image/color"
	"math"

	"github.com/example/regionshot/internal/geom"
	"github.com/example/regionshot/internal/regionpath"
)

// Category groups shapes by what they contribute to the output.
type Category int

const (
	Region Category = iota
	Drawing
	Effect
	Tool
)

func (c Category) String() string {
	switch c {
	case Region:
		return "region"
	case Drawing:
		return "drawing"
	case Effect:
		return "effect"
	case Tool:
		return "tool"
	}
	return "unknown"
}

// Type identifies a concrete shape.
type Type int

const (
	RegionRectangle Type = iota
	RegionEllipse
	RegionFreehand
	DrawingRectangle
	DrawingEllipse
	DrawingFreehand
	DrawingLine
	DrawingArrow
	DrawingText
	DrawingStep
	EffectBlur
	EffectPixelate
	EffectHighlight
	ToolCrop
)

var typeNames = map[Type]string{
	RegionRectangle:  "region-rectangle",
	RegionEllipse:    "region-ellipse",
	RegionFreehand:   "region-freehand",
	DrawingRectangle: "rectangle",
	DrawingEllipse:   "ellipse",
	DrawingFreehand:  "freehand",
	DrawingLine:      "line",
	DrawingArrow:     "arrow",
	DrawingText:      "text",
	DrawingStep:      "step",
	EffectBlur:       "blur",
	EffectPixelate:   "pixelate",
	EffectHighlight:  "highlight",
	ToolCrop:         "crop",
}

func (t Type) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return "unknown"
}

// ParseType maps a name produced by String back to its Type.
func ParseType(name string) (Type, bool) {
	for t, n := range typeNames {
		if n == name {
			return t, true
		}
	}
	return 0, false
}

// Category returns the category t belongs to.
func (t Type) Category() Category {
	switch {
	case t <= RegionFreehand:
		return Region
	case t <= DrawingStep:
		return Drawing
	case t <= EffectHighlight:
		return Effect
	default:
		return Tool
	}
}

// IsFreehand reports whether t follows the pointer path instead of a drag
// rectangle. Freehand shapes never snap.
func (t Type) IsFreehand() bool {
	return t == RegionFreehand || t == DrawingFreehand
}

// BorderStyle selects the dash pattern of a border.
type BorderStyle int

const (
	Solid BorderStyle = iota
	Dash
	Dot
	DashDot
)

// Style holds the visual attributes shared by drawing shapes.
type Style struct {
	BorderColor  color.RGBA
	BorderSize   float64
	BorderStyle  BorderStyle
	FillColor    color.RGBA
	Shadow       bool
	ShadowColor  color.RGBA
	ShadowOffset geom.Point
	TextColor    color.RGBA
	FontSize     float64
}

func (s Style) IsBorderVisible() bool { return s.BorderSize > 0 && s.BorderColor.A > 0 }
func (s Style) IsFillVisible() bool { return s.FillColor.A > 0 }
func (s Style) IsShapeVisible() bool { return s.IsBorderVisible() || s.IsFillVisible() }

// DefaultStyle returns the initial style for t.
func DefaultStyle(t Type) Style {
	st := Style{
		BorderColor:  color.RGBA{242, 60, 60, 255},
		BorderSize:   4,
		ShadowColor:  color.RGBA{0, 0, 0, 125},
		ShadowOffset: geom.Pt(0, 1),
		Shadow:       true,
		TextColor:    color.RGBA{255, 255, 255, 255},
		FontSize:     18,
	}
	switch t {
	case DrawingText:
		st.BorderSize = 2
		st.FillColor = color.RGBA{242, 60, 60, 255}
	case DrawingStep:
		st.BorderColor = color.RGBA{255, 255, 255, 255}
		st.BorderSize = 0
		st.FillColor = color.RGBA{242, 60, 60, 255}
	case EffectHighlight:
		st.FillColor = color.RGBA{255, 255, 0, 255}
	}
	return st
}

// Shape is the capability every catalogue entry exposes to the manager, the
// renderer and result extraction.
type Shape interface {
	Type() Type
	Category() Category
	Rect() geom.Rect
	IsValid() bool
	Style() Style
	SetStyle(Style)
	StartPosition() geom.Point
	EndPosition() geom.Point
	// Begin starts a creation gesture at p.
	Begin(p geom.Point)
	// Extend follows the pointer while the shape is being created.
	Extend(p geom.Point)
	Move(dx, dy float64)
	Resize(r geom.Rect)
	Contains(p geom.Point) bool
	Draw(s *Surface) error
	Dispose()
}

// RegionShape is a shape whose outline joins the merged selection.
type RegionShape interface {
	Shape
	regionpath.Contributor
}

// Completer is implemented by shapes that settle their geometry once the
// creation gesture ends.
type Completer interface {
	Complete()
}

// base carries the geometry shared by rectangle based shapes.
type base struct {
	typ        Type
	start, end geom.Point
	rect       geom.Rect
	style      Style
}

func newBase(t Type, st Style) base { return base{typ: t, style: st} }

func (b *base) Type() Type { return b.typ }
func (b *base) Category() Category { return b.typ.Category() }
func (b *base) Rect() geom.Rect { return b.rect }
func (b *base) IsValid() bool { return b.rect.IsValid() }
func (b *base) Style() Style { return b.style }
func (b *base) SetStyle(st Style) { b.style = st }
func (b *base) StartPosition() geom.Point { return b.start }
func (b *base) EndPosition() geom.Point { return b.end }
func (b *base) Contains(p geom.Point) bool {
	return b.rect.Contains(p)
}
func (b *base) Dispose() {}

func (b *base) Begin(p geom.Point) {
	b.start, b.end = p, p
	b.rect = geom.FromPoints(p, p)
}

func (b *base) Extend(p geom.Point) {
	b.end = p
	b.rect = geom.FromPoints(b.start, p)
}

func (b *base) Move(dx, dy float64) {
	d := geom.Pt(dx, dy)
	b.start, b.end = b.start.Add(d), b.end.Add(d)
	b.rect = b.rect.Move(dx, dy)
}

func (b *base) Resize(r geom.Rect) {
	b.rect = r
	b.start, b.end = r.Location(), r.BottomRight()
}

// ellipseContains tests p against the ellipse inscribed in r.
func ellipseContains(r geom.Rect, p geom.Point) bool {
	if !r.IsValid() {
		return false
	}
	rx, ry := r.W/2, r.H/2
	c := r.Center()
	dx, dy := (p.X-c.X)/rx, (p.Y-c.Y)/ry
	return dx*dx+dy*dy <= 1
}

// segmentDistance is the distance from p to the segment a-b.
func segmentDistance(p, a, b geom.Point) float64 {
	ab := b.Sub(a)
	l2 := ab.X*ab.X + ab.Y*ab.Y
	if l2 == 0 {
		return geom.Distance(p, a)
	}
	t := geom.Clamp(((p.X-a.X)*ab.X+(p.Y-a.Y)*ab.Y)/l2, 0, 1)
	return geom.Distance(p, a.Add(ab.Scale(t)))
}

// hitTolerance is the pick distance around thin strokes.
func hitTolerance(st Style) float64 {
	return math.Max(st.BorderSize/2, 2) + 3
}
