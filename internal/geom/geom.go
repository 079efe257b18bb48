// Package geom holds the rectangle and point math shared by the overlay,
// the shape model and result extraction.
package geom

import (
	"fmt"
	"image"
	"math"
)

// Point is a position in any of the overlay coordinate spaces.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Scale(f float64) Point { return Point{p.X * f, p.Y * f} }
func (p Point) IsZero() bool { return p.X == 0 && p.Y == 0 }
func (p Point) String() string { return fmt.Sprintf("%g,%g", p.X, p.Y) }
func (p Point) Image() image.Point { return image.Pt(int(math.Round(p.X)), int(math.Round(p.Y))) }
func FromImagePoint(p image.Point) Point { return Point{float64(p.X), float64(p.Y)} }

// Distance returns the euclidean distance between p and q.
func Distance(p, q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Angle returns the direction from p to q in degrees, 0..360, measured
// clockwise from the positive x axis in y-down screen space.
func Angle(p, q Point) float64 {
	deg := math.Atan2(q.Y-p.Y, q.X-p.X) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return deg
}

// Size is a width and height pair.
type Size struct {
	W, H float64
}

func (s Size) String() string { return fmt.Sprintf("%gx%g", s.W, s.H) }

// Rect is an axis aligned rectangle. Width and height are exclusive extents,
// so a rectangle built from a single click has zero area.
type Rect struct {
	X, Y, W, H float64
}

// R is shorthand for Rect{x, y, w, h}.
func R(x, y, w, h float64) Rect { return Rect{X: x, Y: y, W: w, H: h} }

// FromPoints normalises a drag from a to b into a rectangle.
func FromPoints(a, b Point) Rect {
	x, y := math.Min(a.X, b.X), math.Min(a.Y, b.Y)
	return Rect{X: x, Y: y, W: math.Abs(b.X - a.X), H: math.Abs(b.Y - a.Y)}
}

// FromImageRect converts an integer rectangle.
func FromImageRect(r image.Rectangle) Rect {
	return Rect{X: float64(r.Min.X), Y: float64(r.Min.Y), W: float64(r.Dx()), H: float64(r.Dy())}
}

func (r Rect) Left() float64 { return r.X }
func (r Rect) Top() float64 { return r.Y }
func (r Rect) Right() float64 { return r.X + r.W }
func (r Rect) Bottom() float64 { return r.Y + r.H }
func (r Rect) Location() Point { return Point{r.X, r.Y} }
func (r Rect) Size() Size { return Size{r.W, r.H} }
func (r Rect) Center() Point { return Point{r.X + r.W/2, r.Y + r.H/2} }
func (r Rect) BottomRight() Point { return Point{r.Right(), r.Bottom()} }
func (r Rect) Area() float64 { return r.W * r.H }
func (r Rect) Perimeter() float64 { return 2 * (r.W + r.H) }
func (r Rect) IsValid() bool { return r.W > 0 && r.H > 0 }
func (r Rect) IsEmpty() bool { return r.W <= 0 || r.H <= 0 }
func (r Rect) Diagonal() float64 { return math.Hypot(r.W, r.H) }
func (r Rect) Move(dx, dy float64) Rect { return Rect{r.X + dx, r.Y + dy, r.W, r.H} }

func (r Rect) String() string {
	return fmt.Sprintf("X: %g Y: %g Width: %g Height: %g", r.X, r.Y, r.W, r.H)
}

// Contains reports whether p lies inside r. The right and bottom edges are
// exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// ContainsRect reports whether o lies entirely inside r.
func (r Rect) ContainsRect(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// Intersects reports whether r and o overlap with a positive area.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Intersect returns the overlap of r and o, or the zero rectangle.
func (r Rect) Intersect(o Rect) Rect {
	x0, y0 := math.Max(r.X, o.X), math.Max(r.Y, o.Y)
	x1, y1 := math.Min(r.Right(), o.Right()), math.Min(r.Bottom(), o.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{x0, y0, x1 - x0, y1 - y0}
}

// Union returns the smallest rectangle covering r and o. Empty rectangles
// are ignored.
func (r Rect) Union(o Rect) Rect {
	if r.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return r
	}
	x0, y0 := math.Min(r.X, o.X), math.Min(r.Y, o.Y)
	x1, y1 := math.Max(r.Right(), o.Right()), math.Max(r.Bottom(), o.Bottom())
	return Rect{x0, y0, x1 - x0, y1 - y0}
}

// Offset grows r by n on every side. A negative n shrinks it.
func (r Rect) Offset(n float64) Rect {
	return Rect{r.X - n, r.Y - n, r.W + 2*n, r.H + 2*n}
}

// SizeOffset grows only the width and height by n.
func (r Rect) SizeOffset(n float64) Rect {
	return Rect{r.X, r.Y, r.W + n, r.H + n}
}

// Image rounds r to integer pixel bounds.
func (r Rect) Image() image.Rectangle {
	x0, y0 := int(math.Round(r.X)), int(math.Round(r.Y))
	return image.Rect(x0, y0, x0+int(math.Round(r.W)), y0+int(math.Round(r.H)))
}

// Lerp interpolates linearly between a and b. t is clamped to [0,1].
func Lerp(a, b, t float64) float64 {
	t = Clamp(t, 0, 1)
	return a + (b-a)*t
}

// LerpRect interpolates every edge of a towards b.
func LerpRect(a, b Rect, t float64) Rect {
	return Rect{Lerp(a.X, b.X, t), Lerp(a.Y, b.Y, t), Lerp(a.W, b.W, t), Lerp(a.H, b.H, t)}
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampInt limits v to [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
