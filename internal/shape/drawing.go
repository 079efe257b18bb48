package shape

import (
	"image/color"
	"math"
	"strconv"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"

	"github.com/example/regionshot/internal/geom"
	"github.com/example/regionshot/internal/render"
)

// RectangleDrawing is an annotation rectangle.
type RectangleDrawing struct{ base }

func NewRectangleDrawing(st Style) *RectangleDrawing {
	return &RectangleDrawing{newBase(DrawingRectangle, st)}
}

func (d *RectangleDrawing) Draw(s *Surface) error {
	st, r := d.style, s.Rect(d.rect)
	if st.Shadow {
		sr := r.Move(st.ShadowOffset.X, st.ShadowOffset.Y)
		if st.IsBorderVisible() {
			if err := drawRect(s.DC, sr, st.ShadowColor, st.BorderSize, st.BorderStyle, transparent); err != nil {
				return err
			}
		} else if st.FillColor.A == 255 {
			if err := drawRect(s.DC, sr, transparent, 0, st.BorderStyle, st.ShadowColor); err != nil {
				return err
			}
		}
	}
	return drawRect(s.DC, r, st.BorderColor, st.BorderSize, st.BorderStyle, st.FillColor)
}

// EllipseDrawing is an annotation ellipse.
type EllipseDrawing struct{ base }

func NewEllipseDrawing(st Style) *EllipseDrawing {
	return &EllipseDrawing{newBase(DrawingEllipse, st)}
}

func (d *EllipseDrawing) Contains(p geom.Point) bool { return ellipseContains(d.rect, p) }

// Draw renders the shadow first: a shadow border when the border is visible,
// otherwise a shadow fill when the fill is opaque.
func (d *EllipseDrawing) Draw(s *Surface) error {
	st, r := d.style, s.Rect(d.rect)
	if st.Shadow {
		sr := r.Move(st.ShadowOffset.X, st.ShadowOffset.Y)
		if st.IsBorderVisible() {
			if err := drawEllipse(s.DC, sr, st.ShadowColor, st.BorderSize, st.BorderStyle, transparent); err != nil {
				return err
			}
		} else if st.FillColor.A == 255 {
			if err := drawEllipse(s.DC, sr, transparent, 0, st.BorderStyle, st.ShadowColor); err != nil {
				return err
			}
		}
	}
	return drawEllipse(s.DC, r, st.BorderColor, st.BorderSize, st.BorderStyle, st.FillColor)
}

// FreehandDrawing is a pen stroke following the pointer.
type FreehandDrawing struct{ freehand }

func NewFreehandDrawing(st Style) *FreehandDrawing {
	return &FreehandDrawing{freehand{base: newBase(DrawingFreehand, st)}}
}

func (d *FreehandDrawing) IsValid() bool { return len(d.points) > 1 }

func (d *FreehandDrawing) Contains(p geom.Point) bool {
	tol := hitTolerance(d.style)
	for i := 1; i < len(d.points); i++ {
		if segmentDistance(p, d.points[i-1], d.points[i]) <= tol {
			return true
		}
	}
	return false
}

func (d *FreehandDrawing) Draw(s *Surface) error {
	st := d.style
	if !st.IsBorderVisible() {
		return nil
	}
	pts := make([]geom.Point, len(d.points))
	for i, p := range d.points {
		pts[i] = s.Point(p)
	}
	if st.Shadow {
		shadow := make([]geom.Point, len(pts))
		for i, p := range pts {
			shadow[i] = p.Add(st.ShadowOffset)
		}
		if err := strokePolyline(s.DC, shadow, st.ShadowColor, st.BorderSize, st.BorderStyle); err != nil {
			return err
		}
	}
	return strokePolyline(s.DC, pts, st.BorderColor, st.BorderSize, st.BorderStyle)
}

// LineDrawing is a straight line from the start to the end position.
type LineDrawing struct{ base }

func NewLineDrawing(st Style) *LineDrawing {
	return &LineDrawing{newBase(DrawingLine, st)}
}

func (d *LineDrawing) IsValid() bool { return geom.Distance(d.start, d.end) > 0 }

func (d *LineDrawing) Contains(p geom.Point) bool {
	return segmentDistance(p, d.start, d.end) <= hitTolerance(d.style)
}

func (d *LineDrawing) Draw(s *Surface) error {
	st := d.style
	a, b := s.Point(d.start), s.Point(d.end)
	if st.Shadow {
		o := st.ShadowOffset
		if err := strokePolyline(s.DC, []geom.Point{a.Add(o), b.Add(o)}, st.ShadowColor, st.BorderSize, st.BorderStyle); err != nil {
			return err
		}
	}
	return strokePolyline(s.DC, []geom.Point{a, b}, st.BorderColor, st.BorderSize, st.BorderStyle)
}

// ArrowDrawing is a line ending in a filled head at the end position.
type ArrowDrawing struct{ LineDrawing }

func NewArrowDrawing(st Style) *ArrowDrawing {
	return &ArrowDrawing{LineDrawing{newBase(DrawingArrow, st)}}
}

// arrowHead returns the tip, the two back corners and the point where the
// shaft meets the head.
func arrowHead(a, b geom.Point, width float64) (tip, left, right, neck geom.Point) {
	size := math.Max(width*3, 10)
	length := geom.Distance(a, b)
	if length == 0 {
		return b, b, b, b
	}
	size = math.Min(size, length)
	ux, uy := (b.X-a.X)/length, (b.Y-a.Y)/length
	neck = geom.Pt(b.X-ux*size, b.Y-uy*size)
	half := size / 2
	left = geom.Pt(neck.X-uy*half, neck.Y+ux*half)
	right = geom.Pt(neck.X+uy*half, neck.Y-ux*half)
	return b, left, right, neck
}

func drawArrow(dc *gg.Context, a, b geom.Point, st Style, c color.RGBA) error {
	tip, left, right, neck := arrowHead(a, b, st.BorderSize)
	if err := strokePolyline(dc, []geom.Point{a, neck}, c, st.BorderSize, st.BorderStyle); err != nil {
		return err
	}
	dc.SetColor(c)
	dc.MoveTo(tip.X, tip.Y)
	dc.LineTo(left.X, left.Y)
	dc.LineTo(right.X, right.Y)
	dc.ClosePath()
	return dc.Fill()
}

func (d *ArrowDrawing) Draw(s *Surface) error {
	st := d.style
	if !st.IsBorderVisible() {
		return nil
	}
	a, b := s.Point(d.start), s.Point(d.end)
	if st.Shadow {
		o := st.ShadowOffset
		if err := drawArrow(s.DC, a.Add(o), b.Add(o), st, st.ShadowColor); err != nil {
			return err
		}
	}
	return drawArrow(s.DC, a, b, st, st.BorderColor)
}

// textPadding separates text from its box.
const textPadding = 5

// TextDrawing is a text label inside a filled box.
type TextDrawing struct {
	base
	Text string
}

func NewTextDrawing(st Style) *TextDrawing {
	return &TextDrawing{base: newBase(DrawingText, st)}
}

func (d *TextDrawing) face() text.Face {
	f, err := render.Face(d.style.FontSize)
	if err != nil {
		return nil
	}
	return f
}

// Complete sizes a clicked text box to fit its content.
func (d *TextDrawing) Complete() {
	if d.rect.IsValid() {
		return
	}
	d.AutoSize()
}

// AutoSize fits the box to the text, keeping the top-left corner.
func (d *TextDrawing) AutoSize() {
	w, h := 0.0, d.style.FontSize*1.2
	if f := d.face(); f != nil && d.Text != "" {
		w, h = text.Measure(d.Text, f)
	}
	d.rect = geom.R(d.rect.X, d.rect.Y, math.Max(w, d.style.FontSize*3)+2*textPadding, h+2*textPadding)
	d.end = d.rect.BottomRight()
}

func (d *TextDrawing) Draw(s *Surface) error {
	st, r := d.style, s.Rect(d.rect)
	if st.Shadow && st.IsShapeVisible() {
		sr := r.Move(st.ShadowOffset.X, st.ShadowOffset.Y)
		if err := drawRect(s.DC, sr, transparent, 0, Solid, st.ShadowColor); err != nil {
			return err
		}
	}
	if err := drawRect(s.DC, r, st.BorderColor, st.BorderSize, st.BorderStyle, st.FillColor); err != nil {
		return err
	}
	f := d.face()
	if f == nil || d.Text == "" {
		return nil
	}
	s.DC.Push()
	defer s.DC.Pop()
	s.DC.ClipRect(r.X, r.Y, r.W, r.H)
	s.DC.SetFont(f)
	s.DC.SetColor(st.TextColor)
	c := r.Center()
	s.DC.DrawStringAnchored(d.Text, c.X, c.Y, 0.5, 0.35)
	return nil
}

// StepDrawing is a numbered circle marking a sequence of steps.
type StepDrawing struct {
	base
	Number int
}

func NewStepDrawing(st Style) *StepDrawing {
	return &StepDrawing{base: newBase(DrawingStep, st)}
}

func (d *StepDrawing) radius() float64 { return math.Max(d.style.FontSize, 10) }

func (d *StepDrawing) place(c geom.Point) {
	r := d.radius()
	d.rect = geom.R(c.X-r, c.Y-r, 2*r, 2*r)
}

func (d *StepDrawing) Begin(p geom.Point) {
	d.base.Begin(p)
	d.place(p)
}

// Extend drags the marker instead of sizing it.
func (d *StepDrawing) Extend(p geom.Point) {
	d.end = p
	d.place(p)
}

func (d *StepDrawing) Resize(r geom.Rect) {
	d.base.Resize(r)
	d.place(r.Center())
}

func (d *StepDrawing) Contains(p geom.Point) bool {
	return geom.Distance(p, d.rect.Center()) <= d.radius()
}

func (d *StepDrawing) Draw(s *Surface) error {
	st, r := d.style, s.Rect(d.rect)
	if st.Shadow {
		sr := r.Move(st.ShadowOffset.X, st.ShadowOffset.Y)
		if err := drawEllipse(s.DC, sr, transparent, 0, Solid, st.ShadowColor); err != nil {
			return err
		}
	}
	if err := drawEllipse(s.DC, r, st.BorderColor, st.BorderSize, st.BorderStyle, st.FillColor); err != nil {
		return err
	}
	f, err := render.Face(st.FontSize)
	if err != nil {
		return nil
	}
	s.DC.SetFont(f)
	s.DC.SetColor(st.TextColor)
	c := r.Center()
	s.DC.DrawStringAnchored(strconv.Itoa(d.Number), c.X, c.Y, 0.5, 0.35)
	return nil
}
