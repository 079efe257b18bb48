package shape

import (
	"maps"
	"slices"
	"sync/atomic"
	"time"

	"github.com/example/regionshot/internal/anim"
	"github.com/example/regionshot/internal/geom"
)

// Options configures a Manager.
type Options struct {
	// SnapSizes are the preset sizes a drag snaps to while snapping.
	SnapSizes []geom.Size
	// DetectWindows lets window rectangles act as hover targets outside
	// editor mode.
	DetectWindows bool
	EditorMode    bool
	// Styles overrides DefaultStyle per shape type.
	Styles map[Type]Style
}

// Manager owns the shape collection of one overlay session. It is confined
// to the render/input goroutine; only the window list may be published from
// elsewhere.
type Manager struct {
	opts   Options
	clock  anim.Clock
	bounds geom.Rect

	shapes  []Shape
	current Shape

	creating bool
	moving   bool
	lastPos  geom.Point

	hoverShape Shape
	hoverRect  geom.Rect
	prevHover  geom.Rect

	modified bool
	snapping bool
	panning  bool
	disposed bool

	currentType Type
	windows     atomic.Pointer[[]geom.Rect]

	// Tooltip shows short menu feedback such as the selected tool.
	Tooltip *anim.TextAnimation
}

// NewManager returns an empty manager. bounds is the client area that
// snapped rectangles must stay inside.
func NewManager(clock anim.Clock, bounds geom.Rect, opts Options) *Manager {
	if clock == nil {
		clock = anim.SystemClock{}
	}
	if opts.SnapSizes == nil {
		opts.SnapSizes = geom.DefaultSnapSizes
	}
	opts.Styles = maps.Clone(opts.Styles)
	m := &Manager{
		opts:    opts,
		clock:   clock,
		bounds:  bounds,
		Tooltip: anim.NewTextAnimation(clock, time.Second, 500*time.Millisecond),
	}
	if opts.EditorMode {
		m.currentType = DrawingRectangle
	}
	return m
}

// SetBounds updates the client area used for snapping.
func (m *Manager) SetBounds(r geom.Rect) { m.bounds = r }

// StyleFor returns the configured style of t.
func (m *Manager) StyleFor(t Type) Style {
	if st, ok := m.opts.Styles[t]; ok {
		return st
	}
	return DefaultStyle(t)
}

// SetTypeStyle changes the style new shapes of type t are created with.
func (m *Manager) SetTypeStyle(t Type, st Style) {
	if m.opts.Styles == nil {
		m.opts.Styles = map[Type]Style{}
	}
	m.opts.Styles[t] = st
}

// NewShape builds an empty shape of type t with its configured style.
func (m *Manager) NewShape(t Type) Shape {
	st := m.StyleFor(t)
	switch t {
	case RegionEllipse:
		return NewEllipseRegion(st)
	case RegionFreehand:
		return NewFreehandRegion(st)
	case DrawingRectangle:
		return NewRectangleDrawing(st)
	case DrawingEllipse:
		return NewEllipseDrawing(st)
	case DrawingFreehand:
		return NewFreehandDrawing(st)
	case DrawingLine:
		return NewLineDrawing(st)
	case DrawingArrow:
		return NewArrowDrawing(st)
	case DrawingText:
		return NewTextDrawing(st)
	case DrawingStep:
		s := NewStepDrawing(st)
		s.Number = m.countType(DrawingStep) + 1
		return s
	case EffectBlur:
		return NewBlurEffect(st)
	case EffectPixelate:
		return NewPixelateEffect(st)
	case EffectHighlight:
		return NewHighlightEffect(st)
	case ToolCrop:
		return NewCropTool(st)
	default:
		return NewRectangleRegion(st)
	}
}

func (m *Manager) countType(t Type) int {
	n := 0
	for _, s := range m.shapes {
		if s.Type() == t {
			n++
		}
	}
	return n
}

// Shapes returns the collection in z-order.
func (m *Manager) Shapes() []Shape { return slices.Clone(m.shapes) }

// Len returns the number of owned shapes.
func (m *Manager) Len() int { return len(m.shapes) }

// CurrentType is the type new shapes are created with.
func (m *Manager) CurrentType() Type { return m.currentType }

// SetCurrentType selects the tool for the next creation gesture and shows
// its name as a tooltip.
func (m *Manager) SetCurrentType(t Type, at geom.Point) {
	m.currentType = t
	m.ShowTooltip(t.String(), at)
}

// ShowTooltip starts the menu tooltip animation.
func (m *Manager) ShowTooltip(text string, at geom.Point) {
	m.Tooltip.Text = text
	m.Tooltip.Position = at
	m.Tooltip.Start()
}

// AddShape appends s on top of the collection.
func (m *Manager) AddShape(s Shape) {
	if m.disposed || s == nil {
		return
	}
	m.shapes = append(m.shapes, s)
	m.modified = true
}

// StartCreation begins a creation gesture of the current type at pos. The
// shape joins the collection immediately so it is drawn while dragging.
func (m *Manager) StartCreation(pos geom.Point) Shape {
	if m.disposed {
		return nil
	}
	s := m.NewShape(m.currentType)
	s.Begin(pos)
	m.AddShape(s)
	m.current = s
	m.creating = true
	return s
}

// UpdateCreation follows the pointer during a creation gesture. While
// snapping, non freehand shapes snap to the nearest configured size.
func (m *Manager) UpdateCreation(pos geom.Point) {
	if !m.creating || m.current == nil {
		return
	}
	if m.snapping && !m.current.Type().IsFreehand() {
		pos = geom.SnapEnd(m.current.StartPosition(), pos, m.opts.SnapSizes, m.bounds)
	}
	m.current.Extend(pos)
	m.modified = true
}

// EndCreation finishes the gesture. A region that is still degenerate, as
// after a plain click, takes the rectangle of the hover target under the
// pointer. Shapes that stay invalid are removed and nil is returned.
func (m *Manager) EndCreation() Shape {
	if !m.creating {
		return nil
	}
	m.creating = false
	s := m.current
	if s == nil {
		return nil
	}
	if c, ok := s.(Completer); ok {
		c.Complete()
	}
	if !s.IsValid() && s.Category() == Region && !s.Type().IsFreehand() {
		if r, ok := m.hoverAt(s.EndPosition(), s); ok {
			s.Resize(r)
		}
	}
	if !s.IsValid() {
		m.remove(s)
		return nil
	}
	return s
}

// IsCreating reports whether a creation gesture is in progress.
func (m *Manager) IsCreating() bool { return m.creating }

// HandleEscape cancels an in-progress creation and reports whether it did.
func (m *Manager) HandleEscape() bool {
	if !m.creating {
		return false
	}
	m.creating = false
	m.remove(m.current)
	return true
}

// HitTest returns the topmost valid shape containing pos, or nil.
func (m *Manager) HitTest(pos geom.Point) Shape {
	for i := len(m.shapes) - 1; i >= 0; i-- {
		s := m.shapes[i]
		if s.IsValid() && s.Contains(pos) {
			return s
		}
	}
	return nil
}

// ValidRegions returns the region shapes with valid geometry in z-order.
// Validity is evaluated on every call because shapes change while dragged.
func (m *Manager) ValidRegions() []RegionShape {
	var out []RegionShape
	for _, s := range m.shapes {
		if r, ok := s.(RegionShape); ok && s.Category() == Region && s.IsValid() {
			out = append(out, r)
		}
	}
	return out
}

func (m *Manager) valid(c Category) []Shape {
	var out []Shape
	for _, s := range m.shapes {
		if s.Category() == c && s.IsValid() {
			out = append(out, s)
		}
	}
	return out
}

// EffectShapes returns the valid effect shapes in z-order.
func (m *Manager) EffectShapes() []Shape { return m.valid(Effect) }

// DrawingShapes returns the valid drawing shapes in z-order.
func (m *Manager) DrawingShapes() []Shape { return m.valid(Drawing) }

// ToolShapes returns the valid tool shapes in z-order.
func (m *Manager) ToolShapes() []ToolShape {
	var out []ToolShape
	for _, s := range m.valid(Tool) {
		if t, ok := s.(ToolShape); ok {
			out = append(out, t)
		}
	}
	return out
}

// MoveAll translates every shape. It follows a pan of the view and does not
// mark the collection modified.
func (m *Manager) MoveAll(dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	for _, s := range m.shapes {
		s.Move(dx, dy)
	}
	m.lastPos = m.lastPos.Add(geom.Pt(dx, dy))
}

// StartMove grabs the topmost shape under pos.
func (m *Manager) StartMove(pos geom.Point) bool {
	if m.creating || m.disposed {
		return false
	}
	s := m.HitTest(pos)
	if s == nil {
		return false
	}
	m.current = s
	m.moving = true
	m.lastPos = pos
	return true
}

// EndMove releases a grabbed shape.
func (m *Manager) EndMove() { m.moving = false }

// IsMoving reports whether a shape is grabbed.
func (m *Manager) IsMoving() bool { return m.moving }

// MoveShape translates s.
func (m *Manager) MoveShape(s Shape, dx, dy float64) {
	if s == nil || m.disposed || (dx == 0 && dy == 0) {
		return
	}
	s.Move(dx, dy)
	m.modified = true
}

// ResizeShape sets the rectangle of s.
func (m *Manager) ResizeShape(s Shape, r geom.Rect) {
	if s == nil || m.disposed {
		return
	}
	s.Resize(r)
	m.modified = true
}

// SetStyle changes the style of s.
func (m *Manager) SetStyle(s Shape, st Style) {
	if s == nil || m.disposed {
		return
	}
	s.SetStyle(st)
	m.modified = true
}

// SetText replaces the content of a text shape and refits its box.
func (m *Manager) SetText(s *TextDrawing, text string) {
	if s == nil || m.disposed {
		return
	}
	s.Text = text
	s.AutoSize()
	m.modified = true
}

// DeleteShape removes s from the collection.
func (m *Manager) DeleteShape(s Shape) {
	if m.disposed {
		return
	}
	m.remove(s)
}

// DeleteCurrent removes the selected shape.
func (m *Manager) DeleteCurrent() { m.DeleteShape(m.current) }

// Undo removes the most recently added shape.
func (m *Manager) Undo() {
	if m.creating || len(m.shapes) == 0 {
		return
	}
	m.remove(m.shapes[len(m.shapes)-1])
}

func (m *Manager) remove(s Shape) {
	if s == nil {
		return
	}
	i := slices.Index(m.shapes, s)
	if i < 0 {
		return
	}
	m.shapes = slices.Delete(m.shapes, i, i+1)
	s.Dispose()
	if m.current == s {
		m.current = nil
		m.moving = false
	}
	if m.hoverShape == s {
		m.hoverShape = nil
	}
	m.modified = true
}

// CurrentShape is the shape being created, moved or last selected.
func (m *Manager) CurrentShape() Shape { return m.current }

// CurrentRectangle is the rectangle of the current shape.
func (m *Manager) CurrentRectangle() geom.Rect {
	if m.current == nil {
		return geom.Rect{}
	}
	return m.current.Rect()
}

// IsCurrentShapeValid reports whether the current shape has valid geometry.
func (m *Manager) IsCurrentShapeValid() bool {
	return m.current != nil && m.current.IsValid()
}

// IsCurrentShapeTypeRegion reports whether the current shape is a region.
func (m *Manager) IsCurrentShapeTypeRegion() bool {
	return m.current != nil && m.current.Category() == Region
}

// SnapPreview returns the rectangle every snap size would produce for the
// current creation gesture. It is empty unless snapping a non freehand
// shape.
func (m *Manager) SnapPreview() []geom.Rect {
	if !m.creating || !m.snapping || m.current == nil || m.current.Type().IsFreehand() {
		return nil
	}
	start, end := m.current.StartPosition(), m.current.EndPosition()
	out := make([]geom.Rect, 0, len(m.opts.SnapSizes))
	for _, size := range m.opts.SnapSizes {
		out = append(out, geom.FromPoints(start, geom.SnapPoint(start, end, size)))
	}
	return out
}

// SetSnapping turns snapping of new rectangles to the preset sizes on or off.
func (m *Manager) SetSnapping(on bool) { m.snapping = on }

// IsSnapping reports whether snapping is on.
func (m *Manager) IsSnapping() bool { return m.snapping }

// SetPanning marks a pan gesture of the view in progress.
func (m *Manager) SetPanning(on bool) { m.panning = on }

// IsPanning reports whether a pan gesture is in progress.
func (m *Manager) IsPanning() bool { return m.panning }

// IsModified reports whether any shape changed since the last reset.
func (m *Manager) IsModified() bool { return m.modified }

// ResetModified clears the modified flag after the image was handed off.
func (m *Manager) ResetModified() { m.modified = false }

// SetWindows publishes window rectangles in client coordinates, topmost
// first. It is safe to call from any goroutine.
func (m *Manager) SetWindows(rects []geom.Rect) {
	cp := slices.Clone(rects)
	m.windows.Store(&cp)
}

// Windows returns the published window rectangles, empty until the first
// publication.
func (m *Manager) Windows() []geom.Rect {
	if p := m.windows.Load(); p != nil {
		return *p
	}
	return nil
}

// Update runs once per frame with the pointer position in client
// coordinates. It advances the active gesture and recomputes the hover
// target.
func (m *Manager) Update(pos geom.Point) {
	if m.disposed {
		return
	}
	m.Tooltip.Update()
	switch {
	case m.creating:
		m.UpdateCreation(pos)
	case m.moving:
		d := pos.Sub(m.lastPos)
		m.MoveShape(m.current, d.X, d.Y)
		m.lastPos = pos
	}
	m.hoverShape, m.hoverRect = nil, geom.Rect{}
	if m.creating || m.moving {
		return
	}
	if s := m.HitTest(pos); s != nil {
		m.hoverShape, m.hoverRect = s, s.Rect()
		return
	}
	if r, ok := m.windowAt(pos); ok {
		m.hoverRect = r
	}
}

func (m *Manager) windowAt(pos geom.Point) (geom.Rect, bool) {
	if m.opts.EditorMode || !m.opts.DetectWindows {
		return geom.Rect{}, false
	}
	for _, r := range m.Windows() {
		if r.IsValid() && r.Contains(pos) {
			return r, true
		}
	}
	return geom.Rect{}, false
}

// hoverAt finds the hover rectangle under pos ignoring skip.
func (m *Manager) hoverAt(pos geom.Point, skip Shape) (geom.Rect, bool) {
	for i := len(m.shapes) - 1; i >= 0; i-- {
		s := m.shapes[i]
		if s != skip && s.IsValid() && s.Contains(pos) {
			return s.Rect(), true
		}
	}
	return m.windowAt(pos)
}

// HoverShape returns the shape under the pointer at the last Update.
func (m *Manager) HoverShape() Shape { return m.hoverShape }

// HoverRect returns the hover target rectangle at the last Update.
func (m *Manager) HoverRect() (geom.Rect, bool) {
	return m.hoverRect, m.hoverRect.IsValid()
}

// PreviousHoverRect is the hover rectangle recorded by the renderer on the
// previous frame.
func (m *Manager) PreviousHoverRect() geom.Rect { return m.prevHover }

// SetPreviousHoverRect records the hover rectangle drawn this frame.
func (m *Manager) SetPreviousHoverRect(r geom.Rect) { m.prevHover = r }

// SelectHover turns the current hover target into a completed rectangle
// region. It reports false when nothing is hovered.
func (m *Manager) SelectHover() bool {
	r, ok := m.HoverRect()
	if !ok || m.disposed {
		return false
	}
	s := NewRectangleRegion(m.StyleFor(RegionRectangle))
	s.Resize(r)
	m.AddShape(s)
	m.current = s
	return true
}

// Dispose releases every shape. The manager ignores mutations afterwards.
func (m *Manager) Dispose() {
	if m.disposed {
		return
	}
	for _, s := range m.shapes {
		s.Dispose()
	}
	m.shapes, m.current, m.hoverShape = nil, nil, nil
	m.creating, m.moving = false, false
	m.Tooltip.Stop()
	m.disposed = true
}

// IsDisposed reports whether Dispose ran.
func (m *Manager) IsDisposed() bool { return m.disposed }
