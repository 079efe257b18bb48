package overlay

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/gogpu/gg"

	"github.com/example/regionshot/internal/geom"
	"github.com/example/regionshot/internal/regionpath"
	"github.com/example/regionshot/internal/shape"
)

// Renderer owns the render target and the rasters reused between frames.
type Renderer struct {
	dc *gg.Context

	canvasSrc *image.RGBA
	canvasBuf *gg.ImageBuf
}

func NewRenderer() *Renderer {
	bridgeRendererLog()
	return &Renderer{}
}

// target returns the render target sized to the client area.
func (r *Renderer) target(w, h int) (*gg.Context, error) {
	w, h = max(w, 1), max(h, 1)
	if r.dc == nil {
		r.dc = gg.NewContext(w, h)
		return r.dc, nil
	}
	if err := r.dc.Resize(w, h); err != nil {
		return nil, fmt.Errorf("resize render target: %w", err)
	}
	return r.dc, nil
}

// canvasImage converts the canvas once per source image.
func (r *Renderer) canvasImage(img *image.RGBA) *gg.ImageBuf {
	if r.canvasBuf == nil || r.canvasSrc != img {
		r.canvasBuf = gg.ImageBufFromImage(img)
		r.canvasSrc = img
	}
	return r.canvasBuf
}

// Image returns the last frame, or nil before the first one.
func (r *Renderer) Image() image.Image {
	if r.dc == nil {
		return nil
	}
	return r.dc.Image()
}

// Close releases the render target.
func (r *Renderer) Close() error {
	r.canvasBuf, r.canvasSrc = nil, nil
	if r.dc == nil {
		return nil
	}
	err := r.dc.Close()
	r.dc = nil
	return err
}

// canvasBrush paints the captured image placed at origin, so any path
// filled with it shows the undimmed screen.
func canvasBrush(img *image.RGBA, origin geom.Point) gg.CustomBrush {
	return gg.CustomBrush{
		Name: "canvas",
		Func: func(x, y float64) gg.RGBA {
			p := image.Pt(int(math.Floor(x-origin.X)), int(math.Floor(y-origin.Y)))
			if !p.In(img.Rect) {
				return gg.Transparent
			}
			return gg.FromColor(img.RGBAAt(p.X, p.Y))
		},
	}
}

func checkerBrush(light, dark color.RGBA, size float64) gg.CustomBrush {
	l, d := gg.FromColor(light), gg.FromColor(dark)
	return gg.CustomBrush{
		Name: "checker",
		Func: func(x, y float64) gg.RGBA {
			if (int(math.Floor(x/size))+int(math.Floor(y/size)))%2 == 0 {
				return l
			}
			return d
		},
	}
}

type layer struct {
	name string
	draw func(*gg.Context) error
}

// layers lists the frame layers bottom to top.
func (o *Overlay) layers() []layer {
	return []layer{
		{"background", o.drawBackground},
		{"dim", o.drawDim},
		{"canvas-border", o.drawCanvasBorder},
		{"snap-preview", o.drawSnapPreview},
		{"regions", o.drawRegions},
		{"effects", o.drawEffects},
		{"drawings", o.drawDrawings},
		{"tools", o.drawTools},
		{"hover", o.drawHover},
		{"current-region", o.drawCurrentRegion},
		{"area-text", o.drawAreaTexts},
		{"cursor-graphics", o.drawCursorGraphics},
		{"crosshair", o.drawCrosshair},
		{"tips", o.drawTips},
	}
}

// draw renders the layers of one frame. Cancellation is checked between
// layers.
func (o *Overlay) draw(ctx context.Context) error {
	client := o.view.Client
	dc, err := o.renderer.target(int(client.W), int(client.H))
	if err != nil {
		return err
	}
	dc.ResetClip()
	dc.ClearDash()
	dc.SetLineCap(gg.LineCapButt)
	dc.SetLineJoin(gg.LineJoinMiter)

	for _, l := range o.layers() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := l.draw(dc); err != nil {
			return fmt.Errorf("%s: %w", l.name, err)
		}
	}
	return nil
}

func (o *Overlay) surface(dc *gg.Context) *shape.Surface {
	return &shape.Surface{DC: dc, Canvas: o.canvas, CanvasOrigin: o.view.Canvas.Location()}
}

func (o *Overlay) drawBackground(dc *gg.Context) error {
	cv := o.view.Canvas
	if o.view.CoversClient() {
		dc.Clear()
	} else {
		dc.ClearWithColor(gg.FromColor(o.theme.CanvasBackground))
	}
	if o.opts.isEditor() {
		dc.SetFillBrush(checkerBrush(o.theme.CheckerLight, o.theme.CheckerDark, 8))
		dc.DrawRectangle(cv.X, cv.Y, cv.W, cv.H)
		if err := dc.Fill(); err != nil {
			return err
		}
	}
	dc.DrawImageEx(o.renderer.canvasImage(o.canvas), gg.DrawImageOptions{
		X:             cv.X,
		Y:             cv.Y,
		Interpolation: gg.InterpNearest,
		Opacity:       1,
		BlendMode:     gg.BlendNormal,
	})
	return nil
}

// (a)
func (o *Overlay) drawDim(dc *gg.Context) error {
	if !o.opts.UseDimming || o.opts.isEditor() {
		return nil
	}
	c := o.view.Client
	dc.SetColor(o.theme.Dim)
	dc.DrawRectangle(c.X, c.Y, c.W, c.H)
	return dc.Fill()
}

// (b)
func (o *Overlay) drawCanvasBorder(dc *gg.Context) error {
	if o.view.CoversClient() {
		return nil
	}
	return strokeRect(dc, o.view.Canvas.Offset(1), o.theme.CanvasBorder, 1)
}

// (c)
func (o *Overlay) drawSnapPreview(dc *gg.Context) error {
	for _, r := range o.manager.SnapPreview() {
		if err := strokeRect(dc, r, o.theme.Marker, 1); err != nil {
			return err
		}
	}
	return nil
}

// (d)
func (o *Overlay) drawRegions(dc *gg.Context) error {
	if o.drawPath.IsEmpty() {
		return nil
	}
	g := o.drawPath.Geometry()
	if !o.opts.isEditor() && o.opts.UseDimming {
		dc.ClearPath()
		g.AppendTo(dc)
		dc.SetFillBrush(canvasBrush(o.canvas, o.view.Canvas.Location()))
		if err := dc.Fill(); err != nil {
			return err
		}
	}
	return o.strokeAnts(dc, func() { g.AppendTo(dc) })
}

// strokeAnts strokes the path built by trace with the solid border and the
// marching dots on top.
func (o *Overlay) strokeAnts(dc *gg.Context, trace func()) error {
	dc.ClearPath()
	trace()
	dc.SetColor(o.theme.Border)
	dc.SetLineWidth(1)
	dc.ClearDash()
	if err := dc.Stroke(); err != nil {
		return err
	}
	trace()
	dc.SetColor(o.theme.BorderDot)
	dc.SetDash(5, 5)
	dc.SetDashOffset(o.dashOffset)
	err := dc.Stroke()
	dc.ClearDash()
	return err
}

// (e)
func (o *Overlay) drawEffects(dc *gg.Context) error {
	return drawShapes(o.surface(dc), o.manager.EffectShapes())
}

// (f)
func (o *Overlay) drawDrawings(dc *gg.Context) error {
	return drawShapes(o.surface(dc), o.manager.DrawingShapes())
}

// (g)
func (o *Overlay) drawTools(dc *gg.Context) error {
	tools := o.manager.ToolShapes()
	s := o.surface(dc)
	for _, t := range tools {
		if err := t.Draw(s); err != nil {
			return fmt.Errorf("draw %v: %w", t.Type(), err)
		}
	}
	return nil
}

func drawShapes(s *shape.Surface, shapes []shape.Shape) error {
	for _, sh := range shapes {
		if err := sh.Draw(s); err != nil {
			return fmt.Errorf("draw %v: %w", sh.Type(), err)
		}
	}
	return nil
}

// (h) The hover outline glides from the previous target to the new one.
func (o *Overlay) drawHover(dc *gg.Context) error {
	hover, ok := o.manager.HoverRect()
	defer o.manager.SetPreviousHoverRect(hover)
	if !ok {
		return nil
	}
	r := hover
	if o.opts.EnableAnimations {
		prev := o.manager.PreviousHoverRect()
		if !prev.IsEmpty() && hover != prev {
			from := prev
			if cur := o.hover.Current; cur.W > 2 && cur.H > 2 {
				from = cur
			}
			o.hover.From, o.hover.To = from, hover
			o.hover.Start()
		}
		o.hover.Update()
		if cur := o.hover.Current; o.hover.IsActive() && cur.W > 2 && cur.H > 2 {
			r = cur
		}
	}
	if s := o.manager.HoverShape(); s != nil && r == hover {
		if rs, ok := s.(shape.RegionShape); ok {
			p := regionpath.New()
			rs.AddPath(p, -1)
			g := p.Geometry()
			return o.strokeAnts(dc, func() { g.AppendTo(dc) })
		}
	}
	in := r.SizeOffset(-1)
	return o.strokeAnts(dc, func() { dc.DrawRectangle(in.X+0.5, in.Y+0.5, in.W, in.H) })
}

// (i)
func (o *Overlay) drawCurrentRegion(dc *gg.Context) error {
	if !o.manager.IsCurrentShapeTypeRegion() || !o.manager.IsCurrentShapeValid() {
		return nil
	}
	r := o.manager.CurrentRectangle()
	if o.opts.Mode == ModeRuler {
		dc.SetColor(color.RGBA{255, 255, 255, 50})
		dc.DrawRectangle(r.X, r.Y, r.W, r.H)
		if err := dc.Fill(); err != nil {
			return err
		}
		if err := drawRuler(dc, r, o.theme.Border, 5, 10); err != nil {
			return err
		}
		if err := drawRuler(dc, r, o.theme.Border, 15, 100); err != nil {
			return err
		}
		if err := drawCross(dc, r.Center(), 10, o.theme.Border); err != nil {
			return err
		}
	}
	in := r.SizeOffset(-1)
	return o.strokeAnts(dc, func() { dc.DrawRectangle(in.X+0.5, in.Y+0.5, in.W, in.H) })
}

// drawRuler draws ticks of length size every step units along each edge.
func drawRuler(dc *gg.Context, r geom.Rect, c color.Color, size, step float64) error {
	if r.W < size || r.H < size {
		return nil
	}
	dc.ClearPath()
	for x := step; x <= r.W; x += step {
		dc.MoveTo(r.X+x+0.5, r.Y)
		dc.LineTo(r.X+x+0.5, r.Y+size)
		dc.MoveTo(r.X+x+0.5, r.Bottom())
		dc.LineTo(r.X+x+0.5, r.Bottom()-size)
	}
	for y := step; y <= r.H; y += step {
		dc.MoveTo(r.X, r.Y+y+0.5)
		dc.LineTo(r.X+size, r.Y+y+0.5)
		dc.MoveTo(r.Right(), r.Y+y+0.5)
		dc.LineTo(r.Right()-size, r.Y+y+0.5)
	}
	dc.SetColor(c)
	dc.SetLineWidth(1)
	return dc.Stroke()
}

func drawCross(dc *gg.Context, at geom.Point, size float64, c color.Color) error {
	dc.ClearPath()
	dc.MoveTo(at.X-size, at.Y)
	dc.LineTo(at.X+size, at.Y)
	dc.MoveTo(at.X, at.Y-size)
	dc.LineTo(at.X, at.Y+size)
	dc.SetColor(c)
	dc.SetLineWidth(1)
	return dc.Stroke()
}

// (j)
func (o *Overlay) drawAreaTexts(dc *gg.Context) error {
	if !o.opts.ShowInfo {
		return nil
	}
	rects := make([]geom.Rect, 0, len(o.regions)+1)
	for _, r := range o.regions {
		rects = append(rects, r.Rect())
	}
	if hs := o.manager.HoverShape(); o.manager.CurrentType().Category() == shape.Region {
		hover, ok := o.manager.HoverRect()
		if hs != nil && hs.Category() != shape.Region {
			ok = false
		}
		if ok && !containsRect(rects, hover) {
			rects = append(rects, hover)
		}
	}
	for _, r := range rects {
		if !r.IsValid() {
			continue
		}
		if err := o.drawAreaText(dc, o.areaText(r), r); err != nil {
			return err
		}
	}
	return nil
}

func containsRect(rs []geom.Rect, r geom.Rect) bool {
	for _, x := range rs {
		if x == r {
			return true
		}
	}
	return false
}

// (l)
func (o *Overlay) drawCrosshair(dc *gg.Context) error {
	if !o.opts.ShowCrosshair {
		return nil
	}
	const offset, minLength = 5, 10
	p := o.input.Client
	c := o.view.Client
	lines := [][2]geom.Point{
		{geom.Pt(p.X-offset, p.Y), geom.Pt(0, p.Y)},
		{geom.Pt(p.X+offset, p.Y), geom.Pt(c.W-1, p.Y)},
		{geom.Pt(p.X, p.Y-offset), geom.Pt(p.X, 0)},
		{geom.Pt(p.X, p.Y+offset), geom.Pt(p.X, c.H-1)},
	}
	for _, l := range lines {
		if geom.Distance(l[0], l[1]) <= minLength {
			continue
		}
		a, b := l[0].Add(geom.Pt(0.5, 0.5)), l[1].Add(geom.Pt(0.5, 0.5))
		dc.ClearPath()
		dc.SetLineWidth(1)
		dc.SetColor(o.theme.Border)
		dc.DrawLine(a.X, a.Y, b.X, b.Y)
		if err := dc.Stroke(); err != nil {
			return err
		}
		dc.SetColor(o.theme.BorderDot)
		dc.SetDash(1, 1)
		dc.DrawLine(a.X, a.Y, b.X, b.Y)
		err := dc.Stroke()
		dc.ClearDash()
		if err != nil {
			return err
		}
	}
	return nil
}

// (m)
func (o *Overlay) drawTips(dc *gg.Context) error {
	if o.opts.isEditor() && o.opts.ShowEditorTip && o.editorTip.Update() {
		if err := o.drawBottomTip(dc, o.editorTip); err != nil {
			return err
		}
	}
	if t := o.manager.Tooltip; t.Update() {
		return o.drawTextAnimation(dc, t)
	}
	return nil
}

func strokeRect(dc *gg.Context, r geom.Rect, c color.Color, width float64) error {
	in := r.SizeOffset(-width)
	dc.ClearPath()
	dc.SetColor(c)
	dc.SetLineWidth(width)
	dc.DrawRectangle(in.X+width/2, in.Y+width/2, in.W, in.H)
	return dc.Stroke()
}
