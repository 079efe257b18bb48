package overlay

import (
	"image"
	"image/color"

	"github.com/gogpu/gg"
	xdraw "golang.org/x/image/draw"

	"github.com/example/regionshot/internal/geom"
)

const (
	fallbackPixelCount = 15
	fallbackPixelSize  = 10
)

// magnifierSize forces an odd pixel count so one pixel sits in the middle,
// and falls back to the defaults when the loupe would not fit the client.
func magnifierSize(count, size int, client geom.Rect) (int, int) {
	count = geom.ClampInt(count|1, 1, 101)
	size = geom.ClampInt(size, 1, 1000)
	if float64(count*size) > client.W || float64(count*size) > client.H {
		return fallbackPixelCount, fallbackPixelSize
	}
	return count, size
}

// magnify enlarges the count×count pixels of canvas centred on at. Pixels
// outside the canvas are black. The centre pixel is framed and the row and
// column through it are tinted with band.
func magnify(canvas *image.RGBA, at image.Point, count, size int, band, grid color.RGBA) *image.RGBA {
	w := count * size
	src := image.NewRGBA(image.Rect(0, 0, count, count))
	xdraw.Draw(src, src.Bounds(), image.Black, image.Point{}, xdraw.Src)
	xdraw.Draw(src, src.Bounds(), canvas, at.Sub(image.Pt(count/2, count/2)), xdraw.Src)

	bmp := image.NewRGBA(image.Rect(0, 0, w-1, w-1))
	xdraw.NearestNeighbor.Scale(bmp, image.Rect(0, 0, w, w), src, src.Bounds(), xdraw.Src, nil)

	tint := image.NewUniform(color.NRGBA(band))
	half, mid := (w-size)/2, (w+size)/2
	for _, r := range []image.Rectangle{
		image.Rect(0, half, half, half+size),
		image.Rect(mid, half, mid+half, half+size),
		image.Rect(half, 0, half+size, half),
		image.Rect(half, mid, half+size, mid+half),
	} {
		xdraw.Draw(bmp, r, tint, image.Point{}, xdraw.Over)
	}

	lines := image.NewUniform(color.NRGBA(grid))
	for i := 1; i < count; i++ {
		p := i*size - 1
		xdraw.Draw(bmp, image.Rect(p, 0, p+1, w), lines, image.Point{}, xdraw.Over)
		xdraw.Draw(bmp, image.Rect(0, p, w, p+1), lines, image.Point{}, xdraw.Over)
	}

	outline(bmp, image.Rect(half-1, half-1, half-1+size, half-1+size), color.Black)
	if size >= 6 {
		outline(bmp, image.Rect(half, half, half+size-2, half+size-2), color.White)
	}
	return bmp
}

// outline draws a one pixel frame whose far edges lie on r.Max, inclusive.
func outline(img *image.RGBA, r image.Rectangle, c color.Color) {
	u := image.NewUniform(c)
	for _, e := range []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X+1, r.Min.Y+1),
		image.Rect(r.Min.X, r.Max.Y, r.Max.X+1, r.Max.Y+1),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y+1),
		image.Rect(r.Max.X, r.Min.Y, r.Max.X+1, r.Max.Y+1),
	} {
		xdraw.Draw(img, e, u, image.Point{}, xdraw.Src)
	}
}

// activeMonitor returns the client rectangle of the monitor under p.
func (o *Overlay) activeMonitor(p geom.Point) geom.Rect {
	space := o.Space()
	for _, m := range o.monitors {
		loc := space.ScreenToClient(m.Location())
		r := geom.R(loc.X, loc.Y, m.W, m.H)
		if r.Contains(p) {
			return r
		}
	}
	return o.view.Client
}

// (k) The magnifier and the info box follow the pointer and flip to the
// other side when they would leave the monitor.
func (o *Overlay) drawCursorGraphics(dc *gg.Context) error {
	if !o.opts.ShowMagnifier && !o.opts.ShowInfo {
		return nil
	}
	const cursorOffset, itemGap, infoPadding = 10, 10, 3
	p := o.input.Client
	var (
		total    geom.Size
		items    int
		mag      *image.RGBA
		magY     float64
		info     string
		infoRect geom.Rect
		infoY    float64
	)
	if o.opts.ShowMagnifier {
		count, size := magnifierSize(o.opts.MagnifierPixelCount, o.opts.MagnifierPixelSize, o.view.Client)
		at := o.input.Canvas.Image()
		mag = magnify(o.canvas, at.Add(o.canvas.Rect.Min), count, size, o.theme.MagnifierBand, o.theme.MagnifierGrid)
		magY = total.H
		b := mag.Bounds()
		total.W = max(total.W, float64(b.Dx()))
		total.H += float64(b.Dy())
		items++
	}
	f, err := face(infoFontSize)
	if err != nil {
		return err
	}
	if o.opts.ShowInfo {
		if items > 0 {
			total.H += itemGap
		}
		infoY = total.H
		info = o.infoText()
		w, h := measureText(f, info)
		infoRect = geom.R(0, 0, w+infoPadding*2, h+infoPadding*2)
		total.W = max(total.W, infoRect.W)
		total.H += infoRect.H
	}

	bounds := o.activeMonitor(p)
	x := p.X + cursorOffset
	if x+total.W > bounds.Right() {
		x = p.X - cursorOffset - total.W
	}
	y := p.Y + cursorOffset
	if y+total.H > bounds.Bottom() {
		y = p.Y - cursorOffset - total.H
	}

	if mag != nil {
		if err := o.drawMagnifier(dc, mag, geom.Pt(x, y+magY)); err != nil {
			return err
		}
	}
	if o.opts.ShowInfo {
		infoRect.X = x + total.W/2 - infoRect.W/2
		infoRect.Y = y + infoY
		return drawInfoText(dc, f, info, infoRect, infoPadding, o.textColors())
	}
	return nil
}

func (o *Overlay) drawMagnifier(dc *gg.Context, mag *image.RGBA, at geom.Point) error {
	b := geom.FromImageRect(mag.Bounds())
	r := geom.R(at.X, at.Y, b.W, b.H)
	if o.opts.UseSquareMagnifier {
		dc.DrawImageEx(gg.ImageBufFromImage(mag), gg.DrawImageOptions{
			X:             at.X,
			Y:             at.Y,
			Interpolation: gg.InterpNearest,
			Opacity:       1,
			BlendMode:     gg.BlendNormal,
		})
		if err := strokeRect(dc, r.Offset(1), color.White, 1); err != nil {
			return err
		}
		return strokeRect(dc, r, color.Black, 1)
	}
	c := r.Center()
	dc.ClearPath()
	dc.SetFillBrush(canvasBrush(mag, at))
	dc.DrawEllipse(c.X, c.Y, r.W/2, r.H/2)
	if err := dc.Fill(); err != nil {
		return err
	}
	dc.SetLineWidth(1)
	dc.SetColor(color.White)
	dc.DrawEllipse(c.X, c.Y, r.W/2+0.5, r.H/2+0.5)
	if err := dc.Stroke(); err != nil {
		return err
	}
	dc.SetColor(color.Black)
	dc.DrawEllipse(c.X, c.Y, r.W/2-0.5, r.H/2-0.5)
	return dc.Stroke()
}
