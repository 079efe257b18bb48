package overlay

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"

	"github.com/example/regionshot/internal/anim"
	"github.com/example/regionshot/internal/geom"
	"github.com/example/regionshot/internal/render"
)

// Font sizes of the info boxes and of the tooltips.
const (
	infoFontSize   = 12
	mediumFontSize = 15
)

type textColors struct {
	background, outer, inner color.Color
	text, shadow             color.Color
}

func (o *Overlay) textColors() textColors {
	t := o.theme
	return textColors{t.TextBackground, t.TextOuterBorder, t.TextInnerBorder, t.Text, t.TextShadow}
}

// fadedTextColors scales the box by opacity. Borders and background never
// exceed 200/255 so the box stays translucent.
func (o *Overlay) fadedTextColors(opacity float64) textColors {
	t := o.theme
	box := opacity * 200 / 255
	return textColors{
		background: withAlpha(t.TextBackground, box),
		outer:      withAlpha(t.TextOuterBorder, box),
		inner:      withAlpha(t.TextInnerBorder, box),
		text:       withAlpha(t.Text, opacity),
		shadow:     withAlpha(t.TextShadow, opacity),
	}
}

func withAlpha(c color.RGBA, a float64) color.RGBA {
	c.A = uint8(math.Round(geom.Clamp(a, 0, 1) * 255))
	return c
}

func face(size float64) (text.Face, error) {
	f, err := render.Face(size)
	if err != nil {
		return nil, fmt.Errorf("info font: %w", err)
	}
	return f, nil
}

// measureText returns the size of s, which may span several lines.
func measureText(f text.Face, s string) (w, h float64) {
	lines := strings.Split(s, "\n")
	for _, l := range lines {
		lw, _ := text.Measure(l, f)
		w = math.Max(w, lw)
	}
	return math.Ceil(w), math.Ceil(lineHeight(f) * float64(len(lines)))
}

func lineHeight(f text.Face) float64 {
	m := f.Metrics()
	return m.Ascent + m.Descent + m.LineGap
}

// drawTextWithShadow draws s with its top left corner at at and a one pixel
// shadow below right.
func drawTextWithShadow(dc *gg.Context, f text.Face, s string, at geom.Point, fg, shadow color.Color) {
	dc.SetFont(f)
	asc, lh := f.Metrics().Ascent, lineHeight(f)
	for i, l := range strings.Split(s, "\n") {
		y := at.Y + asc + float64(i)*lh
		dc.SetColor(shadow)
		dc.DrawString(l, at.X+1, y+1)
		dc.SetColor(fg)
		dc.DrawString(l, at.X, y)
	}
}

// drawInfoText draws a framed text box filling rect.
func drawInfoText(dc *gg.Context, f text.Face, s string, rect geom.Rect, padding float64, c textColors) error {
	bg := rect.Offset(-2)
	dc.ClearPath()
	dc.SetColor(c.background)
	dc.DrawRectangle(bg.X, bg.Y, bg.W, bg.H)
	if err := dc.Fill(); err != nil {
		return err
	}
	if err := strokeRect(dc, rect.Offset(-1), c.inner, 1); err != nil {
		return err
	}
	if err := strokeRect(dc, rect, c.outer, 1); err != nil {
		return err
	}
	drawTextWithShadow(dc, f, s, rect.Location().Add(geom.Pt(padding, padding)), c.text, c.shadow)
	return nil
}

// drawAreaText places the call-out above area, or inside its top left
// corner when that would leave the client area, and keeps it inside the
// client width.
func (o *Overlay) drawAreaText(dc *gg.Context, s string, area geom.Rect) error {
	const offset, padding = 6, 3
	f, err := face(infoFontSize)
	if err != nil {
		return err
	}
	w, h := measureText(f, s)
	client := o.view.Client
	var pos geom.Point
	if area.Y-offset-h-padding*2 < client.Y {
		pos = geom.Pt(area.X+offset+padding, area.Y+offset+padding)
	} else {
		pos = geom.Pt(area.X+padding, area.Y-offset-padding-h)
	}
	if pos.X+w+padding >= client.W {
		pos.X = client.W - w - padding
	}
	bg := geom.R(pos.X-padding, pos.Y-padding, w+padding*2, h+padding*2)
	return drawInfoText(dc, f, s, bg, padding, o.textColors())
}

func (o *Overlay) drawTextAnimation(dc *gg.Context, t *anim.TextAnimation) error {
	const padding = 3
	f, err := face(mediumFontSize)
	if err != nil {
		return err
	}
	w, h := measureText(f, t.Text)
	r := geom.R(t.Position.X, t.Position.Y, w+padding*2, h+padding*2)
	return drawInfoText(dc, f, t.Text, r, padding, o.fadedTextColors(t.Opacity))
}

// drawBottomTip centres t near the bottom of the client area.
func (o *Overlay) drawBottomTip(dc *gg.Context, t *anim.TextAnimation) error {
	const padding, margin = 5, 20
	f, err := face(mediumFontSize)
	if err != nil {
		return err
	}
	w, h := measureText(f, t.Text)
	w, h = w+padding*2, h+padding*2
	c := o.view.Client
	r := geom.R(c.W/2-w/2, c.H-h-margin, w, h)
	return drawInfoText(dc, f, t.Text, r, padding, o.fadedTextColors(t.Opacity))
}
