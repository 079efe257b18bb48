package shape

import (
	"image"
	"image/draw"

	"github.com/anthonynsimon/bild/blend"
	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/transform"
	"github.com/gogpu/gg"
)

// effect processes the canvas pixels under its rectangle. The processed
// image is cached until the rectangle or the source canvas changes.
type effect struct {
	base
	apply func(src *image.RGBA) image.Image

	cacheRect image.Rectangle
	cacheSrc  image.Image
	cache     *gg.ImageBuf
}

func (e *effect) Draw(s *Surface) error {
	r := s.CanvasRect(e.rect)
	if r.Empty() {
		return nil
	}
	if e.cache == nil || e.cacheRect != r || e.cacheSrc != s.Canvas {
		sub := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
		draw.Draw(sub, sub.Bounds(), s.Canvas, r.Min, draw.Src)
		e.cache = gg.ImageBufFromImage(e.apply(sub))
		e.cacheRect, e.cacheSrc = r, s.Canvas
	}
	at := s.Point(s.CanvasOrigin.Add(pointOf(r.Min)))
	s.DC.DrawImageEx(e.cache, gg.DrawImageOptions{
		X:             at.X,
		Y:             at.Y,
		Interpolation: gg.InterpNearest,
		Opacity:       1,
		BlendMode:     gg.BlendNormal,
	})
	return nil
}

// Dispose drops the cached raster.
func (e *effect) Dispose() {
	e.cache, e.cacheSrc = nil, nil
}

// BlurEffect applies a gaussian blur.
type BlurEffect struct {
	effect
	Radius float64
}

func NewBlurEffect(st Style) *BlurEffect {
	b := &BlurEffect{effect: effect{base: newBase(EffectBlur, st)}, Radius: 15}
	b.apply = func(src *image.RGBA) image.Image { return blur.Gaussian(src, b.Radius) }
	return b
}

// PixelateEffect replaces blocks of Size pixels with their average.
type PixelateEffect struct {
	effect
	Size int
}

func NewPixelateEffect(st Style) *PixelateEffect {
	p := &PixelateEffect{effect: effect{base: newBase(EffectPixelate, st)}, Size: 15}
	p.apply = func(src *image.RGBA) image.Image {
		w, h := src.Bounds().Dx(), src.Bounds().Dy()
		n := max(p.Size, 1)
		small := transform.Resize(src, max(w/n, 1), max(h/n, 1), transform.Box)
		return transform.Resize(small, w, h, transform.NearestNeighbor)
	}
	return p
}

// HighlightEffect multiplies the area with the fill colour, like a marker
// pen.
type HighlightEffect struct{ effect }

func NewHighlightEffect(st Style) *HighlightEffect {
	h := &HighlightEffect{effect{base: newBase(EffectHighlight, st)}}
	h.apply = func(src *image.RGBA) image.Image {
		fg := image.NewRGBA(src.Bounds())
		draw.Draw(fg, fg.Bounds(), image.NewUniform(h.style.FillColor), image.Point{}, draw.Src)
		return blend.Multiply(src, fg)
	}
	return h
}
