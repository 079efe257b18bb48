package shape

import (
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/regionshot/internal/geom"
	"github.com/example/regionshot/internal/regionpath"
)

func TestTypeCategories(t *testing.T) {
	cases := map[Type]Category{
		RegionRectangle:  Region,
		RegionFreehand:   Region,
		DrawingRectangle: Drawing,
		DrawingStep:      Drawing,
		EffectBlur:       Effect,
		EffectHighlight:  Effect,
		ToolCrop:         Tool,
	}
	for typ, want := range cases {
		assert.Equal(t, want, typ.Category(), typ.String())
	}
	typ, ok := ParseType("arrow")
	require.True(t, ok)
	assert.Equal(t, DrawingArrow, typ)
}

func TestRegionContributions(t *testing.T) {
	r := NewRectangleRegion(Style{})
	r.Resize(geom.R(10, 10, 100, 50))
	e := NewEllipseRegion(Style{})
	e.Resize(geom.R(200, 10, 100, 50))

	fill := regionpath.Merge([]RegionShape{r, e}, 0)
	require.Equal(t, 4+13, fill.Len())
	assert.Equal(t, geom.R(10, 10, 290, 50), fill.Bounds())

	assert.True(t, e.Contains(geom.Pt(250, 35)))
	assert.False(t, e.Contains(geom.Pt(201, 11)), "corners of the box are outside the ellipse")
}

func TestFreehandRegionPolygon(t *testing.T) {
	f := NewFreehandRegion(Style{})
	f.Begin(geom.Pt(0, 0))
	f.Extend(geom.Pt(0, 0))
	f.Extend(geom.Pt(100, 0))
	f.Extend(geom.Pt(100, 100))
	f.Extend(geom.Pt(0, 100))
	require.True(t, f.IsValid())
	assert.Len(t, f.Points(), 4, "repeated points are skipped")
	assert.True(t, f.Contains(geom.Pt(50, 50)))

	f.Move(10, 10)
	assert.Equal(t, geom.R(10, 10, 100, 100), f.Rect())
	p := regionpath.New()
	f.AddPath(p, -1)
	assert.Equal(t, geom.R(10, 10, 100, 100), p.Bounds())
}

func TestLineHitTolerance(t *testing.T) {
	l := NewLineDrawing(DefaultStyle(DrawingLine))
	l.Begin(geom.Pt(0, 0))
	l.Extend(geom.Pt(100, 0))
	assert.True(t, l.IsValid(), "horizontal lines are valid")
	assert.True(t, l.Contains(geom.Pt(50, 3)))
	assert.False(t, l.Contains(geom.Pt(50, 30)))
}

func TestRectangleDrawingRenders(t *testing.T) {
	dc := gg.NewContext(40, 40)
	defer dc.Close()
	st := Style{FillColor: color.RGBA{0, 0, 255, 255}}
	d := NewRectangleDrawing(st)
	d.Resize(geom.R(10, 10, 20, 20))
	require.NoError(t, d.Draw(&Surface{DC: dc}))

	img := dc.Image().(*image.RGBA)
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, img.RGBAAt(20, 20))
	assert.Equal(t, uint8(0), img.RGBAAt(2, 2).A)
}

func TestSurfaceOffsetShiftsDrawing(t *testing.T) {
	dc := gg.NewContext(40, 40)
	defer dc.Close()
	d := NewRectangleDrawing(Style{FillColor: color.RGBA{255, 0, 0, 255}})
	d.Resize(geom.R(110, 110, 10, 10))
	require.NoError(t, d.Draw(&Surface{DC: dc, Offset: geom.Pt(-100, -100)}))
	img := dc.Image().(*image.RGBA)
	assert.Equal(t, uint8(255), img.RGBAAt(15, 15).A)
}

func TestEffectCachesUntilRectChanges(t *testing.T) {
	canvas := image.NewRGBA(image.Rect(0, 0, 50, 50))
	for i := range canvas.Pix {
		canvas.Pix[i] = 200
	}
	dc := gg.NewContext(50, 50)
	defer dc.Close()
	s := &Surface{DC: dc, Canvas: canvas}

	calls := 0
	b := NewBlurEffect(Style{})
	inner := b.apply
	b.apply = func(src *image.RGBA) image.Image {
		calls++
		return inner(src)
	}
	b.Resize(geom.R(5, 5, 20, 20))
	require.NoError(t, b.Draw(s))
	require.NoError(t, b.Draw(s))
	assert.Equal(t, 1, calls)

	b.Move(1, 0)
	require.NoError(t, b.Draw(s))
	assert.Equal(t, 2, calls)

	b.Dispose()
	assert.Nil(t, b.cache)
}

func TestCropToolApply(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	img.SetRGBA(30, 40, color.RGBA{1, 2, 3, 255})
	c := NewCropTool(Style{})
	c.Resize(geom.R(120, 130, 20, 20))

	out, origin := c.Apply(img, geom.Pt(100, 100))
	require.Equal(t, image.Rect(0, 0, 20, 20), out.Bounds())
	assert.Equal(t, geom.Pt(120, 130), origin)
	assert.Equal(t, color.RGBA{1, 2, 3, 255}, out.RGBAAt(10, 10))
}
