package result

import (
	"image"
	"image/color"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/regionshot/internal/anim"
	"github.com/example/regionshot/internal/geom"
	"github.com/example/regionshot/internal/regionpath"
	"github.com/example/regionshot/internal/shape"
)

func noise(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	r := rand.New(rand.NewSource(1))
	r.Read(img.Pix)
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	return img
}

func fullSpace(w, h float64) geom.Space {
	return geom.Space{Screen: geom.R(0, 0, w, h), Canvas: geom.R(0, 0, w, h)}
}

func newManager(bounds geom.Rect) *shape.Manager {
	return shape.NewManager(anim.NewManualClock(time.Unix(0, 0)), bounds, shape.Options{})
}

func TestRegionIsPixelIdentical(t *testing.T) {
	canvas := noise(1920, 1080)
	m := newManager(geom.R(0, 0, 1920, 1080))
	m.StartCreation(geom.Pt(100, 100))
	m.UpdateCreation(geom.Pt(400, 300))
	require.NotNil(t, m.EndCreation())

	out, ok := Extract(Request{Mode: Region, Canvas: canvas, Space: fullSpace(1920, 1080), Shapes: m})
	require.True(t, ok)
	require.Equal(t, image.Rect(0, 0, 300, 200), out.Bounds())
	for y := 0; y < 200; y++ {
		for x := 0; x < 300; x++ {
			if out.RGBAAt(x, y) != canvas.RGBAAt(100+x, 100+y) {
				t.Fatalf("pixel %d,%d = %v want %v", x, y, out.RGBAAt(x, y), canvas.RGBAAt(100+x, 100+y))
			}
		}
	}
}

func TestEllipseRegionClearsCorners(t *testing.T) {
	canvas := noise(200, 200)
	m := newManager(geom.R(0, 0, 200, 200))
	m.SetCurrentType(shape.RegionEllipse, geom.Point{})
	m.StartCreation(geom.Pt(50, 50))
	m.UpdateCreation(geom.Pt(150, 150))
	require.NotNil(t, m.EndCreation())

	out, ok := Extract(Request{Mode: Region, Canvas: canvas, Space: fullSpace(200, 200), Shapes: m})
	require.True(t, ok)
	assert.Equal(t, uint8(0), out.RGBAAt(1, 1).A)
	assert.Equal(t, canvas.RGBAAt(100, 100), out.RGBAAt(50, 50))
}

func TestRegionWithoutShapesIsFullCanvas(t *testing.T) {
	canvas := noise(64, 48)
	out, ok := Extract(Request{Mode: Region, Canvas: canvas, Space: fullSpace(64, 48), Shapes: newManager(geom.R(0, 0, 64, 48))})
	require.True(t, ok)
	assert.Equal(t, canvas.Pix, out.Pix)
}

func TestFullscreenIsExactCopy(t *testing.T) {
	canvas := noise(1920, 1080)
	out, ok := Extract(Request{Mode: Fullscreen, Canvas: canvas, Space: fullSpace(1920, 1080)})
	require.True(t, ok)
	require.Equal(t, canvas.Bounds(), out.Bounds())
	assert.True(t, string(canvas.Pix) == string(out.Pix), "fullscreen output differs from the canvas")
	out.Pix[0]++
	assert.NotEqual(t, canvas.Pix[0], out.Pix[0], "output must not alias the canvas")
}

func TestLastRegionWithoutSessionRegion(t *testing.T) {
	_, ok := Extract(Request{Mode: LastRegion, Canvas: noise(10, 10), Session: NewSession()})
	assert.False(t, ok)
}

func TestLastRegionUsesScreenCoordinates(t *testing.T) {
	s := NewSession()
	p := regionpath.New()
	p.AddRectangle(geom.R(1010, 20, 30, 40))
	s.SetLastRegion(p)

	canvas := noise(200, 200)
	space := geom.Space{Screen: geom.R(1000, 0, 200, 200), Canvas: geom.R(0, 0, 200, 200)}
	out, ok := Extract(Request{Mode: LastRegion, Canvas: canvas, Space: space, Session: s})
	require.True(t, ok)
	require.Equal(t, image.Rect(0, 0, 30, 40), out.Bounds())
	assert.Equal(t, canvas.RGBAAt(10, 20), out.RGBAAt(0, 0))
}

func TestSessionReplacesRegion(t *testing.T) {
	s := NewSession()
	a := regionpath.New()
	a.AddRectangle(geom.R(0, 0, 10, 10))
	s.SetLastRegion(a)
	b := regionpath.New()
	b.AddRectangle(geom.R(5, 5, 10, 10))
	s.SetLastRegion(b)

	got, ok := s.LastRegion()
	require.True(t, ok)
	assert.Equal(t, geom.R(5, 5, 10, 10), got.Bounds())
	assert.Equal(t, 4, a.Len(), "caller's path is untouched")

	s.Clear()
	_, ok = s.LastRegion()
	assert.False(t, ok)
}

func TestMonitorSelection(t *testing.T) {
	canvas := noise(300, 100)
	monitors := []geom.Rect{geom.R(0, 0, 100, 100), geom.R(100, 0, 200, 100)}
	req := Request{Mode: Monitor, Canvas: canvas, Space: fullSpace(300, 100), Monitors: monitors}

	req.MonitorIndex = 1
	out, ok := Extract(req)
	require.True(t, ok)
	assert.Equal(t, image.Rect(0, 0, 200, 100), out.Bounds())
	assert.Equal(t, canvas.RGBAAt(100, 0), out.RGBAAt(0, 0))

	req.MonitorIndex = 2
	_, ok = Extract(req)
	assert.False(t, ok, "index past the monitor count yields nothing")

	req.Mode = ActiveMonitor
	req.Cursor = geom.Pt(250, 50)
	out, ok = Extract(req)
	require.True(t, ok)
	assert.Equal(t, 200, out.Bounds().Dx())
}

func TestEditorBakesDrawingsAndCrops(t *testing.T) {
	canvas := image.NewRGBA(image.Rect(0, 0, 100, 100))
	m := shape.NewManager(anim.NewManualClock(time.Unix(0, 0)), geom.R(0, 0, 100, 100), shape.Options{EditorMode: true})
	d := shape.NewRectangleDrawing(shape.Style{FillColor: color.RGBA{0, 255, 0, 255}})
	d.Resize(geom.R(10, 10, 20, 20))
	m.AddShape(d)
	c := shape.NewCropTool(shape.Style{})
	c.Resize(geom.R(5, 5, 50, 50))
	m.AddShape(c)

	out, ok := Extract(Request{Editor: true, Canvas: canvas, Space: fullSpace(100, 100), Shapes: m})
	require.True(t, ok)
	require.Equal(t, image.Rect(0, 0, 50, 50), out.Bounds())
	assert.Equal(t, color.RGBA{0, 255, 0, 255}, out.RGBAAt(15, 15))
	assert.Equal(t, uint8(0), out.RGBAAt(1, 1).A)
}

func TestCloseYieldsNothing(t *testing.T) {
	_, ok := Extract(Request{Mode: Close, Canvas: noise(4, 4)})
	assert.False(t, ok)
	_, ok = Extract(Request{Mode: Fullscreen})
	assert.False(t, ok)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("active-monitor")
	require.NoError(t, err)
	assert.Equal(t, ActiveMonitor, m)
	_, err = ParseMode("nope")
	assert.Error(t, err)
}
