package overlay

import (
	"context"
	"image"
	"image/color"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/regionshot/internal/anim"
	"github.com/example/regionshot/internal/geom"
	"github.com/example/regionshot/internal/result"
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

func newTestOverlay(t *testing.T, opts ...Option) (*Overlay, *anim.ManualClock) {
	t.Helper()
	clock := anim.NewManualClock(time.Unix(0, 0))
	o := New(noise(200, 200), append([]Option{WithClock(clock)}, opts...)...)
	t.Cleanup(o.Dispose)
	return o, clock
}

func TestKeysIgnoredDuringGuard(t *testing.T) {
	o, clock := newTestOverlay(t)
	o.KeyDown(Key{Rune: ' '})
	assert.Equal(t, result.Close, o.Result())
	select {
	case <-o.Done():
		t.Fatal("closed during key guard")
	default:
	}

	clock.Advance(keyGuard)
	o.KeyDown(Key{Rune: ' '})
	assert.Equal(t, result.Fullscreen, o.Result())
	<-o.Done()
}

func TestEscapeClosesImmediately(t *testing.T) {
	var closed []result.Mode
	o, _ := newTestOverlay(t, WithCallbacks(Callbacks{Closed: func(m result.Mode) { closed = append(closed, m) }}))
	o.KeyDown(Key{Code: KeyEscape})
	o.KeyDown(Key{Code: KeyEscape})
	assert.Equal(t, []result.Mode{result.Close}, closed)
	_, ok := o.Output()
	assert.False(t, ok)
}

func TestDigitPicksMonitor(t *testing.T) {
	o, clock := newTestOverlay(t)
	clock.Advance(keyGuard)
	o.KeyDown(Key{Rune: '3'})
	assert.Equal(t, result.Monitor, o.Result())
	assert.Equal(t, 2, o.MonitorIndex())
}

func TestZeroIsTenthMonitor(t *testing.T) {
	o, clock := newTestOverlay(t)
	clock.Advance(keyGuard)
	o.KeyDown(Key{Rune: '0'})
	assert.Equal(t, 9, o.MonitorIndex())
	_, ok := o.Output()
	assert.False(t, ok, "only one monitor exists")
}

func TestToolKeysSwitchType(t *testing.T) {
	o, clock := newTestOverlay(t)
	clock.Advance(keyGuard)
	o.KeyDown(Key{Rune: 'e'})
	assert.Equal(t, "region-ellipse", o.Manager().CurrentType().String())
}

func TestDragClosesWithRegion(t *testing.T) {
	session := result.NewSession()
	clock := anim.NewManualClock(time.Unix(0, 0))
	canvas := noise(200, 200)
	o := New(canvas, WithClock(clock), WithSession(session), WithScreen(geom.R(100, 50, 200, 200)))

	o.MouseDown(ButtonLeft, geom.Pt(10, 10), 0)
	o.MouseMove(geom.Pt(40, 30), 0)
	o.MouseUp(ButtonLeft, geom.Pt(60, 40), 0)
	require.Equal(t, result.Region, o.Result())

	img, ok := o.Output()
	require.True(t, ok)
	require.Equal(t, image.Rect(0, 0, 50, 30), img.Bounds())
	assert.Equal(t, canvas.RGBAAt(10, 10), img.RGBAAt(0, 0))
	assert.Equal(t, canvas.RGBAAt(59, 39), img.RGBAAt(49, 29))

	o.Dispose()
	last, ok := session.LastRegion()
	require.True(t, ok)
	assert.Equal(t, geom.R(110, 60, 50, 30), last.Bounds(), "last region is kept in screen coordinates")

	next := New(canvas, WithClock(clock), WithSession(session), WithScreen(geom.R(100, 50, 200, 200)))
	defer next.Dispose()
	next.Close(result.LastRegion)
	again, ok := next.Output()
	require.True(t, ok)
	assert.Equal(t, img.Pix, again.Pix)
}

func TestRightClickDeletesThenCloses(t *testing.T) {
	o, _ := newTestOverlay(t, WithOptions(func() Options {
		opts := DefaultOptions()
		opts.QuickCrop = false
		return opts
	}()))
	o.MouseDown(ButtonLeft, geom.Pt(10, 10), 0)
	o.MouseUp(ButtonLeft, geom.Pt(60, 40), 0)
	require.Equal(t, 1, o.Manager().Len())

	o.MouseDown(ButtonRight, geom.Pt(20, 20), 0)
	assert.Equal(t, 0, o.Manager().Len())
	select {
	case <-o.Done():
		t.Fatal("closed while a shape was under the pointer")
	default:
	}

	o.MouseDown(ButtonRight, geom.Pt(20, 20), 0)
	<-o.Done()
}

func TestEditorConfirmsClose(t *testing.T) {
	opts := DefaultOptions()
	opts.Mode = ModeEditor
	confirm := false
	o, _ := newTestOverlay(t, WithOptions(opts), WithCallbacks(Callbacks{ConfirmClose: func() bool { return confirm }}))
	o.MouseDown(ButtonLeft, geom.Pt(10, 10), 0)
	o.MouseUp(ButtonLeft, geom.Pt(60, 40), 0)
	require.True(t, o.IsModified())

	o.KeyDown(Key{Code: KeyEscape})
	assert.Equal(t, result.Close, o.Result())
	select {
	case <-o.Done():
		t.Fatal("closed without confirmation")
	default:
	}

	confirm = true
	o.KeyDown(Key{Code: KeyEscape})
	<-o.Done()
}

func TestSaveResetsModified(t *testing.T) {
	opts := DefaultOptions()
	opts.Mode = ModeEditor
	opts.File = "shot.png"
	var saved *image.RGBA
	o, clock := newTestOverlay(t, WithOptions(opts), WithCallbacks(Callbacks{
		Save: func(img *image.RGBA, path string) string {
			saved = img
			return "/tmp/other.png"
		},
	}))
	clock.Advance(keyGuard)
	o.MouseDown(ButtonLeft, geom.Pt(10, 10), 0)
	o.MouseUp(ButtonLeft, geom.Pt(60, 40), 0)
	require.True(t, o.IsModified())

	o.KeyDown(Key{Rune: 's', Mods: ModControl})
	require.NotNil(t, saved)
	assert.Equal(t, image.Rect(0, 0, 200, 200), saved.Bounds())
	assert.False(t, o.IsModified())
	assert.True(t, strings.HasSuffix(o.Title(), "other.png"), o.Title())
}

func TestAreaText(t *testing.T) {
	o, _ := newTestOverlay(t)
	assert.Equal(t, "X: 10 Y: 20 W: 30 H: 40", o.areaText(geom.R(10.4, 20, 30, 40)))

	opts := DefaultOptions()
	opts.Mode = ModeRuler
	r, _ := newTestOverlay(t, WithOptions(opts))
	lines := strings.Split(r.areaText(geom.R(10, 20, 30, 40)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "X: 10 | Y: 20 | Right: 39 | Bottom: 59", lines[0])
	assert.Equal(t, "Width: 30 px | Height: 40 px | Area: 1200 px | Perimeter: 140 px", lines[1])
}

func TestTitle(t *testing.T) {
	o, _ := newTestOverlay(t)
	assert.Equal(t, "regionshot - Region capture", o.Title())

	opts := DefaultOptions()
	opts.Mode = ModeEditor
	opts.Program = "shots"
	opts.File = "/home/me/shot.png"
	e := New(noise(300, 100), WithOptions(opts))
	defer e.Dispose()
	assert.Equal(t, "shots - Image editor - 300x100 - shot.png", e.Title())
}

func TestDrawLegacyPanics(t *testing.T) {
	o, _ := newTestOverlay(t)
	assert.PanicsWithValue(t, "overlay: cannot draw to *image.RGBA, use Frame", func() {
		o.DrawLegacy(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	})
}

func TestFrameRendersClientArea(t *testing.T) {
	o, _ := newTestOverlay(t)
	o.MouseMove(geom.Pt(50, 50), 0)
	o.Frame(context.Background())
	img := o.Image()
	require.NotNil(t, img)
	assert.Equal(t, image.Rect(0, 0, 200, 200), img.Bounds())
}

func TestLayerOrder(t *testing.T) {
	o, _ := newTestOverlay(t)
	var names []string
	for _, l := range o.layers() {
		names = append(names, l.name)
	}
	assert.Equal(t, []string{
		"background", "dim", "canvas-border", "snap-preview", "regions",
		"effects", "drawings", "tools", "hover", "current-region",
		"area-text", "cursor-graphics", "crosshair", "tips",
	}, names)
}

func TestDrawStopsWhenCancelled(t *testing.T) {
	o, _ := newTestOverlay(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, o.draw(ctx), context.Canceled)
}

func TestWindowDetectionRequestsFrame(t *testing.T) {
	o, _ := newTestOverlay(t)
	frames := make(chan struct{}, 4)
	list := func(ctx context.Context, found func(geom.Rect)) error {
		found(geom.R(10, 10, 50, 50))
		return nil
	}
	e := o.StartWindowDetection(context.Background(), list)
	o.SetInvalidator(func() { frames <- struct{}{} })
	<-e.Done()

	assert.Equal(t, []geom.Rect{geom.R(10, 10, 50, 50)}, o.Manager().Windows())
	o.requestFrame()
	select {
	case <-frames:
	case <-time.After(time.Second):
		t.Fatal("no frame requested")
	}
}

func TestDisposeIsIdempotent(t *testing.T) {
	o, _ := newTestOverlay(t)
	o.Dispose()
	o.Dispose()
	assert.False(t, o.Frame(context.Background()))
	assert.True(t, o.Manager().IsDisposed())
}

func TestMagnifierSize(t *testing.T) {
	client := geom.R(0, 0, 1000, 1000)
	c, s := magnifierSize(16, 10, client)
	assert.Equal(t, 17, c)
	assert.Equal(t, 10, s)

	c, s = magnifierSize(101, 100, client)
	assert.Equal(t, fallbackPixelCount, c)
	assert.Equal(t, fallbackPixelSize, s)
}

func TestMagnify(t *testing.T) {
	canvas := image.NewRGBA(image.Rect(0, 0, 5, 5))
	red := color.RGBA{R: 255, A: 255}
	canvas.SetRGBA(2, 2, red)
	clear := color.RGBA{}

	img := magnify(canvas, image.Pt(2, 2), 3, 4, clear, clear)
	require.Equal(t, image.Rect(0, 0, 11, 11), img.Bounds())
	assert.Equal(t, red, img.RGBAAt(5, 5))
	assert.Equal(t, color.RGBA{A: 255}, img.RGBAAt(3, 5), "centre pixel is framed")

	edge := magnify(canvas, image.Pt(0, 0), 3, 4, clear, clear)
	assert.Equal(t, color.RGBA{A: 255}, edge.RGBAAt(1, 1), "outside the canvas is black")
}
