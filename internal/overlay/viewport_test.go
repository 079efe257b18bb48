package overlay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/example/regionshot/internal/anim"
	"github.com/example/regionshot/internal/geom"
)

func TestPanStopsAtLimit(t *testing.T) {
	v := NewViewport(geom.R(0, 0, 1000, 1000), geom.Size{W: 500, H: 500})
	v.Canvas = geom.R(250, 250, 500, 500)

	d := v.Pan(geom.Pt(1000, 0), false)
	assert.Equal(t, geom.Pt(500, 0), d)
	assert.Equal(t, 750.0, v.Canvas.X)

	v.Pan(geom.Pt(-500, 0), false)
	assert.Equal(t, 250.0, v.Canvas.X)
}

func TestPanStretchResists(t *testing.T) {
	v := NewViewport(geom.R(0, 0, 1000, 1000), geom.Size{W: 500, H: 500})
	v.Canvas = geom.R(250, 250, 500, 500)

	v.Pan(geom.Pt(1000, 0), true)
	assert.Equal(t, 750.0, v.Canvas.X)

	d := v.Pan(geom.Pt(-200, 0), true)
	assert.Equal(t, 0.0, d.X, "refused movement is unwound first")
	assert.Equal(t, 750.0, v.Canvas.X)
}

func TestCenterAndResize(t *testing.T) {
	v := NewViewport(geom.R(0, 0, 1000, 800), geom.Size{W: 400, H: 200})
	v.Center()
	assert.Equal(t, geom.R(300, 300, 400, 200), v.Canvas)

	d := v.Resize(geom.R(0, 0, 1200, 800), true)
	assert.Equal(t, geom.Pt(100, 0), d)
	assert.Equal(t, geom.R(400, 300, 400, 200), v.Canvas)
	assert.False(t, v.CoversClient())
}

func TestFPSCounter(t *testing.T) {
	clock := anim.NewManualClock(time.Unix(0, 0))
	f := NewFPSCounter(clock)
	assert.False(t, f.Tick())
	for i := 0; i < 9; i++ {
		clock.Advance(100 * time.Millisecond)
		assert.False(t, f.Tick())
	}
	clock.Advance(100 * time.Millisecond)
	assert.True(t, f.Tick())
	assert.Equal(t, 11, f.FPS())
}
