package anim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/regionshot/internal/geom"
)

func TestRectangleAnimationEndpoints(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	a := NewRectangleAnimation(clock, 200*time.Millisecond)
	a.From = geom.R(0, 0, 10, 10)
	a.To = geom.R(100, 50, 200, 120)
	a.Start()

	require.True(t, a.Update())
	assert.Equal(t, a.From, a.Current)

	clock.Advance(200 * time.Millisecond)
	assert.False(t, a.Update())
	assert.Equal(t, a.To, a.Current)

	clock.Advance(time.Second)
	a.Update()
	assert.Equal(t, a.To, a.Current, "interpolation is clamped past the end")
}

func TestRectangleAnimationMonotonic(t *testing.T) {
	a := NewRectangleAnimation(SystemClock{}, 200*time.Millisecond)
	a.From = geom.R(10, 20, 30, 40)
	a.To = geom.R(110, 70, 330, 140)

	prev := a.At(0)
	for ms := 1; ms < 200; ms++ {
		r := a.At(time.Duration(ms) * time.Millisecond)
		assert.Greater(t, r.Left(), a.From.Left())
		assert.Less(t, r.Left(), a.To.Left())
		assert.Greater(t, r.Top(), a.From.Top())
		assert.Less(t, r.Top(), a.To.Top())
		assert.Greater(t, r.Right(), a.From.Right())
		assert.Less(t, r.Right(), a.To.Right())
		assert.Greater(t, r.Bottom(), a.From.Bottom())
		assert.Less(t, r.Bottom(), a.To.Bottom())
		assert.GreaterOrEqual(t, r.Left(), prev.Left())
		prev = r
	}
}

func TestRectangleAnimationInactiveUntilStarted(t *testing.T) {
	a := NewRectangleAnimation(NewManualClock(time.Unix(0, 0)), time.Second)
	assert.False(t, a.IsActive())
	a.Start()
	assert.True(t, a.IsActive())
	a.Stop()
	assert.False(t, a.IsActive())
}

func TestTextAnimationFade(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	a := NewTextAnimation(clock, 5*time.Second, time.Second)
	a.Text = "Press F1 for help"
	a.Start()

	require.True(t, a.Update())
	assert.Equal(t, 1.0, a.Opacity)

	clock.Advance(5*time.Second + 500*time.Millisecond)
	require.True(t, a.Update())
	assert.InDelta(t, 0.5, a.Opacity, 1e-9)

	clock.Advance(500 * time.Millisecond)
	assert.False(t, a.Update())
	assert.Equal(t, 0.0, a.Opacity)
	assert.False(t, a.IsActive())
}
