package anim

import (
	"time"

	"github.com/example/regionshot/internal/geom"
)

// base tracks the timing shared by every animation.
type base struct {
	watch    *Stopwatch
	Duration time.Duration
}

func newBase(clock Clock, d time.Duration) base {
	return base{watch: NewStopwatch(clock), Duration: d}
}

// Start restarts the animation from its beginning.
func (b *base) Start() { b.watch.Start() }

// Stop ends the animation immediately.
func (b *base) Stop() { b.watch.Stop() }

// Elapsed returns the time since Start.
func (b *base) Elapsed() time.Duration { return b.watch.Elapsed() }

// RectangleAnimation moves a rectangle from From to To over Duration.
type RectangleAnimation struct {
	base
	From, To geom.Rect
	// Current is the rectangle computed by the last Update.
	Current geom.Rect
}

// NewRectangleAnimation returns a stopped animation.
func NewRectangleAnimation(clock Clock, d time.Duration) *RectangleAnimation {
	return &RectangleAnimation{base: newBase(clock, d)}
}

// IsActive reports whether the animation is still running.
func (a *RectangleAnimation) IsActive() bool {
	return a.watch.Running() && a.Elapsed() < a.Duration
}

// Update recomputes Current and reports whether the animation is active.
func (a *RectangleAnimation) Update() bool {
	a.Current = a.At(a.Elapsed())
	if !a.IsActive() {
		if a.watch.Running() {
			a.Current = a.To
		}
		return false
	}
	return true
}

// At returns the interpolated rectangle after elapsed.
func (a *RectangleAnimation) At(elapsed time.Duration) geom.Rect {
	t := 1.0
	if a.Duration > 0 {
		t = float64(elapsed) / float64(a.Duration)
	}
	return geom.LerpRect(a.From, a.To, t)
}

// TextAnimation shows Text at Position for Duration, then fades it out over
// FadeOutDuration.
type TextAnimation struct {
	base
	Text            string
	Position        geom.Point
	FadeOutDuration time.Duration
	// Opacity is in [0,1] and is refreshed by Update.
	Opacity float64
}

// NewTextAnimation returns a stopped text animation.
func NewTextAnimation(clock Clock, d, fadeOut time.Duration) *TextAnimation {
	return &TextAnimation{base: newBase(clock, d), FadeOutDuration: fadeOut}
}

// IsActive reports whether the text is visible.
func (a *TextAnimation) IsActive() bool {
	return a.watch.Running() && a.Elapsed() < a.Duration+a.FadeOutDuration
}

// Update refreshes Opacity and reports whether the text is still visible.
func (a *TextAnimation) Update() bool {
	if !a.IsActive() {
		a.Opacity = 0
		if a.watch.Running() {
			a.Stop()
		}
		return false
	}
	a.Opacity = a.OpacityAt(a.Elapsed())
	return true
}

// OpacityAt is fully opaque until Duration and then falls linearly to zero.
func (a *TextAnimation) OpacityAt(elapsed time.Duration) float64 {
	if elapsed < a.Duration {
		return 1
	}
	if a.FadeOutDuration <= 0 {
		return 0
	}
	fade := float64(elapsed-a.Duration) / float64(a.FadeOutDuration)
	return 1 - geom.Clamp(fade, 0, 1)
}
