package overlay

import (
	"time"

	"github.com/example/regionshot/internal/anim"
)

// FPSCounter counts frames in one second windows.
type FPSCounter struct {
	watch  *anim.Stopwatch
	frames int
	fps    int
}

func NewFPSCounter(clock anim.Clock) *FPSCounter {
	return &FPSCounter{watch: anim.NewStopwatch(clock)}
}

// Tick records a frame. It reports true when a window closed and FPS was
// recomputed.
func (f *FPSCounter) Tick() bool {
	if !f.watch.Running() {
		f.watch.Start()
	}
	f.frames++
	el := f.watch.Elapsed()
	if el < time.Second {
		return false
	}
	f.fps = int(float64(f.frames) / el.Seconds())
	f.frames = 0
	f.watch.Start()
	return true
}

// FPS is the rate measured over the last complete window.
func (f *FPSCounter) FPS() int { return f.fps }
