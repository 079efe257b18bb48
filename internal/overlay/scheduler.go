package overlay

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/example/regionshot/internal/anim"
)

// MinFrameInterval is the shortest gap between two frames.
const MinFrameInterval = 6 * time.Millisecond

// FrameFunc draws one frame. It reports whether the scene is still
// animating and wants another frame without being invalidated.
type FrameFunc func(ctx context.Context) bool

// Scheduler runs posted tasks and frames on a single goroutine, so input
// handling and drawing never overlap. A frame runs when the scene was
// invalidated, or while it animates and the scheduler is not paused, and
// never sooner than MinFrame after the previous frame.
type Scheduler struct {
	frame    FrameFunc
	clock    anim.Clock
	MinFrame time.Duration

	mu    sync.Mutex
	tasks []func()

	wake      chan struct{}
	dirty     atomic.Bool
	paused    atomic.Bool
	animating bool
	lastFrame time.Time
	frames    atomic.Uint64

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool
}

func NewScheduler(clock anim.Clock, frame FrameFunc) *Scheduler {
	if clock == nil {
		clock = anim.SystemClock{}
	}
	return &Scheduler{
		frame:    frame,
		clock:    clock,
		MinFrame: MinFrameInterval,
		wake:     make(chan struct{}, 1),
		stopChan: make(chan struct{}),
	}
}

// Post queues fn to run on the scheduler goroutine before the next frame
// and invalidates the scene.
func (s *Scheduler) Post(fn func()) {
	s.mu.Lock()
	s.tasks = append(s.tasks, fn)
	s.mu.Unlock()
	s.Invalidate()
}

// Invalidate requests a frame.
func (s *Scheduler) Invalidate() {
	s.dirty.Store(true)
	s.signal()
}

func (s *Scheduler) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Pause stops animation frames. Invalidated frames still run and a frame in
// flight is not interrupted.
func (s *Scheduler) Pause() { s.paused.Store(true) }

// Resume restarts animation frames and requests one.
func (s *Scheduler) Resume() {
	s.paused.Store(false)
	s.Invalidate()
}

func (s *Scheduler) Paused() bool { return s.paused.Load() }

// Frames is the number of frames drawn so far.
func (s *Scheduler) Frames() uint64 { return s.frames.Load() }

// Start runs the loop on a new goroutine until ctx ends or Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	if s.running.CompareAndSwap(false, true) {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.loop(ctx)
		}()
	}
}

// Stop halts the loop and waits for it to return.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
}

// Run drives the loop on the calling goroutine until ctx ends or Stop is
// called.
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return nil
	}
	return s.loop(ctx)
}

func (s *Scheduler) loop(ctx context.Context) error {
	defer s.running.Store(false)

	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopChan:
			return nil
		default:
		}

		s.runTasks()

		due := s.dirty.Load() || (s.animating && !s.paused.Load())
		if !due {
			select {
			case <-s.wake:
			case <-ctx.Done():
				return ctx.Err()
			case <-s.stopChan:
				return nil
			}
			continue
		}

		if wait := s.MinFrame - s.clock.Now().Sub(s.lastFrame); wait > 0 {
			timer.Reset(wait)
			select {
			case <-timer.C:
			case <-ctx.Done():
				return ctx.Err()
			case <-s.stopChan:
				return nil
			}
			continue
		}

		s.dirty.Store(false)
		s.lastFrame = s.clock.Now()
		s.animating = s.frame(ctx)
		s.frames.Add(1)
	}
}

func (s *Scheduler) runTasks() {
	s.mu.Lock()
	tasks := s.tasks
	s.tasks = nil
	s.mu.Unlock()
	for _, fn := range tasks {
		fn()
	}
}
