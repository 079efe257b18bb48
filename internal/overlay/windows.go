package overlay

import (
	"context"
	"errors"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/example/regionshot/internal/geom"
)

// WindowTimeout bounds background window enumeration.
const WindowTimeout = 5 * time.Second

// WindowLister enumerates visible windows topmost first, calling found for
// each rectangle in screen coordinates. It should return when ctx ends.
type WindowLister func(ctx context.Context, found func(geom.Rect)) error

// WindowEnumerator runs a WindowLister once in the background and publishes
// what it found, even when the lister timed out part way.
type WindowEnumerator struct {
	list    WindowLister
	timeout time.Duration

	once sync.Once
	done chan struct{}

	mu    sync.Mutex
	found []geom.Rect
}

func NewWindowEnumerator(list WindowLister, timeout time.Duration) *WindowEnumerator {
	if timeout <= 0 {
		timeout = WindowTimeout
	}
	return &WindowEnumerator{list: list, timeout: timeout, done: make(chan struct{})}
}

// Start launches enumeration. Later calls do nothing. publish receives the
// collected rectangles exactly once.
func (e *WindowEnumerator) Start(ctx context.Context, publish func([]geom.Rect)) {
	e.once.Do(func() {
		go e.run(ctx, publish)
	})
}

// Done is closed after publication.
func (e *WindowEnumerator) Done() <-chan struct{} { return e.done }

func (e *WindowEnumerator) run(ctx context.Context, publish func([]geom.Rect)) {
	defer close(e.done)
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	errc := make(chan error, 1)
	go func() {
		errc <- e.list(ctx, e.add)
	}()

	var err error
	select {
	case err = <-errc:
	case <-ctx.Done():
		err = ctx.Err()
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		log.Printf("window enumeration: timed out after %v, using partial list", e.timeout)
	case err != nil:
		log.Printf("window enumeration: %v", err)
	}

	e.mu.Lock()
	rects := slices.Clone(e.found)
	e.mu.Unlock()
	if publish != nil {
		publish(rects)
	}
}

func (e *WindowEnumerator) add(r geom.Rect) {
	e.mu.Lock()
	e.found = append(e.found, r)
	e.mu.Unlock()
}
