//go:build linux || freebsd || openbsd || netbsd || dragonfly

package clipboard

import (
	"errors"
	"image"
	"sync"
	"testing"
)

func TestWritesFailWithoutDisplay(t *testing.T) {
	t.Setenv("DISPLAY", "")
	t.Setenv("WAYLAND_DISPLAY", "")
	reset := func() {
		initOnce = sync.Once{}
		initErr = nil
	}
	reset()
	t.Cleanup(reset)

	if err := WriteText("120 x 80"); !errors.Is(err, errNoDisplay) {
		t.Fatalf("WriteText: expected errNoDisplay, got %v", err)
	}
	if err := WriteImage(image.NewRGBA(image.Rect(0, 0, 2, 2))); !errors.Is(err, errNoDisplay) {
		t.Fatalf("WriteImage: expected errNoDisplay, got %v", err)
	}
}
