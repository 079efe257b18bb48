package capture

import (
	"context"
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// desktopScreenshot reads the union of all active displays.
func desktopScreenshot(ctx context.Context) (Shot, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return Shot{}, errNoMonitors
	}
	union := screenshot.GetDisplayBounds(0)
	for i := 1; i < n; i++ {
		union = union.Union(screenshot.GetDisplayBounds(i))
	}
	if err := ctx.Err(); err != nil {
		return Shot{}, err
	}
	img, err := screenshot.CaptureRect(union)
	if err != nil {
		return Shot{}, fmt.Errorf("read displays: %w", err)
	}
	return normalize(img, union), nil
}

// displayMonitors describes the active displays without names.
func displayMonitors() []MonitorInfo {
	n := screenshot.NumActiveDisplays()
	mons := make([]MonitorInfo, 0, n)
	for i := 0; i < n; i++ {
		mons = append(mons, MonitorInfo{
			Index:   i,
			Name:    fmt.Sprintf("display-%d", i),
			Rect:    screenshot.GetDisplayBounds(i),
			Primary: screenshot.GetDisplayBounds(i).Min == image.Point{},
		})
	}
	return mons
}
