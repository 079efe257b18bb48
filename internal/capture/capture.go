// Package capture grabs the desktop and describes the monitors and windows
// on it.
package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"log"
)

// Shot is a capture of the virtual desktop. Image starts at the origin and
// Screen is the desktop rectangle it covers.
type Shot struct {
	Image  *image.RGBA
	Screen image.Rectangle
}

// Options tune the portal capture.
type Options struct {
	IncludeCursor bool
	// Interactive lets the portal show its own picker.
	Interactive bool
}

var (
	desktopScreenshotFn = desktopScreenshot
	portalScreenshotFn  = portalScreenshot
	waylandFn           = runningOnWayland
)

// Screenshot captures every monitor. Wayland sessions go through the
// desktop portal first; X11 sessions read the screen directly and use the
// portal only when that fails.
func Screenshot(ctx context.Context, opts Options) (Shot, error) {
	first, second := desktopScreenshotFn, portalScreen(opts)
	if waylandFn() {
		first, second = second, first
	}
	shot, err := first(ctx)
	if err == nil {
		return shot, nil
	}
	if ctx.Err() != nil {
		return Shot{}, fmt.Errorf("capture screen: %w", ctx.Err())
	}
	log.Printf("capture screen: %v, trying fallback", err)
	shot, ferr := second(ctx)
	if ferr != nil {
		return Shot{}, fmt.Errorf("capture screen: %w", errors.Join(err, ferr))
	}
	return shot, nil
}

// portalScreen adapts the portal to the desktop capture signature. The
// portal image covers the monitor layout reported by ListMonitors.
func portalScreen(opts Options) func(context.Context) (Shot, error) {
	return func(ctx context.Context) (Shot, error) {
		img, err := portalScreenshotFn(ctx, opts)
		if err != nil {
			return Shot{}, err
		}
		screen := img.Bounds().Sub(img.Bounds().Min)
		if mons, err := ListMonitors(); err == nil {
			if u := unionRect(mons); u.Size() == screen.Size() {
				screen = u
			}
		}
		return normalize(img, screen), nil
	}
}

func unionRect(mons []MonitorInfo) image.Rectangle {
	var u image.Rectangle
	for i, m := range mons {
		if i == 0 {
			u = m.Rect
			continue
		}
		u = u.Union(m.Rect)
	}
	return u
}

// normalize moves img to the origin.
func normalize(img *image.RGBA, screen image.Rectangle) Shot {
	if img.Rect.Min != (image.Point{}) {
		out := image.NewRGBA(image.Rect(0, 0, img.Rect.Dx(), img.Rect.Dy()))
		draw.Draw(out, out.Bounds(), img, img.Rect.Min, draw.Src)
		img = out
	}
	return Shot{Image: img, Screen: screen}
}

// Crop returns the part of s covering rect, given in screen coordinates.
func (s Shot) Crop(rect image.Rectangle) (Shot, error) {
	local := rect.Sub(s.Screen.Min)
	img, err := cropToRect(s.Image, local)
	if err != nil {
		return Shot{}, err
	}
	return Shot{Image: img, Screen: local.Intersect(s.Image.Bounds()).Add(s.Screen.Min)}, nil
}

func cropToRect(src *image.RGBA, rect image.Rectangle) (*image.RGBA, error) {
	rect = rect.Intersect(src.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("requested region outside captured image")
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
	return dst, nil
}
