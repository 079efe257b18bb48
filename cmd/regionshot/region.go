package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"strings"

	"github.com/example/regionshot/internal/capture"
	"github.com/example/regionshot/internal/geom"
	"github.com/example/regionshot/internal/overlay"
	"github.com/example/regionshot/internal/result"
)

var errNoLastRegion = errors.New("no previous region in this session")

type regionCmd struct {
	*root
	fs            *flag.FlagSet
	mode          overlay.Mode
	last          bool
	monitor       string
	includeCursor bool
	out           delivery
}

func (c *regionCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseRegionCmd(args []string, r *root) (*regionCmd, error) {
	fs := r.flagSet("region")
	c := &regionCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	var mode string
	fs.StringVar(&mode, "mode", "region", "overlay mode: region, ruler, oneclick or editor")
	fs.BoolVar(&c.last, "last", false, "reuse the region selected earlier in this session without showing the overlay")
	fs.StringVar(&c.monitor, "monitor", "", "capture this monitor (primary, index or name) without showing the overlay")
	fs.BoolVar(&c.includeCursor, "include-cursor", false, "embed the cursor in captures when supported")
	c.out.bind(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: c}
	}
	m, err := overlay.ParseMode(strings.ToLower(strings.TrimSpace(mode)))
	if err != nil {
		return nil, err
	}
	c.mode = m
	if c.last && c.monitor != "" {
		return nil, fmt.Errorf("-last cannot be used with -monitor")
	}
	if err := c.out.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *regionCmd) Run() error {
	ctx := c.context()
	shot, err := captureScreenshotFn(ctx, capture.Options{IncludeCursor: c.includeCursor})
	if err != nil {
		return fmt.Errorf("region: %w", err)
	}
	mons, err := listMonitorsFn()
	if err != nil {
		log.Printf("region: %v", err)
	}
	if c.monitor != "" {
		return c.captureMonitor(shot, mons)
	}

	opts := c.overlayOptions(c.mode)
	o := c.newOverlay(shot.Image, geom.FromImageRect(shot.Screen), capture.MonitorRects(mons), opts)
	defer o.Dispose()
	if c.last {
		o.Close(result.LastRegion)
	} else {
		o.StartWindowDetection(ctx, windowRectsFn)
		runOverlayFn(ctx, o)
	}
	img, ok := o.Output()
	if !ok {
		if c.last {
			return fmt.Errorf("region: %w", errNoLastRegion)
		}
		fmt.Fprintln(os.Stderr, "capture cancelled")
		return nil
	}
	detail := describeImage(o.Result().String(), img)
	c.notifyCapture(detail, img)
	return c.out.deliver(c.root, img, detail)
}

func (c *regionCmd) captureMonitor(shot capture.Shot, mons []capture.MonitorInfo) error {
	mon, err := capture.FindMonitor(mons, c.monitor)
	if err != nil {
		return fmt.Errorf("region monitor: %w", err)
	}
	crop, err := shot.Crop(mon.Rect)
	if err != nil {
		return fmt.Errorf("region monitor %s: %w", c.monitor, err)
	}
	detail := describeImage("monitor "+monitorName(mon), crop.Image)
	c.notifyCapture(detail, crop.Image)
	return c.out.deliver(c.root, crop.Image, detail)
}

func describeImage(what string, img image.Image) string {
	b := img.Bounds()
	return fmt.Sprintf("%s %dx%d", what, b.Dx(), b.Dy())
}

// overlayOptions maps the [region] settings onto the overlay.
func (r *root) overlayOptions(mode overlay.Mode) overlay.Options {
	opts := overlay.DefaultOptions()
	opts.Mode = mode
	if r == nil || r.config == nil {
		return opts
	}
	reg := r.config.Region
	opts.UseDimming = reg.Dimming
	opts.EnableAnimations = reg.Animations
	opts.ShowMagnifier = reg.Magnifier
	opts.UseSquareMagnifier = reg.SquareMagnifier
	opts.MagnifierPixelCount = reg.MagnifierPixels
	opts.MagnifierPixelSize = reg.MagnifierPixel
	opts.ShowInfo = reg.Info
	opts.ShowCrosshair = reg.Crosshair
	opts.ShowFPS = reg.FPS
	opts.DetectWindows = reg.DetectWindows
	opts.ShowEditorTip = reg.EditorTip
	opts.AutoCloseEditor = reg.AutoCloseEditor
	opts.QuickCrop = reg.QuickCrop
	opts.SnapSizes = reg.SnapSizes
	return opts
}

func (r *root) newOverlay(canvas *image.RGBA, screen geom.Rect, monitors []geom.Rect, opts overlay.Options) *overlay.Overlay {
	list := []overlay.Option{
		overlay.WithOptions(opts),
		overlay.WithScreen(screen),
		overlay.WithMonitors(monitors),
		overlay.WithCallbacks(r.callbacks()),
	}
	if r != nil && r.session != nil {
		list = append(list, overlay.WithSession(r.session))
	}
	if r != nil && r.activeTheme != nil {
		list = append(list, overlay.WithTheme(r.activeTheme))
	}
	return overlay.New(canvas, list...)
}
