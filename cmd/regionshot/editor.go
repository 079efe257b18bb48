package main

import (
	"bytes"
	"flag"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/example/regionshot/internal/capture"
	"github.com/example/regionshot/internal/geom"
	"github.com/example/regionshot/internal/overlay"
)

type editorCmd struct {
	*root
	fs   *flag.FlagSet
	file string
	out  delivery
}

func (c *editorCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseEditorCmd(args []string, r *root) (*editorCmd, error) {
	fs := r.flagSet("editor")
	c := &editorCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	c.out.bind(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, &UsageError{of: c}
	}
	c.file = fs.Arg(0)
	if err := c.out.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *editorCmd) Run() error {
	img, err := loadImage(c.file)
	if err != nil {
		return fmt.Errorf("editor open %s: %w", c.file, err)
	}
	opts := c.overlayOptions(overlay.ModeEditor)
	opts.File = c.file
	if abs, err := filepath.Abs(c.file); err == nil {
		opts.File = abs
	}
	screen := geom.FromImageRect(img.Bounds())
	mons, err := listMonitorsFn()
	if err != nil {
		log.Printf("editor: %v", err)
	} else if mon, err := capture.FindMonitor(mons, ""); err == nil {
		screen = geom.FromImageRect(mon.Rect)
	}

	o := c.newOverlay(img, screen, nil, opts)
	defer o.Dispose()
	runOverlayFn(c.context(), o)
	edited, ok := o.Output()
	if !ok {
		fmt.Fprintln(os.Stderr, "editor closed without output")
		return nil
	}
	if !c.out.requested() {
		return nil
	}
	return c.out.deliver(c.root, edited, describeImage("edited "+filepath.Base(c.file), edited))
}

// loadImage reads an image file whose format is detected from its content
// rather than its extension.
func loadImage(path string) (*image.RGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	kind, err := filetype.Match(data)
	if err != nil {
		return nil, err
	}
	if !filetype.IsImage(data) {
		return nil, fmt.Errorf("not an image (detected %s)", kind.Extension)
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind.Extension, err)
	}
	if rgba, ok := src.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba, nil
	}
	b := src.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), src, b.Min, draw.Src)
	return out, nil
}
