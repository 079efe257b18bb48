package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"

	"github.com/example/regionshot/internal/capture"
	"github.com/example/regionshot/internal/clipboard"
	"github.com/example/regionshot/internal/geom"
	"github.com/example/regionshot/internal/overlay"
	"github.com/example/regionshot/internal/render"
)

var (
	captureScreenshotFn   = capture.Screenshot
	listMonitorsFn        = capture.ListMonitors
	listWindowsFn         = capture.ListWindows
	windowRectsFn         = capture.WindowRects
	runOverlayFn          = runOverlay
	writeClipboardImageFn = clipboard.WriteImage
	writeClipboardTextFn  = clipboard.WriteText
	confirmDiscardFn      = confirmDiscard
	nowFn                 = time.Now
)

func runOverlay(ctx context.Context, o *overlay.Overlay) {
	overlay.NewHost(o).Run(ctx)
}

// delivery is where a finished image goes. With no destination set the
// image is saved under the configured save directory.
type delivery struct {
	output        string
	stdout        bool
	toClipboard   bool
	shadow        bool
	shadowRadius  int
	shadowOffset  string
	shadowOpacity float64
}

func (d *delivery) bind(fs *flag.FlagSet) {
	defaults := render.DefaultShadowOptions()
	fs.StringVar(&d.output, "output", "", "write the image to this file path")
	fs.BoolVar(&d.stdout, "stdout", false, "write PNG data to stdout")
	fs.BoolVar(&d.toClipboard, "to-clipboard", false, "copy the image to the clipboard")
	fs.BoolVar(&d.toClipboard, "to-clip", false, "copy the image to the clipboard (alias)")
	fs.BoolVar(&d.shadow, "shadow", false, "apply a drop shadow to the image")
	fs.IntVar(&d.shadowRadius, "shadow-radius", defaults.Radius, "drop shadow blur radius in pixels")
	fs.StringVar(&d.shadowOffset, "shadow-offset", formatShadowOffset(defaults.Offset), "drop shadow offset as dx,dy")
	fs.Float64Var(&d.shadowOpacity, "shadow-opacity", defaults.Opacity, "drop shadow opacity between 0 and 1")
}

func (d *delivery) validate() error {
	if d.toClipboard && d.stdout {
		return fmt.Errorf("-stdout cannot be used with -to-clipboard")
	}
	if _, err := parseShadowOffset(d.shadowOffset); err != nil {
		return err
	}
	return nil
}

func (d *delivery) requested() bool {
	return d.output != "" || d.stdout || d.toClipboard
}

func (d *delivery) shadowOptions() render.ShadowOptions {
	opts := render.DefaultShadowOptions()
	opts.Radius = max(d.shadowRadius, 0)
	if pt, err := parseShadowOffset(d.shadowOffset); err == nil {
		opts.Offset = pt
	}
	opts.Opacity = geom.Clamp(d.shadowOpacity, 0, 1)
	return opts
}

func (d *delivery) deliver(r *root, img *image.RGBA, detail string) error {
	if d.shadow {
		img = render.ApplyShadow(img, d.shadowOptions()).Image
	}
	if d.toClipboard {
		if err := writeClipboardImageFn(img); err != nil {
			return fmt.Errorf("copy PNG to clipboard: %w", err)
		}
		fmt.Fprintf(os.Stderr, "copied %s to clipboard\n", detail)
		r.notifyCopy(detail)
		return nil
	}
	if d.stdout {
		if err := png.Encode(os.Stdout, img); err != nil {
			return fmt.Errorf("write PNG to stdout: %w", err)
		}
		fmt.Fprintln(os.Stderr, "wrote PNG data to stdout")
		return nil
	}
	path := d.output
	if path == "" {
		var err error
		if path, err = r.newSavePath(); err != nil {
			return err
		}
	}
	saved, err := writePNGFile(path, img)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "saved %s\n", saved)
	r.notifySave(saved)
	return nil
}

// writePNGFile encodes img to path and returns the absolute path written.
func writePNGFile(path string, img image.Image) (string, error) {
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create output %q: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			log.Printf("close %s: %v", path, cerr)
		}
	}()
	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("write PNG to %q: %w", path, err)
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs, nil
	}
	return path, nil
}

// newSavePath names a capture after the current time inside the save
// directory, adding a counter when the name is taken.
func (r *root) newSavePath() (string, error) {
	dir := "."
	if r != nil && r.config != nil && r.config.SaveDir != "" {
		dir = r.config.SaveDir
	}
	dir, err := homedir.Expand(dir)
	if err != nil {
		return "", fmt.Errorf("save directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create save directory: %w", err)
	}
	base := "regionshot-" + nowFn().Format("20060102-150405")
	path := filepath.Join(dir, base+".png")
	for n := 2; ; n++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
		path = filepath.Join(dir, base+"-"+strconv.Itoa(n)+".png")
	}
}

// callbacks connects the overlay completion events to files, the clipboard
// and notifications.
func (r *root) callbacks() overlay.Callbacks {
	save := func(img *image.RGBA, path string) string {
		if path == "" {
			var err error
			if path, err = r.newSavePath(); err != nil {
				log.Printf("save: %v", err)
				return ""
			}
		}
		saved, err := writePNGFile(path, img)
		if err != nil {
			log.Printf("save: %v", err)
			return ""
		}
		r.notifySave(saved)
		return saved
	}
	return overlay.Callbacks{
		Save: save,
		SaveAs: func(img *image.RGBA, _ string) string {
			return save(img, "")
		},
		Copy: func(img *image.RGBA) {
			if err := writeClipboardImageFn(img); err != nil {
				log.Printf("copy image: %v", err)
				return
			}
			r.notifyCopy("image")
		},
		CopyText: func(text string) {
			if err := writeClipboardTextFn(text); err != nil {
				log.Printf("copy text: %v", err)
				return
			}
			r.notifyCopy(strconv.Quote(text))
		},
		Upload: func(img *image.RGBA) {
			b := img.Bounds()
			log.Printf("upload: no uploader configured, %dx%d image not sent", b.Dx(), b.Dy())
		},
		Print: func(img *image.RGBA) {
			b := img.Bounds()
			log.Printf("print: no printer configured, %dx%d image not printed", b.Dx(), b.Dy())
		},
		ConfirmClose: func() bool {
			return confirmDiscardFn(os.Stdin, os.Stderr)
		},
	}
}

// confirmDiscard asks on the terminal before unsaved edits are dropped. A
// closed input counts as yes.
func confirmDiscard(in io.Reader, out io.Writer) bool {
	fmt.Fprint(out, "discard unsaved changes? [y/N] ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(out)
		return true
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func parseShadowOffset(val string) (image.Point, error) {
	parts := strings.Split(val, ",")
	if len(parts) != 2 {
		return image.Point{}, fmt.Errorf("invalid shadow offset %q", val)
	}
	vals := make([]int, 2)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return image.Point{}, fmt.Errorf("invalid shadow offset %q", val)
		}
		vals[i] = v
	}
	return image.Pt(vals[0], vals[1]), nil
}

func formatShadowOffset(pt image.Point) string {
	return fmt.Sprintf("%d,%d", pt.X, pt.Y)
}
