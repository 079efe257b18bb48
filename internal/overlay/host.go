package overlay

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"log"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/regionshot/internal/geom"
	"github.com/example/regionshot/internal/result"
)

// Host shows an Overlay in a shiny window. Window events are posted to the
// scheduler goroutine, which also draws and presents every frame.
type Host struct {
	overlay *Overlay
}

func NewHost(o *Overlay) *Host { return &Host{overlay: o} }

// Run opens the window and blocks until the overlay completes or ctx ends.
func (h *Host) Run(ctx context.Context) {
	driver.Main(func(s screen.Screen) { h.Main(ctx, s) })
}

// Main drives the overlay on an existing screen.
func (h *Host) Main(ctx context.Context, s screen.Screen) {
	o := h.overlay
	client := o.Client()
	w, err := s.NewWindow(&screen.NewWindowOptions{
		Width:  int(client.W),
		Height: int(client.H),
		Title:  o.Title(),
	})
	if err != nil {
		log.Printf("new window: %v", err)
		o.Close(result.Close)
		return
	}
	defer w.Release()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sched := NewScheduler(o.clock, func(ctx context.Context) bool {
		return h.frame(ctx, s, w)
	})
	o.SetInvalidator(sched.Invalidate)
	// Windows published before the invalidator was set still need a frame.
	sched.Invalidate()
	sched.Start(ctx)
	defer sched.Stop()

	go func() {
		select {
		case <-o.Done():
		case <-ctx.Done():
		}
		w.Send(lifecycle.Event{To: lifecycle.StageDead})
	}()

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				o.Close(result.Close)
				return
			}
			if e.Crosses(lifecycle.StageFocused) != lifecycle.CrossNone {
				focused := e.To >= lifecycle.StageFocused
				sched.Post(func() { o.FocusChanged(focused) })
				if focused {
					sched.Resume()
				} else {
					sched.Pause()
				}
			}
		case size.Event:
			wpx, hpx := float64(e.WidthPx), float64(e.HeightPx)
			if wpx > 0 && hpx > 0 {
				sched.Post(func() { o.Resize(wpx, hpx) })
			}
		case paint.Event:
			sched.Invalidate()
		case mouse.Event:
			p := geom.Pt(float64(e.X), float64(e.Y))
			mods := modifiersOf(e.Modifiers)
			b := buttonOf(e.Button)
			switch e.Direction {
			case mouse.DirPress:
				sched.Post(func() { o.MouseDown(b, p, mods) })
			case mouse.DirRelease:
				sched.Post(func() { o.MouseUp(b, p, mods) })
			default:
				sched.Post(func() { o.MouseMove(p, mods) })
			}
		case key.Event:
			if e.Direction == key.DirRelease {
				continue
			}
			k := keyOf(e)
			sched.Post(func() { o.KeyDown(k) })
		case error:
			log.Printf("window: %v", e)
		}
	}
}

// frame draws one frame and presents it. A panic while drawing is logged
// and ends the overlay.
func (h *Host) frame(ctx context.Context, s screen.Screen, w screen.Window) (animating bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("overlay: frame panic: %v", r)
			h.overlay.Close(result.Close)
			animating = false
		}
	}()
	animating = h.overlay.Frame(ctx)
	if err := present(s, w, h.overlay.renderer.Image()); err != nil {
		log.Printf("overlay: present: %v", err)
	}
	return animating
}

func present(s screen.Screen, w screen.Window, img image.Image) error {
	if img == nil {
		return nil
	}
	b, err := s.NewBuffer(img.Bounds().Size())
	if err != nil {
		return fmt.Errorf("new buffer: %w", err)
	}
	defer b.Release()
	draw.Draw(b.RGBA(), b.Bounds(), img, img.Bounds().Min, draw.Src)
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
	return nil
}

func buttonOf(b mouse.Button) Button {
	switch b {
	case mouse.ButtonLeft:
		return ButtonLeft
	case mouse.ButtonMiddle:
		return ButtonMiddle
	case mouse.ButtonRight:
		return ButtonRight
	}
	return 0
}

func modifiersOf(m key.Modifiers) Modifiers {
	var out Modifiers
	if m&key.ModShift != 0 {
		out |= ModShift
	}
	if m&key.ModControl != 0 {
		out |= ModControl
	}
	if m&key.ModAlt != 0 {
		out |= ModAlt
	}
	return out
}

func keyOf(e key.Event) Key {
	k := Key{Mods: modifiersOf(e.Modifiers)}
	switch e.Code {
	case key.CodeEscape:
		k.Code = KeyEscape
	case key.CodeReturnEnter, key.CodeKeypadEnter:
		k.Code = KeyEnter
	case key.CodeDeleteForward:
		k.Code = KeyDelete
	case key.CodeDeleteBackspace:
		k.Code = KeyBackspace
	}
	if e.Rune > 0 {
		k.Rune = e.Rune
	} else if e.Code >= key.CodeA && e.Code <= key.CodeZ {
		k.Rune = 'a' + rune(e.Code-key.CodeA)
	}
	return k
}
