//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

var (
	initOnce     sync.Once
	initErr      error
	errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
	owner        *selectionOwner
)

func ensureInit() error {
	initOnce.Do(func() {
		if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
			initErr = errNoDisplay
			return
		}
		o, err := newSelectionOwner()
		if err != nil {
			initErr = fmt.Errorf("clipboard x11 init: %w", err)
			return
		}
		owner = o
	})
	return initErr
}

// WriteImage takes clipboard ownership and serves img as PNG.
func WriteImage(img image.Image) error {
	if err := ensureInit(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("clipboard encode png: %w", err)
	}
	if err := owner.offer(offer{image: buf.Bytes()}); err != nil {
		return fmt.Errorf("clipboard write image: %w", err)
	}
	return nil
}

// WriteText takes clipboard ownership and serves text.
func WriteText(text string) error {
	if err := ensureInit(); err != nil {
		return err
	}
	if err := owner.offer(offer{text: []byte(text)}); err != nil {
		return fmt.Errorf("clipboard write text: %w", err)
	}
	return nil
}

// offer is what the owner serves. Only one of text and image is set.
type offer struct {
	text  []byte
	image []byte
}

type atomSet struct {
	clipboard xproto.Atom
	targets   xproto.Atom
	utf8      xproto.Atom
	textPlain xproto.Atom
	png       xproto.Atom
}

// reply is the property written back to a requestor.
type reply struct {
	typ     xproto.Atom
	format  byte
	payload []byte
}

// length is the property length in units of format.
func (r reply) length() uint32 {
	return uint32(len(r.payload) / int(r.format/8))
}

// answer converts a selection request for target into the property to
// write. It reports false when the offer cannot satisfy target.
func (a atomSet) answer(target xproto.Atom, o offer) (reply, bool) {
	switch target {
	case a.targets:
		targets := []xproto.Atom{a.targets}
		if len(o.text) > 0 {
			targets = append(targets, a.utf8, xproto.AtomString, a.textPlain)
		}
		if len(o.image) > 0 {
			targets = append(targets, a.png)
		}
		return reply{typ: xproto.AtomAtom, format: 32, payload: atomBytes(targets)}, true
	case a.utf8, xproto.AtomString, a.textPlain:
		if len(o.text) == 0 {
			return reply{}, false
		}
		return reply{typ: a.utf8, format: 8, payload: o.text}, true
	case a.png:
		if len(o.image) == 0 {
			return reply{}, false
		}
		return reply{typ: a.png, format: 8, payload: o.image}, true
	}
	return reply{}, false
}

// selectionOwner holds CLIPBOARD on a hidden window and answers requests
// from its own event loop.
type selectionOwner struct {
	conn   *xgb.Conn
	window xproto.Window
	atoms  atomSet

	mu      sync.RWMutex
	current offer
}

func newSelectionOwner() (*selectionOwner, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	screen := xproto.Setup(conn).DefaultScreen(conn)
	window, err := xproto.NewWindowId(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("window id: %w", err)
	}
	const eventMask = xproto.EventMaskPropertyChange | xproto.EventMaskStructureNotify
	if err := xproto.CreateWindowChecked(conn, screen.RootDepth, window, screen.Root, 0, 0, 1, 1, 0,
		xproto.WindowClassInputOutput, screen.RootVisual, xproto.CwEventMask, []uint32{eventMask}).Check(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create window: %w", err)
	}
	atoms, err := internAtoms(conn)
	if err != nil {
		xproto.DestroyWindow(conn, window)
		conn.Close()
		return nil, err
	}
	o := &selectionOwner{conn: conn, window: window, atoms: atoms}
	go o.serve()
	return o, nil
}

func internAtoms(conn *xgb.Conn) (atomSet, error) {
	var set atomSet
	for name, dst := range map[string]*xproto.Atom{
		"CLIPBOARD":                &set.clipboard,
		"TARGETS":                  &set.targets,
		"UTF8_STRING":              &set.utf8,
		"text/plain;charset=utf-8": &set.textPlain,
		"image/png":                &set.png,
	} {
		r, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			return atomSet{}, fmt.Errorf("intern %s: %w", name, err)
		}
		*dst = r.Atom
	}
	return set, nil
}

func (o *selectionOwner) offer(next offer) error {
	o.mu.Lock()
	o.current = offer{text: bytes.Clone(next.text), image: bytes.Clone(next.image)}
	o.mu.Unlock()
	return xproto.SetSelectionOwnerChecked(o.conn, o.window, o.atoms.clipboard, xproto.TimeCurrentTime).Check()
}

func (o *selectionOwner) serve() {
	for {
		ev, err := o.conn.WaitForEvent()
		if err != nil {
			return
		}
		switch e := ev.(type) {
		case xproto.SelectionRequestEvent:
			o.answer(e)
		case xproto.SelectionClearEvent:
			o.mu.Lock()
			o.current = offer{}
			o.mu.Unlock()
		}
	}
}

func (o *selectionOwner) answer(e xproto.SelectionRequestEvent) {
	property := e.Property
	if property == xproto.AtomNone {
		property = e.Target
	}
	o.mu.RLock()
	cur := o.current
	o.mu.RUnlock()

	if r, ok := o.atoms.answer(e.Target, cur); ok {
		xproto.ChangeProperty(o.conn, xproto.PropModeReplace, e.Requestor, property, r.typ, r.format, r.length(), r.payload)
	} else {
		property = xproto.AtomNone
	}

	notify := xproto.SelectionNotifyEvent{
		Time:      e.Time,
		Requestor: e.Requestor,
		Selection: e.Selection,
		Target:    e.Target,
		Property:  property,
	}
	_ = xproto.SendEvent(o.conn, false, e.Requestor, 0, string(notify.Bytes()))
}

func atomBytes(atoms []xproto.Atom) []byte {
	buf := make([]byte, len(atoms)*4)
	for i, a := range atoms {
		xgb.Put32(buf[i*4:], uint32(a))
	}
	return buf
}
