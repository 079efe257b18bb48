package overlay

import "github.com/example/regionshot/internal/geom"

// Button is a pointer button.
type Button uint8

const (
	ButtonLeft Button = 1 << iota
	ButtonMiddle
	ButtonRight
)

// Modifiers is the set of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModControl
	ModAlt
)

// KeyCode names the non-printable keys the overlay reacts to. Printable keys
// arrive as runes.
type KeyCode int

const (
	KeyNone KeyCode = iota
	KeyEscape
	KeyEnter
	KeyDelete
	KeyBackspace
)

// Key is one normalised key press.
type Key struct {
	Code KeyCode
	Rune rune
	Mods Modifiers
}

func (k Key) ctrl() bool  { return k.Mods&ModControl != 0 }
func (k Key) shift() bool { return k.Mods&ModShift != 0 }

// Input is the pointer state sampled once per frame.
type Input struct {
	// Client is the pointer in client coordinates, as delivered by the host.
	Client geom.Point
	// Screen and Canvas are Client mapped through the current space.
	Screen geom.Point
	Canvas geom.Point
	// Velocity is the client movement since the previous sample.
	Velocity geom.Point
	Buttons  Button
	Mods     Modifiers

	last    geom.Point
	sampled bool
}

// Sample derives the per-frame values from the latest pointer position.
func (in *Input) Sample(space geom.Space) {
	if in.sampled {
		in.Velocity = in.Client.Sub(in.last)
	}
	in.last, in.sampled = in.Client, true
	in.Screen = space.ClientToScreen(in.Client)
	in.Canvas = space.ClientToCanvas(in.Client)
}

// Pressed reports whether b is held.
func (in *Input) Pressed(b Button) bool { return in.Buttons&b != 0 }
