package geom

// SnapDistance is the largest size difference that still snaps a drag to a
// configured size.
const SnapDistance = 30

// DefaultSnapSizes are the common video frame sizes offered when the
// configuration does not list any.
var DefaultSnapSizes = []Size{
	{426, 240},
	{640, 360},
	{854, 480},
	{1280, 720},
	{1920, 1080},
}

// Space converts between the three coordinate frames of the overlay:
// screen (virtual desktop), client (overlay window) and canvas (image pixels).
type Space struct {
	// Screen is the virtual desktop rectangle the client area maps onto.
	Screen Rect
	// Canvas is the image position and size inside the client area.
	Canvas Rect
}

// ScreenToClient maps a desktop position into the client area.
func (s Space) ScreenToClient(p Point) Point {
	return p.Sub(s.Screen.Location())
}

// ClientToScreen maps a client position onto the desktop.
func (s Space) ClientToScreen(p Point) Point {
	return p.Add(s.Screen.Location())
}

// ClientToCanvas maps a client position into image pixel space.
func (s Space) ClientToCanvas(p Point) Point {
	return p.Sub(s.Canvas.Location())
}

// CanvasToClient maps an image pixel position into the client area.
func (s Space) CanvasToClient(p Point) Point {
	return p.Add(s.Canvas.Location())
}

// RectScreenToCanvas maps a desktop rectangle, such as a monitor, into image
// pixel space.
func (s Space) RectScreenToCanvas(r Rect) Rect {
	p := s.ClientToCanvas(s.ScreenToClient(r.Location()))
	return Rect{p.X, p.Y, r.W, r.H}
}

// RectClientToCanvas maps a client rectangle into image pixel space.
func (s Space) RectClientToCanvas(r Rect) Rect {
	p := s.ClientToCanvas(r.Location())
	return Rect{p.X, p.Y, r.W, r.H}
}

// SnapEnd returns the pointer position that makes the drag from start match
// the nearest snap size. The nearest size must differ from the raw drag by
// more than zero and less than SnapDistance, and the snapped rectangle must
// stay inside bounds; otherwise current is returned unchanged.
func SnapEnd(start, current Point, sizes []Size, bounds Rect) Point {
	drag := FromPoints(start, current)
	best, bestDist := Size{}, -1.0
	for _, s := range sizes {
		d := Distance(Point{drag.W, drag.H}, Point{s.W, s.H})
		if d <= 0 || d >= SnapDistance {
			continue
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = s, d
		}
	}
	if bestDist < 0 {
		return current
	}
	end := SnapPoint(start, current, best)
	if !bounds.ContainsRect(FromPoints(start, end)) {
		return current
	}
	return end
}

// SnapPoint places the end of a drag so that the rectangle spans exactly
// size, keeping the drag direction of current relative to start.
func SnapPoint(start, current Point, size Size) Point {
	end := Point{start.X + size.W, start.Y + size.H}
	if current.X < start.X {
		end.X = start.X - size.W
	}
	if current.Y < start.Y {
		end.Y = start.Y - size.H
	}
	return end
}
