package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"strconv"
	"strings"

	"github.com/example/regionshot/internal/geom"
)

type platformBackend interface {
	ListMonitors() ([]MonitorInfo, error)
	// Windows reports top-level windows topmost first and stops early when
	// ctx ends.
	Windows(ctx context.Context, found func(WindowInfo)) error
}

var backend = newBackend()

var (
	errNoMonitors = errors.New("no monitors available")
	errNoWindows  = errors.New("no windows available")
)

// MonitorInfo describes an individual monitor in the display layout.
type MonitorInfo struct {
	Index   int
	Name    string
	Rect    image.Rectangle
	Primary bool
}

// WindowInfo describes a top-level window.
type WindowInfo struct {
	Index      int
	ID         uint32
	Title      string
	Class      string
	Instance   string
	PID        uint32
	Executable string
	Rect       image.Rectangle
	Monitor    int
	Active     bool
}

// ListMonitors retrieves the monitor layout. When the window system cannot
// describe it the display bounds known to the screen reader are used.
func ListMonitors() ([]MonitorInfo, error) {
	mons, err := backend.ListMonitors()
	if err == nil && len(mons) > 0 {
		return mons, nil
	}
	if fallback := displayMonitors(); len(fallback) > 0 {
		if err != nil {
			log.Printf("list monitors: %v, using display bounds", err)
		}
		return fallback, nil
	}
	if err == nil {
		err = errNoMonitors
	}
	return nil, fmt.Errorf("list monitors: %w", err)
}

// MonitorRects returns the monitor rectangles in screen coordinates.
func MonitorRects(mons []MonitorInfo) []geom.Rect {
	out := make([]geom.Rect, 0, len(mons))
	for _, m := range mons {
		out = append(out, geom.FromImageRect(m.Rect))
	}
	return out
}

// ListWindows retrieves the top-level windows, topmost first.
func ListWindows(ctx context.Context) ([]WindowInfo, error) {
	var windows []WindowInfo
	err := backend.Windows(ctx, func(w WindowInfo) {
		w.Index = len(windows)
		windows = append(windows, w)
	})
	if err != nil {
		return windows, fmt.Errorf("list windows: %w", err)
	}
	if len(windows) == 0 {
		return nil, errNoWindows
	}
	return windows, nil
}

// WindowRects streams the rectangle of every visible window, topmost
// first, in screen coordinates. It suits the overlay window enumerator.
func WindowRects(ctx context.Context, found func(geom.Rect)) error {
	return backend.Windows(ctx, func(w WindowInfo) {
		if !w.Rect.Empty() {
			found(geom.FromImageRect(w.Rect))
		}
	})
}

// FindMonitor resolves a selector: empty or "primary", an index with an
// optional '#', or part of the output name.
func FindMonitor(monitors []MonitorInfo, selector string) (MonitorInfo, error) {
	if len(monitors) == 0 {
		return MonitorInfo{}, errNoMonitors
	}
	sel := strings.ToLower(strings.TrimSpace(selector))
	if sel == "" || sel == "primary" {
		for _, mon := range monitors {
			if mon.Primary {
				return mon, nil
			}
		}
		return monitors[0], nil
	}
	if idx, err := strconv.Atoi(strings.TrimPrefix(sel, "#")); err == nil {
		if idx < 0 || idx >= len(monitors) {
			return MonitorInfo{}, fmt.Errorf("monitor index %d out of range", idx)
		}
		return monitors[idx], nil
	}
	for _, mon := range monitors {
		if strings.Contains(strings.ToLower(mon.Name), sel) {
			return mon, nil
		}
	}
	return MonitorInfo{}, fmt.Errorf("monitor %q not found", selector)
}

// windowMatchers are the prefixed selector forms. Each receives the
// trimmed, lower cased value after the prefix.
var windowMatchers = map[string]func(w WindowInfo, v string) bool{
	"class": func(w WindowInfo, v string) bool {
		return contains(w.Class, v) || contains(w.Instance, v)
	},
	"exec":  func(w WindowInfo, v string) bool { return contains(w.Executable, v) },
	"title": func(w WindowInfo, v string) bool { return contains(w.Title, v) },
	"name":  func(w WindowInfo, v string) bool { return contains(w.Title, v) },
	"pid": func(w WindowInfo, v string) bool {
		pid, err := strconv.ParseUint(v, 10, 32)
		return err == nil && w.PID == uint32(pid)
	},
	"id": func(w WindowInfo, v string) bool {
		id, err := parseWindowID(v)
		return err == nil && w.ID == id
	},
}

func contains(s, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(s), lowerNeedle)
}

// SelectWindow matches a selector against windows. Empty or "active" picks
// the focused window, a number is an index, "0x.." a window id, and
// "prefix:value" uses one of class, exec, title, name, pid or id. Anything
// else is searched in the title, executable and class.
func SelectWindow(selector string, windows []WindowInfo) (WindowInfo, error) {
	if len(windows) == 0 {
		return WindowInfo{}, errNoWindows
	}
	sel := strings.ToLower(strings.TrimSpace(selector))
	switch {
	case sel == "" || sel == "active":
		for _, win := range windows {
			if win.Active {
				return win, nil
			}
		}
		if sel == "" {
			return windows[0], nil
		}
		return WindowInfo{}, fmt.Errorf("no active window detected")
	case strings.HasPrefix(sel, "index:"):
		sel = strings.TrimPrefix(sel, "index:")
		fallthrough
	case isDigits(sel):
		idx, err := strconv.Atoi(strings.TrimSpace(sel))
		if err != nil {
			return WindowInfo{}, fmt.Errorf("invalid index %q", sel)
		}
		if idx < 0 || idx >= len(windows) {
			return WindowInfo{}, fmt.Errorf("window index %d out of range", idx)
		}
		return windows[idx], nil
	case strings.HasPrefix(sel, "0x"):
		sel = "id:" + sel
	}
	match := func(w WindowInfo) bool {
		return contains(w.Title, sel) || contains(w.Executable, sel) ||
			contains(w.Class, sel) || contains(w.Instance, sel)
	}
	if prefix, val, ok := strings.Cut(sel, ":"); ok {
		if m, known := windowMatchers[prefix]; known {
			val = strings.TrimSpace(val)
			match = func(w WindowInfo) bool { return m(w, val) }
		}
	}
	for _, win := range windows {
		if match(win) {
			return win, nil
		}
	}
	return WindowInfo{}, fmt.Errorf("no window matched %q", selector)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func parseWindowID(val string) (uint32, error) {
	v := strings.ToLower(strings.TrimSpace(val))
	base := 10
	if strings.HasPrefix(v, "0x") {
		v, base = v[2:], 16
	}
	parsed, err := strconv.ParseUint(v, base, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid window id %q", val)
	}
	return uint32(parsed), nil
}
