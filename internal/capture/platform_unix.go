//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/randr"
	"github.com/jezek/xgb/xproto"
)

type x11Backend struct{}

func newBackend() platformBackend {
	return x11Backend{}
}

func runningOnWayland() bool {
	sessionType := strings.ToLower(strings.TrimSpace(os.Getenv("XDG_SESSION_TYPE")))
	if sessionType == "wayland" {
		return true
	}
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		return true
	}
	return false
}

// dial connects to the X server and returns its root window.
func dial() (*xgb.Conn, xproto.Window, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, 0, fmt.Errorf("connect X server: %w", err)
	}
	setup := xproto.Setup(conn)
	if setup == nil {
		conn.Close()
		return nil, 0, fmt.Errorf("xproto setup unavailable")
	}
	screen := setup.DefaultScreen(conn)
	if screen == nil {
		conn.Close()
		return nil, 0, fmt.Errorf("xproto screen unavailable")
	}
	return conn, screen.Root, nil
}

func (x11Backend) ListMonitors() ([]MonitorInfo, error) {
	conn, root, err := dial()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	monitors, err := fetchMonitors(conn, root)
	if err != nil {
		return nil, err
	}
	if len(monitors) == 0 {
		return nil, errNoMonitors
	}
	return monitors, nil
}

func (x11Backend) Windows(ctx context.Context, found func(WindowInfo)) error {
	conn, root, err := dial()
	if err != nil {
		return err
	}
	defer conn.Close()

	monitors, _ := fetchMonitors(conn, root)
	activeID, _ := fetchActiveWindow(conn, root)
	return fetchWindows(ctx, conn, root, monitors, activeID, found)
}

func fetchMonitors(conn *xgb.Conn, root xproto.Window) ([]MonitorInfo, error) {
	if err := randr.Init(conn); err != nil {
		return nil, fmt.Errorf("init randr: %w", err)
	}
	res, err := randr.GetScreenResources(conn, root).Reply()
	if err != nil {
		return nil, fmt.Errorf("randr screen resources: %w", err)
	}
	primaryOutput := randr.Output(0)
	if primary, err := randr.GetOutputPrimary(conn, root).Reply(); err == nil {
		primaryOutput = primary.Output
	}
	monitors := make([]MonitorInfo, 0, len(res.Outputs))
	idx := 0
	for _, output := range res.Outputs {
		info, err := randr.GetOutputInfo(conn, output, res.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if info.Connection != randr.ConnectionConnected || info.Crtc == 0 {
			continue
		}
		crtc, err := randr.GetCrtcInfo(conn, info.Crtc, res.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		name := strings.TrimSpace(string(info.Name))
		rect := image.Rect(
			int(crtc.X),
			int(crtc.Y),
			int(crtc.X)+int(crtc.Width),
			int(crtc.Y)+int(crtc.Height),
		)
		monitors = append(monitors, MonitorInfo{
			Index:   idx,
			Name:    name,
			Rect:    rect,
			Primary: output == primaryOutput,
		})
		idx++
	}
	return monitors, nil
}

func fetchActiveWindow(conn *xgb.Conn, root xproto.Window) (uint32, error) {
	atom, err := internAtom(conn, "_NET_ACTIVE_WINDOW")
	if err != nil {
		return 0, err
	}
	reply, err := xproto.GetProperty(conn, false, root, atom, xproto.AtomWindow, 0, 1).Reply()
	if err != nil {
		return 0, err
	}
	if reply.Format != 32 || reply.ValueLen == 0 {
		return 0, fmt.Errorf("active window unavailable")
	}
	return xgb.Get32(reply.Value), nil
}

// fetchWindows walks the stacking list from the top. Windows that cannot be
// described, such as ones destroyed meanwhile, are skipped.
func fetchWindows(ctx context.Context, conn *xgb.Conn, root xproto.Window, monitors []MonitorInfo, activeID uint32, found func(WindowInfo)) error {
	ids, err := clientList(conn, root)
	if err != nil {
		return err
	}
	for idx := len(ids) - 1; idx >= 0; idx-- {
		if err := ctx.Err(); err != nil {
			return err
		}
		info, err := describeWindow(conn, root, ids[idx])
		if err != nil || !isViewable(conn, ids[idx]) {
			continue
		}
		info.Active = info.ID == activeID
		info.Monitor = monitorForRect(info.Rect, monitors)
		found(info)
	}
	return nil
}

// clientList reads the managed windows bottom to top, preferring the
// stacking order when the window manager publishes it.
func clientList(conn *xgb.Conn, root xproto.Window) ([]xproto.Window, error) {
	var reply *xproto.GetPropertyReply
	for _, name := range []string{"_NET_CLIENT_LIST_STACKING", "_NET_CLIENT_LIST"} {
		atom, err := internAtom(conn, name)
		if err != nil {
			return nil, err
		}
		reply, err = xproto.GetProperty(conn, false, root, atom, xproto.AtomWindow, 0, 1<<16).Reply()
		if err == nil && reply.Format == 32 && reply.ValueLen > 0 {
			break
		}
		reply = nil
	}
	if reply == nil {
		return nil, nil
	}
	ids := make([]xproto.Window, 0, reply.ValueLen)
	for i := 0; i < int(reply.ValueLen); i++ {
		ids = append(ids, xproto.Window(xgb.Get32(reply.Value[i*4:])))
	}
	return ids, nil
}

// isViewable filters out minimised and unmapped windows.
func isViewable(conn *xgb.Conn, win xproto.Window) bool {
	attrs, err := xproto.GetWindowAttributes(conn, win).Reply()
	if err != nil {
		return false
	}
	return attrs.MapState == xproto.MapStateViewable
}

func describeWindow(conn *xgb.Conn, root xproto.Window, win xproto.Window) (WindowInfo, error) {
	title := readUTF8Property(conn, win, "_NET_WM_NAME")
	if title == "" {
		title = readStringProperty(conn, win, "WM_NAME")
	}
	class, instance := readClass(conn, win)
	pid := readPID(conn, win)
	exec := readExecutable(pid)
	rect, err := windowRect(conn, root, win)
	if err != nil {
		return WindowInfo{}, err
	}
	return WindowInfo{
		ID:         uint32(win),
		Title:      title,
		Class:      class,
		Instance:   instance,
		PID:        pid,
		Executable: exec,
		Rect:       rect,
		Monitor:    -1,
	}, nil
}

func windowRect(conn *xgb.Conn, root xproto.Window, win xproto.Window) (image.Rectangle, error) {
	geo, err := xproto.GetGeometry(conn, xproto.Drawable(win)).Reply()
	if err != nil {
		return image.Rectangle{}, err
	}
	trans, err := xproto.TranslateCoordinates(conn, win, root, 0, 0).Reply()
	if err != nil {
		return image.Rectangle{}, err
	}
	x := int(trans.DstX) - int(geo.BorderWidth)
	y := int(trans.DstY) - int(geo.BorderWidth)
	width := int(geo.Width) + int(geo.BorderWidth)*2
	height := int(geo.Height) + int(geo.BorderWidth)*2
	return image.Rect(x, y, x+width, y+height), nil
}

func monitorForRect(rect image.Rectangle, monitors []MonitorInfo) int {
	if len(monitors) == 0 {
		return -1
	}
	center := image.Point{X: rect.Min.X + rect.Dx()/2, Y: rect.Min.Y + rect.Dy()/2}
	best := -1
	for _, mon := range monitors {
		if center.In(mon.Rect) {
			return mon.Index
		}
		if best == -1 {
			best = mon.Index
		}
	}
	return best
}

func internAtom(conn *xgb.Conn, name string) (xproto.Atom, error) {
	reply, err := xproto.InternAtom(conn, true, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, err
	}
	return reply.Atom, nil
}

func readUTF8Property(conn *xgb.Conn, win xproto.Window, name string) string {
	atom, err := internAtom(conn, name)
	if err != nil {
		return ""
	}
	utf8StringAtom, err := internAtom(conn, "UTF8_STRING")
	if err != nil {
		return ""
	}
	reply, err := xproto.GetProperty(conn, false, win, atom, utf8StringAtom, 0, 1<<16).Reply()
	if err != nil || reply.ValueLen == 0 {
		return ""
	}
	return strings.TrimRight(string(reply.Value), "\x00")
}

func readStringProperty(conn *xgb.Conn, win xproto.Window, name string) string {
	atom, err := internAtom(conn, name)
	if err != nil {
		return ""
	}
	reply, err := xproto.GetProperty(conn, false, win, atom, xproto.AtomString, 0, 1<<16).Reply()
	if err != nil || reply.ValueLen == 0 {
		return ""
	}
	return strings.TrimRight(string(reply.Value), "\x00")
}

func readClass(conn *xgb.Conn, win xproto.Window) (class string, instance string) {
	atom, err := internAtom(conn, "WM_CLASS")
	if err != nil {
		return "", ""
	}
	reply, err := xproto.GetProperty(conn, false, win, atom, xproto.AtomString, 0, 64).Reply()
	if err != nil || reply.ValueLen == 0 {
		return "", ""
	}
	parts := bytes.Split(reply.Value, []byte{0})
	vals := make([]string, 0, len(parts))
	for _, p := range parts {
		if len(p) == 0 {
			continue
		}
		vals = append(vals, string(p))
	}
	if len(vals) >= 2 {
		return vals[1], vals[0]
	}
	if len(vals) == 1 {
		return vals[0], vals[0]
	}
	return "", ""
}

func readPID(conn *xgb.Conn, win xproto.Window) uint32 {
	atom, err := internAtom(conn, "_NET_WM_PID")
	if err != nil {
		return 0
	}
	reply, err := xproto.GetProperty(conn, false, win, atom, xproto.AtomCardinal, 0, 1).Reply()
	if err != nil || reply.Format != 32 || reply.ValueLen == 0 {
		return 0
	}
	return xgb.Get32(reply.Value)
}

func readExecutable(pid uint32) string {
	if pid == 0 {
		return ""
	}
	if data, err := os.ReadFile(fmt.Sprintf("/proc/%d/comm", pid)); err == nil {
		return strings.TrimSpace(string(data))
	}
	if exe, err := os.Readlink(fmt.Sprintf("/proc/%d/exe", pid)); err == nil {
		return filepath.Base(exe)
	}
	if data, err := os.ReadFile(fmt.Sprintf("/proc/%d/cmdline", pid)); err == nil {
		parts := bytes.Split(data, []byte{0})
		if len(parts) > 0 && len(parts[0]) > 0 {
			return filepath.Base(string(parts[0]))
		}
	}
	return ""
}
