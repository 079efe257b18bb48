//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import "testing"

func TestRunningOnWayland(t *testing.T) {
	for _, tc := range []struct {
		session, display string
		want             bool
	}{
		{"wayland", "", true},
		{"x11", "wayland-0", true},
		{"x11", "", false},
		{"", "", false},
	} {
		t.Setenv("XDG_SESSION_TYPE", tc.session)
		t.Setenv("WAYLAND_DISPLAY", tc.display)
		if got := runningOnWayland(); got != tc.want {
			t.Errorf("XDG_SESSION_TYPE=%q WAYLAND_DISPLAY=%q: runningOnWayland() = %v", tc.session, tc.display, got)
		}
	}
}
