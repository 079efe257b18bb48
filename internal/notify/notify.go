// Package notify reports completed captures, saves and copies as desktop
// notifications.
package notify

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/transform"

	"github.com/example/regionshot/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventCapture emits a notification when a capture completes.
	EventCapture Event = "capture"
	// EventSave emits a notification when an image is persisted to disk.
	EventSave Event = "save"
	// EventCopy emits a notification when data is copied to the clipboard.
	EventCopy Event = "copy"
)

// EventPreference describes formatting for a notification event.
type EventPreference struct {
	Template string
}

// Preferences describes notification behaviour loaded from configuration.
type Preferences struct {
	Title  string
	Events map[Event]EventPreference
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: "regionshot",
		Events: map[Event]EventPreference{
			EventCapture: {Template: "Captured %s"},
			EventSave:    {Template: "Saved %s"},
			EventCopy:    {Template: "Copied %s to clipboard"},
		},
	}
}

// LoadPreferences reads REGIONSHOT_NOTIFY_* overrides through lookup,
// usually os.LookupEnv.
func LoadPreferences(lookup func(string) (string, bool)) Preferences {
	prefs := DefaultPreferences()
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}
	if v := get("REGIONSHOT_NOTIFY_TITLE"); v != "" {
		prefs.Title = v
	}
	apply := func(key string, event Event) {
		if v := get(key); v != "" {
			eventPrefs := prefs.Events[event]
			eventPrefs.Template = v
			prefs.Events[event] = eventPrefs
		}
	}
	apply("REGIONSHOT_NOTIFY_CAPTURE_TEXT", EventCapture)
	apply("REGIONSHOT_NOTIFY_SAVE_TEXT", EventSave)
	apply("REGIONSHOT_NOTIFY_COPY_TEXT", EventCopy)
	return prefs
}

// send delivers one notification.
var send = platform.Notify

// previewSize bounds the thumbnail attached to capture notifications.
const previewSize = 256

// Notifier sends OS-level notifications for the enabled events.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
}

// New creates a Notifier with every event disabled.
func New(prefs Preferences) *Notifier {
	cloned := Preferences{Title: prefs.Title, Events: maps.Clone(prefs.Events)}
	return &Notifier{prefs: cloned, enabled: make(map[Event]bool)}
}

// Enable toggles the notifier for event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n != nil {
		n.enabled[event] = enabled
	}
}

// Capture reports a finished capture with a thumbnail of img when given.
func (n *Notifier) Capture(detail string, img image.Image) {
	if !n.enabledFor(EventCapture) {
		return
	}
	var opts platform.Options
	if img != nil {
		path, cleanup, err := createPreview(img)
		if err != nil {
			log.Printf("notification preview: %v", err)
		} else {
			defer cleanup()
			opts.IconPath = path
		}
	}
	n.dispatch(EventCapture, detail, opts)
}

// Save reports a written file, which doubles as the notification icon.
func (n *Notifier) Save(path string) {
	if !n.enabledFor(EventSave) {
		return
	}
	var opts platform.Options
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
		if _, err := os.Stat(abs); err == nil {
			opts.IconPath = abs
		}
	}
	n.dispatch(EventSave, path, opts)
}

// Copy reports a clipboard copy. An empty detail reads as "image".
func (n *Notifier) Copy(detail string) {
	if strings.TrimSpace(detail) == "" {
		detail = "image"
	}
	n.dispatch(EventCopy, detail, platform.Options{})
}

func (n *Notifier) enabledFor(event Event) bool {
	return n != nil && n.enabled[event]
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	if !n.enabledFor(event) {
		return
	}
	tmpl := strings.TrimSpace(n.prefs.Events[event].Template)
	if tmpl == "" {
		return
	}
	body := strings.TrimSpace(fmt.Sprintf(tmpl, strings.TrimSpace(detail)))
	if err := send(n.prefs.Title, body, opts); err != nil {
		log.Printf("notification %s: %v", event, err)
	}
}

// thumbnail shrinks img to fit previewSize, keeping its aspect ratio.
func thumbnail(img image.Image) image.Image {
	b := img.Bounds()
	longest := max(b.Dx(), b.Dy())
	if longest <= previewSize {
		return img
	}
	w := max(1, b.Dx()*previewSize/longest)
	h := max(1, b.Dy()*previewSize/longest)
	return transform.Resize(img, w, h, transform.Linear)
}

func createPreview(img image.Image) (string, func(), error) {
	f, err := os.CreateTemp("", "regionshot-preview-*.png")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	if err := png.Encode(f, thumbnail(img)); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("remove preview: %v", err)
		}
	}
	return path, cleanup, nil
}
