package notify

import (
	"image"
	"os"
	"testing"

	"github.com/example/regionshot/internal/platform"
)

type sent struct {
	title, body string
	icon        string
	iconExisted bool
}

func captureSends(t *testing.T) *[]sent {
	t.Helper()
	var got []sent
	prev := send
	send = func(title, body string, opts platform.Options) error {
		s := sent{title: title, body: body, icon: opts.IconPath}
		if opts.IconPath != "" {
			_, err := os.Stat(opts.IconPath)
			s.iconExisted = err == nil
		}
		got = append(got, s)
		return nil
	}
	t.Cleanup(func() { send = prev })
	return &got
}

func TestDisabledEventsAreSilent(t *testing.T) {
	got := captureSends(t)
	n := New(DefaultPreferences())
	n.Capture("region 10x10", nil)
	n.Copy("")
	var nilNotifier *Notifier
	nilNotifier.Save("x.png")
	if len(*got) != 0 {
		t.Fatalf("expected no notifications, got %+v", *got)
	}
}

func TestCaptureAttachesPreview(t *testing.T) {
	got := captureSends(t)
	n := New(DefaultPreferences())
	n.Enable(EventCapture, true)
	n.Capture("region 4x4", image.NewRGBA(image.Rect(0, 0, 4, 4)))
	if len(*got) != 1 {
		t.Fatalf("expected one notification, got %d", len(*got))
	}
	s := (*got)[0]
	if s.title != "regionshot" || s.body != "Captured region 4x4" {
		t.Fatalf("unexpected notification %+v", s)
	}
	if !s.iconExisted {
		t.Fatalf("preview missing while sending")
	}
	if _, err := os.Stat(s.icon); !os.IsNotExist(err) {
		t.Fatalf("preview %s not removed", s.icon)
	}
}

func TestLoadPreferences(t *testing.T) {
	env := map[string]string{
		"REGIONSHOT_NOTIFY_TITLE":     "Shots",
		"REGIONSHOT_NOTIFY_COPY_TEXT": "Clipboard: %s",
	}
	prefs := LoadPreferences(func(k string) (string, bool) { v, ok := env[k]; return v, ok })
	if prefs.Title != "Shots" {
		t.Fatalf("title = %q", prefs.Title)
	}

	got := captureSends(t)
	n := New(prefs)
	n.Enable(EventCopy, true)
	n.Copy("")
	if len(*got) != 1 || (*got)[0].body != "Clipboard: image" {
		t.Fatalf("unexpected notifications %+v", *got)
	}
}

func TestThumbnailFitsPreviewSize(t *testing.T) {
	small := image.NewRGBA(image.Rect(0, 0, 40, 20))
	if thumbnail(small) != image.Image(small) {
		t.Fatalf("small images must be used as is")
	}
	got := thumbnail(image.NewRGBA(image.Rect(0, 0, 1024, 512))).Bounds()
	if got.Dx() != previewSize || got.Dy() != previewSize/2 {
		t.Fatalf("thumbnail bounds = %v", got)
	}
}
