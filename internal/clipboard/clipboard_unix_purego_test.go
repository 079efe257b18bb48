//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"bytes"
	"testing"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

func testAtoms() atomSet {
	return atomSet{clipboard: 100, targets: 101, utf8: 102, textPlain: 103, png: 104}
}

func TestAnswerListsTargetsForOffer(t *testing.T) {
	a := testAtoms()
	r, ok := a.answer(a.targets, offer{image: []byte{1}})
	if !ok {
		t.Fatal("TARGETS request refused")
	}
	if r.format != 32 || r.typ != xproto.AtomAtom {
		t.Fatalf("unexpected reply type %d format %d", r.typ, r.format)
	}
	if r.length() != 2 {
		t.Fatalf("expected 2 targets, got %d", r.length())
	}
	if got := xproto.Atom(xgb.Get32(r.payload[4:])); got != a.png {
		t.Fatalf("expected png target, got %d", got)
	}
}

func TestAnswerServesOnlyWhatWasOffered(t *testing.T) {
	a := testAtoms()
	img := offer{image: []byte("png bytes")}
	if _, ok := a.answer(a.utf8, img); ok {
		t.Fatal("text served from an image offer")
	}
	r, ok := a.answer(a.png, img)
	if !ok || !bytes.Equal(r.payload, img.image) || r.length() != uint32(len(img.image)) {
		t.Fatalf("png reply = %+v, %v", r, ok)
	}

	text := offer{text: []byte("120 x 80")}
	for _, target := range []xproto.Atom{a.utf8, xproto.AtomString, a.textPlain} {
		r, ok := a.answer(target, text)
		if !ok || r.typ != a.utf8 || string(r.payload) != "120 x 80" {
			t.Fatalf("target %d: reply = %+v, %v", target, r, ok)
		}
	}
	if _, ok := a.answer(999, text); ok {
		t.Fatal("unknown target answered")
	}
}
