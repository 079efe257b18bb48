package render

import (
	"image"
	"image/color"
	"testing"
)

func TestApplyShadowExpandsBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	subject := image.Pt(5, 5)
	img.Set(subject.X, subject.Y, color.RGBA{R: 255, A: 255})

	opts := ShadowOptions{Radius: 4, Offset: image.Pt(8, 6), Opacity: 1}
	out := ApplyShadow(img, opts)
	if out.Image == nil {
		t.Fatal("expected output image")
	}
	expected := image.Rect(0, 0, 22, 20)
	if !out.Image.Bounds().Eq(expected) {
		t.Fatalf("unexpected bounds %v, want %v", out.Image.Bounds(), expected)
	}
	if out.Offset != (image.Point{}) {
		t.Fatalf("unexpected offset %v", out.Offset)
	}
	shadowPt := subject.Add(out.Offset).Add(opts.Offset)
	if out.Image.RGBAAt(shadowPt.X, shadowPt.Y).A == 0 {
		t.Fatalf("expected shadow alpha at %v", shadowPt)
	}
	if got := out.Image.RGBAAt(subject.X+out.Offset.X, subject.Y+out.Offset.Y); got != (color.RGBA{R: 255, A: 255}) {
		t.Fatalf("subject pixel changed: %+v", got)
	}
}

func TestApplyShadowNoShadowWhenOpacityZero(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	fill := color.RGBA{R: 200, G: 100, B: 50, A: 255}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, fill)
		}
	}
	out := ApplyShadow(img, ShadowOptions{Radius: 12, Offset: image.Pt(20, 10), Opacity: 0})
	if out.Image != img {
		t.Fatal("expected the input image back")
	}
	if out.Offset != (image.Point{}) {
		t.Fatalf("unexpected offset %v", out.Offset)
	}
}

func TestApplyShadowNilImage(t *testing.T) {
	if out := ApplyShadow(nil, DefaultShadowOptions()); out.Image != nil {
		t.Fatal("expected no image")
	}
}
