package overlay

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/regionshot/internal/geom"
)

func TestEnumeratorPublishesPartialListOnTimeout(t *testing.T) {
	slow := func(ctx context.Context, found func(geom.Rect)) error {
		found(geom.R(0, 0, 100, 100))
		<-ctx.Done()
		return ctx.Err()
	}
	e := NewWindowEnumerator(slow, 20*time.Millisecond)
	got := make(chan []geom.Rect, 1)
	e.Start(context.Background(), func(r []geom.Rect) { got <- r })
	e.Start(context.Background(), func([]geom.Rect) { t.Error("second start ran") })

	select {
	case rects := <-got:
		assert.Equal(t, []geom.Rect{geom.R(0, 0, 100, 100)}, rects)
	case <-time.After(time.Second):
		t.Fatal("nothing published")
	}
	<-e.Done()
}

func TestEnumeratorPublishesOnError(t *testing.T) {
	failing := func(ctx context.Context, found func(geom.Rect)) error {
		found(geom.R(5, 5, 10, 10))
		return errors.New("no display")
	}
	e := NewWindowEnumerator(failing, time.Second)
	got := make(chan []geom.Rect, 1)
	e.Start(context.Background(), func(r []geom.Rect) { got <- r })
	<-e.Done()
	require.Len(t, got, 1)
	assert.Len(t, <-got, 1)
}

func TestWindowDetectionUsesClientCoordinates(t *testing.T) {
	o := New(noise(200, 200), WithScreen(geom.R(100, 50, 200, 200)))
	list := func(ctx context.Context, found func(geom.Rect)) error {
		found(geom.R(110, 60, 40, 30))
		return nil
	}
	e := o.StartWindowDetection(context.Background(), list)
	<-e.Done()
	assert.Equal(t, []geom.Rect{geom.R(10, 10, 40, 30)}, o.Manager().Windows())
}
