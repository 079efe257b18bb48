// Package render holds drawing helpers shared by the overlay, the shape
// catalogue and exported results.
package render

import (
	"fmt"
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	fontOnce   sync.Once
	fontSource *text.FontSource
	fontErr    error

	facesMu sync.Mutex
	faces   = map[float64]text.Face{}
)

func loadFont() {
	fontSource, fontErr = text.NewFontSource(goregular.TTF)
	if fontErr != nil {
		fontErr = fmt.Errorf("load go regular: %w", fontErr)
	}
}

// Face returns the shared UI face at size points.
func Face(size float64) (text.Face, error) {
	fontOnce.Do(loadFont)
	if fontErr != nil {
		return nil, fontErr
	}
	facesMu.Lock()
	defer facesMu.Unlock()
	if f, ok := faces[size]; ok {
		return f, nil
	}
	f := fontSource.Face(size)
	faces[size] = f
	return f, nil
}
