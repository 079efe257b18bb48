//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import (
	"errors"
	"fmt"
	"image"
)

// ErrUnsupported is returned on platforms without a clipboard sink.
var ErrUnsupported = errors.New("clipboard not supported on this platform")

func WriteImage(image.Image) error {
	return fmt.Errorf("clipboard write image: %w", ErrUnsupported)
}

func WriteText(string) error {
	return fmt.Errorf("clipboard write text: %w", ErrUnsupported)
}
