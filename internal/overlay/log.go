package overlay

import (
	"log"
	"log/slog"
	"sync"

	"github.com/gogpu/gg"
)

var rendererLogOnce sync.Once

// bridgeRendererLog routes warnings of the vector renderer to the standard
// logger.
func bridgeRendererLog() {
	rendererLogOnce.Do(func() {
		h := slog.NewTextHandler(log.Default().Writer(), &slog.HandlerOptions{Level: slog.LevelWarn})
		gg.SetLogger(slog.New(h))
	})
}
