package renderer

import (
	"log/slog"
	"sync/atomic"
)

// loggerPtr holds the diagnostic logger. The default discards everything.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(slog.DiscardHandler))
}

// SetLogger configures the diagnostic channel of the renderer. Construction,
// compile and link failures are reported there; none of them are fatal.
// Pass nil to restore the silent default.
//
// Levels used:
//   - [slog.LevelInfo]: the rendering path chosen for a surface
//   - [slog.LevelWarn]: accelerated context unavailable, fallback painting issues
//   - [slog.LevelError]: shader compile and program link failures, with the host log
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	loggerPtr.Store(l)
}

// Logger returns the current diagnostic logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
