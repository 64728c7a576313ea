package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes codec events to an slog.Logger.
// Useful for development when you want to see codec activity in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger. Failed operations log at
// Warn level, everything else at Debug.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("stage", event.Stage.String()),
		slog.Int("in_size", event.InSize),
		slog.Int("out_size", event.OutSize),
	}

	if event.Stage == StageEncode || event.Stage == StageDecode {
		attrs = append(attrs,
			slog.Bool("fallback", event.Fallback),
			slog.Bool("compressed", event.Compressed),
		)
		if event.TopTag != 0 {
			attrs = append(attrs, slog.Uint64("top_tag", uint64(event.TopTag)))
		}
	}

	level := slog.LevelDebug
	if event.Failed() {
		level = slog.LevelWarn
		attrs = append(attrs, slog.String("error", event.Error))
	}

	a.logger.LogAttrs(context.Background(), level, "codec "+event.Stage.String(), attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
