package asslay

import (
	"io"
	"log/slog"
)

// defaultLogger is used by a Renderer whose Config didn't set Logger:
// it discards everything. A caller that wants visibility into
// degraded-data warnings (glyphs missing from the font, failed bitmap
// or run construction, failed events) sets Config.Logger to something
// real.
func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// warnEvent logs one event-level degradation: bad style index, empty
// text, shaping failure. Per §7, these are
// all "log warning, skip this event, continue" — never surfaced as a
// RenderFrame error.
func (r *Renderer) warnEvent(idx int, err error) {
	r.log.Warn("event render failed", "event", idx, "error", err)
}

// warnDegraded logs a degraded-data condition that doesn't abort
// anything — glyphs missing from the resolved font, a failed bitmap
// glyph construction, a failed run combine.
func (r *Renderer) warnDegraded(msg string, args ...any) {
	r.log.Warn(msg, args...)
}
