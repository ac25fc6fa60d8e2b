// Package logging builds the structured logger shared by every package.
package logging

import (
	"context"
	"io"
	"log/slog"

	"github.com/cockroachdb/errors"
)

// New returns a text logger writing to w at the named level
// ("debug", "info", "warn" or "error").
func New(w io.Writer, level string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

func ParseLevel(level string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return 0, errors.Wrapf(err, "log level %q", level)
	}
	return lvl, nil
}

// nopHandler discards every record. Enabled returns false so callers skip
// formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// Nop returns a logger that drops everything.
func Nop() *slog.Logger { return slog.New(nopHandler{}) }

// OrNop returns l, or a discarding logger when l is nil.
func OrNop(l *slog.Logger) *slog.Logger {
	if l == nil {
		return Nop()
	}
	return l
}
