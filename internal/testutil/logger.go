// Package testutil holds helpers shared by tests.
package testutil

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"
)

// NewTestLogger returns a debug-level logger writing through t.Log, so
// records show up only for failing tests or under -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(logWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type logWriter struct {
	t testing.TB
}

func (w logWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// Recorder is a slog.Handler that keeps every record for later assertions
// and mirrors it to t.Log.
type Recorder struct {
	t       testing.TB
	mu      sync.Mutex
	records []slog.Record
}

// NewRecorder returns a logger backed by a Recorder.
func NewRecorder(t testing.TB) (*slog.Logger, *Recorder) {
	r := &Recorder{t: t}
	return slog.New(r), r
}

// Enabled implements slog.Handler.
func (r *Recorder) Enabled(_ context.Context, _ slog.Level) bool { return true }

// Handle implements slog.Handler.
func (r *Recorder) Handle(_ context.Context, rec slog.Record) error {
	r.mu.Lock()
	r.records = append(r.records, rec.Clone())
	r.mu.Unlock()

	msg := fmt.Sprintf("%s %s", rec.Level, rec.Message)
	rec.Attrs(func(a slog.Attr) bool {
		msg += " " + a.String()
		return true
	})
	r.t.Log(msg)
	return nil
}

// WithAttrs implements slog.Handler. Attributes are not tracked.
func (r *Recorder) WithAttrs(_ []slog.Attr) slog.Handler { return r }

// WithGroup implements slog.Handler. Groups are not tracked.
func (r *Recorder) WithGroup(_ string) slog.Handler { return r }

// Messages returns the messages logged at exactly level, in order.
func (r *Recorder) Messages(level slog.Level) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []string
	for _, rec := range r.records {
		if rec.Level == level {
			out = append(out, rec.Message)
		}
	}
	return out
}
