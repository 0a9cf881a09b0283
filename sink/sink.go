// Package sink delivers the change reports and conflicts of a merge pass to
// the caller.
package sink

import (
	"context"
	"log/slog"
	"sync"

	"github.com/signadot/xmerge/conflict"
	"github.com/signadot/xmerge/conflictlog"
	"github.com/signadot/xmerge/report"
)

// Listener receives events in the order they were produced. A pass that
// fails delivers nothing.
type Listener interface {
	OnChange(report.ChangeReport)
	OnConflict(conflict.Conflict)
}

// Null discards all events.
type Null struct{}

func (Null) OnChange(report.ChangeReport) {}
func (Null) OnConflict(conflict.Conflict) {}

// Event is one recorded delivery. Exactly one field is set.
type Event struct {
	Change   report.ChangeReport
	Conflict conflict.Conflict
}

// Recorder keeps every event it receives. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) OnChange(c report.ChangeReport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Change: c})
}

func (r *Recorder) OnConflict(c conflict.Conflict) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Conflict: c})
}

// Events returns the events in delivery order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *Recorder) Changes() []report.ChangeReport {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []report.ChangeReport
	for _, e := range r.events {
		if e.Change != nil {
			res = append(res, e.Change)
		}
	}
	return res
}

func (r *Recorder) Conflicts() []conflict.Conflict {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []conflict.Conflict
	for _, e := range r.events {
		if e.Conflict != nil {
			res = append(res, e.Conflict)
		}
	}
	return res
}

// Multi fans events out to each listener in turn.
type Multi []Listener

func (m Multi) OnChange(c report.ChangeReport) {
	for _, l := range m {
		l.OnChange(c)
	}
}

func (m Multi) OnConflict(c conflict.Conflict) {
	for _, l := range m {
		l.OnConflict(c)
	}
}

// Logger writes each event to a slog logger.
type Logger struct {
	L *slog.Logger
}

func (l Logger) logger() *slog.Logger {
	if l.L == nil {
		return slog.Default()
	}
	return l.L
}

func (l Logger) OnChange(c report.ChangeReport) {
	l.logger().Info(c.ActionLabel(), "kind", c.Kind(), "file", c.PathToFile(), "context", c.Context().Path)
}

func (l Logger) OnConflict(c conflict.Conflict) {
	l.logger().Warn(c.Description(), "kind", c.Kind(), "file", c.RelativeFilePath(),
		"context", c.Context().Path, "winner", c.WinnerID(), "guid", c.ID())
}

// LogWriter appends conflicts to a conflict log and ignores change reports.
// Listener methods cannot fail, so the first append error is kept for Err.
type LogWriter struct {
	Log conflictlog.Log
	Ctx context.Context

	mu  sync.Mutex
	err error
}

func NewLogWriter(ctx context.Context, l conflictlog.Log) *LogWriter {
	return &LogWriter{Log: l, Ctx: ctx}
}

func (w *LogWriter) OnChange(report.ChangeReport) {}

func (w *LogWriter) OnConflict(c conflict.Conflict) {
	ctx := w.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	err := w.Log.Append(ctx, c)
	if err == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err == nil {
		w.err = err
	}
}

// Err returns the first error encountered appending a conflict.
func (w *LogWriter) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}
