// Package testlog captures log output in memory for assertions in tests.
package testlog

import (
	"sync"

	"service-cleaning-booking/internal/logx"
)

// Entry is one captured log call.
type Entry struct {
	Level  string
	Msg    string
	Fields []logx.Field
}

// Value returns the value of the last field named key.
func (e Entry) Value(key string) (any, bool) {
	for i := len(e.Fields) - 1; i >= 0; i-- {
		if e.Fields[i].Key == key {
			return e.Fields[i].Value, true
		}
	}
	return nil, false
}

// Recorder collects entries from every logger it hands out.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

func New() *Recorder { return &Recorder{} }

// Logger returns a logx.Logger that appends to r.
func (r *Recorder) Logger() logx.Logger { return &recLogger{rec: r} }

// Entries returns a snapshot of everything logged so far.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Has reports whether msg was logged at level.
func (r *Recorder) Has(level, msg string) bool {
	return len(r.filter(func(e Entry) bool { return e.Level == level && e.Msg == msg })) > 0
}

// Count returns the number of entries with msg, at any level.
func (r *Recorder) Count(msg string) int {
	return len(r.filter(func(e Entry) bool { return e.Msg == msg }))
}

func (r *Recorder) filter(keep func(Entry) bool) []Entry {
	var out []Entry
	for _, e := range r.Entries() {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

func (r *Recorder) record(level, msg string, prefix, fields []logx.Field) {
	all := make([]logx.Field, 0, len(prefix)+len(fields))
	all = append(append(all, prefix...), fields...)

	r.mu.Lock()
	r.entries = append(r.entries, Entry{Level: level, Msg: msg, Fields: all})
	r.mu.Unlock()
}

type recLogger struct {
	rec    *Recorder
	prefix []logx.Field
}

func (l *recLogger) Debug(msg string, f ...logx.Field) { l.rec.record("debug", msg, l.prefix, f) }
func (l *recLogger) Info(msg string, f ...logx.Field)  { l.rec.record("info", msg, l.prefix, f) }
func (l *recLogger) Warn(msg string, f ...logx.Field)  { l.rec.record("warn", msg, l.prefix, f) }
func (l *recLogger) Error(msg string, f ...logx.Field) { l.rec.record("error", msg, l.prefix, f) }
func (l *recLogger) Sync() error                       { return nil }

func (l *recLogger) With(f ...logx.Field) logx.Logger {
	prefix := make([]logx.Field, 0, len(l.prefix)+len(f))
	prefix = append(append(prefix, l.prefix...), f...)
	return &recLogger{rec: l.rec, prefix: prefix}
}
