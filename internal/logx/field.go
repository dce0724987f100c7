package logx

import "time"

// Field is one key/value pair attached to a log entry.
type Field struct {
	Key   string
	Value any
}

func Any(key string, v any) Field                { return Field{key, v} }
func String(key, v string) Field                 { return Field{key, v} }
func Int(key string, v int) Field                { return Field{key, v} }
func Int64(key string, v int64) Field            { return Field{key, v} }
func Bool(key string, v bool) Field              { return Field{key, v} }
func Time(key string, v time.Time) Field         { return Field{key, v} }
func Duration(key string, v time.Duration) Field { return Field{key, v} }

// Err stores the error text under "error"; nil stays nil.
func Err(err error) Field {
	if err == nil {
		return Field{"error", nil}
	}
	return Field{"error", err.Error()}
}
