package flow // import "github.com/orkestr8/xflow/flow"

import (
	"log/slog"
)

type nologging struct{}

func (l nologging) Log(m string, args ...interface{}) {
}

func (l nologging) Warn(m string, args ...interface{}) {
}

type slogger struct {
	*slog.Logger
}

// SlogLogger logs Log lines at debug and Warn lines at warn level. Arguments
// are key value pairs.
func SlogLogger(l *slog.Logger) Logger {
	if l == nil {
		l = slog.Default()
	}
	return slogger{Logger: l}
}

func (l slogger) Log(m string, args ...interface{}) {
	l.Debug(m, args...)
}

func (l slogger) Warn(m string, args ...interface{}) {
	l.Logger.Warn(m, args...)
}

// tagged prefixes every line with fixed key value pairs.
type tagged struct {
	Logger
	tags []interface{}
}

func withTags(l Logger, tags ...interface{}) Logger {
	if sl, is := l.(slogger); is {
		return slogger{Logger: sl.With(tags...)}
	}
	return tagged{Logger: l, tags: tags}
}

func (l tagged) Log(m string, args ...interface{}) {
	l.Logger.Log(m, append(append([]interface{}{}, l.tags...), args...)...)
}

func (l tagged) Warn(m string, args ...interface{}) {
	l.Logger.Warn(m, append(append([]interface{}{}, l.tags...), args...)...)
}
