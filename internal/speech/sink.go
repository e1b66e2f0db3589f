package speech

import "github.com/sirupsen/logrus"

// Sink receives spoken notifications. Notify must not block the caller.
type Sink interface {
	Notify(text string)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(text string)

// Notify calls f(text).
func (f SinkFunc) Notify(text string) { f(text) }

// Multi fans a notification out to several sinks in order.
type Multi []Sink

// Notify forwards text to every non-nil sink.
func (m Multi) Notify(text string) {
	for _, s := range m {
		if s != nil {
			s.Notify(text)
		}
	}
}

// LogSink records notifications in the log.
type LogSink struct {
	Log logrus.FieldLogger
}

// Notify logs text at info level.
func (s LogSink) Notify(text string) {
	if s.Log != nil {
		s.Log.WithField("text", text).Info("notify")
	}
}

// Discard drops every notification.
var Discard Sink = SinkFunc(func(string) {})
