package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a text logger writing to w. Debug enables debug level.
func New(w io.Writer, debug bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})
	if debug {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

// Open returns a logger appending to path. An empty path discards output,
// since the terminal belongs to the UI.
func Open(path string, debug bool) (*logrus.Logger, io.Closer, error) {
	if path == "" {
		return New(io.Discard, debug), io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return New(f, debug), f, nil
}

// Discard returns a logger that drops everything. Used when a caller passes nil.
func Discard() logrus.FieldLogger {
	return New(io.Discard, false)
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l logrus.FieldLogger) logrus.FieldLogger {
	if l == nil {
		return Discard()
	}
	return l
}
