package logger

import (
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Logger wraps a logrus entry so call sites can chain fields freely.
type Logger struct {
	*logrus.Entry
}

// New reads ENVIRONMENT and LOG_LEVEL and logs to stdout.
func New() *Logger {
	return NewWithOutput(os.Stdout, os.Getenv("ENVIRONMENT"), os.Getenv("LOG_LEVEL"))
}

// NewWithOutput builds a logger for env ("" or "local" means coloured
// text, anything else JSON) at level (debug, info, warn, error; unknown
// values mean info).
func NewWithOutput(out io.Writer, env, level string) *Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(formatterFor(env))
	l.SetLevel(levelFor(level))
	return &Logger{Entry: logrus.NewEntry(l)}
}

// Discard drops everything below error and writes nothing.
func Discard() *Logger {
	return NewWithOutput(io.Discard, "test", "error")
}

func formatterFor(env string) logrus.Formatter {
	if env == "" || env == "local" {
		return &logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339Nano,
			ForceColors:     true,
		}
	}
	return &logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano}
}

func levelFor(level string) logrus.Level {
	parsed, err := logrus.ParseLevel(level)
	if err != nil || parsed > logrus.DebugLevel {
		return logrus.InfoLevel
	}
	return parsed
}

// WithRequest tags an entry with the request ID (X-Request-ID or a fresh
// UUID) and basic request metadata.
func (l *Logger) WithRequest(r *http.Request) *logrus.Entry {
	id := r.Header.Get("X-Request-ID")
	if id == "" {
		id = uuid.NewString()
	}
	return l.WithFields(logrus.Fields{
		"req_id":     id,
		"method":     r.Method,
		"path":       r.URL.Path,
		"remote_ip":  r.RemoteAddr,
		"user_agent": r.UserAgent(),
	})
}

// WithError records err as a plain string field so JSON output stays flat.
func (l *Logger) WithError(err error) *logrus.Entry {
	if err == nil {
		return l.Entry
	}
	return l.WithField("error", err.Error())
}

func (l *Logger) Module(name string) *logrus.Entry {
	return l.WithField("module", name)
}
