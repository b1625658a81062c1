package logsvc

import (
	"io/ioutil"
	"log"

	"github.com/edutrack/portal/core"
)

// StdLogger logs to a standard *log.Logger only. Used in dev and tests
// where Rollbar reporting is not wanted.
type StdLogger struct {
	std     *log.Logger
	enabled bool
}

var _ core.Logger = (*StdLogger)(nil)

func NewStdLogger(std *log.Logger) *StdLogger {
	return &StdLogger{std: std, enabled: true}
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() *StdLogger {
	return &StdLogger{std: log.New(ioutil.Discard, "", 0), enabled: true}
}

func (l *StdLogger) Enable(enabled bool) {
	l.enabled = enabled
}

func (l *StdLogger) print(lvl, msg string, args []interface{}) {
	if !l.enabled {
		return
	}
	l.std.Printf("%s: %s\n", lvl, msg)
	for _, arg := range args {
		l.std.Printf("%+v\n", arg)
	}
}

func (l *StdLogger) Debug(msg string, args ...interface{}) { l.print("DEBUG", msg, args) }
func (l *StdLogger) Info(msg string, args ...interface{})  { l.print("INFO", msg, args) }
func (l *StdLogger) Warn(msg string, args ...interface{})  { l.print("WARN", msg, args) }
func (l *StdLogger) Error(msg string, args ...interface{}) { l.print("ERROR", msg, args) }

func (l *StdLogger) Fatal(msg string, args ...interface{}) {
	l.print("FATAL", msg, args)
	l.std.Fatal(msg)
}
