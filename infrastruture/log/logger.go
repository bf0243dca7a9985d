// Package logger provides the colored, component-prefixed loggers used across the service.
package logger

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/beka-birhanu/vinom-maze/config"
	"github.com/sirupsen/logrus"
)

const timestampFormat = "2006/01/02 15:04:05"

var (
	ErrEmptyPrefix = errors.New("logger prefix is empty")
	ErrNilWriter   = errors.New("logger writer is nil")
)

// Logger writes lines of the form "[PREFIX] [LEVEL] message".
type Logger struct {
	out *logrus.Logger
}

// New creates a logger for the named component, coloring the prefix with color.
func New(prefix, color string, w io.Writer) (*Logger, error) {
	if strings.TrimSpace(prefix) == "" {
		return nil, ErrEmptyPrefix
	}
	if w == nil {
		return nil, ErrNilWriter
	}

	out := logrus.New()
	out.SetOutput(w)
	out.SetLevel(logrus.InfoLevel)
	out.SetFormatter(&prefixFormatter{
		prefix: fmt.Sprintf("%s[%s]%s", color, prefix, config.ColorReset),
	})

	return &Logger{out: out}, nil
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	out := logrus.New()
	out.SetOutput(io.Discard)
	out.SetFormatter(&prefixFormatter{})
	return &Logger{out: out}
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.out.Info(msg)
}

// Warning logs a recoverable problem.
func (l *Logger) Warning(msg string) {
	l.out.Warn(msg)
}

// Error logs a failure.
func (l *Logger) Error(msg string) {
	l.out.Error(msg)
}

// prefixFormatter renders entries as "time [PREFIX] [LEVEL] message".
type prefixFormatter struct {
	prefix string
}

func (f *prefixFormatter) Format(e *logrus.Entry) ([]byte, error) {
	color, level := levelStyle(e.Level)
	line := fmt.Sprintf("%s %s %s[%s]%s %s\n",
		e.Time.Format(timestampFormat), f.prefix, color, level, config.LogColorReset, e.Message)
	return []byte(line), nil
}

func levelStyle(level logrus.Level) (string, string) {
	switch level {
	case logrus.WarnLevel:
		return config.LogWarningColor, "WARNING"
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		return config.LogErrorColor, "ERROR"
	default:
		return config.LogInfoColor, "INFO"
	}
}
