// Package logging provides constructors for the loggers used by agents
// and experiments
package logging

import (
	"bytes"
	"io"

	"github.com/sirupsen/logrus"
)

// NewLogger returns a new logger writing to stderr at info level
func NewLogger() *logrus.Logger {
	return logrus.New()
}

// NewNullLogger will return a logger that discards all logs
func NewNullLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// NewBufferLogger will return a logger that stores all logs in a buffer
// at debug level, used mainly for testing
func NewBufferLogger(b *bytes.Buffer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(b)
	logger.SetLevel(logrus.DebugLevel)
	logger.SetFormatter(&logrus.TextFormatter{DisableColors: true})
	return logger
}
