package main

import (
	"io"

	"github.com/sirupsen/logrus"
)

// newLogger builds the stderr logger handed to the engine.
// Debug and info lines are only written with --verbose.
func newLogger(w io.Writer, verbose, noColor bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(logrus.WarnLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	logger.SetFormatter(&logrus.TextFormatter{
		DisableColors:    noColor,
		DisableTimestamp: true,
	})
	return logger
}
