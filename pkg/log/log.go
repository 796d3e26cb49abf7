// Copyright 2026 the JHOVE project contributors
// SPDX-License-Identifier: MIT

package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger returns the run logger. In debug mode it writes structured
// entries to stderr; otherwise output is discarded so parse results stay
// the only thing on the terminal.
func NewLogger(name, release string, debug bool, level string) *logrus.Entry {
	log := logrus.New()
	if debug || os.Getenv("DEBUG") == "TRUE" {
		log.SetOutput(os.Stderr)
		log.SetLevel(logrus.DebugLevel)
		log.Formatter = &logrus.JSONFormatter{}
	} else {
		log.SetOutput(io.Discard)
		log.SetLevel(logrus.ErrorLevel)
	}
	if level != "" {
		if l, err := logrus.ParseLevel(level); err == nil {
			log.SetLevel(l)
		}
	}
	return log.WithFields(logrus.Fields{
		"app":     name,
		"release": release,
	})
}
