// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package logging configures the logrus logger shared by the probe catalog
// and the hwprobe tool.
package logging

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// OpField names the logrus field identifying which probe or platform check
// produced an entry.
const OpField = "op"

const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// SetUpLogging configures the standard logrus logger. Probe loggers write to
// stderr so fragment and probe output on stdout stay clean.
func SetUpLogging(level, format string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
	logrus.SetOutput(os.Stderr)

	switch format {
	case LogFormatJSON:
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

// LogToFile redirects the standard logger to the given file, creating parent
// directories as needed.
func LogToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	logrus.SetOutput(f)
	return nil
}

// NewLogger returns the shared logrus logger; callers attach their OpField.
func NewLogger() *logrus.Logger {
	return logrus.StandardLogger()
}
