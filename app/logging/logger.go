// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package logging provides the zerolog logger used by the bootscout CLIs.
//
// Identification output (the datasource fragment) never flows through this
// package; loggers write to stderr or a configured log file only, so the
// fragment file stays byte-stable regardless of log level.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

type config struct {
	level   string
	version string
	sinks   []io.Writer
}

type OptFunc func(*config)

// WithLevel sets the log level by name (trace, debug, info, warn, error).
func WithLevel(level string) OptFunc {
	return func(c *config) {
		c.level = level
	}
}

// WithVersion attaches a version field to every event.
func WithVersion(version string) OptFunc {
	return func(c *config) {
		c.version = version
	}
}

// WithSink adds an output writer. When no sink is given, stderr is used;
// stdout is reserved for probe output.
func WithSink(w io.Writer) OptFunc {
	return func(c *config) {
		c.sinks = append(c.sinks, w)
	}
}

// WithLogFile adds a file sink, creating parent directories as needed.
func WithLogFile(path string) (OptFunc, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create the log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open the log file: %w", err)
	}
	return WithSink(f), nil
}

// NewLogger creates a zerolog logger from the given options.
func NewLogger(opts ...OptFunc) (*zerolog.Logger, error) {
	cfg := &config{level: "info"}
	for _, opt := range opts {
		opt(cfg)
	}

	level, err := zerolog.ParseLevel(cfg.level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.level, err)
	}

	if len(cfg.sinks) == 0 {
		cfg.sinks = append(cfg.sinks, os.Stderr)
	}

	ctx := zerolog.New(io.MultiWriter(cfg.sinks...)).Level(level).With().Timestamp()
	if cfg.version != "" {
		ctx = ctx.Str("version", cfg.version)
	}
	logger := ctx.Logger()
	return &logger, nil
}
