// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package emit publishes the engine's one output artifact: a configuration
// fragment carrying the resolved datasource list at a fixed runtime path.
// Everything else the engine knows goes to the diagnostic stream, never
// into the fragment.
package emit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/cloudzero/bootscout/app/types"
)

// FragmentKey is the sole key the fragment carries.
const FragmentKey = "datasource_list"

// ReportKey nests the fragment in report mode so downstream keeps its own
// discovery.
const ReportKey = "di_report"

// FragmentPath returns the runtime fragment location. BSD kernels keep
// their runtime state under /var/run.
func FragmentPath(paths types.Paths, kernelName string) string {
	switch kernelName {
	case "FreeBSD", "OpenBSD", "NetBSD", "DragonFly":
		return filepath.Join(paths.BSDRunDir, "cloud.cfg")
	}
	return filepath.Join(paths.RunDir, "cloud.cfg")
}

// RenderFragment serializes the list in the fixed flow style. The format is
// deliberately rigid: identical inputs must render byte-identically.
func RenderFragment(list []string, report bool) []byte {
	line := fmt.Sprintf("%s: [ %s ]\n", FragmentKey, strings.Join(list, ", "))
	if report {
		return []byte(ReportKey + ":\n  " + line)
	}
	return []byte(line)
}

// WriteFragment writes the rendered fragment atomically, creating parent
// directories as needed. An empty list writes nothing.
func WriteFragment(path string, list []string, report bool) error {
	if len(list) == 0 {
		return nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create the runtime directory")
	}

	tmp, err := os.CreateTemp(dir, ".cloud.cfg.*")
	if err != nil {
		return errors.Wrap(err, "failed to create the staging file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(RenderFragment(list, report)); err != nil {
		tmp.Close()
		return errors.Wrap(err, "failed to write the fragment")
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return errors.Wrap(err, "failed to set fragment permissions")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "failed to close the staging file")
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(err, "failed to publish the fragment")
	}
	return nil
}
