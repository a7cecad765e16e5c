// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package build exposes version information stamped in at link time.
package build

import "fmt"

const (
	AuthorName  = "CloudZero"
	AuthorEmail = "support@cloudzero.com"
	Copyright   = "Copyright (c) 2016-2025 CloudZero, Inc."
)

// Overridden via -ldflags at release build time.
var (
	Tag = "dev"
	Rev = "unknown"
)

func GetVersion() string {
	return fmt.Sprintf("%s.%s", Tag, Rev)
}
