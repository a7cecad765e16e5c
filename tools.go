// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

//go:build tools

// tools.go is used by the install-tools-go Makefile target to install Go tools.
// The install-tools-go target uses grep to extract import paths from this file
// and runs 'go install' on them. These should be main packages that we want
// to install as binaries in .tools/bin/.
//
// Usage: make install-tools-go
package tools

import (
	_ "github.com/itchyny/gojq/cmd/gojq"
	_ "go.uber.org/mock/mockgen"
	_ "honnef.co/go/tools/cmd/staticcheck"
	_ "mvdan.cc/gofumpt"
)
