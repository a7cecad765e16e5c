// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package types

// Verdict is the outcome of a single platform check against the collected
// signals. MAYBE marks a structurally present but not conclusively
// attributable signal; aggregation policy decides what to do with it.
type Verdict int

const (
	NotFound Verdict = iota
	Maybe
	Found
)

func (v Verdict) String() string {
	switch v {
	case Found:
		return "found"
	case Maybe:
		return "maybe"
	default:
		return "not-found"
	}
}

// DSNone is the sentinel appended to engine-resolved datasource lists. It
// tells the downstream pipeline to stop searching after the listed entries.
const DSNone = "None"

// Unavailable marks a signal whose collection mechanism does not exist on
// this host. It is distinct from an empty value read successfully.
const Unavailable = "unavailable"
