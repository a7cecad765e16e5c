// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package types

// CheckVerdict pairs a platform check name with its verdict for one run.
type CheckVerdict struct {
	Name    string `json:"name"`
	Verdict string `json:"verdict"`
}

// Report is the per-run record logged at debug level after identification.
// It never feeds back into the decision; it exists for image debugging.
type Report struct {
	ID           string         `json:"id"`
	StartedMilli int64          `json:"started_milli"`
	Found        bool           `json:"found"`
	List         []string       `json:"datasource_list,omitempty"`
	Verdicts     []CheckVerdict `json:"verdicts,omitempty"`
}
