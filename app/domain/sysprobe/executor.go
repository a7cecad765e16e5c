// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package sysprobe

import (
	"os/exec"

	"github.com/cloudzero/bootscout/app/types"
)

// shellExecutor runs probe tools on the real host. Stdout is returned even
// on a nonzero exit so callers can inspect partial output (systemd-detect-virt
// prints "none" and exits 1 on bare metal).
type shellExecutor struct{}

// NewExecutor returns the host executor.
func NewExecutor() types.Executor {
	return shellExecutor{}
}

func (shellExecutor) Output(name string, args ...string) (string, error) {
	out, err := exec.Command(name, args...).Output()
	return string(out), err
}

func (shellExecutor) LookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
