// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detect

import (
	"os"

	"github.com/cloudzero/bootscout/app/types"
)

// ibmConfigUUID identifies the IBM flavor of a config-2 drive.
const ibmConfigUUID = "9796-932E"

func checkIBMCloud(sig *types.Signals, _ *Run) types.Verdict {
	match, provisioning := ibmSignature(sig)
	if provisioning {
		return types.NotFound
	}
	if match {
		return types.Found
	}
	return types.NotFound
}

// ibmSignature reports whether the host looks like IBM Cloud classic and
// whether it is mid-provisioning. ConfigDrive consults it to yield the
// config-2 label claim.
func ibmSignature(sig *types.Signals) (match, provisioning bool) {
	provisioning = ibmProvisioning(sig)
	if sig.Virt != "xen" {
		return false, provisioning
	}
	switch {
	case provisioning:
		return true, true
	case sig.FS.HasLabel("METADATA", "metadata"):
		return true, false
	case sig.FS.HasUUID(ibmConfigUUID) && sig.FS.HasLabel("config-2", "CONFIG-2"):
		return true, false
	}
	return false, provisioning
}

// ibmProvisioning: the provisioning config file is present and the install
// log either does not exist yet or was written during this boot. A log
// older than PID 1's environment is a leftover from the previous boot.
func ibmProvisioning(sig *types.Signals) bool {
	if !fileExists(sig.Paths.Under("/root/provisioningConfiguration.cfg")) {
		return false
	}
	logInfo, err := os.Stat(sig.Paths.Under("/root/swinstall.log"))
	if err != nil {
		return true
	}
	envInfo, err := os.Stat(sig.Paths.Proc1Environ)
	if err != nil {
		return false
	}
	return logInfo.ModTime().After(envInfo.ModTime())
}
