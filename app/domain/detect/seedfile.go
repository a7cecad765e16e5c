// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detect

import (
	"path/filepath"
	"strings"

	"github.com/cloudzero/bootscout/app/types"
)

func checkMAAS(sig *types.Signals, run *Run) types.Verdict {
	if sig.IsContainer() {
		return types.NotFound
	}
	// an ephemeral MAAS boot passes its datasource inside the cc: blob
	if i := strings.Index(sig.KernelCmdline, "cc:"); i >= 0 &&
		strings.Contains(sig.KernelCmdline[i:], "MAAS") {
		return types.Found
	}
	if run.Config.MAASConfigured {
		return types.Found
	}
	return types.NotFound
}

func checkConfigDrive(sig *types.Signals, run *Run) types.Verdict {
	if seedDirHas(sig, "config_drive", filepath.Join("openstack", "latest", "meta_data.json")) {
		return types.Found
	}
	// the config-2 label on an IBM host belongs to IBMCloud; yield the
	// generic claim only when IBMCloud can actually take it
	if match, _ := ibmSignature(sig); match && run.IsCandidate("IBMCloud") {
		return types.NotFound
	}
	if sig.FS.HasLabel("config-2", "CONFIG-2") {
		return types.Found
	}
	return types.NotFound
}

// writableSeedPrefix is where Ubuntu Core keeps the seed tree.
const writableSeedPrefix = "/writable/system-data/var/lib/cloud/seed"

func checkNoCloud(sig *types.Signals, run *Run) types.Verdict {
	if sig.CmdlineHasPrefix("ds=nocloud") {
		return types.Found
	}
	if strings.Contains(sig.DMI.ProductSerial, "ds=nocloud") {
		return types.Found
	}
	for _, d := range []string{"nocloud", "nocloud-net"} {
		if seedDirHas(sig, d, "user-data", "meta-data") {
			return types.Found
		}
		if dirHasAll(sig.Paths.Under(filepath.Join(writableSeedPrefix, d)), "user-data", "meta-data") {
			return types.Found
		}
	}
	if sig.FS.HasLabel("cidata", "CIDATA") {
		return types.Found
	}
	if run.Config.NoCloudSeedFrom != "" {
		return types.Found
	}
	if run.Config.NoCloudUserData && run.Config.NoCloudMetaData {
		return types.Found
	}
	return types.NotFound
}

// azureChassisAssetTag is burned into every Azure guest.
const azureChassisAssetTag = "7783-7084-3265-9085-8269-3286-77"

func isAzureChassis(sig *types.Signals) bool {
	return sig.DMI.ChassisAssetTag == azureChassisAssetTag
}

func checkAzure(sig *types.Signals, _ *Run) types.Verdict {
	if isAzureChassis(sig) {
		return types.Found
	}
	if seedDirHas(sig, "azure", "ovf-env.xml") {
		return types.Found
	}
	return types.NotFound
}
