// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detect

import (
	"strings"

	"github.com/cloudzero/bootscout/app/types"
)

// The checks below match one or two narrow descriptor signals each. Matches
// are exact or anchored; substring near-misses must fail.

func checkAltCloud(sig *types.Signals, _ *Run) types.Verdict {
	// RHEV and vSphere hosts need a device probe to confirm; structurally
	// present, not conclusive
	if strings.HasPrefix(sig.DMI.ProductName, "RHEV") ||
		strings.HasPrefix(sig.DMI.ProductName, "vSphere") {
		return types.Maybe
	}
	return types.NotFound
}

func checkBigstep(sig *types.Signals, _ *Run) types.Verdict {
	if fileExists(sig.Paths.Under("/var/lib/cloud/data/seed/bigstep/url")) {
		return types.Found
	}
	return types.NotFound
}

func checkCloudSigma(sig *types.Signals, _ *Run) types.Verdict {
	if sig.DMI.ProductName == "CloudSigma" {
		return types.Found
	}
	return types.NotFound
}

func checkCloudStack(sig *types.Signals, _ *Run) types.Verdict {
	if sig.IsContainer() {
		return types.NotFound
	}
	if strings.HasPrefix(sig.DMI.ProductName, "CloudStack") {
		return types.Found
	}
	return types.NotFound
}

func checkDigitalOcean(sig *types.Signals, _ *Run) types.Verdict {
	if sig.DMI.SysVendor == "DigitalOcean" {
		return types.Found
	}
	return types.NotFound
}

func checkVultr(sig *types.Signals, _ *Run) types.Verdict {
	if sig.DMI.SysVendor == "Vultr" ||
		sig.CmdlineHasWord("vultr") ||
		fileExists(sig.Paths.Under("/etc/vultr")) {
		return types.Found
	}
	return types.NotFound
}

func checkAliYun(sig *types.Signals, _ *Run) types.Verdict {
	if seedDirHas(sig, "aliyun", "user-data", "meta-data") {
		return types.Found
	}
	if sig.DMI.ProductName == "Alibaba Cloud ECS" {
		return types.Found
	}
	return types.NotFound
}

func checkGCE(sig *types.Signals, _ *Run) types.Verdict {
	if sig.DMI.ProductName == "Google Compute Engine" ||
		strings.HasPrefix(sig.DMI.ProductSerial, "GoogleCloud-") {
		return types.Found
	}
	return types.NotFound
}

func checkOpenNebula(sig *types.Signals, _ *Run) types.Verdict {
	if dirExists(sig.Paths.SeedDir + "/opennebula") {
		return types.Found
	}
	if sig.FS.HasLabel("CONTEXT", "context") {
		return types.Found
	}
	return types.NotFound
}

func checkScaleway(sig *types.Signals, _ *Run) types.Verdict {
	if sig.DMI.SysVendor == "Scaleway" ||
		sig.CmdlineHasWord("scaleway") ||
		fileExists(sig.Paths.Under("/var/run/scaleway")) {
		return types.Found
	}
	return types.NotFound
}

func checkHetzner(sig *types.Signals, _ *Run) types.Verdict {
	if sig.DMI.SysVendor == "Hetzner" {
		return types.Found
	}
	return types.NotFound
}

func checkOracle(sig *types.Signals, _ *Run) types.Verdict {
	if sig.DMI.ChassisAssetTag == "OracleCloud.com" {
		return types.Found
	}
	return types.NotFound
}

func checkExoscale(sig *types.Signals, _ *Run) types.Verdict {
	if sig.DMI.SysVendor == "Exoscale" {
		return types.Found
	}
	return types.NotFound
}

func checkRbxCloud(sig *types.Signals, _ *Run) types.Verdict {
	if sig.FS.HasLabel("CLOUDMD", "cloudmd") {
		return types.Found
	}
	return types.NotFound
}

func checkUpCloud(sig *types.Signals, _ *Run) types.Verdict {
	if sig.DMI.SysVendor == "UpCloud" {
		return types.Found
	}
	return types.NotFound
}

func checkNWCS(sig *types.Signals, _ *Run) types.Verdict {
	if sig.DMI.SysVendor == "NWCS" {
		return types.Found
	}
	return types.NotFound
}

func checkAkamai(sig *types.Signals, _ *Run) types.Verdict {
	switch sig.DMI.SysVendor {
	case "Akamai", "Linode":
		return types.Found
	}
	return types.NotFound
}

func checkCloudCIX(sig *types.Signals, _ *Run) types.Verdict {
	if sig.DMI.ProductName == "CloudCIX" {
		return types.Found
	}
	return types.NotFound
}
