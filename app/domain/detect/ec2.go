// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detect

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/cloudzero/bootscout/app/types"
)

// checkEc2 covers AWS and the platforms that expose an EC2-compatible
// surface. Each brand needs its own anchored descriptor match; a substring
// hit inside a longer unrelated token must not qualify, so a generic
// EC2-alike never steals a branded host and vice versa.
func checkEc2(sig *types.Signals, run *Run) types.Verdict {
	if seedDirHas(sig, "ec2", "user-data", "meta-data") {
		return types.Found
	}
	if sig.IsContainer() {
		return types.NotFound
	}

	if ec2IdentifyPlatform(sig) != "" {
		return types.Found
	}

	// unknown EC2-alike: the strict setting decides whether we claim it
	if run.StrictID == "true" {
		return types.NotFound
	}
	return types.Maybe
}

// ec2IdentifyPlatform names the EC2 brand, or returns empty when the host
// carries no recognized brand signal.
func ec2IdentifyPlatform(sig *types.Signals) string {
	dmi := sig.DMI
	switch {
	case strings.HasSuffix(dmi.ProductSerial, ".brightbox.com"):
		return "Brightbox"
	case strings.HasSuffix(dmi.ChassisAssetTag, ".zstack.io"):
		return "ZStack"
	case dmi.SysVendor == "e24cloud":
		return "E24Cloud"
	case dmi.ProductName == "3DS Outscale VM" && dmi.SysVendor == "3DS Outscale":
		return "Outscale"
	case looksLikeAWS(sig):
		return "AWS"
	}
	return ""
}

func looksLikeAWS(sig *types.Signals) bool {
	// xen guests expose the instance ID through the hypervisor uuid
	hvUUID := readTrim(filepath.Join(sig.Paths.SysHypervisor, "uuid"))
	if strings.HasPrefix(strings.ToLower(hvUUID), "ec2") {
		return true
	}

	if hasEC2Prefix(sig.DMI.ProductUUID) {
		return true
	}
	if uuidFirstDwordSwappedEC2(sig.DMI.ProductUUID) {
		return true
	}
	return hasEC2Prefix(sig.DMI.ProductSerial)
}

func hasEC2Prefix(s string) bool {
	return strings.HasPrefix(strings.ToLower(s), "ec2")
}

// uuidFirstDwordSwappedEC2 handles SMBIOS 2.4+ hosts that report the first
// UUID dword little-endian: AB232AEC-... byte-swapped reads EC2A23AB.
func uuidFirstDwordSwappedEC2(s string) bool {
	id, err := uuid.Parse(s)
	if err != nil {
		return false
	}
	return id[3] == 0xec && id[2]>>4 == 0x2
}
