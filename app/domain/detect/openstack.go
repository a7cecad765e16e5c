// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detect

import (
	"strings"

	"github.com/cloudzero/bootscout/app/types"
)

// openStackAssetTags are chassis asset tags set by OpenStack-based public
// clouds.
var openStackAssetTags = []string{
	"HUAWEICLOUD",
	"OpenTelekomCloud",
	"SAP CCloud VM",
	"Samsung Cloud Platform",
	"OpenStack Nova",
	"OpenStack Compute",
}

func checkOpenStack(sig *types.Signals, _ *Run) types.Verdict {
	// off x86 the descriptor fields are not trustworthy either way: a
	// would-be FOUND demotes to MAYBE and so does a miss
	if m := sig.Uname.Machine; m != "" && !isX86(m) {
		return types.Maybe
	}

	switch sig.DMI.ProductName {
	case "OpenStack Nova", "OpenStack Compute":
		return types.Found
	}
	if sig.Pid1ProductName == "OpenStack Nova" {
		return types.Found
	}
	for _, tag := range openStackAssetTags {
		if sig.DMI.ChassisAssetTag == tag {
			return types.Found
		}
	}
	return types.NotFound
}

func isX86(machine string) bool {
	if machine == "x86_64" {
		return true
	}
	return strings.HasPrefix(machine, "i") && strings.HasSuffix(machine, "86")
}
