// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detect

import (
	"path/filepath"
	"strings"

	"github.com/cloudzero/bootscout/app/types"
)

// vmwareToolsDirs are the locations the tools packages install the guest
// customization deploy plugin under.
var vmwareToolsDirs = []string{
	"/usr/lib/vmware-tools",
	"/usr/lib64/vmware-tools",
	"/usr/lib/open-vm-tools",
	"/usr/lib64/open-vm-tools",
	"/usr/lib/x86_64-linux-gnu/open-vm-tools",
	"/usr/lib/aarch64-linux-gnu/open-vm-tools",
}

func checkVMware(sig *types.Signals, run *Run) types.Verdict {
	// envvar transport works regardless of detected virt
	if sig.Getenv("VMX_GUESTINFO") != "" {
		if sig.Getenv("VMX_GUESTINFO_METADATA") != "" ||
			sig.Getenv("VMX_GUESTINFO_USERDATA") != "" ||
			sig.Getenv("VMX_GUESTINFO_VENDORDATA") != "" {
			return types.Found
		}
	}

	if sig.Virt != "vmware" {
		return types.NotFound
	}

	if vmwareCustomizationEnabled(sig, run) {
		return types.Found
	}
	if vmwareGuestinfoData(sig) {
		return types.Found
	}
	return types.NotFound
}

// vmwareCustomizationEnabled requires both the deploy plugin on disk and an
// explicit disable_vmware_customization: false in config.
func vmwareCustomizationEnabled(sig *types.Signals, run *Run) bool {
	if run.Config.VMwareCustomizationDisabled {
		return false
	}
	for _, dir := range vmwareToolsDirs {
		plugin := sig.Paths.Under(filepath.Join(dir, "plugins", "vmsvc", "libdeployPkgPlugin.so"))
		if fileExists(plugin) {
			return true
		}
	}
	return false
}

// vmwareGuestinfoData reports whether any guestinfo data key carries a
// value. A literal "---" is an empty-but-present YAML document and counts;
// the tools' "No value found" reply does not.
func vmwareGuestinfoData(sig *types.Signals) bool {
	for _, key := range []string{"metadata", "userdata", "vendordata"} {
		out, ok := vmwareRPC(sig, key)
		if !ok {
			continue
		}
		v := strings.TrimSpace(out)
		if v != "" && v != "No value found" {
			return true
		}
	}
	return false
}

// vmwareRPC queries one guestinfo key, preferring vmware-rpctool over
// vmtoolsd when both are present.
func vmwareRPC(sig *types.Signals, key string) (string, bool) {
	cmd := "info-get guestinfo." + key
	if sig.Exec.LookPath("vmware-rpctool") {
		out, err := sig.Exec.Output("vmware-rpctool", cmd)
		if err != nil {
			return "", false
		}
		return out, true
	}
	if sig.Exec.LookPath("vmtoolsd") {
		out, err := sig.Exec.Output("vmtoolsd", "--cmd", cmd)
		if err != nil {
			return "", false
		}
		return out, true
	}
	return "", false
}
