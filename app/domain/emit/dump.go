// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package emit

import (
	"fmt"
	"io"
	"strings"

	"github.com/cloudzero/bootscout/app/domain/policy"
	"github.com/cloudzero/bootscout/app/types"
)

// Dump writes one name=value line per collected signal and per decision
// variable to the diagnostic stream. It shares nothing with the fragment
// format on purpose.
func Dump(w io.Writer, sig *types.Signals, d *policy.Decision) {
	var iso []string
	for _, p := range sig.FS.ISO9660 {
		iso = append(iso, p.Device+"="+p.Label)
	}

	pairs := []struct{ name, value string }{
		{"DMI_PRODUCT_NAME", sig.DMI.ProductName},
		{"DMI_SYS_VENDOR", sig.DMI.SysVendor},
		{"DMI_PRODUCT_SERIAL", sig.DMI.ProductSerial},
		{"DMI_PRODUCT_UUID", sig.DMI.ProductUUID},
		{"DMI_BOARD_NAME", sig.DMI.BoardName},
		{"DMI_CHASSIS_ASSET_TAG", sig.DMI.ChassisAssetTag},
		{"PID_1_PRODUCT_NAME", sig.Pid1ProductName},
		{"FS_LABELS", strings.Join(sig.FS.Labels, ",")},
		{"FS_UUIDS", strings.Join(sig.FS.UUIDs, ",")},
		{"ISO9660_DEVS", strings.Join(iso, ",")},
		{"KERNEL_CMDLINE", sig.KernelCmdline},
		{"VIRT", sig.Virt},
		{"UNAME_KERNEL_NAME", sig.Uname.KernelName},
		{"UNAME_KERNEL_RELEASE", sig.Uname.KernelRelease},
		{"UNAME_KERNEL_VERSION", sig.Uname.KernelVersion},
		{"UNAME_MACHINE", sig.Uname.Machine},
		{"DSNAME", d.DSName},
		{"DSLIST", strings.Join(d.Candidates, ",")},
		{"MODE", d.Spec.Mode.String()},
		{"ON_FOUND", d.Spec.OnFound.String()},
		{"ON_MAYBE", d.Spec.OnMaybe.String()},
		{"ON_NOTFOUND", d.Spec.OnNotFound},
		{"FOUND", fmt.Sprintf("%t", d.Found)},
		{"LIST", strings.Join(d.List, ",")},
	}

	for _, p := range pairs {
		fmt.Fprintf(w, "%s=%s\n", p.name, p.value)
	}
	for _, v := range d.Verdicts {
		fmt.Fprintf(w, "CHECK_%s=%s\n", strings.ToUpper(v.Name), v.Verdict)
	}
}
