// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package sysprobe

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cloudzero/bootscout/app/types"
)

// dmiField maps one descriptor field across the supported sources. An empty
// source name means the field has no equivalent there.
type dmiField struct {
	sysfs     string
	dmidecode string
	kenv      string
	sysctl    string
	assign    func(*types.DMI, string)
}

var dmiFields = []dmiField{
	{
		sysfs: "sys_vendor", dmidecode: "system-manufacturer",
		kenv: "smbios.system.maker", sysctl: "hw.vendor",
		assign: func(d *types.DMI, v string) { d.SysVendor = v },
	},
	{
		sysfs: "product_name", dmidecode: "system-product-name",
		kenv: "smbios.system.product", sysctl: "hw.product",
		assign: func(d *types.DMI, v string) { d.ProductName = v },
	},
	{
		sysfs: "product_serial", dmidecode: "system-serial-number",
		kenv: "smbios.system.serial", sysctl: "hw.serialno",
		assign: func(d *types.DMI, v string) { d.ProductSerial = v },
	},
	{
		sysfs: "product_uuid", dmidecode: "system-uuid",
		kenv: "smbios.system.uuid", sysctl: "hw.uuid",
		assign: func(d *types.DMI, v string) { d.ProductUUID = v },
	},
	{
		sysfs: "board_name", dmidecode: "baseboard-product-name",
		kenv: "smbios.planar.product",
		assign: func(d *types.DMI, v string) { d.BoardName = v },
	},
	{
		sysfs: "chassis_asset_tag", dmidecode: "chassis-asset-tag",
		kenv: "smbios.chassis.tag",
		assign: func(d *types.DMI, v string) { d.ChassisAssetTag = v },
	},
}

// readDMI fills the hardware descriptor. Source selection: a pinned source
// wins; otherwise a present sysfs dmi tree is authoritative (a field file
// missing there means the field is unavailable, full stop); otherwise the
// OS-appropriate query tool. Obtained reports whether any source mechanism
// existed at all.
func (c *Collector) readDMI(kernelName string) types.DMI {
	source := c.dmiSource
	if source == "" {
		switch {
		case dirExists(c.paths.SysClassDMI):
			source = "sysfs"
		case kernelName == "FreeBSD":
			source = "kenv"
		case kernelName == "OpenBSD" || kernelName == "NetBSD":
			source = "sysctl"
		default:
			source = "dmidecode"
		}
	}

	var dmi types.DMI
	for _, f := range dmiFields {
		v := c.readDMIField(source, f)
		f.assign(&dmi, v)
		if v != "" {
			dmi.Obtained = true
		}
	}
	if source == "sysfs" && dirExists(c.paths.SysClassDMI) {
		dmi.Obtained = true
	}
	return dmi
}

func (c *Collector) readDMIField(source string, f dmiField) string {
	switch source {
	case "sysfs":
		// product_uuid and friends are root-only; a read error is just
		// an unavailable field
		raw, err := os.ReadFile(filepath.Join(c.paths.SysClassDMI, f.sysfs))
		if err != nil {
			return ""
		}
		return strings.TrimSpace(string(raw))
	case "kenv":
		if f.kenv == "" {
			return ""
		}
		return c.toolOutput("kenv", "-q", f.kenv)
	case "sysctl":
		if f.sysctl == "" {
			return ""
		}
		return c.toolOutput("sysctl", "-qn", f.sysctl)
	case "dmidecode":
		return c.toolOutput("dmidecode", "--quiet", "-s", f.dmidecode)
	}
	return ""
}

func (c *Collector) toolOutput(name string, args ...string) string {
	if !c.exec.LookPath(name) {
		return ""
	}
	out, err := c.exec.Output(name, args...)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

func dirExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
