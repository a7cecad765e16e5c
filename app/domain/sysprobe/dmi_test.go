// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package sysprobe

import (
	"testing"

	"github.com/cloudzero/bootscout/app/types"
)

func TestReadDMISysfs(t *testing.T) {
	c, root := newTestCollector(t, newFakeExec())
	writeFile(t, root, "sys/class/dmi/id/sys_vendor", "Amazon EC2\n")
	writeFile(t, root, "sys/class/dmi/id/product_name", "t3.micro\n")
	writeFile(t, root, "sys/class/dmi/id/chassis_asset_tag", "Amazon EC2\n")

	dmi := c.readDMI("Linux")
	if dmi.SysVendor != "Amazon EC2" || dmi.ProductName != "t3.micro" {
		t.Errorf("dmi = %+v", dmi)
	}
	if dmi.ProductSerial != "" || dmi.BoardName != "" {
		t.Errorf("missing sysfs files must read empty, got %+v", dmi)
	}
	if !dmi.Obtained {
		t.Error("Obtained = false with a populated sysfs tree")
	}
}

// A present but empty sysfs tree still counts as an obtained descriptor
// source; the built-in policy selection depends on that distinction.
func TestReadDMIEmptySysfsStillObtained(t *testing.T) {
	c, root := newTestCollector(t, newFakeExec())
	writeFile(t, root, "sys/class/dmi/id/.keep", "")

	dmi := c.readDMI("Linux")
	if !dmi.Obtained {
		t.Error("Obtained = false, want true for an existing sysfs dmi dir")
	}
	if dmi.ProductName != "" {
		t.Errorf("ProductName = %q, want empty", dmi.ProductName)
	}
}

// With a sysfs tree present no tool fallback happens: sysfs is authoritative
// even for fields it does not carry.
func TestReadDMISysfsNeverFallsBack(t *testing.T) {
	exec := newFakeExec().set("dmidecode --quiet -s system-serial-number", "should-not-appear\n")
	c, root := newTestCollector(t, exec)
	writeFile(t, root, "sys/class/dmi/id/product_name", "CloudSigma\n")

	dmi := c.readDMI("Linux")
	if dmi.ProductSerial != "" {
		t.Errorf("ProductSerial = %q, want empty", dmi.ProductSerial)
	}
}

func TestReadDMIFreeBSDKenv(t *testing.T) {
	exec := newFakeExec().
		set("kenv -q smbios.system.maker", "DigitalOcean\n").
		set("kenv -q smbios.system.serial", "123456\n")
	c, _ := newTestCollector(t, exec)

	dmi := c.readDMI("FreeBSD")
	if dmi.SysVendor != "DigitalOcean" || dmi.ProductSerial != "123456" {
		t.Errorf("dmi = %+v", dmi)
	}
	if !dmi.Obtained {
		t.Error("Obtained = false")
	}
}

func TestReadDMIOpenBSDSysctl(t *testing.T) {
	exec := newFakeExec().set("sysctl -qn hw.vendor", "Hetzner\n")
	c, _ := newTestCollector(t, exec)

	dmi := c.readDMI("OpenBSD")
	if dmi.SysVendor != "Hetzner" {
		t.Errorf("SysVendor = %q", dmi.SysVendor)
	}
	// board name and chassis tag have no sysctl equivalent
	if dmi.BoardName != "" || dmi.ChassisAssetTag != "" {
		t.Errorf("dmi = %+v", dmi)
	}
}

func TestReadDMIDmidecodeFallback(t *testing.T) {
	exec := newFakeExec().
		set("dmidecode --quiet -s system-manufacturer", "UpCloud\n")
	c, _ := newTestCollector(t, exec)

	dmi := c.readDMI("Linux")
	if dmi.SysVendor != "UpCloud" {
		t.Errorf("SysVendor = %q", dmi.SysVendor)
	}
}

func TestReadDMINoSourceAtAll(t *testing.T) {
	c, _ := newTestCollector(t, newFakeExec())

	dmi := c.readDMI("Linux")
	if dmi.Obtained {
		t.Error("Obtained = true with no descriptor source")
	}
}

func TestReadDMIPinnedSource(t *testing.T) {
	exec := newFakeExec().set("kenv -q smbios.system.product", "pinned\n")
	root := t.TempDir()
	writeFile(t, root, "sys/class/dmi/id/product_name", "sysfs-value\n")

	c := NewCollector(
		types.NewPaths(root),
		WithExecutor(exec),
		WithEnviron(nil),
		WithDMISource("kenv"),
	)
	dmi := c.readDMI("Linux")
	if dmi.ProductName != "pinned" {
		t.Errorf("ProductName = %q, want the pinned source value", dmi.ProductName)
	}
}
