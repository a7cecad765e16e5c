// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package sysprobe

import (
	"strings"

	"github.com/cloudzero/bootscout/app/types"
)

// blockDevices enumerates filesystems. Device probing inside a container
// sees the host's devices without being able to claim them, so the table is
// marked unavailable there. FreeBSD has no blkid; the geom partition lister
// substitutes.
func (c *Collector) blockDevices(kernelName string, container bool) types.FSInfo {
	if container {
		return types.FSInfo{Unavailable: "container"}
	}

	var devices []types.BlockDevice
	switch kernelName {
	case "FreeBSD":
		out, err := c.exec.Output("geom", "-t")
		if err != nil {
			return types.FSInfo{Unavailable: "error"}
		}
		devices = parseGeom(out)
	default:
		if !c.exec.LookPath("blkid") {
			return types.FSInfo{Unavailable: "error"}
		}
		out, err := c.exec.Output("blkid", "-c", "/dev/null", "-o", "export")
		if err != nil {
			return types.FSInfo{Unavailable: "error"}
		}
		devices = parseBlkidExport(out)
	}

	return deriveFSInfo(devices)
}

// parseBlkidExport parses `blkid -o export` output: blank-line separated
// records of KEY=value lines, DEVNAME leading each record. Optional keys
// may be missing from any record.
func parseBlkidExport(out string) []types.BlockDevice {
	var devices []types.BlockDevice
	var cur *types.BlockDevice

	flush := func() {
		if cur != nil && cur.Name != "" {
			devices = append(devices, *cur)
		}
		cur = nil
	}

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		if cur == nil {
			cur = &types.BlockDevice{}
		}
		switch k {
		case "DEVNAME":
			cur.Name = v
		case "TYPE":
			cur.FSType = v
		case "LABEL":
			cur.Label = v
		case "LABEL_FATBOOT":
			cur.LabelFatboot = v
		case "PARTUUID":
			cur.PartUUID = v
		case "UUID":
			cur.UUID = v
		}
	}
	flush()

	return devices
}

// parseGeom parses `geom -t` lines of the form `type/label  N/A  dev`.
// Lines that do not fit are skipped.
func parseGeom(out string) []types.BlockDevice {
	var devices []types.BlockDevice
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) != 3 || fields[1] != "N/A" {
			continue
		}
		fstype, label, _ := strings.Cut(fields[0], "/")
		devices = append(devices, types.BlockDevice{
			Name:   "/dev/" + fields[2],
			FSType: fstype,
			Label:  label,
		})
	}
	return devices
}

func deriveFSInfo(devices []types.BlockDevice) types.FSInfo {
	fs := types.FSInfo{Devices: devices}
	for _, d := range devices {
		if d.Label != "" {
			fs.Labels = append(fs.Labels, d.Label)
		}
		if d.LabelFatboot != "" && d.LabelFatboot != d.Label {
			fs.Labels = append(fs.Labels, d.LabelFatboot)
		}
		if d.UUID != "" {
			fs.UUIDs = append(fs.UUIDs, d.UUID)
		}
		if d.FSType == "iso9660" {
			fs.ISO9660 = append(fs.ISO9660, types.DeviceLabel{Device: d.Name, Label: d.Label})
		}
	}
	return fs
}
