// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detect

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/ccoveille/go-safecast"

	"github.com/cloudzero/bootscout/app/types"
)

const (
	// ovfSchemaMarker appears in any OVF environment document.
	ovfSchemaMarker = "http://schemas.dmtf.org/ovf/environment/1"

	// ovfMaxImageBytes bounds the content search; a transport image is a
	// small ISO, anything bigger is installation media.
	ovfMaxImageBytes = 10 * 1024 * 1024
)

// ovfTransportLabels fast-path a device as an OVF transport.
var ovfTransportLabels = []string{
	"OVF-TRANSPORT", "ovf-transport", "OVFENV", "ovfenv", "OVF ENV", "ovf env",
}

// ovfForeignLabels mark a device already claimed by another platform; its
// content is never searched.
var ovfForeignLabels = []string{"config-2", "CONFIG-2", "cidata", "CIDATA"}

var ovfDeviceName = regexp.MustCompile(`^(sr[0-9]+|hd[a-z]+)$`)

func checkOVF(sig *types.Signals, _ *Run) types.Verdict {
	if seedDirHas(sig, "ovf", "ovf-env.xml") {
		return types.Found
	}
	if sig.Virt == "none" {
		return types.NotFound
	}
	// Azure ships its provisioning data as OVF media; that claim is Azure's
	if isAzureChassis(sig) {
		return types.NotFound
	}
	if ovfGuestinfoEnv(sig) {
		return types.Found
	}
	for _, dev := range sig.FS.ISO9660 {
		if ovfTransportDevice(sig, dev) {
			return types.Found
		}
	}
	return types.NotFound
}

// ovfGuestinfoEnv reports whether the VMware guestinfo transport carries an
// OVF environment document.
func ovfGuestinfoEnv(sig *types.Signals) bool {
	if sig.Virt != "vmware" {
		return false
	}
	out, ok := vmwareRPC(sig, "ovfEnv")
	return ok && strings.Contains(out, "<?xml")
}

// ovfTransportDevice decides whether one iso9660 device is an OVF transport:
// accept on a transport label, reject on another platform's label, and
// otherwise search small images for the schema marker.
func ovfTransportDevice(sig *types.Signals, dev types.DeviceLabel) bool {
	base := filepath.Base(dev.Device)
	if !ovfDeviceName.MatchString(base) {
		return false
	}

	for _, l := range ovfTransportLabels {
		if dev.Label == l {
			return true
		}
	}
	for _, l := range ovfForeignLabels {
		if dev.Label == l {
			return false
		}
	}
	if strings.HasPrefix(dev.Label, "rd_rdfe_stable") {
		return false
	}

	if !ovfImageSmallEnough(sig, base) {
		return false
	}

	raw, err := os.ReadFile(sig.Paths.Under(dev.Device))
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(string(raw)), ovfSchemaMarker)
}

// ovfImageSmallEnough reads the device's 512-byte sector count from sysfs.
// An unknown size never qualifies for a content search.
func ovfImageSmallEnough(sig *types.Signals, base string) bool {
	raw := readTrim(filepath.Join(sig.Paths.SysClassBlock, base, "size"))
	sectors, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false
	}
	n, err := safecast.Convert[uint64](sectors)
	if err != nil {
		return false
	}
	return n*512 < ovfMaxImageBytes
}
