// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detect

import (
	"path/filepath"
	"strings"

	"github.com/cloudzero/bootscout/app/types"
)

func checkSmartOS(sig *types.Signals, _ *Run) types.Verdict {
	if sig.DMI.ProductName == "SmartDC HVM" {
		return types.Found
	}
	// lx-brand zone: a BrandZ kernel with the zone metadata socket
	if sig.Virt == "container-other" &&
		strings.Contains(sig.Uname.KernelVersion, "BrandZ virtual linux") &&
		fileExists(sig.Paths.Under("/native/.zonecontrol/metadata.sock")) {
		return types.Found
	}
	return types.NotFound
}

func checkLXD(sig *types.Signals, _ *Run) types.Verdict {
	// containers get the guest API socket mounted in
	if fileExists(sig.Paths.Under("/dev/lxd/sock")) {
		return types.Found
	}
	// VMs carry the board brand; newer kernels report qemu for kvm guests
	if sig.DMI.BoardName == "LXD" && (sig.Virt == "kvm" || sig.Virt == "qemu") {
		return types.Found
	}
	return types.NotFound
}

func checkWSL(sig *types.Signals, _ *Run) types.Verdict {
	if sig.Virt != "wsl" {
		return types.NotFound
	}
	if !hasDrvfsMount(sig.Mounts) {
		return types.NotFound
	}

	profile := wslUserProfileDir(sig)
	if profile == "" {
		return types.NotFound
	}

	cloudInitDir := filepath.Join(profile, ".cloud-init")
	for _, name := range wslUserDataCandidates(sig) {
		if fileExists(filepath.Join(cloudInitDir, name)) {
			return types.Found
		}
	}
	return types.NotFound
}

func hasDrvfsMount(mounts []types.Mount) bool {
	for _, m := range mounts {
		if m.FSType == "9p" && strings.Contains(m.Options, "aname=drvfs") {
			return true
		}
	}
	return false
}

// wslUserDataCandidates orders the seed file names by specificity: the
// instance's own file, then the distro-release file, then the default.
func wslUserDataCandidates(sig *types.Signals) []string {
	var names []string
	if instance := sig.Getenv("WSL_DISTRO_NAME"); instance != "" {
		names = append(names, instance+".user-data")
	}
	id, version := osRelease(sig)
	if id != "" && version != "" {
		names = append(names, id+"-"+version+".user-data")
	}
	return append(names, "default.user-data")
}

func osRelease(sig *types.Signals) (id, version string) {
	raw := readTrim(sig.Paths.Under("/etc/os-release"))
	for _, line := range strings.Split(raw, "\n") {
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		v = strings.Trim(v, `"`)
		switch k {
		case "ID":
			id = v
		case "VERSION_ID":
			version = v
		}
	}
	return id, version
}

// wslUserProfileDir resolves %USERPROFILE% through the Windows interop and
// translates it onto the matching drvfs mount.
func wslUserProfileDir(sig *types.Signals) string {
	out, err := sig.Exec.Output("cmd.exe", "/c", "echo %USERPROFILE%")
	if err != nil {
		return ""
	}
	win := strings.TrimSpace(out)
	if len(win) < 3 || win[1] != ':' {
		return ""
	}

	drive := win[:2]
	rest := strings.ReplaceAll(win[2:], `\`, "/")
	for _, m := range sig.Mounts {
		if m.FSType != "9p" || !strings.Contains(m.Options, "aname=drvfs") {
			continue
		}
		if strings.EqualFold(strings.TrimSuffix(m.Source, `\`), drive) {
			return sig.Paths.Under(filepath.Join(m.Target, rest))
		}
	}
	return ""
}
