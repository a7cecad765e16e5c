// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package detect holds the platform check registry: one check per supported
// cloud platform, each a function of the collected signal snapshot to a
// tri-state verdict.
//
// Registry order is the sole precedence key. A platform identified by
// content inside a disk image or a branded seed file is listed ahead of any
// platform that matches only a generic device label, so the narrow claim
// wins the shared resource. Checks never coordinate with each other beyond
// the immutable candidate list in Run; each one must be specific enough on
// its own not to claim a look-alike host.
package detect

import (
	"os"
	"path/filepath"
	"strings"

	config "github.com/cloudzero/bootscout/app/config/bootscout"
	"github.com/cloudzero/bootscout/app/types"
)

// Run carries the immutable per-run inputs a check may consult besides the
// signal snapshot: the candidate name list, the resolved host configuration,
// and the strict-identification setting.
type Run struct {
	Candidates []string
	Config     *config.Resolved
	StrictID   string
}

// IsCandidate reports whether the named platform is in this run's candidate
// set.
func (r *Run) IsCandidate(name string) bool {
	for _, c := range r.Candidates {
		if c == name {
			return true
		}
	}
	return false
}

// CheckFunc evaluates one platform against the snapshot.
type CheckFunc func(sig *types.Signals, run *Run) types.Verdict

// Descriptor is one registry entry. RequiresDMI marks checks whose only
// signals are hardware descriptor fields; the probe catalog surfaces it, the
// evaluator does not gate on it.
type Descriptor struct {
	Name        string
	RequiresDMI bool
	Check       CheckFunc
}

// registry order is authoritative and encodes resource-claim precedence.
var registry = []Descriptor{
	{Name: "MAAS", Check: checkMAAS},
	{Name: "ConfigDrive", Check: checkConfigDrive},
	{Name: "NoCloud", Check: checkNoCloud},
	{Name: "AltCloud", RequiresDMI: true, Check: checkAltCloud},
	{Name: "Azure", Check: checkAzure},
	{Name: "Bigstep", Check: checkBigstep},
	{Name: "CloudSigma", RequiresDMI: true, Check: checkCloudSigma},
	{Name: "CloudStack", RequiresDMI: true, Check: checkCloudStack},
	{Name: "DigitalOcean", RequiresDMI: true, Check: checkDigitalOcean},
	{Name: "Vultr", Check: checkVultr},
	{Name: "AliYun", Check: checkAliYun},
	{Name: "Ec2", Check: checkEc2},
	{Name: "GCE", RequiresDMI: true, Check: checkGCE},
	{Name: "OpenNebula", Check: checkOpenNebula},
	{Name: "OpenStack", Check: checkOpenStack},
	{Name: "OVF", Check: checkOVF},
	{Name: "SmartOS", Check: checkSmartOS},
	{Name: "Scaleway", Check: checkScaleway},
	{Name: "Hetzner", RequiresDMI: true, Check: checkHetzner},
	{Name: "IBMCloud", Check: checkIBMCloud},
	{Name: "Oracle", RequiresDMI: true, Check: checkOracle},
	{Name: "Exoscale", RequiresDMI: true, Check: checkExoscale},
	{Name: "RbxCloud", Check: checkRbxCloud},
	{Name: "UpCloud", RequiresDMI: true, Check: checkUpCloud},
	{Name: "VMware", Check: checkVMware},
	{Name: "LXD", Check: checkLXD},
	{Name: "NWCS", RequiresDMI: true, Check: checkNWCS},
	{Name: "Akamai", RequiresDMI: true, Check: checkAkamai},
	{Name: "WSL", Check: checkWSL},
	{Name: "CloudCIX", RequiresDMI: true, Check: checkCloudCIX},
}

// Registry returns the ordered platform check table.
func Registry() []Descriptor {
	out := make([]Descriptor, len(registry))
	copy(out, registry)
	return out
}

// Lookup finds a registry entry by name, case-insensitively, returning the
// canonical descriptor.
func Lookup(name string) (Descriptor, bool) {
	for _, d := range registry {
		if strings.EqualFold(d.Name, name) {
			return d, true
		}
	}
	return Descriptor{}, false
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func dirExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

func readTrim(path string) string {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(raw))
}

// seedDirHas reports whether the named seed subdirectory carries all the
// given files.
func seedDirHas(sig *types.Signals, subdir string, files ...string) bool {
	return dirHasAll(filepath.Join(sig.Paths.SeedDir, subdir), files...)
}

func dirHasAll(dir string, files ...string) bool {
	if !dirExists(dir) {
		return false
	}
	for _, f := range files {
		if !fileExists(filepath.Join(dir, f)) {
			return false
		}
	}
	return true
}
