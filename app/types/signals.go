// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package types defines the core value types shared by the bootscout
// identification engine.
//
// The central type is Signals, the immutable snapshot of everything the
// engine knows about the host for one run: virtualization type, hardware
// descriptor fields, kernel identification, the block device table, and the
// resolved filesystem layout. It is constructed once by the sysprobe
// collector and threaded, read only, through every platform check.
package types

import (
	"path/filepath"
	"strings"
)

// DMI holds the hardware descriptor fields consulted by platform checks.
// A field is the empty string when the host does not expose it. Obtained
// reports whether any descriptor source produced data at all; the built-in
// policy variant is selected on it.
type DMI struct {
	SysVendor       string
	ProductName     string
	ProductSerial   string
	ProductUUID     string
	BoardName       string
	ChassisAssetTag string

	Obtained bool
}

// Uname is the kernel identification captured in one call.
type Uname struct {
	KernelName    string
	KernelRelease string
	KernelVersion string
	Machine       string
}

// BlockDevice is one record from the device enumeration tool. Labels are
// not unique across devices; duplicates must not break evaluation.
type BlockDevice struct {
	Name         string
	FSType       string
	Label        string
	LabelFatboot string
	PartUUID     string
	UUID         string
}

// DeviceLabel pairs an optical device node with its filesystem label.
type DeviceLabel struct {
	Device string
	Label  string
}

// FSInfo is the derived view over the block device table. When device
// probing is impossible (inside containers, or with no enumeration tool)
// Unavailable carries the reason and the slices are empty.
type FSInfo struct {
	Devices     []BlockDevice
	Labels      []string
	UUIDs       []string
	ISO9660     []DeviceLabel
	Unavailable string
}

// HasLabel reports whether any enumerated filesystem carries one of the
// given labels. Matching is exact; callers pass the case variants they
// accept.
func (f *FSInfo) HasLabel(labels ...string) bool {
	for _, have := range f.Labels {
		for _, want := range labels {
			if have == want {
				return true
			}
		}
	}
	return false
}

// HasUUID reports whether any enumerated filesystem carries the given UUID.
func (f *FSInfo) HasUUID(uuid string) bool {
	for _, have := range f.UUIDs {
		if strings.EqualFold(have, uuid) {
			return true
		}
	}
	return false
}

// Mount is one entry from the host mount table.
type Mount struct {
	Source  string
	Target  string
	FSType  string
	Options string
}

// Executor runs an external probe tool and captures its output. The
// production implementation shells out; tests substitute scripted fakes.
type Executor interface {
	// Output runs the named tool and returns its stdout. A missing tool or
	// nonzero exit is reported as an error; callers treat both as "signal
	// unavailable".
	Output(name string, args ...string) (string, error)
	// LookPath reports whether the named tool exists on the search path.
	LookPath(name string) bool
}

// Paths locates every host file the engine reads or writes, rebased onto an
// injectable root so tests and chroot-style invocations work against
// synthetic trees.
type Paths struct {
	Root          string
	SysClassDMI   string
	SysHypervisor string
	SysClassBlock string
	ProcCmdline   string
	Proc1Cmdline  string
	Proc1Environ  string
	ProcMounts    string
	EtcCloud      string
	CloudCfg      string
	CloudCfgD     string
	OverrideCfg   string
	VarLibCloud   string
	SeedDir       string
	RunDir        string
	BSDRunDir     string
}

// NewPaths resolves all well-known locations under root. An empty root
// means the real host filesystem.
func NewPaths(root string) Paths {
	sub := func(parts ...string) string {
		return filepath.Join(append([]string{root, "/"}, parts...)...)
	}
	return Paths{
		Root:          root,
		SysClassDMI:   sub("sys/class/dmi/id"),
		SysHypervisor: sub("sys/hypervisor"),
		SysClassBlock: sub("sys/class/block"),
		ProcCmdline:   sub("proc/cmdline"),
		Proc1Cmdline:  sub("proc/1/cmdline"),
		Proc1Environ:  sub("proc/1/environ"),
		ProcMounts:    sub("proc/mounts"),
		EtcCloud:      sub("etc/cloud"),
		CloudCfg:      sub("etc/cloud/cloud.cfg"),
		CloudCfgD:     sub("etc/cloud/cloud.cfg.d"),
		OverrideCfg:   sub("etc/cloud/ds-identify.cfg"),
		VarLibCloud:   sub("var/lib/cloud"),
		SeedDir:       sub("var/lib/cloud/seed"),
		RunDir:        sub("run/cloud-init"),
		BSDRunDir:     sub("var/run/cloud-init"),
	}
}

// Under rebases a host-absolute path (such as a device node from the
// enumeration tool) onto the configured root.
func (p Paths) Under(hostPath string) string {
	if p.Root == "" {
		return hostPath
	}
	return filepath.Join(p.Root, hostPath)
}

// Signals is the immutable per-run snapshot of all collected host facts.
// Platform checks receive it read only; nothing in it changes after
// collection.
type Signals struct {
	Virt            string
	DMI             DMI
	Uname           Uname
	KernelCmdline   string
	Pid1ProductName string
	FS              FSInfo
	Mounts          []Mount
	Env             map[string]string

	Paths Paths
	Exec  Executor
}

// containerVirts are the virtualization types that mean the engine runs
// inside a container rather than a machine.
var containerVirts = map[string]struct{}{
	"container-other": {},
	"lxc":             {},
	"lxc-libvirt":     {},
	"systemd-nspawn":  {},
	"docker":          {},
	"rkt":             {},
	"podman":          {},
	"wsl":             {},
}

// IsContainerVirt reports whether the given virtualization type is a
// container runtime.
func IsContainerVirt(virt string) bool {
	_, ok := containerVirts[virt]
	return ok
}

// IsContainer reports whether the detected virtualization type is a
// container runtime.
func (s *Signals) IsContainer() bool {
	return IsContainerVirt(s.Virt)
}

// CmdlineHasPrefix reports whether any whitespace-delimited kernel command
// line token starts with prefix.
func (s *Signals) CmdlineHasPrefix(prefix string) bool {
	for _, tok := range strings.Fields(s.KernelCmdline) {
		if strings.HasPrefix(tok, prefix) {
			return true
		}
	}
	return false
}

// CmdlineHasWord reports whether the kernel command line contains the exact
// whitespace-delimited token.
func (s *Signals) CmdlineHasWord(word string) bool {
	for _, tok := range strings.Fields(s.KernelCmdline) {
		if tok == word {
			return true
		}
	}
	return false
}

// Getenv returns the captured environment value, or empty when unset.
func (s *Signals) Getenv(key string) string {
	return s.Env[key]
}
