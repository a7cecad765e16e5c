// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package sysprobe collects the per-run signal snapshot the platform checks
// evaluate: virtualization type, hardware descriptor fields, kernel
// identification, the block device table, the mount table, and selected
// environment variables.
//
// Collection never fails. A mechanism that does not exist on this host
// degrades to an empty value or the unavailable marker; the policy layer
// decides what an empty snapshot means.
package sysprobe

import (
	"context"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/cloudzero/bootscout/app/types"
)

// envPrefixes are the environment variables captured into the snapshot.
var envPrefixes = []string{
	"SYSTEMD_VIRTUALIZATION",
	"VMX_GUESTINFO",
	"WSL_",
}

type Collector struct {
	paths     types.Paths
	exec      types.Executor
	environ   []string
	dmiSource string
}

type Option func(*Collector)

// WithExecutor substitutes the external tool runner; tests script it.
func WithExecutor(e types.Executor) Option {
	return func(c *Collector) {
		c.exec = e
	}
}

// WithEnviron substitutes the process environment.
func WithEnviron(environ []string) Option {
	return func(c *Collector) {
		c.environ = environ
	}
}

// WithDMISource pins the descriptor source (sysfs, kenv, sysctl or
// dmidecode) instead of the availability ladder.
func WithDMISource(source string) Option {
	return func(c *Collector) {
		c.dmiSource = source
	}
}

func NewCollector(paths types.Paths, opts ...Option) *Collector {
	c := &Collector{
		paths:   paths,
		exec:    NewExecutor(),
		environ: os.Environ(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect builds the immutable signal snapshot for this run. It is the only
// place signals are gathered; everything downstream reads the snapshot.
func (c *Collector) Collect(ctx context.Context) *types.Signals {
	sig := &types.Signals{
		Paths: c.paths,
		Exec:  c.exec,
		Env:   c.capturedEnv(),
	}

	sig.Uname = c.uname()
	sig.Virt = c.virt()
	sig.DMI = c.readDMI(sig.Uname.KernelName)
	sig.KernelCmdline = c.cmdline(sig.IsContainer())
	sig.Pid1ProductName = c.pid1ProductName()
	sig.FS = c.blockDevices(sig.Uname.KernelName, sig.IsContainer())
	sig.Mounts = c.mounts()

	log.Ctx(ctx).Debug().
		Str("virt", sig.Virt).
		Str("product_name", sig.DMI.ProductName).
		Bool("dmi_obtained", sig.DMI.Obtained).
		Int("block_devices", len(sig.FS.Devices)).
		Msg("collected host signals")

	return sig
}

func (c *Collector) capturedEnv() map[string]string {
	env := map[string]string{}
	for _, kv := range c.environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		for _, prefix := range envPrefixes {
			if strings.HasPrefix(k, prefix) {
				env[k] = v
				break
			}
		}
	}
	return env
}

// virt probes the virtualization type: detection tool first, then the
// SYSTEMD_VIRTUALIZATION environment override, then the BSD sysctl query.
// The known qemu-for-kvm quirk is left to the checks that care about it.
func (c *Collector) virt() string {
	out, err := c.exec.Output("systemd-detect-virt")
	if v := strings.TrimSpace(out); v != "" && (err == nil || v == "none") {
		return v
	}

	if v, ok := c.lookupEnv("SYSTEMD_VIRTUALIZATION"); ok {
		// value is "type:name"; the name part is what checks match on
		if _, name, found := strings.Cut(v, ":"); found {
			return name
		}
		return v
	}

	if out, err := c.exec.Output("sysctl", "-qn", "kern.vm_guest"); err == nil {
		switch v := strings.TrimSpace(out); v {
		case "", "none":
		case "generic":
			return "vm-other"
		default:
			return v
		}
	}

	return "none"
}

func (c *Collector) lookupEnv(key string) (string, bool) {
	for _, kv := range c.environ {
		if k, v, ok := strings.Cut(kv, "="); ok && k == key {
			return v, true
		}
	}
	return "", false
}

// uname captures kernel name, release, version and machine in one call.
func (c *Collector) uname() types.Uname {
	out, err := c.exec.Output("uname", "-snrvm")
	fields := strings.Fields(out)
	if err != nil || len(fields) < 5 {
		return types.Uname{}
	}
	// -s name, -n node, -r release, -v version (may contain spaces), -m machine
	return types.Uname{
		KernelName:    fields[0],
		KernelRelease: fields[2],
		KernelVersion: strings.Join(fields[3:len(fields)-1], " "),
		Machine:       fields[len(fields)-1],
	}
}

// cmdline reads the kernel command line. Inside a container the kernel's
// own command line belongs to the host, so PID 1's is captured instead,
// marked with a container prefix.
func (c *Collector) cmdline(container bool) string {
	if container {
		raw, err := os.ReadFile(c.paths.Proc1Cmdline)
		if err != nil {
			return types.Unavailable
		}
		cmd := strings.TrimSpace(strings.ReplaceAll(string(raw), "\x00", " "))
		return "container:" + cmd
	}

	raw, err := os.ReadFile(c.paths.ProcCmdline)
	if err != nil {
		return types.Unavailable
	}
	return strings.TrimSpace(string(raw))
}

// pid1ProductName extracts PRODUCT_NAME from PID 1's environment.
func (c *Collector) pid1ProductName() string {
	raw, err := os.ReadFile(c.paths.Proc1Environ)
	if err != nil {
		return types.Unavailable
	}
	for _, kv := range strings.Split(string(raw), "\x00") {
		if v, ok := strings.CutPrefix(kv, "PRODUCT_NAME="); ok {
			return v
		}
	}
	return types.Unavailable
}

func (c *Collector) mounts() []types.Mount {
	raw, err := os.ReadFile(c.paths.ProcMounts)
	if err != nil {
		return nil
	}
	var mounts []types.Mount
	for _, line := range strings.Split(string(raw), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		mounts = append(mounts, types.Mount{
			Source:  fields[0],
			Target:  fields[1],
			FSType:  fields[2],
			Options: fields[3],
		})
	}
	return mounts
}
