// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detect_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	config "github.com/cloudzero/bootscout/app/config/bootscout"
	"github.com/cloudzero/bootscout/app/domain/detect"
	"github.com/cloudzero/bootscout/app/types"
)

// scriptedExec fakes the probe tools for checks that shell out.
type scriptedExec struct {
	out map[string]string
}

func (s scriptedExec) Output(name string, args ...string) (string, error) {
	key := strings.TrimSpace(name + " " + strings.Join(args, " "))
	out, ok := s.out[key]
	if !ok {
		return "", errors.New("executable file not found in $PATH")
	}
	return out, nil
}

func (s scriptedExec) LookPath(name string) bool {
	for key := range s.out {
		if key == name || strings.HasPrefix(key, name+" ") {
			return true
		}
	}
	return false
}

// newSignals builds a plain kvm Linux guest over an empty synthetic root.
func newSignals(t *testing.T) *types.Signals {
	t.Helper()
	return &types.Signals{
		Virt:  "kvm",
		Uname: types.Uname{KernelName: "Linux", Machine: "x86_64"},
		Paths: types.NewPaths(t.TempDir()),
		Exec:  scriptedExec{},
		Env:   map[string]string{},
	}
}

func writeHostFile(t *testing.T, sig *types.Signals, rel, content string) {
	t.Helper()
	path := filepath.Join(sig.Paths.Root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func defaultRun() *detect.Run {
	return &detect.Run{
		Config:   &config.Resolved{VMwareCustomizationDisabled: true},
		StrictID: "true",
	}
}

func runCheck(t *testing.T, name string, sig *types.Signals, run *detect.Run) types.Verdict {
	t.Helper()
	desc, ok := detect.Lookup(name)
	if !ok {
		t.Fatalf("no check named %q", name)
	}
	if run == nil {
		run = defaultRun()
	}
	return desc.Check(sig, run)
}

func TestRegistryOrder(t *testing.T) {
	want := []string{
		"MAAS", "ConfigDrive", "NoCloud", "AltCloud", "Azure", "Bigstep",
		"CloudSigma", "CloudStack", "DigitalOcean", "Vultr", "AliYun", "Ec2",
		"GCE", "OpenNebula", "OpenStack", "OVF", "SmartOS", "Scaleway",
		"Hetzner", "IBMCloud", "Oracle", "Exoscale", "RbxCloud", "UpCloud",
		"VMware", "LXD", "NWCS", "Akamai", "WSL", "CloudCIX",
	}
	var got []string
	for _, d := range detect.Registry() {
		got = append(got, d.Name)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("registry order mismatch (-want +got):\n%s", diff)
	}
}

func TestLookupCaseInsensitive(t *testing.T) {
	d, ok := detect.Lookup("ec2")
	if !ok || d.Name != "Ec2" {
		t.Errorf("Lookup(ec2) = %+v, %t", d, ok)
	}
	if _, ok := detect.Lookup("NotACloud"); ok {
		t.Error("Lookup(NotACloud) = true")
	}
}

func TestRunIsCandidate(t *testing.T) {
	run := &detect.Run{Candidates: []string{"Ec2", "GCE"}}
	if !run.IsCandidate("Ec2") || run.IsCandidate("Azure") {
		t.Error("IsCandidate misreports membership")
	}
}

// Exact or anchored descriptor matches only; a fresh snapshot must not match
// anything that evaluates descriptor fields.
func TestDescriptorChecks(t *testing.T) {
	tests := []struct {
		name  string
		check string
		dmi   types.DMI
		want  types.Verdict
	}{
		{name: "cloudsigma product", check: "CloudSigma", dmi: types.DMI{ProductName: "CloudSigma"}, want: types.Found},
		{name: "cloudsigma near miss", check: "CloudSigma", dmi: types.DMI{ProductName: "CloudSigmaX"}, want: types.NotFound},
		{name: "cloudstack prefix", check: "CloudStack", dmi: types.DMI{ProductName: "CloudStack KVM Hypervisor"}, want: types.Found},
		{name: "digitalocean vendor", check: "DigitalOcean", dmi: types.DMI{SysVendor: "DigitalOcean"}, want: types.Found},
		{name: "vultr vendor", check: "Vultr", dmi: types.DMI{SysVendor: "Vultr"}, want: types.Found},
		{name: "aliyun product", check: "AliYun", dmi: types.DMI{ProductName: "Alibaba Cloud ECS"}, want: types.Found},
		{name: "gce product", check: "GCE", dmi: types.DMI{ProductName: "Google Compute Engine"}, want: types.Found},
		{name: "gce serial prefix", check: "GCE", dmi: types.DMI{ProductSerial: "GoogleCloud-8f2a"}, want: types.Found},
		{name: "gce serial elsewhere", check: "GCE", dmi: types.DMI{ProductSerial: "not-GoogleCloud-8f2a"}, want: types.NotFound},
		{name: "scaleway vendor", check: "Scaleway", dmi: types.DMI{SysVendor: "Scaleway"}, want: types.Found},
		{name: "hetzner vendor", check: "Hetzner", dmi: types.DMI{SysVendor: "Hetzner"}, want: types.Found},
		{name: "oracle asset tag", check: "Oracle", dmi: types.DMI{ChassisAssetTag: "OracleCloud.com"}, want: types.Found},
		{name: "oracle wrong case", check: "Oracle", dmi: types.DMI{ChassisAssetTag: "oraclecloud.com"}, want: types.NotFound},
		{name: "exoscale vendor", check: "Exoscale", dmi: types.DMI{SysVendor: "Exoscale"}, want: types.Found},
		{name: "upcloud vendor", check: "UpCloud", dmi: types.DMI{SysVendor: "UpCloud"}, want: types.Found},
		{name: "nwcs vendor", check: "NWCS", dmi: types.DMI{SysVendor: "NWCS"}, want: types.Found},
		{name: "akamai vendor", check: "Akamai", dmi: types.DMI{SysVendor: "Akamai"}, want: types.Found},
		{name: "akamai legacy linode", check: "Akamai", dmi: types.DMI{SysVendor: "Linode"}, want: types.Found},
		{name: "cloudcix product", check: "CloudCIX", dmi: types.DMI{ProductName: "CloudCIX"}, want: types.Found},
		{name: "altcloud rhev", check: "AltCloud", dmi: types.DMI{ProductName: "RHEV Hypervisor"}, want: types.Maybe},
		{name: "altcloud vsphere", check: "AltCloud", dmi: types.DMI{ProductName: "vSphere"}, want: types.Maybe},
		{name: "altcloud other", check: "AltCloud", dmi: types.DMI{ProductName: "KVM"}, want: types.NotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := newSignals(t)
			sig.DMI = tt.dmi
			if got := runCheck(t, tt.check, sig, nil); got != tt.want {
				t.Errorf("%s = %v, want %v", tt.check, got, tt.want)
			}
		})
	}
}

func TestVultrSecondarySignals(t *testing.T) {
	sig := newSignals(t)
	sig.KernelCmdline = "root=/dev/vda1 vultr"
	if got := runCheck(t, "Vultr", sig, nil); got != types.Found {
		t.Errorf("cmdline word = %v, want found", got)
	}

	sig = newSignals(t)
	sig.KernelCmdline = "novultras"
	if got := runCheck(t, "Vultr", sig, nil); got != types.NotFound {
		t.Errorf("embedded token = %v, want not-found", got)
	}

	sig = newSignals(t)
	writeHostFile(t, sig, "etc/vultr", "")
	if got := runCheck(t, "Vultr", sig, nil); got != types.Found {
		t.Errorf("marker file = %v, want found", got)
	}
}

func TestBigstepSeedURL(t *testing.T) {
	sig := newSignals(t)
	writeHostFile(t, sig, "var/lib/cloud/data/seed/bigstep/url", "https://api.bigstep.com/")
	if got := runCheck(t, "Bigstep", sig, nil); got != types.Found {
		t.Errorf("Bigstep = %v, want found", got)
	}
}

func TestOpenNebula(t *testing.T) {
	sig := newSignals(t)
	writeHostFile(t, sig, "var/lib/cloud/seed/opennebula/context.sh", "")
	if got := runCheck(t, "OpenNebula", sig, nil); got != types.Found {
		t.Errorf("seed dir = %v, want found", got)
	}

	sig = newSignals(t)
	sig.FS = types.FSInfo{Labels: []string{"CONTEXT"}}
	if got := runCheck(t, "OpenNebula", sig, nil); got != types.Found {
		t.Errorf("context label = %v, want found", got)
	}
}

func TestRbxCloudLabel(t *testing.T) {
	sig := newSignals(t)
	sig.FS = types.FSInfo{Labels: []string{"cloudmd"}}
	if got := runCheck(t, "RbxCloud", sig, nil); got != types.Found {
		t.Errorf("RbxCloud = %v, want found", got)
	}
}
