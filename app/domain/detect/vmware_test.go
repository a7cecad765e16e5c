// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detect_test

import (
	"testing"

	"github.com/cloudzero/bootscout/app/types"
)

func TestVMwareEnvvarTransport(t *testing.T) {
	sig := newSignals(t)
	sig.Virt = "none" // the envvar transport does not require detected virt
	sig.Env["VMX_GUESTINFO"] = "true"
	sig.Env["VMX_GUESTINFO_METADATA"] = "---\ninstance-id: vm-1\n"
	if got := runCheck(t, "VMware", sig, nil); got != types.Found {
		t.Errorf("envvar transport = %v, want found", got)
	}

	sig = newSignals(t)
	sig.Virt = "none"
	sig.Env["VMX_GUESTINFO"] = "true"
	if got := runCheck(t, "VMware", sig, nil); got != types.NotFound {
		t.Errorf("marker without data = %v, want not-found", got)
	}
}

func TestVMwareGuestinfo(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  types.Verdict
	}{
		{name: "real data", reply: "instance-id: vm-1", want: types.Found},
		{name: "empty yaml document counts", reply: "---", want: types.Found},
		{name: "no value reply", reply: "No value found", want: types.NotFound},
		{name: "blank reply", reply: "  \n", want: types.NotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := newSignals(t)
			sig.Virt = "vmware"
			sig.Exec = scriptedExec{out: map[string]string{
				"vmware-rpctool info-get guestinfo.metadata":   tt.reply,
				"vmware-rpctool info-get guestinfo.userdata":   "No value found",
				"vmware-rpctool info-get guestinfo.vendordata": "No value found",
			}}
			if got := runCheck(t, "VMware", sig, nil); got != tt.want {
				t.Errorf("VMware = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVMwareVmtoolsdFallback(t *testing.T) {
	sig := newSignals(t)
	sig.Virt = "vmware"
	sig.Exec = scriptedExec{out: map[string]string{
		"vmtoolsd --cmd info-get guestinfo.userdata": "#cloud-config",
	}}
	if got := runCheck(t, "VMware", sig, nil); got != types.Found {
		t.Errorf("VMware = %v, want found", got)
	}
}

func TestVMwareCustomization(t *testing.T) {
	sig := newSignals(t)
	sig.Virt = "vmware"
	writeHostFile(t, sig, "usr/lib/open-vm-tools/plugins/vmsvc/libdeployPkgPlugin.so", "")

	// disabled (the default) never claims on the plugin alone
	if got := runCheck(t, "VMware", sig, nil); got != types.NotFound {
		t.Errorf("customization disabled = %v, want not-found", got)
	}

	run := defaultRun()
	run.Config.VMwareCustomizationDisabled = false
	if got := runCheck(t, "VMware", sig, run); got != types.Found {
		t.Errorf("customization enabled = %v, want found", got)
	}
}

func TestVMwareRequiresVirt(t *testing.T) {
	sig := newSignals(t)
	sig.Exec = scriptedExec{out: map[string]string{
		"vmware-rpctool info-get guestinfo.metadata": "instance-id: vm-1",
	}}
	if got := runCheck(t, "VMware", sig, nil); got != types.NotFound {
		t.Errorf("kvm host = %v, want not-found", got)
	}
}
