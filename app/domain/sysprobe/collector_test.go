// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package sysprobe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cloudzero/bootscout/app/types"
)

// fakeExec scripts the probe tools. Keys are the command line joined with
// spaces; a command in errs returns its output alongside a nonzero exit.
type fakeExec struct {
	out  map[string]string
	errs map[string]bool
}

func newFakeExec() *fakeExec {
	return &fakeExec{out: map[string]string{}, errs: map[string]bool{}}
}

func (f *fakeExec) set(cmdline, output string) *fakeExec {
	f.out[cmdline] = output
	return f
}

func (f *fakeExec) fail(cmdline, output string) *fakeExec {
	f.out[cmdline] = output
	f.errs[cmdline] = true
	return f
}

func (f *fakeExec) Output(name string, args ...string) (string, error) {
	key := strings.TrimSpace(name + " " + strings.Join(args, " "))
	if f.errs[key] {
		return f.out[key], errors.New("exit status 1")
	}
	out, ok := f.out[key]
	if !ok {
		return "", errors.New("executable file not found in $PATH")
	}
	return out, nil
}

func (f *fakeExec) LookPath(name string) bool {
	for key := range f.out {
		if key == name || strings.HasPrefix(key, name+" ") {
			return true
		}
	}
	return false
}

func newTestCollector(t *testing.T, exec *fakeExec, environ ...string) (*Collector, string) {
	t.Helper()
	root := t.TempDir()
	c := NewCollector(types.NewPaths(root), WithExecutor(exec), WithEnviron(environ))
	return c, root
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestVirt(t *testing.T) {
	tests := []struct {
		name    string
		exec    *fakeExec
		environ []string
		want    string
	}{
		{
			name: "detect-virt reports kvm",
			exec: newFakeExec().set("systemd-detect-virt", "kvm\n"),
			want: "kvm",
		},
		{
			name: "detect-virt prints none on nonzero exit",
			exec: newFakeExec().fail("systemd-detect-virt", "none\n"),
			want: "none",
		},
		{
			name:    "environment fallback",
			exec:    newFakeExec(),
			environ: []string{"SYSTEMD_VIRTUALIZATION=vm:vmware"},
			want:    "vmware",
		},
		{
			name: "bsd sysctl generic maps to vm-other",
			exec: newFakeExec().set("sysctl -qn kern.vm_guest", "generic\n"),
			want: "vm-other",
		},
		{
			name: "bsd sysctl names the hypervisor",
			exec: newFakeExec().set("sysctl -qn kern.vm_guest", "xen\n"),
			want: "xen",
		},
		{
			name: "no mechanism at all",
			exec: newFakeExec(),
			want: "none",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestCollector(t, tt.exec, tt.environ...)
			if got := c.virt(); got != tt.want {
				t.Errorf("virt() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUname(t *testing.T) {
	exec := newFakeExec().set("uname -snrvm",
		"Linux myhost 6.8.0-31-generic #31-Ubuntu SMP PREEMPT_DYNAMIC x86_64\n")
	c, _ := newTestCollector(t, exec)

	u := c.uname()
	if u.KernelName != "Linux" {
		t.Errorf("KernelName = %q", u.KernelName)
	}
	if u.KernelRelease != "6.8.0-31-generic" {
		t.Errorf("KernelRelease = %q", u.KernelRelease)
	}
	if u.KernelVersion != "#31-Ubuntu SMP PREEMPT_DYNAMIC" {
		t.Errorf("KernelVersion = %q", u.KernelVersion)
	}
	if u.Machine != "x86_64" {
		t.Errorf("Machine = %q", u.Machine)
	}
}

func TestUnameUnavailable(t *testing.T) {
	c, _ := newTestCollector(t, newFakeExec())
	if u := c.uname(); u != (types.Uname{}) {
		t.Errorf("uname() = %+v, want zero value", u)
	}
}

func TestCmdline(t *testing.T) {
	c, root := newTestCollector(t, newFakeExec())
	writeFile(t, root, "proc/cmdline", "root=/dev/vda1 ds=nocloud ro\n")

	if got := c.cmdline(false); got != "root=/dev/vda1 ds=nocloud ro" {
		t.Errorf("cmdline = %q", got)
	}
}

func TestCmdlineContainer(t *testing.T) {
	c, root := newTestCollector(t, newFakeExec())
	writeFile(t, root, "proc/1/cmdline", "/sbin/init\x00--switched-root\x00")

	if got := c.cmdline(true); got != "container:/sbin/init --switched-root" {
		t.Errorf("cmdline = %q", got)
	}
}

func TestCmdlineUnreadable(t *testing.T) {
	c, _ := newTestCollector(t, newFakeExec())
	if got := c.cmdline(false); got != types.Unavailable {
		t.Errorf("cmdline = %q, want unavailable marker", got)
	}
}

func TestPid1ProductName(t *testing.T) {
	c, root := newTestCollector(t, newFakeExec())
	writeFile(t, root, "proc/1/environ", "PATH=/usr/bin\x00PRODUCT_NAME=OpenStack Nova\x00")

	if got := c.pid1ProductName(); got != "OpenStack Nova" {
		t.Errorf("pid1ProductName = %q", got)
	}
}

func TestMounts(t *testing.T) {
	c, root := newTestCollector(t, newFakeExec())
	writeFile(t, root, "proc/mounts",
		"C:\\134 /mnt/c 9p rw,aname=drvfs 0 0\nproc /proc proc rw 0 0\nbad line\n")

	mounts := c.mounts()
	if len(mounts) != 2 {
		t.Fatalf("len(mounts) = %d, want 2", len(mounts))
	}
	if mounts[0].FSType != "9p" || !strings.Contains(mounts[0].Options, "aname=drvfs") {
		t.Errorf("mounts[0] = %+v", mounts[0])
	}
}

func TestCapturedEnv(t *testing.T) {
	c, _ := newTestCollector(t, newFakeExec(),
		"WSL_DISTRO_NAME=Ubuntu",
		"VMX_GUESTINFO=true",
		"PATH=/usr/bin",
		"HOME=/root",
	)

	env := c.capturedEnv()
	if env["WSL_DISTRO_NAME"] != "Ubuntu" || env["VMX_GUESTINFO"] != "true" {
		t.Errorf("capturedEnv = %v", env)
	}
	if _, ok := env["PATH"]; ok {
		t.Error("PATH must not be captured")
	}
}

func TestCollectSnapshot(t *testing.T) {
	exec := newFakeExec().
		set("systemd-detect-virt", "kvm\n").
		set("uname -snrvm", "Linux host 6.8.0 #1 SMP x86_64\n").
		set("blkid -c /dev/null -o export", "DEVNAME=/dev/vda1\nTYPE=ext4\nLABEL=cloudimg-rootfs\n")
	c, root := newTestCollector(t, exec)
	writeFile(t, root, "sys/class/dmi/id/product_name", "Google Compute Engine\n")
	writeFile(t, root, "proc/cmdline", "root=/dev/vda1\n")

	sig := c.Collect(context.Background())
	if sig.Virt != "kvm" {
		t.Errorf("Virt = %q", sig.Virt)
	}
	if sig.DMI.ProductName != "Google Compute Engine" || !sig.DMI.Obtained {
		t.Errorf("DMI = %+v", sig.DMI)
	}
	if sig.KernelCmdline != "root=/dev/vda1" {
		t.Errorf("KernelCmdline = %q", sig.KernelCmdline)
	}
	if !sig.FS.HasLabel("cloudimg-rootfs") {
		t.Errorf("FS = %+v", sig.FS)
	}
	if sig.Pid1ProductName != types.Unavailable {
		t.Errorf("Pid1ProductName = %q", sig.Pid1ProductName)
	}
}
