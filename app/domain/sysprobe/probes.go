// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package sysprobe

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	logging "github.com/cloudzero/bootscout/app/logging/probe"
	"github.com/cloudzero/bootscout/app/types"
)

// Probe is one individually invocable collector mechanism, exposed for
// diagnostics. The identification path never uses this catalog; it always
// collects the full snapshot.
type Probe struct {
	Name        string
	Description string

	run func(c *Collector) map[string]string
}

var probeCatalog = []Probe{
	{
		Name: "virt", Description: "virtualization type",
		run: func(c *Collector) map[string]string {
			return map[string]string{"VIRT": c.virt()}
		},
	},
	{
		Name: "dmi", Description: "hardware descriptor fields",
		run: func(c *Collector) map[string]string {
			dmi := c.readDMI(c.uname().KernelName)
			return map[string]string{
				"DMI_SYS_VENDOR":        dmi.SysVendor,
				"DMI_PRODUCT_NAME":      dmi.ProductName,
				"DMI_PRODUCT_SERIAL":    dmi.ProductSerial,
				"DMI_PRODUCT_UUID":      dmi.ProductUUID,
				"DMI_BOARD_NAME":        dmi.BoardName,
				"DMI_CHASSIS_ASSET_TAG": dmi.ChassisAssetTag,
				"DMI_OBTAINED":          strconv.FormatBool(dmi.Obtained),
			}
		},
	},
	{
		Name: "uname", Description: "kernel identification",
		run: func(c *Collector) map[string]string {
			u := c.uname()
			return map[string]string{
				"UNAME_KERNEL_NAME":    u.KernelName,
				"UNAME_KERNEL_RELEASE": u.KernelRelease,
				"UNAME_KERNEL_VERSION": u.KernelVersion,
				"UNAME_MACHINE":        u.Machine,
			}
		},
	},
	{
		Name: "cmdline", Description: "kernel command line",
		run: func(c *Collector) map[string]string {
			container := types.IsContainerVirt(c.virt())
			return map[string]string{"KERNEL_CMDLINE": c.cmdline(container)}
		},
	},
	{
		Name: "blkid", Description: "block device table",
		run: func(c *Collector) map[string]string {
			container := types.IsContainerVirt(c.virt())
			fs := c.blockDevices(c.uname().KernelName, container)
			out := map[string]string{
				"FS_LABELS":    strings.Join(fs.Labels, ","),
				"FS_UUIDS":     strings.Join(fs.UUIDs, ","),
				"ISO9660_DEVS": isoPairs(fs.ISO9660),
			}
			if fs.Unavailable != "" {
				out["FS_UNAVAILABLE"] = fs.Unavailable
			}
			return out
		},
	},
	{
		Name: "pid1", Description: "PID 1 environment",
		run: func(c *Collector) map[string]string {
			return map[string]string{"PID_1_PRODUCT_NAME": c.pid1ProductName()}
		},
	},
	{
		Name: "env", Description: "captured environment variables",
		run: func(c *Collector) map[string]string {
			return c.capturedEnv()
		},
	},
}

func isoPairs(pairs []types.DeviceLabel) string {
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, p.Device+"="+p.Label)
	}
	return strings.Join(parts, ",")
}

// Probes returns the diagnostic probe catalog.
func Probes() []Probe {
	return probeCatalog
}

// RunProbe runs one named probe and returns its name=value pairs.
func (c *Collector) RunProbe(name string) (map[string]string, error) {
	for _, p := range probeCatalog {
		if p.Name != name {
			continue
		}
		logger := logging.NewLogger().WithField(logging.OpField, p.Name)
		vals := p.run(c)
		logger.WithField("values", len(vals)).Debug("probe complete")
		return vals, nil
	}
	return nil, fmt.Errorf("unknown probe %q", name)
}

// RunAll runs every probe concurrently and merges the results. This is a
// diagnostics-only path; identification stays strictly sequential.
func (c *Collector) RunAll(ctx context.Context) map[string]string {
	results := make([]map[string]string, len(probeCatalog))

	g, _ := errgroup.WithContext(ctx)
	for i, p := range probeCatalog {
		g.Go(func() error {
			results[i] = p.run(c)
			return nil
		})
	}
	// probes never return errors; unavailable mechanisms yield empty values
	_ = g.Wait()

	merged := map[string]string{}
	for _, vals := range results {
		for k, v := range vals {
			merged[k] = v
		}
	}
	return merged
}

// SortedKeys returns the probe output keys in stable order for printing.
func SortedKeys(vals map[string]string) []string {
	keys := make([]string, 0, len(vals))
	for k := range vals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
