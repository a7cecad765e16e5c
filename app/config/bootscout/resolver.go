// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cloudzero/bootscout/app/types"
)

// Resolved is the narrow view over the host's cloud configuration. Every
// field degrades to its zero value (or documented default) when the source
// is absent or unparsable; resolution never fails.
type Resolved struct {
	// DatasourceList is the explicit provider list from the last parsable
	// datasource_list line across cloud.cfg and its fragment directory.
	DatasourceList []string
	// ListSource records which file supplied DatasourceList, for the dump.
	ListSource string

	// Policy is the policy string from ds-identify.cfg, if any.
	Policy string
	// EC2StrictID is the ec2_strict_id value from ds-identify.cfg, if any.
	EC2StrictID string

	// CmdlineDS is a datasource named directly on the kernel command line
	// (ds=, ci.ds= or ci.datasource=), truncated at the first semicolon.
	CmdlineDS string
	// CmdlinePolicy is a ci.di.policy= value; it outranks file policy.
	CmdlinePolicy string

	// Keys individual platform checks consult.
	VMwareCustomizationDisabled bool
	NoCloudSeedFrom             string
	NoCloudUserData             bool
	NoCloudMetaData             bool
	MAASConfigured              bool
}

// EffectivePolicy returns the highest-precedence configured policy string,
// or empty when only the built-in applies.
func (r *Resolved) EffectivePolicy() string {
	if r.CmdlinePolicy != "" {
		return r.CmdlinePolicy
	}
	return r.Policy
}

// Resolve reads the host configuration under paths plus the already
// collected kernel command line. Missing or malformed sources are skipped
// silently; defaults apply.
func Resolve(paths types.Paths, kernelCmdline string) *Resolved {
	r := &Resolved{
		// Guest customization is opt-in: only an explicit false enables it.
		VMwareCustomizationDisabled: true,
	}

	for _, file := range configFiles(paths) {
		raw, err := os.ReadFile(file)
		if err != nil {
			continue
		}
		r.scanDatasourceList(string(raw), file)
		r.scanConditionalKeys(raw)
	}

	r.scanOverrideFile(paths.OverrideCfg)
	r.scanCmdline(kernelCmdline)

	return r
}

// configFiles returns cloud.cfg followed by the fragment directory in
// lexical order; later files win.
func configFiles(paths types.Paths) []string {
	files := []string{paths.CloudCfg}
	frags, err := filepath.Glob(filepath.Join(paths.CloudCfgD, "*.cfg"))
	if err == nil {
		sort.Strings(frags)
		files = append(files, frags...)
	}
	return files
}

func (r *Resolved) scanDatasourceList(doc, source string) {
	for _, line := range strings.Split(doc, "\n") {
		line = strings.TrimRight(line, "\r")
		if items, ok := parseListLine(line, "datasource_list"); ok {
			r.DatasourceList = items
			r.ListSource = source
		}
	}
}

// scanConditionalKeys pulls the provider-conditional keys out of a config
// document with a tolerant YAML parse. This is deliberately separate from
// the datasource_list grammar: these keys gate individual checks and a
// malformed document simply contributes nothing.
func (r *Resolved) scanConditionalKeys(doc []byte) {
	var root map[string]interface{}
	if yaml.Unmarshal(doc, &root) != nil {
		return
	}

	if v, ok := root["disable_vmware_customization"].(bool); ok {
		r.VMwareCustomizationDisabled = v
	}
	if _, ok := root["MAAS"]; ok {
		r.MAASConfigured = true
	}

	ds, _ := root["datasource"].(map[string]interface{})
	if ds == nil {
		return
	}
	if _, ok := ds["MAAS"]; ok {
		r.MAASConfigured = true
	}
	nc, _ := ds["NoCloud"].(map[string]interface{})
	if nc == nil {
		return
	}
	if s, ok := nc["seedfrom"].(string); ok {
		r.NoCloudSeedFrom = s
	}
	if _, ok := nc["user-data"]; ok {
		r.NoCloudUserData = true
	}
	if _, ok := nc["meta-data"]; ok {
		r.NoCloudMetaData = true
	}
}

// scanOverrideFile reads ds-identify.cfg: one `key: value` per line, key at
// column zero, optional quotes around the value.
func (r *Resolved) scanOverrideFile(path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return
	}
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimRight(line, "\r")
		if v, ok := keyValueLine(line, "policy"); ok {
			r.Policy = v
		}
		if v, ok := keyValueLine(line, "ec2_strict_id"); ok {
			r.EC2StrictID = v
		}
	}
}

func keyValueLine(line, key string) (string, bool) {
	rest, found := strings.CutPrefix(line, key+":")
	if !found {
		return "", false
	}
	v := strings.Trim(strings.TrimSpace(rest), `"'`)
	if v == "" {
		return "", false
	}
	return v, true
}

func (r *Resolved) scanCmdline(cmdline string) {
	for _, tok := range strings.Fields(cmdline) {
		k, v, ok := strings.Cut(tok, "=")
		if !ok || v == "" {
			continue
		}
		switch k {
		case "ds", "ci.ds", "ci.datasource":
			// a trailing ;key=val block configures the datasource, not us
			v, _, _ = strings.Cut(v, ";")
			if v != "" {
				r.CmdlineDS = v
			}
		case "ci.di.policy":
			r.CmdlinePolicy = v
		}
	}
}
