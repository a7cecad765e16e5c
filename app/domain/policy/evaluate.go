// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package policy

import (
	config "github.com/cloudzero/bootscout/app/config/bootscout"
	"github.com/cloudzero/bootscout/app/domain/detect"
	logging "github.com/cloudzero/bootscout/app/logging/probe"
	"github.com/cloudzero/bootscout/app/types"
)

// Decision is the engine's final word for one run.
type Decision struct {
	// Found maps to exit status 0; its absence to 1.
	Found bool
	// List is the resolved datasource list, sentinel included where the
	// engine appended one.
	List []string
	// WriteFragment is false when the decision carries no list to publish
	// (disabled, or the enabled fallback).
	WriteFragment bool
	// Report nests the emitted fragment under the report key.
	Report bool

	// Decision variables for the diagnostic dump and the run report.
	Spec       Spec
	DSName     string
	Candidates []string
	Verdicts   []types.CheckVerdict
}

// Evaluate runs the decision procedure: restrict candidates, execute each
// check once in registry order, and aggregate the verdicts per the policy.
// Evaluation is strictly sequential; FIRST semantics and resource-claim
// precedence depend on the fixed order.
func Evaluate(spec Spec, reg []detect.Descriptor, sig *types.Signals, cfg *config.Resolved, strictID string) Decision {
	d := Decision{Spec: spec, Report: spec.Mode == ModeReport}

	switch spec.Mode {
	case ModeDisabled:
		return d
	case ModeEnabled:
		d.Found = true
		return d
	}

	// a datasource named on the kernel command line outranks evaluation
	if cfg.CmdlineDS != "" {
		name := cfg.CmdlineDS
		if desc, ok := detect.Lookup(name); ok {
			name = desc.Name
		}
		d.Found = true
		d.WriteFragment = true
		d.DSName = name
		d.List = []string{name, types.DSNone}
		return d
	}

	// a single-member configured list bypasses evaluation entirely; the
	// member is used verbatim with no sentinel
	dslist := cfg.DatasourceList
	if len(dslist) == 1 {
		d.Found = true
		d.WriteFragment = true
		d.List = append([]string(nil), dslist...)
		return d
	}

	// a multi-member list restricts the candidates but does not bypass:
	// a restricted search can still fail
	restricted := len(dslist) >= 2
	var candidates []detect.Descriptor
	if restricted {
		for _, desc := range reg {
			for _, want := range dslist {
				if want != types.DSNone && desc.Name == want {
					candidates = append(candidates, desc)
					break
				}
			}
		}
	} else {
		candidates = reg
	}
	for _, desc := range candidates {
		d.Candidates = append(d.Candidates, desc.Name)
	}

	run := &detect.Run{Candidates: d.Candidates, Config: cfg, StrictID: strictID}
	var found, maybe []string
	for _, desc := range candidates {
		v := desc.Check(sig, run)
		d.Verdicts = append(d.Verdicts, types.CheckVerdict{Name: desc.Name, Verdict: v.String()})
		logging.NewLogger().
			WithField(logging.OpField, desc.Name).
			WithField("verdict", v.String()).
			Debug("platform check")

		switch v {
		case types.Found:
			found = append(found, desc.Name)
		case types.Maybe:
			maybe = append(maybe, desc.Name)
		}
	}

	retained := applyRetain(found, spec.OnFound)
	if len(retained) == 0 {
		retained = applyRetain(maybe, spec.OnMaybe)
	}

	if len(retained) == 0 {
		switch spec.OnNotFound {
		case "disabled":
			return d
		case "enabled":
			d.Found = true
			return d
		default:
			d.Found = true
			d.WriteFragment = true
			d.List = []string{spec.OnNotFound}
			return d
		}
	}

	d.Found = true
	d.WriteFragment = true
	if restricted {
		// the configured list's own order and sentinel placement are
		// preserved; the sentinel is never duplicated
		sentinel := false
		for _, m := range dslist {
			if m == types.DSNone {
				d.List = append(d.List, m)
				sentinel = true
				continue
			}
			for _, r := range retained {
				if r == m {
					d.List = append(d.List, m)
					break
				}
			}
		}
		if !sentinel {
			d.List = append(d.List, types.DSNone)
		}
		return d
	}

	d.List = append(append([]string(nil), retained...), types.DSNone)
	return d
}

func applyRetain(list []string, r Retain) []string {
	switch r {
	case RetainAll:
		return list
	case RetainFirst:
		if len(list) > 0 {
			return list[:1]
		}
	}
	return nil
}
