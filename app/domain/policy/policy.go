// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package policy turns many independent platform check verdicts into one
// ordered result, driven by a compact declarative policy string.
package policy

import "strings"

// Mode is the top-level policy switch.
type Mode int

const (
	// ModeSearch evaluates the candidate checks.
	ModeSearch Mode = iota
	// ModeReport evaluates like search but the fragment is nested under a
	// report key, leaving the downstream pipeline's own discovery intact.
	ModeReport
	// ModeEnabled asserts FOUND without evaluating or restricting anything.
	ModeEnabled
	// ModeDisabled asserts NOT_FOUND regardless of every verdict.
	ModeDisabled
)

func (m Mode) String() string {
	switch m {
	case ModeReport:
		return "report"
	case ModeEnabled:
		return "enabled"
	case ModeDisabled:
		return "disabled"
	default:
		return "search"
	}
}

// Retain selects how a verdict list collapses into the result.
type Retain int

const (
	RetainAll Retain = iota
	RetainFirst
	RetainNone
)

func (r Retain) String() string {
	switch r {
	case RetainFirst:
		return "first"
	case RetainNone:
		return "none"
	default:
		return "all"
	}
}

// Spec is one resolved policy. OnNotFound is "disabled" (conclude
// NOT_FOUND), "enabled" (conclude FOUND with no list), or a literal
// datasource name used verbatim as the fallback list.
type Spec struct {
	Mode       Mode
	OnFound    Retain
	OnMaybe    Retain
	OnNotFound string
}

// Default returns the built-in policy variant. A host that yielded no
// descriptor data at all cannot be searched conclusively, so identification
// failure keeps the downstream pipeline enabled there.
func Default(dmiObtained bool) Spec {
	spec := Spec{
		Mode:       ModeSearch,
		OnFound:    RetainAll,
		OnMaybe:    RetainAll,
		OnNotFound: "disabled",
	}
	if !dmiObtained {
		spec.OnNotFound = "enabled"
	}
	return spec
}

// Parse reads a policy string like "search,found=all,maybe=none,
// notfound=disabled". Tokens may appear in any order; unknown or malformed
// tokens are ignored per-field and the default supplies the rest. Parsing
// never fails: a fully malformed string is just the default.
func Parse(s string, def Spec) Spec {
	spec := def
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}

		k, v, hasValue := strings.Cut(tok, "=")
		if !hasValue {
			switch tok {
			case "search":
				spec.Mode = ModeSearch
			case "report":
				spec.Mode = ModeReport
			case "enabled":
				spec.Mode = ModeEnabled
			case "disabled":
				spec.Mode = ModeDisabled
			}
			continue
		}

		switch k {
		case "found":
			switch v {
			case "all":
				spec.OnFound = RetainAll
			case "first":
				spec.OnFound = RetainFirst
			}
		case "maybe":
			switch v {
			case "all":
				spec.OnMaybe = RetainAll
			case "first":
				spec.OnMaybe = RetainFirst
			case "none":
				spec.OnMaybe = RetainNone
			}
		case "notfound":
			if v != "" && !strings.ContainsAny(v, " \t") {
				spec.OnNotFound = v
			}
		}
	}
	return spec
}

// String renders the spec back in the declarative grammar.
func (s Spec) String() string {
	return strings.Join([]string{
		s.Mode.String(),
		"found=" + s.OnFound.String(),
		"maybe=" + s.OnMaybe.String(),
		"notfound=" + s.OnNotFound,
	}, ",")
}
