// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import "strings"

// parseListLine recognizes the single-line flow sequence `key: [ a, b ]`.
//
// The key and each member may be double-quoted, single-quoted, or bare, with
// arbitrary spaces and tabs around the separators. The key must start at
// column zero; an indented or commented line never matches. Block-style
// lists are unsupported on purpose: anything not expressible on one physical
// line is not this grammar's problem and returns ok=false.
func parseListLine(line, key string) (items []string, ok bool) {
	s := &lineScanner{in: line}

	k, ok := s.token()
	if !ok || k != key {
		return nil, false
	}
	s.ws()
	if !s.eat(':') {
		return nil, false
	}
	s.ws()
	if !s.eat('[') {
		return nil, false
	}
	s.ws()

	items = []string{}
	if s.eat(']') {
		s.ws()
		return items, s.done()
	}

	for {
		item, ok := s.token()
		if !ok {
			return nil, false
		}
		items = append(items, item)
		s.ws()
		switch {
		case s.eat(','):
			s.ws()
		case s.eat(']'):
			s.ws()
			if !s.done() {
				return nil, false
			}
			return items, true
		default:
			return nil, false
		}
	}
}

type lineScanner struct {
	in  string
	pos int
}

func (s *lineScanner) done() bool {
	return s.pos >= len(s.in)
}

func (s *lineScanner) eat(c byte) bool {
	if s.done() || s.in[s.pos] != c {
		return false
	}
	s.pos++
	return true
}

// ws consumes horizontal whitespace, tabs included.
func (s *lineScanner) ws() {
	for !s.done() && (s.in[s.pos] == ' ' || s.in[s.pos] == '\t') {
		s.pos++
	}
}

// token reads one quoted or bare word. Quoted words carry no escapes; bare
// words run until a separator or whitespace.
func (s *lineScanner) token() (string, bool) {
	if s.done() {
		return "", false
	}

	if q := s.in[s.pos]; q == '"' || q == '\'' {
		end := strings.IndexByte(s.in[s.pos+1:], q)
		if end < 0 {
			return "", false
		}
		tok := s.in[s.pos+1 : s.pos+1+end]
		s.pos += end + 2
		return tok, true
	}

	start := s.pos
	for !s.done() {
		switch s.in[s.pos] {
		case ' ', '\t', ',', ':', '[', ']', '"', '\'':
			goto out
		}
		s.pos++
	}
out:
	if s.pos == start {
		return "", false
	}
	return s.in[start:s.pos], true
}
