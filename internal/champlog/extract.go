package champlog

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// extract.go holds the single-pattern extraction helpers. Every helper
// degrades to a null value; only the ROI anchor's absence is escalated by
// the assembler.

import (
	"regexp"

	"simspect/internal/schema"
)

// lastSubmatch returns the capture groups of the last match of re in text,
// or nil when there is no match. Used for the ROI line, where intermediate
// heartbeat snapshots precede the final summary.
func lastSubmatch(re *regexp.Regexp, text string) []string {
	matches := re.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	return matches[len(matches)-1]
}

// matchInt converts capture group idx of m to an int value. A missing
// match, a missing group, or an empty optional capture is null.
func matchInt(m []string, idx int) schema.Value {
	if idx >= len(m) || m[idx] == "" {
		return schema.NullValue()
	}
	return schema.ParseIntValue(m[idx])
}

// matchFloat converts capture group idx of m to a float value. Missing
// matches and unparseable, NaN, or infinite captures are null.
func matchFloat(m []string, idx int) schema.Value {
	if idx >= len(m) || m[idx] == "" {
		return schema.NullValue()
	}
	return schema.ParseFloatValue(m[idx])
}

// matchValue converts capture group idx of m according to kind.
func matchValue(m []string, idx int, kind schema.Kind) schema.Value {
	if kind == schema.KindFloat {
		return matchFloat(m, idx)
	}
	return matchInt(m, idx)
}
