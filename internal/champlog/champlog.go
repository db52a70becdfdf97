// Package champlog converts the free-text output of ChampSim simulator runs
// into schema-stable records. It recognizes the two log dialects emitted by
// different simulator builds, detects whether wrong-path instrumentation
// was active, extracts every counter the schema names, and degrades to null
// cells instead of failing when individual lines are absent or malformed.
package champlog

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import "fmt"

// Dialect identifies the log line grammar a simulator build emits.
type Dialect int

const (
	DialectUnknown Dialect = iota
	DialectNormal
	DialectWPCapable
)

func (d Dialect) String() string {
	switch d {
	case DialectNormal:
		return "normal"
	case DialectWPCapable:
		return "wp_capable"
	default:
		return "unknown"
	}
}

// Mode reports whether wrong-path instrumentation was active during a run.
// It is meaningful only for the wp_capable dialect; normal-dialect logs
// carry ModeAbsent.
type Mode int

const (
	ModeAbsent Mode = iota
	ModeOff
	ModeOn
)

func (m Mode) String() string {
	switch m {
	case ModeOff:
		return "off"
	case ModeOn:
		return "on"
	default:
		return ""
	}
}

// Identity carries the caller-derived labels for one log file. The parser
// copies them into the record and never derives them from log content.
type Identity struct {
	Bench  string
	Config string
	File   string
}

// Error codes for hard per-file failures.
const (
	ErrorUnreadableFile = "unreadable_file"
	ErrorUnknownFormat  = "unknown_format"
	ErrorMissingROI     = "missing_roi"
)

// Warning tags for soft, structurally unexpected absences.
const (
	WarningMissingWPCycles = "missing_wp_cycles"
	WarningMissingWPStats  = "missing_wp_stats"
)

// ParseError is a hard failure that excludes one file from the record set.
// The batch continues with the remaining files.
type ParseError struct {
	Code   string
	Detail string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Detail)
}

// Detect classifies a log's dialect and, for wp_capable logs, the
// instrumentation mode. The wp_capable signature is checked first because a
// wp_capable log may incidentally contain text resembling the normal
// dialect's hierarchical cache-naming prefix; first match wins. ok is false
// when neither signature is found, in which case the caller must treat the
// file as an unknown_format hard error. Detection is stateless and total
// over any input string.
func Detect(text string) (dialect Dialect, mode Mode, ok bool) {
	switch {
	case wpSignatureRe.MatchString(text):
		if wpModeRe.MatchString(text) {
			return DialectWPCapable, ModeOn, true
		}
		return DialectWPCapable, ModeOff, true
	case normalSignatureRe.MatchString(text):
		return DialectNormal, ModeAbsent, true
	default:
		return DialectUnknown, ModeAbsent, false
	}
}
