// Package schema defines the versioned output field lists and the nullable
// cell value type shared by the parsing, metric, and reporting layers.
package schema

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
)

// Version identifies the record schema. Bump it when field names, order, or
// count change, and update the expected counts below in the same change.
const Version = 1

// Cache and TLB level identifiers, in extraction and column order.
var (
	CacheLevels = []string{"l1d", "l1i", "l2c", "llc"}
	TLBLevels   = []string{"dtlb", "itlb", "stlb"}
)

// Per-level column suffixes. Full column names are "<level>_<suffix>".
var (
	cacheFieldSuffixes = []string{
		"load_access", "load_hit", "load_miss", "load_mpki",
		"pf_access", "pf_hit", "pf_miss",
		"pf_requested", "pf_issued", "pf_useful", "pf_useless",
		"wp_access", "wp_useful", "wp_fill", "wp_useless", "wp_useful_pct",
		"pollution", "pol_wp_fill", "pol_wp_miss", "pol_cp_fill", "pol_cp_miss",
		"data_req", "data_hit", "data_miss", "data_wp_req", "data_wp_hit", "data_wp_miss",
		"miss_lat", "wp_miss_lat", "cp_miss_lat",
	}
	tlbFieldSuffixes = []string{
		"access", "hit", "miss", "mpki",
		"wp_access", "wp_useful", "wp_useless",
		"miss_lat", "wp_miss_lat", "cp_miss_lat",
	}
)

const (
	expectedFullFields    = 187
	expectedSummaryFields = 21
)

// FullFieldNames is the complete ordered column list for one record. The
// same list applies to every log dialect; fields a dialect or mode cannot
// produce are present and null.
var FullFieldNames = buildFullFieldNames()

// SummaryFieldNames is the short column list for the summary report, a
// strict subset of FullFieldNames in its own presentation order.
var SummaryFieldNames = []string{
	"bench", "config", "log_format", "wp_mode", "parse_warnings",
	"cycles", "wp_cycles", "inst", "ipc",
	"branch_mpki",
	"llc_load_miss", "llc_load_mpki", "llc_miss_lat",
	"llc_pf_useful", "llc_pf_useless",
	"llc_wp_access", "llc_wp_useful",
	"llc_pol_cp_miss",
	"l2c_pf_useful", "l2c_pf_useless",
	"l2c_pollution",
}

// ErrorFieldNames is the column list for the parse error report.
var ErrorFieldNames = []string{"file", "bench", "config", "error_code", "detail"}

func buildFullFieldNames() []string {
	names := make([]string, 0, expectedFullFields)
	// identity and classification
	names = append(names,
		"bench", "config", "file", "log_format", "wp_mode", "parse_warnings")
	// ROI and wrong-path instruction counters
	names = append(names,
		"cycles", "inst", "ipc", "wp_cycles",
		"wp_insts_total", "wp_insts_skipped", "wp_insts_executed",
		"instr_footprint", "data_footprint", "is_prefetch_insts", "is_prefetch_skipped")
	// branch predictor
	names = append(names,
		"branch_acc_percent", "branch_mpki",
		"br_direct_jump_mpki", "br_indirect_mpki", "br_conditional_mpki",
		"br_direct_call_mpki", "br_indirect_call_mpki", "br_return_mpki")
	// pipeline, ROB, resteer
	names = append(names,
		"exec_only_wp_cycles", "exec_only_cp_cycles", "exec_cp_wp_cycles",
		"rob_full_cycles", "rob_empty_cycles", "rob_full_events", "rob_empty_events",
		"resteer_events", "resteer_penalty_pct", "wp_not_avail_cycles_pct")
	for _, level := range CacheLevels {
		for _, suffix := range cacheFieldSuffixes {
			names = append(names, level+"_"+suffix)
		}
	}
	for _, level := range TLBLevels {
		for _, suffix := range tlbFieldSuffixes {
			names = append(names, level+"_"+suffix)
		}
	}
	names = append(names, "dram_rq_row_hit", "dram_rq_row_miss")
	return names
}

func init() {
	if len(FullFieldNames) != expectedFullFields {
		panic(fmt.Sprintf("full schema has %d fields, expected %d", len(FullFieldNames), expectedFullFields))
	}
	if len(SummaryFieldNames) != expectedSummaryFields {
		panic(fmt.Sprintf("summary schema has %d fields, expected %d", len(SummaryFieldNames), expectedSummaryFields))
	}
	full := mapset.NewSet(FullFieldNames...)
	if full.Cardinality() != len(FullFieldNames) {
		panic("full schema contains a duplicate field name")
	}
	summary := mapset.NewSet(SummaryFieldNames...)
	if summary.Cardinality() != len(SummaryFieldNames) {
		panic("summary schema contains a duplicate field name")
	}
	if !summary.IsSubset(full) {
		panic(fmt.Sprintf("summary fields missing from full schema: %v", summary.Difference(full).ToSlice()))
	}
}
