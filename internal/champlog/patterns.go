package champlog

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// patterns.go holds every compiled line pattern: the dialect signatures,
// the whole-file single-occurrence groups, and the per-level pattern sets
// built from (prefix, suffix) concatenation.

import (
	"regexp"

	"simspect/internal/schema"
)

var (
	// Dialect signatures, anchored to line start. The wp_capable signature
	// is any per-level WRONG-PATH statistics line, printed by that build
	// even when the feature is off.
	wpSignatureRe     = regexp.MustCompile(`(?m)^(?:cpu0_\w+|LLC) WRONG-PATH\s+ACCESS:`)
	normalSignatureRe = regexp.MustCompile(`(?m)^cpu0->cpu0_`)
	wpModeRe          = regexp.MustCompile(`Wrong path enabled`)

	// ROI summary. Periodic heartbeat lines share this grammar, so the
	// extractor takes the last match. The wp_cycles suffix appears only in
	// wp_capable logs.
	roiRe = regexp.MustCompile(`CPU\s+\d+\s+cumulative IPC:\s*([\d.]+)\s+instructions:\s*(\d+)\s+cycles:\s*(\d+)(?:\s+wp_cycles:\s*(\d+))?`)

	branchSummaryRe = regexp.MustCompile(`Branch Prediction Accuracy:\s*([\d.]+)%\s*MPKI:\s*([\d.]+)`)
	wpInstsRe       = regexp.MustCompile(`wrong_path_insts:\s*(\d+)\s+wrong_path_insts_skipped:\s*(\d+)\s+wrong_path_insts_executed:\s*(\d+)`)
	footprintRe     = regexp.MustCompile(`instr_foot_print:\s*(\d+)\s+data_foot_print:\s*(\d+)`)
	isPrefetchRe    = regexp.MustCompile(`is_prefetch_insts:\s*(\d+)\s+is_prefetch_skipped:\s*(\d+)`)

	// ROW_BUFFER_MISS is printed on the following indented line; \s+
	// crosses the newline.
	dramRe = regexp.MustCompile(`Channel 0 RQ ROW_BUFFER_HIT:\s*(\d+)\s+ROW_BUFFER_MISS:\s*(\d+)`)
)

// fieldPattern binds one single-capture pattern to its record field.
type fieldPattern struct {
	field string
	re    *regexp.Regexp
	kind  schema.Kind
}

// Per-type branch MPKI lines, both dialects.
var branchTypePatterns = []fieldPattern{
	{"br_direct_jump_mpki", regexp.MustCompile(`BRANCH_DIRECT_JUMP:\s*([\d.]+)`), schema.KindFloat},
	{"br_indirect_mpki", regexp.MustCompile(`BRANCH_INDIRECT:\s*([\d.]+)`), schema.KindFloat},
	{"br_conditional_mpki", regexp.MustCompile(`BRANCH_CONDITIONAL:\s*([\d.]+)`), schema.KindFloat},
	{"br_direct_call_mpki", regexp.MustCompile(`BRANCH_DIRECT_CALL:\s*([\d.]+)`), schema.KindFloat},
	{"br_indirect_call_mpki", regexp.MustCompile(`BRANCH_INDIRECT_CALL:\s*([\d.]+)`), schema.KindFloat},
	{"br_return_mpki", regexp.MustCompile(`BRANCH_RETURN:\s*([\d.]+)`), schema.KindFloat},
}

// Pipeline, ROB, and resteer lines. Only the wp_capable grammar prints
// these, independent of whether the feature is on.
var pipelinePatterns = []fieldPattern{
	{"exec_only_wp_cycles", regexp.MustCompile(`Execute Only WP Cycles\s+(\d+)`), schema.KindInt},
	{"exec_only_cp_cycles", regexp.MustCompile(`Execute Only CP Cycles\s+(\d+)`), schema.KindInt},
	{"exec_cp_wp_cycles", regexp.MustCompile(`Execute CP WP Cycles\s+(\d+)`), schema.KindInt},
	{"rob_full_cycles", regexp.MustCompile(`ROB Full Cycles\s+(\d+)`), schema.KindInt},
	{"rob_empty_cycles", regexp.MustCompile(`ROB Empty Cycles\s+(\d+)`), schema.KindInt},
	{"rob_full_events", regexp.MustCompile(`ROB Full Events\s+(\d+)`), schema.KindInt},
	{"rob_empty_events", regexp.MustCompile(`ROB Empty Events\s+(\d+)`), schema.KindInt},
	{"resteer_events", regexp.MustCompile(`Resteer Events\s+(\d+)`), schema.KindInt},
	{"resteer_penalty_pct", regexp.MustCompile(`Resteer Penalty\s+([\d.]+)%`), schema.KindFloat},
	{"wp_not_avail_cycles_pct", regexp.MustCompile(`WP Not Available Count\s+\d+\s+Cycles\s+\d+\s+\(([\d.]+)%\)`), schema.KindFloat},
}

// Per-level suffix patterns. A full pattern is the level's line prefix plus
// one of these, anchored to line start.
const (
	loadSuffix        = `LOAD\s+ACCESS:\s*(\d+)\s+HIT:\s*(\d+)\s+MISS:\s*(\d+)`
	prefetchSuffix    = `PREFETCH\s+ACCESS:\s*(\d+)\s+HIT:\s*(\d+)\s+MISS:\s*(\d+)`
	prefetchReqSuffix = `PREFETCH REQUESTED:\s*(\d+)\s+ISSUED:\s*(\d+)\s+USEFUL:\s*(\d+)\s+USELESS:\s*(\d+)`
	// the normal dialect prints one latency line, the wp_capable dialect
	// a data-path one plus per-path variants
	missLatNormalSuffix = `AVERAGE MISS LATENCY:\s*([\S]+) cycles`
	missLatWPSuffix     = `AVERAGE DATA MISS LATENCY:\s*([\S]+) cycles`
	wpMissLatSuffix     = `AVERAGE WP DATA MISS LATENCY:\s*([\S]+) cycles`
	cpMissLatSuffix     = `AVERAGE CP DATA MISS LATENCY:\s*([\S]+) cycles`
	// USEFULL spelling is the simulator's own
	cacheWrongPathSuffix = `WRONG-PATH ACCESS:\s*(\d+)\s+LOAD:\s*\d+\s+USEFULL:\s*(\d+)\s+FILL:\s*(\d+)\s+USELESS:\s*(\d+)`
	tlbWrongPathSuffix   = `WRONG-PATH ACCESS:\s*(\d+)\s+LOAD:\s*\d+\s+USEFULL:\s*(\d+)\s+FILL:\s*\d+\s+USELESS:\s*(\d+)`
	pollutionSuffix      = `POLLUTION:\s*([\S]+)\s+WP_FILL:\s*(\d+)\s+WP_MISS:\s*(\d+)\s+CP_FILL:\s*(\d+)\s+CP_MISS:\s*(\d+)`
	dataReqSuffix        = `DATA REQ:\s*(\d+)\s+HIT:\s*(\d+)\s+MISS:\s*(\d+)\s+WP_REQ:\s*(\d+)\s+WP_HIT:\s*(\d+)\s+WP_MISS:\s*(\d+)`
)

// Level line prefixes per dialect: hierarchical names in normal logs, flat
// names in wp_capable logs.
var (
	cachePrefixes = map[Dialect]map[string]string{
		DialectNormal: {
			"l1d": "cpu0->cpu0_L1D", "l1i": "cpu0->cpu0_L1I",
			"l2c": "cpu0->cpu0_L2C", "llc": "cpu0->LLC",
		},
		DialectWPCapable: {
			"l1d": "cpu0_L1D", "l1i": "cpu0_L1I",
			"l2c": "cpu0_L2C", "llc": "LLC",
		},
	}
	tlbPrefixes = map[Dialect]map[string]string{
		DialectNormal: {
			"dtlb": "cpu0->cpu0_DTLB", "itlb": "cpu0->cpu0_ITLB", "stlb": "cpu0->cpu0_STLB",
		},
		DialectWPCapable: {
			"dtlb": "cpu0_DTLB", "itlb": "cpu0_ITLB", "stlb": "cpu0_STLB",
		},
	}
)

// cachePatterns is the compiled pattern set for one (cache level, dialect)
// pair. Wrong-path members are nil for the normal dialect.
type cachePatterns struct {
	load        *regexp.Regexp
	prefetch    *regexp.Regexp
	prefetchReq *regexp.Regexp
	missLat     *regexp.Regexp
	wrongPath   *regexp.Regexp
	pollution   *regexp.Regexp
	dataReq     *regexp.Regexp
	wpMissLat   *regexp.Regexp
	cpMissLat   *regexp.Regexp
}

// tlbPatterns is the compiled pattern set for one (TLB level, dialect)
// pair. The TLB LOAD line doubles as its total access/hit/miss source.
type tlbPatterns struct {
	load      *regexp.Regexp
	missLat   *regexp.Regexp
	wrongPath *regexp.Regexp
	wpMissLat *regexp.Regexp
	cpMissLat *regexp.Regexp
}

var (
	cacheLevelPatterns = map[Dialect]map[string]*cachePatterns{}
	tlbLevelPatterns   = map[Dialect]map[string]*tlbPatterns{}
)

// levelPattern compiles prefix + " " + suffix anchored to line start.
func levelPattern(prefix, suffix string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(prefix) + ` ` + suffix)
}

func init() {
	for _, dialect := range []Dialect{DialectNormal, DialectWPCapable} {
		cacheLevelPatterns[dialect] = make(map[string]*cachePatterns, len(schema.CacheLevels))
		for _, level := range schema.CacheLevels {
			prefix := cachePrefixes[dialect][level]
			p := &cachePatterns{
				load:        levelPattern(prefix, loadSuffix),
				prefetch:    levelPattern(prefix, prefetchSuffix),
				prefetchReq: levelPattern(prefix, prefetchReqSuffix),
			}
			if dialect == DialectWPCapable {
				p.missLat = levelPattern(prefix, missLatWPSuffix)
				p.wrongPath = levelPattern(prefix, cacheWrongPathSuffix)
				p.pollution = levelPattern(prefix, pollutionSuffix)
				p.dataReq = levelPattern(prefix, dataReqSuffix)
				p.wpMissLat = levelPattern(prefix, wpMissLatSuffix)
				p.cpMissLat = levelPattern(prefix, cpMissLatSuffix)
			} else {
				p.missLat = levelPattern(prefix, missLatNormalSuffix)
			}
			cacheLevelPatterns[dialect][level] = p
		}
		tlbLevelPatterns[dialect] = make(map[string]*tlbPatterns, len(schema.TLBLevels))
		for _, level := range schema.TLBLevels {
			prefix := tlbPrefixes[dialect][level]
			p := &tlbPatterns{
				load: levelPattern(prefix, loadSuffix),
			}
			if dialect == DialectWPCapable {
				p.missLat = levelPattern(prefix, missLatWPSuffix)
				p.wrongPath = levelPattern(prefix, tlbWrongPathSuffix)
				p.wpMissLat = levelPattern(prefix, wpMissLatSuffix)
				p.cpMissLat = levelPattern(prefix, cpMissLatSuffix)
			} else {
				p.missLat = levelPattern(prefix, missLatNormalSuffix)
			}
			tlbLevelPatterns[dialect][level] = p
		}
	}
}
