package champlog

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// levels.go extracts the fixed per-level field sets for cache and TLB
// levels. Field gating (which dialect/mode combinations may produce a
// field) is decided by the gate function alone, never inline per level.

import "simspect/internal/schema"

// fieldTier classifies level fields by when their patterns may run.
type fieldTier int

const (
	tierAlways  fieldTier = iota // both dialects
	tierDialect                  // wp_capable logs only
	tierMode                     // wp_capable logs with wrong-path mode on
)

// gateAction is the outcome of gating one field before extraction.
type gateAction int

const (
	gateAttempt gateAction = iota
	gateForceNull
)

// gate decides, independent of any pattern text, whether a field of the
// given tier may be extracted under a dialect/mode combination. Mode-tier
// counters are structurally zero or undefined when the wrong-path feature
// is disabled, and a literal 0 would imply the instrumentation ran, so
// they are forced null even when the text contains a matching line.
func gate(dialect Dialect, mode Mode, tier fieldTier) gateAction {
	switch tier {
	case tierAlways:
		return gateAttempt
	case tierDialect:
		if dialect == DialectWPCapable {
			return gateAttempt
		}
	case tierMode:
		if dialect == DialectWPCapable && mode == ModeOn {
			return gateAttempt
		}
	}
	return gateForceNull
}

// extractCacheLevel fills the record's fields for one cache level. The
// returned flag reports a wrong-path statistics line that was expected
// (dialect wp_capable, mode on) and absent while the level itself was
// present in the log.
func extractCacheLevel(text, level string, dialect Dialect, mode Mode, rec *schema.Record) (wpStatsMissing bool) {
	p := cacheLevelPatterns[dialect][level]
	set := func(suffix string, tier fieldTier, v schema.Value) {
		if gate(dialect, mode, tier) == gateForceNull {
			v = schema.NullValue()
		}
		rec.Set(level+"_"+suffix, v)
	}

	load := p.load.FindStringSubmatch(text)
	set("load_access", tierAlways, matchInt(load, 1))
	set("load_hit", tierAlways, matchInt(load, 2))
	set("load_miss", tierAlways, matchInt(load, 3))

	prefetch := p.prefetch.FindStringSubmatch(text)
	set("pf_access", tierAlways, matchInt(prefetch, 1))
	set("pf_hit", tierAlways, matchInt(prefetch, 2))
	set("pf_miss", tierAlways, matchInt(prefetch, 3))

	prefetchReq := p.prefetchReq.FindStringSubmatch(text)
	set("pf_requested", tierAlways, matchInt(prefetchReq, 1))
	set("pf_issued", tierAlways, matchInt(prefetchReq, 2))
	set("pf_useful", tierAlways, matchInt(prefetchReq, 3))
	set("pf_useless", tierAlways, matchInt(prefetchReq, 4))

	missLat := p.missLat.FindStringSubmatch(text)
	set("miss_lat", tierAlways, matchFloat(missLat, 1))

	// wrong-path pattern members are nil for the normal dialect; the gate
	// nulls their fields without a match attempt
	var wrongPath, pollution, dataReq, wpLat, cpLat []string
	if dialect == DialectWPCapable {
		if gate(dialect, mode, tierMode) == gateAttempt {
			wrongPath = p.wrongPath.FindStringSubmatch(text)
		}
		pollution = p.pollution.FindStringSubmatch(text)
		dataReq = p.dataReq.FindStringSubmatch(text)
		wpLat = p.wpMissLat.FindStringSubmatch(text)
		cpLat = p.cpMissLat.FindStringSubmatch(text)
	}

	set("wp_access", tierMode, matchInt(wrongPath, 1))
	set("wp_useful", tierMode, matchInt(wrongPath, 2))
	set("wp_fill", tierMode, matchInt(wrongPath, 3))
	set("wp_useless", tierMode, matchInt(wrongPath, 4))

	set("pollution", tierMode, matchFloat(pollution, 1))
	set("pol_wp_fill", tierMode, matchInt(pollution, 2))
	set("pol_wp_miss", tierMode, matchInt(pollution, 3))
	set("pol_cp_fill", tierDialect, matchInt(pollution, 4))
	set("pol_cp_miss", tierDialect, matchInt(pollution, 5))

	set("data_req", tierDialect, matchInt(dataReq, 1))
	set("data_hit", tierDialect, matchInt(dataReq, 2))
	set("data_miss", tierDialect, matchInt(dataReq, 3))
	set("data_wp_req", tierMode, matchInt(dataReq, 4))
	set("data_wp_hit", tierMode, matchInt(dataReq, 5))
	set("data_wp_miss", tierMode, matchInt(dataReq, 6))

	// per-path latencies are dialect-tier: off-mode does not suppress them
	set("wp_miss_lat", tierDialect, matchFloat(wpLat, 1))
	set("cp_miss_lat", tierDialect, matchFloat(cpLat, 1))

	// load_mpki and wp_useful_pct are filled by the metric calculator

	if gate(dialect, mode, tierMode) == gateAttempt && wrongPath == nil {
		return load != nil || prefetch != nil || prefetchReq != nil || missLat != nil
	}
	return false
}

// extractTLBLevel fills the record's fields for one TLB level. The TLB
// LOAD line carries the level's total access/hit/miss counts. Return flag
// as in extractCacheLevel.
func extractTLBLevel(text, level string, dialect Dialect, mode Mode, rec *schema.Record) (wpStatsMissing bool) {
	p := tlbLevelPatterns[dialect][level]
	set := func(suffix string, tier fieldTier, v schema.Value) {
		if gate(dialect, mode, tier) == gateForceNull {
			v = schema.NullValue()
		}
		rec.Set(level+"_"+suffix, v)
	}

	load := p.load.FindStringSubmatch(text)
	set("access", tierAlways, matchInt(load, 1))
	set("hit", tierAlways, matchInt(load, 2))
	set("miss", tierAlways, matchInt(load, 3))

	missLat := p.missLat.FindStringSubmatch(text)
	set("miss_lat", tierAlways, matchFloat(missLat, 1))

	var wrongPath, wpLat, cpLat []string
	if dialect == DialectWPCapable {
		if gate(dialect, mode, tierMode) == gateAttempt {
			wrongPath = p.wrongPath.FindStringSubmatch(text)
		}
		wpLat = p.wpMissLat.FindStringSubmatch(text)
		cpLat = p.cpMissLat.FindStringSubmatch(text)
	}

	set("wp_access", tierMode, matchInt(wrongPath, 1))
	set("wp_useful", tierMode, matchInt(wrongPath, 2))
	set("wp_useless", tierMode, matchInt(wrongPath, 3))

	set("wp_miss_lat", tierDialect, matchFloat(wpLat, 1))
	set("cp_miss_lat", tierDialect, matchFloat(cpLat, 1))

	// mpki is filled by the metric calculator

	if gate(dialect, mode, tierMode) == gateAttempt && wrongPath == nil {
		return load != nil || missLat != nil
	}
	return false
}
