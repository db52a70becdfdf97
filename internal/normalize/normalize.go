// Package normalize computes per-benchmark IPC ratios against a baseline
// configuration and geometric-mean summary rows across benchmarks.
package normalize

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"math"
	"sort"

	"simspect/internal/schema"
	"simspect/internal/util"
)

// GeomeanBench is the pseudo-benchmark name carried by the per-config
// geometric-mean rows appended after the real benchmarks.
const GeomeanBench = "__geomean__"

// Row is one normalized-IPC output row. Ratio is null when the benchmark's
// IPC under that config was null or zero.
type Row struct {
	Bench  string
	Config string
	Ratio  schema.Value
}

// ColumnName names the ratio column for a given baseline config.
func ColumnName(baseline string) string {
	return "ipc_norm_vs_" + baseline
}

// Normalize builds the normalized-IPC table from parsed records. Benchmarks
// without a positive baseline IPC are dropped entirely. The baseline config
// itself is kept as a 1.0 row. Rows are ordered by benchmark, then config,
// with the geomean rows last.
func Normalize(records []*schema.Record, baseline string) []Row {
	byBench := make(map[string]map[string]schema.Value)
	for _, rec := range records {
		bench, _ := rec.Get("bench").AsString()
		config, _ := rec.Get("config").AsString()
		if _, ok := byBench[bench]; !ok {
			byBench[bench] = make(map[string]schema.Value)
		}
		byBench[bench][config] = rec.Get("ipc")
	}

	benches := make([]string, 0, len(byBench))
	for bench := range byBench {
		benches = append(benches, bench)
	}
	sort.Strings(benches)

	var rows []Row
	ratios := make(map[string][]float64)
	for _, bench := range benches {
		configs := byBench[bench]
		base, ok := configs[baseline].AsFloat()
		if !ok || base <= 0 {
			continue
		}
		names := make([]string, 0, len(configs))
		for name := range configs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, config := range names {
			ratio := schema.NullValue()
			if val, ok := configs[config].AsFloat(); ok && val != 0 {
				ratio = schema.FloatValue(val / base)
			}
			rows = append(rows, Row{Bench: bench, Config: config, Ratio: ratio})
			if config != baseline && !ratio.IsNull() {
				r, _ := ratio.AsFloat()
				ratios[config] = append(ratios[config], r)
			}
		}
	}

	configs := make([]string, 0, len(ratios))
	for config := range ratios {
		configs = append(configs, config)
	}
	sort.Strings(configs)
	for _, config := range configs {
		rows = append(rows, Row{Bench: GeomeanBench, Config: config, Ratio: geomean(ratios[config])})
	}
	return rows
}

// geomean returns the geometric mean of the positive finite values in vals,
// or null when none remain after filtering.
func geomean(vals []float64) schema.Value {
	finite := make([]float64, 0, len(vals))
	for _, v := range vals {
		if v > 0 && !math.IsInf(v, 1) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return schema.NullValue()
	}
	return schema.FloatValue(util.GeoMean(finite))
}
