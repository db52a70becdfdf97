package champlog

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// parse.go is the record assembler: it drives detection, the group
// extractors, the per-level extractors, and the derived-metric pass, and
// emits one schema-complete record per file or a ParseError.

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"simspect/internal/metric"
	"simspect/internal/schema"

	mapset "github.com/deckarep/golang-set/v2"
)

// warningList accumulates warning tags in first-occurrence order without
// duplicates.
type warningList struct {
	seen mapset.Set[string]
	tags []string
}

func newWarningList() *warningList {
	return &warningList{seen: mapset.NewSet[string]()}
}

func (w *warningList) add(tag string) {
	if w.seen.Add(tag) {
		w.tags = append(w.tags, tag)
	}
}

func (w *warningList) joined() string {
	return strings.Join(w.tags, "|")
}

// Parse converts one log's text into a record. It returns a *ParseError
// when the file cannot be represented at all: unrecognizable dialect or a
// missing ROI anchor. Every other absence degrades to null cells, possibly
// with a warning tag in parse_warnings.
func Parse(text string, ident Identity) (*schema.Record, error) {
	dialect, mode, ok := Detect(text)
	if !ok {
		return nil, &ParseError{Code: ErrorUnknownFormat, Detail: fmt.Sprintf("no recognizable format signature in %s", ident.File)}
	}
	slog.Debug("detected log dialect", slog.String("file", ident.File), slog.String("dialect", dialect.String()), slog.String("mode", mode.String()))

	// the ROI summary is the one required anchor; heartbeat snapshots share
	// its grammar, so only the last match is the completed run
	roi := lastSubmatch(roiRe, text)
	if roi == nil {
		return nil, &ParseError{Code: ErrorMissingROI, Detail: fmt.Sprintf("no ROI line in %s", ident.File)}
	}

	rec := schema.NewRecord()
	rec.Set("bench", schema.StringValue(ident.Bench))
	rec.Set("config", schema.StringValue(ident.Config))
	rec.Set("file", schema.StringValue(ident.File))
	rec.Set("log_format", schema.StringValue(dialect.String()))
	if mode != ModeAbsent {
		rec.Set("wp_mode", schema.StringValue(mode.String()))
	}

	warnings := newWarningList()

	rec.Set("ipc", matchFloat(roi, 1))
	rec.Set("inst", matchInt(roi, 2))
	rec.Set("cycles", matchInt(roi, 3))
	wpCycles := matchInt(roi, 4)
	rec.Set("wp_cycles", wpCycles)
	if dialect == DialectWPCapable && wpCycles.IsNull() {
		warnings.add(WarningMissingWPCycles)
	}

	m := wpInstsRe.FindStringSubmatch(text)
	rec.Set("wp_insts_total", matchInt(m, 1))
	rec.Set("wp_insts_skipped", matchInt(m, 2))
	rec.Set("wp_insts_executed", matchInt(m, 3))

	m = footprintRe.FindStringSubmatch(text)
	rec.Set("instr_footprint", matchInt(m, 1))
	rec.Set("data_footprint", matchInt(m, 2))

	m = isPrefetchRe.FindStringSubmatch(text)
	rec.Set("is_prefetch_insts", matchInt(m, 1))
	rec.Set("is_prefetch_skipped", matchInt(m, 2))

	m = branchSummaryRe.FindStringSubmatch(text)
	rec.Set("branch_acc_percent", matchFloat(m, 1))
	rec.Set("branch_mpki", matchFloat(m, 2))
	for _, fp := range branchTypePatterns {
		rec.Set(fp.field, matchValue(fp.re.FindStringSubmatch(text), 1, fp.kind))
	}

	// only the wp_capable grammar prints the pipeline group; the fields
	// stay null for normal logs
	if dialect == DialectWPCapable {
		for _, fp := range pipelinePatterns {
			rec.Set(fp.field, matchValue(fp.re.FindStringSubmatch(text), 1, fp.kind))
		}
	}

	for _, level := range schema.CacheLevels {
		if extractCacheLevel(text, level, dialect, mode, rec) {
			warnings.add(WarningMissingWPStats)
		}
	}
	for _, level := range schema.TLBLevels {
		if extractTLBLevel(text, level, dialect, mode, rec) {
			warnings.add(WarningMissingWPStats)
		}
	}

	m = dramRe.FindStringSubmatch(text)
	rec.Set("dram_rq_row_hit", matchInt(m, 1))
	rec.Set("dram_rq_row_miss", matchInt(m, 2))

	metric.Apply(rec)

	if len(warnings.tags) > 0 {
		slog.Debug("parse warnings", slog.String("file", ident.File), slog.String("warnings", warnings.joined()))
	}
	rec.Set("parse_warnings", schema.StringValue(warnings.joined()))
	return rec, nil
}

// ParseFile reads one log file and parses it. Bytes that do not form valid
// UTF-8 are dropped rather than failing the read; an unreadable file is the
// unreadable_file hard error.
func ParseFile(path string, ident Identity) (*schema.Record, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Code: ErrorUnreadableFile, Detail: err.Error()}
	}
	return Parse(strings.ToValidUTF8(string(content), ""), ident)
}
