package champlog

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"simspect/internal/schema"
)

const normalLog = `WARNING: simulator warmed up
CPU 0 cumulative IPC: 0.8 instructions: 800000 cycles: 1000000
Branch Prediction Accuracy: 97.5% MPKI: 1.234
BRANCH_DIRECT_JUMP: 0.1
BRANCH_INDIRECT: 0.2
BRANCH_CONDITIONAL: 0.3
BRANCH_DIRECT_CALL: 0.05
BRANCH_INDIRECT_CALL: 0.02
BRANCH_RETURN: 0.07
cpu0->cpu0_L1D LOAD ACCESS: 300000 HIT: 280000 MISS: 20000
cpu0->cpu0_L1D PREFETCH ACCESS: 5000 HIT: 4000 MISS: 1000
cpu0->cpu0_L1D PREFETCH REQUESTED: 6000 ISSUED: 5500 USEFUL: 2000 USELESS: 500
cpu0->cpu0_L1D AVERAGE MISS LATENCY: 21.5 cycles
cpu0->LLC LOAD ACCESS: 9000 HIT: 8000 MISS: 1000
cpu0->LLC PREFETCH ACCESS: 700 HIT: 600 MISS: 100
cpu0->LLC PREFETCH REQUESTED: 800 ISSUED: 750 USEFUL: 300 USELESS: 50
cpu0->LLC AVERAGE MISS LATENCY: 150.25 cycles
cpu0->cpu0_DTLB LOAD ACCESS: 50000 HIT: 49900 MISS: 100
cpu0->cpu0_DTLB AVERAGE MISS LATENCY: 9.5 cycles
CPU 0 cumulative IPC: 0.5 instructions: 1000000 cycles: 2000000
Channel 0 RQ ROW_BUFFER_HIT: 500
  ROW_BUFFER_MISS: 1500
`

const wpLog = `Wrong path enabled
CPU 0 cumulative IPC: 0.8 instructions: 800000 cycles: 1000000 wp_cycles: 90000
CPU 0 cumulative IPC: 0.45 instructions: 900000 cycles: 2000000 wp_cycles: 150000
wrong_path_insts: 50000 wrong_path_insts_skipped: 20000 wrong_path_insts_executed: 30000
instr_foot_print: 1234 data_foot_print: 5678
is_prefetch_insts: 400 is_prefetch_skipped: 100
Branch Prediction Accuracy: 95.25% MPKI: 2.5
BRANCH_DIRECT_JUMP: 0.5
BRANCH_INDIRECT: 0.25
BRANCH_CONDITIONAL: 1.5
BRANCH_DIRECT_CALL: 0.125
BRANCH_INDIRECT_CALL: 0.0625
BRANCH_RETURN: 0.0625
Execute Only WP Cycles 1000
Execute Only CP Cycles 2000
Execute CP WP Cycles 3000
ROB Full Cycles 400
ROB Empty Cycles 500
ROB Full Events 60
ROB Empty Events 70
Resteer Events 80
Resteer Penalty 1.25%
WP Not Available Count 90 Cycles 100 (0.75%)
cpu0_L1D LOAD ACCESS: 300000 HIT: 280000 MISS: 20000
cpu0_L1D PREFETCH ACCESS: 5000 HIT: 4000 MISS: 1000
cpu0_L1D PREFETCH REQUESTED: 6000 ISSUED: 5500 USEFUL: 2000 USELESS: 500
cpu0_L1D WRONG-PATH ACCESS: 1000 LOAD: 800 USEFULL: 250 FILL: 100 USELESS: 50
cpu0_L1D POLLUTION: 0.125 WP_FILL: 10 WP_MISS: 20 CP_FILL: 30 CP_MISS: 40
cpu0_L1D DATA REQ: 111 HIT: 100 MISS: 11 WP_REQ: 22 WP_HIT: 20 WP_MISS: 2
cpu0_L1D AVERAGE DATA MISS LATENCY: 21.5 cycles
cpu0_L1D AVERAGE WP DATA MISS LATENCY: 33.25 cycles
cpu0_L1D AVERAGE CP DATA MISS LATENCY: 19.75 cycles
LLC LOAD ACCESS: 9000 HIT: 8000 MISS: 1000
LLC PREFETCH ACCESS: 700 HIT: 600 MISS: 100
LLC PREFETCH REQUESTED: 800 ISSUED: 750 USEFUL: 300 USELESS: 50
LLC WRONG-PATH ACCESS: 400 LOAD: 300 USEFULL: 100 FILL: 60 USELESS: 20
LLC POLLUTION: 0.0625 WP_FILL: 5 WP_MISS: 10 CP_FILL: 15 CP_MISS: 20
LLC DATA REQ: 55 HIT: 50 MISS: 5 WP_REQ: 11 WP_HIT: 10 WP_MISS: 1
LLC AVERAGE DATA MISS LATENCY: 150.25 cycles
LLC AVERAGE WP DATA MISS LATENCY: 180.5 cycles
LLC AVERAGE CP DATA MISS LATENCY: 140.75 cycles
cpu0_DTLB LOAD ACCESS: 50000 HIT: 49900 MISS: 100
cpu0_DTLB WRONG-PATH ACCESS: 40 LOAD: 30 USEFULL: 10 FILL: 5 USELESS: 2
cpu0_DTLB AVERAGE DATA MISS LATENCY: 9.5 cycles
cpu0_DTLB AVERAGE WP DATA MISS LATENCY: 12.5 cycles
cpu0_DTLB AVERAGE CP DATA MISS LATENCY: 8.5 cycles
Channel 0 RQ ROW_BUFFER_HIT: 500
  ROW_BUFFER_MISS: 1500
`

var testIdent = Identity{Bench: "gcc", Config: "latest", File: "gcc_test.txt"}

func mustInt(t *testing.T, v schema.Value, field string) int64 {
	t.Helper()
	i, ok := v.AsInt()
	if !ok {
		t.Fatalf("%s is not an int value", field)
	}
	return i
}

func mustFloat(t *testing.T, v schema.Value, field string) float64 {
	t.Helper()
	f, ok := v.AsFloat()
	if !ok {
		t.Fatalf("%s is not a numeric value", field)
	}
	return f
}

func mustString(t *testing.T, v schema.Value, field string) string {
	t.Helper()
	s, ok := v.AsString()
	if !ok {
		t.Fatalf("%s is not a string value", field)
	}
	return s
}

func TestParseNormalLog(t *testing.T) {
	rec, err := Parse(normalLog, testIdent)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if got := mustString(t, rec.Get("log_format"), "log_format"); got != "normal" {
		t.Errorf("log_format = %q", got)
	}
	if !rec.Get("wp_mode").IsNull() {
		t.Error("wp_mode not null for the normal dialect")
	}
	if got := mustString(t, rec.Get("bench"), "bench"); got != "gcc" {
		t.Errorf("bench = %q", got)
	}
	if got := mustString(t, rec.Get("parse_warnings"), "parse_warnings"); got != "" {
		t.Errorf("parse_warnings = %q, want empty", got)
	}

	// last ROI line wins over the earlier snapshot
	if got := mustFloat(t, rec.Get("ipc"), "ipc"); got != 0.5 {
		t.Errorf("ipc = %f, want 0.5", got)
	}
	if got := mustInt(t, rec.Get("inst"), "inst"); got != 1000000 {
		t.Errorf("inst = %d", got)
	}
	if got := mustInt(t, rec.Get("cycles"), "cycles"); got != 2000000 {
		t.Errorf("cycles = %d", got)
	}
	if !rec.Get("wp_cycles").IsNull() {
		t.Error("wp_cycles not null for the normal dialect")
	}

	if got := mustFloat(t, rec.Get("branch_acc_percent"), "branch_acc_percent"); got != 97.5 {
		t.Errorf("branch_acc_percent = %f", got)
	}
	if got := mustFloat(t, rec.Get("br_return_mpki"), "br_return_mpki"); got != 0.07 {
		t.Errorf("br_return_mpki = %f", got)
	}

	if got := mustInt(t, rec.Get("l1d_load_miss"), "l1d_load_miss"); got != 20000 {
		t.Errorf("l1d_load_miss = %d", got)
	}
	if got := mustFloat(t, rec.Get("l1d_load_mpki"), "l1d_load_mpki"); got != 20.0 {
		t.Errorf("l1d_load_mpki = %f, want 20.0", got)
	}
	if got := mustFloat(t, rec.Get("llc_miss_lat"), "llc_miss_lat"); got != 150.25 {
		t.Errorf("llc_miss_lat = %f", got)
	}
	if got := mustInt(t, rec.Get("dtlb_miss"), "dtlb_miss"); got != 100 {
		t.Errorf("dtlb_miss = %d", got)
	}
	if got := mustFloat(t, rec.Get("dtlb_mpki"), "dtlb_mpki"); got != 0.1 {
		t.Errorf("dtlb_mpki = %f, want 0.1", got)
	}

	// wrong-path and pipeline figures do not exist in this dialect
	for _, name := range []string{
		"llc_wp_access", "llc_pollution", "llc_pol_cp_miss", "llc_data_req",
		"llc_wp_miss_lat", "llc_cp_miss_lat", "l1d_wp_useful_pct",
		"exec_only_wp_cycles", "resteer_penalty_pct", "wp_insts_total",
	} {
		if !rec.Get(name).IsNull() {
			t.Errorf("%s not null for the normal dialect", name)
		}
	}

	if got := mustInt(t, rec.Get("dram_rq_row_hit"), "dram_rq_row_hit"); got != 500 {
		t.Errorf("dram_rq_row_hit = %d", got)
	}
	if got := mustInt(t, rec.Get("dram_rq_row_miss"), "dram_rq_row_miss"); got != 1500 {
		t.Errorf("dram_rq_row_miss = %d", got)
	}
}

func TestParseWPLogModeOn(t *testing.T) {
	rec, err := Parse(wpLog, testIdent)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if got := mustString(t, rec.Get("log_format"), "log_format"); got != "wp_capable" {
		t.Errorf("log_format = %q", got)
	}
	if got := mustString(t, rec.Get("wp_mode"), "wp_mode"); got != "on" {
		t.Errorf("wp_mode = %q", got)
	}
	if got := mustString(t, rec.Get("parse_warnings"), "parse_warnings"); got != "" {
		t.Errorf("parse_warnings = %q, want empty", got)
	}

	if got := mustFloat(t, rec.Get("ipc"), "ipc"); got != 0.45 {
		t.Errorf("ipc = %f, want 0.45", got)
	}
	if got := mustInt(t, rec.Get("wp_cycles"), "wp_cycles"); got != 150000 {
		t.Errorf("wp_cycles = %d, want 150000", got)
	}
	if got := mustInt(t, rec.Get("wp_insts_total"), "wp_insts_total"); got != 50000 {
		t.Errorf("wp_insts_total = %d", got)
	}
	if got := mustInt(t, rec.Get("instr_footprint"), "instr_footprint"); got != 1234 {
		t.Errorf("instr_footprint = %d", got)
	}
	if got := mustInt(t, rec.Get("is_prefetch_skipped"), "is_prefetch_skipped"); got != 100 {
		t.Errorf("is_prefetch_skipped = %d", got)
	}

	if got := mustInt(t, rec.Get("exec_cp_wp_cycles"), "exec_cp_wp_cycles"); got != 3000 {
		t.Errorf("exec_cp_wp_cycles = %d", got)
	}
	if got := mustFloat(t, rec.Get("resteer_penalty_pct"), "resteer_penalty_pct"); got != 1.25 {
		t.Errorf("resteer_penalty_pct = %f", got)
	}
	if got := mustFloat(t, rec.Get("wp_not_avail_cycles_pct"), "wp_not_avail_cycles_pct"); got != 0.75 {
		t.Errorf("wp_not_avail_cycles_pct = %f", got)
	}

	if got := mustInt(t, rec.Get("l1d_wp_access"), "l1d_wp_access"); got != 1000 {
		t.Errorf("l1d_wp_access = %d", got)
	}
	if got := mustInt(t, rec.Get("l1d_wp_useful"), "l1d_wp_useful"); got != 250 {
		t.Errorf("l1d_wp_useful = %d", got)
	}
	if got := mustFloat(t, rec.Get("l1d_wp_useful_pct"), "l1d_wp_useful_pct"); got != 25.0 {
		t.Errorf("l1d_wp_useful_pct = %f, want 25.0", got)
	}
	if got := mustFloat(t, rec.Get("l1d_pollution"), "l1d_pollution"); got != 0.125 {
		t.Errorf("l1d_pollution = %f", got)
	}
	if got := mustInt(t, rec.Get("l1d_data_wp_hit"), "l1d_data_wp_hit"); got != 20 {
		t.Errorf("l1d_data_wp_hit = %d", got)
	}
	if got := mustFloat(t, rec.Get("llc_wp_miss_lat"), "llc_wp_miss_lat"); got != 180.5 {
		t.Errorf("llc_wp_miss_lat = %f", got)
	}
	if got := mustInt(t, rec.Get("llc_pol_cp_miss"), "llc_pol_cp_miss"); got != 20 {
		t.Errorf("llc_pol_cp_miss = %d", got)
	}
	if got := mustInt(t, rec.Get("dtlb_wp_access"), "dtlb_wp_access"); got != 40 {
		t.Errorf("dtlb_wp_access = %d", got)
	}

	// levels absent from the log stay null without warnings
	if !rec.Get("l2c_load_access").IsNull() {
		t.Error("l2c_load_access not null for an absent level")
	}
	if !rec.Get("itlb_access").IsNull() {
		t.Error("itlb_access not null for an absent level")
	}
}

func TestParseWPLogModeOff(t *testing.T) {
	text := strings.Replace(wpLog, "Wrong path enabled\n", "", 1)
	rec, err := Parse(text, testIdent)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if got := mustString(t, rec.Get("wp_mode"), "wp_mode"); got != "off" {
		t.Errorf("wp_mode = %q", got)
	}

	// wrong-path activity is suppressed even though the lines matched
	for _, name := range []string{
		"l1d_wp_access", "l1d_wp_useful", "l1d_wp_fill", "l1d_wp_useless",
		"l1d_wp_useful_pct", "l1d_pollution", "l1d_pol_wp_fill", "l1d_pol_wp_miss",
		"l1d_data_wp_req", "l1d_data_wp_hit", "l1d_data_wp_miss",
		"llc_wp_access", "dtlb_wp_access", "dtlb_wp_useful", "dtlb_wp_useless",
	} {
		if !rec.Get(name).IsNull() {
			t.Errorf("%s not suppressed in off mode", name)
		}
	}

	// correct-path and latency figures survive the suppression
	if got := mustInt(t, rec.Get("l1d_pol_cp_fill"), "l1d_pol_cp_fill"); got != 30 {
		t.Errorf("l1d_pol_cp_fill = %d", got)
	}
	if got := mustInt(t, rec.Get("l1d_data_req"), "l1d_data_req"); got != 111 {
		t.Errorf("l1d_data_req = %d", got)
	}
	if got := mustFloat(t, rec.Get("l1d_wp_miss_lat"), "l1d_wp_miss_lat"); got != 33.25 {
		t.Errorf("l1d_wp_miss_lat = %f", got)
	}
	if got := mustFloat(t, rec.Get("l1d_cp_miss_lat"), "l1d_cp_miss_lat"); got != 19.75 {
		t.Errorf("l1d_cp_miss_lat = %f", got)
	}
	// wp_cycles comes from the ROI line, not the level stats
	if got := mustInt(t, rec.Get("wp_cycles"), "wp_cycles"); got != 150000 {
		t.Errorf("wp_cycles = %d", got)
	}
	if got := mustString(t, rec.Get("parse_warnings"), "parse_warnings"); got != "" {
		t.Errorf("parse_warnings = %q, want empty", got)
	}
}

func TestParseMissingWPCyclesWarning(t *testing.T) {
	text := "LLC WRONG-PATH ACCESS: 0 LOAD: 0 USEFULL: 0 FILL: 0 USELESS: 0\n" +
		"CPU 0 cumulative IPC: 0.5 instructions: 1000000 cycles: 2000000\n"
	rec, err := Parse(text, testIdent)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if !rec.Get("wp_cycles").IsNull() {
		t.Error("wp_cycles not null")
	}
	warnings := mustString(t, rec.Get("parse_warnings"), "parse_warnings")
	if !strings.Contains(warnings, WarningMissingWPCycles) {
		t.Errorf("parse_warnings = %q, want %s", warnings, WarningMissingWPCycles)
	}
}

func TestParseMissingWPStatsWarning(t *testing.T) {
	// drop two wrong-path lines; the warning is tagged once
	text := strings.Replace(wpLog, "LLC WRONG-PATH ACCESS: 400 LOAD: 300 USEFULL: 100 FILL: 60 USELESS: 20\n", "", 1)
	text = strings.Replace(text, "cpu0_DTLB WRONG-PATH ACCESS: 40 LOAD: 30 USEFULL: 10 FILL: 5 USELESS: 2\n", "", 1)
	rec, err := Parse(text, testIdent)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	warnings := mustString(t, rec.Get("parse_warnings"), "parse_warnings")
	if warnings != WarningMissingWPStats {
		t.Errorf("parse_warnings = %q, want exactly one %s", warnings, WarningMissingWPStats)
	}
	if !rec.Get("llc_wp_access").IsNull() {
		t.Error("llc_wp_access not null after dropped wrong-path line")
	}
	// the intact level is unaffected
	if got := mustInt(t, rec.Get("l1d_wp_access"), "l1d_wp_access"); got != 1000 {
		t.Errorf("l1d_wp_access = %d", got)
	}
}

func TestParseUnknownFormat(t *testing.T) {
	_, err := Parse("not a simulator log at all\n", testIdent)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Parse() error = %v, want *ParseError", err)
	}
	if perr.Code != ErrorUnknownFormat {
		t.Errorf("Code = %q, want %q", perr.Code, ErrorUnknownFormat)
	}
}

func TestParseMissingROI(t *testing.T) {
	_, err := Parse("cpu0->cpu0_L1D LOAD ACCESS: 1 HIT: 1 MISS: 0\n", testIdent)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Parse() error = %v, want *ParseError", err)
	}
	if perr.Code != ErrorMissingROI {
		t.Errorf("Code = %q, want %q", perr.Code, ErrorMissingROI)
	}
}

func TestParseSchemaShapeInvariant(t *testing.T) {
	for _, text := range []string{normalLog, wpLog} {
		rec, err := Parse(text, testIdent)
		if err != nil {
			t.Fatalf("Parse() error: %v", err)
		}
		// Get panics on any missing field, so a full sweep proves shape
		for _, name := range schema.FullFieldNames {
			rec.Get(name)
		}
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gcc_test.txt")
	if err := os.WriteFile(path, []byte(normalLog), 0o644); err != nil {
		t.Fatal(err)
	}
	rec, err := ParseFile(path, testIdent)
	if err != nil {
		t.Fatalf("ParseFile() error: %v", err)
	}
	if got := mustFloat(t, rec.Get("ipc"), "ipc"); got != 0.5 {
		t.Errorf("ipc = %f", got)
	}
}

func TestParseFileUnreadable(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "missing.txt"), testIdent)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("ParseFile() error = %v, want *ParseError", err)
	}
	if perr.Code != ErrorUnreadableFile {
		t.Errorf("Code = %q, want %q", perr.Code, ErrorUnreadableFile)
	}
}

func TestParseFileDropsInvalidUTF8(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mixed.txt")
	content := append([]byte{0xff, 0xfe}, []byte(normalLog)...)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	rec, err := ParseFile(path, testIdent)
	if err != nil {
		t.Fatalf("ParseFile() error: %v", err)
	}
	if got := mustInt(t, rec.Get("inst"), "inst"); got != 1000000 {
		t.Errorf("inst = %d", got)
	}
}
