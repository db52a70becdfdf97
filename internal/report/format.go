package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// format.go renders record values as report cell strings.

import (
	"fmt"
	"strconv"
	"strings"

	"simspect/internal/schema"
)

// FormatValue renders one cell. Null values become empty cells. Float
// precision is driven by the field name suffix: latency fields carry four
// significant figures, MPKI fields four decimals, percentage fields two,
// and ipc six. Integers and strings pass through verbatim.
func FormatValue(fieldName string, v schema.Value) string {
	if v.IsNull() {
		return ""
	}
	if i, ok := v.AsInt(); ok {
		return strconv.FormatInt(i, 10)
	}
	if s, ok := v.AsString(); ok {
		return s
	}
	f, _ := v.AsFloat()
	switch {
	case strings.HasSuffix(fieldName, "_lat"):
		return fmt.Sprintf("%.4g", f)
	case strings.HasSuffix(fieldName, "_mpki"):
		return fmt.Sprintf("%.4f", f)
	case strings.HasSuffix(fieldName, "_percent"), strings.HasSuffix(fieldName, "_pct"):
		return fmt.Sprintf("%.2f", f)
	case fieldName == "ipc":
		return fmt.Sprintf("%.6f", f)
	}
	return fmt.Sprintf("%.4f", f)
}
