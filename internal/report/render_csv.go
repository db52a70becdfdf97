package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"bytes"
	"encoding/csv"
)

func createCsvTable(tableValues TableValues) (out []byte, err error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := make([]string, 0, len(tableValues.Fields))
	for _, field := range tableValues.Fields {
		header = append(header, field.Name)
	}
	if err = w.Write(header); err != nil {
		return
	}
	if len(tableValues.Fields) > 0 {
		numRows := len(tableValues.Fields[0].Values)
		for row := 0; row < numRows; row++ {
			record := make([]string, 0, len(tableValues.Fields))
			for _, field := range tableValues.Fields {
				record = append(record, field.Values[row])
			}
			if err = w.Write(record); err != nil {
				return
			}
		}
	}
	w.Flush()
	if err = w.Error(); err != nil {
		return
	}
	out = buf.Bytes()
	return
}
