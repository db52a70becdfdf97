package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import "encoding/json"

// createJsonReport marshals the tables into one JSON document keyed by table
// name. Row-form tables become arrays of records; name/value tables become a
// single flat object so an inspected record reads as one object.
func createJsonReport(allTableValues []TableValues) (out []byte, err error) {
	oReport := make(map[string]any)
	for _, tableValues := range allTableValues {
		if !tableValues.HasRows {
			oRecord := make(map[string]string, len(tableValues.Fields))
			for _, field := range tableValues.Fields {
				var value string
				if len(field.Values) > 0 {
					value = field.Values[0]
				}
				oRecord[field.Name] = value
			}
			oReport[tableValues.Name] = oRecord
			continue
		}
		oTable := []map[string]string{}
		numRecords := 0
		if len(tableValues.Fields) > 0 {
			numRecords = len(tableValues.Fields[0].Values)
		}
		for recordIdx := 0; recordIdx < numRecords; recordIdx++ {
			oRecord := make(map[string]string, len(tableValues.Fields))
			for _, field := range tableValues.Fields {
				oRecord[field.Name] = field.Values[recordIdx]
			}
			oTable = append(oTable, oRecord)
		}
		oReport[tableValues.Name] = oTable
	}
	return json.MarshalIndent(oReport, "", " ")
}
