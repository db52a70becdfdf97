package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// builders.go assembles the output tables from batch results.

import (
	"simspect/internal/normalize"
	"simspect/internal/schema"
)

const (
	FullMetricsTableName = "Full Metrics"
	SummaryTableName     = "Summary"
	ParseErrorsTableName = "Parse Errors"
	NormalizedTableName  = "Normalized IPC"
	RecordTableName      = "Record"
)

// ErrorRow is one failed input file in the parse error table.
type ErrorRow struct {
	File   string
	Bench  string
	Config string
	Code   string
	Detail string
}

// FullMetricsTable builds the wide table carrying every schema field per
// parsed record.
func FullMetricsTable(records []*schema.Record) TableValues {
	return recordsTable(FullMetricsTableName, "full_metrics", schema.FullFieldNames, records)
}

// SummaryTable builds the narrow table carrying the comparison subset.
func SummaryTable(records []*schema.Record) TableValues {
	return recordsTable(SummaryTableName, "summary", schema.SummaryFieldNames, records)
}

func recordsTable(name, fileName string, fieldNames []string, records []*schema.Record) TableValues {
	fields := make([]Field, 0, len(fieldNames))
	for _, fieldName := range fieldNames {
		values := make([]string, 0, len(records))
		for _, rec := range records {
			values = append(values, FormatValue(fieldName, rec.Get(fieldName)))
		}
		fields = append(fields, Field{Name: fieldName, Values: values})
	}
	return TableValues{
		TableDefinition: TableDefinition{Name: name, FileName: fileName, HasRows: true},
		Fields:          fields,
	}
}

// ErrorsTable builds the parse error table, one row per failed file.
func ErrorsTable(rows []ErrorRow) TableValues {
	fields := []Field{
		{Name: "file"}, {Name: "bench"}, {Name: "config"}, {Name: "error_code"}, {Name: "detail"},
	}
	for _, row := range rows {
		fields[0].Values = append(fields[0].Values, row.File)
		fields[1].Values = append(fields[1].Values, row.Bench)
		fields[2].Values = append(fields[2].Values, row.Config)
		fields[3].Values = append(fields[3].Values, row.Code)
		fields[4].Values = append(fields[4].Values, row.Detail)
	}
	return TableValues{
		TableDefinition: TableDefinition{
			Name: ParseErrorsTableName, FileName: "parse_errors", HasRows: true,
			NoDataFound: "No parse errors.",
		},
		Fields: fields,
	}
}

// RecordTable builds a name/value table holding every schema field of a
// single record, null cells rendered empty.
func RecordTable(rec *schema.Record) TableValues {
	fields := make([]Field, 0, len(schema.FullFieldNames))
	for _, fieldName := range schema.FullFieldNames {
		fields = append(fields, Field{Name: fieldName, Values: []string{FormatValue(fieldName, rec.Get(fieldName))}})
	}
	return TableValues{
		TableDefinition: TableDefinition{Name: RecordTableName, FileName: "record"},
		Fields:          fields,
	}
}

// NormalizedTable builds the normalized-IPC table. The ratio column is named
// after the baseline so the header records what the ratios are against.
func NormalizedTable(rows []normalize.Row, baseline string) TableValues {
	ratioName := normalize.ColumnName(baseline)
	fields := []Field{
		{Name: "bench"}, {Name: "config"}, {Name: ratioName},
	}
	for _, row := range rows {
		fields[0].Values = append(fields[0].Values, row.Bench)
		fields[1].Values = append(fields[1].Values, row.Config)
		fields[2].Values = append(fields[2].Values, FormatValue(ratioName, row.Ratio))
	}
	return TableValues{
		TableDefinition: TableDefinition{Name: NormalizedTableName, FileName: "normalized_ipc", HasRows: true},
		Fields:          fields,
	}
}
