// Package report builds the output tables from a finished batch and renders
// them in formats such as csv, txt, json, xlsx.
package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

const (
	FormatCsv  = "csv"
	FormatTxt  = "txt"
	FormatJson = "json"
	FormatXlsx = "xlsx"
	FormatAll  = "all"
)

var FormatOptions = []string{FormatCsv, FormatTxt, FormatJson, FormatXlsx}

const NoDataFound = "No data found."

// Field represents the values for a field in a table
type Field struct {
	Name   string
	Values []string
}

// TableDefinition defines the structure of a table in the report
type TableDefinition struct {
	Name        string
	FileName    string // base name for the table's standalone csv file
	HasRows     bool   // table is meant to be displayed in row form, i.e., a field may have multiple values
	NoDataFound string // message to display when no data is found
}

// TableValues combines the table definition with the resulting fields and their values
type TableValues struct {
	TableDefinition
	Fields []Field
}

// validateShape makes sure that all fields have the same number of values.
func validateShape(allTableValues []TableValues) error {
	for _, tableValues := range allTableValues {
		numRows := -1
		for _, fieldValues := range tableValues.Fields {
			if numRows == -1 {
				numRows = len(fieldValues.Values)
				continue
			}
			if len(fieldValues.Values) != numRows {
				return fmt.Errorf("table %s: expected %d value(s) for field %s, found %d", tableValues.Name, numRows, fieldValues.Name, len(fieldValues.Values))
			}
		}
	}
	return nil
}

// Create generates a single-payload report in the specified format from the
// provided tables. The csv format is per-table, see WriteReports. If the
// format is not supported, the function panics.
func Create(format string, allTableValues []TableValues) (out []byte, err error) {
	if err = validateShape(allTableValues); err != nil {
		return
	}
	switch format {
	case FormatTxt:
		return createTextReport(allTableValues)
	case FormatJson:
		return createJsonReport(allTableValues)
	case FormatXlsx:
		return createXlsxReport(allTableValues)
	}
	panic(fmt.Sprintf("expected one of %s, got %s", strings.Join(FormatOptions, ", "), format))
}

// WriteReports renders the requested formats into outdir and returns the
// paths written. csv produces one file per table named by the table's
// FileName; the other formats produce a single reportName.<format> file.
// FormatAll expands to every option.
func WriteReports(outdir string, formats []string, reportName string, allTableValues []TableValues) (paths []string, err error) {
	if slices.Contains(formats, FormatAll) {
		formats = FormatOptions
	}
	if err = validateShape(allTableValues); err != nil {
		return
	}
	for _, format := range formats {
		if format == FormatCsv {
			for _, tableValues := range allTableValues {
				var out []byte
				if out, err = createCsvTable(tableValues); err != nil {
					return
				}
				path := filepath.Join(outdir, tableValues.FileName+".csv")
				if err = writeReport(out, path); err != nil {
					return
				}
				paths = append(paths, path)
			}
			continue
		}
		var out []byte
		if out, err = Create(format, allTableValues); err != nil {
			return
		}
		path := filepath.Join(outdir, reportName+"."+format)
		if err = writeReport(out, path); err != nil {
			return
		}
		paths = append(paths, path)
	}
	return
}

// CreateOutputDir creates the output directory if it does not exist
func CreateOutputDir(outputDir string) error {
	err := os.MkdirAll(outputDir, 0755) // #nosec G301
	if err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// writeReport writes the report bytes to the specified path.
func writeReport(reportBytes []byte, reportPath string) error {
	err := os.WriteFile(reportPath, reportBytes, 0644) // #nosec G306
	if err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}
