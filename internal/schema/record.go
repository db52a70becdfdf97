package schema

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// record.go defines the per-file record keyed by the full schema.

import "fmt"

// Record holds the values for one parsed log file, keyed by the full schema
// field names. Every schema field is present from construction on, null
// until set, so record shape never depends on the log dialect. Records are
// write-once during assembly and read-only afterwards.
type Record struct {
	values map[string]Value
}

// NewRecord returns a Record with every schema field initialized to null.
func NewRecord() *Record {
	r := &Record{values: make(map[string]Value, len(FullFieldNames))}
	for _, name := range FullFieldNames {
		r.values[name] = Value{}
	}
	return r
}

// Set stores v under the given schema field. An unknown name is a
// programmer error and panics.
func (r *Record) Set(name string, v Value) {
	if _, ok := r.values[name]; !ok {
		panic(fmt.Sprintf("field not in schema: %s", name))
	}
	r.values[name] = v
}

// Get returns the value stored under the given schema field. An unknown
// name panics.
func (r *Record) Get(name string) Value {
	v, ok := r.values[name]
	if !ok {
		panic(fmt.Sprintf("field not in schema: %s", name))
	}
	return v
}
