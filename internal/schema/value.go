package schema

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// value.go defines the nullable scalar stored in record cells.

import (
	"math"
	"strconv"
)

// Kind enumerates the scalar types a record cell can hold.
type Kind int

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindString
)

// Value is one record cell: an int64, a float64, a string, or null. Absence
// is a first-class value so downstream aggregation can never mistake a
// missing counter for a real zero. The zero Value is null.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
}

// NullValue returns the null Value.
func NullValue() Value { return Value{} }

// IntValue returns a Value holding v.
func IntValue(v int64) Value { return Value{kind: KindInt, i: v} }

// FloatValue returns a Value holding v. NaN and ±Inf collapse to null.
func FloatValue(v float64) Value {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Value{}
	}
	return Value{kind: KindFloat, f: v}
}

// StringValue returns a Value holding s.
func StringValue(s string) Value { return Value{kind: KindString, s: s} }

// ParseIntValue converts a decimal string to an int Value, null when s is
// unparseable.
func ParseIntValue(s string) Value {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return Value{}
	}
	return IntValue(v)
}

// ParseFloatValue converts a string to a float Value. Unparseable, NaN, and
// ±Inf inputs are null.
func ParseFloatValue(s string) Value {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}
	}
	return FloatValue(v)
}

// Kind returns the kind of the value.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsInt returns the integer content; ok is false for any other kind.
func (v Value) AsInt() (int64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return v.i, true
}

// AsFloat returns the numeric content as a float64, converting integers;
// ok is false for null and string values.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	default:
		return 0, false
	}
}

// AsString returns the string content; ok is false for any other kind.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}
