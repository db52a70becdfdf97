// Package metric computes the derived ratio metrics appended to every
// record: per-level miss-per-kilo-instruction rates and wrong-path fill
// usefulness percentages. Metrics are defined as expressions over record
// fields and evaluated with govaluate.
package metric

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"log/slog"
	"math"

	"simspect/internal/schema"

	"github.com/casbin/govaluate"
)

// Definition binds a target record field to the expression that computes
// it. Expressions reference other record fields in [brackets].
type Definition struct {
	Name       string
	Expression string
	Variables  []string
	Evaluable  *govaluate.EvaluableExpression // parsed once at init, reused per record
}

var definitions = buildDefinitions()

// buildDefinitions expands the per-level metric templates into one
// definition per (level, metric) pair and compiles the expressions.
// Built-in expressions are code, so a parse failure is a panic.
func buildDefinitions() []Definition {
	var defs []Definition
	for _, level := range schema.CacheLevels {
		defs = append(defs,
			Definition{
				Name:       level + "_load_mpki",
				Expression: fmt.Sprintf("[%s_load_miss] * 1000 / [inst]", level),
			},
			Definition{
				Name:       level + "_wp_useful_pct",
				Expression: fmt.Sprintf("[%s_wp_useful] * 100 / [%s_wp_access]", level, level),
			})
	}
	for _, level := range schema.TLBLevels {
		defs = append(defs, Definition{
			Name:       level + "_mpki",
			Expression: fmt.Sprintf("[%s_miss] * 1000 / [inst]", level),
		})
	}
	for i := range defs {
		evaluable, err := govaluate.NewEvaluableExpression(defs[i].Expression)
		if err != nil {
			panic(fmt.Sprintf("malformed metric expression for %s: %v", defs[i].Name, err))
		}
		defs[i].Evaluable = evaluable
		defs[i].Variables = evaluable.Vars()
	}
	return defs
}

// Apply fills every derived metric field of the record. A metric whose
// operands are null, or whose evaluation fails or produces a non-finite
// result, is null. Division guards fall out of the non-finite rule: a zero
// instruction or access count divides to ±Inf or NaN. Suppressed wrong-path
// counters are null, so metrics derived from them stay null with no special
// casing.
func Apply(rec *schema.Record) {
	for _, def := range definitions {
		rec.Set(def.Name, evaluate(def, rec))
	}
}

func evaluate(def Definition, rec *schema.Record) schema.Value {
	variables := make(map[string]any, len(def.Variables))
	for _, name := range def.Variables {
		operand, ok := rec.Get(name).AsFloat()
		if !ok {
			return schema.NullValue()
		}
		variables[name] = operand
	}
	result, err := evaluateExpression(def, variables)
	if err != nil {
		slog.Debug("failed to evaluate metric expression", slog.String("metric", def.Name), slog.String("error", err.Error()))
		return schema.NullValue()
	}
	value, ok := result.(float64)
	if !ok {
		return schema.NullValue()
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return schema.NullValue()
	}
	return schema.FloatValue(value)
}

// evaluateExpression calls the evaluator behind a recover so panics from
// the expression library surface as errors.
func evaluateExpression(def Definition, variables map[string]any) (result any, err error) {
	defer func() {
		if errx := recover(); errx != nil {
			err = fmt.Errorf("%v : %s : %s", errx, def.Name, def.Expression)
		}
	}()
	if result, err = def.Evaluable.Evaluate(variables); err != nil {
		err = fmt.Errorf("%v : %s : %s", err, def.Name, def.Expression)
	}
	return
}
