package normalize

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"simspect/internal/schema"
)

func makeRecord(bench, config string, ipc schema.Value) *schema.Record {
	rec := schema.NewRecord()
	rec.Set("bench", schema.StringValue(bench))
	rec.Set("config", schema.StringValue(config))
	rec.Set("ipc", ipc)
	return rec
}

func ratioOf(t *testing.T, row Row) float64 {
	t.Helper()
	f, ok := row.Ratio.AsFloat()
	if !ok {
		t.Fatalf("row %s/%s has null ratio", row.Bench, row.Config)
	}
	return f
}

func TestNormalizeBasic(t *testing.T) {
	records := []*schema.Record{
		makeRecord("alpha", "latest", schema.FloatValue(1.0)),
		makeRecord("alpha", "foo", schema.FloatValue(1.2)),
		makeRecord("beta", "latest", schema.FloatValue(2.0)),
		makeRecord("beta", "foo", schema.FloatValue(1.6)),
	}
	rows := Normalize(records, "latest")
	assert.Len(t, rows, 5)

	assert.Equal(t, "alpha", rows[0].Bench)
	assert.Equal(t, "foo", rows[0].Config)
	assert.InDelta(t, 1.2, ratioOf(t, rows[0]), 1e-12)

	assert.Equal(t, "latest", rows[1].Config)
	assert.InDelta(t, 1.0, ratioOf(t, rows[1]), 1e-12)

	assert.Equal(t, "beta", rows[2].Bench)
	assert.InDelta(t, 0.8, ratioOf(t, rows[2]), 1e-12)
	assert.InDelta(t, 1.0, ratioOf(t, rows[3]), 1e-12)

	assert.Equal(t, GeomeanBench, rows[4].Bench)
	assert.Equal(t, "foo", rows[4].Config)
	assert.InDelta(t, math.Sqrt(1.2*0.8), ratioOf(t, rows[4]), 1e-12)
}

func TestNormalizeSkipsBenchWithoutBaseline(t *testing.T) {
	records := []*schema.Record{
		makeRecord("alpha", "latest", schema.FloatValue(1.0)),
		makeRecord("alpha", "foo", schema.FloatValue(1.5)),
		makeRecord("orphan", "foo", schema.FloatValue(2.0)),
	}
	rows := Normalize(records, "latest")
	for _, row := range rows {
		assert.NotEqual(t, "orphan", row.Bench)
	}
	assert.Len(t, rows, 3)
}

func TestNormalizeSkipsNonPositiveBaseline(t *testing.T) {
	records := []*schema.Record{
		makeRecord("alpha", "latest", schema.FloatValue(0)),
		makeRecord("alpha", "foo", schema.FloatValue(1.5)),
		makeRecord("beta", "latest", schema.NullValue()),
		makeRecord("beta", "foo", schema.FloatValue(1.5)),
	}
	rows := Normalize(records, "latest")
	assert.Empty(t, rows)
}

func TestNormalizeNullNumerator(t *testing.T) {
	records := []*schema.Record{
		makeRecord("alpha", "latest", schema.FloatValue(1.0)),
		makeRecord("alpha", "foo", schema.NullValue()),
		makeRecord("alpha", "bar", schema.FloatValue(0)),
	}
	rows := Normalize(records, "latest")
	assert.Len(t, rows, 3)
	assert.Equal(t, "bar", rows[0].Config)
	assert.True(t, rows[0].Ratio.IsNull())
	assert.Equal(t, "foo", rows[1].Config)
	assert.True(t, rows[1].Ratio.IsNull())
	// null ratios contribute no geomean row
	assert.Equal(t, "latest", rows[2].Config)
}

func TestNormalizeLastRecordWins(t *testing.T) {
	records := []*schema.Record{
		makeRecord("alpha", "latest", schema.FloatValue(1.0)),
		makeRecord("alpha", "foo", schema.FloatValue(9.0)),
		makeRecord("alpha", "foo", schema.FloatValue(2.0)),
	}
	rows := Normalize(records, "latest")
	assert.Equal(t, "foo", rows[0].Config)
	assert.InDelta(t, 2.0, ratioOf(t, rows[0]), 1e-12)
}

func TestNormalizeEmpty(t *testing.T) {
	assert.Empty(t, Normalize(nil, "latest"))
}

func TestGeomean(t *testing.T) {
	v, ok := geomean([]float64{2, 8}).AsFloat()
	assert.True(t, ok)
	assert.InDelta(t, 4.0, v, 1e-12)

	// non-positive and infinite values are filtered before averaging
	v, ok = geomean([]float64{2, 8, -3, 0, math.Inf(1)}).AsFloat()
	assert.True(t, ok)
	assert.InDelta(t, 4.0, v, 1e-12)

	assert.True(t, geomean(nil).IsNull())
	assert.True(t, geomean([]float64{-1, 0}).IsNull())
}

func TestColumnName(t *testing.T) {
	assert.Equal(t, "ipc_norm_vs_latest", ColumnName("latest"))
}
