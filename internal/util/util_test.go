package util

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	exists, err := FileExists(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Error("expected file to exist")
	}

	exists, err = FileExists(filepath.Join(dir, "missing.txt"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists {
		t.Error("expected file to not exist")
	}

	// a directory is not a file
	if _, err = FileExists(dir); err == nil {
		t.Error("expected error for directory path")
	}
}

func TestDirectoryExists(t *testing.T) {
	dir := t.TempDir()

	exists, err := DirectoryExists(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Error("expected directory to exist")
	}

	exists, err = DirectoryExists(filepath.Join(dir, "missing"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists {
		t.Error("expected directory to not exist")
	}

	path := filepath.Join(dir, "run.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err = DirectoryExists(path); err == nil {
		t.Error("expected error for file path")
	}
}

func TestIsValidDirectoryName(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{"summary_out", true},
		{"runs/2025-08", true},
		{"./out", true},
		{"out dir", false},
		{"", false},
		{"out$", false},
	}

	for _, test := range tests {
		result := IsValidDirectoryName(test.name)
		if result != test.expected {
			t.Errorf("expected %v, got %v for directory name %s", test.expected, result, test.name)
		}
	}
}

func TestGeoMean(t *testing.T) {
	tests := []struct {
		vals     []float64
		expected float64
	}{
		{[]float64{4, 4, 4}, 4},
		{[]float64{2, 8}, 4},
		{[]float64{1.05, 0.95, 1.10}, 1.031419},
		{[]float64{1}, 1},
	}

	for _, test := range tests {
		result := GeoMean(test.vals)
		if math.Abs(result-test.expected) > 0.0001 {
			t.Errorf("expected %f, got %f for values %v", test.expected, result, test.vals)
		}
	}
}

func TestUniqueAppend(t *testing.T) {
	list := []string{"a.txt", "b.txt"}
	list = UniqueAppend(list, "a.txt")
	if len(list) != 2 {
		t.Errorf("expected 2 items, got %d", len(list))
	}
	list = UniqueAppend(list, "c.txt")
	if len(list) != 3 {
		t.Errorf("expected 3 items, got %d", len(list))
	}
}
