// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package database

import (
	"math"
	"testing"
)

// Test assertion helpers with "check" prefix to avoid conflicts with existing helpers.
// Each helper encapsulates common validation patterns.
// Using t.Helper() ensures error messages point to the calling line.

// checkNoError fails the test if err is not nil
func checkNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// checkError fails the test if err is nil
func checkError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// checkStringEqual checks that got equals want
func checkStringEqual(t *testing.T, fieldName, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("%s: expected %q, got %q", fieldName, want, got)
	}
}

// checkStringNotEmpty checks that value is not empty
func checkStringNotEmpty(t *testing.T, fieldName, value string) {
	t.Helper()
	if value == "" {
		t.Errorf("%s should not be empty", fieldName)
	}
}

// checkIntEqual checks that got equals want
func checkIntEqual(t *testing.T, fieldName string, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("%s: expected %d, got %d", fieldName, want, got)
	}
}

// checkInt64Equal checks that got equals want
func checkInt64Equal(t *testing.T, fieldName string, got, want int64) {
	t.Helper()
	if got != want {
		t.Errorf("%s: expected %d, got %d", fieldName, want, got)
	}
}

// checkFloatNear checks that got is within tolerance of want
func checkFloatNear(t *testing.T, fieldName string, got, want, tolerance float64) {
	t.Helper()
	if math.Abs(got-want) > tolerance {
		t.Errorf("%s: expected %v (±%v), got %v", fieldName, want, tolerance, got)
	}
}

// checkSliceLen checks that slice length equals want
func checkSliceLen(t *testing.T, name string, length, want int) {
	t.Helper()
	if length != want {
		t.Errorf("%s: expected %d items, got %d", name, want, length)
	}
}

// checkSliceNotEmpty checks that slice length > 0
func checkSliceNotEmpty(t *testing.T, name string, length int) {
	t.Helper()
	if length == 0 {
		t.Errorf("%s should not be empty", name)
	}
}

// checkSliceEmpty checks that slice length == 0
func checkSliceEmpty(t *testing.T, name string, length int) {
	t.Helper()
	if length != 0 {
		t.Errorf("%s should be empty, got %d items", name, length)
	}
}

// checkSliceMaxLen checks that slice length <= maxLen
func checkSliceMaxLen(t *testing.T, name string, length, maxLen int) {
	t.Helper()
	if length > maxLen {
		t.Errorf("%s: expected at most %d items, got %d", name, maxLen, length)
	}
}

// checkSortedDescending checks that values are sorted in descending order
func checkSortedDescending(t *testing.T, name string, values []int64) {
	t.Helper()
	for i := 1; i < len(values); i++ {
		if values[i-1] < values[i] {
			t.Errorf("%s not sorted descending: value at %d (%d) < value at %d (%d)",
				name, i-1, values[i-1], i, values[i])
			return
		}
	}
}
