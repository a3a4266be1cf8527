// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package marked

import (
	"slices"
	"testing"
)

var tableCountTests = []struct {
	row string
	n   int
}{
	{"|", 0},
	{"|x|", 1},
	{"||", 1},
	{"| |", 1},
	{"| | |", 2},
	{"| | Foo | Bar |", 3},
	{"|          | Foo      | Bar      |", 3},
	{"", 0},
	{"|a|b", 2},
	{"|a| ", 1},
	{" |b", 1},
	{"a|b", 2},
	{`x\|y`, 1},
	{`x\\|y`, 2},
	{`x\\\|y`, 1},
	{`x\\\\|y`, 2},
}

func TestTableCount(t *testing.T) {
	for _, tt := range tableCountTests {
		n := len(splitCells(tt.row, 0))
		if n != tt.n {
			t.Errorf("len(splitCells(%#q)) = %d, want %d", tt.row, n, tt.n)
		}
	}
}

func TestSplitCells(t *testing.T) {
	tests := []struct {
		row   string
		count int
		want  []string
	}{
		{"| a | b |", 0, []string{"a", "b"}},
		{`| x\|y | z |`, 0, []string{"x|y", "z"}},
		{"a", 3, []string{"a", "", ""}},
		{"a|b|c|d", 2, []string{"a", "b"}},
	}
	for _, tt := range tests {
		if got := splitCells(tt.row, tt.count); !slices.Equal(got, tt.want) {
			t.Errorf("splitCells(%#q, %d) = %q, want %q", tt.row, tt.count, got, tt.want)
		}
	}
}

func TestTableAligns(t *testing.T) {
	got := tableAligns("|---|:--|--:|:-:|")
	want := []Align{AlignNone, AlignLeft, AlignRight, AlignCenter}
	if !slices.Equal(got, want) {
		t.Errorf("tableAligns = %v, want %v", got, want)
	}
}

func TestIsTableStart(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"a|b\n-|-\n", true},
		{"| a |\n|:-:|\n", true},
		{"a|b\n-\n", false},
		{"a\n|-|-|\n", false},
		{"a|b\n", false},
	}
	for _, tt := range tests {
		if got := isTableStart(tt.in); got != tt.want {
			t.Errorf("isTableStart(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
