// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package marked

import "strings"

func isTableSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\v' || c == '\f'
}

func tableTrimSpace(s string) string {
	i := 0
	for i < len(s) && isTableSpace(s[i]) {
		i++
	}
	j := len(s)
	for j > i && isTableSpace(s[j-1]) {
		j--
	}
	return s[i:j]
}

// tableTrimOuter removes the surrounding space and the leading and trailing pipes of row.
func tableTrimOuter(row string) string {
	row = tableTrimSpace(row)
	if len(row) > 0 && row[0] == '|' {
		row = row[1:]
	}
	if len(row) > 0 && row[len(row)-1] == '|' {
		row = row[:len(row)-1]
	}
	return row
}

// tableHead splits the first two lines of s into a table header and delimiter row,
// reporting whether they start a table: the delimiter row must contain
// a pipe or colon and have as many columns as the header.
func tableHead(s string) (hdr, delim string, ok bool) {
	hdr, rest, nl := cutLine(s)
	if !nl || strings.TrimLeft(hdr, " ") == "" {
		return "", "", false
	}
	delim, _, _ = cutLine(rest)
	if !strings.ContainsAny(delim, "|:") || !tableDelimRE.MatchString(delim) {
		return "", "", false
	}
	if len(splitCells(hdr, 0)) != len(tableAligns(delim)) {
		return "", "", false
	}
	return hdr, delim, true
}

// isTableStart reports whether s begins with a table header and delimiter row.
func isTableStart(s string) bool {
	_, _, ok := tableHead(s)
	return ok
}

// lexTable is the "table" block rule of GitHub Flavored Markdown.
// Body rows run until a blank line or the start of another block.
// Rows with too many cells are truncated; short rows are padded.
//
// See https://github.github.com/gfm/#tables-extension-.
func lexTable(lx *Lexer, src string) Token {
	hdr, delim, ok := tableHead(src)
	if !ok {
		return nil
	}
	end := nextLine(src, nextLine(src, 0))
	var rows []string
	for end < len(src) {
		line := src[end:lineEnd(src, end)]
		if endsTable(line) {
			break
		}
		rows = append(rows, line)
		end = nextLine(src, end)
	}
	for end < len(src) && src[end] == '\n' {
		end++
	}

	t := &Table{Raw: src[:end], Align: tableAligns(delim)}
	for i, text := range splitCells(hdr, 0) {
		cell := &TableCell{Text: text, Header: true, Align: t.Align[i]}
		lx.Inline(cell.Text, &cell.Tokens)
		t.Header = append(t.Header, cell)
	}
	for _, row := range rows {
		var cells []*TableCell
		for i, text := range splitCells(row, len(t.Header)) {
			cell := &TableCell{Text: text, Align: t.Align[i]}
			lx.Inline(cell.Text, &cell.Tokens)
			cells = append(cells, cell)
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

// endsTable reports whether line ends the body of a table.
func endsTable(line string) bool {
	if isBlank(line) || hrRE.MatchString(line) || strings.HasPrefix(line, "    ") {
		return true
	}
	if t, ok := indented(line, 3); ok && strings.HasPrefix(t, ">") {
		return true
	}
	if _, _, _, ok := trimFence(line); ok {
		return true
	}
	return headingStartRE.MatchString(line) ||
		listStartRE.MatchString(line) ||
		htmlStartRE.MatchString(line)
}

// tableAligns returns the column alignments of a delimiter row.
func tableAligns(delim string) []Align {
	var aligns []Align
	for _, cell := range strings.Split(tableTrimOuter(delim), "|") {
		cell = tableTrimSpace(cell)
		l := strings.HasPrefix(cell, ":")
		r := len(cell) > 1 && strings.HasSuffix(cell, ":")
		switch {
		case l && r:
			aligns = append(aligns, AlignCenter)
		case l:
			aligns = append(aligns, AlignLeft)
		case r:
			aligns = append(aligns, AlignRight)
		default:
			aligns = append(aligns, AlignNone)
		}
	}
	return aligns
}

// splitCells splits a table row into trimmed cells.
// A pipe preceded by an odd number of backslashes is part of the cell
// and loses its backslash. Empty leading and trailing cells are dropped.
// If count > 0, the result has exactly count cells.
func splitCells(row string, count int) []string {
	var cells []string
	start := 0
	backslashes := 0
	for i := 0; i < len(row); i++ {
		switch row[i] {
		case '\\':
			backslashes++
			continue
		case '|':
			if backslashes%2 == 0 {
				cells = append(cells, row[start:i])
				start = i + 1
			}
		}
		backslashes = 0
	}
	cells = append(cells, row[start:])

	if len(cells) > 0 && strings.TrimSpace(cells[0]) == "" {
		cells = cells[1:]
	}
	if len(cells) > 0 && strings.TrimSpace(cells[len(cells)-1]) == "" {
		cells = cells[:len(cells)-1]
	}
	if count > 0 {
		if len(cells) > count {
			// Extra cells are discarded!
			cells = cells[:count]
		}
		for len(cells) < count {
			// Missing cells are considered empty.
			cells = append(cells, "")
		}
	}
	for i, cell := range cells {
		cells[i] = tableUnescape(strings.TrimSpace(cell))
	}
	return cells
}

// tableUnescape rewrites escaped pipes in a cell to plain pipes.
func tableUnescape(text string) string {
	if !strings.Contains(text, `\|`) {
		return text
	}
	return strings.ReplaceAll(text, `\|`, "|")
}
