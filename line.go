// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package marked

import "strings"

// cutLine splits s after its first line.
// The line excludes the newline; rest begins after it.
func cutLine(s string) (line, rest string, nl bool) {
	i := strings.IndexByte(s, '\n')
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+1:], true
}

// lineEnd returns the index of the end of the line starting at s[i:],
// not counting the newline.
func lineEnd(s string, i int) int {
	if j := strings.IndexByte(s[i:], '\n'); j >= 0 {
		return i + j
	}
	return len(s)
}

// nextLine returns the index of the start of the line after the one at s[i:].
func nextLine(s string, i int) int {
	if j := strings.IndexByte(s[i:], '\n'); j >= 0 {
		return i + j + 1
	}
	return len(s)
}

// leadingSpaces returns the number of spaces at the start of s.
func leadingSpaces(s string) int {
	i := 0
	for i < len(s) && s[i] == ' ' {
		i++
	}
	return i
}

// indented returns s without up to max leading spaces.
// It reports false if s starts with more than max spaces.
func indented(s string, max int) (string, bool) {
	n := leadingSpaces(s)
	if n > max {
		return s, false
	}
	return s[n:], true
}

// isBlank reports whether s contains only spaces and tabs.
func isBlank(s string) bool {
	return trimLeftSpaceTab(s) == ""
}

func trimLeftSpaceTab(s string) string {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return s[i:]
}

func trimRightSpaceTab(s string) string {
	j := len(s)
	for j > 0 && (s[j-1] == ' ' || s[j-1] == '\t') {
		j--
	}
	return s[:j]
}

func trimSpaceTab(s string) string {
	return trimRightSpaceTab(trimLeftSpaceTab(s))
}

func trimSpaceTabNewline(s string) string {
	return strings.Trim(s, " \t\n")
}

// trimRightNewlines removes trailing newlines from s.
func trimRightNewlines(s string) string {
	return strings.TrimRight(s, "\n")
}

// joinRaw appends a continuation raw string to prev,
// inserting the newline that separated them if prev does not end in one.
func joinRaw(prev, next string) string {
	if prev == "" || strings.HasSuffix(prev, "\n") {
		return prev + next
	}
	return prev + "\n" + next
}

// normalize prepares source text for the block lexer:
// line endings become \n, NUL becomes U+FFFD,
// and leading tabs are expanded to four spaces each.
// In pedantic mode every tab is expanded and blank lines are emptied.
func normalize(src string, pedantic bool) string {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	src = strings.ReplaceAll(src, "\r", "\n")
	src = strings.ReplaceAll(src, "\x00", "�")
	if pedantic {
		return pedanticClean(src)
	}
	if !strings.Contains(src, "\t") {
		return src
	}
	var b strings.Builder
	for src != "" {
		line, rest, nl := cutLine(src)
		i := leadingSpaces(line)
		j := i
		for j < len(line) && line[j] == '\t' {
			j++
		}
		b.WriteString(line[:i])
		b.WriteString(strings.Repeat("    ", j-i))
		b.WriteString(line[j:])
		if nl {
			b.WriteByte('\n')
		}
		src = rest
	}
	return b.String()
}

// pedanticClean expands every tab and empties whitespace-only lines.
func pedanticClean(src string) string {
	src = strings.ReplaceAll(src, "\t", "    ")
	if !strings.Contains(src, " \n") && !strings.HasSuffix(src, " ") {
		return src
	}
	lines := strings.Split(src, "\n")
	for i, l := range lines {
		if leadingSpaces(l) == len(l) {
			lines[i] = ""
		}
	}
	return strings.Join(lines, "\n")
}
