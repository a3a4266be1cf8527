// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package marked

import (
	"strconv"
	"strings"
)

var taskPrefix = []string{"[ ] ", "[x] ", "[X] "}

// lexList is the "list" block rule.
//
// Items continue while lines are indented at least as far as the item's
// content, plus lazy paragraph continuation lines. A list ends at a
// different bullet type, a thematic break, or a line too shallow to
// continue the last item. The list is loose if any item is followed by a
// blank line before the next one or contains blank lines between its blocks.
//
// See https://spec.commonmark.org/0.31.2/#lists.
func lexList(lx *Lexer, src string) Token {
	first, ok := listMarker(src, lx.g.pedantic)
	if !ok {
		return nil
	}
	bullet := strings.TrimLeft(first, " ")
	list := &List{Ordered: len(bullet) > 1}
	if list.Ordered {
		list.Start, _ = strconv.Atoi(bullet[:len(bullet)-1])
	}

	pos := 0
	endsWithBlank := false
	for pos < len(src) {
		marker, ok := listMarker(src[pos:], lx.g.pedantic)
		if !ok || !sameBullet(marker, first, lx.g.pedantic) || hrRE.MatchString(src[pos:]) {
			break
		}
		start := pos
		item, end := lx.listItem(src, pos, len(marker))
		pos = end

		raw := src[start:pos]
		if !list.Loose {
			// If the previous item ended with a blank line, the list is loose.
			if endsWithBlank {
				list.Loose = true
			} else if endsWithBlankLine(raw) {
				endsWithBlank = true
			}
		}
		if lx.g.gfm {
			for _, p := range taskPrefix {
				if strings.HasPrefix(item.Text, p) {
					item.Task = true
					item.Checked = p != "[ ] "
					item.Text = strings.TrimLeft(item.Text[len(p)-1:], " ")
					break
				}
			}
		}
		item.Raw = raw
		list.Items = append(list.Items, item)
	}
	if len(list.Items) == 0 {
		return nil
	}

	// Do not consume blank lines at the end of the final item.
	last := list.Items[len(list.Items)-1]
	last.Raw = strings.TrimRight(last.Raw, " \t\n")
	last.Text = strings.TrimRight(last.Text, " \t\n")
	list.Raw = strings.TrimRight(src[:pos], " \t\n")

	top := lx.top
	for _, item := range list.Items {
		lx.top = false
		item.Tokens = lx.blockTokens(item.Text, nil, false)
		if !list.Loose {
			for _, t := range item.Tokens {
				if sp, ok := t.(*Space); ok && strings.Count(sp.Raw, "\n") >= 2 {
					list.Loose = true
					break
				}
			}
		}
	}
	lx.top = top
	if list.Loose {
		for _, item := range list.Items {
			item.Loose = true
		}
	}
	return list
}

// listItem scans the list item starting at src[pos:], whose marker
// (with its indentation) is n bytes long. It returns the item, with its
// content dedented into Text, and the end of the item in src.
func (lx *Lexer) listItem(src string, pos, n int) (*ListItem, int) {
	pedantic := lx.g.pedantic
	after := src[pos+n : lineEnd(src, pos)] // text after the marker
	pos = nextLine(src, pos)

	line := expandLeadingTabs(after, 3)
	blank := isBlank(line)
	var indent int
	var text string
	switch {
	case pedantic:
		indent = 2
		text = strings.TrimLeft(line, " \t")
	case blank:
		indent = n + 1
	default:
		indent = leadingSpaces(line)
		if indent > 4 {
			// Indented code: the content starts one space after the marker.
			indent = 1
		}
		text = line[indent:]
		indent += n
	}

	// An item can begin with at most one blank line.
	if blank && pos < len(src) {
		next := src[pos:lineEnd(src, pos)]
		if isBlank(next) {
			return &ListItem{Text: text}, nextLine(src, pos)
		}
	}

	m := min(3, indent-1)
	for pos < len(src) {
		rawLine := src[pos:lineEnd(src, pos)]
		next := rawLine
		if pedantic {
			next = pedanticRealign(next)
		}
		expanded := strings.ReplaceAll(next, "\t", "    ")
		if endsListItem(next, m) || startsBullet(next, m) {
			break
		}
		if leadingSpaces(expanded) >= indent || isBlank(next) {
			text += "\n" + expanded[min(indent, len(expanded)):]
		} else {
			// Not enough indentation: only a paragraph continues lazily.
			if blank {
				break
			}
			prev := strings.ReplaceAll(line, "\t", "    ")
			if leadingSpaces(prev) >= 4 && !isBlank(prev) || endsListItem(line, m) {
				break
			}
			text += "\n" + next
		}
		if !blank && isBlank(next) {
			blank = true
		}
		pos = nextLine(src, pos)
		line = expanded[min(indent, len(expanded)):]
	}
	return &ListItem{Text: text}, pos
}

// listMarker returns the list marker at the start of s, with its indentation,
// if s starts a list item: up to 3 spaces, a bullet, and then a space, tab,
// or end of line.
func listMarker(s string, pedantic bool) (string, bool) {
	i := leadingSpaces(s)
	if i > 3 || i >= len(s) {
		return "", false
	}
	j := i
	switch c := s[j]; {
	case c == '*' || c == '+' || c == '-':
		j++
	case isDigit(c):
		for j < len(s) && isDigit(s[j]) && j-i < 9 {
			j++
		}
		if j >= len(s) || s[j] != '.' && s[j] != ')' {
			return "", false
		}
		j++
	default:
		return "", false
	}
	if j < len(s) && s[j] != ' ' && s[j] != '\t' && s[j] != '\n' {
		return "", false
	}
	return s[:j], true
}

// sameBullet reports whether marker continues the list started by first:
// the same bullet character, or for ordered lists the same delimiter.
// In pedantic mode any unordered bullet continues an unordered list.
func sameBullet(marker, first string, pedantic bool) bool {
	a := strings.TrimLeft(marker, " ")
	b := strings.TrimLeft(first, " ")
	if (len(a) > 1) != (len(b) > 1) {
		return false
	}
	if len(b) == 1 && pedantic {
		return true
	}
	return a[len(a)-1] == b[len(b)-1]
}

// startsBullet reports whether line starts any list item
// with at most m spaces of indentation.
func startsBullet(line string, m int) bool {
	if leadingSpaces(line) > m {
		return false
	}
	_, ok := listMarker(line, false)
	return ok
}

// endsListItem reports whether line, indented at most m spaces,
// starts a fence, heading, HTML tag, or thematic break,
// any of which ends a list item it is not indented into.
func endsListItem(line string, m int) bool {
	t, ok := indented(line, max(m, 0))
	if !ok || t == "" {
		return false
	}
	switch {
	case strings.HasPrefix(t, "```"), strings.HasPrefix(t, "~~~"), t[0] == '#':
		return true
	case t[0] == '<' && len(t) > 1 && isLetter(t[1]) && strings.Contains(t[2:], ">"):
		return true
	}
	return isHrLine(t)
}

// isHrLine reports whether t is a thematic break made of
// three or more -, _, or * separated only by spaces.
func isHrLine(t string) bool {
	c := t[0]
	if c != '-' && c != '_' && c != '*' {
		return false
	}
	n := 0
	for i := 0; i < len(t); i++ {
		switch t[i] {
		case c:
			n++
		case ' ':
		default:
			return false
		}
	}
	return n >= 3
}

// endsWithBlankLine reports whether an item's raw text ends with a blank line.
func endsWithBlankLine(raw string) bool {
	raw = strings.TrimRight(raw, " ")
	if !strings.HasSuffix(raw, "\n") {
		return false
	}
	raw = strings.TrimRight(raw[:len(raw)-1], " ")
	return strings.HasSuffix(raw, "\n")
}

// expandLeadingTabs replaces each leading tab of s with n spaces.
func expandLeadingTabs(s string, n int) string {
	i := 0
	for i < len(s) && s[i] == '\t' {
		i++
	}
	if i == 0 {
		return s
	}
	return strings.Repeat(" ", n*i) + s[i:]
}

// pedanticRealign rewrites the indentation of a line in the original
// Markdown manner: the leading spaces beyond a multiple of four
// (or four of them, if there are no extra) become two spaces.
func pedanticRealign(line string) string {
	n := leadingSpaces(line)
	if n == 0 || n == len(line) {
		return line
	}
	k := n % 4
	if k == 0 {
		k = 4
	}
	return "  " + line[k:]
}
