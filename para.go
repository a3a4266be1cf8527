// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package marked

import "strings"

// lexParagraph is the "paragraph" block rule.
// A paragraph runs until a blank line or a line that starts
// a block able to interrupt it. It is only tried at the top level
// of a block container, never directly inside a list item.
//
// See https://spec.commonmark.org/0.31.2/#paragraphs.
func lexParagraph(lx *Lexer, src string) Token {
	first := lineEnd(src, 0)
	if first == 0 {
		return nil
	}
	end := first
	for end < len(src) {
		next := end + 1
		if next >= len(src) || interruptsParagraph(lx, src[next:]) {
			break
		}
		end = lineEnd(src, next)
	}
	raw := src[:end]
	p := &Paragraph{Raw: raw, Text: trimLines(raw)}
	lx.Inline(p.Text, &p.Tokens)
	return p
}

// interruptsParagraph reports whether the first line of s
// ends a paragraph instead of continuing it.
func interruptsParagraph(lx *Lexer, s string) bool {
	line, _, _ := cutLine(s)
	if isBlank(line) || hrRE.MatchString(line) {
		return true
	}
	if lx.g.pedantic {
		return headingStartPedanticRE.MatchString(line) ||
			lheadingPedanticRE.MatchString(s) ||
			strings.HasPrefix(trimLeftSpaces(line, 3), ">")
	}
	if t, ok := indented(line, 3); ok && strings.HasPrefix(t, ">") {
		return true
	}
	if _, _, _, ok := trimFence(line); ok {
		return true
	}
	return headingStartRE.MatchString(line) ||
		listStartRE.MatchString(line) ||
		htmlStartRE.MatchString(line) ||
		lx.g.gfm && isTableStart(s)
}

// trimLeftSpaces returns s without up to max leading spaces.
func trimLeftSpaces(s string, max int) string {
	return s[min(leadingSpaces(s), max):]
}

// lexText is the "text" block rule: a single line of text inside
// a list item, where paragraphs are not used.
// Consecutive lines are joined by the lexer.
func lexText(lx *Lexer, src string) Token {
	m := textRE.FindString(src)
	if m == "" {
		return nil
	}
	t := &Text{Raw: m, Text: trimLeftSpaceTab(m)}
	lx.Inline(t.Text, &t.Tokens)
	return t
}
