// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package marked

import "strings"

// lexHeading is the "heading" block rule: an ATX heading, like "## Heading".
//
// See https://spec.commonmark.org/0.31.2/#atx-headings.
func lexHeading(lx *Lexer, src string) Token {
	re := headingRE
	if lx.g.pedantic {
		re = headingPedanticRE
	}
	m := re.FindStringSubmatch(src)
	if m == nil {
		return nil
	}
	text := strings.TrimSpace(m[2])

	// Remove any number of trailing '#'s if preceded by a space or tab.
	// The original Markdown removes them unconditionally.
	if strings.HasSuffix(text, "#") {
		inner := strings.TrimRight(text, "#")
		if lx.g.pedantic || inner == "" || inner != trimRightSpaceTab(inner) {
			text = strings.TrimSpace(inner)
		}
	}
	h := &Heading{Raw: m[0], Depth: len(m[1]), Text: text}
	lx.Inline(text, &h.Tokens)
	return h
}

// lexSetextHeading is the "lheading" block rule: a Setext heading,
// which is an underlined paragraph of text.
//
// See https://spec.commonmark.org/0.31.2/#setext-headings.
func lexSetextHeading(lx *Lexer, src string) Token {
	if lx.g.pedantic {
		m := lheadingPedanticRE.FindStringSubmatch(src)
		if m == nil {
			return nil
		}
		return setextHeading(lx, m[0], m[1], m[2])
	}

	if interruptsSetext(lx, src) {
		return nil
	}
	for i := 0; ; {
		end := lineEnd(src, i)
		if end >= len(src) || end == i {
			return nil
		}
		next := end + 1
		line := src[next:lineEnd(src, next)]
		if m := setextUnderlineRE.FindStringSubmatch(line); m != nil {
			rawEnd := next + len(line)
			for rawEnd < len(src) && src[rawEnd] == '\n' {
				rawEnd++
			}
			return setextHeading(lx, src[:rawEnd], src[:end], m[1])
		}
		if isBlank(line) || interruptsSetext(lx, src[next:]) {
			return nil
		}
		i = next
	}
}

func setextHeading(lx *Lexer, raw, text, underline string) Token {
	depth := 1
	if underline[0] == '-' {
		depth = 2
	}
	h := &Heading{Raw: raw, Depth: depth, Text: trimLines(text)}
	lx.Inline(h.Text, &h.Tokens)
	return h
}

// interruptsSetext reports whether the first line of s starts a block
// that cannot be part of a Setext heading's text.
// The checks are looser than the block rules themselves:
// a list bullet must be unindented, and a heading needs no space after its #s.
func interruptsSetext(lx *Lexer, s string) bool {
	line, _, nl := cutLine(s)
	if isBulletStart(line) || strings.HasPrefix(line, "    ") {
		return true
	}
	t, ok := indented(line, 3)
	if !ok {
		return true
	}
	switch {
	case strings.HasPrefix(t, "```"), strings.HasPrefix(t, "~~~"),
		strings.HasPrefix(t, ">"), strings.HasPrefix(t, "#"):
		return true
	case nl && len(t) > 2 && t[0] == '<' && strings.IndexByte(t, '>') == len(t)-1:
		return true
	}
	return lx.g.gfm && isTableStart(s)
}

// isBulletStart reports whether line starts with an unindented list marker
// followed by a space.
func isBulletStart(line string) bool {
	if len(line) >= 2 && (line[0] == '*' || line[0] == '+' || line[0] == '-') && line[1] == ' ' {
		return true
	}
	i := 0
	for i < len(line) && i < 9 && isDigit(line[i]) {
		i++
	}
	return i > 0 && i+1 < len(line) && (line[i] == '.' || line[i] == ')') && line[i+1] == ' '
}

// trimLines removes the indentation of each line of s
// and the trailing space of the whole.
func trimLines(s string) string {
	if !strings.Contains(s, "\n") {
		return trimSpaceTab(s)
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = trimLeftSpaceTab(line)
	}
	return trimRightSpaceTab(strings.Join(lines, "\n"))
}
