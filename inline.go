// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package marked

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Inline rules
//
// Each inline rule matches one construct at the start of the remaining
// span. Emphasis is resolved as soon as its opening delimiter run is
// seen: the rule searches ahead for a closing run, classifying each run
// of the same character as left-flanking, right-flanking, or both, and
// counting runs until the opener is balanced. The search runs over the
// masked copy of the span, so delimiters inside code spans, links, and
// raw HTML are invisible to it.

// lexEscape is the "escape" inline rule: a backslash before punctuation.
//
// See https://spec.commonmark.org/0.31.2/#backslash-escapes.
func lexEscape(lx *Lexer, src string) Token {
	m := escapeRE.FindStringSubmatch(src)
	if m == nil {
		return nil
	}
	return &Escape{Raw: m[0], Text: m[1]}
}

// A delimRole is the role a delimiter run can play in closing emphasis.
type delimRole int

const (
	delimSkip  delimRole = iota // neither opens nor closes
	delimLeft                   // can only open
	delimRight                  // can only close
	delimBoth                   // can open or close
)

// orphanAstRE and orphanUndRE match, at the start of the text after an
// opening delimiter, a lone * (or _) inside strong emphasis made of the
// other character, which must not close the opener.
// The trailing __ (or **) is not part of the skip.
var (
	orphanAstRE = regexp.MustCompile(`^[^_*]*?__[^_*]*?\*[^_*]*?__`)
	orphanUndRE = regexp.MustCompile(`^[^_*]*?\*\*[^_*]*?_[^_*]*?\*\*`)
)

// lexEmStrong is the "emStrong" inline rule: emphasis or strong emphasis
// delimited by runs of * or _.
// An opener of n delimiters and a closer of m produce em
// if min(n, m) is odd and strong otherwise; extra delimiters
// stay in the text and become nested emphasis.
//
// See https://spec.commonmark.org/0.31.2/#emphasis-and-strong-emphasis.
func lexEmStrong(lx *Lexer, src string) Token {
	if src == "" || src[0] != '*' && src[0] != '_' {
		return nil
	}
	c := src[0]
	n := 1
	for n < len(src) && src[n] == c {
		n++
	}
	if n >= len(src) {
		return nil
	}
	next, _ := utf8.DecodeRuneInString(src[n:])
	if isSpace(next) {
		return nil
	}
	nextPunct := isUnicodePunct(next)
	prev := rune(-1)
	if lx.scan != nil {
		prev = lx.scan.prevChar
	}
	// _ cannot open emphasis inside a word.
	if c == '_' && !nextPunct && prev >= 0 && isWordRune(prev) {
		return nil
	}
	if nextPunct && prev >= 0 && !(prev != '*' && prev != '_' && (isSpace(prev) || isUnicodePunct(prev))) {
		return nil
	}

	masked := src
	if sc := lx.scan; sc != nil && len(sc.masked) >= len(src) {
		off := len(sc.masked) - len(src)
		if sc.lastCloser(c) <= off+n {
			// No run after the opener can close it.
			return nil
		}
		masked = sc.masked[off:]
	}
	masked = masked[n:]

	start := 0
	orphan := orphanAstRE
	if c == '_' {
		orphan = orphanUndRE
	}
	if m := orphan.FindStringIndex(masked); m != nil {
		start = m[1] - 2
	}

	total, mid := n, 0
	for i := start; i < len(masked); {
		if masked[i] != c {
			i++
			continue
		}
		j := i
		for j < len(masked) && masked[j] == c {
			j++
		}
		run, at := j-i, i
		i = j
		if at == 0 {
			// The opener is maximal, so a run here is impossible.
			continue
		}
		p, _ := utf8.DecodeLastRuneInString(masked[:at])
		q := rune(-1)
		if j < len(masked) {
			q, _ = utf8.DecodeRuneInString(masked[j:])
		}
		switch delimiterRole(c, p, q) {
		case delimSkip:
			continue
		case delimLeft:
			total += run
			continue
		case delimBoth:
			if n%3 != 0 && (n+run)%3 == 0 {
				// A run that can open and close cannot close an opener
				// when the lengths sum to a multiple of 3, unless both are.
				mid += run
				continue
			}
		}
		total -= run
		if total > 0 {
			continue
		}
		r := min(run, run+total+mid)
		raw := src[:n+at+r]
		if min(n, r)%2 == 1 {
			text := raw[1 : len(raw)-1]
			return &Em{Raw: raw, Text: text, Tokens: lx.inlineTokens(text, nil)}
		}
		text := raw[2 : len(raw)-2]
		return &Strong{Raw: raw, Text: text, Tokens: lx.inlineTokens(text, nil)}
	}
	return nil
}

// lastCloser returns the offset in the masked span of the last run of c
// able to close emphasis, or -1 if there is none.
// It is computed once per span.
func (sc *inlineScan) lastCloser(c byte) int {
	k := 0
	if c == '_' {
		k = 1
	}
	if sc.closers[k] != 0 {
		return sc.closers[k] - 1
	}
	last := -1
	s := sc.masked
	for i := 0; i < len(s); {
		if s[i] != c {
			i++
			continue
		}
		j := i
		for j < len(s) && s[j] == c {
			j++
		}
		if i > 0 {
			p, _ := utf8.DecodeLastRuneInString(s[:i])
			q := rune(-1)
			if j < len(s) {
				q, _ = utf8.DecodeRuneInString(s[j:])
			}
			if r := delimiterRole(c, p, q); r == delimRight || r == delimBoth {
				last = i
			}
		}
		i = j
	}
	sc.closers[k] = last + 1
	return last
}

// delimiterRole classifies a run of c between the characters p and q.
// q is -1 at the end of the text.
func delimiterRole(c byte, p, q rune) delimRole {
	pSpace, pPunct := isSpace(p), isUnicodePunct(p)
	qEnd := q < 0
	qSpace := !qEnd && isSpace(q)
	qPunct := !qEnd && isUnicodePunct(q)
	pWord := !pSpace && !pPunct
	qWord := !qEnd && !qSpace && !qPunct
	switch {
	case pPunct && (qSpace || qEnd):
		return delimRight
	case pWord && !qWord:
		return delimRight
	case (pPunct || pSpace) && qWord:
		return delimLeft
	case pSpace && qPunct:
		return delimLeft
	case pPunct && qPunct:
		return delimBoth
	case pWord && qWord && c == '*':
		return delimBoth
	}
	return delimSkip
}

// lexCodespan is the "codespan" inline rule: a backtick string,
// the shortest following content, and a backtick string of the same length.
// Line endings become spaces, and a single space is stripped from both ends
// when both are present and the content is not all spaces.
//
// See https://spec.commonmark.org/0.31.2/#code-spans.
func lexCodespan(lx *Lexer, src string) Token {
	n := 0
	for n < len(src) && src[n] == '`' {
		n++
	}
	if n == 0 {
		return nil
	}
	for i := n; i < len(src); {
		if src[i] != '`' {
			i++
			continue
		}
		j := i
		for j < len(src) && src[j] == '`' {
			j++
		}
		if j-i == n && i > n {
			text := strings.ReplaceAll(src[n:i], "\n", " ")
			if len(text) >= 2 && text[0] == ' ' && text[len(text)-1] == ' ' && strings.Trim(text, " ") != "" {
				text = text[1 : len(text)-1]
			}
			return &Codespan{Raw: src[:j], Text: text}
		}
		i = j
	}
	return nil
}

// lexDel is the "del" inline rule of GitHub Flavored Markdown:
// text between matching runs of one or two tildes.
//
// See https://github.github.com/gfm/#strikethrough-extension-.
func lexDel(lx *Lexer, src string) Token {
	d := 0
	for d < len(src) && d < 3 && src[d] == '~' {
		d++
	}
	if d == 0 || d > 2 || d >= len(src) || isSpace(rune(src[d])) {
		return nil
	}
	delim := src[:d]
	for j := d + 1; j+d <= len(src); j++ {
		if c := src[j-1]; c == '~' || isSpace(rune(c)) {
			continue
		}
		if !strings.HasPrefix(src[j:], delim) {
			continue
		}
		if k := j + d; k < len(src) && src[k] == '~' {
			continue
		}
		raw := src[:j+d]
		text := src[d:j]
		return &Del{Raw: raw, Text: text, Tokens: lx.inlineTokens(text, nil)}
	}
	return nil
}

// lexInlineText is the "inlineText" inline rule, matching plain text
// up to the next character that could start another inline construct.
// A leading run of backticks (or tildes) that no other rule matched
// is taken as text in full.
func lexInlineText(lx *Lexer, src string) Token {
	if src == "" {
		return nil
	}
	end := inlineTextEnd(src, lx.g)
	raw := src[:end]
	return &Text{Raw: raw, Text: raw, Escaped: lx.inRawBlock}
}

// inlineTextEnd returns the length of the plain text at the start of src.
func inlineTextEnd(src string, g *grammar) int {
	i := 1
	if c := src[0]; c == '`' || g.gfm && c == '~' {
		for i < len(src) && (src[i] == '`' || g.gfm && src[i] == '~') {
			i++
		}
	}
	minSpaces := 2
	if g.breaks {
		minSpaces = 0
	}
	if breakAhead(src[i:], minSpaces) || g.gfm && emailAhead(src[i:]) {
		return i
	}
	for p := i; p < len(src); p++ {
		switch src[p] {
		case '\\', '<', '!', '[', '`', '*', '_':
			return p
		case '~':
			if g.gfm {
				return p
			}
		}
		if g.gfm && (strings.HasPrefix(src[p:], "http://") ||
			strings.HasPrefix(src[p:], "https://") ||
			strings.HasPrefix(src[p:], "ftp://") ||
			strings.HasPrefix(src[p:], "www.")) {
			return p
		}
		if g.breaks && breakAhead(src[p:], 0) {
			return p
		}
		if src[p] != ' ' && breakAhead(src[p+1:], minSpaces) {
			return p + 1
		}
		if g.gfm && !isEmailChar(src[p]) && emailAhead(src[p+1:]) {
			return p + 1
		}
	}
	return len(src)
}

// breakAhead reports whether s starts with at least min spaces and a newline.
func breakAhead(s string, min int) bool {
	n := leadingSpaces(s)
	return n >= min && n < len(s) && s[n] == '\n'
}

// emailAhead reports whether s starts with the local part of an email address and an @.
func emailAhead(s string) bool {
	i := 0
	for i < len(s) && isEmailChar(s[i]) {
		i++
	}
	return i > 0 && i < len(s) && s[i] == '@'
}

func isEmailChar(c byte) bool {
	return isLetterDigit(c) || strings.IndexByte(".!#$%&'*+/=?_`{|}~-", c) >= 0
}
