// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package marked

import "strings"

// lexSpace is the "space" block rule: a run of blank lines.
func lexSpace(lx *Lexer, src string) Token {
	m := spaceRE.FindString(src)
	if m == "" {
		return nil
	}
	return &Space{Raw: m}
}

// lexIndentedCode is the "code" block rule: an indented code block.
// It cannot interrupt a paragraph; the lexer folds it into
// a preceding paragraph instead.
//
// See https://spec.commonmark.org/0.31.2/#indented-code-blocks.
func lexIndentedCode(lx *Lexer, src string) Token {
	raw := codeRE.FindString(src)
	if raw == "" {
		return nil
	}
	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		n := min(leadingSpaces(line), 4)
		lines[i] = line[n:]
	}
	text := strings.Join(lines, "\n")
	if !lx.g.pedantic {
		// Remove trailing blank lines, which are often used
		// just to separate the code block from what follows.
		text = trimRightNewlines(text)
	}
	return &Code{Raw: raw, Text: text, Indented: true}
}

// lexFences is the "fences" block rule: a fenced code block.
// Without a closing fence the block runs to the end of the input.
//
// See https://spec.commonmark.org/0.31.2/#fenced-code-blocks.
func lexFences(lx *Lexer, src string) Token {
	first, _, _ := cutLine(src)
	indent, fence, info, ok := trimFence(first)
	if !ok {
		return nil
	}

	raw := src
	var body []string
	for i := nextLine(src, 0); i < len(src); i = nextLine(src, i) {
		line := src[i:lineEnd(src, i)]
		if isClosingFence(line, fence) {
			// The newline after the closing fence belongs to what follows.
			raw = src[:i+len(line)]
			break
		}
		// Remove the fence's indentation, if present, from each line.
		body = append(body, line[min(leadingSpaces(line), indent):])
	}
	return &Code{
		Raw:  raw,
		Lang: unescapePunct(trimSpaceTab(info)),
		Text: strings.Join(body, "\n"),
	}
}

// trimFence parses an opening code fence line,
// returning its indentation (up to 3 spaces), the fence, and the info string.
func trimFence(line string) (indent int, fence, info string, ok bool) {
	indent = leadingSpaces(line)
	if indent > 3 || indent == len(line) {
		return
	}
	c := line[indent]
	if c != '`' && c != '~' {
		return
	}
	n := indent
	for n < len(line) && line[n] == c {
		n++
	}
	if n-indent < 3 {
		return
	}
	info = line[n:]
	if c == '`' && strings.Contains(info, "`") {
		return
	}
	return indent, line[indent:n], info, true
}

// isClosingFence reports whether line closes a code block opened by fence:
// up to 3 spaces, the fence itself, more fence characters, and trailing spaces.
func isClosingFence(line, fence string) bool {
	t, ok := indented(line, 3)
	if !ok || !strings.HasPrefix(t, fence) {
		return false
	}
	t = strings.TrimLeft(t[len(fence):], "`~")
	return strings.TrimLeft(t, " ") == ""
}
