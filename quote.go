// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package marked

import "strings"

// lexBlockquote is the "blockquote" block rule.
//
// A block quote is a run of lines starting with >, together with
// lazy continuation lines of a paragraph. The lines are tokenized in groups,
// each ending just before a lazy line, so that a lazy line continues a
// paragraph but not a code block or heading, and continues a nested quote
// or list when the group ended in one.
//
// See https://spec.commonmark.org/0.31.2/#block-quotes.
func lexBlockquote(lx *Lexer, src string) Token {
	n := quoteExtent(lx, src)
	if n == 0 {
		return nil
	}
	lines := strings.Split(trimRightNewlines(src[:n]), "\n")

	var tokens []Token
	used := 0 // lines of src in the quote
	for used < len(lines) {
		// Collect lines up to a lazy continuation.
		end := used
		inQuote := false
		for ; end < len(lines); end++ {
			if isQuoteLine(lines[end]) {
				inQuote = true
			} else if inQuote {
				break
			}
		}
		text := quoteText(lines[used:end])
		used = end

		top := lx.top
		lx.top = true
		tokens = lx.blockTokens(text, tokens, true)
		lx.top = top

		if used == len(lines) || len(tokens) == 0 {
			break
		}
		// Continue a nested quote or list with the remaining lines.
		last := tokens[len(tokens)-1]
		var next Token
		switch last.(type) {
		case *Paragraph:
			// The next group starts with lazy lines continuing it.
			continue
		case *Blockquote:
			next = lexBlockquote(lx, last.Source()+"\n"+strings.Join(lines[used:], "\n"))
		case *List:
			next = lexList(lx, last.Source()+"\n"+strings.Join(lines[used:], "\n"))
		}
		if next == nil {
			break
		}
		tokens[len(tokens)-1] = next
		if d := strings.Count(next.Source(), "\n") - strings.Count(last.Source(), "\n"); d > 0 {
			used += d
		}
		if _, ok := last.(*Blockquote); ok {
			break
		}
	}

	raw := strings.Join(lines[:used], "\n")
	return &Blockquote{Raw: raw, Text: quoteText(lines[:used]), Tokens: tokens}
}

// quoteExtent returns the length of the block quote at the start of src:
// lines starting with >, each followed by any lazy paragraph continuation lines.
func quoteExtent(lx *Lexer, src string) int {
	i := 0
	for i < len(src) {
		line := src[i:lineEnd(src, i)]
		if !isQuoteLine(line) {
			break
		}
		c := i + strings.IndexByte(line, '>') + 1
		if c < len(src) && src[c] == ' ' {
			c++
		}
		e := lineEnd(src, c)
		if e > c {
			for e+1 < len(src) && !interruptsParagraph(lx, src[e+1:]) {
				e = lineEnd(src, e+1)
			}
		}
		i = nextLine(src, e)
	}
	return i
}

// isQuoteLine reports whether line starts with up to 3 spaces and a >.
func isQuoteLine(line string) bool {
	t, ok := indented(line, 3)
	return ok && strings.HasPrefix(t, ">")
}

// quoteText returns the content of quote lines: each line without its >
// and one following space or tab. A lazy line that looks like a Setext
// underline is indented so that it cannot turn the quoted paragraph
// into a heading.
func quoteText(lines []string) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		switch {
		case isQuoteLine(line):
			line = line[strings.IndexByte(line, '>')+1:]
			if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
				line = line[1:]
			}
		case i > 0 && setextUnderlineRE.MatchString(line):
			line = "    " + trimLeftSpaces(line, 3)
		}
		out[i] = line
	}
	return strings.Join(out, "\n")
}
