// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package marked

import "strings"

const forceLower = 0x20 // ASCII letter | forceLower == ASCII lower-case

// lexHTMLBlock is the "html" block rule.
//
// See https://spec.commonmark.org/0.31.2/#html-blocks.
func lexHTMLBlock(lx *Lexer, src string) Token {
	if lx.g.pedantic {
		return lexHTMLBlockPedantic(src)
	}
	line, _, _ := cutLine(src)
	t, ok := indented(line, 3)
	if !ok || !strings.HasPrefix(t, "<") {
		return nil
	}

	var end int
	var pre bool
	if tag, ok := htmlBlock1Tag(t); ok {
		end = endAfterLine(src, func(s string) int { return indexCloseTag(s, tag) })
		pre = tag != "textarea"
	} else if marker, ok := htmlBlockMarker(t); ok {
		// The marker may overlap the opening, as in <!--> or <?>.
		start := len(line) - len(t) + 1
		end = endAfterLine(src, func(s string) int {
			if i := strings.Index(s[start:], marker); i >= 0 {
				return start + i
			}
			return -1
		})
	} else if htmlBlock6(t) || htmlBlock7(lx, t) {
		end = endAtBlankLine(src)
	} else {
		return nil
	}
	raw := src[:end]
	return &HTML{Raw: raw, Text: raw, Block: true, Pre: pre}
}

// htmlBlock1Tag reports whether t starts HTML block type 1:
// <pre, <script, <style, or <textarea followed by space, tab, >, or end of line.
// It returns the lower-case tag name.
func htmlBlock1Tag(t string) (string, bool) {
	if len(t) < 2 {
		return "", false
	}
	if c := t[1] | forceLower; c != 'p' && c != 's' && c != 't' { // early out; check first letter
		return "", false
	}
	i := 2
	for i < len(t) && t[i] != ' ' && t[i] != '\t' && t[i] != '>' {
		i++
	}
	for _, tag := range []string{"pre", "script", "style", "textarea"} {
		if lowerEq(t[1:i], tag) {
			return tag, true
		}
	}
	return "", false
}

// indexCloseTag returns the index of the first </tag> in s,
// using ASCII case-insensitive matching, or -1.
func indexCloseTag(s, tag string) int {
	for i := 0; i+len(tag)+3 <= len(s); i++ {
		if s[i] == '<' && s[i+1] == '/' && lowerEq(s[i+2:i+2+len(tag)], tag) && s[i+2+len(tag)] == '>' {
			return i
		}
	}
	return -1
}

// lowerEq reports whether strings.ToLower(s) == lower
// assuming lower is entirely ASCII lower-case letters.
func lowerEq(s, lower string) bool {
	if len(s) != len(lower) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i]|forceLower != lower[i] {
			return false
		}
	}
	return true
}

// htmlBlockMarker reports whether t starts HTML block type 2, 3, 4, or 5,
// the ones that start and end with a specific string constant.
// It returns the end marker.
func htmlBlockMarker(t string) (string, bool) {
	switch {
	case strings.HasPrefix(t, "<!--"):
		return "-->", true
	case strings.HasPrefix(t, "<?"):
		return "?>", true
	case strings.HasPrefix(t, "<![CDATA["):
		return "]]>", true
	case strings.HasPrefix(t, "<!") && len(t) >= 3 && 'A' <= t[2] && t[2] <= 'Z':
		// Only upper-case declarations start a block, so <!x> is inline.
		return ">", true
	}
	return "", false
}

// htmlBlock6 reports whether t starts HTML block type 6:
// the start or end of a block-level tag.
func htmlBlock6(t string) bool {
	start := 1
	if len(t) > 1 && t[1] == '/' {
		start = 2
	}
	end := start
	for end < len(t) && end < 16 && isLetterDigit(t[end]) {
		end++
	}
	if end < len(t) {
		switch t[end] {
		default:
			return false
		case ' ', '\t', '>':
		case '/':
			if end+1 >= len(t) || t[end+1] != '>' {
				return false
			}
		}
	}
	return end > start && blockHTMLTagRE.MatchString(t[start:end])
}

// htmlBlock7 reports whether t starts HTML block type 7:
// a complete open or closing tag alone on its line.
func htmlBlock7(lx *Lexer, t string) bool {
	if _, ok := htmlBlock1Tag(t); ok {
		return false
	}
	if end, ok := parseHTMLOpenTag(lx, t, 0); ok && skipSpace(t, end) == len(t) {
		return true
	}
	if end, ok := parseHTMLClosingTag(lx, t, 0); ok && skipSpace(t, end) == len(t) {
		return true
	}
	return false
}

// endAfterLine returns the end of the HTML block starting at src
// that ends with the first line on which find reports a match,
// including any blank lines after it.
// Without a match the block runs to the end of src.
func endAfterLine(src string, find func(string) int) int {
	i := find(src)
	if i < 0 {
		return len(src)
	}
	end := lineEnd(src, i)
	for end < len(src) && src[end] == '\n' {
		end++
	}
	return end
}

// endAtBlankLine returns the end of the HTML block starting at src
// that ends with the first run of blank lines.
func endAtBlankLine(src string) int {
	for i := nextLine(src, 0); i < len(src); i = nextLine(src, i) {
		if isBlank(src[i:lineEnd(src, i)]) {
			for i < len(src) && isBlank(src[i:lineEnd(src, i)]) {
				i = nextLine(src, i)
			}
			return i
		}
	}
	return len(src)
}

// inlineTags are the tags the pedantic grammar never treats as blocks.
var inlineTags = map[string]bool{
	"a": true, "em": true, "strong": true, "small": true, "s": true, "cite": true,
	"q": true, "dfn": true, "abbr": true, "data": true, "time": true, "code": true,
	"var": true, "samp": true, "kbd": true, "sub": true, "sup": true, "i": true,
	"b": true, "u": true, "mark": true, "ruby": true, "rt": true, "rp": true,
	"bdi": true, "bdo": true, "span": true, "br": true, "wbr": true, "ins": true,
	"del": true, "img": true,
}

// lexHTMLBlockPedantic matches the original Markdown HTML block:
// a comment, or a non-inline element up to its closing tag,
// followed by a blank line or the end of input.
func lexHTMLBlockPedantic(src string) Token {
	i := leadingSpaces(src)
	if i >= len(src) || src[i] != '<' {
		return nil
	}
	var end int
	if strings.HasPrefix(src[i:], "<!--") {
		j := strings.Index(src[i+4:], "-->")
		if j < 0 {
			return nil
		}
		end = i + 4 + j + 3
	} else {
		j := i + 1
		for j < len(src) && (isLetterDigit(src[j]) || src[j] == '_') {
			j++
		}
		tag := src[i+1 : j]
		if tag == "" || inlineTags[strings.ToLower(tag)] || j < len(src) && (src[j] == ':' || src[j] == '@') {
			return nil
		}
		if k := strings.Index(src[j:], "</"+tag+">"); k >= 0 {
			end = j + k + len("</"+tag+">")
		} else if k := strings.IndexByte(src[j:], '>'); k >= 0 {
			end = j + k + 1
		} else {
			return nil
		}
	}
	end += leadingSpaces(src[end:])
	switch rest := src[end:]; {
	case strings.TrimLeft(rest, " \t\n") == "":
		end = len(src)
	case strings.HasPrefix(rest, "\n\n"):
		end += len(rest) - len(strings.TrimLeft(rest, "\n"))
	default:
		return nil
	}
	raw := src[:end]
	return &HTML{Raw: raw, Text: raw, Block: true}
}

// lexTag is the "tag" inline rule: a raw HTML tag, comment,
// processing instruction, declaration, or CDATA section.
// It tracks whether the text that follows is inside a link or a raw element.
//
// See https://spec.commonmark.org/0.31.2/#raw-html.
func lexTag(lx *Lexer, src string) Token {
	end, ok := parseHTMLTag(lx, src, 0)
	if !ok {
		return nil
	}
	raw := src[:end]
	switch {
	case !lx.inLink && len(raw) > 3 && lowerEq(raw[:2], "<a") && isSpace(rune(raw[2])):
		lx.inLink = true
	case lx.inLink && lowerEq(raw, "</a>"):
		lx.inLink = false
	}
	if name, closing := rawElement(raw); name {
		lx.inRawBlock = !closing
	}
	return &HTML{Raw: raw, Text: raw, InLink: lx.inLink, InRawBlock: lx.inRawBlock}
}

// rawElement reports whether tag opens or closes an element
// whose text is passed through unescaped: pre, code, kbd, or script.
func rawElement(tag string) (ok, closing bool) {
	s := tag[1:]
	if strings.HasPrefix(s, "/") {
		closing = true
		s = s[1:]
	}
	for _, name := range []string{"pre", "code", "kbd", "script"} {
		if len(s) > len(name) && lowerEq(s[:len(name)], name) {
			if c := s[len(name)]; c == '>' || isSpace(rune(c)) {
				return true, closing
			}
		}
	}
	return false, false
}

// parseHTMLTag parses a raw HTML tag at s[start:], returning its end.
func parseHTMLTag(lx *Lexer, s string, start int) (end int, ok bool) {
	// “An HTML tag consists of an open tag, a closing tag, an HTML comment,
	// a processing instruction, a declaration, or a CDATA section.”
	if len(s)-start < 3 || s[start] != '<' {
		return
	}
	switch s[start+1] {
	default:
		return parseHTMLOpenTag(lx, s, start)
	case '/':
		return parseHTMLClosingTag(lx, s, start)
	case '!':
		switch s[start+2] {
		case '-':
			return parseHTMLComment(lx, s, start)
		case '[':
			return parseHTMLMarker(lx, s, start, "<![CDATA[", "]]>")
		default:
			if isLetter(s[start+2]) {
				return parseHTMLMarker(lx, s, start, "<!", ">")
			}
		}
	case '?':
		return parseHTMLMarker(lx, s, start, "<?", "?>")
	}
	return
}

// parseHTMLOpenTag parses an HTML open tag at s[i:].
func parseHTMLOpenTag(lx *Lexer, s string, i int) (end int, ok bool) {
	// “An open tag consists of a < character, a tag name, zero or more attributes,
	// optional spaces, tabs, and up to one line ending, an optional / character, and a > character.”
	if i >= len(s) || s[i] != '<' {
		return
	}
	_, j, ok1 := parseTagName(s, i+1)
	if !ok1 {
		return
	}
	for {
		if j >= len(s) || s[j] != ' ' && s[j] != '\t' && s[j] != '\n' && s[j] != '/' && s[j] != '>' {
			return
		}
		k, ok := parseAttr(s, skipSpace(s, j))
		if !ok {
			break
		}
		j = k
	}
	j = skipSpace(s, j)
	if j < len(s) && s[j] == '/' {
		j++
	}
	if j >= len(s) || s[j] != '>' {
		return
	}
	return j + 1, true
}

// parseHTMLClosingTag parses an HTML closing tag at s[i:].
func parseHTMLClosingTag(lx *Lexer, s string, i int) (end int, ok bool) {
	// “A closing tag consists of the string </, a tag name,
	// optional spaces, tabs, and up to one line ending, and the character >.”
	if i+2 >= len(s) || s[i] != '<' || s[i+1] != '/' {
		return
	}
	if _, j, ok := parseTagName(s, i+2); ok {
		j = skipSpace(s, j)
		if j < len(s) && s[j] == '>' {
			return j + 1, true
		}
	}
	return
}

// parseTagName parses a leading tag name from s[start:],
// returning the tag and the end location.
func parseTagName(s string, start int) (tag string, end int, ok bool) {
	// “A tag name consists of an ASCII letter followed by zero or more ASCII letters, digits, or hyphens (-).”
	if start >= len(s) || !isLetter(s[start]) {
		return
	}
	end = start + 1
	for end < len(s) && isLDH(s[end]) {
		end++
	}
	return s[start:end], end, true
}

// parseAttr parses a leading attr (or attr=value) from s[start:],
// returning the end location.
func parseAttr(s string, start int) (end int, ok bool) {
	end, ok = parseAttrName(s, start)
	if !ok {
		return
	}
	if endVal, ok := parseAttrValueSpec(s, end); ok {
		end = endVal
	}
	return end, true
}

// parseAttrName parses a leading attribute name from s[start:].
func parseAttrName(s string, start int) (end int, ok bool) {
	// “An attribute name consists of an ASCII letter, _, or :,
	// followed by zero or more ASCII letters, digits, _, ., :, or -.”
	if start+1 >= len(s) || (!isLetter(s[start]) && s[start] != '_' && s[start] != ':') {
		return
	}
	end = start + 1
	for end < len(s) && (isLDH(s[end]) || s[end] == '_' || s[end] == '.' || s[end] == ':') {
		end++
	}
	return end, true
}

// parseAttrValueSpec parses a leading attribute value specification
// from s[start:], returning the end location.
func parseAttrValueSpec(s string, start int) (end int, ok bool) {
	end = skipSpace(s, start)
	if end >= len(s) || s[end] != '=' {
		return
	}
	end = skipSpace(s, end+1)
	if end < len(s) && (s[end] == '\'' || s[end] == '"') {
		i := strings.IndexByte(s[end+1:], s[end])
		if i < 0 {
			return
		}
		return end + 1 + i + 1, true
	}

	// “An unquoted attribute value is a nonempty string of characters
	// not including spaces, tabs, line endings, ", ', =, <, >, or `.”
	i := end
	for i < len(s) && strings.IndexByte(" \t\n\"'=<>`", s[i]) < 0 {
		i++
	}
	if i == end {
		return
	}
	return i, true
}

// parseHTMLComment parses an HTML comment at s[start:].
func parseHTMLComment(lx *Lexer, s string, start int) (end int, ok bool) {
	for _, short := range []string{"<!-->", "<!--->"} {
		if strings.HasPrefix(s[start:], short) {
			return start + len(short), true
		}
	}
	return parseHTMLMarker(lx, s, start, "<!--", "-->")
}

// parseHTMLMarker parses the prefix/suffix-delimited HTML constructs.
// If s[start:] starts with prefix and is followed eventually by suffix,
// it returns the end of the suffix.
func parseHTMLMarker(lx *Lexer, s string, start int, prefix, suffix string) (end int, ok bool) {
	if !strings.HasPrefix(s[start:], prefix) {
		return
	}
	// To avoid quadratic behavior looking at <!-- <!-- <!-- <!-- ...
	// a failed search for a terminator is not repeated in the same span.
	failed := new(bool)
	if sc := lx.scan; sc != nil {
		switch suffix[0] {
		case ']':
			failed = &sc.noCDATAEnd
		case '>':
			failed = &sc.noDeclEnd
		case '-':
			failed = &sc.noCommentEnd
		case '?':
			failed = &sc.noProcInstEnd
		}
	}
	if *failed {
		return
	}
	if i := strings.Index(s[start+len(prefix):], suffix); i >= 0 {
		return start + len(prefix) + i + len(suffix), true
	}
	*failed = true
	return
}
