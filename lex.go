// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package marked

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// isPunct reports whether c is Markdown punctuation.
func isPunct(c byte) bool {
	return '!' <= c && c <= '/' || ':' <= c && c <= '@' || '[' <= c && c <= '`' || '{' <= c && c <= '~'
}

// isLetter reports whether c is an ASCII letter.
func isLetter(c byte) bool {
	return 'A' <= c && c <= 'Z' || 'a' <= c && c <= 'z'
}

// isDigit reports whether c is an ASCII digit.
func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// isLetterDigit reports whether c is an ASCII letter or digit.
func isLetterDigit(c byte) bool {
	return isLetter(c) || isDigit(c)
}

// isLDH reports whether c is an ASCII letter, digit, or hyphen.
func isLDH(c byte) bool {
	return isLetterDigit(c) || c == '-'
}

// isSpace reports whether r is white space for delimiter classification.
func isSpace(r rune) bool {
	if r < 0x80 {
		return r == ' ' || r == '\t' || r == '\n' || r == '\f' || r == '\r' || r == '\v'
	}
	return unicode.IsSpace(r)
}

// isUnicodePunct reports whether r is punctuation or a symbol.
// The emphasis rules treat both the same.
func isUnicodePunct(r rune) bool {
	if r < 0x80 {
		return isPunct(byte(r))
	}
	return unicode.In(r, unicode.Punct, unicode.Symbol)
}

// isWordRune reports whether r is a letter or number.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}

// lastRune returns the final rune of s, or -1 if s is empty.
func lastRune(s string) rune {
	if s == "" {
		return -1
	}
	r, _ := utf8.DecodeLastRuneInString(s)
	return r
}

// skipSpace returns i + the number of spaces, tabs, and newlines
// at the start of s[i:].
func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n') {
		i++
	}
	return i
}

// unescapePunct removes the backslash from every backslash-escaped
// punctuation character in s.
func unescapePunct(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && isPunct(s[i+1]) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// htmlEscaper escapes every HTML-significant character.
var htmlEscaper = strings.NewReplacer(
	`&`, `&amp;`,
	`<`, `&lt;`,
	`>`, `&gt;`,
	`"`, `&quot;`,
	`'`, `&#39;`,
)

// escapeHTML returns s with HTML-significant characters replaced by entities.
// If encode is false, an & that already begins an entity reference
// (&name;, &#123;, or &#x1F;) is left alone so text is not escaped twice.
func escapeHTML(s string, encode bool) string {
	if encode {
		return htmlEscaper.Replace(s)
	}
	if !strings.ContainsAny(s, `&<>"'`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '&':
			if n := entityLen(s[i:]); n > 0 {
				b.WriteString(s[i : i+n])
				i += n - 1
				continue
			}
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&#39;")
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// entityLen returns the length of the entity reference at the start of s,
// or 0 if s does not start with one.
// Named references are only checked for shape, not against the HTML list.
func entityLen(s string) int {
	if len(s) < 3 || s[0] != '&' {
		return 0
	}
	i := 1
	if s[i] == '#' {
		i++
		hex := i < len(s) && (s[i] == 'x' || s[i] == 'X')
		if hex {
			i++
		}
		j := i
		for j < len(s) && (isDigit(s[j]) || hex && isHexDigit(s[j])) {
			j++
		}
		max := 7
		if hex {
			max = 6
		}
		if j == i || j-i > max || j >= len(s) || s[j] != ';' {
			return 0
		}
		return j + 1
	}
	j := i
	for j < len(s) && (isLetterDigit(s[j]) || s[j] == '_') {
		j++
	}
	if j == i || j >= len(s) || s[j] != ';' {
		return 0
	}
	return j + 1
}

// isHexDigit reports whether c is an ASCII hexadecimal digit.
func isHexDigit(c byte) bool {
	return 'A' <= c && c <= 'F' || 'a' <= c && c <= 'f' || '0' <= c && c <= '9'
}

// cleanURL percent-encodes the bytes of href that cannot appear
// in a URL attribute. Reserved characters and % are left alone.
func cleanURL(href string) string {
	var b strings.Builder
	for i := 0; i < len(href); i++ {
		c := href[i]
		switch {
		case c < 0x80 && urlSafe(c):
			b.WriteByte(c)
		default:
			const hex = "0123456789ABCDEF"
			b.WriteByte('%')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&15])
		}
	}
	return b.String()
}

// urlSafe reports whether the ASCII byte c may appear unescaped in a URL.
func urlSafe(c byte) bool {
	if isLetterDigit(c) {
		return true
	}
	return strings.IndexByte("-_.!~*'();/?:@&=+$,#%", c) >= 0
}
