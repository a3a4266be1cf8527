// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package marked

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

var (
	reflinkAtRE = regexp.MustCompile(`^(?:` + reflinkRE.String() + `)`)
	nolinkAtRE  = regexp.MustCompile(`^(?:` + nolinkRE.String() + `)`)

	// reflinkSearchRE finds the leftmost reference or shortcut link.
	reflinkSearchRE = regexp.MustCompile(reflinkRE.String() + `|` + nolinkRE.String())

	emailFullRE = regexp.MustCompile(`^(?:` + emailRE.String()[1:] + `)$`)

	pedanticHrefTitleRE = regexp.MustCompile(`^([^'"]*[^\s])\s+(['"])`)
)

// lexDef is the "def" block rule: a link reference definition.
//
// See https://spec.commonmark.org/0.31.2/#link-reference-definitions.
func lexDef(lx *Lexer, src string) Token {
	re := defRE
	if lx.g.pedantic {
		re = defPedanticRE
	}
	m := re.FindStringSubmatch(src)
	if m == nil || isBlank(strings.ReplaceAll(m[1], "\n", "")) {
		return nil
	}
	href := m[2]
	if strings.HasPrefix(href, "<") && strings.HasSuffix(href, ">") {
		href = href[1 : len(href)-1]
	}
	title := m[3]
	if len(title) >= 2 {
		title = title[1 : len(title)-1]
	}
	return &Def{
		Raw:   m[0],
		Tag:   normalizeLabel(m[1]),
		Href:  unescapePunct(href),
		Title: unescapePunct(title),
	}
}

// lexLink is the "link" inline rule: an inline link or image,
// [text](dest "title") or ![alt](dest "title").
// Links are not recognized inside the text of another link.
//
// See https://spec.commonmark.org/0.31.2/#links.
func lexLink(lx *Lexer, src string) Token {
	image := strings.HasPrefix(src, "!")
	i := 0
	if image {
		i = 1
	}
	if i >= len(src) || src[i] != '[' || !image && lx.inLink {
		return nil
	}
	end := scanInlineLabel(src, i)
	if end < 0 || end+1 >= len(src) || src[end+1] != '(' {
		return nil
	}
	text := src[i+1 : end]
	if lx.g.pedantic {
		return lexLinkPedantic(lx, src, text, end+2, image)
	}

	// Inline link - [Text](Dest Title), with Title omitted or both Dest and Title omitted.
	j := skipSpace(src, end+2)
	var href, title string
	if j < len(src) && src[j] != ')' {
		var ok bool
		href, j, ok = parseLinkDest(src, j)
		if !ok {
			return nil
		}
		k := skipSpace(src, j)
		if k > j && k < len(src) && src[k] != ')' {
			title, _, k, ok = parseLinkTitle(src, k)
			if !ok {
				return nil
			}
			k = skipSpace(src, k)
		}
		j = k
	}
	if j >= len(src) || src[j] != ')' {
		return nil
	}
	return outputLink(lx, src[:j+1], text, href, title, image)
}

// lexLinkPedantic finishes an inline link in the original Markdown syntax,
// where the title is any quoted text after the destination.
// The destination starts at src[i:].
func lexLinkPedantic(lx *Lexer, src, text string, i int, image bool) Token {
	j := strings.IndexAny(src[i:], ")\n")
	if j < 0 || src[i+j] != ')' {
		return nil
	}
	link := strings.TrimSpace(src[i : i+j])
	href, title := link, ""
	if m := pedanticHrefTitleRE.FindStringSubmatchIndex(link); m != nil {
		q := link[m[4]]
		if k := strings.LastIndexByte(link, q); k > m[5]-1 {
			href = link[m[2]:m[3]]
			title = link[m[5]:k]
		}
	}
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "<") {
		href = strings.TrimSuffix(href[1:], ">")
	}
	return outputLink(lx, src[:i+j+1], text, unescapePunct(href), unescapePunct(title), image)
}

// outputLink returns the Link or Image token for a matched link.
// Link text is tokenized with the lexer marked as inside a link.
func outputLink(lx *Lexer, raw, text, href, title string, image bool) Token {
	text = strings.NewReplacer(`\[`, "[", `\]`, "]").Replace(text)
	if image {
		return &Image{Raw: raw, Href: href, Title: title, Text: text, Tokens: lx.inlineTokens(text, nil)}
	}
	saved := lx.inLink
	lx.inLink = true
	tokens := lx.inlineTokens(text, nil)
	lx.inLink = saved
	return &Link{Raw: raw, Href: href, Title: title, Text: text, Tokens: tokens}
}

// scanInlineLabel returns the index of the ] closing the link text
// that starts with the [ at s[i], or -1.
// Link text may contain balanced brackets one level deep,
// backslash escapes, and code spans.
func scanInlineLabel(s string, i int) int {
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case ']':
			return j
		case '\\':
			if j+1 >= len(s) {
				return -1
			}
			j++
		case '`':
			k := strings.IndexByte(s[j+1:], '`')
			if k < 0 {
				return -1
			}
			j += 1 + k
		case '[':
			k := j + 1
			for ; k < len(s) && s[k] != ']'; k++ {
				if s[k] == '[' {
					return -1
				}
				if s[k] == '\\' {
					k++
				}
			}
			if k >= len(s) {
				return -1
			}
			j = k
		}
	}
	return -1
}

// lexRefLink is the "reflink" inline rule: a full [text][label],
// collapsed [label][], or shortcut [label] reference link or image.
// A reference to an undefined label is left as its opening bracket.
//
// See https://spec.commonmark.org/0.31.2/#reference-link.
func lexRefLink(lx *Lexer, src string) Token {
	if src == "" || src[0] != '[' && src[0] != '!' {
		return nil
	}
	m := reflinkAtRE.FindStringSubmatch(src)
	label := ""
	if m != nil {
		label = m[2]
	} else if m = nolinkAtRE.FindStringSubmatch(src); m != nil {
		label = m[1]
	} else {
		return nil
	}
	image := src[0] == '!'
	if !image && lx.inLink {
		return nil
	}
	ref, ok := lx.links[normalizeLabel(label)]
	if !ok {
		c := src[:1]
		return &Text{Raw: c, Text: c}
	}
	return outputLink(lx, m[0], m[1], ref.Href, ref.Title, image)
}

// maskRefLinks overwrites with placeholder text every reference link
// in b whose label is defined, so that emphasis delimiters inside
// it are not matched.
func (lx *Lexer) maskRefLinks(b []byte) {
	if len(lx.links) == 0 {
		return
	}
	for _, m := range reflinkSearchRE.FindAllIndex(b, -1) {
		match := string(b[m[0]:m[1]])
		label := match[strings.LastIndexByte(match, '[')+1 : len(match)-1]
		if label == "" {
			// Collapsed [label][].
			label = match[strings.IndexByte(match, '[')+1 : len(match)-3]
		}
		if _, ok := lx.links[normalizeLabel(label)]; ok {
			fill(b[m[0]:m[1]], '[', 'a', ']')
		}
	}
}

// normalizeLabel returns the normalized label for s, for uniquely identifying that label.
func normalizeLabel(s string) string {
	// “To normalize a label, strip off the opening and closing brackets,
	// perform the Unicode case fold, strip leading and trailing spaces, tabs, and line endings,
	// and collapse consecutive internal spaces, tabs, and line endings to a single space.”
	s = trimSpaceTabNewline(s)
	var b strings.Builder
	space := false
	hi := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case ' ', '\t', '\n':
			space = true
			continue
		default:
			if space {
				b.WriteByte(' ')
				space = false
			}
			if 'A' <= c && c <= 'Z' {
				c += 'a' - 'A'
			}
			if c >= 0x80 {
				hi = true
			}
			b.WriteByte(c)
		}
	}
	s = b.String()
	if hi {
		s = cases.Fold().String(s)
	}
	return s
}

// parseLinkTitle parses a [link title] at s[i:], returning
// the unescaped title, the terminating character (one of " ' or )),
// the index just past the end of the title,
// and whether a title was found at all.
//
// [link title]: https://spec.commonmark.org/0.31.2/#link-title
func parseLinkTitle(s string, i int) (title string, char byte, end int, found bool) {
	if i < len(s) && (s[i] == '"' || s[i] == '\'' || s[i] == '(') {
		want := s[i]
		if want == '(' {
			want = ')'
		}
		for j := i + 1; j < len(s); j++ {
			if s[j] == want {
				return unescapePunct(s[i+1 : j]), want, j + 1, true
			}
			if s[j] == '(' && want == ')' {
				break
			}
			if s[j] == '\\' && j+1 < len(s) {
				j++
			}
		}
	}
	return "", 0, 0, false
}

// parseLinkDest parses a [link destination] at s[i:], returning
// the unescaped destination, the end index just past the destination,
// and whether a destination was found.
//
// [link destination]: https://spec.commonmark.org/0.31.2/#link-destination
func parseLinkDest(s string, i int) (string, int, bool) {
	if i >= len(s) {
		return "", 0, false
	}

	// “A sequence of zero or more characters between an opening < and a closing >
	// that contains no line endings or unescaped < or > characters,”
	if s[i] == '<' {
		for j := i + 1; ; j++ {
			if j >= len(s) || s[j] == '\n' || s[j] == '<' {
				return "", 0, false
			}
			if s[j] == '>' {
				return unescapePunct(s[i+1 : j]), j + 1, true
			}
			if s[j] == '\\' {
				j++
			}
		}
	}

	// “or a nonempty sequence of characters that does not start with <,
	// does not include ASCII control characters or space character,
	// and includes parentheses only if (a) they are backslash-escaped
	// or (b) they are part of a balanced pair of unescaped parentheses.
	depth := 0
	j := i
Loop:
	for ; j < len(s); j++ {
		switch c := s[j]; c {
		case '(':
			depth++
			if depth > 32 {
				// Avoid quadratic inputs by stopping if too deep.
				return "", 0, false
			}
		case ')':
			if depth == 0 {
				break Loop
			}
			depth--
		case '\\':
			if j+1 < len(s) {
				j++
			}
		case ' ', '\t', '\n':
			break Loop
		default:
			if c < ' ' || c == 0x7f {
				return "", 0, false
			}
		}
	}
	if depth != 0 {
		return "", 0, false
	}
	return unescapePunct(s[i:j]), j, true
}

// lexAutoLink is the "autolink" inline rule: an absolute URI
// or email address inside < >.
//
// See https://spec.commonmark.org/0.31.2/#autolinks.
func lexAutoLink(lx *Lexer, src string) Token {
	if end, ok := parseAutoLinkURI(src, 0); ok {
		return autoLink(src[:end], src[1:end-1], src[1:end-1])
	}
	if end, ok := parseAutoLinkEmail(src, 0); ok {
		email := src[1 : end-1]
		return autoLink(src[:end], email, "mailto:"+email)
	}
	return nil
}

func autoLink(raw, text, href string) *Link {
	return &Link{
		Raw:    raw,
		Href:   href,
		Text:   text,
		Tokens: []Token{&Text{Raw: text, Text: text}},
	}
}

// parseAutoLinkURI parses a URI autolink at s[i:], returning its end.
func parseAutoLinkURI(s string, i int) (end int, ok bool) {
	// CommonMark 0.30:
	//
	//	For purposes of this spec, a scheme is any sequence of 2–32 characters
	//	beginning with an ASCII letter and followed by any combination of
	//	ASCII letters, digits, or the symbols plus (”+”), period (”.”), or
	//	hyphen (”-”).
	//
	//	An absolute URI, for these purposes, consists of a scheme followed by
	//	a colon (:) followed by zero or more characters other ASCII control
	//	characters, space, <, and >.
	j := i
	if j+1 >= len(s) || s[j] != '<' || !isLetter(s[j+1]) {
		return
	}
	j++
	for j < len(s) && isScheme(s[j]) && j-(i+1) <= 32 {
		j++
	}
	if j-(i+1) < 2 || j-(i+1) > 32 || j >= len(s) || s[j] != ':' {
		return
	}
	j++
	for j < len(s) && isURL(s[j]) {
		j++
	}
	if j >= len(s) || s[j] != '>' {
		return
	}
	return j + 1, true
}

// parseAutoLinkEmail parses an email autolink at s[i:], returning its end.
func parseAutoLinkEmail(s string, i int) (end int, ok bool) {
	// CommonMark 0.30:
	//
	//	An email address, for these purposes, is anything that matches
	//	the non-normative regex from the HTML5 spec:
	//
	//	/^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$/
	j := i
	if j+1 >= len(s) || s[j] != '<' || !isUser(s[j+1]) {
		return
	}
	j++
	for j < len(s) && isUser(s[j]) {
		j++
	}
	if j >= len(s) || s[j] != '@' {
		return
	}
	for {
		j++
		n, ok1 := skipDomainElem(s[j:])
		if !ok1 {
			return
		}
		j += n
		if j >= len(s) || s[j] != '.' && s[j] != '>' {
			return
		}
		if s[j] == '>' {
			break
		}
	}
	return j + 1, true
}

// skipDomainElem reports the length of a leading domain element in s,
// along with whether there is one.
func skipDomainElem(s string) (int, bool) {
	// String of LDH, up to 63 in length, with LetterDigit
	// at both ends (1-letter/digit names are OK).
	// Aka /[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?/.
	if len(s) < 1 || !isLetterDigit(s[0]) {
		return 0, false
	}
	i := 1
	for i < len(s) && isLDH(s[i]) && i <= 63 {
		i++
	}
	if i > 63 || !isLetterDigit(s[i-1]) {
		return 0, false
	}
	return i, true
}

// isUser reports whether c is an email user byte.
func isUser(c byte) bool {
	// A-Za-z0-9 plus ".!#$%&'*+/=?^_`{|}~-"
	return c == '!' ||
		'#' <= c && c <= '\'' ||
		'*' <= c && c <= '+' ||
		'-' <= c && c <= '9' ||
		c == '=' ||
		c == '?' ||
		'A' <= c && c <= 'Z' ||
		'^' <= c && c <= '`' ||
		'a' <= c && c <= 'z' ||
		'{' <= c && c <= '~'
}

// isScheme reports whether c is a scheme character.
func isScheme(c byte) bool {
	return isLetterDigit(c) || c == '+' || c == '.' || c == '-'
}

// isURL reports whether c is a URL character.
func isURL(c byte) bool {
	return c > ' ' && c != '<' && c != '>'
}

// lexURL is the "url" inline rule of GitHub Flavored Markdown:
// a bare http://, https://, ftp://, or www. link, or a bare email address.
// It does not apply inside link text.
//
// See https://github.github.com/gfm/#autolinks-extension-.
func lexURL(lx *Lexer, src string) Token {
	if lx.inLink {
		return nil
	}
	m := urlRE.FindString(src)
	if m == "" {
		if end := matchEmail(src); end > 0 {
			text := src[:end]
			return autoLink(text, text, "mailto:"+text)
		}
		return nil
	}
	text := trimAutoURL(m)
	if text == "" {
		return nil
	}
	href := text
	if len(text) >= 4 && strings.EqualFold(text[:4], "www.") {
		href = "http://" + text
	}
	return autoLink(text, text, href)
}

// matchEmail returns the length of the bare email address at the start of src,
// or 0. An address followed by - or _ is shortened to the longest
// prefix that is still an address and is not.
func matchEmail(src string) int {
	m := emailRE.FindString(src)
	for end := len(m); end > 0; end-- {
		if end < len(m) && !emailFullRE.MatchString(src[:end]) {
			continue
		}
		if end < len(src) && (src[end] == '-' || src[end] == '_') {
			continue
		}
		return end
	}
	return 0
}

// trimAutoURL trims from an extended autolink the trailing punctuation,
// unmatched closing parentheses, and entity references that are
// not part of the link.
//
// See https://github.github.com/gfm/#extended-autolink-path-validation.
func trimAutoURL(s string) string {
	paren := 0
	for i := 0; i < len(s); {
		r, n := utf8.DecodeRuneInString(s[i:])
		switch r {
		case '(':
			paren++
		case ')':
			paren--
		}
		i += n
	}
	i := len(s)
Trim:
	for i > 0 {
		switch s[i-1] {
		case '?', '!', '.', ',', ':', '*', '_', '~', '\'', '"':
			// Trim certain trailing punctuation.
			i--
			continue Trim

		case ')':
			// Trim trailing unmatched (by count only) parens.
			if paren < 0 {
				for i > 0 && s[i-1] == ')' && paren < 0 {
					paren++
					i--
				}
				continue Trim
			}

		case ';':
			// Trim a trailing entity reference, or just the ;.
			for j := i - 2; j >= 0; j-- {
				if j < i-2 && s[j] == '&' {
					i = j
					continue Trim
				}
				if !isLetterDigit(s[j]) {
					i--
					continue Trim
				}
			}
			i--
			continue Trim
		}
		break Trim
	}
	return s[:i]
}
