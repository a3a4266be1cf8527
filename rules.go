// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package marked

import (
	"regexp"
	"strings"
)

// A ruleEdit builds a regular expression from a pattern
// by substituting named sub-patterns into it.
//
//	edit(`^ {0,3}\[(label)\]:`).replace("label", labelPattern).compile()
type ruleEdit struct {
	src string
}

func edit(pattern string) *ruleEdit {
	return &ruleEdit{pattern}
}

// replace substitutes sub for every occurrence of name.
// A leading ^ anchor in sub is dropped, since sub is being
// inserted into the middle of a larger pattern.
func (e *ruleEdit) replace(name, sub string) *ruleEdit {
	e.src = strings.ReplaceAll(e.src, name, stripAnchor(sub))
	return e
}

func (e *ruleEdit) compile() *regexp.Regexp {
	return regexp.MustCompile(e.src)
}

// stripAnchor removes ^ anchors from pattern,
// leaving negated character classes like [^x] alone.
func stripAnchor(pattern string) string {
	if !strings.Contains(pattern, "^") {
		return pattern
	}
	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c == '\\' && i+1 < len(pattern) {
			b.WriteByte(c)
			b.WriteByte(pattern[i+1])
			i++
			continue
		}
		if c == '^' && (i == 0 || pattern[i-1] != '[') {
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// Shared sub-patterns.
const (
	bulletPattern     = `(?:[*+-]|\d{1,9}[.)])`
	blockLabelPattern = `(?:\\.|[^\[\]\\])+`
	defTitlePattern   = `(?:"(?:\\"?|[^"\\])*"|'[^'\n]*(?:\n[^'\n]+)*\n?'|\([^()]*\))`

	// inlineLabelPattern matches link text: nested brackets one level deep,
	// escapes, and code spans.
	inlineLabelPattern = "(?:\\[(?:\\\\.|[^\\[\\]\\\\])*\\]|\\\\.|`[^`]*`|[^\\[\\]\\\\`])*?"

	// blockTags are the tag names that start an HTML block of type 6.
	blockTags = `address|article|aside|base|basefont|blockquote|body|caption` +
		`|center|col|colgroup|dd|details|dialog|dir|div|dl|dt|fieldset|figcaption` +
		`|figure|footer|form|frame|frameset|h[1-6]|head|header|hr|html|iframe` +
		`|legend|li|link|main|menu|menuitem|meta|nav|noframes|ol|optgroup|option` +
		`|p|param|search|section|summary|table|tbody|td|tfoot|th|thead|title` +
		`|tr|track|ul`
)

var (
	spaceRE = regexp.MustCompile(`^(?:[ \t]*(?:\n|$))+`)
	codeRE  = regexp.MustCompile(`^(?: {4}[^\n]+(?:\n(?:[ \t]*(?:\n|$))*)?)+`)
	hrRE    = regexp.MustCompile(`^ {0,3}(?:(?:-[\t ]*){3,}|(?:_[ \t]*){3,}|(?:\*[ \t]*){3,})(?:\n+|$)`)
	textRE  = regexp.MustCompile(`^[^\n]+`)

	headingRE         = regexp.MustCompile(`^ {0,3}(#{1,6})((?:[ \t\v\f][^\n]*)?)(?:\n+|$)`)
	headingPedanticRE = regexp.MustCompile(`^(#{1,6})([^\n]*)(?:\n+|$)`)

	defRE = edit(`^ {0,3}\[(label)\]: *(?:\n *)?([^<\s][^\s]*|<.*?>)(?:(?: +(?:\n *)?| *\n *)(title))? *(?:\n+|$)`).
		replace("label", blockLabelPattern).
		replace("title", defTitlePattern).
		compile()
	defPedanticRE = regexp.MustCompile(`^ *\[([^\]]+)\]: *<?([^\s>]+)>?(?: +(["(][^\n]+[")]))? *(?:\n+|$)`)

	lheadingPedanticRE = regexp.MustCompile(`^([^\n]+?)\n {0,3}(=+|-+) *(?:\n+|$)`)
	setextUnderlineRE  = regexp.MustCompile(`^ {0,3}(=+|-+) *$`)
	tableDelimRE       = regexp.MustCompile(`^ {0,3}(?:\| *)?:?-+:? *(?:\| *:?-+:? *)*(?:\| *)?$`)

	// Line-level tests for constructs that interrupt a paragraph.
	headingStartRE         = regexp.MustCompile(`^ {0,3}#{1,6}(?:[ \t]|$)`)
	headingStartPedanticRE = regexp.MustCompile(`^ *#{1,6} *[^ ]`)
	listStartRE            = regexp.MustCompile(`^ {0,3}(?:[*+-]|1[.)]) `)
	htmlStartRE            = edit(`^(?:</?(?:tag)(?: +|$|/?>)|<(?:script|pre|style|textarea|!--))`).
				replace("tag", blockTags).
				compile()
	blockHTMLTagRE = edit(`^(?i)(?:tag)$`).replace("tag", blockTags).compile()

	escapeRE = regexp.MustCompile("^\\\\([!\"#$%&'()*+,\\-./:;<=>?@\\[\\]\\\\^_`{|}~])")

	// The masking sweeps run over the whole inline span.
	blockSkipRE = regexp.MustCompile("\\[[^\\[\\]]*?\\]\\((?:\\\\.|[^\\\\\\(\\)]|\\((?:\\\\.|[^\\\\\\(\\)])*\\))*\\)|`[^`]*?`|<[^<>]*?>")
	reflinkRE   = edit(`!?\[(label)\]\[(ref)\]`).
			replace("label", inlineLabelPattern).
			replace("ref", blockLabelPattern).
			compile()
	nolinkRE = edit(`!?\[(ref)\](?:\[\])?`).replace("ref", blockLabelPattern).compile()

	urlRE   = regexp.MustCompile(`(?i)^(?:(?:ftp|https?)://|www\.)(?:[a-zA-Z0-9\-]+\.?)+[^\s<]*`)
	emailRE = regexp.MustCompile(`^[A-Za-z0-9._+-]+@[a-zA-Z0-9_-]+(?:\.[a-zA-Z0-9_-]*[a-zA-Z0-9])+`)
)

// A grammar is the rule table for one combination of options.
type grammar struct {
	gfm      bool
	breaks   bool
	pedantic bool
	block    []rule
	inline   []rule
}

// A rule matches one construct at the start of src,
// returning nil if there is none.
type rule struct {
	name string
	fn   func(lx *Lexer, src string) Token
}

// blockRules lists the block rules in priority order.
var blockRules = []rule{
	{"space", lexSpace},
	{"code", lexIndentedCode},
	{"fences", lexFences},
	{"heading", lexHeading},
	{"hr", lexHr},
	{"blockquote", lexBlockquote},
	{"list", lexList},
	{"html", lexHTMLBlock},
	{"def", lexDef},
	{"table", lexTable},
	{"lheading", lexSetextHeading},
	{"paragraph", lexParagraph},
	{"text", lexText},
}

// inlineRules lists the inline rules in priority order.
var inlineRules = []rule{
	{"escape", lexEscape},
	{"tag", lexTag},
	{"link", lexLink},
	{"reflink", lexRefLink},
	{"emStrong", lexEmStrong},
	{"codespan", lexCodespan},
	{"br", lexBr},
	{"del", lexDel},
	{"autolink", lexAutoLink},
	{"url", lexURL},
	{"inlineText", lexInlineText},
}

// isRuleName reports whether name is a built-in rule at either level.
func isRuleName(name string) bool {
	for _, r := range blockRules {
		if r.name == name {
			return true
		}
	}
	for _, r := range inlineRules {
		if r.name == name {
			return true
		}
	}
	return false
}

type mode int

const (
	modeNormal mode = iota
	modeGFM
	modeBreaks
	modePedantic
	numModes
)

// grammars holds the rule table for each mode, built once.
var grammars = func() [numModes]*grammar {
	normal := without(blockRules, "table")
	plain := without(inlineRules, "del", "url")
	var g [numModes]*grammar
	g[modeNormal] = &grammar{block: normal, inline: plain}
	g[modeGFM] = &grammar{gfm: true, block: blockRules, inline: inlineRules}
	g[modeBreaks] = &grammar{gfm: true, breaks: true, block: blockRules, inline: inlineRules}
	g[modePedantic] = &grammar{pedantic: true, block: without(normal, "fences"), inline: plain}
	return g
}()

// without returns a copy of rules without the named rules.
func without(rules []rule, names ...string) []rule {
	var out []rule
Rules:
	for _, r := range rules {
		for _, name := range names {
			if r.name == name {
				continue Rules
			}
		}
		out = append(out, r)
	}
	return out
}

// grammarFor returns the grammar selected by o.
// Pedantic takes precedence over GFM; Breaks needs GFM.
func grammarFor(o *Options) *grammar {
	switch {
	case o.Pedantic:
		return grammars[modePedantic]
	case o.GFM && o.Breaks:
		return grammars[modeBreaks]
	case o.GFM:
		return grammars[modeGFM]
	}
	return grammars[modeNormal]
}
