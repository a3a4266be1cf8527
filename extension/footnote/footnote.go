// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package footnote implements GitHub-style footnotes as a [marked.Extension].
//
// A footnote definition is a block starting with [^label]: followed by
// the note text. Further lines of the note are indented four spaces.
// A reference [^label] in running text becomes a superscript link to the
// note. Notes are numbered in order of first reference and listed at the
// end of the document; notes that are never referenced are dropped.
//
//	md := marked.New(marked.Defaults()).MustUse(footnote.New())
package footnote

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"rsc.io/marked"
)

// Token types.
const (
	// Notes is the type of a footnote definition and of the
	// list of notes appended to the document.
	Notes = "footnotes"

	// Ref is the type of a footnote reference.
	Ref = "footnoteRef"
)

const dataKey = "footnote.labels"

var (
	defRE   = regexp.MustCompile(`^ {0,3}\[\^([^\]\s]+)\]:[ \t]*`)
	startRE = regexp.MustCompile(`(?m)^ {0,3}\[\^[^\]\s]+\]:`)
	refRE   = regexp.MustCompile(`^\[\^([^\]\s]+)\]`)
)

// New returns the footnote extension.
func New() *marked.Extension {
	return &marked.Extension{
		Name: "footnote",
		Tokenizers: []marked.Tokenizer{
			{
				Name:     Notes,
				Level:    "block",
				Start:    startDef,
				Tokenize: tokenizeDef,
			},
			{
				Name:     Ref,
				Level:    "inline",
				Start:    func(src string) int { return strings.Index(src, "[^") },
				Tokenize: tokenizeRef,
			},
		},
		Renderers: map[string]marked.RenderFunc{
			Notes: renderNotes,
			Ref:   renderRef,
		},
		Hooks: marked.Hooks{
			ProcessAllTokens: number,
		},
	}
}

// A note is a footnote in the rendered list.
type note struct {
	num    string
	tokens []marked.Token
	refs   []string // ids of the references to the note
}

func fold(label string) string {
	return cases.Fold().String(label)
}

// labels returns the set of footnote labels defined so far in this parse.
func labels(lx *marked.Lexer) map[string]bool {
	m, _ := lx.Data()[dataKey].(map[string]bool)
	if m == nil {
		m = make(map[string]bool)
		lx.Data()[dataKey] = m
	}
	return m
}

func startDef(src string) int {
	if m := startRE.FindStringIndex(src); m != nil {
		return m[0]
	}
	return -1
}

// tokenizeDef matches a footnote definition and the indented lines after it.
// Blank lines are part of the note if an indented line follows them.
// A second definition for a label is not a footnote.
func tokenizeDef(lx *marked.Lexer, src string, _ []marked.Token) marked.Token {
	m := defRE.FindStringSubmatch(src)
	if m == nil {
		return nil
	}
	label := fold(m[1])
	defs := labels(lx)
	if defs[label] {
		return nil
	}

	line, rest, _ := strings.Cut(src[len(m[0]):], "\n")
	body := []string{line}
	end := len(src) - len(rest)
	for end < len(src) {
		line, _, _ := strings.Cut(src[end:], "\n")
		if strings.HasPrefix(line, "    ") {
			body = append(body, line[4:])
			end = next(src, end)
			continue
		}
		if strings.TrimLeft(line, " \t") != "" {
			break
		}
		j := end
		var blanks []string
		for j < len(src) {
			l, _, _ := strings.Cut(src[j:], "\n")
			if strings.TrimLeft(l, " \t") != "" {
				break
			}
			blanks = append(blanks, "")
			j = next(src, j)
		}
		if j >= len(src) || !strings.HasPrefix(src[j:], "    ") {
			break
		}
		body = append(body, blanks...)
		end = j
	}

	defs[label] = true
	text := strings.Join(body, "\n")
	return &marked.Custom{
		Name:   Notes,
		Raw:    src[:end],
		Text:   text,
		Block:  true,
		Tokens: lx.BlockTokens(text),
		Data:   map[string]any{"label": label},
	}
}

// next returns the start of the line after the one at s[i:].
func next(s string, i int) int {
	if j := strings.IndexByte(s[i:], '\n'); j >= 0 {
		return i + j + 1
	}
	return len(s)
}

// tokenizeRef matches a reference to a defined footnote.
func tokenizeRef(lx *marked.Lexer, src string, _ []marked.Token) marked.Token {
	m := refRE.FindStringSubmatch(src)
	if m == nil {
		return nil
	}
	label := fold(m[1])
	if !labels(lx)[label] {
		return nil
	}
	return &marked.Custom{
		Name: Ref,
		Raw:  m[0],
		Text: m[1],
		Data: map[string]any{"label": label},
	}
}

// number removes the definitions from the document, numbers the notes
// in order of first reference, and appends the list of referenced notes.
func number(tokens []marked.Token) ([]marked.Token, error) {
	defs := make(map[string]*marked.Custom)
	tokens = removeDefs(tokens, defs)
	if len(defs) == 0 {
		return tokens, nil
	}

	var notes []*note
	byLabel := make(map[string]*note)
	visit := func(t marked.Token) error {
		c, ok := t.(*marked.Custom)
		if !ok || c.Name != Ref {
			return nil
		}
		label, _ := c.Data["label"].(string)
		n := byLabel[label]
		if n == nil {
			def := defs[label]
			if def == nil {
				return nil
			}
			n = &note{num: strconv.Itoa(len(notes) + 1), tokens: def.Tokens}
			byLabel[label] = n
			notes = append(notes, n)
		}
		id := n.num
		if len(n.refs) > 0 {
			id += "-" + strconv.Itoa(len(n.refs)+1)
		}
		n.refs = append(n.refs, id)
		c.Data["num"] = n.num
		c.Data["id"] = id
		return nil
	}
	marked.Walk(tokens, visit)
	// Notes can refer to other notes.
	for i := 0; i < len(notes); i++ {
		marked.Walk(notes[i].tokens, visit)
	}
	if len(notes) == 0 {
		return tokens, nil
	}
	list := &marked.Custom{Name: Notes, Block: true, Data: map[string]any{"notes": notes}}
	return append(tokens, list), nil
}

// removeDefs removes the footnote definitions from tokens and the
// block containers in it, recording them in defs.
func removeDefs(tokens []marked.Token, defs map[string]*marked.Custom) []marked.Token {
	out := tokens[:0]
	for _, t := range tokens {
		switch t := t.(type) {
		case *marked.Custom:
			if t.Name == Notes {
				if label, ok := t.Data["label"].(string); ok {
					defs[label] = t
					continue
				}
			}
		case *marked.Blockquote:
			t.Tokens = removeDefs(t.Tokens, defs)
		case *marked.List:
			for _, item := range t.Items {
				item.Tokens = removeDefs(item.Tokens, defs)
			}
		}
		out = append(out, t)
	}
	return out
}

func renderRef(p *marked.Parser, t marked.Token) (string, bool) {
	c := t.(*marked.Custom)
	num, _ := c.Data["num"].(string)
	id, _ := c.Data["id"].(string)
	if num == "" {
		// Not numbered: render the reference as written.
		return p.ParseInline([]marked.Token{&marked.Text{Raw: c.Raw, Text: c.Raw}}), true
	}
	return `<sup class="fn"><a id="fnref-` + id + `" href="#fn-` + num + `">` + num + `</a></sup>`, true
}

// renderNotes renders the list of notes. A definition left in the
// document renders as nothing.
func renderNotes(p *marked.Parser, t marked.Token) (string, bool) {
	c := t.(*marked.Custom)
	notes, _ := c.Data["notes"].([]*note)
	if notes == nil {
		return "", true
	}
	var b strings.Builder
	b.WriteString(`<div class="footnotes">Footnotes</div>` + "\n")
	b.WriteString("<ol>\n")
	for _, n := range notes {
		b.WriteString(`<li id="fn-` + n.num + `">` + "\n")
		body, ok := strings.CutSuffix(p.Parse(n.tokens), "</p>\n")
		b.WriteString(body)
		if !ok {
			b.WriteString("<p>\n")
		}
		for _, ref := range n.refs {
			b.WriteString("\n" + `<a class="fnref" href="#fnref-` + ref + `">↩</a>`)
		}
		b.WriteString("</p>\n")
		b.WriteString("</li>\n")
	}
	b.WriteString("</ol>\n")
	return b.String(), true
}
