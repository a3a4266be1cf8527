// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package marked

import "strings"

// A Parser renders a token tree.
// Render overrides receive it so that they can render child tokens.
// A Parser is used once and then discarded.
type Parser struct {
	cfg   *config
	state *parseState
	plain bool // render text only
}

// parseState is shared by the HTML and text renderings of one parse.
type parseState struct {
	err     error
	dropped bool // an unknown token was skipped in silent mode
	slugger *Slugger
	text    *Parser
}

func newParser(cfg *config) *Parser {
	return &Parser{cfg: cfg, state: &parseState{slugger: NewSlugger()}}
}

// Options returns the options in effect.
func (p *Parser) Options() Options { return p.cfg.opts }

// Slugger returns the heading ID generator for this parse.
func (p *Parser) Slugger() *Slugger { return p.state.slugger }

// Fail records err as the error of the parse.
// Rendering continues, but the parse reports the first error.
func (p *Parser) Fail(err error) {
	if p.state.err == nil {
		p.state.err = err
	}
}

// Parse renders a sequence of block tokens.
func (p *Parser) Parse(tokens []Token) string {
	return p.parse(tokens, true)
}

// ParseInline renders a sequence of inline tokens.
func (p *Parser) ParseInline(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		if !inlineTypes[t.Type()] && !p.custom(t) {
			p.unknown(t)
			continue
		}
		b.WriteString(p.render(t))
	}
	return b.String()
}

// InlineText renders inline tokens as plain text, without markup.
// The text is HTML-escaped.
func (p *Parser) InlineText(tokens []Token) string {
	if p.state.text == nil {
		p.state.text = &Parser{cfg: p.cfg, state: p.state, plain: true}
	}
	return p.state.text.ParseInline(tokens)
}

// Default renders t with the built-in renderer, ignoring overrides.
func (p *Parser) Default(t Token) string {
	if p.plain {
		return p.renderText(t)
	}
	return p.renderHTML(t)
}

// parse renders block tokens. Runs of block text tokens
// are joined by newlines and, if top is set, wrapped in a paragraph.
func (p *Parser) parse(tokens []Token, top bool) string {
	var b strings.Builder
	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		if !blockTypes[t.Type()] && !p.custom(t) {
			p.unknown(t)
			continue
		}
		text, ok := t.(*Text)
		if !ok {
			b.WriteString(p.render(t))
			continue
		}
		body := p.render(text)
		for i+1 < len(tokens) {
			next, ok := tokens[i+1].(*Text)
			if !ok {
				break
			}
			i++
			body += "\n" + p.render(next)
		}
		if top {
			b.WriteString("<p>" + body + "</p>\n")
		} else {
			b.WriteString(body)
		}
	}
	return b.String()
}

// render renders t, trying the overrides for its type newest first.
func (p *Parser) render(t Token) string {
	if !p.plain {
		for _, f := range p.cfg.renderers[t.Type()] {
			if s, ok := f(p, t); ok {
				return s
			}
		}
	}
	return p.Default(t)
}

// custom reports whether t is an extension token.
func (p *Parser) custom(t Token) bool {
	_, ok := t.(*Custom)
	return ok
}

// unknown handles a token with no renderer in its context.
// It is an error, except in silent mode, where it is logged
// and the whole rendering yields an empty string.
func (p *Parser) unknown(t Token) {
	err := unknownToken(t)
	if p.cfg.opts.Silent {
		p.cfg.opts.logger().Error("markdown rendering stopped", "error", err)
		p.state.dropped = true
		return
	}
	p.Fail(err)
}

var blockTypes = map[string]bool{
	"space": true, "code": true, "heading": true, "hr": true,
	"blockquote": true, "list": true, "html": true, "def": true,
	"table": true, "paragraph": true, "text": true,
}

var inlineTypes = map[string]bool{
	"escape": true, "html": true, "link": true, "image": true,
	"strong": true, "em": true, "codespan": true, "br": true,
	"del": true, "text": true,
}
