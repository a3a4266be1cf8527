// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package marked

import "strings"

// A LinkRef is the target of a link reference definition.
type LinkRef struct {
	Href  string
	Title string
}

// A Lexer holds the state of a single tokenization:
// the link reference table, the inline span queue, and the
// top, inLink, and inRawBlock flags.
// Tokenizer rules and extensions receive it as their context.
// A Lexer is used once and then discarded.
type Lexer struct {
	cfg   *config
	g     *grammar
	links map[string]LinkRef
	queue []inlineSpan
	data  map[string]any
	err   error

	top        bool
	inLink     bool
	inRawBlock bool

	scan *inlineScan
}

// An inlineSpan is text waiting for inline tokenization,
// with the token list that will receive the result.
type inlineSpan struct {
	src string
	dst *[]Token
}

// inlineScan is the state of one InlineTokens call.
type inlineScan struct {
	masked   string // src with links, code, and escapes masked out
	prevChar rune   // last character of the preceding text token, or -1
	closers  [2]int // lastCloser results for * and _, plus one; 0 if not yet computed

	// Set when a search for an HTML terminator failed,
	// so the rest of the span is not searched again.
	noCommentEnd  bool
	noDeclEnd     bool
	noCDATAEnd    bool
	noProcInstEnd bool
}

func newLexer(cfg *config) *Lexer {
	return &Lexer{
		cfg:   cfg,
		g:     grammarFor(&cfg.opts),
		links: make(map[string]LinkRef),
		top:   true,
	}
}

// lex tokenizes src: blocks first, then every queued inline span in order.
func (lx *Lexer) lex(src string) ([]Token, error) {
	src = normalize(src, lx.g.pedantic)
	tokens := lx.blockTokens(src, nil, false)
	for i := 0; i < len(lx.queue) && lx.err == nil; i++ {
		q := lx.queue[i]
		*q.dst = lx.inlineTokens(q.src, *q.dst)
	}
	lx.queue = nil
	if lx.err != nil {
		if lx.cfg.opts.Silent {
			lx.cfg.opts.logger().Error("markdown tokenization stopped", "error", lx.err)
			return tokens, nil
		}
		return nil, lx.err
	}
	return tokens, nil
}

// lexInline tokenizes src as a single inline span,
// with no block structure and no link reference definitions.
func (lx *Lexer) lexInline(src string) ([]Token, error) {
	tokens := lx.inlineTokens(src, nil)
	if lx.err != nil {
		if lx.cfg.opts.Silent {
			lx.cfg.opts.logger().Error("markdown tokenization stopped", "error", lx.err)
			return tokens, nil
		}
		return nil, lx.err
	}
	return tokens, nil
}

// fail records the first fatal error. Tokenization stops after it.
func (lx *Lexer) fail(err error) {
	if lx.err == nil {
		lx.err = err
	}
}

// Options returns the options in effect.
func (lx *Lexer) Options() Options { return lx.cfg.opts }

// Top reports whether paragraphs are currently allowed,
// which is false while tokenizing the content of a list item.
func (lx *Lexer) Top() bool { return lx.top }

// InLink reports whether the tokenizer is inside link text.
func (lx *Lexer) InLink() bool { return lx.inLink }

// InRawBlock reports whether the tokenizer is inside a raw HTML
// element such as <pre>, where text is not escaped.
func (lx *Lexer) InRawBlock() bool { return lx.inRawBlock }

// Link returns the target of the reference definition for label.
func (lx *Lexer) Link(label string) (LinkRef, bool) {
	ref, ok := lx.links[normalizeLabel(label)]
	return ref, ok
}

// DefineLink records a reference definition for label
// unless one already exists, reporting whether it was recorded.
func (lx *Lexer) DefineLink(label string, ref LinkRef) bool {
	key := normalizeLabel(label)
	if key == "" {
		return false
	}
	if _, ok := lx.links[key]; ok {
		return false
	}
	lx.links[key] = ref
	return true
}

// Data returns a map private to this tokenization,
// for extensions that need state across calls.
func (lx *Lexer) Data() map[string]any {
	if lx.data == nil {
		lx.data = make(map[string]any)
	}
	return lx.data
}

// BlockTokens tokenizes src as a sequence of blocks.
// Inline content is queued and filled in after block tokenization finishes.
func (lx *Lexer) BlockTokens(src string) []Token {
	return lx.blockTokens(src, nil, false)
}

// Inline queues src for inline tokenization into *dst.
func (lx *Lexer) Inline(src string, dst *[]Token) {
	lx.queue = append(lx.queue, inlineSpan{src, dst})
}

// InlineTokens tokenizes src as inline content immediately.
func (lx *Lexer) InlineTokens(src string) []Token {
	return lx.inlineTokens(src, nil)
}

// requeue replaces the source of the most recently queued span.
func (lx *Lexer) requeue(src string) {
	if n := len(lx.queue); n > 0 {
		lx.queue[n-1].src = src
	}
}

// unqueue drops the most recently queued span.
func (lx *Lexer) unqueue() {
	if n := len(lx.queue); n > 0 {
		lx.queue = lx.queue[:n-1]
	}
}

// blockTokens appends the block tokens of src to tokens.
// If clipped is set, a leading paragraph continues the last paragraph
// in tokens, which happens when a block quote resumes after lazy lines.
func (lx *Lexer) blockTokens(src string, tokens []Token, clipped bool) []Token {
	if lx.g.pedantic {
		src = pedanticClean(src)
	}
	for src != "" && lx.err == nil {
		if t, ok := lx.extension(lx.cfg.block, src, tokens, "block"); ok {
			if t == nil {
				break
			}
			src = src[len(t.Source()):]
			tokens = append(tokens, t)
			continue
		}

		var t Token
		var name string
		cut := src
		for _, r := range lx.cfg.blockRules {
			in := src
			if r.name == "paragraph" {
				if !lx.top {
					continue
				}
				cut = cutAtStart(lx.cfg.startBlock, src)
				in = cut
			}
			if t = r.fn(lx, in); t != nil {
				name = r.name
				break
			}
		}
		if t == nil || t.Source() == "" || len(t.Source()) > len(src) {
			lx.fail(noRule("block", src))
			break
		}
		src = src[len(t.Source()):]

		var last Token
		if len(tokens) > 0 {
			last = tokens[len(tokens)-1]
		}
		switch name {
		case "space":
			// A single newline ends the previous block's last line.
			if t.Source() == "\n" && last != nil {
				*last.rawPtr() += "\n"
				continue
			}
		case "code":
			// An indented code block cannot interrupt a paragraph.
			if c, ok := t.(*Code); ok && appendText(last, c.Raw, c.Text) {
				lx.requeue(textOf(last))
				continue
			}
		case "def":
			if d, ok := t.(*Def); ok {
				if appendText(last, d.Raw, d.Raw) {
					lx.requeue(textOf(last))
					continue
				}
				if _, dup := lx.links[d.Tag]; !dup {
					lx.links[d.Tag] = LinkRef{d.Href, d.Title}
				}
			}
		case "paragraph":
			p, ok := t.(*Paragraph)
			if lp, lok := last.(*Paragraph); ok && lok && clipped {
				lp.Raw = joinRaw(lp.Raw, p.Raw)
				lp.Text += "\n" + p.Text
				lx.unqueue()
				lx.requeue(lp.Text)
				clipped = len(cut) != len(src)+len(t.Source())
				continue
			}
			clipped = len(cut) != len(src)+len(t.Source())
		case "text":
			if lt, ok := last.(*Text); ok {
				if tt, ok := t.(*Text); ok {
					lt.Raw = joinRaw(lt.Raw, tt.Raw)
					lt.Text += "\n" + tt.Text
					lx.unqueue()
					lx.requeue(lt.Text)
					continue
				}
			}
		}
		tokens = append(tokens, t)
	}
	return tokens
}

// appendText appends a continuation to a preceding paragraph or text token,
// reporting whether last was one.
func appendText(last Token, raw, text string) bool {
	switch last := last.(type) {
	case *Paragraph:
		last.Raw = joinRaw(last.Raw, raw)
		last.Text += "\n" + text
		return true
	case *Text:
		last.Raw = joinRaw(last.Raw, raw)
		last.Text += "\n" + text
		return true
	}
	return false
}

func textOf(t Token) string {
	switch t := t.(type) {
	case *Paragraph:
		return t.Text
	case *Text:
		return t.Text
	}
	return ""
}

// extension runs the extension tokenizers for one level.
// It reports whether one matched; a match with a nil token
// means the extension consumed nothing and lexing has failed.
func (lx *Lexer) extension(list []*Tokenizer, src string, tokens []Token, level string) (Token, bool) {
	for _, ext := range list {
		t := ext.Tokenize(lx, src, tokens)
		if t == nil {
			continue
		}
		if raw := t.Source(); raw == "" || len(raw) > len(src) {
			lx.fail(noRule(level, src))
			return nil, true
		}
		return t, true
	}
	return nil, false
}

// cutAtStart truncates src just before the earliest point, after its first byte,
// where an extension's Start function reports its construct could begin.
func cutAtStart(starts []func(string) int, src string) string {
	if len(starts) == 0 || len(src) < 2 {
		return src
	}
	min := -1
	for _, start := range starts {
		if i := start(src[1:]); i >= 0 && (min < 0 || i < min) {
			min = i
		}
	}
	if min < 0 {
		return src
	}
	return src[:min+1]
}

// inlineTokens appends the inline tokens of src to tokens.
func (lx *Lexer) inlineTokens(src string, tokens []Token) []Token {
	scan := &inlineScan{masked: lx.mask(src), prevChar: -1}
	saved := lx.scan
	lx.scan = scan
	defer func() { lx.scan = saved }()

	keepPrev := false
	for src != "" && lx.err == nil {
		if !keepPrev {
			scan.prevChar = -1
		}
		keepPrev = false

		if t, ok := lx.extension(lx.cfg.inline, src, tokens, "inline"); ok {
			if t == nil {
				break
			}
			src = src[len(t.Source()):]
			tokens = append(tokens, t)
			continue
		}

		var t Token
		var name string
		for _, r := range lx.cfg.inlineRules {
			in := src
			if r.name == "inlineText" {
				in = cutAtStart(lx.cfg.startInline, src)
			}
			if t = r.fn(lx, in); t != nil {
				name = r.name
				break
			}
		}
		if t == nil || t.Source() == "" || len(t.Source()) > len(src) {
			lx.fail(noRule("inline", src))
			break
		}
		src = src[len(t.Source()):]

		if name == "inlineText" {
			raw := t.Source()
			if !strings.HasSuffix(raw, "_") {
				scan.prevChar = lastRune(raw)
			}
			keepPrev = true
		}
		if tt, ok := t.(*Text); ok && len(tokens) > 0 {
			if lt, ok := tokens[len(tokens)-1].(*Text); ok && lt.Escaped == tt.Escaped && lt.Tokens == nil {
				lt.Raw += tt.Raw
				lt.Text += tt.Text
				continue
			}
		}
		tokens = append(tokens, t)
	}
	return tokens
}

// mask returns src with spans that cannot contain emphasis delimiters
// replaced by placeholder text of the same length:
// reference links with known labels, inline links, code spans, tags,
// and backslash escapes.
func (lx *Lexer) mask(src string) string {
	if !strings.ContainsAny(src, "[`<\\") {
		return src
	}
	b := []byte(src)
	lx.maskRefLinks(b)
	for _, m := range blockSkipRE.FindAllIndex(b, -1) {
		fill(b[m[0]:m[1]], '[', 'a', ']')
	}
	for i := 0; i+1 < len(b); i++ {
		if b[i] == '\\' && isPunct(b[i+1]) {
			b[i], b[i+1] = '+', '+'
			i++
		}
	}
	return string(b)
}

// fill overwrites b with open, then repeated mid, then close.
func fill(b []byte, open, mid, close byte) {
	for i := range b {
		b[i] = mid
	}
	b[0] = open
	b[len(b)-1] = close
}
