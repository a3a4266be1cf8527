// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package footnote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"rsc.io/marked"
)

func parse(t *testing.T, src string) string {
	t.Helper()
	md := marked.New(marked.Defaults()).MustUse(New())
	html, err := md.Parse(src)
	require.NoError(t, err)
	return html
}

func TestFootnote(t *testing.T) {
	html := parse(t, "Hi[^1].\n\n[^1]: Note.\n")
	assert.Equal(t, `<p>Hi<sup class="fn"><a id="fnref-1" href="#fn-1">1</a></sup>.</p>`+"\n"+
		`<div class="footnotes">Footnotes</div>`+"\n"+
		"<ol>\n"+
		`<li id="fn-1">`+"\n"+
		"<p>Note.\n"+
		`<a class="fnref" href="#fnref-1">↩</a></p>`+"\n"+
		"</li>\n"+
		"</ol>\n", html)
}

func TestFootnoteOrder(t *testing.T) {
	src := "[^b]: Bee.\n\n[^a]: Ay.\n\nFirst[^a], second[^b], again[^a].\n"
	html := parse(t, src)
	assert.Contains(t, html, `First<sup class="fn"><a id="fnref-1" href="#fn-1">1</a></sup>`)
	assert.Contains(t, html, `second<sup class="fn"><a id="fnref-2" href="#fn-2">2</a></sup>`)
	assert.Contains(t, html, `again<sup class="fn"><a id="fnref-1-2" href="#fn-1">1</a></sup>`)
	assert.Contains(t, html, `<li id="fn-1">`+"\n<p>Ay.\n"+
		`<a class="fnref" href="#fnref-1">↩</a>`+"\n"+
		`<a class="fnref" href="#fnref-1-2">↩</a></p>`)
	assert.Contains(t, html, `<li id="fn-2">`+"\n<p>Bee.\n")
}

func TestFootnoteUnused(t *testing.T) {
	html := parse(t, "Text.\n\n[^x]: Never used.\n")
	assert.Equal(t, "<p>Text.</p>\n", html)
}

func TestFootnoteUndefined(t *testing.T) {
	html := parse(t, "See [^nope].\n")
	assert.Equal(t, "<p>See [^nope].</p>\n", html)
}

func TestFootnoteCase(t *testing.T) {
	html := parse(t, "A[^Note].\n\n[^NOTE]: Folded.\n")
	assert.Contains(t, html, `<a id="fnref-1" href="#fn-1">1</a>`)
	assert.Contains(t, html, "<p>Folded.\n")
}

func TestFootnoteContinuation(t *testing.T) {
	src := "A[^1].\n\n[^1]: First paragraph.\n\n    Second paragraph.\n\nAfter.\n"
	html := parse(t, src)
	assert.Contains(t, html, "<p>After.</p>\n")
	assert.Contains(t, html, "<p>First paragraph.</p>\n<p>Second paragraph.\n"+
		`<a class="fnref" href="#fnref-1">↩</a></p>`)
}

func TestFootnoteDuplicate(t *testing.T) {
	md := marked.New(marked.Defaults()).MustUse(New())
	tokens, err := md.Lex("[^1]: One.\n\n[^1]: Two.\n")
	require.NoError(t, err)
	var notes int
	for _, tok := range tokens {
		if tok.Type() == Notes {
			notes++
		}
	}
	assert.Equal(t, 1, notes)
}

func TestFootnoteDisabled(t *testing.T) {
	html, err := marked.Parse("Hi[^1].\n", marked.Defaults())
	require.NoError(t, err)
	assert.Equal(t, "<p>Hi[^1].</p>\n", html)
}
