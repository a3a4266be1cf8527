// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package marked converts Markdown to HTML.
//
// It implements the grammar of the marked JavaScript library in three
// flavors: the original Markdown syntax ([Options].Pedantic), CommonMark
// without extensions, and GitHub Flavored Markdown ([Options].GFM), which
// adds tables, strikethrough, task lists, and bare URL links.
//
// Conversion runs in fixed steps: the Preprocess hooks rewrite the
// source, the lexer turns it into a tree of [Token] values, the
// ProcessAllTokens hooks and WalkTokens visitors may rewrite that tree,
// the parser renders it, and the Postprocess hooks rewrite the HTML.
//
//	html, err := marked.Parse("Hello, *world*!", marked.Defaults())
//
// A [Marked] holds options and extensions and is safe for concurrent use.
// [Marked.Use] returns a new instance with more extensions:
//
//	md := marked.New(marked.Defaults()).MustUse(&marked.Extension{
//		Renderers: map[string]marked.RenderFunc{
//			"hr": func(p *marked.Parser, t marked.Token) (string, bool) {
//				return "<hr class=\"rule\">\n", true
//			},
//		},
//	})
//
// An [Extension] can add tokenizers that produce [*Custom] tokens,
// replace built-in rules by name, override the renderer of any token
// type, and register hooks. Overrides registered later run first;
// one that reports false defers to the one before it and finally
// to the built-in behavior.
//
// Errors are never expected from ordinary Markdown: every input has
// a rendering. They come from extensions, as [ErrNoRule] when a tokenizer
// claims a match without consuming input, [ErrUnknownToken] when a token
// has no renderer, or an error returned by a hook or visitor.
// With [Options].Silent set, such errors are logged and reported in
// the output instead.
package marked
