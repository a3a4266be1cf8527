// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package marked

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func text(s string) *Text { return &Text{Raw: s, Text: s} }

var lexTests = []struct {
	name string
	in   string
	want []Token
}{
	{
		"heading and paragraph",
		"# Hi\n\ntext\n",
		[]Token{
			&Heading{Raw: "# Hi\n\n", Depth: 1, Text: "Hi", Tokens: []Token{text("Hi")}},
			&Paragraph{Raw: "text\n", Text: "text", Tokens: []Token{text("text")}},
		},
	},
	{
		"definition",
		"[X]: /u \"T\"\n",
		[]Token{
			&Def{Raw: "[X]: /u \"T\"\n", Tag: "x", Href: "/u", Title: "T"},
		},
	},
	{
		"hr",
		"---\n",
		[]Token{&Hr{Raw: "---\n"}},
	},
	{
		"fence",
		"~~~\ncode\n~~~\n",
		[]Token{&Code{Raw: "~~~\ncode\n~~~\n", Text: "code"}},
	},
	{
		"emphasis",
		"*a*\n",
		[]Token{
			&Paragraph{Raw: "*a*\n", Text: "*a*", Tokens: []Token{
				&Em{Raw: "*a*", Text: "a", Tokens: []Token{text("a")}},
			}},
		},
	},
}

func TestLex(t *testing.T) {
	for _, tt := range lexTests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lex(tt.in, Defaults())
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Lex(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestLexInline(t *testing.T) {
	lx := newLexer(New(Defaults()).cfg)
	got, err := lx.lexInline("a *b* `c`")
	if err != nil {
		t.Fatal(err)
	}
	want := []Token{
		text("a "),
		&Em{Raw: "*b*", Text: "b", Tokens: []Token{text("b")}},
		text(" "),
		&Codespan{Raw: "`c`", Text: "c"},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("lexInline mismatch (-want +got):\n%s", diff)
	}
}

// Every token's source is a piece of the input, in order.
func TestLexSourceCovers(t *testing.T) {
	inputs := []string{
		"# Title\n\nSome *text* here.\n\n- one\n- two\n\n> quote\n\n```\ncode\n```\n",
		"a\nb\n\n    code\n\n***\n",
		"| a | b |\n|---|---|\n| 1 | 2 |\n\nafter\n",
	}
	for _, in := range inputs {
		tokens, err := Lex(in, Defaults())
		if err != nil {
			t.Fatal(err)
		}
		var all string
		for _, tok := range tokens {
			all += tok.Source()
		}
		if all != in {
			t.Errorf("Lex(%q): sources join to %q\n%s", in, all, Format(tokens))
		}
	}
}

func TestLinkTable(t *testing.T) {
	lx := newLexer(New(Defaults()).cfg)
	if !lx.DefineLink("Foo  Bar", LinkRef{Href: "/a"}) {
		t.Fatal("DefineLink failed")
	}
	if lx.DefineLink("foo bar", LinkRef{Href: "/b"}) {
		t.Error("DefineLink redefined a label")
	}
	ref, ok := lx.Link("FOO BAR")
	if !ok || ref.Href != "/a" {
		t.Errorf("Link = %v, %v, want /a, true", ref, ok)
	}
}

var normalizeLabelTests = []struct {
	in, want string
}{
	{"Foo", "foo"},
	{"  a \n\t b  ", "a b"},
	{"ẞ", "ss"},
}

func TestNormalizeLabel(t *testing.T) {
	for _, tt := range normalizeLabelTests {
		if got := normalizeLabel(tt.in); got != tt.want {
			t.Errorf("normalizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
