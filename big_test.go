// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package marked

import (
	"fmt"
	"strings"
	"testing"
)

var rep = strings.Repeat

func repf(f func(int) string, n int) string {
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = f(i)
	}
	return strings.Join(out, "")
}

// Many cases here derived from cmark-gfm/test/pathological_tests.py.
// Nested emphasis and link openers search ahead for their closers,
// so those cases are smaller than in cmark-gfm.

var bigTests = []struct {
	name string
	in   string
	out  string
}{
	{
		"nested strong emph",
		rep("*a **a ", 500) + "b" + rep(" a** a*", 500),
		"<p>" + rep("<em>a <strong>a ", 500) + "b" + rep(" a</strong> a</em>", 500) + "</p>\n",
	},
	{
		"many emph closers with no openers",
		rep("a_ ", 65000),
		"",
	},
	{
		"many emph openers with no closers",
		rep("_a ", 65000),
		"",
	},
	{
		"emph openers with one closer",
		rep("*a ", 5000) + "b*",
		"<p>" + rep("*a ", 4999) + "<em>a b</em></p>\n",
	},
	{
		"many link closers with no openers",
		rep("a]", 5000),
		"",
	},
	{
		"many link openers with no closers",
		rep("[a", 2000),
		"",
	},
	{
		"mismatched openers and closers",
		rep("*a_ ", 50000),
		"",
	},
	{
		"nested block quotes",
		rep("> ", 300) + "a",
		rep("<blockquote>\n", 300) + "<p>a</p>\n" + rep("</blockquote>\n", 300),
	},
	{
		"deeply nested lists",
		repf(func(x int) string { return rep("  ", x) + "* a\n" }, 100),
		"<ul>\n" + rep("<li>a<ul>\n", 100-1) + "<li>a</li>\n" + rep("</ul>\n</li>\n", 100-1) + "</ul>\n",
	},
	{
		"backticks",
		repf(func(x int) string { return "e" + rep("`", x) }, 300),
		"",
	},
	{
		"unclosed links B",
		rep("[a](b", 3000),
		"",
	},
	{
		"unclosed <!--",
		"</" + rep(" <!--", 3000),
		"<p>&lt;/" + rep(" &lt;!--", 3000) + "</p>\n",
	},
	{
		"tables",
		rep("abc\ndef\n|-\n", 3000),
		"<p>abc</p>\n<table>\n<thead>\n<tr>\n<th>def</th>\n</tr>\n</thead>\n<tbody>" +
			rep("<tr>\n<td>abc</td>\n</tr>\n<tr>\n<td>def</td>\n</tr>\n<tr>\n<td>-</td>\n</tr>\n", 3000-1) +
			"</tbody></table>\n",
	},
}

func compress(s string) string {
	var out []byte
	start := 0
S:
	for i := 0; i+4 < len(s); i++ {
		c := s[i]
		for j := i + 1; j < i+100 && j < len(s); j++ {
			if s[j] == c {
				n := 1
				w := j - i
				for j+w <= len(s) && s[i:i+w] == s[j:j+w] {
					j += w
					n++
				}
				if n > 2 {
					out = append(out, s[start:i]...)
					out = fmt.Appendf(out, "«%d:%s»", n, s[i:i+w])
					start = j
					i = start - 1
					continue S
				}
			}
		}
	}
	out = append(out, s[start:]...)
	return string(out)
}

func TestBig(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping in -short mode")
	}
	md := New(Defaults())
	for _, tt := range bigTests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := md.Parse(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if tt.out == "" {
				tt.out = "<p>" + strings.TrimSpace(tt.in) + "</p>\n"
			}
			if out != tt.out {
				t.Fatalf("%s: Parse(%q):\nhave %q\nwant %q", tt.name, compress(tt.in), compress(out), compress(tt.out))
			}
		})
	}
}

func bench(b *testing.B, text string) {
	md := New(Defaults())
	for i := 0; i < b.N; i++ {
		if _, err := md.Parse(text); err != nil {
			b.Fatal(err)
		}
	}
	b.SetBytes(int64(len(text)))
}

func BenchmarkBrackets(b *testing.B) {
	bench(b, rep("[", 1000)+"a"+rep("]", 1000))
}

func BenchmarkDeepList(b *testing.B) {
	bench(b, repf(func(x int) string { return rep("  ", x) + "* a\n" }, 100))
}

func BenchmarkList(b *testing.B) {
	bench(b, repf(func(x int) string { return "* a\n" }, 1000))
}

func BenchmarkDocument(b *testing.B) {
	doc := "# Title\n\nSome *emphasis* and **strong** text with `code` and a [link](/u).\n\n" +
		"- item one\n- item two\n\n> quoted\n\n```go\nfunc main() {}\n```\n\n| a | b |\n|---|---|\n| 1 | 2 |\n\n"
	bench(b, rep(doc, 50))
}
