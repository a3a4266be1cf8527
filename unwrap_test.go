// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package marked

import "testing"

var stripOuterTagTests = []struct {
	in, out string
}{
	{"<p>text</p>\n", "text"},
	{"<p>a <em>b</em></p>", "a <em>b</em>"},
	{"<div><div>x</div></div>", "<div>x</div>"},
	{"<p>one</p>\n<p>two</p>\n", "<p>one</p>\n<p>two</p>\n"},
	{"plain", "plain"},
	{"", ""},
	{"<p>unclosed", "<p>unclosed"},
	{"<p></p>", ""},
}

func TestStripOuterTag(t *testing.T) {
	for _, tt := range stripOuterTagTests {
		if out := StripOuterTag(tt.in); out != tt.out {
			t.Errorf("StripOuterTag(%q) = %q, want %q", tt.in, out, tt.out)
		}
	}
}

func TestStripOuterTagParse(t *testing.T) {
	html, err := Parse("Just *one* paragraph.\n", Defaults())
	if err != nil {
		t.Fatal(err)
	}
	if out, want := StripOuterTag(html), "Just <em>one</em> paragraph."; out != want {
		t.Errorf("StripOuterTag(%q) = %q, want %q", html, out, want)
	}
}
