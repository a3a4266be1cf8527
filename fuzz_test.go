// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package marked

import (
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"
)

// Fuzz checks that every grammar accepts any input
// and renders it the same way each time.
func Fuzz(f *testing.F) {
	files, err := filepath.Glob("testdata/*.txt")
	if err != nil {
		f.Fatal(err)
	}
	for _, file := range files {
		a, err := txtar.ParseFile(file)
		if err != nil {
			f.Fatal(err)
		}
		for i := 0; i+2 <= len(a.Files); i += 2 {
			md := a.Files[i]
			html := a.Files[i+1]
			name := strings.TrimSuffix(md.Name, ".md")
			if name != strings.TrimSuffix(html.Name, ".html") {
				f.Fatalf("mismatched file pair: %s and %s", md.Name, html.Name)
			}
			f.Add(decode(string(md.Data)))
		}
	}
	compilers := []*Marked{
		New(Options{}),
		New(Defaults()),
		New(Options{GFM: true, Breaks: true, HeaderIDs: true}),
		New(Options{Pedantic: true}),
	}
	f.Fuzz(func(t *testing.T, s string) {
		for _, md := range compilers {
			out, err := md.Parse(s)
			if err != nil {
				t.Fatalf("Parse(%q) with %+v: %v", s, md.Options(), err)
			}
			again, _ := md.Parse(s)
			if out != again {
				t.Fatalf("Parse(%q) with %+v is not deterministic:\n%q\n%q", s, md.Options(), out, again)
			}
			if _, err := md.ParseInline(s); err != nil {
				t.Fatalf("ParseInline(%q) with %+v: %v", s, md.Options(), err)
			}
		}
	})
}
