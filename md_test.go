// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package marked

import (
	"bytes"
	"flag"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	gparser "github.com/yuin/goldmark/parser"
	ghtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/tools/txtar"
	"gopkg.in/yaml.v3"
)

var goldmarkFlag = flag.Bool("goldmark", false, "run goldmark tests")

// archiveOptions are the options in the comment of a test archive.
type archiveOptions struct {
	Options `yaml:",inline"`

	// Goldmark marks cases whose output is plain CommonMark,
	// which goldmark must produce too.
	Goldmark bool `yaml:"goldmark"`
}

func Test(t *testing.T) {
	files, err := filepath.Glob("testdata/*.txt")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no test archives")
	}
	for _, file := range files {
		t.Run(strings.TrimSuffix(filepath.Base(file), ".txt"), func(t *testing.T) {
			a, err := txtar.ParseFile(file)
			if err != nil {
				t.Fatal(err)
			}

			opts := archiveOptions{Options: Defaults()}
			if err := yaml.Unmarshal(a.Comment, &opts); err != nil {
				t.Fatal(err)
			}
			m := New(opts.Options)

			var ncase, npass int
			for i := 0; i+2 <= len(a.Files); i += 2 {
				ncase++
				md := a.Files[i]
				html := a.Files[i+1]
				name := strings.TrimSuffix(md.Name, ".md")
				if name != strings.TrimSuffix(html.Name, ".html") {
					t.Fatalf("mismatched file pair: %s and %s", md.Name, html.Name)
				}

				t.Run(name, func(t *testing.T) {
					src := decode(string(md.Data))
					out, err := m.Parse(src)
					if err != nil {
						t.Fatal(err)
					}
					h := encode(out)
					if h != string(html.Data) {
						tokens, _ := m.Lex(src)
						t.Fatalf("input %q\ntokens:\n%s\nhave %q\nwant %q", md.Data, Format(tokens), h, html.Data)
					}
					npass++
				})

				if !*goldmarkFlag || !opts.Goldmark {
					continue
				}
				t.Run("goldmark/"+name, func(t *testing.T) {
					gopts := []goldmark.Option{goldmark.WithRendererOptions(ghtml.WithUnsafe())}
					if opts.HeaderIDs {
						gopts = append(gopts, goldmark.WithParserOptions(gparser.WithAutoHeadingID()))
					}
					gm := goldmark.New(gopts...)
					var buf bytes.Buffer
					if err := gm.Convert([]byte(decode(string(md.Data))), &buf); err != nil {
						t.Fatal(err)
					}
					if buf.Len() > 0 && buf.Bytes()[buf.Len()-1] != '\n' {
						buf.WriteByte('\n')
					}
					want := string(html.Data)
					out := encode(buf.String())
					out = strings.ReplaceAll(out, " />", ">")
					if out != want {
						t.Fatalf("\n    - input: ``%q``\n    - output: ``%q``\n    - golden: ``%q``\n    - [dingus](https://spec.commonmark.org/dingus/?text=%s)", md.Data, out, want, strings.ReplaceAll(url.QueryEscape(decode(string(md.Data))), "+", "%20"))
					}
				})
			}
			t.Logf("%d/%d pass", npass, ncase)
		})
	}
}

func decode(s string) string {
	s = strings.ReplaceAll(s, "^J\n", "\n")
	s = strings.ReplaceAll(s, "^M", "\r")
	s = strings.ReplaceAll(s, "^D\n", "")
	s = strings.ReplaceAll(s, "^@", "\x00")
	return s
}

func encode(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "^M\n")
	s = strings.ReplaceAll(s, "\r", "^M^D\n")
	s = strings.ReplaceAll(s, " \n", " ^J\n")
	s = strings.ReplaceAll(s, "\t\n", "\t^J\n")
	s = strings.ReplaceAll(s, "\x00", "^@")
	if s != "" && !strings.HasSuffix(s, "\n") {
		s += "^D\n"
	}
	return s
}
