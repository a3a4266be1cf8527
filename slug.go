// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package marked

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// A Slugger generates heading IDs, making each one unique
// within a document by numbering repeats.
type Slugger struct {
	seen map[string]int
}

// NewSlugger returns a Slugger that has seen no IDs.
func NewSlugger() *Slugger {
	return &Slugger{seen: make(map[string]int)}
}

var (
	slugTagRE   = regexp.MustCompile(`(?i)<[!/a-z].*?>`)
	slugPunctRE = regexp.MustCompile(`[\x{2000}-\x{206F}\x{2E00}-\x{2E7F}\\'!"#$%&()*+,./:;<=>?@\[\]^` + "`" + `{|}~]`)
	slugSpaceRE = regexp.MustCompile(`\s`)
)

// Slug returns the ID for a heading with the given text:
// lower case, without HTML tags or punctuation, with spaces turned into hyphens.
// A repeated slug gets a -1, -2, ... suffix.
func (s *Slugger) Slug(text string) string {
	base := slugify(text)
	slug := base
	if n, ok := s.seen[base]; ok {
		for {
			n++
			slug = base + "-" + strconv.Itoa(n)
			if _, ok := s.seen[slug]; !ok {
				break
			}
		}
		s.seen[base] = n
	} else {
		s.seen[base] = 0
	}
	s.seen[slug] = 0
	return slug
}

func slugify(text string) string {
	text = strings.TrimSpace(cases.Lower(language.Und).String(text))
	text = slugTagRE.ReplaceAllString(text, "")
	text = slugPunctRE.ReplaceAllString(text, "")
	return slugSpaceRE.ReplaceAllString(text, "-")
}

// unescapeHTML decodes the entity references in rendered text.
func unescapeHTML(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	return html.UnescapeString(s)
}
