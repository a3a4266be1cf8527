// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package marked

import (
	"strings"

	"golang.org/x/net/html"
)

// StripOuterTag removes the element wrapping an HTML fragment,
// returning its inner HTML unchanged. For example, it turns the
// output of a one-paragraph document, "<p>text</p>\n", into "text".
//
// If the fragment does not start with an opening tag, or that element
// does not extend to the end of the fragment (ignoring trailing white space),
// StripOuterTag returns the fragment unchanged.
func StripOuterTag(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	if z.Next() != html.StartTagToken {
		return fragment
	}
	b, _ := z.TagName()
	name := string(b)
	innerStart := len(z.Raw())
	pos := innerStart
	depth := 1
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return fragment
		}
		raw := len(z.Raw())
		switch tt {
		case html.StartTagToken, html.EndTagToken:
			n, _ := z.TagName()
			if string(n) != name {
				break
			}
			if tt == html.StartTagToken {
				depth++
				break
			}
			if depth--; depth == 0 {
				if strings.TrimSpace(fragment[pos+raw:]) != "" {
					return fragment
				}
				return fragment[innerStart:pos]
			}
		}
		pos += raw
	}
}
