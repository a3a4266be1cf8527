// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package marked

import "strings"

// lexHr is the "hr" block rule: a thematic break.
//
// See https://spec.commonmark.org/0.31.2/#thematic-breaks.
func lexHr(lx *Lexer, src string) Token {
	m := hrRE.FindString(src)
	if m == "" {
		return nil
	}
	return &Hr{Raw: m}
}

// lexBr is the "br" inline rule: a hard line break,
// written as two or more spaces or a backslash before a newline.
// With Breaks, any newline is a hard break.
// A break at the end of the text is not a break.
func lexBr(lx *Lexer, src string) Token {
	i := leadingSpaces(src)
	switch {
	case i == 0 && strings.HasPrefix(src, "\\\n"):
		i = 1
	case i >= 2, lx.g.breaks:
	default:
		return nil
	}
	if i >= len(src) || src[i] != '\n' {
		return nil
	}
	if strings.TrimSpace(src[i+1:]) == "" {
		return nil
	}
	return &Br{Raw: src[:i+1]}
}
