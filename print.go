// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package marked

import (
	"bytes"
	"fmt"
	"strconv"
)

// A printer writes an indented listing of a token tree.
type printer struct {
	buf    bytes.Buffer
	prefix []byte
}

// Format returns a listing of the token tree, one token per line,
// with children indented below their parent. Each line shows the
// token type, its quoted source text, and any other fields that are set.
func Format(tokens []Token) string {
	var p printer
	p.tokens(tokens)
	return p.buf.String()
}

func (p *printer) nl() {
	p.buf.WriteByte('\n')
}

func (p *printer) push() { p.prefix = append(p.prefix, "  "...) }
func (p *printer) pop()  { p.prefix = p.prefix[:len(p.prefix)-2] }

func (p *printer) line(name string, raw string, attrs ...any) {
	p.buf.Write(p.prefix)
	p.buf.WriteString(name)
	p.buf.WriteString(" ")
	p.buf.WriteString(strconv.Quote(raw))
	for i := 0; i+1 < len(attrs); i += 2 {
		k, v := attrs[i], attrs[i+1]
		switch v := v.(type) {
		case bool:
			if !v {
				continue
			}
			fmt.Fprintf(&p.buf, " %s", k)
			continue
		case string:
			if v == "" {
				continue
			}
			fmt.Fprintf(&p.buf, " %s=%q", k, v)
			continue
		}
		fmt.Fprintf(&p.buf, " %s=%v", k, v)
	}
	p.nl()
}

func (p *printer) tokens(tokens []Token) {
	for _, t := range tokens {
		p.token(t)
	}
}

func (p *printer) token(t Token) {
	switch t := t.(type) {
	case *Code:
		p.line("code", t.Raw, "lang", t.Lang, "indented", t.Indented, "escaped", t.Escaped)
	case *Heading:
		p.line("heading", t.Raw, "depth", t.Depth)
	case *List:
		attrs := []any{"ordered", t.Ordered, "loose", t.Loose}
		if t.Ordered {
			attrs = append(attrs, "start", t.Start)
		}
		p.line("list", t.Raw, attrs...)
		p.push()
		for _, item := range t.Items {
			p.token(item)
		}
		p.pop()
		return
	case *ListItem:
		p.line("list_item", t.Raw, "task", t.Task, "checked", t.Checked, "loose", t.Loose)
	case *HTML:
		p.line("html", t.Raw, "block", t.Block, "pre", t.Pre, "inLink", t.InLink, "inRawBlock", t.InRawBlock)
	case *Def:
		p.line("def", t.Raw, "tag", t.Tag, "href", t.Href, "title", t.Title)
	case *Table:
		p.line("table", t.Raw, "align", fmt.Sprint(t.Align))
		p.push()
		p.cells(t.Header)
		for _, row := range t.Rows {
			p.cells(row)
		}
		p.pop()
		return
	case *Text:
		p.line("text", t.Raw, "escaped", t.Escaped)
	case *Link:
		p.line("link", t.Raw, "href", t.Href, "title", t.Title)
	case *Image:
		p.line("image", t.Raw, "href", t.Href, "title", t.Title)
	case *Custom:
		p.line(t.Name, t.Raw, "block", t.Block, "data", len(t.Data))
	default:
		p.line(t.Type(), t.Source())
	}
	if kids := children(t); len(kids) > 0 {
		p.push()
		p.tokens(kids)
		p.pop()
	}
}

func (p *printer) cells(row []*TableCell) {
	p.buf.Write(p.prefix)
	p.buf.WriteString("row")
	p.nl()
	p.push()
	for _, c := range row {
		p.buf.Write(p.prefix)
		p.buf.WriteString("cell ")
		p.buf.WriteString(strconv.Quote(c.Text))
		if c.Header {
			p.buf.WriteString(" header")
		}
		if c.Align != AlignNone {
			p.buf.WriteString(" align=" + c.Align.String())
		}
		p.nl()
		p.push()
		p.tokens(c.Tokens)
		p.pop()
	}
	p.pop()
}
