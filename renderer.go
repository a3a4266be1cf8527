// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package marked

import (
	"strconv"
	"strings"
)

// renderHTML is the built-in HTML renderer.
func (p *Parser) renderHTML(t Token) string {
	switch t := t.(type) {
	case *Space, *Def:
		return ""
	case *Code:
		return p.code(t)
	case *Heading:
		return p.heading(t)
	case *Hr:
		return "<hr>\n"
	case *Blockquote:
		return "<blockquote>\n" + p.Parse(t.Tokens) + "</blockquote>\n"
	case *List:
		return p.list(t)
	case *ListItem:
		return p.listItem(t)
	case *HTML:
		return t.Text
	case *Table:
		return p.table(t)
	case *Paragraph:
		return "<p>" + p.ParseInline(t.Tokens) + "</p>\n"
	case *Text:
		if t.Tokens != nil {
			return p.ParseInline(t.Tokens)
		}
		if t.Escaped {
			return t.Text
		}
		return escapeHTML(t.Text, false)
	case *Escape:
		return escapeHTML(t.Text, true)
	case *Link:
		text := p.ParseInline(t.Tokens)
		var b strings.Builder
		b.WriteString(`<a href="`)
		b.WriteString(escapeHTML(cleanURL(t.Href), false))
		b.WriteString(`"`)
		if t.Title != "" {
			b.WriteString(` title="` + escapeHTML(t.Title, false) + `"`)
		}
		b.WriteString(">" + text + "</a>")
		return b.String()
	case *Image:
		var b strings.Builder
		b.WriteString(`<img src="`)
		b.WriteString(escapeHTML(cleanURL(t.Href), false))
		b.WriteString(`" alt="`)
		b.WriteString(p.InlineText(t.Tokens))
		b.WriteString(`"`)
		if t.Title != "" {
			b.WriteString(` title="` + escapeHTML(t.Title, false) + `"`)
		}
		b.WriteString(">")
		return b.String()
	case *Strong:
		return "<strong>" + p.ParseInline(t.Tokens) + "</strong>"
	case *Em:
		return "<em>" + p.ParseInline(t.Tokens) + "</em>"
	case *Codespan:
		return "<code>" + escapeHTML(t.Text, true) + "</code>"
	case *Br:
		return "<br>"
	case *Del:
		return "<del>" + p.ParseInline(t.Tokens) + "</del>"
	}
	p.unknown(t)
	return ""
}

func (p *Parser) code(t *Code) string {
	text := strings.TrimSuffix(t.Text, "\n") + "\n"
	if !t.Escaped {
		text = escapeHTML(text, true)
	}
	lang, _, _ := strings.Cut(t.Lang, " ")
	if lang == "" {
		return "<pre><code>" + text + "</code></pre>\n"
	}
	return `<pre><code class="language-` + escapeHTML(lang, false) + `">` + text + "</code></pre>\n"
}

func (p *Parser) heading(t *Heading) string {
	level := strconv.Itoa(t.Depth)
	body := p.ParseInline(t.Tokens)
	if !p.cfg.opts.HeaderIDs {
		return "<h" + level + ">" + body + "</h" + level + ">\n"
	}
	id := p.cfg.opts.HeaderPrefix + p.state.slugger.Slug(unescapeHTML(p.InlineText(t.Tokens)))
	return "<h" + level + ` id="` + escapeHTML(id, true) + `">` + body + "</h" + level + ">\n"
}

func (p *Parser) list(t *List) string {
	var b strings.Builder
	tag := "ul"
	if t.Ordered {
		tag = "ol"
	}
	b.WriteString("<" + tag)
	if t.Ordered && t.Start != 1 {
		b.WriteString(` start="` + strconv.Itoa(t.Start) + `"`)
	}
	b.WriteString(">\n")
	for _, item := range t.Items {
		b.WriteString(p.render(item))
	}
	b.WriteString("</" + tag + ">\n")
	return b.String()
}

func (p *Parser) listItem(t *ListItem) string {
	if !t.Task {
		return "<li>" + p.parse(t.Tokens, t.Loose) + "</li>\n"
	}
	box := `<input disabled="" type="checkbox">`
	if t.Checked {
		box = `<input checked="" disabled="" type="checkbox">`
	}
	if !t.Loose {
		return "<li>" + box + " " + p.parse(t.Tokens, false) + "</li>\n"
	}
	// In a loose item the checkbox goes inside the first paragraph.
	body := p.parse(t.Tokens, true)
	if rest, ok := strings.CutPrefix(body, "<p>"); ok {
		return "<li><p>" + box + " " + rest + "</li>\n"
	}
	return "<li>" + box + " " + body + "</li>\n"
}

func (p *Parser) table(t *Table) string {
	var b strings.Builder
	b.WriteString("<table>\n<thead>\n")
	p.tableRow(&b, t.Header)
	b.WriteString("</thead>\n")
	if len(t.Rows) > 0 {
		b.WriteString("<tbody>")
		for _, row := range t.Rows {
			p.tableRow(&b, row)
		}
		b.WriteString("</tbody>")
	}
	b.WriteString("</table>\n")
	return b.String()
}

func (p *Parser) tableRow(b *strings.Builder, cells []*TableCell) {
	b.WriteString("<tr>\n")
	for _, c := range cells {
		tag := "td"
		if c.Header {
			tag = "th"
		}
		b.WriteString("<" + tag)
		if c.Align != AlignNone {
			b.WriteString(` align="` + c.Align.String() + `"`)
		}
		b.WriteString(">" + p.ParseInline(c.Tokens) + "</" + tag + ">\n")
	}
	b.WriteString("</tr>\n")
}

// renderText is the built-in text renderer.
// It keeps only the text of each token, HTML-escaped.
func (p *Parser) renderText(t Token) string {
	switch t := t.(type) {
	case *Space, *Def, *Hr, *Br, *HTML:
		return ""
	case *Code:
		return escapeHTML(t.Text, true)
	case *Codespan:
		return escapeHTML(t.Text, true)
	case *Escape:
		return escapeHTML(t.Text, true)
	case *Text:
		if t.Tokens != nil {
			return p.ParseInline(t.Tokens)
		}
		if t.Escaped {
			return t.Text
		}
		return escapeHTML(t.Text, false)
	case *Heading, *Blockquote, *List, *ListItem, *Table, *Paragraph,
		*Link, *Image, *Strong, *Em, *Del, *Custom:
		var b strings.Builder
		for _, c := range children(t) {
			b.WriteString(p.renderText(c))
		}
		return b.String()
	}
	p.unknown(t)
	return ""
}
