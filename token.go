// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package marked

// A Token is a single node of a lexed document.
//
// Token is a closed set: every implementation is a pointer to one of the
// struct types in this file. Extensions that need their own node kinds
// produce a [*Custom] token.
type Token interface {
	// Type returns the token kind, such as "heading" or "em".
	// Renderer overrides are keyed by this name.
	Type() string

	// Source returns the exact input text the token consumed.
	Source() string

	rawPtr() *string
}

// Block tokens.

// Space is a run of blank lines.
type Space struct {
	Raw string
}

// Code is an indented or fenced code block.
type Code struct {
	Raw      string
	Lang     string // info string, for fenced blocks
	Text     string
	Indented bool
	Escaped  bool // Text is already HTML
}

// Heading is an ATX or setext heading.
type Heading struct {
	Raw    string
	Depth  int // 1 through 6
	Text   string
	Tokens []Token
}

// Hr is a thematic break.
type Hr struct {
	Raw string
}

// Blockquote is a block quote.
type Blockquote struct {
	Raw    string
	Text   string
	Tokens []Token
}

// List is an ordered or unordered list.
type List struct {
	Raw     string
	Ordered bool
	Start   int // first number of an ordered list
	Loose   bool
	Items   []*ListItem
}

// ListItem is a single item of a [List].
type ListItem struct {
	Raw     string
	Task    bool
	Checked bool
	Loose   bool
	Text    string
	Tokens  []Token
}

// HTML is raw HTML, either a block or an inline tag.
type HTML struct {
	Raw        string
	Text       string
	Block      bool
	Pre        bool // block opened by <pre>, <script>, or <style>
	InLink     bool // lexer state after an inline tag
	InRawBlock bool
}

// Def is a link reference definition.
// It renders as nothing; its target is recorded in the lexer's link table.
type Def struct {
	Raw   string
	Tag   string // normalized label
	Href  string
	Title string
}

// An Align is the alignment of a table column.
type Align int

const (
	AlignNone Align = iota
	AlignLeft
	AlignCenter
	AlignRight
)

func (a Align) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	}
	return ""
}

// A TableCell is one header or body cell of a [Table].
type TableCell struct {
	Text   string
	Tokens []Token
	Header bool
	Align  Align
}

// Table is a GitHub table.
type Table struct {
	Raw    string
	Align  []Align
	Header []*TableCell
	Rows   [][]*TableCell
}

// Paragraph is a paragraph at the top level of a block container.
type Paragraph struct {
	Raw    string
	Text   string
	Tokens []Token
}

// Text is plain text. At block level it holds inline Tokens;
// at inline level Tokens is nil.
type Text struct {
	Raw     string
	Text    string
	Tokens  []Token
	Escaped bool // Text is already HTML
}

// Inline tokens.

// Escape is a backslash-escaped punctuation character.
type Escape struct {
	Raw  string
	Text string
}

// Link is an inline, reference, or automatic link.
type Link struct {
	Raw    string
	Href   string
	Title  string
	Text   string
	Tokens []Token
}

// Image is an inline or reference image.
type Image struct {
	Raw    string
	Href   string
	Title  string
	Text   string
	Tokens []Token // alt text
}

// Strong is strong emphasis.
type Strong struct {
	Raw    string
	Text   string
	Tokens []Token
}

// Em is emphasis.
type Em struct {
	Raw    string
	Text   string
	Tokens []Token
}

// Codespan is inline code.
type Codespan struct {
	Raw  string
	Text string
}

// Br is a hard line break.
type Br struct {
	Raw string
}

// Del is GitHub strikethrough.
type Del struct {
	Raw    string
	Text   string
	Tokens []Token
}

// Custom is a token produced by an extension tokenizer.
// Name is its type; a renderer for Name must be registered.
type Custom struct {
	Name   string
	Raw    string
	Text   string
	Block  bool
	Tokens []Token
	Data   map[string]any
}

func (t *Space) Type() string      { return "space" }
func (t *Code) Type() string       { return "code" }
func (t *Heading) Type() string    { return "heading" }
func (t *Hr) Type() string         { return "hr" }
func (t *Blockquote) Type() string { return "blockquote" }
func (t *List) Type() string       { return "list" }
func (t *ListItem) Type() string   { return "list_item" }
func (t *HTML) Type() string       { return "html" }
func (t *Def) Type() string        { return "def" }
func (t *Table) Type() string      { return "table" }
func (t *Paragraph) Type() string  { return "paragraph" }
func (t *Text) Type() string       { return "text" }
func (t *Escape) Type() string     { return "escape" }
func (t *Link) Type() string       { return "link" }
func (t *Image) Type() string      { return "image" }
func (t *Strong) Type() string     { return "strong" }
func (t *Em) Type() string         { return "em" }
func (t *Codespan) Type() string   { return "codespan" }
func (t *Br) Type() string         { return "br" }
func (t *Del) Type() string        { return "del" }
func (t *Custom) Type() string     { return t.Name }

func (t *Space) Source() string      { return t.Raw }
func (t *Code) Source() string       { return t.Raw }
func (t *Heading) Source() string    { return t.Raw }
func (t *Hr) Source() string         { return t.Raw }
func (t *Blockquote) Source() string { return t.Raw }
func (t *List) Source() string       { return t.Raw }
func (t *ListItem) Source() string   { return t.Raw }
func (t *HTML) Source() string       { return t.Raw }
func (t *Def) Source() string        { return t.Raw }
func (t *Table) Source() string      { return t.Raw }
func (t *Paragraph) Source() string  { return t.Raw }
func (t *Text) Source() string       { return t.Raw }
func (t *Escape) Source() string     { return t.Raw }
func (t *Link) Source() string       { return t.Raw }
func (t *Image) Source() string      { return t.Raw }
func (t *Strong) Source() string     { return t.Raw }
func (t *Em) Source() string         { return t.Raw }
func (t *Codespan) Source() string   { return t.Raw }
func (t *Br) Source() string         { return t.Raw }
func (t *Del) Source() string        { return t.Raw }
func (t *Custom) Source() string     { return t.Raw }

func (t *Space) rawPtr() *string      { return &t.Raw }
func (t *Code) rawPtr() *string       { return &t.Raw }
func (t *Heading) rawPtr() *string    { return &t.Raw }
func (t *Hr) rawPtr() *string         { return &t.Raw }
func (t *Blockquote) rawPtr() *string { return &t.Raw }
func (t *List) rawPtr() *string       { return &t.Raw }
func (t *ListItem) rawPtr() *string   { return &t.Raw }
func (t *HTML) rawPtr() *string       { return &t.Raw }
func (t *Def) rawPtr() *string        { return &t.Raw }
func (t *Table) rawPtr() *string      { return &t.Raw }
func (t *Paragraph) rawPtr() *string  { return &t.Raw }
func (t *Text) rawPtr() *string       { return &t.Raw }
func (t *Escape) rawPtr() *string     { return &t.Raw }
func (t *Link) rawPtr() *string       { return &t.Raw }
func (t *Image) rawPtr() *string      { return &t.Raw }
func (t *Strong) rawPtr() *string     { return &t.Raw }
func (t *Em) rawPtr() *string         { return &t.Raw }
func (t *Codespan) rawPtr() *string   { return &t.Raw }
func (t *Br) rawPtr() *string         { return &t.Raw }
func (t *Del) rawPtr() *string        { return &t.Raw }
func (t *Custom) rawPtr() *string     { return &t.Raw }

// builtinTypes lists the token types the built-in renderer handles.
var builtinTypes = map[string]bool{
	"space": true, "code": true, "heading": true, "hr": true,
	"blockquote": true, "list": true, "list_item": true, "html": true,
	"def": true, "table": true, "paragraph": true, "text": true,
	"escape": true, "link": true, "image": true, "strong": true,
	"em": true, "codespan": true, "br": true, "del": true,
}

// Walk calls fn for each token in tokens and then for its children,
// depth first: list items, table cells, and nested token lists.
// It stops at the first error fn returns.
func Walk(tokens []Token, fn func(Token) error) error {
	for _, t := range tokens {
		if err := fn(t); err != nil {
			return err
		}
		if err := Walk(children(t), fn); err != nil {
			return err
		}
	}
	return nil
}

// walkAll is like Walk but visits every token,
// joining the errors fn returns.
func walkAll(tokens []Token, fn func(Token) error) []error {
	var errs []error
	for _, t := range tokens {
		if err := fn(t); err != nil {
			errs = append(errs, err)
		}
		errs = append(errs, walkAll(children(t), fn)...)
	}
	return errs
}

// children returns the child tokens of t in document order.
func children(t Token) []Token {
	switch t := t.(type) {
	case *Heading:
		return t.Tokens
	case *Blockquote:
		return t.Tokens
	case *List:
		list := make([]Token, len(t.Items))
		for i, item := range t.Items {
			list[i] = item
		}
		return list
	case *ListItem:
		return t.Tokens
	case *Table:
		var list []Token
		for _, c := range t.Header {
			list = append(list, c.Tokens...)
		}
		for _, row := range t.Rows {
			for _, c := range row {
				list = append(list, c.Tokens...)
			}
		}
		return list
	case *Paragraph:
		return t.Tokens
	case *Text:
		return t.Tokens
	case *Link:
		return t.Tokens
	case *Image:
		return t.Tokens
	case *Strong:
		return t.Tokens
	case *Em:
		return t.Tokens
	case *Del:
		return t.Tokens
	case *Custom:
		return t.Tokens
	}
	return nil
}
