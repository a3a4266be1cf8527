// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package marked

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	html, err := Parse("# Hello\n\nWorld *and* **more**.\n", Defaults())
	require.NoError(t, err)
	assert.Equal(t, "<h1>Hello</h1>\n<p>World <em>and</em> <strong>more</strong>.</p>\n", html)
}

func TestParseEmpty(t *testing.T) {
	html, err := Parse("", Defaults())
	require.NoError(t, err)
	assert.Equal(t, "", html)

	html, err = Parse("\n\n\n", Defaults())
	require.NoError(t, err)
	assert.Equal(t, "", html)
}

func TestParseInline(t *testing.T) {
	html, err := ParseInline("*hi* there", Defaults())
	require.NoError(t, err)
	assert.Equal(t, "<em>hi</em> there", html)
}

func TestParseDeterministic(t *testing.T) {
	src := "# A\n\n- x\n- y\n\n| a |\n|---|\n| b |\n\n[l]: /u\n[l] *e* ~~d~~\n"
	md := New(Defaults())
	first, err := md.Parse(src)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		html, err := md.Parse(src)
		require.NoError(t, err)
		assert.Equal(t, first, html)
	}
}

func TestConcurrentUse(t *testing.T) {
	md := New(Options{GFM: true, HeaderIDs: true})
	want, err := md.Parse("# Same\n# Same\n")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			html, err := md.Parse("# Same\n# Same\n")
			assert.NoError(t, err)
			assert.Equal(t, want, html)
		}()
	}
	wg.Wait()
}

func TestUseReturnsNewInstance(t *testing.T) {
	base := New(Defaults())
	ext := &Extension{
		Name: "shout",
		Renderers: map[string]RenderFunc{
			"heading": func(p *Parser, t Token) (string, bool) {
				return "<h1>!" + p.ParseInline(t.(*Heading).Tokens) + "!</h1>\n", true
			},
		},
	}
	md, err := base.Use(ext)
	require.NoError(t, err)

	html, err := md.Parse("# hi\n")
	require.NoError(t, err)
	assert.Equal(t, "<h1>!hi!</h1>\n", html)

	html, err = base.Parse("# hi\n")
	require.NoError(t, err)
	assert.Equal(t, "<h1>hi</h1>\n", html)
}

func TestRendererFallthrough(t *testing.T) {
	older := &Extension{
		Name: "older",
		Renderers: map[string]RenderFunc{
			"heading": func(p *Parser, t Token) (string, bool) {
				return "older\n", true
			},
		},
	}
	newer := &Extension{
		Name: "newer",
		Renderers: map[string]RenderFunc{
			"heading": func(p *Parser, t Token) (string, bool) {
				if t.(*Heading).Depth != 1 {
					return "", false
				}
				return "newer\n", true
			},
		},
	}
	md := New(Defaults()).MustUse(older, newer)
	html, err := md.Parse("# a\n\n## b\n")
	require.NoError(t, err)
	assert.Equal(t, "newer\nolder\n", html)
}

func TestRendererDefault(t *testing.T) {
	md := New(Defaults()).MustUse(&Extension{
		Renderers: map[string]RenderFunc{
			"code": func(p *Parser, t Token) (string, bool) {
				return `<div class="code">` + p.Default(t) + "</div>\n", true
			},
		},
	})
	html, err := md.Parse("    x\n")
	require.NoError(t, err)
	assert.Equal(t, "<div class=\"code\"><pre><code>x\n</code></pre>\n</div>\n", html)
}

func TestRuleOverride(t *testing.T) {
	md := New(Defaults()).MustUse(&Extension{
		Rules: map[string]RuleFunc{
			"hr": func(lx *Lexer, src string) (Token, bool) {
				if !strings.HasPrefix(src, "+++") {
					return nil, false
				}
				return &Hr{Raw: "+++"}, true
			},
		},
	})
	html, err := md.Parse("+++\n\n---\n")
	require.NoError(t, err)
	assert.Equal(t, "<hr>\n<hr>\n", html)
}

func emojiExtension() *Extension {
	return &Extension{
		Name: "emoji",
		Tokenizers: []Tokenizer{{
			Name:  "emoji",
			Level: "inline",
			Start: func(src string) int { return strings.Index(src, ":") },
			Tokenize: func(lx *Lexer, src string, tokens []Token) Token {
				if !strings.HasPrefix(src, ":smile:") {
					return nil
				}
				return &Custom{Name: "emoji", Raw: ":smile:", Text: "smile"}
			},
		}},
		Renderers: map[string]RenderFunc{
			"emoji": func(p *Parser, t Token) (string, bool) {
				return "😄", true
			},
		},
	}
}

func TestInlineTokenizer(t *testing.T) {
	md := New(Defaults()).MustUse(emojiExtension())
	html, err := md.Parse("Hi :smile: there\n")
	require.NoError(t, err)
	assert.Equal(t, "<p>Hi 😄 there</p>\n", html)
}

func TestBlockTokenizer(t *testing.T) {
	md := New(Defaults()).MustUse(&Extension{
		Name: "note",
		Tokenizers: []Tokenizer{{
			Name:  "note",
			Level: "block",
			Start: func(src string) int { return strings.Index(src, "!!!") },
			Tokenize: func(lx *Lexer, src string, tokens []Token) Token {
				if !strings.HasPrefix(src, "!!! ") {
					return nil
				}
				line, _, _ := strings.Cut(src, "\n")
				body := line[4:]
				return &Custom{Name: "note", Raw: line, Text: body, Block: true, Tokens: lx.InlineTokens(body)}
			},
		}},
		Renderers: map[string]RenderFunc{
			"note": func(p *Parser, t Token) (string, bool) {
				return `<aside>` + p.ParseInline(t.(*Custom).Tokens) + "</aside>\n", true
			},
		},
	})
	html, err := md.Parse("Intro\n!!! *Careful*\n")
	require.NoError(t, err)
	assert.Equal(t, "<p>Intro</p>\n<aside><em>Careful</em></aside>\n", html)
}

func TestConfigError(t *testing.T) {
	tokenize := func(*Lexer, string, []Token) Token { return nil }
	render := func(*Parser, Token) (string, bool) { return "", false }
	tests := []struct {
		ext  *Extension
		kind string
	}{
		{&Extension{Tokenizers: []Tokenizer{{Level: "inline", Tokenize: tokenize}}}, "tokenizer"},
		{&Extension{Tokenizers: []Tokenizer{{Name: "x", Level: "span", Tokenize: tokenize}}}, "tokenizer"},
		{&Extension{Tokenizers: []Tokenizer{{Name: "x", Level: "block"}}}, "tokenizer"},
		{&Extension{Rules: map[string]RuleFunc{"nosuchrule": func(*Lexer, string) (Token, bool) { return nil, false }}}, "rule"},
		{&Extension{Rules: map[string]RuleFunc{"heading": nil}}, "rule"},
		{&Extension{Renderers: map[string]RenderFunc{"nosuchtype": render}}, "renderer"},
		{&Extension{Renderers: map[string]RenderFunc{"em": nil}}, "renderer"},
	}
	for _, tt := range tests {
		md, err := New(Options{Silent: true}).Use(tt.ext)
		assert.Nil(t, md)
		var cerr *ConfigError
		if assert.ErrorAs(t, err, &cerr) {
			assert.Equal(t, tt.kind, cerr.Kind)
		}
	}
}

func TestUseCopiesExtension(t *testing.T) {
	ext := emojiExtension()
	md := New(Defaults()).MustUse(ext)

	ext.Tokenizers[0].Tokenize = func(*Lexer, string, []Token) Token { return nil }
	ext.Renderers["emoji"] = func(*Parser, Token) (string, bool) { return ":(", true }

	html, err := md.ParseInline(":smile:")
	require.NoError(t, err)
	assert.Equal(t, "😄", html)

	html, err = md.WithOptions(Options{GFM: true, Breaks: true}).ParseInline(":smile:")
	require.NoError(t, err)
	assert.Equal(t, "😄", html)
}

func TestRendererForEarlierTokenizer(t *testing.T) {
	md, err := New(Defaults()).Use(emojiExtension(), &Extension{
		Renderers: map[string]RenderFunc{
			"emoji": func(p *Parser, t Token) (string, bool) {
				return ":)", true
			},
		},
	})
	require.NoError(t, err)
	html, err := md.ParseInline(":smile:")
	require.NoError(t, err)
	assert.Equal(t, ":)", html)
}

func TestMustUsePanics(t *testing.T) {
	assert.Panics(t, func() {
		New(Defaults()).MustUse(&Extension{Rules: map[string]RuleFunc{"bogus": nil}})
	})
}

// mystery appends a token that nothing can render.
var mystery = &Extension{
	Hooks: Hooks{
		ProcessAllTokens: func(tokens []Token) ([]Token, error) {
			return append(tokens, &Custom{Name: "mystery", Raw: "?"}), nil
		},
	},
}

func TestUnknownToken(t *testing.T) {
	md := New(Defaults()).MustUse(mystery)
	_, err := md.Parse("text\n")
	assert.ErrorIs(t, err, ErrUnknownToken)
}

func TestSilentUnknownToken(t *testing.T) {
	var log bytes.Buffer
	opts := Defaults()
	opts.Silent = true
	opts.Logger = slog.New(slog.NewTextHandler(&log, nil))
	md := New(opts).MustUse(mystery)

	html, err := md.Parse("# title\n\ntext\n")
	require.NoError(t, err)
	assert.Equal(t, "", html)
	assert.Contains(t, log.String(), "markdown rendering stopped")

	html, err = md.ParseInline("*text*")
	require.NoError(t, err)
	assert.Equal(t, "", html)
}

// stuck is a block tokenizer that claims a match without consuming input.
var stuck = &Extension{
	Tokenizers: []Tokenizer{{
		Name:  "stuck",
		Level: "block",
		Tokenize: func(lx *Lexer, src string, tokens []Token) Token {
			if !strings.HasPrefix(src, "STUCK") {
				return nil
			}
			return &Custom{Name: "stuck"}
		},
	}},
	Renderers: map[string]RenderFunc{
		"stuck": func(*Parser, Token) (string, bool) { return "", true },
	},
}

func TestNoRule(t *testing.T) {
	md := New(Defaults()).MustUse(stuck)
	_, err := md.Parse("ok\n\nSTUCK\n")
	assert.ErrorIs(t, err, ErrNoRule)
	_, err = md.Lex("ok\n\nSTUCK\n")
	assert.ErrorIs(t, err, ErrNoRule)
}

func TestSilentNoRule(t *testing.T) {
	var log bytes.Buffer
	md := New(Options{GFM: true, Silent: true, Logger: slog.New(slog.NewTextHandler(&log, nil))}).MustUse(stuck)
	tokens, err := md.Lex("ok\n\nSTUCK\n")
	require.NoError(t, err)
	require.NotEmpty(t, tokens)
	assert.Equal(t, "paragraph", tokens[0].Type())
	assert.Contains(t, log.String(), "markdown tokenization stopped")
}

func TestSilentHookError(t *testing.T) {
	opts := Defaults()
	opts.Silent = true
	opts.Logger = slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	md := New(opts).MustUse(&Extension{
		Hooks: Hooks{
			Preprocess: func(string) (string, error) { return "", errors.New("bad <input>") },
		},
	})
	html, err := md.Parse("text\n")
	require.NoError(t, err)
	assert.Equal(t, "<p>An error occurred:</p><pre>bad &lt;input&gt;</pre>", html)

	tokens, err := md.Lex("text\n")
	assert.NoError(t, err)
	assert.Nil(t, tokens)
}

func TestHookOrder(t *testing.T) {
	hook := func(name string) *Extension {
		return &Extension{
			Hooks: Hooks{
				Preprocess: func(md string) (string, error) {
					return md + " " + name, nil
				},
				Postprocess: func(html string) (string, error) {
					return html + "<!-- " + name + " -->", nil
				},
			},
		}
	}
	md := New(Defaults()).MustUse(hook("a"), hook("b"))
	html, err := md.Parse("x")
	require.NoError(t, err)
	assert.Equal(t, "<p>x a b</p>\n<!-- a --><!-- b -->", html)
}

func TestProcessAllTokens(t *testing.T) {
	md := New(Defaults()).MustUse(&Extension{
		Hooks: Hooks{
			ProcessAllTokens: func(tokens []Token) ([]Token, error) {
				return append([]Token{&Hr{Raw: "---"}}, tokens...), nil
			},
		},
	})
	html, err := md.Parse("x\n")
	require.NoError(t, err)
	assert.Equal(t, "<hr>\n<p>x</p>\n", html)

	// Lex stops after tokenization.
	tokens, err := md.Lex("x\n")
	require.NoError(t, err)
	assert.Len(t, tokens, 1)
}

func TestWalkTokens(t *testing.T) {
	md := New(Defaults()).MustUse(&Extension{
		WalkTokens: func(t Token) error {
			if t, ok := t.(*Text); ok {
				t.Text = strings.ToUpper(t.Text)
			}
			return nil
		},
	})
	html, err := md.Parse("- one *two*\n")
	require.NoError(t, err)
	assert.Equal(t, "<ul>\n<li>ONE <em>TWO</em></li>\n</ul>\n", html)
}

// failHeadings fails on every heading.
func failHeadings() *Extension {
	return &Extension{
		WalkTokens: func(t Token) error {
			if h, ok := t.(*Heading); ok {
				return fmt.Errorf("heading %q", h.Text)
			}
			return nil
		},
	}
}

func TestWalkTokensError(t *testing.T) {
	md := New(Defaults()).MustUse(failHeadings())
	_, err := md.Parse("# a\n# b\n")
	require.Error(t, err)
	assert.Equal(t, `heading "a"`, err.Error())
}

func TestParseAsync(t *testing.T) {
	md := New(Defaults()).MustUse(failHeadings())
	f := md.ParseAsync(context.Background(), "# a\n# b\n")
	<-f.Done()
	_, err := f.Wait()
	require.Error(t, err)
	assert.Equal(t, "heading \"a\"\nheading \"b\"", err.Error())

	f = New(Defaults()).ParseAsync(context.Background(), "*x*")
	html, err := f.Wait()
	require.NoError(t, err)
	assert.Equal(t, "<p><em>x</em></p>\n", html)
}

func TestParseContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(Defaults()).ParseContext(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWithOptions(t *testing.T) {
	md := New(Defaults()).MustUse(emojiExtension())
	pedantic := md.WithOptions(Options{Pedantic: true})
	assert.True(t, pedantic.Options().Pedantic)
	assert.False(t, md.Options().Pedantic)

	html, err := pedantic.Parse("#Hi :smile:\n")
	require.NoError(t, err)
	assert.Equal(t, "<h1>Hi 😄</h1>\n", html)
}

func TestHeaderPrefix(t *testing.T) {
	html, err := Parse("# Intro\n", Options{HeaderIDs: true, HeaderPrefix: "doc-"})
	require.NoError(t, err)
	assert.Equal(t, `<h1 id="doc-intro">Intro</h1>`+"\n", html)
}

func TestLooseTaskItem(t *testing.T) {
	html, err := Parse("- [x] a\n\n- [ ] b\n", Defaults())
	require.NoError(t, err)
	assert.Equal(t, "<ul>\n"+
		`<li><p><input checked="" disabled="" type="checkbox"> a</p>`+"\n</li>\n"+
		`<li><p><input disabled="" type="checkbox"> b</p>`+"\n</li>\n"+
		"</ul>\n", html)
}

func TestPlainText(t *testing.T) {
	for _, s := range []string{"hello", "Hello world", "one two three 123"} {
		html, err := Parse(s, Defaults())
		require.NoError(t, err)
		assert.Equal(t, "<p>"+s+"</p>\n", html)
	}
}

func TestHeadingDepth(t *testing.T) {
	for depth := 1; depth <= 6; depth++ {
		h := strconv.Itoa(depth)
		html, err := Parse(strings.Repeat("#", depth)+" Hello", Defaults())
		require.NoError(t, err)
		assert.Equal(t, "<h"+h+">Hello</h"+h+">\n", html)
	}
	html, err := Parse("####### Hello", Defaults())
	require.NoError(t, err)
	assert.Equal(t, "<p>####### Hello</p>\n", html)
}

func TestCenteredTable(t *testing.T) {
	html, err := Parse("| a | b |\n|---|:-:|\n| 1 | 2 |", Defaults())
	require.NoError(t, err)
	assert.Contains(t, html, "<th>a</th>\n<th align=\"center\">b</th>\n")
	assert.Contains(t, html, "<td>1</td>\n<td align=\"center\">2</td>\n")
}

func TestReferenceTitle(t *testing.T) {
	html, err := Parse("[x][1]\n\n[1]: /u \"t\"\n", Defaults())
	require.NoError(t, err)
	assert.Equal(t, `<p><a href="/u" title="t">x</a></p>`+"\n", html)
}

func TestEscaping(t *testing.T) {
	html, err := Parse(`a < b & "c" 'd' > e`, Defaults())
	require.NoError(t, err)
	assert.Equal(t, "<p>a &lt; b &amp; &quot;c&quot; &#39;d&#39; &gt; e</p>\n", html)

	html, err = Parse("a <b class=\"x\">bold</b> `<i>`", Defaults())
	require.NoError(t, err)
	assert.Equal(t, "<p>a <b class=\"x\">bold</b> <code>&lt;i&gt;</code></p>\n", html)
}

func TestHeadingRendererFallback(t *testing.T) {
	md := New(Defaults()).MustUse(&Extension{
		Renderers: map[string]RenderFunc{
			"heading": func(*Parser, Token) (string, bool) { return "", false },
		},
	})
	html, err := md.Parse("# Hello")
	require.NoError(t, err)
	assert.Equal(t, "<h1>Hello</h1>\n", html)
}
