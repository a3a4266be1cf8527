// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package marked

import (
	"context"
	"errors"
	"slices"
)

// A Marked is a Markdown compiler: a set of options and extensions.
// A Marked is immutable and safe for concurrent use;
// [Marked.Use] and [Marked.WithOptions] return new instances.
type Marked struct {
	cfg *config
}

// New returns a compiler with the given options and no extensions.
func New(opts Options) *Marked {
	cfg, _ := newConfig(opts, nil)
	return &Marked{cfg}
}

// Options returns the options of m.
func (m *Marked) Options() Options { return m.cfg.opts }

// Use returns a compiler with the extensions of m followed by exts.
// It returns a [*ConfigError] if an extension is malformed,
// regardless of the Silent option.
func (m *Marked) Use(exts ...*Extension) (*Marked, error) {
	cfg, err := newConfig(m.cfg.opts, append(slices.Clip(m.cfg.exts), exts...))
	if err != nil {
		return nil, err
	}
	return &Marked{cfg}, nil
}

// MustUse is like Use but panics on error.
func (m *Marked) MustUse(exts ...*Extension) *Marked {
	m, err := m.Use(exts...)
	if err != nil {
		panic(err)
	}
	return m
}

// WithOptions returns a compiler with the extensions of m and the given options.
func (m *Marked) WithOptions(opts Options) *Marked {
	cfg, err := newConfig(opts, m.cfg.exts)
	if err != nil {
		// The extensions were validated when they were added.
		panic("marked: " + err.Error())
	}
	return &Marked{cfg}
}

// Parse converts a Markdown document to HTML.
func (m *Marked) Parse(src string) (string, error) {
	return m.ParseContext(context.Background(), src)
}

// ParseContext is like Parse but stops between steps if ctx is done.
func (m *Marked) ParseContext(ctx context.Context, src string) (string, error) {
	return m.run(ctx, src, false)
}

// ParseInline converts a span of inline Markdown to HTML,
// without a surrounding paragraph.
func (m *Marked) ParseInline(src string) (string, error) {
	return m.run(context.Background(), src, true)
}

// Lex returns the token tree of a Markdown document.
// It runs the Preprocess hooks but not the later steps.
func (m *Marked) Lex(src string) ([]Token, error) {
	src, err := m.preprocess(src)
	if err != nil {
		return nil, m.failed(err)
	}
	return newLexer(m.cfg).lex(src)
}

// A Future is the pending result of [Marked.ParseAsync].
type Future struct {
	done chan struct{}
	html string
	err  error
}

// ParseAsync starts converting src in a new goroutine, with the
// Async option set so that walk errors are all collected.
// The steps run in order, exactly as in Parse.
func (m *Marked) ParseAsync(ctx context.Context, src string) *Future {
	opts := m.cfg.opts
	opts.Async = true
	async := m
	if !m.cfg.opts.Async {
		async = m.WithOptions(opts)
	}
	f := &Future{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.html, f.err = async.ParseContext(ctx, src)
	}()
	return f
}

// Done returns a channel that is closed when the result is ready.
func (f *Future) Done() <-chan struct{} { return f.done }

// Wait waits for the result.
func (f *Future) Wait() (string, error) {
	<-f.done
	return f.html, f.err
}

// run is the pipeline: preprocess, tokenize, process all tokens,
// walk, render, and postprocess.
func (m *Marked) run(ctx context.Context, src string, inline bool) (string, error) {
	html, err := m.pipeline(ctx, src, inline)
	if err != nil {
		if m.cfg.opts.Silent {
			m.cfg.opts.logger().Error("markdown conversion failed", "error", err)
			return errorHTML(err), nil
		}
		return "", err
	}
	return html, nil
}

func (m *Marked) pipeline(ctx context.Context, src string, inline bool) (string, error) {
	cfg := m.cfg
	src, err := m.preprocess(src)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	lx := newLexer(cfg)
	var tokens []Token
	if inline {
		tokens, err = lx.lexInline(src)
	} else {
		tokens, err = lx.lex(src)
	}
	if err != nil {
		return "", err
	}
	for _, h := range cfg.processAll {
		if tokens, err = h(tokens); err != nil {
			return "", err
		}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := m.walk(tokens); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	p := newParser(cfg)
	var html string
	if inline {
		html = p.ParseInline(tokens)
	} else {
		html = p.Parse(tokens)
	}
	if p.state.err != nil {
		return "", p.state.err
	}
	if p.state.dropped {
		html = ""
	}
	for _, h := range cfg.postprocess {
		if html, err = h(html); err != nil {
			return "", err
		}
	}
	return html, nil
}

func (m *Marked) preprocess(src string) (string, error) {
	for _, h := range m.cfg.preprocess {
		var err error
		if src, err = h(src); err != nil {
			return "", err
		}
	}
	return src, nil
}

// failed applies the Silent option to an error from Lex.
func (m *Marked) failed(err error) error {
	if m.cfg.opts.Silent {
		m.cfg.opts.logger().Error("markdown tokenization failed", "error", err)
		return nil
	}
	return err
}

// walk calls the WalkTokens functions for every token, in registration order.
// With Async set, every token is visited and all errors are returned;
// otherwise the walk stops at the first error.
func (m *Marked) walk(tokens []Token) error {
	if len(m.cfg.walk) == 0 {
		return nil
	}
	visit := func(t Token) error {
		for _, fn := range m.cfg.walk {
			if err := fn(t); err != nil {
				return err
			}
		}
		return nil
	}
	if m.cfg.opts.Async {
		return errors.Join(walkAll(tokens, visit)...)
	}
	return Walk(tokens, visit)
}

// Parse converts a Markdown document to HTML using a compiler
// with the given options and no extensions.
func Parse(src string, opts Options) (string, error) {
	return New(opts).Parse(src)
}

// ParseInline converts inline Markdown to HTML using a compiler
// with the given options and no extensions.
func ParseInline(src string, opts Options) (string, error) {
	return New(opts).ParseInline(src)
}

// Lex returns the token tree of a Markdown document using a compiler
// with the given options and no extensions.
func Lex(src string, opts Options) ([]Token, error) {
	return New(opts).Lex(src)
}
