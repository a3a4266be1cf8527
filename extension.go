// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package marked

import (
	"maps"
	"slices"
	"strconv"
)

// An Extension adds to or overrides the behavior of a [Marked] instance.
// All fields are optional.
type Extension struct {
	// Name identifies the extension in errors.
	Name string

	// Tokenizers are new rules, tried before the built-in rules of their level.
	// Tokenizers registered later are tried first.
	Tokenizers []Tokenizer

	// Rules override built-in rules by name, such as "heading" or "emStrong".
	// An override that reports false falls through to the previous one
	// and finally to the built-in rule.
	Rules map[string]RuleFunc

	// Renderers override the rendering of a token type, built-in or custom.
	// An override that reports false falls through in the same way.
	Renderers map[string]RenderFunc

	Hooks Hooks

	// WalkTokens is called for every token after tokenization
	// and before rendering. It may modify tokens in place.
	WalkTokens func(Token) error
}

// A Tokenizer is an extension rule producing [*Custom] tokens
// (or built-in ones) at block or inline level.
type Tokenizer struct {
	// Name is the type of the tokens it produces.
	Name string

	// Level is "block" or "inline".
	Level string

	// Start, if set, returns the index in src where the construct
	// might begin, or -1. Paragraphs and inline text stop there so that
	// the tokenizer gets a chance to run.
	Start func(src string) int

	// Tokenize returns the token at the start of src, or nil.
	// tokens holds the tokens produced so far at this level.
	Tokenize func(lx *Lexer, src string, tokens []Token) Token
}

// A RuleFunc replaces a built-in rule. It reports false to defer to the rule it replaces.
type RuleFunc func(lx *Lexer, src string) (Token, bool)

// A RenderFunc renders a token. It reports false to defer to the previous renderer.
type RenderFunc func(p *Parser, t Token) (string, bool)

// Hooks run around the pipeline.
// Hooks from several extensions run in registration order,
// each receiving the result of the one before.
type Hooks struct {
	Preprocess       func(markdown string) (string, error)
	Postprocess      func(html string) (string, error)
	ProcessAllTokens func(tokens []Token) ([]Token, error)
}

// config is the merged, read-only configuration of a [Marked] instance.
type config struct {
	opts Options
	exts []*Extension

	block, inline           []*Tokenizer // newest first
	blockRules, inlineRules []rule
	startBlock, startInline []func(string) int

	renderers map[string][]RenderFunc // newest first
	custom    map[string]bool         // token types produced by tokenizers

	preprocess  []func(string) (string, error)
	postprocess []func(string) (string, error)
	processAll  []func([]Token) ([]Token, error)
	walk        []func(Token) error
}

// newConfig validates exts and merges them, in order, over opts.
func newConfig(opts Options, exts []*Extension) (*config, error) {
	cfg := &config{
		opts:      opts,
		renderers: make(map[string][]RenderFunc),
		custom:    make(map[string]bool),
	}
	overrides := make(map[string][]RuleFunc)
	for _, ext := range exts {
		if err := cfg.validate(ext); err != nil {
			return nil, err
		}
		// Later changes to the caller's Extension must not reach the instance.
		ext = &Extension{
			Name:       ext.Name,
			Tokenizers: slices.Clone(ext.Tokenizers),
			Rules:      maps.Clone(ext.Rules),
			Renderers:  maps.Clone(ext.Renderers),
			Hooks:      ext.Hooks,
			WalkTokens: ext.WalkTokens,
		}
		cfg.exts = append(cfg.exts, ext)
		for i := range ext.Tokenizers {
			t := &ext.Tokenizers[i]
			cfg.custom[t.Name] = true
			if t.Level == "block" {
				cfg.block = append([]*Tokenizer{t}, cfg.block...)
				if t.Start != nil {
					cfg.startBlock = append(cfg.startBlock, t.Start)
				}
			} else {
				cfg.inline = append([]*Tokenizer{t}, cfg.inline...)
				if t.Start != nil {
					cfg.startInline = append(cfg.startInline, t.Start)
				}
			}
		}
		for _, name := range sortedKeys(ext.Rules) {
			overrides[name] = append([]RuleFunc{ext.Rules[name]}, overrides[name]...)
		}
		for _, name := range sortedKeys(ext.Renderers) {
			cfg.renderers[name] = append([]RenderFunc{ext.Renderers[name]}, cfg.renderers[name]...)
		}
		if h := ext.Hooks.Preprocess; h != nil {
			cfg.preprocess = append(cfg.preprocess, h)
		}
		if h := ext.Hooks.Postprocess; h != nil {
			cfg.postprocess = append(cfg.postprocess, h)
		}
		if h := ext.Hooks.ProcessAllTokens; h != nil {
			cfg.processAll = append(cfg.processAll, h)
		}
		if ext.WalkTokens != nil {
			cfg.walk = append(cfg.walk, ext.WalkTokens)
		}
	}

	g := grammarFor(&cfg.opts)
	cfg.blockRules = withOverrides(g.block, overrides)
	cfg.inlineRules = withOverrides(g.inline, overrides)
	return cfg, nil
}

// validate reports the first registration error in ext.
func (cfg *config) validate(ext *Extension) error {
	bad := func(kind, name, msg string) error {
		return &ConfigError{Extension: ext.Name, Kind: kind, Name: name, Err: msg}
	}
	names := make(map[string]bool)
	for _, t := range ext.Tokenizers {
		switch {
		case t.Name == "":
			return bad("tokenizer", t.Name, "missing name")
		case t.Level != "block" && t.Level != "inline":
			return bad("tokenizer", t.Name, "level must be block or inline, not "+strconv.Quote(t.Level))
		case t.Tokenize == nil:
			return bad("tokenizer", t.Name, "missing Tokenize func")
		}
		names[t.Name] = true
	}
	for _, name := range sortedKeys(ext.Rules) {
		if !isRuleName(name) {
			return bad("rule", name, "no such built-in rule")
		}
		if ext.Rules[name] == nil {
			return bad("rule", name, "nil func")
		}
	}
	for _, name := range sortedKeys(ext.Renderers) {
		if !builtinTypes[name] && !cfg.custom[name] && !names[name] {
			return bad("renderer", name, "no such token type")
		}
		if ext.Renderers[name] == nil {
			return bad("renderer", name, "nil func")
		}
	}
	return nil
}

// withOverrides returns rules with each overridden rule wrapped
// so its overrides run first, newest first.
func withOverrides(rules []rule, overrides map[string][]RuleFunc) []rule {
	if len(overrides) == 0 {
		return rules
	}
	out := make([]rule, len(rules))
	for i, r := range rules {
		out[i] = r
		fns := overrides[r.name]
		if len(fns) == 0 {
			continue
		}
		builtin := r.fn
		out[i].fn = func(lx *Lexer, src string) Token {
			for _, f := range fns {
				if t, ok := f(lx, src); ok {
					return t
				}
			}
			return builtin(lx, src)
		}
	}
	return out
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
