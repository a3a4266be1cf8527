// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package marked

import "log/slog"

// Options configures a [Marked] instance.
// The zero Options selects the original Markdown grammar;
// [Defaults] returns the usual GitHub-flavored configuration.
type Options struct {
	// GFM enables GitHub Flavored Markdown:
	// tables, strikethrough, task lists, and bare URL links.
	GFM bool `yaml:"gfm"`

	// Pedantic selects the original markdown.pl grammar.
	// It takes precedence over GFM.
	Pedantic bool `yaml:"pedantic"`

	// Breaks turns every soft line break into <br>. It requires GFM.
	Breaks bool `yaml:"breaks"`

	// Async collects the errors from every walkTokens visitor
	// instead of stopping at the first one.
	// ParseAsync runs with Async set.
	Async bool `yaml:"async"`

	// Silent reports errors as an HTML fragment instead of failing.
	// Registration errors are never silenced.
	Silent bool `yaml:"silent"`

	// HeaderIDs adds an id attribute to every heading,
	// derived from the heading text and prefixed by HeaderPrefix.
	HeaderIDs    bool   `yaml:"headerIds"`
	HeaderPrefix string `yaml:"headerPrefix"`

	// Logger receives errors suppressed by Silent.
	// If nil, slog.Default() is used.
	Logger *slog.Logger `yaml:"-"`
}

// Defaults returns the default options: GitHub Flavored Markdown.
func Defaults() Options {
	return Options{GFM: true}
}

func (o *Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}
