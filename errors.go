// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package marked

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRule reports input that no tokenizer rule consumed.
	// It indicates a faulty tokenizer, never bad Markdown.
	ErrNoRule = errors.New("no rule matched")

	// ErrUnknownToken reports a token with no renderer.
	ErrUnknownToken = errors.New("unknown token type")
)

// A ConfigError reports a malformed [Extension] passed to [Marked.Use].
type ConfigError struct {
	Extension string // Extension.Name
	Kind      string // "tokenizer", "rule", or "renderer"
	Name      string
	Err       string
}

func (e *ConfigError) Error() string {
	ext := e.Extension
	if ext == "" {
		ext = "extension"
	}
	return fmt.Sprintf("marked: %s: %s %q: %s", ext, e.Kind, e.Name, e.Err)
}

// noRule returns the error for input src that no rule at level consumed.
func noRule(level string, src string) error {
	if len(src) > 20 {
		src = src[:20] + "..."
	}
	return fmt.Errorf("marked: %w: %s input %q", ErrNoRule, level, src)
}

// unknownToken returns the error for a token the renderer cannot handle.
func unknownToken(t Token) error {
	return fmt.Errorf("marked: %w: %q", ErrUnknownToken, t.Type())
}

// errorHTML is the output of a failed parse in silent mode.
func errorHTML(err error) string {
	return "<p>An error occurred:</p><pre>" + escapeHTML(err.Error(), true) + "</pre>"
}
