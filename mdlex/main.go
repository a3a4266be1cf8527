// Copyright 2021 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Mdlex prints the token tree of Markdown data.
//
// Usage:
//
//	mdlex [flags] [file...]
//
// Mdlex reads the named files, or else standard input, as Markdown documents
// and then prints their token trees to standard output, one token per line,
// with children indented below their parent.
package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"rsc.io/marked"
	"rsc.io/marked/extension/footnote"
)

var CLI struct {
	NoGFM     bool     `name:"no-gfm" help:"Disable GitHub Flavored Markdown."`
	Pedantic  bool     `help:"Follow the original markdown.pl grammar."`
	Breaks    bool     `help:"Tokenize every line break as a hard break."`
	Footnotes bool     `help:"Enable [^label] footnotes." default:"true" negatable:""`
	Files     []string `arg:"" optional:"" help:"Markdown files to read." type:"existingfile"`
}

func main() {
	kong.Parse(&CLI,
		kong.Name("mdlex"),
		kong.Description("Print the token tree of Markdown documents."))
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	opts := marked.Options{
		GFM:      !CLI.NoGFM,
		Pedantic: CLI.Pedantic,
		Breaks:   CLI.Breaks,
		Logger:   slog.Default(),
	}
	md := marked.New(opts)
	if CLI.Footnotes {
		md = md.MustUse(footnote.New())
	}

	exit := 0
	if len(CLI.Files) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			slog.Error("Failed to read input", "error", err)
			os.Exit(1)
		}
		if !lex(md, data) {
			exit = 1
		}
	}
	for _, file := range CLI.Files {
		data, err := os.ReadFile(file)
		if err != nil {
			slog.Error("Failed to read input", "file", file, "error", err)
			exit = 1
			continue
		}
		if !lex(md, data) {
			exit = 1
		}
	}
	os.Exit(exit)
}

func lex(md *marked.Marked, data []byte) bool {
	tokens, err := md.Lex(string(data))
	if err != nil {
		slog.Error("Tokenization failed", "error", err)
		return false
	}
	os.Stdout.WriteString(marked.Format(tokens))
	return true
}
