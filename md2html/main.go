// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Md2html converts Markdown to HTML.
//
// Usage:
//
//	md2html [flags] [file...]
//
// Md2html reads the named files, or else standard input, as Markdown documents
// and then prints the corresponding HTML to standard output, or to the file
// named by -o.
//
// Options are read from the YAML file named by --config, if any,
// and then overridden by the flags. The file uses the same names as
// the flags:
//
//	gfm: true
//	breaks: true
//	headerIds: true
//	headerPrefix: doc-
//
// With --watch, md2html renders the files and then renders them again
// each time one of them changes, until interrupted.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
	"rsc.io/marked"
	"rsc.io/marked/extension/footnote"
)

var CLI struct {
	Config       string   `short:"c" help:"YAML file of rendering options." type:"existingfile"`
	NoGFM        bool     `name:"no-gfm" help:"Disable GitHub Flavored Markdown."`
	Pedantic     bool     `help:"Follow the original markdown.pl grammar."`
	Breaks       bool     `help:"Render every line break as <br>."`
	Silent       bool     `help:"Render errors into the output instead of failing."`
	HeaderIDs    bool     `name:"header-ids" help:"Add id attributes to headings."`
	HeaderPrefix string   `name:"header-prefix" help:"Prefix for heading ids."`
	Footnotes    bool     `help:"Enable [^label] footnotes." default:"true" negatable:""`
	Output       string   `short:"o" help:"Write HTML to this file instead of standard output."`
	Watch        bool     `short:"w" help:"Render again whenever an input file changes."`
	Verbose      bool     `short:"v" help:"Enable verbose logging."`
	Files        []string `arg:"" optional:"" help:"Markdown files to convert." type:"existingfile"`
}

func main() {
	kong.Parse(&CLI,
		kong.Name("md2html"),
		kong.Description("Convert Markdown to HTML."))

	level := slog.LevelInfo
	if CLI.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	md, err := compiler()
	if err != nil {
		slog.Error("Failed to configure", "error", err)
		os.Exit(1)
	}

	if len(CLI.Files) == 0 {
		if CLI.Watch {
			slog.Error("--watch needs input files")
			os.Exit(2)
		}
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			slog.Error("Failed to read input", "error", err)
			os.Exit(1)
		}
		if err := emit(md, []string{string(data)}); err != nil {
			slog.Error("Conversion failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := convert(md, CLI.Files); err != nil {
		slog.Error("Conversion failed", "error", err)
		if !CLI.Watch {
			os.Exit(1)
		}
	}
	if CLI.Watch {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := watch(ctx, md, CLI.Files); err != nil {
			slog.Error("Watch failed", "error", err)
			os.Exit(1)
		}
	}
}

// compiler returns the compiler configured by the config file and flags.
func compiler() (*marked.Marked, error) {
	opts, err := loadOptions(CLI.Config)
	if err != nil {
		return nil, err
	}
	if CLI.NoGFM {
		opts.GFM = false
	}
	opts.Pedantic = opts.Pedantic || CLI.Pedantic
	opts.Breaks = opts.Breaks || CLI.Breaks
	opts.Silent = opts.Silent || CLI.Silent
	opts.HeaderIDs = opts.HeaderIDs || CLI.HeaderIDs
	if CLI.HeaderPrefix != "" {
		opts.HeaderPrefix = CLI.HeaderPrefix
	}
	opts.Logger = slog.Default()

	md := marked.New(opts)
	if CLI.Footnotes {
		return md.Use(footnote.New())
	}
	return md, nil
}

// loadOptions reads options from a YAML file.
// Keys missing from the file keep their default values.
func loadOptions(file string) (marked.Options, error) {
	opts := marked.Defaults()
	if file == "" {
		return opts, nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return opts, err
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("%s: %w", file, err)
	}
	slog.Debug("Loaded options", "file", file, "options", fmt.Sprintf("%+v", opts))
	return opts, nil
}

// convert renders the named files.
func convert(md *marked.Marked, files []string) error {
	var docs []string
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return err
		}
		docs = append(docs, string(data))
	}
	return emit(md, docs)
}

// emit renders the documents and writes them, in order, to the output.
func emit(md *marked.Marked, docs []string) error {
	w := os.Stdout
	if CLI.Output != "" {
		f, err := os.Create(CLI.Output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	for _, doc := range docs {
		html, err := md.Parse(doc)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, html); err != nil {
			return err
		}
	}
	if w != os.Stdout {
		return w.Close()
	}
	return nil
}

// watch renders the files again each time one of them is written,
// until ctx is done.
func watch(ctx context.Context, md *marked.Marked, files []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Watch directories: editors often replace a file instead of writing it.
	inputs := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return err
		}
		inputs[abs] = true
		dir := filepath.Dir(abs)
		if !dirs[dir] {
			if err := watcher.Add(dir); err != nil {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}
			dirs[dir] = true
		}
	}
	slog.Info("Watching for changes", "files", len(files))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !inputs[event.Name] || !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}
			slog.Debug("Input changed", "file", event.Name)
			if err := convert(md, files); err != nil {
				slog.Error("Conversion failed", "error", err)
				continue
			}
			slog.Info("Rendered", "file", event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("Watcher error", "error", err)
		}
	}
}
