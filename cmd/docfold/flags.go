package main

import (
	"fmt"
	"time"

	flag "github.com/spf13/pflag"
)

// cliFlags holds all parsed command-line flags.
type cliFlags struct {
	// common
	config  string
	quiet   bool
	verbose bool
	version bool

	// document
	output    string
	title     string
	css       string
	noMath    bool
	noOutline bool
	htmlOnly  bool

	// style
	style          string
	codeTheme      string
	headingNumbers bool
	browserCode    bool

	// page
	pageSize    string
	orientation string
	margin      float64

	// footer
	footerText   string
	footerPos    string
	noFooter     bool
	noPageNumber bool

	// engine
	engine     string
	browserBin string
	noSandbox  bool
	timeout    time.Duration
	renderWait time.Duration

	// execution
	workers int
	watch   bool

	fs *flag.FlagSet
}

// changed reports whether the named flag was set explicitly on the
// command line, as opposed to keeping its default. Config merging uses
// this so an untouched flag default never shadows a config value.
func (f *cliFlags) changed(name string) bool {
	return f.fs != nil && f.fs.Changed(name)
}

// parseFlags parses args (excluding the program name) and returns the
// flags plus the positional input paths.
func parseFlags(args []string) (*cliFlags, []string, error) {
	f := &cliFlags{}
	fs := flag.NewFlagSet("docfold", flag.ContinueOnError)

	fs.StringVarP(&f.config, "config", "c", "", "config file path or name")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "suppress progress output")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "verbose diagnostics on stderr")
	fs.BoolVar(&f.version, "version", false, "print version and exit")

	fs.StringVarP(&f.output, "output", "o", "", "output file (single input) or directory")
	fs.StringVarP(&f.title, "title", "t", "", "document title (default: input file name)")
	fs.StringVar(&f.css, "css", "", "extra CSS file appended after the style")
	fs.BoolVar(&f.noMath, "no-math", false, "disable MathJax typesetting")
	fs.BoolVar(&f.noOutline, "no-outline", false, "skip bookmark synthesis")
	fs.BoolVar(&f.htmlOnly, "html-only", false, "emit the intermediate HTML instead of PDF")

	fs.StringVarP(&f.style, "style", "s", "default", "embedded style name")
	fs.StringVar(&f.codeTheme, "code-theme", "github", "chroma style for code highlighting")
	fs.BoolVar(&f.headingNumbers, "heading-numbers", false, "number h2-h4 headings")
	fs.BoolVar(&f.browserCode, "browser-code", false, "highlight code in the browser (highlight.js)")

	fs.StringVar(&f.pageSize, "page-size", "a4", "page size: letter, a4, legal")
	fs.StringVar(&f.orientation, "orientation", "portrait", "portrait or landscape")
	fs.Float64Var(&f.margin, "margin", 0.5, "page margin in inches")

	fs.StringVar(&f.footerText, "footer-text", "", "free-form footer text")
	fs.StringVar(&f.footerPos, "footer-position", "center", "footer position: left, center, right")
	fs.BoolVar(&f.noFooter, "no-footer", false, "disable the page footer")
	fs.BoolVar(&f.noPageNumber, "no-page-number", false, "omit page N of M from the footer")

	fs.StringVar(&f.engine, "engine", "rod", "rendering engine: rod, chromedp")
	fs.StringVar(&f.browserBin, "browser-bin", "", "pre-installed browser binary")
	fs.BoolVar(&f.noSandbox, "no-sandbox", false, "disable the browser sandbox (containers)")
	fs.DurationVar(&f.timeout, "timeout", 0, "whole-run conversion budget (default 60s)")
	fs.DurationVar(&f.renderWait, "render-wait", 0, "render-complete wait budget (default 45s)")

	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel conversions (0 = auto)")
	fs.BoolVar(&f.watch, "watch", false, "watch inputs and reconvert on change")

	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: docfold [flags] <input.md> [input2.md ...]")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	f.fs = fs
	return f, fs.Args(), nil
}
