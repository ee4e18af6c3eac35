package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	docfold "github.com/docfold/docfold"
	"github.com/docfold/docfold/internal/config"
	"github.com/docfold/docfold/internal/fileutil"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput          = errors.New("no input specified")
	ErrReadMarkdown     = errors.New("failed to read markdown file")
	ErrReadCSS          = errors.New("failed to read CSS file")
	ErrWritePDF         = errors.New("failed to write output file")
	ErrInvalidExtension = errors.New("file must have .md or .markdown extension")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// CLIConverter is the interface the CLI needs from a conversion unit.
type CLIConverter interface {
	Convert(ctx context.Context, input docfold.Input) (*docfold.Result, error)
}

// Compile-time interface implementation check.
var _ CLIConverter = (*docfold.Converter)(nil)

// Pool abstracts converter pool operations for testability.
type Pool interface {
	Acquire() (*docfold.Converter, error)
	Release(*docfold.Converter)
	Size() int
}

// fileJob pairs one input file with its resolved output path.
type fileJob struct {
	InputPath  string
	OutputPath string
}

// jobResult holds the outcome of a single conversion.
type jobResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// run converts all inputs through the pool and reports per-file results.
// Returns the first conversion error so main can map it to an exit code.
func run(ctx context.Context, flags *cliFlags, inputs []string, pool Pool) error {
	if len(inputs) == 0 {
		return ErrNoInput
	}

	cfg, err := effectiveConfig(flags)
	if err != nil {
		return err
	}

	extraCSS, err := loadExtraCSS(cfg.Style.CSSPath)
	if err != nil {
		return err
	}

	jobs, err := planJobs(inputs, flags.output, flags.htmlOnly)
	if err != nil {
		return err
	}

	results := convertBatch(ctx, pool, jobs, cfg, extraCSS, flags.htmlOnly)
	return reportResults(results, flags.quiet)
}

// effectiveConfig loads the config file (when given) and overlays
// explicitly-set CLI flags on top of it. CLI wins over config; config
// wins over flag defaults.
func effectiveConfig(flags *cliFlags) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if flags.config != "" {
		loaded, err := config.LoadConfig(flags.config)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}
	mergeFlags(flags, cfg)
	return cfg, nil
}

// mergeFlags overlays CLI flags onto cfg. An explicitly-set flag always
// wins; an untouched flag only fills fields the config left empty.
func mergeFlags(f *cliFlags, cfg *config.Config) {
	mergeString(f, "title", f.title, &cfg.Document.Title)
	mergeString(f, "style", f.style, &cfg.Style.Name)
	mergeString(f, "code-theme", f.codeTheme, &cfg.Style.CodeTheme)
	mergeString(f, "css", f.css, &cfg.Style.CSSPath)
	mergeString(f, "page-size", f.pageSize, &cfg.Page.Size)
	mergeString(f, "orientation", f.orientation, &cfg.Page.Orientation)
	mergeString(f, "footer-text", f.footerText, &cfg.Footer.Text)
	mergeString(f, "footer-position", f.footerPos, &cfg.Footer.Position)
	mergeString(f, "engine", f.engine, &cfg.Engine.Backend)
	mergeString(f, "browser-bin", f.browserBin, &cfg.Engine.BrowserBin)

	if f.changed("margin") || cfg.Page.Margin == 0 {
		cfg.Page.Margin = f.margin
	}
	if f.changed("no-math") {
		enabled := !f.noMath
		cfg.Document.Math = &enabled
	}
	if f.changed("no-outline") {
		cfg.Document.NoOutline = f.noOutline
	}
	if f.changed("no-footer") {
		cfg.Footer.Disabled = f.noFooter
	}
	if f.changed("no-page-number") {
		show := !f.noPageNumber
		cfg.Footer.PageNumber = &show
	}
	if f.changed("heading-numbers") {
		cfg.Style.HeadingNumbers = f.headingNumbers
	}
	if f.changed("browser-code") {
		cfg.Style.BrowserCode = f.browserCode
	}
	if f.changed("no-sandbox") {
		cfg.Engine.NoSandbox = f.noSandbox
	}
	if f.changed("timeout") {
		cfg.Engine.TimeoutSeconds = int(f.timeout / time.Second)
	}
	if f.changed("render-wait") {
		cfg.Engine.RenderWaitSeconds = int(f.renderWait / time.Second)
	}
}

// mergeString applies one string flag onto a config field.
func mergeString(f *cliFlags, name, value string, target *string) {
	if f.changed(name) || *target == "" {
		*target = value
	}
}

// converterOptions translates effective config into library options.
func converterOptions(cfg *config.Config) []docfold.Option {
	opts := []docfold.Option{
		docfold.WithStyle(docfold.Style{
			Name:           cfg.Style.Name,
			CodeTheme:      cfg.Style.CodeTheme,
			HeadingNumbers: cfg.Style.HeadingNumbers,
			BrowserCode:    cfg.Style.BrowserCode,
		}),
	}
	if cfg.Engine.Backend != "" {
		opts = append(opts, docfold.WithEngine(cfg.Engine.Backend))
	}
	if cfg.Engine.BrowserBin != "" {
		opts = append(opts, docfold.WithBrowserBin(cfg.Engine.BrowserBin))
	}
	if cfg.Engine.NoSandbox {
		opts = append(opts, docfold.WithNoSandbox(true))
	}
	if d := cfg.Engine.Timeout(); d > 0 {
		opts = append(opts, docfold.WithTimeout(d))
	}
	if d := cfg.Engine.RenderWait(); d > 0 {
		opts = append(opts, docfold.WithRenderWait(d))
	}
	if cfg.Document.Math != nil {
		opts = append(opts, docfold.WithMath(*cfg.Document.Math))
	}
	return opts
}

// buildInput assembles the library input for one file.
func buildInput(cfg *config.Config, extraCSS, markdown, inputPath string, htmlOnly bool) docfold.Input {
	title := cfg.Document.Title
	if title == "" {
		base := filepath.Base(inputPath)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	var page *docfold.PageSettings
	if cfg.Page.Size != "" || cfg.Page.Orientation != "" || cfg.Page.Margin != 0 {
		page = docfold.DefaultPageSettings()
		if cfg.Page.Size != "" {
			page.Size = cfg.Page.Size
		}
		if cfg.Page.Orientation != "" {
			page.Orientation = cfg.Page.Orientation
		}
		if cfg.Page.Margin != 0 {
			page.Margin = cfg.Page.Margin
		}
	}

	var footer *docfold.Footer
	if cfg.Footer.Disabled {
		// An all-empty footer renders an empty template.
		footer = &docfold.Footer{}
	} else if cfg.Footer.Position != "" || cfg.Footer.PageNumber != nil || cfg.Footer.Text != "" {
		showPage := true
		if cfg.Footer.PageNumber != nil {
			showPage = *cfg.Footer.PageNumber
		}
		footer = &docfold.Footer{
			Position:       cfg.Footer.Position,
			ShowPageNumber: showPage,
			Text:           cfg.Footer.Text,
		}
	}

	return docfold.Input{
		Markdown:  markdown,
		Title:     title,
		CSS:       extraCSS,
		Page:      page,
		Footer:    footer,
		HTMLOnly:  htmlOnly,
		NoOutline: cfg.Document.NoOutline,
	}
}

// loadExtraCSS reads the user CSS file when configured.
func loadExtraCSS(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadCSS, err)
	}
	return string(data), nil
}

// planJobs validates input paths and resolves each output path.
func planJobs(inputs []string, output string, htmlOnly bool) ([]fileJob, error) {
	outExt := ".pdf"
	if htmlOnly {
		outExt = ".html"
	}

	jobs := make([]fileJob, 0, len(inputs))
	for _, in := range inputs {
		ext := strings.ToLower(filepath.Ext(in))
		if ext != ".md" && ext != ".markdown" {
			return nil, fmt.Errorf("%w: %s", ErrInvalidExtension, in)
		}
		if !fileutil.FileExists(in) {
			return nil, fmt.Errorf("%w: %s: %v", ErrReadMarkdown, in, os.ErrNotExist)
		}
		jobs = append(jobs, fileJob{
			InputPath:  in,
			OutputPath: resolveOutputPath(in, output, outExt, len(inputs) > 1),
		})
	}
	return jobs, nil
}

// resolveOutputPath picks the output file for one input. With a single
// input, -o names the file directly unless it is an existing directory;
// with multiple inputs, -o always names a directory.
func resolveOutputPath(input, output, outExt string, multi bool) string {
	base := filepath.Base(input)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + outExt

	if output == "" {
		return filepath.Join(filepath.Dir(input), name)
	}
	if multi || isDirectory(output) {
		return filepath.Join(output, name)
	}
	return output
}

// isDirectory returns true if path exists and is a directory.
func isDirectory(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// convertBatch processes jobs concurrently through the pool. Worker
// count is the pool capacity, capped at the job count.
func convertBatch(ctx context.Context, pool Pool, jobs []fileJob, cfg *config.Config, extraCSS string, htmlOnly bool) []jobResult {
	if len(jobs) == 0 {
		return nil
	}

	concurrency := pool.Size()
	if concurrency > len(jobs) {
		concurrency = len(jobs)
	}

	results := make([]jobResult, len(jobs))
	queue := make(chan int, len(jobs))
	for i := range jobs {
		queue <- i
	}
	close(queue)

	var wg sync.WaitGroup
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range queue {
				results[idx] = convertOne(ctx, pool, jobs[idx], cfg, extraCSS, htmlOnly)
			}
		}()
	}
	wg.Wait()

	return results
}

// convertOne converts a single file using a pooled converter.
func convertOne(ctx context.Context, pool Pool, job fileJob, cfg *config.Config, extraCSS string, htmlOnly bool) jobResult {
	start := time.Now()
	result := jobResult{InputPath: job.InputPath, OutputPath: job.OutputPath}

	conv, err := pool.Acquire()
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}
	defer pool.Release(conv)

	content, err := os.ReadFile(job.InputPath) // #nosec G304 -- user-provided path
	if err != nil {
		result.Err = fmt.Errorf("%w: %s: %v", ErrReadMarkdown, job.InputPath, err)
		result.Duration = time.Since(start)
		return result
	}

	input := buildInput(cfg, extraCSS, string(content), job.InputPath, htmlOnly)
	out, err := conv.Convert(ctx, input)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	data := out.PDF
	if htmlOnly {
		data = out.HTML
	}
	if err := writeOutput(job.OutputPath, data); err != nil {
		result.Err = err
	}
	result.Duration = time.Since(start)
	return result
}

// writeOutput writes the converted document, creating parent directories.
func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrWritePDF, path, err)
		}
	}
	if err := os.WriteFile(path, data, filePermissions); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWritePDF, path, err)
	}
	return nil
}

// reportResults prints per-file outcomes and returns the first error.
func reportResults(results []jobResult, quiet bool) error {
	var firstErr error
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", r.InputPath, r.Err)
			if firstErr == nil {
				firstErr = r.Err
			}
			continue
		}
		if !quiet {
			fmt.Printf("OK   %s -> %s (%s)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		}
	}
	if failed > 0 && !quiet {
		fmt.Fprintf(os.Stderr, "%d of %d conversions failed\n", failed, len(results))
	}
	return firstErr
}
