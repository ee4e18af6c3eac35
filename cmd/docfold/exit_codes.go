package main

import (
	"errors"
	"os"

	docfold "github.com/docfold/docfold"
	"github.com/docfold/docfold/internal/config"
)

// Exit codes for the docfold CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Engine launch/rendering errors
	ExitTimeout = 5 // Render or whole-run budget expired
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Timeouts (exit 5)
	if errors.Is(err, docfold.ErrRenderTimeout) ||
		errors.Is(err, docfold.ErrConversionTimeout) {
		return ExitTimeout
	}

	// Engine errors (exit 4)
	if errors.Is(err, docfold.ErrEngineLaunch) ||
		errors.Is(err, docfold.ErrPageRender) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadMarkdown) ||
		errors.Is(err, ErrReadCSS) ||
		errors.Is(err, ErrWritePDF) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, docfold.ErrEmptyMarkdown) ||
		errors.Is(err, docfold.ErrInvalidPageSize) ||
		errors.Is(err, docfold.ErrInvalidOrientation) ||
		errors.Is(err, docfold.ErrInvalidMargin) ||
		errors.Is(err, docfold.ErrInvalidFooterPos) ||
		errors.Is(err, docfold.ErrUnknownEngine) ||
		errors.Is(err, ErrInvalidExtension) {
		return ExitUsage
	}

	return ExitGeneral
}
