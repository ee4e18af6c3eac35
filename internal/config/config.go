// Package config loads YAML configuration for the docfold CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/docfold/docfold/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
)

// Field length limits.
const (
	MaxTitleLength  = 200  // document title
	MaxTextLength   = 500  // footer free-form text
	MaxStyleLength  = 100  // style name
	MaxEngineLength = 20   // engine backend name
	MaxPathLength   = 4096 // browser binary path
)

// Config holds all CLI configuration for document generation.
type Config struct {
	Document DocumentConfig `yaml:"document"`
	Page     PageConfig     `yaml:"page"`
	Footer   FooterConfig   `yaml:"footer"`
	Style    StyleConfig    `yaml:"style"`
	Engine   EngineConfig   `yaml:"engine"`
}

// DocumentConfig defines document-level options.
type DocumentConfig struct {
	Title     string `yaml:"title"`     // optional, defaults to input file name
	Math      *bool  `yaml:"math"`      // nil = enabled
	NoOutline bool   `yaml:"noOutline"` // skip bookmark synthesis
}

// PageConfig defines PDF page settings.
type PageConfig struct {
	Size        string  `yaml:"size"`        // "letter", "a4", "legal" (default: "a4")
	Orientation string  `yaml:"orientation"` // "portrait", "landscape"
	Margin      float64 `yaml:"margin"`      // inches
}

// FooterConfig defines page footer options.
type FooterConfig struct {
	Disabled   bool   `yaml:"disabled"`
	Position   string `yaml:"position"` // "left", "center", "right"
	PageNumber *bool  `yaml:"pageNumber"`
	Text       string `yaml:"text"`
}

// StyleConfig selects document appearance.
type StyleConfig struct {
	Name           string `yaml:"name"`           // "default", "technical"
	CodeTheme      string `yaml:"codeTheme"`      // chroma style name
	HeadingNumbers bool   `yaml:"headingNumbers"` // numbered h2-h4
	BrowserCode    bool   `yaml:"browserCode"`    // highlight.js in the page
	CSSPath        string `yaml:"cssPath"`        // extra CSS file appended after the style
}

// EngineConfig selects and tunes the rendering engine.
type EngineConfig struct {
	Backend           string `yaml:"backend"`    // "rod" (default), "chromedp"
	BrowserBin        string `yaml:"browserBin"` // pre-installed browser binary
	NoSandbox         bool   `yaml:"noSandbox"`
	TimeoutSeconds    int    `yaml:"timeoutSeconds"`    // whole-run budget
	RenderWaitSeconds int    `yaml:"renderWaitSeconds"` // render-complete wait
}

// Timeout returns the whole-run budget, zero when unset.
func (e EngineConfig) Timeout() time.Duration {
	return time.Duration(e.TimeoutSeconds) * time.Second
}

// RenderWait returns the render-complete wait, zero when unset.
func (e EngineConfig) RenderWait() time.Duration {
	return time.Duration(e.RenderWaitSeconds) * time.Second
}

// Validate checks field lengths and enumerations.
func (c *Config) Validate() error {
	if err := validateFieldLength("document.title", c.Document.Title, MaxTitleLength); err != nil {
		return err
	}
	if err := validateFieldLength("footer.text", c.Footer.Text, MaxTextLength); err != nil {
		return err
	}
	if err := validateFieldLength("style.name", c.Style.Name, MaxStyleLength); err != nil {
		return err
	}
	if err := validateFieldLength("engine.backend", c.Engine.Backend, MaxEngineLength); err != nil {
		return err
	}
	if err := validateFieldLength("engine.browserBin", c.Engine.BrowserBin, MaxPathLength); err != nil {
		return err
	}

	if c.Footer.Position != "" {
		switch strings.ToLower(c.Footer.Position) {
		case "left", "center", "right":
		default:
			return fmt.Errorf("footer.position: invalid value %q (must be left, center, or right)", c.Footer.Position)
		}
	}

	if c.Engine.TimeoutSeconds < 0 || c.Engine.RenderWaitSeconds < 0 {
		return fmt.Errorf("engine timeouts must not be negative")
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a neutral configuration.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard
// locations. Returns an error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if strings.ContainsAny(nameOrPath, "/\\") {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/docfold/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "docfold", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
