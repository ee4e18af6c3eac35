package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
document:
  title: Quarterly Report
  math: false
  noOutline: true
page:
  size: letter
  orientation: landscape
  margin: 0.75
footer:
  position: right
  pageNumber: false
  text: Confidential
style:
  name: technical
  codeTheme: monokai
  headingNumbers: true
engine:
  backend: chromedp
  noSandbox: true
  timeoutSeconds: 90
  renderWaitSeconds: 30
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Document.Title != "Quarterly Report" {
		t.Errorf("title = %q", cfg.Document.Title)
	}
	if cfg.Document.Math == nil || *cfg.Document.Math {
		t.Error("math should be explicitly disabled")
	}
	if !cfg.Document.NoOutline {
		t.Error("noOutline not set")
	}
	if cfg.Page.Size != "letter" || cfg.Page.Orientation != "landscape" || cfg.Page.Margin != 0.75 {
		t.Errorf("page = %+v", cfg.Page)
	}
	if cfg.Footer.Position != "right" || cfg.Footer.Text != "Confidential" {
		t.Errorf("footer = %+v", cfg.Footer)
	}
	if cfg.Footer.PageNumber == nil || *cfg.Footer.PageNumber {
		t.Error("pageNumber should be explicitly disabled")
	}
	if cfg.Style.Name != "technical" || cfg.Style.CodeTheme != "monokai" || !cfg.Style.HeadingNumbers {
		t.Errorf("style = %+v", cfg.Style)
	}
	if cfg.Engine.Backend != "chromedp" || !cfg.Engine.NoSandbox {
		t.Errorf("engine = %+v", cfg.Engine)
	}
	if cfg.Engine.Timeout() != 90*time.Second {
		t.Errorf("Timeout() = %v", cfg.Engine.Timeout())
	}
	if cfg.Engine.RenderWait() != 30*time.Second {
		t.Errorf("RenderWait() = %v", cfg.Engine.RenderWait())
	}
}

func TestLoadConfig_UnknownFieldRejected(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "document:\n  titel: typo\n")
	_, err := LoadConfig(path)
	if !errors.Is(err, ErrConfigParse) {
		t.Errorf("err = %v, want ErrConfigParse", err)
	}
}

func TestLoadConfig_NotFound(t *testing.T) {
	t.Parallel()

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("err = %v, want ErrConfigNotFound", err)
	}
}

func TestLoadConfig_EmptyName(t *testing.T) {
	t.Parallel()

	_, err := LoadConfig("")
	if !errors.Is(err, ErrEmptyConfigName) {
		t.Errorf("err = %v, want ErrEmptyConfigName", err)
	}
}

func TestLoadConfig_ByNameNotFoundListsTriedPaths(t *testing.T) {
	t.Parallel()

	_, err := LoadConfig("docfold-test-no-such-config")
	if !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("err = %v, want ErrConfigNotFound", err)
	}
	if !strings.Contains(err.Error(), ".yaml") {
		t.Errorf("error should list tried paths: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"zero value valid", func(*Config) {}, false},
		{"valid footer position", func(c *Config) { c.Footer.Position = "Left" }, false},
		{"invalid footer position", func(c *Config) { c.Footer.Position = "bottom" }, true},
		{"title too long", func(c *Config) { c.Document.Title = strings.Repeat("x", MaxTitleLength+1) }, true},
		{"footer text too long", func(c *Config) { c.Footer.Text = strings.Repeat("x", MaxTextLength+1) }, true},
		{"negative timeout", func(c *Config) { c.Engine.TimeoutSeconds = -1 }, true},
		{"negative render wait", func(c *Config) { c.Engine.RenderWaitSeconds = -5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEngineConfig_ZeroTimeoutsMeanUnset(t *testing.T) {
	t.Parallel()

	var e EngineConfig
	if e.Timeout() != 0 || e.RenderWait() != 0 {
		t.Errorf("zero config should yield zero durations, got %v/%v", e.Timeout(), e.RenderWait())
	}
}
