package assets

import (
	"errors"
	"strings"
	"testing"
)

func TestLoadStyle(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"default", "technical"} {
		css, err := LoadStyle(name)
		if err != nil {
			t.Fatalf("LoadStyle(%q) error = %v", name, err)
		}
		if !strings.Contains(css, "page-break-inside: avoid") {
			t.Errorf("style %q missing avoid-break rules", name)
		}
		if !strings.Contains(css, "page-break-after: avoid") {
			t.Errorf("style %q missing heading break rules", name)
		}
	}
}

func TestLoadStyle_Unknown(t *testing.T) {
	t.Parallel()

	_, err := LoadStyle("nope")
	if !errors.Is(err, ErrStyleNotFound) {
		t.Errorf("err = %v, want ErrStyleNotFound", err)
	}
}

func TestStyleNames(t *testing.T) {
	t.Parallel()

	names := StyleNames()
	got := make(map[string]bool, len(names))
	for _, n := range names {
		got[n] = true
	}
	for _, want := range []string{"default", "technical"} {
		if !got[want] {
			t.Errorf("StyleNames() missing %q: %v", want, names)
		}
	}
}

func TestValidateAssetName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		asset   string
		wantErr bool
	}{
		{"plain name", "default", false},
		{"dashes ok", "my-style", false},
		{"empty", "", true},
		{"path separator", "a/b", true},
		{"backslash", `a\b`, true},
		{"dot traversal", "..", true},
		{"extension", "default.css", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateAssetName(tt.asset)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAssetName(%q) = %v, wantErr %v", tt.asset, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidAssetName) {
				t.Errorf("err = %v, want ErrInvalidAssetName", err)
			}
		})
	}
}
