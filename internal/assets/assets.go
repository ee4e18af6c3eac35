// Package assets provides the embedded CSS styles shipped with docfold.
// Layout-critical rules (page breaks, avoid-break, fonts) live here so
// the layout engine has them before first paint.
package assets

import (
	"embed"
	"errors"
	"fmt"
	"strings"
)

//go:embed styles/*.css
var styles embed.FS

// Sentinel errors for asset loading.
var (
	ErrStyleNotFound    = errors.New("style not found")
	ErrInvalidAssetName = errors.New("invalid asset name")
)

// LoadStyle loads a CSS style by name. The name must not include the
// .css extension or path components.
func LoadStyle(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := styles.ReadFile("styles/" + name + ".css")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}
	return string(content), nil
}

// StyleNames lists the embedded style names.
func StyleNames() []string {
	entries, err := styles.ReadDir("styles")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".css"))
	}
	return names
}

// ValidateAssetName checks that an asset name is safe for use as a
// filename: no path separators, dots, or traversal characters.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
