package fileutil

import (
	"errors"
	"os"
	"strings"
	"testing"
)

func TestWriteTempFile(t *testing.T) {
	t.Parallel()

	path, cleanup, err := WriteTempFile("<html></html>", "html")
	if err != nil {
		t.Fatalf("WriteTempFile() error = %v", err)
	}
	defer cleanup()

	if !strings.HasSuffix(path, ".html") {
		t.Errorf("path %q missing extension", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading temp file: %v", err)
	}
	if string(data) != "<html></html>" {
		t.Errorf("content = %q", data)
	}

	cleanup()
	if FileExists(path) {
		t.Error("cleanup did not remove the file")
	}
}

func TestWriteTempFile_InvalidExtension(t *testing.T) {
	t.Parallel()

	if _, _, err := WriteTempFile("x", ""); !errors.Is(err, ErrExtensionEmpty) {
		t.Errorf("empty: err = %v", err)
	}
	if _, _, err := WriteTempFile("x", "a/b"); !errors.Is(err, ErrExtensionPathTraversal) {
		t.Errorf("separator: err = %v", err)
	}
}

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if FileExists(dir) {
		t.Error("directories are not files")
	}

	path := dir + "/f.txt"
	if FileExists(path) {
		t.Error("missing file reported as existing")
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !FileExists(path) {
		t.Error("existing file not found")
	}
}

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"plain-name", false},
		{"dir/file.md", true},
		{`dir\file.md`, true},
		{"./local", true},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsFilePath(tt.input); got != tt.want {
			t.Errorf("IsFilePath(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
