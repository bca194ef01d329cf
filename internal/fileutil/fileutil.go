// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrNameEmpty         = errors.New("file name cannot be empty")
	ErrNamePathTraversal = errors.New("file name contains path separator or null byte")
)

// scopedFilePermissions keeps request files private to the current user.
const scopedFilePermissions = 0o600

// WriteScopedFile writes data to dir/name and returns the path with a cleanup
// function removing it. Cleanup errors are ignored: a leftover file is not fatal.
func WriteScopedFile(dir, name string, data []byte) (path string, cleanup func(), err error) {
	if err := ValidateName(name); err != nil {
		return "", nil, err
	}

	path = filepath.Join(dir, name)
	cleanup = func() { _ = os.Remove(path) }

	if err := os.WriteFile(path, data, scopedFilePermissions); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("writing %s: %w", path, err)
	}

	return path, cleanup, nil
}

// ValidateName checks that name is a bare file name usable inside a directory.
func ValidateName(name string) error {
	if name == "" {
		return ErrNameEmpty
	}
	if strings.ContainsAny(name, "/\\\x00") {
		return ErrNamePathTraversal
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// NonEmptyFileSize returns the size of path when it is a regular file with at
// least one byte. The boolean is false for missing, empty or directory paths.
func NonEmptyFileSize(path string) (int64, bool) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() || info.Size() == 0 {
		return 0, false
	}
	return info.Size(), true
}

// ReplaceExt swaps the extension of path for ext (which includes the dot).
//
// Examples:
//   - ("/a/b/hw1.ipynb", ".pdf") -> "/a/b/hw1.pdf"
//   - ("/a/b/notes", ".pdf") -> "/a/b/notes.pdf"
//   - ("/a/b.v2/hw", ".pdf") -> "/a/b.v2/hw.pdf"
func ReplaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// HasExtFold reports whether path ends with ext, ignoring case.
func HasExtFold(path, ext string) bool {
	return strings.EqualFold(filepath.Ext(path), ext)
}
