package tui

import (
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// errLimit stops the walk once enough files were found.
var errLimit = errors.New("limit reached")

// skippedDirs are never descended into when looking for notebooks.
var skippedDirs = map[string]bool{
	"node_modules":  true,
	"__pycache__":   true,
	"venv":          true,
	"site-packages": true,
}

// FindFiles returns up to limit files under root with extension ext
// (case-insensitive), sorted by path. Hidden directories and common
// environment directories are skipped.
func FindFiles(root, ext string, limit int) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || skippedDirs[name]) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ext) {
			out = append(out, path)
			if limit > 0 && len(out) >= limit {
				return errLimit
			}
		}
		return nil
	})
	if err != nil && !errors.Is(err, errLimit) {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}
