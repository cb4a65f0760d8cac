package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadFile reads one file into a Resource named after its base name.
func LoadFile(path string) (Resource, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Resource{}, fmt.Errorf("model: load %s: %w", path, err)
	}
	return NewResource(filepath.Base(path), b), nil
}

// LoadDir reads every regular file directly under dir into Resources.
// Dotfiles and subdirectories are skipped.
func LoadDir(dir string) ([]Resource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("model: load dir %s: %w", dir, err)
	}
	var out []Resource
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		r, err := LoadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
