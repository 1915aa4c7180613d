package source

import (
	"path/filepath"
	"strings"
)

func normalizePath(p string) string {
	// единый вид в кроссплатформенных дифах
	return filepath.ToSlash(filepath.Clean(p))
}

// AbsolutePath returns the normalized absolute form of p. Required files
// are keyed by it, so two spellings of one path load the file once.
func AbsolutePath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return normalizePath(abs), nil
}

// RelativePath renders p relative to baseDir. Paths outside baseDir fall
// back to their absolute form.
func RelativePath(p, baseDir string) (string, error) {
	absPath, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absBase, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return normalizePath(absPath), nil
	}
	return normalizePath(rel), nil
}

// ResolveRelative resolves a path written inside the file from: relative
// paths are taken from the directory of that file.
func ResolveRelative(from, target string) string {
	if filepath.IsAbs(target) || from == "" {
		return normalizePath(target)
	}
	return normalizePath(filepath.Join(filepath.Dir(from), target))
}
