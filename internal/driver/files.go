package driver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"plint/internal/config"
)

// Extensions of the files a directory check picks up.
var Extensions = []string{".php"}

// CollectFiles expands paths into the sorted, duplicate-free list of entry
// files. Directories are walked; exclusion patterns apply to paths
// relative to the walked directory. Files named explicitly are always
// kept.
func CollectFiles(paths []string, ex *config.Excluder) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("cannot check %s: %w", p, err)
		}
		if !info.IsDir() {
			files = append(files, filepath.Clean(p))
			continue
		}
		found, err := walkDir(p, ex)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	// Сортируем для детерминированного порядка
	slices.Sort(files)
	return slices.Compact(files), nil
}

func walkDir(root string, ex *config.Excluder) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if rel != "." && ex.Match(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !slices.Contains(Extensions, strings.ToLower(filepath.Ext(path))) || ex.Match(rel) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cannot walk %s: %w", root, err)
	}
	return files, nil
}
