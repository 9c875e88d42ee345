package site

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Scan walks root and returns every HTML page, sorted by relative path.
// Directories whose name appears in excludeDirs are skipped entirely, at
// any depth.
func Scan(root string, excludeDirs []string) ([]Page, error) {
	excluded := make(map[string]bool, len(excludeDirs))
	for _, dir := range excludeDirs {
		excluded[dir] = true
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve site root %s: %w", root, err)
	}

	var pages []Page
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != absRoot && excluded[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".html") {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return err
		}

		raw := string(content)
		pages = append(pages, Page{
			Path:        path,
			RelPath:     filepath.ToSlash(rel),
			Content:     raw,
			FrontMatter: ParseFrontMatter(raw),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(pages, func(i, j int) bool { return pages[i].RelPath < pages[j].RelPath })
	return pages, nil
}
