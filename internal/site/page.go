// Package site models the static site tree: page discovery, Jekyll front
// matter, and change watching.
package site

import (
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// frontMatterRegex matches a Jekyll front matter block at the start of a page.
var frontMatterRegex = regexp.MustCompile(`(?s)\A---\s*\n(.*?)\n---\s*\n`)

// Page is a single HTML page of the site.
type Page struct {
	Path    string // Absolute path on disk
	RelPath string // Path relative to the site root, forward slashes
	Content string // Raw file content, front matter included

	FrontMatter FrontMatter
}

// FrontMatter holds the parsed Jekyll front matter of a page. Pages without
// a front matter block are valid; all fields are then empty.
type FrontMatter struct {
	Lang string            // Page language (e.g. "en", "es")
	Ref  string            // Translation group key shared across languages
	Raw  map[string]string // All scalar front matter fields
}

// ParseFrontMatter extracts and parses the leading front matter block.
// Malformed YAML is treated as absent front matter; these files are
// hand-edited and a broken block should not abort a whole-site scan.
func ParseFrontMatter(content string) FrontMatter {
	match := frontMatterRegex.FindStringSubmatch(content)
	if match == nil {
		return FrontMatter{}
	}

	var raw map[string]any
	if err := yaml.Unmarshal([]byte(match[1]), &raw); err != nil {
		return FrontMatter{}
	}

	fm := FrontMatter{Raw: make(map[string]string, len(raw))}
	for key, value := range raw {
		s, ok := value.(string)
		if !ok {
			continue
		}
		fm.Raw[key] = strings.TrimSpace(s)
	}
	fm.Lang = fm.Raw["lang"]
	fm.Ref = fm.Raw["ref"]
	return fm
}

// PathRoot returns the first segment of the page's relative path, or the
// file name itself for root-level pages. Translated pages live under a
// language root like "es/" or "fr/".
func (p *Page) PathRoot() string {
	idx := strings.IndexByte(p.RelPath, '/')
	if idx < 0 {
		return p.RelPath
	}
	return p.RelPath[:idx]
}
