package site

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePage(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestScan_FindsHTMLSorted(t *testing.T) {
	root := t.TempDir()
	writePage(t, root, "index.html", "<html></html>")
	writePage(t, root, "about/index.html", "<html></html>")
	writePage(t, root, "es/index.html", "<html></html>")
	writePage(t, root, "css/style.css", "body {}")

	pages, err := Scan(root, nil)
	require.NoError(t, err)

	var rels []string
	for _, p := range pages {
		rels = append(rels, p.RelPath)
	}
	assert.Equal(t, []string{"about/index.html", "es/index.html", "index.html"}, rels)
}

func TestScan_SkipsExcludedDirs(t *testing.T) {
	root := t.TempDir()
	writePage(t, root, "index.html", "<html></html>")
	writePage(t, root, "_site/index.html", "<html></html>")
	writePage(t, root, "deep/node_modules/pkg/page.html", "<html></html>")

	pages, err := Scan(root, []string{"_site", "node_modules"})
	require.NoError(t, err)

	require.Len(t, pages, 1)
	assert.Equal(t, "index.html", pages[0].RelPath)
}

func TestScan_ParsesFrontMatter(t *testing.T) {
	root := t.TempDir()
	writePage(t, root, "es/index.html", "---\nlang: es\nref: home\n---\n<html></html>")

	pages, err := Scan(root, nil)
	require.NoError(t, err)

	require.Len(t, pages, 1)
	assert.Equal(t, "es", pages[0].FrontMatter.Lang)
	assert.Equal(t, "home", pages[0].FrontMatter.Ref)
}

func TestParseFrontMatter(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantLang string
		wantRef  string
	}{
		{
			name:     "full block",
			content:  "---\nlang: en\nref: mission\ntitle: Our Mission\n---\n<html>",
			wantLang: "en",
			wantRef:  "mission",
		},
		{
			name:    "no front matter",
			content: "<html><body></body></html>",
		},
		{
			name:    "block not at start",
			content: "<html>\n---\nlang: en\n---\n",
		},
		{
			name:    "malformed yaml treated as absent",
			content: "---\nlang: [broken\n---\n<html>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm := ParseFrontMatter(tt.content)
			assert.Equal(t, tt.wantLang, fm.Lang)
			assert.Equal(t, tt.wantRef, fm.Ref)
		})
	}
}

func TestParseFrontMatter_KeepsScalarFields(t *testing.T) {
	fm := ParseFrontMatter("---\nlang: en\ntitle: Home\nlayout: default\n---\n")
	assert.Equal(t, "Home", fm.Raw["title"])
	assert.Equal(t, "default", fm.Raw["layout"])
}

func TestPage_PathRoot(t *testing.T) {
	assert.Equal(t, "index.html", (&Page{RelPath: "index.html"}).PathRoot())
	assert.Equal(t, "es", (&Page{RelPath: "es/about/index.html"}).PathRoot())
}
