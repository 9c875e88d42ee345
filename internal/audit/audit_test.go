package audit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OddSageID/neuroshield-site/internal/site"
)

func analyze(content string) PageReport {
	return AnalyzePage(site.Page{RelPath: "test.html", Content: content})
}

const cleanPage = `<!DOCTYPE html>
<html lang="en">
<head><title>Home</title></head>
<body>
<a class="skip-link" href="#main-content">Skip to content</a>
<main id="main-content">
<h1>Welcome</h1>
<p>Short paragraph.</p>
<img src="/img/logo.svg" alt="Logo">
<button aria-label="Switch to dark theme"><svg></svg></button>
</main>
</body>
</html>`

func TestAnalyzePage_CleanPage(t *testing.T) {
	r := analyze(cleanPage)

	assert.True(t, r.HasMain)
	assert.Equal(t, 1, r.H1Count)
	assert.True(t, r.HasSkipLink)
	assert.Empty(t, r.MissingAlt)
	assert.Zero(t, r.IconButtonsMissingLabel)
	assert.False(t, r.HasErrors())
}

func TestAnalyzePage_MissingMainLandmark(t *testing.T) {
	r := analyze(`<html><body><main><h1>x</h1></main></body></html>`)
	assert.False(t, r.HasMain, "main without id=main-content does not count")
	assert.True(t, r.HasErrors())
}

func TestAnalyzePage_H1Count(t *testing.T) {
	r := analyze(`<html><body><main id="main-content"><h1>a</h1><h1>b</h1></main></body></html>`)
	assert.Equal(t, 2, r.H1Count)
	assert.True(t, r.HasErrors())
}

func TestAnalyzePage_ImagesMissingAlt(t *testing.T) {
	r := analyze(`<html><body>
<img src="a.png">
<img src="b.png" alt="">
<img alt="c">
<img>
</body></html>`)

	// Empty alt is present and therefore valid; a missing attribute is not.
	assert.Equal(t, []string{"a.png", "(no src)"}, r.MissingAlt)
}

func TestAnalyzePage_IconOnlyButtons(t *testing.T) {
	r := analyze(`<html><body>
<button><svg></svg></button>
<button aria-label="Toggle theme"><svg></svg></button>
<button aria-labelledby="lbl"><svg></svg></button>
<button>Visible text</button>
<button>  <span>Nested text</span> </button>
</body></html>`)

	assert.Equal(t, 1, r.IconButtonsMissingLabel)
}

func TestAnalyzePage_SkipLink(t *testing.T) {
	r := analyze(`<html><body><a class="nav skip-link" href="#main-content">Skip</a></body></html>`)
	assert.True(t, r.HasSkipLink)

	r = analyze(`<html><body><a class="skip-link" href="#top">Skip</a></body></html>`)
	assert.False(t, r.HasSkipLink)
}

func TestAnalyzePage_ParagraphLengths(t *testing.T) {
	r := analyze(`<html><body>
<p>  Twelve   chars
here </p>
<p></p>
<p>   </p>
</body></html>`)

	require.Len(t, r.ParagraphLengths, 1)
	assert.Equal(t, len("Twelve chars here"), r.ParagraphLengths[0])
}

func TestPageReport_AvgParagraphLength(t *testing.T) {
	r := PageReport{ParagraphLengths: []int{10, 20, 30}}
	assert.InDelta(t, 20.0, r.AvgParagraphLength(), 0.001)

	empty := PageReport{}
	assert.Zero(t, empty.AvgParagraphLength())
}

func TestRun_AggregatesFindings(t *testing.T) {
	pages := []site.Page{
		{RelPath: "index.html", Content: cleanPage},
		{RelPath: "broken.html", Content: `<html><body><h1>a</h1><h1>b</h1><img src="x.png"></body></html>`},
	}

	summary := Run(pages, 95)

	assert.Len(t, summary.Pages, 2)
	assert.True(t, summary.HasErrors())
	assert.Contains(t, summary.Errors, "broken.html: missing #main-content")
	assert.Contains(t, summary.Errors, "broken.html: expected 1 <h1>, found 2")
	assert.Contains(t, summary.Errors, "broken.html: 1 img tag(s) missing alt")
	assert.Contains(t, summary.Warnings, "broken.html: missing skip link")
}

func TestRun_LongParagraphWarning(t *testing.T) {
	long := strings.Repeat("word ", 40) // ~200 chars
	page := site.Page{RelPath: "long.html", Content: `<html><body>
<a class="skip-link" href="#main-content">Skip</a>
<main id="main-content"><h1>t</h1><p>` + long + `</p></main>
</body></html>`}

	summary := Run([]site.Page{page}, 95)

	assert.False(t, summary.HasErrors())
	require.Len(t, summary.Warnings, 1)
	assert.Contains(t, summary.Warnings[0], "exceeds 95ch")
}

func TestSummary_RenderMarkdown(t *testing.T) {
	summary := Run([]site.Page{
		{RelPath: "index.html", Content: cleanPage},
	}, 95)

	var sb strings.Builder
	require.NoError(t, summary.RenderMarkdown(&sb))
	out := sb.String()

	assert.Contains(t, out, "# UI Audit Report")
	assert.Contains(t, out, "Files scanned: 1")
	assert.Contains(t, out, "## Errors\n- None")
	assert.NotEmpty(t, summary.RunID)
	assert.Len(t, summary.RunID, 26, "ULID run id")
}
