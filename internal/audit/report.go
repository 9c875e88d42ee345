package audit

import (
	"crypto/rand"
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/oklog/ulid/v2"
)

// Summary aggregates page reports into an audit result.
type Summary struct {
	RunID           string
	GeneratedAt     time.Time
	MaxParagraphLen int

	Pages    []PageReport
	Errors   []string
	Warnings []string
}

// add folds a page report into the summary, deriving findings.
func (s *Summary) add(r PageReport) {
	s.Pages = append(s.Pages, r)

	if !r.HasMain {
		s.Errors = append(s.Errors, fmt.Sprintf("%s: missing #%s", r.RelPath, MainContentID))
	}
	if r.H1Count != 1 {
		s.Errors = append(s.Errors, fmt.Sprintf("%s: expected 1 <h1>, found %d", r.RelPath, r.H1Count))
	}
	if len(r.MissingAlt) > 0 {
		s.Errors = append(s.Errors, fmt.Sprintf("%s: %d img tag(s) missing alt", r.RelPath, len(r.MissingAlt)))
	}
	if r.IconButtonsMissingLabel > 0 {
		s.Errors = append(s.Errors, fmt.Sprintf("%s: %d icon-only button(s) missing aria-label", r.RelPath, r.IconButtonsMissingLabel))
	}
	if !r.HasSkipLink {
		s.Warnings = append(s.Warnings, fmt.Sprintf("%s: missing skip link", r.RelPath))
	}
	if avg := r.AvgParagraphLength(); avg > float64(s.MaxParagraphLen) {
		s.Warnings = append(s.Warnings,
			fmt.Sprintf("%s: average paragraph length %.1fch exceeds %dch", r.RelPath, avg, s.MaxParagraphLen))
	}
}

// HasErrors reports whether any error-grade finding exists.
func (s *Summary) HasErrors() bool {
	return len(s.Errors) > 0
}

// Counts used by the markdown report.
func (s *Summary) countMissingMain() int {
	n := 0
	for _, r := range s.Pages {
		if !r.HasMain {
			n++
		}
	}
	return n
}

func (s *Summary) countH1Issues() int {
	n := 0
	for _, r := range s.Pages {
		if r.H1Count != 1 {
			n++
		}
	}
	return n
}

func (s *Summary) countMissingAlt() int {
	n := 0
	for _, r := range s.Pages {
		n += len(r.MissingAlt)
	}
	return n
}

func (s *Summary) countUnlabeledButtons() int {
	n := 0
	for _, r := range s.Pages {
		n += r.IconButtonsMissingLabel
	}
	return n
}

func (s *Summary) countMissingSkipLink() int {
	n := 0
	for _, r := range s.Pages {
		if !r.HasSkipLink {
			n++
		}
	}
	return n
}

func (s *Summary) countLongParagraphs() int {
	n := 0
	for _, r := range s.Pages {
		if r.AvgParagraphLength() > float64(s.MaxParagraphLen) {
			n++
		}
	}
	return n
}

// reportTemplate renders the markdown audit report.
var reportTemplate = template.Must(template.New("report").Parse(`# UI Audit Report

Run {{.RunID}} at {{.GeneratedAt}}

## Summary
- Files scanned: {{.FilesScanned}}
- Missing #main-content: {{.MissingMain}}
- Pages with invalid h1 count: {{.H1Issues}}
- Images missing alt: {{.MissingAlt}}
- Icon-only buttons missing aria-label: {{.UnlabeledButtons}}
- Pages missing skip link: {{.MissingSkipLink}}
- Pages with avg paragraph length > {{.MaxParagraphLen}}ch: {{.LongParagraphs}}

## Errors
{{range .Errors}}- {{.}}
{{else}}- None
{{end}}
## Warnings
{{range .Warnings}}- {{.}}
{{else}}- None
{{end}}`))

// reportData flattens a Summary for the template.
type reportData struct {
	RunID            string
	GeneratedAt      string
	FilesScanned     int
	MissingMain      int
	H1Issues         int
	MissingAlt       int
	UnlabeledButtons int
	MissingSkipLink  int
	LongParagraphs   int
	MaxParagraphLen  int
	Errors           []string
	Warnings         []string
}

// Finalize stamps the run metadata. Call once, after every page is added.
func (s *Summary) Finalize() {
	if s.RunID == "" {
		id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
		if err == nil {
			s.RunID = id.String()
		}
	}
	if s.GeneratedAt.IsZero() {
		s.GeneratedAt = time.Now().UTC()
	}
}

// RenderMarkdown writes the markdown audit report.
func (s *Summary) RenderMarkdown(w io.Writer) error {
	s.Finalize()
	return reportTemplate.Execute(w, reportData{
		RunID:            s.RunID,
		GeneratedAt:      s.GeneratedAt.Format(time.RFC3339),
		FilesScanned:     len(s.Pages),
		MissingMain:      s.countMissingMain(),
		H1Issues:         s.countH1Issues(),
		MissingAlt:       s.countMissingAlt(),
		UnlabeledButtons: s.countUnlabeledButtons(),
		MissingSkipLink:  s.countMissingSkipLink(),
		LongParagraphs:   s.countLongParagraphs(),
		MaxParagraphLen:  s.MaxParagraphLen,
		Errors:           s.Errors,
		Warnings:         s.Warnings,
	})
}
