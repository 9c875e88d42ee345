// Package i18n checks translation consistency across the site's Jekyll
// pages: every page declares its language and its translation group, and
// every translated page points back at an English original.
package i18n

import (
	"fmt"

	"github.com/OddSageID/neuroshield-site/internal/site"
)

// TranslatedRoots are the directory roots holding translated page trees.
var TranslatedRoots = map[string]bool{
	"es": true, "fr": true, "pt": true, "de": true, "it": true, "ar": true, "zh-hans": true,
}

// Severity grades a finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is a single consistency problem.
type Finding struct {
	Severity Severity `json:"severity"`
	Page     string   `json:"page"`
	Message  string   `json:"message"`
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: %s", f.Page, f.Message)
}

// Result holds all findings of a check run.
type Result struct {
	Findings []Finding
}

// Errors returns the error-grade findings.
func (r *Result) Errors() []Finding {
	return r.filter(SeverityError)
}

// Warnings returns the warning-grade findings.
func (r *Result) Warnings() []Finding {
	return r.filter(SeverityWarning)
}

func (r *Result) filter(sev Severity) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Severity == sev {
			out = append(out, f)
		}
	}
	return out
}

// HasErrors reports whether any error-grade finding exists.
func (r *Result) HasErrors() bool {
	return len(r.Errors()) > 0
}

// Check runs the consistency rules over the scanned pages.
func Check(pages []site.Page) *Result {
	result := &Result{}

	englishRefs := make(map[string]bool)
	for _, p := range pages {
		if p.FrontMatter.Lang == "en" && p.FrontMatter.Ref != "" {
			englishRefs[p.FrontMatter.Ref] = true
		}
	}

	for _, p := range pages {
		fm := p.FrontMatter
		if fm.Lang == "" || fm.Ref == "" {
			result.Findings = append(result.Findings, Finding{
				Severity: SeverityError,
				Page:     p.RelPath,
				Message:  "missing lang or ref in front matter",
			})
			continue
		}

		if fm.Lang == "en" && TranslatedRoots[p.PathRoot()] {
			result.Findings = append(result.Findings, Finding{
				Severity: SeverityError,
				Page:     p.RelPath,
				Message:  "English lang set in translated path",
			})
		}

		if fm.Lang != "en" && !englishRefs[fm.Ref] {
			result.Findings = append(result.Findings, Finding{
				Severity: SeverityWarning,
				Page:     p.RelPath,
				Message:  fmt.Sprintf("translation exists without English ref %s", fm.Ref),
			})
		}
	}

	return result
}
