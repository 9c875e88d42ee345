// Package report formats check results for terminals, pipelines, and docs.
package report

import (
	"io"
)

// Result is the common shape every site check reduces to.
type Result struct {
	Title    string            `json:"title"`
	Meta     map[string]string `json:"meta,omitempty"`
	Errors   []string          `json:"errors"`
	Warnings []string          `json:"warnings"`
}

// HasErrors reports whether the checked site failed.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// Formatter writes a result to the writer.
type Formatter interface {
	Format(w io.Writer, result *Result) error
}

// FormatType represents an output format type.
type FormatType string

const (
	FormatPlain    FormatType = "plain"
	FormatJSON     FormatType = "json"
	FormatMarkdown FormatType = "markdown"
)

// NewFormatter creates a formatter for the specified format type.
func NewFormatter(format FormatType) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{}
	case FormatMarkdown:
		return &MarkdownFormatter{}
	case FormatPlain:
		fallthrough
	default:
		return &PlainFormatter{}
	}
}
