package report

import (
	"fmt"
	"io"
	"sort"
)

// MarkdownFormatter writes the result as a markdown section, suitable for
// committing under docs/.
type MarkdownFormatter struct{}

// Format writes the result as markdown.
func (f *MarkdownFormatter) Format(w io.Writer, result *Result) error {
	if _, err := fmt.Fprintf(w, "# %s\n\n", result.Title); err != nil {
		return err
	}

	if len(result.Meta) > 0 {
		keys := make([]string, 0, len(result.Meta))
		for k := range result.Meta {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if _, err := fmt.Fprintf(w, "- %s: %s\n", k, result.Meta[k]); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	if err := writeSection(w, "Errors", result.Errors); err != nil {
		return err
	}
	return writeSection(w, "Warnings", result.Warnings)
}

func writeSection(w io.Writer, name string, items []string) error {
	if _, err := fmt.Fprintf(w, "## %s\n", name); err != nil {
		return err
	}
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "- None")
		return err
	}
	for _, item := range items {
		if _, err := fmt.Fprintf(w, "- %s\n", item); err != nil {
			return err
		}
	}
	return nil
}
