package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	errorTag   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render("error")
	warningTag = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Render("warning")
	okTag      = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render("ok")
)

// PlainFormatter writes a human-readable result. Severity tags are styled;
// lipgloss degrades them to plain text when the output is not a terminal.
type PlainFormatter struct{}

// Format writes the result as lines of "severity: message".
func (f *PlainFormatter) Format(w io.Writer, result *Result) error {
	if _, err := fmt.Fprintln(w, titleStyle.Render(result.Title)); err != nil {
		return err
	}

	for _, line := range result.Errors {
		if _, err := fmt.Fprintf(w, "%s: %s\n", errorTag, line); err != nil {
			return err
		}
	}
	for _, line := range result.Warnings {
		if _, err := fmt.Fprintf(w, "%s: %s\n", warningTag, line); err != nil {
			return err
		}
	}

	if len(result.Errors) == 0 && len(result.Warnings) == 0 {
		if _, err := fmt.Fprintf(w, "%s: no findings\n", okTag); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "%d error(s), %d warning(s)\n", len(result.Errors), len(result.Warnings))
	return err
}
