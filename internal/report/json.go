package report

import (
	"encoding/json"
	"io"
)

// JSONFormatter writes the result as indented JSON for pipelines and CI.
type JSONFormatter struct{}

// Format writes the result as a single JSON document.
func (f *JSONFormatter) Format(w io.Writer, result *Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}
