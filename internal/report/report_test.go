package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *Result {
	return &Result{
		Title:    "i18n check",
		Meta:     map[string]string{"pages": "12"},
		Errors:   []string{"es/index.html: English lang set in translated path"},
		Warnings: []string{"fr/donate.html: translation exists without English ref donate"},
	}
}

func TestNewFormatter(t *testing.T) {
	assert.IsType(t, &JSONFormatter{}, NewFormatter(FormatJSON))
	assert.IsType(t, &MarkdownFormatter{}, NewFormatter(FormatMarkdown))
	assert.IsType(t, &PlainFormatter{}, NewFormatter(FormatPlain))
	assert.IsType(t, &PlainFormatter{}, NewFormatter("bogus"))
}

func TestPlainFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&PlainFormatter{}).Format(&buf, sampleResult()))
	out := buf.String()

	assert.Contains(t, out, "i18n check")
	assert.Contains(t, out, "es/index.html")
	assert.Contains(t, out, "1 error(s), 1 warning(s)")
}

func TestPlainFormatter_NoFindings(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&PlainFormatter{}).Format(&buf, &Result{Title: "audit"}))

	assert.Contains(t, buf.String(), "no findings")
	assert.Contains(t, buf.String(), "0 error(s), 0 warning(s)")
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONFormatter{}).Format(&buf, sampleResult()))

	var decoded Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "i18n check", decoded.Title)
	assert.Len(t, decoded.Errors, 1)
	assert.Len(t, decoded.Warnings, 1)
	assert.Equal(t, "12", decoded.Meta["pages"])
}

func TestMarkdownFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&MarkdownFormatter{}).Format(&buf, sampleResult()))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "# i18n check\n"))
	assert.Contains(t, out, "- pages: 12")
	assert.Contains(t, out, "## Errors\n- es/index.html")
	assert.Contains(t, out, "## Warnings\n- fr/donate.html")
}

func TestMarkdownFormatter_EmptySections(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&MarkdownFormatter{}).Format(&buf, &Result{Title: "audit"}))

	assert.Contains(t, buf.String(), "## Errors\n- None")
	assert.Contains(t, buf.String(), "## Warnings\n- None")
}
