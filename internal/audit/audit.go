// Package audit checks the structural accessibility and readability of
// static HTML pages.
package audit

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/OddSageID/neuroshield-site/internal/site"
)

// MainContentID is the landmark id every page must carry on its main
// element, and the skip link's required target.
const MainContentID = "main-content"

var whitespaceRegex = regexp.MustCompile(`\s+`)

// PageReport holds the findings for a single page.
type PageReport struct {
	RelPath string

	HasMain                 bool
	H1Count                 int
	ParagraphLengths        []int
	MissingAlt              []string
	IconButtonsMissingLabel int
	HasSkipLink             bool
}

// AvgParagraphLength returns the mean paragraph length in characters.
func (r *PageReport) AvgParagraphLength() float64 {
	if len(r.ParagraphLengths) == 0 {
		return 0
	}
	total := 0
	for _, n := range r.ParagraphLengths {
		total += n
	}
	return float64(total) / float64(len(r.ParagraphLengths))
}

// HasErrors reports whether any error-grade finding exists on the page.
func (r *PageReport) HasErrors() bool {
	return !r.HasMain || r.H1Count != 1 || len(r.MissingAlt) > 0 || r.IconButtonsMissingLabel > 0
}

// buttonFrame tracks an open button element while scanning its subtree.
type buttonFrame struct {
	hasAriaLabel      bool
	hasAriaLabelledBy bool
	text              strings.Builder
}

// AnalyzePage audits a single page's content.
func AnalyzePage(p site.Page) PageReport {
	report := PageReport{RelPath: p.RelPath}

	tokenizer := html.NewTokenizer(strings.NewReader(p.Content))

	var inParagraph bool
	var paragraph strings.Builder
	var buttons []*buttonFrame

	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break
		}

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			token := tokenizer.Token()
			attrs := make(map[string]string, len(token.Attr))
			for _, a := range token.Attr {
				attrs[strings.ToLower(a.Key)] = a.Val
			}

			switch token.Data {
			case "main":
				if attrs["id"] == MainContentID {
					report.HasMain = true
				}
			case "h1":
				report.H1Count++
			case "p":
				if tt == html.StartTagToken {
					inParagraph = true
					paragraph.Reset()
				}
			case "img":
				if _, ok := attrs["alt"]; !ok {
					src := strings.TrimSpace(attrs["src"])
					if src == "" {
						src = "(no src)"
					}
					report.MissingAlt = append(report.MissingAlt, src)
				}
			case "button":
				if tt == html.StartTagToken {
					buttons = append(buttons, &buttonFrame{
						hasAriaLabel:      attrs["aria-label"] != "",
						hasAriaLabelledBy: attrs["aria-labelledby"] != "",
					})
				}
			case "a":
				classes := strings.Fields(attrs["class"])
				if attrs["href"] == "#"+MainContentID {
					for _, c := range classes {
						if c == "skip-link" {
							report.HasSkipLink = true
							break
						}
					}
				}
			}

		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			switch string(name) {
			case "p":
				if inParagraph {
					text := strings.TrimSpace(whitespaceRegex.ReplaceAllString(paragraph.String(), " "))
					if text != "" {
						report.ParagraphLengths = append(report.ParagraphLengths, len(text))
					}
					inParagraph = false
					paragraph.Reset()
				}
			case "button":
				if len(buttons) > 0 {
					frame := buttons[len(buttons)-1]
					buttons = buttons[:len(buttons)-1]
					text := strings.TrimSpace(whitespaceRegex.ReplaceAllString(frame.text.String(), " "))
					if text == "" && !frame.hasAriaLabel && !frame.hasAriaLabelledBy {
						report.IconButtonsMissingLabel++
					}
				}
			}

		case html.TextToken:
			text := string(tokenizer.Text())
			if inParagraph {
				paragraph.WriteString(text)
			}
			if len(buttons) > 0 {
				buttons[len(buttons)-1].text.WriteString(text)
			}
		}
	}

	return report
}

// Run audits every page and aggregates the results.
func Run(pages []site.Page, maxParagraphLen int) *Summary {
	summary := &Summary{MaxParagraphLen: maxParagraphLen}
	for _, p := range pages {
		report := AnalyzePage(p)
		summary.add(report)
	}
	return summary
}
