// Package secheaders injects and updates the security meta tags of static
// HTML pages: Content-Security-Policy and its companion headers, kept in
// sync with each page's inline scripts.
package secheaders

import (
	"fmt"
	"regexp"
	"strings"
)

// Change descriptions reported per file.
const (
	ChangeUpdatedCSP         = "Updated CSP"
	ChangeAddedSecurityBlock = "Added security header block"
	ChangeAddedContentType   = "Added X-Content-Type-Options"
	ChangeAddedPermissions   = "Added Permissions-Policy"
	ChangeRemovedInline      = "Removed inline scripts"
	ChangeRemovedGoogleFonts = "Removed Google Fonts reference"
	ChangeAddedFontsCSS      = "Added fonts.css reference"
)

// PermissionsPolicy is the locked-down feature policy published alongside
// the CSP.
const PermissionsPolicy = "accelerometer=(), camera=(), geolocation=(), gyroscope=(), magnetometer=(), microphone=(), payment=(), usb=(), interest-cohort=()"

var (
	cspMetaRegex     = regexp.MustCompile(`(?i)<meta\s+http-equiv=["']Content-Security-Policy["'][^>]*>`)
	referrerRegex    = regexp.MustCompile(`(?i)<meta\s+name=["']referrer["'][^>]*>`)
	headOpenRegex    = regexp.MustCompile(`(?i)<head(\s[^>]*)?>`)
	scriptRegex      = regexp.MustCompile(`(?is)<script([^>]*)>(.*?)</script>`)
	scriptSrcAttr    = regexp.MustCompile(`(?i)\ssrc\s*=`)
	styleCSSRegex    = regexp.MustCompile(`(?i)<link\s+rel=["']stylesheet["']\s+href=["']([^"']*style\.css)["'][^>]*>`)
	fontPreconnect   = regexp.MustCompile(`(?i)[^\S\n]*<link\s+rel=["']preconnect["'][^>]*fonts\.(?:googleapis|gstatic)\.com[^>]*>\n?`)
	fontStylesheet   = regexp.MustCompile(`(?i)[^\S\n]*<link\s+href=["']https://fonts\.googleapis\.com[^"']*["'][^>]*>\n?`)
	inlineWithLead   = regexp.MustCompile(`(?is)\s*<script([^>]*)>(.*?)</script>`)
	selfHostedFamily = []string{"Crimson Pro", "Source Sans Pro"}
)

// Options configures a Rewriter.
type Options struct {
	// CSP is the policy to publish, without inline hashes; the rewriter
	// splices hashes in when HashInlineScripts is set.
	CSP string

	// HashInlineScripts keeps inline scripts and adds their sha256 source
	// hashes to script-src so the policy stays satisfiable.
	HashInlineScripts bool

	// RemoveInlineScripts strips inline scripts instead, publishing the
	// policy as configured. Takes precedence over HashInlineScripts.
	RemoveInlineScripts bool
}

// Rewriter applies the security header policy to page content.
type Rewriter struct {
	opts Options
}

// NewRewriter creates a Rewriter.
func NewRewriter(opts Options) *Rewriter {
	return &Rewriter{opts: opts}
}

// Rewrite returns the updated content and the list of changes made. An
// empty change list means the page already matched the policy; the content
// is then returned byte-for-byte unchanged.
func (r *Rewriter) Rewrite(content string) (string, []string) {
	var changes []string
	original := content

	if r.opts.RemoveInlineScripts {
		var removed bool
		content, removed = stripInlineScripts(content)
		if removed {
			changes = append(changes, ChangeRemovedInline)
		}
	}

	policy := r.opts.CSP
	if !r.opts.RemoveInlineScripts && r.opts.HashInlineScripts {
		policy = spliceScriptHashes(policy, InlineScriptHashes(content))
	}
	cspTag := fmt.Sprintf(`<meta http-equiv="Content-Security-Policy" content="%s">`, policy)

	switch {
	case cspMetaRegex.MatchString(content):
		replaced := cspMetaRegex.ReplaceAllString(content, cspTag)
		if replaced != content {
			content = replaced
			changes = append(changes, ChangeUpdatedCSP)
		}
	default:
		loc := headOpenRegex.FindStringIndex(content)
		if loc == nil {
			break
		}
		block := "<!-- Security Headers -->\n  " + cspTag +
			"\n  " + `<meta http-equiv="X-Content-Type-Options" content="nosniff">` +
			"\n  " + `<meta http-equiv="X-Frame-Options" content="DENY">` +
			"\n  " + `<meta name="referrer" content="strict-origin-when-cross-origin">` +
			"\n  " + fmt.Sprintf(`<meta http-equiv="Permissions-Policy" content="%s">`, PermissionsPolicy)
		content = content[:loc[1]] + "\n  " + block + content[loc[1]:]
		changes = append(changes, ChangeAddedSecurityBlock)
	}

	if !strings.Contains(content, "X-Content-Type-Options") && strings.Contains(content, cspTag) {
		content = strings.Replace(content, cspTag,
			cspTag+"\n  "+`<meta http-equiv="X-Content-Type-Options" content="nosniff">`, 1)
		changes = append(changes, ChangeAddedContentType)
	}

	if !strings.Contains(content, "Permissions-Policy") && referrerRegex.MatchString(content) {
		content = referrerRegex.ReplaceAllStringFunc(content, func(tag string) string {
			return tag + "\n  " + fmt.Sprintf(`<meta http-equiv="Permissions-Policy" content="%s">`, PermissionsPolicy)
		})
		changes = append(changes, ChangeAddedPermissions)
	}

	var removedFonts bool
	content, removedFonts = removeGoogleFonts(content)
	if removedFonts {
		changes = append(changes, ChangeRemovedGoogleFonts)
	}

	var addedFonts bool
	content, addedFonts = ensureFontsStylesheet(content)
	if addedFonts {
		changes = append(changes, ChangeAddedFontsCSS)
	}

	if content == original {
		return original, nil
	}
	return content, changes
}

// stripInlineScripts removes every script element without a src attribute,
// along with its leading whitespace.
func stripInlineScripts(content string) (string, bool) {
	removed := false
	out := inlineWithLead.ReplaceAllStringFunc(content, func(match string) string {
		sub := inlineWithLead.FindStringSubmatch(match)
		if scriptSrcAttr.MatchString(sub[1]) {
			return match
		}
		removed = true
		return ""
	})
	return out, removed
}

// removeGoogleFonts drops preconnect and stylesheet links pointing at the
// Google Fonts CDN; the fonts are self-hosted.
func removeGoogleFonts(content string) (string, bool) {
	removed := false
	for _, re := range []*regexp.Regexp{fontPreconnect, fontStylesheet} {
		if re.MatchString(content) {
			content = re.ReplaceAllString(content, "")
			removed = true
		}
	}
	return content, removed
}

// ensureFontsStylesheet inserts the fonts.css link next to style.css when a
// page uses the self-hosted families but does not load the font stylesheet.
// The link reuses style.css's path prefix so nested pages resolve correctly.
func ensureFontsStylesheet(content string) (string, bool) {
	if strings.Contains(content, "fonts.css") {
		return content, false
	}
	usesFonts := false
	for _, family := range selfHostedFamily {
		if strings.Contains(content, family) {
			usesFonts = true
			break
		}
	}
	if !usesFonts {
		return content, false
	}

	match := styleCSSRegex.FindStringSubmatch(content)
	if match == nil {
		return content, false
	}

	href := strings.TrimSuffix(match[1], "style.css") + "fonts.css"
	link := fmt.Sprintf(`<link rel="stylesheet" href="%s">`, href)
	content = strings.Replace(content, match[0], link+"\n  "+match[0], 1)
	return content, true
}
