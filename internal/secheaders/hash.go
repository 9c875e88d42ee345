package secheaders

import (
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// InlineScriptHashes returns the CSP source hash for every inline script in
// the page, in document order, deduplicated. The hash covers the exact
// bytes between the script tags, per the CSP specification.
func InlineScriptHashes(content string) []string {
	var hashes []string
	seen := make(map[string]bool)

	for _, match := range scriptRegex.FindAllStringSubmatch(content, -1) {
		if scriptSrcAttr.MatchString(match[1]) {
			continue
		}
		body := match[2]
		if strings.TrimSpace(body) == "" {
			continue
		}

		sum := sha256.Sum256([]byte(body))
		h := "'sha256-" + base64.StdEncoding.EncodeToString(sum[:]) + "'"
		if !seen[h] {
			seen[h] = true
			hashes = append(hashes, h)
		}
	}
	return hashes
}

// spliceScriptHashes appends source hashes to the policy's script-src
// directive. A policy without a script-src directive gains one. With no
// hashes the policy is returned untouched.
func spliceScriptHashes(policy string, hashes []string) string {
	if len(hashes) == 0 {
		return policy
	}
	suffix := " " + strings.Join(hashes, " ")

	directives := strings.Split(policy, ";")
	found := false
	for i, d := range directives {
		if strings.HasPrefix(strings.TrimSpace(d), "script-src") {
			directives[i] = strings.TrimRight(d, " ") + suffix
			found = true
			break
		}
	}
	if !found {
		return strings.TrimRight(strings.TrimSpace(policy), ";") + "; script-src" + suffix + ";"
	}
	return strings.Join(directives, ";")
}
