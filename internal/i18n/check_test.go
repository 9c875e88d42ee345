package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OddSageID/neuroshield-site/internal/site"
)

func pageWith(rel, lang, ref string) site.Page {
	return site.Page{
		RelPath:     rel,
		FrontMatter: site.FrontMatter{Lang: lang, Ref: ref},
	}
}

func TestCheck_ConsistentSite(t *testing.T) {
	result := Check([]site.Page{
		pageWith("index.html", "en", "home"),
		pageWith("mission/index.html", "en", "mission"),
		pageWith("es/index.html", "es", "home"),
		pageWith("fr/mission/index.html", "fr", "mission"),
	})

	assert.Empty(t, result.Findings)
	assert.False(t, result.HasErrors())
}

func TestCheck_MissingFrontMatter(t *testing.T) {
	result := Check([]site.Page{
		pageWith("index.html", "", ""),
		pageWith("about.html", "en", ""),
	})

	errors := result.Errors()
	require.Len(t, errors, 2)
	assert.Equal(t, "missing lang or ref in front matter", errors[0].Message)
}

func TestCheck_EnglishLangInTranslatedPath(t *testing.T) {
	result := Check([]site.Page{
		pageWith("es/index.html", "en", "home"),
		pageWith("index.html", "en", "home"),
	})

	errors := result.Errors()
	require.Len(t, errors, 1)
	assert.Equal(t, "es/index.html", errors[0].Page)
	assert.Equal(t, "English lang set in translated path", errors[0].Message)
}

func TestCheck_OrphanTranslationIsWarning(t *testing.T) {
	result := Check([]site.Page{
		pageWith("index.html", "en", "home"),
		pageWith("es/donate.html", "es", "donate"),
	})

	assert.False(t, result.HasErrors())
	warnings := result.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, "es/donate.html", warnings[0].Page)
	assert.Contains(t, warnings[0].Message, "without English ref donate")
}

func TestCheck_MissingFrontMatterSkipsOtherRules(t *testing.T) {
	// A page with no lang at all must produce exactly one finding, not
	// cascade into the path and ref rules.
	result := Check([]site.Page{
		pageWith("es/index.html", "", ""),
	})

	require.Len(t, result.Findings, 1)
	assert.Equal(t, SeverityError, result.Findings[0].Severity)
}

func TestFinding_String(t *testing.T) {
	f := Finding{Severity: SeverityError, Page: "a.html", Message: "broken"}
	assert.Equal(t, "a.html: broken", f.String())
}
