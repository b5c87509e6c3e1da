package linkcheck

import (
	"regexp"
	"strings"

	"github.com/lukemcguire/linklint/document"
	"github.com/lukemcguire/linklint/urlutil"
)

// AccessibilityRules checks that external links announce themselves: a
// rel="external" attribute and visible text matching one of the configured
// patterns. Build it once per validator.
type AccessibilityRules struct {
	localDomain string
	patterns    []*regexp.Regexp
}

// NewAccessibilityRules compiles the text patterns case-insensitively.
func NewAccessibilityRules(localDomain string, patterns []string) (*AccessibilityRules, error) {
	compiled, err := compilePatterns(patterns)
	if err != nil {
		return nil, err
	}
	return &AccessibilityRules{
		localDomain: strings.ToLower(urlutil.StripSchemeWWW(urlutil.TrimTrailingSlash(strings.TrimSpace(localDomain)))),
		patterns:    compiled,
	}, nil
}

// AccessibilityIssue lists which markers a link is missing.
type AccessibilityIssue struct {
	RelMissing  bool
	TextMissing bool
}

// Detail names the missing markers for a finding message.
func (i AccessibilityIssue) Detail() string {
	var missing []string
	if i.RelMissing {
		missing = append(missing, `rel="external"`)
	}
	if i.TextMissing {
		missing = append(missing, "external link text")
	}
	return strings.Join(missing, " and ")
}

// Check reports the missing markers of link. Links pointing at the local
// domain are skipped.
func (r *AccessibilityRules) Check(link document.Link) (AccessibilityIssue, bool) {
	if r.localDomain != "" && strings.Contains(strings.ToLower(link.Href), r.localDomain) {
		return AccessibilityIssue{}, false
	}

	issue := AccessibilityIssue{
		RelMissing:  !hasRelToken(link.Rel, "external"),
		TextMissing: !r.matchesText(link.Text),
	}
	return issue, issue.RelMissing || issue.TextMissing
}

func (r *AccessibilityRules) matchesText(text string) bool {
	for _, re := range r.patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

func hasRelToken(rel, token string) bool {
	for _, t := range strings.Fields(rel) {
		if strings.EqualFold(t, token) {
			return true
		}
	}
	return false
}
