package urlutil

import (
	"regexp"
	"strings"
)

// Kind is a single URL classification tag.
type Kind uint16

const (
	KindEmpty Kind = 1 << iota
	KindNameless
	KindAnchor
	KindEmail
	KindFtp
	KindLocalFile
	KindExcluded
	KindInternal
	KindRelative
	KindExternal
)

var kindNames = []struct {
	kind Kind
	name string
}{
	{KindEmpty, "empty"},
	{KindNameless, "nameless"},
	{KindAnchor, "anchor"},
	{KindEmail, "email"},
	{KindFtp, "ftp"},
	{KindLocalFile, "local_file"},
	{KindExcluded, "excluded"},
	{KindInternal, "internal"},
	{KindRelative, "relative"},
	{KindExternal, "external"},
}

// String returns the lower-case name of a single kind.
func (k Kind) String() string {
	for _, kn := range kindNames {
		if kn.kind == k {
			return kn.name
		}
	}
	return "unknown"
}

// Kinds is an immutable set of classification tags.
type Kinds uint16

// Has reports whether every kind in k is present.
func (s Kinds) Has(k Kind) bool {
	return Kind(s)&k == k
}

// Primary returns the shape tag of the set, or 0 when the href was empty.
func (s Kinds) Primary() Kind {
	return Kind(s) &^ (KindEmpty | KindNameless)
}

// List returns the tags in declaration order.
func (s Kinds) List() []Kind {
	var out []Kind
	for _, kn := range kindNames {
		if s.Has(kn.kind) {
			out = append(out, kn.kind)
		}
	}
	return out
}

// String joins the tag names with "|".
func (s Kinds) String() string {
	names := make([]string, 0, len(kindNames))
	for _, k := range s.List() {
		names = append(names, k.String())
	}
	return strings.Join(names, "|")
}

var (
	anchorPattern   = regexp.MustCompile(`^#`)
	emailPattern    = regexp.MustCompile(`(?i)^\s*mailto:`)
	ftpPattern      = regexp.MustCompile(`(?i)^\s*ftp:`)
	filePattern     = regexp.MustCompile(`(?i)^\s*file:`)
	internalPattern = regexp.MustCompile(`^/(?:[^/]|$)`)
	dotPathPattern  = regexp.MustCompile(`^\.\.?/`)
	webFilePattern  = regexp.MustCompile(`(?i)^[\w.\-]+\.(?:html?|asp|php|txt)(?:\?.*)?$`)

	// schemePrefix matches "word:" but not "host:8080".
	schemePrefix = regexp.MustCompile(`(?i)^[a-z][a-z0-9+.\-]*:(?:[^0-9]|$)`)
)

// Rules holds the exclusion matchers for one validation run. Build it once
// with NewRules and share it across links.
type Rules struct {
	excluded []string
}

// NewRules lower-cases and keeps the non-blank excluded domain patterns.
func NewRules(excludedDomains []string) *Rules {
	r := &Rules{}
	for _, d := range excludedDomains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			r.excluded = append(r.excluded, d)
		}
	}
	return r
}

// IsExcluded reports whether href contains any excluded domain.
func (r *Rules) IsExcluded(href string) bool {
	if r == nil {
		return false
	}
	lower := strings.ToLower(href)
	for _, d := range r.excluded {
		if strings.Contains(lower, d) {
			return true
		}
	}
	return false
}

// Classify tags an href. Empty and Nameless are decided independently of the
// URL shape; otherwise exactly one shape tag is added, tested in priority
// order. Classify is pure: equal inputs give equal results.
func Classify(href, innerText string, rules *Rules) Kinds {
	var kinds Kind
	if strings.TrimSpace(innerText) == "" {
		kinds |= KindNameless
	}

	trimmed := strings.TrimSpace(href)
	if trimmed == "" {
		return Kinds(kinds | KindEmpty)
	}

	return Kinds(kinds | shapeOf(trimmed, rules))
}

func shapeOf(href string, rules *Rules) Kind {
	switch {
	case anchorPattern.MatchString(href):
		return KindAnchor
	case emailPattern.MatchString(href):
		return KindEmail
	case ftpPattern.MatchString(href):
		return KindFtp
	case filePattern.MatchString(href):
		return KindLocalFile
	case rules.IsExcluded(href):
		return KindExcluded
	case internalPattern.MatchString(href):
		return KindInternal
	case isRelative(href):
		return KindRelative
	default:
		return KindExternal
	}
}

func isRelative(href string) bool {
	if dotPathPattern.MatchString(href) {
		return true
	}
	return !schemePrefix.MatchString(href) && webFilePattern.MatchString(href)
}
