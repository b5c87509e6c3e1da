package urlutil

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// IsHTTPScheme returns true if the URL has an http or https scheme.
// Returns false for empty strings, non-HTTP schemes, or unparseable URLs.
func IsHTTPScheme(rawURL string) bool {
	if rawURL == "" {
		return false
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	scheme := strings.ToLower(parsed.Scheme)
	return scheme == "http" || scheme == "https"
}

var httpPrefix = regexp.MustCompile(`(?i)^\s*https?://`)

// HasHTTPPrefix reports whether the href literally starts with http:// or
// https://.
func HasHTTPPrefix(href string) bool {
	return httpPrefix.MatchString(href)
}

// EnsureHTTP prefixes an href that carries no scheme with http://, so it can
// be requested. Protocol-relative hrefs ("//host/path") get "http:".
func EnsureHTTP(href string) string {
	href = strings.TrimSpace(href)
	if HasHTTPPrefix(href) || schemePrefix.MatchString(href) {
		return href
	}
	if strings.HasPrefix(href, "//") {
		return "http:" + href
	}
	return "http://" + href
}

// ContainsWhitespace reports whether the trimmed href still contains spaces,
// tabs or newlines.
func ContainsWhitespace(href string) bool {
	return strings.ContainsAny(strings.TrimSpace(href), " \t\r\n")
}

// ResolveReference resolves a possibly-relative ref URL against a base URL.
// If ref is absolute, it is returned as-is. Otherwise it is resolved
// relative to base using net/url.URL.ResolveReference.
func ResolveReference(base string, ref string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base URL %q: %w", base, err)
	}

	refURL, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parse ref URL %q: %w", ref, err)
	}

	resolved := baseURL.ResolveReference(refURL)
	return resolved.String(), nil
}
