package urlutil

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Normalize returns the form of rawURL a server actually sees: scheme and
// host lower-cased and the fragment removed. Path and query are kept as is,
// since "/a" and "/a/" may answer differently.
//
// Returns an error if the input is empty or is not an absolute URL.
func Normalize(rawURL string) (string, error) {
	if rawURL == "" {
		return "", errors.New("cannot normalize empty URL")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("normalize URL %q: %w", rawURL, err)
	}

	if parsed.Scheme == "" || parsed.Host == "" {
		return "", errors.New("URL must have both scheme and host")
	}

	parsed.Scheme = strings.ToLower(parsed.Scheme)
	parsed.Host = strings.ToLower(parsed.Host)
	parsed.Fragment = ""
	parsed.RawFragment = ""

	return parsed.String(), nil
}

// TrimTrailingSlash removes a single trailing slash.
func TrimTrailingSlash(rawURL string) string {
	return strings.TrimSuffix(rawURL, "/")
}

var schemeWWWPattern = regexp.MustCompile(`(?i)^(?:([a-z][a-z0-9+.\-]*)://|//)?(www\.)?(.*)$`)

// SplitSchemeWWW splits a URL into its scheme, whether the host starts with
// "www.", and the rest of the host and path. Both scheme and the www marker
// are optional in the input.
func SplitSchemeWWW(rawURL string) (scheme string, www bool, rest string) {
	m := schemeWWWPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", false, rawURL
	}
	return strings.ToLower(m[1]), m[2] != "", m[3]
}

// StripSchemeWWW returns the URL without its scheme and leading "www.".
func StripSchemeWWW(rawURL string) string {
	_, _, rest := SplitSchemeWWW(rawURL)
	return rest
}
