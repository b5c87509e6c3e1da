package result

import (
	"fmt"
	"net/http"
)

// Code identifies the kind of a finding. Values below 1000 are raw HTTP
// status codes returned by the probed server.
type Code int

const (
	CodeNoURL                   Code = 1000
	CodeNameless                Code = 1001
	CodeNoHTTPProtocol          Code = 1002
	CodeExcludedDomain          Code = 1003
	CodeExternalAccessibility   Code = 1004
	CodeSpaceInURL              Code = 1005
	CodeInternalUnchecked       Code = 1006
	CodeRobotsDisallowed        Code = 1007
	CodeRedirectedButWorking    Code = 1301
	CodeRedirectProtocolChanged Code = 1302
	CodeRedirectWWWChanged      Code = 1303
	CodeRedirectionNotWorking   Code = 1310
	CodeNoAnchor                Code = 1404
	CodeRelative                Code = 1405
	CodeConnectionTimeout       Code = 1408
	CodeMultipleAnchor          Code = 1409
	CodeNetworkError            Code = 1500
)

var codeNames = map[Code]string{
	CodeNoURL:                   "no_url",
	CodeNameless:                "nameless",
	CodeNoHTTPProtocol:          "no_http_protocol",
	CodeExcludedDomain:          "excluded_domain",
	CodeExternalAccessibility:   "external_accessibility",
	CodeSpaceInURL:              "space_in_url",
	CodeInternalUnchecked:       "internal_unchecked",
	CodeRobotsDisallowed:        "robots_disallowed",
	CodeRedirectedButWorking:    "redirected_but_working",
	CodeRedirectProtocolChanged: "redirect_protocol_changed",
	CodeRedirectWWWChanged:      "redirect_www_changed",
	CodeRedirectionNotWorking:   "redirection_not_working",
	CodeNoAnchor:                "no_anchor",
	CodeRelative:                "relative",
	CodeConnectionTimeout:       "connection_timeout",
	CodeMultipleAnchor:          "multiple_anchor",
	CodeNetworkError:            "network_error",
}

// IsHTTPStatus reports whether the code is a raw HTTP status.
func (c Code) IsHTTPStatus() bool {
	return c >= 100 && c < 1000
}

// String returns a stable name such as "no_anchor" or "http_404".
func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	if c.IsHTTPStatus() {
		return fmt.Sprintf("http_%d", int(c))
	}
	return fmt.Sprintf("code_%d", int(c))
}

// IsAuthRequired reports whether the status means the link sits behind
// authentication and must be checked by hand.
func IsAuthRequired(status int) bool {
	return status == http.StatusUnauthorized ||
		status == http.StatusForbidden ||
		status == http.StatusProxyAuthRequired
}
