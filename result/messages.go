package result

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/lukemcguire/linklint/document"
)

type description struct {
	severity Severity
	message  string
}

var descriptions = map[Code]description{
	CodeNoURL:                   {SeverityError, "Link has no URL."},
	CodeNameless:                {SeverityWarning, "Link has no visible text."},
	CodeNoHTTPProtocol:          {SeverityWarning, "Link does not start with http:// or https://."},
	CodeExcludedDomain:          {SeverityInformation, "Link domain is excluded from validation."},
	CodeExternalAccessibility:   {SeverityWarning, "External link accessibility marker missing."},
	CodeSpaceInURL:              {SeverityError, "Link contains spaces; encode them as %20."},
	CodeInternalUnchecked:       {SeverityInformation, "Internal link not checked: no local domain is configured."},
	CodeRobotsDisallowed:        {SeverityInformation, "Link not checked: disallowed by robots.txt."},
	CodeRedirectedButWorking:    {SeverityWarning, "Link redirected."},
	CodeRedirectProtocolChanged: {SeverityInformation, "Redirect changes the protocol."},
	CodeRedirectWWWChanged:      {SeverityInformation, "Redirect adds or removes the www. prefix."},
	CodeRedirectionNotWorking:   {SeverityError, "Link redirection is not working."},
	CodeNoAnchor:                {SeverityError, "Anchor does not exist in the document."},
	CodeRelative:                {SeverityWarning, "Link is relative from the folder instead of the site root, or is mistyped. It must be validated manually."},
	CodeConnectionTimeout:       {SeverityError, "Link not reachable: connection timed out."},
	CodeMultipleAnchor:          {SeverityError, "More than one element has this id. Only one must be present."},
	CodeNetworkError:            {SeverityError, "Link not reachable."},
}

// New builds a finding with the default severity and message for code.
// HTTP status codes get an authentication message for 401, 403 and 407 and a
// generic "must be updated" message otherwise.
func New(code Code, rng document.Range, url string) Finding {
	f := Finding{Code: code, Range: rng, URL: url}
	if d, ok := descriptions[code]; ok {
		f.Severity = d.severity
		f.Message = d.message
		return f
	}

	f.Severity = SeverityError
	status := int(code)
	if code.IsHTTPStatus() {
		f.Status = status
	}
	switch {
	case IsAuthRequired(status):
		f.Message = "Link error: Authentication required. Validation must be done manually."
	case code.IsHTTPStatus():
		f.Message = fmt.Sprintf("Link error (HTTP %d %s): must be updated or removed.", status, http.StatusText(status))
	default:
		f.Message = "Link error: must be updated or removed."
	}
	return f
}

// WithRelated returns a copy of f pointing at a related URL. For redirect
// findings the target is appended to the message.
func (f Finding) WithRelated(related string) Finding {
	f.RelatedURL = related
	if f.Code == CodeRedirectedButWorking {
		f.Message = fmt.Sprintf("Link redirected to: %q", related)
	}
	return f
}

// WithStatus returns a copy of f carrying the final HTTP status seen for the
// link. Codes that are not themselves a status use it to keep the response
// machine readable.
func (f Finding) WithStatus(status int) Finding {
	f.Status = status
	return f
}

// WithDetail returns a copy of f with detail appended to its message.
func (f Finding) WithDetail(detail string) Finding {
	if detail == "" {
		return f
	}
	f.Message = strings.TrimSuffix(f.Message, ".") + ": " + detail
	return f
}

// Merge folds several findings for the same link into one. The most severe
// finding supplies the code; messages are joined in order.
func Merge(findings []Finding) (Finding, bool) {
	if len(findings) == 0 {
		return Finding{}, false
	}
	merged := findings[0]
	messages := make([]string, 0, len(findings))
	for _, f := range findings {
		messages = append(messages, f.Message)
		if f.Severity < merged.Severity {
			merged.Code = f.Code
			merged.Severity = f.Severity
		}
		if merged.RelatedURL == "" {
			merged.RelatedURL = f.RelatedURL
		}
		if merged.Status == 0 {
			merged.Status = f.Status
		}
	}
	merged.Message = strings.Join(messages, " ")
	return merged, true
}
