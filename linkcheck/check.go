package linkcheck

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lukemcguire/linklint/document"
	"github.com/lukemcguire/linklint/result"
	"github.com/lukemcguire/linklint/urlutil"
)

// checkLink classifies one link and runs the checks its kind calls for.
func (v *Validator) checkLink(ctx context.Context, link document.Link, full IDIndex, cache *probeCache) []result.Finding {
	kinds := urlutil.Classify(link.Href, link.Text, v.rules)
	rng := link.Range
	href := strings.TrimSpace(link.Href)

	var out []result.Finding
	if kinds.Has(urlutil.KindEmpty) {
		out = append(out, result.New(result.CodeNoURL, rng, href).WithDetail(noURLDetail(link)))
	}
	if kinds.Has(urlutil.KindNameless) {
		out = append(out, result.New(result.CodeNameless, rng, href).WithDetail(namelessDetail(link)))
	}

	switch kinds.Primary() {
	case urlutil.KindAnchor:
		if code, bad := ResolveAnchor(href, full).Code(); bad {
			out = append(out, result.New(code, rng, href))
		}
	case urlutil.KindEmail, urlutil.KindFtp, urlutil.KindLocalFile:
		// Not validated.
	case urlutil.KindExcluded:
		if v.cfg.ReportExcluded {
			out = append(out, result.New(result.CodeExcludedDomain, rng, href))
		}
	case urlutil.KindRelative:
		out = append(out, result.New(result.CodeRelative, rng, href))
	case urlutil.KindInternal:
		if v.cfg.LocalDomain == "" {
			out = append(out, result.New(result.CodeInternalUnchecked, rng, href))
			break
		}
		target := urlutil.EnsureHTTP(urlutil.TrimTrailingSlash(strings.TrimSpace(v.cfg.LocalDomain)) + href)
		out = append(out, v.checkRemote(ctx, rng, href, target, cache)...)
	case urlutil.KindExternal:
		if !urlutil.HasHTTPPrefix(href) {
			out = append(out, result.New(result.CodeNoHTTPProtocol, rng, href))
		}
		out = append(out, v.checkRemote(ctx, rng, href, urlutil.EnsureHTTP(href), cache)...)
		if v.cfg.ValidateExternalLinkAccessibility {
			if issue, missing := v.access.Check(link); missing {
				out = append(out, result.New(result.CodeExternalAccessibility, rng, href).WithDetail(issue.Detail()))
			}
		}
	}
	return out
}

// checkRemote probes target unless the href is malformed or robots.txt
// forbids it, and turns the probe result into findings.
func (v *Validator) checkRemote(ctx context.Context, rng document.Range, href, target string, cache *probeCache) []result.Finding {
	if urlutil.ContainsWhitespace(href) {
		return []result.Finding{result.New(result.CodeSpaceInURL, rng, href)}
	}

	if v.robots != nil {
		allowed, err := v.robots.Allowed(ctx, target)
		if err != nil {
			v.logger.Debug("robots.txt check failed, allowing", "url", target, "error", err)
		}
		if !allowed {
			return []result.Finding{result.New(result.CodeRobotsDisallowed, rng, target)}
		}
	}

	// Links differing only by fragment or host case share one probe.
	key := target
	if normalized, err := urlutil.Normalize(target); err == nil {
		key = normalized
	}
	pr := cache.get(key, func() ProbeResult {
		return v.prober.Probe(ctx, target)
	})
	pr.URL = target
	v.logger.Debug("probed", "url", target, "status", pr.StatusCode, "hops", len(pr.Chain), "category", pr.Category)
	return v.probeFindings(rng, pr)
}

// probeFindings maps a probe result to findings.
func (v *Validator) probeFindings(rng document.Range, pr ProbeResult) []result.Finding {
	final := pr.FinalURL()

	switch {
	case pr.OK() && !pr.Redirected:
		return nil

	case pr.OK():
		out := []result.Finding{result.New(result.CodeRedirectedButWorking, rng, pr.URL).WithRelated(final)}
		change := AnalyzeRedirect(pr.Chain)
		if change.reportable(v.cfg.ShowProtocolRedirectionWarning, change.ProtocolChanged) {
			out = append(out, result.New(result.CodeRedirectProtocolChanged, rng, pr.URL).WithRelated(final))
		}
		if change.reportable(v.cfg.ShowWwwRedirectionWarning, change.WWWChanged) {
			out = append(out, result.New(result.CodeRedirectWWWChanged, rng, pr.URL).WithRelated(final))
		}
		return out

	case pr.RedirectFailed():
		return []result.Finding{
			result.New(result.CodeRedirectionNotWorking, rng, pr.URL).
				WithRelated(final).
				WithStatus(pr.StatusCode).
				WithDetail(failureDetail(pr)),
		}

	case pr.Err != nil && pr.Category == result.CategoryTimeout:
		return []result.Finding{result.New(result.CodeConnectionTimeout, rng, pr.URL)}

	case pr.Err != nil:
		return []result.Finding{result.New(result.CodeNetworkError, rng, pr.URL).WithDetail(failureDetail(pr))}

	default:
		return []result.Finding{result.New(result.Code(pr.StatusCode), rng, pr.URL)}
	}
}

func failureDetail(pr ProbeResult) string {
	switch {
	case errors.Is(pr.Err, ErrRedirectLoop), errors.Is(pr.Err, ErrTooManyRedirects), errors.Is(pr.Err, ErrMissingLocation):
		return pr.Err.Error()
	case pr.Err != nil:
		return strings.ToLower(result.FormatCategory(pr.Category))
	default:
		return fmt.Sprintf("HTTP %d", pr.StatusCode)
	}
}

func noURLDetail(link document.Link) string {
	if link.HasHref {
		return "href attribute is empty"
	}
	return "href attribute is missing"
}

// namelessDetail points out links whose content is markup only, such as an
// image without a text alternative next to it.
func namelessDetail(link document.Link) string {
	if strings.TrimSpace(link.InnerHTML) != "" {
		return "content has markup but no text"
	}
	return ""
}
