package linkcheck

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/lukemcguire/linklint/result"
	"github.com/lukemcguire/linklint/urlutil"
)

// Errors that end a redirect chain.
var (
	ErrRedirectLoop     = errors.New("redirect cycle detected")
	ErrTooManyRedirects = errors.New("too many redirects")
	ErrMissingLocation  = errors.New("redirect response without Location header")
)

// drainLimit caps how much of a response body is read before closing it.
const drainLimit = 4 << 10

// ProbeResult is the outcome of probing one URL, including every redirect
// hop. When len(Chain) > 1 the probe was redirected and StatusCode belongs to
// the last hop.
type ProbeResult struct {
	URL        string               // URL the probe started from
	StatusCode int                  // Status of the last response, 0 on transport error
	Redirected bool                 // Whether at least one redirect was followed
	Chain      []string             // Every URL requested, starting with URL
	Method     string               // Method of the last request
	Attempts   int                  // Hop attempts, counting retries
	Category   result.ErrorCategory // Failure classification, CategoryNone on success
	Err        error                // Transport or redirect error
}

// OK reports whether the chain ended in a 2xx response.
func (r ProbeResult) OK() bool {
	return r.Err == nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// FinalURL returns the last URL of the redirect chain.
func (r ProbeResult) FinalURL() string {
	if len(r.Chain) == 0 {
		return r.URL
	}
	return r.Chain[len(r.Chain)-1]
}

// RedirectFailed reports whether the probe failed somewhere after the first
// hop, or because the chain itself was broken.
func (r ProbeResult) RedirectFailed() bool {
	if r.Category == result.CategoryRedirectLoop || errors.Is(r.Err, ErrMissingLocation) {
		return true
	}
	return r.Redirected && !r.OK()
}

// ProbeOptions configures a Prober.
type ProbeOptions struct {
	Method               RequestMethod // Method of the first request on every hop
	Timeout              time.Duration // Per-request timeout
	MaxRedirects         int           // Redirects followed before giving up
	ValidateCertificates bool
	UserAgent            string
	RequestsPerSecond    float64 // 0 disables the cap
	Retry                RetryPolicy
}

// Prober checks whether URLs respond, following redirects one hop at a time.
// It is safe for concurrent use.
type Prober struct {
	client  *http.Client
	opts    ProbeOptions
	limiter *adaptiveLimiter
	logger  *slog.Logger
}

// NewProber creates a Prober. Zero options fall back to HEAD, a 10s timeout
// and 10 redirects. A nil logger discards output.
func NewProber(opts ProbeOptions, logger *slog.Logger) *Prober {
	if opts.Method == "" {
		opts.Method = MethodHead
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.MaxRedirects <= 0 {
		opts.MaxRedirects = 10
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !opts.ValidateCertificates {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // user opted out
	}

	return &Prober{
		client: &http.Client{
			Transport: transport,
			// Redirects are followed by Probe so every hop is recorded.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		opts:    opts,
		limiter: newAdaptiveLimiter(opts.RequestsPerSecond),
		logger:  logger,
	}
}

// Probe requests rawURL and follows redirects until a non-3xx response, an
// error, a cycle, or the redirect cap ends the chain.
func (p *Prober) Probe(ctx context.Context, rawURL string) ProbeResult {
	res := ProbeResult{URL: rawURL, Chain: []string{rawURL}}
	seen := map[string]struct{}{rawURL: {}}
	current := rawURL

	for {
		out, attempts := p.opts.Retry.do(ctx, func() hopOutcome {
			return p.hop(ctx, current)
		})
		res.Attempts += attempts
		res.Method = out.method
		res.StatusCode = out.status

		if out.err != nil {
			res.Err = out.err
			res.Category = result.ClassifyError(out.err, out.status, false)
			return res
		}
		if !isRedirect(out.status) {
			res.Category = result.ClassifyError(nil, out.status, false)
			return res
		}

		if out.location == "" {
			res.Err = fmt.Errorf("%w: %s", ErrMissingLocation, current)
			res.Category = result.CategoryUnknown
			return res
		}
		next, err := urlutil.ResolveReference(current, out.location)
		if err != nil {
			res.Err = fmt.Errorf("resolve redirect target: %w", err)
			res.Category = result.CategoryUnknown
			return res
		}
		if len(res.Chain) > p.opts.MaxRedirects {
			res.Err = fmt.Errorf("%w: stopped after %d", ErrTooManyRedirects, p.opts.MaxRedirects)
			res.Category = result.ClassifyError(res.Err, 0, true)
			return res
		}

		res.Chain = append(res.Chain, next)
		res.Redirected = true
		if _, dup := seen[next]; dup {
			res.Err = fmt.Errorf("%w: %s", ErrRedirectLoop, next)
			res.Category = result.ClassifyError(res.Err, 0, true)
			return res
		}
		seen[next] = struct{}{}

		p.logger.Debug("following redirect", "from", current, "to", next, "status", out.status)
		current = next
	}
}

type hopOutcome struct {
	status   int
	location string
	method   string
	err      error
}

// hop requests one URL with the configured method. A HEAD that fails or
// answers with anything but 2xx or 3xx is repeated once with GET.
func (p *Prober) hop(ctx context.Context, target string) hopOutcome {
	out := p.request(ctx, p.opts.Method.HTTP(), target)
	if out.method != http.MethodHead || ctx.Err() != nil {
		return out
	}
	if out.err == nil && (isSuccess(out.status) || isRedirect(out.status)) {
		return out
	}
	p.logger.Debug("HEAD failed, retrying with GET", "url", target, "status", out.status, "error", out.err)
	return p.request(ctx, http.MethodGet, target)
}

func (p *Prober) request(ctx context.Context, method, target string) (out hopOutcome) {
	out.method = method

	if err := p.limiter.Wait(ctx); err != nil {
		out.err = fmt.Errorf("rate limiter wait: %w", err)
		return out
	}

	reqCtx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, method, target, nil)
	if err != nil {
		out.err = fmt.Errorf("create %s request: %w", method, err)
		return out
	}
	req.Header.Set("User-Agent", p.opts.UserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		out.err = err
		return out
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, drainLimit))
		_ = resp.Body.Close()
	}()

	out.status = resp.StatusCode
	p.limiter.Observe(resp.StatusCode)
	out.location = resp.Header.Get("Location")
	return out
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

func isRedirect(status int) bool {
	return status >= 300 && status < 400
}
