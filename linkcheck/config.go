package linkcheck

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Sentinel errors returned by Config.Validate. Callers match them with
// errors.Is.
var (
	ErrInvalidMethod       = errors.New("invalid request method")
	ErrInvalidRedirectMode = errors.New("invalid redirect warning mode")
	ErrInvalidFindingMode  = errors.New("invalid finding mode")
	ErrInvalidPattern      = errors.New("invalid external link text pattern")
	ErrInvalidLimit        = errors.New("invalid limit")
)

// RequestMethod is the HTTP method a probe starts with.
type RequestMethod string

const (
	MethodHead RequestMethod = "head"
	MethodGet  RequestMethod = "get"
)

// HTTP returns the upper-case method name used on the wire.
func (m RequestMethod) HTTP() string {
	return strings.ToUpper(string(m))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *RequestMethod) UnmarshalText(text []byte) error {
	switch v := RequestMethod(strings.ToLower(strings.TrimSpace(string(text)))); v {
	case MethodHead, MethodGet:
		*m = v
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMethod, text)
	}
}

// RedirectWarningMode controls how protocol and www changes seen on a
// redirect are reported.
type RedirectWarningMode int

const (
	// RedirectSuppress never reports the change.
	RedirectSuppress RedirectWarningMode = iota
	// RedirectAlwaysSeparate reports the change as its own finding.
	RedirectAlwaysSeparate
	// RedirectOnlyIfNoDomainChange reports the change unless the domain
	// changed too.
	RedirectOnlyIfNoDomainChange
)

var redirectModeNames = map[RedirectWarningMode]string{
	RedirectSuppress:             "no",
	RedirectAlwaysSeparate:       "yes-separate",
	RedirectOnlyIfNoDomainChange: "yes-global",
}

func (m RedirectWarningMode) String() string {
	if name, ok := redirectModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("RedirectWarningMode(%d)", int(m))
}

// MarshalText implements encoding.TextMarshaler.
func (m RedirectWarningMode) MarshalText() ([]byte, error) {
	if _, ok := redirectModeNames[m]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRedirectMode, int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText accepts "no", "yes-separate" and "yes-global". Case and
// spaces are ignored, so "Yes - Separate" also decodes.
func (m *RedirectWarningMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.ReplaceAll(string(text), " ", ""))
	for mode, name := range redirectModeNames {
		if v == name {
			*m = mode
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrInvalidRedirectMode, text)
}

// FindingMode selects between one finding per issue and one aggregated
// finding per link.
type FindingMode string

const (
	FindingPerIssue FindingMode = "per-issue"
	FindingPerLink  FindingMode = "per-link"
)

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *FindingMode) UnmarshalText(text []byte) error {
	switch v := FindingMode(strings.ToLower(strings.TrimSpace(string(text)))); v {
	case FindingPerIssue, FindingPerLink:
		*m = v
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFindingMode, text)
	}
}

// Config holds validator configuration. The YAML keys match the settings
// file format read by the config package.
type Config struct {
	ExcludedDomains                   []string            `yaml:"excludedDomains"`
	LocalDomain                       string              `yaml:"localDomain"`
	RequestMethod                     RequestMethod       `yaml:"requestMethod"`
	ValidateExternalLinkAccessibility bool                `yaml:"validateExternalLinkAccessibility"`
	ExternalLinkText                  []string            `yaml:"externalLinkText"`             // Case-insensitive regex patterns
	DelayNumberOfLinksBeforeWait      int                 `yaml:"delayNumberOfLinksBeforeWait"` // Dispatches between throttle pauses
	DelayWait                         time.Duration       `yaml:"delayWait"`                    // Length of a throttle pause
	ShowProtocolRedirectionWarning    RedirectWarningMode `yaml:"showProtocolRedirectionWarning"`
	ShowWwwRedirectionWarning         RedirectWarningMode `yaml:"showWwwRedirectionWarning"`
	FindingMode                       FindingMode         `yaml:"findingMode"`
	Concurrency                       int                 `yaml:"concurrency"` // 0 means DelayNumberOfLinksBeforeWait
	Timeout                           time.Duration       `yaml:"timeout"`     // Per-request timeout
	MaxRedirects                      int                 `yaml:"maxRedirects"`
	ValidateCertificates              bool                `yaml:"validateCertificates"`
	UserAgent                         string              `yaml:"userAgent"`
	RequestsPerSecond                 float64             `yaml:"requestsPerSecond"` // 0 disables the cap
	Retries                           int                 `yaml:"retries"`           // Extra attempts on 429/5xx
	RetryDelay                        time.Duration       `yaml:"retryDelay"`
	RespectRobots                     bool                `yaml:"respectRobots"`
	ReportExcluded                    bool                `yaml:"reportExcluded"`
}

// DefaultUserAgent identifies linklint to the servers it probes.
const DefaultUserAgent = "linklint/1.0 (+https://github.com/lukemcguire/linklint)"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		RequestMethod:                  MethodHead,
		ExternalLinkText:               []string{`\(external link\)`, `\(lien externe\)`},
		DelayNumberOfLinksBeforeWait:   17,
		DelayWait:                      500 * time.Millisecond,
		ShowProtocolRedirectionWarning: RedirectOnlyIfNoDomainChange,
		ShowWwwRedirectionWarning:      RedirectOnlyIfNoDomainChange,
		FindingMode:                    FindingPerIssue,
		Timeout:                        10 * time.Second,
		MaxRedirects:                   10,
		ValidateCertificates:           true,
		UserAgent:                      DefaultUserAgent,
		RetryDelay:                     time.Second,
		ReportExcluded:                 true,
	}
}

// Validate checks the configuration and reports the first problem found.
func (c Config) Validate() error {
	switch c.RequestMethod {
	case MethodHead, MethodGet:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMethod, c.RequestMethod)
	}
	for _, mode := range []RedirectWarningMode{c.ShowProtocolRedirectionWarning, c.ShowWwwRedirectionWarning} {
		if _, ok := redirectModeNames[mode]; !ok {
			return fmt.Errorf("%w: %d", ErrInvalidRedirectMode, int(mode))
		}
	}
	switch c.FindingMode {
	case FindingPerIssue, FindingPerLink:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFindingMode, c.FindingMode)
	}

	switch {
	case c.DelayNumberOfLinksBeforeWait < 0:
		return fmt.Errorf("%w: delayNumberOfLinksBeforeWait must not be negative", ErrInvalidLimit)
	case c.Concurrency < 0:
		return fmt.Errorf("%w: concurrency must not be negative", ErrInvalidLimit)
	case c.MaxRedirects < 1:
		return fmt.Errorf("%w: maxRedirects must be at least 1", ErrInvalidLimit)
	case c.Retries < 0:
		return fmt.Errorf("%w: retries must not be negative", ErrInvalidLimit)
	case c.RequestsPerSecond < 0:
		return fmt.Errorf("%w: requestsPerSecond must not be negative", ErrInvalidLimit)
	case c.Timeout < 0 || c.DelayWait < 0 || c.RetryDelay < 0:
		return fmt.Errorf("%w: durations must not be negative", ErrInvalidLimit)
	}

	if _, err := compilePatterns(c.ExternalLinkText); err != nil {
		return err
	}
	return nil
}

// workers returns the size of the probe worker pool.
func (c Config) workers() int {
	if c.Concurrency > 0 {
		return c.Concurrency
	}
	if c.DelayNumberOfLinksBeforeWait > 0 {
		return c.DelayNumberOfLinksBeforeWait
	}
	return 1
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrInvalidPattern, p, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}
