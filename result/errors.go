package result

import (
	"context"
	"errors"
	"net"
	"syscall"
)

// ErrorCategory represents the classification of a probe failure.
type ErrorCategory string

const (
	CategoryNone              ErrorCategory = ""
	CategoryTimeout           ErrorCategory = "timeout"
	CategoryDNSFailure        ErrorCategory = "dns_failure"
	CategoryConnectionRefused ErrorCategory = "connection_refused"
	Category4xx               ErrorCategory = "4xx"
	Category5xx               ErrorCategory = "5xx"
	CategoryRedirectLoop      ErrorCategory = "redirect_loop"
	CategoryUnknown           ErrorCategory = "unknown"
)

// ClassifyError determines the error category based on the error, HTTP status code,
// and whether a redirect loop was detected. A nil error with a success status
// yields CategoryNone.
func ClassifyError(err error, statusCode int, isRedirectLoop bool) ErrorCategory {
	if isRedirectLoop {
		return CategoryRedirectLoop
	}

	if statusCode >= 400 && statusCode <= 499 {
		return Category4xx
	}
	if statusCode >= 500 {
		return Category5xx
	}

	if err == nil {
		if statusCode == 0 {
			return CategoryUnknown
		}
		return CategoryNone
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return CategoryTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return CategoryTimeout
		}
		return CategoryDNSFailure
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return CategoryConnectionRefused
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return CategoryTimeout
	}

	return CategoryUnknown
}

// FormatCategory returns a human-readable label for an error category.
func FormatCategory(cat ErrorCategory) string {
	switch cat {
	case CategoryNone:
		return "No Error"
	case CategoryTimeout:
		return "Timeouts"
	case CategoryDNSFailure:
		return "DNS Failures"
	case CategoryConnectionRefused:
		return "Connection Refused"
	case Category4xx:
		return "Client Errors (4xx)"
	case Category5xx:
		return "Server Errors (5xx)"
	case CategoryRedirectLoop:
		return "Redirect Loops"
	default:
		return "Other Errors"
	}
}
