package linkcheck

import (
	"errors"
	"testing"

	"github.com/lukemcguire/linklint/document"
)

func TestAccessibilityCheck(t *testing.T) {
	rules, err := NewAccessibilityRules("https://www.example.com/", []string{`\(external link\)`, `opens in a new window`})
	if err != nil {
		t.Fatalf("NewAccessibilityRules returned error: %v", err)
	}

	tests := []struct {
		name      string
		link      document.Link
		wantIssue bool
		wantRel   bool
		wantText  bool
	}{
		{
			name: "both markers present",
			link: document.Link{Href: "https://go.dev", Rel: "external", Text: "Go (external link)"},
		},
		{
			name: "pattern is case-insensitive",
			link: document.Link{Href: "https://go.dev", Rel: "external", Text: "Go (EXTERNAL LINK)"},
		},
		{
			name: "rel among other tokens",
			link: document.Link{Href: "https://go.dev", Rel: "noopener External", Text: "Go, opens in a new window"},
		},
		{
			name:      "rel missing",
			link:      document.Link{Href: "https://go.dev", Text: "Go (external link)"},
			wantIssue: true,
			wantRel:   true,
		},
		{
			name:      "text missing",
			link:      document.Link{Href: "https://go.dev", Rel: "external", Text: "Go"},
			wantIssue: true,
			wantText:  true,
		},
		{
			name:      "both missing",
			link:      document.Link{Href: "https://go.dev", Text: "Go"},
			wantIssue: true,
			wantRel:   true,
			wantText:  true,
		},
		{
			name: "local domain is skipped",
			link: document.Link{Href: "http://example.com/about", Text: "About"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issue, ok := rules.Check(tt.link)
			if ok != tt.wantIssue {
				t.Fatalf("Check returned %v, want %v (issue %+v)", ok, tt.wantIssue, issue)
			}
			if issue.RelMissing != tt.wantRel || issue.TextMissing != tt.wantText {
				t.Errorf("issue = %+v, want rel=%v text=%v", issue, tt.wantRel, tt.wantText)
			}
		})
	}
}

func TestAccessibilityIssueDetail(t *testing.T) {
	tests := []struct {
		issue AccessibilityIssue
		want  string
	}{
		{AccessibilityIssue{RelMissing: true}, `rel="external"`},
		{AccessibilityIssue{TextMissing: true}, "external link text"},
		{AccessibilityIssue{RelMissing: true, TextMissing: true}, `rel="external" and external link text`},
	}
	for _, tt := range tests {
		if got := tt.issue.Detail(); got != tt.want {
			t.Errorf("Detail() = %q, want %q", got, tt.want)
		}
	}
}

func TestAccessibilityNoPatterns(t *testing.T) {
	rules, err := NewAccessibilityRules("", nil)
	if err != nil {
		t.Fatalf("NewAccessibilityRules returned error: %v", err)
	}
	issue, ok := rules.Check(document.Link{Href: "https://go.dev", Rel: "external", Text: "anything"})
	if !ok || !issue.TextMissing {
		t.Errorf("without patterns the text marker can never match, got %+v", issue)
	}
}

func TestAccessibilityInvalidPattern(t *testing.T) {
	if _, err := NewAccessibilityRules("", []string{"("}); !errors.Is(err, ErrInvalidPattern) {
		t.Errorf("expected ErrInvalidPattern, got %v", err)
	}
}
