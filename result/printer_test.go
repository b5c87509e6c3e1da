package result

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lukemcguire/linklint/document"
)

func TestPrintResults_NoFindings(t *testing.T) {
	var buf bytes.Buffer
	r := &Result{
		Document: "index.html",
		Stats:    Stats{TotalLinks: 10},
	}

	PrintResults(&buf, r)

	got := buf.String()
	want := "No broken links found!\nChecked 10 links: 0 errors, 0 warnings, 0 information\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPrintResults_WithFindings(t *testing.T) {
	var buf bytes.Buffer
	r := &Result{
		Document: "index.html",
		Findings: []Finding{
			New(CodeNoAnchor, document.Range{Start: document.Position{Line: 1, Column: 4}}, "#missing"),
			New(CodeRedirectedButWorking, document.Range{Start: document.Position{Line: 9}}, "http://example.com").
				WithRelated("https://example.com/"),
		},
		Stats: Stats{TotalLinks: 5, ErrorCount: 1, WarningCount: 1},
	}

	PrintResults(&buf, r)

	got := buf.String()
	for _, want := range []string{
		"index.html:2:5: error [1404] Anchor does not exist in the document.",
		"  URL: #missing",
		"index.html:10:1: warning [1301]",
		"  Redirects to: https://example.com/",
		"Checked 5 links: 1 errors, 1 warnings, 0 information",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}
