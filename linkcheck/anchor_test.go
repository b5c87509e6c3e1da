package linkcheck

import (
	"strings"
	"testing"

	"github.com/lukemcguire/linklint/document"
	"github.com/lukemcguire/linklint/result"
)

type idCounts map[string]int

func (m idCounts) CountID(id string) int { return m[id] }

func TestResolveAnchor(t *testing.T) {
	index := idCounts{"top": 1, "dup": 2}

	tests := []struct {
		fragment string
		wantID   string
		wantCode result.Code
		wantBad  bool
	}{
		{"#top", "top", 0, false},
		{"#dup", "dup", result.CodeMultipleAnchor, true},
		{"#missing", "missing", result.CodeNoAnchor, true},
		{"#", "", result.CodeNoAnchor, true},
		{"top", "top", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.fragment, func(t *testing.T) {
			m := ResolveAnchor(tt.fragment, index)
			if m.ID != tt.wantID {
				t.Errorf("ID = %q, want %q", m.ID, tt.wantID)
			}
			code, bad := m.Code()
			if bad != tt.wantBad || code != tt.wantCode {
				t.Errorf("Code() = %d, %v; want %d, %v", code, bad, tt.wantCode, tt.wantBad)
			}
		})
	}
}

func TestResolveAnchorUsesFullDocument(t *testing.T) {
	src := "<a href=\"#footer\">Footer</a>\n<p>filler</p>\n<div id=\"footer\"></div>"
	full, err := document.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	selection, origin, err := document.SelectLines([]byte(src), 1, 1)
	if err != nil {
		t.Fatalf("SelectLines returned error: %v", err)
	}
	work, err := document.ParseAt(strings.NewReader(string(selection)), origin)
	if err != nil {
		t.Fatalf("ParseAt returned error: %v", err)
	}

	if _, bad := ResolveAnchor("#footer", work).Code(); !bad {
		t.Fatal("working selection should not contain the target")
	}
	if code, bad := ResolveAnchor("#footer", full).Code(); bad {
		t.Errorf("full document lookup reported %d", code)
	}
}
