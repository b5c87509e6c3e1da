package urlutil

import "testing"

func TestIsHTTPScheme(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{
			name:     "https scheme",
			input:    "https://example.com",
			expected: true,
		},
		{
			name:     "http scheme",
			input:    "http://example.com",
			expected: true,
		},
		{
			name:     "mailto scheme",
			input:    "mailto:user@example.com",
			expected: false,
		},
		{
			name:     "javascript scheme",
			input:    "javascript:void(0)",
			expected: false,
		},
		{
			name:     "ftp scheme",
			input:    "ftp://files.example.com",
			expected: false,
		},
		{
			name:     "empty string",
			input:    "",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsHTTPScheme(tt.input)
			if got != tt.expected {
				t.Errorf("IsHTTPScheme(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestHasHTTPPrefix(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"http://example.com", true},
		{"  HTTPS://example.com", true},
		{"www.example.com", false},
		{"//cdn.example.com", false},
		{"httpx://example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := HasHTTPPrefix(tt.input); got != tt.want {
				t.Errorf("HasHTTPPrefix(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestEnsureHTTP(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"https://example.com", "https://example.com"},
		{"www.example.com/page", "http://www.example.com/page"},
		{"//cdn.example.com/lib.js", "http://cdn.example.com/lib.js"},
		{"example.com:8080/x", "http://example.com:8080/x"},
		{"javascript:void(0)", "javascript:void(0)"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := EnsureHTTP(tt.input); got != tt.want {
				t.Errorf("EnsureHTTP(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestContainsWhitespace(t *testing.T) {
	if ContainsWhitespace("  https://example.com/a  ") {
		t.Error("surrounding whitespace should be ignored")
	}
	if !ContainsWhitespace("https://example.com/a b") {
		t.Error("inner space should be reported")
	}
}

func TestResolveReference(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		ref      string
		expected string
		wantErr  bool
	}{
		{
			name:     "absolute URL returned as-is",
			base:     "https://example.com",
			ref:      "https://other.com/page",
			expected: "https://other.com/page",
		},
		{
			name:     "relative path resolved",
			base:     "https://example.com/blog/",
			ref:      "post1",
			expected: "https://example.com/blog/post1",
		},
		{
			name:     "root-relative resolved",
			base:     "https://example.com/blog/",
			ref:      "/about",
			expected: "https://example.com/about",
		},
		{
			name:     "protocol-relative",
			base:     "https://example.com",
			ref:      "//cdn.example.com/file",
			expected: "https://cdn.example.com/file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveReference(tt.base, tt.ref)
			if (err != nil) != tt.wantErr {
				t.Errorf("ResolveReference() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.expected {
				t.Errorf("ResolveReference(%q, %q) = %v, want %v", tt.base, tt.ref, got, tt.expected)
			}
		})
	}
}
