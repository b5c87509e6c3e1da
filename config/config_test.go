package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/google/go-cmp/cmp"

	"github.com/lukemcguire/linklint/linkcheck"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestDecode(t *testing.T) {
	data := []byte(`
excludedDomains: [example.org, tracker.example]
localDomain: https://www.example.com
requestMethod: GET
validateExternalLinkAccessibility: true
externalLinkText: ['\(opens externally\)']
delayNumberOfLinksBeforeWait: 5
delayWait: 250ms
showProtocolRedirectionWarning: no
showWwwRedirectionWarning: yes-separate
findingMode: per-link
timeout: 3s
maxRedirects: 4
retries: 2
retryDelay: 100ms
respectRobots: true
`)

	cfg, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}

	want := linkcheck.DefaultConfig()
	want.ExcludedDomains = []string{"example.org", "tracker.example"}
	want.LocalDomain = "https://www.example.com"
	want.RequestMethod = linkcheck.MethodGet
	want.ValidateExternalLinkAccessibility = true
	want.ExternalLinkText = []string{`\(opens externally\)`}
	want.DelayNumberOfLinksBeforeWait = 5
	want.DelayWait = 250 * time.Millisecond
	want.ShowProtocolRedirectionWarning = linkcheck.RedirectSuppress
	want.ShowWwwRedirectionWarning = linkcheck.RedirectAlwaysSeparate
	want.FindingMode = linkcheck.FindingPerLink
	want.Timeout = 3 * time.Second
	want.MaxRedirects = 4
	want.Retries = 2
	want.RetryDelay = 100 * time.Millisecond
	want.RespectRobots = true

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Decode mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_Empty(t *testing.T) {
	cfg, err := Decode(nil)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if diff := cmp.Diff(linkcheck.DefaultConfig(), cfg); diff != "" {
		t.Errorf("empty settings should yield defaults (-want +got):\n%s", diff)
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{"bad method", "requestMethod: post\n", linkcheck.ErrInvalidMethod},
		{"bad redirect mode", "showWwwRedirectionWarning: sometimes\n", linkcheck.ErrInvalidRedirectMode},
		{"bad finding mode", "findingMode: all\n", linkcheck.ErrInvalidFindingMode},
		{"bad pattern", "externalLinkText: ['(']\n", linkcheck.ErrInvalidPattern},
		{"bad limit", "maxRedirects: 0\n", linkcheck.ErrInvalidLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode([]byte(tt.data)); !errors.Is(err, tt.wantErr) {
				t.Errorf("Decode() = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, err := Decode([]byte("unknownKey: 1\n")); err == nil {
		t.Error("expected error for unknown key")
	}
	if _, err := Decode([]byte("timeout: soon\n")); err == nil {
		t.Error("expected error for malformed duration")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	writeFile(t, path, "localDomain: https://example.com\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LocalDomain != "https://example.com" {
		t.Errorf("LocalDomain = %q", cfg.LocalDomain)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("expected ErrConfigNotFound, got %v", err)
	}

	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load(\"\") returned error: %v", err)
	}
	if cfg.MaxRedirects != linkcheck.DefaultConfig().MaxRedirects {
		t.Error("Load(\"\") should return defaults")
	}
}

func TestFind(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	work := t.TempDir()
	t.Chdir(work)

	t.Run("nothing found", func(t *testing.T) {
		path, err := Find("")
		if err != nil || path != "" {
			t.Errorf("Find(\"\") = %q, %v; want empty", path, err)
		}
	})

	userFile := filepath.Join(home, AppName, "config.yaml")
	writeFile(t, userFile, "retries: 1\n")

	t.Run("user config", func(t *testing.T) {
		path, err := Find("")
		if err != nil || path != userFile {
			t.Errorf("Find(\"\") = %q, %v; want %q", path, err, userFile)
		}
	})

	localFile := filepath.Join(work, LocalFile)
	writeFile(t, localFile, "retries: 2\n")

	t.Run("working directory wins", func(t *testing.T) {
		path, err := Find("")
		if err != nil {
			t.Fatalf("Find returned error: %v", err)
		}
		if filepath.Base(path) != LocalFile {
			t.Errorf("Find(\"\") = %q, want %s", path, LocalFile)
		}
	})

	t.Run("explicit path", func(t *testing.T) {
		path, err := Find(userFile)
		if err != nil || path != userFile {
			t.Errorf("Find(explicit) = %q, %v", path, err)
		}
		if _, err := Find(filepath.Join(work, "nope.yaml")); !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})
}
