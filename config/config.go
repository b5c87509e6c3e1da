// Package config locates and decodes linklint settings files.
//
// Settings are YAML documents whose keys mirror linkcheck.Config. Keys that
// are absent keep their default value.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/lukemcguire/linklint/linkcheck"
)

// AppName is the directory name used under the XDG config home.
const AppName = "linklint"

// LocalFile is the settings file looked up in the working directory.
const LocalFile = ".linklint.yaml"

// ErrConfigNotFound is returned when an explicitly requested settings file
// does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// Dir returns the per-user configuration directory.
func Dir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Find returns the settings file to load, searching in this order:
//  1. explicit, when non-empty (ErrConfigNotFound if it does not exist)
//  2. .linklint.yaml in the working directory
//  3. config.yaml in the XDG config directory
//
// An empty path with a nil error means no settings file exists and the
// defaults apply.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("%w: %s", ErrConfigNotFound, explicit)
		}
		return explicit, nil
	}

	if cwd, err := os.Getwd(); err == nil {
		local := filepath.Join(cwd, LocalFile)
		if _, err := os.Stat(local); err == nil {
			return local, nil
		}
	}

	user := filepath.Join(Dir(), "config.yaml")
	if _, err := os.Stat(user); err == nil {
		return user, nil
	}
	return "", nil
}

// Load decodes the settings file at path over linkcheck.DefaultConfig and
// validates the result. An empty path returns the defaults.
func Load(path string) (linkcheck.Config, error) {
	cfg := linkcheck.DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if cfg, err = Decode(data); err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses YAML settings over the defaults. Unknown keys are rejected
// so typos do not go unnoticed.
func Decode(data []byte) (linkcheck.Config, error) {
	cfg := linkcheck.DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("decode yaml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
