package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Common errors for configuration loading.
var (
	ErrFileNotFound     = errors.New("configuration file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidYAML      = errors.New("invalid YAML syntax")
	ErrInvalidJSON      = errors.New("invalid JSON syntax")
	ErrEmptyFile        = errors.New("configuration file is empty")
)

// ConfigurationError wraps any failure to load or validate the service
// configuration. Callers branch on it for exit-code selection.
type ConfigurationError struct {
	Path string
	Err  error
}

func (e *ConfigurationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("configuration %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("configuration: %v", e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// Load reads, validates, and normalizes a configuration file. The format is
// detected from the extension (.yaml/.yml for YAML, otherwise JSON). File-set
// globs are expanded relative to the config file's directory, sorted for
// determinism.
func Load(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		var ce *ConfigurationError
		if errors.As(err, &ce) {
			return nil, err
		}
		return nil, &ConfigurationError{Path: path, Err: err}
	}
	return cfg, nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}

	// Decode generically first for schema validation, then into the typed
	// config.
	var raw any
	var cfg Config
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
		}
	} else {
		if !json.Valid(data) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidJSON, path)
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}
	}

	if err := ValidateSchema(raw); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	cfg.Dir = filepath.Dir(path)

	if err := cfg.expandFileSets(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// expandFileSets resolves file-set entries against the config directory and
// expands glob patterns. A glob matching nothing expands to nothing; a
// literal path is kept as-is and surfaces as a load error later if missing.
func (c *Config) expandFileSets() error {
	sets := []*[]string{
		&c.CaseFiles, &c.ExtensionFiles, &c.CompactFiles, &c.UpdateFiles,
	}
	for _, set := range sets {
		expanded, err := expandGlobs(c.Dir, *set)
		if err != nil {
			return err
		}
		*set = expanded
	}
	return nil
}

func expandGlobs(dir string, patterns []string) ([]string, error) {
	var out []string
	for _, pattern := range patterns {
		resolved := pattern
		if !filepath.IsAbs(resolved) {
			resolved = filepath.Join(dir, resolved)
		}
		if !strings.ContainsAny(pattern, "*?[{") {
			out = append(out, resolved)
			continue
		}
		matches, err := doublestar.FilepathGlob(resolved)
		if err != nil {
			return nil, fmt.Errorf("invalid glob %q: %w", pattern, err)
		}
		sort.Strings(matches)
		out = append(out, matches...)
	}
	return out, nil
}
