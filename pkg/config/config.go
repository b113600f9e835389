// Package config loads and validates the oracle's service configuration.
package config

import (
	"github.com/caseoracle/caseoracle/pkg/testcase"
)

// Config is the oracle's service configuration. File-set fields accept glob
// patterns (doublestar syntax); Load expands them relative to the config
// file's directory.
type Config struct {
	Version string `yaml:"version" json:"version"`

	// CaseFiles are the canonical case definition files.
	CaseFiles []string `yaml:"case files" json:"case files"`

	// ExtensionFiles are interface-extension case files, used by the merge
	// tooling and loaded alongside the main corpus when serving.
	ExtensionFiles []string `yaml:"extension files,omitempty" json:"extension files,omitempty"`

	// CompactFiles hold committed augmentation data.
	CompactFiles []string `yaml:"compact files,omitempty" json:"compact files,omitempty"`

	// UpdateFiles hold pending, uncommitted augmentation entries.
	UpdateFiles []string `yaml:"update files,omitempty" json:"update files,omitempty"`

	// RequestKeys name additional record fields that participate in case
	// identity, in order.
	RequestKeys []string `yaml:"request keys,omitempty" json:"request keys,omitempty"`

	// KeyDefaults supplies values for request keys absent from a record.
	KeyDefaults map[string]any `yaml:"key defaults,omitempty" json:"key defaults,omitempty"`

	// RequireRequestKeys makes a record missing a request key (with no
	// default) an error instead of an absent key component.
	RequireRequestKeys bool `yaml:"require request keys,omitempty" json:"require request keys,omitempty"`

	// DefaultResponseStatus fills the response status of exact-match
	// responses whose stored case omits one. Defaults to 200.
	DefaultResponseStatus int `yaml:"default response status,omitempty" json:"default response status,omitempty"`

	Logging LoggingConfig `yaml:"logging,omitempty" json:"logging,omitempty"`

	// Dir is the directory of the config file, set by Load. Relative paths
	// in file sets resolve against it.
	Dir string `yaml:"-" json:"-"`
}

// LoggingConfig selects log verbosity and format.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty" json:"level,omitempty"`
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	return &Config{
		Version:               "1",
		DefaultResponseStatus: 200,
		Logging:               LoggingConfig{Level: "info", Format: "text"},
	}
}

// KeySpec builds the key-derivation spec from the configuration.
func (c *Config) KeySpec() testcase.KeySpec {
	return testcase.KeySpec{
		RequestKeys: c.RequestKeys,
		Defaults:    c.KeyDefaults,
		Require:     c.RequireRequestKeys,
	}
}

// applyDefaults fills unset fields after decoding.
func (c *Config) applyDefaults() {
	if c.DefaultResponseStatus == 0 {
		c.DefaultResponseStatus = 200
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}
