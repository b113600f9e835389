package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/caseoracle/caseoracle/pkg/augment"
	"github.com/caseoracle/caseoracle/pkg/config"
	"github.com/caseoracle/caseoracle/pkg/testcase"
)

// Load reads the configured case and extension files, applies augmentation
// data from the compact and update files, and returns the indexed corpus.
// Keys derive from the on-disk definition, before augmentation, so captured
// response updates never move a case's identity.
func Load(cfg *config.Config, log *slog.Logger) (*CaseSet, error) {
	set := NewCaseSet()
	spec := cfg.KeySpec()

	files := append([]string{}, cfg.CaseFiles...)
	files = append(files, cfg.ExtensionFiles...)
	for _, file := range files {
		records, err := readCaseFile(file)
		if err != nil {
			return nil, err
		}
		for _, fields := range records {
			c := &testcase.Case{Fields: fields, Source: file}
			if err := c.Validate(); err != nil {
				return nil, &DataError{File: file, Reason: "invalid case record", Err: err}
			}
			key, err := testcase.Derive(fields, spec)
			if err != nil {
				return nil, &DataError{File: file, Reason: "cannot derive case key", Err: err}
			}
			c.Key = key
			if err := set.Add(c); err != nil {
				return nil, err
			}
		}
		log.Debug("loaded case file", "file", file, "total", set.Len())
	}

	if err := applyAugmentation(set, cfg, log); err != nil {
		return nil, err
	}

	log.Info("corpus loaded", "cases", set.Len(), "files", len(files))
	return set, nil
}

// readCaseFile reads one case file into raw record mappings. YAML files hold
// either a top-level list of records or a mapping with a "cases" list; JSON
// files hold a top-level array.
func readCaseFile(path string) ([]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &DataError{File: path, Reason: "cannot read case file", Err: err}
	}

	ext := strings.ToLower(filepath.Ext(path))
	var doc any
	if ext == ".json" {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, &DataError{File: path, Reason: "invalid JSON", Err: err}
		}
	} else {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, &DataError{File: path, Reason: "invalid YAML", Err: err}
		}
	}

	list, err := recordList(doc)
	if err != nil {
		return nil, &DataError{File: path, Reason: err.Error()}
	}
	return list, nil
}

func recordList(doc any) ([]map[string]any, error) {
	switch d := doc.(type) {
	case nil:
		return nil, nil
	case []any:
		return coerceRecords(d)
	case map[string]any:
		inner, ok := d["cases"]
		if !ok {
			return nil, fmt.Errorf("case file mapping has no \"cases\" list")
		}
		list, ok := inner.([]any)
		if !ok {
			return nil, fmt.Errorf("\"cases\" must be a list, got %T", inner)
		}
		return coerceRecords(list)
	default:
		return nil, fmt.Errorf("case file must hold a list of records, got %T", doc)
	}
}

func coerceRecords(list []any) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(list))
	for i, entry := range list {
		fields, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("record %d must be a mapping, got %T", i, entry)
		}
		out = append(out, fields)
	}
	return out, nil
}

// applyAugmentation overlays committed compact data, then pending update
// entries, onto the matching cases. Fields apply onto a copy of the loaded
// record so the merge tooling still sees the original definitions. Entries
// for unknown case ids are skipped with a warning; they typically belong to
// cases served from another configuration.
func applyAugmentation(set *CaseSet, cfg *config.Config, log *slog.Logger) error {
	overlay := func(id string, fields map[string]any, origin string) {
		c, ok := set.byID[id]
		if !ok {
			log.Warn("augmentation for unknown case", "case", id, "origin", origin)
			return
		}
		updated := make(map[string]any, len(c.Fields)+len(fields))
		for k, v := range c.Fields {
			updated[k] = v
		}
		for k, v := range fields {
			updated[k] = v
		}
		c.Fields = updated
	}

	for _, file := range cfg.CompactFiles {
		compact, err := augment.LoadCompact(file)
		if err != nil {
			return &DataError{File: file, Reason: "cannot load compact file", Err: err}
		}
		for id, fields := range compact {
			overlay(id, fields, file)
		}
	}

	for _, file := range cfg.UpdateFiles {
		entries, err := augment.ReadUpdates(file)
		if err != nil {
			return &DataError{File: file, Reason: "cannot read update file", Err: err}
		}
		for _, entry := range entries {
			overlay(entry.CaseID, entry.Fields, file)
		}
	}
	return nil
}
