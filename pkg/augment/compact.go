package augment

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadCompact reads a compact file: a YAML mapping from case id to the
// committed field updates for that case. A missing file is an empty mapping.
func LoadCompact(path string) (map[string]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]map[string]any{}, nil
		}
		return nil, fmt.Errorf("read compact file: %w", err)
	}
	compact := map[string]map[string]any{}
	if err := yaml.Unmarshal(data, &compact); err != nil {
		return nil, fmt.Errorf("decode compact file %s: %w", path, err)
	}
	if compact == nil {
		compact = map[string]map[string]any{}
	}
	return compact, nil
}

// writeCompact atomically replaces the compact file. The YAML encoder sorts
// mapping keys, so equal content always produces byte-identical files.
func writeCompact(path string, compact map[string]map[string]any) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(compact); err != nil {
		return fmt.Errorf("encode compact file: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode compact file: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp compact file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp compact file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp compact file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp compact file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace compact file %s: %w", path, err)
	}
	return nil
}
