package store

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/caseoracle/caseoracle/pkg/testcase"
)

// MergeExtensions unions the main case file with one or more interface
// extension files into a single case file at outPath. Records pass through
// losslessly, main-file records first, then each extension file in argument
// order. Two records with the same derived key are a collision and abort the
// merge. The output is written atomically.
func MergeExtensions(mainFile string, extFiles []string, outPath string, spec testcase.KeySpec) (int, error) {
	type seen struct {
		id     string
		source string
	}
	byDigest := map[string]seen{}
	var merged []map[string]any

	addFile := func(path string) error {
		records, err := readCaseFile(path)
		if err != nil {
			return err
		}
		for _, fields := range records {
			key, err := testcase.Derive(fields, spec)
			if err != nil {
				return &DataError{File: path, Reason: "cannot derive case key", Err: err}
			}
			c := &testcase.Case{Fields: fields, Key: key, Source: path}
			if prev, ok := byDigest[key.Digest()]; ok {
				return &DataError{
					File:   path,
					CaseID: c.ID(),
					Reason: fmt.Sprintf("key collides with case %s from %s", prev.id, prev.source),
				}
			}
			byDigest[key.Digest()] = seen{id: c.ID(), source: path}
			merged = append(merged, fields)
		}
		return nil
	}

	if err := addFile(mainFile); err != nil {
		return 0, err
	}
	for _, ext := range extFiles {
		if err := addFile(ext); err != nil {
			return 0, err
		}
	}

	if err := writeCaseFile(outPath, merged); err != nil {
		return 0, err
	}
	return len(merged), nil
}

func writeCaseFile(path string, records []map[string]any) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]any{"cases": records}); err != nil {
		return fmt.Errorf("encode merged case file: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode merged case file: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp case file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp case file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp case file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp case file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace case file %s: %w", path, err)
	}
	return nil
}
