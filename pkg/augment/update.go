package augment

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Writer appends augmentation entries to an update file. All entries written
// through one Writer share a run id.
type Writer struct {
	path  string
	runID string
}

// NewWriter creates an append-only writer for the update file at path. The
// file is created on first append if it does not exist.
func NewWriter(path string) *Writer {
	return &Writer{path: path, runID: uuid.NewString()}
}

// RunID returns the run identifier stamped on every entry this writer
// appends.
func (w *Writer) RunID() string { return w.runID }

// Append durably appends one entry to the update file as a standalone YAML
// document. The write is a single O_APPEND write followed by a sync, so
// concurrent appenders from separate processes interleave whole documents.
func (w *Writer) Append(caseID string, fields map[string]any) error {
	entry := Entry{CaseID: caseID, RunID: w.runID, Fields: fields}
	if err := entry.Validate(); err != nil {
		return err
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&entry); err != nil {
		return fmt.Errorf("encode augmentation entry: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode augmentation entry: %w", err)
	}

	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open update file: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("append to update file %s: %w", w.path, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync update file %s: %w", w.path, err)
	}
	return nil
}

// ReadUpdates reads every entry in an update file, in file order. A missing
// file is an empty update set, not an error.
func ReadUpdates(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open update file: %w", err)
	}
	defer f.Close()

	var entries []Entry
	dec := yaml.NewDecoder(f)
	for {
		var entry Entry
		if err := dec.Decode(&entry); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("decode update file %s: %w", path, err)
		}
		if entry.CaseID == "" && len(entry.Fields) == 0 {
			continue // empty document between separators
		}
		if err := entry.Validate(); err != nil {
			return nil, fmt.Errorf("update file %s: %w", path, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
