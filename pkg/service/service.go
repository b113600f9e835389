// Package service runs the oracle's request/response session: one JSON
// request record per input line, one JSON response record per output line.
package service

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/oj"

	"github.com/caseoracle/caseoracle/internal/matching"
	"github.com/caseoracle/caseoracle/pkg/config"
	"github.com/caseoracle/caseoracle/pkg/store"
	"github.com/caseoracle/caseoracle/pkg/testcase"
)

// maxRecordBytes bounds a single request line.
const maxRecordBytes = 16 << 20

// Service resolves request records against the loaded corpus.
type Service struct {
	set           *store.CaseSet
	matcher       *matching.Matcher
	spec          testcase.KeySpec
	defaultStatus int
	log           *slog.Logger
}

// New builds a service over a loaded corpus.
func New(set *store.CaseSet, cfg *config.Config, log *slog.Logger) *Service {
	return &Service{
		set:           set,
		matcher:       matching.New(set),
		spec:          cfg.KeySpec(),
		defaultStatus: cfg.DefaultResponseStatus,
		log:           log,
	}
}

// Run reads request records from in until EOF, writing one response record
// per request to out. Each response is flushed before the next request is
// read. Malformed requests produce inline error records; only I/O failures
// and context cancellation end the session early.
func (s *Service) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), maxRecordBytes)
	w := bufio.NewWriter(out)

	line := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		record := s.resolve(line, []byte(text))
		if err := writeRecord(w, record); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read requests: %w", err)
	}
	return nil
}

// resolve turns one request line into its response record.
func (s *Service) resolve(line int, data []byte) map[string]any {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		s.log.Warn("malformed request record", "line", line, "error", err)
		return errorRecord(&RequestFormatError{Line: line, Err: err})
	}

	key, err := testcase.Derive(fields, s.spec)
	if err != nil {
		s.log.Warn("request yields no lookup key", "line", line, "error", err)
		return errorRecord(&RequestFormatError{Line: line, Err: err})
	}

	result := s.matcher.Match(key)
	if result.Exact != nil {
		s.log.Debug("exact match", "line", line, "case", result.Exact.ID())
		return result.Exact.ResponseFields(s.defaultStatus)
	}

	s.log.Debug("no exact match", "line", line, "candidates", len(result.Candidates))
	return candidateRecord(result.Candidates)
}

// candidateRecord builds the no-match report. It deliberately carries no
// response status, so callers can tell a report from a matched response.
func candidateRecord(candidates []matching.Candidate) map[string]any {
	list := make([]any, len(candidates))
	for i, c := range candidates {
		entry := map[string]any{
			"case id":  c.CaseID,
			"distance": c.Distance,
			"diffs":    c.Diffs,
		}
		if c.Description != "" {
			entry["description"] = c.Description
		}
		list[i] = entry
	}
	return map[string]any{"candidates": list}
}

func errorRecord(err *RequestFormatError) map[string]any {
	return map[string]any{
		"error": map[string]any{
			"kind":   "request format",
			"detail": err.Err.Error(),
		},
	}
}

// writeRecord emits one record as a single JSON line and flushes it.
func writeRecord(w *bufio.Writer, record map[string]any) error {
	opts := ojg.Options{UseTags: true}
	data, err := oj.Marshal(record, &opts)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	if err := w.WriteByte('\n'); err != nil {
		return err
	}
	return w.Flush()
}
