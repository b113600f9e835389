package testcase

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"

	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/oj"

	"github.com/caseoracle/caseoracle/pkg/jsontree"
)

// KeySpec configures key derivation: which extra request-key fields
// participate in case identity, their optional defaults, and whether a
// record missing one of them is an error.
type KeySpec struct {
	// RequestKeys are additional record fields included in the key, in
	// configured order.
	RequestKeys []string

	// Defaults supplies values for request-key fields absent from a record.
	Defaults map[string]any

	// Require makes a missing request-key field (with no default) an error
	// instead of an absent key component.
	Require bool
}

// ExtraField is one request-key component of a Key. A component may be
// absent; an absent component never compares equal to a present one.
type ExtraField struct {
	Name    string
	Value   jsontree.Value
	Present bool
}

// Key is the derived, comparison-normalized identity of a request. Equality
// is structural: query parameters compare as a mapping, JSON bodies as
// parsed trees. Use Digest for indexed lookup.
type Key struct {
	Method string
	Path   string
	Query  url.Values

	// Body holds the structural body tree when the body is JSON-like or
	// absent. Opaque (non-JSON string or binary) bodies are kept verbatim
	// in RawBody instead.
	Body    jsontree.Value
	Opaque  bool
	RawBody string
	Binary  bool

	Extras []ExtraField

	digest string
}

// MissingKeyFieldError reports a configured request-key field that a record
// does not supply and for which no default is configured.
type MissingKeyFieldError struct {
	Field string
}

func (e *MissingKeyFieldError) Error() string {
	return fmt.Sprintf("record does not supply required request key field %q and no default is configured", e.Field)
}

// Derive builds the comparison key for a request or case record.
func Derive(fields map[string]any, spec KeySpec) (*Key, error) {
	rawURL, ok := fields[FieldURL].(string)
	if !ok {
		return nil, fmt.Errorf("record is missing a %q string field", FieldURL)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid %q field: %w", FieldURL, err)
	}

	method, _ := fields[FieldMethod].(string)
	if method == "" {
		method = "GET"
	}

	k := &Key{
		Method: strings.ToUpper(method),
		Path:   u.Path,
		Query:  u.Query(),
	}

	if err := k.setBody(fields); err != nil {
		return nil, err
	}

	for _, name := range spec.RequestKeys {
		extra := ExtraField{Name: name}
		raw, present := fields[name]
		if !present {
			raw, present = spec.Defaults[name]
		}
		if !present {
			if spec.Require {
				return nil, &MissingKeyFieldError{Field: name}
			}
			k.Extras = append(k.Extras, extra)
			continue
		}
		v, err := jsontree.FromAny(raw)
		if err != nil {
			return nil, fmt.Errorf("request key field %q: %w", name, err)
		}
		extra.Value = v
		extra.Present = true
		k.Extras = append(k.Extras, extra)
	}

	return k, nil
}

// setBody classifies and normalizes the request body component. A body that
// is absent or already-structured data is compared as a tree; a string body
// is opaque text unless the record's headers declare a JSON content type, in
// which case it is parsed; binary bodies are opaque bytes.
func (k *Key) setBody(fields map[string]any) error {
	raw, ok := fields[FieldRequestBody]
	if !ok || raw == nil {
		return nil // structural null
	}
	switch body := raw.(type) {
	case string:
		if declaresJSONContent(fields) {
			v, err := jsontree.Parse([]byte(body))
			if err != nil {
				return fmt.Errorf("%q declared as JSON: %w", FieldRequestBody, err)
			}
			k.Body = v
			return nil
		}
		k.Opaque = true
		k.RawBody = body
	case []byte:
		k.Opaque = true
		k.Binary = true
		k.RawBody = base64.StdEncoding.EncodeToString(body)
	default:
		v, err := jsontree.FromAny(raw)
		if err != nil {
			return fmt.Errorf("invalid %q field: %w", FieldRequestBody, err)
		}
		k.Body = v
	}
	return nil
}

// declaresJSONContent reports whether the record's request headers carry a
// JSON content type. Headers may be a mapping or a list of two-item pairs.
func declaresJSONContent(fields map[string]any) bool {
	raw, ok := fields[FieldRequestHeaders]
	if !ok {
		return false
	}
	isJSON := func(name, value string) bool {
		return strings.EqualFold(name, "Content-Type") &&
			strings.Contains(strings.ToLower(value), "json")
	}
	switch headers := raw.(type) {
	case map[string]any:
		for name, v := range headers {
			if value, ok := v.(string); ok && isJSON(name, value) {
				return true
			}
		}
	case []any:
		for _, entry := range headers {
			pair, ok := entry.([]any)
			if !ok || len(pair) != 2 {
				continue
			}
			name, nok := pair[0].(string)
			value, vok := pair[1].(string)
			if nok && vok && isJSON(name, value) {
				return true
			}
		}
	}
	return false
}

// QueryEqual reports whether two keys have the same query parameter mapping:
// same names, same value sequence per name, regardless of the order the
// parameters appeared in the URL.
func (k *Key) QueryEqual(o *Key) bool {
	if len(k.Query) != len(o.Query) {
		return false
	}
	for name, values := range k.Query {
		others, ok := o.Query[name]
		if !ok || len(values) != len(others) {
			return false
		}
		for i := range values {
			if values[i] != others[i] {
				return false
			}
		}
	}
	return true
}

// BodyEqual reports whether two keys have the same body component.
func (k *Key) BodyEqual(o *Key) bool {
	if k.Opaque != o.Opaque {
		return false
	}
	if k.Opaque {
		return k.Binary == o.Binary && k.RawBody == o.RawBody
	}
	return k.Body.Equal(o.Body)
}

// Canonical renders the key as deterministic JSON: an ordered list of
// component pairs with object keys sorted. Structurally equal keys always
// produce identical canonical text.
func (k *Key) Canonical() string {
	components := []any{
		[]any{"method", k.Method},
		[]any{"path", k.Path},
		[]any{"query", queryToAny(k.Query)},
		[]any{"body", k.bodyComponent()},
	}
	for _, extra := range k.Extras {
		if extra.Present {
			components = append(components, []any{"key", extra.Name, extra.Value.ToAny()})
		} else {
			components = append(components, []any{"key", extra.Name})
		}
	}
	opts := ojg.Options{Sort: true}
	data, err := oj.Marshal(components, &opts)
	if err != nil {
		panic(fmt.Sprintf("testcase: canonical key marshal failed: %v", err))
	}
	return string(data)
}

func (k *Key) bodyComponent() any {
	if !k.Opaque {
		return []any{"json", k.Body.ToAny()}
	}
	if k.Binary {
		return []any{"binary", k.RawBody}
	}
	return []any{"text", k.RawBody}
}

// Digest returns the SHA-256 hex digest of the canonical key, used for the
// exact-match index and as the implicit case identifier.
func (k *Key) Digest() string {
	if k.digest == "" {
		sum := sha256.Sum256([]byte(k.Canonical()))
		k.digest = hex.EncodeToString(sum[:])
	}
	return k.digest
}

func queryToAny(q url.Values) map[string]any {
	out := make(map[string]any, len(q))
	for name, values := range q {
		list := make([]any, len(values))
		for i, v := range values {
			list[i] = v
		}
		out[name] = list
	}
	return out
}
