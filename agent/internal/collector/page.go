package collector

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vitalscan/vitalscan/pkg/types"
)

// ErrInvalidPage is wrapped by every ValidationError.
var ErrInvalidPage = errors.New("invalid page")

// ValidationError describes the first problem found in a page body.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidPage, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrInvalidPage, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidPage }

// Page is one validated response of GET /patients.
type Page struct {
	// Data holds the raw record objects in server order.
	Data       []map[string]json.RawMessage
	Pagination Pagination
	Metadata   Metadata
}

// Pagination is the cursor block of a page.
type Pagination struct {
	Page        int
	Limit       int
	Total       int
	TotalPages  int
	HasNext     bool
	HasPrevious bool
}

// Metadata identifies the response that produced a page.
type Metadata struct {
	Timestamp string
	Version   string
	RequestID string
}

// decodePage validates body against the page shape. Scalars are read with
// the lenient types.Value conversions, so "1" and 1.0 are valid page numbers.
func decodePage(body []byte) (*Page, error) {
	top, err := object("", body)
	if err != nil {
		return nil, err
	}

	var p Page

	rawData, err := require(top, "", "data")
	if err != nil {
		return nil, err
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(rawData, &entries); err != nil || entries == nil {
		return nil, invalid("data", "must be an array")
	}
	p.Data = make([]map[string]json.RawMessage, 0, len(entries))
	for i, e := range entries {
		rec, err := object(fmt.Sprintf("data[%d]", i), e)
		if err != nil {
			return nil, err
		}
		p.Data = append(p.Data, rec)
	}

	rawPag, err := require(top, "", "pagination")
	if err != nil {
		return nil, err
	}
	pag, err := object("pagination", rawPag)
	if err != nil {
		return nil, err
	}
	ints := []struct {
		key   string
		floor int
		dst   *int
	}{
		{"page", 1, &p.Pagination.Page},
		{"limit", 1, &p.Pagination.Limit},
		{"total", 0, &p.Pagination.Total},
		{"totalPages", 0, &p.Pagination.TotalPages},
	}
	for _, f := range ints {
		if *f.dst, err = intField(pag, "pagination", f.key, f.floor); err != nil {
			return nil, err
		}
	}
	if p.Pagination.HasNext, err = boolField(pag, "pagination", "hasNext"); err != nil {
		return nil, err
	}
	if p.Pagination.HasPrevious, err = boolField(pag, "pagination", "hasPrevious"); err != nil {
		return nil, err
	}

	rawMeta, err := require(top, "", "metadata")
	if err != nil {
		return nil, err
	}
	meta, err := object("metadata", rawMeta)
	if err != nil {
		return nil, err
	}
	strs := []struct {
		key string
		dst *string
	}{
		{"timestamp", &p.Metadata.Timestamp},
		{"version", &p.Metadata.Version},
		{"requestId", &p.Metadata.RequestID},
	}
	for _, f := range strs {
		if *f.dst, err = stringField(meta, "metadata", f.key); err != nil {
			return nil, err
		}
	}

	return &p, nil
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func path(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

// object decodes raw as a JSON object. null is rejected.
func object(field string, raw json.RawMessage) (map[string]json.RawMessage, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil || m == nil {
		if field == "" {
			return nil, invalid("", "body must be a JSON object")
		}
		return nil, invalid(field, "must be an object")
	}
	return m, nil
}

func require(m map[string]json.RawMessage, parent, key string) (json.RawMessage, error) {
	v, ok := m[key]
	if !ok {
		return nil, invalid(path(parent, key), "missing")
	}
	return v, nil
}

func intField(m map[string]json.RawMessage, parent, key string, floor int) (int, error) {
	raw, err := require(m, parent, key)
	if err != nil {
		return 0, err
	}
	n, ok := types.RawValue(raw).AsInt()
	if !ok {
		return 0, invalid(path(parent, key), "must be an integer")
	}
	if n < int64(floor) {
		return 0, invalid(path(parent, key), fmt.Sprintf("must be >= %d, got %d", floor, n))
	}
	return int(n), nil
}

func boolField(m map[string]json.RawMessage, parent, key string) (bool, error) {
	raw, err := require(m, parent, key)
	if err != nil {
		return false, err
	}
	b, ok := types.RawValue(raw).AsBool()
	if !ok {
		return false, invalid(path(parent, key), "must be a boolean")
	}
	return b, nil
}

func stringField(m map[string]json.RawMessage, parent, key string) (string, error) {
	raw, err := require(m, parent, key)
	if err != nil {
		return "", err
	}
	s, ok := types.RawValue(raw).AsText()
	if !ok {
		return "", invalid(path(parent, key), "must be a string")
	}
	return s, nil
}
