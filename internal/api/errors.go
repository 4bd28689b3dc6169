package api

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// FetchError is a network or HTTP failure while retrieving list data.
// The table surfaces it inline and keeps its last good rows.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// SubmitError is a validation or server rejection on create, edit or
// delete. Fields maps field names to their messages so the form can
// show them next to the offending inputs; messages that are not tied
// to a field arrive under "non_field_errors".
type SubmitError struct {
	StatusCode int
	Fields     map[string][]string
}

func (e *SubmitError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("submit rejected: status %d", e.StatusCode)
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, strings.Join(e.Fields[name], "; ")))
	}
	return fmt.Sprintf("submit rejected: %s", strings.Join(parts, ", "))
}

// FieldErrors returns the messages attached to one field.
func (e *SubmitError) FieldErrors(name string) []string {
	if e == nil {
		return nil
	}
	return e.Fields[name]
}

// parseSubmitError decodes the conventional validation body, where each
// key holds either a list of messages or a single string.
func parseSubmitError(status int, body []byte) *SubmitError {
	out := &SubmitError{StatusCode: status, Fields: map[string][]string{}}
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return out
	}
	for field, v := range raw {
		switch msgs := v.(type) {
		case string:
			out.Fields[field] = []string{msgs}
		case []any:
			for _, m := range msgs {
				if s, ok := m.(string); ok {
					out.Fields[field] = append(out.Fields[field], s)
				}
			}
		}
	}
	return out
}
