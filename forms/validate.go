// forms/validate.go
package forms

import (
	"fmt"
	"strconv"
	"strings"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Mode tags passed to the persistence callback.
const (
	ModeCreate = "create"
	ModeEdit   = "edit"
)

// PersistFunc is the caller-supplied persistence callback. The form engine
// never talks to storage itself. A false return means "not saved" and keeps
// the submitted values available for an idempotent retry.
type PersistFunc func(values map[string]any, mode string) bool

type SubmitResult struct {
	Saved   bool         `json:"saved"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
	Values  map[string]any `json:"values"`
}

// Validate checks the submitted values against the schema and collects
// every violation, not just the first: required fields must be present and
// non-empty (empty string and empty list both count as missing), and number
// fields must parse as numbers.
func (s *Schema) Validate(values map[string]any) []FieldError {
	var errs []FieldError
	for _, f := range s.Fields {
		v, ok := values[f.Name]
		if f.Required && (!ok || isEmpty(v)) {
			errs = append(errs, FieldError{Field: f.Name, Message: fmt.Sprintf("%s is required", f.Label)})
			continue
		}
		if !ok || v == nil {
			continue
		}
		if f.Kind == FieldNumber && !isEmpty(v) {
			if _, err := toNumber(v); err != nil {
				errs = append(errs, FieldError{Field: f.Name, Message: fmt.Sprintf("%s must be a number", f.Label)})
			}
		}
	}
	return errs
}

// Submit validates and, on success, invokes persist exactly once with a
// value set containing every configured field (missing optional fields are
// filled with their defaults). Validation failure never reaches persist.
func (s *Schema) Submit(values map[string]any, mode string, persist PersistFunc) SubmitResult {
	if errs := s.Validate(values); len(errs) > 0 {
		return SubmitResult{Saved: false, Message: "validation failed", Errors: errs, Values: values}
	}

	full := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		if v, ok := values[f.Name]; ok {
			full[f.Name] = v
		} else {
			full[f.Name] = f.Default
		}
	}

	if !persist(full, mode) {
		return SubmitResult{Saved: false, Message: "save failed, please retry", Values: values}
	}
	return SubmitResult{Saved: true, Message: "saved", Values: full}
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []string:
		return len(t) == 0
	case []any:
		return len(t) == 0
	default:
		return false
	}
}

func toNumber(v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case uint:
		return float64(t), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(t), 64)
	default:
		return 0, fmt.Errorf("not a number: %v", v)
	}
}
