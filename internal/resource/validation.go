// internal/resource/validation.go
package resource

import (
	"fmt"
	"strings"
)

// ValidationGap lists required fields left empty in a draft, and fields
// holding values outside their allowed range.
type ValidationGap struct {
	Resource string
	Fields   []string
	Invalid  []string
}

func (e *ValidationGap) Error() string {
	var parts []string
	if len(e.Fields) > 0 {
		parts = append(parts, "missing required fields: "+strings.Join(e.Fields, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid values: "+strings.Join(e.Invalid, ", "))
	}
	msg := strings.Join(parts, "; ")
	if e.Resource == "" {
		return msg
	}
	return fmt.Sprintf("%s: %s", e.Resource, msg)
}

// Required collects missing required fields and out-of-range values.
//
//	var req resource.Required
//	req.Text("firstName", m.FirstName)
//	req.Range("amount", d.Amount >= 0)
//	return req.Err()
type Required struct {
	missing []string
	invalid []string
}

// Text marks name missing when value is blank.
func (r *Required) Text(name, value string) {
	if strings.TrimSpace(value) == "" {
		r.missing = append(r.missing, name)
	}
}

// Check marks name missing when ok is false.
func (r *Required) Check(name string, ok bool) {
	if !ok {
		r.missing = append(r.missing, name)
	}
}

// Range marks name invalid when ok is false. The field is present but its
// value is not allowed.
func (r *Required) Range(name string, ok bool) {
	if !ok {
		r.invalid = append(r.invalid, name)
	}
}

// Err returns a *ValidationGap, or nil when nothing is missing or invalid.
func (r *Required) Err() error {
	if len(r.missing) == 0 && len(r.invalid) == 0 {
		return nil
	}
	return &ValidationGap{Fields: r.missing, Invalid: r.invalid}
}
