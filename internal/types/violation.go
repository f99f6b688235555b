package types

import "fmt"

// Violation represents a single compliance-rule failure on a job ad.
// Field is a dotted path into the job ad (e.g. "workplace_address.postal_code").
type Violation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s [%s]: %s", v.Field, v.Rule, v.Message)
}

// Violations is the full result of one validation pass.
type Violations []Violation

// HasField reports whether any violation references the given field path.
func (vs Violations) HasField(field string) bool {
	for _, v := range vs {
		if v.Field == field {
			return true
		}
	}
	return false
}

// Fields returns the distinct field paths referenced, in first-seen order.
func (vs Violations) Fields() []string {
	seen := make(map[string]bool, len(vs))
	var fields []string
	for _, v := range vs {
		if !seen[v.Field] {
			seen[v.Field] = true
			fields = append(fields, v.Field)
		}
	}
	return fields
}
