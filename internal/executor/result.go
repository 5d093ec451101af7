package executor

import (
	value "github.com/tidegraph/tide/internal/value"
)

// GraphQLError is one field-level failure. Path names the field's response
// keys from the failing field outward (innermost first); list indices are
// not recorded.
type GraphQLError struct {
	Message string   `json:"message"`
	Path    []string `json:"path,omitempty"`
}

func (e GraphQLError) Error() string { return e.Message }

// Response is the outcome of executing one operation. Data is always
// present; Errors collects the per-field failures that were isolated during
// execution.
type Response struct {
	Data   value.Value    `json:"data"`
	Errors []GraphQLError `json:"errors,omitempty"`
}
