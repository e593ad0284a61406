package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// InputError reports invalid tool input: malformed JSON, a wrong field
// type, or a field the tool's schema does not declare. It is returned
// to the model as a tool error rather than surfacing as a runtime
// failure.
type InputError struct {
	Tool   string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input for tool %q: %s", e.Tool, e.Reason)
}

// DecodeInput strictly decodes raw tool arguments into v. Unknown
// fields are rejected so that a drifting model-side schema fails loudly
// instead of being silently ignored.
func DecodeInput(tool string, raw json.RawMessage, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return &InputError{Tool: tool, Reason: err.Error()}
	}

	// Trailing content after the JSON object is also malformed input.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return &InputError{Tool: tool, Reason: "trailing data after arguments object"}
	}

	return nil
}
