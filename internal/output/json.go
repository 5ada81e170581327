package output

import (
	"encoding/json"
	"io"
)

// JSONFormatter formats results as indented JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format writes a result as a JSON object.
func (f *JSONFormatter) Format(w io.Writer, r Result) error {
	return encodeJSON(w, r)
}

// FormatTrace writes a hover replay as a JSON array.
func (f *JSONFormatter) FormatTrace(w io.Writer, trace []Transition) error {
	if trace == nil {
		trace = []Transition{}
	}
	return encodeJSON(w, trace)
}

func encodeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
