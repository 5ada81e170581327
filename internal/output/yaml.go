package output

import (
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLFormatter formats results as YAML documents.
type YAMLFormatter struct{}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter() *YAMLFormatter {
	return &YAMLFormatter{}
}

// Format writes a result as a YAML mapping.
func (f *YAMLFormatter) Format(w io.Writer, r Result) error {
	return encodeYAML(w, r)
}

// FormatTrace writes a hover replay as a YAML sequence.
func (f *YAMLFormatter) FormatTrace(w io.Writer, trace []Transition) error {
	if trace == nil {
		trace = []Transition{}
	}
	return encodeYAML(w, trace)
}

func encodeYAML(w io.Writer, v any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}
