// Package jsonx is the JSON codec used for machine-readable tool output.
//
// Output is one record per line. HTML characters are not escaped, so key
// names such as M-<left> read the same in a terminal as in a parser.
package jsonx

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalLine encodes v as a single line of JSON without a trailing newline.
func MarshalLine(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// UnmarshalLine decodes one line written by MarshalLine. Unknown fields
// are rejected so output from a different record type is caught.
func UnmarshalLine(line string, v any) error {
	dec := json.NewDecoder(bytes.NewReader([]byte(line)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("trailing data after JSON record")
	}
	return nil
}
