package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mondocite/mondocite/internal/citation"
)

// ToJSON serializes a citation as pretty-printed JSON in data-model key order.
// Decoding the result yields a value deep-equal to c.
func ToJSON(c citation.Citation) (string, error) {
	return encodeJSON(c)
}

// ToJSONList serializes citations as a pretty-printed JSON array.
func ToJSONList(cs []citation.Citation) (string, error) {
	if cs == nil {
		cs = []citation.Citation{}
	}
	return encodeJSON(cs)
}

func encodeJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encoding JSON: %w", err)
	}
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}
