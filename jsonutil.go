package rql

import (
	"bytes"
	"encoding/json"
)

// decodeOrderedBoolKeys decodes a JSON object whose values are all `true`
// (the include clause's JSON shape) while recovering key order from the
// raw token stream, since Go maps do not preserve insertion order.
func decodeOrderedBoolKeys(data []byte) ([]string, map[string]bool, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, errf(-1, "include must be a JSON object")
	}

	var order []string
	m := make(map[string]bool)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, _ := keyTok.(string)

		var v bool
		if err := dec.Decode(&v); err != nil {
			return nil, nil, err
		}
		order = append(order, key)
		m[key] = v
	}
	return order, m, nil
}
