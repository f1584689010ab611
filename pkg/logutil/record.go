package logutil

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// record is an insertion ordered JSON object. Go maps randomize key order
// during marshaling, which would make log lines jump around between runs and
// break byte level comparisons in tests and downstream tooling.
type record struct {
	keys   []string
	values map[string]any
}

func newRecord() *record {
	return &record{
		values: map[string]any{},
	}
}

// Set stores the value under the given key. Setting an existing key replaces
// the value but keeps its original position.
func (r *record) Set(key string, value any) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}

	r.values[key] = value
}

// MarshalJSON writes the object with keys in insertion order. Values that do
// not marshal degrade to their string representation instead of failing the
// whole record, a log line with a stringified value beats no log line.
func (r *record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')

		value, err := json.Marshal(r.values[key])
		if err != nil {
			value, _ = json.Marshal(fmt.Sprint(r.values[key]))
		}
		buf.Write(value)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}
