package rql

import (
	"bytes"
	stdjson "encoding/json"

	"github.com/segmentio/encoding/json"
)

// FieldType is the advisory type tag of a FieldDef. It is never enforced
// against a literal value's type during parsing.
type FieldType string

// Recognized field type tags.
const (
	FieldTypeString  FieldType = "string"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
)

// FieldDef describes one field of an EntityDef.
type FieldDef struct {
	// Type is advisory; never enforced against literal value types.
	Type FieldType
	// Values is an optional ordered enum/example set for autocomplete.
	Values []string
}

// EntityDef describes one entity in a Schema: its name, the relations it
// may include, and the fields referenceable in order/where clauses.
//
// Fields preserves insertion order via FieldOrder so suggestion output is
// deterministic.
type EntityDef struct {
	Name      string
	Relations []string

	// FieldOrder lists field names in declaration order; Fields maps each
	// to its definition. Kept as a parallel slice+map (rather than a
	// single ordered-map type, which the stdlib and this pack's examples
	// do not provide) so iteration is deterministic without requiring
	// callers to pre-sort.
	FieldOrder []string
	Fields     map[string]FieldDef
}

// Field looks up a field by name (case-sensitive), reporting whether it
// exists.
func (e *EntityDef) Field(name string) (FieldDef, bool) {
	if e == nil || e.Fields == nil {
		return FieldDef{}, false
	}
	f, ok := e.Fields[name]
	return f, ok
}

// HasRelation reports whether name (case-sensitive) is a declared relation.
func (e *EntityDef) HasRelation(name string) bool {
	if e == nil {
		return false
	}
	for _, r := range e.Relations {
		if r == name {
			return true
		}
	}
	return false
}

// Schema is an ordered sequence of entity definitions. It is immutable
// input: the core never mutates a Schema it is given.
type Schema struct {
	Entities []EntityDef
}

// Entity looks up an entity by name (case-sensitive), reporting whether it
// exists.
func (s *Schema) Entity(name string) (*EntityDef, bool) {
	if s == nil {
		return nil, false
	}
	for i := range s.Entities {
		if s.Entities[i].Name == name {
			return &s.Entities[i], true
		}
	}
	return nil, false
}

// EntityNames returns entity names in schema iteration order.
func (s *Schema) EntityNames() []string {
	if s == nil {
		return nil
	}
	names := make([]string, len(s.Entities))
	for i, e := range s.Entities {
		names[i] = e.Name
	}
	return names
}

// jsonSchema / jsonEntity / jsonField mirror the canonical schema JSON
// shape: { entities: [ { name, relations?, fields?: { <name>: { type?,
// values? } } } ] }.
type jsonSchema struct {
	Entities []jsonEntity `json:"entities"`
}

type jsonEntity struct {
	Name      string               `json:"name"`
	Relations []string             `json:"relations,omitempty"`
	Fields    map[string]jsonField `json:"fields,omitempty"`
}

type jsonField struct {
	Type   FieldType `json:"type,omitempty"`
	Values []string  `json:"values,omitempty"`
}

// MarshalJSON encodes s in the canonical schema shape.
func (s *Schema) MarshalJSON() ([]byte, error) {
	js := jsonSchema{Entities: make([]jsonEntity, len(s.Entities))}
	for i, e := range s.Entities {
		je := jsonEntity{Name: e.Name, Relations: e.Relations}
		if len(e.FieldOrder) > 0 {
			je.Fields = make(map[string]jsonField, len(e.FieldOrder))
			for _, name := range e.FieldOrder {
				f := e.Fields[name]
				je.Fields[name] = jsonField{Type: f.Type, Values: f.Values}
			}
		}
		js.Entities[i] = je
	}
	return json.Marshal(js)
}

// UnmarshalJSON decodes s from the canonical schema shape, preserving
// field declaration order as it appears in the source JSON object.
func (s *Schema) UnmarshalJSON(data []byte) error {
	var raw struct {
		Entities []struct {
			Name      string          `json:"name"`
			Relations []string        `json:"relations"`
			Fields    json.RawMessage `json:"fields"`
		} `json:"entities"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	entities := make([]EntityDef, len(raw.Entities))
	for i, re := range raw.Entities {
		ed := EntityDef{Name: re.Name, Relations: re.Relations}
		if len(re.Fields) > 0 {
			order, fields, err := decodeOrderedFields(re.Fields)
			if err != nil {
				return err
			}
			ed.FieldOrder, ed.Fields = order, fields
		}
		entities[i] = ed
	}
	s.Entities = entities
	return nil
}

// decodeOrderedFields decodes a JSON object of field definitions while
// recovering the key order from the raw token stream, since
// encoding/map types do not preserve it.
func decodeOrderedFields(data []byte) ([]string, map[string]FieldDef, error) {
	dec := stdjson.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(stdjson.Delim); !ok || d != '{' {
		return nil, nil, errf(-1, "schema: fields must be a JSON object")
	}

	var order []string
	fields := make(map[string]FieldDef)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, _ := keyTok.(string)

		var jf jsonField
		if err := dec.Decode(&jf); err != nil {
			return nil, nil, err
		}
		order = append(order, key)
		fields[key] = FieldDef{Type: jf.Type, Values: jf.Values}
	}
	return order, fields, nil
}
