package rql

import (
	"strconv"

	"github.com/segmentio/encoding/json"
)

// ValueKind discriminates the three shapes a Condition comparison's value
// may take.
type ValueKind int

// Value kinds. ValueInt and ValueFloat both surface as "number" in the
// canonical JSON shape but are kept distinct internally so integer
// literals round-trip as integers instead of drifting into floats.
const (
	ValueString ValueKind = iota
	ValueInt
	ValueFloat
	ValueBool
)

// Value is a tagged union over string / integer / floating / boolean
// literals, the three (four, counting the int/float split) shapes a
// Comparison's value may take.
type Value struct {
	Kind ValueKind
	Str  string
	Int  int64
	Flt  float64
	Bool bool
}

// StringValue constructs a string Value.
func StringValue(s string) Value { return Value{Kind: ValueString, Str: s} }

// IntValue constructs an integer-typed number Value.
func IntValue(i int64) Value { return Value{Kind: ValueInt, Int: i} }

// FloatValue constructs a decimal-typed number Value.
func FloatValue(f float64) Value { return Value{Kind: ValueFloat, Flt: f} }

// BoolValue constructs a boolean Value.
func BoolValue(b bool) Value { return Value{Kind: ValueBool, Bool: b} }

// Render renders v in the plain-text literal form it would be parsed back
// from (quoting strings per the escape rules quoteString applies).
func (v Value) Render() string {
	switch v.Kind {
	case ValueString:
		return quoteString(v.Str)
	case ValueInt:
		return strconv.FormatInt(v.Int, 10)
	case ValueFloat:
		return strconv.FormatFloat(v.Flt, 'g', -1, 64)
	case ValueBool:
		return strconv.FormatBool(v.Bool)
	default:
		return ""
	}
}

// MarshalJSON encodes v as a bare JSON string, number, or bool.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case ValueString:
		return json.Marshal(v.Str)
	case ValueInt:
		return json.Marshal(v.Int)
	case ValueFloat:
		return json.Marshal(v.Flt)
	case ValueBool:
		return json.Marshal(v.Bool)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes v from a bare JSON string/number/bool. A number
// whose value is integral (18, but also 18.0 or 1e2) decodes as an integer
// Value; any other number decodes as a float Value.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case string:
		*v = StringValue(t)
	case bool:
		*v = BoolValue(t)
	case float64:
		if i := int64(t); float64(i) == t {
			*v = IntValue(i)
		} else {
			*v = FloatValue(t)
		}
	case json.Number:
		if i, err := t.Int64(); err == nil {
			*v = IntValue(i)
		} else if f, err := t.Float64(); err == nil {
			*v = FloatValue(f)
		}
	default:
		return errf(-1, "invalid value in where comparison")
	}
	return nil
}

// quoteString renders s as a double-quoted literal, escaping backslashes
// and quotes.
func quoteString(s string) string {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' || c == '\\' {
			out = append(out, '\\')
		}
		out = append(out, c)
	}
	out = append(out, '"')
	return string(out)
}
