package rql

import "github.com/segmentio/encoding/json"

// Direction is an OrderTerm's sort direction.
type Direction string

// Recognized sort directions.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// OrderTerm is one field of an `order:` clause.
type OrderTerm struct {
	Field string
	Dir   Direction
}

// ConditionKind discriminates the three Condition shapes.
type ConditionKind int

// Condition kinds.
const (
	ConditionComparison ConditionKind = iota
	ConditionAnd
	ConditionOr
)

// Op is a where-clause comparison operator.
type Op string

// Recognized comparison operators, tried longest-first when lexing.
const (
	OpEq Op = "="
	OpNe Op = "!="
	OpLt Op = "<"
	OpGt Op = ">"
	OpLe Op = "<="
	OpGe Op = ">="
)

// Condition is a node of the where-expression tree: a tagged variant over
// Comparison / And / Or. Each node owns its children by value; there are
// no cycles and no shared ownership.
type Condition struct {
	Kind ConditionKind

	// Comparison fields (Kind == ConditionComparison).
	Field string
	CmpOp Op
	Value Value

	// Logical fields (Kind == ConditionAnd or ConditionOr). Always length
	// ≥ 2 after flattening.
	Children []Condition
}

// Comparison constructs a leaf Condition.
func Comparison(field string, op Op, value Value) Condition {
	return Condition{Kind: ConditionComparison, Field: field, CmpOp: op, Value: value}
}

// And constructs a logical-AND Condition. Callers normally reach this via
// the parser, which applies flattening; constructing one directly does not
// flatten nested And children.
func And(children ...Condition) Condition {
	return Condition{Kind: ConditionAnd, Children: children}
}

// Or constructs a logical-OR Condition. See And's note on flattening.
func Or(children ...Condition) Condition {
	return Condition{Kind: ConditionOr, Children: children}
}

// Fields returns every field name appearing anywhere in the condition
// tree, in left-to-right traversal order, including duplicates. Used by
// the validator to collect unknown-field errors.
func (c *Condition) Fields() []string {
	if c == nil {
		return nil
	}
	var out []string
	c.walkFields(&out)
	return out
}

func (c *Condition) walkFields(out *[]string) {
	switch c.Kind {
	case ConditionComparison:
		*out = append(*out, c.Field)
	case ConditionAnd, ConditionOr:
		for i := range c.Children {
			c.Children[i].walkFields(out)
		}
	}
}

// QueryTree is the canonical parsed shape of an RQL query. Every field is
// optional; HasX booleans distinguish "absent" from a present-but-zero-valued
// field (e.g. limit:0).
type QueryTree struct {
	Entity    string
	HasEntity bool

	Limit    int
	HasLimit bool

	Order []OrderTerm

	// Include preserves insertion order via IncludeOrder; all values are
	// true.
	IncludeOrder []string
	Include      map[string]bool

	Where    *Condition
	HasWhere bool
}

// jsonCondition is the canonical where-tree JSON shape:
// {field,op,value} | {and:[...]} | {or:[...]}.
type jsonCondition struct {
	Field string          `json:"field,omitempty"`
	Op    Op              `json:"op,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`
	And   []jsonCondition `json:"and,omitempty"`
	Or    []jsonCondition `json:"or,omitempty"`
}

func conditionToJSON(c *Condition) (jsonCondition, error) {
	switch c.Kind {
	case ConditionComparison:
		raw, err := c.Value.MarshalJSON()
		if err != nil {
			return jsonCondition{}, err
		}
		return jsonCondition{Field: c.Field, Op: c.CmpOp, Value: raw}, nil
	case ConditionAnd, ConditionOr:
		children := make([]jsonCondition, len(c.Children))
		for i := range c.Children {
			jc, err := conditionToJSON(&c.Children[i])
			if err != nil {
				return jsonCondition{}, err
			}
			children[i] = jc
		}
		if c.Kind == ConditionAnd {
			return jsonCondition{And: children}, nil
		}
		return jsonCondition{Or: children}, nil
	}
	return jsonCondition{}, errf(-1, "invalid condition kind")
}

func conditionFromJSON(jc jsonCondition) (Condition, error) {
	switch {
	case len(jc.And) > 0:
		children := make([]Condition, len(jc.And))
		for i, c := range jc.And {
			cond, err := conditionFromJSON(c)
			if err != nil {
				return Condition{}, err
			}
			children[i] = cond
		}
		return And(children...), nil
	case len(jc.Or) > 0:
		children := make([]Condition, len(jc.Or))
		for i, c := range jc.Or {
			cond, err := conditionFromJSON(c)
			if err != nil {
				return Condition{}, err
			}
			children[i] = cond
		}
		return Or(children...), nil
	default:
		var v Value
		if len(jc.Value) > 0 {
			if err := v.UnmarshalJSON(jc.Value); err != nil {
				return Condition{}, err
			}
		}
		return Comparison(jc.Field, jc.Op, v), nil
	}
}

// jsonQueryTree is the canonical JSON shape of a query tree.
type jsonQueryTree struct {
	Entity  string          `json:"entity,omitempty"`
	Limit   *int            `json:"limit,omitempty"`
	Order   []jsonOrderTerm `json:"order,omitempty"`
	Include json.RawMessage `json:"include,omitempty"`
	Where   *jsonCondition  `json:"where,omitempty"`
}

type jsonOrderTerm struct {
	Field string    `json:"field"`
	Dir   Direction `json:"dir"`
}

// MarshalJSON encodes t in the canonical query-tree shape.
func (t *QueryTree) MarshalJSON() ([]byte, error) {
	jt := jsonQueryTree{}
	if t.HasEntity {
		jt.Entity = t.Entity
	}
	if t.HasLimit {
		l := t.Limit
		jt.Limit = &l
	}
	for _, o := range t.Order {
		jt.Order = append(jt.Order, jsonOrderTerm{Field: o.Field, Dir: o.Dir})
	}
	if len(t.IncludeOrder) > 0 {
		// Written by hand so the object's key order follows IncludeOrder.
		inc := []byte{'{'}
		for i, k := range t.IncludeOrder {
			if i > 0 {
				inc = append(inc, ',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			inc = append(append(inc, kb...), ":true"...)
		}
		jt.Include = append(inc, '}')
	}
	if t.HasWhere && t.Where != nil {
		jc, err := conditionToJSON(t.Where)
		if err != nil {
			return nil, err
		}
		jt.Where = &jc
	}
	return json.Marshal(jt)
}

// UnmarshalJSON decodes t from the canonical query-tree shape. Include key
// order is recovered from the raw JSON object's token order.
func (t *QueryTree) UnmarshalJSON(data []byte) error {
	var raw struct {
		Entity  *string         `json:"entity"`
		Limit   *int            `json:"limit"`
		Order   []jsonOrderTerm `json:"order"`
		Include json.RawMessage `json:"include"`
		Where   *jsonCondition  `json:"where"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*t = QueryTree{}
	if raw.Entity != nil {
		t.Entity, t.HasEntity = *raw.Entity, true
	}
	if raw.Limit != nil {
		t.Limit, t.HasLimit = *raw.Limit, true
	}
	for _, o := range raw.Order {
		t.Order = append(t.Order, OrderTerm{Field: o.Field, Dir: o.Dir})
	}
	if len(raw.Include) > 0 {
		var keys []string
		var boolMap map[string]bool
		var err error
		keys, boolMap, err = decodeOrderedBoolKeys(raw.Include)
		if err != nil {
			return err
		}
		t.IncludeOrder, t.Include = keys, boolMap
	}
	if raw.Where != nil {
		cond, err := conditionFromJSON(*raw.Where)
		if err != nil {
			return err
		}
		t.Where, t.HasWhere = &cond, true
	}
	return nil
}
