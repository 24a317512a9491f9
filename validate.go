package rql

import "strings"

// Validate checks tree's entity, include relations, and where-field
// references against schema.
//
// Unknown order fields are deliberately NOT checked: order field names
// are not validated against the schema, unlike where/include/entity.
func Validate(tree *QueryTree, schema *Schema) *ParseError {
	if schema == nil || tree == nil {
		return nil
	}

	if !tree.HasEntity {
		return nil
	}
	entity, ok := schema.Entity(tree.Entity)
	if !ok {
		return errf(-1, `Unknown entity %q. Known entities: %s`, tree.Entity, strings.Join(schema.EntityNames(), ", "))
	}

	for _, relName := range tree.IncludeOrder {
		if !entity.HasRelation(relName) {
			return errf(-1, `Unknown relation %q for entity %q. Known relations: %s`,
				relName, tree.Entity, strings.Join(entity.Relations, ", "))
		}
	}

	if tree.HasWhere && tree.Where != nil {
		if perr := validateWhereFields(tree.Where, tree.Entity, entity); perr != nil {
			return perr
		}
	}

	return nil
}

// validateWhereFields aggregates every unknown where-field into a single
// error, scanning the entire where tree rather than stopping at the first
// offender.
func validateWhereFields(where *Condition, entityName string, entity *EntityDef) *ParseError {
	var unknown []string
	seen := make(map[string]bool)
	for _, field := range where.Fields() {
		if _, ok := entity.Field(field); !ok && !seen[field] {
			seen[field] = true
			unknown = append(unknown, field)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	return errf(-1, `Unknown field(s) for entity %q: %s. Known fields: %s`,
		entityName, strings.Join(unknown, ", "), strings.Join(entity.FieldOrder, ", "))
}
