package rql_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/reflog-io/rql"
)

// yamlFixtureSchema mirrors testdata/schema.yaml's shape, kept separate
// from rql.Schema's canonical JSON representation: schema loading is an
// external collaborator's concern, not the core's.
type yamlFixtureSchema struct {
	Entities []yamlFixtureEntity `yaml:"entities"`
}

type yamlFixtureEntity struct {
	Name      string             `yaml:"name"`
	Relations []string           `yaml:"relations"`
	Fields    []yamlFixtureField `yaml:"fields"`
}

type yamlFixtureField struct {
	Name   string   `yaml:"name"`
	Type   string   `yaml:"type"`
	Values []string `yaml:"values"`
}

// loadFixtureSchema reads a YAML fixture at path and converts it into a
// rql.Schema, preserving field declaration order.
func loadFixtureSchema(t *testing.T, path string) *rql.Schema {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var yf yamlFixtureSchema
	require.NoError(t, yaml.Unmarshal(data, &yf))

	schema := &rql.Schema{Entities: make([]rql.EntityDef, len(yf.Entities))}
	for i, ye := range yf.Entities {
		ed := rql.EntityDef{
			Name:      ye.Name,
			Relations: ye.Relations,
			Fields:    make(map[string]rql.FieldDef, len(ye.Fields)),
		}
		for _, yfld := range ye.Fields {
			ed.FieldOrder = append(ed.FieldOrder, yfld.Name)
			ed.Fields[yfld.Name] = rql.FieldDef{Type: rql.FieldType(yfld.Type), Values: yfld.Values}
		}
		schema.Entities[i] = ed
	}
	return schema
}
