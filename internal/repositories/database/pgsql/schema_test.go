package pgsql_test

import (
	"os"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The repositories encode and scan typed Go values against these columns, so
// the declared SQL types have to line up with the model field types.
func TestSchemaColumnTypesMatchModels(t *testing.T) {
	schema, err := os.ReadFile("../../../../migrations/000001_create_initial_schema.up.sql")
	require.NoError(t, err)

	edgesTable := extractTable(t, string(schema), "approval_flow_edges")

	// FlowEdge.Branch is *bool; pgx cannot plan a bool against a varchar column.
	assert.Regexp(t, `branch\s+BOOLEAN`, edgesTable)
	assert.NotRegexp(t, `branch\s+VARCHAR`, edgesTable)

	nodesTable := extractTable(t, string(schema), "approval_flow_nodes")
	assert.Regexp(t, `condition_threshold\s+NUMERIC`, nodesTable)
}

func extractTable(t *testing.T, schema, table string) string {
	t.Helper()
	re := regexp.MustCompile(`(?s)CREATE TABLE ` + table + ` \((.*?)\);`)
	m := re.FindStringSubmatch(schema)
	require.NotNil(t, m, "table %s not found in schema", table)
	return m[1]
}
