package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drippinrizz/xano-db-visualizer/api/schemas"
)

func TestBuildTooltipBasic(t *testing.T) {
	g := &schemas.VisualGraph{
		Tables: []schemas.TableInfo{{Name: "users", Label: "Users"}},
	}
	n := &schemas.Node{
		ID:    "users:1",
		Table: "users",
		Label: "Alice",
		Record: schemas.Record{
			"id":     float64(1),
			"name":   "Alice",
			"active": true,
			"score":  4.5,
			"note":   nil,
		},
	}

	tip := BuildTooltip(g, n)

	assert.Equal(t, "Users", tip.Type)
	assert.Equal(t, "Alice", tip.Label)

	// Fields come back sorted by name.
	names := make([]string, 0, len(tip.Fields))
	values := map[string]string{}
	for _, f := range tip.Fields {
		names = append(names, f.Name)
		values[f.Name] = f.Value
	}
	assert.Equal(t, []string{"active", "id", "name", "note", "score"}, names)
	assert.Equal(t, "true", values["active"])
	assert.Equal(t, "1", values["id"])
	assert.Equal(t, "4.5", values["score"])
	assert.Equal(t, "—", values["note"])
}

func TestBuildTooltipElidesSensitiveFields(t *testing.T) {
	g := &schemas.VisualGraph{}
	n := &schemas.Node{
		Table: "documents",
		Record: schemas.Record{
			"id":             float64(1),
			"text_embedding": []any{0.1, 0.2},
			"metadata":       map[string]any{"k": "v"},
			"auth_token":     "abc",
			"api_key":        "xyz",
			"user_password":  "hunter2",
			"title":          "Report",
		},
	}

	tip := BuildTooltip(g, n)

	require.Len(t, tip.Fields, 2)
	assert.Equal(t, "id", tip.Fields[0].Name)
	assert.Equal(t, "title", tip.Fields[1].Name)
}

func TestBuildTooltipFallsBackToTableName(t *testing.T) {
	// Table metadata missing: the raw table name stands in for the type.
	g := &schemas.VisualGraph{}
	n := &schemas.Node{Table: "orders", Label: "10", Record: schemas.Record{"id": float64(10)}}

	tip := BuildTooltip(g, n)
	assert.Equal(t, "orders", tip.Type)
}

func TestFormatTooltipValueTruncatesLongStrings(t *testing.T) {
	long := strings.Repeat("é", 100)
	got := formatTooltipValue(long)
	assert.Equal(t, tooltipValueMaxLen, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "…"))
}
