package graph

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildBasicRelation(t *testing.T) {
	data := mustData(t, `{
		"users":[{"id":1,"name":"Alice"}],
		"orders":[{"id":10,"user_id":1},{"id":11,"user_id":1}]
	}`)

	g := NewBuilder(nil).Build(data)

	require.Len(t, g.Nodes, 3)
	require.Len(t, g.Edges, 2)
	assert.Equal(t, "orders:10", g.Edges[0].From)
	assert.Equal(t, "users:1", g.Edges[0].To)
	assert.Equal(t, "user_id", g.Edges[0].Field)

	assert.Equal(t, 2, g.Stats.TableCount)
	assert.Equal(t, 3, g.Stats.NodeCount)
	assert.Equal(t, 2, g.Stats.EdgeCount)
}

func TestBuildSelfReferenceFallsBackToOwnTable(t *testing.T) {
	// "manager" matches no table, so the field is assumed to point back into
	// its own table. Both nodes end up with one incident edge each.
	data := mustData(t, `{
		"users":[{"id":1,"name":"Alice"},{"id":2,"name":"Bob","manager_id":1}]
	}`)

	g := NewBuilder(nil).Build(data)

	require.Len(t, g.Nodes, 2)
	require.Len(t, g.Edges, 1)
	assert.Equal(t, "users:2", g.Edges[0].From)
	assert.Equal(t, "users:1", g.Edges[0].To)
	assert.Equal(t, g.Nodes[0].Radius, g.Nodes[1].Radius)
}

func TestBuildDanglingForeignKeyDropped(t *testing.T) {
	data := mustData(t, `{
		"users":[{"id":1,"name":"Alice"}],
		"orders":[{"id":10,"user_id":99}]
	}`)

	g := NewBuilder(nil).Build(data)

	assert.Len(t, g.Nodes, 2)
	assert.Empty(t, g.Edges)
}

func TestBuildSkipsEmptyTables(t *testing.T) {
	data := mustData(t, `{
		"ghosts":[],
		"users":[{"id":1,"name":"Alice"}]
	}`)

	g := NewBuilder(nil).Build(data)

	require.Len(t, g.Tables, 1)
	assert.Equal(t, "users", g.Tables[0].Name)
	require.Len(t, g.Groups, 1)
	assert.Equal(t, "users", g.Groups[0].Table)
	// Empty tables do not consume a palette slot either.
	assert.Equal(t, ColorFor(0), g.Tables[0].Color)
}

func TestBuildDeterministic(t *testing.T) {
	raw := `{
		"users":[{"id":1,"name":"Alice"},{"id":2,"name":"Bob"}],
		"orders":[{"id":10,"user_id":1,"b_id":2,"a_id":1}],
		"b":[{"id":2}],
		"a":[{"id":1}]
	}`

	first := NewBuilder(nil).Build(mustData(t, raw))
	second := NewBuilder(nil).Build(mustData(t, raw))

	assert.Equal(t, first, second)
}

func TestBuildRadiusMonotonicAndBounded(t *testing.T) {
	// One hub referenced by every spoke: its radius grows with degree but
	// never past the cap, and isolated nodes sit at the floor.
	var sb strings.Builder
	sb.WriteString(`{"hubs":[{"id":1}],"spokes":[`)
	for i := 0; i < 400; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, `{"id":%d,"hub_id":1}`, i+10)
	}
	sb.WriteString(`],"loners":[{"id":5}]}`)

	g := NewBuilder(nil).Build(mustData(t, sb.String()))

	hub := g.NodeByID("hubs:1")
	require.NotNil(t, hub)
	spoke := g.NodeByID("spokes:10")
	require.NotNil(t, spoke)
	loner := g.NodeByID("loners:5")
	require.NotNil(t, loner)

	assert.Greater(t, hub.Radius, spoke.Radius)
	assert.Greater(t, spoke.Radius, loner.Radius)
	assert.Equal(t, radiusFloor, loner.Radius)
	assert.LessOrEqual(t, hub.Radius, radiusCap)
}

func TestBuildNodeLabels(t *testing.T) {
	data := mustData(t, `{
		"users":[
			{"id":1,"name":"Alice"},
			{"id":2,"name":"A very long display name that keeps going"},
			{"id":3}
		]
	}`)

	g := NewBuilder(nil).Build(data)

	assert.Equal(t, "Alice", g.Nodes[0].Label)
	long := g.Nodes[1].Label
	assert.LessOrEqual(t, len([]rune(long)), labelMaxLen)
	assert.True(t, strings.HasSuffix(long, "…"))
	// No name value: fall back to the record id.
	assert.Equal(t, "3", g.Nodes[2].Label)
}

func TestBuildTableLabels(t *testing.T) {
	data := mustData(t, `{
		"line_items":[{"id":1}],
		"user profiles":[{"id":2}]
	}`)

	g := NewBuilder(nil).Build(data)

	require.Len(t, g.Tables, 2)
	assert.Equal(t, "Line Items", g.Tables[0].Label)
	assert.Equal(t, "User Profiles", g.Tables[1].Label)
}

func TestBuildGroupsCarryMembership(t *testing.T) {
	data := mustData(t, `{
		"users":[{"id":1},{"id":2}],
		"orders":[{"id":10,"user_id":1}]
	}`)

	g := NewBuilder(nil).Build(data)

	require.Len(t, g.Groups, 2)
	users := g.Groups[0]
	assert.Equal(t, "users", users.Table)
	assert.Equal(t, 2, users.Count)
	assert.Equal(t, []string{"users:1", "users:2"}, users.NodeIDs)
}

func TestNodeByID(t *testing.T) {
	data := mustData(t, `{"users":[{"id":1,"name":"Alice"}]}`)
	g := NewBuilder(nil).Build(data)

	require.NotNil(t, g.NodeByID("users:1"))
	assert.Nil(t, g.NodeByID("users:404"))
}
