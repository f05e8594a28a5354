package render

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drippinrizz/xano-db-visualizer/api/schemas"
	"github.com/drippinrizz/xano-db-visualizer/internal/graph"
	"github.com/drippinrizz/xano-db-visualizer/internal/layout"
)

// laidOutGraph builds and positions a small two-table graph for interaction
// tests.
func laidOutGraph(t *testing.T) *schemas.VisualGraph {
	t.Helper()
	raw := `{
		"users":[{"id":1,"name":"Alice"},{"id":2,"name":"Bob"}],
		"orders":[{"id":10,"user_id":1}]
	}`
	var data schemas.GraphData
	require.NoError(t, json.Unmarshal([]byte(raw), &data))
	g := graph.NewBuilder(nil).Build(&data)
	layout.Run(g, layout.DefaultConfig())
	return g
}

func newTestViewport() *Viewport {
	return NewViewport(800, 600, DefaultViewportConfig())
}

func TestViewportStartsIdleCentered(t *testing.T) {
	v := newTestViewport()
	assert.Equal(t, ModeIdle, v.Mode())
	assert.Equal(t, 1.0, v.Zoom)

	// World origin maps to the screen center.
	sx, sy := v.WorldToScreen(0, 0)
	assert.Equal(t, 400.0, sx)
	assert.Equal(t, 300.0, sy)
}

func TestScreenToWorldInvertsWorldToScreen(t *testing.T) {
	v := newTestViewport()
	v.Wheel(3, 120, 90)
	v.PanX += 37

	sx, sy := v.WorldToScreen(12.5, -44)
	wx, wy := v.ScreenToWorld(sx, sy)
	assert.InDelta(t, 12.5, wx, 1e-9)
	assert.InDelta(t, -44, wy, 1e-9)
}

func TestWheelZoomClampsAtBounds(t *testing.T) {
	v := newTestViewport()
	cfg := DefaultViewportConfig()

	for i := 0; i < 200; i++ {
		v.Wheel(1, 400, 300)
	}
	assert.Equal(t, cfg.MaxZoom, v.Zoom)

	for i := 0; i < 400; i++ {
		v.Wheel(-1, 400, 300)
	}
	assert.Equal(t, cfg.MinZoom, v.Zoom)
}

func TestWheelAnchorsCursor(t *testing.T) {
	v := newTestViewport()

	// The world point under the cursor must not move across a zoom step.
	wx, wy := v.ScreenToWorld(150, 450)
	v.Wheel(2, 150, 450)
	sx, sy := v.WorldToScreen(wx, wy)
	assert.InDelta(t, 150, sx, 1e-9)
	assert.InDelta(t, 450, sy, 1e-9)
}

func TestDragPansCamera(t *testing.T) {
	v := newTestViewport()
	g := laidOutGraph(t)

	v.PointerDown(100, 100)
	assert.Equal(t, ModeDragging, v.Mode())

	v.PointerMove(130, 80, g)
	assert.Equal(t, 430.0, v.PanX)
	assert.Equal(t, 280.0, v.PanY)

	v.PointerMove(140, 85, g)
	assert.Equal(t, 440.0, v.PanX)
	assert.Equal(t, 285.0, v.PanY)

	v.PointerUp(140, 85, g)
	assert.Equal(t, ModeIdle, v.Mode())
}

func TestClickOnClusterLabelZooms(t *testing.T) {
	v := newTestViewport()
	g := laidOutGraph(t)

	// Place the pointer on the first group's label and release without
	// moving: that is a click, and it starts a zoom animation.
	grp := &g.Groups[0]
	lx, ly := v.WorldToScreen(grp.X, grp.Y-grp.Radius)
	v.PointerDown(lx, ly)
	v.PointerUp(lx, ly, g)
	assert.Equal(t, ModeAnimating, v.Mode())
}

func TestDragPastThresholdIsNotAClick(t *testing.T) {
	v := newTestViewport()
	g := laidOutGraph(t)

	grp := &g.Groups[0]
	lx, ly := v.WorldToScreen(grp.X, grp.Y-grp.Radius)
	v.PointerDown(lx-10, ly)
	v.PointerMove(lx, ly, g)
	v.PointerUp(lx, ly, g)
	assert.Equal(t, ModeIdle, v.Mode())
}

func TestHoverTracksNodeUnderPointer(t *testing.T) {
	v := newTestViewport()
	g := laidOutGraph(t)

	n := g.NodeByID("users:1")
	require.NotNil(t, n)
	sx, sy := v.WorldToScreen(n.X, n.Y)

	v.PointerMove(sx, sy, g)
	assert.Equal(t, "users:1", v.Hover())

	v.PointerMove(sx+500, sy+500, g)
	assert.Equal(t, "", v.Hover())
}

func TestHitTestSkipsDimmedNodes(t *testing.T) {
	v := newTestViewport()
	g := laidOutGraph(t)

	n := g.NodeByID("users:1")
	require.NotNil(t, n)
	sx, sy := v.WorldToScreen(n.X, n.Y)
	require.NotNil(t, v.HitTestNode(g, sx, sy))

	// Filter to the other table: the node dims and stops being hoverable.
	v.LegendClick("orders")
	assert.Nil(t, v.HitTestNode(g, sx, sy))
}

func TestLegendFilterIsExclusive(t *testing.T) {
	v := newTestViewport()

	v.LegendClick("users")
	assert.Equal(t, "users", v.Filter())

	// Selecting a second table replaces the first.
	v.LegendClick("orders")
	assert.Equal(t, "orders", v.Filter())

	// Selecting the active table clears the filter.
	v.LegendClick("orders")
	assert.Equal(t, "", v.Filter())
}

func TestNodeVisibilityUnderFilterAndSearch(t *testing.T) {
	v := newTestViewport()
	cfg := DefaultViewportConfig()
	g := laidOutGraph(t)

	alice := g.NodeByID("users:1")
	order := g.NodeByID("orders:10")
	require.NotNil(t, alice)
	require.NotNil(t, order)

	assert.Equal(t, 1.0, v.NodeVisibility(alice))

	v.LegendClick("users")
	assert.Equal(t, 1.0, v.NodeVisibility(alice))
	assert.Equal(t, cfg.DimOpacity, v.NodeVisibility(order))

	// A search miss dims below the filter weight.
	v.SetSearch("  ALICE ")
	assert.Equal(t, "alice", v.Search())
	assert.Equal(t, 1.0, v.NodeVisibility(alice))
	assert.Equal(t, cfg.SearchOpacity, v.NodeVisibility(order))

	// Search matches the table name too.
	v.SetSearch("ord")
	assert.Equal(t, cfg.SearchOpacity, v.NodeVisibility(alice))
	assert.Equal(t, cfg.DimOpacity, v.NodeVisibility(order))
}

func TestEdgeVisibilityIsMinOfEndpoints(t *testing.T) {
	v := newTestViewport()
	cfg := DefaultViewportConfig()
	g := laidOutGraph(t)
	require.NotEmpty(t, g.Edges)

	assert.Equal(t, 1.0, v.EdgeVisibility(g, &g.Edges[0]))

	v.LegendClick("users")
	assert.Equal(t, cfg.DimOpacity, v.EdgeVisibility(g, &g.Edges[0]))
}

func TestKeyResetClearsFilterSearchHover(t *testing.T) {
	v := newTestViewport()
	g := laidOutGraph(t)

	v.LegendClick("users")
	v.SetSearch("alice")
	n := g.NodeByID("users:1")
	sx, sy := v.WorldToScreen(n.X, n.Y)
	v.PointerMove(sx, sy, g)

	panX, zoom := v.PanX, v.Zoom
	v.KeyReset()
	assert.Equal(t, "", v.Filter())
	assert.Equal(t, "", v.Search())
	assert.Equal(t, "", v.Hover())
	// The camera stays put.
	assert.Equal(t, panX, v.PanX)
	assert.Equal(t, zoom, v.Zoom)
}

func TestFitToViewAnimatesToFrameEverything(t *testing.T) {
	v := newTestViewport()
	g := laidOutGraph(t)

	v.KeyFit(g)
	assert.Equal(t, ModeAnimating, v.Mode())

	steps := 0
	for v.StepAnimation() {
		steps++
		require.Less(t, steps, 10000, "animation must converge")
	}
	assert.Equal(t, ModeIdle, v.Mode())

	// Every group's bounds land inside the screen.
	for _, grp := range g.Groups {
		for _, corner := range [][2]float64{
			{grp.X - grp.Radius, grp.Y - grp.Radius},
			{grp.X + grp.Radius, grp.Y + grp.Radius},
		} {
			sx, sy := v.WorldToScreen(corner[0], corner[1])
			assert.GreaterOrEqual(t, sx, 0.0)
			assert.GreaterOrEqual(t, sy, 0.0)
			assert.LessOrEqual(t, sx, v.Width)
			assert.LessOrEqual(t, sy, v.Height)
		}
	}
}

func TestZoomToClusterCentersGroup(t *testing.T) {
	v := newTestViewport()
	g := laidOutGraph(t)

	grp := &g.Groups[1]
	v.ZoomToCluster(grp)
	for v.StepAnimation() {
	}

	sx, sy := v.WorldToScreen(grp.X, grp.Y)
	assert.InDelta(t, v.Width/2, sx, 1.0)
	assert.InDelta(t, v.Height/2, sy, 1.0)
}

func TestPointerDownAbandonsAnimation(t *testing.T) {
	v := newTestViewport()
	g := laidOutGraph(t)

	v.FitToView(g)
	require.Equal(t, ModeAnimating, v.Mode())

	v.PointerDown(10, 10)
	assert.Equal(t, ModeDragging, v.Mode())
	// No further animation steps run.
	assert.False(t, v.StepAnimation())
}

func TestDoubleClickFits(t *testing.T) {
	v := newTestViewport()
	g := laidOutGraph(t)

	v.DoubleClick(g)
	assert.Equal(t, ModeAnimating, v.Mode())
}

func TestLegendDoubleClickZoomsToCluster(t *testing.T) {
	v := newTestViewport()
	g := laidOutGraph(t)

	v.LegendDoubleClick("orders", g)
	assert.Equal(t, ModeAnimating, v.Mode())

	// Unknown table: nothing happens.
	v2 := newTestViewport()
	v2.LegendDoubleClick("nope", g)
	assert.Equal(t, ModeIdle, v2.Mode())
}

func TestHitTestNodeUsesMinimumRadius(t *testing.T) {
	v := newTestViewport()
	g := &schemas.VisualGraph{
		Nodes: []schemas.Node{{ID: "users:1", Table: "users", Radius: 8}},
	}

	// Zoomed far out a node still presents at least a 4px target.
	v.Zoom = DefaultViewportConfig().MinZoom
	sx, sy := v.WorldToScreen(0, 0)
	hit := v.HitTestNode(g, sx+3.9, sy)
	require.NotNil(t, hit)
	assert.Equal(t, "users:1", hit.ID)
	assert.Nil(t, v.HitTestNode(g, sx+4.1, sy))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.5, clamp(0.5, 0, 1))
	assert.Equal(t, 0.0, clamp(-2, 0, 1))
	assert.Equal(t, 1.0, clamp(math.Inf(1), 0, 1))
}
