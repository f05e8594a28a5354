package render

import (
	"fmt"
	"math"

	"github.com/drippinrizz/xano-db-visualizer/api/schemas"
)

// SceneConfig holds drawing thresholds and styling constants.
type SceneConfig struct {
	Background     string
	GridColor      string
	GridSpacing    float64 // world units between grid lines
	GridZoom       float64 // grid appears above this zoom
	LabelZoom      float64 // node labels appear above this zoom
	DetailZoom     float64 // extra node detail appears above this zoom
	EdgeSameColor  string  // same-table edges
	EdgeCrossColor string  // cross-table edges
	HighlightColor string
	TextColor      string
}

// DefaultSceneConfig returns the styling the visualizer ships with.
func DefaultSceneConfig() SceneConfig {
	return SceneConfig{
		Background:     "#0d1117",
		GridColor:      "#21262d",
		GridSpacing:    100,
		GridZoom:       1.4,
		LabelZoom:      0.9,
		DetailZoom:     2.2,
		EdgeSameColor:  "#8b949e",
		EdgeCrossColor: "#58a6ff",
		HighlightColor: "#f0f6fc",
		TextColor:      "#c9d1d9",
	}
}

// Status is the on-screen summary line.
type Status struct {
	VisibleTables int
	Nodes         int
	Edges         int
	Zoom          float64
}

// String renders the status line text.
func (s Status) String() string {
	return fmt.Sprintf("%d tables · %d nodes · %d edges · %.0f%%",
		s.VisibleTables, s.Nodes, s.Edges, s.Zoom*100)
}

// LegendEntry is one clickable legend row: color swatch, label and record
// count for a non-empty table.
type LegendEntry struct {
	Table string
	Label string
	Color string
	Count int
}

// Legend lists one entry per table of the built graph. Empty tables never
// reach the graph, so they never reach the legend either.
func Legend(g *schemas.VisualGraph) []LegendEntry {
	entries := make([]LegendEntry, 0, len(g.Tables))
	for _, t := range g.Tables {
		entries = append(entries, LegendEntry{
			Table: t.Name,
			Label: t.Label,
			Color: t.Color,
			Count: t.RecordCount,
		})
	}
	return entries
}

// Scene draws frames of a graph through a Canvas. A frame is drawn on every
// state change rather than on a fixed clock.
type Scene struct {
	cfg SceneConfig
}

// NewScene returns a Scene with the given styling.
func NewScene(cfg SceneConfig) *Scene {
	return &Scene{cfg: cfg}
}

// Render draws one full frame: background, world grid when zoomed in,
// group halos and boundaries, edges, nodes, then labels. Returns the status
// summary for the frame.
func (s *Scene) Render(c Canvas, g *schemas.VisualGraph, v *Viewport) Status {
	c.Clear(v.Width, v.Height, s.cfg.Background)
	if g == nil {
		return Status{Zoom: v.Zoom}
	}

	index := make(map[string]*schemas.Node, len(g.Nodes))
	for i := range g.Nodes {
		index[g.Nodes[i].ID] = &g.Nodes[i]
	}

	if v.Zoom > s.cfg.GridZoom {
		s.drawGrid(c, v)
	}
	s.drawGroups(c, g, v)
	s.drawEdges(c, g, v, index)
	s.drawNodes(c, g, v)
	if v.Zoom > s.cfg.LabelZoom {
		s.drawNodeLabels(c, g, v)
	}

	return s.status(g, v)
}

// drawGrid draws faint world-space grid lines across the visible region.
func (s *Scene) drawGrid(c Canvas, v *Viewport) {
	stroke := Stroke{Color: s.cfg.GridColor, Opacity: 0.5, Width: 1}
	x0, y0 := v.ScreenToWorld(0, 0)
	x1, y1 := v.ScreenToWorld(v.Width, v.Height)

	for x := math.Floor(x0/s.cfg.GridSpacing) * s.cfg.GridSpacing; x <= x1; x += s.cfg.GridSpacing {
		sx, _ := v.WorldToScreen(x, 0)
		c.Line(sx, 0, sx, v.Height, stroke)
	}
	for y := math.Floor(y0/s.cfg.GridSpacing) * s.cfg.GridSpacing; y <= y1; y += s.cfg.GridSpacing {
		_, sy := v.WorldToScreen(0, y)
		c.Line(0, sy, v.Width, sy, stroke)
	}
}

// drawGroups draws each group's clustering halo, dashed boundary circle and
// its label with the record count.
func (s *Scene) drawGroups(c Canvas, g *schemas.VisualGraph, v *Viewport) {
	for i := range g.Groups {
		grp := &g.Groups[i]
		cx, cy := v.WorldToScreen(grp.X, grp.Y)
		r := grp.Radius * v.Zoom

		c.Halo(cx, cy, r, grp.Color, 0.08)
		c.Circle(cx, cy, r, Fill{}, &Stroke{
			Color: grp.Color, Opacity: 0.35, Width: 1, Dashed: true,
		})

		lx, ly := v.WorldToScreen(grp.X, grp.Y-grp.Radius)
		c.Text(lx, ly-8, fmt.Sprintf("%s (%d)", grp.Label, grp.Count), TextStyle{
			Color: grp.Color, Opacity: 0.9, Size: 13, Bold: true, Center: true,
		})
	}
}

func (s *Scene) drawEdges(c Canvas, g *schemas.VisualGraph, v *Viewport, index map[string]*schemas.Node) {
	for i := range g.Edges {
		e := &g.Edges[i]
		from := index[e.From]
		to := index[e.To]
		if from == nil || to == nil {
			continue
		}

		vis := math.Min(v.NodeVisibility(from), v.NodeVisibility(to))
		color := s.cfg.EdgeCrossColor
		opacity := 0.45
		if from.Table == to.Table {
			color = s.cfg.EdgeSameColor
			opacity = 0.25
		}
		width := 1.0
		if v.Hover() == from.ID || v.Hover() == to.ID {
			color = s.cfg.HighlightColor
			opacity = 0.9
			width = 1.6
		}

		x1, y1 := v.WorldToScreen(from.X, from.Y)
		x2, y2 := v.WorldToScreen(to.X, to.Y)
		c.Line(x1, y1, x2, y2, Stroke{Color: color, Opacity: opacity * vis, Width: width})
	}
}

func (s *Scene) drawNodes(c Canvas, g *schemas.VisualGraph, v *Viewport) {
	for i := range g.Nodes {
		n := &g.Nodes[i]
		x, y := v.WorldToScreen(n.X, n.Y)
		r := n.Radius * v.Zoom

		var ring *Stroke
		if v.Hover() == n.ID {
			ring = &Stroke{Color: s.cfg.HighlightColor, Opacity: 1, Width: 2}
		}
		c.Circle(x, y, r, Fill{Color: n.Color, Opacity: v.NodeVisibility(n)}, ring)
	}
}

// drawNodeLabels draws labels for visible nodes; above the detail threshold
// the record id is appended.
func (s *Scene) drawNodeLabels(c Canvas, g *schemas.VisualGraph, v *Viewport) {
	detail := v.Zoom > s.cfg.DetailZoom
	for i := range g.Nodes {
		n := &g.Nodes[i]
		vis := v.NodeVisibility(n)
		if vis < 1 {
			continue
		}
		x, y := v.WorldToScreen(n.X, n.Y)
		label := n.Label
		if detail {
			label = fmt.Sprintf("%s · %s", n.Label, n.ID)
		}
		c.Text(x, y+n.Radius*v.Zoom+12, label, TextStyle{
			Color: s.cfg.TextColor, Opacity: 0.85 * vis, Size: 11, Center: true,
		})
	}
}

// status computes the on-screen summary: a table counts as visible when at
// least one of its nodes is fully visible under the active filter/search.
func (s *Scene) status(g *schemas.VisualGraph, v *Viewport) Status {
	visibleTables := make(map[string]bool)
	for i := range g.Nodes {
		if v.NodeVisibility(&g.Nodes[i]) >= 1 {
			visibleTables[g.Nodes[i].Table] = true
		}
	}
	return Status{
		VisibleTables: len(visibleTables),
		Nodes:         len(g.Nodes),
		Edges:         len(g.Edges),
		Zoom:          v.Zoom,
	}
}
