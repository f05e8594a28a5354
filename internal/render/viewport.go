package render

import (
	"math"
	"strings"

	"github.com/drippinrizz/xano-db-visualizer/api/schemas"
)

// Mode is the viewport interaction state.
type Mode int

const (
	ModeIdle Mode = iota
	ModeDragging
	ModeAnimating
)

// ViewportConfig holds the interaction tuning constants.
type ViewportConfig struct {
	MinZoom        float64
	MaxZoom        float64
	WheelFactor    float64 // zoom multiplier per wheel notch
	ClickThreshold float64 // max pointer travel in px for a release to count as a click
	AnimEase       float64 // fraction of remaining distance covered per frame
	AnimEpsilon    float64 // distance below which an animation snaps to its target
	FitMargin      float64 // fraction of the viewport left free when fitting
	DimOpacity     float64 // opacity weight for filtered-out nodes
	SearchOpacity  float64 // opacity weight for search misses
}

// DefaultViewportConfig returns the interaction tuning the visualizer ships
// with.
func DefaultViewportConfig() ViewportConfig {
	return ViewportConfig{
		MinZoom:        0.05,
		MaxZoom:        5.0,
		WheelFactor:    1.1,
		ClickThreshold: 4,
		AnimEase:       0.18,
		AnimEpsilon:    0.5,
		FitMargin:      0.12,
		DimOpacity:     0.15,
		SearchOpacity:  0.08,
	}
}

// Viewport is the explicit owned state object for camera and interaction:
// pan offset, zoom scalar, interaction mode, hover, the exclusive table
// filter and the search term. All mutation happens through its methods on a
// single goroutine; nothing here is safe for concurrent use and nothing
// needs to be, since the host event loop owns it exclusively.
type Viewport struct {
	Width  float64
	Height float64

	PanX float64
	PanY float64
	Zoom float64

	cfg    ViewportConfig
	mode   Mode
	hover  string // hovered node ID, "" when none
	filter string // active table filter, "" when inactive
	search string

	pressX, pressY float64
	lastX, lastY   float64

	targetPanX, targetPanY, targetZoom float64
}

// NewViewport returns an idle viewport at zoom 1 centered on the origin.
func NewViewport(width, height float64, cfg ViewportConfig) *Viewport {
	return &Viewport{
		Width:  width,
		Height: height,
		PanX:   width / 2,
		PanY:   height / 2,
		Zoom:   1,
		cfg:    cfg,
	}
}

func (v *Viewport) Mode() Mode     { return v.mode }
func (v *Viewport) Hover() string  { return v.hover }
func (v *Viewport) Filter() string { return v.filter }
func (v *Viewport) Search() string { return v.search }

// WorldToScreen applies the camera transform.
func (v *Viewport) WorldToScreen(x, y float64) (float64, float64) {
	return x*v.Zoom + v.PanX, y*v.Zoom + v.PanY
}

// ScreenToWorld inverts the camera transform.
func (v *Viewport) ScreenToWorld(x, y float64) (float64, float64) {
	return (x - v.PanX) / v.Zoom, (y - v.PanY) / v.Zoom
}

// -- Pointer Transitions --

// PointerDown begins a drag. Any in-flight animation is abandoned; its
// target is simply forgotten.
func (v *Viewport) PointerDown(x, y float64) {
	v.mode = ModeDragging
	v.pressX, v.pressY = x, y
	v.lastX, v.lastY = x, y
}

// PointerMove pans while dragging, otherwise updates hover from hit-testing.
func (v *Viewport) PointerMove(x, y float64, g *schemas.VisualGraph) {
	if v.mode == ModeDragging {
		v.PanX += x - v.lastX
		v.PanY += y - v.lastY
		v.lastX, v.lastY = x, y
		return
	}
	if n := v.HitTestNode(g, x, y); n != nil {
		v.hover = n.ID
	} else {
		v.hover = ""
	}
}

// PointerUp ends a drag. A release that moved less than the click threshold
// counts as a click; a click landing on a cluster label zooms to that
// cluster.
func (v *Viewport) PointerUp(x, y float64, g *schemas.VisualGraph) {
	if v.mode != ModeDragging {
		return
	}
	v.mode = ModeIdle
	if math.Hypot(x-v.pressX, y-v.pressY) >= v.cfg.ClickThreshold {
		return
	}
	if grp := v.HitTestClusterLabel(g, x, y); grp != nil {
		v.ZoomToCluster(grp)
	}
}

// DoubleClick fits the whole graph into view.
func (v *Viewport) DoubleClick(g *schemas.VisualGraph) {
	v.FitToView(g)
}

// -- Legend Transitions --

// LegendClick toggles the exclusive table filter: selecting a second table
// replaces the first, selecting the active table clears the filter.
// Filtering only affects visibility weighting; nodes and edges stay in the
// simulation.
func (v *Viewport) LegendClick(table string) {
	if v.filter == table {
		v.filter = ""
	} else {
		v.filter = table
	}
}

// LegendDoubleClick zooms to the table's cluster.
func (v *Viewport) LegendDoubleClick(table string, g *schemas.VisualGraph) {
	for i := range g.Groups {
		if g.Groups[i].Table == table {
			v.ZoomToCluster(&g.Groups[i])
			return
		}
	}
}

// -- Keyboard Transitions --

// KeyFit is the keyboard equivalent of double-click: fit all to view.
func (v *Viewport) KeyFit(g *schemas.VisualGraph) {
	v.FitToView(g)
}

// KeyReset clears the active filter and search term and resets highlight
// state. The camera is left where it is.
func (v *Viewport) KeyReset() {
	v.filter = ""
	v.search = ""
	v.hover = ""
}

// SetSearch narrows visibility to nodes whose label or table name contains
// the given substring, case-insensitively. Empty shows all.
func (v *Viewport) SetSearch(q string) {
	v.search = strings.ToLower(strings.TrimSpace(q))
}

// -- Zoom --

// Wheel multiplies zoom by the configured factor per notch (positive notches
// zoom in), clamped to the configured bounds, keeping the world point under
// the cursor fixed.
func (v *Viewport) Wheel(notches float64, cursorX, cursorY float64) {
	wx, wy := v.ScreenToWorld(cursorX, cursorY)
	zoom := v.Zoom * math.Pow(v.cfg.WheelFactor, notches)
	v.Zoom = clamp(zoom, v.cfg.MinZoom, v.cfg.MaxZoom)
	// Recenter so the point under the cursor stays put.
	v.PanX = cursorX - wx*v.Zoom
	v.PanY = cursorY - wy*v.Zoom
}

// ZoomToCluster starts an animation toward a camera framing the group.
func (v *Viewport) ZoomToCluster(grp *schemas.Group) {
	zoom := clamp(
		math.Min(v.Width, v.Height)*(1-v.cfg.FitMargin)/(2*grp.Radius),
		v.cfg.MinZoom, v.cfg.MaxZoom,
	)
	v.animateTo(v.Width/2-grp.X*zoom, v.Height/2-grp.Y*zoom, zoom)
}

// FitToView starts an animation framing every group.
func (v *Viewport) FitToView(g *schemas.VisualGraph) {
	if len(g.Groups) == 0 {
		return
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, grp := range g.Groups {
		minX = math.Min(minX, grp.X-grp.Radius)
		minY = math.Min(minY, grp.Y-grp.Radius)
		maxX = math.Max(maxX, grp.X+grp.Radius)
		maxY = math.Max(maxY, grp.Y+grp.Radius)
	}
	spanX := math.Max(maxX-minX, 1)
	spanY := math.Max(maxY-minY, 1)
	zoom := clamp(
		math.Min(v.Width/spanX, v.Height/spanY)*(1-v.cfg.FitMargin),
		v.cfg.MinZoom, v.cfg.MaxZoom,
	)
	cx := (minX + maxX) / 2
	cy := (minY + maxY) / 2
	v.animateTo(v.Width/2-cx*zoom, v.Height/2-cy*zoom, zoom)
}

// animateTo enters the animating state. A new target simply replaces the
// previous one; nothing is cancelled.
func (v *Viewport) animateTo(panX, panY, zoom float64) {
	v.targetPanX = panX
	v.targetPanY = panY
	v.targetZoom = zoom
	v.mode = ModeAnimating
}

// StepAnimation advances one frame of the animating state: pan and zoom ease
// toward the target by exponential decay. Returns true while still
// animating; once within epsilon the camera snaps to the target and the
// viewport returns to idle.
func (v *Viewport) StepAnimation() bool {
	if v.mode != ModeAnimating {
		return false
	}
	v.PanX += (v.targetPanX - v.PanX) * v.cfg.AnimEase
	v.PanY += (v.targetPanY - v.PanY) * v.cfg.AnimEase
	v.Zoom += (v.targetZoom - v.Zoom) * v.cfg.AnimEase

	if math.Abs(v.targetPanX-v.PanX) < v.cfg.AnimEpsilon &&
		math.Abs(v.targetPanY-v.PanY) < v.cfg.AnimEpsilon &&
		math.Abs(v.targetZoom-v.Zoom) < v.cfg.AnimEpsilon/100 {
		v.PanX, v.PanY, v.Zoom = v.targetPanX, v.targetPanY, v.targetZoom
		v.mode = ModeIdle
		return false
	}
	return true
}

// -- Visibility & Hit-Testing --

// NodeVisibility returns the node's opacity weight under the active filter
// and search term: 1 for fully visible, reduced when filtered out or missed
// by the search. Nodes are never removed, only dimmed.
func (v *Viewport) NodeVisibility(n *schemas.Node) float64 {
	vis := 1.0
	if v.filter != "" && n.Table != v.filter {
		vis = v.cfg.DimOpacity
	}
	if v.search != "" && !v.matchesSearch(n) {
		vis = math.Min(vis, v.cfg.SearchOpacity)
	}
	return vis
}

// EdgeVisibility is the lesser of the endpoint visibilities.
func (v *Viewport) EdgeVisibility(g *schemas.VisualGraph, e *schemas.Edge) float64 {
	from := g.NodeByID(e.From)
	to := g.NodeByID(e.To)
	if from == nil || to == nil {
		return 0
	}
	return math.Min(v.NodeVisibility(from), v.NodeVisibility(to))
}

func (v *Viewport) matchesSearch(n *schemas.Node) bool {
	return strings.Contains(strings.ToLower(n.Label), v.search) ||
		strings.Contains(strings.ToLower(n.Table), v.search)
}

// HitTestNode returns the topmost fully visible node under the screen
// point, or nil. Dimmed nodes are not reachable: hit-testing respects
// visibility so a filtered-out node cannot be hovered through the dimming.
func (v *Viewport) HitTestNode(g *schemas.VisualGraph, screenX, screenY float64) *schemas.Node {
	if g == nil {
		return nil
	}
	// Later nodes draw on top, so scan back to front.
	for i := len(g.Nodes) - 1; i >= 0; i-- {
		n := &g.Nodes[i]
		if v.NodeVisibility(n) < 1 {
			continue
		}
		sx, sy := v.WorldToScreen(n.X, n.Y)
		r := math.Max(n.Radius*v.Zoom, 4)
		if math.Hypot(screenX-sx, screenY-sy) <= r {
			return n
		}
	}
	return nil
}

// Cluster label hit target dimensions, screen px.
const (
	clusterLabelHitW = 120.0
	clusterLabelHitH = 26.0
)

// HitTestClusterLabel returns the group whose label box contains the screen
// point, or nil. Labels sit above each group's boundary circle.
func (v *Viewport) HitTestClusterLabel(g *schemas.VisualGraph, screenX, screenY float64) *schemas.Group {
	if g == nil {
		return nil
	}
	for i := range g.Groups {
		grp := &g.Groups[i]
		lx, ly := v.WorldToScreen(grp.X, grp.Y-grp.Radius)
		if math.Abs(screenX-lx) <= clusterLabelHitW/2 && math.Abs(screenY-ly) <= clusterLabelHitH/2 {
			return grp
		}
	}
	return nil
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
