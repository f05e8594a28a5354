// Package layout positions graph nodes with a fixed-iteration force
// simulation. The simulation is deterministic: initial placement is derived
// purely from table and record indices, no randomness is used anywhere, so
// identical input order always yields identical positions. It is also
// heuristic: it runs a fixed iteration budget rather than checking for
// convergence, and overlapping nodes are an accepted outcome.
package layout

import (
	"math"

	"github.com/drippinrizz/xano-db-visualizer/api/schemas"
)

// Config holds the simulation constants.
type Config struct {
	Iterations   int     // fixed iteration budget
	RingRadius   float64 // radius of the circle tables are arranged on, per table
	SpiralStep   float64 // spiral spacing inside one table's region
	Repulsion    float64 // same-table inverse-square repulsion strength
	CutoffDist   float64 // repulsion is skipped beyond this distance
	RestLength   float64 // spring rest length along edges
	SpringK      float64 // spring attraction strength
	CenterPull   float64 // weak pull toward the group centroid
	Damping      float64 // velocity multiplier per iteration, < 1
	GroupPadding float64 // added to each group's bounding radius
}

// DefaultConfig returns the tuning the visualizer ships with.
func DefaultConfig() Config {
	return Config{
		Iterations:   120,
		RingRadius:   220,
		SpiralStep:   26,
		Repulsion:    1400,
		CutoffDist:   160,
		RestLength:   90,
		SpringK:      0.012,
		CenterPull:   0.012,
		Damping:      0.85,
		GroupPadding: 46,
	}
}

// Run seeds initial positions, runs the simulation to its iteration budget
// and recomputes every group's centroid and bounding radius from the final
// node positions. The graph is mutated in place.
func Run(g *schemas.VisualGraph, cfg Config) {
	if len(g.Nodes) == 0 {
		return
	}
	seed(g, cfg)

	index := nodeIndexByID(g)
	cutoff2 := cfg.CutoffDist * cfg.CutoffDist

	for iter := 0; iter < cfg.Iterations; iter++ {
		// Linear cooling from 1 toward 0 over the budget.
		cooling := 1 - float64(iter)/float64(cfg.Iterations)

		// (a) Pairwise repulsion, same-table only, inverse-square falloff,
		// skipped past the distance cutoff. Quadratic in per-table node
		// count; the cutoff keeps dense tables affordable.
		for gi := range g.Groups {
			ids := g.Groups[gi].NodeIDs
			for a := 0; a < len(ids); a++ {
				na := &g.Nodes[index[ids[a]]]
				for b := a + 1; b < len(ids); b++ {
					nb := &g.Nodes[index[ids[b]]]
					dx := na.X - nb.X
					dy := na.Y - nb.Y
					d2 := dx*dx + dy*dy
					if d2 > cutoff2 {
						continue
					}
					if d2 < 1e-6 {
						// Coincident nodes: nudge apart along a fixed axis so
						// the result stays deterministic.
						dx, dy, d2 = 0.1, 0.1, 0.02
					}
					f := cfg.Repulsion * cooling / d2
					d := math.Sqrt(d2)
					fx := f * dx / d
					fy := f * dy / d
					na.VX += fx
					na.VY += fy
					nb.VX -= fx
					nb.VY -= fy
				}
			}
		}

		// (b) Spring attraction along every edge toward the rest length.
		for _, e := range g.Edges {
			na := &g.Nodes[index[e.From]]
			nb := &g.Nodes[index[e.To]]
			dx := nb.X - na.X
			dy := nb.Y - na.Y
			d := math.Sqrt(dx*dx + dy*dy)
			if d < 1e-6 {
				continue
			}
			f := cfg.SpringK * cooling * (d - cfg.RestLength)
			fx := f * dx / d
			fy := f * dy / d
			na.VX += fx
			na.VY += fy
			nb.VX -= fx
			nb.VY -= fy
		}

		// (c) Weak centering toward the group centroid.
		for gi := range g.Groups {
			cx, cy := centroid(g, index, g.Groups[gi].NodeIDs)
			for _, id := range g.Groups[gi].NodeIDs {
				n := &g.Nodes[index[id]]
				n.VX += (cx - n.X) * cfg.CenterPull * cooling
				n.VY += (cy - n.Y) * cfg.CenterPull * cooling
			}
		}

		// Damp, then integrate.
		for i := range g.Nodes {
			n := &g.Nodes[i]
			n.VX *= cfg.Damping
			n.VY *= cfg.Damping
			n.X += n.VX
			n.Y += n.VY
		}
	}

	finalizeGroups(g, index, cfg)
}

// seed arranges tables around a large circle and each table's nodes on a
// spiral within its region: radius grows with the square root of the record
// index, angle linearly.
func seed(g *schemas.VisualGraph, cfg Config) {
	tableCount := len(g.Groups)
	if tableCount == 0 {
		return
	}
	ringRadius := cfg.RingRadius * math.Sqrt(float64(tableCount))

	index := nodeIndexByID(g)
	for ti := range g.Groups {
		angle := float64(ti) / float64(tableCount) * 2 * math.Pi
		ox := math.Cos(angle) * ringRadius
		oy := math.Sin(angle) * ringRadius

		for i, id := range g.Groups[ti].NodeIDs {
			n := &g.Nodes[index[id]]
			r := cfg.SpiralStep * math.Sqrt(float64(i))
			a := 0.5 * float64(i)
			n.X = ox + r*math.Cos(a)
			n.Y = oy + r*math.Sin(a)
			n.VX = 0
			n.VY = 0
		}
	}
}

// finalizeGroups recomputes centroid and bounding radius from final
// positions. Bounding radius is the max distance from the centroid plus a
// padding constant.
func finalizeGroups(g *schemas.VisualGraph, index map[string]int, cfg Config) {
	for gi := range g.Groups {
		grp := &g.Groups[gi]
		cx, cy := centroid(g, index, grp.NodeIDs)
		grp.X = cx
		grp.Y = cy

		maxDist := 0.0
		for _, id := range grp.NodeIDs {
			n := &g.Nodes[index[id]]
			d := math.Hypot(n.X-cx, n.Y-cy)
			if d > maxDist {
				maxDist = d
			}
		}
		grp.Radius = maxDist + cfg.GroupPadding
	}
}

func centroid(g *schemas.VisualGraph, index map[string]int, ids []string) (float64, float64) {
	if len(ids) == 0 {
		return 0, 0
	}
	var sx, sy float64
	for _, id := range ids {
		n := &g.Nodes[index[id]]
		sx += n.X
		sy += n.Y
	}
	return sx / float64(len(ids)), sy / float64(len(ids))
}

func nodeIndexByID(g *schemas.VisualGraph) map[string]int {
	index := make(map[string]int, len(g.Nodes))
	for i := range g.Nodes {
		index[g.Nodes[i].ID] = i
	}
	return index
}
