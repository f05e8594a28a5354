package graph

import (
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/drippinrizz/xano-db-visualizer/api/schemas"
)

const (
	labelMaxLen = 24

	// Node radius is a bounded, monotonic function of incident edge count:
	// a floor for isolated nodes and a logarithmic-like growth capped well
	// below cluster scale.
	radiusFloor = 6.0
	radiusScale = 3.5
	radiusCap   = 20.0
)

// Builder constructs visual graphs from raw table data.
type Builder struct {
	log *zap.Logger
}

// NewBuilder returns a Builder. A nil logger is replaced with a no-op one.
func NewBuilder(logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{log: logger.Named("GraphBuilder")}
}

// Build constructs the full node/edge/group set from scratch. There are no
// incremental updates: every data load rebuilds everything.
//
// One node is created per record of every non-empty table; empty tables
// contribute nothing (no group, no legend entry). Edges come from "_id"
// fields on individual records: the target node is resolved through a
// composite (target table, foreign value) key, and foreign values that
// resolve to no existing node are skipped silently. Node radii are assigned
// post hoc from total incident edge count.
func (b *Builder) Build(data *schemas.GraphData) *schemas.VisualGraph {
	g := &schemas.VisualGraph{}
	fks := InferForeignKeys(data)

	// Nodes first, so edge resolution can see every table.
	nodeIndex := make(map[string]int) // node ID -> index into g.Nodes
	colorIdx := 0
	for _, t := range data.Tables {
		if len(t.Records) == 0 {
			continue
		}
		color := ColorFor(colorIdx)
		colorIdx++

		info := schemas.TableInfo{
			Name:        t.Name,
			Label:       displayLabel(t.Name),
			Color:       color,
			NameField:   DetectNameField(t.Records),
			RecordCount: len(t.Records),
			ForeignKeys: fks[t.Name],
		}
		g.Tables = append(g.Tables, info)

		for _, rec := range t.Records {
			id := rec.ID()
			node := schemas.Node{
				ID:     t.Name + ":" + id,
				Table:  t.Name,
				Label:  truncateLabel(recordLabel(rec, info.NameField)),
				Color:  color,
				Record: rec,
			}
			nodeIndex[node.ID] = len(g.Nodes)
			g.Nodes = append(g.Nodes, node)
		}
	}

	// Edges: every field ending in "_id" on every record, not just the
	// table-level schema, so foreign keys that appear only on some records
	// (a sparse manager_id, say) still link. A base that resolves to no
	// table is assumed to reference the record's own table; if the value
	// then points at no existing node the field simply produces no edge.
	degree := make(map[string]int, len(g.Nodes))
	for _, t := range data.Tables {
		for _, rec := range t.Records {
			from := t.Name + ":" + rec.ID()
			for _, field := range orderedRecordFields(rec) {
				if field == "id" || !strings.HasSuffix(field, "_id") {
					continue
				}
				target, ok := resolveTable(strings.TrimSuffix(field, "_id"), data.Tables)
				if !ok {
					target = t.Name
				}
				key := schemas.CoerceKey(rec[field])
				if key == "" {
					continue
				}
				to := target + ":" + key
				if _, exists := nodeIndex[to]; !exists {
					continue // dangling foreign key: no edge, no error
				}
				g.Edges = append(g.Edges, schemas.Edge{From: from, To: to, Field: field})
				degree[from]++
				degree[to]++
			}
		}
	}

	for i := range g.Nodes {
		g.Nodes[i].Radius = nodeRadius(degree[g.Nodes[i].ID])
	}

	// One group per non-empty table. Centroid and bounding radius are filled
	// in by the layout pass.
	for _, info := range g.Tables {
		group := schemas.Group{
			Table: info.Name,
			Label: info.Label,
			Color: info.Color,
			Count: info.RecordCount,
		}
		for _, n := range g.Nodes {
			if n.Table == info.Name {
				group.NodeIDs = append(group.NodeIDs, n.ID)
			}
		}
		g.Groups = append(g.Groups, group)
	}

	g.Stats = schemas.GraphStats{
		TableCount: len(g.Tables),
		NodeCount:  len(g.Nodes),
		EdgeCount:  len(g.Edges),
	}
	b.log.Debug("Graph built",
		zap.Int("tables", g.Stats.TableCount),
		zap.Int("nodes", g.Stats.NodeCount),
		zap.Int("edges", g.Stats.EdgeCount),
	)
	return g
}

// nodeRadius maps incident edge count to a drawable radius.
func nodeRadius(degree int) float64 {
	r := radiusFloor + radiusScale*math.Log1p(float64(degree))
	return math.Min(r, radiusCap)
}

// recordLabel resolves a record's display label through the detected name
// field, falling back to the record id.
func recordLabel(rec schemas.Record, nameField string) string {
	if v, ok := rec[nameField]; ok {
		if s := schemas.CoerceKey(v); s != "" {
			return s
		}
	}
	if id := rec.ID(); id != "" {
		return id
	}
	return "?"
}

func truncateLabel(s string) string {
	runes := []rune(s)
	if len(runes) <= labelMaxLen {
		return s
	}
	return string(runes[:labelMaxLen-1]) + "…"
}

// displayLabel turns a table name into its legend label: underscores become
// spaces and each word is capitalized.
func displayLabel(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool { return r == '_' || r == ' ' })
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// orderedRecordFields returns a record's field names in a stable order so
// repeated builds over identical input emit edges in the same sequence.
func orderedRecordFields(rec schemas.Record) []string {
	fields := make([]string, 0, len(rec))
	for f := range rec {
		fields = append(fields, f)
	}
	// Insertion sort keeps this allocation-light for the tiny maps involved.
	for i := 1; i < len(fields); i++ {
		for j := i; j > 0 && fields[j] < fields[j-1]; j-- {
			fields[j], fields[j-1] = fields[j-1], fields[j]
		}
	}
	return fields
}
