package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/drippinrizz/xano-db-visualizer/api/schemas"
)

// elidedFieldFragments marks field names whose values never appear in a
// tooltip: embedding vectors, metadata blobs, config payloads and anything
// token-like. Matching is by substring on the lowercased field name.
var elidedFieldFragments = []string{
	"embedding",
	"vector",
	"metadata",
	"config",
	"token",
	"secret",
	"password",
	"api_key",
}

const tooltipValueMaxLen = 60

// TooltipField is one displayed field row.
type TooltipField struct {
	Name  string
	Value string
}

// Tooltip is the model behind the floating surface shown near the cursor for
// a hovered node: the record's type (table label), display label and its
// field list.
type Tooltip struct {
	Type   string
	Label  string
	Fields []TooltipField
}

// BuildTooltip assembles the tooltip for a node. Field rows are sorted by
// name for stable display; elided fields are dropped entirely rather than
// masked.
func BuildTooltip(g *schemas.VisualGraph, n *schemas.Node) Tooltip {
	t := Tooltip{Type: n.Table, Label: n.Label}
	for _, info := range g.Tables {
		if info.Name == n.Table {
			t.Type = info.Label
			break
		}
	}

	names := make([]string, 0, len(n.Record))
	for name := range n.Record {
		if elidedField(name) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		t.Fields = append(t.Fields, TooltipField{
			Name:  name,
			Value: formatTooltipValue(n.Record[name]),
		})
	}
	return t
}

func elidedField(name string) bool {
	lower := strings.ToLower(name)
	for _, frag := range elidedFieldFragments {
		if strings.Contains(lower, frag) {
			return true
		}
	}
	return false
}

func formatTooltipValue(v any) string {
	var s string
	switch val := v.(type) {
	case nil:
		return "—"
	case string:
		s = val
	case bool:
		return fmt.Sprintf("%t", val)
	default:
		if k := schemas.CoerceKey(v); k != "" {
			return k
		}
		s = fmt.Sprintf("%v", v)
	}
	runes := []rune(s)
	if len(runes) > tooltipValueMaxLen {
		s = string(runes[:tooltipValueMaxLen-1]) + "…"
	}
	return s
}
