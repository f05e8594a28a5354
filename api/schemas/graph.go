package schemas

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Record is a single row of a table: an arbitrary mapping of field name to
// value. Every record carries an "id" field whose value is usable as a lookup
// key (string or number).
type Record map[string]any

// ID returns the record's id coerced to its canonical string form, or the
// empty string when no usable id is present. Integral JSON numbers format
// without a trailing ".0" so that string and numeric ids referencing the same
// row compare equal.
func (r Record) ID() string {
	return CoerceKey(r["id"])
}

// CoerceKey normalizes a foreign-key or id value to the string form used for
// node lookup. Unsupported value types yield the empty string.
func CoerceKey(v any) string {
	switch k := v.(type) {
	case string:
		return k
	case float64:
		return strconv.FormatFloat(k, 'f', -1, 64)
	case json.Number:
		return k.String()
	case int:
		return strconv.Itoa(k)
	case int64:
		return strconv.FormatInt(k, 10)
	default:
		return ""
	}
}

// TableRecords pairs a table name with its rows.
type TableRecords struct {
	Name    string
	Records []Record
}

// GraphData is the wire form of the graph-data endpoint: a JSON object whose
// own enumerable keys map to arrays of record objects. Keys mapping to
// anything other than an array are ignored on decode. Declaration order of
// the keys is preserved because foreign-key resolution is first-match-wins in
// table declaration order.
type GraphData struct {
	Tables []TableRecords
}

// Table returns the records for the named table and whether it exists.
func (d *GraphData) Table(name string) ([]Record, bool) {
	for _, t := range d.Tables {
		if t.Name == name {
			return t.Records, true
		}
	}
	return nil, false
}

// UnmarshalJSON decodes the table map while retaining key order. Values that
// are not arrays of objects are skipped without error.
func (d *GraphData) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("graph data: expected JSON object, got %v", tok)
	}

	d.Tables = d.Tables[:0]
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}

		// Only arrays of objects count as tables; everything else (numbers,
		// strings, nested objects, null) is ignored per the input contract.
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 || trimmed[0] != '[' {
			continue
		}
		var records []Record
		if err := json.Unmarshal(trimmed, &records); err != nil {
			continue
		}
		d.Tables = append(d.Tables, TableRecords{Name: name, Records: records})
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// MarshalJSON writes the table map back out in declaration order.
func (d GraphData) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, t := range d.Tables {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(t.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		records := t.Records
		if records == nil {
			records = []Record{}
		}
		val, err := json.Marshal(records)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// -- Visual Graph Data Model --

// TableInfo describes one non-empty table of the dataset: its display label,
// assigned color, the field used for record labels and the foreign keys
// detected on its schema.
type TableInfo struct {
	Name        string            `json:"name"`
	Label       string            `json:"label"`
	Color       string            `json:"color"`
	NameField   string            `json:"name_field"`
	RecordCount int               `json:"record_count"`
	ForeignKeys map[string]string `json:"foreign_keys,omitempty"` // field -> referenced table
}

// Node is one visual instance per record.
type Node struct {
	ID     string  `json:"id"` // table name + ":" + record id
	Table  string  `json:"table"`
	Label  string  `json:"label"`
	Color  string  `json:"color"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	VX     float64 `json:"-"`
	VY     float64 `json:"-"`
	Radius float64 `json:"radius"`
	Record Record  `json:"-"`
}

// Edge is an ordered pair of node IDs plus the foreign-key field that
// produced it. Edges are undirected for layout purposes; the From/To order
// retains directionality for display.
type Edge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Field string `json:"field"`
}

// Group is the set of nodes belonging to one table, with the centroid and
// bounding radius computed after layout. It doubles as the hit target for
// zoom-to-cluster.
type Group struct {
	Table   string  `json:"table"`
	Label   string  `json:"label"`
	Color   string  `json:"color"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Radius  float64 `json:"radius"`
	Count   int     `json:"count"`
	NodeIDs []string `json:"-"`
}

// GraphStats summarizes a built graph for the on-screen status line.
type GraphStats struct {
	TableCount int `json:"table_count"`
	NodeCount  int `json:"node_count"`
	EdgeCount  int `json:"edge_count"`
}

// VisualGraph is the fully built graph: one node per record, one edge per
// resolved foreign key, one group per non-empty table. The whole structure is
// rebuilt from scratch on every data load.
type VisualGraph struct {
	Tables []TableInfo `json:"tables"`
	Nodes  []Node      `json:"nodes"`
	Edges  []Edge      `json:"edges"`
	Groups []Group     `json:"groups"`
	Stats  GraphStats  `json:"stats"`
}

// NodeByID returns a pointer into the node slice, or nil when absent.
func (g *VisualGraph) NodeByID(id string) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}
