// Package graph builds the visual graph from raw table data: it infers
// foreign-key relationships from field naming, picks a display field per
// table and constructs the node/edge/group sets the layout and renderer
// consume. All of it is pure data-in/data-out so it can be tested without a
// drawing surface.
package graph

import (
	"sort"
	"strings"

	"github.com/drippinrizz/xano-db-visualizer/api/schemas"
)

// nameFieldPriority is tried in order when picking the field that labels a
// record.
var nameFieldPriority = []string{
	"name", "title", "label", "display_name", "username", "slug", "email", "description",
}

// nameFieldExcluded never labels a record even when its value is a short
// string.
var nameFieldExcluded = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

const nameFieldMaxLen = 80

// InferForeignKeys detects foreign-key fields per table and resolves the
// table each one references. The field set of a table's first record stands
// in for its schema; empty tables are skipped. A field is a candidate when
// its name ends in "_id" and is not literally "id". The referenced table is
// resolved by stripping the "_id" suffix and matching case-insensitively
// against each table name, the name with a plural suffix ("s", "es") stripped
// or added, and the same with spaces normalized to underscores.
//
// Resolution is first-match-wins in table declaration order. That makes the
// result sensitive to the key order of the input JSON for ambiguous schemas;
// this is an accepted limitation of the heuristic and is relied on by
// existing deployments, so it must not be reordered. Candidates that resolve
// to nothing are dropped silently.
func InferForeignKeys(data *schemas.GraphData) map[string]map[string]string {
	fks := make(map[string]map[string]string, len(data.Tables))
	for _, t := range data.Tables {
		if len(t.Records) == 0 {
			continue
		}

		// Iterate the representative schema in a stable order so repeated
		// builds over identical input agree field-for-field.
		fields := make([]string, 0, len(t.Records[0]))
		for f := range t.Records[0] {
			fields = append(fields, f)
		}
		sort.Strings(fields)

		for _, field := range fields {
			if field == "id" || !strings.HasSuffix(field, "_id") {
				continue
			}
			base := strings.TrimSuffix(field, "_id")
			target, ok := resolveTable(base, data.Tables)
			if !ok {
				continue // best effort: unresolved candidates are not foreign keys
			}
			if fks[t.Name] == nil {
				fks[t.Name] = make(map[string]string)
			}
			fks[t.Name][field] = target
		}
	}
	return fks
}

// resolveTable matches a stripped foreign-key base name against the table
// list in declaration order.
func resolveTable(base string, tables []schemas.TableRecords) (string, bool) {
	want := normalizeName(base)
	for _, t := range tables {
		name := normalizeName(t.Name)
		if want == name ||
			want == strings.TrimSuffix(name, "es") ||
			want == strings.TrimSuffix(name, "s") ||
			want+"s" == name ||
			want+"es" == name {
			return t.Name, true
		}
	}
	return "", false
}

func normalizeName(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "_")
}

// DetectNameField picks the field used to label records of a table. It tries
// the fixed priority list first, then falls back to the first field (in the
// record's sorted field order, excluding id and timestamps) holding a
// non-empty string shorter than 80 characters, and finally to "id". Never an
// error: every record can at worst be labeled by its id.
func DetectNameField(records []schemas.Record) string {
	if len(records) == 0 {
		return "id"
	}
	first := records[0]

	for _, f := range nameFieldPriority {
		if _, ok := first[f]; ok {
			return f
		}
	}

	fields := make([]string, 0, len(first))
	for f := range first {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		if nameFieldExcluded[f] {
			continue
		}
		if s, ok := first[f].(string); ok && s != "" && len(s) < nameFieldMaxLen {
			return f
		}
	}
	return "id"
}
