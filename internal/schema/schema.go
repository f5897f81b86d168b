// Package schema holds the read-only metadata types that relationship
// discovery consumes: datasets (already-discovered tables with their
// columns) and explicit foreign-key constraints.
//
// These types are inputs produced by an earlier discovery stage or by
// cmd/introspect; nothing in this package mutates them.
package schema

import "strings"

// Dataset describes one discovered table.
//
// Source is the qualified identifier "db.schema.table". Matching against
// partially-qualified references (e.g. a foreign key that only knows
// "schema.table") is done case-insensitively by suffix; see Matches.
type Dataset struct {
	Source  string   `json:"source"`
	Columns []string `json:"columns"`
}

// SchemaTable splits the qualified source into its schema and table parts.
// For a two-part source ("schema.table") the db part is simply absent; for a
// single bare name the schema is empty.
func (d Dataset) SchemaTable() (schemaName, tableName string) {
	parts := strings.Split(d.Source, ".")
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return "", parts[0]
	default:
		return parts[len(parts)-2], parts[len(parts)-1]
	}
}

// Matches reports whether this dataset is the table referred to by
// (schemaName, tableName). The comparison is case-insensitive and accepts
// the dataset's qualified source either equaling or ending with
// "schema.table".
//
// Heuristic: two databases carrying identically-named schema.table pairs
// would both match; the caller resolves collisions by first match in
// dataset order.
func (d Dataset) Matches(schemaName, tableName string) bool {
	want := tableName
	if schemaName != "" {
		want = schemaName + "." + tableName
	}
	src := strings.ToLower(d.Source)
	want = strings.ToLower(want)
	return src == want || strings.HasSuffix(src, "."+want)
}

// HasColumn reports whether the dataset carries the named column,
// case-insensitively.
func (d Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if strings.EqualFold(c, name) {
			return true
		}
	}
	return false
}

// FindDataset returns the first dataset matching (schemaName, tableName),
// or nil when none does. First match wins on multi-schema collisions.
func FindDataset(datasets []Dataset, schemaName, tableName string) *Dataset {
	for i := range datasets {
		if datasets[i].Matches(schemaName, tableName) {
			return &datasets[i]
		}
	}
	return nil
}

// ForeignKey is an explicit constraint edge read from the source database's
// catalog. FromColumns and ToColumns are parallel slices.
type ForeignKey struct {
	ConstraintName string   `json:"constraint_name"`
	FromSchema     string   `json:"from_schema"`
	FromTable      string   `json:"from_table"`
	FromColumns    []string `json:"from_columns"`
	ToSchema       string   `json:"to_schema"`
	ToTable        string   `json:"to_table"`
	ToColumns      []string `json:"to_columns"`
}
