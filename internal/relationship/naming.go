package relationship

import (
	"strings"

	"relinfer/internal/schema"
)

// namingCandidates derives relationship hypotheses from <table>_id column
// patterns: a column like "customer_id" on one table pointing at the "id"
// column of a table named customer/customers (singular, +s, +es, y→ies).
//
// Pure function of its inputs. Self references (orders.order_id → orders.id)
// are skipped; a table's own surrogate key is not a relationship.
func namingCandidates(datasets []schema.Dataset) []Candidate {
	var out []Candidate

	for _, d := range datasets {
		fromSchema, fromTable := d.SchemaTable()

		for _, col := range d.Columns {
			base, ok := idColumnBase(col)
			if !ok {
				continue
			}

			target := findTargetTable(datasets, base)
			if target == nil || target.Source == d.Source {
				continue
			}
			if !target.HasColumn("id") {
				continue
			}

			toSchema, toTable := target.SchemaTable()
			out = append(out, Candidate{
				FromSchema:  fromSchema,
				FromTable:   fromTable,
				FromColumns: []string{col},
				ToSchema:    toSchema,
				ToTable:     toTable,
				ToColumns:   []string{"id"},
				Method:      MethodNaming,
				Confidence:  ConfidenceLow, // placeholder, overwritten by validation
			})
		}
	}

	return out
}

// idColumnBase extracts the table-name base from a "<base>_id" column.
func idColumnBase(col string) (string, bool) {
	lower := strings.ToLower(col)
	if !strings.HasSuffix(lower, "_id") {
		return "", false
	}
	base := lower[:len(lower)-len("_id")]
	if base == "" {
		return "", false
	}
	return base, true
}

// findTargetTable resolves a column base against the dataset list, trying the
// base itself and its common plural forms. First match wins.
func findTargetTable(datasets []schema.Dataset, base string) *schema.Dataset {
	for _, name := range pluralForms(base) {
		for i := range datasets {
			_, table := datasets[i].SchemaTable()
			if strings.EqualFold(table, name) {
				return &datasets[i]
			}
		}
	}
	return nil
}

func pluralForms(base string) []string {
	forms := []string{base, base + "s", base + "es"}
	if strings.HasSuffix(base, "y") && len(base) > 1 {
		forms = append(forms, base[:len(base)-1]+"ies")
	}
	return forms
}
