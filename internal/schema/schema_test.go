package schema

import "testing"

func TestSchemaTable(t *testing.T) {
	t.Parallel()

	cases := []struct {
		source     string
		wantSchema string
		wantTable  string
	}{
		{source: "warehouse.public.orders", wantSchema: "public", wantTable: "orders"},
		{source: "public.orders", wantSchema: "public", wantTable: "orders"},
		{source: "orders", wantSchema: "", wantTable: "orders"},
	}
	for _, tc := range cases {
		d := Dataset{Source: tc.source}
		gotSchema, gotTable := d.SchemaTable()
		if gotSchema != tc.wantSchema || gotTable != tc.wantTable {
			t.Errorf("SchemaTable(%q)=(%q,%q), want (%q,%q)",
				tc.source, gotSchema, gotTable, tc.wantSchema, tc.wantTable)
		}
	}
}

func TestMatches_SuffixAndEquality(t *testing.T) {
	t.Parallel()

	d := Dataset{Source: "Warehouse.Public.Orders"}

	if !d.Matches("public", "orders") {
		t.Errorf("case-insensitive suffix match failed")
	}
	if !d.Matches("", "orders") {
		t.Errorf("bare table suffix match failed")
	}
	if d.Matches("public", "ders") {
		t.Errorf("partial table name must not match")
	}
	if d.Matches("sales", "orders") {
		t.Errorf("wrong schema must not match")
	}

	two := Dataset{Source: "public.orders"}
	if !two.Matches("public", "orders") {
		t.Errorf("exact equality match failed")
	}
}

func TestFindDataset_FirstMatchWins(t *testing.T) {
	t.Parallel()

	datasets := []Dataset{
		{Source: "db1.public.orders", Columns: []string{"id"}},
		{Source: "db2.public.orders", Columns: []string{"id", "legacy"}},
	}

	got := FindDataset(datasets, "public", "orders")
	if got == nil || got.Source != "db1.public.orders" {
		t.Fatalf("got %+v, want the first matching dataset", got)
	}
	if FindDataset(datasets, "public", "customers") != nil {
		t.Fatalf("expected nil for unknown table")
	}
}

func TestHasColumn(t *testing.T) {
	t.Parallel()

	d := Dataset{Columns: []string{"ID", "created_at"}}
	if !d.HasColumn("id") {
		t.Errorf("case-insensitive column lookup failed")
	}
	if d.HasColumn("updated_at") {
		t.Errorf("missing column reported present")
	}
}
