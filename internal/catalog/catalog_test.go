package catalog

import (
	"reflect"
	"testing"

	"relinfer/internal/schema"
)

func TestAssembleDatasets_GroupsColumnsPerTable(t *testing.T) {
	t.Parallel()

	rows := []columnRow{
		{Schema: "public", Table: "orders", Column: "id"},
		{Schema: "public", Table: "orders", Column: "customer_id"},
		{Schema: "public", Table: "customers", Column: "id"},
		{Schema: "sales", Table: "orders", Column: "id"},
	}

	got := assembleDatasets("warehouse", rows)
	want := []schema.Dataset{
		{Source: "warehouse.public.orders", Columns: []string{"id", "customer_id"}},
		{Source: "warehouse.public.customers", Columns: []string{"id"}},
		{Source: "warehouse.sales.orders", Columns: []string{"id"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestAssembleDatasets_EmptyDbNameOmitsPrefix(t *testing.T) {
	t.Parallel()

	got := assembleDatasets("", []columnRow{
		{Schema: "public", Table: "orders", Column: "id"},
	})
	if len(got) != 1 || got[0].Source != "public.orders" {
		t.Fatalf("got %+v", got)
	}
}

func TestAssembleForeignKeys_MergesMultiColumnConstraints(t *testing.T) {
	t.Parallel()

	rows := []fkRow{
		{ConstraintName: "order_lines_fkey",
			FromSchema: "public", FromTable: "order_lines", FromColumn: "order_id",
			ToSchema: "public", ToTable: "orders", ToColumn: "id"},
		{ConstraintName: "order_lines_fkey",
			FromSchema: "public", FromTable: "order_lines", FromColumn: "order_seq",
			ToSchema: "public", ToTable: "orders", ToColumn: "seq"},
		{ConstraintName: "orders_customer_fkey",
			FromSchema: "public", FromTable: "orders", FromColumn: "customer_id",
			ToSchema: "public", ToTable: "customers", ToColumn: "id"},
	}

	got := assembleForeignKeys(rows)
	want := []schema.ForeignKey{
		{
			ConstraintName: "order_lines_fkey",
			FromSchema:     "public", FromTable: "order_lines",
			FromColumns: []string{"order_id", "order_seq"},
			ToSchema:    "public", ToTable: "orders",
			ToColumns: []string{"id", "seq"},
		},
		{
			ConstraintName: "orders_customer_fkey",
			FromSchema:     "public", FromTable: "orders",
			FromColumns: []string{"customer_id"},
			ToSchema:    "public", ToTable: "customers",
			ToColumns: []string{"id"},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestAssembleForeignKeys_SameConstraintNameDifferentTables(t *testing.T) {
	t.Parallel()

	// Constraint names are only unique per schema+table; two tables may reuse
	// a name and must not be merged.
	rows := []fkRow{
		{ConstraintName: "fk_owner",
			FromSchema: "public", FromTable: "cats", FromColumn: "owner_id",
			ToSchema: "public", ToTable: "owners", ToColumn: "id"},
		{ConstraintName: "fk_owner",
			FromSchema: "public", FromTable: "dogs", FromColumn: "owner_id",
			ToSchema: "public", ToTable: "owners", ToColumn: "id"},
	}

	got := assembleForeignKeys(rows)
	if len(got) != 2 {
		t.Fatalf("got %d constraints, want 2: %+v", len(got), got)
	}
}
