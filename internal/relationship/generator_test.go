package relationship

import (
	"testing"

	"relinfer/internal/schema"
)

func TestConstraintCandidates_RequireBothEndpointsInWorkingSet(t *testing.T) {
	t.Parallel()

	datasets := []schema.Dataset{
		{Source: "warehouse.public.orders", Columns: []string{"id", "customer_id"}},
		{Source: "warehouse.public.customers", Columns: []string{"id"}},
	}
	fks := []schema.ForeignKey{
		{
			ConstraintName: "orders_customer_id_fkey",
			FromSchema:     "public", FromTable: "orders", FromColumns: []string{"customer_id"},
			ToSchema: "public", ToTable: "customers", ToColumns: []string{"id"},
		},
		{
			// Target table not in the working set; must be skipped.
			ConstraintName: "orders_warehouse_id_fkey",
			FromSchema:     "public", FromTable: "orders", FromColumns: []string{"warehouse_id"},
			ToSchema: "public", ToTable: "warehouses", ToColumns: []string{"id"},
		},
	}

	got := constraintCandidates(datasets, fks)
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1: %+v", len(got), got)
	}
	c := got[0]
	if c.Method != MethodConstraint || c.ConstraintName != "orders_customer_id_fkey" {
		t.Errorf("unexpected candidate: %+v", c)
	}
	if c.FromTable != "orders" || c.ToTable != "customers" {
		t.Errorf("unexpected endpoints: %+v", c)
	}
}

func TestConstraintCandidates_SkipMalformedColumnLists(t *testing.T) {
	t.Parallel()

	datasets := []schema.Dataset{
		{Source: "db.public.a", Columns: []string{"id"}},
		{Source: "db.public.b", Columns: []string{"id"}},
	}
	fks := []schema.ForeignKey{
		{FromSchema: "public", FromTable: "a", FromColumns: nil,
			ToSchema: "public", ToTable: "b", ToColumns: nil},
		{FromSchema: "public", FromTable: "a", FromColumns: []string{"x", "y"},
			ToSchema: "public", ToTable: "b", ToColumns: []string{"id"}},
	}

	if got := constraintCandidates(datasets, fks); len(got) != 0 {
		t.Fatalf("expected malformed FKs to be skipped, got %+v", got)
	}
}

func TestNamingCandidates_IdColumnPatterns(t *testing.T) {
	t.Parallel()

	datasets := []schema.Dataset{
		{Source: "db.public.orders", Columns: []string{"id", "customer_id", "category_id", "note"}},
		{Source: "db.public.customers", Columns: []string{"id", "name"}},
		{Source: "db.public.categories", Columns: []string{"id"}},
	}

	got := namingCandidates(datasets)
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2: %+v", len(got), got)
	}

	// customer_id -> customers (plural +s), category_id -> categories (y->ies).
	if got[0].FromColumns[0] != "customer_id" || got[0].ToTable != "customers" {
		t.Errorf("first candidate: %+v", got[0])
	}
	if got[1].FromColumns[0] != "category_id" || got[1].ToTable != "categories" {
		t.Errorf("second candidate: %+v", got[1])
	}
	for _, c := range got {
		if c.Method != MethodNaming {
			t.Errorf("wrong method: %+v", c)
		}
		if len(c.ToColumns) != 1 || c.ToColumns[0] != "id" {
			t.Errorf("target column must be id: %+v", c)
		}
	}
}

func TestNamingCandidates_SkipSelfAndMissingIdColumn(t *testing.T) {
	t.Parallel()

	datasets := []schema.Dataset{
		// order_id points back at orders itself: a surrogate key, not an edge.
		{Source: "db.public.orders", Columns: []string{"order_id", "status_id"}},
		// statuses has no id column to point at.
		{Source: "db.public.statuses", Columns: []string{"code"}},
	}

	if got := namingCandidates(datasets); len(got) != 0 {
		t.Fatalf("expected no candidates, got %+v", got)
	}
}

func TestGenerate_ExplicitCandidatesComeFirst(t *testing.T) {
	t.Parallel()

	datasets := []schema.Dataset{
		{Source: "db.public.orders", Columns: []string{"id", "customer_id"}},
		{Source: "db.public.customers", Columns: []string{"id"}},
	}
	fks := []schema.ForeignKey{
		{ConstraintName: "fk1",
			FromSchema: "public", FromTable: "orders", FromColumns: []string{"customer_id"},
			ToSchema: "public", ToTable: "customers", ToColumns: []string{"id"}},
	}

	got := Generate(datasets, fks)
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2: %+v", len(got), got)
	}
	if got[0].Method != MethodConstraint || got[1].Method != MethodNaming {
		t.Fatalf("ordering wrong: %+v", got)
	}
}
