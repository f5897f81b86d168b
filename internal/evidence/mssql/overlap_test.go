package mssql

import (
	"strings"
	"testing"

	"relinfer/internal/evidence"
)

func TestBuildOverlapSQL_BracketQuotingAndTop(t *testing.T) {
	t.Parallel()

	sql := buildOverlapSQL(
		evidence.ColumnRef{Schema: "dbo", Table: "orders", Column: "customer_id"},
		evidence.ColumnRef{Schema: "dbo", Table: "customers", Column: "id"},
	)

	if !strings.HasPrefix(sql, "WITH sample AS (SELECT TOP (@p1) [customer_id] AS v FROM [dbo].[orders])") {
		t.Fatalf("unexpected sample CTE: %q", sql)
	}
	if !strings.Contains(sql, "COUNT(DISTINCT CASE WHEN v IN (SELECT [id] FROM [dbo].[customers]) THEN v END)") {
		t.Fatalf("missing matched-distinct expression: %q", sql)
	}
	if !strings.Contains(sql, "(SELECT COUNT(DISTINCT [id]) FROM [dbo].[customers])") {
		t.Fatalf("missing parent distinct count: %q", sql)
	}
}

func TestMssqlIdent_EscapesClosingBracket(t *testing.T) {
	t.Parallel()

	if got := mssqlIdent("we]ird"); got != "[we]]ird]" {
		t.Errorf("got %q, want %q", got, "[we]]ird]")
	}
	if got := mssqlTableIdent("", "orders"); got != "[orders]" {
		t.Errorf("got %q, want %q", got, "[orders]")
	}
}
