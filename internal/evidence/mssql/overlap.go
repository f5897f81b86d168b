// Package mssql implements an evidence.Source for Microsoft SQL Server.
package mssql

import (
	"context"
	"database/sql"
	"strings"

	_ "github.com/microsoft/go-mssqldb"

	"relinfer/internal/evidence"
)

func init() {
	evidence.Register("mssql", New)
}

// Prober computes overlap statistics with one bounded query per column pair.
type Prober struct {
	db          *sql.DB
	sampleLimit int
}

// New constructs a Prober using database/sql and the "sqlserver" driver.
// Connectivity is validated via PingContext.
func New(ctx context.Context, cfg evidence.Config) (evidence.Source, error) {
	db, err := sql.Open("sqlserver", cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Prober{db: db, sampleLimit: cfg.EffectiveSampleLimit()}, nil
}

func (p *Prober) Close() { _ = p.db.Close() }

// ColumnValueOverlap mirrors the Postgres prober; see that package for the
// statistics contract. Only the dialect differs (TOP instead of LIMIT, CASE
// instead of FILTER, bracket quoting).
func (p *Prober) ColumnValueOverlap(ctx context.Context, from, to evidence.ColumnRef) (*evidence.Overlap, error) {
	q := buildOverlapSQL(from, to)

	var sampledRows, childSampleSize, childDistinct, matchedDistinct, parentDistinct int64
	err := p.db.QueryRowContext(ctx, q, p.sampleLimit).Scan(
		&sampledRows, &childSampleSize, &childDistinct, &matchedDistinct, &parentDistinct,
	)
	if err != nil {
		return nil, err
	}

	return evidence.OverlapFromCounts(sampledRows, childSampleSize, childDistinct, matchedDistinct, parentDistinct), nil
}

func buildOverlapSQL(from, to evidence.ColumnRef) string {
	var b strings.Builder

	b.WriteString("WITH sample AS (SELECT TOP (@p1) ")
	b.WriteString(mssqlIdent(from.Column))
	b.WriteString(" AS v FROM ")
	b.WriteString(mssqlTableIdent(from.Schema, from.Table))
	b.WriteString(") SELECT COUNT(*), COUNT(v), COUNT(DISTINCT v), ")
	b.WriteString("COUNT(DISTINCT CASE WHEN v IN (SELECT ")
	b.WriteString(mssqlIdent(to.Column))
	b.WriteString(" FROM ")
	b.WriteString(mssqlTableIdent(to.Schema, to.Table))
	b.WriteString(") THEN v END), (SELECT COUNT(DISTINCT ")
	b.WriteString(mssqlIdent(to.Column))
	b.WriteString(") FROM ")
	b.WriteString(mssqlTableIdent(to.Schema, to.Table))
	b.WriteString(") FROM sample;")

	return b.String()
}

func mssqlIdent(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

func mssqlTableIdent(schemaName, tableName string) string {
	if schemaName == "" {
		return mssqlIdent(tableName)
	}
	return mssqlIdent(schemaName) + "." + mssqlIdent(tableName)
}

var _ evidence.Source = (*Prober)(nil)
