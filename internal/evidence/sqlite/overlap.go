// Package sqlite implements an evidence.Source for SQLite.
//
// SQLite has no schemas beyond attached databases, so a non-empty schema in
// a ColumnRef is treated as an attached-database prefix.
package sqlite

import (
	"context"
	"database/sql"
	"strings"

	_ "modernc.org/sqlite"

	"relinfer/internal/evidence"
)

func init() {
	evidence.Register("sqlite", New)
}

// Prober computes overlap statistics with one bounded query per column pair.
type Prober struct {
	db          *sql.DB
	sampleLimit int
}

func New(ctx context.Context, cfg evidence.Config) (evidence.Source, error) {
	db, err := sql.Open("sqlite", cfg.DSN)
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
// statistics contract.
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

	b.WriteString("WITH sample AS (SELECT ")
	b.WriteString(sqlIdent(from.Column))
	b.WriteString(" AS v FROM ")
	b.WriteString(sqlTableIdent(from.Schema, from.Table))
	b.WriteString(" LIMIT ?) SELECT COUNT(*), COUNT(v), COUNT(DISTINCT v), ")
	b.WriteString("COUNT(DISTINCT CASE WHEN v IN (SELECT ")
	b.WriteString(sqlIdent(to.Column))
	b.WriteString(" FROM ")
	b.WriteString(sqlTableIdent(to.Schema, to.Table))
	b.WriteString(") THEN v END), (SELECT COUNT(DISTINCT ")
	b.WriteString(sqlIdent(to.Column))
	b.WriteString(") FROM ")
	b.WriteString(sqlTableIdent(to.Schema, to.Table))
	b.WriteString(") FROM sample;")

	return b.String()
}

func sqlIdent(id string) string {
	// SQLite supports "quoted identifiers"
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

func sqlTableIdent(schemaName, tableName string) string {
	if schemaName == "" {
		return sqlIdent(tableName)
	}
	return sqlIdent(schemaName) + "." + sqlIdent(tableName)
}

var _ evidence.Source = (*Prober)(nil)
