// Package postgres implements an evidence.Source that probes value overlap
// directly on a Postgres database via pgx.
package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"relinfer/internal/evidence"
)

func init() {
	evidence.Register("postgres", New)
}

// Prober computes overlap statistics with one bounded query per column pair.
type Prober struct {
	pool        *pgxpool.Pool
	sampleLimit int
}

// New creates a Postgres-backed prober.
func New(ctx context.Context, cfg evidence.Config) (evidence.Source, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, err
	}
	return &Prober{pool: pool, sampleLimit: cfg.EffectiveSampleLimit()}, nil
}

// Close closes the connection pool.
func (p *Prober) Close() {
	p.pool.Close()
}

// ColumnValueOverlap samples up to sampleLimit child rows and measures how
// many of their distinct values exist in the parent column.
//
// Returns (nil, nil) when the sample contains no distinct non-null values:
// there is nothing to validate against, which is a negative result rather
// than a fault.
func (p *Prober) ColumnValueOverlap(ctx context.Context, from, to evidence.ColumnRef) (*evidence.Overlap, error) {
	sql := buildOverlapSQL(from, to)

	var sampledRows, childSampleSize, childDistinct, matchedDistinct, parentDistinct int64
	err := p.pool.QueryRow(ctx, sql, p.sampleLimit).Scan(
		&sampledRows, &childSampleSize, &childDistinct, &matchedDistinct, &parentDistinct,
	)
	if err != nil {
		return nil, err
	}

	return evidence.OverlapFromCounts(sampledRows, childSampleSize, childDistinct, matchedDistinct, parentDistinct), nil
}

// buildOverlapSQL constructs the probe statement for one column pair.
//
// Why this exists:
//   - It is pure and deterministic, so quoting and shape can be unit tested
//     without a database.
//
// The single statement returns, over a LIMIT-bounded child sample:
//   - sampled rows (nulls included, for the null ratio)
//   - non-null sample size
//   - distinct child values
//   - distinct child values found in the parent column
//   - distinct parent values
func buildOverlapSQL(from, to evidence.ColumnRef) string {
	var b strings.Builder

	b.WriteString("WITH sample AS (SELECT ")
	b.WriteString(pgIdent(from.Column))
	b.WriteString(" AS v FROM ")
	b.WriteString(pgTableIdent(from.Schema, from.Table))
	b.WriteString(" LIMIT $1) SELECT COUNT(*), COUNT(v), COUNT(DISTINCT v), ")
	b.WriteString("COUNT(DISTINCT v) FILTER (WHERE v IN (SELECT ")
	b.WriteString(pgIdent(to.Column))
	b.WriteString(" FROM ")
	b.WriteString(pgTableIdent(to.Schema, to.Table))
	b.WriteString(")), (SELECT COUNT(DISTINCT ")
	b.WriteString(pgIdent(to.Column))
	b.WriteString(") FROM ")
	b.WriteString(pgTableIdent(to.Schema, to.Table))
	b.WriteString(") FROM sample;")

	return b.String()
}

func pgIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// pgTableIdent quotes a possibly schema-qualified table reference.
func pgTableIdent(schemaName, tableName string) string {
	if schemaName == "" {
		return pgIdent(tableName)
	}
	return pgIdent(schemaName) + "." + pgIdent(tableName)
}

var _ evidence.Source = (*Prober)(nil)
