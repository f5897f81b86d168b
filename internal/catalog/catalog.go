// Package catalog introspects a live Postgres database into the inputs
// relationship discovery consumes: datasets (tables with their columns) and
// explicit foreign-key constraints, read from information_schema.
package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"relinfer/internal/schema"
)

// Introspector reads schema metadata from one Postgres database.
type Introspector struct {
	pool   *pgxpool.Pool
	dbName string
}

// New connects to the database at dsn. dbName is the qualifier prefixed onto
// every dataset source ("db.schema.table").
func New(ctx context.Context, dsn, dbName string) (*Introspector, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("catalog: connect: %w", err)
	}
	return &Introspector{pool: pool, dbName: dbName}, nil
}

// Close releases the connection pool.
func (i *Introspector) Close() {
	i.pool.Close()
}

// System schemas never contain user relationships.
const datasetsSQL = `
SELECT table_schema, table_name, column_name
FROM information_schema.columns
WHERE table_schema NOT IN ('pg_catalog', 'information_schema')
ORDER BY table_schema, table_name, ordinal_position;`

const foreignKeysSQL = `
SELECT
    tc.constraint_name,
    tc.table_schema,
    tc.table_name,
    kcu.column_name,
    ccu.table_schema AS foreign_table_schema,
    ccu.table_name   AS foreign_table_name,
    ccu.column_name  AS foreign_column_name
FROM information_schema.table_constraints tc
JOIN information_schema.key_column_usage kcu
    ON tc.constraint_name = kcu.constraint_name
   AND tc.table_schema = kcu.table_schema
JOIN information_schema.constraint_column_usage ccu
    ON ccu.constraint_name = tc.constraint_name
   AND ccu.table_schema = tc.table_schema
WHERE tc.constraint_type = 'FOREIGN KEY'
ORDER BY tc.table_schema, tc.table_name, tc.constraint_name, kcu.ordinal_position;`

// columnRow is one information_schema.columns row.
type columnRow struct {
	Schema string
	Table  string
	Column string
}

// fkRow is one joined foreign-key row; multi-column constraints span several
// rows sharing a constraint name.
type fkRow struct {
	ConstraintName string
	FromSchema     string
	FromTable      string
	FromColumn     string
	ToSchema       string
	ToTable        string
	ToColumn       string
}

// Datasets returns every user table with its columns in catalog order.
func (i *Introspector) Datasets(ctx context.Context) ([]schema.Dataset, error) {
	rows, err := i.pool.Query(ctx, datasetsSQL)
	if err != nil {
		return nil, fmt.Errorf("catalog: query columns: %w", err)
	}
	defer rows.Close()

	var raw []columnRow
	for rows.Next() {
		var r columnRow
		if err := rows.Scan(&r.Schema, &r.Table, &r.Column); err != nil {
			return nil, fmt.Errorf("catalog: scan column row: %w", err)
		}
		raw = append(raw, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: read columns: %w", err)
	}

	return assembleDatasets(i.dbName, raw), nil
}

// ForeignKeys returns every explicit foreign-key constraint.
func (i *Introspector) ForeignKeys(ctx context.Context) ([]schema.ForeignKey, error) {
	rows, err := i.pool.Query(ctx, foreignKeysSQL)
	if err != nil {
		return nil, fmt.Errorf("catalog: query foreign keys: %w", err)
	}
	defer rows.Close()

	var raw []fkRow
	for rows.Next() {
		var r fkRow
		if err := rows.Scan(
			&r.ConstraintName,
			&r.FromSchema, &r.FromTable, &r.FromColumn,
			&r.ToSchema, &r.ToTable, &r.ToColumn,
		); err != nil {
			return nil, fmt.Errorf("catalog: scan foreign key row: %w", err)
		}
		raw = append(raw, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: read foreign keys: %w", err)
	}

	return assembleForeignKeys(raw), nil
}

// assembleDatasets folds ordered column rows into datasets. Pure, so the
// row-to-dataset contract is testable without a database.
func assembleDatasets(dbName string, rows []columnRow) []schema.Dataset {
	var out []schema.Dataset
	index := make(map[string]int)

	for _, r := range rows {
		key := r.Schema + "." + r.Table
		idx, ok := index[key]
		if !ok {
			source := key
			if dbName != "" {
				source = dbName + "." + key
			}
			out = append(out, schema.Dataset{Source: source})
			idx = len(out) - 1
			index[key] = idx
		}
		out[idx].Columns = append(out[idx].Columns, r.Column)
	}

	return out
}

// assembleForeignKeys folds ordered rows into constraints, merging the
// column pairs of multi-column foreign keys. Pure.
func assembleForeignKeys(rows []fkRow) []schema.ForeignKey {
	var out []schema.ForeignKey
	index := make(map[string]int)

	for _, r := range rows {
		key := r.FromSchema + "." + r.FromTable + "." + r.ConstraintName
		idx, ok := index[key]
		if !ok {
			out = append(out, schema.ForeignKey{
				ConstraintName: r.ConstraintName,
				FromSchema:     r.FromSchema,
				FromTable:      r.FromTable,
				ToSchema:       r.ToSchema,
				ToTable:        r.ToTable,
			})
			idx = len(out) - 1
			index[key] = idx
		}
		out[idx].FromColumns = append(out[idx].FromColumns, r.FromColumn)
		out[idx].ToColumns = append(out[idx].ToColumns, r.ToColumn)
	}

	return out
}
