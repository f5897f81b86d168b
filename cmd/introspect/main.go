// Command introspect bootstraps a discovery run config from a live Postgres
// database.
//
// It reads tables, columns, and explicit foreign keys from
// information_schema and emits the JSON run config cmd/relinfer consumes, so
// a full pass over a database is:
//
//	introspect -dsn "postgresql://..." -db warehouse > run.json
//	relinfer -config run.json
//
// The DSN can also be supplied via the DSN environment variable; the -dsn
// flag wins when both are set.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"relinfer/internal/catalog"
	"relinfer/internal/evidence"
	"relinfer/internal/limiter"
	"relinfer/internal/schema"
)

// runConfig mirrors the shape cmd/relinfer reads.
type runConfig struct {
	RunID       string              `json:"run_id"`
	Datasets    []schema.Dataset    `json:"datasets"`
	ForeignKeys []schema.ForeignKey `json:"foreign_keys"`
	Evidence    evidence.Config     `json:"evidence"`
	Concurrency int                 `json:"concurrency"`
}

func main() {
	var (
		flagDSN         = flag.String("dsn", "", "Postgres DSN (falls back to the DSN environment variable)")
		flagDB          = flag.String("db", "", "database name used to qualify dataset sources (db.schema.table)")
		flagRunID       = flag.String("run-id", "", "run identifier recorded into the config; defaults to a timestamp")
		flagSampleLimit = flag.Int("sample-limit", evidence.DefaultSampleLimit, "rows sampled per overlap probe")
		flagConcurrency = flag.Int("concurrency", limiter.DefaultLimit, "max simultaneous overlap probes")
		flagPretty      = flag.Bool("pretty", true, "pretty-print JSON output")
	)
	flag.Parse()

	dsn := strings.TrimSpace(*flagDSN)
	if dsn == "" {
		dsn = strings.TrimSpace(os.Getenv("DSN"))
	}
	if dsn == "" {
		fmt.Fprintln(os.Stderr, "missing -dsn (or DSN environment variable)")
		flag.Usage()
		os.Exit(2)
	}

	runID := *flagRunID
	if runID == "" {
		runID = "run-" + time.Now().UTC().Format("20060102-150405")
	}

	// Bound the introspection; catalog queries against a healthy database are
	// fast, and a hung connection should fail loudly.
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	intro, err := catalog.New(ctx, dsn, *flagDB)
	if err != nil {
		log.Fatalf("introspect: %v", err)
	}
	defer intro.Close()

	datasets, err := intro.Datasets(ctx)
	if err != nil {
		log.Fatalf("introspect datasets: %v", err)
	}
	fks, err := intro.ForeignKeys(ctx)
	if err != nil {
		log.Fatalf("introspect foreign keys: %v", err)
	}

	cfg := runConfig{
		RunID:       runID,
		Datasets:    datasets,
		ForeignKeys: fks,
		Evidence: evidence.Config{
			Kind:        "postgres",
			DSN:         dsn,
			SampleLimit: *flagSampleLimit,
		},
		Concurrency: *flagConcurrency,
	}

	enc := json.NewEncoder(os.Stdout)
	if *flagPretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(cfg); err != nil {
		log.Fatalf("encode config: %v", err)
	}
}
