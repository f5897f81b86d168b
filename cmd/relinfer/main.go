// Command relinfer runs one relationship inference pass from a JSON run
// config and prints the aggregated result as JSON.
//
// The run config is the artifact cmd/introspect emits:
//
//	{
//	  "run_id": "nightly-2026-08-23",
//	  "datasets": [{"source": "db.public.orders", "columns": ["id", ...]}, ...],
//	  "foreign_keys": [...],
//	  "evidence": {"kind": "postgres", "dsn": "...", "sample_limit": 10000},
//	  "concurrency": 5
//	}
//
// Progress is logged to stderr; the result JSON goes to stdout so it can be
// piped into downstream tooling.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"relinfer/internal/evidence"
	_ "relinfer/internal/evidence/mssql"
	_ "relinfer/internal/evidence/postgres"
	_ "relinfer/internal/evidence/sqlite"
	"relinfer/internal/metrics"
	"relinfer/internal/metrics/datadog"
	"relinfer/internal/progress"
	"relinfer/internal/relationship"
	"relinfer/internal/schema"
)

// runConfig is the JSON shape cmd/relinfer consumes.
type runConfig struct {
	RunID       string              `json:"run_id"`
	Datasets    []schema.Dataset    `json:"datasets"`
	ForeignKeys []schema.ForeignKey `json:"foreign_keys"`
	Evidence    evidence.Config     `json:"evidence"`
	Concurrency int                 `json:"concurrency"`
}

func main() {
	var (
		cfgPath = flag.String("config", "", "path to discovery run config JSON")
		pretty  = flag.Bool("pretty", true, "pretty-print JSON output")

		// Datadog metrics are opt-in; without -datadog the run uses the Nop
		// backend and emits nothing.
		useDatadog = flag.Bool("datadog", false, "publish run metrics to Datadog")
		ddTags     = flag.String("dd-tags", "", `extra Datadog tags, e.g. "env:prod,service:discovery"`)
	)
	flag.Parse()

	if *cfgPath == "" {
		fmt.Fprintln(os.Stderr, "usage: relinfer -config path/to/run.json")
		os.Exit(2)
	}

	raw, err := os.ReadFile(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read config: %v\n", err)
		os.Exit(1)
	}

	var cfg runConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "parse config: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	logger := log.New(os.Stderr, "relinfer ", log.LstdFlags)

	src, err := evidence.New(ctx, cfg.Evidence)
	if err != nil {
		log.Fatalf("evidence source: %v", err)
	}
	defer src.Close()

	var backend metrics.Backend = metrics.Nop{}
	if *useDatadog {
		dd, err := datadog.NewBackend(ctx, datadog.Options{
			Tags: datadog.ParseTagsCSV(*ddTags),
		})
		if err != nil {
			log.Fatalf("datadog metrics: %v", err)
		}
		defer func() {
			if err := dd.Close(); err != nil {
				logger.Printf("stage=shutdown metrics flush err=%v", err)
			}
		}()
		backend = dd
	}

	d := &relationship.Discoverer{
		Evidence:    src,
		Concurrency: cfg.Concurrency,
		Log:         logger,
		Sink:        progress.LogSink{Log: logger},
		Metrics:     backend,
	}

	res, err := d.Discover(ctx, cfg.RunID, cfg.Datasets, cfg.ForeignKeys)
	if err != nil {
		log.Fatalf("discover: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(res); err != nil {
		log.Fatalf("encode result: %v", err)
	}
}
