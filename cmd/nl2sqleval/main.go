package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"sync"

	"nl2sqleval/internal/config"
	"nl2sqleval/internal/db"
	"nl2sqleval/internal/eval"
	"nl2sqleval/internal/executor"
	"nl2sqleval/internal/metrics"
	"nl2sqleval/internal/queryset"
	"nl2sqleval/internal/report"
	"nl2sqleval/internal/result"
	"nl2sqleval/internal/uploader"
	"nl2sqleval/internal/util"
	"nl2sqleval/internal/validator"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	expectedPath := flag.String("expected", "", "expected query set (overrides config)")
	generatedPath := flag.String("generated", "", "generated query set (overrides config)")
	flag.Parse()

	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	cfg, err := config.Load(*configPath)
	if err != nil {
		util.Errorf("failed to load config: %v", err)
		os.Exit(1)
	}
	if cfg.Logging.LogFile != "" {
		logFile, err := os.OpenFile(cfg.Logging.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			util.Errorf("failed to open log file: %v", err)
			os.Exit(1)
		}
		defer util.CloseWithErr(logFile, "log file")
		log.SetOutput(io.MultiWriter(os.Stdout, logFile))
	}
	if *expectedPath != "" {
		cfg.ExpectedFile = *expectedPath
	}
	if *generatedPath != "" {
		cfg.GeneratedFile = *generatedPath
	}
	if cfg.ExpectedFile == "" || cfg.GeneratedFile == "" {
		util.Errorf("expected and generated query set files are required")
		os.Exit(1)
	}

	pairs, err := queryset.Load(cfg.ExpectedFile, cfg.GeneratedFile)
	if err != nil {
		util.Errorf("failed to load query sets: %v", err)
		os.Exit(1)
	}
	util.Infof("evaluating %d pair(s) with %d worker(s)", len(pairs), cfg.Workers)

	ctx := context.Background()
	if err := db.CheckDatabase(ctx, cfg.DSN, cfg.Database); err != nil {
		util.Errorf("database check failed: %v", err)
		os.Exit(1)
	}

	tracker := &metrics.Tracker{}
	records, serverVersion, err := runBatch(ctx, cfg, pairs, tracker)
	if err != nil {
		util.Errorf("evaluation failed: %v", err)
		os.Exit(1)
	}

	if cfg.Logging.Verbose {
		for _, rec := range records {
			if rec.Expected.Message != "" {
				util.Detailf("pair %s expected: %s", rec.ID, rec.Expected.Message)
			}
			if rec.Generated.Message != "" {
				util.Detailf("pair %s generated: %s", rec.ID, rec.Generated.Message)
			}
		}
	}

	state := tracker.Snapshot()
	entries := make([]report.Entry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, report.NewEntry(rec))
	}
	report.Render(os.Stdout, entries, state)

	if err := writeReport(ctx, cfg, records, state, serverVersion); err != nil {
		util.Errorf("failed to write report: %v", err)
		os.Exit(1)
	}
}

// runBatch shards pairs across workers. Each worker owns its database
// connection and its parser; only the metrics tracker is shared.
func runBatch(ctx context.Context, cfg config.Config, pairs []result.QueryPair, tracker *metrics.Tracker) ([]eval.Record, string, error) {
	if cfg.Workers == 1 {
		exec, err := db.Open(cfg.DSN)
		if err != nil {
			return nil, "", err
		}
		defer util.CloseWithErr(exec, "database")
		exec.SetStatementTimeout(cfg.StatementTimeoutMs)
		version, err := exec.ServerVersion(ctx)
		if err != nil {
			return nil, "", err
		}
		records, err := newEvaluator(cfg, exec, tracker).EvaluateAll(ctx, pairs)
		return records, version, err
	}

	type shardResult struct {
		start   int
		records []eval.Record
		version string
		err     error
	}
	shards := shardPairs(pairs, cfg.Workers)
	results := make(chan shardResult, len(shards))
	var wg sync.WaitGroup
	for _, shard := range shards {
		wg.Add(1)
		go func(start int, part []result.QueryPair) {
			defer wg.Done()
			exec, err := db.Open(cfg.DSN)
			if err != nil {
				results <- shardResult{start: start, err: err}
				return
			}
			defer util.CloseWithErr(exec, "database")
			exec.SetStatementTimeout(cfg.StatementTimeoutMs)
			version, err := exec.ServerVersion(ctx)
			if err != nil {
				results <- shardResult{start: start, err: err}
				return
			}
			records, err := newEvaluator(cfg, exec, tracker).EvaluateAll(ctx, part)
			results <- shardResult{start: start, records: records, version: version, err: err}
		}(shard.start, shard.pairs)
	}
	wg.Wait()
	close(results)

	ordered := make([]eval.Record, len(pairs))
	var version string
	for res := range results {
		if res.err != nil {
			return nil, "", res.err
		}
		copy(ordered[res.start:], res.records)
		version = res.version
	}
	return ordered, version, nil
}

type shard struct {
	start int
	pairs []result.QueryPair
}

func shardPairs(pairs []result.QueryPair, workers int) []shard {
	if workers > len(pairs) {
		workers = len(pairs)
	}
	if workers <= 1 {
		return []shard{{start: 0, pairs: pairs}}
	}
	shards := make([]shard, 0, workers)
	chunk := (len(pairs) + workers - 1) / workers
	for start := 0; start < len(pairs); start += chunk {
		end := start + chunk
		if end > len(pairs) {
			end = len(pairs)
		}
		shards = append(shards, shard{start: start, pairs: pairs[start:end]})
	}
	return shards
}

func newEvaluator(cfg config.Config, exec *db.DB, tracker *metrics.Tracker) *eval.Evaluator {
	return &eval.Evaluator{
		Runner:  executor.New(exec, cfg.MaxResultRows),
		Checker: validator.NewEngineChecker(exec),
		Opts: eval.Options{
			IgnoreRowOrder:    cfg.Compare.IgnoreRowOrder,
			IgnoreColumnOrder: cfg.Compare.IgnoreColumnOrder,
			ValidateSyntax:    cfg.Compare.ValidateSyntax,
			CompareResults:    cfg.Compare.CompareResults,
		},
		Tracker: tracker,
	}
}

func writeReport(ctx context.Context, cfg config.Config, records []eval.Record, state metrics.State, serverVersion string) error {
	r := report.New(cfg.ReportDir)
	batch, err := r.NewBatch()
	if err != nil {
		return err
	}
	summary := report.Summary{
		ServerVersion: serverVersion,
		ArchiveName:   report.ArchiveName,
		ArchiveCodec:  report.ArchiveCodec,
		Metrics:       state,
		RunInfo:       cfg.RunInfo,
	}
	if err := r.WritePairArtifacts(batch, records); err != nil {
		return err
	}
	// The archive is cut last so it carries report.json and summary.json
	// alongside the pair artifacts.
	if err := r.WriteReport(batch, records, summary); err != nil {
		return err
	}
	if _, _, err := r.WriteArchive(batch); err != nil {
		return err
	}
	util.Infof("report written to %s", batch.Dir)

	up, err := uploader.ForConfig(cfg.Storage)
	if err != nil {
		return err
	}
	if up.Enabled() {
		location, err := up.UploadDir(ctx, batch.Dir)
		if err != nil {
			return err
		}
		util.Highlightf("report uploaded to %s", location)
	}
	return nil
}
