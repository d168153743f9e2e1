package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"nl2sqleval/internal/config"
	"nl2sqleval/internal/report"
	"nl2sqleval/internal/uploader"
	"nl2sqleval/internal/util"
)

func main() {
	batchDir := flag.String("batch", "", "report batch directory (defaults to the newest batch under -reports)")
	reportDir := flag.String("reports", "reports", "root directory containing batch reports")
	configPath := flag.String("config", "", "config file, only needed with -upload")
	upload := flag.Bool("upload", false, "upload the batch directory to configured cloud storage")
	flag.Parse()

	dir := *batchDir
	if dir == "" {
		latest, err := latestBatch(*reportDir)
		if err != nil {
			util.Errorf("failed to locate batch: %v", err)
			os.Exit(1)
		}
		dir = latest
	}

	entries, err := report.LoadEntries(dir)
	if err != nil {
		util.Errorf("failed to load report: %v", err)
		os.Exit(1)
	}
	summary, err := report.LoadSummary(dir)
	if err != nil {
		util.Errorf("failed to load summary: %v", err)
		os.Exit(1)
	}

	util.Infof("batch %s (written %s, server %s)", filepath.Base(dir), summary.Timestamp, summary.ServerVersion)
	report.Render(os.Stdout, entries, summary.Metrics)

	if !*upload {
		return
	}
	cfg := config.Default()
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
		if err != nil {
			util.Errorf("failed to load config: %v", err)
			os.Exit(1)
		}
	}
	up, err := uploader.ForConfig(cfg.Storage)
	if err != nil {
		util.Errorf("failed to build uploader: %v", err)
		os.Exit(1)
	}
	if !up.Enabled() {
		util.Errorf("no cloud storage backend is configured")
		os.Exit(1)
	}
	location, err := up.UploadDir(context.Background(), dir)
	if err != nil {
		util.Errorf("upload failed: %v", err)
		os.Exit(1)
	}
	util.Highlightf("report uploaded to %s", location)
}

// latestBatch returns the lexically newest batch directory under root.
// Batch names start with a zero-padded sequence so lexical order matches
// creation order within a run.
func latestBatch(root string) (string, error) {
	dirEntries, err := os.ReadDir(root)
	if err != nil {
		return "", err
	}
	var names []string
	for _, e := range dirEntries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("no batch directories under %s", root)
	}
	sort.Strings(names)
	return filepath.Join(root, names[len(names)-1]), nil
}
