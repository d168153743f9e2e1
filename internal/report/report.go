// Package report persists and renders batch evaluation reports.
package report

import (
	"archive/tar"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"nl2sqleval/internal/eval"
	"nl2sqleval/internal/metrics"
	"nl2sqleval/internal/runinfo"
	"nl2sqleval/internal/util"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

const (
	// ArchiveName is the compressed batch archive written next to report.json.
	ArchiveName = "report.tar.zst"
	// ArchiveCodec is the compression codec of the batch archive.
	ArchiveCodec = "zstd"
)

// Reporter writes batch artifacts to disk.
type Reporter struct {
	OutputDir string
	batchSeq  int
}

// Batch describes one report directory.
type Batch struct {
	ID  string
	Dir string
}

// Entry is the persisted form of one evaluation record.
type Entry struct {
	ID                   string     `json:"id"`
	Question             string     `json:"question,omitempty"`
	ExpectedSQL          string     `json:"expected_sql"`
	GeneratedSQL         string     `json:"generated_sql"`
	ExpectedHighlighted  string     `json:"expected_highlighted,omitempty"`
	GeneratedHighlighted string     `json:"generated_highlighted,omitempty"`
	ExpectedOutcome      string     `json:"expected_outcome"`
	GeneratedOutcome     string     `json:"generated_outcome"`
	ExpectedError        string     `json:"expected_error,omitempty"`
	GeneratedError       string     `json:"generated_error,omitempty"`
	ExpectedValid        bool       `json:"expected_valid"`
	GeneratedValid       bool       `json:"generated_valid"`
	Compared             bool       `json:"compared"`
	Classification       string     `json:"classification,omitempty"`
	OverlapRatio         float64    `json:"overlap_ratio"`
	MissingRows          [][]string `json:"missing_rows,omitempty"`
	ExtraRows            [][]string `json:"extra_rows,omitempty"`
	ColumnMismatch       bool       `json:"column_mismatch,omitempty"`
}

// Summary is the batch-level metadata written as summary.json.
type Summary struct {
	Timestamp     string             `json:"timestamp"`
	ServerVersion string             `json:"server_version,omitempty"`
	ArchiveName   string             `json:"archive_name,omitempty"`
	ArchiveCodec  string             `json:"archive_codec,omitempty"`
	Metrics       metrics.State      `json:"metrics"`
	RunInfo       *runinfo.BasicInfo `json:"run_info,omitempty"`
}

// NewEntry converts an evaluation record into its persisted form.
func NewEntry(rec eval.Record) Entry {
	entry := Entry{
		ID:               rec.ID,
		Question:         rec.Question,
		ExpectedSQL:      rec.ExpectedSQL,
		GeneratedSQL:     rec.GeneratedSQL,
		ExpectedOutcome:  rec.Expected.Kind.String(),
		GeneratedOutcome: rec.Generated.Kind.String(),
		ExpectedError:    rec.Expected.Message,
		GeneratedError:   rec.Generated.Message,
		ExpectedValid:    rec.ExpectedValid,
		GeneratedValid:   rec.GeneratedValid,
	}
	entry.ExpectedHighlighted, entry.GeneratedHighlighted = HighlightDiff(rec.ExpectedSQL, rec.GeneratedSQL)
	if rec.Comparison != nil {
		entry.Compared = true
		entry.Classification = rec.Comparison.Classification.String()
		entry.OverlapRatio = rec.Comparison.OverlapRatio
		entry.MissingRows = rec.Comparison.MissingRows
		entry.ExtraRows = rec.Comparison.ExtraRows
		entry.ColumnMismatch = rec.Comparison.ColumnMismatch
	}
	return entry
}

// New creates a reporter that writes under outputDir.
func New(outputDir string) *Reporter {
	return &Reporter{OutputDir: outputDir}
}

// NewBatch allocates a new report directory.
func (r *Reporter) NewBatch() (Batch, error) {
	r.batchSeq++
	batchID := uuid.New().String()
	if v7, err := uuid.NewV7(); err == nil {
		batchID = v7.String()
	}
	dir := filepath.Join(r.OutputDir, fmt.Sprintf("batch_%04d_%s", r.batchSeq, batchID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Batch{}, errors.Wrap(err, "create report dir")
	}
	return Batch{ID: batchID, Dir: dir}, nil
}

// WriteReport writes report.json and summary.json for the batch.
func (r *Reporter) WriteReport(b Batch, records []eval.Record, summary Summary) error {
	entries := make([]Entry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, NewEntry(rec))
	}
	if err := writeJSON(filepath.Join(b.Dir, "report.json"), entries); err != nil {
		return err
	}
	if summary.Timestamp == "" {
		summary.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	return writeJSON(filepath.Join(b.Dir, "summary.json"), summary)
}

// WritePairArtifacts writes per-pair SQL and diff files for records whose
// comparison is anything other than an exact match, so mismatches can be
// replayed without digging through report.json.
func (r *Reporter) WritePairArtifacts(b Batch, records []eval.Record) error {
	for i, rec := range records {
		if rec.Comparison != nil && rec.Comparison.Classification.String() == "exact" {
			continue
		}
		dir := filepath.Join(b.Dir, fmt.Sprintf("pair_%04d", i+1))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "create pair dir")
		}
		if err := os.WriteFile(filepath.Join(dir, "expected.sql"), []byte(rec.ExpectedSQL+";\n"), 0o644); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, "generated.sql"), []byte(rec.GeneratedSQL+";\n"), 0o644); err != nil {
			return err
		}
		expHL, genHL := HighlightDiff(rec.ExpectedSQL, rec.GeneratedSQL)
		diff := "expected:  " + expHL + "\ngenerated: " + genHL + "\n"
		if err := os.WriteFile(filepath.Join(dir, "diff.txt"), []byte(diff), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// WriteArchive creates a compressed archive of the batch directory and
// returns its name and codec.
func (r *Reporter) WriteArchive(b Batch) (name string, codec string, err error) {
	archivePath := filepath.Join(b.Dir, ArchiveName)
	if removeErr := os.Remove(archivePath); removeErr != nil && !os.IsNotExist(removeErr) {
		return "", "", removeErr
	}
	defer func() {
		if err != nil {
			_ = os.Remove(archivePath)
		}
	}()
	file, err := os.Create(archivePath)
	if err != nil {
		return "", "", err
	}
	defer util.CloseWithErr(file, "archive output")

	zw, err := zstd.NewWriter(file)
	if err != nil {
		return "", "", err
	}
	defer func() {
		if closeErr := zw.Close(); err == nil && closeErr != nil {
			err = closeErr
		}
	}()

	tw := tar.NewWriter(zw)
	defer func() {
		if closeErr := tw.Close(); err == nil && closeErr != nil {
			err = closeErr
		}
	}()

	walkErr := filepath.WalkDir(b.Dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || path == archivePath {
			return nil
		}
		rel, err := filepath.Rel(b.Dir, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)
		if err := tw.WriteHeader(header); err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		if _, err := io.Copy(tw, src); err != nil {
			util.CloseWithErr(src, "archive source")
			return err
		}
		util.CloseWithErr(src, "archive source")
		return nil
	})
	if walkErr != nil {
		return "", "", walkErr
	}
	return ArchiveName, ArchiveCodec, nil
}

// LoadEntries reads report.json back from a batch directory.
func LoadEntries(dir string) ([]Entry, error) {
	data, err := os.ReadFile(filepath.Join(dir, "report.json"))
	if err != nil {
		return nil, errors.Wrap(err, "read report")
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.Wrap(err, "parse report")
	}
	return entries, nil
}

// LoadSummary reads summary.json back from a batch directory.
func LoadSummary(dir string) (Summary, error) {
	data, err := os.ReadFile(filepath.Join(dir, "summary.json"))
	if err != nil {
		return Summary{}, errors.Wrap(err, "read summary")
	}
	var summary Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		return Summary{}, errors.Wrap(err, "parse summary")
	}
	return summary, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create report file")
	}
	defer util.CloseWithErr(f, "report output")
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
