package queryset

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoad(t *testing.T) {
	expected := writeFile(t, "expected.json", `[
		{"question": "How many users?", "query": "SELECT COUNT(*) FROM users"},
		{"id": "q2", "question": "All names", "query": "SELECT name FROM users"}
	]`)
	generated := writeFile(t, "generated.json", `[
		{"query": "SELECT COUNT(id) FROM users"},
		{"query": "SELECT name FROM users ORDER BY name"}
	]`)

	pairs, err := Load(expected, generated)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(pairs))
	}
	if pairs[0].ID == "" {
		t.Fatalf("expected a generated id for the first pair")
	}
	if pairs[1].ID != "q2" {
		t.Fatalf("expected explicit id to be kept: %s", pairs[1].ID)
	}
	if pairs[0].Question != "How many users?" {
		t.Fatalf("unexpected question: %s", pairs[0].Question)
	}
	if pairs[1].Generated != "SELECT name FROM users ORDER BY name" {
		t.Fatalf("unexpected generated query: %s", pairs[1].Generated)
	}
}

func TestLoadSizeMismatch(t *testing.T) {
	expected := writeFile(t, "expected.json", `[{"query": "SELECT 1"}]`)
	generated := writeFile(t, "generated.json", `[]`)
	if _, err := Load(expected, generated); err == nil {
		t.Fatalf("expected size mismatch error")
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	bad := writeFile(t, "bad.json", `{"not": "an array"}`)
	if _, err := LoadFile(bad); err == nil {
		t.Fatalf("expected error for malformed query set")
	}
}
