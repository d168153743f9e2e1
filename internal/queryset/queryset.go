// Package queryset loads expected/generated query pairs from JSON files.
package queryset

import (
	"encoding/json"
	"os"

	"nl2sqleval/internal/result"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Entry is one query in a query-set file.
type Entry struct {
	ID       string `json:"id,omitempty"`
	Question string `json:"question,omitempty"`
	Query    string `json:"query"`
}

// LoadFile reads one query-set file.
func LoadFile(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read query set %s", path)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.Wrapf(err, "parse query set %s", path)
	}
	return entries, nil
}

// Load zips an expected and a generated query-set file, positionally, into
// evaluation pairs. The two files must have the same length. Pair ids come
// from the expected entry when present, otherwise a fresh UUID.
func Load(expectedPath, generatedPath string) ([]result.QueryPair, error) {
	expected, err := LoadFile(expectedPath)
	if err != nil {
		return nil, err
	}
	generated, err := LoadFile(generatedPath)
	if err != nil {
		return nil, err
	}
	return Zip(expected, generated)
}

// Zip pairs expected and generated entries by position.
func Zip(expected, generated []Entry) ([]result.QueryPair, error) {
	if len(expected) != len(generated) {
		return nil, errors.Errorf("query set size mismatch: %d expected vs %d generated", len(expected), len(generated))
	}
	pairs := make([]result.QueryPair, 0, len(expected))
	for i, exp := range expected {
		id := exp.ID
		if id == "" {
			id = newPairID()
		}
		question := exp.Question
		if question == "" {
			question = generated[i].Question
		}
		pairs = append(pairs, result.QueryPair{
			ID:        id,
			Question:  question,
			Expected:  exp.Query,
			Generated: generated[i].Query,
		})
	}
	return pairs, nil
}

func newPairID() string {
	if v7, err := uuid.NewV7(); err == nil {
		return v7.String()
	}
	return uuid.New().String()
}
