package storage

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/qepting91/reddit-query/internal/domain"
)

// Record is one query outcome as stored in the history file.
type Record struct {
	ID          string      `json:"id"`
	Subreddit   string      `json:"subreddit"`
	Kind        domain.Kind `json:"kind"`
	Subscribers *int        `json:"subscribers,omitempty"`
	Titles      []string    `json:"titles,omitempty"`
	Error       string      `json:"error,omitempty"`
	FetchedAt   time.Time   `json:"fetched_at"`
}

// NewRecord stamps a record for q. err may be nil.
func NewRecord(q domain.Query, err error) Record {
	rec := Record{
		ID:        uuid.NewString(),
		Subreddit: q.Subreddit,
		Kind:      q.Kind,
		FetchedAt: time.Now().UTC(),
	}
	if err != nil {
		rec.Error = err.Error()
	}
	return rec
}

// WriterService appends records to an NDJSON history file
type WriterService struct {
	FilePath string
}

func (w *WriterService) Append(records ...Record) error {
	if dir := filepath.Dir(w.FilePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create history dir: %w", err)
		}
	}

	f, err := os.OpenFile(w.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open history file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, rec := range records {
		// Write as NDJSON
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("write history record: %w", err)
		}
	}
	return nil
}

// ReadRecords loads every parseable line of an NDJSON history file.
// A missing file yields no records.
func ReadRecords(path string) ([]Record, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		var rec Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err == nil {
			records = append(records, rec)
		}
	}
	return records, scanner.Err()
}
