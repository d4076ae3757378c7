package csvbackend

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/FranksOps/bramble/internal/storage"
)

// ensure csvBackend implements storage.Backend
var _ storage.Backend = (*csvBackend)(nil)

type csvBackend struct {
	mu   sync.Mutex
	file *os.File
}

// headers defines the CSV column order
var headers = []string{
	"id",
	"seed",
	"question",
	"has_answer",
	"answer",
	"fields_json",
	"related_json",
	"category",
	"locale",
	"duration_ms",
	"created_at",
}

// New creates a new CSV-backed storage.Backend.
func New(filePath string) (storage.Backend, error) {
	// Open file for appending, create if it doesn't exist
	f, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("context: %w", err)
	}

	// Check if file is empty to write headers
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("context: %w", err)
	}

	if info.Size() == 0 {
		w := csv.NewWriter(f)
		if err := w.Write(headers); err != nil {
			f.Close()
			return nil, fmt.Errorf("context: %w", err)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			f.Close()
			return nil, fmt.Errorf("context: %w", err)
		}
	}

	return &csvBackend{
		file: f,
	}, nil
}

func (b *csvBackend) Save(ctx context.Context, rec *storage.Record) error {
	fieldsJSON, err := json.Marshal(rec.Fields)
	if err != nil {
		return fmt.Errorf("context: %w", err)
	}

	relatedJSON, err := json.Marshal(rec.Related)
	if err != nil {
		return fmt.Errorf("context: %w", err)
	}

	record := []string{
		rec.ID,
		rec.Seed,
		rec.Question,
		strconv.FormatBool(rec.HasAnswer),
		rec.Answer,
		string(fieldsJSON),
		string(relatedJSON),
		rec.Category,
		rec.Locale,
		strconv.FormatInt(rec.Duration.Milliseconds(), 10),
		rec.CreatedAt.Format(time.RFC3339Nano),
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	// Ensure we're at the end of the file for appending (just in case)
	if _, err := b.file.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("context: %w", err)
	}

	w := csv.NewWriter(b.file)
	if err := w.Write(record); err != nil {
		return fmt.Errorf("context: %w", err)
	}
	w.Flush()

	if err := w.Error(); err != nil {
		return fmt.Errorf("context: %w", err)
	}

	return nil
}

func (b *csvBackend) Query(ctx context.Context, filter storage.Filter) ([]*storage.Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Seek to the beginning of the file to read all entries
	if _, err := b.file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("context: %w", err)
	}
	defer func() {
		// Restore pointer to end for writing
		_, _ = b.file.Seek(0, io.SeekEnd)
	}()

	r := csv.NewReader(b.file)

	// Read headers
	_, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return []*storage.Record{}, nil
		}
		return nil, fmt.Errorf("context: %w", err)
	}

	var allFiltered []*storage.Record

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("context: %w", err)
		}

		if len(record) != len(headers) {
			continue // skip malformed rows
		}

		hasAnswer, _ := strconv.ParseBool(record[3])
		var fields map[string]string
		if err := json.Unmarshal([]byte(record[5]), &fields); err != nil {
			// fallback to empty if parse fails
			fields = map[string]string{}
		}
		var related []string
		if err := json.Unmarshal([]byte(record[6]), &related); err != nil {
			related = []string{}
		}
		durationMs, _ := strconv.ParseInt(record[9], 10, 64)
		createdAt, _ := time.Parse(time.RFC3339Nano, record[10])

		res := &storage.Record{
			ID:        record[0],
			Seed:      record[1],
			Question:  record[2],
			HasAnswer: hasAnswer,
			Answer:    record[4],
			Fields:    fields,
			Related:   related,
			Category:  record[7],
			Locale:    record[8],
			Duration:  time.Duration(durationMs) * time.Millisecond,
			CreatedAt: createdAt,
		}

		// Apply filters
		if filter.Seed != "" && res.Seed != filter.Seed {
			continue
		}
		if filter.Question != "" && res.Question != filter.Question {
			continue
		}
		if filter.HasAnswer != nil && res.HasAnswer != *filter.HasAnswer {
			continue
		}
		if filter.Category != "" && res.Category != filter.Category {
			continue
		}
		if filter.Locale != "" && res.Locale != filter.Locale {
			continue
		}
		if filter.Since != nil && res.CreatedAt.Before(*filter.Since) {
			continue
		}

		allFiltered = append(allFiltered, res)
	}

	// Order by created_at DESC (reverse the slice)
	for i, j := 0, len(allFiltered)-1; i < j; i, j = i+1, j-1 {
		allFiltered[i], allFiltered[j] = allFiltered[j], allFiltered[i]
	}

	// Apply Offset
	if filter.Offset > 0 {
		if filter.Offset >= len(allFiltered) {
			return []*storage.Record{}, nil
		}
		allFiltered = allFiltered[filter.Offset:]
	}

	// Apply Limit
	if filter.Limit > 0 && filter.Limit < len(allFiltered) {
		allFiltered = allFiltered[:filter.Limit]
	}

	return allFiltered, nil
}

func (b *csvBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.file.Close()
}
