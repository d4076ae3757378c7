package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/FranksOps/bramble/internal/storage"
	_ "modernc.org/sqlite"
)

// ensure sqliteBackend implements storage.Backend
var _ storage.Backend = (*sqliteBackend)(nil)

type sqliteBackend struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS question_records (
	id TEXT PRIMARY KEY,
	seed TEXT NOT NULL,
	question TEXT NOT NULL,
	has_answer BOOLEAN NOT NULL,
	answer TEXT,
	fields TEXT NOT NULL,
	related TEXT NOT NULL,
	category TEXT,
	locale TEXT,
	duration_ms INTEGER NOT NULL,
	created_at DATETIME NOT NULL
);
`

// New creates a new SQLite-backed storage.Backend.
func New(dsn string) (storage.Backend, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("context: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("context: %w", err)
	}

	return &sqliteBackend{db: db}, nil
}

func (b *sqliteBackend) Save(ctx context.Context, rec *storage.Record) error {
	fieldsJSON, err := json.Marshal(rec.Fields)
	if err != nil {
		return fmt.Errorf("context: %w", err)
	}

	relatedJSON, err := json.Marshal(rec.Related)
	if err != nil {
		return fmt.Errorf("context: %w", err)
	}

	query := `
	INSERT INTO question_records (
		id, seed, question, has_answer, answer, fields, related, category, locale, duration_ms, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = b.db.ExecContext(ctx, query,
		rec.ID,
		rec.Seed,
		rec.Question,
		rec.HasAnswer,
		rec.Answer,
		string(fieldsJSON),
		string(relatedJSON),
		rec.Category,
		rec.Locale,
		rec.Duration.Milliseconds(),
		rec.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("context: %w", err)
	}

	return nil
}

func (b *sqliteBackend) Query(ctx context.Context, filter storage.Filter) ([]*storage.Record, error) {
	query := `SELECT id, seed, question, has_answer, answer, fields, related, category, locale, duration_ms, created_at FROM question_records WHERE 1=1`
	args := []any{}

	if filter.Seed != "" {
		query += ` AND seed = ?`
		args = append(args, filter.Seed)
	}
	if filter.Question != "" {
		query += ` AND question = ?`
		args = append(args, filter.Question)
	}
	if filter.HasAnswer != nil {
		query += ` AND has_answer = ?`
		args = append(args, *filter.HasAnswer)
	}
	if filter.Category != "" {
		query += ` AND category = ?`
		args = append(args, filter.Category)
	}
	if filter.Locale != "" {
		query += ` AND locale = ?`
		args = append(args, filter.Locale)
	}
	if filter.Since != nil {
		query += ` AND created_at >= ?`
		args = append(args, *filter.Since)
	}

	query += ` ORDER BY created_at DESC`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	} else if filter.Offset > 0 {
		// SQLite rejects OFFSET without a LIMIT clause; -1 means unlimited
		query += ` LIMIT -1`
	}
	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("context: %w", err)
	}
	defer rows.Close()

	var results []*storage.Record
	for rows.Next() {
		var r storage.Record
		var fieldsJSON, relatedJSON string
		var durationMs int64

		err := rows.Scan(
			&r.ID, &r.Seed, &r.Question, &r.HasAnswer, &r.Answer, &fieldsJSON,
			&relatedJSON, &r.Category, &r.Locale, &durationMs, &r.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("context: %w", err)
		}

		r.Duration = time.Duration(durationMs) * time.Millisecond
		if err := json.Unmarshal([]byte(fieldsJSON), &r.Fields); err != nil {
			return nil, fmt.Errorf("context: %w", err)
		}
		if err := json.Unmarshal([]byte(relatedJSON), &r.Related); err != nil {
			return nil, fmt.Errorf("context: %w", err)
		}

		results = append(results, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("context: %w", err)
	}

	return results, nil
}

func (b *sqliteBackend) Close() error {
	return b.db.Close()
}
