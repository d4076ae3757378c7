package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/FranksOps/bramble/internal/storage"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ensure postgresBackend implements storage.Backend
var _ storage.Backend = (*postgresBackend)(nil)

type postgresBackend struct {
	pool *pgxpool.Pool
}

const schema = `
CREATE TABLE IF NOT EXISTS question_records (
	id TEXT PRIMARY KEY,
	seed TEXT NOT NULL,
	question TEXT NOT NULL,
	has_answer BOOLEAN NOT NULL,
	answer TEXT,
	fields JSONB NOT NULL,
	related JSONB NOT NULL,
	category TEXT,
	locale TEXT,
	duration_ms BIGINT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
`

// New creates a new Postgres-backed storage.Backend.
func New(ctx context.Context, dsn string) (storage.Backend, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("context: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("context: %w", err)
	}

	_, err = pool.Exec(ctx, schema)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("context: %w", err)
	}

	return &postgresBackend{pool: pool}, nil
}

func (b *postgresBackend) Save(ctx context.Context, rec *storage.Record) error {
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
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = b.pool.Exec(ctx, query,
		rec.ID,
		rec.Seed,
		rec.Question,
		rec.HasAnswer,
		rec.Answer,
		fieldsJSON,
		relatedJSON,
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

func (b *postgresBackend) Query(ctx context.Context, filter storage.Filter) ([]*storage.Record, error) {
	query := `SELECT id, seed, question, has_answer, answer, fields, related, category, locale, duration_ms, created_at FROM question_records WHERE 1=1`
	args := []any{}
	paramCount := 1

	if filter.Seed != "" {
		query += fmt.Sprintf(` AND seed = $%d`, paramCount)
		args = append(args, filter.Seed)
		paramCount++
	}
	if filter.Question != "" {
		query += fmt.Sprintf(` AND question = $%d`, paramCount)
		args = append(args, filter.Question)
		paramCount++
	}
	if filter.HasAnswer != nil {
		query += fmt.Sprintf(` AND has_answer = $%d`, paramCount)
		args = append(args, *filter.HasAnswer)
		paramCount++
	}
	if filter.Category != "" {
		query += fmt.Sprintf(` AND category = $%d`, paramCount)
		args = append(args, filter.Category)
		paramCount++
	}
	if filter.Locale != "" {
		query += fmt.Sprintf(` AND locale = $%d`, paramCount)
		args = append(args, filter.Locale)
		paramCount++
	}
	if filter.Since != nil {
		query += fmt.Sprintf(` AND created_at >= $%d`, paramCount)
		args = append(args, *filter.Since)
		paramCount++
	}

	query += ` ORDER BY created_at DESC`

	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, paramCount)
		args = append(args, filter.Limit)
		paramCount++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, paramCount)
		args = append(args, filter.Offset)
		paramCount++
	}

	rows, err := b.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("context: %w", err)
	}
	defer rows.Close()

	var results []*storage.Record
	for rows.Next() {
		var r storage.Record
		var fieldsJSON, relatedJSON []byte
		var durationMs int64

		err := rows.Scan(
			&r.ID, &r.Seed, &r.Question, &r.HasAnswer, &r.Answer, &fieldsJSON,
			&relatedJSON, &r.Category, &r.Locale, &durationMs, &r.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("context: %w", err)
		}

		r.Duration = time.Duration(durationMs) * time.Millisecond
		if err := json.Unmarshal(fieldsJSON, &r.Fields); err != nil {
			return nil, fmt.Errorf("context: %w", err)
		}
		if err := json.Unmarshal(relatedJSON, &r.Related); err != nil {
			return nil, fmt.Errorf("context: %w", err)
		}

		results = append(results, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("context: %w", err)
	}

	return results, nil
}

func (b *postgresBackend) Close() error {
	b.pool.Close()
	return nil
}
