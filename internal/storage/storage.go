package storage

import (
	"context"
	"time"
)

// Record is one discovered question as persisted: the question, where
// it came from, and the answer when one was extracted.
type Record struct {
	ID        string
	Seed      string
	Question  string
	HasAnswer bool
	Answer    string
	Fields    map[string]string
	Related   []string
	Category  string
	Locale    string
	Duration  time.Duration
	CreatedAt time.Time
}

// Filter selects records for a query.
type Filter struct {
	Seed      string
	Question  string
	HasAnswer *bool
	Category  string
	Locale    string
	Since     *time.Time
	Limit     int
	Offset    int
}

// Backend defines the interface for storing and querying discovered
// questions.
type Backend interface {
	Save(ctx context.Context, rec *Record) error
	Query(ctx context.Context, filter Filter) ([]*Record, error)
	Close() error
}
