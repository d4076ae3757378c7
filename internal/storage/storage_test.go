package storage

import (
	"context"
	"testing"
	"time"
)

// ensure Record compiles and has the fields expected
func TestRecord_Types(t *testing.T) {
	_ = Record{
		ID:        "test1234",
		Seed:      "why is the sky blue",
		Question:  "how high is the sky",
		HasAnswer: true,
		Answer:    "about 100 km to the Karman line",
		Fields:    map[string]string{"response": "about 100 km to the Karman line"},
		Related:   []string{"what is the Karman line"},
		Category:  "how",
		Locale:    "us",
		Duration:  10 * time.Millisecond,
		CreatedAt: time.Now(),
	}

	boolTrue := true
	now := time.Now()
	_ = Filter{
		Seed:      "why is the sky blue",
		Question:  "how high is the sky",
		HasAnswer: &boolTrue,
		Category:  "how",
		Locale:    "us",
		Since:     &now,
		Limit:     10,
		Offset:    0,
	}
}

// Ensure Backend interface exists and is implementable
type mockBackend struct{}

func (m *mockBackend) Save(ctx context.Context, rec *Record) error { return nil }
func (m *mockBackend) Query(ctx context.Context, filter Filter) ([]*Record, error) {
	return nil, nil
}
func (m *mockBackend) Close() error { return nil }

func TestBackendInterface(t *testing.T) {
	var b Backend = &mockBackend{}
	_ = b
}
