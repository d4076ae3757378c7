// Package pipeline orchestrates a full discovery session: collect related
// questions for each seed, answer them, classify them, and persist the
// records through a storage backend.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/FranksOps/bramble/internal/analyzer"
	"github.com/FranksOps/bramble/internal/discovery"
	"github.com/FranksOps/bramble/internal/report"
	"github.com/FranksOps/bramble/internal/serp"
	"github.com/FranksOps/bramble/internal/storage"
)

// Client is the slice of the question client the pipeline drives. The
// root package's Client satisfies it.
type Client interface {
	CollectRelatedQuestions(ctx context.Context, text, locale string, max int) ([]string, error)
	Answer(ctx context.Context, question, locale string) (*discovery.Record, error)
}

// Pipeline runs discovery sessions against a single client and backend.
type Pipeline struct {
	client  Client
	backend storage.Backend
	locale  string
	logger  *slog.Logger
}

// Config carries the components a Pipeline needs.
type Config struct {
	Client  Client
	Backend storage.Backend
	Locale  string // recorded on each persisted record
	Logger  *slog.Logger
}

// New validates the config and returns a Pipeline.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Client == nil {
		return nil, errors.New("pipeline: client is nil")
	}
	if cfg.Backend == nil {
		return nil, errors.New("pipeline: backend is nil")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Pipeline{
		client:  cfg.Client,
		backend: cfg.Backend,
		locale:  cfg.Locale,
		logger:  logger,
	}, nil
}

// Run discovers up to max related questions per seed (NoLimit for a single
// hop), answers the seed and every discovered question, and persists one
// record each. Answer extraction failures on individual questions are logged
// and skipped. Traversal failures, storage failures, and block verdicts abort
// the run, since after a block every further request would fail the same way.
func (p *Pipeline) Run(ctx context.Context, seeds []string, max int) (report.Summary, error) {
	var records []*storage.Record

	for _, seed := range seeds {
		questions, err := p.client.CollectRelatedQuestions(ctx, seed, p.locale, max)
		if err != nil {
			return report.Summary{}, fmt.Errorf("collect %q: %w", seed, err)
		}
		p.logger.Info("collected related questions", "seed", seed, "count", len(questions))

		for _, q := range append([]string{seed}, questions...) {
			start := time.Now()
			rec, err := p.client.Answer(ctx, q, p.locale)
			if err != nil {
				var blocked *serp.BlockedError
				if errors.As(err, &blocked) || ctx.Err() != nil {
					return report.Summary{}, fmt.Errorf("answer %q: %w", q, err)
				}
				p.logger.Warn("answer extraction failed", "question", q, "error", err)
				continue
			}

			stored := &storage.Record{
				ID:        uuid.New().String(),
				Seed:      seed,
				Question:  rec.Question,
				HasAnswer: rec.HasAnswer,
				Answer:    rec.Answer,
				Fields:    rec.Fields,
				Related:   rec.Related,
				Category:  string(analyzer.Classify(rec.Question)),
				Locale:    p.locale,
				Duration:  time.Since(start),
				CreatedAt: time.Now().UTC(),
			}

			if err := p.backend.Save(ctx, stored); err != nil {
				return report.Summary{}, fmt.Errorf("save record for %q: %w", q, err)
			}
			records = append(records, stored)
		}
	}

	return report.GenerateSummary(records), nil
}
