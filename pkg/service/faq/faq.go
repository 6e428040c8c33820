// Package faq implements the answer cache: a growing set of question and
// answer pairs with fuzzy lookup by textual similarity.
package faq

import (
	"context"
	_ "embed"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pika/pkg/model"
	"github.com/m-mizutani/pika/pkg/repository"
	"github.com/m-mizutani/pika/pkg/utils/logging"
	"gopkg.in/yaml.v3"
)

// DefaultThreshold is the minimum similarity score for Lookup to report a hit
const DefaultThreshold = 0.5

//go:embed seed.yml
var seedRaw []byte

type seedEntry struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

// Service owns the set of cached answers on top of a Repository
type Service struct {
	repo      repository.Repository
	threshold float64
}

type Option func(*Service)

// WithThreshold overrides the lookup match threshold
func WithThreshold(v float64) Option {
	return func(s *Service) {
		s.threshold = v
	}
}

// New creates a Service with the given repository
func New(repo repository.Repository, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		threshold: DefaultThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lookup scans every cached entry, scores it against question, and returns
// the entry with the strictly highest score when it reaches the threshold.
// Ties keep the earliest stored entry. Returns nil when the cache is empty
// or nothing clears the threshold.
//
// The scan is linear on purpose: the cache stays small and fuzzy match
// quality matters more than lookup speed here.
func (s *Service) Lookup(ctx context.Context, question string) (*model.FAQ, error) {
	faqs, err := s.repo.ListFAQs(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to scan cached answers")
	}

	var best *model.FAQ
	bestScore := 0.0
	for _, faq := range faqs {
		if score := Similarity(question, faq.Question); score > bestScore {
			bestScore = score
			best = faq
		}
	}

	if best == nil || bestScore < s.threshold {
		logging.From(ctx).Debug("no cached answer matched",
			"question", question, "best_score", bestScore, "scanned", len(faqs))
		return nil, nil
	}

	logging.From(ctx).Info("cached answer matched",
		"faq_id", best.ID, "score", bestScore)
	return best, nil
}

// Insert always creates a new entry with a fresh ID, even when the question
// is a near duplicate of one already stored. Near duplicates accumulate
// over time; that is accepted behavior, not a bug.
func (s *Service) Insert(ctx context.Context, question, answer string) (*model.FAQ, error) {
	faq := &model.FAQ{
		ID:        model.NewFAQID(),
		Question:  question,
		Answer:    answer,
		CreatedAt: time.Now(),
	}

	if err := s.repo.PutFAQ(ctx, faq); err != nil {
		return nil, goerr.Wrap(err, "failed to save cached answer", goerr.V("faq_id", faq.ID))
	}
	return faq, nil
}

// Attach writes a generated answer onto an existing entry. ID and question
// stay untouched.
func (s *Service) Attach(ctx context.Context, faq *model.FAQ, answer string) error {
	faq.Answer = answer
	if err := s.repo.PutFAQ(ctx, faq); err != nil {
		return goerr.Wrap(err, "failed to update cached answer", goerr.V("faq_id", faq.ID))
	}
	return nil
}

// Bootstrap populates an empty cache with the embedded seed set. It does
// nothing once any entry exists, so repeated calls are safe.
func (s *Service) Bootstrap(ctx context.Context) error {
	faqs, err := s.repo.ListFAQs(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to check cache before seeding")
	}
	if len(faqs) > 0 {
		return nil
	}

	var seeds []seedEntry
	if err := yaml.Unmarshal(seedRaw, &seeds); err != nil {
		return goerr.Wrap(err, "failed to parse seed data")
	}

	logging.From(ctx).Info("seeding answer cache", "count", len(seeds))
	for _, seed := range seeds {
		if _, err := s.Insert(ctx, seed.Question, seed.Answer); err != nil {
			return err
		}
	}
	return nil
}
