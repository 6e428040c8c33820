package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pika/pkg/model"
)

// Memory implements Repository in process memory. It backs tests and the
// --memory mode of the CLI; all data is lost on exit.
type Memory struct {
	mu    sync.Mutex
	turns []*model.Turn
	faqs  []*model.FAQ
}

// NewMemory creates an empty in-memory Repository
func NewMemory() *Memory {
	return &Memory{}
}

func (r *Memory) PutTurn(ctx context.Context, turn *model.Turn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *turn
	r.turns = append(r.turns, &copied)
	return nil
}

func (r *Memory) RecentTurns(ctx context.Context, id model.SessionID, limit int) ([]*model.Turn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var turns []*model.Turn
	for _, turn := range r.turns {
		if turn.SessionID == id {
			copied := *turn
			turns = append(turns, &copied)
		}
	}

	// Newest first, as the durable store would return them
	sort.SliceStable(turns, func(i, j int) bool {
		return turns[i].CreatedAt.After(turns[j].CreatedAt)
	})
	if limit > 0 && len(turns) > limit {
		turns = turns[:limit]
	}

	return turns, nil
}

func (r *Memory) PutFAQ(ctx context.Context, faq *model.FAQ) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *faq
	for i, existing := range r.faqs {
		if existing.ID == faq.ID {
			r.faqs[i] = &copied
			return nil
		}
	}
	r.faqs = append(r.faqs, &copied)
	return nil
}

func (r *Memory) GetFAQ(ctx context.Context, id model.FAQID) (*model.FAQ, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, faq := range r.faqs {
		if faq.ID == id {
			copied := *faq
			return &copied, nil
		}
	}
	return nil, goerr.Wrap(ErrFAQNotFound, "no such entry", goerr.V("faq_id", id))
}

func (r *Memory) ListFAQs(ctx context.Context) ([]*model.FAQ, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	faqs := make([]*model.FAQ, 0, len(r.faqs))
	for _, faq := range r.faqs {
		copied := *faq
		faqs = append(faqs, &copied)
	}
	return faqs, nil
}
