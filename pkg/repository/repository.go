package repository

import (
	"context"

	"github.com/m-mizutani/pika/pkg/model"
)

// Repository defines persistence for conversation turns and cached answers
type Repository interface {
	// PutTurn appends a turn to its session
	PutTurn(ctx context.Context, turn *model.Turn) error

	// RecentTurns retrieves up to limit most recent turns of a session.
	// The order of the returned slice is unspecified; callers sort by
	// CreatedAt themselves.
	RecentTurns(ctx context.Context, id model.SessionID, limit int) ([]*model.Turn, error)

	// PutFAQ saves a cached answer entry, overwriting an entry with the
	// same ID
	PutFAQ(ctx context.Context, faq *model.FAQ) error

	// GetFAQ retrieves a cached answer entry by ID
	GetFAQ(ctx context.Context, id model.FAQID) (*model.FAQ, error)

	// ListFAQs retrieves all cached answer entries, oldest first
	ListFAQs(ctx context.Context) ([]*model.FAQ, error)
}
